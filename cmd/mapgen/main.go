package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"blobtile/internal/autotile"
	"blobtile/internal/maps"
)

func main() {
	genType := flag.String("type", "", "generator type (terrain, caves)")
	seed := flag.Int64("seed", 0, "random seed (0 = random)")
	size := flag.String("size", "100x80", "world size as WxH")
	name := flag.String("name", "", "world name (default: generator type)")
	out := flag.String("out", "", "output file, .json or .json.zst (default: stdout)")
	flag.Parse()

	if *genType == "" {
		fmt.Fprintln(os.Stderr, "Error: -type is required")
		fmt.Fprintln(os.Stderr, "Usage: mapgen -type terrain|caves [-seed N] [-size WxH] [-name Name] [-out file.json[.zst]]")
		os.Exit(1)
	}

	w, h, err := parseSize(*size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	if *name == "" {
		*name = strings.ToUpper((*genType)[:1]) + (*genType)[1:]
	}

	fmt.Fprintf(os.Stderr, "Generating %dx%d %s world %q (seed %d)...\n", w, h, *genType, *name, *seed)

	world, err := generate(*genType, *name, w, h, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *out == "" {
		data, err := maps.EncodeWorld(world)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding world: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
	} else {
		if err := maps.SaveWorld(*out, world); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", *out)
	}

	printDistribution(world)
}

func generate(genType, name string, w, h int, seed int64) (*maps.World, error) {
	switch genType {
	case "terrain":
		g, flags := generateTerrain(w, h, seed)
		return buildWorld(name, g, flags)
	case "caves":
		return buildWorld(name, generateCaves(w, h, seed), nil)
	default:
		return nil, fmt.Errorf("unknown generator type %q (available: terrain, caves)", genType)
	}
}

func parseSize(s string) (int, int, error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q (expected WxH)", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil || w < 10 || w > maps.MaxDimension {
		return 0, 0, fmt.Errorf("invalid width %q (10..%d)", parts[0], maps.MaxDimension)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil || h < 10 || h > maps.MaxDimension {
		return 0, 0, fmt.Errorf("invalid height %q (10..%d)", parts[1], maps.MaxDimension)
	}
	return w, h, nil
}

func printDistribution(world *maps.World) {
	counts := make(map[autotile.MaterialID]int)
	flagged := 0
	for y := 0; y < world.Height(); y++ {
		for x := 0; x < world.Width(); x++ {
			t, _ := world.TileAt(x, y)
			counts[t.Background]++
			if t.Flags&autotile.FlagNonBlend != 0 {
				flagged++
			}
		}
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	total := world.Width() * world.Height()
	fmt.Fprintf(os.Stderr, "\nMaterial distribution:\n")
	for _, id := range ids {
		c := counts[autotile.MaterialID(id)]
		name := world.MaterialInfo(autotile.MaterialID(id)).Name
		fmt.Fprintf(os.Stderr, "  %-15s %5d (%5.1f%%)\n", name, c, float64(c)/float64(total)*100)
	}
	if flagged > 0 {
		fmt.Fprintf(os.Stderr, "  %d non-blending tiles\n", flagged)
	}
}
