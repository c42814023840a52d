package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"blobtile/internal/autotile"
	"blobtile/internal/config"
	"blobtile/internal/maps"
	"blobtile/internal/preview"
	"blobtile/internal/render"
)

var (
	fail = color.New(color.FgRed, color.Bold)
	ok   = color.New(color.FgGreen)
	head = color.New(color.FgCyan, color.Bold)
)

func main() {
	configPath := flag.String("config", "blobtile.yaml", "config file")
	modeName := flag.String("mode", "", "sampler mode (generic, background, raw, packed or a number)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *modeName != "" {
		cfg.Mode = *modeName
		if err := cfg.Validate(); err != nil {
			fail.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	t := tools{mode: cfg.SamplerMode(), rules: cfg.BlendRules(), workers: cfg.Workers}

	cmd, args := args[0], args[1:]
	need := func(n int, usage string) {
		if len(args) != n {
			fmt.Fprintln(os.Stderr, "Usage: maptools "+usage)
			os.Exit(1)
		}
	}

	switch cmd {
	case "validate":
		need(1, "validate <worlds-dir>")
		os.Exit(t.validate(args[0]))
	case "viz":
		need(1, "viz <world-file>")
		os.Exit(t.viz(args[0]))
	case "stats":
		need(1, "stats <world-file>")
		os.Exit(t.stats(args[0]))
	case "table":
		if len(args) > 1 {
			fmt.Fprintln(os.Stderr, "Usage: maptools table [atlas.png]")
			os.Exit(1)
		}
		out := ""
		if len(args) == 1 {
			out = args[0]
		}
		os.Exit(t.table(out))
	case "preview":
		need(2, "preview <world-file> <out.png>")
		os.Exit(t.preview(args[0], args[1], cfg.AtlasPath))
	case "all":
		need(1, "all <worlds-dir>")
		os.Exit(t.all(args[0]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: maptools [-config file] [-mode name] <command> <path>

Commands:
  validate <worlds-dir>            Validate all worlds in directory
  viz      <world-file>            Render world as autotiled glyphs
  stats    <world-file>            Show material and atlas index distribution
  table    [atlas.png]             Print the 256-mask table, optionally write a generated atlas
  preview  <world-file> <out.png>  Export a PNG preview using the atlas
  all      <worlds-dir>            Run validate + viz + stats for all worlds`)
}

type tools struct {
	mode    autotile.Mode
	rules   autotile.BlendRules
	workers int
}

// resolve goes through a one-world catalog so packed mode gets its
// precomputed masks like the viewers do.
func (t tools) resolve(w *maps.World) ([][]int, error) {
	c := preview.NewCatalog(map[string]*maps.World{w.Name: w}, t.rules, t.workers)
	r, err := c.Resolve(context.Background(), w.Name, t.mode)
	if err != nil {
		return nil, err
	}
	return r.Indices, nil
}

// --- validate ---

func (t tools) validate(dir string) int {
	all, err := maps.LoadWorlds(dir)
	if err != nil {
		fail.Fprintf(os.Stderr, "FAIL: %v\n", err)
		return 1
	}

	errors := 0
	for _, name := range maps.SortedNames(all) {
		w := all[name]
		fmt.Printf("Validating %q...\n", name)
		before := errors

		missing := make(map[autotile.MaterialID]int)
		for y := 0; y < w.Height(); y++ {
			for x := 0; x < w.Width(); x++ {
				tile, _ := w.TileAt(x, y)
				for _, id := range []autotile.MaterialID{tile.Background, tile.Foreground} {
					if _, known := w.Materials[id]; id != 0 && !known {
						missing[id]++
					}
				}
			}
		}
		ids := make([]int, 0, len(missing))
		for id := range missing {
			ids = append(ids, int(id))
		}
		sort.Ints(ids)
		for _, id := range ids {
			fail.Printf("  ERROR: material %d used on %d tiles but missing from the legend\n", id, missing[autotile.MaterialID(id)])
			errors++
		}

		if _, err := t.resolve(w); err != nil {
			fail.Printf("  ERROR: %v\n", err)
			errors++
		}

		if errors == before {
			ok.Printf("  OK (%dx%d, %d materials)\n", w.Width(), w.Height(), len(w.Materials))
		}
	}

	if errors > 0 {
		fail.Printf("\n%d error(s) found\n", errors)
		return 1
	}
	ok.Printf("\nAll %d worlds valid\n", len(all))
	return 0
}

// --- viz ---

// ansiColor returns the ANSI escape for the given code.
func ansiColor(code int) string {
	return fmt.Sprintf("\033[%dm", code)
}

func (t tools) viz(path string) int {
	w, err := maps.LoadWorld(path)
	if err != nil {
		fail.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	indices, err := t.resolve(w)
	if err != nil {
		fail.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	head.Printf("%s (%dx%d, mode %v)\n", w.Name, w.Width(), w.Height(), t.mode)
	fmt.Print(vizString(w, indices))
	return 0
}

func vizString(w *maps.World, indices [][]int) string {
	var sb strings.Builder
	for y := 0; y < w.Height(); y++ {
		for x := 0; x < w.Width(); x++ {
			tile, _ := w.TileAt(x, y)
			if tile.Material() == 0 {
				sb.WriteString("  ")
				continue
			}
			mat := w.MaterialInfo(tile.Material())
			sb.WriteString(ansiColor(mat.Fg))
			sb.WriteString(render.GlyphFor(indices[y][x]).String())
			sb.WriteString("\033[0m")
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- stats ---

type entry struct {
	name  string
	count int
}

func sortedEntries(counts map[string]int) []entry {
	sorted := make([]entry, 0, len(counts))
	for name, count := range counts {
		sorted = append(sorted, entry{name, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].name < sorted[j].name
	})
	return sorted
}

func (t tools) stats(path string) int {
	w, err := maps.LoadWorld(path)
	if err != nil {
		fail.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	indices, err := t.resolve(w)
	if err != nil {
		fail.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	total := w.Width() * w.Height()
	head.Printf("%s (%dx%d = %d tiles)\n\n", w.Name, w.Width(), w.Height(), total)

	materials := make(map[string]int)
	variants := make(map[string]int)
	for y := 0; y < w.Height(); y++ {
		for x := 0; x < w.Width(); x++ {
			tile, _ := w.TileAt(x, y)
			materials[w.MaterialInfo(tile.Material()).Name]++
			if tile.Material() != 0 {
				variants[fmt.Sprintf("%2d %s", indices[y][x], render.GlyphFor(indices[y][x]))]++
			}
		}
	}

	for _, e := range sortedEntries(materials) {
		pct := float64(e.count) / float64(total) * 100
		bar := strings.Repeat("█", int(pct/2))
		fmt.Printf("  %-10s %5d (%5.1f%%) %s\n", e.name, e.count, pct, bar)
	}

	fmt.Printf("\nVariants used: %d/%d (mode %v)\n", len(variants), autotile.NumVariants, t.mode)
	for _, e := range sortedEntries(variants) {
		fmt.Printf("  %s  %5d\n", e.name, e.count)
	}
	return 0
}

// --- table ---

func tableString() string {
	var sb strings.Builder
	table := autotile.Table()
	sb.WriteString("     ")
	for lo := 0; lo < 16; lo++ {
		fmt.Fprintf(&sb, " x%X", lo)
	}
	sb.WriteByte('\n')
	for hi := 0; hi < 16; hi++ {
		fmt.Fprintf(&sb, "  %Xx", hi)
		for lo := 0; lo < 16; lo++ {
			fmt.Fprintf(&sb, " %2d", table[hi<<4|lo])
		}
		sb.WriteByte('\n')
	}

	sb.WriteString("\nVariants:\n")
	for idx, m := range autotile.Variants() {
		fmt.Fprintf(&sb, "  %2d %s  %s\n", idx, render.GlyphFor(idx), m)
	}
	return sb.String()
}

func (t tools) table(out string) int {
	head.Println("Mask → atlas index (bit order E SE S SW W NW N NE)")
	fmt.Print(tableString())

	if out == "" {
		return 0
	}
	f, err := os.Create(out)
	if err != nil {
		fail.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer f.Close()
	if err := render.GenerateAtlas().WritePNG(f); err != nil {
		fail.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	ok.Printf("\nAtlas written to %s\n", out)
	return 0
}

// --- preview ---

func (t tools) preview(path, out, atlasPath string) int {
	w, err := maps.LoadWorld(path)
	if err != nil {
		fail.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	indices, err := t.resolve(w)
	if err != nil {
		fail.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	atlas, err := render.LoadAtlas(atlasPath)
	if err != nil {
		color.Yellow("Atlas %s unavailable (%v), using generated atlas", atlasPath, err)
		atlas = render.GenerateAtlas()
	}

	f, err := os.Create(out)
	if err != nil {
		fail.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer f.Close()
	if err := atlas.ExportPNG(f, w, indices, 1); err != nil {
		fail.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	ok.Printf("Preview written to %s\n", out)
	return 0
}

// --- all ---

func (t tools) all(dir string) int {
	fmt.Println("=== VALIDATE ===")
	if code := t.validate(dir); code != 0 {
		return code
	}

	files, err := maps.WorldFiles(dir)
	if err != nil {
		fail.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	for _, path := range files {
		name := filepath.Base(path)
		fmt.Printf("\n=== VIZ: %s ===\n", name)
		t.viz(path)
		fmt.Printf("\n=== STATS: %s ===\n", name)
		t.stats(path)
	}
	return 0
}
