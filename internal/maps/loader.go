package maps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"blobtile/internal/autotile"
)

// colorNames maps color names from JSON to ANSI codes.
var colorNames = map[string]int{
	"black":          30,
	"red":            31,
	"green":          32,
	"yellow":         33,
	"blue":           34,
	"magenta":        35,
	"cyan":           36,
	"white":          37,
	"gray":           90,
	"grey":           90,
	"bright_red":     91,
	"bright_green":   92,
	"bright_yellow":  93,
	"bright_blue":    94,
	"bright_magenta": 95,
	"bright_cyan":    96,
	"bright_white":   97,
}

func resolveColor(name string) int {
	if code, ok := colorNames[name]; ok {
		return code
	}
	return 37
}

func colorName(code int) string {
	best := ""
	for name, c := range colorNames {
		if c == code && (best == "" || name < best) {
			best = name
		}
	}
	if best == "" {
		return "white"
	}
	return best
}

// jsonWorld is the on-disk format.
type jsonWorld struct {
	Name       string                  `json:"name"`
	Width      int                     `json:"width"`
	Height     int                     `json:"height"`
	Materials  map[string]jsonMaterial `json:"materials,omitempty"`
	Background [][]int                 `json:"background"`
	Foreground [][]int                 `json:"foreground,omitempty"`
	Flags      [][]int                 `json:"flags,omitempty"`
}

type jsonMaterial struct {
	Name string `json:"name"`
	Char string `json:"char,omitempty"`
	Fg   string `json:"fg,omitempty"`
	Bg   string `json:"bg,omitempty"`
}

// ZstdSuffix marks a zstd-compressed world file.
const ZstdSuffix = ".zst"

func isWorldFile(name string) bool {
	return strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".json"+ZstdSuffix)
}

// LoadWorld reads a world file from disk. Files ending in .zst are
// zstd-compressed JSON.
func LoadWorld(path string) (*World, error) {
	data, err := readWorldFile(path)
	if err != nil {
		return nil, err
	}
	w, err := DecodeWorld(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return w, nil
}

func readWorldFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read world file: %w", err)
	}
	defer f.Close()

	if !strings.HasSuffix(path, ZstdSuffix) {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read world file: %w", err)
		}
		return data, nil
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open zstd stream: %w", err)
	}
	defer dec.Close()
	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decompress world file: %w", err)
	}
	return data, nil
}

// DecodeWorld validates raw JSON against the world schema and builds
// the grid.
func DecodeWorld(data []byte) (*World, error) {
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}

	var jw jsonWorld
	if err := json.Unmarshal(data, &jw); err != nil {
		return nil, fmt.Errorf("parse world JSON: %w", err)
	}

	w, err := NewWorld(jw.Name, jw.Width, jw.Height)
	if err != nil {
		return nil, err
	}

	for k, jm := range jw.Materials {
		id, err := strconv.ParseUint(k, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("material key %q: %w", k, err)
		}
		ch := '?'
		if r := []rune(jm.Char); len(r) > 0 {
			ch = r[0]
		}
		m := Material{Name: jm.Name, Char: ch, Fg: resolveColor(jm.Fg)}
		if jm.Bg != "" {
			m.Bg = resolveColor(jm.Bg)
		}
		w.Materials[autotile.MaterialID(id)] = m
	}

	layers := []struct {
		name string
		rows [][]int
		max  int
		set  func(t *autotile.Tile, v int)
	}{
		{"background", jw.Background, 0xFFFF, func(t *autotile.Tile, v int) { t.Background = autotile.MaterialID(v) }},
		{"foreground", jw.Foreground, 0xFFFF, func(t *autotile.Tile, v int) { t.Foreground = autotile.MaterialID(v) }},
		{"flags", jw.Flags, 0xFFFF, func(t *autotile.Tile, v int) { t.Flags = autotile.TileFlags(v) }},
	}
	for _, l := range layers {
		if l.rows == nil && l.name != "background" {
			continue
		}
		if len(l.rows) != jw.Height {
			return nil, fmt.Errorf("%s rows %d != declared height %d", l.name, len(l.rows), jw.Height)
		}
		for y, row := range l.rows {
			if len(row) != jw.Width {
				return nil, fmt.Errorf("%s row %d has %d tiles, expected %d", l.name, y, len(row), jw.Width)
			}
			for x, v := range row {
				if v < 0 || v > l.max {
					return nil, fmt.Errorf("%s (%d,%d) value %d out of range", l.name, x, y, v)
				}
				t, _ := w.TileAt(x, y)
				l.set(t, v)
			}
		}
	}
	w.CacheConnections(func(t *autotile.Tile) bool { return t.Material() != 0 })
	return w, nil
}

// EncodeWorld renders w in the on-disk JSON format.
func EncodeWorld(w *World) ([]byte, error) {
	jw := jsonWorld{
		Name:       w.Name,
		Width:      w.width,
		Height:     w.height,
		Materials:  make(map[string]jsonMaterial, len(w.Materials)),
		Background: make([][]int, w.height),
	}
	var hasFg, hasFlags bool
	for _, t := range w.tiles {
		hasFg = hasFg || t.Foreground != 0
		hasFlags = hasFlags || t.Flags != 0
	}
	if hasFg {
		jw.Foreground = make([][]int, w.height)
	}
	if hasFlags {
		jw.Flags = make([][]int, w.height)
	}
	for y := 0; y < w.height; y++ {
		jw.Background[y] = make([]int, w.width)
		if hasFg {
			jw.Foreground[y] = make([]int, w.width)
		}
		if hasFlags {
			jw.Flags[y] = make([]int, w.width)
		}
		for x := 0; x < w.width; x++ {
			t := w.tiles[y*w.width+x]
			jw.Background[y][x] = int(t.Background)
			if hasFg {
				jw.Foreground[y][x] = int(t.Foreground)
			}
			if hasFlags {
				jw.Flags[y][x] = int(t.Flags)
			}
		}
	}
	for id, m := range w.Materials {
		jm := jsonMaterial{Name: m.Name, Char: string(m.Char), Fg: colorName(m.Fg)}
		if m.Bg != 0 {
			jm.Bg = colorName(m.Bg)
		}
		jw.Materials[strconv.Itoa(int(id))] = jm
	}

	data, err := json.MarshalIndent(jw, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal world: %w", err)
	}
	return append(data, '\n'), nil
}

// SaveWorld writes w to path, compressing when path ends in .zst.
func SaveWorld(path string, w *World) error {
	data, err := EncodeWorld(w)
	if err != nil {
		return err
	}
	if strings.HasSuffix(path, ZstdSuffix) {
		var buf bytes.Buffer
		enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("open zstd writer: %w", err)
		}
		if _, err := enc.Write(data); err != nil {
			enc.Close()
			return fmt.Errorf("compress world: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("compress world: %w", err)
		}
		data = buf.Bytes()
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write world file: %w", err)
	}
	return nil
}

// LoadWorlds scans a directory for world files and returns them indexed
// by name.
func LoadWorlds(dir string) (map[string]*World, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read worlds directory: %w", err)
	}

	all := make(map[string]*World)
	for _, entry := range entries {
		if entry.IsDir() || !isWorldFile(entry.Name()) {
			continue
		}
		w, err := LoadWorld(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", entry.Name(), err)
		}
		if _, exists := all[w.Name]; exists {
			return nil, fmt.Errorf("duplicate world name %q in %s", w.Name, entry.Name())
		}
		all[w.Name] = w
	}
	return all, nil
}

// WorldFiles lists the world files in dir, sorted by name.
func WorldFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read worlds directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && isWorldFile(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// SortedNames returns the world names in a stable order.
func SortedNames(all map[string]*World) []string {
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
