package maps

import (
	"fmt"

	"blobtile/internal/autotile"
)

// MaxDimension is the largest width or height a world may have; tile
// coordinates are stored as bytes.
const MaxDimension = 256

// Material describes how a material id is drawn.
type Material struct {
	Name string
	Char rune
	Fg   int
	Bg   int
}

// World is a rectangular tile grid. It implements autotile.Grid and is
// read-only once loaded, apart from the connection cache.
type World struct {
	Name      string
	Materials map[autotile.MaterialID]Material

	width, height int
	tiles         []autotile.Tile
	conn          []byte
}

// NewWorld creates an empty width×height world.
func NewWorld(name string, width, height int) (*World, error) {
	if width < 1 || height < 1 || width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("world %q: size %dx%d outside 1..%d", name, width, height, MaxDimension)
	}
	w := &World{
		Name:      name,
		Materials: make(map[autotile.MaterialID]Material),
		width:     width,
		height:    height,
		tiles:     make([]autotile.Tile, width*height),
		conn:      make([]byte, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := &w.tiles[y*width+x]
			t.X, t.Y = uint8(x), uint8(y)
		}
	}
	return w, nil
}

func (w *World) Width() int  { return w.width }
func (w *World) Height() int { return w.height }

// InBounds reports whether (x, y) lies inside the world.
func (w *World) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < w.width && y < w.height
}

// TileAt returns the tile at (x, y), or false outside the world.
func (w *World) TileAt(x, y int) (*autotile.Tile, bool) {
	if !w.InBounds(x, y) {
		return nil, false
	}
	return &w.tiles[y*w.width+x], true
}

// Set overwrites the materials and flags at (x, y). Callers must not
// resolve concurrently with Set.
func (w *World) Set(x, y int, bg, fg autotile.MaterialID, flags autotile.TileFlags) {
	t, ok := w.TileAt(x, y)
	if !ok {
		return
	}
	t.Background, t.Foreground, t.Flags = bg, fg, flags
}

// MaterialInfo returns the legend entry for id, with a fallback glyph
// for ids missing from the legend.
func (w *World) MaterialInfo(id autotile.MaterialID) Material {
	if m, ok := w.Materials[id]; ok {
		return m
	}
	if id == 0 {
		return Material{Name: "empty", Char: ' ', Fg: 37}
	}
	return Material{Name: fmt.Sprintf("#%d", id), Char: '?', Fg: 37}
}

// Connected is the generic connectivity predicate: a neighbor connects
// when its foreground-or-background material equals material. Cells
// outside the grid connect, the same edge policy as background blending.
func Connected(g autotile.Grid, x, y int, material autotile.MaterialID) bool {
	t, ok := g.TileAt(x, y)
	if !ok {
		return true
	}
	return t.Material() == material
}

// CacheConnections recomputes the per-tile connection byte read by
// Sample. Call it after loading or editing the world.
func (w *World) CacheConnections(connects func(t *autotile.Tile) bool) {
	for i := range w.tiles {
		if connects(&w.tiles[i]) {
			w.conn[i] = 1
		} else {
			w.conn[i] = 0
		}
	}
}

// Sample returns the cached connection byte at (x, y). Out-of-range
// cells report 1. It has the shape of autotile.SampleFunc.
func (w *World) Sample(_ autotile.Grid, x, y int) byte {
	if !w.InBounds(x, y) {
		return 1
	}
	return w.conn[y*w.width+x]
}

// PackedAt samples (x, y) with s and packs the result for callers that
// precompute masks in bulk.
func (w *World) PackedAt(s autotile.Sampler, x, y int) (autotile.Packed, bool) {
	t, ok := w.TileAt(x, y)
	if !ok {
		return 0, false
	}
	return autotile.Pack(s.Sample(w, t)), true
}

// Collaborators wires this world's callbacks into the autotile modes.
func (w *World) Collaborators(rules *autotile.BlendRules) autotile.Collaborators {
	return autotile.Collaborators{
		Connected: Connected,
		Sample:    w.Sample,
		Rules:     rules,
	}
}

// DefaultWorld returns a small fallback world with a walled pond.
func DefaultWorld() *World {
	const (
		grass autotile.MaterialID = 2
		stone autotile.MaterialID = 4
		water autotile.MaterialID = 8
	)
	w, _ := NewWorld("Default", 40, 20)
	w.Materials[grass] = Material{Name: "grass", Char: '.', Fg: 32}
	w.Materials[stone] = Material{Name: "stone", Char: '#', Fg: 90}
	w.Materials[water] = Material{Name: "water", Char: '~', Fg: 34}

	for y := 0; y < w.height; y++ {
		for x := 0; x < w.width; x++ {
			bg := grass
			switch {
			case x == 0 || x == w.width-1 || y == 0 || y == w.height-1:
				bg = stone
			case (x-20)*(x-20)/4+(y-10)*(y-10) < 20:
				bg = water
			}
			w.Set(x, y, bg, 0, 0)
		}
	}
	w.CacheConnections(func(t *autotile.Tile) bool { return t.Background == stone })
	return w
}
