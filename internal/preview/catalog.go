package preview

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"blobtile/internal/autotile"
	"blobtile/internal/maps"
)

// Modes lists the sampler modes a viewer cycles through.
var Modes = []autotile.Mode{
	autotile.ModeGenericPredicate,
	autotile.ModeBackgroundBlend,
	autotile.ModeRawSample,
	autotile.ModePacked,
}

// NextMode returns the mode after m in Modes.
func NextMode(m autotile.Mode) autotile.Mode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return Modes[0]
}

// Resolution is one world resolved under one mode.
type Resolution struct {
	Indices [][]int
	Sampler autotile.Sampler
}

type cacheKey struct {
	world string
	mode  autotile.Mode
}

// Catalog holds the loaded worlds and memoizes their resolved indices
// per mode. Worlds are never edited after they are added.
type Catalog struct {
	worlds  map[string]*maps.World
	names   []string
	rules   autotile.BlendRules
	workers int

	mu    sync.Mutex
	cache map[cacheKey]*Resolution
}

// NewCatalog creates a catalog over worlds. workers <= 0 uses GOMAXPROCS.
func NewCatalog(worlds map[string]*maps.World, rules autotile.BlendRules, workers int) *Catalog {
	names := make([]string, 0, len(worlds))
	for name := range worlds {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Catalog{
		worlds:  worlds,
		names:   names,
		rules:   rules,
		workers: workers,
		cache:   make(map[cacheKey]*Resolution),
	}
}

// Names returns world names in sorted order.
func (c *Catalog) Names() []string {
	return c.names
}

// World returns the named world, or nil.
func (c *Catalog) World(name string) *maps.World {
	return c.worlds[name]
}

// Next returns the world name after name, wrapping around.
func (c *Catalog) Next(name string) string {
	if len(c.names) == 0 {
		return ""
	}
	i := sort.SearchStrings(c.names, name)
	if i < len(c.names) && c.names[i] == name {
		i++
	}
	return c.names[i%len(c.names)]
}

// Resolve returns the atlas indices of the named world under mode,
// computing them on first use.
func (c *Catalog) Resolve(ctx context.Context, name string, mode autotile.Mode) (*Resolution, error) {
	w, ok := c.worlds[name]
	if !ok {
		return nil, fmt.Errorf("unknown world %q", name)
	}
	key := cacheKey{world: name, mode: mode}

	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.cache[key]; ok {
		return r, nil
	}

	r, err := c.resolve(ctx, w, mode)
	if err != nil {
		return nil, fmt.Errorf("resolve %s (%v): %w", name, mode, err)
	}
	c.cache[key] = r
	return r, nil
}

func (c *Catalog) resolve(ctx context.Context, w *maps.World, mode autotile.Mode) (*Resolution, error) {
	collab := w.Collaborators(&c.rules)
	if mode < autotile.ModePacked {
		s, err := autotile.SamplerFor(mode, collab)
		if err != nil {
			return nil, err
		}
		indices, err := autotile.ResolveGrid(ctx, w, s, c.workers)
		if err != nil {
			return nil, err
		}
		return &Resolution{Indices: indices, Sampler: s}, nil
	}

	// Packed: precompute every tile's mask with background blending,
	// then resolve from the packed words alone.
	base, err := autotile.SamplerFor(autotile.ModeBackgroundBlend, collab)
	if err != nil {
		return nil, err
	}
	ps := &packedSampler{width: w.Width(), packed: make([]autotile.Packed, w.Width()*w.Height())}
	indices := make([][]int, w.Height())
	for y := range indices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		indices[y] = make([]int, w.Width())
		for x := range indices[y] {
			p, _ := w.PackedAt(base, x, y)
			ps.packed[y*ps.width+x] = p
			indices[y][x] = autotile.ResolvePacked(p)
		}
	}
	return &Resolution{Indices: indices, Sampler: ps}, nil
}

// packedSampler reads a tile's precomputed packed mask.
type packedSampler struct {
	width  int
	packed []autotile.Packed
}

func (s *packedSampler) Sample(_ autotile.Grid, t *autotile.Tile) autotile.Mask {
	return autotile.PackedMask{Packed: s.packed[int(t.Y)*s.width+int(t.X)]}.Sample(nil, t)
}
