package autotile

import (
	"context"
	"runtime"
	"sync"
)

// ResolveIndex samples t's neighborhood with s and returns its atlas index.
func ResolveIndex(g Grid, t *Tile, s Sampler) int {
	return Resolve(s.Sample(g, t))
}

// ResolveMode is ResolveIndex behind the integer mode selector.
func ResolveMode(g Grid, t *Tile, mode Mode, c Collaborators) (int, error) {
	s, err := SamplerFor(mode, c)
	if err != nil {
		return 0, err
	}
	return ResolveIndex(g, t, s), nil
}

// ResolvePacked resolves a caller-packed mask without any grid.
func ResolvePacked(p Packed) int {
	return Resolve(p.Mask())
}

// ResolveGrid resolves every tile of g, returning indices as [y][x].
// Rows are spread over workers goroutines (GOMAXPROCS when <= 0). The
// grid must not change while this runs.
func ResolveGrid(ctx context.Context, g Grid, s Sampler, workers int) ([][]int, error) {
	w, h := g.Width(), g.Height()
	out := make([][]int, h)
	for y := range out {
		out[y] = make([]int, w)
	}
	if w == 0 || h == 0 {
		return out, nil
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > h {
		workers = h
	}

	rows := make(chan int, h)
	for y := 0; y < h; y++ {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for y := range rows {
				if ctx.Err() != nil {
					return
				}
				resolveRow(g, s, y, out[y])
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func resolveRow(g Grid, s Sampler, y int, row []int) {
	for x := range row {
		t, ok := g.TileAt(x, y)
		if !ok || t == nil {
			t = &Tile{X: uint8(x), Y: uint8(y)}
		}
		row[x] = ResolveIndex(g, t, s)
	}
}
