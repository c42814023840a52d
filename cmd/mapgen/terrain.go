package main

import (
	"math/rand"

	"blobtile/internal/autotile"
	"blobtile/internal/maps"
)

// Background materials written by the generators.
const (
	mDeepWater autotile.MaterialID = 1
	mShallow   autotile.MaterialID = 2
	mSand      autotile.MaterialID = 3
	mGrass     autotile.MaterialID = 4
	mForest    autotile.MaterialID = 5
	mRock      autotile.MaterialID = 6
	mSnow      autotile.MaterialID = 7
	mPath      autotile.MaterialID = 8
	mBridge    autotile.MaterialID = 9
	mCaveFloor autotile.MaterialID = 10
	mCaveWall  autotile.MaterialID = 11

	mWillow     = autotile.WeepingWillow
	mWillowEdge = autotile.WillowOverlayBackground
)

var legend = map[autotile.MaterialID]maps.Material{
	mDeepWater:  {Name: "deep_water", Char: '≈', Fg: 34},
	mShallow:    {Name: "shallow_water", Char: '~', Fg: 36},
	mSand:       {Name: "sand", Char: ':', Fg: 93},
	mGrass:      {Name: "grass", Char: '.', Fg: 32},
	mForest:     {Name: "forest", Char: 'T', Fg: 92},
	mRock:       {Name: "rock", Char: '▒', Fg: 90},
	mSnow:       {Name: "snow", Char: '*', Fg: 97},
	mPath:       {Name: "path", Char: '.', Fg: 33},
	mBridge:     {Name: "bridge", Char: '=', Fg: 33, Bg: 34},
	mCaveFloor:  {Name: "cave_floor", Char: '.', Fg: 37},
	mCaveWall:   {Name: "cave_wall", Char: '#', Fg: 90},
	mWillow:     {Name: "weeping_willow", Char: 'Y', Fg: 96},
	mWillowEdge: {Name: "willow_grove", Char: 'y', Fg: 92},
}

type grid [][]autotile.MaterialID

func newGrid(w, h int) grid {
	g := make(grid, h)
	for y := range g {
		g[y] = make([]autotile.MaterialID, w)
	}
	return g
}

func (g grid) inside(x, y int) bool {
	return y >= 0 && y < len(g) && x >= 0 && x < len(g[y])
}

// neighbors counts the 8-neighbors of (x, y) holding id. Cells outside
// the grid count when edge is true.
func (g grid) neighbors(x, y int, id autotile.MaterialID, edge bool) int {
	n := 0
	for _, d := range autotile.Directions {
		dx, dy := d.Offset()
		nx, ny := x+dx, y+dy
		if !g.inside(nx, ny) {
			if edge {
				n++
			}
			continue
		}
		if g[ny][nx] == id {
			n++
		}
	}
	return n
}

func generateTerrain(w, h int, seed int64) (grid, map[[2]int]autotile.TileFlags) {
	elevation := NewSimplex(seed)
	moisture := NewSimplex(seed + 1)
	detail := NewSimplex(seed + 2)

	g := newGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx, fy := float64(x), float64(y)
			g[y][x] = classifyTerrain(
				elevation.Fractal(fx, fy, elevationOctaves),
				moisture.Fractal(fx, fy, moistureOctaves),
				detail.Fractal(fx, fy, detailOctaves),
			)
		}
	}

	// Forest bordering a willow becomes grove floor, which blends into
	// the willow but not the other way round.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g[y][x] == mForest && g.neighbors(x, y, mWillow, false) > 0 {
				g[y][x] = mWillowEdge
			}
		}
	}

	flags := make(map[[2]int]autotile.TileFlags)
	rng := rand.New(rand.NewSource(seed + 100))
	carveTrails(g, flags, w/2, h/2, rng)
	return g, flags
}

func classifyTerrain(elev, moist, det float64) autotile.MaterialID {
	switch {
	case elev < 0.20:
		return mDeepWater
	case elev < 0.28:
		return mShallow
	case elev < 0.32:
		return mSand
	case elev < 0.42:
		if moist > 0.62 && det > 0.5 {
			return mWillow
		}
		return mGrass
	case elev < 0.70:
		if moist > 0.55 || (moist > 0.35 && det > 0.65) {
			return mForest
		}
		return mGrass
	case elev < 0.80:
		return mRock
	default:
		return mSnow
	}
}

func generateCaves(w, h int, seed int64) grid {
	noise := NewSimplex(seed)
	g := newGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if noise.Fractal(float64(x), float64(y), caveOctaves) < 0.47 {
				g[y][x] = mCaveWall
			} else {
				g[y][x] = mCaveFloor
			}
		}
	}

	// Two smoothing passes; the world edge counts as wall.
	for pass := 0; pass < 2; pass++ {
		next := newGrid(w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				walls := g.neighbors(x, y, mCaveWall, true)
				switch {
				case walls >= 5:
					next[y][x] = mCaveWall
				case walls <= 2:
					next[y][x] = mCaveFloor
				default:
					next[y][x] = g[y][x]
				}
			}
		}
		g = next
	}
	return g
}

func carveTrails(g grid, flags map[[2]int]autotile.TileFlags, startX, startY int, rng *rand.Rand) {
	h := len(g)
	w := len(g[0])
	numTrails := 2 + rng.Intn(2)

	for i := 0; i < numTrails; i++ {
		var tx, ty int
		switch rng.Intn(4) {
		case 0: // north edge
			tx, ty = borderClamp(rng.Intn(w), w), 1
		case 1: // south edge
			tx, ty = borderClamp(rng.Intn(w), w), h-2
		case 2: // east edge
			tx, ty = w-2, borderClamp(rng.Intn(h), h)
		case 3: // west edge
			tx, ty = 1, borderClamp(rng.Intn(h), h)
		}
		carveTrail(g, flags, startX, startY, tx, ty, rng)
	}
}

func borderClamp(v, limit int) int {
	if v < 4 {
		return 4
	}
	if v >= limit-4 {
		return limit - 5
	}
	return v
}

// carveTrail walks from (sx, sy) toward (tx, ty) with some lateral
// drift. Water crossings become non-blending bridges.
func carveTrail(g grid, flags map[[2]int]autotile.TileFlags, sx, sy, tx, ty int, rng *rand.Rand) {
	h := len(g)
	w := len(g[0])
	x, y := sx, sy

	for steps := 0; steps < w*h; steps++ {
		if x == tx && y == ty {
			break
		}

		dx, dy := 0, 0
		distX, distY := tx-x, ty-y
		if abs(distX) > abs(distY) {
			dx = sign(distX)
			if rng.Float64() < 0.3 {
				dx, dy = 0, sign(distY)
				if dy == 0 {
					dy = rng.Intn(2)*2 - 1
				}
			}
		} else {
			dy = sign(distY)
			if rng.Float64() < 0.3 {
				dx, dy = sign(distX), 0
				if dx == 0 {
					dx = rng.Intn(2)*2 - 1
				}
			}
		}

		nx, ny := x+dx, y+dy
		if nx < 1 || nx >= w-1 || ny < 1 || ny >= h-1 {
			continue
		}

		switch g[ny][nx] {
		case mDeepWater, mShallow:
			g[ny][nx] = mBridge
			flags[[2]int{nx, ny}] |= autotile.FlagNonBlend
		case mPath, mBridge:
		default:
			g[ny][nx] = mPath
		}
		x, y = nx, ny
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

// buildWorld turns a generated grid into a world with the shared legend.
func buildWorld(name string, g grid, flags map[[2]int]autotile.TileFlags) (*maps.World, error) {
	w, err := maps.NewWorld(name, len(g[0]), len(g))
	if err != nil {
		return nil, err
	}
	used := make(map[autotile.MaterialID]bool)
	for y, row := range g {
		for x, id := range row {
			w.Set(x, y, id, 0, flags[[2]int{x, y}])
			used[id] = true
		}
	}
	for id := range used {
		w.Materials[id] = legend[id]
	}
	return w, nil
}
