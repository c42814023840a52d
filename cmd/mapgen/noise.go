package main

import (
	"math"
	"math/rand"
)

// Simplex is a seeded 2D simplex noise field.
type Simplex struct {
	perm [512]uint8
}

// NewSimplex shuffles a permutation table from seed. The same seed
// always yields the same field.
func NewSimplex(seed int64) *Simplex {
	var s Simplex
	rng := rand.New(rand.NewSource(seed))
	for i, v := range rng.Perm(256) {
		s.perm[i] = uint8(v)
		s.perm[i+256] = uint8(v)
	}
	return &s
}

// Diagonal gradients; the dot product is ±x±y.
var gradients = [8][2]float64{
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

const (
	skew   = 0.3660254037844386  // (√3-1)/2
	unskew = 0.21132486540518713 // (3-√3)/6
)

func (s *Simplex) hash(i, j int) int {
	return int(s.perm[(i&255)+int(s.perm[j&255])])
}

func (s *Simplex) corner(h int, x, y float64) float64 {
	t := 0.5 - x*x - y*y
	if t <= 0 {
		return 0
	}
	g := gradients[h&7]
	// Upper half swaps the components so all eight directions appear.
	if h&4 != 0 {
		x, y = y, x
	}
	t *= t
	return t * t * (g[0]*x + g[1]*y)
}

// At samples the field at (x, y). The result lies in [-1, 1].
func (s *Simplex) At(x, y float64) float64 {
	k := (x + y) * skew
	ci, cj := int(math.Floor(x+k)), int(math.Floor(y+k))

	u := float64(ci+cj) * unskew
	dx, dy := x-(float64(ci)-u), y-(float64(cj)-u)

	// Lower or upper triangle of the skewed cell.
	oi, oj := 0, 1
	if dx > dy {
		oi, oj = 1, 0
	}

	sum := s.corner(s.hash(ci, cj), dx, dy)
	sum += s.corner(s.hash(ci+oi, cj+oj), dx-float64(oi)+unskew, dy-float64(oj)+unskew)
	sum += s.corner(s.hash(ci+1, cj+1), dx-1+2*unskew, dy-1+2*unskew)
	return 70 * sum
}

// Octaves configures fractal noise: Count layers starting at Freq, each
// Lacunarity times the frequency and Persistence times the amplitude
// of the one before.
type Octaves struct {
	Freq        float64
	Count       int
	Lacunarity  float64
	Persistence float64
}

var (
	elevationOctaves = Octaves{Freq: 0.02, Count: 4, Lacunarity: 2, Persistence: 0.5}
	moistureOctaves  = Octaves{Freq: 0.03, Count: 3, Lacunarity: 2, Persistence: 0.5}
	detailOctaves    = Octaves{Freq: 0.1, Count: 2, Lacunarity: 2, Persistence: 0.5}
	caveOctaves      = Octaves{Freq: 0.07, Count: 3, Lacunarity: 2, Persistence: 0.55}
)

// Fractal sums o.Count octaves of the field and maps the result to [0, 1].
func (s *Simplex) Fractal(x, y float64, o Octaves) float64 {
	var sum, norm float64
	amp, freq := 1.0, o.Freq
	for n := 0; n < o.Count; n++ {
		sum += amp * s.At(x*freq, y*freq)
		norm += amp
		amp *= o.Persistence
		freq *= o.Lacunarity
	}
	if norm == 0 {
		return 0.5
	}
	return 0.5 + 0.5*sum/norm
}
