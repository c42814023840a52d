package autotile

// Sampler computes the connectivity mask of a tile. Implementations only
// read from the grid and are safe for concurrent use.
type Sampler interface {
	Sample(g Grid, t *Tile) Mask
}

// ConnectFunc reports whether the cell at (x, y) connects to material.
// It is called for out-of-range coordinates too; its boundary policy is
// the caller's.
type ConnectFunc func(g Grid, x, y int, material MaterialID) bool

// SampleFunc returns a precomputed compatibility byte for (x, y).
// Non-zero means compatible.
type SampleFunc func(g Grid, x, y int) byte

// GenericPredicate delegates every neighbor to an external predicate,
// querying it with the tile's foreground-or-background material.
type GenericPredicate struct {
	Connected ConnectFunc
}

func (s GenericPredicate) Sample(g Grid, t *Tile) Mask {
	material := t.Material()
	x, y := int(t.X), int(t.Y)
	var m Mask
	for _, d := range Directions {
		dx, dy := d.Offset()
		if s.Connected(g, x+dx, y+dy, material) {
			m |= 1 << d
		}
	}
	return m
}

// BackgroundBlend compares background materials. Neighbors outside the
// grid count as compatible so map edges blend into the void.
type BackgroundBlend struct {
	Rules BlendRules
}

func (s BackgroundBlend) Sample(g Grid, t *Tile) Mask {
	x, y := int(t.X), int(t.Y)
	w, h := g.Width(), g.Height()
	var m Mask
	for _, d := range Directions {
		dx, dy := d.Offset()
		nx, ny := x+dx, y+dy
		if nx < 0 || ny < 0 || nx >= w || ny >= h {
			m |= 1 << d
			continue
		}
		n, ok := g.TileAt(nx, ny)
		if !ok || n == nil {
			m |= 1 << d
			continue
		}
		if s.Rules.Blocks(n) {
			continue
		}
		if s.Rules.Compatible(t.Background, n.Background) {
			m |= 1 << d
		}
	}
	return m
}

// RawSample reads a caller-maintained byte per neighbor.
type RawSample struct {
	Read SampleFunc
}

func (s RawSample) Sample(g Grid, t *Tile) Mask {
	x, y := int(t.X), int(t.Y)
	var m Mask
	for _, d := range Directions {
		dx, dy := d.Offset()
		if s.Read(g, x+dx, y+dy) != 0 {
			m |= 1 << d
		}
	}
	return m
}

// Packed is a mask pre-encoded as eight bytes, byte i (little-endian)
// holding Direction i. Any non-zero byte is compatible.
type Packed uint64

// Pack encodes m with one byte per direction.
func Pack(m Mask) Packed {
	var p Packed
	for i := 0; i < NumDirections; i++ {
		if m&(1<<i) != 0 {
			p |= 1 << (8 * i)
		}
	}
	return p
}

// PackBytes encodes eight raw direction bytes.
func PackBytes(b [NumDirections]byte) Packed {
	var p Packed
	for i, v := range b {
		p |= Packed(v) << (8 * i)
	}
	return p
}

// Byte returns the raw byte stored for direction d.
func (p Packed) Byte(d Direction) byte {
	return byte(p >> (8 * (d % NumDirections)))
}

// Mask unpacks p.
func (p Packed) Mask() Mask {
	var m Mask
	for i := 0; i < NumDirections; i++ {
		if byte(p>>(8*i)) != 0 {
			m |= 1 << i
		}
	}
	return m
}

// PackedMask ignores the grid and the tile and returns its packed mask.
type PackedMask struct {
	Packed Packed
}

func (s PackedMask) Sample(Grid, *Tile) Mask {
	return s.Packed.Mask()
}
