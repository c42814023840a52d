package autotile

import "strings"

// Direction is one of the eight compass neighbors of a tile.
// The numeric order is also the query order used by every sampler
// and the byte order of a Packed mask.
type Direction uint8

const (
	East Direction = iota
	SouthEast
	South
	SouthWest
	West
	NorthWest
	North
	NorthEast

	NumDirections = 8
)

var directionNames = [NumDirections]string{"E", "SE", "S", "SW", "W", "NW", "N", "NE"}

// offsets are (dx, dy) with +y pointing south, matching grid row order.
var offsets = [NumDirections][2]int{
	{1, 0},   // E
	{1, 1},   // SE
	{0, 1},   // S
	{-1, 1},  // SW
	{-1, 0},  // W
	{-1, -1}, // NW
	{0, -1},  // N
	{1, -1},  // NE
}

// Directions lists all directions in query order.
var Directions = [NumDirections]Direction{East, SouthEast, South, SouthWest, West, NorthWest, North, NorthEast}

func (d Direction) String() string {
	if d >= NumDirections {
		return "?"
	}
	return directionNames[d]
}

// Offset returns the grid delta to the neighbor in direction d.
func (d Direction) Offset() (dx, dy int) {
	o := offsets[d%NumDirections]
	return o[0], o[1]
}

// Diagonal reports whether d is a corner direction.
func (d Direction) Diagonal() bool {
	return d%2 == 1
}

// Flanks returns the two cardinals adjacent to a diagonal.
// For a cardinal direction it returns d twice.
func (d Direction) Flanks() (Direction, Direction) {
	if !d.Diagonal() {
		return d, d
	}
	return (d + NumDirections - 1) % NumDirections, (d + 1) % NumDirections
}

// Mask is the ConnectivityMask: bit i is set when the neighbor in
// Direction i is compatible with the subject tile.
type Mask uint8

// Bits for each direction.
const (
	MaskE  Mask = 1 << East
	MaskSE Mask = 1 << SouthEast
	MaskS  Mask = 1 << South
	MaskSW Mask = 1 << SouthWest
	MaskW  Mask = 1 << West
	MaskNW Mask = 1 << NorthWest
	MaskN  Mask = 1 << North
	MaskNE Mask = 1 << NorthEast

	MaskNone      Mask = 0
	MaskAll       Mask = 0xFF
	MaskCardinals      = MaskN | MaskE | MaskS | MaskW
	MaskDiagonals      = MaskNE | MaskSE | MaskSW | MaskNW
)

// MaskOf builds a mask from the listed compatible directions.
func MaskOf(dirs ...Direction) Mask {
	var m Mask
	for _, d := range dirs {
		m = m.With(d, true)
	}
	return m
}

// MaskFromBools builds a mask from eight booleans in Direction order.
func MaskFromBools(b [NumDirections]bool) Mask {
	var m Mask
	for i, v := range b {
		if v {
			m |= 1 << i
		}
	}
	return m
}

// Has reports whether the neighbor in direction d is compatible.
func (m Mask) Has(d Direction) bool {
	return m&(1<<(d%NumDirections)) != 0
}

// With returns a copy of m with direction d set to v.
func (m Mask) With(d Direction, v bool) Mask {
	bit := Mask(1) << (d % NumDirections)
	if v {
		return m | bit
	}
	return m &^ bit
}

// Bools expands the mask into eight booleans in Direction order.
func (m Mask) Bools() [NumDirections]bool {
	var b [NumDirections]bool
	for i := range b {
		b[i] = m&(1<<i) != 0
	}
	return b
}

// Cardinals returns only the N, E, S and W bits of m.
func (m Mask) Cardinals() Mask {
	return m & MaskCardinals
}

// Reduced clears every diagonal whose two flanking cardinals are not
// both set. Resolve(m) == Resolve(m.Reduced()) for every mask.
func (m Mask) Reduced() Mask {
	out := m.Cardinals()
	for _, d := range []Direction{SouthEast, SouthWest, NorthWest, NorthEast} {
		a, b := d.Flanks()
		if m.Has(d) && m.Has(a) && m.Has(b) {
			out |= 1 << d
		}
	}
	return out
}

// String renders the set directions, e.g. "N|E|NE", or "-" when empty.
func (m Mask) String() string {
	if m == 0 {
		return "-"
	}
	var parts []string
	for _, d := range []Direction{North, East, South, West, NorthEast, SouthEast, SouthWest, NorthWest} {
		if m.Has(d) {
			parts = append(parts, d.String())
		}
	}
	return strings.Join(parts, "|")
}
