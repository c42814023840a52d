package autotile

import "fmt"

const (
	// NumVariants is the number of distinct atlas indices in a blob sheet.
	NumVariants = 47

	// IndexInterior is the fully surrounded tile.
	IndexInterior = 0
	// IndexIsolated is the tile with no compatible neighbor.
	IndexIsolated = 12
)

// family is one cardinal shape and its per-corner refinements.
// corners lists only diagonals whose two flanking cardinals are both in
// cardinals; variants is indexed by the corner bits in corners order.
type family struct {
	cardinals Mask
	corners   []Direction
	variants  []uint8
}

// families is the blob-47 atlas layout.
var families = []family{
	{MaskNone, nil, []uint8{12}},
	{MaskN, nil, []uint8{11}},
	{MaskE, nil, []uint8{29}},
	{MaskS, nil, []uint8{10}},
	{MaskW, nil, []uint8{30}},

	{MaskN | MaskS, nil, []uint8{9}},
	{MaskE | MaskW, nil, []uint8{28}},

	{MaskN | MaskE, []Direction{NorthEast}, []uint8{43, 7}},
	{MaskE | MaskS, []Direction{SouthEast}, []uint8{45, 5}},
	{MaskS | MaskW, []Direction{SouthWest}, []uint8{46, 6}},
	{MaskN | MaskW, []Direction{NorthWest}, []uint8{44, 8}},

	// Three sides: bit0 = first corner, bit1 = second corner.
	{MaskN | MaskE | MaskS, []Direction{NorthEast, SouthEast}, []uint8{33, 32, 31, 3}},
	{MaskE | MaskS | MaskW, []Direction{SouthEast, SouthWest}, []uint8{39, 37, 38, 1}},
	{MaskN | MaskS | MaskW, []Direction{SouthWest, NorthWest}, []uint8{36, 34, 35, 4}},
	{MaskN | MaskE | MaskW, []Direction{NorthEast, NorthWest}, []uint8{42, 40, 41, 2}},

	{MaskCardinals, []Direction{NorthEast, SouthEast, SouthWest, NorthWest}, []uint8{
		27, 24, 26, 19,
		25, 21, 17, 13,
		23, 18, 22, 15,
		20, 16, 14, 0,
	}},
}

var (
	blobTable      [256]uint8
	representative [NumVariants]Mask
)

func init() {
	byCardinals := make(map[Mask]*family, len(families))
	for i := range families {
		f := &families[i]
		if len(f.variants) != 1<<len(f.corners) {
			panic(fmt.Sprintf("autotile: family %v has %d variants for %d corners", f.cardinals, len(f.variants), len(f.corners)))
		}
		for _, c := range f.corners {
			a, b := c.Flanks()
			if !f.cardinals.Has(a) || !f.cardinals.Has(b) {
				panic(fmt.Sprintf("autotile: family %v refines unsupported corner %v", f.cardinals, c))
			}
		}
		byCardinals[f.cardinals] = f
	}

	var seen [NumVariants]bool
	for raw := 0; raw < 256; raw++ {
		m := Mask(raw)
		f, ok := byCardinals[m.Cardinals()]
		if !ok {
			panic(fmt.Sprintf("autotile: no family for cardinals %v", m.Cardinals()))
		}
		sel := 0
		for j, c := range f.corners {
			if m.Has(c) {
				sel |= 1 << j
			}
		}
		idx := f.variants[sel]
		blobTable[raw] = idx
		if m == m.Reduced() {
			if seen[idx] {
				panic(fmt.Sprintf("autotile: index %d produced by two reduced masks", idx))
			}
			seen[idx] = true
			representative[idx] = m
		}
	}
	for idx, ok := range seen {
		if !ok {
			panic(fmt.Sprintf("autotile: index %d unreachable", idx))
		}
	}
}

// Resolve maps a connectivity mask to its atlas index in [0, NumVariants).
// Diagonals only matter when both of their flanking cardinals are set.
func Resolve(m Mask) int {
	return int(blobTable[m])
}

// Representative returns the reduced mask drawn by the given atlas index.
func Representative(index int) (Mask, bool) {
	if index < 0 || index >= NumVariants {
		return 0, false
	}
	return representative[index], true
}

// Variants returns the reduced mask for every atlas index, in index order.
func Variants() [NumVariants]Mask {
	return representative
}

// Table returns a copy of the full 256-entry lookup table.
func Table() [256]uint8 {
	return blobTable
}
