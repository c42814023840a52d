package render

import "blobtile/internal/autotile"

// cardinalGlyphs is indexed by the N|E|S|W bits of a reduced mask
// (N=1, E=2, S=4, W=8).
var cardinalGlyphs = [16]rune{
	'□', '╹', '╺', '┗',
	'╻', '┃', '┏', '┣',
	'╸', '┛', '━', '┻',
	'┓', '┫', '┳', '╋',
}

func cardinalKey(m autotile.Mask) int {
	k := 0
	if m.Has(autotile.North) {
		k |= 1
	}
	if m.Has(autotile.East) {
		k |= 2
	}
	if m.Has(autotile.South) {
		k |= 4
	}
	if m.Has(autotile.West) {
		k |= 8
	}
	return k
}

// Glyph is the two-column terminal rendering of one atlas variant.
type Glyph struct {
	Left, Right rune
	// Notched is true when a corner between two connected sides is cut.
	Notched bool
}

var glyphs [autotile.NumVariants]Glyph

func init() {
	for idx, m := range autotile.Variants() {
		g := Glyph{Left: cardinalGlyphs[cardinalKey(m)], Right: ' '}
		if m.Has(autotile.East) {
			g.Right = '━'
		}
		if m == autotile.MaskAll {
			g.Left, g.Right = '█', '█'
		}
		for _, d := range []autotile.Direction{autotile.NorthEast, autotile.SouthEast, autotile.SouthWest, autotile.NorthWest} {
			a, b := d.Flanks()
			if m.Has(a) && m.Has(b) && !m.Has(d) {
				g.Notched = true
			}
		}
		glyphs[idx] = g
	}
}

// GlyphFor returns the glyph for an atlas index; out-of-range indices
// get a placeholder.
func GlyphFor(index int) Glyph {
	if index < 0 || index >= autotile.NumVariants {
		return Glyph{Left: '?', Right: '?'}
	}
	return glyphs[index]
}

// String returns both columns.
func (g Glyph) String() string {
	return string([]rune{g.Left, g.Right})
}
