package autotile

// MaterialID identifies a foreground or background material. Zero is empty.
type MaterialID uint16

// TileFlags is the per-tile flag word.
type TileFlags uint16

// FlagNonBlend is the default occlusion bit: a background carrying it
// never blends with its neighbors.
const FlagNonBlend TileFlags = 1 << 11

// Tile is one grid cell as seen by the samplers. It is read-only here.
type Tile struct {
	X, Y       uint8
	Background MaterialID
	Foreground MaterialID
	Flags      TileFlags
}

// Material returns the foreground id, or the background id when the
// foreground is empty.
func (t *Tile) Material() MaterialID {
	if t.Foreground != 0 {
		return t.Foreground
	}
	return t.Background
}

// Grid is the world the samplers read from. TileAt reports ok=false for
// coordinates outside [0,Width)×[0,Height).
type Grid interface {
	Width() int
	Height() int
	TileAt(x, y int) (*Tile, bool)
}
