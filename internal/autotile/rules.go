package autotile

// Background ids with a blend exception.
const (
	WillowOverlayBackground  MaterialID = 8930
	TwistedWindowsBackground MaterialID = 1194
	DwarvenBackgroundSubject MaterialID = 3556
)

// Overlay materials the backgrounds above blend into. These follow the
// item-id layout of their subjects and can be overridden from config.
const (
	WeepingWillow     MaterialID = 8932
	TwistedWindows    MaterialID = 1196
	DwarvenBackground MaterialID = 3558
)

// BlendException lets a subject background blend with a neighbor of a
// different id. It is one-directional.
type BlendException struct {
	Subject  MaterialID `yaml:"subject"`
	Neighbor MaterialID `yaml:"neighbor"`
}

// BlendRules is the static data the background-blend sampler consults.
type BlendRules struct {
	NonBlend   TileFlags
	Exceptions []BlendException
}

// DefaultBlendRules returns the built-in exception table.
func DefaultBlendRules() BlendRules {
	return BlendRules{
		NonBlend: FlagNonBlend,
		Exceptions: []BlendException{
			{Subject: WillowOverlayBackground, Neighbor: WeepingWillow},
			{Subject: TwistedWindowsBackground, Neighbor: TwistedWindows},
			{Subject: DwarvenBackgroundSubject, Neighbor: DwarvenBackground},
		},
	}
}

// Compatible reports whether a neighbor background blends with the
// subject background, ignoring flags.
func (r BlendRules) Compatible(subject, neighbor MaterialID) bool {
	if subject == neighbor {
		return true
	}
	for _, e := range r.Exceptions {
		if e.Subject == subject && e.Neighbor == neighbor {
			return true
		}
	}
	return false
}

// Blocks reports whether t refuses to blend regardless of material.
func (r BlendRules) Blocks(t *Tile) bool {
	return t.Background != 0 && t.Flags&r.NonBlend != 0
}
