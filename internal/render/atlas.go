package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"

	"blobtile/internal/autotile"
	"blobtile/internal/maps"
)

// AtlasCell is the edge length of one atlas cell in pixels.
const AtlasCell = 16

// AtlasColumns is the number of cells per row in an atlas sheet.
const AtlasColumns = 8

// AtlasRows is the number of rows needed for every variant.
const AtlasRows = (autotile.NumVariants + AtlasColumns - 1) / AtlasColumns

// Pixel is one sprite pixel. Transparent pixels show the backdrop.
type Pixel struct {
	R, G, B     uint8
	Transparent bool
}

func rgb(r, g, b uint8) Pixel { return Pixel{R: r, G: g, B: b} }

var clearPixel = Pixel{Transparent: true}

// Sprite is one atlas cell.
type Sprite [AtlasCell][AtlasCell]Pixel

// fill paints the rectangle [x0,x1)×[y0,y1).
func (s *Sprite) fill(x0, y0, x1, y1 int, p Pixel) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			s[y][x] = p
		}
	}
}

func blankSprite() Sprite {
	var s Sprite
	s.fill(0, 0, AtlasCell, AtlasCell, clearPixel)
	return s
}

// Atlas holds one sprite per blob variant, in atlas-index order.
type Atlas struct {
	sprites [autotile.NumVariants]Sprite
}

// Sprite returns the sprite for an atlas index, or a magenta
// placeholder when out of range.
func (a *Atlas) Sprite(index int) Sprite {
	if index < 0 || index >= autotile.NumVariants {
		var s Sprite
		s.fill(0, 0, AtlasCell, AtlasCell, rgb(255, 0, 255))
		return s
	}
	return a.sprites[index]
}

// LoadAtlas reads an atlas sheet: AtlasColumns cells per row, 16x16
// each, cell i at column i%AtlasColumns, row i/AtlasColumns.
// Alpha=0 or magenta (#FF00FF) pixels are treated as transparent.
func LoadAtlas(path string) (*Atlas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return DecodeAtlas(f)
}

// DecodeAtlas reads an atlas sheet from r.
func DecodeAtlas(r io.Reader) (*Atlas, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode atlas: %w", err)
	}

	bounds := img.Bounds()
	wantW, wantH := AtlasColumns*AtlasCell, AtlasRows*AtlasCell
	if bounds.Dx() < wantW || bounds.Dy() < wantH {
		return nil, fmt.Errorf("atlas: expected at least %dx%d, got %dx%d", wantW, wantH, bounds.Dx(), bounds.Dy())
	}

	a := &Atlas{}
	for idx := range a.sprites {
		ox := bounds.Min.X + (idx%AtlasColumns)*AtlasCell
		oy := bounds.Min.Y + (idx/AtlasColumns)*AtlasCell
		for y := 0; y < AtlasCell; y++ {
			for x := 0; x < AtlasCell; x++ {
				cr, cg, cb, ca := img.At(ox+x, oy+y).RGBA()
				r8, g8, b8 := uint8(cr>>8), uint8(cg>>8), uint8(cb>>8)
				if ca < 0x8000 || (r8 == 0xFF && g8 == 0x00 && b8 == 0xFF) {
					a.sprites[idx][y][x] = clearPixel
				} else {
					a.sprites[idx][y][x] = rgb(r8, g8, b8)
				}
			}
		}
	}
	return a, nil
}

// GenerateAtlas draws a plain grayscale atlas from each variant's
// reduced mask: a center block, an arm per connected side and a filled
// corner per connected diagonal.
func GenerateAtlas() *Atlas {
	const lo, hi = 4, 12 // center block spans [lo, hi)

	a := &Atlas{}
	for idx, m := range autotile.Variants() {
		s := blankSprite()
		fill := func(x0, y0, x1, y1 int, shade uint8) {
			s.fill(x0, y0, x1, y1, rgb(shade, shade, shade))
		}

		fill(lo, lo, hi, hi, 255)
		if m.Has(autotile.North) {
			fill(lo, 0, hi, lo, 235)
		}
		if m.Has(autotile.South) {
			fill(lo, hi, hi, AtlasCell, 235)
		}
		if m.Has(autotile.West) {
			fill(0, lo, lo, hi, 235)
		}
		if m.Has(autotile.East) {
			fill(hi, lo, AtlasCell, hi, 235)
		}
		if m.Has(autotile.NorthWest) {
			fill(0, 0, lo, lo, 215)
		}
		if m.Has(autotile.NorthEast) {
			fill(hi, 0, AtlasCell, lo, 215)
		}
		if m.Has(autotile.SouthWest) {
			fill(0, hi, lo, AtlasCell, 215)
		}
		if m.Has(autotile.SouthEast) {
			fill(hi, hi, AtlasCell, AtlasCell, 215)
		}
		a.sprites[idx] = s
	}
	return a
}

// Image renders the atlas as a sheet in the layout LoadAtlas reads.
// Transparent pixels become magenta.
func (a *Atlas) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, AtlasColumns*AtlasCell, AtlasRows*AtlasCell))
	for idx := range a.sprites {
		ox := (idx % AtlasColumns) * AtlasCell
		oy := (idx / AtlasColumns) * AtlasCell
		for y := 0; y < AtlasCell; y++ {
			for x := 0; x < AtlasCell; x++ {
				p := a.sprites[idx][y][x]
				if p.Transparent {
					img.Set(ox+x, oy+y, color.RGBA{0xFF, 0, 0xFF, 0xFF})
					continue
				}
				img.Set(ox+x, oy+y, color.RGBA{p.R, p.G, p.B, 0xFF})
			}
		}
	}
	return img
}

// WritePNG encodes the atlas sheet.
func (a *Atlas) WritePNG(w io.Writer) error {
	return png.Encode(w, a.Image())
}

// Preview composes a world image: each tile draws its atlas sprite
// tinted by its material's foreground color over a dark backdrop.
// indices is [y][x] as returned by autotile.ResolveGrid.
func (a *Atlas) Preview(world *maps.World, indices [][]int) *image.RGBA {
	w, h := world.Width(), world.Height()
	img := image.NewRGBA(image.Rect(0, 0, w*AtlasCell, h*AtlasCell))
	backdrop := color.RGBA{10, 10, 15, 0xFF}

	for ty := 0; ty < h; ty++ {
		for tx := 0; tx < w; tx++ {
			t, _ := world.TileAt(tx, ty)
			mat := world.MaterialInfo(t.Material())
			tr, tg, tb := AnsiToRGB(mat.Fg)

			idx := autotile.IndexIsolated
			if ty < len(indices) && tx < len(indices[ty]) {
				idx = indices[ty][tx]
			}
			sprite := a.Sprite(idx)
			for y := 0; y < AtlasCell; y++ {
				for x := 0; x < AtlasCell; x++ {
					p := sprite[y][x]
					c := backdrop
					if !p.Transparent && t.Material() != 0 {
						c = color.RGBA{tint(p.R, tr), tint(p.G, tg), tint(p.B, tb), 0xFF}
					}
					img.SetRGBA(tx*AtlasCell+x, ty*AtlasCell+y, c)
				}
			}
		}
	}
	return img
}

func tint(v, c uint8) uint8 {
	return uint8(uint16(v) * uint16(c) / 255)
}

// ExportPNG writes the world preview scaled by an integer factor.
func (a *Atlas) ExportPNG(out io.Writer, world *maps.World, indices [][]int, scale int) error {
	img := a.Preview(world, indices)
	if scale > 1 {
		b := img.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}
