package render

import (
	"fmt"
	"strings"

	"blobtile/internal/autotile"
	"blobtile/internal/maps"
)

// HUDRows is the number of screen rows reserved below the map.
const HUDRows = 4

// Cell is one terminal cell in 24-bit color.
type Cell struct {
	Ch            rune
	FgR, FgG, FgB uint8
	BgR, BgG, BgB uint8
	Bold          bool
}

// stale differs from every drawable cell, so a frame filled with it
// diffs as fully changed.
var stale = Cell{Ch: -1, Bold: true}

// backdrop is the colour behind empty screen areas.
var backdrop = Cell{Ch: ' ', BgR: 10, BgG: 10, BgB: 15}

// frame is a screen buffer indexed [row][col].
type frame [][]Cell

func newFrame(width, height int, c Cell) frame {
	f := make(frame, height)
	for y := range f {
		f[y] = make([]Cell, width)
	}
	f.fill(c)
	return f
}

func (f frame) fill(c Cell) {
	for _, row := range f {
		for x := range row {
			row[x] = c
		}
	}
}

// set writes c when (row, col) is on screen.
func (f frame) set(row, col int, c Cell) bool {
	if row < 0 || row >= len(f) || col < 0 || col >= len(f[row]) {
		return false
	}
	f[row][col] = c
	return true
}

// View is everything one frame needs.
type View struct {
	World   *maps.World
	Indices [][]int // [y][x] atlas indices for World
	Sampler autotile.Sampler
	Mode    autotile.Mode

	CursorX, CursorY int

	Status   string
	Sessions int
}

// Engine renders views as ANSI output, emitting only cells that changed
// since the previous frame.
type Engine struct {
	width, height int
	shown         frame // what the terminal displays
	drawing       frame // the frame being composed
}

// NewEngine creates an engine for a width×height terminal.
func NewEngine(width, height int) *Engine {
	e := &Engine{}
	e.Resize(width, height)
	return e
}

// Resize reallocates both frames and forces a full redraw.
func (e *Engine) Resize(width, height int) {
	e.width, e.height = width, height
	e.shown = newFrame(width, height, stale)
	e.drawing = newFrame(width, height, backdrop)
}

// Invalidate forces the next frame to redraw every cell.
func (e *Engine) Invalidate() {
	e.shown.fill(stale)
}

// Render draws v into a termW×termH screen and returns the escape
// sequence that brings the terminal from the previous frame to this one.
func (e *Engine) Render(v View, termW, termH int) string {
	if termW != e.width || termH != e.height {
		e.Resize(termW, termH)
	}

	e.drawing.fill(backdrop)
	if v.World != nil {
		e.drawWorld(v)
	}
	e.drawHUD(v)

	var sb strings.Builder
		cursorRow, cursorCol := -1, -1
	for y, row := range e.drawing {
		for x, c := range row {
			if c == e.shown[y][x] {
				continue
			}
			if y != cursorRow || x != cursorCol {
				sb.WriteString(MoveTo(y+1, x+1))
			}
			WriteCellSGR(&sb, c)
			cursorRow, cursorCol = y, x+1
		}
	}
	if sb.Len() > 0 {
		sb.WriteString(Reset)
	}

	e.shown, e.drawing = e.drawing, e.shown
	return sb.String()
}

// Cells returns the most recently rendered frame.
func (e *Engine) Cells() [][]Cell {
	return e.shown
}

func (e *Engine) drawWorld(v View) {
	w := v.World
	vp := NewViewport(v.CursorX, v.CursorY, e.width, e.height, w.Width(), w.Height(), HUDRows)

	for ty := 0; ty < vp.ViewH; ty++ {
		for tx := 0; tx < vp.ViewW; tx++ {
			wx, wy := vp.CamX+tx, vp.CamY+ty
			t, ok := w.TileAt(wx, wy)
			if !ok {
				continue
			}
			sx, sy := vp.WorldToScreen(wx, wy)
			if sx < 0 {
				continue
			}
			left, right := TileCells(w, t, indexAt(v.Indices, wx, wy))
			if wx == v.CursorX && wy == v.CursorY {
				left, right = highlight(left), highlight(right)
			}
			e.drawing.set(sy, sx, left)
			e.drawing.set(sy, sx+1, right)
		}
	}
}

func indexAt(indices [][]int, x, y int) int {
	if y < 0 || y >= len(indices) || x < 0 || x >= len(indices[y]) {
		return autotile.IndexIsolated
	}
	return indices[y][x]
}

// TileCells returns the two screen cells for a tile with the given
// atlas index. Empty tiles draw as a dim dot.
func TileCells(w *maps.World, t *autotile.Tile, index int) (Cell, Cell) {
	mat := w.MaterialInfo(t.Material())
	fgR, fgG, fgB := AnsiToRGB(mat.Fg)
	bgR, bgG, bgB := backdrop.BgR, backdrop.BgG, backdrop.BgB
	if mat.Bg != 0 {
		bgR, bgG, bgB = AnsiToRGB(mat.Bg)
		bgR, bgG, bgB = bgR/4, bgG/4, bgB/4
	}

	if t.Material() == 0 {
		dot := Cell{Ch: '·', FgR: 40, FgG: 40, FgB: 50, BgR: bgR, BgG: bgG, BgB: bgB}
		return dot, Cell{Ch: ' ', BgR: bgR, BgG: bgG, BgB: bgB}
	}

	g := GlyphFor(index)
	left := Cell{Ch: g.Left, FgR: fgR, FgG: fgG, FgB: fgB, BgR: bgR, BgG: bgG, BgB: bgB}
	right := Cell{Ch: g.Right, FgR: fgR, FgG: fgG, FgB: fgB, BgR: bgR, BgG: bgG, BgB: bgB}
	if g.Notched {
		right.Bold = true
	}
	return left, right
}

func highlight(c Cell) Cell {
	c.FgR, c.BgR = c.BgR, 230
	c.FgG, c.BgG = c.BgG, 200
	c.FgB, c.BgB = c.BgB, 60
	c.Bold = true
	return c
}

// HUD palette. Only the colours are used; Ch is set per rune.
var (
	hudPanel  = Cell{Ch: ' ', BgR: 15, BgG: 18, BgB: 30}
	hudText   = hudStyle(180, 180, 195, false)
	hudDim    = hudStyle(60, 65, 85, false)
	hudTitle  = hudStyle(120, 200, 255, true)
	hudMode   = hudStyle(230, 200, 60, true)
	hudStatus = hudStyle(150, 220, 150, false)
	hudHelp   = hudStyle(90, 95, 115, false)
)

func hudStyle(r, g, b uint8, bold bool) Cell {
	c := hudPanel
	c.FgR, c.FgG, c.FgB, c.Bold = r, g, b, bold
	return c
}

func (e *Engine) drawHUD(v View) {
	top := e.height - HUDRows
	if top < 0 {
		return
	}
	split := e.width * 2 / 3

	// Rule with a left-to-right fade.
	for x := 0; x < e.width; x++ {
		fade := uint8(60 - x*40/max(e.width, 1))
		rule := hudStyle(40+fade, 70+fade, 90+fade, false)
		rule.Ch = '━'
		e.drawing.set(top, x, rule)
	}
	for y := top + 1; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			e.drawing.set(y, x, hudPanel)
		}
		if split > 0 && split < e.width {
			bar := hudStyle(50, 60, 80, false)
			bar.Ch = '│'
			e.drawing.set(y, split, bar)
		}
	}

	// fields writes parts left to right from column 1, separated by bars.
	fields := func(row int, parts ...string) {
		col := 1
		for i, p := range parts {
			if i > 0 {
				col = e.writeText(row, col, split, "  │  ", hudDim)
			}
			style := hudText
			switch {
			case row == top+1 && i == 0:
				style = hudTitle
			case row == top+1 && i == len(parts)-1:
				style = hudMode
			}
			col = e.writeText(row, col, split, p, style)
		}
	}

	name, size := "(no world)", ""
	if v.World != nil {
		name = v.World.Name
		size = fmt.Sprintf("%dx%d", v.World.Width(), v.World.Height())
	}
	fields(top+1, name, size, "mode "+v.Mode.String())

	if v.World != nil {
		if t, ok := v.World.TileAt(v.CursorX, v.CursorY); ok {
			mat := v.World.MaterialInfo(t.Material())
			tile := []string{
				fmt.Sprintf("(%d,%d)", v.CursorX, v.CursorY),
				fmt.Sprintf("%s #%d", mat.Name, t.Material()),
			}
			if t.Flags != 0 {
				tile = append(tile, fmt.Sprintf("flags 0x%04x", uint16(t.Flags)))
			}
			fields(top+2, tile...)

			idx := indexAt(v.Indices, v.CursorX, v.CursorY)
			var shape []string
			if v.Sampler != nil {
				shape = append(shape, "mask "+v.Sampler.Sample(v.World, t).String())
			}
			shape = append(shape, fmt.Sprintf("index %d", idx), GlyphFor(idx).String())
			fields(top+3, shape...)
		}
	}

	right := split + 2
	e.writeText(top+1, right, e.width, fmt.Sprintf("%d viewing", v.Sessions), hudText)
	e.writeText(top+2, right, e.width, v.Status, hudStatus)
	e.writeText(top+3, right, e.width, "wasd move  m mode  tab world  q quit", hudHelp)
}

// writeText draws text in style from col, stopping before maxCol, and
// returns the column after the last rune.
func (e *Engine) writeText(row, col, maxCol int, text string, style Cell) int {
	for _, r := range text {
		if col >= min(maxCol, e.width) {
			break
		}
		style.Ch = r
		e.drawing.set(row, col, style)
		col++
	}
	return col
}
