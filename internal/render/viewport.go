package render

// Viewport is the window of world tiles that fits on screen.
type Viewport struct {
	CamX, CamY   int // top-left world tile
	ViewW, ViewH int // size in tiles
}

// NewViewport centers the window on the cursor and keeps it inside the
// world. hudRows terminal rows at the bottom are left for the HUD.
func NewViewport(cursorX, cursorY, termW, termH, worldW, worldH, hudRows int) Viewport {
	viewW := max(termW/CellWidth, 0)
	viewH := max(termH-hudRows, 0)
	return Viewport{
		CamX:  centerAxis(cursorX, viewW, worldW),
		CamY:  centerAxis(cursorY, viewH, worldH),
		ViewW: viewW,
		ViewH: viewH,
	}
}

// centerAxis returns the window origin along one axis. A world smaller
// than the window pins the origin at 0.
func centerAxis(cursor, view, world int) int {
	origin := cursor - view/2
	origin = min(origin, world-view)
	return max(origin, 0)
}

// WorldToScreen maps a world tile to the 0-based screen column and row
// of its first cell, or -1,-1 when the tile is off screen.
func (v Viewport) WorldToScreen(wx, wy int) (int, int) {
	tx, ty := wx-v.CamX, wy-v.CamY
	if tx < 0 || tx >= v.ViewW || ty < 0 || ty >= v.ViewH {
		return -1, -1
	}
	return tx * CellWidth, ty
}
