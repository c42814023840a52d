package render

import (
	"context"
	"strings"
	"testing"

	"blobtile/internal/autotile"
	"blobtile/internal/maps"
)

func testView(t *testing.T) View {
	t.Helper()
	w := maps.DefaultWorld()
	s, err := autotile.SamplerFor(autotile.ModeBackgroundBlend, w.Collaborators(nil))
	if err != nil {
		t.Fatal(err)
	}
	indices, err := autotile.ResolveGrid(context.Background(), w, s, 2)
	if err != nil {
		t.Fatal(err)
	}
	return View{
		World:   w,
		Indices: indices,
		Sampler: s,
		Mode:    autotile.ModeBackgroundBlend,
		CursorX: 20,
		CursorY: 10,
	}
}

func TestRenderDiff(t *testing.T) {
	v := testView(t)
	e := NewEngine(80, 24)

	first := e.Render(v, 80, 24)
	if !strings.HasPrefix(first, MoveTo(1, 1)) {
		t.Fatalf("first frame should start at the origin, got %q", first[:min(len(first), 16)])
	}
	if !strings.HasSuffix(first, Reset) {
		t.Error("first frame should end with a reset")
	}

	if again := e.Render(v, 80, 24); again != "" {
		t.Errorf("unchanged frame emitted %d bytes", len(again))
	}

	v.CursorX++
	moved := e.Render(v, 80, 24)
	if moved == "" {
		t.Fatal("cursor move emitted nothing")
	}
	if len(moved) >= len(first) {
		t.Errorf("diff frame (%d bytes) not smaller than full frame (%d bytes)", len(moved), len(first))
	}

	e.Invalidate()
	if full := e.Render(v, 80, 24); len(full) < len(first)/2 {
		t.Errorf("invalidated frame too small: %d bytes", len(full))
	}
}

func TestRenderTiles(t *testing.T) {
	v := testView(t)
	e := NewEngine(80, 24)
	e.Render(v, 80, 24)
	cells := e.Cells()

	g := GlyphFor(v.Indices[0][0])
	if cells[0][0].Ch != g.Left || cells[0][1].Ch != g.Right {
		t.Errorf("corner tile = %q%q, want %q", cells[0][0].Ch, cells[0][1].Ch, g.String())
	}
	r, gr, b := AnsiToRGB(90)
	if c := cells[0][0]; c.FgR != r || c.FgG != gr || c.FgB != b {
		t.Errorf("corner fg = (%d,%d,%d), want stone (%d,%d,%d)", c.FgR, c.FgG, c.FgB, r, gr, b)
	}

	cursor := cells[10][40]
	if !cursor.Bold || cursor.BgR != 230 {
		t.Errorf("cursor cell not highlighted: %+v", cursor)
	}
}

func TestRenderHUD(t *testing.T) {
	v := testView(t)
	v.Status = "ready"
	v.Sessions = 3
	e := NewEngine(80, 24)
	e.Render(v, 80, 24)
	cells := e.Cells()

	hudY := 24 - HUDRows
	if cells[hudY][0].Ch != '━' {
		t.Errorf("separator = %q, want ━", cells[hudY][0].Ch)
	}

	row := func(y int) string {
		var sb strings.Builder
		for _, c := range cells[y] {
			sb.WriteRune(c.Ch)
		}
		return sb.String()
	}
	for _, want := range []string{"Default", "40x20", "mode background", "3 viewing"} {
		if !strings.Contains(row(hudY+1), want) {
			t.Errorf("HUD row 1 %q missing %q", row(hudY+1), want)
		}
	}
	if !strings.Contains(row(hudY+2), "(20,10)") || !strings.Contains(row(hudY+2), "water") {
		t.Errorf("HUD row 2 %q missing cursor tile", row(hudY+2))
	}
	if !strings.Contains(row(hudY+3), "index 0") {
		t.Errorf("HUD row 3 %q missing index", row(hudY+3))
	}
}

func TestRenderResize(t *testing.T) {
	v := testView(t)
	e := NewEngine(80, 24)
	e.Render(v, 80, 24)

	out := e.Render(v, 60, 20)
	if out == "" {
		t.Fatal("resize should redraw")
	}
	if got := len(e.Cells()); got != 20 {
		t.Errorf("rows after resize = %d, want 20", got)
	}
}
