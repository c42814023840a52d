package maps

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blobtile/internal/autotile"
)

const pondJSON = `{
  "name": "Pond",
  "width": 4,
  "height": 3,
  "materials": {
    "2": {"name": "grass", "char": ".", "fg": "green"},
    "8": {"name": "water", "char": "~", "fg": "blue", "bg": "cyan"}
  },
  "background": [
    [2, 2, 2, 2],
    [2, 8, 8, 2],
    [2, 2, 2, 2]
  ],
  "foreground": [
    [0, 0, 0, 5],
    [0, 0, 0, 0],
    [0, 0, 0, 0]
  ],
  "flags": [
    [0, 0, 0, 0],
    [0, 0, 2048, 0],
    [0, 0, 0, 0]
  ]
}`

func TestDecodeWorld(t *testing.T) {
	w, err := DecodeWorld([]byte(pondJSON))
	if err != nil {
		t.Fatalf("DecodeWorld: %v", err)
	}
	if w.Name != "Pond" || w.Width() != 4 || w.Height() != 3 {
		t.Fatalf("got %q %dx%d", w.Name, w.Width(), w.Height())
	}

	tile, ok := w.TileAt(2, 1)
	if !ok {
		t.Fatal("TileAt(2,1) missing")
	}
	if tile.X != 2 || tile.Y != 1 || tile.Background != 8 || tile.Flags != autotile.FlagNonBlend {
		t.Errorf("tile = %+v", *tile)
	}
	if fg, _ := w.TileAt(3, 0); fg.Foreground != 5 || fg.Material() != 5 {
		t.Errorf("foreground tile = %+v", *fg)
	}
	if _, ok := w.TileAt(4, 0); ok {
		t.Error("TileAt(4,0) should be out of range")
	}

	water := w.MaterialInfo(8)
	if water.Name != "water" || water.Char != '~' || water.Fg != 34 || water.Bg != 36 {
		t.Errorf("water = %+v", water)
	}
	if unknown := w.MaterialInfo(77); unknown.Char != '?' {
		t.Errorf("unknown material = %+v", unknown)
	}
}

func TestDecodeWorldRejects(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"not json", `{`, "parse world JSON"},
		{"missing background", `{"name":"x","width":1,"height":1}`, "world schema"},
		{"zero width", `{"name":"x","width":0,"height":1,"background":[[]]}`, "world schema"},
		{"too tall", `{"name":"x","width":1,"height":300,"background":[[1]]}`, "world schema"},
		{"negative id", `{"name":"x","width":1,"height":1,"background":[[-1]]}`, "world schema"},
		{"short row", `{"name":"x","width":2,"height":1,"background":[[1]]}`, "background row 0 has 1 tiles"},
		{"missing row", `{"name":"x","width":1,"height":2,"background":[[1]]}`, "background rows 1 != declared height 2"},
		{"bad flags rows", `{"name":"x","width":1,"height":1,"background":[[1]],"flags":[]}`, "flags rows 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeWorld([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	src, err := DecodeWorld([]byte(pondJSON))
	if err != nil {
		t.Fatalf("DecodeWorld: %v", err)
	}

	dir := t.TempDir()
	for _, name := range []string{"pond.json", "pond.json.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := SaveWorld(path, src); err != nil {
				t.Fatalf("SaveWorld: %v", err)
			}
			got, err := LoadWorld(path)
			if err != nil {
				t.Fatalf("LoadWorld: %v", err)
			}
			for y := 0; y < src.Height(); y++ {
				for x := 0; x < src.Width(); x++ {
					a, _ := src.TileAt(x, y)
					b, _ := got.TileAt(x, y)
					if *a != *b {
						t.Fatalf("(%d,%d): %+v != %+v", x, y, *a, *b)
					}
				}
			}
			if got.MaterialInfo(8) != src.MaterialInfo(8) {
				t.Errorf("material 8: %+v != %+v", got.MaterialInfo(8), src.MaterialInfo(8))
			}
		})
	}

	raw, err := os.ReadFile(filepath.Join(dir, "pond.json.zst"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(raw, []byte{0x28, 0xB5, 0x2F, 0xFD}) {
		t.Errorf("zst file does not start with a zstd frame: % x", raw[:min(len(raw), 4)])
	}
}

func TestLoadWorlds(t *testing.T) {
	dir := t.TempDir()
	write := func(name, doc string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(doc), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.json", pondJSON)
	write("b.json", `{"name":"Tiny","width":1,"height":1,"background":[[3]]}`)
	write("notes.txt", "ignored")

	all, err := LoadWorlds(dir)
	if err != nil {
		t.Fatalf("LoadWorlds: %v", err)
	}
	if got := SortedNames(all); len(got) != 2 || got[0] != "Pond" || got[1] != "Tiny" {
		t.Errorf("names = %v", got)
	}

	write("c.json", `{"name":"Tiny","width":1,"height":1,"background":[[4]]}`)
	if _, err := LoadWorlds(dir); err == nil || !strings.Contains(err.Error(), "duplicate world name") {
		t.Errorf("err = %v, want duplicate name", err)
	}
}

func TestNewWorldBounds(t *testing.T) {
	for _, size := range [][2]int{{0, 1}, {1, 0}, {257, 1}, {1, 257}} {
		if _, err := NewWorld("x", size[0], size[1]); err == nil {
			t.Errorf("NewWorld(%dx%d) accepted", size[0], size[1])
		}
	}
	w, err := NewWorld("x", MaxDimension, 1)
	if err != nil {
		t.Fatalf("NewWorld(256x1): %v", err)
	}
	if tile, _ := w.TileAt(255, 0); tile.X != 255 {
		t.Errorf("last tile X = %d", tile.X)
	}
}

func TestShippedWorlds(t *testing.T) {
	all, err := LoadWorlds(filepath.Join("..", "..", "assets", "worlds"))
	if err != nil {
		t.Fatal(err)
	}
	w, ok := all["Lakeside"]
	if !ok {
		t.Fatalf("Lakeside missing, got %v", SortedNames(all))
	}

	blend := autotile.BackgroundBlend{Rules: autotile.DefaultBlendRules()}
	grove, _ := w.TileAt(10, 3)
	willow, _ := w.TileAt(11, 3)
	if grove.Background != autotile.WillowOverlayBackground || willow.Background != autotile.WeepingWillow {
		t.Fatalf("unexpected layout: grove %d willow %d", grove.Background, willow.Background)
	}
	if !blend.Sample(w, grove).Has(autotile.East) {
		t.Error("grove should blend into the willow")
	}
	if blend.Sample(w, willow).Has(autotile.West) {
		t.Error("willow should not blend back into the grove")
	}

	bridge, _ := w.TileAt(1, 5)
	if bridge.Flags&autotile.FlagNonBlend == 0 {
		t.Error("bridge should be flagged non-blending")
	}
	if w.Sample(w, 5, 5) != 1 {
		t.Error("decoded worlds cache every non-empty tile as connected")
	}
}
