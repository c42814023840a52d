package main

import (
	"strings"
	"testing"

	"blobtile/internal/autotile"
	"blobtile/internal/maps"
)

func TestTableString(t *testing.T) {
	out := tableString()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// header + 16 rows + blank + "Variants:" + 47 variants
	if want := 1 + 16 + 2 + autotile.NumVariants; len(lines) != want {
		t.Fatalf("got %d lines, want %d", len(lines), want)
	}
	if !strings.HasPrefix(lines[1], "  0x 12") {
		t.Errorf("row 0 = %q, want the isolated index first", lines[1])
	}
	if !strings.HasSuffix(lines[16], "  0") {
		t.Errorf("row F = %q, want the interior index last", lines[16])
	}
	if !strings.Contains(out, " 0 ██") {
		t.Error("variant list missing the interior glyph")
	}
}

func TestVizString(t *testing.T) {
	w, err := maps.NewWorld("viz", 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	w.Materials[2] = maps.Material{Name: "grass", Fg: 32}
	w.Set(0, 0, 2, 0, 0)

	got := vizString(w, [][]int{{0, 12}})
	want := "\033[32m██\033[0m  \n"
	if got != want {
		t.Errorf("vizString = %q, want %q", got, want)
	}
}

func TestSortedEntries(t *testing.T) {
	got := sortedEntries(map[string]int{"b": 2, "a": 2, "c": 5})
	names := make([]string, len(got))
	for i, e := range got {
		names[i] = e.name
	}
	if strings.Join(names, ",") != "c,a,b" {
		t.Errorf("order = %v, want c,a,b", names)
	}
}

func TestResolvePackedMatchesBackground(t *testing.T) {
	w, err := maps.NewWorld("pair", 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	w.Set(0, 0, 2, 0, 0)
	w.Set(1, 0, 2, 0, 0)
	w.Set(2, 1, 5, 0, 0)

	rules := autotile.DefaultBlendRules()
	bg, err := tools{mode: autotile.ModeBackgroundBlend, rules: rules}.resolve(w)
	if err != nil {
		t.Fatal(err)
	}
	packed, err := tools{mode: autotile.ModePacked, rules: rules}.resolve(w)
	if err != nil {
		t.Fatal(err)
	}
	for y := range bg {
		for x := range bg[y] {
			if bg[y][x] != packed[y][x] {
				t.Errorf("(%d,%d): background %d, packed %d", x, y, bg[y][x], packed[y][x])
			}
		}
	}
}
