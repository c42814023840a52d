package autotile

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveFixedPoints(t *testing.T) {
	tests := []struct {
		name string
		mask Mask
		want int
	}{
		{"all neighbors", MaskAll, IndexInterior},
		{"isolated", MaskNone, IndexIsolated},
		{"east only", MaskE, 29},
		{"north only", MaskN, 11},
		{"south only", MaskS, 10},
		{"west only", MaskW, 30},

		// Straight edges ignore the far corners.
		{"east+west", MaskE | MaskW, 28},
		{"east+west with corners", MaskE | MaskW | MaskDiagonals, 28},
		{"north+south", MaskN | MaskS, 9},
		{"north+south with corners", MaskN | MaskS | MaskDiagonals, 9},

		{"N+E notch", MaskN | MaskE, 43},
		{"N+E filled", MaskN | MaskE | MaskNE, 7},
		{"E+S notch", MaskE | MaskS, 45},
		{"E+S filled", MaskE | MaskS | MaskSE, 5},
		{"S+W notch", MaskS | MaskW, 46},
		{"S+W filled", MaskS | MaskW | MaskSW, 6},
		{"N+W notch", MaskN | MaskW, 44},
		{"N+W filled", MaskN | MaskW | MaskNW, 8},

		{"all cardinals, no corners", MaskCardinals, 27},
		{"all but NE", MaskAll &^ MaskNE, 14},
		{"all but NW", MaskAll &^ MaskNW, 13},
		{"all but SE", MaskAll &^ MaskSE, 16},
		{"all but SW", MaskAll &^ MaskSW, 15},
		{"open to the south", MaskAll &^ (MaskS | MaskSE | MaskSW), 2},
		{"open to the north", MaskAll &^ (MaskN | MaskNE | MaskNW), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.mask); got != tt.want {
				t.Errorf("Resolve(%v) = %d, want %d", tt.mask, got, tt.want)
			}
		})
	}
}

func TestResolveTotalAndDeterministic(t *testing.T) {
	for raw := 0; raw < 256; raw++ {
		m := Mask(raw)
		got := Resolve(m)
		if got < 0 || got >= NumVariants {
			t.Fatalf("Resolve(%v) = %d, out of range", m, got)
		}
		for i := 0; i < 3; i++ {
			if again := Resolve(m); again != got {
				t.Fatalf("Resolve(%v) changed from %d to %d", m, got, again)
			}
		}
	}
}

func TestResolveCornerSuppression(t *testing.T) {
	corners := []Direction{NorthEast, SouthEast, SouthWest, NorthWest}
	for raw := 0; raw < 256; raw++ {
		m := Mask(raw)
		for _, c := range corners {
			a, b := c.Flanks()
			if m.Has(a) && m.Has(b) {
				continue
			}
			flipped := m ^ (1 << c)
			if Resolve(m) != Resolve(flipped) {
				t.Errorf("corner %v changed index without both flanks: %v=%d %v=%d",
					c, m, Resolve(m), flipped, Resolve(flipped))
			}
		}
	}
}

func TestResolveUsesEveryVariant(t *testing.T) {
	counts := make(map[int]int)
	for raw := 0; raw < 256; raw++ {
		counts[Resolve(Mask(raw))]++
	}
	if len(counts) != NumVariants {
		t.Fatalf("table produces %d distinct indices, want %d", len(counts), NumVariants)
	}
}

func TestResolveMatchesGolden(t *testing.T) {
	f, err := os.Open("testdata/blob47.golden")
	if err != nil {
		t.Fatalf("open golden: %v", err)
	}
	defer f.Close()

	var want, got [256]int
	seen := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			t.Fatalf("bad golden line %q", line)
		}
		mask, err := strconv.ParseUint(fields[0], 0, 8)
		if err != nil {
			t.Fatalf("bad mask in %q: %v", line, err)
		}
		idx, err := strconv.Atoi(fields[1])
		if err != nil {
			t.Fatalf("bad index in %q: %v", line, err)
		}
		want[mask] = idx
		seen++
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan golden: %v", err)
	}
	if seen != 256 {
		t.Fatalf("golden has %d entries, want 256", seen)
	}

	for raw := range got {
		got[raw] = Resolve(Mask(raw))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("table mismatch (-golden +got):\n%s", diff)
	}
}

func TestResolveMatchesDecisionProcedure(t *testing.T) {
	for raw := 0; raw < 256; raw++ {
		m := Mask(raw)
		if got, want := Resolve(m), referenceIndex(m); got != want {
			t.Errorf("Resolve(%v) = %d, reference %d", m, got, want)
		}
	}
}

func TestRepresentativeRoundTrip(t *testing.T) {
	for idx := 0; idx < NumVariants; idx++ {
		m, ok := Representative(idx)
		if !ok {
			t.Fatalf("Representative(%d) missing", idx)
		}
		if m != m.Reduced() {
			t.Errorf("Representative(%d) = %v is not reduced", idx, m)
		}
		if got := Resolve(m); got != idx {
			t.Errorf("Resolve(Representative(%d)) = %d", idx, got)
		}
	}
	if _, ok := Representative(NumVariants); ok {
		t.Error("Representative accepted an out-of-range index")
	}
	if _, ok := Representative(-1); ok {
		t.Error("Representative accepted a negative index")
	}
}

func TestReducedPreservesIndex(t *testing.T) {
	for raw := 0; raw < 256; raw++ {
		m := Mask(raw)
		if Resolve(m) != Resolve(m.Reduced()) {
			t.Errorf("Resolve(%v) != Resolve(%v)", m, m.Reduced())
		}
	}
}

// referenceIndex is the branchy decision procedure the table replaces,
// kept as an independent oracle.
func referenceIndex(m Mask) int {
	e, se, s, sw := m.Has(East), m.Has(SouthEast), m.Has(South), m.Has(SouthWest)
	w, nw, n, ne := m.Has(West), m.Has(NorthWest), m.Has(North), m.Has(NorthEast)

	pick := func(c bool, a, b int) int {
		if c {
			return a
		}
		return b
	}

	// At most two sides, or two opposite sides.
	edges := func() int {
		switch {
		case e && s:
			return pick(se, 5, 45)
		case e && w:
			return 28
		case e && n:
			return pick(ne, 7, 43)
		case e:
			return 29
		case s && w:
			return pick(sw, 6, 46)
		case s && n:
			return 9
		case s:
			return 10
		case w && n:
			return pick(nw, 8, 44)
		case w:
			return 30
		case n:
			return 11
		}
		return 12
	}

	switch {
	case e && s && w && n:
		switch {
		case se && sw && nw && ne:
			return 0
		case se && sw && nw:
			return 14
		case se && sw && ne:
			return 13
		case se && nw && ne:
			return 15
		case sw && nw && ne:
			return 16
		case se && sw:
			return 17
		case nw && ne:
			return 18
		case sw && nw:
			return 20
		case se && ne:
			return 19
		case se && nw:
			return 22
		case sw && ne:
			return 21
		case se:
			return 26
		case sw:
			return 25
		case nw:
			return 23
		case ne:
			return 24
		}
		return 27
	case e && w && n:
		switch {
		case nw && ne:
			return 2
		case nw:
			return 41
		case ne:
			return 40
		}
		return 42
	case e && s && w:
		switch {
		case se && sw:
			return 1
		case se:
			return 37
		case sw:
			return 38
		}
		return 39
	case e && s && n:
		switch {
		case ne && se:
			return 3
		case ne:
			return 32
		case se:
			return 31
		}
		return 33
	case s && w && n:
		switch {
		case nw && sw:
			return 4
		case nw:
			return 35
		case sw:
			return 34
		}
		return 36
	}
	return edges()
}
