package defect

import (
	"errors"
	"testing"

	"defectforge/internal/geometry"
)

// pbwoCell is a 3-site scheelite-like test cell: one Pb, one W, one O.
func pbwoCell(a float64) *geometry.Structure {
	return &geometry.Structure{
		Lattice: geometry.Lattice{Vectors: [3][3]float64{{a, 0, 0}, {0, a, 0}, {0, 0, a}}},
		Sites: []geometry.Site{
			{Element: "Pb", Frac: [3]float64{0, 0, 0}},
			{Element: "W", Frac: [3]float64{0.5, 0.5, 0.5}},
			{Element: "O", Frac: [3]float64{0.25, 0.25, 0.25}},
		},
	}
}

func TestBuildSupercell_Counts(t *testing.T) {
	cases := []struct{ nx, ny, nz int }{
		{1, 1, 1},
		{2, 2, 2},
		{2, 2, 4},
		{3, 1, 2},
	}
	unit := pbwoCell(5.5)
	for _, tc := range cases {
		sc, err := BuildSupercell(unit, tc.nx, tc.ny, tc.nz)
		if err != nil {
			t.Fatalf("(%d,%d,%d): %v", tc.nx, tc.ny, tc.nz, err)
		}
		want := tc.nx * tc.ny * tc.nz * len(unit.Sites)
		if len(sc.Sites) != want {
			t.Errorf("(%d,%d,%d): %d sites, want %d", tc.nx, tc.ny, tc.nz, len(sc.Sites), want)
		}
		for _, site := range sc.Sites {
			for i := 0; i < 3; i++ {
				if site.Frac[i] < 0 || site.Frac[i] >= 1 {
					t.Fatalf("(%d,%d,%d): coordinate %v outside [0,1)", tc.nx, tc.ny, tc.nz, site.Frac)
				}
			}
		}
	}
}

func TestBuildSupercell_Composition222(t *testing.T) {
	sc, err := BuildSupercell(pbwoCell(5.5), 2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Sites) != 24 {
		t.Fatalf("got %d sites, want 24", len(sc.Sites))
	}
	counts := sc.Composition()
	for _, el := range []string{"Pb", "W", "O"} {
		if counts[el] != 8 {
			t.Errorf("%s count = %d, want 8", el, counts[el])
		}
	}
}

func TestBuildSupercell_LatticeScaled(t *testing.T) {
	sc, err := BuildSupercell(pbwoCell(5.5), 2, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Lattice.Vectors[0][0] != 11.0 || sc.Lattice.Vectors[2][2] != 22.0 {
		t.Errorf("unexpected supercell lattice: %v", sc.Lattice.Vectors)
	}
}

func TestBuildSupercell_DeterministicOrder(t *testing.T) {
	unit := pbwoCell(5.5)
	a, err := BuildSupercell(unit, 2, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	// Original-site-major: both Pb images precede any W image.
	if a.Sites[0].Element != "Pb" || a.Sites[1].Element != "Pb" || a.Sites[2].Element != "W" {
		t.Errorf("unexpected enumeration order: %v %v %v",
			a.Sites[0].Element, a.Sites[1].Element, a.Sites[2].Element)
	}

	b, err := BuildSupercell(unit, 2, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Sites {
		if a.Sites[i] != b.Sites[i] {
			t.Fatalf("site %d differs across identical builds", i)
		}
	}
}

func TestBuildSupercell_InvalidMultiplier(t *testing.T) {
	for _, mult := range [][3]int{{0, 1, 1}, {1, -2, 1}, {1, 1, 0}} {
		_, err := BuildSupercell(pbwoCell(5.5), mult[0], mult[1], mult[2])
		var invalid *InvalidMultiplierError
		if !errors.As(err, &invalid) {
			t.Errorf("multiplier %v: got %v, want InvalidMultiplierError", mult, err)
		}
	}
}
