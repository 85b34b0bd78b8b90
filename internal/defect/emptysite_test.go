package defect

import (
	"testing"

	"defectforge/internal/geometry"
)

func collectEmptySites(st *geometry.Structure, minDist float64, res int) [][3]float64 {
	var out [][3]float64
	for cand := range FindEmptySites(st, minDist, res) {
		out = append(out, cand)
	}
	return out
}

func singleAtom(a float64) *geometry.Structure {
	return &geometry.Structure{
		Lattice: geometry.Lattice{Vectors: [3][3]float64{{a, 0, 0}, {0, a, 0}, {0, 0, a}}},
		Sites:   []geometry.Site{{Element: "Pb", Frac: [3]float64{0, 0, 0}}},
	}
}

func TestFindEmptySites_DistanceGuarantee(t *testing.T) {
	st, err := BuildSupercell(pbwoCell(5.5), 2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	candidates := collectEmptySites(st, DefaultMinDistance, DefaultGridResolution)
	if len(candidates) == 0 {
		t.Fatal("expected candidates in an 11 Å cell")
	}
	for _, cand := range candidates {
		for _, site := range st.Sites {
			if d := st.Lattice.MinImageDistance(cand, site.Frac); d <= DefaultMinDistance {
				t.Fatalf("candidate %v is %g from a %s site, must exceed %g",
					cand, d, site.Element, DefaultMinDistance)
			}
		}
	}
}

func TestFindEmptySites_Deterministic(t *testing.T) {
	st, err := BuildSupercell(pbwoCell(5.5), 2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	a := collectEmptySites(st, DefaultMinDistance, DefaultGridResolution)
	b := collectEmptySites(st, DefaultMinDistance, DefaultGridResolution)
	if len(a) != len(b) {
		t.Fatalf("runs disagree: %d vs %d candidates", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("candidate %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestFindEmptySites_ScanOrder(t *testing.T) {
	// Empty structure: every grid point qualifies, in scan order.
	st := &geometry.Structure{
		Lattice: geometry.Lattice{Vectors: [3][3]float64{{10, 0, 0}, {0, 10, 0}, {0, 0, 10}}},
	}
	candidates := collectEmptySites(st, 1.5, 3)
	if len(candidates) != 27 {
		t.Fatalf("got %d candidates, want 27", len(candidates))
	}
	step := 1.0 / 3.0
	idx := 0
	for ix := 0; ix < 3; ix++ {
		for iy := 0; iy < 3; iy++ {
			for iz := 0; iz < 3; iz++ {
				want := [3]float64{float64(ix) * step, float64(iy) * step, float64(iz) * step}
				if candidates[idx] != want {
					t.Fatalf("candidate %d = %v, want %v", idx, candidates[idx], want)
				}
				idx++
			}
		}
	}
}

func TestFindEmptySites_Restartable(t *testing.T) {
	st := singleAtom(8.0)
	seq := FindEmptySites(st, DefaultMinDistance, DefaultGridResolution)

	var first [3]float64
	for cand := range seq {
		first = cand
		break
	}
	// Ranging again restarts from the top of the scan.
	for cand := range seq {
		if cand != first {
			t.Fatalf("restarted sequence began at %v, want %v", cand, first)
		}
		break
	}
}

func TestFindEmptySites_Exhausted(t *testing.T) {
	// A 1.5 Å cube with an atom at the origin: every point sits within the
	// cutoff of some periodic image, so the search comes back empty.
	if got := collectEmptySites(singleAtom(1.5), DefaultMinDistance, DefaultGridResolution); len(got) != 0 {
		t.Errorf("expected no candidates, got %d", len(got))
	}
}

func TestFindEmptySites_MatchesBruteForce(t *testing.T) {
	// The cell-list pruning must not change which candidates qualify.
	st, err := BuildSupercell(pbwoCell(4.2), 2, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	fast := collectEmptySites(st, DefaultMinDistance, 6)

	var brute [][3]float64
	step := 1.0 / 6.0
	for ix := 0; ix < 6; ix++ {
		for iy := 0; iy < 6; iy++ {
			for iz := 0; iz < 6; iz++ {
				cand := [3]float64{float64(ix) * step, float64(iy) * step, float64(iz) * step}
				ok := true
				for _, site := range st.Sites {
					if st.Lattice.MinImageDistance(cand, site.Frac) <= DefaultMinDistance {
						ok = false
						break
					}
				}
				if ok {
					brute = append(brute, cand)
				}
			}
		}
	}

	if len(fast) != len(brute) {
		t.Fatalf("cell list found %d candidates, brute force %d", len(fast), len(brute))
	}
	for i := range fast {
		if fast[i] != brute[i] {
			t.Fatalf("candidate %d: cell list %v, brute force %v", i, fast[i], brute[i])
		}
	}
}
