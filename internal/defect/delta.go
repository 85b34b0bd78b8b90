package defect

import (
	"sort"

	"defectforge/internal/geometry"
)

// Applier applies per-element atom-count deltas to structures. The two
// fields tune the empty-site fallback search used when additions outnumber
// available vacancies.
type Applier struct {
	MinDistance    float64
	GridResolution int
}

// ApplyDelta applies a delta with the default empty-site search parameters.
func ApplyDelta(st *geometry.Structure, delta map[string]int) (*geometry.Structure, error) {
	return Applier{MinDistance: DefaultMinDistance, GridResolution: DefaultGridResolution}.Apply(st, delta)
}

// Apply returns a copy of the structure with the per-element atom-count
// changes applied. All removals happen before any addition; coordinates freed
// by removals go into a shared vacancy pool that additions consume first, in
// the order the vacancies were recorded, before falling back to the
// empty-site search. The input structure is never mutated.
//
// Elements are processed in sorted symbol order within each phase so a given
// delta always produces the same structure.
func (a Applier) Apply(st *geometry.Structure, delta map[string]int) (*geometry.Structure, error) {
	mod := st.Copy()

	var vacancies [][3]float64

	for _, elem := range sortedKeys(delta) {
		want := -delta[elem]
		if want <= 0 {
			continue
		}
		var indices []int
		for i, site := range mod.Sites {
			if site.Element == elem {
				indices = append(indices, i)
			}
		}
		if len(indices) < want {
			return nil, &InsufficientAtomsError{Element: elem, Have: len(indices), Want: want}
		}
		// Remove the first-encountered sites, walking the chosen indices
		// high-to-low so earlier removals do not shift later ones.
		chosen := indices[:want]
		for i := len(chosen) - 1; i >= 0; i-- {
			idx := chosen[i]
			vacancies = append(vacancies, mod.Sites[idx].Frac)
			mod.Sites = append(mod.Sites[:idx], mod.Sites[idx+1:]...)
		}
	}

	for _, elem := range sortedKeys(delta) {
		want := delta[elem]
		if want <= 0 {
			continue
		}
		added := 0

		for added < want && len(vacancies) > 0 {
			mod.Sites = append(mod.Sites, geometry.Site{Element: elem, Frac: vacancies[0]})
			vacancies = vacancies[1:]
			added++
		}

		if added < want {
			for cand := range FindEmptySites(mod, a.MinDistance, a.GridResolution) {
				mod.Sites = append(mod.Sites, geometry.Site{Element: elem, Frac: cand})
				added++
				if added == want {
					break
				}
			}
		}

		if added < want {
			return nil, &InsufficientSpaceError{Element: elem, Added: added, Want: want}
		}
	}

	return mod, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
