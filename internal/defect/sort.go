package defect

import (
	"sort"

	"defectforge/internal/geometry"
)

// CanonicalOrder is a fixed priority list of element symbols. Elements not in
// the list sort after every listed element.
type CanonicalOrder []string

// DefaultCanonicalOrder matches the element families this tool is used with.
func DefaultCanonicalOrder() CanonicalOrder {
	return CanonicalOrder{"La", "Y", "Mo", "Pb", "W", "O"}
}

func (o CanonicalOrder) rank(element string) int {
	for i, el := range o {
		if el == element {
			return i
		}
	}
	return len(o)
}

// SortCanonical returns a copy of the structure with sites stably reordered
// by canonical element priority. Sites with equal priority keep their input
// relative order, so the result is deterministic regardless of how sites were
// produced.
func SortCanonical(st *geometry.Structure, order CanonicalOrder) *geometry.Structure {
	out := st.Copy()
	sort.SliceStable(out.Sites, func(i, j int) bool {
		return order.rank(out.Sites[i].Element) < order.rank(out.Sites[j].Element)
	})
	return out
}
