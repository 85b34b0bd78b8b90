package geometry

import (
	"fmt"
	"math"
	"strings"
)

// Site is one atom: an element symbol plus a fractional position. A Site
// belongs to exactly one Structure; copies are made when structures are
// derived from each other.
type Site struct {
	Element string
	Frac    [3]float64
}

// Structure is a lattice plus an ordered list of sites.
type Structure struct {
	Lattice Lattice
	Sites   []Site
}

// Copy returns a deep copy. Engine operations never mutate their input.
func (s *Structure) Copy() *Structure {
	out := &Structure{Lattice: s.Lattice, Sites: make([]Site, len(s.Sites))}
	copy(out.Sites, s.Sites)
	return out
}

// WrapFrac maps each component into [0,1). Values that round to exactly 1.0
// after wrapping are folded back to 0.
func WrapFrac(f [3]float64) [3]float64 {
	for i := 0; i < 3; i++ {
		f[i] -= math.Floor(f[i])
		if f[i] >= 1.0 {
			f[i] = 0
		}
	}
	return f
}

// Composition counts sites per element.
func (s *Structure) Composition() map[string]int {
	counts := make(map[string]int, 4)
	for _, site := range s.Sites {
		counts[site.Element]++
	}
	return counts
}

// Formula renders the composition in first-appearance order, e.g. "Pb8 W8 O24".
func (s *Structure) Formula() string {
	counts := s.Composition()
	var order []string
	seen := make(map[string]bool, len(counts))
	for _, site := range s.Sites {
		if !seen[site.Element] {
			seen[site.Element] = true
			order = append(order, site.Element)
		}
	}
	parts := make([]string, 0, len(order))
	for _, el := range order {
		parts = append(parts, fmt.Sprintf("%s%d", el, counts[el]))
	}
	return strings.Join(parts, " ")
}
