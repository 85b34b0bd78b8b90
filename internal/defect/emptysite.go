package defect

import (
	"iter"
	"math"

	"defectforge/internal/geometry"
)

// Defaults for the empty-site search, in length units / grid points per axis.
const (
	DefaultMinDistance    = 1.5
	DefaultGridResolution = 10
)

// FindEmptySites scans a uniform grid of resolution^3 fractional points over
// [0,1)^3 and yields every point whose minimum periodic distance to all
// existing sites strictly exceeds minDist. Scan order is axis 1 outermost,
// then axis 2, then axis 3, all ascending; the sequence is finite and
// restartable, and identical inputs always yield identical candidates.
//
// Existing sites are bucketed into a uniform cell list so each candidate only
// checks atoms in neighboring cells instead of all N, which keeps the scan
// usable on large supercells without changing which candidates qualify.
func FindEmptySites(st *geometry.Structure, minDist float64, resolution int) iter.Seq[[3]float64] {
	cells := newCellList(st, minDist)
	step := 1.0 / float64(resolution)
	return func(yield func([3]float64) bool) {
		for ix := 0; ix < resolution; ix++ {
			for iy := 0; iy < resolution; iy++ {
				for iz := 0; iz < resolution; iz++ {
					cand := [3]float64{float64(ix) * step, float64(iy) * step, float64(iz) * step}
					if cells.farFromAll(cand, minDist) {
						if !yield(cand) {
							return
						}
					}
				}
			}
		}
	}
}

// cellList buckets site indices by fractional position. Bin widths are chosen
// so that any atom closer than the cutoff to a candidate lives in the
// candidate's bin or one of its 26 periodic neighbors.
type cellList struct {
	st    *geometry.Structure
	bins  [3]int
	cells map[[3]int][]int
}

func newCellList(st *geometry.Structure, cutoff float64) *cellList {
	cl := &cellList{st: st, cells: make(map[[3]int][]int)}
	widths := perpendicularWidths(st.Lattice)
	for i := 0; i < 3; i++ {
		n := int(widths[i] / cutoff)
		if n < 1 {
			n = 1
		}
		cl.bins[i] = n
	}
	for idx, site := range st.Sites {
		key := cl.binOf(site.Frac)
		cl.cells[key] = append(cl.cells[key], idx)
	}
	return cl
}

func (cl *cellList) binOf(frac [3]float64) [3]int {
	frac = geometry.WrapFrac(frac)
	var key [3]int
	for i := 0; i < 3; i++ {
		b := int(frac[i] * float64(cl.bins[i]))
		if b >= cl.bins[i] {
			b = cl.bins[i] - 1
		}
		key[i] = b
	}
	return key
}

// farFromAll reports whether every existing site is strictly farther than
// cutoff from the candidate under the minimum-image metric.
func (cl *cellList) farFromAll(cand [3]float64, cutoff float64) bool {
	center := cl.binOf(cand)
	visited := make(map[[3]int]bool, 27)
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			for dk := -1; dk <= 1; dk++ {
				key := [3]int{
					mod(center[0]+di, cl.bins[0]),
					mod(center[1]+dj, cl.bins[1]),
					mod(center[2]+dk, cl.bins[2]),
				}
				if visited[key] {
					continue
				}
				visited[key] = true
				for _, idx := range cl.cells[key] {
					if cl.st.Lattice.MinImageDistance(cand, cl.st.Sites[idx].Frac) <= cutoff {
						return false
					}
				}
			}
		}
	}
	return true
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

// perpendicularWidths returns, per axis, the distance between the pair of
// lattice planes spanned by the other two basis vectors. This is the correct
// bin-sizing measure for skewed cells.
func perpendicularWidths(l geometry.Lattice) [3]float64 {
	a, b, c := l.Vectors[0], l.Vectors[1], l.Vectors[2]
	vol := math.Abs(dot(a, cross(b, c)))
	return [3]float64{
		vol / norm(cross(b, c)),
		vol / norm(cross(c, a)),
		vol / norm(cross(a, b)),
	}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func norm(a [3]float64) float64 {
	return math.Sqrt(dot(a, a))
}
