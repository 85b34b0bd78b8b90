// Package geometry holds the lattice and atom-site data model shared by the
// defect engine and the VASP file codecs. Positions are fractional coordinates
// in [0,1)^3; the lattice defines the periodic distance metric.
package geometry

import "math"

// Lattice is a 3x3 matrix of basis vectors, one row per vector, in length units.
type Lattice struct {
	Vectors [3][3]float64
}

// Cartesian converts a fractional coordinate to cartesian length units.
func (l Lattice) Cartesian(frac [3]float64) [3]float64 {
	var cart [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cart[j] += frac[i] * l.Vectors[i][j]
		}
	}
	return cart
}

// MinImageDistance returns the shortest distance between two fractional
// positions under periodic boundary conditions. The fractional difference is
// wrapped to (-0.5, 0.5] per component and the 27 neighboring images are
// searched, which stays correct for skewed cells.
func (l Lattice) MinImageDistance(a, b [3]float64) float64 {
	var df [3]float64
	for i := 0; i < 3; i++ {
		d := a[i] - b[i]
		df[i] = d - math.Round(d)
	}

	best := math.Inf(1)
	for di := -1.0; di <= 1; di++ {
		for dj := -1.0; dj <= 1; dj++ {
			for dk := -1.0; dk <= 1; dk++ {
				cart := l.Cartesian([3]float64{df[0] + di, df[1] + dj, df[2] + dk})
				d := math.Sqrt(cart[0]*cart[0] + cart[1]*cart[1] + cart[2]*cart[2])
				if d < best {
					best = d
				}
			}
		}
	}
	return best
}

// Fractional converts a cartesian position back to fractional coordinates by
// solving against the basis matrix. Returns false when the lattice is
// singular (zero cell volume).
func (l Lattice) Fractional(cart [3]float64) ([3]float64, bool) {
	m := l.Vectors
	// Row vectors: cart = frac * M, so frac = cart * inv(M).
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	if math.Abs(det) < 1e-12 {
		return [3]float64{}, false
	}
	var inv [3][3]float64
	inv[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) / det
	inv[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) / det
	inv[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) / det
	inv[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) / det
	inv[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) / det
	inv[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) / det
	inv[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) / det
	inv[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) / det
	inv[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) / det

	var frac [3]float64
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			frac[j] += cart[i] * inv[i][j]
		}
	}
	return frac, true
}

// Scaled returns a copy of the lattice with each basis vector multiplied by
// the matching factor. Used when tiling a unit cell into a supercell.
func (l Lattice) Scaled(nx, ny, nz int) Lattice {
	factors := [3]float64{float64(nx), float64(ny), float64(nz)}
	out := l
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.Vectors[i][j] = l.Vectors[i][j] * factors[i]
		}
	}
	return out
}
