// Package defect implements the defect-structure generation engine: supercell
// replication, vacancy-aware atom removal and insertion, canonical atom
// ordering, and valence-electron accounting.
package defect

import "defectforge/internal/geometry"

// BuildSupercell tiles the unit cell nx x ny x nz times along the three
// lattice directions. Sites are emitted original-site-major with the integer
// offsets nested innermost, so the output ordering is reproducible for a
// given input.
func BuildSupercell(unit *geometry.Structure, nx, ny, nz int) (*geometry.Structure, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, &InvalidMultiplierError{Nx: nx, Ny: ny, Nz: nz}
	}

	out := &geometry.Structure{
		Lattice: unit.Lattice.Scaled(nx, ny, nz),
		Sites:   make([]geometry.Site, 0, nx*ny*nz*len(unit.Sites)),
	}
	fx, fy, fz := float64(nx), float64(ny), float64(nz)
	for _, site := range unit.Sites {
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				for k := 0; k < nz; k++ {
					frac := [3]float64{
						(site.Frac[0] + float64(i)) / fx,
						(site.Frac[1] + float64(j)) / fy,
						(site.Frac[2] + float64(k)) / fz,
					}
					out.Sites = append(out.Sites, geometry.Site{
						Element: site.Element,
						Frac:    geometry.WrapFrac(frac),
					})
				}
			}
		}
	}
	return out, nil
}
