package defect

import (
	"math"

	"defectforge/internal/geometry"
)

// ValenceTable maps an element symbol to the number of valence electrons its
// pseudopotential supplies. Entries may be fractional.
type ValenceTable map[string]float64

// TotalElectrons sums the valence electrons over every site and applies the
// requested net charge. The charge is added to the rounded valence total
// (NELECT = round(sum) + charge); rounding happens once, at the end.
func TotalElectrons(st *geometry.Structure, table ValenceTable, charge int) (int, error) {
	var sum float64
	for _, site := range st.Sites {
		zval, ok := table[site.Element]
		if !ok {
			return 0, &UnknownElementError{Element: site.Element}
		}
		sum += zval
	}
	return int(math.Round(sum)) + charge, nil
}
