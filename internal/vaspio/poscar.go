package vaspio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"defectforge/internal/geometry"
)

// ReadPoscar parses a POSCAR/CONTCAR file into a Structure.
func ReadPoscar(path string) (*geometry.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceReadError{Path: path, Err: err}
	}
	defer f.Close()

	st, err := ParsePoscar(f)
	if err != nil {
		return nil, &ResourceReadError{Path: path, Err: err}
	}
	return st, nil
}

// ParsePoscar reads the VASP 5 structure format: comment line, global scale
// factor, three lattice vectors, element symbol row, count row, an optional
// "Selective dynamics" line, a Direct/Cartesian mode line, then one position
// per atom. Cartesian positions are converted to fractional.
func ParsePoscar(r io.Reader) (*geometry.Structure, error) {
	sc := bufio.NewScanner(r)
	next := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return sc.Text(), nil
	}

	if _, err := next(); err != nil { // comment line
		return nil, fmt.Errorf("missing comment line: %w", err)
	}

	scaleLine, err := next()
	if err != nil {
		return nil, fmt.Errorf("missing scale factor: %w", err)
	}
	scale, err := strconv.ParseFloat(strings.TrimSpace(scaleLine), 64)
	if err != nil {
		return nil, fmt.Errorf("bad scale factor %q", strings.TrimSpace(scaleLine))
	}

	var lat geometry.Lattice
	for i := 0; i < 3; i++ {
		line, err := next()
		if err != nil {
			return nil, fmt.Errorf("missing lattice vector %d: %w", i+1, err)
		}
		vec, err := parseFloats(line, 3)
		if err != nil {
			return nil, fmt.Errorf("lattice vector %d: %w", i+1, err)
		}
		for j := 0; j < 3; j++ {
			lat.Vectors[i][j] = vec[j] * scale
		}
	}

	symbolLine, err := next()
	if err != nil {
		return nil, fmt.Errorf("missing element symbols: %w", err)
	}
	symbols := strings.Fields(symbolLine)
	if len(symbols) == 0 || isNumeric(symbols[0]) {
		return nil, fmt.Errorf("expected element symbol row, got %q (VASP 4 format not supported)", strings.TrimSpace(symbolLine))
	}

	countLine, err := next()
	if err != nil {
		return nil, fmt.Errorf("missing atom counts: %w", err)
	}
	countFields := strings.Fields(countLine)
	if len(countFields) != len(symbols) {
		return nil, fmt.Errorf("%d element symbols but %d counts", len(symbols), len(countFields))
	}
	counts := make([]int, len(countFields))
	total := 0
	for i, f := range countFields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bad atom count %q", f)
		}
		counts[i] = n
		total += n
	}

	modeLine, err := next()
	if err != nil {
		return nil, fmt.Errorf("missing coordinate mode: %w", err)
	}
	if mode := strings.ToLower(strings.TrimSpace(modeLine)); strings.HasPrefix(mode, "s") {
		// Selective dynamics; the real mode line follows.
		modeLine, err = next()
		if err != nil {
			return nil, fmt.Errorf("missing coordinate mode: %w", err)
		}
	}
	cartesian := false
	switch mode := strings.ToLower(strings.TrimSpace(modeLine)); {
	case strings.HasPrefix(mode, "d"):
	case strings.HasPrefix(mode, "c"), strings.HasPrefix(mode, "k"):
		cartesian = true
	default:
		return nil, fmt.Errorf("unrecognized coordinate mode %q", strings.TrimSpace(modeLine))
	}

	st := &geometry.Structure{Lattice: lat, Sites: make([]geometry.Site, 0, total)}
	for i, symbol := range symbols {
		for n := 0; n < counts[i]; n++ {
			line, err := next()
			if err != nil {
				return nil, fmt.Errorf("missing position for atom %d of %s: %w", n+1, symbol, err)
			}
			pos, err := parseFloats(line, 3)
			if err != nil {
				return nil, fmt.Errorf("position for atom %d of %s: %w", n+1, symbol, err)
			}
			frac := [3]float64{pos[0], pos[1], pos[2]}
			if cartesian {
				cart := [3]float64{pos[0] * scale, pos[1] * scale, pos[2] * scale}
				var ok bool
				frac, ok = lat.Fractional(cart)
				if !ok {
					return nil, fmt.Errorf("lattice has zero volume, cannot convert cartesian positions")
				}
			}
			st.Sites = append(st.Sites, geometry.Site{Element: symbol, Frac: geometry.WrapFrac(frac)})
		}
	}
	return st, nil
}

// WritePoscar serializes a structure in VASP 5 Direct format. Runs of
// consecutive identical elements become one symbol/count column, so a
// canonically sorted structure gets one column per element.
func WritePoscar(w io.Writer, st *geometry.Structure, comment string) error {
	if comment == "" {
		comment = st.Formula()
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, comment)
	fmt.Fprintln(bw, "1.0")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(bw, "  %20.16f %20.16f %20.16f\n",
			st.Lattice.Vectors[i][0], st.Lattice.Vectors[i][1], st.Lattice.Vectors[i][2])
	}

	var symbols []string
	var counts []int
	for _, site := range st.Sites {
		if n := len(symbols); n > 0 && symbols[n-1] == site.Element {
			counts[n-1]++
			continue
		}
		symbols = append(symbols, site.Element)
		counts = append(counts, 1)
	}
	for _, s := range symbols {
		fmt.Fprintf(bw, " %s", s)
	}
	fmt.Fprintln(bw)
	for _, c := range counts {
		fmt.Fprintf(bw, " %d", c)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "Direct")
	for _, site := range st.Sites {
		fmt.Fprintf(bw, " %19.16f %19.16f %19.16f\n", site.Frac[0], site.Frac[1], site.Frac[2])
	}
	return bw.Flush()
}

// WritePoscarFile writes the structure to path in VASP 5 Direct format.
func WritePoscarFile(path string, st *geometry.Structure, comment string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePoscar(f, st, comment); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseFloats(line string, n int) ([]float64, error) {
	fields := strings.Fields(line)
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d numbers, got %q", n, strings.TrimSpace(line))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", fields[i])
		}
		out[i] = v
	}
	return out, nil
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
