package vaspio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"defectforge/internal/defect"
)

// ReadPotcar extracts the valence-electron table from a concatenated POTCAR:
// one (element, ZVAL) pair per pseudopotential block. Decorated symbols such
// as "La_GW" are normalized to the bare element.
func ReadPotcar(path string) (defect.ValenceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceReadError{Path: path, Err: err}
	}
	defer f.Close()

	table, err := ParsePotcar(f)
	if err != nil {
		return nil, &ResourceReadError{Path: path, Err: err}
	}
	return table, nil
}

// ParsePotcar scans for TITEL lines to name each block and ZVAL assignments
// to read its electron count.
func ParsePotcar(r io.Reader) (defect.ValenceTable, error) {
	table := make(defect.ValenceTable)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	current := ""
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.Contains(line, "TITEL"):
			// TITEL  = PAW_PBE La_GW 14Apr2012
			_, rhs, ok := strings.Cut(line, "=")
			if !ok {
				continue
			}
			fields := strings.Fields(rhs)
			if len(fields) < 2 {
				continue
			}
			symbol, _, _ := strings.Cut(fields[1], "_")
			current = symbol
		case strings.Contains(line, "ZVAL"):
			// POMASS =  138.900; ZVAL   =   11.000    mass and valenz
			idx := strings.Index(line, "ZVAL")
			_, rhs, ok := strings.Cut(line[idx:], "=")
			if !ok {
				continue
			}
			fields := strings.Fields(rhs)
			if len(fields) == 0 || current == "" {
				continue
			}
			zval, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], ";"), 64)
			if err != nil {
				return nil, fmt.Errorf("bad ZVAL for %s: %q", current, fields[0])
			}
			table[current] = zval
			current = ""
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("no TITEL/ZVAL blocks found")
	}
	return table, nil
}
