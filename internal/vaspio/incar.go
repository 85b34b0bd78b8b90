package vaspio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Incar is an ordered key=value control file. Keys keep the order they were
// first set in; rewriting a file preserves its key order and appends new keys
// at the end. Values are typed (int, float64, bool or string) via CoerceValue.
type Incar struct {
	keys []string
	vals map[string]any
}

// NewIncar returns an empty control file.
func NewIncar() *Incar {
	return &Incar{vals: make(map[string]any)}
}

// ReadIncar loads and parses an INCAR file.
func ReadIncar(path string) (*Incar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceReadError{Path: path, Err: err}
	}
	defer f.Close()

	inc, err := ParseIncar(f)
	if err != nil {
		return nil, &ResourceReadError{Path: path, Err: err}
	}
	return inc, nil
}

// ParseIncar reads KEY = VALUE lines. Blank lines and # or ! comments are
// tolerated; multiple assignments on one line may be separated by semicolons.
func ParseIncar(r io.Reader) (*Incar, error) {
	inc := NewIncar()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexAny(line, "#!"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, assign := range strings.Split(line, ";") {
			assign = strings.TrimSpace(assign)
			if assign == "" {
				continue
			}
			key, val, ok := strings.Cut(assign, "=")
			if !ok {
				return nil, fmt.Errorf("line %d: %q is not KEY = VALUE", lineNo, assign)
			}
			key = strings.ToUpper(strings.TrimSpace(key))
			if key == "" {
				return nil, fmt.Errorf("line %d: empty key", lineNo)
			}
			inc.Set(key, CoerceValue(strings.TrimSpace(val)))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return inc, nil
}

// Get returns the value for key and whether it is present.
func (inc *Incar) Get(key string) (any, bool) {
	v, ok := inc.vals[strings.ToUpper(key)]
	return v, ok
}

// Set stores a value, keeping first-set key order.
func (inc *Incar) Set(key string, value any) {
	key = strings.ToUpper(key)
	if _, ok := inc.vals[key]; !ok {
		inc.keys = append(inc.keys, key)
	}
	inc.vals[key] = value
}

// Keys returns the keys in document order.
func (inc *Incar) Keys() []string {
	out := make([]string, len(inc.keys))
	copy(out, inc.keys)
	return out
}

// Write renders the control file, one KEY = VALUE per line in key order.
func (inc *Incar) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, key := range inc.keys {
		fmt.Fprintf(bw, "%s = %s\n", key, FormatValue(inc.vals[key]))
	}
	return bw.Flush()
}

// WriteFile writes the control file to path, replacing any existing content.
func (inc *Incar) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := inc.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CoerceValue converts a raw value string with a closed set of attempts:
// integer, then float, then Fortran/Go boolean literal, else the literal
// string. Multi-token values (MAGMOM lists and the like) stay strings.
func CoerceValue(s string) any {
	s = strings.TrimSpace(s)
	if len(strings.Fields(s)) != 1 {
		return s
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case ".true.", "true":
		return true
	case ".false.", "false":
		return false
	}
	return s
}

// FormatValue renders a typed value back to INCAR text. Booleans use the
// Fortran literals VASP expects.
func FormatValue(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return ".TRUE."
		}
		return ".FALSE."
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
