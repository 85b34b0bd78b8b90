package defect

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Spec is one requested defect: a name, the per-element atom-count delta, and
// an optional net charge. Administrative entries (template or bookkeeping
// folders, marked by the reserved name prefix in the source document) carry
// the flag explicitly so downstream code never re-inspects the name.
type Spec struct {
	Name           string
	Delta          map[string]int
	Charge         int
	Administrative bool
}

type specBody struct {
	Delta  map[string]int `json:"delta"`
	Charge int            `json:"charge"`
}

// ParseSpecs decodes a defect-specification document: a JSON object mapping
// defect name to {"delta": {element: count}, "charge": n}. Document order is
// preserved, since batch processing follows it. Names starting with
// reservedPrefix are kept but flagged Administrative.
func ParseSpecs(r io.Reader, reservedPrefix string) ([]Spec, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading defect specifications: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("defect specifications must be a JSON object, got %v", tok)
	}

	var specs []Spec
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading defect name: %w", err)
		}
		name := tok.(string)

		var body specBody
		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("defect %q: %w", name, err)
		}
		if body.Delta == nil {
			body.Delta = map[string]int{}
		}
		specs = append(specs, Spec{
			Name:           name,
			Delta:          body.Delta,
			Charge:         body.Charge,
			Administrative: reservedPrefix != "" && strings.HasPrefix(name, reservedPrefix),
		})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading defect specifications: %w", err)
	}
	return specs, nil
}
