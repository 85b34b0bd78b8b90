package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"defectforge/internal/config"
	"defectforge/internal/vaspio"
)

// DiffReport holds, per folder, the control-file keys whose values differ
// from the reference, already rendered to display strings.
type DiffReport struct {
	Folders []string                     // sorted folder names holding an INCAR
	Keys    []string                     // sorted union of differing keys
	Diffs   map[string]map[string]string // folder -> key -> shown value
}

// unsetMark is shown when a folder drops a key the reference carries.
const unsetMark = "unset"

// DiffIncars compares every folder's INCAR against the workspace reference
// INCAR. A key counts as differing when its coerced value is not identical to
// the reference's (including keys present on only one side).
func DiffIncars(workspace string, cfg *config.Config) (*DiffReport, error) {
	refPath := filepath.Join(workspace, cfg.Paths.InputDir, cfg.Paths.ReferenceIncar, "INCAR")
	ref, err := vaspio.ReadIncar(refPath)
	if err != nil {
		return nil, fmt.Errorf("reference INCAR: %w", err)
	}

	entries, err := os.ReadDir(workspace)
	if err != nil {
		return nil, err
	}

	rep := &DiffReport{Diffs: make(map[string]map[string]string)}
	keySet := make(map[string]bool)

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		incarPath := filepath.Join(workspace, entry.Name(), "INCAR")
		if _, err := os.Stat(incarPath); err != nil {
			continue
		}
		incar, err := vaspio.ReadIncar(incarPath)
		if err != nil {
			return nil, err
		}

		diff := make(map[string]string)
		for _, key := range unionKeys(ref, incar) {
			refVal, refOK := ref.Get(key)
			curVal, curOK := incar.Get(key)
			if refOK == curOK && refVal == curVal {
				continue
			}
			if curOK {
				diff[key] = vaspio.FormatValue(curVal)
			} else {
				diff[key] = unsetMark
			}
			keySet[key] = true
		}
		rep.Folders = append(rep.Folders, entry.Name())
		rep.Diffs[entry.Name()] = diff
	}

	sort.Strings(rep.Folders)
	for key := range keySet {
		rep.Keys = append(rep.Keys, key)
	}
	sort.Strings(rep.Keys)
	return rep, nil
}

func unionKeys(a, b *vaspio.Incar) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, k := range a.Keys() {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, k := range b.Keys() {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

// Column widths for tags whose values run long.
var wideKeyWidths = map[string]int{
	"LDAUL":  20,
	"LDAUU":  20,
	"LDAUJ":  20,
	"SYSTEM": 10,
	"MAGMOM": 20,
}

// RenderDiff prints the report as a series of tables of at most maxCols key
// columns each, one row per folder, a dash where the folder matches the
// reference.
func RenderDiff(w io.Writer, rep *DiffReport, maxCols int) {
	if maxCols <= 0 {
		maxCols = 5
	}
	if len(rep.Folders) == 0 {
		fmt.Fprintln(w, "No folders with an INCAR found.")
		return
	}
	if len(rep.Keys) == 0 {
		fmt.Fprintln(w, "All INCARs match the reference.")
		return
	}

	folderWidth := 0
	for _, name := range rep.Folders {
		if len(name) > folderWidth {
			folderWidth = len(name)
		}
	}
	folderWidth += 4

	for start := 0; start < len(rep.Keys); start += maxCols {
		end := start + maxCols
		if end > len(rep.Keys) {
			end = len(rep.Keys)
		}
		chunk := rep.Keys[start:end]

		widths := make([]int, len(chunk))
		for i, key := range chunk {
			widths[i] = wideKeyWidths[key]
			if widths[i] < 8 {
				widths[i] = 8
			}
			if len(key) > widths[i] {
				widths[i] = len(key)
			}
		}

		var header strings.Builder
		fmt.Fprintf(&header, "%-*s", folderWidth, "FOLDER")
		for i, key := range chunk {
			fmt.Fprintf(&header, "  %-*s", widths[i], key)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render(header.String()))
		fmt.Fprintln(w, ruleStyle.Render(strings.Repeat("-", len(header.String()))))

		for _, name := range rep.Folders {
			fmt.Fprintf(w, "%-*s", folderWidth, name)
			for i, key := range chunk {
				val, ok := rep.Diffs[name][key]
				if !ok {
					val = "—"
				}
				fmt.Fprintf(w, "  %-*s", widths[i], val)
			}
			fmt.Fprintln(w)
		}
	}
}
