package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"defectforge/internal/config"
	"defectforge/internal/vaspio"
)

// KeyValue is one requested control-file override, applied in CLI order.
type KeyValue struct {
	Key   string
	Value any
}

// ParseSets converts repeated KEY=VALUE flag values into typed overrides.
// Keys are uppercased; values go through the closed-set coercion (int, float,
// boolean literal, else literal string).
func ParseSets(pairs []string) ([]KeyValue, error) {
	sets := make([]KeyValue, 0, len(pairs))
	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --set argument %q, want KEY=VALUE", pair)
		}
		sets = append(sets, KeyValue{
			Key:   strings.ToUpper(strings.TrimSpace(key)),
			Value: vaspio.CoerceValue(val),
		})
	}
	return sets, nil
}

// EditResult is the per-folder outcome line of a batch edit.
type EditResult struct {
	Folder string
	Note   string
}

// EditIncars applies the overrides to every non-administrative folder's INCAR
// in the workspace, preserving each file's key order. With dryRun the planned
// changes are reported but nothing is written.
func EditIncars(workspace string, cfg *config.Config, sets []KeyValue, dryRun bool) ([]EditResult, error) {
	entries, err := os.ReadDir(workspace)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	results := make([]EditResult, 0, len(names))
	for _, name := range names {
		results = append(results, EditResult{
			Folder: name,
			Note:   editFolder(filepath.Join(workspace, name), cfg, sets, dryRun),
		})
	}
	return results, nil
}

func editFolder(folder string, cfg *config.Config, sets []KeyValue, dryRun bool) string {
	prefix := cfg.Paths.ReservedPrefix
	if prefix != "" && strings.HasPrefix(filepath.Base(folder), prefix) {
		return fmt.Sprintf("⏭️ skipped (starts with %q)", prefix)
	}

	incarPath := filepath.Join(folder, "INCAR")
	if _, err := os.Stat(incarPath); err != nil {
		return "✗ no INCAR"
	}
	incar, err := vaspio.ReadIncar(incarPath)
	if err != nil {
		return fmt.Sprintf("✗ failed to parse INCAR: %v", err)
	}

	var changes []string
	for _, set := range sets {
		old := "unset"
		if v, ok := incar.Get(set.Key); ok {
			old = vaspio.FormatValue(v)
		}
		incar.Set(set.Key, set.Value)
		changes = append(changes, fmt.Sprintf("%s=%s → %s", set.Key, old, vaspio.FormatValue(set.Value)))
	}

	if !dryRun {
		if err := incar.WriteFile(incarPath); err != nil {
			return fmt.Sprintf("✗ write failed: %v", err)
		}
	}

	if len(changes) == 0 {
		return "✓ no change"
	}
	return "✓ " + strings.Join(changes, ", ")
}
