// Package report builds the read-only audit views over a workspace of solver
// input folders: the per-folder summary table and the INCAR diff against a
// reference. Nothing here feeds back into the defect engine.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"defectforge/internal/config"
	"defectforge/internal/vaspio"
)

// FolderSummary is one row of the workspace summary table.
type FolderSummary struct {
	Folder      string
	Nelect      string // "—" when the control file has no NELECT
	DeltaQ      string // valence total minus NELECT, "—" when not computable
	Atoms       string
	Composition string
	Status      string
	Missing     string // "✓" when complete
}

// requiredFiles returns the files every solver input folder must carry.
func requiredFiles(cfg *config.Config) []string {
	return []string{"INCAR", "POSCAR", "KPOINTS", "POTCAR", cfg.Paths.JobScript}
}

// Summarize inspects every subfolder of the workspace and reports the ones
// that look like solver input folders. Folders missing three or more required
// files are not input folders and are dropped. Rows come back sorted by
// folder name.
func Summarize(workspace string, cfg *config.Config) ([]FolderSummary, error) {
	entries, err := os.ReadDir(workspace)
	if err != nil {
		return nil, err
	}

	var rows []FolderSummary
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if row, ok := summarizeFolder(filepath.Join(workspace, entry.Name()), cfg); ok {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Folder < rows[j].Folder })
	return rows, nil
}

func summarizeFolder(folder string, cfg *config.Config) (FolderSummary, bool) {
	var missing []string
	for _, name := range requiredFiles(cfg) {
		if _, err := os.Stat(filepath.Join(folder, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) >= 3 {
		return FolderSummary{}, false
	}

	row := FolderSummary{
		Folder:      filepath.Base(folder),
		Nelect:      "—",
		DeltaQ:      "—",
		Atoms:       "✗",
		Composition: "✗",
		Status:      vaspio.ProbeJobStatus(filepath.Join(folder, "OUTCAR")),
		Missing:     "✓",
	}
	if len(missing) > 0 {
		row.Missing = strings.Join(missing, ", ")
	}

	var nelect float64
	haveNelect := false
	if incar, err := vaspio.ReadIncar(filepath.Join(folder, "INCAR")); err == nil {
		if v, ok := incar.Get("NELECT"); ok {
			switch n := v.(type) {
			case int:
				nelect, haveNelect = float64(n), true
				row.Nelect = fmt.Sprintf("%d", n)
			case float64:
				nelect, haveNelect = n, true
				row.Nelect = fmt.Sprintf("%g", n)
			default:
				row.Nelect = "err"
			}
		}
	} else if !os.IsNotExist(unwrapToOS(err)) {
		row.Nelect = "err"
	}

	st, stErr := vaspio.ReadPoscar(filepath.Join(folder, "POSCAR"))
	if stErr == nil {
		row.Atoms = fmt.Sprintf("%d", len(st.Sites))
		row.Composition = st.Formula()
	} else if !os.IsNotExist(unwrapToOS(stErr)) {
		row.Atoms, row.Composition = "err", "err"
	}

	if haveNelect && stErr == nil {
		if table, err := vaspio.ReadPotcar(filepath.Join(folder, "POTCAR")); err == nil {
			row.DeltaQ = formatDeltaQ(st.Composition(), table, nelect)
		}
	}
	return row, true
}

// formatDeltaQ computes the valence-electron total of the composition and
// reports its signed difference from NELECT, with sub-0.01 noise zeroed.
func formatDeltaQ(composition map[string]int, table map[string]float64, nelect float64) string {
	var total float64
	for element, count := range composition {
		zval, ok := table[element]
		if !ok {
			return "err"
		}
		total += zval * float64(count)
	}
	deltaQ := total - nelect
	if math.Abs(deltaQ) < 1e-2 {
		deltaQ = 0
	}
	return fmt.Sprintf("%+.2f", deltaQ)
}

func unwrapToOS(err error) error {
	if rerr, ok := err.(*vaspio.ResourceReadError); ok {
		return rerr.Err
	}
	return err
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	ruleStyle   = lipgloss.NewStyle().Faint(true)

	statusStyles = map[string]lipgloss.Style{
		vaspio.StatusFinished: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		vaspio.StatusFailed:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		vaspio.StatusRunning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
)

// RenderSummary prints the summary table.
func RenderSummary(w io.Writer, rows []FolderSummary) {
	fmt.Fprintln(w, "\nSummary of solver input folders:")
	fmt.Fprintln(w)

	header := fmt.Sprintf("%-25s %-14s %-6s %-30s %-15s %s",
		"FOLDER", "NELECT (ΔQ)", "Atoms", "Composition", "JOB STATUS", "FILES MISSING")
	fmt.Fprintln(w, headerStyle.Render(header))
	fmt.Fprintln(w, ruleStyle.Render(strings.Repeat("-", 120)))

	for _, r := range rows {
		nelect := "—"
		if r.Nelect != "—" {
			nelect = fmt.Sprintf("%s (%s)", r.Nelect, r.DeltaQ)
		}
		status := r.Status
		if style, ok := statusStyles[status]; ok {
			// Pad before styling so ANSI codes do not break alignment.
			status = style.Render(fmt.Sprintf("%-15s", status))
		} else {
			status = fmt.Sprintf("%-15s", status)
		}
		fmt.Fprintf(w, "%-25s %-14s %-6s %-30s %s %s\n",
			r.Folder, nelect, r.Atoms, r.Composition, status, r.Missing)
	}
}
