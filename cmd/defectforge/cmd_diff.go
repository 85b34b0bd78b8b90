package main

import (
	"os"

	"github.com/spf13/cobra"

	"defectforge/internal/report"
)

var (
	diffReference  string
	diffMaxColumns int
)

// diffCmd compares control files against the workspace reference.
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Diff every folder's INCAR against the reference INCAR",
	Long: `Diff loads the reference INCAR from the workspace input directory and
tabulates, per folder, every control-file tag whose value differs from it.
Wide key sets are split across several tables.`,
	Args: cobra.NoArgs,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffReference, "reference", "",
		"reference INCAR folder inside the input directory (default from config)")
	diffCmd.Flags().IntVar(&diffMaxColumns, "max-columns", 5,
		"maximum key columns per table")
}

func runDiff(cmd *cobra.Command, args []string) error {
	ws := resolveWorkspace()
	cfg, err := loadConfig(ws)
	if err != nil {
		return err
	}
	if diffReference != "" {
		cfg.Paths.ReferenceIncar = diffReference
	}

	rep, err := report.DiffIncars(ws, cfg)
	if err != nil {
		return err
	}
	report.RenderDiff(os.Stdout, rep, diffMaxColumns)
	return nil
}
