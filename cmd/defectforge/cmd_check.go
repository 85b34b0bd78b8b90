package main

import (
	"os"

	"github.com/spf13/cobra"

	"defectforge/internal/report"
)

// checkCmd summarizes the workspace's solver input folders.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Summarize solver input folders (NELECT, ΔQ, composition, job status)",
	Long: `Check inspects every folder in the workspace that looks like a solver
input folder and tabulates its NELECT value, the charge offset against the
composition's valence total, atom count, composition, job status derived
from OUTCAR, and any missing required files.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	ws := resolveWorkspace()
	cfg, err := loadConfig(ws)
	if err != nil {
		return err
	}

	rows, err := report.Summarize(ws, cfg)
	if err != nil {
		return err
	}
	report.RenderSummary(os.Stdout, rows)
	return nil
}
