package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"defectforge/internal/batch"
)

var applySupercell []int

// applyCmd generates one solver input folder per defect specification.
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Build defect supercells and write their solver input folders",
	Long: `Apply reads the unit cell and the defect-specification document from the
workspace, then for every non-administrative entry builds the supercell,
applies the atom-count delta, sorts atoms canonically, computes NELECT and
writes POSCAR, INCAR, POTCAR, KPOINTS and the job script into a folder named
after the defect.

A failing defect is reported and skipped; the batch always runs to the end.`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().IntSliceVar(&applySupercell, "supercell", nil,
		"supercell multipliers nx,ny,nz (default from config, 2,2,4)")
}

func runApply(cmd *cobra.Command, args []string) error {
	ws := resolveWorkspace()
	cfg, err := loadConfig(ws)
	if err != nil {
		return err
	}
	if applySupercell != nil {
		if len(applySupercell) != 3 {
			return fmt.Errorf("--supercell wants exactly three multipliers, got %d", len(applySupercell))
		}
		copy(cfg.Supercell[:], applySupercell)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	runner := batch.NewRunner(ws, cfg, logger, os.Stdout)
	outcomes, err := runner.Run()
	if err != nil {
		return err
	}

	generated, failed := 0, 0
	for _, outcome := range outcomes {
		switch {
		case outcome.Skipped:
		case outcome.Err != nil:
			failed++
		default:
			generated++
		}
	}
	fmt.Printf("\n%d folder(s) generated, %d failed\n", generated, failed)
	return nil
}
