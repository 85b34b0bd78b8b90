package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"defectforge/internal/batch"
)

var (
	editSets   []string
	editDryRun bool
)

// editCmd batch-edits control files across the workspace.
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Batch-edit INCAR tags across all defect folders",
	Long: `Edit applies --set KEY=VALUE overrides to the INCAR of every
non-administrative folder in the workspace, preserving each file's tag order.
Values are coerced to int, float or boolean where they parse as one, and
stay literal strings otherwise.

Examples:
  defectforge edit --set ENCUT=520 --set ISYM=0
  defectforge edit --set LWAVE=.FALSE. --dry-run`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringArrayVar(&editSets, "set", nil, "set INCAR KEY=VALUE (repeatable)")
	editCmd.Flags().BoolVar(&editDryRun, "dry-run", false, "preview changes without writing")
	_ = editCmd.MarkFlagRequired("set")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ws := resolveWorkspace()
	cfg, err := loadConfig(ws)
	if err != nil {
		return err
	}

	sets, err := batch.ParseSets(editSets)
	if err != nil {
		return err
	}

	results, err := batch.EditIncars(ws, cfg, sets, editDryRun)
	if err != nil {
		return err
	}

	fmt.Println("\nEditing INCAR files:")
	fmt.Println()
	for _, r := range results {
		fmt.Printf("%-25s %s\n", r.Folder, r.Note)
	}
	if editDryRun {
		fmt.Println("\n(DRY RUN: no files written)")
	}
	return nil
}
