// Package main implements the defectforge CLI: batch generation and auditing
// of atomic-defect solver input folders.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"defectforge/internal/config"
)

var (
	// Global flags
	workspace string
	verbose   bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "defectforge",
	Short: "defectforge - atomic-defect structure generator for VASP-style workflows",
	Long: `defectforge builds defect supercells and their solver input folders.

Starting from a relaxed unit cell and a defect-specification document it
replicates the cell, applies per-element atom-count deltas (reusing vacated
coordinates before searching for empty space), sorts atoms canonically,
accounts valence electrons, and writes one ready-to-submit folder per defect.

Companion subcommands audit existing folders: check summarizes them,
diff compares control files against a reference, edit batch-updates
control-file tags.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Diagnostics default to warnings only so batch status lines stay
		// readable; --verbose opens the gate once, at startup.
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(editCmd)

	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace root (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveWorkspace returns the --workspace flag or the current directory.
func resolveWorkspace() string {
	if workspace != "" {
		return workspace
	}
	ws, err := os.Getwd()
	if err != nil {
		return "."
	}
	return ws
}

// loadConfig loads the workspace configuration, falling back to defaults
// when no defectforge.yaml exists.
func loadConfig(ws string) (*config.Config, error) {
	cfg, err := config.LoadWorkspace(ws)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}
