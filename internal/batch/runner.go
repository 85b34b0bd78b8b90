// Package batch drives the per-defect pipeline: rebuild the supercell, apply
// the delta, sort, account electrons, then write the solver input folder.
// Each defect is isolated: a failure is reported and the batch moves on.
package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"defectforge/internal/config"
	"defectforge/internal/defect"
	"defectforge/internal/geometry"
	"defectforge/internal/vaspio"
)

// MissingTemplateError reports a required external template resource that is
// absent from the workspace.
type MissingTemplateError struct {
	Path string
}

func (e *MissingTemplateError) Error() string {
	return fmt.Sprintf("missing required template file %s", e.Path)
}

// Outcome is the result of processing one defect specification.
type Outcome struct {
	Name      string
	Electrons int
	Skipped   bool
	Err       error
}

// Runner executes a defect batch against one workspace.
type Runner struct {
	Workspace string
	Config    *config.Config
	Logger    *zap.Logger
	Out       io.Writer

	runID string
}

// NewRunner wires a runner. Logger may be zap.NewNop() and Out may be
// io.Discard; both are always safe to call.
func NewRunner(workspace string, cfg *config.Config, logger *zap.Logger, out io.Writer) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		Workspace: workspace,
		Config:    cfg,
		Logger:    logger,
		Out:       out,
		runID:     uuid.NewString(),
	}
}

// Run loads the unit cell and the defect specification document, then
// processes every specification in document order. A defect's failure is
// captured in its Outcome and never aborts the batch; only unreadable
// pre-loop inputs return an error.
func (r *Runner) Run() ([]Outcome, error) {
	unitPath := filepath.Join(r.Workspace, r.Config.Paths.UnitCell)
	unit, err := vaspio.ReadPoscar(unitPath)
	if err != nil {
		return nil, err
	}

	specPath := filepath.Join(r.Workspace, r.Config.Paths.InputDir, r.Config.Paths.SpecFile)
	f, err := os.Open(specPath)
	if err != nil {
		return nil, &vaspio.ResourceReadError{Path: specPath, Err: err}
	}
	specs, err := defect.ParseSpecs(f, r.Config.Paths.ReservedPrefix)
	f.Close()
	if err != nil {
		return nil, &vaspio.ResourceReadError{Path: specPath, Err: err}
	}

	r.Logger.Info("starting defect batch",
		zap.String("run_id", r.runID),
		zap.String("workspace", r.Workspace),
		zap.Int("specs", len(specs)))

	outcomes := make([]Outcome, 0, len(specs))
	for _, spec := range specs {
		if spec.Administrative {
			fmt.Fprintf(r.Out, "⏭️  Skipping %s\n", spec.Name)
			outcomes = append(outcomes, Outcome{Name: spec.Name, Skipped: true})
			continue
		}

		nelect, err := r.processDefect(unit, spec)
		if err != nil {
			fmt.Fprintf(r.Out, "❌ %s: %v\n", spec.Name, err)
			r.Logger.Warn("defect failed",
				zap.String("run_id", r.runID),
				zap.String("defect", spec.Name),
				zap.Error(err))
			outcomes = append(outcomes, Outcome{Name: spec.Name, Err: err})
			continue
		}

		fmt.Fprintf(r.Out, "✅ %s: done (NELECT = %d)\n", spec.Name, nelect)
		r.Logger.Info("defect generated",
			zap.String("run_id", r.runID),
			zap.String("defect", spec.Name),
			zap.Int("nelect", nelect))
		outcomes = append(outcomes, Outcome{Name: spec.Name, Electrons: nelect})
	}
	return outcomes, nil
}

// processDefect runs the full pipeline for one defect. Everything is computed
// and loaded into memory before the first byte is written, and artifacts are
// staged then renamed into place, so a failure leaves no partial folder.
func (r *Runner) processDefect(unit *geometry.Structure, spec defect.Spec) (int, error) {
	cfg := r.Config

	st, err := defect.BuildSupercell(unit, cfg.Supercell[0], cfg.Supercell[1], cfg.Supercell[2])
	if err != nil {
		return 0, err
	}

	applier := defect.Applier{
		MinDistance:    cfg.Engine.MinDistance,
		GridResolution: cfg.Engine.GridResolution,
	}
	if st, err = applier.Apply(st, spec.Delta); err != nil {
		return 0, err
	}
	st = defect.SortCanonical(st, defect.CanonicalOrder(cfg.CanonicalOrder))

	inputDir := filepath.Join(r.Workspace, cfg.Paths.InputDir)
	templateDir := filepath.Join(inputDir, cfg.Templates.FamilyFor(spec.Delta))
	potcarPath := filepath.Join(templateDir, "POTCAR")
	incarPath := filepath.Join(templateDir, "INCAR")
	kpointsPath := filepath.Join(inputDir, cfg.Paths.KPoints)
	jobPath := filepath.Join(inputDir, cfg.Paths.JobScript)
	for _, p := range []string{incarPath, potcarPath, kpointsPath, jobPath} {
		if _, err := os.Stat(p); err != nil {
			return 0, &MissingTemplateError{Path: p}
		}
	}

	valence, err := vaspio.ReadPotcar(potcarPath)
	if err != nil {
		return 0, err
	}
	nelect, err := defect.TotalElectrons(st, valence, spec.Charge)
	if err != nil {
		return 0, err
	}

	incar, err := vaspio.ReadIncar(incarPath)
	if err != nil {
		return 0, err
	}
	incar.Set("NELECT", nelect)

	potcarData, err := os.ReadFile(potcarPath)
	if err != nil {
		return 0, err
	}
	kpointsData, err := os.ReadFile(kpointsPath)
	if err != nil {
		return 0, err
	}
	jobData, err := os.ReadFile(jobPath)
	if err != nil {
		return 0, err
	}
	jobScript := vaspio.RewriteJobName(string(jobData), spec.Name)

	return nelect, r.installArtifacts(spec.Name, st, incar, potcarData, kpointsData, jobScript)
}

// installArtifacts writes all five artifacts into a hidden staging directory
// and only then moves them into the defect folder.
func (r *Runner) installArtifacts(name string, st *geometry.Structure, incar *vaspio.Incar, potcar, kpoints []byte, jobScript string) error {
	staging, err := os.MkdirTemp(r.Workspace, "."+name+"-staging-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(staging)

	if err := vaspio.WritePoscarFile(filepath.Join(staging, "POSCAR"), st, ""); err != nil {
		return err
	}
	if err := incar.WriteFile(filepath.Join(staging, "INCAR")); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(staging, "POTCAR"), potcar, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(staging, "KPOINTS"), kpoints, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(staging, r.Config.Paths.JobScript), []byte(jobScript), 0o644); err != nil {
		return err
	}

	target := filepath.Join(r.Workspace, name)
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return os.Rename(staging, target)
	}
	// Folder already exists (reruns keep OUTCAR and friends); move the
	// staged artifacts in one by one.
	entries, err := os.ReadDir(staging)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.Rename(filepath.Join(staging, entry.Name()), filepath.Join(target, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
