// Package vaspio reads and writes the VASP-style text formats this tool
// consumes and produces: POSCAR/CONTCAR structures, INCAR key=value control
// files, POTCAR valence data, OUTCAR run-status probing, and the batch
// job-submission script.
package vaspio

import "fmt"

// ResourceReadError wraps a parse or read failure for an input resource.
type ResourceReadError struct {
	Path string
	Err  error
}

func (e *ResourceReadError) Error() string {
	return fmt.Sprintf("could not read %s: %v", e.Path, e.Err)
}

func (e *ResourceReadError) Unwrap() error { return e.Err }
