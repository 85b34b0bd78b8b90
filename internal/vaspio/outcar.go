package vaspio

import (
	"os"
	"strings"
)

// JobStatus values reported by ProbeJobStatus.
const (
	StatusNotStarted = "not started"
	StatusFinished   = "finished"
	StatusFailed     = "failed"
	StatusRunning    = "running"
	StatusUnreadable = "unreadable"
)

// ProbeJobStatus classifies a solver run from its OUTCAR. A run that reached
// the final resource summary ("Voluntary context switches") finished; one
// that reached the timing block without it died during teardown; anything
// else with an OUTCAR present is still running.
func ProbeJobStatus(outcarPath string) string {
	data, err := os.ReadFile(outcarPath)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusNotStarted
		}
		return StatusUnreadable
	}
	content := string(data)
	switch {
	case strings.Contains(content, "Voluntary context switches"):
		return StatusFinished
	case strings.Contains(content, "General timing and accounting"):
		return StatusFailed
	default:
		return StatusRunning
	}
}
