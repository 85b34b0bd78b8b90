package vaspio

import (
	"strings"
)

const jobNamePrefix = "#SBATCH --job-name="

// RewriteJobName returns the job script with the single recognized
// "#SBATCH --job-name=" declaration rewritten to name. Every other line,
// including indentation and trailing content of unrelated lines, passes
// through unchanged.
func RewriteJobName(script string, name string) string {
	lines := strings.Split(script, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), jobNamePrefix) {
			lines[i] = jobNamePrefix + name
		}
	}
	return strings.Join(lines, "\n")
}
