package vaspio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProbeJobStatus(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	cases := []struct {
		name string
		path string
		want string
	}{
		{"missing", filepath.Join(dir, "OUTCAR"), StatusNotStarted},
		{"finished", write("OUTCAR.done", "...\n Voluntary context switches:   12\n"), StatusFinished},
		{"failed", write("OUTCAR.dead", " General timing and accounting\n"), StatusFailed},
		{"running", write("OUTCAR.live", " iteration 12\n"), StatusRunning},
	}
	for _, tc := range cases {
		if got := ProbeJobStatus(tc.path); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestProbeJobStatus_FinishedWinsOverTiming(t *testing.T) {
	// A finished OUTCAR contains both markers; the completion marker rules.
	path := filepath.Join(t.TempDir(), "OUTCAR")
	content := " General timing and accounting\n Voluntary context switches: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := ProbeJobStatus(path); got != StatusFinished {
		t.Errorf("got %q, want %q", got, StatusFinished)
	}
}
