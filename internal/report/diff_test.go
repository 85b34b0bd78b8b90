package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defectforge/internal/config"
)

func diffWorkspace(t *testing.T) string {
	t.Helper()
	ws := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(ws, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	write("z_input/reference_incar/INCAR", "ENCUT = 400\nISYM = 2\nLWAVE = .FALSE.\n")
	write("defect_a/INCAR", "ENCUT = 520\nISYM = 2\nLWAVE = .FALSE.\nNELECT = 128\n")
	write("defect_b/INCAR", "ENCUT = 400\nISYM = 2\n") // LWAVE dropped
	write("no_incar/OUTCAR", "running\n")
	return ws
}

func TestDiffIncars(t *testing.T) {
	rep, err := DiffIncars(diffWorkspace(t), config.DefaultConfig())
	require.NoError(t, err)

	// reference_incar lives inside z_input, so only the two defect folders
	// carry a top-level INCAR.
	assert.Equal(t, []string{"defect_a", "defect_b"}, rep.Folders)
	assert.Equal(t, []string{"ENCUT", "LWAVE", "NELECT"}, rep.Keys)

	assert.Equal(t, "520", rep.Diffs["defect_a"]["ENCUT"])
	assert.Equal(t, "128", rep.Diffs["defect_a"]["NELECT"])
	_, isymDiffers := rep.Diffs["defect_a"]["ISYM"]
	assert.False(t, isymDiffers, "matching keys must not appear in the diff")

	assert.Equal(t, unsetMark, rep.Diffs["defect_b"]["LWAVE"])
}

func TestDiffIncars_MissingReference(t *testing.T) {
	_, err := DiffIncars(t.TempDir(), config.DefaultConfig())
	assert.Error(t, err)
}

func TestRenderDiff(t *testing.T) {
	rep, err := DiffIncars(diffWorkspace(t), config.DefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderDiff(&buf, rep, 2) // force chunking: 3 keys over 2 tables
	text := buf.String()

	assert.Contains(t, text, "ENCUT")
	assert.Contains(t, text, "NELECT")
	assert.Contains(t, text, "defect_a")
	assert.Contains(t, text, "520")
	assert.Contains(t, text, "—", "matching cells show a dash")
	assert.Contains(t, text, unsetMark)
}

func TestRenderDiff_NoDifferences(t *testing.T) {
	ws := t.TempDir()
	ref := filepath.Join(ws, "z_input", "reference_incar")
	require.NoError(t, os.MkdirAll(ref, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(ref, "INCAR"), []byte("ENCUT = 400\n"), 0o644))
	folder := filepath.Join(ws, "defect_a")
	require.NoError(t, os.MkdirAll(folder, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "INCAR"), []byte("ENCUT = 400\n"), 0o644))

	rep, err := DiffIncars(ws, config.DefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	RenderDiff(&buf, rep, 5)
	assert.Contains(t, buf.String(), "All INCARs match the reference.")
}
