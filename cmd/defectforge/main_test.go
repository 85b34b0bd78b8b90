package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestResolveWorkspace(t *testing.T) {
	workspace = "/some/where"
	defer func() { workspace = "" }()
	if got := resolveWorkspace(); got != "/some/where" {
		t.Fatalf("expected flag value, got %q", got)
	}

	workspace = ""
	wd, _ := os.Getwd()
	if got := resolveWorkspace(); got != wd {
		t.Fatalf("expected working directory %q, got %q", wd, got)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if cfg.Supercell != [3]int{2, 2, 4} {
		t.Fatalf("expected default supercell, got %v", cfg.Supercell)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	ws := t.TempDir()
	content := "supercell: [3, 3, 1]\n"
	if err := os.WriteFile(filepath.Join(ws, "defectforge.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(ws)
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if cfg.Supercell != [3]int{3, 3, 1} {
		t.Fatalf("expected supercell from file, got %v", cfg.Supercell)
	}
}

func TestRunEdit_DryRun(t *testing.T) {
	logger = zap.NewNop()
	ws := t.TempDir()
	dir := filepath.Join(ws, "defect_a")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "INCAR"), []byte("ENCUT = 400\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	workspace = ws
	editSets = []string{"ENCUT=520"}
	editDryRun = true
	defer func() {
		workspace = ""
		editSets = nil
		editDryRun = false
	}()

	if err := runEdit(editCmd, nil); err != nil {
		t.Fatalf("runEdit returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "INCAR"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "ENCUT = 400") {
		t.Fatalf("dry run modified the file: %s", data)
	}
}
