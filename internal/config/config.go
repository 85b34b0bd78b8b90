// Package config holds all defectforge configuration. A workspace may carry
// a defectforge.yaml overriding any subset of the defaults; a missing file
// just means defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the per-workspace configuration file.
const DefaultFileName = "defectforge.yaml"

// Config holds all defectforge configuration.
type Config struct {
	// Supercell multipliers along the three lattice directions.
	Supercell [3]int `yaml:"supercell"`

	// Engine tunes the defect engine.
	Engine EngineConfig `yaml:"engine"`

	// Paths locates the workspace input resources.
	Paths PathsConfig `yaml:"paths"`

	// Templates selects the per-defect-family template folder.
	Templates TemplatesConfig `yaml:"templates"`

	// CanonicalOrder is the element priority used to sort output structures.
	CanonicalOrder []string `yaml:"canonical_order"`
}

// EngineConfig tunes the empty-site search.
type EngineConfig struct {
	MinDistance    float64 `yaml:"min_distance"`    // length units
	GridResolution int     `yaml:"grid_resolution"` // grid points per axis
}

// PathsConfig locates input resources, all relative to the workspace root.
type PathsConfig struct {
	InputDir       string `yaml:"input_dir"`       // shared inputs + template families
	UnitCell       string `yaml:"unit_cell"`       // relaxed unit-cell structure
	SpecFile       string `yaml:"spec_file"`       // defect specification document, inside input_dir
	KPoints        string `yaml:"kpoints"`         // shared sampling grid, inside input_dir
	JobScript      string `yaml:"job_script"`      // submission script template, inside input_dir
	ReferenceIncar string `yaml:"reference_incar"` // reference folder for diffing, inside input_dir
	ReservedPrefix string `yaml:"reserved_prefix"` // administrative folder/spec name prefix
}

// TemplatesConfig picks the template family for a defect. The first anchor
// element added by the delta selects "<anchor>_<base>"; no anchor means the
// base family.
type TemplatesConfig struct {
	Anchors []string `yaml:"anchors"`
	Base    string   `yaml:"base"`
}

// FamilyFor returns the template-family folder name for a defect delta.
func (t TemplatesConfig) FamilyFor(delta map[string]int) string {
	for _, anchor := range t.Anchors {
		if delta[anchor] > 0 {
			return anchor + "_" + t.Base
		}
	}
	return t.Base
}

// DefaultConfig returns the configuration the original workflow assumes.
func DefaultConfig() *Config {
	return &Config{
		Supercell: [3]int{2, 2, 4},
		Engine: EngineConfig{
			MinDistance:    1.5,
			GridResolution: 10,
		},
		Paths: PathsConfig{
			InputDir:       "z_input",
			UnitCell:       filepath.Join("z_unit_cell", "CONTCAR"),
			SpecFile:       "defect_modifications.json",
			KPoints:        "KPOINTS",
			JobScript:      "job.justhpc",
			ReferenceIncar: "reference_incar",
			ReservedPrefix: "z",
		},
		Templates: TemplatesConfig{
			Anchors: []string{"La", "Y", "Mo"},
			Base:    "Pb_W_O",
		},
		CanonicalOrder: []string{"La", "Y", "Mo", "Pb", "W", "O"},
	}
}

// Load reads configuration from path, applying defaults for anything the
// file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadWorkspace loads <workspace>/defectforge.yaml, or defaults when the
// file does not exist.
func LoadWorkspace(workspace string) (*Config, error) {
	cfg, err := Load(filepath.Join(workspace, DefaultFileName))
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	for i, n := range c.Supercell {
		if n <= 0 {
			return fmt.Errorf("supercell[%d] must be positive, got %d", i, n)
		}
	}
	if c.Engine.MinDistance <= 0 {
		return fmt.Errorf("engine.min_distance must be positive, got %g", c.Engine.MinDistance)
	}
	if c.Engine.GridResolution <= 0 {
		return fmt.Errorf("engine.grid_resolution must be positive, got %d", c.Engine.GridResolution)
	}
	if c.Templates.Base == "" {
		return fmt.Errorf("templates.base must not be empty")
	}
	return nil
}
