// internal/config/config.go
//
// This package handles configuration and the .erector directory structure.
// Every project analyzed with erector gets a .erector/ folder created in
// its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sitecast/erector/internal/method/engine"
	"gopkg.in/yaml.v3"
)

// ErectorDir is the name of the directory we create in each project.
const ErectorDir = ".erector"

const defaultProjectConfigYAML = `# erector project configuration
version: 1

document:
  title: Erection Methodology

# Spatial analysis tuning. All lengths are millimeters.
engine:
  virtual_grid_spacing: 10000
  zone_target_size: 30000
  max_tiles_per_axis: 6
  area_tolerance: 500
  min_axis_span: 1000

sequences:
  include_footings: true
`

// DocumentConfig captures report preferences.
type DocumentConfig struct {
	Title string `yaml:"title"`
}

// EngineConfig tunes the spatial analysis. Zero values fall back to the
// engine defaults.
type EngineConfig struct {
	VirtualGridSpacing float64 `yaml:"virtual_grid_spacing"`
	ZoneTargetSize     float64 `yaml:"zone_target_size"`
	MaxTilesPerAxis    int     `yaml:"max_tiles_per_axis"`
	AreaTolerance      float64 `yaml:"area_tolerance"`
	MinAxisSpan        float64 `yaml:"min_axis_span"`
}

// SequenceConfig captures user-sequence generation preferences.
type SequenceConfig struct {
	IncludeFootings *bool `yaml:"include_footings"`
}

// ProjectConfig models .erector/config.yaml.
type ProjectConfig struct {
	Version   int            `yaml:"version"`
	Document  DocumentConfig `yaml:"document"`
	Engine    EngineConfig   `yaml:"engine"`
	Sequences SequenceConfig `yaml:"sequences"`
}

// Config holds the runtime configuration for erector.
type Config struct {
	// ProjectDir is the directory where the user ran `erector` from
	ProjectDir string

	// ErectorProjectDir is ProjectDir/.erector
	ErectorProjectDir string

	Project ProjectConfig
}

// InitErectorDir creates the .erector directory structure in the given
// project directory. This is called when the TUI starts up.
//
// Structure created:
// .erector/
// ├── models/     <- Parser snapshots (JSON)
// ├── state/      <- Analyzed results for inspection
// ├── reports/    <- Rendered methodology documents
// ├── sequences/  <- User sequence definitions (YAML)
// └── logs/       <- Pipeline activity log
func InitErectorDir(projectDir string) error {
	erectorDir := filepath.Join(projectDir, ErectorDir)

	dirs := []string{
		filepath.Join(erectorDir, "models"),
		filepath.Join(erectorDir, "state"),
		filepath.Join(erectorDir, "reports"),
		filepath.Join(erectorDir, "sequences"),
		filepath.Join(erectorDir, "logs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return ensureProjectConfig(filepath.Join(erectorDir, "config.yaml"))
}

// NewConfig creates a Config populated with project settings, reading
// .erector/config.yaml when present.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:        projectDir,
		ErectorProjectDir: filepath.Join(projectDir, ErectorDir),
		Project:           defaultProjectConfig(),
	}

	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ModelsDir returns the path to the parser snapshot directory.
func (c *Config) ModelsDir() string {
	return filepath.Join(c.ErectorProjectDir, "models")
}

// StateDir returns the path to the state dump directory.
func (c *Config) StateDir() string {
	return filepath.Join(c.ErectorProjectDir, "state")
}

// ReportsDir returns the path to the rendered report directory.
func (c *Config) ReportsDir() string {
	return filepath.Join(c.ErectorProjectDir, "reports")
}

// SequencesDir returns the path to the sequence definition directory.
func (c *Config) SequencesDir() string {
	return filepath.Join(c.ErectorProjectDir, "sequences")
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.ErectorProjectDir, "logs")
}

// LogPath returns the pipeline activity log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "erector.log")
}

// ModelPath returns the snapshot location for one model.
func (c *Config) ModelPath(modelID string) string {
	return filepath.Join(c.ModelsDir(), modelID+".json")
}

// StatePath returns the state dump location for one model.
func (c *Config) StatePath(modelID string) string {
	return filepath.Join(c.StateDir(), modelID+".json")
}

// ReportPath returns the methodology report location for one model.
func (c *Config) ReportPath(modelID string) string {
	return filepath.Join(c.ReportsDir(), modelID+".md")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.ErectorProjectDir, "config.yaml")
}

// DocumentTitle returns the configured methodology document title.
func (c *Config) DocumentTitle() string {
	return c.Project.Document.Title
}

// IncludeFootings reports whether user sequences stage footings.
func (c *Config) IncludeFootings() bool {
	if c.Project.Sequences.IncludeFootings == nil {
		return true
	}
	return *c.Project.Sequences.IncludeFootings
}

// EngineParams maps the configured tuning onto the analysis engine.
func (c *Config) EngineParams() engine.Params {
	return engine.Params{
		VirtualSpacing: c.Project.Engine.VirtualGridSpacing,
		ZoneTarget:     c.Project.Engine.ZoneTargetSize,
		ZoneMaxPerAxis: c.Project.Engine.MaxTilesPerAxis,
		Tolerance:      c.Project.Engine.AreaTolerance,
		MinSpan:        c.Project.Engine.MinAxisSpan,
	}
}

// SetDocumentTitle updates the report title and persists the value back
// to .erector/config.yaml.
func (c *Config) SetDocumentTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("config: document title is required")
	}
	c.Project.Document.Title = title
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	defaults := engine.DefaultParams()
	include := true
	return ProjectConfig{
		Version:  1,
		Document: DocumentConfig{Title: "Erection Methodology"},
		Engine: EngineConfig{
			VirtualGridSpacing: defaults.VirtualSpacing,
			ZoneTargetSize:     defaults.ZoneTarget,
			MaxTilesPerAxis:    defaults.ZoneMaxPerAxis,
			AreaTolerance:      defaults.Tolerance,
			MinAxisSpan:        defaults.MinSpan,
		},
		Sequences: SequenceConfig{IncludeFootings: &include},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	defaults := defaultProjectConfig()
	if pc.Version == 0 {
		pc.Version = defaults.Version
	}
	if pc.Engine.VirtualGridSpacing == 0 {
		pc.Engine.VirtualGridSpacing = defaults.Engine.VirtualGridSpacing
	}
	if pc.Engine.ZoneTargetSize == 0 {
		pc.Engine.ZoneTargetSize = defaults.Engine.ZoneTargetSize
	}
	if pc.Engine.MaxTilesPerAxis == 0 {
		pc.Engine.MaxTilesPerAxis = defaults.Engine.MaxTilesPerAxis
	}
	if pc.Engine.AreaTolerance == 0 {
		pc.Engine.AreaTolerance = defaults.Engine.AreaTolerance
	}
	if pc.Engine.MinAxisSpan == 0 {
		pc.Engine.MinAxisSpan = defaults.Engine.MinAxisSpan
	}
	if pc.Sequences.IncludeFootings == nil {
		pc.Sequences.IncludeFootings = defaults.Sequences.IncludeFootings
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Document.Title = strings.TrimSpace(pc.Document.Title)
	if pc.Document.Title == "" {
		pc.Document.Title = defaultProjectConfig().Document.Title
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Engine.VirtualGridSpacing <= 0 {
		return fmt.Errorf("engine.virtual_grid_spacing must be positive")
	}
	if pc.Engine.ZoneTargetSize <= 0 {
		return fmt.Errorf("engine.zone_target_size must be positive")
	}
	if pc.Engine.MaxTilesPerAxis < 1 {
		return fmt.Errorf("engine.max_tiles_per_axis must be >= 1")
	}
	if pc.Engine.AreaTolerance < 0 {
		return fmt.Errorf("engine.area_tolerance must not be negative")
	}
	if pc.Engine.MinAxisSpan < 0 {
		return fmt.Errorf("engine.min_axis_span must not be negative")
	}
	return nil
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.ErectorProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure erector dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
