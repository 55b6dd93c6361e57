// Package config resolves runtime settings from defaults, an optional YAML
// file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/arnavshah/roster-assign-go/pkg/loader"
	"github.com/arnavshah/roster-assign-go/pkg/scheduler"
)

const (
	SourceCSV = "csv"
	SourceSQL = "sql"
)

// Config holds the runtime configuration
type Config struct {
	DataDir          string `yaml:"data_dir" env:"ROSTER_DATA_DIR"`
	RosterFile       string `yaml:"roster_file" env:"ROSTER_FILE"`
	RequirementsFile string `yaml:"requirements_file" env:"REQUIREMENTS_FILE"`
	NamesFile        string `yaml:"names_file" env:"NAMES_FILE"`

	// Source is csv or sql
	Source      string `yaml:"source" env:"ROSTER_SOURCE"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
	DataPath    string `yaml:"data_path" env:"DATA_PATH"`

	AssignmentCap        int  `yaml:"assignment_cap" env:"ASSIGNMENT_CAP"`
	SlotsPerRequirement  int  `yaml:"slots_per_requirement" env:"SLOTS_PER_REQUIREMENT"`
	EnforceAssignmentCap bool `yaml:"enforce_assignment_cap" env:"ENFORCE_ASSIGNMENT_CAP"`

	Verbose bool `yaml:"verbose" env:"ROSTER_VERBOSE"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		DataDir:             ".",
		RosterFile:          loader.DefaultRosterFile,
		RequirementsFile:    loader.DefaultRequirementsFile,
		NamesFile:           loader.DefaultNamesFile,
		Source:              SourceCSV,
		DataPath:            "roster.db",
		AssignmentCap:       scheduler.DefaultAssignmentCap,
		SlotsPerRequirement: scheduler.DefaultSlotsPerRequirement,
	}
}

// LoadDotEnv loads the first .env found in the working directory or its parents
func LoadDotEnv() {
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}
}

// Load builds the configuration. path may be empty; a missing file is only an
// error when path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("ROSTER_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = "roster.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the settings for consistency
func (c *Config) Validate() error {
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	if c.Source == "" {
		c.Source = SourceCSV
	}
	if c.Source != SourceCSV && c.Source != SourceSQL {
		return fmt.Errorf("config: unknown source %q (want %s or %s)", c.Source, SourceCSV, SourceSQL)
	}
	if c.AssignmentCap <= 0 {
		return fmt.Errorf("config: assignment_cap must be positive, got %d", c.AssignmentCap)
	}
	if c.SlotsPerRequirement <= 0 {
		return fmt.Errorf("config: slots_per_requirement must be positive, got %d", c.SlotsPerRequirement)
	}
	return nil
}

// SchedulerOptions converts the settings into scheduler options
func (c Config) SchedulerOptions() scheduler.Options {
	return scheduler.Options{
		AssignmentCap:        c.AssignmentCap,
		SlotsPerRequirement:  c.SlotsPerRequirement,
		EnforceAssignmentCap: c.EnforceAssignmentCap,
	}
}

// CSVSource returns a loader for the configured CSV files
func (c Config) CSVSource() *loader.CSVSource {
	return &loader.CSVSource{
		Dir:              c.DataDir,
		RosterFile:       c.RosterFile,
		RequirementsFile: c.RequirementsFile,
		NamesFile:        c.NamesFile,
	}
}
