// Package config loads the typelens tool configuration.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config represents the typelens configuration.
type Config struct {
	Exclude ExcludeConfig `yaml:"exclude"`
	Build   BuildConfig   `yaml:"build"`
	Docs    bool          `yaml:"docs"`
}

// ExcludeConfig defines file patterns typelens refuses to inspect.
type ExcludeConfig struct {
	FilesGlob []string `yaml:"files_glob"`
}

// BuildConfig controls how programs are loaded through go/packages.
type BuildConfig struct {
	Flags []string `yaml:"flags"` // extra build flags, e.g. -tags=integration
	Env   []string `yaml:"env"`   // environment overrides, e.g. GOOS=linux
	Tests bool     `yaml:"tests"` // include _test.go files in the package set
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Exclude: ExcludeConfig{
			FilesGlob: []string{"**/*.pb.go", "**/*_gen.go", "**/*_mock.go"},
		},
	}
}

// Load reads configuration from file, falling back to defaults.
// If configPath is empty, it looks for typelens.yaml in the current directory.
// Values in the config file replace defaults entirely (no merging).
func Load(configPath string) (*Config, error) {
	defaults := Default()

	if configPath == "" {
		configPath = "typelens.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// No config file, use defaults
			return defaults, nil
		}
		return nil, err
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, err
	}

	defaults.Merge(&fileCfg)
	return defaults, nil
}

// Merge combines another config into this one, with other taking precedence.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if len(other.Exclude.FilesGlob) > 0 {
		c.Exclude.FilesGlob = other.Exclude.FilesGlob
	}
	if len(other.Build.Flags) > 0 {
		c.Build.Flags = other.Build.Flags
	}
	if len(other.Build.Env) > 0 {
		c.Build.Env = other.Build.Env
	}
	if other.Build.Tests {
		c.Build.Tests = true
	}
	if other.Docs {
		c.Docs = true
	}
}

// IsExcludedFile checks whether a file matches one of the exclude globs.
// Patterns are matched against both the full slash path and the base name,
// so "*.pb.go" and "**/*.pb.go" behave the same way.
func (c *Config) IsExcludedFile(path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pattern := range c.Exclude.FilesGlob {
		if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
