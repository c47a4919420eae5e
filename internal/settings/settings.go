// Package settings loads the optional leap-deploy.toml tool settings file,
// which supplies defaults for flags like the target environment or output
// format.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileName is the tool settings file discovered near a project.
const FileName = "leap-deploy.toml"

// Output formats the fold command can emit.
const (
	OutputYAML = "yaml"
	OutputJSON = "json"
)

// Settings are workstation-level defaults for CLI flags. Flags always win
// over settings.
type Settings struct {
	Manifest    string `toml:"manifest"`
	Environment string `toml:"environment"`
	Region      string `toml:"region"`
	BaseDir     string `toml:"baseDir"`
	Output      string `toml:"output"`
	Sources     bool   `toml:"sources"`
}

// Default returns the settings used when no settings file exists.
func Default() *Settings {
	return &Settings{Output: OutputYAML}
}

// Load parses a leap-deploy.toml file at the given path.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}

	s := Default()
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}

	if err := Validate(s); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}

	return s, nil
}

// Find walks up directories starting from startDir to locate a
// leap-deploy.toml file. Returns the absolute path to the first one found,
// or an empty string when none exists.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path for %s: %w", startDir, err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}

// Discover loads the nearest settings file above startDir, falling back to
// defaults when there is none.
func Discover(startDir string) (*Settings, error) {
	path, err := Find(startDir)
	if err != nil {
		return nil, err
	}

	if path == "" {
		return Default(), nil
	}

	return Load(path)
}

// Validate checks settings values.
func Validate(s *Settings) error {
	switch s.Output {
	case "", OutputYAML, OutputJSON:
		return nil
	default:
		return fmt.Errorf("output must be %q or %q, got %q", OutputYAML, OutputJSON, s.Output)
	}
}
