package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/workleap/wl-leap-deploy/internal/manifest"
	"github.com/workleap/wl-leap-deploy/internal/settings"
)

var (
	flagManifest string
	flagEnv      string
	flagRegion   string
	flagBaseDir  string
	flagOutput   string
	flagSettings string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "leap-deploy",
	Short: "Fold layered deployment manifests into per-workload configuration",
	Long: `leap-deploy resolves a deployment manifest for a target environment and
region by merging its override layers — defaults, workload, environment,
region, and region+environment — into one final configuration per workload,
and can report which layer every value came from.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagManifest, "file", "f", "", "path to the deployment manifest (default from settings, else deploy.yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagEnv, "env", "e", "", "target environment")
	rootCmd.PersistentFlags().StringVarP(&flagRegion, "region", "r", "", "target region (omit to skip region layers)")
	rootCmd.PersistentFlags().StringVar(&flagBaseDir, "base-dir", "", "directory relative projectSource paths resolve against (default: manifest directory)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "output format: yaml or json")
	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", "", "path to leap-deploy.toml (auto-detected if omitted)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	cobra.OnInitialize(initLogger)
}

func initLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(level)
}

// loadSettings finds and parses the tool settings file, falling back to
// defaults when none exists.
func loadSettings() (*settings.Settings, error) {
	if flagSettings != "" {
		return settings.Load(flagSettings)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	return settings.Discover(cwd)
}

// loadManifest resolves the manifest path from the flag or settings, parses
// the manifest, and returns it with the path it was loaded from.
func loadManifest(s *settings.Settings) (*manifest.Document, string, error) {
	path := flagManifest
	if path == "" {
		path = s.Manifest
	}
	if path == "" {
		path = "deploy.yaml"
	}

	doc, err := manifest.Load(path)
	if err != nil {
		return nil, "", err
	}

	return doc, path, nil
}

// resolveEnv returns the target environment, preferring the CLI flag over
// the settings default.
func resolveEnv(s *settings.Settings) string {
	if flagEnv != "" {
		return flagEnv
	}
	return s.Environment
}

// resolveRegion returns the target region, preferring the CLI flag over the
// settings default.
func resolveRegion(s *settings.Settings) string {
	if flagRegion != "" {
		return flagRegion
	}
	return s.Region
}

// resolveBaseDir returns the base directory for relative path resolution:
// the flag, then settings, then the manifest's own directory.
func resolveBaseDir(s *settings.Settings, manifestPath string) string {
	if flagBaseDir != "" {
		return flagBaseDir
	}
	if s.BaseDir != "" {
		return s.BaseDir
	}
	return filepath.Dir(manifestPath)
}

// resolveOutput returns the output format, preferring the CLI flag over the
// settings default.
func resolveOutput(s *settings.Settings) (string, error) {
	out := flagOutput
	if out == "" {
		out = s.Output
	}
	if out == "" {
		out = settings.OutputYAML
	}

	if out != settings.OutputYAML && out != settings.OutputJSON {
		return "", fmt.Errorf("output must be %q or %q, got %q", settings.OutputYAML, settings.OutputJSON, out)
	}

	return out, nil
}
