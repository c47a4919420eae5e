package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/workleap/wl-leap-deploy/internal/document"
	"github.com/workleap/wl-leap-deploy/internal/fold"
	"github.com/workleap/wl-leap-deploy/internal/settings"
)

var (
	flagSources bool
	flagOutFile string
)

func init() {
	foldCmd.Flags().BoolVar(&flagSources, "sources", false, "annotate each workload with per-value source attribution")
	foldCmd.Flags().StringVar(&flagOutFile, "out", "", "write output to a file instead of stdout")
	rootCmd.AddCommand(foldCmd)
}

var foldCmd = &cobra.Command{
	Use:   "fold",
	Short: "Resolve the manifest for an environment and region",
	Long: `Merges the manifest's override layers for the target environment and
region and prints the folded configuration for every workload. With
--sources, each workload carries a _metadata mapping naming the layer that
contributed every value.`,
	Args: cobra.NoArgs,
	RunE: runFold,
}

func runFold(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	doc, manifestPath, err := loadManifest(cfg)
	if err != nil {
		return err
	}

	format, err := resolveOutput(cfg)
	if err != nil {
		return err
	}

	opts := fold.Options{
		Environment:    resolveEnv(cfg),
		Region:         resolveRegion(cfg),
		BaseDir:        resolveBaseDir(cfg, manifestPath),
		IncludeSources: flagSources || cfg.Sources,
	}

	folded, err := fold.Fold(doc, opts)
	if err != nil {
		return err
	}

	log.Debug().
		Str("manifest", manifestPath).
		Str("env", opts.Environment).
		Str("region", opts.Region).
		Int("workloads", doc.Workloads.Len()).
		Msg("folded manifest")

	rendered, err := render(folded, format)
	if err != nil {
		return err
	}

	if flagOutFile != "" {
		if err := os.WriteFile(flagOutFile, rendered, 0644); err != nil {
			return fmt.Errorf("writing output %s: %w", flagOutFile, err)
		}
		return nil
	}

	fmt.Print(string(rendered))
	return nil
}

// render serializes a folded document as YAML or indented JSON.
func render(folded *document.Object, format string) ([]byte, error) {
	if format == settings.OutputJSON {
		data, err := json.Marshal(folded)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}

	return yaml.Marshal(folded)
}
