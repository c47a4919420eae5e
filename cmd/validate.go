package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/workleap/wl-leap-deploy/internal/manifest"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the deployment manifest",
	Long: `Checks the manifest for structural validity: required fields, the
version pattern, and that every environments/regions override block is a
mapping. Full schema validation is left to the schema tooling; this covers
the preconditions folding itself relies on.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	doc, manifestPath, err := loadManifest(cfg)
	if err != nil {
		return err
	}

	if err := manifest.Validate(doc); err != nil {
		return fmt.Errorf("%s: %w", manifestPath, err)
	}

	log.Debug().Str("manifest", manifestPath).Msg("manifest valid")
	fmt.Printf("%s: valid (%d workloads)\n", manifestPath, doc.Workloads.Len())

	return nil
}
