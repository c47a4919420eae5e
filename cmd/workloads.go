package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/workleap/wl-leap-deploy/internal/document"
	"github.com/workleap/wl-leap-deploy/internal/manifest"
)

func init() {
	rootCmd.AddCommand(workloadsCmd)
}

var workloadsCmd = &cobra.Command{
	Use:   "workloads",
	Short: "List workloads and their declared override layers",
	Long: `Shows every workload in the manifest along with the environments and
regions it declares overrides for, without folding anything. Useful for
seeing which targets a manifest actually distinguishes.`,
	Args: cobra.NoArgs,
	RunE: runWorkloads,
}

func runWorkloads(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("Manifest: %s (id: %s)\n\n", manifestPath, doc.ID)

	for _, name := range doc.Workloads.Keys() {
		body, _ := doc.Workloads.Get(name)
		bodyObj, _ := body.AsObject()

		fmt.Printf("%s\n", name)

		if envs := blockKeys(bodyObj, manifest.KeyEnvironments); len(envs) > 0 {
			fmt.Printf("  environments: %s\n", strings.Join(envs, ", "))
		}

		regions, _ := bodyObj.Get(manifest.KeyRegions)
		regionsObj, ok := regions.AsObject()
		if !ok {
			continue
		}

		for _, region := range regionsObj.Keys() {
			entry, _ := regionsObj.Get(region)
			entryObj, _ := entry.AsObject()

			line := "  region " + region
			if envs := blockKeys(entryObj, manifest.KeyEnvironments); len(envs) > 0 {
				line += " (environments: " + strings.Join(envs, ", ") + ")"
			}
			fmt.Println(line)
		}
	}

	return nil
}

// blockKeys returns the keys of a nested override block, or nil when the
// block is absent or not a mapping.
func blockKeys(body *document.Object, key string) []string {
	v, ok := body.Get(key)
	if !ok {
		return nil
	}

	obj, ok := v.AsObject()
	if !ok {
		return nil
	}

	return obj.Keys()
}
