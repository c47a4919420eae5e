package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/workleap/wl-leap-deploy/internal/document"
	"github.com/workleap/wl-leap-deploy/internal/fold"
	"github.com/workleap/wl-leap-deploy/internal/manifest"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show which layer contributed every folded value",
	Long: `Folds the manifest for the target environment and region and prints,
for each workload, every value alongside the manifest layer it came from.
Useful for understanding why a workload ended up with a particular setting.`,
	Args: cobra.NoArgs,
	RunE: runSources,
}

func runSources(cmd *cobra.Command, args []string) error {
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

	opts := fold.Options{
		Environment: resolveEnv(cfg),
		Region:      resolveRegion(cfg),
		BaseDir:     resolveBaseDir(cfg, manifestPath),
	}

	if opts.Environment == "" {
		return fold.ErrMissingEnvironment
	}

	fmt.Printf("Environment: %s\n", opts.Environment)
	if opts.Region != "" {
		fmt.Printf("Region:      %s\n", opts.Region)
	}

	for _, name := range doc.Workloads.Keys() {
		folded, prov, err := fold.FoldWorkload(doc, name, opts)
		if err != nil {
			return fmt.Errorf("folding workload %q: %w", name, err)
		}

		fmt.Printf("\n%s:\n", name)

		paths := make([]string, 0, len(prov))
		for p := range prov {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		for _, p := range paths {
			fmt.Printf("  %s: %s ⟶ from: %s\n", p, renderValue(folded, p), prov[p])
		}
	}

	return nil
}

// renderValue resolves a dotted path against a folded workload and renders
// the value as compact JSON.
func renderValue(folded *document.Object, path string) string {
	v, ok := document.LookupPath(folded, path)
	if !ok {
		return "<absent>"
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "<unrenderable>"
	}
	return string(data)
}
