// Package fold resolves layered deployment manifests into one final
// configuration per workload for a given environment and region, merging
// overlays in increasing specificity while tracking which layer contributed
// every value.
package fold

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/workleap/wl-leap-deploy/internal/document"
	"github.com/workleap/wl-leap-deploy/internal/manifest"
)

const defaultMaxConcurrency = 8

// MetadataKey is the reserved key under which per-workload provenance is
// injected when source tracking is requested. Manifest schemas must not
// declare it as a configuration field.
const MetadataKey = "_metadata"

// Options control a fold.
type Options struct {
	// Environment is the target environment. Required.
	Environment string

	// Region is the target region. When empty, the region and
	// region+environment layers are skipped entirely.
	Region string

	// BaseDir is the directory relative projectSource paths are resolved
	// against.
	BaseDir string

	// IncludeSources injects each workload's provenance under MetadataKey.
	IncludeSources bool

	// MaxConcurrency bounds the number of workloads folded in parallel.
	// Values less than 1 use a default.
	MaxConcurrency int
}

// Fold resolves every workload in the manifest for one (environment, region)
// target and assembles the folded output: version (when the manifest has
// one), id, then workloads in declaration order.
//
// Workload folds are independent and run concurrently; results are slotted
// by declaration index, so output is deterministic. Any error aborts the
// whole fold — there are no partial results.
func Fold(doc *manifest.Document, opts Options) (*document.Object, error) {
	if err := manifest.Validate(doc); err != nil {
		return nil, err
	}

	if opts.Environment == "" {
		return nil, ErrMissingEnvironment
	}

	limit := opts.MaxConcurrency
	if limit < 1 {
		limit = defaultMaxConcurrency
	}

	names := doc.Workloads.Keys()
	folded := make([]*document.Object, len(names))

	g := new(errgroup.Group)
	g.SetLimit(limit)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			w, prov, err := FoldWorkload(doc, name, opts)
			if err != nil {
				return fmt.Errorf("folding workload %q: %w", name, err)
			}

			if opts.IncludeSources {
				w.Set(MetadataKey, document.Obj(provenanceObject(prov)))
			}

			folded[i] = w
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	workloads := document.NewObject()
	for i, name := range names {
		workloads.Set(name, document.Obj(folded[i]))
	}

	out := document.NewObject()
	if doc.Version != "" {
		out.Set("version", document.String(doc.Version))
	}
	out.Set("id", document.String(doc.ID))
	out.Set("workloads", document.Obj(workloads))

	return out, nil
}

// FoldWorkload folds a single workload: defaults seed the accumulator, the
// resolved layers are merged in order, and the result is normalized.
func FoldWorkload(doc *manifest.Document, name string, opts Options) (*document.Object, Provenance, error) {
	layers, err := ResolveLayers(doc, name, opts.Environment, opts.Region)
	if err != nil {
		return nil, nil, err
	}

	current := doc.Defaults.Clone()
	prov := Provenance{}

	for _, layer := range layers {
		current, prov = MergeOverlay(current, layer, prov)
	}

	return Normalize(current, opts.BaseDir), prov, nil
}

// provenanceObject renders a provenance map as an object with
// alphabetically ordered paths, so serialized metadata is stable.
func provenanceObject(prov Provenance) *document.Object {
	paths := make([]string, 0, len(prov))
	for p := range prov {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := document.NewObject()
	for _, p := range paths {
		out.Set(p, document.String(prov[p]))
	}
	return out
}
