package fold

import (
	"errors"
	"fmt"

	"github.com/workleap/wl-leap-deploy/internal/document"
	"github.com/workleap/wl-leap-deploy/internal/manifest"
)

// Sentinel errors for matching with errors.Is.
var (
	// ErrUnknownWorkload indicates a requested workload is not declared in
	// the manifest.
	ErrUnknownWorkload = errors.New("unknown workload")

	// ErrMalformedOverlay indicates an environments or regions entry is not
	// a mapping.
	ErrMalformedOverlay = errors.New("malformed overlay")

	// ErrMissingEnvironment indicates a fold was requested without a target
	// environment.
	ErrMissingEnvironment = errors.New("environment is required")
)

// Overlay is one precedence layer for a workload: the values it contributes
// and the dotted path identifying where in the manifest it came from.
type Overlay struct {
	Source string
	Values *document.Object
}

// ResolveLayers computes the ordered overlays to fold for one workload, in
// increasing specificity: workload base, environment, then (when a region is
// given) region and region+environment. Environments and regions a workload
// does not declare resolve to empty overlays; when region is empty the two
// region layers are omitted entirely.
//
// The manifest defaults are not an overlay: they seed the accumulator before
// the first layer and carry no source attribution.
func ResolveLayers(doc *manifest.Document, workload, environment, region string) ([]Overlay, error) {
	body, ok := doc.Workloads.Get(workload)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorkload, workload)
	}

	bodyObj, isObj := body.AsObject()
	if !isObj {
		if !body.IsNull() {
			return nil, fmt.Errorf("%w: workloads.%s is not a mapping", ErrMalformedOverlay, workload)
		}
		bodyObj = document.NewObject()
	}

	basePath := "workloads." + workload

	base := bodyObj.Clone()
	base.Delete(manifest.KeyEnvironments)
	base.Delete(manifest.KeyRegions)

	environments, err := section(bodyObj, manifest.KeyEnvironments, basePath)
	if err != nil {
		return nil, err
	}

	envPath := fmt.Sprintf("%s.environments.%s", basePath, environment)
	envOverlay, err := section(environments, environment, basePath+".environments")
	if err != nil {
		return nil, err
	}
	envOverlay = envOverlay.Clone()
	envOverlay.Delete(manifest.KeyRegions)

	layers := []Overlay{
		{Source: basePath, Values: base},
		{Source: envPath, Values: envOverlay},
	}

	if region == "" {
		return layers, nil
	}

	regions, err := section(bodyObj, manifest.KeyRegions, basePath)
	if err != nil {
		return nil, err
	}

	regionPath := fmt.Sprintf("%s.regions.%s", basePath, region)
	regionBody, err := section(regions, region, basePath+".regions")
	if err != nil {
		return nil, err
	}

	regionOverlay := regionBody.Clone()
	regionOverlay.Delete(manifest.KeyEnvironments)

	regionEnvs, err := section(regionBody, manifest.KeyEnvironments, regionPath)
	if err != nil {
		return nil, err
	}

	regionEnvOverlay, err := section(regionEnvs, environment, regionPath+".environments")
	if err != nil {
		return nil, err
	}

	layers = append(layers,
		Overlay{Source: regionPath, Values: regionOverlay},
		Overlay{Source: fmt.Sprintf("%s.environments.%s", regionPath, environment), Values: regionEnvOverlay},
	)

	return layers, nil
}

// section extracts a named sub-mapping. Absent or null entries yield an
// empty object; any other non-mapping value is a malformed overlay.
func section(parent *document.Object, key, parentPath string) (*document.Object, error) {
	v, ok := parent.Get(key)
	if !ok || v.IsNull() {
		return document.NewObject(), nil
	}

	obj, isObj := v.AsObject()
	if !isObj {
		return nil, fmt.Errorf("%w: %s.%s is not a mapping", ErrMalformedOverlay, parentPath, key)
	}

	return obj, nil
}
