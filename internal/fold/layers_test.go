package fold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workleap/wl-leap-deploy/internal/manifest"
)

func parseManifest(t *testing.T, src string) *manifest.Document {
	t.Helper()
	doc, err := manifest.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

const layeredManifest = `
id: billing
workloads:
  api:
    kind: service
    replicas: 3
    environments:
      prod:
        replicas: 5
        regions:
          na:
            note: stripped
    regions:
      na:
        replicas: 10
        environments:
          prod:
            replicas: 20
      eu:
        replicas: 7
`

func TestResolveLayers_WithRegion(t *testing.T) {
	doc := parseManifest(t, layeredManifest)

	layers, err := ResolveLayers(doc, "api", "prod", "na")
	require.NoError(t, err)
	require.Len(t, layers, 4)

	assert.Equal(t, "workloads.api", layers[0].Source)
	assert.Equal(t, "workloads.api.environments.prod", layers[1].Source)
	assert.Equal(t, "workloads.api.regions.na", layers[2].Source)
	assert.Equal(t, "workloads.api.regions.na.environments.prod", layers[3].Source)
}

func TestResolveLayers_WithoutRegion(t *testing.T) {
	doc := parseManifest(t, layeredManifest)

	layers, err := ResolveLayers(doc, "api", "prod", "")
	require.NoError(t, err)
	require.Len(t, layers, 2)

	assert.Equal(t, "workloads.api", layers[0].Source)
	assert.Equal(t, "workloads.api.environments.prod", layers[1].Source)
}

func TestResolveLayers_StripsRoutingKeys(t *testing.T) {
	doc := parseManifest(t, layeredManifest)

	layers, err := ResolveLayers(doc, "api", "prod", "na")
	require.NoError(t, err)

	base := layers[0].Values
	_, hasEnvs := base.Get("environments")
	_, hasRegions := base.Get("regions")
	assert.False(t, hasEnvs, "workload base layer must not carry environments")
	assert.False(t, hasRegions, "workload base layer must not carry regions")

	envLayer := layers[1].Values
	_, hasNestedRegions := envLayer.Get("regions")
	assert.False(t, hasNestedRegions, "environment layer must not carry nested regions")

	regionLayer := layers[2].Values
	_, hasNestedEnvs := regionLayer.Get("environments")
	assert.False(t, hasNestedEnvs, "region layer must not carry nested environments")
}

func TestResolveLayers_DoesNotMutateManifest(t *testing.T) {
	doc := parseManifest(t, layeredManifest)

	_, err := ResolveLayers(doc, "api", "prod", "na")
	require.NoError(t, err)

	body, _ := doc.Workloads.Get("api")
	bodyObj, _ := body.AsObject()
	_, stillHasEnvs := bodyObj.Get("environments")
	_, stillHasRegions := bodyObj.Get("regions")
	assert.True(t, stillHasEnvs, "resolving layers stripped environments from the manifest")
	assert.True(t, stillHasRegions, "resolving layers stripped regions from the manifest")
}

func TestResolveLayers_UndeclaredTargetsYieldEmptyOverlays(t *testing.T) {
	doc := parseManifest(t, layeredManifest)

	layers, err := ResolveLayers(doc, "api", "staging", "apac")
	require.NoError(t, err)
	require.Len(t, layers, 4)

	assert.Equal(t, 0, layers[1].Values.Len(), "undeclared environment should be empty")
	assert.Equal(t, 0, layers[2].Values.Len(), "undeclared region should be empty")
	assert.Equal(t, 0, layers[3].Values.Len(), "undeclared region environment should be empty")
}

func TestResolveLayers_UnknownWorkload(t *testing.T) {
	doc := parseManifest(t, layeredManifest)

	_, err := ResolveLayers(doc, "missing", "prod", "")
	require.ErrorIs(t, err, ErrUnknownWorkload)
	assert.Contains(t, err.Error(), "missing")
}

func TestResolveLayers_MalformedOverlays(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantPath string
	}{
		{
			name:     "scalar environments block",
			src:      "id: x\nworkloads:\n  api:\n    environments: prod\n",
			wantPath: "workloads.api.environments",
		},
		{
			name:     "scalar environment entry",
			src:      "id: x\nworkloads:\n  api:\n    environments:\n      prod: 5\n",
			wantPath: "workloads.api.environments.prod",
		},
		{
			name:     "scalar region entry",
			src:      "id: x\nworkloads:\n  api:\n    regions:\n      na: 5\n",
			wantPath: "workloads.api.regions.na",
		},
		{
			name:     "scalar region environments block",
			src:      "id: x\nworkloads:\n  api:\n    regions:\n      na:\n        environments: prod\n",
			wantPath: "workloads.api.regions.na.environments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseManifest(t, tt.src)

			_, err := ResolveLayers(doc, "api", "prod", "na")
			require.ErrorIs(t, err, ErrMalformedOverlay)
			assert.Contains(t, err.Error(), tt.wantPath)
		})
	}
}

func TestResolveLayers_NullEntriesAreEmpty(t *testing.T) {
	doc := parseManifest(t, "id: x\nworkloads:\n  api:\n    environments:\n      prod: null\n    regions: null\n")

	layers, err := ResolveLayers(doc, "api", "prod", "na")
	require.NoError(t, err)
	require.Len(t, layers, 4)

	for _, layer := range layers {
		assert.Equal(t, 0, layer.Values.Len(), "layer %s should be empty", layer.Source)
	}
}
