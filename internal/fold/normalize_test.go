package fold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workleap/wl-leap-deploy/internal/document"
)

func TestNormalize_ProjectSourceDefaulting(t *testing.T) {
	doc := obj("projectSource", obj("path", "/opt/app"))

	out := Normalize(doc, "/home/app")

	ps, _ := out.Get("projectSource")
	psObj, _ := ps.AsObject()

	typ, ok := psObj.Get("type")
	require.True(t, ok)
	assert.True(t, typ.Equal(document.String("auto")))
	assert.Equal(t, []string{"type", "path"}, psObj.Keys(), "type must be the first key")
}

func TestNormalize_ExistingTypeKept(t *testing.T) {
	doc := obj("projectSource", obj("path", "/opt/app", "type", "git"))

	out := Normalize(doc, "/home/app")

	typ, _ := document.LookupPath(out, "projectSource.type")
	assert.True(t, typ.Equal(document.String("git")))
}

func TestNormalize_RelativePathResolution(t *testing.T) {
	doc := obj("projectSource", obj("path", "src"))

	out := Normalize(doc, "/home/app")

	path, _ := document.LookupPath(out, "projectSource.path")
	assert.True(t, path.Equal(document.String("/home/app/src")))

	typ, _ := document.LookupPath(out, "projectSource.type")
	assert.True(t, typ.Equal(document.String("auto")))
}

func TestNormalize_AbsolutePathUntouched(t *testing.T) {
	doc := obj("projectSource", obj("path", "/srv/app"))

	out := Normalize(doc, "/home/app")

	path, _ := document.LookupPath(out, "projectSource.path")
	assert.True(t, path.Equal(document.String("/srv/app")))
}

func TestNormalize_AbsentProjectSourceBecomesNull(t *testing.T) {
	doc := obj("kind", "service")

	out := Normalize(doc, "/home/app")

	ps, ok := out.Get("projectSource")
	require.True(t, ok, "projectSource must always be present in folded output")
	assert.True(t, ps.IsNull())
}

func TestNormalize_ExplicitNullProjectSourceKept(t *testing.T) {
	doc := obj("projectSource", nil)

	out := Normalize(doc, "/home/app")

	ps, ok := out.Get("projectSource")
	require.True(t, ok)
	assert.True(t, ps.IsNull())
}

func TestNormalize_CanonicalFieldOrdering(t *testing.T) {
	doc := obj(
		"replicas", 3,
		"image", obj("tag", "1.0"),
		"annotations", obj(),
		"kind", "service",
	)

	out := Normalize(doc, "/home/app")

	assert.Equal(t,
		[]string{"kind", "image", "projectSource", "replicas", "annotations"},
		out.Keys(),
		"kind, image, projectSource lead; the rest keep their relative order")
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	ps := obj("path", "src")
	doc := obj("replicas", 3, "projectSource", ps)

	_ = Normalize(doc, "/home/app")

	_, hasType := ps.Get("type")
	assert.False(t, hasType, "input projectSource was mutated")

	path, _ := ps.Get("path")
	assert.True(t, path.Equal(document.String("src")), "input path was rewritten")
	assert.Equal(t, []string{"replicas", "projectSource"}, doc.Keys())
}

func TestNormalize_NonStringPathLeftAlone(t *testing.T) {
	doc := obj("projectSource", obj("path", 7))

	out := Normalize(doc, "/home/app")

	path, _ := document.LookupPath(out, "projectSource.path")
	assert.True(t, path.Equal(document.Number("7")))
}
