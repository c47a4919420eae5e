package fold

import (
	"strings"

	"github.com/workleap/wl-leap-deploy/internal/document"
)

const keyProjectSource = "projectSource"

// canonicalOrder lists the fields that lead a folded workload document, in
// the order consumers doing textual diffs expect.
var canonicalOrder = []string{"kind", "image", keyProjectSource}

// Normalize applies the fixed post-merge rules to a fully folded workload
// document and returns a new document:
//
//   - a projectSource without a type gets type "auto", placed first;
//   - a relative projectSource.path is resolved against baseDir;
//   - an absent projectSource becomes an explicit null;
//   - kind, image and projectSource lead the top-level key order, all other
//     fields keep their relative order.
//
// The input is not mutated.
func Normalize(doc *document.Object, baseDir string) *document.Object {
	out := doc.Clone()

	if ps, ok := out.Get(keyProjectSource); !ok {
		out.Set(keyProjectSource, document.Null())
	} else if psObj, isObj := ps.AsObject(); isObj {
		normalizeProjectSource(psObj, baseDir)
	}

	return reorder(out)
}

func normalizeProjectSource(ps *document.Object, baseDir string) {
	if _, ok := ps.Get("type"); !ok {
		ps.SetFront("type", document.String("auto"))
	}

	pathVal, ok := ps.Get("path")
	if !ok {
		return
	}

	path, isStr := pathVal.AsString()
	if !isStr || strings.HasPrefix(path, "/") {
		return
	}

	ps.Set("path", document.String(baseDir+"/"+path))
}

// reorder rebuilds a document so the canonical fields come first; the
// remaining keys keep their existing relative order.
func reorder(doc *document.Object) *document.Object {
	out := document.NewObject()

	for _, key := range canonicalOrder {
		if v, ok := doc.Get(key); ok {
			out.Set(key, v)
		}
	}

	for _, key := range doc.Keys() {
		if _, ok := out.Get(key); ok {
			continue
		}
		v, _ := doc.Get(key)
		out.Set(key, v)
	}

	return out
}
