package fold

import (
	"strings"

	"github.com/workleap/wl-leap-deploy/internal/document"
)

// Provenance maps dotted leaf paths in a folded document to the source path
// of the overlay that contributed the value currently stored there. Values
// seeded from the manifest defaults carry no entry.
type Provenance map[string]string

// Clone returns a copy of the provenance map. Cloning nil returns an empty
// map.
func (p Provenance) Clone() Provenance {
	out := make(Provenance, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// MergeOverlay folds one overlay into the accumulated document, returning a
// new document and updated provenance. Neither input is mutated.
//
// Mappings merge recursively, key by key. Any other overlay value — scalar,
// array, or a mapping landing on a non-mapping — replaces the accumulated
// value wholesale; arrays are never merged element-wise. An overlay leaf
// that is explicitly null contributes nothing: the accumulated value and its
// provenance stay as they were.
func MergeOverlay(current *document.Object, overlay Overlay, prov Provenance) (*document.Object, Provenance) {
	merged := current.Clone()
	out := prov.Clone()
	mergeObject(merged, overlay.Values, overlay.Source, "", out)
	return merged, out
}

// mergeObject reports whether it recorded any provenance, so callers can
// attribute a replacing mapping that contributed no leaves of its own.
func mergeObject(dst, overlay *document.Object, source, path string, prov Provenance) bool {
	contributed := false

	for _, key := range overlay.Keys() {
		ov, _ := overlay.Get(key)
		leafPath := document.JoinPath(path, key)

		if ov.IsNull() {
			continue
		}

		if nested, isObj := ov.AsObject(); isObj {
			cur, exists := dst.Get(key)
			target, curIsObj := cur.AsObject()

			replaced := !exists || !curIsObj || target == nil
			if replaced {
				// A mapping landing on a scalar, array, or absent key starts
				// from empty rather than merging with the old value.
				prune(prov, leafPath)
				target = document.NewObject()
				dst.Set(key, document.Obj(target))
			}

			if mergeObject(target, nested, source, leafPath, prov) {
				// Leaf entries now describe the subtree; drop any whole-value
				// attribution left from an earlier empty replacement.
				delete(prov, leafPath)
				contributed = true
			} else if replaced {
				// An empty replacing mapping still came from this layer.
				prov[leafPath] = source
				contributed = true
			}
			continue
		}

		prune(prov, leafPath)
		dst.Set(key, ov.Clone())
		prov[leafPath] = source
		contributed = true
	}

	return contributed
}

// prune drops provenance entries at a path and underneath it, so metadata
// only ever describes values present in the accumulated document.
func prune(prov Provenance, path string) {
	delete(prov, path)

	prefix := path + "."
	for k := range prov {
		if strings.HasPrefix(k, prefix) {
			delete(prov, k)
		}
	}
}
