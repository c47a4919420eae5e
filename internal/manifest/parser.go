package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/workleap/wl-leap-deploy/internal/document"
)

// Load reads and parses a deployment manifest at the given path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	return doc, nil
}

// Parse decodes a YAML deployment manifest, preserving workload declaration
// order. Structural validation beyond what parsing requires is left to
// Validate.
func Parse(data []byte) (*Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}

	root, err := document.DecodeNode(&node)
	if err != nil {
		return nil, err
	}

	rootObj, ok := root.AsObject()
	if !ok {
		return nil, fmt.Errorf("manifest root must be a mapping")
	}

	doc := &Document{}

	if v, ok := rootObj.Get("version"); ok && !v.IsNull() {
		doc.Version = scalarString(v)
	}

	if v, ok := rootObj.Get("id"); ok && !v.IsNull() {
		doc.ID = scalarString(v)
	}

	if v, ok := rootObj.Get("defaults"); ok && !v.IsNull() {
		obj, isObj := v.AsObject()
		if !isObj {
			return nil, fmt.Errorf("defaults must be a mapping")
		}
		doc.Defaults = obj
	}

	if v, ok := rootObj.Get("workloads"); ok && !v.IsNull() {
		obj, isObj := v.AsObject()
		if !isObj {
			return nil, fmt.Errorf("workloads must be a mapping")
		}
		doc.Workloads = obj
	}

	return doc, nil
}

// scalarString renders a scalar value into its string form. YAML permits
// unquoted version numbers like 1.0, which parse as numbers.
func scalarString(v document.Value) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	if n, ok := v.AsNumber(); ok {
		return n.String()
	}
	if b, ok := v.AsBool(); ok {
		return fmt.Sprintf("%t", b)
	}
	return ""
}
