package manifest

import (
	"fmt"
	"regexp"

	"github.com/workleap/wl-leap-deploy/internal/document"
)

var versionPattern = regexp.MustCompile(`^1(\.[0-9]+){0,2}$`)

// Validate checks that a Document carries the fields folding requires and
// that its override blocks are structurally sound.
func Validate(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("manifest is nil")
	}

	if doc.ID == "" {
		return fmt.Errorf("missing required field %q", "id")
	}

	if doc.Workloads == nil {
		return fmt.Errorf("missing required field %q", "workloads")
	}

	if doc.Version != "" && !versionPattern.MatchString(doc.Version) {
		return fmt.Errorf("version %q does not match pattern %s", doc.Version, versionPattern)
	}

	for _, name := range doc.Workloads.Keys() {
		if err := validateWorkload(doc.Workloads, name); err != nil {
			return err
		}
	}

	return nil
}

func validateWorkload(workloads *document.Object, name string) error {
	body, _ := workloads.Get(name)

	bodyObj, ok := body.AsObject()
	if !ok {
		if body.IsNull() {
			return nil
		}
		return fmt.Errorf("workloads.%s is not a mapping", name)
	}

	path := "workloads." + name

	if err := validateOverrideBlock(bodyObj, KeyEnvironments, path); err != nil {
		return err
	}

	regions, err := overrideBlock(bodyObj, KeyRegions, path)
	if err != nil {
		return err
	}

	for _, region := range regions.Keys() {
		entry, _ := regions.Get(region)
		entryObj, isObj := entry.AsObject()
		if !isObj {
			if entry.IsNull() {
				continue
			}
			return fmt.Errorf("%s.regions.%s is not a mapping", path, region)
		}

		if err := validateOverrideBlock(entryObj, KeyEnvironments, fmt.Sprintf("%s.regions.%s", path, region)); err != nil {
			return err
		}
	}

	return nil
}

// validateOverrideBlock checks that an environments/regions block and each
// of its entries are mappings (or null, which folding treats as empty).
func validateOverrideBlock(body *document.Object, key, path string) error {
	block, err := overrideBlock(body, key, path)
	if err != nil {
		return err
	}

	for _, name := range block.Keys() {
		entry, _ := block.Get(name)
		if _, isObj := entry.AsObject(); !isObj && !entry.IsNull() {
			return fmt.Errorf("%s.%s.%s is not a mapping", path, key, name)
		}
	}

	return nil
}

// overrideBlock extracts an environments/regions block as an object.
// Absent or null blocks yield an empty object.
func overrideBlock(body *document.Object, key, path string) (*document.Object, error) {
	v, ok := body.Get(key)
	if !ok || v.IsNull() {
		return document.NewObject(), nil
	}

	obj, isObj := v.AsObject()
	if !isObj {
		return nil, fmt.Errorf("%s.%s is not a mapping", path, key)
	}

	return obj, nil
}
