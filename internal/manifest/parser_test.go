package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleManifest = `
version: "1.0"
id: billing
defaults:
  replicas: 1
workloads:
  api:
    kind: service
    replicas: 3
    environments:
      prod:
        replicas: 5
  worker:
    kind: job
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Version != "1.0" {
		t.Errorf("Version = %q, want %q", doc.Version, "1.0")
	}
	if doc.ID != "billing" {
		t.Errorf("ID = %q, want %q", doc.ID, "billing")
	}
	if doc.Defaults == nil || doc.Defaults.Len() != 1 {
		t.Errorf("Defaults = %v, want one key", doc.Defaults)
	}

	want := []string{"api", "worker"}
	if !reflect.DeepEqual(doc.Workloads.Keys(), want) {
		t.Errorf("Workloads.Keys() = %v, want %v", doc.Workloads.Keys(), want)
	}
}

func TestParse_UnquotedVersion(t *testing.T) {
	doc, err := Parse([]byte("version: 1.0\nid: x\nworkloads:\n  api:\n    kind: service\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Version != "1.0" {
		t.Errorf("Version = %q, want %q", doc.Version, "1.0")
	}
}

func TestParse_OptionalFieldsAbsent(t *testing.T) {
	doc, err := Parse([]byte("id: x\nworkloads:\n  api:\n    kind: service\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Version != "" {
		t.Errorf("Version = %q, want empty", doc.Version)
	}
	if doc.Defaults != nil {
		t.Errorf("Defaults = %v, want nil", doc.Defaults)
	}
}

func TestParse_NonMappingRoot(t *testing.T) {
	if _, err := Parse([]byte("- a\n- b\n")); err == nil {
		t.Fatal("Parse() expected error for non-mapping root")
	}
}

func TestParse_NonMappingWorkloads(t *testing.T) {
	if _, err := Parse([]byte("id: x\nworkloads: 3\n")); err == nil {
		t.Fatal("Parse() expected error for scalar workloads")
	}
}

func TestParse_NonMappingDefaults(t *testing.T) {
	if _, err := Parse([]byte("id: x\ndefaults: [a]\nworkloads: {}\n")); err == nil {
		t.Fatal("Parse() expected error for non-mapping defaults")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deploy.yaml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0644); err != nil {
		t.Fatalf("writing test manifest: %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if doc.ID != "billing" {
		t.Errorf("ID = %q, want %q", doc.ID, "billing")
	}
}

func TestLoad_NotFound(t *testing.T) {
	if _, err := Load("nonexistent/deploy.yaml"); err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deploy.yaml")
	if err := os.WriteFile(path, []byte("id: [unclosed\n"), 0644); err != nil {
		t.Fatalf("writing test manifest: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected error for invalid YAML")
	}
}
