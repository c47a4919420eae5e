package manifest

import "github.com/workleap/wl-leap-deploy/internal/document"

// Keys with routing or structural meaning inside a deployment manifest.
const (
	KeyEnvironments = "environments"
	KeyRegions      = "regions"
)

// Document is a parsed deployment manifest. Workload bodies are kept as
// loosely typed document trees: the folding engine merges them structurally
// rather than through a fixed schema.
type Document struct {
	// Version is the manifest schema version, empty when absent.
	Version string

	// ID identifies the deployment this manifest describes.
	ID string

	// Defaults is applied to every workload before its own layers, nil when
	// absent.
	Defaults *document.Object

	// Workloads maps workload names to their bodies in declaration order.
	Workloads *document.Object
}
