// Package spec defines the JSON wire format of the container declaration
// output: the manifest a deployment collaborator reads to realize each
// declared resource.
package spec

// ContainerType is the resource type written for container-backed resources.
const ContainerType = "container.v0"

// Manifest is the top-level declaration output of an application topology.
type Manifest struct {
	// Name identifies the application.
	Name string `json:"name"`

	// Resources maps resource names to their declarations.
	Resources map[string]Resource `json:"resources"`
}

// Resource declares a single container-backed resource.
type Resource struct {
	// Type identifies how the resource is realized (e.g. "container.v0").
	Type string `json:"type"`

	// Image is the container image the resource runs.
	Image Image `json:"image"`

	// ConnectionString is the symbolic connection string expression for
	// resources that expose one, e.g.
	// "couchbases://{db.bindings.tcp.host}:{db.bindings.tcp.port}".
	ConnectionString string `json:"connectionString,omitempty"`

	// Bindings declares the endpoints the resource exposes, keyed by
	// endpoint name.
	Bindings map[string]Binding `json:"bindings,omitempty"`

	// Mounts lists volumes and bind mounts in declaration order.
	Mounts []Mount `json:"mounts,omitempty"`

	// ExcludeFromManifest marks resources that must not be advertised by
	// external manifest generation (e.g. local-only sidecars).
	ExcludeFromManifest bool `json:"excludeFromManifest,omitempty"`
}

// Image is a container image reference split into its parts.
type Image struct {
	Registry   string `json:"registry,omitempty"`
	Repository string `json:"repository"`
	Tag        string `json:"tag,omitempty"`
}

// Reference returns the full image reference, e.g.
// "docker.io/library/couchbase:7.6.1".
func (i Image) Reference() string {
	ref := i.Repository
	if i.Registry != "" {
		ref = i.Registry + "/" + ref
	}
	if i.Tag != "" {
		ref += ":" + i.Tag
	}
	return ref
}
