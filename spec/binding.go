package spec

// Protocol identifies the scheme a binding speaks.
type Protocol string

const (
	TCP   Protocol = "tcp"
	HTTP  Protocol = "http"
	HTTPS Protocol = "https"
)

// Valid reports whether p is a recognised protocol.
func (p Protocol) Valid() bool {
	switch p {
	case TCP, HTTP, HTTPS:
		return true
	}
	return false
}

// Binding declares an endpoint without a concrete address. The deployment
// environment assigns the host port at publish time.
type Binding struct {
	// Scheme is the application-layer scheme (tcp, http, https).
	Scheme Protocol `json:"scheme"`

	// Transport is the transport protocol (tcp, http).
	Transport string `json:"transport,omitempty"`

	// TargetPort is the fixed port inside the container. It is set by the
	// wrapped component and never overridden.
	TargetPort int `json:"targetPort"`

	// Port is the host port. Nil until the deployment environment assigns
	// one, unless the declaration pinned it.
	Port *int `json:"port"`

	// External marks bindings reachable from outside the deployment.
	External bool `json:"external,omitempty"`
}

// MountType distinguishes named volumes from host bind mounts.
type MountType string

const (
	MountVolume MountType = "volume"
	MountBind   MountType = "bind"
)

// Mount declares a volume or bind mount.
type Mount struct {
	Type MountType `json:"type"`

	// Source is the volume name or the host path for bind mounts.
	Source string `json:"source"`

	// Target is the path inside the container.
	Target string `json:"target"`

	ReadOnly bool `json:"readOnly,omitempty"`
}
