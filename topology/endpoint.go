package topology

import (
	"strconv"
	"strings"

	"github.com/matgreaves/couchrig/connect"
)

// Re-export shared types from connect/ so callers declaring topologies never
// need to import connect/ directly.
type Protocol = connect.Protocol

const (
	TCP   = connect.TCP
	HTTP  = connect.HTTP
	HTTPS = connect.HTTPS
)

// Endpoint declares a network endpoint on a resource. Declared without a
// concrete address; the deployment environment assigns the host port.
type Endpoint struct {
	Name string

	// Scheme is the application-layer scheme (tcp, http, https).
	Scheme Protocol

	// Transport defaults to the scheme when empty.
	Transport string

	// TargetPort is the port the process listens on inside its container.
	// It is fixed by the wrapped component.
	TargetPort int

	// Port is the host port. Nil means "assign at deploy time".
	Port *int

	// External marks endpoints reachable from outside the deployment.
	External bool
}

// EndpointTCP returns a TCP endpoint declaration for targetPort.
func EndpointTCP(name string, targetPort int) Endpoint {
	return Endpoint{Name: name, Scheme: TCP, TargetPort: targetPort}
}

// EndpointHTTP returns an HTTP endpoint declaration for targetPort.
func EndpointHTTP(name string, targetPort int) Endpoint {
	return Endpoint{Name: name, Scheme: HTTP, Transport: "http", TargetPort: targetPort}
}

// WithPort returns a copy of e with the host port pinned.
func (e Endpoint) WithPort(port int) Endpoint {
	e.Port = &port
	return e
}

// EndpointProperty names a property of an endpoint that an expression can
// reference.
type EndpointProperty string

const (
	// PropertyHost is the assigned host in URL form: IPv6 literals are
	// bracketed so "{host}:{port}" composes a valid address.
	PropertyHost        EndpointProperty = "host"
	PropertyPort        EndpointProperty = "port"
	PropertyTargetPort  EndpointProperty = "targetPort"
	PropertyScheme      EndpointProperty = "scheme"
	PropertyHostAndPort EndpointProperty = "hostAndPort"
	PropertyURL         EndpointProperty = "url"
)

// EndpointReference is a symbolic address of an endpoint on a resource,
// identified by (resource name, endpoint name). It never holds a network
// connection; its values come from a Resolver at evaluation time.
type EndpointReference struct {
	owner *Container
	name  string
}

// Resource returns the name of the owning resource.
func (r EndpointReference) Resource() string {
	if r.owner == nil {
		return ""
	}
	return r.owner.name
}

// Name returns the endpoint name.
func (r EndpointReference) Name() string { return r.name }

// Key returns "<resource>/<endpoint>", the key used by StaticResolver and
// connect.Wiring.Endpoints.
func (r EndpointReference) Key() string {
	return r.Resource() + "/" + r.name
}

// Declaration returns the endpoint as currently declared on its resource.
func (r EndpointReference) Declaration() (Endpoint, bool) {
	if r.owner == nil {
		return Endpoint{}, false
	}
	return r.owner.Endpoint(r.name)
}

// Exists reports whether the owning resource declares the endpoint.
func (r EndpointReference) Exists() bool {
	_, ok := r.Declaration()
	return ok
}

// Property returns a reference to one property of the endpoint.
func (r EndpointReference) Property(p EndpointProperty) PropertyReference {
	return PropertyReference{Endpoint: r, Property: p}
}

// PropertyReference refers to a single property of an endpoint.
type PropertyReference struct {
	Endpoint EndpointReference
	Property EndpointProperty
}

// String returns the symbolic manifest placeholder, e.g.
// "{db.bindings.tcp.host}".
func (p PropertyReference) String() string {
	base := "{" + p.Endpoint.Resource() + ".bindings." + p.Endpoint.Name() + "."
	if p.Property == PropertyHostAndPort {
		return base + string(PropertyHost) + "}:" + base + string(PropertyPort) + "}"
	}
	return base + string(p.Property) + "}"
}

// Value resolves the property against r.
//
// Scheme and target port come from the declaration and never need the
// resolver. Host, port and the composite properties require the resolver to
// supply an assigned address.
func (p PropertyReference) Value(r Resolver) (string, error) {
	decl, ok := p.Endpoint.Declaration()
	if !ok {
		return "", p.unresolved("endpoint is not declared")
	}

	switch p.Property {
	case PropertyScheme:
		return string(decl.Scheme), nil
	case PropertyTargetPort:
		return strconv.Itoa(decl.TargetPort), nil
	}

	if r == nil {
		return "", p.unresolved("no resolver")
	}
	ep, ok := r.ResolveEndpoint(p.Endpoint)
	if !ok {
		return "", p.unresolved("no address assigned")
	}
	if ep.Host() == "" || ep.Port() == 0 {
		return "", p.unresolved("incomplete address " + strconv.Quote(ep.HostPort))
	}

	switch p.Property {
	case PropertyHost:
		if h := ep.Host(); strings.Contains(h, ":") {
			return "[" + h + "]", nil
		}
		return ep.Host(), nil
	case PropertyPort:
		return strconv.Itoa(ep.Port()), nil
	case PropertyHostAndPort:
		return ep.HostPort, nil
	case PropertyURL:
		return string(decl.Scheme) + "://" + ep.HostPort, nil
	}
	return "", p.unresolved("unknown property")
}

func (p PropertyReference) unresolved(reason string) error {
	return &UnresolvedEndpointError{
		Resource: p.Endpoint.Resource(),
		Endpoint: p.Endpoint.Name(),
		Property: p.Property,
		Reason:   reason,
	}
}
