// Package hosting declares Couchbase resources in an application topology:
// the Couchbase server container and its Sync Gateway sidecar.
//
//	app := topology.New("shop")
//	db := hosting.AddCouchbase(app, "db").
//	    WithDataVolume("").
//	    WithSyncGateway(func(gw *hosting.SyncGatewayResource) { gw.WithHostPort(4984) })
package hosting

import "github.com/matgreaves/couchrig/topology"

const (
	// PrimaryEndpointName is the name of the Couchbase server endpoint.
	PrimaryEndpointName = "tcp"

	// DefaultContainerPort is the port Couchbase listens on inside its
	// container. It is fixed by the image.
	DefaultContainerPort = 8091

	// ConnectionScheme is the scheme of the connection string.
	ConnectionScheme = "couchbases"

	dataPath = "/data/db"
	initPath = "/docker-entrypoint-initdb.d"
)

// ServerResource is a Couchbase server container.
type ServerResource struct {
	*topology.Container
}

// AddCouchbase adds a Couchbase server resource named name to app. The name
// is also the connection name applications use to look up its connection
// string. An optional port pins the host port; otherwise the deployment
// environment assigns one.
//
//	hosting.AddCouchbase(app, "db")        // host port assigned at deploy time
//	hosting.AddCouchbase(app, "db", 18091) // host port pinned
func AddCouchbase(app *topology.Application, name string, port ...int) *ServerResource {
	r := topology.Add(app, &ServerResource{Container: topology.NewContainer(name)})

	ep := topology.EndpointTCP(PrimaryEndpointName, DefaultContainerPort)
	if len(port) > 0 {
		ep = ep.WithPort(port[0])
	}
	r.AddEndpoint(ep)
	r.SetImage(Image, Tag)
	r.SetImageRegistry(Registry)
	return r
}

// PrimaryEndpoint returns a reference to the Couchbase server endpoint.
func (r *ServerResource) PrimaryEndpoint() topology.EndpointReference {
	return r.GetEndpoint(PrimaryEndpointName)
}

// ConnectionStringExpression returns
// "couchbases://{host}:{port}" over the primary endpoint, unevaluated.
func (r *ServerResource) ConnectionStringExpression() *topology.Expression {
	ep := r.PrimaryEndpoint()
	return topology.Expr(
		ConnectionScheme+"://",
		ep.Property(topology.PropertyHost),
		":",
		ep.Property(topology.PropertyPort),
	)
}

// WithHostPort pins the host port of the primary endpoint.
func (r *ServerResource) WithHostPort(port int) *ServerResource {
	r.SetHostPort(PrimaryEndpointName, port)
	return r
}

// WithDataVolume adds a named volume for the data folder. An empty name
// generates a deterministic one from the application and resource names.
// The volume is writable unless readOnly is true.
func (r *ServerResource) WithDataVolume(name string, readOnly ...bool) *ServerResource {
	if name == "" && r.App() != nil {
		name = topology.VolumeName(r.App().Name(), r.Name(), "data")
	}
	r.AddVolume(name, dataPath, optional(readOnly, false))
	return r
}

// WithDataBindMount bind-mounts the host directory source as the data
// folder. The mount is writable unless readOnly is true.
func (r *ServerResource) WithDataBindMount(source string, readOnly ...bool) *ServerResource {
	r.AddBindMount(source, dataPath, optional(readOnly, false))
	return r
}

// WithInitBindMount bind-mounts the host directory source as the init
// folder. The mount is read-only unless readOnly is false.
func (r *ServerResource) WithInitBindMount(source string, readOnly ...bool) *ServerResource {
	r.AddBindMount(source, initPath, optional(readOnly, true))
	return r
}

func optional(v []bool, def bool) bool {
	if len(v) > 0 {
		return v[0]
	}
	return def
}
