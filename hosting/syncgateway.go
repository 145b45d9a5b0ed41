package hosting

import "github.com/matgreaves/couchrig/topology"

const (
	// SyncGatewayEndpointName is the name of the Sync Gateway HTTP endpoint.
	SyncGatewayEndpointName = "http"

	// SyncGatewayContainerPort is the public REST port inside the Sync
	// Gateway container.
	SyncGatewayContainerPort = 4984

	syncGatewaySuffix = "-sync-gateway"
)

// SyncGatewayResource is a Couchbase Sync Gateway container. It is attached
// to a Couchbase server but registered as an independent peer resource;
// the link is the naming convention "{server}-sync-gateway".
type SyncGatewayResource struct {
	*topology.Container
}

// WithHostPort pins the host port of the Sync Gateway endpoint.
func (r *SyncGatewayResource) WithHostPort(port int) *SyncGatewayResource {
	r.SetHostPort(SyncGatewayEndpointName, port)
	return r
}

// WithImageTag overrides the Sync Gateway image tag.
func (r *SyncGatewayResource) WithImageTag(tag string) *SyncGatewayResource {
	img, _ := r.Image()
	r.SetImage(img.Repository, tag)
	return r
}

// HTTPEndpoint returns a reference to the Sync Gateway HTTP endpoint.
func (r *SyncGatewayResource) HTTPEndpoint() topology.EndpointReference {
	return r.GetEndpoint(SyncGatewayEndpointName)
}

// WithSyncGateway adds a Sync Gateway container next to the server. The
// container is named containerName if given, otherwise
// "{server}-sync-gateway". It is excluded from the published manifest.
// configure, if non-nil, is applied to the new Sync Gateway resource.
//
// WithSyncGateway returns the server unchanged: the sidecar is a separate
// resource in the application, reachable with app.Resource.
func (r *ServerResource) WithSyncGateway(configure func(*SyncGatewayResource), containerName ...string) *ServerResource {
	name := r.Name() + syncGatewaySuffix
	if len(containerName) > 0 && containerName[0] != "" {
		name = containerName[0]
	}

	gw := &SyncGatewayResource{Container: topology.NewContainer(name)}
	if app := r.App(); app != nil {
		gw = topology.Add(app, gw)
	}
	gw.SetImage(SyncGatewayImage, SyncGatewayTag)
	gw.SetImageRegistry(SyncGatewayRegistry)
	gw.AddEndpoint(topology.EndpointHTTP(SyncGatewayEndpointName, SyncGatewayContainerPort))
	gw.ExcludeFromManifest()

	if configure != nil {
		configure(gw)
	}
	return r
}
