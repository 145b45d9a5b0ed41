package hosting

// Container images used by the Couchbase resources.
const (
	Registry = "docker.io"
	Image    = "library/couchbase"
	Tag      = "7.6.1"

	SyncGatewayRegistry = "docker.io"
	SyncGatewayImage    = "library/couchbase/sync-gateway"
	SyncGatewayTag      = "3.1.5-enterprise"
)
