package couchbase

import "context"

// BucketSettings describes a bucket on the cluster.
type BucketSettings struct {
	Name        string `json:"name" yaml:"name"`
	BucketType  string `json:"bucketType" yaml:"bucketType"`
	RAMQuotaMB  uint64 `json:"ramQuotaMB" yaml:"ramQuotaMB"`
	NumReplicas uint32 `json:"numReplicas" yaml:"numReplicas"`
}

// Cluster is a live connection to a Couchbase cluster.
type Cluster interface {
	// Buckets returns every bucket keyed by name.
	Buckets(ctx context.Context) (map[string]BucketSettings, error)
	Close(ctx context.Context) error
}

// Connector opens a cluster connection from options.
type Connector interface {
	Connect(ctx context.Context, opts ClusterOptions) (Cluster, error)
}

// ConnectorFunc adapts a function to the Connector interface.
type ConnectorFunc func(ctx context.Context, opts ClusterOptions) (Cluster, error)

// Connect calls f(ctx, opts).
func (f ConnectorFunc) Connect(ctx context.Context, opts ClusterOptions) (Cluster, error) {
	return f(ctx, opts)
}
