package couchbase

import (
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/trace"
)

// Logger names used by clients, relative to the attached logger.
const (
	LogCategory           = "Couchbase"
	LogCategoryConnection = "Connection"
	LogCategoryInternal   = "Internal"
)

// TracingOptions configure span recording.
type TracingOptions struct {
	Enabled bool

	// Tracer records spans. Nil uses the global tracer for
	// TracingSourceName.
	Tracer trace.Tracer
}

// ClusterOptions configure how a client connects.
type ClusterOptions struct {
	ConnectionString string
	Tracing          TracingOptions

	// Logger is nil when no logger is available.
	Logger *logr.Logger

	// Connector opens the cluster connection. Without one the client never
	// connects.
	Connector Connector
}

// WithTracing sets the tracing options.
func (o *ClusterOptions) WithTracing(t TracingOptions) *ClusterOptions {
	o.Tracing = t
	return o
}

// WithConnector sets the connector.
func (o *ClusterOptions) WithConnector(c Connector) *ClusterOptions {
	o.Connector = c
	return o
}
