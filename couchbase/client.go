package couchbase

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matgreaves/couchrig/internal/observability"
)

// Client is a handle to a Couchbase cluster. It connects lazily, on the
// first operation that needs the cluster, and only when its options carry
// a Connector.
type Client struct {
	opts   ClusterOptions
	tracer trace.Tracer
	log    logr.Logger

	mu      sync.Mutex
	cluster Cluster
}

// NewClient returns a client for opts.
func NewClient(opts ClusterOptions) *Client {
	c := &Client{opts: opts, log: logr.Discard()}
	if opts.Tracing.Enabled {
		c.tracer = opts.Tracing.Tracer
		if c.tracer == nil {
			c.tracer = otel.Tracer(TracingSourceName)
		}
	}
	if opts.Logger != nil {
		c.log = *opts.Logger
	}
	return c
}

// ClusterOptions returns the options the client was created with.
func (c *Client) ClusterOptions() ClusterOptions { return c.opts }

// Cluster returns the live cluster, or nil if the client has not connected.
func (c *Client) Cluster() Cluster {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cluster
}

// Connect opens the cluster connection if it is not open yet. It returns a
// nil Cluster without error when the client has no Connector.
func (c *Client) Connect(ctx context.Context) (Cluster, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cluster != nil || c.opts.Connector == nil {
		return c.cluster, nil
	}
	log := c.log.WithName(LogCategoryConnection)
	log.V(1).Info("connecting")
	cluster, err := c.opts.Connector.Connect(ctx, c.opts)
	if err != nil {
		log.Error(err, "connect failed")
		return nil, fmt.Errorf("couchbase: connect: %w", err)
	}
	c.cluster = cluster
	log.V(1).Info("connected")
	return cluster, nil
}

// ListBuckets returns the buckets on the cluster keyed by name. It returns
// nil without error when there is no cluster to ask. ctx is passed through
// to the cluster; failures are returned as is, without retry.
func (c *Client) ListBuckets(ctx context.Context) (_ map[string]BucketSettings, err error) {
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "ListBuckets", trace.WithSpanKind(trace.SpanKindClient))
		defer func() {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			span.End()
		}()
	}

	cluster, err := c.Connect(ctx)
	if err != nil || cluster == nil {
		return nil, err
	}
	buckets, err := cluster.Buckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("couchbase: list buckets: %w", err)
	}
	if c.tracer != nil {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("couchbase.buckets", len(buckets)))
	}
	observability.LoggerWithTraceContext(ctx, c.log).V(1).Info("listed buckets", "count", len(buckets))
	return buckets, nil
}

// Close closes the cluster connection, if open.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cluster == nil {
		return nil
	}
	err := c.cluster.Close(ctx)
	c.cluster = nil
	return err
}
