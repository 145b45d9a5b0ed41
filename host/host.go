// Package host assembles the services of an application: configuration,
// an optional logger, tracing sources and a registry of lazily
// constructed singletons.
//
//	b := host.NewBuilder(cfg)
//	couchbase.AddClient(b, "db", nil, nil)
//	h := b.Build()
//	client, err := host.Resolve[*couchbase.Client](h)
package host

import (
	"github.com/go-logr/logr"

	"github.com/matgreaves/couchrig/config"
)

// Builder collects registrations before the host is built.
type Builder struct {
	Config    *config.Config
	Services  *Services
	Telemetry *Telemetry

	// Logger is optional. Use WithLogger to set it; a logger assigned
	// directly is only used when its sink is non-nil.
	Logger logr.Logger

	hasLogger bool
}

// NewBuilder returns a builder reading cfg. A nil cfg is treated as empty.
func NewBuilder(cfg *config.Config) *Builder {
	if cfg == nil {
		cfg, _ = config.New()
	}
	return &Builder{
		Config:    cfg,
		Services:  NewServices(),
		Telemetry: NewTelemetry(),
	}
}

// WithLogger sets the logger made available to services.
func (b *Builder) WithLogger(l logr.Logger) *Builder {
	b.Logger = l
	b.hasLogger = true
	return b
}

// Build returns the host. Registrations made on b after Build are still
// visible to the host.
func (b *Builder) Build() *Host {
	return &Host{
		config:    b.Config,
		services:  b.Services,
		telemetry: b.Telemetry,
		logger:    b.Logger,
		hasLogger: b.hasLogger || b.Logger.GetSink() != nil,
	}
}

// Host resolves services registered on a Builder.
type Host struct {
	config    *config.Config
	services  *Services
	telemetry *Telemetry
	logger    logr.Logger
	hasLogger bool
}

// Config returns the host configuration.
func (h *Host) Config() *config.Config { return h.config }

// Telemetry returns the tracing sources registered on the host.
func (h *Host) Telemetry() *Telemetry { return h.telemetry }

// Logger returns the host logger, if one was set. A discarding logger set
// through WithLogger still counts as set.
func (h *Host) Logger() (logr.Logger, bool) {
	return h.logger, h.hasLogger
}
