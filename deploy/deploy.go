// Package deploy publishes a declared topology: it assigns host ports to
// endpoints left for the deployment environment, evaluates connection
// strings and describes the containers to run.
//
// Starting the containers is left to the caller.
package deploy

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/matgreaves/run"

	"github.com/matgreaves/couchrig/connect"
	"github.com/matgreaves/couchrig/topology"
)

// DefaultHost is the address published endpoints are reachable at.
const DefaultHost = "127.0.0.1"

// Orchestrator publishes topologies. It is safe for concurrent use.
type Orchestrator struct {
	ports *PortAllocator
	host  string
	log   logr.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithHost sets the address published endpoints are reachable at.
func WithHost(host string) Option {
	return func(o *Orchestrator) { o.host = host }
}

// WithLogger sets the orchestrator logger.
func WithLogger(l logr.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithPortAllocator shares a port allocator between orchestrators.
func WithPortAllocator(p *PortAllocator) Option {
	return func(o *Orchestrator) { o.ports = p }
}

// NewOrchestrator returns an orchestrator.
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		ports: NewPortAllocator(),
		host:  DefaultHost,
		log:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Ports returns the orchestrator's port allocator.
func (o *Orchestrator) Ports() *PortAllocator { return o.ports }

// Publish validates app, assigns a host port to every endpoint without a
// pinned one and evaluates the connection string of every resource that
// has one. The returned Deployment holds the ports until Release.
func (o *Orchestrator) Publish(ctx context.Context, app *topology.Application) (*Deployment, error) {
	d := &Deployment{
		ID:                uuid.NewString(),
		app:               app,
		host:              o.host,
		endpoints:         make(map[string]connect.Endpoint),
		connectionStrings: make(map[string]string),
		ports:             o.ports,
	}
	log := o.log.WithValues("application", app.Name(), "deployment", d.ID)

	// failed keeps the step error free of run.Sequence's prefixes.
	var failed error
	step := func(f func() error) run.Runner {
		return run.Func(func(context.Context) error {
			if err := f(); err != nil {
				failed = err
				return err
			}
			return nil
		})
	}

	steps := run.Sequence{
		step(func() error {
			log.V(1).Info("validating topology")
			return app.Err()
		}),
		step(func() error { return d.assignPorts(log) }),
		step(func() error { return d.evaluateConnectionStrings(log) }),
	}
	if err := steps.Run(ctx); err != nil {
		d.Release()
		if failed != nil {
			err = failed
		}
		return nil, fmt.Errorf("publish %q: %w", app.Name(), err)
	}
	log.Info("published", "resources", len(app.Resources()), "endpoints", len(d.endpoints))
	return d, nil
}

// Deployment is a published topology. It resolves endpoint references to
// their assigned addresses and is safe for concurrent reads.
type Deployment struct {
	ID string

	app               *topology.Application
	host              string
	endpoints         map[string]connect.Endpoint // keyed by EndpointReference.Key
	connectionStrings map[string]string           // keyed by resource name
	ports             *PortAllocator
	releaseOnce       sync.Once
}

type containerResource interface {
	topology.Resource
	Image() (topology.Image, bool)
	Endpoints() []topology.Endpoint
	Mounts() []topology.Mount
	Excluded() bool
}

func (d *Deployment) assignPorts(log logr.Logger) error {
	type pending struct {
		key    string
		scheme topology.Protocol
	}
	var waiting []pending

	for _, r := range d.app.Resources() {
		cr, ok := r.(containerResource)
		if !ok {
			continue
		}
		for _, ep := range cr.Endpoints() {
			key := r.Name() + "/" + ep.Name
			if ep.Port != nil {
				d.endpoints[key] = connect.NewEndpoint(d.host, *ep.Port, ep.Scheme)
				continue
			}
			waiting = append(waiting, pending{key: key, scheme: ep.Scheme})
		}
	}

	ports, err := d.ports.Allocate(d.ID, len(waiting))
	if err != nil {
		return err
	}
	for i, p := range waiting {
		d.endpoints[p.key] = connect.NewEndpoint(d.host, ports[i], p.scheme)
		log.V(1).Info("assigned port", "endpoint", p.key, "port", ports[i])
	}
	return nil
}

func (d *Deployment) evaluateConnectionStrings(log logr.Logger) error {
	for _, r := range d.app.Resources() {
		cr, ok := r.(topology.ResourceWithConnectionString)
		if !ok {
			continue
		}
		cs, err := cr.ConnectionStringExpression().Evaluate(d)
		if err != nil {
			return err
		}
		d.connectionStrings[r.Name()] = cs
		log.V(1).Info("evaluated connection string", "resource", r.Name())
	}
	return nil
}

// ResolveEndpoint implements topology.Resolver.
func (d *Deployment) ResolveEndpoint(ref topology.EndpointReference) (connect.Endpoint, bool) {
	ep, ok := d.endpoints[ref.Key()]
	return ep, ok
}

// ConnectionString returns the evaluated connection string of the named
// resource.
func (d *Deployment) ConnectionString(name string) (string, bool) {
	cs, ok := d.connectionStrings[name]
	return cs, ok
}

// Wiring returns the values handed to applications consuming the
// deployment.
func (d *Deployment) Wiring() *connect.Wiring {
	w := &connect.Wiring{
		ConnectionStrings: make(map[string]string, len(d.connectionStrings)),
		Endpoints:         make(map[string]connect.Endpoint, len(d.endpoints)),
	}
	for k, v := range d.connectionStrings {
		w.ConnectionStrings[k] = v
	}
	for k, v := range d.endpoints {
		w.Endpoints[k] = v
	}
	return w
}

// Env returns the environment variables handing the wiring to an
// application process.
func (d *Deployment) Env() (map[string]string, error) {
	return d.Wiring().Env()
}

// Environ returns Env as sorted KEY=value pairs.
func (d *Deployment) Environ() ([]string, error) {
	env, err := d.Env()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out, nil
}

// Release frees the deployment's ports. It is safe to call more than once.
func (d *Deployment) Release() {
	d.releaseOnce.Do(func() {
		d.ports.Release(d.ID)
	})
}
