// Package topology declares the runtime topology of an application:
// container-backed resources, the endpoints they expose, the volumes they
// mount, and the connection expressions other applications use to reach
// them.
//
// Declaration is single-threaded and builder-style. Nothing is resolved at
// declaration time: endpoint references and connection expressions are
// symbolic until a Resolver supplied by the deployment environment is
// available.
//
//	app := topology.New("shop")
//	db := hosting.AddCouchbase(app, "db").WithDataVolume("")
//	if err := app.Err(); err != nil { ... }
//	cs, err := db.ConnectionStringExpression().Evaluate(deployment)
package topology

import (
	"errors"
	"fmt"
	"strings"
)

// Application is the registry of all resources in a topology. Resources are
// peers: a sidecar attached to a primary resource is registered here as an
// independent resource, linked to the primary only by name.
type Application struct {
	name      string
	resources []Resource
	byName    map[string]Resource
	errs      []error
}

// New creates an empty application named name.
func New(name string) *Application {
	return &Application{
		name:   name,
		byName: make(map[string]Resource),
	}
}

// Name returns the application name.
func (a *Application) Name() string { return a.name }

// Add registers r with app and returns it. Names are compared
// case-insensitively; a duplicate is recorded as an error, reported by Err,
// and not registered.
func Add[T Resource](app *Application, r T) T {
	c := r.container()
	key := strings.ToLower(r.Name())
	if _, ok := app.byName[key]; ok {
		app.errs = append(app.errs, fmt.Errorf("%w %q", ErrDuplicateResource, r.Name()))
		return r
	}
	c.app = app
	app.byName[key] = r
	app.resources = append(app.resources, r)
	return r
}

// Resources returns the registered resources in declaration order.
func (a *Application) Resources() []Resource {
	out := make([]Resource, len(a.resources))
	copy(out, a.resources)
	return out
}

// Resource returns the named resource.
func (a *Application) Resource(name string) (Resource, bool) {
	r, ok := a.byName[strings.ToLower(name)]
	return r, ok
}

// Err validates the topology and returns every problem found, joined, so
// the caller can fix them in one pass. Returns nil for a valid topology.
func (a *Application) Err() error {
	errs := append([]error(nil), a.errs...)
	for _, r := range a.resources {
		errs = append(errs, validateResource(r.container())...)
	}
	return errors.Join(errs...)
}
