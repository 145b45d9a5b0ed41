package topology

import "fmt"

// Resource is implemented by every resource type. It is sealed: types
// outside this package implement it by embedding *Container.
type Resource interface {
	Name() string
	container() *Container
}

// ResourceWithConnectionString is implemented by resources that expose a
// connection string to the applications referencing them.
type ResourceWithConnectionString interface {
	Resource
	ConnectionStringExpression() *Expression
}

// Container is a container-backed resource: an image, an ordered set of
// endpoints and an ordered set of mounts. Typed resources embed it and add
// fluent methods that return themselves.
//
// A Container must not be mutated from concurrent goroutines.
type Container struct {
	name      string
	app       *Application
	image     Image
	endpoints []Endpoint
	mounts    []Mount
	excluded  bool
	errs      []error
}

// NewContainer returns an unregistered container resource. Register it with
// Add before declaring volumes, which need the application name.
func NewContainer(name string) *Container {
	return &Container{name: name}
}

func (c *Container) container() *Container { return c }

// Name returns the resource name. It never changes after creation.
func (c *Container) Name() string { return c.name }

// App returns the application the resource was added to, or nil.
func (c *Container) App() *Application { return c.app }

// SetImage sets the image repository and tag.
func (c *Container) SetImage(repository, tag string) {
	c.image.Repository = repository
	c.image.Tag = tag
}

// SetImageRegistry sets the image registry.
func (c *Container) SetImageRegistry(registry string) {
	c.image.Registry = registry
}

// Image returns the image reference. ok is false if no image was set.
func (c *Container) Image() (img Image, ok bool) {
	return c.image, c.image.Repository != ""
}

// AddEndpoint appends an endpoint declaration. Declaring the same name twice
// is recorded as an error and the second declaration is ignored.
func (c *Container) AddEndpoint(ep Endpoint) {
	if _, ok := c.Endpoint(ep.Name); ok {
		c.fail(fmt.Errorf("resource %q: %w %q", c.name, ErrDuplicateEndpoint, ep.Name))
		return
	}
	c.endpoints = append(c.endpoints, ep)
}

// SetHostPort pins the host port of a declared endpoint.
func (c *Container) SetHostPort(endpoint string, port int) {
	for i := range c.endpoints {
		if c.endpoints[i].Name == endpoint {
			c.endpoints[i].Port = &port
			return
		}
	}
	c.fail(fmt.Errorf("resource %q: %w %q: not declared", c.name, ErrInvalidEndpoint, endpoint))
}

// Endpoint returns the named endpoint declaration.
func (c *Container) Endpoint(name string) (Endpoint, bool) {
	for _, ep := range c.endpoints {
		if ep.Name == name {
			return ep, true
		}
	}
	return Endpoint{}, false
}

// Endpoints returns the endpoint declarations in declaration order.
func (c *Container) Endpoints() []Endpoint {
	out := make([]Endpoint, len(c.endpoints))
	copy(out, c.endpoints)
	return out
}

// GetEndpoint returns a symbolic reference to the named endpoint. The
// endpoint does not need to be declared yet; evaluation fails if it never is.
func (c *Container) GetEndpoint(name string) EndpointReference {
	return EndpointReference{owner: c, name: name}
}

// AddVolume appends a named volume mounted at target. An empty name
// generates a deterministic one from the application and resource names
// and the last element of target.
func (c *Container) AddVolume(name, target string, readOnly bool) {
	if name == "" {
		if c.app == nil {
			c.fail(fmt.Errorf("resource %q: volume for %q: resource is not added to an application", c.name, target))
			return
		}
		name = VolumeName(c.app.Name(), c.name, volumeSuffix(target))
	}
	c.mounts = append(c.mounts, Mount{Type: MountVolume, Source: name, Target: target, ReadOnly: readOnly})
}

// AddBindMount appends a bind mount of the host path source at target.
func (c *Container) AddBindMount(source, target string, readOnly bool) {
	c.mounts = append(c.mounts, Mount{Type: MountBind, Source: source, Target: target, ReadOnly: readOnly})
}

// Mounts returns the mounts in declaration order.
func (c *Container) Mounts() []Mount {
	out := make([]Mount, len(c.mounts))
	copy(out, c.mounts)
	return out
}

// ExcludeFromManifest marks the resource as local-only: it is deployed but
// not advertised by Application.Manifest.
func (c *Container) ExcludeFromManifest() {
	c.excluded = true
}

// Excluded reports whether the resource is excluded from the manifest.
func (c *Container) Excluded() bool { return c.excluded }

func (c *Container) fail(err error) {
	c.errs = append(c.errs, err)
}
