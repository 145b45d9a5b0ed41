package topology

import "github.com/matgreaves/couchrig/spec"

// Declarations returns the container declaration output for every resource,
// including those excluded from the manifest. This is what a local
// deployment environment realizes.
func (a *Application) Declarations() spec.Manifest {
	return a.toSpec(true)
}

// Manifest returns the declaration output for publishing: resources marked
// ExcludeFromManifest are left out.
func (a *Application) Manifest() spec.Manifest {
	return a.toSpec(false)
}

func (a *Application) toSpec(includeExcluded bool) spec.Manifest {
	m := spec.Manifest{
		Name:      a.name,
		Resources: make(map[string]spec.Resource, len(a.resources)),
	}
	for _, r := range a.resources {
		c := r.container()
		if c.excluded && !includeExcluded {
			continue
		}
		m.Resources[c.name] = resourceToSpec(r)
	}
	return m
}

func resourceToSpec(r Resource) spec.Resource {
	c := r.container()
	res := spec.Resource{
		Type:                spec.ContainerType,
		Image:               c.image,
		ExcludeFromManifest: c.excluded,
	}
	if cs, ok := r.(ResourceWithConnectionString); ok {
		res.ConnectionString = cs.ConnectionStringExpression().String()
	}
	if len(c.endpoints) > 0 {
		res.Bindings = make(map[string]spec.Binding, len(c.endpoints))
		for _, ep := range c.endpoints {
			res.Bindings[ep.Name] = endpointToSpec(ep)
		}
	}
	for _, m := range c.mounts {
		res.Mounts = append(res.Mounts, spec.Mount{
			Type:     m.Type,
			Source:   m.Source,
			Target:   m.Target,
			ReadOnly: m.ReadOnly,
		})
	}
	return res
}

func endpointToSpec(ep Endpoint) spec.Binding {
	transport := ep.Transport
	if transport == "" {
		transport = string(ep.Scheme)
	}
	b := spec.Binding{
		Scheme:     spec.Protocol(ep.Scheme),
		Transport:  transport,
		TargetPort: ep.TargetPort,
		External:   ep.External,
	}
	if ep.Port != nil {
		port := *ep.Port
		b.Port = &port
	}
	return b
}
