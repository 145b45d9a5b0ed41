package topology

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matgreaves/couchrig/spec"
)

// FromManifest rebuilds an application from its declaration output, so a
// manifest written by Manifest or Declarations can be deployed without the
// code that declared it. Connection strings are parsed back into
// expressions over the rebuilt resources.
//
// Resources are registered in name order. Structural problems such as
// invalid names or images are left to Application.Err.
func FromManifest(m spec.Manifest) (*Application, error) {
	names := make([]string, 0, len(m.Resources))
	for name := range m.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	containers := make(map[string]*Container, len(names))
	for _, name := range names {
		containers[strings.ToLower(name)] = containerFromSpec(name, m.Resources[name])
	}
	lookup := func(name string) (*Container, bool) {
		c, ok := containers[strings.ToLower(name)]
		return c, ok
	}

	app := New(m.Name)
	for _, name := range names {
		c := containers[strings.ToLower(name)]
		cs := m.Resources[name].ConnectionString
		if cs == "" {
			Add(app, c)
			continue
		}
		expr, err := parseExpression(cs, lookup)
		if err != nil {
			return nil, fmt.Errorf("resource %q: connection string: %w", name, err)
		}
		Add(app, &declaredResource{Container: c, connectionString: expr})
	}
	return app, nil
}

func containerFromSpec(name string, r spec.Resource) *Container {
	c := NewContainer(name)
	c.image = r.Image

	bindings := make([]string, 0, len(r.Bindings))
	for b := range r.Bindings {
		bindings = append(bindings, b)
	}
	sort.Strings(bindings)
	for _, b := range bindings {
		c.AddEndpoint(endpointFromSpec(b, r.Bindings[b]))
	}

	for _, m := range r.Mounts {
		c.mounts = append(c.mounts, Mount{Type: m.Type, Source: m.Source, Target: m.Target, ReadOnly: m.ReadOnly})
	}
	if r.ExcludeFromManifest {
		c.ExcludeFromManifest()
	}
	return c
}

func endpointFromSpec(name string, b spec.Binding) Endpoint {
	ep := Endpoint{
		Name:       name,
		Scheme:     Protocol(b.Scheme),
		TargetPort: b.TargetPort,
		External:   b.External,
	}
	if b.Transport != string(b.Scheme) {
		ep.Transport = b.Transport
	}
	if b.Port != nil {
		ep = ep.WithPort(*b.Port)
	}
	return ep
}

// declaredResource is a container rebuilt from a manifest that carried a
// connection string.
type declaredResource struct {
	*Container
	connectionString *Expression
}

func (r *declaredResource) ConnectionStringExpression() *Expression {
	return r.connectionString
}

// ParseExpression parses the symbolic form written by Expression.String,
// e.g. "couchbases://{db.bindings.tcp.host}:{db.bindings.tcp.port}".
// Placeholders must name resources registered with app.
func ParseExpression(s string, app *Application) (*Expression, error) {
	return parseExpression(s, func(name string) (*Container, bool) {
		r, ok := app.Resource(name)
		if !ok {
			return nil, false
		}
		return r.container(), true
	})
}

func parseExpression(s string, lookup func(string) (*Container, bool)) (*Expression, error) {
	var parts []any
	for s != "" {
		open := strings.IndexByte(s, '{')
		if open < 0 {
			parts = append(parts, s)
			break
		}
		end := strings.IndexByte(s[open:], '}')
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated placeholder in %q", ErrInvalidExpression, s)
		}
		parts = append(parts, s[:open])

		ref, err := parsePlaceholder(s[open+1:open+end], lookup)
		if err != nil {
			return nil, err
		}
		parts = append(parts, ref)
		s = s[open+end+1:]
	}
	return Expr(parts...), nil
}

// parsePlaceholder parses "<resource>.bindings.<endpoint>.<property>".
func parsePlaceholder(p string, lookup func(string) (*Container, bool)) (PropertyReference, error) {
	resource, rest, ok := strings.Cut(p, ".bindings.")
	dot := strings.LastIndexByte(rest, '.')
	if !ok || resource == "" || dot <= 0 {
		return PropertyReference{}, fmt.Errorf("%w: placeholder {%s}", ErrInvalidExpression, p)
	}
	endpoint, property := rest[:dot], EndpointProperty(rest[dot+1:])
	switch property {
	case PropertyHost, PropertyPort, PropertyTargetPort, PropertyScheme, PropertyHostAndPort, PropertyURL:
	default:
		return PropertyReference{}, fmt.Errorf("%w: placeholder {%s}: unknown property %q", ErrInvalidExpression, p, property)
	}
	c, ok := lookup(resource)
	if !ok {
		return PropertyReference{}, fmt.Errorf("%w: placeholder {%s}: unknown resource %q", ErrInvalidExpression, p, resource)
	}
	return c.GetEndpoint(endpoint).Property(property), nil
}
