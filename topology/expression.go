package topology

import (
	"fmt"
	"strings"
)

// Expression is an unevaluated string template composed of literal
// segments and endpoint property references. Build one with Expr.
//
// An Expression is immutable once built: Evaluate is side-effect-free and
// may be called any number of times, from concurrent goroutines, and yields
// identical output for identical resolver state.
type Expression struct {
	parts []part
}

type part struct {
	literal string
	ref     *PropertyReference
}

// Expr builds an expression from parts. Each part must be a string, a
// PropertyReference, or an *Expression (which is inlined).
//
//	topology.Expr("couchbases://", ep.Property(topology.PropertyHost), ":", ep.Property(topology.PropertyPort))
//
// Panics on any other part type; that is a programming error in the caller.
func Expr(parts ...any) *Expression {
	e := &Expression{}
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			if v != "" {
				e.parts = append(e.parts, part{literal: v})
			}
		case PropertyReference:
			ref := v
			e.parts = append(e.parts, part{ref: &ref})
		case *Expression:
			if v != nil {
				e.parts = append(e.parts, v.parts...)
			}
		default:
			panic(fmt.Sprintf("topology: unsupported expression part of type %T", p))
		}
	}
	return e
}

// String returns the symbolic form with manifest placeholders, e.g.
// "couchbases://{db.bindings.tcp.host}:{db.bindings.tcp.port}".
func (e *Expression) String() string {
	var b strings.Builder
	for _, p := range e.parts {
		if p.ref != nil {
			b.WriteString(p.ref.String())
			continue
		}
		b.WriteString(p.literal)
	}
	return b.String()
}

// Evaluate substitutes every referenced property using r. It fails with an
// error matching ErrUnresolvedEndpoint if any referenced endpoint has no
// resolvable address; it never substitutes empty values.
func (e *Expression) Evaluate(r Resolver) (string, error) {
	var b strings.Builder
	for _, p := range e.parts {
		if p.ref == nil {
			b.WriteString(p.literal)
			continue
		}
		v, err := p.ref.Value(r)
		if err != nil {
			return "", err
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

// References returns the distinct endpoints the expression depends on, in
// order of first appearance.
func (e *Expression) References() []EndpointReference {
	var refs []EndpointReference
	seen := make(map[string]bool)
	for _, p := range e.parts {
		if p.ref == nil {
			continue
		}
		key := p.ref.Endpoint.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		refs = append(refs, p.ref.Endpoint)
	}
	return refs
}
