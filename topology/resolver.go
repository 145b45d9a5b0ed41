package topology

import "github.com/matgreaves/couchrig/connect"

// Resolver supplies concrete addresses for endpoint references. Resolvers
// are consulted by Expression.Evaluate and must be safe for concurrent
// reads once the topology is finalized.
type Resolver interface {
	ResolveEndpoint(ref EndpointReference) (connect.Endpoint, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ref EndpointReference) (connect.Endpoint, bool)

// ResolveEndpoint calls f(ref).
func (f ResolverFunc) ResolveEndpoint(ref EndpointReference) (connect.Endpoint, bool) {
	return f(ref)
}

// StaticResolver resolves endpoints from a fixed map keyed by
// EndpointReference.Key ("<resource>/<endpoint>").
type StaticResolver map[string]connect.Endpoint

// ResolveEndpoint looks up ref.Key().
func (s StaticResolver) ResolveEndpoint(ref EndpointReference) (connect.Endpoint, bool) {
	ep, ok := s[ref.Key()]
	return ep, ok
}

// DeclaredResolver resolves only endpoints whose host port was pinned at
// declaration time, at the given host. Endpoints waiting for a deploy-time
// port stay unresolved.
func DeclaredResolver(host string) Resolver {
	return ResolverFunc(func(ref EndpointReference) (connect.Endpoint, bool) {
		decl, ok := ref.Declaration()
		if !ok || decl.Port == nil {
			return connect.Endpoint{}, false
		}
		return connect.NewEndpoint(host, *decl.Port, decl.Scheme), true
	})
}
