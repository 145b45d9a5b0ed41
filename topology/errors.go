package topology

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName is returned for resource names that are not valid
	// DNS-style labels.
	ErrInvalidName = errors.New("invalid resource name")

	// ErrDuplicateResource is returned when two resources share a name.
	ErrDuplicateResource = errors.New("duplicate resource")

	// ErrDuplicateEndpoint is returned when a resource declares the same
	// endpoint name twice.
	ErrDuplicateEndpoint = errors.New("duplicate endpoint")

	// ErrDuplicateMountTarget is returned when a resource mounts two
	// sources at the same container path.
	ErrDuplicateMountTarget = errors.New("duplicate mount target")

	// ErrInvalidEndpoint is returned for endpoints with out-of-range ports
	// or unknown schemes.
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrInvalidImage is returned for image references that do not parse.
	ErrInvalidImage = errors.New("invalid image")

	// ErrInvalidExpression is returned for symbolic expressions that do not
	// parse or that reference unknown resources.
	ErrInvalidExpression = errors.New("invalid expression")

	// ErrUnresolvedEndpoint is returned when an expression is evaluated
	// before a referenced endpoint has a resolvable address.
	ErrUnresolvedEndpoint = errors.New("unresolved endpoint")
)

// UnresolvedEndpointError reports which endpoint property could not be
// resolved. It matches ErrUnresolvedEndpoint with errors.Is.
type UnresolvedEndpointError struct {
	Resource string
	Endpoint string
	Property EndpointProperty
	Reason   string
}

func (e *UnresolvedEndpointError) Error() string {
	return fmt.Sprintf("endpoint %s/%s: %s unresolved: %s", e.Resource, e.Endpoint, e.Property, e.Reason)
}

func (e *UnresolvedEndpointError) Is(target error) bool {
	return target == ErrUnresolvedEndpoint
}
