// Package connect defines the resolved side of couchrig endpoints and the
// hand-off of resolved values to deployed applications.
//
// These types are produced by the deployment environment (deploy/) and
// consumed by topology resolvers and by application configuration. Service
// code can use them directly without depending on the topology model.
package connect

import (
	"net"
	"strconv"
)

// Protocol identifies the scheme an endpoint speaks.
type Protocol string

const (
	TCP   Protocol = "tcp"
	HTTP  Protocol = "http"
	HTTPS Protocol = "https"
)

// Valid reports whether p is a recognised protocol.
func (p Protocol) Valid() bool {
	switch p {
	case TCP, HTTP, HTTPS:
		return true
	}
	return false
}

// Endpoint is a resolved endpoint: a concrete host and port assigned by the
// deployment environment.
type Endpoint struct {
	HostPort string   `json:"hostport"`
	Protocol Protocol `json:"protocol"`
}

// NewEndpoint returns an endpoint for host and port.
func NewEndpoint(host string, port int, protocol Protocol) Endpoint {
	return Endpoint{
		HostPort: net.JoinHostPort(host, strconv.Itoa(port)),
		Protocol: protocol,
	}
}

// Host returns the host portion of HostPort.
func (e Endpoint) Host() string {
	host, _, _ := net.SplitHostPort(e.HostPort)
	return host
}

// Port returns the port portion of HostPort as an int. Returns 0 if
// HostPort carries no port.
func (e Endpoint) Port() int {
	_, portStr, _ := net.SplitHostPort(e.HostPort)
	port, _ := strconv.Atoi(portStr)
	return port
}

// URL returns the endpoint as scheme://host:port.
func (e Endpoint) URL() string {
	return string(e.Protocol) + "://" + e.HostPort
}
