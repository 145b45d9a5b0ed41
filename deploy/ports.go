package deploy

import (
	"fmt"
	"net"
	"sync"
)

// PortAllocator allocates random OS-assigned host ports and tracks which
// deployment owns them, so concurrent deployments never share a port.
type PortAllocator struct {
	mu         sync.Mutex
	allocated  map[int]string   // port → deployment ID
	byInstance map[string][]int // deployment ID → ports
}

// NewPortAllocator creates an empty port allocator.
func NewPortAllocator() *PortAllocator {
	return &PortAllocator{
		allocated:  make(map[int]string),
		byInstance: make(map[string][]int),
	}
}

// Allocate reserves n free ports for the deployment id. It listens on :0
// to let the OS choose, records the ports, then closes the listeners.
//
// The port is free again between closing the listener and the container
// binding it.
func (a *PortAllocator) Allocate(id string, n int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	listeners := make([]net.Listener, 0, n)
	ports := make([]int, 0, n)
	defer func() {
		for _, ln := range listeners {
			ln.Close()
		}
	}()

	for range n {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return nil, fmt.Errorf("allocate port: %w", err)
		}
		listeners = append(listeners, ln)
		ports = append(ports, ln.Addr().(*net.TCPAddr).Port)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, port := range ports {
		if owner, ok := a.allocated[port]; ok {
			return nil, fmt.Errorf("port %d already allocated to deployment %q", port, owner)
		}
	}
	for _, port := range ports {
		a.allocated[port] = id
	}
	a.byInstance[id] = append(a.byInstance[id], ports...)
	return ports, nil
}

// Release frees every port held by the deployment id.
func (a *PortAllocator) Release(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, port := range a.byInstance[id] {
		delete(a.allocated, port)
	}
	delete(a.byInstance, id)
}

// Allocated returns the number of ports currently held.
func (a *PortAllocator) Allocated() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.allocated)
}
