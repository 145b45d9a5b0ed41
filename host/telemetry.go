package host

import (
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Telemetry records the tracing sources enabled on a host.
type Telemetry struct {
	mu       sync.Mutex
	sources  map[string]int
	provider trace.TracerProvider
}

// NewTelemetry returns a Telemetry using the global otel tracer provider.
func NewTelemetry() *Telemetry {
	return &Telemetry{sources: make(map[string]int)}
}

// SetTracerProvider overrides the global tracer provider.
func (t *Telemetry) SetTracerProvider(tp trace.TracerProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.provider = tp
}

// AddSource enables the tracing source name.
func (t *Telemetry) AddSource(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sources[name]++
}

// Registrations returns how many times name was added.
func (t *Telemetry) Registrations(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sources[name]
}

// Sources returns the enabled sources, sorted.
func (t *Telemetry) Sources() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.sources))
	for s := range t.sources {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Tracer returns a tracer for name. Sources that were never added get a
// tracer that records nothing.
func (t *Telemetry) Tracer(name string) trace.Tracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sources[name] == 0 {
		return noop.NewTracerProvider().Tracer(name)
	}
	if t.provider != nil {
		return t.provider.Tracer(name)
	}
	return otel.GetTracerProvider().Tracer(name)
}
