package connect

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// WiringEnvVar is the environment variable carrying the JSON wiring of a
// deployed application.
const WiringEnvVar = "COUCHRIG_WIRING"

// connectionStringPrefix is the flat env var prefix understood by the config
// package's Env source ("ConnectionStrings:<name>").
const connectionStringPrefix = "ConnectionStrings__"

// ErrNoWiring is returned by ParseWiring when the environment carries no
// wiring at all, as for an application started outside a deployment.
var ErrNoWiring = errors.New("no wiring in environment")

// Wiring carries resolved values from the deployment environment to a
// deployed application. Use ParseWiring to read it from the environment.
type Wiring struct {
	// ConnectionStrings maps connection names (resource names) to their
	// evaluated connection strings.
	ConnectionStrings map[string]string `json:"connection_strings,omitempty"`

	// Endpoints maps "<resource>/<endpoint>" to resolved endpoints.
	Endpoints map[string]Endpoint `json:"endpoints,omitempty"`
}

// ConnectionString returns the named connection string. Returns an error
// listing the available names if it is not present.
func (w *Wiring) ConnectionString(name string) (string, error) {
	cs, ok := w.ConnectionStrings[name]
	if !ok {
		return "", fmt.Errorf("connection string %q not found in wiring (available: %s)",
			name, sortedMapKeys(w.ConnectionStrings))
	}
	return cs, nil
}

// Env flattens the wiring into environment variables: the JSON form under
// COUCHRIG_WIRING plus one ConnectionStrings__<name> variable per connection
// string, which config.Env reads back as ConnectionStrings:<name>.
func (w *Wiring) Env() (map[string]string, error) {
	env := make(map[string]string, len(w.ConnectionStrings)+1)
	b, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("marshal wiring: %w", err)
	}
	env[WiringEnvVar] = string(b)
	for name, cs := range w.ConnectionStrings {
		env[connectionStringPrefix+name] = cs
	}
	return env, nil
}

// ParseWiring reads the wiring from the environment. It parses
// COUCHRIG_WIRING if set, falling back to ConnectionStrings__* variables for
// applications started without the JSON form.
func ParseWiring() (*Wiring, error) {
	return parseWiring(os.Environ())
}

func parseWiring(environ []string) (*Wiring, error) {
	var w Wiring
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if k == WiringEnvVar {
			if err := json.Unmarshal([]byte(v), &w); err != nil {
				return nil, fmt.Errorf("parse %s: %w", WiringEnvVar, err)
			}
			return &w, nil
		}
	}

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, connectionStringPrefix) {
			continue
		}
		if w.ConnectionStrings == nil {
			w.ConnectionStrings = make(map[string]string)
		}
		w.ConnectionStrings[strings.TrimPrefix(k, connectionStringPrefix)] = v
	}
	if len(w.ConnectionStrings) == 0 {
		return nil, fmt.Errorf("%w: %s not set and no %s* variables found", ErrNoWiring, WiringEnvVar, connectionStringPrefix)
	}
	return &w, nil
}

func sortedMapKeys[V any](m map[string]V) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%v", keys)
}
