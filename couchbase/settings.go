// Package couchbase binds Couchbase client settings from configuration and
// registers Couchbase clients with a host.
//
//	b := host.NewBuilder(cfg)
//	if err := couchbase.AddClient(b, "db", nil, nil); err != nil { ... }
//	client, err := host.Resolve[*couchbase.Client](b.Build())
package couchbase

import (
	"errors"
	"fmt"

	"github.com/creasty/defaults"

	"github.com/matgreaves/couchrig/config"
)

const (
	// DefaultConfigSectionName is the configuration section settings are
	// read from. Keyed clients read "{DefaultConfigSectionName}:{key}".
	DefaultConfigSectionName = "Couchrig:Couchbase"

	// TracingSourceName is the tracing source enabled for Couchbase
	// clients.
	TracingSourceName = "Couchbase.Extensions.DiagnosticSources"
)

// ErrMissingConnectionString is matched by *MissingConnectionStringError.
var ErrMissingConnectionString = errors.New("missing connection string")

// MissingConnectionStringError reports a client with no connection string
// after binding.
type MissingConnectionStringError struct {
	ConnectionName string
	SectionName    string
}

func (e *MissingConnectionStringError) Error() string {
	return fmt.Sprintf(
		"couchbase: connection string is missing: set %q or %q",
		config.Join(config.ConnectionStringsSection, e.ConnectionName),
		config.Join(e.SectionName, "ConnectionString"),
	)
}

func (e *MissingConnectionStringError) Is(target error) bool {
	return target == ErrMissingConnectionString
}

// Settings configure a Couchbase client.
type Settings struct {
	// ConnectionString of the Couchbase server.
	ConnectionString string `json:"connectionString"`

	// DisableHealthChecks and HealthCheckTimeout (milliseconds) are
	// accepted and bound but have no effect yet.
	DisableHealthChecks bool `json:"disableHealthChecks" default:"false"`
	HealthCheckTimeout  *int `json:"healthCheckTimeout,omitempty"`

	// DisableTracing turns off the tracing source and span recording.
	DisableTracing bool `json:"disableTracing" default:"false"`
}

// BindSettings returns settings built from, in increasing precedence: their
// defaults, the configuration section sectionName, the connection string
// named connectionName and finally configure, if non-nil. The named
// connection string only overrides ConnectionString.
func BindSettings(cfg *config.Config, sectionName, connectionName string, configure func(*Settings)) (Settings, error) {
	var s Settings
	if err := defaults.Set(&s); err != nil {
		return Settings{}, fmt.Errorf("couchbase: settings defaults: %w", err)
	}
	if cfg != nil {
		if err := cfg.Section(sectionName).Bind(&s); err != nil {
			return Settings{}, fmt.Errorf("couchbase: bind settings: %w", err)
		}
		if cs, ok := cfg.ConnectionString(connectionName); ok {
			s.ConnectionString = cs
		}
	}
	if configure != nil {
		configure(&s)
	}
	return s, nil
}

// Validate reports a *MissingConnectionStringError when s has no
// connection string. The names are only used in the error message.
func (s Settings) Validate(connectionName, sectionName string) error {
	if s.ConnectionString == "" {
		return &MissingConnectionStringError{ConnectionName: connectionName, SectionName: sectionName}
	}
	return nil
}
