package couchbase

import (
	"errors"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/matgreaves/couchrig/config"
	"github.com/matgreaves/couchrig/host"
)

// ErrEmptyKey is returned when registering a keyed client with no key.
var ErrEmptyKey = errors.New("couchbase: client key must not be empty")

// CreateClient validates settings and builds a client. Unless the settings
// disable tracing, tracing is enabled on the options before configure
// runs, so configure has the last word on it. logger, if non-nil, is
// attached after configure under the name "Couchbase".
func CreateClient(settings Settings, connectionName, sectionName string, logger *logr.Logger, configure func(*ClusterOptions)) (*Client, error) {
	return createClient(settings, connectionName, sectionName, logger, otel.Tracer(TracingSourceName), configure)
}

func createClient(settings Settings, connectionName, sectionName string, logger *logr.Logger, tracer trace.Tracer, configure func(*ClusterOptions)) (*Client, error) {
	if err := settings.Validate(connectionName, sectionName); err != nil {
		return nil, err
	}

	opts := ClusterOptions{ConnectionString: settings.ConnectionString}
	if !settings.DisableTracing {
		opts.WithTracing(TracingOptions{Enabled: true, Tracer: tracer})
	}
	if configure != nil {
		configure(&opts)
	}
	if logger != nil {
		l := logger.WithName(LogCategory)
		opts.Logger = &l
	}
	return NewClient(opts), nil
}

// AddClient registers the unkeyed *Client with b. Settings are bound now
// from DefaultConfigSectionName and the connection string connectionName;
// the client is validated and constructed on first resolution.
func AddClient(b *host.Builder, connectionName string, configureSettings func(*Settings), configureOptions func(*ClusterOptions)) error {
	return addClient(b, DefaultConfigSectionName, connectionName, "", false, configureSettings, configureOptions)
}

// AddKeyedClient registers a *Client under name. Settings are read from
// the section "{DefaultConfigSectionName}:{name}" and the connection string
// name. Clients registered under different names are independent.
func AddKeyedClient(b *host.Builder, name string, configureSettings func(*Settings), configureOptions func(*ClusterOptions)) error {
	if name == "" {
		return ErrEmptyKey
	}
	return addClient(b, config.Join(DefaultConfigSectionName, name), name, name, true, configureSettings, configureOptions)
}

func addClient(
	b *host.Builder,
	sectionName string,
	connectionName string,
	key string,
	keyed bool,
	configureSettings func(*Settings),
	configureOptions func(*ClusterOptions),
) error {
	settings, err := BindSettings(b.Config, sectionName, connectionName, configureSettings)
	if err != nil {
		return err
	}

	factory := func(h *host.Host) (*Client, error) {
		var logger *logr.Logger
		if l, ok := h.Logger(); ok {
			logger = &l
		}
		tracer := h.Telemetry().Tracer(TracingSourceName)
		return createClient(settings, connectionName, sectionName, logger, tracer, configureOptions)
	}

	if keyed {
		err = host.AddKeyedSingleton[*Client](b, key, factory)
	} else {
		err = host.AddSingleton[*Client](b, factory)
	}
	if err != nil {
		return err
	}

	if !settings.DisableTracing {
		b.Telemetry.AddSource(TracingSourceName)
	}
	return nil
}
