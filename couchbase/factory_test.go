package couchbase_test

import (
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/matryer/is"

	"github.com/matgreaves/couchrig/couchbase"
	"github.com/matgreaves/couchrig/host"
)

func TestCreateClient(t *testing.T) {
	is := is.New(t)
	settings := couchbase.Settings{ConnectionString: "couchbases://h:1"}

	var sawTracing bool
	c, err := couchbase.CreateClient(settings, "db", "Couchrig:Couchbase", nil, func(o *couchbase.ClusterOptions) {
		sawTracing = o.Tracing.Enabled // enabled before the callback runs
	})
	is.NoErr(err)
	is.True(sawTracing)

	opts := c.ClusterOptions()
	is.Equal(opts.ConnectionString, "couchbases://h:1")
	is.True(opts.Tracing.Enabled)
	is.Equal(opts.Logger, nil) // no logger is fine
}

func TestCreateClient_Missing(t *testing.T) {
	is := is.New(t)
	_, err := couchbase.CreateClient(couchbase.Settings{}, "db", "Couchrig:Couchbase", nil, nil)
	is.True(errors.Is(err, couchbase.ErrMissingConnectionString))
}

func TestCreateClient_OverrideWins(t *testing.T) {
	is := is.New(t)

	settings := couchbase.Settings{ConnectionString: "couchbases://h:1", DisableTracing: true}
	c, err := couchbase.CreateClient(settings, "db", "s", nil, func(o *couchbase.ClusterOptions) {
		is.True(!o.Tracing.Enabled)
		o.WithTracing(couchbase.TracingOptions{Enabled: true})
	})
	is.NoErr(err)
	is.True(c.ClusterOptions().Tracing.Enabled)

	settings.DisableTracing = false
	c, err = couchbase.CreateClient(settings, "db", "s", nil, func(o *couchbase.ClusterOptions) {
		o.Tracing.Enabled = false
	})
	is.NoErr(err)
	is.True(!c.ClusterOptions().Tracing.Enabled)
}

func TestCreateClient_Logger(t *testing.T) {
	is := is.New(t)
	var names []string
	logger := funcr.New(func(prefix, _ string) { names = append(names, prefix) }, funcr.Options{})

	c, err := couchbase.CreateClient(couchbase.Settings{ConnectionString: "couchbases://h:1"}, "db", "s", &logger, func(o *couchbase.ClusterOptions) {
		discard := logr.Discard()
		o.Logger = &discard // replaced: the host logger is attached last
	})
	is.NoErr(err)
	l := c.ClusterOptions().Logger
	is.True(l != nil)
	l.Info("hello")
	is.Equal(names, []string{"Couchbase"})
}

func TestAddClient(t *testing.T) {
	is := is.New(t)
	b := host.NewBuilder(newConfig(t, map[string]string{
		"ConnectionStrings:db": "couchbases://named:2",
	}))

	is.NoErr(couchbase.AddClient(b, "db", nil, nil))
	is.Equal(b.Telemetry.Registrations(couchbase.TracingSourceName), 1)

	h := b.Build()
	c1, err := host.Resolve[*couchbase.Client](h)
	is.NoErr(err)
	c2, err := host.Resolve[*couchbase.Client](h)
	is.NoErr(err)
	is.True(c1 == c2)
	is.Equal(c1.ClusterOptions().ConnectionString, "couchbases://named:2")

	err = couchbase.AddClient(b, "db", nil, nil)
	is.True(errors.Is(err, host.ErrDuplicateKey))
	is.Equal(b.Telemetry.Registrations(couchbase.TracingSourceName), 1)
}

func TestAddClient_TracingDisabled(t *testing.T) {
	is := is.New(t)
	b := host.NewBuilder(newConfig(t, map[string]string{
		"ConnectionStrings:db":              "couchbases://named:2",
		"Couchrig:Couchbase:DisableTracing": "true",
	}))

	is.NoErr(couchbase.AddClient(b, "db", nil, func(o *couchbase.ClusterOptions) {
		o.WithTracing(couchbase.TracingOptions{Enabled: true})
	}))
	is.Equal(b.Telemetry.Registrations(couchbase.TracingSourceName), 0)

	c, err := host.Resolve[*couchbase.Client](b.Build())
	is.NoErr(err)
	is.True(c.ClusterOptions().Tracing.Enabled) // override wins
}

func TestAddClient_MissingConnectionString(t *testing.T) {
	is := is.New(t)
	b := host.NewBuilder(nil)
	is.NoErr(couchbase.AddClient(b, "db", nil, nil))

	_, err := host.Resolve[*couchbase.Client](b.Build())
	is.True(errors.Is(err, couchbase.ErrMissingConnectionString))
}

func TestAddClient_Logger(t *testing.T) {
	is := is.New(t)
	b := host.NewBuilder(newConfig(t, map[string]string{"ConnectionStrings:db": "couchbases://h:1"})).
		WithLogger(logr.Discard())
	is.NoErr(couchbase.AddClient(b, "db", nil, nil))

	c, err := host.Resolve[*couchbase.Client](b.Build())
	is.NoErr(err)
	is.True(c.ClusterOptions().Logger != nil)
}

func TestAddKeyedClient(t *testing.T) {
	is := is.New(t)
	b := host.NewBuilder(newConfig(t, map[string]string{
		"Couchrig:Couchbase:k1:ConnectionString": "couchbases://k1:1",
		"ConnectionStrings:k2":                   "couchbases://k2:2",
	}))

	is.NoErr(couchbase.AddKeyedClient(b, "k1", nil, nil))
	is.NoErr(couchbase.AddKeyedClient(b, "k2", func(s *couchbase.Settings) { s.DisableTracing = true }, nil))
	is.Equal(b.Telemetry.Registrations(couchbase.TracingSourceName), 1) // k1 only
	h := b.Build()

	c1, err := host.ResolveKeyed[*couchbase.Client](h, "k1")
	is.NoErr(err)
	c2, err := host.ResolveKeyed[*couchbase.Client](h, "k2")
	is.NoErr(err)
	is.True(c1 != c2)
	is.Equal(c1.ClusterOptions().ConnectionString, "couchbases://k1:1")
	is.Equal(c2.ClusterOptions().ConnectionString, "couchbases://k2:2")
	is.True(c1.ClusterOptions().Tracing.Enabled)
	is.True(!c2.ClusterOptions().Tracing.Enabled)

	_, err = host.ResolveKeyed[*couchbase.Client](h, "k3")
	is.True(errors.Is(err, host.ErrNotRegistered))

	_, err = host.Resolve[*couchbase.Client](h)
	is.True(errors.Is(err, host.ErrNotRegistered))
}

func TestAddKeyedClient_EmptyKey(t *testing.T) {
	is := is.New(t)
	b := host.NewBuilder(nil)
	is.True(errors.Is(couchbase.AddKeyedClient(b, "", nil, nil), couchbase.ErrEmptyKey))
	is.Equal(b.Services.Len(), 0)
}
