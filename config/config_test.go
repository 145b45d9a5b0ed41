package config_test

import (
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/matgreaves/couchrig/config"
	"github.com/matgreaves/couchrig/connect"
)

func TestYAMLFile(t *testing.T) {
	is := is.New(t)
	cfg, err := config.New(config.YAMLFile("testdata/appsettings.yaml"))
	is.NoErr(err)

	cs, ok := cfg.ConnectionString("db")
	is.True(ok)
	is.Equal(cs, "couchbases://localhost:18091")

	v, ok := cfg.Get("couchrig:couchbase:disabletracing") // case-insensitive
	is.True(ok)
	is.Equal(v, "true")

	v, _ = cfg.Get("Hosts:1")
	is.Equal(v, "beta")

	v, ok = cfg.Get("Empty")
	is.True(ok)
	is.Equal(v, "")
}

func TestYAMLFile_Missing(t *testing.T) {
	is := is.New(t)
	_, err := config.New(config.YAMLFile("testdata/nope.yaml"))
	is.True(err != nil)

	_, err = config.New(config.YAMLFile("testdata/nope.yaml", true))
	is.NoErr(err)
}

func TestLaterSourcesWin(t *testing.T) {
	is := is.New(t)
	cfg, err := config.New(
		config.YAMLFile("testdata/appsettings.yaml"),
		config.EnvList([]string{
			"APP_ConnectionStrings__db=couchbases://env:1",
			"OTHER=ignored",
		}, "APP_"),
		config.Map(map[string]string{"couchrig:couchbase:healthchecktimeout": "9s"}),
	)
	is.NoErr(err)

	cs, _ := cfg.ConnectionString("DB")
	is.Equal(cs, "couchbases://env:1")

	v, _ := cfg.Get("Couchrig:Couchbase:HealthCheckTimeout")
	is.Equal(v, "9s")

	_, ok := cfg.Get("OTHER")
	is.True(!ok)

	// The first spelling of a key is kept.
	is.Equal(cfg.Keys()[0], "ConnectionStrings:db")
}

func TestSection(t *testing.T) {
	is := is.New(t)
	cfg, err := config.New(config.YAMLFile("testdata/appsettings.yaml"))
	is.NoErr(err)

	s := cfg.Section("Couchrig:Couchbase")
	is.True(s.Exists())
	is.Equal(s.Section("orders").Path(), "Couchrig:Couchbase:orders")

	v, ok := s.Section("orders").Get("connectionstring")
	is.True(ok)
	is.Equal(v, "couchbases://orders:8091")

	is.True(!cfg.Section("Couchrig:Missing").Exists())
}

type settings struct {
	ConnectionString   string
	DisableTracing     bool
	HealthCheckTimeout time.Duration
	Retries            int `config:"MaxRetries"`
	Ignored            string `config:"-"`
	Nested             struct {
		Name string
	}
	Hosts []string
}

func TestBind(t *testing.T) {
	is := is.New(t)
	cfg, err := config.New(config.Map(map[string]string{
		"svc:connectionString":   "couchbases://h:1",
		"svc:disableTracing":     "true",
		"svc:healthCheckTimeout": "30s",
		"svc:maxretries":         "3",
		"svc:ignored":            "x",
		"svc:nested:name":        "n",
		"svc:hosts:0":            "alpha",
		"svc:hosts:1":            "beta",
	}))
	is.NoErr(err)

	s := settings{Ignored: "keep"}
	is.NoErr(cfg.Section("svc").Bind(&s))
	is.Equal(s.ConnectionString, "couchbases://h:1")
	is.True(s.DisableTracing)
	is.Equal(s.HealthCheckTimeout, 30*time.Second)
	is.Equal(s.Retries, 3)
	is.Equal(s.Ignored, "keep")
	is.Equal(s.Nested.Name, "n")
	is.Equal(s.Hosts, []string{"alpha", "beta"})
}

func TestBind_LayeredSources(t *testing.T) {
	is := is.New(t)
	cfg, err := config.New(
		config.YAMLFile("testdata/appsettings.yaml"),
		config.EnvList([]string{"Couchrig__Couchbase__DisableTracing=false"}, ""),
	)
	is.NoErr(err)

	var s settings
	is.NoErr(cfg.Section("Couchrig:Couchbase").Bind(&s))
	is.True(!s.DisableTracing) // env overrides the file
}

func TestBind_KeepsUnsetFields(t *testing.T) {
	is := is.New(t)
	cfg, err := config.New()
	is.NoErr(err)

	s := settings{HealthCheckTimeout: time.Second}
	is.NoErr(cfg.Section("svc").Bind(&s))
	is.Equal(s.HealthCheckTimeout, time.Second)
}

func TestBind_Errors(t *testing.T) {
	is := is.New(t)
	cfg, err := config.New(config.Map(map[string]string{"svc:disableTracing": "maybe"}))
	is.NoErr(err)

	var s settings
	is.True(cfg.Section("svc").Bind(&s) != nil) // not a bool
	is.True(cfg.Section("svc").Bind(s) != nil)  // not a pointer
}

func TestWiring(t *testing.T) {
	is := is.New(t)
	w := &connect.Wiring{ConnectionStrings: map[string]string{"db": "couchbases://wired:1"}}
	cfg, err := config.New(
		config.Map(map[string]string{"ConnectionStrings:db": "couchbases://file:1"}),
		config.Wiring(w),
		config.Wiring(nil),
	)
	is.NoErr(err)

	cs, _ := cfg.ConnectionString("db")
	is.Equal(cs, "couchbases://wired:1")
}
