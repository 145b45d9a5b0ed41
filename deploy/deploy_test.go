package deploy_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/matgreaves/couchrig/connect"
	"github.com/matgreaves/couchrig/deploy"
	"github.com/matgreaves/couchrig/hosting"
	"github.com/matgreaves/couchrig/topology"
)

func shop(t *testing.T) (*topology.Application, *hosting.ServerResource) {
	t.Helper()
	app := topology.New("shop")
	db := hosting.AddCouchbase(app, "db").
		WithDataVolume("").
		WithSyncGateway(nil)
	return app, db
}

func TestPublish(t *testing.T) {
	is := is.New(t)
	app, db := shop(t)
	orch := deploy.NewOrchestrator()

	d, err := orch.Publish(context.Background(), app)
	is.NoErr(err)
	defer d.Release()
	is.True(d.ID != "")
	is.Equal(orch.Ports().Allocated(), 2) // server and sync gateway

	ep, ok := d.ResolveEndpoint(db.PrimaryEndpoint())
	is.True(ok)
	is.Equal(ep.Host(), deploy.DefaultHost)
	is.True(ep.Port() > 0)

	cs, ok := d.ConnectionString("db")
	is.True(ok)
	is.Equal(cs, "couchbases://127.0.0.1:"+strconv.Itoa(ep.Port()))

	// The deployment is a resolver for any expression over the topology.
	again, err := db.ConnectionStringExpression().Evaluate(d)
	is.NoErr(err)
	is.Equal(again, cs)

	_, ok = d.ConnectionString("db-sync-gateway")
	is.True(!ok) // no connection string
}

func TestPublish_PinnedPort(t *testing.T) {
	is := is.New(t)
	app := topology.New("shop")
	hosting.AddCouchbase(app, "db", 18091)
	orch := deploy.NewOrchestrator(deploy.WithHost("localhost"))

	d, err := orch.Publish(context.Background(), app)
	is.NoErr(err)
	defer d.Release()
	is.Equal(orch.Ports().Allocated(), 0)

	cs, _ := d.ConnectionString("db")
	is.Equal(cs, "couchbases://localhost:18091")
}

func TestPublish_InvalidTopology(t *testing.T) {
	is := is.New(t)
	app := topology.New("shop")
	hosting.AddCouchbase(app, "db")
	hosting.AddCouchbase(app, "db")
	orch := deploy.NewOrchestrator()

	_, err := orch.Publish(context.Background(), app)
	is.True(errors.Is(err, topology.ErrDuplicateResource))
	is.Equal(orch.Ports().Allocated(), 0)
}

func TestRelease(t *testing.T) {
	is := is.New(t)
	app, _ := shop(t)
	orch := deploy.NewOrchestrator()

	d, err := orch.Publish(context.Background(), app)
	is.NoErr(err)
	d.Release()
	d.Release()
	is.Equal(orch.Ports().Allocated(), 0)
}

func TestDeployment_Wiring(t *testing.T) {
	is := is.New(t)
	app, _ := shop(t)
	d, err := deploy.NewOrchestrator().Publish(context.Background(), app)
	is.NoErr(err)
	defer d.Release()

	w := d.Wiring()
	cs, err := w.ConnectionString("db")
	is.NoErr(err)
	gw, ok := w.Endpoints["db-sync-gateway/http"]
	is.True(ok)
	is.Equal(gw.Protocol, connect.HTTP)

	env, err := d.Env()
	is.NoErr(err)
	is.Equal(env["ConnectionStrings__db"], cs)
	is.True(env[connect.WiringEnvVar] != "")

	environ, err := d.Environ()
	is.NoErr(err)
	is.True(strings.HasPrefix(environ[0], "COUCHRIG_WIRING=")) // sorted
}
