package topology_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/matgreaves/couchrig/topology"
)

func TestAdd_DuplicateName(t *testing.T) {
	is := is.New(t)
	app := topology.New("shop")

	first := topology.Add(app, topology.NewContainer("db"))
	first.SetImage("library/couchbase", "7.6.1")
	second := topology.Add(app, topology.NewContainer("DB"))

	is.Equal(len(app.Resources()), 1)
	is.True(second.App() == nil)

	err := app.Err()
	is.True(errors.Is(err, topology.ErrDuplicateResource))
}

func TestResource_LookupIsCaseInsensitive(t *testing.T) {
	is := is.New(t)
	app := topology.New("shop")
	topology.Add(app, topology.NewContainer("Orders"))

	r, ok := app.Resource("orders")
	is.True(ok)
	is.Equal(r.Name(), "Orders")
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr string
	}{
		{"db", ""},
		{"db-sync-gateway", ""},
		{"a1", ""},
		{"", "empty"},
		{"1db", "start with"},
		{"db-", "end with"},
		{"db--gw", "consecutive"},
		{"db_gw", "only ASCII"},
		{strings.Repeat("a", 65), "longer"},
	}
	for _, tt := range tests {
		err := topology.ValidateName(tt.name)
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("ValidateName(%q) = %v, want nil", tt.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("ValidateName(%q) = %v, want error containing %q", tt.name, err, tt.wantErr)
		}
		if !errors.Is(err, topology.ErrInvalidName) {
			t.Errorf("ValidateName(%q) error does not match ErrInvalidName", tt.name)
		}
	}
}

func TestErr_CollectsAllProblems(t *testing.T) {
	is := is.New(t)
	app := topology.New("shop")

	c := topology.Add(app, topology.NewContainer("db"))
	// No image.
	c.AddEndpoint(topology.EndpointTCP("tcp", 8091))
	c.AddEndpoint(topology.EndpointTCP("tcp", 8092))
	c.AddEndpoint(topology.Endpoint{Name: "bad", Scheme: "gopher", TargetPort: 70})
	c.AddEndpoint(topology.EndpointTCP("zero", 0))

	err := app.Err()
	is.True(errors.Is(err, topology.ErrInvalidImage))
	is.True(errors.Is(err, topology.ErrDuplicateEndpoint))
	is.True(errors.Is(err, topology.ErrInvalidEndpoint))
	is.Equal(len(c.Endpoints()), 3) // duplicate ignored
}

func TestErr_InvalidImageReference(t *testing.T) {
	is := is.New(t)
	app := topology.New("shop")

	c := topology.Add(app, topology.NewContainer("db"))
	c.SetImage("Library/UPPER", "7.6.1")

	is.True(errors.Is(app.Err(), topology.ErrInvalidImage))
}

func TestErr_ValidTopology(t *testing.T) {
	is := is.New(t)
	app, _ := newDB(t)
	is.NoErr(app.Err())
}

func TestSetHostPort_UndeclaredEndpoint(t *testing.T) {
	is := is.New(t)
	app, db := newDB(t)

	db.SetHostPort("admin", 9000)
	is.True(errors.Is(app.Err(), topology.ErrInvalidEndpoint))
}

func TestEndpoints_ReturnsCopy(t *testing.T) {
	is := is.New(t)
	_, db := newDB(t)

	eps := db.Endpoints()
	eps[0].TargetPort = 1

	ep, ok := db.Endpoint("tcp")
	is.True(ok)
	is.Equal(ep.TargetPort, 8091)
}
