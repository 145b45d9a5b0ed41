package spec_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matgreaves/couchrig/spec"
)

func TestProtocolValid(t *testing.T) {
	tests := []struct {
		p    spec.Protocol
		want bool
	}{
		{spec.TCP, true},
		{spec.HTTP, true},
		{spec.HTTPS, true},
		{"grpc", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.p.Valid(); got != tt.want {
			t.Errorf("Protocol(%q).Valid() = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestImageReference(t *testing.T) {
	tests := []struct {
		img  spec.Image
		want string
	}{
		{spec.Image{Registry: "docker.io", Repository: "library/couchbase", Tag: "7.6.1"}, "docker.io/library/couchbase:7.6.1"},
		{spec.Image{Repository: "couchbase", Tag: "latest"}, "couchbase:latest"},
		{spec.Image{Registry: "ghcr.io", Repository: "acme/gw"}, "ghcr.io/acme/gw"},
	}
	for _, tt := range tests {
		if got := tt.img.Reference(); got != tt.want {
			t.Errorf("Reference() = %q, want %q", got, tt.want)
		}
	}
}

func TestBindingPortSerializesNull(t *testing.T) {
	b := spec.Binding{Scheme: spec.TCP, TargetPort: 8091}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	port, ok := raw["port"]
	if !ok {
		t.Fatal("expected port key to be present")
	}
	if port != nil {
		t.Errorf("expected unassigned port to serialize as null, got %v", port)
	}
}

func TestResourceOmitsEmptyFields(t *testing.T) {
	r := spec.Resource{
		Type:  spec.ContainerType,
		Image: spec.Image{Repository: "couchbase"},
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"bindings", "mounts", "connectionString", "excludeFromManifest"} {
		if _, ok := raw[key]; ok {
			t.Errorf("expected %s to be omitted", key)
		}
	}
}

func TestDecodeManifest_Valid(t *testing.T) {
	raw := `{
		"name": "shop",
		"resources": {
			"db": {
				"type": "container.v0",
				"image": {"registry": "docker.io", "repository": "library/couchbase", "tag": "7.6.1"},
				"connectionString": "couchbases://{db.bindings.tcp.host}:{db.bindings.tcp.port}",
				"bindings": {"tcp": {"scheme": "tcp", "targetPort": 8091, "port": null}},
				"mounts": [{"type": "volume", "source": "shop-data", "target": "/data/db"}]
			},
			"db-sync-gateway": {
				"type": "container.v0",
				"image": {"repository": "library/couchbase/sync-gateway"},
				"bindings": {"http": {"scheme": "http", "targetPort": 4984, "port": 4984}},
				"excludeFromManifest": true
			}
		}
	}`

	m, err := spec.DecodeManifest([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "shop" {
		t.Errorf("name: got %q", m.Name)
	}
	if len(m.Resources) != 2 {
		t.Fatalf("resources: got %d", len(m.Resources))
	}
	db := m.Resources["db"]
	if db.Bindings["tcp"].Port != nil {
		t.Errorf("db tcp port: expected nil, got %v", *db.Bindings["tcp"].Port)
	}
	if db.Bindings["tcp"].TargetPort != 8091 {
		t.Errorf("db tcp target port: got %d", db.Bindings["tcp"].TargetPort)
	}
	gw := m.Resources["db-sync-gateway"]
	if !gw.ExcludeFromManifest {
		t.Error("expected sync gateway to be excluded from manifest")
	}
	if p := gw.Bindings["http"].Port; p == nil || *p != 4984 {
		t.Errorf("gateway http port: got %v", p)
	}
}

func TestDecodeManifest_DuplicateResourceNames(t *testing.T) {
	raw := `{
		"name": "shop",
		"resources": {
			"db": {"type": "container.v0"},
			"db": {"type": "container.v0"}
		}
	}`

	_, err := spec.DecodeManifest([]byte(raw))
	if err == nil {
		t.Fatal("expected error for duplicate resource names")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("expected duplicate key error, got: %v", err)
	}
}

func TestDecodeManifest_DuplicateBindingNames(t *testing.T) {
	raw := `{
		"name": "shop",
		"resources": {
			"db": {
				"type": "container.v0",
				"bindings": {
					"tcp": {"scheme": "tcp", "targetPort": 8091},
					"tcp": {"scheme": "tcp", "targetPort": 8092}
				}
			}
		}
	}`

	_, err := spec.DecodeManifest([]byte(raw))
	if err == nil {
		t.Fatal("expected error for duplicate binding names")
	}
	if !strings.Contains(err.Error(), "db") {
		t.Errorf("expected error to name the resource, got: %v", err)
	}
}

func TestDecodeManifest_InvalidJSON(t *testing.T) {
	if _, err := spec.DecodeManifest([]byte(`{"name": `)); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestDecodeManifest_DuplicateNestedKey(t *testing.T) {
	raw := `{
		"name": "shop",
		"resources": {
			"db": {
				"type": "container.v0",
				"image": {"repository": "library/couchbase", "tag": "7.6.1", "tag": "latest"}
			}
		}
	}`

	_, err := spec.DecodeManifest([]byte(raw))
	if err == nil {
		t.Fatal("expected error for duplicate image key")
	}
	if !strings.Contains(err.Error(), "resources.db.image") {
		t.Errorf("expected error to locate the key, got: %v", err)
	}
}

func TestDecodeManifest_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown type":   `{"name": "shop", "resources": {"db": {"type": "project.v0"}}}`,
		"unknown field":  `{"name": "shop", "resources": {"db": {"type": "container.v0", "replicas": 3}}}`,
		"unknown scheme": `{"name": "shop", "resources": {"db": {"type": "container.v0", "bindings": {"tcp": {"scheme": "udp", "targetPort": 8091}}}}}`,
		"unknown mount":  `{"name": "shop", "resources": {"db": {"type": "container.v0", "mounts": [{"type": "tmpfs", "target": "/tmp"}]}}}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := spec.DecodeManifest([]byte(raw)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
