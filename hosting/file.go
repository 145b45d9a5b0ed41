package hosting

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"github.com/matgreaves/couchrig/topology"
)

// File is the YAML form of a Couchbase topology.
//
//	name: shop
//	couchbase:
//	  - name: db
//	    port: 18091
//	    dataVolume: {}
//	    initBindMount:
//	      source: ./init
//	    syncGateway:
//	      port: 4984
type File struct {
	Name      string       `yaml:"name"`
	Couchbase []ServerFile `yaml:"couchbase"`
}

// ServerFile declares one Couchbase server.
type ServerFile struct {
	Name          string           `yaml:"name"`
	Port          int              `yaml:"port"`
	DataVolume    *VolumeFile      `yaml:"dataVolume"`
	DataBindMount *BindMountFile   `yaml:"dataBindMount"`
	InitBindMount *BindMountFile   `yaml:"initBindMount"`
	SyncGateway   *SyncGatewayFile `yaml:"syncGateway"`
}

// VolumeFile declares a named volume. An empty name is generated.
type VolumeFile struct {
	Name     string `yaml:"name"`
	ReadOnly bool   `yaml:"readOnly"`
}

// BindMountFile declares a bind mount. ReadOnly left unset takes the
// default of the mount it configures.
type BindMountFile struct {
	Source   string `yaml:"source"`
	ReadOnly *bool  `yaml:"readOnly"`
}

// SyncGatewayFile declares the Sync Gateway sidecar of a server.
type SyncGatewayFile struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
	Tag  string `yaml:"tag" default:"3.1.5-enterprise"`
}

// UnmarshalYAML applies default tags before decoding.
func (s *SyncGatewayFile) UnmarshalYAML(value *yaml.Node) error {
	if err := defaults.Set(s); err != nil {
		return err
	}
	type plain SyncGatewayFile
	return value.Decode((*plain)(s))
}

// LoadTopology reads a YAML topology file and declares its resources.
func LoadTopology(path string) (*topology.Application, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load topology: %w", err)
	}
	app, err := ParseTopology(data)
	if err != nil {
		return app, fmt.Errorf("%s: %w", path, err)
	}
	return app, nil
}

// ParseTopology decodes a YAML topology and declares its resources. Unknown
// fields are rejected. Declaration errors are returned together, alongside
// the application built so far.
func ParseTopology(data []byte) (*topology.Application, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse topology: %w", err)
	}
	if f.Name == "" {
		return nil, errors.New("parse topology: name is required")
	}
	app := f.Declare()
	return app, app.Err()
}

// Declare builds the application described by f.
func (f File) Declare() *topology.Application {
	app := topology.New(f.Name)
	for _, s := range f.Couchbase {
		s.declare(app)
	}
	return app
}

func (s ServerFile) declare(app *topology.Application) {
	var port []int
	if s.Port != 0 {
		port = append(port, s.Port)
	}
	r := AddCouchbase(app, s.Name, port...)

	if v := s.DataVolume; v != nil {
		r.WithDataVolume(v.Name, v.ReadOnly)
	}
	if b := s.DataBindMount; b != nil {
		r.WithDataBindMount(b.Source, optionalPtr(b.ReadOnly)...)
	}
	if b := s.InitBindMount; b != nil {
		r.WithInitBindMount(b.Source, optionalPtr(b.ReadOnly)...)
	}
	if g := s.SyncGateway; g != nil {
		r.WithSyncGateway(func(gw *SyncGatewayResource) {
			if g.Tag != "" {
				gw.WithImageTag(g.Tag)
			}
			if g.Port != 0 {
				gw.WithHostPort(g.Port)
			}
		}, g.Name)
	}
}

func optionalPtr(b *bool) []bool {
	if b == nil {
		return nil
	}
	return []bool{*b}
}
