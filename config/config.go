// Package config is a hierarchical key/value configuration store.
//
// Keys are paths of segments separated by ":" and compared
// case-insensitively. Values come from sources applied in order, later
// sources overriding earlier ones:
//
//	cfg, err := config.New(
//	    config.YAMLFile("appsettings.yaml"),
//	    config.Env(""),
//	)
//	cs, ok := cfg.ConnectionString("db")
package config

import (
	"sort"
	"strings"
)

// Delimiter separates key segments.
const Delimiter = ":"

// ConnectionStringsSection holds named connection strings.
const ConnectionStringsSection = "ConnectionStrings"

// Config is an immutable set of configuration values. It is safe for
// concurrent use.
type Config struct {
	values map[string]string // lowercased key -> value
	keys   map[string]string // lowercased key -> key as first seen
}

// New builds a Config from sources, applied in order.
func New(sources ...Source) (*Config, error) {
	c := &Config{
		values: make(map[string]string),
		keys:   make(map[string]string),
	}
	for _, s := range sources {
		if err := s.load(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Config) set(key, value string) {
	k := strings.ToLower(key)
	if _, ok := c.keys[k]; !ok {
		c.keys[k] = key
	}
	c.values[k] = value
}

// Get returns the value at key.
func (c *Config) Get(key string) (string, bool) {
	v, ok := c.values[strings.ToLower(key)]
	return v, ok
}

// Keys returns every key in sorted order, in the case it was first given.
func (c *Config) Keys() []string {
	out := make([]string, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Section returns the subtree at path. The section need not exist.
func (c *Config) Section(path string) Section {
	return Section{cfg: c, path: path}
}

// ConnectionString returns the named connection string, stored at
// "ConnectionStrings:{name}".
func (c *Config) ConnectionString(name string) (string, bool) {
	return c.Get(Join(ConnectionStringsSection, name))
}

// Join joins key segments with Delimiter, skipping empty ones.
func Join(segments ...string) string {
	var parts []string
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, Delimiter)
}

// Section is a view of the keys under a path.
type Section struct {
	cfg  *Config
	path string
}

// Path returns the full path of the section.
func (s Section) Path() string { return s.path }

// Get returns the value at key relative to the section.
func (s Section) Get(key string) (string, bool) {
	return s.cfg.Get(Join(s.path, key))
}

// Section returns the child section at key.
func (s Section) Section(key string) Section {
	return Section{cfg: s.cfg, path: Join(s.path, key)}
}

// Exists reports whether the section has a value or any descendant.
func (s Section) Exists() bool {
	if _, ok := s.cfg.Get(s.path); ok {
		return true
	}
	prefix := strings.ToLower(s.path) + Delimiter
	for k := range s.cfg.values {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}
