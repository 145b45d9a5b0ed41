package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matgreaves/couchrig/connect"
)

// EnvDelimiter stands in for Delimiter in environment variable names,
// which cannot contain ":".
const EnvDelimiter = "__"

// Source supplies configuration values.
type Source interface {
	load(c *Config) error
}

type sourceFunc func(c *Config) error

func (f sourceFunc) load(c *Config) error { return f(c) }

// Map is a source of literal key/value pairs.
func Map(values map[string]string) Source {
	return sourceFunc(func(c *Config) error {
		for k, v := range values {
			c.set(k, v)
		}
		return nil
	})
}

// YAML is a source parsed from a YAML document. Mappings become sections,
// sequence items are keyed by index and scalars become values.
func YAML(data []byte) Source {
	return sourceFunc(func(c *Config) error {
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("config: parse yaml: %w", err)
		}
		if len(doc.Content) == 0 {
			return nil
		}
		return flatten(c, "", doc.Content[0])
	})
}

// YAMLFile is a YAML source read from path. A missing file is an error
// unless optional is true.
func YAMLFile(path string, optional ...bool) Source {
	return sourceFunc(func(c *Config) error {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) && len(optional) > 0 && optional[0] {
				return nil
			}
			return fmt.Errorf("config: %w", err)
		}
		if err := YAML(data).load(c); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	})
}

// Env is a source read from the process environment. See EnvList.
func Env(prefix string) Source {
	return sourceFunc(func(c *Config) error {
		return EnvList(os.Environ(), prefix).load(c)
	})
}

// EnvList is a source read from KEY=value pairs. Only keys starting with
// prefix are used, with the prefix removed. "__" in a key separates
// segments, so ConnectionStrings__db sets ConnectionStrings:db.
func EnvList(environ []string, prefix string) Source {
	return sourceFunc(func(c *Config) error {
		for _, kv := range environ {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || !strings.HasPrefix(k, prefix) {
				continue
			}
			k = strings.TrimPrefix(k, prefix)
			if k == "" {
				continue
			}
			c.set(strings.ReplaceAll(k, EnvDelimiter, Delimiter), v)
		}
		return nil
	})
}

// Wiring is a source of the connection strings handed over by a
// deployment, set as ConnectionStrings:{name}. A nil w adds nothing.
func Wiring(w *connect.Wiring) Source {
	return sourceFunc(func(c *Config) error {
		if w == nil {
			return nil
		}
		for name, cs := range w.ConnectionStrings {
			c.set(Join(ConnectionStringsSection, name), cs)
		}
		return nil
	})
}

func flatten(c *Config, path string, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, child := range n.Content {
			if err := flatten(c, path, child); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if err := flatten(c, Join(path, key), n.Content[i+1]); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for i, child := range n.Content {
			if err := flatten(c, Join(path, strconv.Itoa(i)), child); err != nil {
				return err
			}
		}
	case yaml.AliasNode:
		return flatten(c, path, n.Alias)
	case yaml.ScalarNode:
		if path == "" {
			return fmt.Errorf("config: line %d: scalar document has no key", n.Line)
		}
		if n.ShortTag() == "!!null" {
			c.set(path, "")
			return nil
		}
		c.set(path, n.Value)
	}
	return nil
}
