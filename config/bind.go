package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Bind sets the fields of the struct pointed to by v from the section.
// Fields are matched by their `config` tag or, without one, by field name,
// case-insensitively. Nested structs bind from child sections. Fields with
// no value in the section are left unchanged, so defaults set beforehand
// survive.
//
// Values are weakly typed, so "true", "30s" and "5" bind to bool,
// time.Duration and int fields. Children keyed 0..n bind to slices.
func (s Section) Bind(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: bind %s: want non-nil struct pointer, got %T", s.path, v)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result: v,
	})
	if err != nil {
		return fmt.Errorf("config: bind %s: %w", s.path, err)
	}
	if err := dec.Decode(s.tree()); err != nil {
		return fmt.Errorf("config: bind %s: %w", s.path, err)
	}
	return nil
}

// tree expands the flat keys under the section into nested maps, one level
// per key segment.
func (s Section) tree() map[string]any {
	prefix := ""
	if s.path != "" {
		prefix = strings.ToLower(s.path) + Delimiter
	}
	keys := make([]string, 0, len(s.cfg.values))
	for k := range s.cfg.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	// Shorter keys first, so a parent value is replaced by its children.
	sort.Strings(keys)

	root := make(map[string]any)
	for _, k := range keys {
		segments := strings.Split(strings.TrimPrefix(k, prefix), Delimiter)
		node := root
		for _, seg := range segments[:len(segments)-1] {
			child, ok := node[seg].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[seg] = child
			}
			node = child
		}
		leaf := segments[len(segments)-1]
		if _, ok := node[leaf].(map[string]any); !ok {
			node[leaf] = s.cfg.values[k]
		}
	}
	for k, child := range root {
		root[k] = listify(child)
	}
	return root
}

// listify turns maps keyed exactly 0..n-1 into slices.
func listify(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k, child := range m {
		m[k] = listify(child)
	}
	if len(m) == 0 {
		return m
	}
	list := make([]any, len(m))
	for k, child := range m {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 || i >= len(m) || strconv.Itoa(i) != k {
			return m
		}
		list[i] = child
	}
	return list
}
