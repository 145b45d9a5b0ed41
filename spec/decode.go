package spec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// DecodeManifest decodes a manifest from JSON. It is stricter than
// encoding/json: repeated keys at any depth, unknown fields, resources
// of a type other than ContainerType and malformed bindings or mounts are
// all errors.
func DecodeManifest(data []byte) (Manifest, error) {
	if err := walkObjects(json.NewDecoder(bytes.NewReader(data)), ""); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}

	var m Manifest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	for name, r := range m.Resources {
		if err := r.check(); err != nil {
			return Manifest{}, fmt.Errorf("decode manifest: resource %q: %w", name, err)
		}
	}
	return m, nil
}

func (r Resource) check() error {
	if r.Type != ContainerType {
		return fmt.Errorf("unsupported type %q", r.Type)
	}
	for name, b := range r.Bindings {
		if !b.Scheme.Valid() {
			return fmt.Errorf("binding %q: unknown scheme %q", name, b.Scheme)
		}
	}
	for i, m := range r.Mounts {
		if m.Type != MountVolume && m.Type != MountBind {
			return fmt.Errorf("mount %d: unknown type %q", i, m.Type)
		}
	}
	return nil
}

// walkObjects consumes one JSON value from dec and fails on the first
// object that repeats a key. path locates the value in error messages,
// e.g. "resources.db.bindings".
func walkObjects(dec *json.Decoder, path string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		seen := make(map[string]bool)
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			key, _ := tok.(string)
			if seen[key] {
				return fmt.Errorf("%s: duplicate key %q", describe(path), key)
			}
			seen[key] = true
			if err := walkObjects(dec, join(path, key)); err != nil {
				return err
			}
		}
	case '[':
		for i := 0; dec.More(); i++ {
			if err := walkObjects(dec, path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
	default:
		return errors.New("unexpected " + delim.String())
	}

	// Closing delimiter.
	_, err = dec.Token()
	return err
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func describe(path string) string {
	if path == "" {
		return "manifest"
	}
	return path
}
