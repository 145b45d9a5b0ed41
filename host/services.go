package host

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	// ErrNotRegistered is returned when resolving a service that was never
	// registered.
	ErrNotRegistered = errors.New("service not registered")

	// ErrDuplicateKey is returned when registering a service type under a
	// key it is already registered with.
	ErrDuplicateKey = errors.New("service already registered")

	// ErrFactoryPanic is returned when a service factory panicked. The
	// failure is cached like any other factory error.
	ErrFactoryPanic = errors.New("service factory panicked")
)

// Factory constructs a service.
type Factory[T any] func(h *Host) (T, error)

type serviceKey struct {
	typ   reflect.Type
	keyed bool
	key   string
}

func (k serviceKey) String() string {
	if !k.keyed {
		return k.typ.String()
	}
	return fmt.Sprintf("%s[%q]", k.typ, k.key)
}

type entry struct {
	once    sync.Once
	factory func(*Host) (any, error)
	value   any
	err     error
}

func (e *entry) get(h *Host) (any, error) {
	e.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				e.value, e.err = nil, fmt.Errorf("%w: %v", ErrFactoryPanic, r)
			}
		}()
		e.value, e.err = e.factory(h)
	})
	return e.value, e.err
}

// Services is a registry of singletons keyed by type and optional key.
// Each singleton is constructed at most once, on first resolution, and
// cached. Concurrent first resolutions wait for the single construction.
type Services struct {
	mu      sync.Mutex
	entries map[serviceKey]*entry
}

// NewServices returns an empty registry.
func NewServices() *Services {
	return &Services{entries: make(map[serviceKey]*entry)}
}

func (s *Services) add(k serviceKey, f func(*Host) (any, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[k]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, k)
	}
	s.entries[k] = &entry{factory: f}
	return nil
}

func (s *Services) lookup(k serviceKey) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[k]
	return e, ok
}

// Len returns the number of registrations.
func (s *Services) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func keyOf[T any](keyed bool, key string) serviceKey {
	return serviceKey{typ: reflect.TypeFor[T](), keyed: keyed, key: key}
}

// AddSingleton registers the unkeyed singleton of type T.
func AddSingleton[T any](b *Builder, f Factory[T]) error {
	return b.Services.add(keyOf[T](false, ""), erase(f))
}

// AddKeyedSingleton registers a singleton of type T under key. Unkeyed and
// keyed registrations of the same type are independent.
func AddKeyedSingleton[T any](b *Builder, key string, f Factory[T]) error {
	return b.Services.add(keyOf[T](true, key), erase(f))
}

// Resolve returns the unkeyed singleton of type T, constructing it on
// first use.
func Resolve[T any](h *Host) (T, error) {
	return resolve[T](h, keyOf[T](false, ""))
}

// ResolveKeyed returns the singleton of type T registered under key,
// constructing it on first use.
func ResolveKeyed[T any](h *Host, key string) (T, error) {
	return resolve[T](h, keyOf[T](true, key))
}

func resolve[T any](h *Host, k serviceKey) (T, error) {
	var zero T
	e, ok := h.services.lookup(k)
	if !ok {
		return zero, fmt.Errorf("resolve %s: %w", k, ErrNotRegistered)
	}
	v, err := e.get(h)
	if err != nil {
		return zero, fmt.Errorf("resolve %s: %w", k, err)
	}
	t, _ := v.(T)
	return t, nil
}

func erase[T any](f Factory[T]) func(*Host) (any, error) {
	return func(h *Host) (any, error) {
		v, err := f(h)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}
