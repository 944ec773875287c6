package typekey

import (
	"reflect"
	"sync"
)

// Key identifies a type within a Registry.
type Key int

// Registry issues keys for types. The zero value is not usable; call New.
type Registry struct {
	mu    sync.RWMutex
	keys  map[reflect.Type]Key
	types []reflect.Type
}

// New creates an empty registry. The first key it issues is 0.
func New() *Registry {
	return &Registry{
		keys: make(map[reflect.Type]Key),
	}
}

var defaultRegistry = New()

// Default returns the process-wide registry used by For.
func Default() *Registry {
	return defaultRegistry
}

// Of returns the key of T in r, allocating the next sequential key on first use.
func Of[T any](r *Registry) Key {
	return r.key(reflect.TypeFor[T]())
}

// For returns the key of T in the process-wide registry.
func For[T any]() Key {
	return Of[T](defaultRegistry)
}

func (r *Registry) key(t reflect.Type) Key {
	r.mu.RLock()
	k, ok := r.keys[t]
	r.mu.RUnlock()
	if ok {
		return k
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have registered t between the two locks.
	if k, ok := r.keys[t]; ok {
		return k
	}

	k = Key(len(r.types))
	r.keys[t] = k
	r.types = append(r.types, t)

	return k
}

// Lookup reports the key of t without allocating one.
func (r *Registry) Lookup(t reflect.Type) (Key, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	k, ok := r.keys[t]
	return k, ok
}

// TypeOf returns the type registered under k.
func (r *Registry) TypeOf(k Key) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if k < 0 || int(k) >= len(r.types) {
		return nil, false
	}
	return r.types[k], true
}

// Len returns the number of keys issued so far.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.types)
}
