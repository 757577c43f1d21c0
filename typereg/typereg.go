// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package typereg implements the dynamic type resolution component
// (spec.md §2 "Dynamic type resolution", §9 redesign note): given a
// type name obtained from a header (e.g. via Serializer.PeekHeader),
// obtain the Go function that knows how to serialize/deserialize that
// type. The original C toolkit resolved this via a dynamic-library
// symbol lookup; Go has no portable arbitrary-symbol dlopen equivalent,
// so this is a static, init()-time registry instead — the redesign
// spec.md §9 calls for.
package typereg

import (
	"fmt"
	"sync"

	"code.hybscloud.com/tbserialize/serialize"
)

// SerializeFunc serializes or deserializes (depending on s's mode) the
// value behind ptr under name. Every registered type implements this
// signature; ptr is typically a *T for the registered type T.
type SerializeFunc func(ptr interface{}, name string, s *serialize.Serializer) error

var (
	mu       sync.RWMutex
	registry = map[string]SerializeFunc{}
	factory  = map[string]func() interface{}{}
)

// Register binds typeName to fn and, optionally, a zero-value factory
// used by sutil.Utility to allocate a fresh instance before Read. Re-
// registering the same name overwrites the previous binding, mirroring
// a dynamic loader's last-one-wins symbol resolution across reloads.
func Register(typeName string, fn SerializeFunc, newFn func() interface{}) {
	mu.Lock()
	defer mu.Unlock()
	registry[typeName] = fn
	if newFn != nil {
		factory[typeName] = newFn
	}
}

// Lookup returns the SerializeFunc registered for typeName, or an error
// if no type with that name was ever Registered.
func Lookup(typeName string) (SerializeFunc, error) {
	mu.RLock()
	defer mu.RUnlock()
	fn, ok := registry[typeName]
	if !ok {
		return nil, fmt.Errorf("typereg: no serialize function registered for type %q", typeName)
	}
	return fn, nil
}

// New allocates a fresh zero-value instance for typeName using its
// registered factory, or an error if typeName has none.
func New(typeName string) (interface{}, error) {
	mu.RLock()
	defer mu.RUnlock()
	newFn, ok := factory[typeName]
	if !ok {
		return nil, fmt.Errorf("typereg: no zero-value factory registered for type %q", typeName)
	}
	return newFn(), nil
}

// Names returns every currently-registered type name, for diagnostics.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}
