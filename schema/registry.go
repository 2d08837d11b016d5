package schema

import (
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry caches schemas by Go type. Each type is parsed at most once, even
// under concurrent first access; later lookups are lock-free map reads.
// Failed parses are not cached. A zero Registry is ready to use.
type Registry struct {
	types sync.Map // reflect.Type -> *Schema
	names sync.Map // model name -> *Schema
	group singleflight.Group
	parse func(reflect.Type) (*Schema, error)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{parse: Parse}
}

// Default is the process-wide registry used when no registry is configured.
var Default = NewRegistry()

// For returns the schema of the model v from the default registry.
func For(v any) (*Schema, error) {
	return Default.Schema(v)
}

// Schema returns the schema of the model v, which may be a *Schema, a
// Provider, a reflect.Type, or any struct value or pointer to struct
// (including a typed nil pointer).
func (r *Registry) Schema(v any) (*Schema, error) {
	switch m := v.(type) {
	case nil:
		return nil, fmt.Errorf("schema: nil model")
	case *Schema:
		return m, nil
	case Provider:
		if s := m.ModelSchema(); s != nil {
			return s, nil
		}
	case reflect.Type:
		return r.Type(m)
	}
	return r.Type(reflect.TypeOf(v))
}

// Type returns the schema of the Go type t, parsing it on first use.
func (r *Registry) Type(t reflect.Type) (*Schema, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return nil, fmt.Errorf("schema: nil model type")
	}
	if s, ok := r.types.Load(t); ok {
		return s.(*Schema), nil
	}
	v, err, _ := r.group.Do(typeKey(t), func() (any, error) {
		if s, ok := r.types.Load(t); ok {
			return s, nil
		}
		parse := r.parse
		if parse == nil {
			parse = Parse
		}
		s, err := parse(t)
		if err != nil {
			return nil, err
		}
		r.types.Store(t, s)
		r.names.LoadOrStore(s.Name(), s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Schema), nil
}

// Register adds an explicitly built schema, making it available by name.
// If the schema has a Go type, lookups by that type return it as well.
func (r *Registry) Register(s *Schema) {
	r.names.Store(s.Name(), s)
	if t := s.GoType(); t != nil {
		r.types.Store(t, s)
	}
}

// Lookup returns a registered or already parsed schema by model name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	s, ok := r.names.Load(name)
	if !ok {
		return nil, false
	}
	return s.(*Schema), true
}

// typeKey identifies a type for singleflight. Distinct types may share a
// name and package (function-local or anonymous types), so the key is the
// address of the type descriptor.
func typeKey(t reflect.Type) string {
	return fmt.Sprintf("%p", t)
}
