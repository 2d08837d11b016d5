package schema

import (
	"fmt"
	"reflect"

	"github.com/syssam/gqlreq"
	"github.com/syssam/gqlreq/schema/field"
)

// Field is implemented by field builders.
type Field interface {
	Descriptor() *field.Descriptor
}

// Schema is the static description of a model type: its name, the name the
// backend knows it by, and its fields in declaration order.
// A Schema is immutable once created and safe for concurrent use.
type Schema struct {
	name     string
	target   string
	fields   []*field.Descriptor
	byName   map[string]*field.Descriptor
	byTarget map[string]*field.Descriptor
	typ      reflect.Type
	mixed    []*field.Descriptor
}

// Option configures a schema.
type Option func(*Schema)

// WithTarget sets the backend type name of the model.
func WithTarget(name string) Option {
	return func(s *Schema) { s.target = name }
}

// WithGoType records the Go type instances of the model have.
// Compiled requests report it as their response type.
func WithGoType(t reflect.Type) Option {
	return func(s *Schema) { s.typ = t }
}

// Mixin is a reusable set of fields shared by several models.
type Mixin interface {
	Fields() []Field
}

// WithMixin appends the fields of the mixins after the declared fields.
func WithMixin(mixins ...Mixin) Option {
	return func(s *Schema) {
		for _, m := range mixins {
			for _, f := range m.Fields() {
				s.mixed = append(s.mixed, f.Descriptor())
			}
		}
	}
}

// New returns the schema of the model name with the given fields.
// It fails if the name is not a GraphQL name, if a field descriptor carries
// an error, or if two fields share a name or a target name.
func New(name string, fields []Field, opts ...Option) (*Schema, error) {
	descs := make([]*field.Descriptor, 0, len(fields))
	for _, f := range fields {
		descs = append(descs, f.Descriptor())
	}
	return FromDescriptors(name, descs, opts...)
}

// MustNew is like New but panics on error.
func MustNew(name string, fields ...Field) *Schema {
	s, err := New(name, fields)
	if err != nil {
		panic(err)
	}
	return s
}

// FromDescriptors returns the schema of the model name with already built
// field descriptors. It applies the same checks as New.
func FromDescriptors(name string, descs []*field.Descriptor, opts ...Option) (*Schema, error) {
	s := &Schema{
		name:     name,
		target:   name,
		byName:   make(map[string]*field.Descriptor, len(descs)),
		byTarget: make(map[string]*field.Descriptor, len(descs)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !field.ValidName(s.name) {
		return nil, gqlreq.NewInvalidNameError(s.name, "model name is not a GraphQL name")
	}
	if !field.ValidName(s.target) {
		return nil, gqlreq.NewInvalidNameError(s.target, "target model name is not a GraphQL name")
	}
	for _, d := range append(descs[:len(descs):len(descs)], s.mixed...) {
		if d.Err != nil {
			return nil, fmt.Errorf("schema %s: %w", s.name, d.Err)
		}
		if _, ok := s.byName[d.Name]; ok {
			return nil, fmt.Errorf("schema %s: duplicate field %q", s.name, d.Name)
		}
		if _, ok := s.byTarget[d.Target()]; ok {
			return nil, fmt.Errorf("schema %s: duplicate target name %q", s.name, d.Target())
		}
		s.fields = append(s.fields, d)
		s.byName[d.Name] = d
		s.byTarget[d.Target()] = d
	}
	s.mixed = nil
	return s, nil
}

// Name returns the model name.
func (s *Schema) Name() string { return s.name }

// TargetModelName returns the backend type name of the model.
func (s *Schema) TargetModelName() string { return s.target }

// GoType returns the Go type of the model's instances, or nil.
func (s *Schema) GoType() reflect.Type { return s.typ }

// SortedFields returns the fields in declaration order.
// The returned slice must not be modified.
func (s *Schema) SortedFields() []*field.Descriptor { return s.fields }

// Field returns the field with the given source name, falling back to
// the field with that target name.
func (s *Schema) Field(name string) (*field.Descriptor, bool) {
	if f, ok := s.byName[name]; ok {
		return f, true
	}
	f, ok := s.byTarget[name]
	return f, ok
}

// IDFields returns the identifier fields. When no field is marked as an
// identifier, a field named "id" is used.
func (s *Schema) IDFields() []*field.Descriptor {
	var ids []*field.Descriptor
	for _, f := range s.fields {
		if f.ID {
			ids = append(ids, f)
		}
	}
	if len(ids) == 0 {
		if f, ok := s.Field("id"); ok {
			ids = append(ids, f)
		}
	}
	return ids
}

// Relations returns the relation fields.
func (s *Schema) Relations() []*field.Descriptor {
	var rels []*field.Descriptor
	for _, f := range s.fields {
		if f.IsRelation() {
			rels = append(rels, f)
		}
	}
	return rels
}

// String returns the model name.
func (s *Schema) String() string { return s.name }

// Provider is implemented by values that declare their own schema.
type Provider interface {
	ModelSchema() *Schema
}
