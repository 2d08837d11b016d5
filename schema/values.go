package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Valuer is implemented by model instances that expose their field values
// directly, keyed by source field name.
type Valuer interface {
	Values() map[string]any
}

// Identifier is implemented by model instances that expose their identifier.
// Relation fields holding such a value serialize to ModelID.
type Identifier interface {
	ModelID() any
}

// Values returns the field values of instance keyed by source field name.
// Fields the instance does not carry are absent from the result.
//
// The instance may be a Valuer, a map[string]any keyed by source or target
// names, or a struct (or pointer to struct) whose fields are matched by
// `graphql` tag, then by name.
func (s *Schema) Values(instance any) (map[string]any, error) {
	if isNil(instance) {
		return nil, fmt.Errorf("schema %s: nil instance", s.name)
	}
	switch v := instance.(type) {
	case Valuer:
		return s.fromMap(v.Values()), nil
	case map[string]any:
		return s.fromMap(v), nil
	}
	rv := reflect.Indirect(reflect.ValueOf(instance))
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("schema %s: nil instance", s.name)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema %s: unsupported instance type %T", s.name, instance)
	}
	values := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		if fv, ok := structField(rv, f.Name, f.Target()); ok {
			values[f.Name] = fv.Interface()
		}
	}
	return values, nil
}

func (s *Schema) fromMap(m map[string]any) map[string]any {
	values := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		if v, ok := m[f.Name]; ok {
			values[f.Name] = v
		} else if v, ok := m[f.Target()]; ok {
			values[f.Name] = v
		}
	}
	return values
}

// RelatedID returns the identifier held by a relation value, read from key.
// Scalars are identifiers already; Identifier values, maps and structs are
// read through ModelID or their key field. A nil value yields (nil, true).
func RelatedID(v any, key string) (any, bool) {
	if isNil(v) {
		return nil, true
	}
	switch rel := v.(type) {
	case Identifier:
		return rel.ModelID(), true
	case map[string]any:
		id, ok := rel[key]
		return id, ok
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, true
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct || isScalarStruct(rv.Type()) {
		return rv.Interface(), true
	}
	if fv, ok := structField(rv, key, key); ok {
		return fv.Interface(), true
	}
	return nil, false
}

// isNil reports whether v is nil or a nil pointer, map, slice or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// IsNil reports whether a field value counts as null: nil itself or a nil
// pointer, map, slice or interface.
func IsNil(v any) bool { return isNil(v) }

// structField looks up a struct field by `graphql` tag name, then by exact
// Go name, then case-insensitively.
func structField(rv reflect.Value, name, target string) (reflect.Value, bool) {
	fields := reflect.VisibleFields(rv.Type())
	for _, sf := range fields {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		if tag := parseTag(sf.Tag.Get(TagName)); tag.name != "" && tag.name != "-" && (tag.name == target || tag.name == name) {
			return fieldByIndex(rv, sf.Index)
		}
	}
	for _, sf := range fields {
		if sf.IsExported() && !sf.Anonymous && sf.Name == name && sf.Tag.Get(TagName) != "-" {
			return fieldByIndex(rv, sf.Index)
		}
	}
	for _, sf := range fields {
		if !sf.IsExported() || sf.Anonymous || sf.Tag.Get(TagName) == "-" {
			continue
		}
		if strings.EqualFold(sf.Name, name) || strings.EqualFold(sf.Name, target) {
			return fieldByIndex(rv, sf.Index)
		}
	}
	return reflect.Value{}, false
}

// fieldByIndex is reflect.Value.FieldByIndex that reports nil embedded
// pointers as missing instead of panicking.
func fieldByIndex(rv reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return reflect.Value{}, false
			}
			rv = rv.Elem()
		}
		rv = rv.Field(x)
	}
	return rv, true
}
