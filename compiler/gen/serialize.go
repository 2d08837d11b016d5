package gen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/gqlreq"
	"github.com/syssam/gqlreq/schema"
	"github.com/syssam/gqlreq/schema/field"
)

// Serialize returns the input variable of a mutation on instance, keyed by
// target field name.
//
// Create and update emit every non-null field; a null required field fails
// with RequiredFieldMissingError. Delete emits the identifier fields only.
// Relation fields emit the identifier of the related value, never the
// related object. The instance is read, never modified.
func Serialize(instance any, s *schema.Schema, t gqlreq.MutationType) (map[string]any, error) {
	if !t.Valid() {
		return nil, gqlreq.NewUnsupportedOperationError(t.Operation(), t.Verb())
	}
	values, err := s.Values(instance)
	if err != nil {
		return nil, err
	}
	if t == gqlreq.MutationDelete {
		return serializeIDs(values, s)
	}
	input := make(map[string]any, len(values))
	for _, f := range s.SortedFields() {
		v, err := fieldValue(f, values[f.Name])
		if err != nil {
			return nil, fmt.Errorf("serializing %s.%s: %w", s.Name(), f.Name, err)
		}
		if v == nil {
			if f.Required {
				return nil, gqlreq.NewRequiredFieldMissingError(s.Name(), f.Target())
			}
			continue
		}
		input[f.Target()] = v
	}
	return input, nil
}

func serializeIDs(values map[string]any, s *schema.Schema) (map[string]any, error) {
	ids := s.IDFields()
	if len(ids) == 0 {
		return nil, gqlreq.NewUnknownFieldError(s.Name(), "id")
	}
	input := make(map[string]any, len(ids))
	for _, f := range ids {
		v, err := fieldValue(f, values[f.Name])
		if err != nil {
			return nil, fmt.Errorf("serializing %s.%s: %w", s.Name(), f.Name, err)
		}
		if v == nil {
			return nil, gqlreq.NewRequiredFieldMissingError(s.Name(), f.Target())
		}
		input[f.Target()] = v
	}
	return input, nil
}

// fieldValue coerces the value of f into a transportable value. Nil means
// the field is null.
func fieldValue(f *field.Descriptor, v any) (any, error) {
	if schema.IsNil(v) {
		return nil, nil
	}
	if f.IsRelation() {
		id, ok := schema.RelatedID(v, f.RelatedKey)
		if !ok {
			return nil, fmt.Errorf("related %s value %T has no %q", f.RelatedModel, v, f.RelatedKey)
		}
		if schema.IsNil(id) {
			return nil, nil
		}
		return identifier(id)
	}
	switch f.Type {
	case field.TypeID, field.TypeUUID:
		if f.List {
			return coerce(v)
		}
		return identifier(v)
	case field.TypeJSON:
		return jsonString(v)
	default:
		return coerce(v)
	}
}

// identifier coerces an identifier value: Stringers are sent as strings.
func identifier(v any) (any, error) {
	switch id := v.(type) {
	case uuid.UUID:
		return id.String(), nil
	case fmt.Stringer:
		return id.String(), nil
	}
	return coerce(v)
}

// jsonString encodes a value for an AWSJSON field. Strings and raw messages
// are assumed to hold JSON already.
func jsonString(v any) (any, error) {
	switch j := v.(type) {
	case string:
		return j, nil
	case json.RawMessage:
		return string(j), nil
	case []byte:
		return string(j), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

var timeType = reflect.TypeOf(time.Time{})

// coerce converts v to a value built from strings, numbers, booleans,
// []any and map[string]any. Named types collapse to their base kind.
func coerce(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return x, nil
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano), nil
	case uuid.UUID:
		return x.String(), nil
	case json.Number:
		return number(x), nil
	case json.RawMessage:
		return decodeJSON(x)
	case []byte:
		return x, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return coerce(rv.Elem().Interface())
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		fallthrough
	case reflect.Array:
		list := make([]any, rv.Len())
		for i := range list {
			e, err := coerce(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			list[i] = e
		}
		return list, nil
	case reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			e, err := coerce(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			m[mapKey(iter.Key())] = e
		}
		return m, nil
	case reflect.Struct:
		if rv.Type().ConvertibleTo(timeType) {
			return coerce(rv.Convert(timeType).Interface())
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return decodeJSON(b)
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

// decodeJSON decodes a JSON value, turning integral numbers into int64
// rather than float64.
func decodeJSON(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return coerce(v)
}

// number converts n to int64 or float64. Numbers fitting neither stay in
// their literal form as a string.
func number(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
