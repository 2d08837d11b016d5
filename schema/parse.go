package schema

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/syssam/gqlreq/schema/field"
)

// TagName is the struct tag read by Parse:
//
//	type Todo struct {
//	    ID      string `graphql:"id,id"`
//	    Name    string `graphql:"name,required"`
//	    Done    bool
//	    Owner   *User  `graphql:"todoOwnerId,relation=User"`
//	    Secret  string `graphql:"-"`
//	}
//
// The first element is the target name (empty keeps the default).
// Options: id, required, relation=<Model>, key=<field>, type=<field type>.
const TagName = "graphql"

// Namer is implemented by Go model types whose model name differs from
// their type name.
type Namer interface {
	ModelName() string
}

type tag struct {
	name     string
	id       bool
	required bool
	relation string
	key      string
	typ      string
}

func parseTag(s string) tag {
	parts := strings.Split(s, ",")
	t := tag{name: strings.TrimSpace(parts[0])}
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		k, v, _ := strings.Cut(p, "=")
		switch k {
		case "id":
			t.id = true
		case "required":
			t.required = true
		case "relation":
			t.relation = v
		case "key":
			t.key = v
		case "type":
			t.typ = v
		}
	}
	return t
}

var (
	timeType      = reflect.TypeOf(time.Time{})
	uuidType      = reflect.TypeOf(uuid.UUID{})
	textMarshaler = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	namerType     = reflect.TypeOf((*Namer)(nil)).Elem()
)

// isScalarStruct reports whether a struct type is sent as a scalar.
func isScalarStruct(t reflect.Type) bool {
	return t == timeType || t.Implements(textMarshaler) || reflect.PointerTo(t).Implements(textMarshaler)
}

// Parse derives the schema of a Go struct type from its exported fields and
// their `graphql` tags. Untagged fields target the lower camel form of their
// Go name. A field named ID, or tagged id, is the identifier.
//
// Parse does not cache; use a Registry for repeated lookups.
func Parse(t reflect.Type) (*Schema, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: unsupported model type %v", t)
	}
	name := t.Name()
	if t.Implements(namerType) {
		name = reflect.Zero(t).Interface().(Namer).ModelName()
	} else if reflect.PointerTo(t).Implements(namerType) {
		name = reflect.New(t).Interface().(Namer).ModelName()
	}
	var (
		descs []*field.Descriptor
		hasID bool
	)
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		raw, tagged := sf.Tag.Lookup(TagName)
		if raw == "-" {
			continue
		}
		tg := parseTag(raw)
		target := tg.name
		if target == "" {
			target = lowerCamel(sf.Name)
		}
		b, err := builderFor(sf, tg)
		if err != nil {
			return nil, fmt.Errorf("schema %s: field %s: %w", name, sf.Name, err)
		}
		b.Target(target)
		if tg.required {
			b.Required()
		}
		if tg.id || (!tagged && sf.Name == "ID") {
			b.Identifier()
			hasID = true
		}
		descs = append(descs, b.Descriptor())
	}
	if !hasID {
		for _, d := range descs {
			if d.Target() == "id" {
				d.ID = true
			}
		}
	}
	return FromDescriptors(name, descs, WithGoType(t))
}

func builderFor(sf reflect.StructField, tg tag) (*field.Builder, error) {
	if tg.relation != "" {
		b := field.Relation(sf.Name, tg.relation)
		if tg.key != "" {
			b.Key(tg.key)
		}
		return b, nil
	}
	if tg.typ != "" {
		typ, err := field.ParseType(tg.typ)
		if err != nil {
			return nil, err
		}
		b := builderOf(sf.Name, typ)
		if sf.Type.Kind() == reflect.Slice && typ != field.TypeJSON {
			b.List()
		}
		return b, nil
	}
	if tg.id || sf.Name == "ID" {
		return field.ID(sf.Name), nil
	}
	t := sf.Type
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	list := false
	if t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8 {
		list = true
		t = t.Elem()
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
	}
	typ, err := kindType(t)
	if err != nil {
		return nil, err
	}
	b := builderOf(sf.Name, typ)
	if list {
		b.List()
	}
	return b, nil
}

func builderOf(name string, t field.Type) *field.Builder {
	switch t {
	case field.TypeID:
		return field.ID(name)
	case field.TypeString:
		return field.String(name)
	case field.TypeInt:
		return field.Int(name)
	case field.TypeFloat:
		return field.Float(name)
	case field.TypeBool:
		return field.Bool(name)
	case field.TypeTime:
		return field.Time(name)
	case field.TypeUUID:
		return field.UUID(name)
	case field.TypeEnum:
		return field.Enum(name)
	default:
		return field.JSON(name)
	}
}

func kindType(t reflect.Type) (field.Type, error) {
	switch {
	case t == timeType:
		return field.TypeTime, nil
	case t == uuidType:
		return field.TypeUUID, nil
	}
	switch t.Kind() {
	case reflect.String:
		return field.TypeString, nil
	case reflect.Bool:
		return field.TypeBool, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return field.TypeInt, nil
	case reflect.Float32, reflect.Float64:
		return field.TypeFloat, nil
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array, reflect.Interface:
		return field.TypeJSON, nil
	default:
		return field.TypeInvalid, fmt.Errorf("unsupported kind %s", t.Kind())
	}
}

// lowerCamel lower-cases the leading word of a Go identifier, keeping
// initialisms together: ID -> id, URLPath -> urlPath, DueDate -> dueDate.
func lowerCamel(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	if n == 0 {
		return s
	}
	if n > 1 && n < len(runes) {
		// URLPath: the last upper rune starts the next word.
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
