package field

import (
	"fmt"
	"regexp"
)

// Type is the value type of a model field.
type Type uint8

// Field types.
const (
	TypeInvalid Type = iota
	TypeID
	TypeString
	TypeInt
	TypeFloat
	TypeBool
	TypeTime
	TypeUUID
	TypeEnum
	TypeJSON
	TypeRelation
)

var typeNames = [...]string{
	TypeInvalid:  "invalid",
	TypeID:       "id",
	TypeString:   "string",
	TypeInt:      "int",
	TypeFloat:    "float",
	TypeBool:     "bool",
	TypeTime:     "time",
	TypeUUID:     "uuid",
	TypeEnum:     "enum",
	TypeJSON:     "json",
	TypeRelation: "relation",
}

// String returns the type name.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", t)
}

// ParseType parses a type name as returned by String.
func ParseType(s string) (Type, error) {
	for i, n := range typeNames {
		if n == s && Type(i) != TypeInvalid {
			return Type(i), nil
		}
	}
	return TypeInvalid, fmt.Errorf("field: unknown type %q", s)
}

// Scalar returns the backend scalar type name the field is declared with.
// Relations are stored as the identifier of the related model.
func (t Type) Scalar() string {
	switch t {
	case TypeID, TypeUUID, TypeRelation:
		return "ID"
	case TypeString, TypeEnum:
		return "String"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBool:
		return "Boolean"
	case TypeTime:
		return "AWSDateTime"
	case TypeJSON:
		return "AWSJSON"
	default:
		return ""
	}
}

// Descriptor describes a single model field.
// It is immutable once owned by a schema.
type Descriptor struct {
	Name         string   // Name in the source model
	TargetName   string   // Name known by the backend, defaults to Name
	Type         Type     // Value type
	List         bool     // Field holds a list of Type
	Required     bool     // A null value fails serialization
	ID           bool     // Field is (part of) the model identifier
	RelatedModel string   // Relation only: name of the related model
	RelatedKey   string   // Relation only: identifier field of the related model
	Enums        []string // Enum only: allowed values
	Comment      string
	Err          error
}

// IsRelation reports whether the field references another model.
func (d *Descriptor) IsRelation() bool {
	return d.Type == TypeRelation
}

// Target returns the backend name of the field.
func (d *Descriptor) Target() string {
	if d.TargetName != "" {
		return d.TargetName
	}
	return d.Name
}

// GraphQLType returns the field's type reference in the backend schema,
// e.g. "String!", "[Int]".
func (d *Descriptor) GraphQLType() string {
	t := d.Type.Scalar()
	if d.List {
		t = "[" + t + "]"
	}
	if d.Required {
		t += "!"
	}
	return t
}

var nameRE = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

// ValidName reports whether s is a valid GraphQL name.
func ValidName(s string) bool {
	return nameRE.MatchString(s)
}

// Builder is the fluent builder of a field descriptor.
type Builder struct {
	desc *Descriptor
}

func newBuilder(name string, t Type) *Builder {
	return &Builder{desc: &Descriptor{Name: name, Type: t}}
}

// ID returns a builder for an identifier field.
func ID(name string) *Builder {
	b := newBuilder(name, TypeID)
	b.desc.ID = true
	return b
}

// String returns a builder for a string field.
func String(name string) *Builder { return newBuilder(name, TypeString) }

// Int returns a builder for an integer field.
func Int(name string) *Builder { return newBuilder(name, TypeInt) }

// Float returns a builder for a floating point field.
func Float(name string) *Builder { return newBuilder(name, TypeFloat) }

// Bool returns a builder for a boolean field.
func Bool(name string) *Builder { return newBuilder(name, TypeBool) }

// Time returns a builder for a timestamp field, sent as AWSDateTime.
func Time(name string) *Builder { return newBuilder(name, TypeTime) }

// UUID returns a builder for a UUID field, sent as ID.
func UUID(name string) *Builder { return newBuilder(name, TypeUUID) }

// JSON returns a builder for an arbitrary JSON field, sent as AWSJSON.
func JSON(name string) *Builder { return newBuilder(name, TypeJSON) }

// Strings returns a builder for a list of strings.
func Strings(name string) *Builder { return newBuilder(name, TypeString).List() }

// Ints returns a builder for a list of integers.
func Ints(name string) *Builder { return newBuilder(name, TypeInt).List() }

// Enum returns a builder for an enum field holding one of values.
func Enum(name string, values ...string) *Builder {
	b := newBuilder(name, TypeEnum)
	b.desc.Enums = values
	return b
}

// Relation returns a builder for a field referencing another model.
// The field serializes to the related model's identifier only; use Target
// to name the backend foreign key, e.g.
//
//	field.Relation("owner", "User").Target("todoOwnerId")
func Relation(name, model string) *Builder {
	b := newBuilder(name, TypeRelation)
	b.desc.RelatedModel = model
	b.desc.RelatedKey = "id"
	return b
}

// Target sets the backend name of the field.
func (b *Builder) Target(name string) *Builder {
	b.desc.TargetName = name
	return b
}

// Required marks the field as required: a null value fails serialization.
func (b *Builder) Required() *Builder {
	b.desc.Required = true
	return b
}

// Optional marks the field as optional. This is the default.
func (b *Builder) Optional() *Builder {
	b.desc.Required = false
	return b
}

// List marks the field as holding a list.
func (b *Builder) List() *Builder {
	b.desc.List = true
	return b
}

// Key sets the identifier field of the related model. Relations only.
func (b *Builder) Key(name string) *Builder {
	if !b.desc.IsRelation() {
		b.desc.Err = fmt.Errorf("field %q: Key is only valid on relations", b.desc.Name)
		return b
	}
	b.desc.RelatedKey = name
	return b
}

// Identifier marks the field as part of the model identifier.
func (b *Builder) Identifier() *Builder {
	b.desc.ID = true
	return b
}

// Comment sets the field comment, emitted in generated SDL.
func (b *Builder) Comment(c string) *Builder {
	b.desc.Comment = c
	return b
}

// Descriptor implements the schema.Field interface by returning its descriptor.
func (b *Builder) Descriptor() *Descriptor {
	d := *b.desc
	if d.TargetName == "" {
		d.TargetName = d.Name
	}
	if d.Err == nil {
		switch {
		case d.Name == "":
			d.Err = fmt.Errorf("field: missing name")
		case !ValidName(d.TargetName):
			d.Err = fmt.Errorf("field %q: target name %q is not a GraphQL name", d.Name, d.TargetName)
		case d.IsRelation() && d.RelatedModel == "":
			d.Err = fmt.Errorf("field %q: relation without model", d.Name)
		}
	}
	return &d
}
