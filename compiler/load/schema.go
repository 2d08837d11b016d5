package load

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/gqlreq/schema"
	"github.com/syssam/gqlreq/schema/field"
	"github.com/syssam/gqlreq/schema/mixin"
)

// File is a model descriptor file.
type File struct {
	Models []*Schema `json:"models" yaml:"models"`
}

// Schema represents a schema.Schema that was loaded from a descriptor file
// or marshaled from a compiled schema.
type Schema struct {
	Name    string   `json:"name" yaml:"name"`
	Target  string   `json:"target,omitempty" yaml:"target,omitempty"`
	Comment string   `json:"comment,omitempty" yaml:"comment,omitempty"`
	Fields  []*Field `json:"fields,omitempty" yaml:"fields,omitempty"`
	Mixins  []string `json:"mixins,omitempty" yaml:"mixins,omitempty"`
	Pos     string   `json:"-" yaml:"-"`
}

// Field represents a field.Descriptor in its persisted form.
type Field struct {
	Name     string   `json:"name" yaml:"name"`
	Type     string   `json:"type" yaml:"type"`
	Target   string   `json:"target,omitempty" yaml:"target,omitempty"`
	List     bool     `json:"list,omitempty" yaml:"list,omitempty"`
	Required bool     `json:"required,omitempty" yaml:"required,omitempty"`
	ID       bool     `json:"id,omitempty" yaml:"id,omitempty"`
	Model    string   `json:"model,omitempty" yaml:"model,omitempty"`
	Key      string   `json:"key,omitempty" yaml:"key,omitempty"`
	Enums    []string `json:"enums,omitempty" yaml:"enums,omitempty"`
	Comment  string   `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// NewField creates a loaded field from field descriptor.
// It returns an error if the descriptor contains an error.
func NewField(fd *field.Descriptor) (*Field, error) {
	if fd.Err != nil {
		return nil, fmt.Errorf("field %q: %w", fd.Name, fd.Err)
	}
	if fd.Type == field.TypeInvalid || fd.Type.Scalar() == "" {
		return nil, fmt.Errorf("missing type info for field %q", fd.Name)
	}
	f := &Field{
		Name:     fd.Name,
		Type:     fd.Type.String(),
		List:     fd.List,
		Required: fd.Required,
		ID:       fd.ID && fd.Type != field.TypeID,
		Enums:    fd.Enums,
		Comment:  fd.Comment,
	}
	if fd.TargetName != fd.Name {
		f.Target = fd.TargetName
	}
	if fd.IsRelation() {
		f.Model = fd.RelatedModel
		if fd.RelatedKey != "id" {
			f.Key = fd.RelatedKey
		}
	}
	return f, nil
}

// Builder returns the field builder the loaded field describes.
func (f *Field) Builder() (*field.Builder, error) {
	t, err := field.ParseType(f.Type)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", f.Name, err)
	}
	var b *field.Builder
	switch t {
	case field.TypeID:
		b = field.ID(f.Name)
	case field.TypeString:
		b = field.String(f.Name)
	case field.TypeInt:
		b = field.Int(f.Name)
	case field.TypeFloat:
		b = field.Float(f.Name)
	case field.TypeBool:
		b = field.Bool(f.Name)
	case field.TypeTime:
		b = field.Time(f.Name)
	case field.TypeUUID:
		b = field.UUID(f.Name)
	case field.TypeJSON:
		b = field.JSON(f.Name)
	case field.TypeEnum:
		if len(f.Enums) == 0 {
			return nil, fmt.Errorf("field %q: enum without values", f.Name)
		}
		b = field.Enum(f.Name, f.Enums...)
	case field.TypeRelation:
		b = field.Relation(f.Name, f.Model)
		if f.Key != "" {
			b.Key(f.Key)
		}
	}
	if t != field.TypeRelation && (f.Model != "" || f.Key != "") {
		return nil, fmt.Errorf("field %q: model and key are only valid on relations", f.Name)
	}
	if f.Target != "" {
		b.Target(f.Target)
	}
	if f.List {
		b.List()
	}
	if f.Required {
		b.Required()
	}
	if f.ID {
		b.Identifier()
	}
	if f.Comment != "" {
		b.Comment(f.Comment)
	}
	return b, nil
}

// Build compiles the loaded schema.
func (s *Schema) Build() (*schema.Schema, error) {
	fields := make([]schema.Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		b, err := f.Builder()
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", s.Name, err)
		}
		fields = append(fields, b)
	}
	var opts []schema.Option
	if s.Target != "" {
		opts = append(opts, schema.WithTarget(s.Target))
	}
	for _, name := range s.Mixins {
		m, err := mixin.Named(name)
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", s.Name, err)
		}
		opts = append(opts, schema.WithMixin(m))
	}
	return schema.New(s.Name, fields, opts...)
}

// MarshalSchema encodes the schema of a *schema.Schema or a
// schema.Provider into a JSON that can be decoded into the Schema
// object declared above.
func MarshalSchema(v any) (b []byte, err error) {
	cs, err := compiled(v)
	if err != nil {
		return nil, err
	}
	s := &Schema{Name: cs.Name()}
	if cs.TargetModelName() != cs.Name() {
		s.Target = cs.TargetModelName()
	}
	for _, fd := range cs.SortedFields() {
		f, err := NewField(fd)
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", s.Name, err)
		}
		s.Fields = append(s.Fields, f)
	}
	return json.Marshal(s)
}

// UnmarshalSchema decodes the given buffer to a loaded schema.
func UnmarshalSchema(buf []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(buf, s); err != nil {
		return nil, err
	}
	if s.Name == "" {
		return nil, errors.New("load: schema without name")
	}
	return s, nil
}

// Load decodes a YAML descriptor file and compiles its models in order.
// Unknown keys are an error. JSON descriptors are accepted as YAML.
func Load(r io.Reader) ([]*schema.Schema, error) {
	f, err := decode(r, false)
	if err != nil {
		return nil, err
	}
	return f.Build()
}

// LoadFile loads the descriptor file at path. Files with a .json
// extension are decoded as JSON, everything else as YAML.
func LoadFile(path string) ([]*schema.Schema, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	f, err := decode(r, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, m := range f.Models {
		m.Pos = path
	}
	schemas, err := f.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schemas, nil
}

func decode(r io.Reader, isJSON bool) (*File, error) {
	f := &File{}
	var err error
	if isJSON {
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(f)
	} else {
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(f)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("load: decoding models: %w", err)
	}
	return f, nil
}

// Build compiles every model of the file. Model names must be unique and
// relations must reference a model of the file.
func (f *File) Build() ([]*schema.Schema, error) {
	schemas := make([]*schema.Schema, 0, len(f.Models))
	names := make(map[string]bool, len(f.Models))
	for _, m := range f.Models {
		if names[m.Name] {
			return nil, fmt.Errorf("load: duplicate model %q", m.Name)
		}
		names[m.Name] = true
		s, err := m.Build()
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	for _, s := range schemas {
		for _, rel := range s.Relations() {
			if !names[rel.RelatedModel] {
				return nil, fmt.Errorf("load: schema %q: field %q references unknown model %q", s.Name(), rel.Name, rel.RelatedModel)
			}
		}
	}
	return schemas, nil
}

// compiled returns the schema of v, recovering from panicking providers.
func compiled(v any) (s *schema.Schema, err error) {
	switch v := v.(type) {
	case *schema.Schema:
		s = v
	case schema.Provider:
		s, err = safeSchema(v)
	default:
		return nil, fmt.Errorf("load: %v does not declare a schema", indirect(reflect.TypeOf(v)))
	}
	if err == nil && s == nil {
		err = fmt.Errorf("load: nil schema")
	}
	return s, err
}

// safeSchema wraps the ModelSchema method with recover to ensure no panics in marshaling.
func safeSchema(p schema.Provider) (s *schema.Schema, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%T.ModelSchema panics: %v", p, v)
			s = nil
		}
	}()
	return p.ModelSchema(), nil
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
