// Package mixin provides reusable field sets for model schemas.
//
// A mixin is attached with schema.WithMixin, and its fields follow the
// declared fields of the model:
//
//	todo, err := schema.New("Todo", []schema.Field{
//	    field.ID("id"),
//	    field.String("name").Required(),
//	}, schema.WithMixin(mixin.Time{}, mixin.Versioned{}))
//
// Custom mixins embed Schema and override Fields:
//
//	type Audit struct {
//	    mixin.Schema
//	}
//
//	func (Audit) Fields() []schema.Field {
//	    return []schema.Field{
//	        field.String("createdBy"),
//	        field.String("updatedBy"),
//	    }
//	}
package mixin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/syssam/gqlreq/schema"
	"github.com/syssam/gqlreq/schema/field"
)

// Schema is the default implementation for the schema.Mixin interface.
// It should be embedded in all custom mixin definitions.
type Schema struct{}

// Fields returns the fields of the mixin.
func (Schema) Fields() []schema.Field { return nil }

var _ schema.Mixin = (*Schema)(nil)

// Time adds the createdAt and updatedAt timestamps the backend maintains.
type Time struct {
	Schema
}

// Fields returns the timestamp fields.
func (Time) Fields() []schema.Field {
	return append(CreateTime{}.Fields(), UpdateTime{}.Fields()...)
}

// CreateTime adds only the createdAt timestamp.
type CreateTime struct {
	Schema
}

// Fields returns the createdAt field.
func (CreateTime) Fields() []schema.Field {
	return []schema.Field{
		field.Time("createdAt").Comment("Time the item was created"),
	}
}

// UpdateTime adds only the updatedAt timestamp.
type UpdateTime struct {
	Schema
}

// Fields returns the updatedAt field.
func (UpdateTime) Fields() []schema.Field {
	return []schema.Field{
		field.Time("updatedAt").Comment("Time the item was last updated"),
	}
}

// Versioned adds the conflict detection fields of versioned data sources.
// Sending the _version read with an item makes an update or delete fail
// when the item changed in between.
type Versioned struct {
	Schema
}

// Fields returns the version fields.
func (Versioned) Fields() []schema.Field {
	return []schema.Field{
		field.Int("_version"),
		field.Bool("_deleted"),
		field.Int("_lastChangedAt").Comment("Milliseconds since the epoch"),
	}
}

// Owner adds the owner field of owner-based authorization. The zero value
// uses the field name "owner".
type Owner struct {
	Schema
	Field string
}

// Fields returns the owner field.
func (o Owner) Fields() []schema.Field {
	name := o.Field
	if name == "" {
		name = "owner"
	}
	return []schema.Field{
		field.String(name).Comment("Identity of the owning user"),
	}
}

// TimeVersioned combines the Time and Versioned mixins.
type TimeVersioned struct {
	Schema
}

// Fields returns the timestamp and version fields.
func (TimeVersioned) Fields() []schema.Field {
	return append(Time{}.Fields(), Versioned{}.Fields()...)
}

var named = map[string]schema.Mixin{
	"time":           Time{},
	"create_time":    CreateTime{},
	"update_time":    UpdateTime{},
	"versioned":      Versioned{},
	"owner":          Owner{},
	"time_versioned": TimeVersioned{},
}

// Named returns the built-in mixin registered under name, as written in
// model descriptor files.
func Named(name string) (schema.Mixin, error) {
	m, ok := named[name]
	if !ok {
		return nil, fmt.Errorf("unknown mixin %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return m, nil
}

// Names returns the names of the built-in mixins, sorted.
func Names() []string {
	names := make([]string, 0, len(named))
	for n := range named {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CommentFields wraps a mixin and sets the comment of all its fields.
func CommentFields(m schema.Mixin, comment string) schema.Mixin {
	return fieldCommenter{Mixin: m, comment: comment}
}

type fieldCommenter struct {
	schema.Mixin
	comment string
}

func (c fieldCommenter) Fields() []schema.Field {
	fields := c.Mixin.Fields()
	for i, f := range fields {
		fields[i] = commented{Field: f, comment: c.comment}
	}
	return fields
}

type commented struct {
	schema.Field
	comment string
}

func (c commented) Descriptor() *field.Descriptor {
	d := c.Field.Descriptor()
	d.Comment = c.comment
	return d
}
