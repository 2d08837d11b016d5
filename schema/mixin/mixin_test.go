package mixin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/gqlreq/schema"
	"github.com/syssam/gqlreq/schema/field"
	"github.com/syssam/gqlreq/schema/mixin"
)

func names(s *schema.Schema) []string {
	var out []string
	for _, f := range s.SortedFields() {
		out = append(out, f.Name)
	}
	return out
}

func TestSchemaBaseMixin(t *testing.T) {
	assert.Nil(t, mixin.Schema{}.Fields())
	var _ schema.Mixin = mixin.Schema{}
	var _ schema.Mixin = &mixin.Schema{}
}

func TestBuiltinMixins(t *testing.T) {
	tests := []struct {
		name  string
		mixin schema.Mixin
		want  []string
	}{
		{name: "Time", mixin: mixin.Time{}, want: []string{"createdAt", "updatedAt"}},
		{name: "CreateTime", mixin: mixin.CreateTime{}, want: []string{"createdAt"}},
		{name: "UpdateTime", mixin: mixin.UpdateTime{}, want: []string{"updatedAt"}},
		{name: "Versioned", mixin: mixin.Versioned{}, want: []string{"_version", "_deleted", "_lastChangedAt"}},
		{name: "Owner", mixin: mixin.Owner{}, want: []string{"owner"}},
		{name: "OwnerField", mixin: mixin.Owner{Field: "author"}, want: []string{"author"}},
		{name: "TimeVersioned", mixin: mixin.TimeVersioned{}, want: []string{"createdAt", "updatedAt", "_version", "_deleted", "_lastChangedAt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := schema.New("Todo", []schema.Field{field.ID("id")}, schema.WithMixin(tt.mixin))
			require.NoError(t, err)
			assert.Equal(t, append([]string{"id"}, tt.want...), names(s))
		})
	}
}

func TestMixinFieldTypes(t *testing.T) {
	s, err := schema.New("Todo", []schema.Field{field.ID("id")}, schema.WithMixin(mixin.TimeVersioned{}))
	require.NoError(t, err)

	created, ok := s.Field("createdAt")
	require.True(t, ok)
	assert.Equal(t, "AWSDateTime", created.GraphQLType())
	version, ok := s.Field("_version")
	require.True(t, ok)
	assert.Equal(t, "Int", version.GraphQLType())
	deleted, ok := s.Field("_deleted")
	require.True(t, ok)
	assert.Equal(t, "Boolean", deleted.GraphQLType())
	assert.Len(t, s.IDFields(), 1, "mixin fields are not identifiers")
}

func TestMixinDuplicateField(t *testing.T) {
	_, err := schema.New("Todo", []schema.Field{
		field.ID("id"),
		field.Time("createdAt"),
	}, schema.WithMixin(mixin.Time{}))
	assert.ErrorContains(t, err, `duplicate field "createdAt"`)

	_, err = schema.New("Todo", []schema.Field{field.ID("id")}, schema.WithMixin(mixin.Time{}, mixin.CreateTime{}))
	assert.Error(t, err)
}

type audit struct {
	mixin.Schema
}

func (audit) Fields() []schema.Field {
	return []schema.Field{field.String("createdBy"), field.String("updatedBy")}
}

func TestCustomMixin(t *testing.T) {
	s, err := schema.New("Todo", []schema.Field{field.ID("id")}, schema.WithMixin(audit{}, mixin.Owner{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "createdBy", "updatedBy", "owner"}, names(s))
}

func TestCommentFields(t *testing.T) {
	m := mixin.CommentFields(mixin.Time{}, "Managed by the backend")
	s, err := schema.New("Todo", []schema.Field{field.ID("id")}, schema.WithMixin(m))
	require.NoError(t, err)
	for _, name := range []string{"createdAt", "updatedAt"} {
		f, ok := s.Field(name)
		require.True(t, ok)
		assert.Equal(t, "Managed by the backend", f.Comment)
	}

	plain, ok := schema.MustNew("Todo", append([]schema.Field{field.ID("id")}, mixin.Time{}.Fields()...)...).Field("createdAt")
	require.True(t, ok)
	assert.Equal(t, "Time the item was created", plain.Comment)
}

func TestNamed(t *testing.T) {
	for _, name := range mixin.Names() {
		m, err := mixin.Named(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, m.Fields(), name)
	}
	assert.Equal(t, []string{"create_time", "owner", "time", "time_versioned", "update_time", "versioned"}, mixin.Names())

	_, err := mixin.Named("soft_delete")
	assert.ErrorContains(t, err, `unknown mixin "soft_delete"`)
}
