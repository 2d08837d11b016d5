package graphql

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/gqlreq"
	"github.com/syssam/gqlreq/compiler/gen"
	ql "github.com/syssam/gqlreq/querylanguage"
	"github.com/syssam/gqlreq/schema"
	"github.com/syssam/gqlreq/schema/field"
)

func testSchemas() []*schema.Schema {
	return []*schema.Schema{
		schema.MustNew("Todo",
			field.ID("id"),
			field.String("name").Required(),
			field.Bool("done"),
			field.Int("priority"),
			field.Strings("tags"),
			field.Time("dueAt"),
			field.JSON("meta"),
			field.Relation("owner", "User").Target("todoOwnerId"),
		),
		schema.MustNew("User",
			field.ID("id"),
			field.String("email").Required(),
		),
		schema.MustNew("Entry",
			field.String("pk").Identifier(),
			field.String("sk").Identifier(),
			field.String("body"),
		),
	}
}

func loadSDL(t *testing.T, sdl string) *ast.Schema {
	t.Helper()
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: sdl})
	require.NoError(t, err, sdl)
	return s
}

func fieldType(t *testing.T, s *ast.Schema, typ, name string) string {
	t.Helper()
	def, ok := s.Types[typ]
	require.True(t, ok, "missing type %s", typ)
	f := def.Fields.ForName(name)
	require.NotNil(t, f, "missing field %s.%s", typ, name)
	return f.Type.String()
}

func TestSDLTypes(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	sdl, err := g.SDL(testSchemas())
	require.NoError(t, err)
	s := loadSDL(t, sdl)

	for _, name := range []string{"AWSDateTime", "AWSJSON"} {
		require.Contains(t, s.Types, name)
		assert.Equal(t, ast.Scalar, s.Types[name].Kind)
	}

	assert.Equal(t, "ID!", fieldType(t, s, "Todo", "id"))
	assert.Equal(t, "String!", fieldType(t, s, "Todo", "name"))
	assert.Equal(t, "Boolean", fieldType(t, s, "Todo", "done"))
	assert.Equal(t, "[String]", fieldType(t, s, "Todo", "tags"))
	assert.Equal(t, "AWSDateTime", fieldType(t, s, "Todo", "dueAt"))
	assert.Equal(t, "AWSJSON", fieldType(t, s, "Todo", "meta"))
	assert.Equal(t, "ID", fieldType(t, s, "Todo", "todoOwnerId"))

	assert.Equal(t, "[Todo]!", fieldType(t, s, "ModelTodoConnection", "items"))
	assert.Equal(t, "String", fieldType(t, s, "ModelTodoConnection", "nextToken"))

	assert.Equal(t, "ID", fieldType(t, s, "CreateTodoInput", "id"))
	assert.Equal(t, "String!", fieldType(t, s, "CreateTodoInput", "name"))
	assert.Equal(t, "ID!", fieldType(t, s, "UpdateTodoInput", "id"))
	assert.Equal(t, "String", fieldType(t, s, "UpdateTodoInput", "name"))
	assert.Equal(t, "ID!", fieldType(t, s, "DeleteTodoInput", "id"))
	assert.Len(t, s.Types["DeleteTodoInput"].Fields, 1)

	for _, filter := range []string{"ModelTodoFilterInput", "ModelTodoConditionInput", "ModelSubscriptionTodoFilterInput"} {
		assert.Equal(t, "ModelStringInput", fieldType(t, s, filter, "name"))
		assert.Equal(t, "ModelBooleanInput", fieldType(t, s, filter, "done"))
		assert.Equal(t, "ModelIDInput", fieldType(t, s, filter, "todoOwnerId"))
		assert.Equal(t, "["+filter+"]", fieldType(t, s, filter, "and"))
		assert.Equal(t, "["+filter+"]", fieldType(t, s, filter, "or"))
		assert.Equal(t, filter, fieldType(t, s, filter, "not"))
	}
	assert.Equal(t, "[Int]", fieldType(t, s, "ModelIntInput", "between"))
	assert.Equal(t, "Boolean", fieldType(t, s, "ModelIntInput", "attributeExists"))
	assert.Nil(t, s.Types["ModelBooleanInput"].Fields.ForName("lt"))

	assert.Equal(t, "Todo", s.Query.Fields.ForName("getTodo").Type.String())
	assert.Equal(t, "ModelTodoConnection", s.Query.Fields.ForName("listTodos").Type.String())
	assert.Equal(t, "Todo", s.Mutation.Fields.ForName("createTodo").Type.String())
	assert.NotNil(t, s.Subscription.Fields.ForName("onDeleteTodo"))

	getEntry := s.Query.Fields.ForName("getEntry")
	require.NotNil(t, getEntry)
	require.Len(t, getEntry.Arguments, 2)
	assert.Equal(t, "String!", getEntry.Arguments.ForName("pk").Type.String())
	assert.Equal(t, "String!", getEntry.Arguments.ForName("sk").Type.String())
}

func TestSDLValidatesStatements(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	schemas := testSchemas()
	sdl, err := g.SDL(schemas)
	require.NoError(t, err)
	s := loadSDL(t, sdl)

	for _, m := range schemas {
		stmts, err := gen.Statements(m)
		require.NoError(t, err)
		for _, stmt := range stmts {
			_, errs := gqlparser.LoadQuery(s, stmt.Document)
			assert.Empty(t, errs, stmt.Document)
		}
	}
}

func TestSDLValidatesRequests(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	schemas := testSchemas()
	sdl, err := g.SDL(schemas)
	require.NoError(t, err)

	c, err := gen.NewCompiler(gen.WithSchemaSDL(sdl))
	require.NoError(t, err)
	todo := schemas[0]
	p := ql.And(
		ql.FieldEQ("done", false),
		ql.Or(ql.FieldContains("name", "milk"), ql.Not(ql.FieldHasPrefix("name", "x"))),
		ql.FieldBetween("priority", 1, 5),
		ql.FieldNotNil("owner"),
	)

	_, err = c.BuildQuery(todo, nil, gqlreq.QueryGet, gen.WithSchema(todo), gen.WithID("t1"))
	require.NoError(t, err)
	_, err = c.BuildQuery(todo, p, gqlreq.QueryList, gen.WithLimit(10), gen.WithNextToken("abc"))
	require.NoError(t, err)
	_, err = c.BuildMutation(map[string]any{"name": "milk", "done": false, "tags": []string{"a"}, "owner": "u1"}, p, gqlreq.MutationCreate, gen.WithSchema(todo))
	require.NoError(t, err)
	_, err = c.BuildMutation(map[string]any{"id": "t1", "done": true}, nil, gqlreq.MutationUpdate, gen.WithSchema(todo))
	require.NoError(t, err)
	_, err = c.BuildMutation(map[string]any{"id": "t1"}, ql.FieldEQ("done", true), gqlreq.MutationDelete, gen.WithSchema(todo))
	require.NoError(t, err)
	_, err = c.BuildSubscription(todo, ql.FieldIn("priority", 1, 2), gqlreq.SubscriptionOnUpdate)
	require.NoError(t, err)

	entry := schemas[2]
	_, err = c.BuildQuery(entry, ql.And(ql.FieldEQ("pk", "a"), ql.FieldEQ("sk", "b")), gqlreq.QueryGet)
	require.NoError(t, err)

	_, err = c.BuildMutation(map[string]any{"done": true}, nil, gqlreq.MutationUpdate, gen.WithSchema(todo))
	require.Error(t, err, "update requires the identifier")
	assert.True(t, gqlreq.IsValidationError(err))
}

func TestSDLSkip(t *testing.T) {
	g, err := NewGenerator(
		WithAnnotation("Todo", Skip(SkipMutations), Skip(SkipFilter)),
		WithAnnotation("User", Skip(SkipType)),
		WithAnnotation("Entry", Skip(SkipSubscriptions, SkipQueries), Description("A log entry.")),
	)
	require.NoError(t, err)
	sdl, err := g.SDL(testSchemas())
	require.NoError(t, err)
	s := loadSDL(t, sdl)

	assert.NotContains(t, s.Types, "User")
	assert.NotContains(t, s.Types, "CreateTodoInput")
	assert.NotContains(t, s.Types, "ModelTodoFilterInput")
	assert.NotContains(t, s.Types, "ModelTodoConditionInput")
	assert.Nil(t, s.Mutation.Fields.ForName("createTodo"))
	require.NotNil(t, s.Mutation.Fields.ForName("createEntry"))
	assert.NotNil(t, s.Mutation.Fields.ForName("createEntry").Arguments.ForName("condition"))

	list := s.Query.Fields.ForName("listTodos")
	require.NotNil(t, list)
	assert.Nil(t, list.Arguments.ForName("filter"))
	assert.Nil(t, s.Query.Fields.ForName("getEntry"))
	assert.Nil(t, s.Subscription.Fields.ForName("onCreateEntry"))
	assert.Equal(t, "A log entry.", s.Types["Entry"].Description)
}

func TestSDLWithoutIdentifier(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	sdl, err := g.SDL([]*schema.Schema{schema.MustNew("Note", field.String("body"))})
	require.NoError(t, err)
	s := loadSDL(t, sdl)
	assert.Nil(t, s.Query.Fields.ForName("getNote"))
	assert.NotNil(t, s.Query.Fields.ForName("listNotes"))
	assert.NotNil(t, s.Mutation.Fields.ForName("createNote"))
	assert.Nil(t, s.Mutation.Fields.ForName("updateNote"))
	assert.Nil(t, s.Mutation.Fields.ForName("deleteNote"))
}

func TestSDLDeterministic(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	schemas := testSchemas()
	first, err := g.SDL(schemas)
	require.NoError(t, err)
	second, err := g.SDL([]*schema.Schema{schemas[2], schemas[0], schemas[1]})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSDLErrors(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	a := schema.MustNew("Todo", field.ID("id"))
	b, err := schema.New("Task", []schema.Field{field.ID("id")}, schema.WithTarget("Todo"))
	require.NoError(t, err)
	_, err = g.SDL([]*schema.Schema{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both declare type Todo")

	boom := errors.New("boom")
	g, err = NewGenerator(WithSchemaHook(func([]*schema.Schema, string) (string, error) { return "", boom }))
	require.NoError(t, err)
	_, err = g.SDL([]*schema.Schema{a})
	assert.ErrorIs(t, err, boom)

	g, err = NewGenerator(WithSchemaHook(func(_ []*schema.Schema, sdl string) (string, error) {
		return sdl + "\ntype Broken { x: Missing }\n", nil
	}))
	require.NoError(t, err)
	_, err = g.SDL([]*schema.Schema{a})
	assert.ErrorContains(t, err, "does not load")

	_, err = NewGenerator(WithAnnotation(""))
	assert.Error(t, err)
}

func TestSDLHooksAndScalars(t *testing.T) {
	g, err := NewGenerator(
		WithMapScalarFunc(func(_ *schema.Schema, f *field.Descriptor) string {
			if f.Name == "email" {
				return "AWSEmail"
			}
			return ""
		}),
		WithSchemaHook(func(_ []*schema.Schema, sdl string) (string, error) {
			return sdl + "\ndirective @auth on FIELD_DEFINITION\n", nil
		}),
	)
	require.NoError(t, err)
	sdl, err := g.SDL(testSchemas()[1:2])
	require.NoError(t, err)
	s := loadSDL(t, sdl)
	assert.Equal(t, "AWSEmail!", fieldType(t, s, "User", "email"))
	assert.Equal(t, "ModelAWSEmailInput", fieldType(t, s, "ModelUserFilterInput", "email"))
	assert.Contains(t, s.Directives, "auth")
	assert.NotContains(t, s.Types, "AWSDateTime")
}

func TestWriteSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph", "schema.graphql")
	cfgPath := filepath.Join(dir, "gqlgen.yml")

	g, err := NewGenerator(WithConfigPath(cfgPath))
	require.NoError(t, err)
	require.NoError(t, g.WriteSchema(path, testSchemas()))
	src, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(src), "ModelTodoConnection"))

	require.NoError(t, g.SaveBindings(path))
	cfg, err := LoadGQLGenConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, StringList{path}, cfg.SchemaFilename)
	assert.Equal(t, StringList{"github.com/99designs/gqlgen/graphql.Time"}, cfg.Models["AWSDateTime"].Model)

	g, err = NewGenerator()
	require.NoError(t, err)
	assert.Error(t, g.SaveBindings(path))
	assert.Nil(t, g.GQLGenConfig())
}
