package gen

import (
	"fmt"
	"reflect"
	"time"

	"github.com/syssam/gqlreq/schema"
	"github.com/syssam/gqlreq/schema/field"
)

type testUser struct {
	ID   string
	Name string
}

type testTodo struct {
	ID       string
	Name     string    `graphql:"name,required"`
	Done     bool      `graphql:"done"`
	Priority *int      `graphql:"priority"`
	Tags     []string  `graphql:"tags"`
	DueAt    time.Time `graphql:"dueAt"`
	Owner    *testUser `graphql:"todoOwnerId,relation=User"`
}

// todoSchema is Todo{id, name, done}.
func todoSchema() *schema.Schema {
	return schema.MustNew("Todo",
		field.ID("id"),
		field.String("name"),
		field.Bool("done"),
	)
}

// richSchema covers every field type.
func richSchema() *schema.Schema {
	s, err := schema.New("Task", []schema.Field{
		field.ID("id"),
		field.String("title").Required(),
		field.Int("priority"),
		field.Float("score"),
		field.Bool("done"),
		field.Time("dueAt"),
		field.UUID("ref"),
		field.Enum("status", "OPEN", "DONE"),
		field.JSON("meta"),
		field.Strings("tags"),
		field.Relation("owner", "User").Target("taskOwnerId"),
	}, schema.WithGoType(reflect.TypeOf(testTodo{})))
	if err != nil {
		panic(err)
	}
	return s
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
