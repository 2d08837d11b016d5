// Package schema describes model types to the request compiler.
//
// A Schema carries the model name, the backend (target) type name and the
// model's fields in declaration order. Schemas are built explicitly:
//
//	todo := schema.MustNew("Todo",
//	    field.ID("id"),
//	    field.String("name").Required(),
//	    field.Bool("done"),
//	    field.Relation("owner", "User").Target("todoOwnerId"),
//	)
//
// or derived from Go struct types and their `graphql` tags:
//
//	type Todo struct {
//	    ID    string
//	    Name  string `graphql:"name,required"`
//	    Done  bool
//	    Owner *User  `graphql:"todoOwnerId,relation=User"`
//	}
//
//	s, err := schema.For(Todo{})
//
// Derived schemas are cached per Go type in a Registry: each type is parsed
// once, and concurrent first lookups share the same parse.
//
// Schema.Values reads the field values of a model instance, which may be a
// struct, a map[string]any or a Valuer.
package schema
