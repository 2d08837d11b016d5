// Package gqlreq holds the request values produced by the GraphQL document
// compiler in compiler/gen: the compiled Request, its ordered Variables, the
// operation kinds that select a document shape, the error taxonomy shared by
// every compiler component, and the compiled-request Cache.
//
// A typical flow:
//
//	todo := schema.MustNew("Todo",
//	    field.ID("id"),
//	    field.String("name").Required(),
//	    field.Bool("done"),
//	)
//	c, err := gen.NewCompiler()
//	req, err := c.BuildMutation(map[string]any{"name": "milk"}, nil, gqlreq.MutationCreate, gen.WithSchema(todo))
//	// req.Document:
//	// mutation CreateTodo($input: CreateTodoInput!) { createTodo(input: $input) { id name done }}
//
// Requests are handed to a transport through the registry in package api.
package gqlreq
