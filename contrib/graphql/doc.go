// Package graphql generates the backend GraphQL schema (SDL) of a set of
// models, following the naming rules of the request compiler, so that
// every compiled document validates against it.
//
// # Generated types
//
// For a model Todo with fields id, name and done the generator emits:
//
//	type Todo { id: ID! name: String done: Boolean }
//	type ModelTodoConnection { items: [Todo]! nextToken: String }
//	input CreateTodoInput { id: ID name: String done: Boolean }
//	input UpdateTodoInput { id: ID! name: String done: Boolean }
//	input DeleteTodoInput { id: ID! }
//	input ModelTodoFilterInput { id: ModelIDInput ... and: [ModelTodoFilterInput] or: [...] not: ModelTodoFilterInput }
//	input ModelTodoConditionInput { ... }
//	input ModelSubscriptionTodoFilterInput { ... }
//	input ModelStringInput { ne: String eq: String le: String ... between: [String] attributeExists: Boolean }
//
// and the root fields getTodo, listTodos, createTodo, updateTodo,
// deleteTodo, onCreateTodo, onUpdateTodo and onDeleteTodo. Time and JSON
// fields use the AWSDateTime and AWSJSON scalars, which are declared when used.
//
// # Usage
//
//	g, err := graphql.NewGenerator(
//	    graphql.WithAnnotation("AuditLog", graphql.Skip(graphql.SkipMutations)),
//	    graphql.WithConfigPath("./gqlgen.yml"),
//	)
//	if err != nil {
//	    log.Fatalf("creating generator: %v", err)
//	}
//	if err := g.WriteSchema("./graph/schema.graphql", schemas); err != nil {
//	    log.Fatalf("writing schema: %v", err)
//	}
//	if err := g.SaveBindings("./graph/schema.graphql"); err != nil {
//	    log.Fatalf("updating gqlgen.yml: %v", err)
//	}
//
// # Annotations
//
// Control generation per model:
//
//	graphql.Skip(graphql.SkipType)              // omit the model
//	graphql.Skip(graphql.SkipMutations)         // no create, update or delete
//	graphql.Skip(graphql.SkipSubscriptions)     // no onCreate, onUpdate or onDelete
//	graphql.Skip(graphql.SkipFilter)            // no filter or condition inputs
//	graphql.Description("A task on a list.")   // object type description
package graphql
