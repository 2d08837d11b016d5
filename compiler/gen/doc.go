// Package gen compiles model schemas into GraphQL requests.
//
// A request is assembled from four parts:
//
//	NamesFor       operation, type and input names of a model and operation kind
//	SelectFields   target names of the schema fields, in declaration order
//	Serialize      the $input variable of a mutation
//	Translate      the filter argument of a predicate
//
// The Compiler resolves a model into its schema, builds the request and
// optionally caches and validates it:
//
//	c, err := gen.NewCompiler(gen.WithLogger(logger), gen.WithCacheSize(256))
//	if err != nil {
//		return err
//	}
//	req, err := c.BuildMutation(todo, nil, gqlreq.MutationCreate)
//	// mutation CreateTodo($input: CreateTodoInput!) { createTodo(input: $input) { id name done }}
//
// # Documents
//
// Every build is deterministic: equal inputs yield byte-identical documents
// and variables. Variables are declared in the order they are bound, and an
// absent predicate leaves the filter or condition variable out entirely.
//
//	query GetTodo($id: ID!) { getTodo(id: $id) { id name done }}
//	query ListTodos($filter: ModelTodoFilterInput, $limit: Int) { listTodos(filter: $filter, limit: $limit) { items { id name done } nextToken }}
//	mutation DeleteTodo($input: DeleteTodoInput!, $condition: ModelTodoConditionInput) { deleteTodo(input: $input, condition: $condition) { id name done }}
//	subscription OnCreateTodo { onCreateTodo { id name done }}
//
// # Errors
//
// Failures of the parts surface unchanged inside a gqlreq.OperationError
// naming the operation being built; use errors.As or the gqlreq.Is helpers
// to inspect them.
//
// # Source generation
//
// Writer renders the statements of a set of schemas, one document per
// operation kind declaring every accepted variable, as Go constants.
package gen
