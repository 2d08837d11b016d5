package gqlreq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

// Variable is a single bound operation variable.
type Variable struct {
	Name  string // Without the leading "$"
	Type  string // GraphQL type reference, e.g. "CreateTodoInput!"
	Value any
}

// Variables holds the variables of a request in declaration order.
type Variables []Variable

// Get returns the value bound to name.
func (vs Variables) Get(name string) (any, bool) {
	for _, v := range vs {
		if v.Name == name {
			return v.Value, true
		}
	}
	return nil, false
}

// Names returns the variable names in declaration order.
func (vs Variables) Names() []string {
	names := make([]string, 0, len(vs))
	for _, v := range vs {
		names = append(names, v.Name)
	}
	return names
}

// Map returns the variables as a plain map, as transports expect them.
func (vs Variables) Map() map[string]any {
	m := make(map[string]any, len(vs))
	for _, v := range vs {
		m[v.Name] = v.Value
	}
	return m
}

// Declarations returns the variable definition list of the operation,
// e.g. "($input: CreateTodoInput!, $condition: ModelTodoConditionInput)".
// It returns an empty string when there are no variables.
func (vs Variables) Declarations() string {
	if len(vs) == 0 {
		return ""
	}
	decls := make([]string, 0, len(vs))
	for _, v := range vs {
		decls = append(decls, "$"+v.Name+": "+v.Type)
	}
	return "(" + strings.Join(decls, ", ") + ")"
}

// Arguments returns the root field argument list binding every variable
// to the argument of the same name, e.g. "(input: $input)".
func (vs Variables) Arguments() string {
	if len(vs) == 0 {
		return ""
	}
	args := make([]string, 0, len(vs))
	for _, v := range vs {
		args = append(args, v.Name+": $"+v.Name)
	}
	return "(" + strings.Join(args, ", ") + ")"
}

// MarshalJSON encodes the variables as a JSON object whose keys keep
// declaration order.
func (vs Variables) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range vs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(v.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v.Value)
		if err != nil {
			return nil, fmt.Errorf("gqlreq: encoding variable %q: %w", v.Name, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Request is a compiled GraphQL request: the document text, its bound
// variables and the Go type the response decodes into. A Request is a value;
// two requests with equal contents are interchangeable.
type Request struct {
	// Document is the operation text.
	Document string
	// OperationName is the name declared in the document, e.g. "CreateTodo".
	OperationName string
	// Operation is the document keyword.
	Operation Operation
	// Verb is the operation verb, e.g. "create" or "list".
	Verb string
	// Model is the model name the request was built for.
	Model string
	// Variables are the bound variables in declaration order.
	Variables Variables
	// ResponseType is the Go type used to decode the response payload.
	// It is nil when the request was built from a schema without a Go type.
	ResponseType reflect.Type
}

// Kind returns the operation kind of the request.
func (r *Request) Kind() OperationKind {
	switch r.Operation {
	case OperationQuery:
		return QueryType(r.Verb)
	case OperationMutation:
		return MutationType(r.Verb)
	default:
		return SubscriptionType(r.Verb)
	}
}

// RawParams returns the request in the wire shape GraphQL servers accept.
func (r *Request) RawParams() *graphql.RawParams {
	return &graphql.RawParams{
		Query:         r.Document,
		OperationName: r.OperationName,
		Variables:     r.Variables.Map(),
	}
}

// MarshalJSON encodes the request as a GraphQL-over-HTTP body.
func (r *Request) MarshalJSON() ([]byte, error) {
	vars := r.Variables
	if vars == nil {
		vars = Variables{}
	}
	return json.Marshal(struct {
		Query         string    `json:"query"`
		OperationName string    `json:"operationName"`
		Variables     Variables `json:"variables"`
	}{r.Document, r.OperationName, vars})
}

// String returns the document text.
func (r *Request) String() string {
	return r.Document
}

// Pretty returns the document reformatted over multiple lines.
// It fails if the document does not parse.
func (r *Request) Pretty() (string, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: r.OperationName, Input: r.Document})
	if err != nil {
		return "", fmt.Errorf("gqlreq: parsing %s: %w", r.OperationName, err)
	}
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(doc)
	return buf.String(), nil
}
