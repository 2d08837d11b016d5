package gen

import (
	"unicode/utf8"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/gqlreq"
	"github.com/syssam/gqlreq/schema/field"
)

// Names holds the backend names of one model and operation kind. They follow
// the naming rule the backend schema is generated with, so a document built
// from them binds to the generated root fields and input types.
type Names struct {
	// TypeName is the capitalized model name, e.g. "Todo".
	TypeName string
	// OperationName is the document operation name, e.g. "CreateTodo".
	OperationName string
	// FieldName is the root field, e.g. "createTodo".
	FieldName string
	// InputTypeName is the input type of a mutation, e.g. "CreateTodoInput".
	InputTypeName string
	// FilterTypeName is the filter input of list queries and subscriptions.
	FilterTypeName string
	// ConditionTypeName is the condition input of a mutation.
	ConditionTypeName string
	// ConnectionTypeName is the page type returned by list queries.
	ConnectionTypeName string
}

// NamesFor derives the names of the operation kind on the model. It is a pure
// function of its arguments.
func NamesFor(model string, kind gqlreq.OperationKind) (Names, error) {
	if model == "" {
		return Names{}, gqlreq.NewInvalidNameError(model, "empty model name")
	}
	if !field.ValidName(model) {
		return Names{}, gqlreq.NewInvalidNameError(model, "not a GraphQL name")
	}
	if kind == nil {
		return Names{}, gqlreq.NewUnsupportedOperationError("", "")
	}
	typ := capitalize(model)
	n := Names{TypeName: typ}
	switch k := kind.(type) {
	case gqlreq.QueryType:
		switch k {
		case gqlreq.QueryGet:
			n.OperationName = "Get" + typ
		case gqlreq.QueryList:
			n.OperationName = "List" + Plural(typ)
			n.FilterTypeName = "Model" + typ + "FilterInput"
			n.ConnectionTypeName = "Model" + typ + "Connection"
		default:
			return Names{}, gqlreq.NewUnsupportedOperationError(k.Operation(), k.Verb())
		}
	case gqlreq.MutationType:
		if !k.Valid() {
			return Names{}, gqlreq.NewUnsupportedOperationError(k.Operation(), k.Verb())
		}
		n.OperationName = capitalize(k.Verb()) + typ
		n.InputTypeName = n.OperationName + "Input"
		n.ConditionTypeName = "Model" + typ + "ConditionInput"
	case gqlreq.SubscriptionType:
		if !k.Valid() {
			return Names{}, gqlreq.NewUnsupportedOperationError(k.Operation(), k.Verb())
		}
		n.OperationName = capitalize(k.Verb()) + typ
		n.FilterTypeName = "ModelSubscription" + typ + "FilterInput"
	default:
		return Names{}, gqlreq.NewUnsupportedOperationError(kind.Operation(), kind.Verb())
	}
	n.FieldName = lowerFirst(n.OperationName)
	return n, nil
}

// Plural returns the plural form of a type name, e.g. "Todos".
func Plural(name string) string {
	return inflect.Pluralize(name)
}

// capitalize upper-cases the leading rune only: "todoItem" -> "TodoItem".
// A Caser is stateful, so one is created per call.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(language.Und).String(string(r)) + s[size:]
}

// lowerFirst lower-cases the leading rune only: "CreateTodo" -> "createTodo".
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Lower(language.Und).String(string(r)) + s[size:]
}
