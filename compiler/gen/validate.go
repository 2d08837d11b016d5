package gen

import (
	"encoding/json"
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/syssam/gqlreq"
)

// docValidator checks built requests against the backend schema.
type docValidator struct {
	schema *ast.Schema
}

func newDocValidator(sdl string) (*docValidator, error) {
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: sdl})
	if err != nil {
		return nil, NewConfigError("SchemaSDL", nil, err.Error())
	}
	return &docValidator{schema: s}, nil
}

// validate parses the document against the schema, then coerces the
// variables against the operation's variable definitions.
func (v *docValidator) validate(r *gqlreq.Request) error {
	doc, errs := gqlparser.LoadQuery(v.schema, r.Document)
	if len(errs) > 0 {
		list := make([]error, len(errs))
		for i, err := range errs {
			list[i] = err
		}
		return gqlreq.NewValidationError(r.OperationName, list...)
	}
	op := doc.Operations.ForName(r.OperationName)
	if op == nil {
		return gqlreq.NewValidationError(r.OperationName, fmt.Errorf("operation %s not found in document", r.OperationName))
	}
	vars, err := wireVariables(r.Variables)
	if err != nil {
		return gqlreq.NewValidationError(r.OperationName, err)
	}
	if _, err := validator.VariableValues(v.schema, op, vars); err != nil {
		return gqlreq.NewValidationError(r.OperationName, err)
	}
	return nil
}

// wireVariables returns the variables as a server decodes them from the
// request body, numbers kept as json.Number.
func wireVariables(vs gqlreq.Variables) (map[string]any, error) {
	b, err := json.Marshal(vs)
	if err != nil {
		return nil, err
	}
	v, err := decodeJSON(b)
	if err != nil {
		return nil, err
	}
	m, _ := v.(map[string]any)
	return m, nil
}
