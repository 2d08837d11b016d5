package graphql

import (
	"slices"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/gqlreq/schema"
	"github.com/syssam/gqlreq/schema/field"
)

// builtinScalars are the scalars every GraphQL schema declares.
var builtinScalars = map[string]bool{
	"ID":      true,
	"String":  true,
	"Int":     true,
	"Float":   true,
	"Boolean": true,
}

// ScalarInputName returns the name of the filter input of a scalar,
// e.g. "ModelStringInput".
func ScalarInputName(scalar string) string {
	return "Model" + scalar + "Input"
}

// scalarInput returns the filter input of a scalar. It declares every
// comparator the predicate translator emits; booleans only compare
// for equality.
func scalarInput(scalar string) *ast.Definition {
	def := &ast.Definition{Kind: ast.InputObject, Name: ScalarInputName(scalar)}
	named := func() *ast.Type { return ast.NamedType(scalar, nil) }
	ops := []string{"ne", "eq"}
	if scalar != "Boolean" {
		ops = append(ops, "le", "lt", "ge", "gt", "contains", "notContains", "beginsWith")
	}
	for _, op := range ops {
		def.Fields = append(def.Fields, &ast.FieldDefinition{Name: op, Type: named()})
	}
	if scalar != "Boolean" {
		def.Fields = append(def.Fields, &ast.FieldDefinition{Name: "between", Type: ast.ListType(named(), nil)})
	}
	def.Fields = append(def.Fields, &ast.FieldDefinition{Name: "attributeExists", Type: ast.NamedType("Boolean", nil)})
	return def
}

// isID reports whether f is one of the identifier fields of s.
func isID(s *schema.Schema, f *field.Descriptor) bool {
	return slices.Contains(s.IDFields(), f)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
