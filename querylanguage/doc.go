// Package querylanguage provides the filter predicate tree passed to the
// request compiler.
//
// A predicate is built from groups (And, Or, Not) and comparisons of a
// model field against literal values:
//
//	querylanguage.And(
//		querylanguage.FieldEQ("done", true),
//		querylanguage.Not(querylanguage.FieldEQ("name", "x")),
//	)
//
// Field names are checked against the model schema when the predicate is
// translated, not when it is constructed.
package querylanguage
