package gen

import (
	"reflect"

	"github.com/syssam/gqlreq"
	"github.com/syssam/gqlreq/querylanguage"
	"github.com/syssam/gqlreq/schema"
	"github.com/syssam/gqlreq/schema/field"
)

// Filter argument keys of the backend grammar.
const (
	keyAnd             = "and"
	keyOr              = "or"
	keyNot             = "not"
	keyAttributeExists = "attributeExists"
)

var comparators = map[querylanguage.Op]string{
	querylanguage.OpEQ:  "eq",
	querylanguage.OpNEQ: "ne",
	querylanguage.OpLT:  "lt",
	querylanguage.OpLTE: "le",
	querylanguage.OpGT:  "gt",
	querylanguage.OpGTE: "ge",
}

var functions = map[querylanguage.Func]string{
	querylanguage.FuncContains:    "contains",
	querylanguage.FuncNotContains: "notContains",
	querylanguage.FuncHasPrefix:   "beginsWith",
	querylanguage.FuncBetween:     "between",
}

// Translate converts a predicate into the nested filter argument of the
// backend, with field names replaced by target names:
//
//	And(FieldEQ("done", true), Not(FieldEQ("name", "x")))
//	=> {"and": [{"done": {"eq": true}}, {"not": {"name": {"eq": "x"}}}]}
//
// Group children keep their order. A nil predicate yields a nil filter.
// Comparisons on fields the schema lacks fail with UnknownFieldError;
// constructs the grammar cannot express fail with InvalidPredicateError.
func Translate(p querylanguage.P, s *schema.Schema) (map[string]any, error) {
	if p == nil {
		return nil, nil
	}
	return translate(p, s)
}

func translate(e querylanguage.Expr, s *schema.Schema) (map[string]any, error) {
	switch e := e.(type) {
	case *querylanguage.UnaryExpr:
		if e.Op != querylanguage.OpNot {
			return nil, invalid(e, "unknown unary operator "+string(e.Op))
		}
		x, err := translate(e.X, s)
		if err != nil {
			return nil, err
		}
		return map[string]any{keyNot: x}, nil
	case *querylanguage.NaryExpr:
		return translateGroup(e, s)
	case *querylanguage.BinaryExpr:
		return translateBinary(e, s)
	case *querylanguage.CallExpr:
		return translateCall(e, s)
	case nil:
		return nil, gqlreq.NewInvalidPredicateError("nil", "missing operand")
	default:
		return nil, invalid(e, "not a predicate")
	}
}

func translateGroup(e *querylanguage.NaryExpr, s *schema.Schema) (map[string]any, error) {
	var key string
	switch e.Op {
	case querylanguage.OpAnd:
		key = keyAnd
	case querylanguage.OpOr:
		key = keyOr
	default:
		return nil, invalid(e, "unknown group operator "+string(e.Op))
	}
	if len(e.Xs) == 0 {
		return nil, invalid(e, "empty "+key+" group")
	}
	children := make([]any, 0, len(e.Xs))
	for _, x := range e.Xs {
		c, err := translate(x, s)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	return map[string]any{key: children}, nil
}

func translateBinary(e *querylanguage.BinaryExpr, s *schema.Schema) (map[string]any, error) {
	f, val, err := operands(e, e.X, e.Y)
	if err != nil {
		return nil, err
	}
	fd, err := lookupField(s, f)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case querylanguage.OpIn, querylanguage.OpNotIn:
		vs, ok := list(val.V)
		if !ok || len(vs) == 0 {
			return nil, invalid(e, "expects a non-empty list of values")
		}
		key, cmp := keyOr, "eq"
		if e.Op == querylanguage.OpNotIn {
			key, cmp = keyAnd, "ne"
		}
		children := make([]any, 0, len(vs))
		for _, v := range vs {
			c, err := comparison(fd, cmp, v)
			if err != nil {
				return nil, invalid(e, err.Error())
			}
			children = append(children, c)
		}
		return map[string]any{key: children}, nil
	}
	cmp, ok := comparators[e.Op]
	if !ok {
		return nil, invalid(e, "unknown operator "+string(e.Op))
	}
	if val.IsNil() {
		switch e.Op {
		case querylanguage.OpEQ:
			return map[string]any{fd.Target(): map[string]any{keyAttributeExists: false}}, nil
		case querylanguage.OpNEQ:
			return map[string]any{fd.Target(): map[string]any{keyAttributeExists: true}}, nil
		default:
			return nil, invalid(e, "null operand")
		}
	}
	c, err := comparison(fd, cmp, val.V)
	if err != nil {
		return nil, invalid(e, err.Error())
	}
	return c, nil
}

func translateCall(e *querylanguage.CallExpr, s *schema.Schema) (map[string]any, error) {
	fn, ok := functions[e.Func]
	if !ok {
		return nil, invalid(e, "function "+string(e.Func)+" has no filter equivalent")
	}
	if e.Func == querylanguage.FuncBetween {
		if len(e.Args) != 3 {
			return nil, invalid(e, "between takes exactly two values")
		}
		f, lo, err := operands(e, e.Args[0], e.Args[1])
		if err != nil {
			return nil, err
		}
		hi, ok := e.Args[2].(*querylanguage.Value)
		if !ok || lo.IsNil() || hi.IsNil() {
			return nil, invalid(e, "between takes exactly two values")
		}
		fd, err := lookupField(s, f)
		if err != nil {
			return nil, err
		}
		bounds, err := coerce([]any{lo.V, hi.V})
		if err != nil {
			return nil, invalid(e, err.Error())
		}
		return map[string]any{fd.Target(): map[string]any{fn: bounds}}, nil
	}
	if len(e.Args) != 2 {
		return nil, invalid(e, string(e.Func)+" takes a field and a value")
	}
	f, val, err := operands(e, e.Args[0], e.Args[1])
	if err != nil {
		return nil, err
	}
	fd, err := lookupField(s, f)
	if err != nil {
		return nil, err
	}
	c, err := comparison(fd, fn, val.V)
	if err != nil {
		return nil, invalid(e, err.Error())
	}
	return c, nil
}

// operands checks the field and value operands of a comparison.
func operands(e querylanguage.Expr, x, y querylanguage.Expr) (*querylanguage.Field, *querylanguage.Value, error) {
	f, ok := x.(*querylanguage.Field)
	if !ok {
		return nil, nil, invalid(e, "left operand must be a field")
	}
	v, ok := y.(*querylanguage.Value)
	if !ok {
		return nil, nil, invalid(e, "right operand must be a value")
	}
	return f, v, nil
}

func lookupField(s *schema.Schema, f *querylanguage.Field) (*field.Descriptor, error) {
	fd, ok := s.Field(f.Name)
	if !ok {
		return nil, gqlreq.NewUnknownFieldError(s.Name(), f.Name)
	}
	return fd, nil
}

// comparison renders {<target>: {<cmp>: <value>}}.
func comparison(fd *field.Descriptor, cmp string, v any) (map[string]any, error) {
	cv, err := operandValue(fd, v)
	if err != nil {
		return nil, err
	}
	return map[string]any{fd.Target(): map[string]any{cmp: cv}}, nil
}

// operandValue coerces a literal compared against fd. Comparisons against a
// list field compare one element, so the element type applies.
func operandValue(fd *field.Descriptor, v any) (any, error) {
	elem := *fd
	elem.List = false
	return fieldValue(&elem, v)
}

// list returns the elements of a slice or array value.
func list(v any) ([]any, bool) {
	if vs, ok := v.([]any); ok {
		return vs, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	vs := make([]any, rv.Len())
	for i := range vs {
		vs[i] = rv.Index(i).Interface()
	}
	return vs, true
}

func invalid(e querylanguage.Expr, reason string) error {
	return gqlreq.NewInvalidPredicateError(e.String(), reason)
}
