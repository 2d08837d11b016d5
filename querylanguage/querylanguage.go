package querylanguage

import (
	"encoding/json"
	"fmt"
	"strings"
)

// An Op represents a predicate operator.
type Op string

// Builtin operators.
const (
	OpAnd   Op = "&&"     // logical and.
	OpOr    Op = "||"     // logical or.
	OpNot   Op = "!"      // logical not.
	OpEQ    Op = "=="     // =
	OpNEQ   Op = "!="     // <>
	OpGT    Op = ">"      // >
	OpGTE   Op = ">="     // >=
	OpLT    Op = "<"      // <
	OpLTE   Op = "<="     // <=
	OpIn    Op = "in"     // IN
	OpNotIn Op = "not in" // NOT IN
)

// Func represents a function expression.
type Func string

// Builtin functions.
const (
	FuncEqualFold    Func = "equal_fold"    // equals case-insensitive
	FuncContains     Func = "contains"      // containing
	FuncNotContains  Func = "not_contains"  // not containing
	FuncContainsFold Func = "contains_fold" // containing case-insensitive
	FuncHasPrefix    Func = "has_prefix"    // startingWith
	FuncHasSuffix    Func = "has_suffix"    // endingWith
	FuncHasEdge      Func = "has_edge"      // HasEdge
	FuncBetween      Func = "between"       // inclusive range
)

type (
	// Expr represents a predicate expression node.
	Expr interface {
		expr()
		fmt.Stringer
	}

	// P represents a boolean predicate: a filter tree whose leaves
	// compare fields against values.
	P interface {
		Expr
		Negate() P
	}

	// UnaryExpr represents a unary expression.
	UnaryExpr struct {
		Op Op
		X  Expr
	}

	// BinaryExpr represents a binary expression.
	BinaryExpr struct {
		Op   Op
		X, Y Expr
	}

	// NaryExpr represents a n-ary expression.
	NaryExpr struct {
		Op Op
		Xs []Expr
	}

	// CallExpr represents a function call with its arguments.
	CallExpr struct {
		Func Func
		Args []Expr
	}

	// Field represents a model field.
	Field struct {
		Name string
	}

	// Edge represents a model edge.
	Edge struct {
		Name string
	}

	// Value represents an arbitrary value. A nil V stands for null.
	Value struct {
		V any
	}
)

// Not returns a new predicate that negates the given predicate.
func Not(x P) P {
	return &UnaryExpr{Op: OpNot, X: x}
}

// And returns a composed predicate that represents the logical AND predicate.
func And(x P, xs ...P) P {
	return &NaryExpr{Op: OpAnd, Xs: exprs(x, xs)}
}

// Or returns a composed predicate that represents the logical OR predicate.
func Or(x P, xs ...P) P {
	return &NaryExpr{Op: OpOr, Xs: exprs(x, xs)}
}

func exprs(x P, xs []P) []Expr {
	es := make([]Expr, 0, len(xs)+1)
	es = append(es, x)
	for _, p := range xs {
		es = append(es, p)
	}
	return es
}

// F returns a field expression for the given name.
func F(name string) *Field {
	return &Field{Name: name}
}

// V returns a value expression.
func V(v any) *Value {
	return &Value{V: v}
}

// EQ returns a predicate to check if the expressions are equal.
func EQ(x, y Expr) P {
	return &BinaryExpr{Op: OpEQ, X: x, Y: y}
}

// FieldEQ returns a predicate to check if a field is equivalent to a given value.
func FieldEQ(name string, v any) P {
	return EQ(F(name), V(v))
}

// NEQ returns a predicate to check if the expressions are not equal.
func NEQ(x, y Expr) P {
	return &BinaryExpr{Op: OpNEQ, X: x, Y: y}
}

// FieldNEQ returns a predicate to check if a field is not equivalent to a given value.
func FieldNEQ(name string, v any) P {
	return NEQ(F(name), V(v))
}

// GT returns a predicate to check if the expression is greater than the value.
func GT(x, y Expr) P {
	return &BinaryExpr{Op: OpGT, X: x, Y: y}
}

// FieldGT returns a predicate to check if a field is greater than the given value.
func FieldGT(name string, v any) P {
	return GT(F(name), V(v))
}

// GTE returns a predicate to check if the expression is greater than or equal to the value.
func GTE(x, y Expr) P {
	return &BinaryExpr{Op: OpGTE, X: x, Y: y}
}

// FieldGTE returns a predicate to check if a field is greater than or equal the given value.
func FieldGTE(name string, v any) P {
	return GTE(F(name), V(v))
}

// LT returns a predicate to check if the expression is less than the value.
func LT(x, y Expr) P {
	return &BinaryExpr{Op: OpLT, X: x, Y: y}
}

// FieldLT returns a predicate to check if a field is less than the given value.
func FieldLT(name string, v any) P {
	return LT(F(name), V(v))
}

// LTE returns a predicate to check if the expression is less than or equal to the value.
func LTE(x, y Expr) P {
	return &BinaryExpr{Op: OpLTE, X: x, Y: y}
}

// FieldLTE returns a predicate to check if a field is less than or equal to the given value.
func FieldLTE(name string, v any) P {
	return LTE(F(name), V(v))
}

// FieldIn returns a predicate to check if the field value matches any value in the given list.
func FieldIn(name string, vs ...any) P {
	return &BinaryExpr{Op: OpIn, X: F(name), Y: V(vs)}
}

// FieldNotIn returns a predicate to check if the field value doesn't match any value in the given list.
func FieldNotIn(name string, vs ...any) P {
	return &BinaryExpr{Op: OpNotIn, X: F(name), Y: V(vs)}
}

// FieldNil returns a predicate to check if a field is nil (null in databases).
func FieldNil(name string) P {
	return EQ(F(name), V(nil))
}

// FieldNotNil returns a predicate to check if a field is not nil (not null in databases).
func FieldNotNil(name string) P {
	return NEQ(F(name), V(nil))
}

// FieldContains returns a predicate to check if the field value contains a substring.
func FieldContains(name, substr string) P {
	return call(FuncContains, F(name), V(substr))
}

// FieldNotContains returns a predicate to check if the field value does not contain a substring.
func FieldNotContains(name, substr string) P {
	return call(FuncNotContains, F(name), V(substr))
}

// FieldContainsFold returns a predicate to check if the field value contains a substring using case-folding.
func FieldContainsFold(name, substr string) P {
	return call(FuncContainsFold, F(name), V(substr))
}

// FieldEqualFold returns a predicate to check if the field is equal to the given string under case-folding.
func FieldEqualFold(name, v string) P {
	return call(FuncEqualFold, F(name), V(v))
}

// FieldHasPrefix returns a predicate to check if the field starts with the given prefix.
func FieldHasPrefix(name, prefix string) P {
	return call(FuncHasPrefix, F(name), V(prefix))
}

// FieldHasSuffix returns a predicate to check if the field ends with the given suffix.
func FieldHasSuffix(name, suffix string) P {
	return call(FuncHasSuffix, F(name), V(suffix))
}

// FieldBetween returns a predicate to check if the field value lies in the
// inclusive range [lo, hi].
func FieldBetween(name string, lo, hi any) P {
	return call(FuncBetween, F(name), V(lo), V(hi))
}

// HasEdge returns a predicate to check if an edge exists.
func HasEdge(name string) P {
	return call(FuncHasEdge, &Edge{Name: name})
}

// HasEdgeWith returns a predicate to check if the "other nodes" that are connected to the
// edge returns true on the provided predicate.
func HasEdgeWith(name string, p ...P) P {
	args := []Expr{&Edge{Name: name}}
	for i := range p {
		args = append(args, p[i])
	}
	return call(FuncHasEdge, args...)
}

func call(fn Func, args ...Expr) P {
	return &CallExpr{Func: fn, Args: args}
}

// Negate negates the predicate.
func (e *UnaryExpr) Negate() P {
	return Not(e)
}

// Negate negates the predicate.
func (e *BinaryExpr) Negate() P {
	return Not(e)
}

// Negate negates the predicate.
func (e *NaryExpr) Negate() P {
	return Not(e)
}

// Negate negates the predicate.
func (e *CallExpr) Negate() P {
	return Not(e)
}

// String implements the fmt.Stringer interface.
func (e *UnaryExpr) String() string {
	return fmt.Sprintf("%s(%s)", e.Op, e.X)
}

// String implements the fmt.Stringer interface.
func (e *BinaryExpr) String() string {
	return fmt.Sprintf("%s %s %s", e.X, e.Op, e.Y)
}

// String implements the fmt.Stringer interface.
func (e *NaryExpr) String() string {
	var s strings.Builder
	if len(e.Xs) > 2 {
		s.WriteByte('(')
	}
	for i, x := range e.Xs {
		if i > 0 {
			s.WriteString(" " + string(e.Op) + " ")
		}
		s.WriteString(x.String())
	}
	if len(e.Xs) > 2 {
		s.WriteByte(')')
	}
	return s.String()
}

// String implements the fmt.Stringer interface.
func (e *CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, arg := range e.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", e.Func, strings.Join(args, ", "))
}

// String implements the fmt.Stringer interface.
func (f *Field) String() string {
	return f.Name
}

// String implements the fmt.Stringer interface.
func (e *Edge) String() string {
	return e.Name
}

// String implements the fmt.Stringer interface.
func (v *Value) String() string {
	if v == nil || v.V == nil {
		return "nil"
	}
	buf, err := json.Marshal(v.V)
	if err != nil {
		return fmt.Sprint(v.V)
	}
	return string(buf)
}

// IsNil reports whether the value stands for null.
func (v *Value) IsNil() bool {
	return v == nil || v.V == nil
}

func (*Field) expr()      {}
func (*Edge) expr()       {}
func (*Value) expr()      {}
func (*UnaryExpr) expr()  {}
func (*BinaryExpr) expr() {}
func (*NaryExpr) expr()   {}
func (*CallExpr) expr()   {}
