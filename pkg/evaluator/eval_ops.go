package evaluator

import (
	"math"

	"github.com/platformatic/fgh/pkg/ast"
	"github.com/platformatic/fgh/pkg/ferrors"
	"github.com/platformatic/fgh/pkg/value"
)

// evalBinary implements every Cartesian-distributed binary operator: for
// each pair from the cross product of the left and right output streams,
// apply the operator's coercion/comparison rule.
func (s *state) evalBinary(n ast.BinaryNode, input value.Value) ([]value.Value, error) {
	left, err := s.eval(n.GetLeft(), input)
	if err != nil {
		return nil, err
	}
	right, err := s.eval(n.GetRight(), input)
	if err != nil {
		return nil, err
	}
	apply, err := binaryOp(n, n.Position())
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			v, err := apply(l, r)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}

type binaryFn func(l, r value.Value) (value.Value, error)

func binaryOp(n ast.BinaryNode, pos int) (binaryFn, error) {
	switch n.(type) {
	case *ast.Sum:
		return opAdd, nil
	case *ast.Difference:
		return opSubtract, nil
	case *ast.Multiply:
		return opMultiply, nil
	case *ast.Divide:
		return opDivide, nil
	case *ast.Modulo:
		return opModulo, nil
	case *ast.Equal:
		return func(l, r value.Value) (value.Value, error) { return value.Bool(value.Equal(l, r)), nil }, nil
	case *ast.NotEqual:
		return func(l, r value.Value) (value.Value, error) { return value.Bool(!value.Equal(l, r)), nil }, nil
	case *ast.LessThan:
		return func(l, r value.Value) (value.Value, error) { return value.Bool(value.Compare(l, r) < 0), nil }, nil
	case *ast.LessThanOrEqual:
		return func(l, r value.Value) (value.Value, error) { return value.Bool(value.Compare(l, r) <= 0), nil }, nil
	case *ast.GreaterThan:
		return func(l, r value.Value) (value.Value, error) { return value.Bool(value.Compare(l, r) > 0), nil }, nil
	case *ast.GreaterThanOrEqual:
		return func(l, r value.Value) (value.Value, error) { return value.Bool(value.Compare(l, r) >= 0), nil }, nil
	case *ast.And:
		return func(l, r value.Value) (value.Value, error) { return value.Bool(l.Truthy() && r.Truthy()), nil }, nil
	case *ast.Or:
		return func(l, r value.Value) (value.Value, error) { return value.Bool(l.Truthy() || r.Truthy()), nil }, nil
	default:
		return nil, ferrors.NewAt(ferrors.CategoryType, ferrors.CodeIncompatibleTypes, "unsupported binary operator", pos)
	}
}

// opAdd implements `+`: null is identity on either side, numbers add,
// strings and arrays concatenate, objects merge with the right operand
// winning key collisions. Mixed array+scalar is a TypeError.
func opAdd(l, r value.Value) (value.Value, error) {
	if l.Kind() == value.KindNull {
		return r, nil
	}
	if r.Kind() == value.KindNull {
		return l, nil
	}
	switch {
	case l.Kind() == value.KindNumber && r.Kind() == value.KindNumber:
		return value.Number(l.Number() + r.Number()), nil
	case l.Kind() == value.KindString && r.Kind() == value.KindString:
		return value.String(l.Str() + r.Str()), nil
	case l.Kind() == value.KindArray && r.Kind() == value.KindArray:
		out := make([]value.Value, 0, len(l.Arr())+len(r.Arr()))
		out = append(out, l.Arr()...)
		out = append(out, r.Arr()...)
		return value.Array(out), nil
	case l.Kind() == value.KindObject && r.Kind() == value.KindObject:
		merged := l.Object().Clone()
		for _, k := range r.Object().Keys() {
			v, _ := r.Object().Get(k)
			merged.Set(k, v)
		}
		return value.Obj(merged), nil
	default:
		return value.Null, typeErrBinary("+", l, r)
	}
}

// opSubtract implements `-`: numbers subtract (null acting as 0), arrays
// remove every occurrence of a right-side element, objects remove right's
// keys. Null on either side is otherwise a TypeError.
func opSubtract(l, r value.Value) (value.Value, error) {
	lNumeric := l.Kind() == value.KindNumber || l.Kind() == value.KindNull
	rNumeric := r.Kind() == value.KindNumber || r.Kind() == value.KindNull
	if lNumeric && rNumeric && (l.Kind() == value.KindNumber || r.Kind() == value.KindNumber) {
		ln, rn := 0.0, 0.0
		if l.Kind() == value.KindNumber {
			ln = l.Number()
		}
		if r.Kind() == value.KindNumber {
			rn = r.Number()
		}
		return value.Number(ln - rn), nil
	}
	switch {
	case l.Kind() == value.KindArray && r.Kind() == value.KindArray:
		removed := r.Arr()
		out := make([]value.Value, 0, len(l.Arr()))
		for _, v := range l.Arr() {
			skip := false
			for _, rv := range removed {
				if value.Equal(v, rv) {
					skip = true
					break
				}
			}
			if !skip {
				out = append(out, v)
			}
		}
		return value.Array(out), nil
	case l.Kind() == value.KindObject && r.Kind() == value.KindObject:
		out := l.Object().Clone()
		for _, k := range r.Object().Keys() {
			out.Delete(k)
		}
		return value.Obj(out), nil
	default:
		return value.Null, typeErrBinary("-", l, r)
	}
}

// opMultiply implements `*`: numbers multiply, null is 0 when paired with a
// number, and a string times a nonnegative integer repeats the string.
func opMultiply(l, r value.Value) (value.Value, error) {
	if l.Kind() == value.KindNull && r.Kind() == value.KindNumber {
		return value.Number(0), nil
	}
	if r.Kind() == value.KindNull && l.Kind() == value.KindNumber {
		return value.Number(0), nil
	}
	if l.Kind() == value.KindNumber && r.Kind() == value.KindNumber {
		return value.Number(l.Number() * r.Number()), nil
	}
	if s, n, ok := stringTimesInt(l, r); ok {
		return repeatString(s, n)
	}
	if s, n, ok := stringTimesInt(r, l); ok {
		return repeatString(s, n)
	}
	return value.Null, typeErrBinary("*", l, r)
}

func stringTimesInt(sv, nv value.Value) (string, int, bool) {
	if sv.Kind() != value.KindString || nv.Kind() != value.KindNumber {
		return "", 0, false
	}
	n := nv.Number()
	if n != float64(int(n)) {
		return "", 0, false
	}
	return sv.Str(), int(n), true
}

func repeatString(s string, n int) (value.Value, error) {
	if n < 0 {
		return value.Null, ferrors.Type(ferrors.CodeIncompatibleTypes, "cannot repeat a string a negative number of times")
	}
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return value.String(string(out)), nil
}

// opDivide implements `/`: numeric division; division by zero is a
// NumericError rather than NaN (see DESIGN.md).
func opDivide(l, r value.Value) (value.Value, error) {
	if l.Kind() != value.KindNumber || r.Kind() != value.KindNumber {
		return value.Null, typeErrBinary("/", l, r)
	}
	if r.Number() == 0 {
		return value.Null, ferrors.Numeric(ferrors.CodeDivideByZero, "division by zero")
	}
	return value.Number(l.Number() / r.Number()), nil
}

// opModulo implements `%`: mathematical modulo, result sign matching the
// divisor; modulo by zero is a NumericError, consistent with opDivide.
func opModulo(l, r value.Value) (value.Value, error) {
	if l.Kind() != value.KindNumber || r.Kind() != value.KindNumber {
		return value.Null, typeErrBinary("%", l, r)
	}
	if r.Number() == 0 {
		return value.Null, ferrors.Numeric(ferrors.CodeModuloByZero, "modulo by zero")
	}
	a, b := l.Number(), r.Number()
	m := a - b*math.Floor(a/b)
	return value.Number(m), nil
}

func typeErrBinary(op string, l, r value.Value) error {
	return ferrors.Type(ferrors.CodeIncompatibleTypes,
		"cannot apply "+op+" to "+l.Kind().String()+" and "+r.Kind().String())
}

// evalDefault implements `a // b`: a's truthy outputs win when there are
// any; otherwise b's full output is emitted. Unlike the other binary
// operators this is not Cartesian — b is only evaluated (and only
// contributes output) when a yields nothing truthy.
func (s *state) evalDefault(n *ast.Default, input value.Value) ([]value.Value, error) {
	left, err := s.eval(n.GetLeft(), input)
	if err == nil {
		var truthy []value.Value
		for _, v := range left {
			if v.Truthy() {
				truthy = append(truthy, v)
			}
		}
		if len(truthy) > 0 {
			return truthy, nil
		}
	}
	return s.eval(n.GetRight(), input)
}

// evalNot implements `not`: negates the truthiness of every value in the
// input stream (parsed as Not(Identity), so Expr is ordinarily Identity and
// this acts directly on input).
func (s *state) evalNot(n *ast.Not, input value.Value) ([]value.Value, error) {
	vals, err := s.eval(n.Expr, input)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(vals))
	for i, v := range vals {
		out[i] = value.Bool(!v.Truthy())
	}
	return out, nil
}

// evalConditional implements `if c then t (elif ...)* (else e)? end`: for
// every value the condition yields, evaluate the matching branch against
// the original input, concatenating branch outputs in condition order.
func (s *state) evalConditional(n *ast.Conditional, input value.Value) ([]value.Value, error) {
	conds, err := s.eval(n.Condition, input)
	if err != nil {
		return nil, err
	}
	var out []value.Value
	for _, c := range conds {
		branch := n.ElseBranch
		if c.Truthy() {
			branch = n.ThenBranch
		}
		r, err := s.eval(branch, input)
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}
