package evaluator

import (
	"github.com/platformatic/fgh/pkg/ast"
	"github.com/platformatic/fgh/pkg/ferrors"
	"github.com/platformatic/fgh/pkg/value"
)

// eval is the single dispatch point every node-specific evaluator is
// reached through. It enforces the recursion depth bound and otherwise
// delegates to one function per AST variant.
func (s *state) eval(node ast.Node, input value.Value) ([]value.Value, error) {
	if err := s.enter(node.Position()); err != nil {
		return nil, err
	}
	defer s.leave()

	switch n := node.(type) {
	case *ast.Identity:
		return []value.Value{input}, nil
	case *ast.Literal:
		return []value.Value{n.Value}, nil
	case *ast.Empty:
		return nil, nil
	case *ast.RecursiveDescent:
		return s.evalRecursiveDescent(input), nil

	case *ast.PropertyAccess:
		return s.evalPropertyAccess(n, input)
	case *ast.IndexAccess:
		return s.evalIndexAccess(n, input)
	case *ast.Slice:
		return s.evalSlice(n, input)
	case *ast.ArrayIteration:
		return s.evalArrayIteration(n, input)
	case *ast.Optional:
		return s.evalOptional(n, input)

	case *ast.Pipe:
		return s.evalPipe(n, input)
	case *ast.Sequence:
		return s.evalSequence(n, input)

	case *ast.ArrayConstruction:
		return s.evalArrayConstruction(n, input)
	case *ast.ObjectConstruction:
		return s.evalObjectConstruction(n, input)

	case *ast.Not:
		return s.evalNot(n, input)
	case *ast.Conditional:
		return s.evalConditional(n, input)

	case *ast.MapFilter:
		return s.evalMapFilter(n, input)
	case *ast.MapValuesFilter:
		return s.evalMapValuesFilter(n, input)
	case *ast.SelectFilter:
		return s.evalSelectFilter(n, input)
	case *ast.Sort:
		return s.evalSort(input)
	case *ast.SortBy:
		return s.evalSortBy(n, input)
	case *ast.Keys:
		return s.evalKeys(input, true)
	case *ast.KeysUnsorted:
		return s.evalKeys(input, false)
	case *ast.Tostring:
		return s.evalTostring(input)
	case *ast.Tonumber:
		return s.evalTonumber(input)
	case *ast.Length:
		return s.evalLength(input)
	case *ast.HasKey:
		return s.evalHasKey(n, input)

	case *ast.Default:
		return s.evalDefault(n, input)
	case ast.BinaryNode:
		return s.evalBinary(n, input)

	default:
		return nil, ferrors.NewAt(ferrors.CategoryType, ferrors.CodeIncompatibleTypes,
			"unsupported AST node", node.Position())
	}
}

// evalChainInput evaluates the optional Input sub-node that access nodes
// (PropertyAccess, IndexAccess, Slice, ArrayIteration) carry: nil means
// "the pipeline's current input", matching a bare `.foo` at the head of a
// chain.
func (s *state) evalChainInput(in ast.Node, current value.Value) ([]value.Value, error) {
	if in == nil {
		return []value.Value{current}, nil
	}
	return s.eval(in, current)
}

// evalOptional implements `expr?`: errors raised anywhere while computing
// Expr for this input are swallowed into "no output" for this path only;
// errors from sibling paths in an enclosing Sequence or Pipe are untouched
// since this function's error return never escapes past its own caller's
// handling of this one subexpression.
func (s *state) evalOptional(n *ast.Optional, input value.Value) ([]value.Value, error) {
	out, err := s.eval(n.Expr, input)
	if err != nil {
		return nil, nil
	}
	return out, nil
}

// evalPipe implements `left | right`: right is evaluated once per output of
// left, concatenating results in order.
func (s *state) evalPipe(n *ast.Pipe, input value.Value) ([]value.Value, error) {
	leftOut, err := s.eval(n.Left, input)
	if err != nil {
		return nil, err
	}
	var out []value.Value
	for _, v := range leftOut {
		rightOut, err := s.eval(n.Right, v)
		if err != nil {
			return nil, err
		}
		out = append(out, rightOut...)
	}
	return out, nil
}

// evalSequence implements `a, b, c`: every branch is evaluated against the
// same input, outputs concatenated in source order.
func (s *state) evalSequence(n *ast.Sequence, input value.Value) ([]value.Value, error) {
	var out []value.Value
	for _, e := range n.Exprs {
		r, err := s.eval(e, input)
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}
