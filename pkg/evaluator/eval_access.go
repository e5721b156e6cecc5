package evaluator

import (
	"github.com/platformatic/fgh/pkg/ast"
	"github.com/platformatic/fgh/pkg/ferrors"
	"github.com/platformatic/fgh/pkg/value"
)

// evalPropertyAccess implements PropertyAccess: objects yield the key's
// value (null when the key is absent, matching ordinary property access
// rather than only the Null-input case), null input yields null, a string
// key against an array is an IndexError, and any other input is a
// TypeError. The string-key form behaves identically; it only differs in
// what characters the parser permitted in Property.
func (s *state) evalPropertyAccess(n *ast.PropertyAccess, input value.Value) ([]value.Value, error) {
	base, err := s.evalChainInput(n.Input, input)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, 0, len(base))
	for _, v := range base {
		switch v.Kind() {
		case value.KindObject:
			fv, ok := v.Object().Get(n.Property)
			if !ok {
				out = append(out, value.Null)
				continue
			}
			out = append(out, fv)
		case value.KindNull:
			out = append(out, value.Null)
		case value.KindArray:
			return nil, ferrors.NewAt(ferrors.CategoryIndex, ferrors.CodeStringIndexOnArray,
				"cannot index array with string \""+n.Property+"\"", n.Position())
		default:
			return nil, ferrors.NewAt(ferrors.CategoryType, ferrors.CodeNotIndexable,
				"cannot index "+v.Kind().String()+" with \""+n.Property+"\"", n.Position())
		}
	}
	return out, nil
}

// evalIndexAccess implements IndexAccess: `.[N]` / `.[-N]`. Arrays resolve
// negative indices relative to length and yield null out of range; anything
// else (including null, which is a non-array) is a TypeError.
func (s *state) evalIndexAccess(n *ast.IndexAccess, input value.Value) ([]value.Value, error) {
	base, err := s.evalChainInput(n.Input, input)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, 0, len(base))
	for _, v := range base {
		if v.Kind() != value.KindArray {
			return nil, ferrors.NewAt(ferrors.CategoryType, ferrors.CodeNotIndexable,
				"cannot index "+v.Kind().String()+" with number", n.Position())
		}
		arr := v.Arr()
		idx := n.Index
		if idx < 0 {
			idx += len(arr)
		}
		if idx < 0 || idx >= len(arr) {
			out = append(out, value.Null)
			continue
		}
		out = append(out, arr[idx])
	}
	return out, nil
}

// evalSlice implements Slice over arrays and strings; bounds default to 0
// and len, negative bounds are relative to length, and both are clamped to
// [0, len]. start > end yields an empty array/string rather than an error.
func (s *state) evalSlice(n *ast.Slice, input value.Value) ([]value.Value, error) {
	base, err := s.evalChainInput(n.Input, input)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, 0, len(base))
	for _, v := range base {
		switch v.Kind() {
		case value.KindArray:
			arr := v.Arr()
			start, end := resolveSliceBounds(n.Start, n.End, len(arr))
			if start >= end {
				out = append(out, value.Array(nil))
				continue
			}
			sliced := append([]value.Value(nil), arr[start:end]...)
			out = append(out, value.Array(sliced))
		case value.KindString:
			runes := []rune(v.Str())
			start, end := resolveSliceBounds(n.Start, n.End, len(runes))
			if start >= end {
				out = append(out, value.String(""))
				continue
			}
			out = append(out, value.String(string(runes[start:end])))
		default:
			return nil, ferrors.NewAt(ferrors.CategoryType, ferrors.CodeNotIndexable,
				"cannot slice "+v.Kind().String(), n.Position())
		}
	}
	return out, nil
}

func resolveSliceBounds(startPtr, endPtr *int, length int) (int, int) {
	start, end := 0, length
	if startPtr != nil {
		start = clampIndex(*startPtr, length)
	}
	if endPtr != nil {
		end = clampIndex(*endPtr, length)
	}
	return start, end
}

func clampIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

// evalArrayIteration implements `.[]`: arrays fan out their elements,
// objects fan out their values in insertion order, null drops silently (no
// output, no error — matching ordinary jq behavior for a absent collection),
// and any other scalar is a TypeError.
func (s *state) evalArrayIteration(n *ast.ArrayIteration, input value.Value) ([]value.Value, error) {
	base, err := s.evalChainInput(n.Input, input)
	if err != nil {
		return nil, err
	}
	var out []value.Value
	for _, v := range base {
		switch v.Kind() {
		case value.KindArray:
			out = append(out, v.Arr()...)
		case value.KindObject:
			for _, k := range v.Object().Keys() {
				fv, _ := v.Object().Get(k)
				out = append(out, fv)
			}
		case value.KindNull:
			// drop
		default:
			return nil, ferrors.NewAt(ferrors.CategoryType, ferrors.CodeNotIndexable,
				"cannot iterate over "+v.Kind().String(), n.Position())
		}
	}
	return out, nil
}

// evalRecursiveDescent implements `..`: pre-order depth-first enumeration of
// input and every value reachable through array/object traversal. FGH's
// value.Value is decoded from JSON (or built by construction), so it forms
// a tree, never a cycle — there is no back-reference an identity-tracking
// set would need to catch. The walk is therefore a plain explicit-stack
// traversal, avoiding host-stack recursion on large inputs, rather than a
// recursive function call per node.
func (s *state) evalRecursiveDescent(input value.Value) []value.Value {
	var out []value.Value
	stack := []value.Value{input}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, v)
		switch v.Kind() {
		case value.KindArray:
			arr := v.Arr()
			for i := len(arr) - 1; i >= 0; i-- {
				stack = append(stack, arr[i])
			}
		case value.KindObject:
			keys := v.Object().Keys()
			for i := len(keys) - 1; i >= 0; i-- {
				fv, _ := v.Object().Get(keys[i])
				stack = append(stack, fv)
			}
		}
	}
	s.debugf("recursive descent traversal complete", "visited", len(out), "pending_stack_depth", len(stack))
	return out
}
