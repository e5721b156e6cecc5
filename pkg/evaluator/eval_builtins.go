package evaluator

import (
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/platformatic/fgh/pkg/ast"
	"github.com/platformatic/fgh/pkg/ferrors"
	"github.com/platformatic/fgh/pkg/value"
)

// evalMapFilter implements `map(f)`: over an array, emits one array whose
// elements are the concatenated outputs of f applied to each element in
// turn. Over an object, iterates its values in insertion order instead
// (jq's `[.[] | f]`), still emitting one array; any other input is a
// TypeError.
func (s *state) evalMapFilter(n *ast.MapFilter, input value.Value) ([]value.Value, error) {
	var elems []value.Value
	switch input.Kind() {
	case value.KindArray:
		elems = input.Arr()
	case value.KindObject:
		keys := input.Object().Keys()
		elems = make([]value.Value, len(keys))
		for i, k := range keys {
			elems[i], _ = input.Object().Get(k)
		}
	default:
		return nil, ferrors.NewAt(ferrors.CategoryType, ferrors.CodeMapNonArrayObject,
			"map requires an array or object input, got "+input.Kind().String(), n.Position())
	}
	var out []value.Value
	for _, elem := range elems {
		r, err := s.eval(n.Filter, elem)
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return []value.Value{value.Array(out)}, nil
}

// evalMapValuesFilter implements `map_values(f)`: structure-preserving.
// Over arrays only the first output of f per element is kept, and an
// element for which f produces no output is dropped. Over objects each
// value is replaced by f's first output, and a key is dropped entirely when
// f yields nothing. Plain `map` over an object iterates over values and
// yields an array; map_values instead preserves the object shape.
func (s *state) evalMapValuesFilter(n *ast.MapValuesFilter, input value.Value) ([]value.Value, error) {
	switch input.Kind() {
	case value.KindArray:
		var out []value.Value
		for _, elem := range input.Arr() {
			r, err := s.eval(n.Filter, elem)
			if err != nil {
				return nil, err
			}
			if len(r) == 0 {
				continue
			}
			out = append(out, r[0])
		}
		return []value.Value{value.Array(out)}, nil
	case value.KindObject:
		out := value.NewObject()
		for _, k := range input.Object().Keys() {
			fv, _ := input.Object().Get(k)
			r, err := s.eval(n.Filter, fv)
			if err != nil {
				return nil, err
			}
			if len(r) == 0 {
				continue
			}
			out.Set(k, r[0])
		}
		return []value.Value{value.Obj(out)}, nil
	default:
		return nil, ferrors.NewAt(ferrors.CategoryType, ferrors.CodeMapNonArrayObject,
			"map_values requires an array or object input, got "+input.Kind().String(), n.Position())
	}
}

// evalSelectFilter implements `select(c)`: the input is emitted once if c
// yields any truthy value, otherwise nothing.
func (s *state) evalSelectFilter(n *ast.SelectFilter, input value.Value) ([]value.Value, error) {
	conds, err := s.eval(n.Condition, input)
	if err != nil {
		return nil, err
	}
	for _, c := range conds {
		if c.Truthy() {
			return []value.Value{input}, nil
		}
	}
	return nil, nil
}

// evalSort implements `sort`: one sorted copy of an array input using the
// total order.
func (s *state) evalSort(input value.Value) ([]value.Value, error) {
	if input.Kind() != value.KindArray {
		return nil, ferrors.Type(ferrors.CodeSortNonArray, "sort requires an array input, got "+input.Kind().String())
	}
	sorted := append([]value.Value(nil), input.Arr()...)
	sort.SliceStable(sorted, func(i, j int) bool { return value.Less(sorted[i], sorted[j]) })
	return []value.Value{value.Array(sorted)}, nil
}

// evalSortBy implements `sort_by(p1, p2, ...)`: one sorted copy of an array
// input, ordered by the lexicographic tuple of each element's path
// expressions (the first output of each path, or null when a path yields
// none).
func (s *state) evalSortBy(n *ast.SortBy, input value.Value) ([]value.Value, error) {
	if input.Kind() != value.KindArray {
		return nil, ferrors.NewAt(ferrors.CategoryType, ferrors.CodeSortNonArray,
			"sort_by requires an array input, got "+input.Kind().String(), n.Position())
	}
	arr := input.Arr()
	keys := make([][]value.Value, len(arr))
	for i, elem := range arr {
		tuple := make([]value.Value, len(n.Paths))
		for j, p := range n.Paths {
			r, err := s.eval(p, elem)
			if err != nil {
				return nil, err
			}
			if len(r) == 0 {
				tuple[j] = value.Null
			} else {
				tuple[j] = r[0]
			}
		}
		keys[i] = tuple
	}
	idx := make([]int, len(arr))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ta, tb := keys[idx[a]], keys[idx[b]]
		for k := 0; k < len(ta); k++ {
			if c := value.Compare(ta[k], tb[k]); c != 0 {
				return c < 0
			}
		}
		return false
	})
	out := make([]value.Value, len(arr))
	for i, j := range idx {
		out[i] = arr[j]
	}
	return []value.Value{value.Array(out)}, nil
}

// evalKeys implements `keys` (sorted == true) and `keys_unsorted`: objects
// yield their keys as strings (sorted or insertion order), arrays yield
// [0..len) as numbers, and any scalar yields an empty array.
func (s *state) evalKeys(input value.Value, sorted bool) ([]value.Value, error) {
	switch input.Kind() {
	case value.KindObject:
		ks := append([]string(nil), input.Object().Keys()...)
		if sorted {
			sort.Strings(ks)
		}
		out := make([]value.Value, len(ks))
		for i, k := range ks {
			out[i] = value.String(k)
		}
		return []value.Value{value.Array(out)}, nil
	case value.KindArray:
		out := make([]value.Value, len(input.Arr()))
		for i := range out {
			out[i] = value.Number(float64(i))
		}
		return []value.Value{value.Array(out)}, nil
	default:
		return []value.Value{value.Array(nil)}, nil
	}
}

// evalTostring implements `tostring`: strings pass through unchanged,
// everything else is rendered as its canonical JSON encoding.
func (s *state) evalTostring(input value.Value) ([]value.Value, error) {
	if input.Kind() == value.KindString {
		return []value.Value{input}, nil
	}
	b, err := input.MarshalJSON()
	if err != nil {
		return nil, ferrors.Type(ferrors.CodeIncompatibleTypes, "tostring: "+err.Error())
	}
	return []value.Value{value.String(string(b))}, nil
}

// evalTonumber implements `tonumber`: numbers pass through, numeric strings
// parse, anything else is a TypeError.
func (s *state) evalTonumber(input value.Value) ([]value.Value, error) {
	switch input.Kind() {
	case value.KindNumber:
		return []value.Value{input}, nil
	case value.KindString:
		n, err := strconv.ParseFloat(input.Str(), 64)
		if err != nil {
			return nil, ferrors.Type(ferrors.CodeTonumberNonNumeric, "tonumber: not a numeric string: "+strconv.Quote(input.Str()))
		}
		return []value.Value{value.Number(n)}, nil
	default:
		return nil, ferrors.Type(ferrors.CodeTonumberNonNumeric, "tonumber requires a number or numeric string, got "+input.Kind().String())
	}
}

// evalLength implements `length`: null is 0, numbers give their absolute
// value, strings their code-point count, arrays/objects their element/key
// count, and booleans are a TypeError.
func (s *state) evalLength(input value.Value) ([]value.Value, error) {
	switch input.Kind() {
	case value.KindNull:
		return []value.Value{value.Number(0)}, nil
	case value.KindNumber:
		n := input.Number()
		if n < 0 {
			n = -n
		}
		return []value.Value{value.Number(n)}, nil
	case value.KindString:
		return []value.Value{value.Number(float64(utf8.RuneCountInString(input.Str())))}, nil
	case value.KindArray:
		return []value.Value{value.Number(float64(len(input.Arr())))}, nil
	case value.KindObject:
		return []value.Value{value.Number(float64(input.Object().Len()))}, nil
	default:
		return nil, ferrors.Type(ferrors.CodeLengthOfBoolean, "length of a boolean is not defined")
	}
}

// evalHasKey implements `has(k)`: k is itself evaluated per input. Objects
// test string-key membership; arrays test whether a non-negative integer
// key is in bounds. A null input yields false. Any other key type, or any
// other scalar input, is a KeyError.
func (s *state) evalHasKey(n *ast.HasKey, input value.Value) ([]value.Value, error) {
	keys, err := s.eval(n.Key, input)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, 0, len(keys))
	for _, k := range keys {
		switch input.Kind() {
		case value.KindObject:
			if k.Kind() != value.KindString {
				return nil, ferrors.NewAt(ferrors.CategoryKey, ferrors.CodeHasBadArgument,
					"has() on an object requires a string key", n.Position())
			}
			_, ok := input.Object().Get(k.Str())
			out = append(out, value.Bool(ok))
		case value.KindArray:
			if k.Kind() != value.KindNumber || k.Number() != float64(int(k.Number())) || k.Number() < 0 {
				return nil, ferrors.NewAt(ferrors.CategoryKey, ferrors.CodeHasBadArgument,
					"has() on an array requires a non-negative integer key", n.Position())
			}
			idx := int(k.Number())
			out = append(out, value.Bool(idx < len(input.Arr())))
		case value.KindNull:
			out = append(out, value.Bool(false))
		default:
			return nil, ferrors.NewAt(ferrors.CategoryKey, ferrors.CodeHasBadArgument,
				"has() requires an object or array input, got "+input.Kind().String(), n.Position())
		}
	}
	return out, nil
}
