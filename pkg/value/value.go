// Package value implements FGH's JSON-shaped tagged-union value type: a
// closed Null|Bool|Number|String|Array|Object union, order-preserving
// objects, structural equality, and the cross-type total order used by sort
// and the comparison operators.
package value

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies which alternative of the Value union is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a single member of FGH's JSON value algebra. The zero Value is
// Null. Only the field matching Kind is meaningful.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  []Value
	obj  *Object
}

// Object is an insertion-ordered string-keyed map, so that key order
// survives round trips through the evaluator and the JSON codec.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject returns an empty, ready-to-use Object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Set inserts or updates key, appending it to the key order on first insert.
func (o *Object) Set(key string, v Value) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Delete removes key, preserving the relative order of the rest.
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the object's keys in insertion order. The slice must not be
// mutated by callers.
func (o *Object) Keys() []string { return o.keys }

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// Clone returns a deep-enough copy (new key slice and map, values are
// Values which are themselves immutable-by-convention).
func (o *Object) Clone() *Object {
	n := &Object{
		keys:   append([]string(nil), o.keys...),
		values: make(map[string]Value, len(o.values)),
	}
	for k, v := range o.values {
		n.values[k] = v
	}
	return n
}

// Constructors.

// Null is the FGH null value.
var Null = Value{kind: KindNull}

// Bool constructs a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number constructs a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String constructs a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array constructs an array Value from elements. The slice is not copied;
// callers must not mutate it afterwards.
func Array(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, arr: elems}
}

// Obj constructs an object Value from an *Object. A nil Object produces an
// empty object.
func Obj(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// Accessors.

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload; valid only when Kind() == KindBool.
func (v Value) Bool() bool { return v.b }

// Number returns the numeric payload; valid only when Kind() == KindNumber.
func (v Value) Number() float64 { return v.n }

// Str returns the string payload; valid only when Kind() == KindString.
func (v Value) Str() string { return v.s }

// Arr returns the array payload; valid only when Kind() == KindArray. The
// returned slice must not be mutated.
func (v Value) Arr() []Value { return v.arr }

// Object returns the object payload; valid only when Kind() == KindObject.
func (v Value) Object() *Object { return v.obj }

// Truthy reports whether v counts as true in a boolean context: only false
// and null are falsy, everything else (including 0, "", [], {}) is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	default:
		return true
	}
}

// Equal implements structural deep equality (==, !=): different type tags
// compare unequal; numbers by strict ==; strings code-point (byte, since Go
// strings are UTF-8 and byte equality on valid UTF-8 is code-point
// equality) equal; arrays/objects componentwise.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for _, k := range a.obj.keys {
			av, _ := a.obj.Get(k)
			bv, ok := b.obj.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func kindRank(k Kind) int {
	switch k {
	case KindNull:
		return 0
	case KindBool:
		return 1 // false and true share a rank; Compare orders false before true
	case KindNumber:
		return 2
	case KindString:
		return 3
	case KindArray:
		return 4
	case KindObject:
		return 5
	default:
		return 6
	}
}

// Compare implements the cross-type total order:
// null < false < true < number < string < array < object, numbers compared
// numerically, strings by code-point sequence, arrays lexicographically,
// objects by sorted key set then key-by-key value.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		ra, rb := kindRank(a.kind), kindRank(b.kind)
		switch {
		case ra < rb:
			return -1
		case ra > rb:
			return 1
		default:
			return 0
		}
	}
	switch a.kind {
	case KindNull:
		return 0
	case KindBool:
		if a.b == b.b {
			return 0
		}
		if !a.b && b.b {
			return -1
		}
		return 1
	case KindNumber:
		switch {
		case a.n < b.n:
			return -1
		case a.n > b.n:
			return 1
		default:
			return 0
		}
	case KindString:
		return strings.Compare(a.s, b.s)
	case KindArray:
		for i := 0; i < len(a.arr) && i < len(b.arr); i++ {
			if c := Compare(a.arr[i], b.arr[i]); c != 0 {
				return c
			}
		}
		switch {
		case len(a.arr) < len(b.arr):
			return -1
		case len(a.arr) > len(b.arr):
			return 1
		default:
			return 0
		}
	case KindObject:
		ak := append([]string(nil), a.obj.keys...)
		bk := append([]string(nil), b.obj.keys...)
		sort.Strings(ak)
		sort.Strings(bk)
		for i := 0; i < len(ak) && i < len(bk); i++ {
			if c := strings.Compare(ak[i], bk[i]); c != 0 {
				return c
			}
		}
		if len(ak) != len(bk) {
			if len(ak) < len(bk) {
				return -1
			}
			return 1
		}
		for _, k := range ak {
			av, _ := a.obj.Get(k)
			bv, _ := b.obj.Get(k)
			if c := Compare(av, bv); c != 0 {
				return c
			}
		}
		return 0
	default:
		return 0
	}
}

// Less reports whether a sorts strictly before b under Compare.
func Less(a, b Value) bool { return Compare(a, b) < 0 }

// String renders v as its canonical JSON encoding (the MarshalJSON output
// in pkg/value/json.go, also used by Tostring).
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid value: %v>", err)
	}
	return string(b)
}
