package evaluator

import (
	"github.com/platformatic/fgh/pkg/ast"
	"github.com/platformatic/fgh/pkg/value"
)

// evalArrayConstruction implements `[e]`: every element expression is
// evaluated against the single input and all of its outputs are collected,
// in order, into one array Value, emitted once.
func (s *state) evalArrayConstruction(n *ast.ArrayConstruction, input value.Value) ([]value.Value, error) {
	var elems []value.Value
	for _, e := range n.Elements {
		r, err := s.eval(e, input)
		if err != nil {
			return nil, err
		}
		elems = append(elems, r...)
	}
	return []value.Value{value.Array(elems)}, nil
}

// evalObjectConstruction implements `{k1:v1, ...}`: every field's value
// expression (and, for dynamic keys, its key expression) is multi-valued;
// the emitted objects are the Cartesian product of every field's stream, in
// field order. A dynamic key that evaluates to null, or to anything other
// than a string, drops that combination from the output.
func (s *state) evalObjectConstruction(n *ast.ObjectConstruction, input value.Value) ([]value.Value, error) {
	if len(n.Fields) == 0 {
		return []value.Value{value.Obj(nil)}, nil
	}

	type fieldStream struct {
		keys   []value.Value // one key per combination index, precomputed for dynamic fields
		values []value.Value
		static string
		isDyn  bool
	}

	streams := make([]fieldStream, len(n.Fields))
	for i, f := range n.Fields {
		vals, err := s.eval(f.Value, input)
		if err != nil {
			return nil, err
		}
		if !f.IsDynamic {
			streams[i] = fieldStream{values: vals, static: f.KeyName}
			continue
		}
		keys, err := s.eval(f.KeyExpr, input)
		if err != nil {
			return nil, err
		}
		streams[i] = fieldStream{values: vals, keys: keys, isDyn: true}
	}

	results := []*value.Object{value.NewObject()}
	for _, fs := range streams {
		var next []*value.Object
		for _, base := range results {
			if fs.isDyn {
				for _, k := range fs.keys {
					if k.Kind() == value.KindNull || k.Kind() != value.KindString {
						continue
					}
					for _, v := range fs.values {
						o := base.Clone()
						o.Set(k.Str(), v)
						next = append(next, o)
					}
				}
				continue
			}
			for _, v := range fs.values {
				o := base.Clone()
				o.Set(fs.static, v)
				next = append(next, o)
			}
		}
		results = next
		if len(results) == 0 {
			break
		}
	}

	out := make([]value.Value, len(results))
	for i, o := range results {
		out[i] = value.Obj(o)
	}
	return out, nil
}
