// Package fgh compiles JQ-like filter expressions into executable Filters
// that map one JSON-shaped input Value to a finite, ordered sequence of
// output Values. It exposes four thin entry points — the actual lexing,
// parsing, evaluation, and formatting live in pkg/lexer, pkg/parser,
// pkg/evaluator, and pkg/formatter respectively:
//
//	filter, err := fgh.Compile(".users[] | select(.age > 18) | .name")
//	out, err := filter.Apply(input)
//
// or, for one-shot use:
//
//	out, err := fgh.Query(".a + .b", input)
//
// This is a thin wrapper re-exporting its sub-packages' functional options:
// filter compilation caching policy is left to the caller, and there is no
// def/variable-binding mechanism for custom functions to hang off of.
package fgh

import (
	"fmt"

	"github.com/platformatic/fgh/pkg/ast"
	"github.com/platformatic/fgh/pkg/evaluator"
	"github.com/platformatic/fgh/pkg/formatter"
	"github.com/platformatic/fgh/pkg/parser"
	"github.com/platformatic/fgh/pkg/value"
)

// Value is FGH's JSON value type, re-exported so callers only need to
// import this top-level package for ordinary use.
type Value = value.Value

// CompileOption configures Compile/Parse. Re-exports parser.CompileOption.
type CompileOption = parser.CompileOption

// WithMaxDepth bounds parser expression-nesting depth.
func WithMaxDepth(depth int) CompileOption { return parser.WithMaxDepth(depth) }

// EvalOption configures Filter.Apply. Re-exports evaluator.Option.
type EvalOption = evaluator.Option

// WithEvalMaxDepth bounds evaluator recursion depth.
func WithEvalMaxDepth(depth int) EvalOption { return evaluator.WithMaxDepth(depth) }

// FormatOption configures Format. Re-exports formatter.Option.
type FormatOption = formatter.Option

// WithPretty enables multi-line, indented formatter output.
func WithPretty(pretty bool) FormatOption { return formatter.WithPretty(pretty) }

// WithIndent sets the formatter's indent unit.
func WithIndent(indent string) FormatOption { return formatter.WithIndent(indent) }

// Filter is a compiled filter expression, safe to Apply concurrently from
// multiple goroutines: it holds only its immutable AST.
type Filter struct {
	ast ast.Node
}

// Compile parses source into a Filter ready for repeated Apply calls.
func Compile(source string, opts ...CompileOption) (*Filter, error) {
	node, err := parser.Parse(source, opts...)
	if err != nil {
		return nil, err
	}
	return &Filter{ast: node}, nil
}

// MustCompile is like Compile but panics on a parse error. It simplifies
// safe initialization of package-level Filter variables.
func MustCompile(source string) *Filter {
	f, err := Compile(source)
	if err != nil {
		panic(fmt.Sprintf("fgh: Compile(%q): %v", source, err))
	}
	return f
}

// Apply evaluates the filter against input, returning every output Value in
// the filter's evaluation order. A RuntimeError aborts the call and returns
// no partial results.
func (f *Filter) Apply(input value.Value, opts ...EvalOption) ([]value.Value, error) {
	ev := evaluator.New(opts...)
	out, err := ev.Eval(f.ast, input)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AST exposes the Filter's compiled AST, e.g. for passing to Format.
func (f *Filter) AST() ast.Node { return f.ast }

// Query compiles source and applies it to input in one call. For repeated
// evaluation of the same source, Compile once and call Filter.Apply
// instead.
func Query(source string, input value.Value, opts ...EvalOption) ([]value.Value, error) {
	f, err := Compile(source)
	if err != nil {
		return nil, err
	}
	return f.Apply(input, opts...)
}

// Parse parses source into its AST without compiling it into a Filter,
// exposing the tree for tooling.
func Parse(source string, opts ...CompileOption) (ast.Node, error) {
	return parser.Parse(source, opts...)
}

// Format renders an AST back to filter source.
func Format(node ast.Node, opts ...FormatOption) string {
	return formatter.Format(node, opts...)
}
