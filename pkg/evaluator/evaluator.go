// Package evaluator implements FGH's tree-walking evaluator: it maps every
// AST node to zero or more output values for one input value. Every node
// function has the uniform signature eval(node, input) ([]value.Value,
// error); multi-valued fan-out (from `.[]`, `..`, and `,`) and Cartesian
// combination across binary operands are explicit, never incidental.
package evaluator

import (
	"log/slog"

	"github.com/platformatic/fgh/pkg/ast"
	"github.com/platformatic/fgh/pkg/ferrors"
	"github.com/platformatic/fgh/pkg/value"
)

// Options configures evaluation.
type Options struct {
	// MaxDepth bounds recursive evaluation depth, guarding against stack
	// overflow from deeply nested input or expressions.
	MaxDepth int
	// Logger, when set, receives debug-level tracing of recursive-descent
	// traversal and depth-limit trips. A nil Logger (the default) emits no
	// tracing at all; New never substitutes slog.Default() for it, so
	// embedding FGH in a server never forces output onto the caller.
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithMaxDepth bounds evaluation recursion depth.
func WithMaxDepth(depth int) Option {
	return func(o *Options) { o.MaxDepth = depth }
}

// WithLogger sets a custom logger for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

const defaultMaxDepth = 1000

// Evaluator evaluates an ast.Node against a value.Value input, producing
// the defined stream of output values for each node kind.
type Evaluator struct {
	opts   Options
	logger *slog.Logger
}

// New constructs an Evaluator with the given options applied over sensible
// defaults. A nil Options.Logger stays nil: New never substitutes
// slog.Default() for it, so evaluation is silent unless the caller opts in.
func New(opts ...Option) *Evaluator {
	o := Options{MaxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return &Evaluator{opts: o, logger: o.Logger}
}

// Eval evaluates node against input, returning the (possibly empty,
// possibly multi-valued) output stream.
func (e *Evaluator) Eval(node ast.Node, input value.Value) ([]value.Value, error) {
	st := &state{opts: e.opts, logger: e.logger}
	return st.eval(node, input)
}

// state carries per-call mutable evaluation state (the recursion depth) so
// an Evaluator itself stays immutable and safe for concurrent reuse across
// calls.
type state struct {
	opts   Options
	logger *slog.Logger
	depth  int
}

func (s *state) enter(pos int) error {
	s.depth++
	if s.depth > s.opts.MaxDepth {
		if s.logger != nil {
			s.logger.Debug("evaluation depth limit exceeded", "depth", s.depth, "max_depth", s.opts.MaxDepth, "position", pos)
		}
		return ferrors.NewAt(ferrors.CategoryType, ferrors.CodeMaxDepthExceeded, "maximum evaluation depth exceeded", pos)
	}
	return nil
}

func (s *state) leave() { s.depth-- }

// debugf emits a debug-level trace when a Logger is configured; it is a
// no-op otherwise, so tracing never forces slog.Default() output onto a
// caller who didn't ask for it.
func (s *state) debugf(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
