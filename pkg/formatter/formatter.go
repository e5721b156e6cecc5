// Package formatter implements FGH's AST-to-source printer: round-trip
// rendering of an ast.Node back to filter source, in compact or pretty
// (indented) form, inserting parentheses only where operator precedence or
// chain-input grouping requires them.
package formatter

import (
	"strconv"
	"strings"

	"github.com/platformatic/fgh/pkg/ast"
)

// Options configures Format.
type Options struct {
	Pretty bool
	Indent string
}

type Option func(*Options)

// WithPretty enables newline/indent formatting of array, object, and
// conditional constructs.
func WithPretty(pretty bool) Option {
	return func(o *Options) { o.Pretty = pretty }
}

// WithIndent sets the indent unit used in pretty mode (default "  ").
func WithIndent(indent string) Option {
	return func(o *Options) { o.Indent = indent }
}

// Format renders node as filter source. Parsing the result reproduces a
// structurally equivalent AST.
func Format(node ast.Node, opts ...Option) string {
	o := Options{Indent: "  "}
	for _, opt := range opts {
		opt(&o)
	}
	f := &printer{opts: o}
	f.node(node, precSequence, 0)
	return f.buf.String()
}

// Precedence levels, lowest to highest, mirroring the grammar's precedence
// cascade. A child needs parentheses when its own precedence is lower than
// the minimum its position in the parent requires.
const (
	precSequence = iota
	precPipe
	precLogical
	precDefault
	precComparison
	precSum
	precProduct
	precChain
)

type printer struct {
	buf  strings.Builder
	opts Options
}

func (p *printer) node(n ast.Node, minPrec int, depth int) {
	if prec(n) < minPrec {
		p.buf.WriteByte('(')
		p.nodeInner(n, depth)
		p.buf.WriteByte(')')
		return
	}
	p.nodeInner(n, depth)
}

// prec reports the node's own precedence level for parenthesization
// decisions.
func prec(n ast.Node) int {
	switch n.(type) {
	case *ast.Sequence:
		return precSequence
	case *ast.Pipe:
		return precPipe
	case *ast.And, *ast.Or:
		return precLogical
	case *ast.Default:
		return precDefault
	case *ast.Equal, *ast.NotEqual, *ast.LessThan, *ast.LessThanOrEqual,
		*ast.GreaterThan, *ast.GreaterThanOrEqual:
		return precComparison
	case *ast.Sum, *ast.Difference:
		return precSum
	case *ast.Multiply, *ast.Divide, *ast.Modulo:
		return precProduct
	default:
		return precChain
	}
}

func (p *printer) nodeInner(n ast.Node, depth int) {
	switch node := n.(type) {
	case *ast.Identity:
		p.buf.WriteByte('.')
	case *ast.RecursiveDescent:
		p.buf.WriteString("..")
	case *ast.Empty:
		p.buf.WriteString("empty")
	case *ast.Literal:
		p.literal(node)

	case *ast.PropertyAccess:
		p.propertyAccess(node, depth)
	case *ast.IndexAccess:
		p.chainInput(node.Input, depth)
		p.buf.WriteByte('[')
		p.buf.WriteString(strconv.Itoa(node.Index))
		p.buf.WriteByte(']')
	case *ast.Slice:
		p.chainInput(node.Input, depth)
		p.buf.WriteByte('[')
		if node.Start != nil {
			p.buf.WriteString(strconv.Itoa(*node.Start))
		}
		p.buf.WriteByte(':')
		if node.End != nil {
			p.buf.WriteString(strconv.Itoa(*node.End))
		}
		p.buf.WriteByte(']')
	case *ast.ArrayIteration:
		p.chainInput(node.Input, depth)
		p.buf.WriteString("[]")
	case *ast.Optional:
		p.node(node.Expr, precChain, depth)
		p.buf.WriteByte('?')

	case *ast.Pipe:
		p.node(node.Left, precLogical, depth)
		p.buf.WriteString(" | ")
		p.node(node.Right, precPipe, depth)
	case *ast.Sequence:
		for i, e := range node.Exprs {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.node(e, precPipe, depth)
		}

	case *ast.ArrayConstruction:
		p.arrayConstruction(node, depth)
	case *ast.ObjectConstruction:
		p.objectConstruction(node, depth)

	case *ast.Sum:
		p.binary(node.GetLeft(), node.GetRight(), "+", precSum, depth)
	case *ast.Difference:
		p.binary(node.GetLeft(), node.GetRight(), "-", precSum, depth)
	case *ast.Multiply:
		p.binary(node.GetLeft(), node.GetRight(), "*", precProduct, depth)
	case *ast.Divide:
		p.binary(node.GetLeft(), node.GetRight(), "/", precProduct, depth)
	case *ast.Modulo:
		p.binary(node.GetLeft(), node.GetRight(), "%", precProduct, depth)
	case *ast.Equal:
		p.binary(node.GetLeft(), node.GetRight(), "==", precComparison, depth)
	case *ast.NotEqual:
		p.binary(node.GetLeft(), node.GetRight(), "!=", precComparison, depth)
	case *ast.LessThan:
		p.binary(node.GetLeft(), node.GetRight(), "<", precComparison, depth)
	case *ast.LessThanOrEqual:
		p.binary(node.GetLeft(), node.GetRight(), "<=", precComparison, depth)
	case *ast.GreaterThan:
		p.binary(node.GetLeft(), node.GetRight(), ">", precComparison, depth)
	case *ast.GreaterThanOrEqual:
		p.binary(node.GetLeft(), node.GetRight(), ">=", precComparison, depth)
	case *ast.And:
		p.binary(node.GetLeft(), node.GetRight(), "and", precLogical, depth)
	case *ast.Or:
		p.binary(node.GetLeft(), node.GetRight(), "or", precLogical, depth)
	case *ast.Default:
		p.binary(node.GetLeft(), node.GetRight(), "//", precDefault, depth)
	case *ast.Not:
		p.buf.WriteString("not")

	case *ast.Conditional:
		p.conditional(node, depth)

	case *ast.MapFilter:
		p.keywordCall("map", node.Filter, depth)
	case *ast.MapValuesFilter:
		p.keywordCall("map_values", node.Filter, depth)
	case *ast.SelectFilter:
		p.keywordCall("select", node.Condition, depth)
	case *ast.HasKey:
		p.keywordCall("has", node.Key, depth)

	case *ast.Sort:
		p.buf.WriteString("sort")
	case *ast.SortBy:
		p.buf.WriteString("sort_by(")
		for i, path := range node.Paths {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.node(path, precPipe, depth)
		}
		p.buf.WriteByte(')')
	case *ast.Keys:
		p.buf.WriteString("keys")
	case *ast.KeysUnsorted:
		p.buf.WriteString("keys_unsorted")
	case *ast.Tostring:
		p.buf.WriteString("tostring")
	case *ast.Tonumber:
		p.buf.WriteString("tonumber")
	case *ast.Length:
		p.buf.WriteString("length")

	default:
		p.buf.WriteString("<?>")
	}
}

// chainInput formats the (never-nil, except for the first bare property
// access) base of an access node, wrapping it in parentheses when it is
// itself a Pipe or Sequence (precedence lower than chain binding).
func (p *printer) chainInput(in ast.Node, depth int) {
	if in == nil {
		p.buf.WriteByte('.')
		return
	}
	p.node(in, precChain, depth)
}

func (p *printer) propertyAccess(n *ast.PropertyAccess, depth int) {
	if n.StringKey {
		p.chainInput(n.Input, depth)
		p.buf.WriteByte('[')
		p.buf.WriteString(quoteString(n.Property))
		p.buf.WriteByte(']')
		return
	}
	if n.Input == nil {
		p.buf.WriteByte('.')
		p.buf.WriteString(n.Property)
		return
	}
	p.node(n.Input, precChain, depth)
	p.buf.WriteByte('.')
	p.buf.WriteString(n.Property)
}

func (p *printer) binary(l, r ast.Node, op string, own int, depth int) {
	p.node(l, own, depth)
	p.buf.WriteByte(' ')
	p.buf.WriteString(op)
	p.buf.WriteByte(' ')
	p.node(r, own+1, depth)
}

func (p *printer) keywordCall(name string, inner ast.Node, depth int) {
	p.buf.WriteString(name)
	p.buf.WriteByte('(')
	p.node(inner, precSequence, depth)
	p.buf.WriteByte(')')
}

func (p *printer) literal(n *ast.Literal) {
	v := n.Value
	switch v.Kind().String() {
	case "null":
		p.buf.WriteString("null")
	case "boolean":
		if v.Bool() {
			p.buf.WriteString("true")
		} else {
			p.buf.WriteString("false")
		}
	case "number":
		p.buf.WriteString(formatNumber(v.Number()))
	case "string":
		p.buf.WriteString(quoteString(v.Str()))
	default:
		b, _ := v.MarshalJSON()
		p.buf.Write(b)
	}
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// quoteString renders s as a double-quoted FGH string literal, escaping the
// characters the lexer recognizes as escapes.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (p *printer) indent(depth int) {
	if !p.opts.Pretty {
		return
	}
	p.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		p.buf.WriteString(p.opts.Indent)
	}
}

func (p *printer) arrayConstruction(n *ast.ArrayConstruction, depth int) {
	p.buf.WriteByte('[')
	if len(n.Elements) == 0 {
		p.buf.WriteByte(']')
		return
	}
	if !p.opts.Pretty {
		for i, e := range n.Elements {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.node(e, precPipe, depth)
		}
		p.buf.WriteByte(']')
		return
	}
	for i, e := range n.Elements {
		if i > 0 {
			p.buf.WriteByte(',')
		}
		p.indent(depth + 1)
		p.node(e, precPipe, depth+1)
	}
	p.indent(depth)
	p.buf.WriteByte(']')
}

func (p *printer) objectConstruction(n *ast.ObjectConstruction, depth int) {
	p.buf.WriteByte('{')
	if len(n.Fields) == 0 {
		p.buf.WriteByte('}')
		return
	}
	for i, f := range n.Fields {
		if i > 0 {
			if p.opts.Pretty {
				p.buf.WriteByte(',')
			} else {
				p.buf.WriteString(", ")
			}
		}
		if p.opts.Pretty {
			p.indent(depth + 1)
		}
		p.field(f, depth+1)
	}
	if p.opts.Pretty {
		p.indent(depth)
	}
	p.buf.WriteByte('}')
}

func (p *printer) field(f ast.ObjectField, depth int) {
	if f.IsDynamic {
		p.buf.WriteByte('(')
		p.node(f.KeyExpr, precSequence, depth)
		p.buf.WriteString("): ")
		p.node(f.Value, precPipe, depth)
		return
	}
	if shorthand(f) {
		p.buf.WriteString(f.KeyName)
		return
	}
	p.buf.WriteString(keyLiteral(f.KeyName))
	p.buf.WriteString(": ")
	p.node(f.Value, precPipe, depth)
}

// shorthand reports whether `{ k }` reproduces this field exactly: its
// value must be the bare, non-string-key property access of its own key
// name on the pipeline input.
func shorthand(f ast.ObjectField) bool {
	pa, ok := f.Value.(*ast.PropertyAccess)
	return ok && !pa.StringKey && pa.Input == nil && pa.Property == f.KeyName && isIdent(f.KeyName)
}

func keyLiteral(name string) string {
	if isIdent(name) {
		return name
	}
	return quoteString(name)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func (p *printer) conditional(n *ast.Conditional, depth int) {
	p.buf.WriteString("if ")
	p.node(n.Condition, precSequence, depth)
	p.buf.WriteString(" then")
	p.branchBody(n.ThenBranch, depth)
	p.elseChain(n.ElseBranch, depth)
}

// elseChain prints the elif/else tail, collapsing a nested Conditional in
// ElseBranch back into `elif ... then ...` rather than `else if ... end
// end`, and omitting an else clause whose body is the default Identity the
// parser substitutes for a missing one.
func (p *printer) elseChain(elseBranch ast.Node, depth int) {
	if cond, ok := elseBranch.(*ast.Conditional); ok {
		p.buf.WriteString(" elif ")
		p.node(cond.Condition, precSequence, depth)
		p.buf.WriteString(" then")
		p.branchBody(cond.ThenBranch, depth)
		p.elseChain(cond.ElseBranch, depth)
		return
	}
	if _, ok := elseBranch.(*ast.Identity); ok {
		p.buf.WriteString(" end")
		return
	}
	p.buf.WriteString(" else")
	p.branchBody(elseBranch, depth)
	p.buf.WriteString(" end")
}

func (p *printer) branchBody(n ast.Node, depth int) {
	if p.opts.Pretty {
		p.indent(depth + 1)
		p.node(n, precSequence, depth+1)
		return
	}
	p.buf.WriteByte(' ')
	p.node(n, precSequence, depth)
}
