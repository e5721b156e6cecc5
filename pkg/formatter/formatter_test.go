package formatter_test

import (
	"testing"

	"github.com/platformatic/fgh/pkg/ast"
	"github.com/platformatic/fgh/pkg/formatter"
	"github.com/platformatic/fgh/pkg/parser"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip parses src, formats the AST, and reparses the formatted text,
// returning both ASTs for structural comparison: the round-trip property is
// about equivalent structure, not byte-identical text.
func roundTrip(t *testing.T, src string, opts ...formatter.Option) (ast.Node, ast.Node, string) {
	t.Helper()
	n1, err := parser.Parse(src)
	require.NoError(t, err, "parsing %q", src)
	out := formatter.Format(n1, opts...)
	n2, err := parser.Parse(out)
	require.NoError(t, err, "reparsing formatted output %q (from %q)", out, src)
	return n1, n2, out
}

var roundTripSources = []string{
	".",
	"..",
	".foo.bar",
	`.["a-b"]`,
	".[0]",
	".[-1]",
	".[1,3,5]",
	".[1:3]",
	".[:3]",
	".[1:]",
	".foo[]",
	".foo?",
	".a | .b | .c",
	".a, .b, .c",
	"1 + 2 * 3",
	"(1 + 2) * 3",
	".a > 1 and .b < 2",
	".a // .b",
	"[.a, .b]",
	"[]",
	"{a, b: .c}",
	`{(.k): .v}`,
	`{"a-b": .c}`,
	"if .a then 1 elif .b then 2 else 3 end",
	"if .a then 1 end",
	"map(.x)",
	"select(.x > 1)",
	`has("x")`,
	"sort_by(.a, .b)",
	"sort",
	"keys",
	"keys_unsorted",
	"tostring",
	"tonumber",
	"length",
	"not",
	"empty",
	`"hello \"world\"\n"`,
	"-1 + 2",
}

func TestFormatRoundTripStructurallyEquivalent(t *testing.T) {
	for _, src := range roundTripSources {
		src := src
		t.Run(src, func(t *testing.T) {
			n1, n2, _ := roundTrip(t, src)
			assert.True(t, astEqual(n1, n2), "round trip of %q changed structure", src)
		})
	}
}

func TestFormatPrettyAlsoRoundTrips(t *testing.T) {
	for _, src := range []string{"[.a, .b, .c]", "{a: .x, b: .y}", "if .a then 1 else 2 end"} {
		src := src
		t.Run(src, func(t *testing.T) {
			n1, n2, _ := roundTrip(t, src, formatter.WithPretty(true), formatter.WithIndent("    "))
			assert.True(t, astEqual(n1, n2), "pretty round trip of %q changed structure", src)
		})
	}
}

func TestFormatCompactSnapshot(t *testing.T) {
	for _, src := range []string{
		".a.b[].c | select(.c > 1) | {name: .name, total: .a + .b}",
		"if .a > 1 then \"big\" elif .a > 0 then \"small\" else \"none\" end",
	} {
		n, err := parser.Parse(src)
		require.NoError(t, err)
		snaps.MatchSnapshot(t, src, formatter.Format(n))
	}
}

func TestFormatPrettySnapshot(t *testing.T) {
	n, err := parser.Parse("{items: [.a, .b, .c], total: .a + .b + .c}")
	require.NoError(t, err)
	snaps.MatchSnapshot(t, "pretty", formatter.Format(n, formatter.WithPretty(true)))
}

func TestFormatObjectShorthandPreserved(t *testing.T) {
	n, err := parser.Parse("{a, b}")
	require.NoError(t, err)
	out := formatter.Format(n)
	assert.Equal(t, "{a, b}", out)
}

// astEqual performs a structural comparison of two ASTs for the subset of
// node shapes the round-trip corpus above exercises, ignoring source
// positions (which are expected to differ after reformatting).
func astEqual(a, b ast.Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch na := a.(type) {
	case *ast.Identity:
		_, ok := b.(*ast.Identity)
		return ok
	case *ast.RecursiveDescent:
		_, ok := b.(*ast.RecursiveDescent)
		return ok
	case *ast.Empty:
		_, ok := b.(*ast.Empty)
		return ok
	case *ast.Literal:
		nb, ok := b.(*ast.Literal)
		return ok && na.Value.String() == nb.Value.String()
	case *ast.PropertyAccess:
		nb, ok := b.(*ast.PropertyAccess)
		return ok && na.Property == nb.Property && astEqual(na.Input, nb.Input)
	case *ast.IndexAccess:
		nb, ok := b.(*ast.IndexAccess)
		return ok && na.Index == nb.Index && astEqual(na.Input, nb.Input)
	case *ast.Slice:
		nb, ok := b.(*ast.Slice)
		return ok && intPtrEqual(na.Start, nb.Start) && intPtrEqual(na.End, nb.End) && astEqual(na.Input, nb.Input)
	case *ast.ArrayIteration:
		nb, ok := b.(*ast.ArrayIteration)
		return ok && astEqual(na.Input, nb.Input)
	case *ast.Optional:
		nb, ok := b.(*ast.Optional)
		return ok && astEqual(na.Expr, nb.Expr)
	case *ast.Pipe:
		nb, ok := b.(*ast.Pipe)
		return ok && astEqual(na.Left, nb.Left) && astEqual(na.Right, nb.Right)
	case *ast.Sequence:
		nb, ok := b.(*ast.Sequence)
		if !ok || len(na.Exprs) != len(nb.Exprs) {
			return false
		}
		for i := range na.Exprs {
			if !astEqual(na.Exprs[i], nb.Exprs[i]) {
				return false
			}
		}
		return true
	case *ast.ArrayConstruction:
		nb, ok := b.(*ast.ArrayConstruction)
		if !ok || len(na.Elements) != len(nb.Elements) {
			return false
		}
		for i := range na.Elements {
			if !astEqual(na.Elements[i], nb.Elements[i]) {
				return false
			}
		}
		return true
	case *ast.ObjectConstruction:
		nb, ok := b.(*ast.ObjectConstruction)
		if !ok || len(na.Fields) != len(nb.Fields) {
			return false
		}
		for i := range na.Fields {
			fa, fb := na.Fields[i], nb.Fields[i]
			if fa.IsDynamic != fb.IsDynamic || fa.KeyName != fb.KeyName {
				return false
			}
			if !astEqual(fa.KeyExpr, fb.KeyExpr) || !astEqual(fa.Value, fb.Value) {
				return false
			}
		}
		return true
	case ast.BinaryNode:
		nb, ok := b.(ast.BinaryNode)
		if !ok {
			return false
		}
		return sameBinaryKind(na, nb) && astEqual(na.GetLeft(), nb.GetLeft()) && astEqual(na.GetRight(), nb.GetRight())
	case *ast.Not:
		nb, ok := b.(*ast.Not)
		return ok && astEqual(na.Expr, nb.Expr)
	case *ast.Conditional:
		nb, ok := b.(*ast.Conditional)
		return ok && astEqual(na.Condition, nb.Condition) && astEqual(na.ThenBranch, nb.ThenBranch) &&
			astEqual(na.ElseBranch, nb.ElseBranch)
	case *ast.MapFilter:
		nb, ok := b.(*ast.MapFilter)
		return ok && astEqual(na.Filter, nb.Filter)
	case *ast.MapValuesFilter:
		nb, ok := b.(*ast.MapValuesFilter)
		return ok && astEqual(na.Filter, nb.Filter)
	case *ast.SelectFilter:
		nb, ok := b.(*ast.SelectFilter)
		return ok && astEqual(na.Condition, nb.Condition)
	case *ast.HasKey:
		nb, ok := b.(*ast.HasKey)
		return ok && astEqual(na.Key, nb.Key)
	case *ast.Sort:
		_, ok := b.(*ast.Sort)
		return ok
	case *ast.SortBy:
		nb, ok := b.(*ast.SortBy)
		if !ok || len(na.Paths) != len(nb.Paths) {
			return false
		}
		for i := range na.Paths {
			if !astEqual(na.Paths[i], nb.Paths[i]) {
				return false
			}
		}
		return true
	case *ast.Keys:
		_, ok := b.(*ast.Keys)
		return ok
	case *ast.KeysUnsorted:
		_, ok := b.(*ast.KeysUnsorted)
		return ok
	case *ast.Tostring:
		_, ok := b.(*ast.Tostring)
		return ok
	case *ast.Tonumber:
		_, ok := b.(*ast.Tonumber)
		return ok
	case *ast.Length:
		_, ok := b.(*ast.Length)
		return ok
	default:
		return false
	}
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameBinaryKind(a, b ast.Node) bool {
	switch a.(type) {
	case *ast.Sum:
		_, ok := b.(*ast.Sum)
		return ok
	case *ast.Difference:
		_, ok := b.(*ast.Difference)
		return ok
	case *ast.Multiply:
		_, ok := b.(*ast.Multiply)
		return ok
	case *ast.Divide:
		_, ok := b.(*ast.Divide)
		return ok
	case *ast.Modulo:
		_, ok := b.(*ast.Modulo)
		return ok
	case *ast.Equal:
		_, ok := b.(*ast.Equal)
		return ok
	case *ast.NotEqual:
		_, ok := b.(*ast.NotEqual)
		return ok
	case *ast.LessThan:
		_, ok := b.(*ast.LessThan)
		return ok
	case *ast.LessThanOrEqual:
		_, ok := b.(*ast.LessThanOrEqual)
		return ok
	case *ast.GreaterThan:
		_, ok := b.(*ast.GreaterThan)
		return ok
	case *ast.GreaterThanOrEqual:
		_, ok := b.(*ast.GreaterThanOrEqual)
		return ok
	case *ast.And:
		_, ok := b.(*ast.And)
		return ok
	case *ast.Or:
		_, ok := b.(*ast.Or)
		return ok
	case *ast.Default:
		_, ok := b.(*ast.Default)
		return ok
	default:
		return false
	}
}
