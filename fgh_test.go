package fgh_test

import (
	"testing"

	"github.com/platformatic/fgh"
	"github.com/platformatic/fgh/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInput(t *testing.T, json string) value.Value {
	t.Helper()
	v, err := value.ParseString(json)
	require.NoError(t, err, "parsing input %q", json)
	return v
}

func queryJSON(t *testing.T, source, inputJSON string) []value.Value {
	t.Helper()
	input := mustInput(t, inputJSON)
	out, err := fgh.Query(source, input)
	require.NoError(t, err, "querying %q against %q", source, inputJSON)
	return out
}

func assertJSONEqual(t *testing.T, want string, got []value.Value) {
	t.Helper()
	wantVals := mustInput(t, want)
	require.Equal(t, wantVals.Kind(), value.KindArray, "want must be a JSON array literal")
	require.Len(t, got, len(wantVals.Arr()))
	for i, w := range wantVals.Arr() {
		assert.True(t, value.Equal(w, got[i]), "element %d: want %v, got %v", i, w, got[i])
	}
}

// TestEndToEndScenarios exercises the exact (source, input) ⟹ output
// scenarios against the public API.
func TestEndToEndScenarios(t *testing.T) {
	t.Run("property access", func(t *testing.T) {
		out := queryJSON(t, ".foo", `{"foo":42,"bar":1}`)
		assertJSONEqual(t, "[42]", out)
	})

	t.Run("iterate, select, project", func(t *testing.T) {
		out := queryJSON(t, ".users[] | select(.age > 18) | .name",
			`{"users":[{"name":"A","age":17},{"name":"B","age":30},{"name":"C","age":25}]}`)
		assertJSONEqual(t, `["B","C"]`, out)
	})

	t.Run("recursive descent with optional property", func(t *testing.T) {
		out := queryJSON(t, ".. | .a?", `[[{"a":1}]]`)
		assertJSONEqual(t, "[1]", out)
	})

	t.Run("object construction with shorthand and expression", func(t *testing.T) {
		out := queryJSON(t, "{name, doubled:(.value*2)}", `{"name":"x","value":21}`)
		assertJSONEqual(t, `[{"name":"x","doubled":42}]`, out)
	})

	t.Run("sort_by on a single array input", func(t *testing.T) {
		out := queryJSON(t, "sort_by(.age)", `[{"age":30},{"age":10},{"age":20}]`)
		assertJSONEqual(t, `[[{"age":10},{"age":20},{"age":30}]]`, out)
	})

	t.Run("default operator", func(t *testing.T) {
		out := queryJSON(t, `.a // "default"`, `{"a":null}`)
		assertJSONEqual(t, `["default"]`, out)

		out = queryJSON(t, `.a // "default"`, `{"a":"x"}`)
		assertJSONEqual(t, `["x"]`, out)
	})
}

func TestCompileAndApplyReused(t *testing.T) {
	f, err := fgh.Compile(".a + .b")
	require.NoError(t, err)

	out, err := f.Apply(mustInput(t, `{"a":1,"b":2}`))
	require.NoError(t, err)
	assertJSONEqual(t, "[3]", out)

	out, err = f.Apply(mustInput(t, `{"a":10,"b":32}`))
	require.NoError(t, err)
	assertJSONEqual(t, "[42]", out)
}

func TestMustCompilePanicsOnBadSource(t *testing.T) {
	assert.Panics(t, func() {
		fgh.MustCompile("(.a")
	})
}

func TestMustCompileSucceedsOnGoodSource(t *testing.T) {
	var f *fgh.Filter
	assert.NotPanics(t, func() {
		f = fgh.MustCompile(".a")
	})
	out, err := f.Apply(mustInput(t, `{"a":1}`))
	require.NoError(t, err)
	assertJSONEqual(t, "[1]", out)
}

func TestQueryPropagatesParseError(t *testing.T) {
	_, err := fgh.Query(".a )", mustInput(t, "null"))
	assert.Error(t, err)
}

func TestQueryPropagatesRuntimeError(t *testing.T) {
	_, err := fgh.Query("tonumber", mustInput(t, `"not a number"`))
	assert.Error(t, err)
}

func TestParseAndFormatRoundTrip(t *testing.T) {
	node, err := fgh.Parse(".users[] | select(.age > 18) | .name")
	require.NoError(t, err)

	out := fgh.Format(node)
	_, err = fgh.Parse(out)
	require.NoError(t, err, "formatted source %q must reparse", out)

	result, err := fgh.Query(out, mustInput(t, `{"users":[{"name":"A","age":30}]}`))
	require.NoError(t, err)
	assertJSONEqual(t, `["A"]`, result)
}

func TestFormatWithPrettyOption(t *testing.T) {
	node, err := fgh.Parse("[.a, .b, .c]")
	require.NoError(t, err)

	compact := fgh.Format(node)
	pretty := fgh.Format(node, fgh.WithPretty(true), fgh.WithIndent("  "))
	assert.NotEqual(t, compact, pretty)

	_, err = fgh.Parse(pretty)
	assert.NoError(t, err, "pretty-formatted source must reparse")
}

func TestFilterASTExposesCompiledTree(t *testing.T) {
	f, err := fgh.Compile(".foo")
	require.NoError(t, err)
	assert.Equal(t, f.AST(), f.AST(), "AST() is stable across calls")
}

func TestCompileWithMaxDepthOption(t *testing.T) {
	deep := ""
	for i := 0; i < 50; i++ {
		deep += "("
	}
	deep += ".a"
	for i := 0; i < 50; i++ {
		deep += ")"
	}
	_, err := fgh.Compile(deep, fgh.WithMaxDepth(5))
	assert.Error(t, err)
}

func TestApplyWithEvalMaxDepthOption(t *testing.T) {
	f, err := fgh.Compile(".a.a.a.a.a")
	require.NoError(t, err)

	_, err = f.Apply(mustInput(t, `{"a":{"a":{"a":{"a":{"a":1}}}}}`), fgh.WithEvalMaxDepth(2))
	assert.Error(t, err, "shallow eval depth limit should trip on a deep property-access chain")
}
