package lexer_test

import (
	"testing"

	"github.com/platformatic/fgh/pkg/lexer"
	"github.com/platformatic/fgh/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, input string) []token.Token {
	t.Helper()
	l := lexer.New(input)
	var toks []token.Token
	for {
		tok, err := l.Next()
		require.Nil(t, err, "unexpected lex error for %q: %v", input, err)
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerBasicTokens(t *testing.T) {
	toks := scanAll(t, `.foo.bar`)
	assert.Equal(t, []token.Kind{token.Dot, token.Ident, token.Dot, token.Ident, token.EOF}, kinds(toks))
	assert.Equal(t, "foo", toks[1].Lexeme)
	assert.Equal(t, "bar", toks[3].Lexeme)
}

func TestLexerRecursiveDescent(t *testing.T) {
	toks := scanAll(t, `..`)
	assert.Equal(t, []token.Kind{token.DotDot, token.EOF}, kinds(toks))
}

func TestLexerEmptyBrackets(t *testing.T) {
	toks := scanAll(t, `.[]`)
	assert.Equal(t, []token.Kind{token.Dot, token.BracketEmpty, token.EOF}, kinds(toks))

	toks = scanAll(t, `.[  ]`)
	assert.Equal(t, []token.Kind{token.Dot, token.BracketEmpty, token.EOF}, kinds(toks))
}

func TestLexerTwoCharOperators(t *testing.T) {
	toks := scanAll(t, `<= >= == != //`)
	assert.Equal(t, []token.Kind{
		token.LessEqual, token.GreaterEqual, token.Equal, token.NotEqual, token.SlashSlash, token.EOF,
	}, kinds(toks))
}

func TestLexerKeywords(t *testing.T) {
	toks := scanAll(t, `map select sort_by keys_unsorted true false null notkw`)
	assert.Equal(t, []token.Kind{
		token.KwMap, token.KwSelect, token.KwSortBy, token.KwKeysUnsorted,
		token.KwTrue, token.KwFalse, token.KwNull, token.Ident, token.EOF,
	}, kinds(toks))
}

func TestLexerStringEscapes(t *testing.T) {
	toks := scanAll(t, `"a\nb\tc\\d\"e\'f\qg"`)
	require.Len(t, toks, 2)
	assert.Equal(t, "a\nb\tc\\d\"e'f" + "qg", toks[0].Lexeme)
}

func TestLexerSingleQuotedString(t *testing.T) {
	toks := scanAll(t, `'hello'`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "hello", toks[0].Lexeme)
}

func TestLexerUnterminatedString(t *testing.T) {
	l := lexer.New(`"abc`)
	_, err := l.Next()
	require.NotNil(t, err)
}

func TestLexerNumbers(t *testing.T) {
	toks := scanAll(t, `0 3.25 10`)
	require.Len(t, toks, 4)
	assert.Equal(t, "0", toks[0].Lexeme)
	assert.Equal(t, "3.25", toks[1].Lexeme)
	assert.Equal(t, "10", toks[2].Lexeme)
}

func TestLexerMinusOutsideSliceIsBinaryOrNegative(t *testing.T) {
	toks := scanAll(t, `.a - 1`)
	assert.Equal(t, []token.Kind{token.Dot, token.Ident, token.Minus, token.Number, token.EOF}, kinds(toks))

	toks = scanAll(t, `-1`)
	assert.Equal(t, []token.Kind{token.Number, token.EOF}, kinds(toks))
	assert.Equal(t, "-1", toks[0].Lexeme)
}

func TestLexerMinusInsideSliceContextIsAlwaysAnOperator(t *testing.T) {
	// `-1` here must lex as Minus, Number(1), because the '-' is inside a
	// bracket that contains a top-level ':' and is therefore a slice.
	toks := scanAll(t, `.[-1:]`)
	assert.Equal(t, []token.Kind{
		token.Dot, token.BracketOpen, token.Minus, token.Number, token.Colon, token.BracketClose, token.EOF,
	}, kinds(toks))
}

func TestLexerIndexBracketIsNotSliceContext(t *testing.T) {
	toks := scanAll(t, `.[-1]`)
	assert.Equal(t, []token.Kind{
		token.Dot, token.BracketOpen, token.Number, token.BracketClose, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "-1", toks[2].Lexeme)
}

func TestLexerQuotedColonInsideBracketDoesNotMarkSlice(t *testing.T) {
	toks := scanAll(t, `.["a:b"]`)
	require.Len(t, toks, 5)
	assert.Equal(t, token.String, toks[2].Kind)
	assert.Equal(t, "a:b", toks[2].Lexeme)
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	l := lexer.New(`@`)
	_, err := l.Next()
	require.NotNil(t, err)
}

func TestLexerCheckpointSaveRestore(t *testing.T) {
	l := lexer.New(`.a.b`)
	first, err := l.Next()
	require.Nil(t, err)
	cp := l.Save()
	second, err := l.Next()
	require.Nil(t, err)
	assert.Equal(t, token.Ident, second.Kind)

	l.Restore(cp)
	replay, err := l.Next()
	require.Nil(t, err)
	assert.Equal(t, second, replay)
	assert.NotEqual(t, first, second)
}
