// Package token defines FGH's token kinds and the Token struct produced by
// pkg/lexer and consumed by pkg/parser.
package token

// Kind identifies the lexical category of a Token.
type Kind uint8

const (
	EOF Kind = iota
	Error

	Number
	String
	Ident

	Dot          // .
	DotDot       // ..
	BracketOpen  // [
	BracketClose // ]
	BracketEmpty // []
	BraceOpen    // {
	BraceClose   // }
	ParenOpen    // (
	ParenClose   // )
	Comma        // ,
	Colon        // :
	Question     // ?
	Pipe         // |

	Plus     // +
	Minus    // -
	Star     // *
	Slash    // /
	Percent  // %

	Less         // <
	LessEqual    // <=
	Greater      // >
	GreaterEqual // >=
	Equal        // ==
	NotEqual     // !=

	SlashSlash // //

	// Keywords
	KwMap
	KwMapValues
	KwSelect
	KwIf
	KwThen
	KwElif
	KwElse
	KwEnd
	KwAnd
	KwOr
	KwNot
	KwSort
	KwSortBy
	KwKeys
	KwKeysUnsorted
	KwEmpty
	KwTostring
	KwTonumber
	KwHas
	KwLength
	KwTrue
	KwFalse
	KwNull
)

var names = map[Kind]string{
	EOF: "EOF", Error: "ERROR",
	Number: "NUMBER", String: "STRING", Ident: "IDENT",
	Dot: ".", DotDot: "..", BracketOpen: "[", BracketClose: "]",
	BracketEmpty: "[]", BraceOpen: "{", BraceClose: "}",
	ParenOpen: "(", ParenClose: ")", Comma: ",", Colon: ":",
	Question: "?", Pipe: "|",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Less: "<", LessEqual: "<=", Greater: ">", GreaterEqual: ">=",
	Equal: "==", NotEqual: "!=", SlashSlash: "//",
	KwMap: "map", KwMapValues: "map_values", KwSelect: "select",
	KwIf: "if", KwThen: "then", KwElif: "elif", KwElse: "else", KwEnd: "end",
	KwAnd: "and", KwOr: "or", KwNot: "not",
	KwSort: "sort", KwSortBy: "sort_by",
	KwKeys: "keys", KwKeysUnsorted: "keys_unsorted", KwEmpty: "empty",
	KwTostring: "tostring", KwTonumber: "tonumber",
	KwHas: "has", KwLength: "length",
	KwTrue: "true", KwFalse: "false", KwNull: "null",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Token is a single lexed unit: its kind, the source text it came from
// (for a string literal, its unescaped contents without the quotes), and
// its byte offset in the source.
type Token struct {
	Kind     Kind
	Lexeme   string
	Position int
}

// keywords maps reserved identifier text to its keyword Kind.
var keywords = map[string]Kind{
	"map": KwMap, "map_values": KwMapValues, "select": KwSelect,
	"if": KwIf, "then": KwThen, "elif": KwElif, "else": KwElse, "end": KwEnd,
	"and": KwAnd, "or": KwOr, "not": KwNot,
	"sort": KwSort, "sort_by": KwSortBy,
	"keys": KwKeys, "keys_unsorted": KwKeysUnsorted, "empty": KwEmpty,
	"tostring": KwTostring, "tonumber": KwTonumber,
	"has": KwHas, "length": KwLength,
	"true": KwTrue, "false": KwFalse, "null": KwNull,
}

// LookupKeyword returns the keyword Kind for an identifier lexeme, or
// (Ident, false) if it is not reserved.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	if !ok {
		return Ident, false
	}
	return k, true
}
