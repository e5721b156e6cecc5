// Package parser implements FGH's recursive-descent parser: tokens to AST,
// with the grammar's precedence cascade and the `[` bracket-disambiguation
// rules. A Parser holds a lexer and a one-token lookahead, with
// expect/error helpers and a dedicated parser function per grammar level.
// Because the grammar fixes a single, static precedence cascade, one
// recursive function per level is used instead of a generic Pratt loop over
// a runtime precedence table.
package parser

import (
	"strconv"
	"strings"

	"github.com/platformatic/fgh/pkg/ast"
	"github.com/platformatic/fgh/pkg/ferrors"
	"github.com/platformatic/fgh/pkg/lexer"
	"github.com/platformatic/fgh/pkg/token"
	"github.com/platformatic/fgh/pkg/value"
)

// CompileOptions configures parsing.
type CompileOptions struct {
	MaxDepth int
}

// CompileOption mutates CompileOptions.
type CompileOption func(*CompileOptions)

// WithMaxDepth bounds expression nesting depth, guarding against stack
// overflow on pathological input.
func WithMaxDepth(depth int) CompileOption {
	return func(o *CompileOptions) { o.MaxDepth = depth }
}

const defaultMaxDepth = 500

// Parser turns a token stream into an ast.Node.
type Parser struct {
	lex     *lexer.Lexer
	current token.Token
	opts    CompileOptions
	depth   int
}

// New constructs a Parser positioned at the first token of input.
func New(input string, opts ...CompileOption) (*Parser, error) {
	o := CompileOptions{MaxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	p := &Parser{lex: lexer.New(input), opts: o}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse parses the full token stream into one AST, erroring if trailing
// tokens remain after a complete expression.
func Parse(input string, opts ...CompileOption) (ast.Node, error) {
	p, err := New(input, opts...)
	if err != nil {
		return nil, err
	}
	n, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if p.current.Kind != token.EOF {
		return nil, ferrors.Parse(ferrors.CodeUnexpectedToken,
			"unexpected trailing input: "+p.current.Kind.String(), p.current.Position)
	}
	return n, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

func (p *Parser) expect(k token.Kind) error {
	if p.current.Kind != k {
		return ferrors.Parse(ferrors.CodeUnexpectedToken,
			"expected "+k.String()+" but found "+p.current.Kind.String(), p.current.Position)
	}
	return nil
}

func (p *Parser) consume(k token.Kind) error {
	if err := p.expect(k); err != nil {
		return err
	}
	return p.advance()
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.opts.MaxDepth {
		return ferrors.Parse(ferrors.CodeUnexpectedToken, "expression nesting too deep", p.current.Position)
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

// ParseExpression parses the lowest-precedence grammar level: a
// comma-separated Sequence of pipes.
func (p *Parser) ParseExpression() (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	pos := p.current.Position
	first, err := p.parsePipe()
	if err != nil {
		return nil, err
	}
	if p.current.Kind != token.Comma {
		return first, nil
	}
	exprs := []ast.Node{first}
	for p.current.Kind == token.Comma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parsePipe()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, next)
	}
	return ast.NewSequence(pos, exprs), nil
}

func (p *Parser) parsePipe() (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	if p.current.Kind != token.Pipe {
		return left, nil
	}
	pos := p.current.Position
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parsePipe()
	if err != nil {
		return nil, err
	}
	return ast.NewPipe(pos, left, right), nil
}

func (p *Parser) parseLogical() (ast.Node, error) {
	left, err := p.parseDefault()
	if err != nil {
		return nil, err
	}
	for p.current.Kind == token.KwAnd || p.current.Kind == token.KwOr {
		op := p.current.Kind
		pos := p.current.Position
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseDefault()
		if err != nil {
			return nil, err
		}
		if op == token.KwAnd {
			left = ast.NewAnd(pos, left, right)
		} else {
			left = ast.NewOr(pos, left, right)
		}
	}
	return left, nil
}

func (p *Parser) parseDefault() (ast.Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.current.Kind == token.SlashSlash {
		pos := p.current.Position
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = ast.NewDefault(pos, left, right)
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Node, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	for isComparisonOp(p.current.Kind) {
		op := p.current.Kind
		pos := p.current.Position
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		left = buildComparison(op, pos, left, right)
	}
	return left, nil
}

func isComparisonOp(k token.Kind) bool {
	switch k {
	case token.Less, token.LessEqual, token.Greater, token.GreaterEqual, token.Equal, token.NotEqual:
		return true
	default:
		return false
	}
}

func buildComparison(op token.Kind, pos int, l, r ast.Node) ast.Node {
	switch op {
	case token.Less:
		return ast.NewLessThan(pos, l, r)
	case token.LessEqual:
		return ast.NewLessThanOrEqual(pos, l, r)
	case token.Greater:
		return ast.NewGreaterThan(pos, l, r)
	case token.GreaterEqual:
		return ast.NewGreaterThanOrEqual(pos, l, r)
	case token.Equal:
		return ast.NewEqual(pos, l, r)
	default:
		return ast.NewNotEqual(pos, l, r)
	}
}

func (p *Parser) parseSum() (ast.Node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.current.Kind == token.Plus || p.current.Kind == token.Minus {
		op := p.current.Kind
		pos := p.current.Position
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		if op == token.Plus {
			left = ast.NewSum(pos, left, right)
		} else {
			left = ast.NewDifference(pos, left, right)
		}
	}
	return left, nil
}

func (p *Parser) parseProduct() (ast.Node, error) {
	left, err := p.parseChain()
	if err != nil {
		return nil, err
	}
	for p.current.Kind == token.Star || p.current.Kind == token.Slash || p.current.Kind == token.Percent {
		op := p.current.Kind
		pos := p.current.Position
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseChain()
		if err != nil {
			return nil, err
		}
		switch op {
		case token.Star:
			left = ast.NewMultiply(pos, left, right)
		case token.Slash:
			left = ast.NewDivide(pos, left, right)
		default:
			left = ast.NewModulo(pos, left, right)
		}
	}
	return left, nil
}

// parseChain implements `chain := primary ('?' | bracketSuffix | '.' ident
// (bracketSuffix)*)*`.
func (p *Parser) parseChain() (ast.Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.current.Kind {
		case token.Question:
			pos := p.current.Position
			if err := p.advance(); err != nil {
				return nil, err
			}
			node = ast.NewOptional(pos, node)
		case token.BracketEmpty:
			pos := p.current.Position
			if err := p.advance(); err != nil {
				return nil, err
			}
			node = ast.NewArrayIteration(pos, node)
		case token.BracketOpen:
			pos := p.current.Position
			if err := p.advance(); err != nil {
				return nil, err
			}
			node, err = p.parseBracketSuffix(pos, node)
			if err != nil {
				return nil, err
			}
		case token.Dot:
			pos := p.current.Position
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.expect(token.Ident); err != nil {
				return nil, err
			}
			name := p.current.Lexeme
			if err := p.advance(); err != nil {
				return nil, err
			}
			node = ast.NewPropertyAccess(pos, name, false, node)
		default:
			return node, nil
		}
	}
}

// parseBracketSuffix parses the content of a chain-position `[...]` already
// past its opening bracket: string-key access, index, multi-index, or
// slice.
func (p *Parser) parseBracketSuffix(pos int, prev ast.Node) (ast.Node, error) {
	switch p.current.Kind {
	case token.String:
		key := p.current.Lexeme
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.consume(token.BracketClose); err != nil {
			return nil, err
		}
		return ast.NewPropertyAccess(pos, key, true, prev), nil

	case token.Colon:
		if err := p.advance(); err != nil {
			return nil, err
		}
		end, err := p.parseOptionalSliceBound(token.BracketClose)
		if err != nil {
			return nil, err
		}
		if err := p.consume(token.BracketClose); err != nil {
			return nil, err
		}
		return ast.NewSlice(pos, nil, end, prev), nil

	case token.Number, token.Minus:
		first, err := p.parseIndexNumber()
		if err != nil {
			return nil, err
		}
		switch p.current.Kind {
		case token.Comma:
			indices := []int{first}
			for p.current.Kind == token.Comma {
				if err := p.advance(); err != nil {
					return nil, err
				}
				n, err := p.parseIndexNumber()
				if err != nil {
					return nil, err
				}
				indices = append(indices, n)
			}
			if err := p.consume(token.BracketClose); err != nil {
				return nil, err
			}
			exprs := make([]ast.Node, len(indices))
			for i, idx := range indices {
				exprs[i] = ast.NewIndexAccess(pos, idx, prev)
			}
			return ast.NewSequence(pos, exprs), nil

		case token.Colon:
			if err := p.advance(); err != nil {
				return nil, err
			}
			end, err := p.parseOptionalSliceBound(token.BracketClose)
			if err != nil {
				return nil, err
			}
			if err := p.consume(token.BracketClose); err != nil {
				return nil, err
			}
			start := first
			return ast.NewSlice(pos, &start, end, prev), nil

		case token.BracketClose:
			if err := p.advance(); err != nil {
				return nil, err
			}
			return ast.NewIndexAccess(pos, first, prev), nil

		default:
			return nil, ferrors.Parse(ferrors.CodeUnexpectedToken, "invalid index expression", p.current.Position)
		}

	default:
		return nil, ferrors.Parse(ferrors.CodeUnexpectedToken, "invalid index expression", p.current.Position)
	}
}

// parseOptionalSliceBound parses an optional NUM before a terminator token
// (used for the end bound of a Slice), leaving the terminator unconsumed.
func (p *Parser) parseOptionalSliceBound(terminator token.Kind) (*int, error) {
	if p.current.Kind == terminator {
		return nil, nil
	}
	n, err := p.parseIndexNumber()
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// parseIndexNumber parses `NUM | '-' NUM` into an int, combining a leading
// Minus token with the following Number when the lexer emitted them
// separately (slice-context brackets; see pkg/lexer). A literal carrying a
// decimal point is an IndexError, not a ParseError: the syntax is valid, the
// value just isn't a legal array index.
func (p *Parser) parseIndexNumber() (int, error) {
	neg := false
	if p.current.Kind == token.Minus {
		neg = true
		if err := p.advance(); err != nil {
			return 0, err
		}
	}
	if err := p.expect(token.Number); err != nil {
		return 0, err
	}
	lexeme := p.current.Lexeme
	pos := p.current.Position
	if err := p.advance(); err != nil {
		return 0, err
	}
	if strings.Contains(lexeme, ".") {
		return 0, ferrors.NewAt(ferrors.CategoryIndex, ferrors.CodeNonIntegerIndex, "index must be an integer", pos)
	}
	bare := strings.TrimPrefix(lexeme, "-")
	n, err := strconv.Atoi(bare)
	if err != nil {
		return 0, ferrors.Parse(ferrors.CodeUnexpectedToken, "invalid integer literal", pos)
	}
	if strings.HasPrefix(lexeme, "-") {
		n = -n
	}
	if neg {
		n = -n
	}
	return n, nil
}

// parsePrimary implements the `primary` and `keywordForm` grammar levels.
func (p *Parser) parsePrimary() (ast.Node, error) {
	pos := p.current.Position
	switch p.current.Kind {
	case token.BracketEmpty:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewArrayConstruction(pos, nil), nil

	case token.BracketOpen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.consume(token.BracketClose); err != nil {
			return nil, err
		}
		return ast.NewArrayConstruction(pos, flattenElements(inner)), nil

	case token.BraceOpen:
		return p.parseObjectConstruction()

	case token.ParenOpen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.consume(token.ParenClose); err != nil {
			return nil, err
		}
		return inner, nil

	case token.Number:
		lexeme := p.current.Lexeme
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return nil, ferrors.Parse(ferrors.CodeUnexpectedToken, "invalid number literal", pos)
		}
		return ast.NewLiteral(pos, value.Number(n)), nil

	case token.String:
		s := p.current.Lexeme
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewLiteral(pos, value.String(s)), nil

	case token.KwTrue:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewLiteral(pos, value.Bool(true)), nil

	case token.KwFalse:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewLiteral(pos, value.Bool(false)), nil

	case token.KwNull:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewLiteral(pos, value.Null), nil

	case token.DotDot:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewRecursiveDescent(pos), nil

	case token.Dot:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.current.Kind == token.Ident {
			name := p.current.Lexeme
			if err := p.advance(); err != nil {
				return nil, err
			}
			return ast.NewPropertyAccess(pos, name, false, nil), nil
		}
		return ast.NewIdentity(pos), nil

	case token.KwMap:
		return p.parseUnaryKeyword(pos, func(pos int, n ast.Node) ast.Node { return ast.NewMapFilter(pos, n) })
	case token.KwMapValues:
		return p.parseUnaryKeyword(pos, func(pos int, n ast.Node) ast.Node { return ast.NewMapValuesFilter(pos, n) })
	case token.KwSelect:
		return p.parseUnaryKeyword(pos, func(pos int, n ast.Node) ast.Node { return ast.NewSelectFilter(pos, n) })
	case token.KwHas:
		return p.parseUnaryKeyword(pos, func(pos int, n ast.Node) ast.Node { return ast.NewHasKey(pos, n) })

	case token.KwSort:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewSort(pos), nil

	case token.KwSortBy:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.consume(token.ParenOpen); err != nil {
			return nil, err
		}
		paths := []ast.Node{}
		first, err := p.parsePipe()
		if err != nil {
			return nil, err
		}
		paths = append(paths, first)
		for p.current.Kind == token.Comma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			next, err := p.parsePipe()
			if err != nil {
				return nil, err
			}
			paths = append(paths, next)
		}
		if err := p.consume(token.ParenClose); err != nil {
			return nil, err
		}
		return ast.NewSortBy(pos, paths), nil

	case token.KwKeys:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewKeys(pos), nil

	case token.KwKeysUnsorted:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewKeysUnsorted(pos), nil

	case token.KwEmpty:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewEmpty(pos), nil

	case token.KwTostring:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewTostring(pos), nil

	case token.KwTonumber:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewTonumber(pos), nil

	case token.KwLength:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewLength(pos), nil

	case token.KwNot:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewNot(pos, ast.NewIdentity(pos)), nil

	case token.KwIf:
		return p.parseIf(pos)

	default:
		return nil, ferrors.Parse(ferrors.CodeUnexpectedToken, "unexpected token: "+p.current.Kind.String(), pos)
	}
}

// parseUnaryKeyword parses `KW '(' expression ')'` for the single-argument
// keyword forms (map, map_values, select, has).
func (p *Parser) parseUnaryKeyword(pos int, build func(int, ast.Node) ast.Node) (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.consume(token.ParenOpen); err != nil {
		return nil, err
	}
	inner, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consume(token.ParenClose); err != nil {
		return nil, err
	}
	return build(pos, inner), nil
}

// parseIf implements `'if' expression 'then' expression ('elif' expression
// 'then' expression)* ('else' expression)? 'end'`, nesting elif as a
// conditional in the else branch.
func (p *Parser) parseIf(pos int) (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consume(token.KwThen); err != nil {
		return nil, err
	}
	thenB, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	elseB, err := p.parseIfRest()
	if err != nil {
		return nil, err
	}
	return ast.NewConditional(pos, cond, thenB, elseB), nil
}

func (p *Parser) parseIfRest() (ast.Node, error) {
	switch p.current.Kind {
	case token.KwElif:
		pos := p.current.Position
		if err := p.advance(); err != nil {
			return nil, err
		}
		cond, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.consume(token.KwThen); err != nil {
			return nil, err
		}
		thenB, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		elseB, err := p.parseIfRest()
		if err != nil {
			return nil, err
		}
		return ast.NewConditional(pos, cond, thenB, elseB), nil

	case token.KwElse:
		pos := p.current.Position
		if err := p.advance(); err != nil {
			return nil, err
		}
		elseB, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.consume(token.KwEnd); err != nil {
			return nil, err
		}
		_ = pos
		return elseB, nil

	default:
		pos := p.current.Position
		if err := p.consume(token.KwEnd); err != nil {
			return nil, err
		}
		return ast.NewIdentity(pos), nil
	}
}

// parseObjectConstruction implements `'{' fields? '}'`.
func (p *Parser) parseObjectConstruction() (ast.Node, error) {
	pos := p.current.Position
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.current.Kind == token.BraceClose {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewObjectConstruction(pos, nil), nil
	}
	var fields []ast.ObjectField
	for {
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		if p.current.Kind != token.Comma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.consume(token.BraceClose); err != nil {
		return nil, err
	}
	return ast.NewObjectConstruction(pos, fields), nil
}

// parseField implements the `field` grammar rule, including the `{ k }`
// shorthand for `{ k: .k }`.
func (p *Parser) parseField() (ast.ObjectField, error) {
	pos := p.current.Position
	switch p.current.Kind {
	case token.Ident:
		name := p.current.Lexeme
		if err := p.advance(); err != nil {
			return ast.ObjectField{}, err
		}
		if p.current.Kind == token.Colon {
			if err := p.advance(); err != nil {
				return ast.ObjectField{}, err
			}
			val, err := p.parsePipe()
			if err != nil {
				return ast.ObjectField{}, err
			}
			return ast.ObjectField{KeyName: name, Value: val}, nil
		}
		return ast.ObjectField{KeyName: name, Value: ast.NewPropertyAccess(pos, name, false, nil)}, nil

	case token.String:
		name := p.current.Lexeme
		if err := p.advance(); err != nil {
			return ast.ObjectField{}, err
		}
		if err := p.consume(token.Colon); err != nil {
			return ast.ObjectField{}, err
		}
		val, err := p.parsePipe()
		if err != nil {
			return ast.ObjectField{}, err
		}
		return ast.ObjectField{KeyName: name, Value: val}, nil

	case token.ParenOpen:
		if err := p.advance(); err != nil {
			return ast.ObjectField{}, err
		}
		keyExpr, err := p.ParseExpression()
		if err != nil {
			return ast.ObjectField{}, err
		}
		if err := p.consume(token.ParenClose); err != nil {
			return ast.ObjectField{}, err
		}
		if err := p.consume(token.Colon); err != nil {
			return ast.ObjectField{}, err
		}
		val, err := p.parsePipe()
		if err != nil {
			return ast.ObjectField{}, err
		}
		return ast.ObjectField{IsDynamic: true, KeyExpr: keyExpr, Value: val}, nil

	default:
		return ast.ObjectField{}, ferrors.Parse(ferrors.CodeUnexpectedToken, "expected object field", pos)
	}
}

// flattenElements collapses a parsed expression into the element list for
// an ArrayConstruction: a top-level Sequence contributes each of its
// sub-expressions as one element, anything else contributes itself as the
// sole element, and a nil expression (the `[]` degenerate case, not
// normally reached here since BracketEmpty is handled separately) yields no
// elements.
func flattenElements(n ast.Node) []ast.Node {
	if n == nil {
		return nil
	}
	if seq, ok := n.(*ast.Sequence); ok {
		return seq.Exprs
	}
	return []ast.Node{n}
}
