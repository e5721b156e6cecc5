// Package ast defines FGH's abstract syntax tree as a closed tagged union:
// one concrete Go struct per variant, all implementing the sealed Node
// interface, so every node kind carries exactly the fields it needs and
// the evaluator/formatter can match on it exhaustively instead of probing
// a pile of optional fields on one shared struct.
package ast

import "github.com/platformatic/fgh/pkg/value"

// Node is implemented by every AST variant. node() is unexported, sealing
// the set of implementations to this package.
type Node interface {
	Position() int
	node()
}

type base struct{ Pos int }

func (b base) Position() int { return b.Pos }
func (base) node()           {}

// --- Literal values -------------------------------------------------------

type Identity struct{ base }
type RecursiveDescent struct{ base }
type Empty struct{ base }

type Literal struct {
	base
	Value value.Value
}

// --- Access ----------------------------------------------------------------

// PropertyAccess is `.foo` or the postfix string-key form `.foo["x-y"]`.
// StringKey is true when the property came from a bracketed string literal
// (permitting non-identifier characters); Input is nil when this access
// applies to the pipeline's current input (the common case after parsing a
// bare `.foo` at the start of a chain).
type PropertyAccess struct {
	base
	Property  string
	StringKey bool
	Input     Node
}

// IndexAccess is `.[N]`, `.[-N]`, or a postfix index after a chain.
type IndexAccess struct {
	base
	Index int
	Input Node
}

// Slice is `.[start:end]` with either bound optional.
type Slice struct {
	base
	Start *int
	End   *int
	Input Node
}

// ArrayIteration is `.[]`.
type ArrayIteration struct {
	base
	Input Node
}

// Optional is `expr?`.
type Optional struct {
	base
	Expr Node
}

// --- Composition -------------------------------------------------------

// Pipe is `left | right`.
type Pipe struct {
	base
	Left  Node
	Right Node
}

// Sequence is `a, b, c` (len(Exprs) >= 1).
type Sequence struct {
	base
	Exprs []Node
}

// --- Construction --------------------------------------------------------

// ArrayConstruction is `[expr]` (Elements may be empty for `[]` as an
// expression, i.e. the empty-array literal).
type ArrayConstruction struct {
	base
	Elements []Node
}

// ObjectField is one `{k: v}` entry. IsDynamic is true iff KeyExpr holds an
// AST expression (the `(expr): value` form); otherwise KeyName holds the
// literal/identifier/string key text.
type ObjectField struct {
	IsDynamic bool
	KeyName   string
	KeyExpr   Node
	Value     Node
}

// ObjectConstruction is `{f1, f2: v2, ...}`.
type ObjectConstruction struct {
	base
	Fields []ObjectField
}

// --- Arithmetic ------------------------------------------------------------

type binary struct {
	base
	Left  Node
	Right Node
}

type Sum struct{ binary }
type Difference struct{ binary }
type Multiply struct{ binary }
type Divide struct{ binary }
type Modulo struct{ binary }

// --- Relational / logical ---------------------------------------------------

type Equal struct{ binary }
type NotEqual struct{ binary }
type LessThan struct{ binary }
type LessThanOrEqual struct{ binary }
type GreaterThan struct{ binary }
type GreaterThanOrEqual struct{ binary }
type And struct{ binary }
type Or struct{ binary }
type Default struct{ binary }

type Not struct {
	base
	Expr Node
}

// --- Control -----------------------------------------------------------

// Conditional is `if c then t (elif c2 then t2)* (else e)? end`. For a
// missing else branch the parser sets ElseBranch to an Identity node; an
// elif is a nested Conditional in ElseBranch.
type Conditional struct {
	base
	Condition   Node
	ThenBranch  Node
	ElseBranch  Node
}

// --- Builtins ------------------------------------------------------------

type MapFilter struct {
	base
	Filter Node
}

type MapValuesFilter struct {
	base
	Filter Node
}

type SelectFilter struct {
	base
	Condition Node
}

type Sort struct{ base }

type SortBy struct {
	base
	Paths []Node
}

type Keys struct{ base }
type KeysUnsorted struct{ base }
type Tostring struct{ base }
type Tonumber struct{ base }
type Length struct{ base }

type HasKey struct {
	base
	Key Node
}

// Constructors set Pos for convenience and readability at call sites.

func NewIdentity(pos int) *Identity                 { return &Identity{base{pos}} }
func NewRecursiveDescent(pos int) *RecursiveDescent { return &RecursiveDescent{base{pos}} }
func NewEmpty(pos int) *Empty                       { return &Empty{base{pos}} }
func NewLiteral(pos int, v value.Value) *Literal    { return &Literal{base{pos}, v} }

func NewSum(pos int, l, r Node) *Sum               { return &Sum{binary{base{pos}, l, r}} }
func NewDifference(pos int, l, r Node) *Difference { return &Difference{binary{base{pos}, l, r}} }
func NewMultiply(pos int, l, r Node) *Multiply     { return &Multiply{binary{base{pos}, l, r}} }
func NewDivide(pos int, l, r Node) *Divide         { return &Divide{binary{base{pos}, l, r}} }
func NewModulo(pos int, l, r Node) *Modulo         { return &Modulo{binary{base{pos}, l, r}} }

func NewEqual(pos int, l, r Node) *Equal { return &Equal{binary{base{pos}, l, r}} }
func NewNotEqual(pos int, l, r Node) *NotEqual { return &NotEqual{binary{base{pos}, l, r}} }
func NewLessThan(pos int, l, r Node) *LessThan { return &LessThan{binary{base{pos}, l, r}} }
func NewLessThanOrEqual(pos int, l, r Node) *LessThanOrEqual {
	return &LessThanOrEqual{binary{base{pos}, l, r}}
}
func NewGreaterThan(pos int, l, r Node) *GreaterThan { return &GreaterThan{binary{base{pos}, l, r}} }
func NewGreaterThanOrEqual(pos int, l, r Node) *GreaterThanOrEqual {
	return &GreaterThanOrEqual{binary{base{pos}, l, r}}
}
func NewAnd(pos int, l, r Node) *And         { return &And{binary{base{pos}, l, r}} }
func NewOr(pos int, l, r Node) *Or           { return &Or{binary{base{pos}, l, r}} }
func NewDefault(pos int, l, r Node) *Default { return &Default{binary{base{pos}, l, r}} }
func NewNot(pos int, e Node) *Not            { return &Not{base{pos}, e} }

// Left/Right accessors for binary nodes, used uniformly by the evaluator
// and formatter instead of re-declaring Left/Right on every alias type.
func (b binary) GetLeft() Node  { return b.Left }
func (b binary) GetRight() Node { return b.Right }

// BinaryNode is implemented by every arithmetic/relational/logical binary
// operator node, letting the evaluator and formatter dispatch on shape
// without a type switch per concrete alias.
type BinaryNode interface {
	Node
	GetLeft() Node
	GetRight() Node
}

// Remaining constructors, one per variant, so other packages (parser,
// evaluator, formatter) never need direct access to the unexported base
// field.

func NewPropertyAccess(pos int, property string, stringKey bool, input Node) *PropertyAccess {
	return &PropertyAccess{base: base{pos}, Property: property, StringKey: stringKey, Input: input}
}

func NewIndexAccess(pos int, index int, input Node) *IndexAccess {
	return &IndexAccess{base: base{pos}, Index: index, Input: input}
}

func NewSlice(pos int, start, end *int, input Node) *Slice {
	return &Slice{base: base{pos}, Start: start, End: end, Input: input}
}

func NewArrayIteration(pos int, input Node) *ArrayIteration {
	return &ArrayIteration{base: base{pos}, Input: input}
}

func NewOptional(pos int, expr Node) *Optional {
	return &Optional{base: base{pos}, Expr: expr}
}

func NewPipe(pos int, left, right Node) *Pipe {
	return &Pipe{base: base{pos}, Left: left, Right: right}
}

func NewSequence(pos int, exprs []Node) *Sequence {
	return &Sequence{base: base{pos}, Exprs: exprs}
}

func NewArrayConstruction(pos int, elements []Node) *ArrayConstruction {
	return &ArrayConstruction{base: base{pos}, Elements: elements}
}

func NewObjectConstruction(pos int, fields []ObjectField) *ObjectConstruction {
	return &ObjectConstruction{base: base{pos}, Fields: fields}
}

func NewConditional(pos int, cond, thenB, elseB Node) *Conditional {
	return &Conditional{base: base{pos}, Condition: cond, ThenBranch: thenB, ElseBranch: elseB}
}

func NewMapFilter(pos int, filter Node) *MapFilter { return &MapFilter{base{pos}, filter} }
func NewMapValuesFilter(pos int, filter Node) *MapValuesFilter {
	return &MapValuesFilter{base{pos}, filter}
}
func NewSelectFilter(pos int, cond Node) *SelectFilter { return &SelectFilter{base{pos}, cond} }
func NewSort(pos int) *Sort                            { return &Sort{base{pos}} }
func NewSortBy(pos int, paths []Node) *SortBy          { return &SortBy{base{pos}, paths} }
func NewKeys(pos int) *Keys                            { return &Keys{base{pos}} }
func NewKeysUnsorted(pos int) *KeysUnsorted            { return &KeysUnsorted{base{pos}} }
func NewTostring(pos int) *Tostring                    { return &Tostring{base{pos}} }
func NewTonumber(pos int) *Tonumber                    { return &Tonumber{base{pos}} }
func NewLength(pos int) *Length                        { return &Length{base{pos}} }
func NewHasKey(pos int, key Node) *HasKey              { return &HasKey{base{pos}, key} }
