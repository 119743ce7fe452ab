/*
expr.go - Formula expression tree and combinators

PURPOSE:
  Formulas are values, not strings. Every derived cell's formula is built as
  a small expression tree through the combinators below, then rendered by
  exactly one renderer (render.go) and interpreted by exactly one
  interpreter (interp.go). No code outside render.go concatenates formula
  text, so parenthesization, separators and reference syntax are uniform
  across the whole document.

NODE TYPES (closed set):
  - Lit: Numeric literal (decimal)
  - Text: String literal
  - CellRef: Fully-qualified cell reference; renders cross-table or local
    depending on the table being rendered
  - LocalRef: Column+row in the current table, always renders relative
  - RangeRef: Local cell range, e.g. [.Q3:.Q7]
  - Binary: Arithmetic, comparison or concatenation with two operands
  - Call: Spreadsheet function application

USAGE:
  // MAX(0;[.N17]-[.H17])
  deficit := engine.Max0(engine.Sub(engine.Local("N", 17), engine.Local("H", 17)))

SEE ALSO:
  - render.go: The one place expression trees become text
  - interp.go: The one place expression trees become numbers
  - piecewise.go: Breakpoint curves compiled to nested IFs
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// NODE TYPES
// =============================================================================

// Expr is a node of the formula expression tree. The set of implementations
// is closed; renderer and interpreter switch over all of them.
type Expr interface {
	exprNode()
}

// Lit is a numeric literal.
type Lit struct {
	Value decimal.Decimal
}

// Text is a string literal.
type Text struct {
	Value string
}

// CellRef references a cell by full address. The renderer emits a
// cross-table reference when the address's table differs from the table
// being rendered, and a relative in-table reference when it matches.
type CellRef struct {
	Addr Address
}

// LocalRef references a cell in the current table by column and row.
type LocalRef struct {
	Col Column
	Row int
}

// RangeRef references a contiguous local cell range.
type RangeRef struct {
	Start LocalRef
	End   LocalRef
}

// BinOp is a binary operator supported by the dialect.
type BinOp string

const (
	OpAdd    BinOp = "+"
	OpSub    BinOp = "-"
	OpMul    BinOp = "*"
	OpDiv    BinOp = "/"
	OpEq     BinOp = "="
	OpNe     BinOp = "<>"
	OpLt     BinOp = "<"
	OpLe     BinOp = "<="
	OpGt     BinOp = ">"
	OpGe     BinOp = ">="
	OpConcat BinOp = "&"
)

// Binary applies an operator to two operands.
type Binary struct {
	Op    BinOp
	Left  Expr
	Right Expr
}

// Call applies a spreadsheet function to arguments.
type Call struct {
	Fn   string
	Args []Expr
}

func (Lit) exprNode()      {}
func (Text) exprNode()     {}
func (CellRef) exprNode()  {}
func (LocalRef) exprNode() {}
func (RangeRef) exprNode() {}
func (Binary) exprNode()   {}
func (Call) exprNode()     {}

// =============================================================================
// COMBINATORS
// =============================================================================

// Num wraps a decimal as a literal.
func Num(d decimal.Decimal) Expr { return Lit{Value: d} }

// Float wraps a float64 as a literal.
func Float(f float64) Expr { return Lit{Value: decimal.NewFromFloat(f)} }

// Int wraps an integer as a literal.
func Int(n int64) Expr { return Lit{Value: decimal.NewFromInt(n)} }

// Str wraps a string as a text literal.
func Str(s string) Expr { return Text{Value: s} }

// Cell references a cell by full address.
func Cell(a Address) Expr { return CellRef{Addr: a} }

// Local references a cell of the current table.
func Local(col Column, row int) Expr { return LocalRef{Col: col, Row: row} }

// LocalRange references rows from..to of one column in the current table.
func LocalRange(col Column, from, to int) Expr {
	return RangeRef{
		Start: LocalRef{Col: col, Row: from},
		End:   LocalRef{Col: col, Row: to},
	}
}

func Add(l, r Expr) Expr { return Binary{Op: OpAdd, Left: l, Right: r} }
func Sub(l, r Expr) Expr { return Binary{Op: OpSub, Left: l, Right: r} }
func Mul(l, r Expr) Expr { return Binary{Op: OpMul, Left: l, Right: r} }
func Div(l, r Expr) Expr { return Binary{Op: OpDiv, Left: l, Right: r} }
func Le(l, r Expr) Expr  { return Binary{Op: OpLe, Left: l, Right: r} }

// AddN folds any number of terms into a left-nested sum. Zero terms is the
// literal 0; one term is returned unchanged.
func AddN(terms ...Expr) Expr {
	if len(terms) == 0 {
		return Int(0)
	}
	e := terms[0]
	for _, t := range terms[1:] {
		e = Add(e, t)
	}
	return e
}

// MulN folds any number of factors into a left-nested product.
func MulN(factors ...Expr) Expr {
	if len(factors) == 0 {
		return Int(1)
	}
	e := factors[0]
	for _, f := range factors[1:] {
		e = Mul(e, f)
	}
	return e
}

// Fn applies a named spreadsheet function.
func Fn(name string, args ...Expr) Expr { return Call{Fn: name, Args: args} }

// If builds IF(cond;then;else).
func If(cond, then, els Expr) Expr { return Fn("IF", cond, then, els) }

// Max builds MAX over the arguments.
func Max(args ...Expr) Expr { return Fn("MAX", args...) }

// Max0 clamps an expression at zero: MAX(0;x).
func Max0(x Expr) Expr { return Max(Int(0), x) }

// Sum builds SUM over a range or argument list.
func Sum(args ...Expr) Expr { return Fn("SUM", args...) }

// Concat folds parts into a string concatenation.
func Concat(parts ...Expr) Expr {
	if len(parts) == 0 {
		return Str("")
	}
	e := parts[0]
	for _, p := range parts[1:] {
		e = Binary{Op: OpConcat, Left: e, Right: p}
	}
	return e
}
