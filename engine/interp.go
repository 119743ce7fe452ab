/*
interp.go - Numeric re-evaluation of expression trees

PURPOSE:
  The companion evaluator behind consistency checking. It interprets the
  same expression trees the renderer turns into text, against a source of
  cell values, and returns the number a spreadsheet would display. This is
  deliberately NOT a spreadsheet engine: it evaluates exactly the node types
  and functions the builders emit, and nothing more.

SCOPE:
  - Arithmetic on decimals, always exact in the same way native code is
  - Comparisons (used inside IF conditions)
  - Functions: IF, MAX, MIN, SUM (ranges expand through the cell source)
  - Anything else fails with ErrBadFormula

USAGE:
  got, err := engine.Interpret(expr, source, "calc_chauffage")

SEE ALSO:
  - checker.go: Drives this against native computations
  - render.go: The matching text semantics
*/
package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CellSource supplies the value of a referenced cell during interpretation.
type CellSource interface {
	CellValue(a Address) (decimal.Decimal, error)
}

// Interpret evaluates an expression to a number. Local references resolve
// against currentTable. Non-numeric results at top level are errors.
func Interpret(e Expr, src CellSource, currentTable string) (decimal.Decimal, error) {
	v, err := eval(e, src, currentTable)
	if err != nil {
		return decimal.Zero, err
	}
	if v.kind != numberValue {
		return decimal.Zero, fmt.Errorf("%w: result is not numeric", ErrBadFormula)
	}
	return v.num, nil
}

// =============================================================================
// INTERNAL EVALUATION
// =============================================================================

type valueKind int

const (
	numberValue valueKind = iota
	textValue
	boolValue
)

type value struct {
	kind valueKind
	num  decimal.Decimal
	str  string
	b    bool
}

func number(d decimal.Decimal) value { return value{kind: numberValue, num: d} }
func boolean(b bool) value           { return value{kind: boolValue, b: b} }

func eval(e Expr, src CellSource, current string) (value, error) {
	switch n := e.(type) {
	case Lit:
		return number(n.Value), nil
	case Text:
		return value{kind: textValue, str: n.Value}, nil
	case CellRef:
		d, err := src.CellValue(n.Addr)
		if err != nil {
			return value{}, err
		}
		return number(d), nil
	case LocalRef:
		d, err := src.CellValue(Address{Table: current, Column: n.Col, Row: n.Row})
		if err != nil {
			return value{}, err
		}
		return number(d), nil
	case RangeRef:
		return value{}, fmt.Errorf("%w: range outside function argument", ErrBadFormula)
	case Binary:
		return evalBinary(n, src, current)
	case Call:
		return evalCall(n, src, current)
	default:
		return value{}, fmt.Errorf("%w: unsupported node %T", ErrBadFormula, e)
	}
}

func evalBinary(n Binary, src CellSource, current string) (value, error) {
	l, err := eval(n.Left, src, current)
	if err != nil {
		return value{}, err
	}
	r, err := eval(n.Right, src, current)
	if err != nil {
		return value{}, err
	}

	if n.Op == OpConcat {
		ls, err := asText(l)
		if err != nil {
			return value{}, err
		}
		rs, err := asText(r)
		if err != nil {
			return value{}, err
		}
		return value{kind: textValue, str: ls + rs}, nil
	}

	if n.Op == OpEq || n.Op == OpNe {
		if l.kind == textValue && r.kind == textValue {
			eq := l.str == r.str
			if n.Op == OpNe {
				eq = !eq
			}
			return boolean(eq), nil
		}
	}

	if l.kind != numberValue || r.kind != numberValue {
		return value{}, fmt.Errorf("%w: operator %q needs numeric operands", ErrBadFormula, n.Op)
	}

	switch n.Op {
	case OpAdd:
		return number(l.num.Add(r.num)), nil
	case OpSub:
		return number(l.num.Sub(r.num)), nil
	case OpMul:
		return number(l.num.Mul(r.num)), nil
	case OpDiv:
		if r.num.IsZero() {
			return value{}, fmt.Errorf("%w: division by zero", ErrBadFormula)
		}
		return number(l.num.Div(r.num)), nil
	case OpEq:
		return boolean(l.num.Equal(r.num)), nil
	case OpNe:
		return boolean(!l.num.Equal(r.num)), nil
	case OpLt:
		return boolean(l.num.LessThan(r.num)), nil
	case OpLe:
		return boolean(l.num.LessThanOrEqual(r.num)), nil
	case OpGt:
		return boolean(l.num.GreaterThan(r.num)), nil
	case OpGe:
		return boolean(l.num.GreaterThanOrEqual(r.num)), nil
	default:
		return value{}, fmt.Errorf("%w: unsupported operator %q", ErrBadFormula, n.Op)
	}
}

func evalCall(n Call, src CellSource, current string) (value, error) {
	fn := strings.ToUpper(n.Fn)
	switch fn {
	case "IF":
		if len(n.Args) != 3 {
			return value{}, fmt.Errorf("%w: IF needs 3 arguments, got %d", ErrBadFormula, len(n.Args))
		}
		cond, err := eval(n.Args[0], src, current)
		if err != nil {
			return value{}, err
		}
		if cond.kind != boolValue {
			return value{}, fmt.Errorf("%w: IF condition is not boolean", ErrBadFormula)
		}
		if cond.b {
			return eval(n.Args[1], src, current)
		}
		return eval(n.Args[2], src, current)

	case "MAX", "MIN":
		nums, err := numericArgs(n, src, current)
		if err != nil {
			return value{}, err
		}
		if len(nums) == 0 {
			return value{}, fmt.Errorf("%w: %s needs at least one argument", ErrBadFormula, n.Fn)
		}
		best := nums[0]
		for _, d := range nums[1:] {
			if fn == "MAX" && d.GreaterThan(best) {
				best = d
			}
			if fn == "MIN" && d.LessThan(best) {
				best = d
			}
		}
		return number(best), nil

	case "SUM":
		nums, err := numericArgs(n, src, current)
		if err != nil {
			return value{}, err
		}
		total := decimal.Zero
		for _, d := range nums {
			total = total.Add(d)
		}
		return number(total), nil

	default:
		return value{}, fmt.Errorf("%w: unknown function %q", ErrBadFormula, n.Fn)
	}
}

// numericArgs evaluates a call's arguments to numbers, expanding ranges
// cell by cell through the source.
func numericArgs(n Call, src CellSource, current string) ([]decimal.Decimal, error) {
	var out []decimal.Decimal
	for _, arg := range n.Args {
		if r, ok := arg.(RangeRef); ok {
			cells, err := expandRange(r, src, current)
			if err != nil {
				return nil, err
			}
			out = append(out, cells...)
			continue
		}
		v, err := eval(arg, src, current)
		if err != nil {
			return nil, err
		}
		if v.kind != numberValue {
			return nil, fmt.Errorf("%w: %s argument is not numeric", ErrBadFormula, n.Fn)
		}
		out = append(out, v.num)
	}
	return out, nil
}

func expandRange(r RangeRef, src CellSource, current string) ([]decimal.Decimal, error) {
	if len(r.Start.Col) != 1 || len(r.End.Col) != 1 {
		return nil, fmt.Errorf("%w: range columns must be single letters", ErrBadFormula)
	}
	c0, c1 := r.Start.Col[0], r.End.Col[0]
	if c0 > c1 || r.Start.Row > r.End.Row {
		return nil, fmt.Errorf("%w: inverted range", ErrBadFormula)
	}
	var out []decimal.Decimal
	for c := c0; c <= c1; c++ {
		for row := r.Start.Row; row <= r.End.Row; row++ {
			d, err := src.CellValue(Address{Table: current, Column: Column(string(c)), Row: row})
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
	}
	return out, nil
}

func asText(v value) (string, error) {
	switch v.kind {
	case textValue:
		return v.str, nil
	case numberValue:
		return v.num.String(), nil
	default:
		return "", fmt.Errorf("%w: cannot concatenate boolean", ErrBadFormula)
	}
}
