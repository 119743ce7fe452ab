/*
piecewise.go - Piecewise-linear curves, evaluated and compiled from one table

PURPOSE:
  Breakpoint curves (e.g. heat pump COP versus outdoor temperature) exist in
  two forms that must never drift apart: a native evaluator used by Go
  computations, and a nested-IF spreadsheet formula embedded in exported
  cells. Both forms are produced here, from the same ordered breakpoint
  list, with identical clamping and interpolation arithmetic.

SEMANTICS:
  Below the first breakpoint the curve is clamped to the first value; above
  the last, to the last value. Between neighbors t_i..t_i+1 the value is

      v_i + (t - t_i)/(t_i+1 - t_i) * (v_i+1 - v_i)

  The compiled formula is the IF-chain transcription of exactly that:

      IF(t<=t_0; v_0;
      IF(t<=t_1; v_0 + (t-t_0)/(t_1-t_0)*(v_1-v_0);
      ...
      v_n))

USAGE:
  curve, err := engine.NewCurve(
      engine.Breakpoint{At: d(-15), Value: d(1.5)},
      engine.Breakpoint{At: d(-10), Value: d(1.8)},
      ...
  )
  cop := curve.Eval(tExt)

  expr, err := engine.CompilePiecewise(engine.Local("C", row), stops)

SEE ALSO:
  - interp.go: Interprets the compiled form; tests hold the two forms equal
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Breakpoint is one (input, output) point of a piecewise-linear curve.
type Breakpoint struct {
	At    decimal.Decimal
	Value decimal.Decimal
}

// Curve is an immutable piecewise-linear curve over strictly increasing
// breakpoints.
type Curve struct {
	points []Breakpoint
}

// NewCurve builds a curve. At least one breakpoint is required and inputs
// must be strictly increasing.
func NewCurve(points ...Breakpoint) (Curve, error) {
	if len(points) == 0 {
		return Curve{}, fmt.Errorf("%w: no breakpoints", ErrInvalidBreakpoints)
	}
	for i := 1; i < len(points); i++ {
		if !points[i].At.GreaterThan(points[i-1].At) {
			return Curve{}, fmt.Errorf("%w: %s then %s",
				ErrInvalidBreakpoints, points[i-1].At, points[i].At)
		}
	}
	c := Curve{points: make([]Breakpoint, len(points))}
	copy(c.points, points)
	return c, nil
}

// Points returns the breakpoints in order.
func (c Curve) Points() []Breakpoint {
	out := make([]Breakpoint, len(c.points))
	copy(out, c.points)
	return out
}

// Eval returns the curve value at t, clamped outside the breakpoint span.
func (c Curve) Eval(t decimal.Decimal) decimal.Decimal {
	first, last := c.points[0], c.points[len(c.points)-1]
	if t.LessThanOrEqual(first.At) {
		return first.Value
	}
	if t.GreaterThanOrEqual(last.At) {
		return last.Value
	}
	for i := 1; i < len(c.points); i++ {
		if t.LessThanOrEqual(c.points[i].At) {
			lo, hi := c.points[i-1], c.points[i]
			fraction := t.Sub(lo.At).Div(hi.At.Sub(lo.At))
			return lo.Value.Add(fraction.Mul(hi.Value.Sub(lo.Value)))
		}
	}
	return last.Value
}

// =============================================================================
// FORMULA COMPILATION
// =============================================================================

// PiecewiseStop pairs a breakpoint input with the expression holding its
// output, normally a reference to the parameter cell carrying that value.
type PiecewiseStop struct {
	At  decimal.Decimal
	Ref Expr
}

// CompilePiecewise builds the nested-IF transcription of a piecewise-linear
// curve applied to t. Stops must be strictly increasing; a single stop
// compiles to its reference (a constant curve).
func CompilePiecewise(t Expr, stops []PiecewiseStop) (Expr, error) {
	if len(stops) == 0 {
		return nil, fmt.Errorf("%w: no breakpoints", ErrInvalidBreakpoints)
	}
	for i := 1; i < len(stops); i++ {
		if !stops[i].At.GreaterThan(stops[i-1].At) {
			return nil, fmt.Errorf("%w: %s then %s",
				ErrInvalidBreakpoints, stops[i-1].At, stops[i].At)
		}
	}
	if len(stops) == 1 {
		return stops[0].Ref, nil
	}

	// Innermost branch clamps above the last stop, then each wrapping IF
	// adds one segment, then the outermost IF clamps below the first stop.
	expr := stops[len(stops)-1].Ref
	for i := len(stops) - 1; i >= 1; i-- {
		lo, hi := stops[i-1], stops[i]
		segment := Add(lo.Ref,
			Mul(
				Div(offsetFrom(t, lo.At), Num(hi.At.Sub(lo.At))),
				Sub(hi.Ref, lo.Ref),
			))
		expr = If(Le(t, Num(hi.At)), segment, expr)
	}
	return If(Le(t, Num(stops[0].At)), stops[0].Ref, expr), nil
}

// offsetFrom builds (t - at), folding double negatives into additions so a
// stop at -15 renders as (t+15) rather than (t-(-15)).
func offsetFrom(t Expr, at decimal.Decimal) Expr {
	if at.IsZero() {
		return t
	}
	if at.IsNegative() {
		return Add(t, Num(at.Neg()))
	}
	return Sub(t, Num(at))
}
