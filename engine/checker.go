/*
checker.go - Native-vs-formula consistency checking

PURPOSE:
  Every derived quantity in the exported document exists twice: as a native
  Go computation (the shipped numbers) and as a spreadsheet formula (the
  live audit trail). This file proves the two agree. Each quantity's formula
  is built against the registry, interpreted against a knob valuation, and
  compared with the native result within tolerance. Checks run on the
  all-defaults valuation plus randomized perturbations of the quantity's
  upstream knobs, so structural divergence cannot hide behind defaults that
  happen to coincide.

KEY CONCEPTS:
  - Quantity: A named value with paired native and formula constructions
  - Sample: A complete knob valuation (defaults overlaid with perturbations)
  - Resolver: Turns knob names into parameter cell references, recording
    unknown names so they fail before any document is written

USAGE:
  chk := engine.NewChecker(reg)
  if err := chk.VerifyReferences(quantities); err != nil { ... }
  report, err := chk.Run(quantities, engine.Options{Seed: 1})

SEE ALSO:
  - interp.go: The evaluator driven here
  - errors.go: MismatchError, UnknownKnobError
*/
package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"
)

// DefaultTolerance is the allowed absolute difference between native and
// interpreted values when a quantity does not set its own: one unit of the
// quantity (for power cells, 1 kW).
var DefaultTolerance = decimal.NewFromInt(1)

// Sample is a complete knob valuation: name to value.
type Sample map[string]decimal.Decimal

// Clone copies a sample so perturbations never touch the base valuation.
func (s Sample) Clone() Sample {
	out := make(Sample, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Quantity is one derived value under consistency check. Native computes it
// in Go from a sample; Build constructs the equivalent formula over
// parameter references obtained from the resolver. Both sides must be pure
// functions of the sample's knob values.
type Quantity struct {
	Name      string
	Table     string // table the formula is rendered into
	Unit      string
	Tolerance decimal.Decimal // zero means DefaultTolerance
	Knobs     []string        // upstream knobs, perturbed during checking
	Native    func(Sample) (decimal.Decimal, error)
	Build     func(*Resolver) (Expr, error)
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver turns knob names into parameter cell references for one table
// under construction. Unknown names are recorded rather than panicking, so
// a whole formula can be built and every bad reference reported at once.
type Resolver struct {
	reg     *Registry
	table   string
	missing []string
	seen    map[string]bool
}

// NewResolver binds a resolver to a registry and the table being built.
func NewResolver(reg *Registry, table string) *Resolver {
	return &Resolver{reg: reg, table: table, seen: make(map[string]bool)}
}

// Table returns the table the resolver builds formulas for.
func (r *Resolver) Table() string { return r.table }

// Registry returns the bound registry.
func (r *Resolver) Registry() *Registry { return r.reg }

// Knob returns the parameter cell reference for a knob name. An undeclared
// name is recorded and a zero literal returned; Err surfaces the failure.
func (r *Resolver) Knob(name string) Expr {
	addr, err := r.reg.AddressOf(name)
	if err != nil {
		if !r.seen[name] {
			r.seen[name] = true
			r.missing = append(r.missing, name)
		}
		return Int(0)
	}
	return Cell(addr)
}

// Missing returns the undeclared names referenced so far, in first-use order.
func (r *Resolver) Missing() []string {
	out := make([]string, len(r.missing))
	copy(out, r.missing)
	return out
}

// Err returns the accumulated unknown-knob errors, or nil.
func (r *Resolver) Err() error {
	if len(r.missing) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.missing))
	for _, name := range r.missing {
		errs = append(errs, &UnknownKnobError{Name: name, Where: r.table})
	}
	return errors.Join(errs...)
}

// =============================================================================
// CHECKER
// =============================================================================

// Options configures a checker run.
type Options struct {
	Perturbations int   // randomized samples per quantity beyond defaults (default 4)
	Seed          int64 // rng seed, fixed for reproducible runs
}

// Report summarizes a completed run.
type Report struct {
	Quantities int
	Samples    int
	Results    []QuantityResult
}

// QuantityResult is the per-quantity outcome.
type QuantityResult struct {
	Name     string
	Samples  int
	MaxDelta decimal.Decimal
}

// Checker compares native computations with interpreted formulas against
// one registry.
type Checker struct {
	reg *Registry
}

func NewChecker(reg *Registry) *Checker {
	return &Checker{reg: reg}
}

// BaseSample returns the all-defaults valuation.
func (c *Checker) BaseSample() Sample {
	s := make(Sample, c.reg.KnobCount())
	for _, k := range c.reg.Knobs() {
		s[k.Name] = k.Default
	}
	return s
}

// VerifyReferences builds every quantity's formula against the registry and
// reports all undeclared knob references and build failures together. Run
// this before emitting anything; an unknown reference is a programmer error
// that must never reach an exported document.
func (c *Checker) VerifyReferences(quantities []Quantity) error {
	var errs []error
	for _, q := range quantities {
		res := NewResolver(c.reg, q.Table)
		if _, err := q.Build(res); err != nil {
			errs = append(errs, fmt.Errorf("building %q: %w", q.Name, err))
		}
		if err := res.Err(); err != nil {
			errs = append(errs, fmt.Errorf("quantity %q: %w", q.Name, err))
		}
		for _, name := range q.Knobs {
			if _, ok := c.reg.Find(name); !ok {
				errs = append(errs, &UnknownKnobError{Name: name, Where: q.Name})
			}
		}
	}
	return errors.Join(errs...)
}

// Check compares one quantity on one sample. The label names the sample in
// any mismatch report.
func (c *Checker) Check(q Quantity, s Sample, label string) error {
	_, err := c.check(q, s, label)
	return err
}

func (c *Checker) check(q Quantity, s Sample, label string) (decimal.Decimal, error) {
	res := NewResolver(c.reg, q.Table)
	expr, err := q.Build(res)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building %q: %w", q.Name, err)
	}
	if err := res.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("quantity %q: %w", q.Name, err)
	}

	native, err := q.Native(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("native %q: %w", q.Name, err)
	}
	interpreted, err := Interpret(expr, &sampleSource{reg: c.reg, sample: s}, q.Table)
	if err != nil {
		return decimal.Zero, fmt.Errorf("interpreting %q: %w", q.Name, err)
	}

	tolerance := q.Tolerance
	if tolerance.IsZero() {
		tolerance = DefaultTolerance
	}
	delta := native.Sub(interpreted).Abs()
	if delta.GreaterThan(tolerance) {
		return delta, &MismatchError{
			Quantity:    q.Name,
			Table:       q.Table,
			Sample:      label,
			Native:      native,
			Interpreted: interpreted,
			Tolerance:   tolerance,
		}
	}
	return delta, nil
}

// Run checks every quantity on the all-defaults sample plus randomized
// perturbations of its upstream knobs. The first failure aborts the run:
// a mismatch means the exported values and formulas would disagree, and no
// document built from them can be trusted.
func (c *Checker) Run(quantities []Quantity, opt Options) (Report, error) {
	if opt.Perturbations <= 0 {
		opt.Perturbations = 4
	}
	rng := rand.New(rand.NewSource(opt.Seed))
	base := c.BaseSample()

	report := Report{Quantities: len(quantities)}
	for _, q := range quantities {
		result := QuantityResult{Name: q.Name}

		record := func(s Sample, label string) error {
			delta, err := c.check(q, s, label)
			if err != nil {
				return err
			}
			if delta.GreaterThan(result.MaxDelta) {
				result.MaxDelta = delta
			}
			result.Samples++
			return nil
		}

		if err := record(base, "defaults"); err != nil {
			return report, err
		}
		for p := 1; p <= opt.Perturbations; p++ {
			s, err := c.perturb(base, q, rng)
			if err != nil {
				return report, err
			}
			if err := record(s, fmt.Sprintf("perturbation-%d", p)); err != nil {
				return report, err
			}
		}

		report.Samples += result.Samples
		report.Results = append(report.Results, result)
	}
	return report, nil
}

// perturb scales each upstream knob of the quantity by a random factor in
// [0.5, 1.5). Factors never reach zero, so denominators stay safe.
func (c *Checker) perturb(base Sample, q Quantity, rng *rand.Rand) (Sample, error) {
	s := base.Clone()
	for _, name := range q.Knobs {
		v, ok := s[name]
		if !ok {
			return nil, &UnknownKnobError{Name: name, Where: q.Name}
		}
		factor := decimal.NewFromFloat(0.5 + rng.Float64())
		s[name] = v.Mul(factor)
	}
	return s, nil
}

// =============================================================================
// SAMPLE-BACKED CELL SOURCE
// =============================================================================

// sampleSource resolves parameter cell references to sample values. Quantity
// formulas are knob-closed: any reference outside the parameter table's
// value column cannot be checked and fails.
type sampleSource struct {
	reg    *Registry
	sample Sample
}

func (s *sampleSource) CellValue(a Address) (decimal.Decimal, error) {
	if a.Table != s.reg.Table() || a.Column != ValueColumn {
		return decimal.Zero, fmt.Errorf("%w: %s is outside the parameter table", ErrBadFormula, a)
	}
	k, ok := s.reg.KnobAtRow(a.Row)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: row %d holds no knob", ErrBadFormula, a.Row)
	}
	if v, ok := s.sample[k.Name]; ok {
		return v, nil
	}
	return k.Default, nil
}
