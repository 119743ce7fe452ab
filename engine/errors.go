/*
errors.go - Centralized error types for the engine

PURPOSE:
  All engine error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Registry errors - Duplicate or unknown knob names
  2. Layout errors - Tables disagreeing with the shared grid
  3. Consistency errors - Formula evaluation diverging from native values
  4. Recoverable errors - Missing upstream values with documented fallbacks

USAGE:
  Only ErrMissingUpstreamValue is recoverable: the caller substitutes the
  documented default and logs the event. Every other error in this file
  aborts the run; an exported document built past one of them would lie.

    if engine.IsRecoverable(err) {
        log.Printf("⚠️  %v", err)
    } else {
        return err
    }

SEE ALSO:
  - registry.go: Raises duplicate/unknown knob errors
  - grid.go: Raises misalignment errors
  - checker.go: Raises mismatch errors
*/
package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDuplicateKnobName is returned when two knobs declare the same name.
	// Names are the stable identifiers behind every parameter reference, so a
	// duplicate would make formulas ambiguous.
	ErrDuplicateKnobName = errors.New("duplicate knob name")

	// ErrUnknownKnob is returned when a formula or override references a knob
	// name the registry never declared. This is a programmer error and must
	// surface before any document is written.
	ErrUnknownKnob = errors.New("unknown knob")

	// ErrGridMisalignment is returned when a table's rows disagree with the
	// shared grid layout. Cross-table same-row references would silently read
	// the wrong period, so this is fatal.
	ErrGridMisalignment = errors.New("grid misalignment")

	// ErrFormulaValueMismatch is returned when the interpreted formula of a
	// derived quantity differs from its native value beyond tolerance.
	ErrFormulaValueMismatch = errors.New("formula does not match native value")

	// ErrMissingUpstreamValue is returned when a per-slot upstream value is
	// absent for a grid key. Recoverable: callers substitute the documented
	// default and log.
	ErrMissingUpstreamValue = errors.New("missing upstream value")

	// ErrInvalidBreakpoints is returned when a piecewise curve is declared
	// with breakpoints that are not strictly increasing.
	ErrInvalidBreakpoints = errors.New("breakpoints must be strictly increasing")

	// ErrBadFormula is returned when an expression cannot be interpreted
	// (unknown function, type misuse, division by zero).
	ErrBadFormula = errors.New("formula cannot be evaluated")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DuplicateKnobError reports which knob name was declared twice.
type DuplicateKnobError struct {
	Name string
}

func (e *DuplicateKnobError) Error() string {
	return fmt.Sprintf("duplicate knob name %q in registry", e.Name)
}

func (e *DuplicateKnobError) Unwrap() error {
	return ErrDuplicateKnobName
}

// UnknownKnobError reports a reference to an undeclared knob.
type UnknownKnobError struct {
	Name  string
	Where string // what was being built when the reference failed
}

func (e *UnknownKnobError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("unknown knob %q", e.Name)
	}
	return fmt.Sprintf("unknown knob %q referenced by %s", e.Name, e.Where)
}

func (e *UnknownKnobError) Unwrap() error {
	return ErrUnknownKnob
}

// GridMisalignmentError reports a table whose row for a key disagrees with
// the grid.
type GridMisalignmentError struct {
	Grid    string
	Table   string
	Key     GridKey
	WantRow int
	GotRow  int
}

func (e *GridMisalignmentError) Error() string {
	return fmt.Sprintf("table %q misaligned with grid %q: key %s expected at row %d, found at row %d",
		e.Table, e.Grid, e.Key, e.WantRow, e.GotRow)
}

func (e *GridMisalignmentError) Unwrap() error {
	return ErrGridMisalignment
}

// MismatchError reports a derived quantity whose interpreted formula and
// native value diverge beyond tolerance.
type MismatchError struct {
	Quantity    string
	Table       string
	Sample      string // which sample exposed the divergence
	Native      decimal.Decimal
	Interpreted decimal.Decimal
	Tolerance   decimal.Decimal
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("quantity %q (%s): native %s vs formula %s exceeds tolerance %s [sample %s]",
		e.Quantity, e.Table, e.Native, e.Interpreted, e.Tolerance, e.Sample)
}

func (e *MismatchError) Unwrap() error {
	return ErrFormulaValueMismatch
}

// MissingValueError reports an upstream value absent for a grid key and the
// default substituted for it.
type MissingValueError struct {
	Table    string
	Key      GridKey
	Column   Column
	Fallback decimal.Decimal
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("table %q: no upstream value for %s column %s, using default %s",
		e.Table, e.Key, e.Column, e.Fallback)
}

func (e *MissingValueError) Unwrap() error {
	return ErrMissingUpstreamValue
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRecoverable returns true if the error permits continuing with a
// documented fallback value.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrMissingUpstreamValue)
}

// IsLayoutError returns true for errors about where things live, as opposed
// to what they compute.
func IsLayoutError(err error) bool {
	return errors.Is(err, ErrDuplicateKnobName) ||
		errors.Is(err, ErrUnknownKnob) ||
		errors.Is(err, ErrGridMisalignment)
}
