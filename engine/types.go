/*
Package engine provides the core machinery for auditable spreadsheet models.

PURPOSE:
  This package contains domain-agnostic types and algorithms for building
  spreadsheet documents in which every derived cell carries both a
  pre-computed numeric value and a live formula. Whether the model describes
  an energy balance, a budget, or any other scenario computation, the same
  engine handles parameter addressing, row layout, formula construction, and
  value/formula consistency checking.

KEY CONCEPTS IN THIS FILE (types.go):
  - Address: A fully-qualified cell position (table, column, row)
  - Column: A spreadsheet column letter
  - ParamRow: One rendered row of the parameter table
  - ValueProvider: Supplies live values for named knobs
  - Fallback: Records a knob that fell back to its documented default

DESIGN PRINCIPLES:
  1. Determinism: Addresses depend only on declaration order, never on values
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Single authority: One Registry owns parameter rows, one Grid owns the
     shared row layout; nothing else computes row numbers
  4. Auditability: Formulas are built as expression trees and rendered in one
     place, so the emitted text is uniform and checkable

USAGE:
  reg, err := engine.NewRegistry("parametres", entries)
  addr, err := reg.AddressOf("cop_pac")        // parametres.B10
  expr := engine.Mul(engine.Cell(addr), engine.Int(1000))
  text := engine.ODF.Formula(expr, "synthese") // of:=([parametres.B10]*1000)

SEE ALSO:
  - registry.go: Parameter registry (knobs, categories, rows)
  - grid.go: Shared month/slot row layout
  - expr.go: Formula expression tree and combinators
  - render.go: ODF dialect rendering
  - checker.go: Native-vs-formula consistency checking
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CELL ADDRESSING
// =============================================================================

// Column is a spreadsheet column letter ("A".."Z").
type Column string

// Address identifies one cell across the whole document.
type Address struct {
	Table  string
	Column Column
	Row    int
}

// String renders the address in table-qualified form, e.g. "parametres.B14".
func (a Address) String() string {
	return fmt.Sprintf("%s.%s%d", a.Table, a.Column, a.Row)
}

// FirstDataRow is the first data row of every table: row 1 holds the table
// title, row 2 the column headers.
const FirstDataRow = 3

// ValueColumn is the column holding parameter values in the parameter table.
const ValueColumn Column = "B"

// =============================================================================
// PARAMETER ROWS
// =============================================================================

// ParamRow is one rendered row of the parameter table. Category rows carry a
// label and empty value/unit/source/description cells; knob rows carry the
// full five-tuple.
type ParamRow struct {
	Name        string
	Value       *decimal.Decimal // nil for category rows
	Unit        string
	Source      string
	Description string
	Category    bool
}

// ValueProvider supplies live values for named knobs. A provider that cannot
// supply a knob returns ok=false; the registry then falls back to the knob's
// documented default and reports it, never a silent zero.
type ValueProvider interface {
	KnobValue(name string) (decimal.Decimal, bool)
}

// Fallback records one knob whose live value was missing and which was
// rendered with its default instead. Callers log these.
type Fallback struct {
	Knob    string
	Default decimal.Decimal
}
