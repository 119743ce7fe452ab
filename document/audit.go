/*
audit.go - Whole-document formula audit

PURPOSE:
  The final consistency gate before bytes hit disk. Phase 1 checked each
  quantity's formula against its native computation in isolation; the audit
  checks the assembled artifact: every recorded formula cell is
  re-interpreted against the document's OWN cell values, so broken
  cross-table references, shifted rows or a builder writing one value and
  rendering another all surface as mismatches.

MECHANICS:
  Formula cells are interpreted from their expression trees, never
  re-parsed from text. Cell lookups resolve through the built tables: row r
  of table t is Rows[r-3] (row 1 title, row 2 headers), and only numeric
  cells (plain or formula-bearing) can be read. A formula cell reads as its
  stored value, matching how a spreadsheet application shows a cached
  result.

USAGE:
  if err := document.Audit(doc); err != nil {
      // one joined error, one entry per failing cell
  }

SEE ALSO:
  - engine/interp.go: The expression evaluator
  - engine/errors.go: MismatchError
*/
package document

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/engine"
	"github.com/terrawatt/balance-engine/ods"
)

// Audit re-evaluates every formula cell recorded during Build against the
// finished document and returns the joined mismatches, or nil when every
// cell agrees with its value within the engine tolerance.
func Audit(doc *Document) error {
	src := newTableSource(doc)
	var errs []error
	for _, cell := range doc.audits {
		got, err := engine.Interpret(cell.expr, src, cell.at.Table)
		if err != nil {
			errs = append(errs, fmt.Errorf("audit: %s: %w", cell.at, err))
			continue
		}
		if got.Sub(cell.value).Abs().GreaterThan(engine.DefaultTolerance) {
			errs = append(errs, &engine.MismatchError{
				Quantity:    cell.at.String(),
				Table:       cell.at.Table,
				Sample:      "document",
				Native:      cell.value,
				Interpreted: got,
				Tolerance:   engine.DefaultTolerance,
			})
		}
	}
	return errors.Join(errs...)
}

// AuditedCells returns the number of formula cells the audit covers.
func (d *Document) AuditedCells() int { return len(d.audits) }

// tableSource resolves cell addresses against the built tables.
type tableSource struct {
	tables map[string]*ods.Table
}

func newTableSource(doc *Document) *tableSource {
	src := &tableSource{tables: make(map[string]*ods.Table, len(doc.Tables))}
	for i := range doc.Tables {
		src.tables[doc.Tables[i].Name] = &doc.Tables[i]
	}
	return src
}

func (s *tableSource) CellValue(a engine.Address) (decimal.Decimal, error) {
	t, ok := s.tables[a.Table]
	if !ok {
		return decimal.Zero, fmt.Errorf("audit: no table %q", a.Table)
	}
	if a.Row < engine.FirstDataRow {
		return decimal.Zero, fmt.Errorf("audit: %s points above the data rows", a)
	}
	i := a.Row - engine.FirstDataRow
	if i >= len(t.Rows) {
		return decimal.Zero, fmt.Errorf("audit: %s points past the last row", a)
	}
	col, err := columnIndex(a.Column)
	if err != nil {
		return decimal.Zero, err
	}
	row := t.Rows[i]
	if col >= len(row) {
		return decimal.Zero, fmt.Errorf("audit: %s points past the row's cells", a)
	}
	if row[col].Value == nil {
		return decimal.Zero, fmt.Errorf("audit: %s is not a numeric cell", a)
	}
	return *row[col].Value, nil
}

func columnIndex(c engine.Column) (int, error) {
	if len(c) != 1 || c[0] < 'A' || c[0] > 'Z' {
		return 0, fmt.Errorf("audit: unsupported column %q", c)
	}
	return int(c[0] - 'A'), nil
}
