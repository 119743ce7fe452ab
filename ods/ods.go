/*
Package ods writes OpenDocument Spreadsheet files.

PURPOSE:
  Provides the sheet vocabulary (Table, Cell, styles) and a writer that
  packs everything into a valid .ods zip container. Every derived cell
  carries BOTH a pre-computed value and an ODF formula, so the numbers
  display immediately and stay live when a reader edits an input.

LAYOUT CONTRACT:
  Row 1 is a title cell spanning the columns, row 2 the column headers,
  rows 3 and up the data. The writer never reorders, renames or drops
  rows: whatever order the builders produce is the order on disk.

CELL KINDS:
  Text    - string cell
  Number  - float cell; the office:value attribute keeps full precision
            while the display text rounds to 2 decimals
  Formula - float cell with a table:formula attribute on top

USAGE:
  t := ods.NewTable("parametres", "Paramètres du modèle",
      "Paramètre", "Valeur", "Unité", "Source", "Description")
  t.AddRow(ods.Text("cop_pac"), ods.Number(three), ods.Text("ratio"),
      ods.Text("ADEME"), ods.Text("COP pompe à chaleur"))
  err := ods.WriteFile("out/modele.ods", []ods.Table{*t})

SEE ALSO:
  - ods/writer.go: Zip container and XML serialization
  - ods/styles.go: The cell styles of the workbook
*/
package ods

import "github.com/shopspring/decimal"

// Cell is one table cell. A nil Value makes a string cell, a non-nil
// Value a float cell; Formula and Style ride along.
type Cell struct {
	Text    string
	Value   *decimal.Decimal
	Formula string
	Style   string
	Span    int
}

// Text returns a string cell.
func Text(s string) Cell {
	return Cell{Text: s}
}

// TextStyled returns a string cell with an explicit style.
func TextStyled(s, style string) Cell {
	return Cell{Text: s, Style: style}
}

// Number returns a float cell.
func Number(v decimal.Decimal) Cell {
	return Cell{Value: &v}
}

// NumberStyled returns a float cell with an explicit style.
func NumberStyled(v decimal.Decimal, style string) Cell {
	return Cell{Value: &v, Style: style}
}

// Formula returns a float cell carrying a live ODF formula next to its
// pre-computed value. The formula must include the of:= prefix.
func Formula(v decimal.Decimal, formula string) Cell {
	return Cell{Value: &v, Formula: formula}
}

// FormulaStyled returns a formula cell with an explicit style.
func FormulaStyled(v decimal.Decimal, formula, style string) Cell {
	return Cell{Value: &v, Formula: formula, Style: style}
}

// Empty returns a blank cell.
func Empty() Cell {
	return Cell{}
}

// Table is one sheet: name, spanning title, column headers, data rows.
type Table struct {
	Name    string
	Title   string
	Headers []string
	Rows    [][]Cell
}

// NewTable creates a sheet with its title and headers.
func NewTable(name, title string, headers ...string) *Table {
	return &Table{Name: name, Title: title, Headers: headers}
}

// AddRow appends one data row. A call without cells makes a blank
// spacer row.
func (t *Table) AddRow(cells ...Cell) {
	t.Rows = append(t.Rows, cells)
}

// Width returns the column count: the header width or the widest row,
// whichever is larger.
func (t *Table) Width() int {
	w := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}
