/*
styles.go - Workbook cell styles

PURPOSE:
  Declares the fixed style set of the workbook. Formula cells get a
  light blue background so a reader can tell computed cells from source
  data at a glance; category rows in the parameter sheet get the green
  group styling.

SEE ALSO:
  - ods/writer.go: Serializes these into office:automatic-styles
*/
package ods

// Style names accepted by Cell.Style. Unset styles default by content
// kind: formula cells to StyleFormula, float cells to StyleNumber,
// string cells to StyleText.
const (
	StyleHeader   = "header"
	StyleNumber   = "number"
	StyleFormula  = "formula"
	StyleText     = "text"
	StyleEnergy   = "energy"
	StyleTitle    = "title"
	StyleTotal    = "total"
	StyleCategory = "category"
)

// cellStyle mirrors one automatic style entry.
type cellStyle struct {
	name       string
	fontWeight string
	fontSize   string
	fontColor  string
	background string
	padding    string
	textAlign  string
}

// workbookStyles lists every style in emission order.
var workbookStyles = []cellStyle{
	{name: StyleHeader, fontWeight: "bold", fontColor: "#FFFFFF", background: "#4472C4", padding: "0.05in", textAlign: "center"},
	{name: StyleNumber, textAlign: "end"},
	{name: StyleFormula, background: "#DAEEF3", textAlign: "end"},
	{name: StyleText, textAlign: "start"},
	{name: StyleEnergy, textAlign: "end"},
	{name: StyleTitle, fontWeight: "bold", fontSize: "14pt", fontColor: "#FFFFFF", background: "#002060", padding: "0.08in", textAlign: "center"},
	{name: StyleTotal, fontWeight: "bold", background: "#D9E2F3", textAlign: "end"},
	{name: StyleCategory, fontWeight: "bold", fontColor: "#1F4E3D", background: "#E2EFDA", padding: "0.05in", textAlign: "start"},
}

// styleFor resolves the effective style of a cell.
func styleFor(c Cell) string {
	if c.Style != "" {
		return c.Style
	}
	if c.Formula != "" {
		return StyleFormula
	}
	if c.Value != nil {
		return StyleNumber
	}
	return StyleText
}
