/*
writer.go - ODS container assembly

PURPOSE:
  Serializes tables into the OpenDocument zip layout: a stored mimetype
  entry first, then manifest, content, styles and meta XML parts. The
  mimetype entry must come first and stay uncompressed so readers can
  sniff the document type from the raw bytes.

DETERMINISM:
  The same tables always produce byte-identical output. Zip timestamps
  are pinned, XML attribute order follows fixed struct layouts, and the
  style set is emitted in declaration order.

FORMULAS:
  Formula cells carry table:formula (of:= syntax) next to office:value,
  so spreadsheet applications show the pre-computed number immediately
  and recalculate it live on edit.

SEE ALSO:
  - ods/ods.go: The Table and Cell model
*/
package ods

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	mimetype = "application/vnd.oasis.opendocument.spreadsheet"

	nsOffice   = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsTable    = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsText     = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	nsStyle    = "urn:oasis:names:tc:opendocument:xmlns:style:1.0"
	nsFo       = "urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"
	nsOf       = "urn:oasis:names:tc:opendocument:xmlns:of:1.2"
	nsManifest = "urn:oasis:names:tc:opendocument:xmlns:manifest:1.0"
	nsMeta     = "urn:oasis:names:tc:opendocument:xmlns:meta:1.0"
)

// zipEpoch keeps archive bytes identical across runs.
var zipEpoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// =============================================================================
// CONTENT.XML MODEL
// =============================================================================

type xmlContent struct {
	XMLName  xml.Name      `xml:"office:document-content"`
	NSOffice string        `xml:"xmlns:office,attr"`
	NSTable  string        `xml:"xmlns:table,attr"`
	NSText   string        `xml:"xmlns:text,attr"`
	NSStyle  string        `xml:"xmlns:style,attr"`
	NSFo     string        `xml:"xmlns:fo,attr"`
	NSOf     string        `xml:"xmlns:of,attr"`
	Version  string        `xml:"office:version,attr"`
	Styles   xmlAutoStyles `xml:"office:automatic-styles"`
	Body     xmlBody       `xml:"office:body"`
}

type xmlAutoStyles struct {
	Styles []xmlStyle `xml:"style:style"`
}

type xmlStyle struct {
	Name   string        `xml:"style:name,attr"`
	Family string        `xml:"style:family,attr"`
	Text   *xmlTextProps `xml:"style:text-properties"`
	Cell   *xmlCellProps `xml:"style:table-cell-properties"`
	Para   *xmlParaProps `xml:"style:paragraph-properties"`
}

type xmlTextProps struct {
	FontWeight string `xml:"fo:font-weight,attr,omitempty"`
	FontSize   string `xml:"fo:font-size,attr,omitempty"`
	Color      string `xml:"fo:color,attr,omitempty"`
}

type xmlCellProps struct {
	Background string `xml:"fo:background-color,attr,omitempty"`
	Padding    string `xml:"fo:padding,attr,omitempty"`
}

type xmlParaProps struct {
	TextAlign string `xml:"fo:text-align,attr,omitempty"`
}

type xmlBody struct {
	Spreadsheet xmlSpreadsheet `xml:"office:spreadsheet"`
}

type xmlSpreadsheet struct {
	Tables []xmlTable `xml:"table:table"`
}

type xmlTable struct {
	Name   string    `xml:"table:name,attr"`
	Column xmlColumn `xml:"table:table-column"`
	Rows   []xmlRow  `xml:"table:table-row"`
}

type xmlColumn struct {
	Repeat string `xml:"table:number-columns-repeated,attr,omitempty"`
}

type xmlRow struct {
	Cells []xmlCell `xml:"table:table-cell"`
}

type xmlCell struct {
	Style     string `xml:"table:style-name,attr,omitempty"`
	Formula   string `xml:"table:formula,attr,omitempty"`
	ValueType string `xml:"office:value-type,attr,omitempty"`
	Value     string `xml:"office:value,attr,omitempty"`
	Span      string `xml:"table:number-columns-spanned,attr,omitempty"`
	P         *xmlP  `xml:"text:p"`
}

type xmlP struct {
	Text string `xml:",chardata"`
}

// =============================================================================
// CONTENT ASSEMBLY
// =============================================================================

func buildStyles() []xmlStyle {
	out := make([]xmlStyle, 0, len(workbookStyles))
	for _, s := range workbookStyles {
		style := xmlStyle{Name: s.name, Family: "table-cell"}
		if s.fontWeight != "" || s.fontSize != "" || s.fontColor != "" {
			style.Text = &xmlTextProps{FontWeight: s.fontWeight, FontSize: s.fontSize, Color: s.fontColor}
		}
		if s.background != "" || s.padding != "" {
			style.Cell = &xmlCellProps{Background: s.background, Padding: s.padding}
		}
		if s.textAlign != "" {
			style.Para = &xmlParaProps{TextAlign: s.textAlign}
		}
		out = append(out, style)
	}
	return out
}

func buildCell(c Cell) xmlCell {
	out := xmlCell{Style: styleFor(c), Formula: c.Formula}
	if c.Span > 1 {
		out.Span = strconv.Itoa(c.Span)
	}
	switch {
	case c.Value != nil:
		out.ValueType = "float"
		out.Value = c.Value.String()
		out.P = &xmlP{Text: displayText(*c.Value)}
	case c.Text != "":
		out.ValueType = "string"
		out.P = &xmlP{Text: c.Text}
	}
	return out
}

// displayText rounds for display; the full precision lives in the
// office:value attribute.
func displayText(v decimal.Decimal) string {
	if v.IsInteger() {
		return v.String()
	}
	return v.StringFixed(2)
}

func buildTable(t Table) xmlTable {
	out := xmlTable{Name: t.Name}
	if w := t.Width(); w > 1 {
		out.Column.Repeat = strconv.Itoa(w)
	}

	if t.Title != "" {
		title := Cell{Text: t.Title, Style: StyleTitle, Span: len(t.Headers)}
		out.Rows = append(out.Rows, xmlRow{Cells: []xmlCell{buildCell(title)}})
	}
	if len(t.Headers) > 0 {
		var row xmlRow
		for _, h := range t.Headers {
			row.Cells = append(row.Cells, buildCell(TextStyled(h, StyleHeader)))
		}
		out.Rows = append(out.Rows, row)
	}
	for _, r := range t.Rows {
		var row xmlRow
		for _, c := range r {
			row.Cells = append(row.Cells, buildCell(c))
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func contentXML(tables []Table) ([]byte, error) {
	doc := xmlContent{
		NSOffice: nsOffice,
		NSTable:  nsTable,
		NSText:   nsText,
		NSStyle:  nsStyle,
		NSFo:     nsFo,
		NSOf:     nsOf,
		Version:  "1.2",
	}
	doc.Styles.Styles = buildStyles()
	for _, t := range tables {
		doc.Body.Spreadsheet.Tables = append(doc.Body.Spreadsheet.Tables, buildTable(t))
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode content.xml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// =============================================================================
// FIXED PARTS
// =============================================================================

func manifestXML() []byte {
	s := xml.Header + fmt.Sprintf(`<manifest:manifest xmlns:manifest="%s" manifest:version="1.2">
  <manifest:file-entry manifest:full-path="/" manifest:media-type="%s"/>
  <manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
  <manifest:file-entry manifest:full-path="styles.xml" manifest:media-type="text/xml"/>
  <manifest:file-entry manifest:full-path="meta.xml" manifest:media-type="text/xml"/>
</manifest:manifest>
`, nsManifest, mimetype)
	return []byte(s)
}

func stylesXML() []byte {
	return []byte(xml.Header + fmt.Sprintf(`<office:document-styles xmlns:office="%s" office:version="1.2">
  <office:styles/>
</office:document-styles>
`, nsOffice))
}

func metaXML() []byte {
	return []byte(xml.Header + fmt.Sprintf(`<office:document-meta xmlns:office="%s" xmlns:meta="%s" office:version="1.2">
  <office:meta>
    <meta:generator>terrawatt balance-engine</meta:generator>
  </office:meta>
</office:document-meta>
`, nsOffice, nsMeta))
}

// =============================================================================
// CONTAINER
// =============================================================================

// Write serializes the tables into a complete ODS container.
func Write(w io.Writer, tables []Table) error {
	content, err := contentXML(tables)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	mt, err := zw.CreateHeader(&zip.FileHeader{
		Name:     "mimetype",
		Method:   zip.Store,
		Modified: zipEpoch,
	})
	if err != nil {
		return fmt.Errorf("failed to create mimetype entry: %w", err)
	}
	if _, err := mt.Write([]byte(mimetype)); err != nil {
		return fmt.Errorf("failed to write mimetype: %w", err)
	}

	entries := []struct {
		name string
		data []byte
	}{
		{"META-INF/manifest.xml", manifestXML()},
		{"content.xml", content},
		{"styles.xml", stylesXML()},
		{"meta.xml", metaXML()},
	}
	for _, e := range entries {
		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   zip.Deflate,
			Modified: zipEpoch,
		})
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", e.name, err)
		}
		if _, err := f.Write(e.data); err != nil {
			return fmt.Errorf("failed to write %s: %w", e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish ods container: %w", err)
	}
	return nil
}

// WriteFile writes the document to path, creating parent directories.
func WriteFile(path string, tables []Table) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(f, tables); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
