/*
registry.go - Parameter registry

PURPOSE:
  The single authority for the parameter table: which knobs and category
  markers exist, in what order, and therefore on which row each parameter
  value lives. Every cross-table formula reference to a parameter goes
  through AddressOf; nothing else in the system computes parameter rows.

KEY CONCEPTS:
  - Knob: A named scenario parameter with a documented default
  - CategoryMarker: A section label occupying one row, providing no value
  - Entry: Either of the two, in declaration order
  - Declaration order is frozen at build time; addresses never move

ROW ARITHMETIC:
  Row 1 is the table title, row 2 the column headers, so the first entry
  lands on row 3 and each subsequent entry on the next row. Category markers
  consume a row like any entry.

USAGE:
  reg, err := engine.NewRegistry("parametres", []engine.Entry{
      engine.Knob{Name: "cop_pac", Default: decimal.NewFromFloat(2.0), Unit: "ratio"},
      engine.CategoryMarker{Label: "TRANSPORT"},
      ...
  })
  addr, err := reg.AddressOf("cop_pac") // parametres.B3

SEE ALSO:
  - checker.go: Resolver turns knob names into cell references
  - types.go: Address, ParamRow, ValueProvider
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENTRIES
// =============================================================================

// Entry is one declared row of the parameter table: a Knob or a
// CategoryMarker. The interface is sealed; only those two types implement it.
type Entry interface {
	entryLabel() string
}

// Knob is a named scenario parameter.
type Knob struct {
	Name        string // stable identifier, unique across the registry
	Default     decimal.Decimal
	Unit        string
	Source      string
	Description string

	// ConfigClass and FieldRef trace the knob back to the model field it
	// drives. Map-valued fields expand to one knob per key with
	// FieldRef "<field>:<key>".
	ConfigClass string
	FieldRef    string
}

func (k Knob) entryLabel() string { return k.Name }

// CategoryMarker is a section label row. It provides no value and cannot be
// referenced by formulas, but it occupies a row like any other entry.
type CategoryMarker struct {
	Label string
}

func (c CategoryMarker) entryLabel() string { return c.Label }

var (
	_ Entry = Knob{}
	_ Entry = CategoryMarker{}
)

// =============================================================================
// REGISTRY
// =============================================================================

// Registry holds the frozen, ordered parameter declarations and answers all
// row and address questions about them.
type Registry struct {
	table    string
	entries  []Entry
	rowOf    map[string]int  // knob name -> row
	knobOf   map[string]Knob // knob name -> declaration
	rowKnob  map[int]string  // row -> knob name
	knobSeq  []string        // knob names in declaration order
	catCount int
}

// NewRegistry builds a registry for the named table from ordered entries.
// A duplicate knob name fails construction: names are the stable identifiers
// behind every parameter reference.
func NewRegistry(table string, entries []Entry) (*Registry, error) {
	r := &Registry{
		table:   table,
		entries: make([]Entry, len(entries)),
		rowOf:   make(map[string]int),
		knobOf:  make(map[string]Knob),
		rowKnob: make(map[int]string),
	}
	copy(r.entries, entries)

	row := FirstDataRow
	for _, e := range r.entries {
		switch entry := e.(type) {
		case Knob:
			if _, exists := r.knobOf[entry.Name]; exists {
				return nil, &DuplicateKnobError{Name: entry.Name}
			}
			r.rowOf[entry.Name] = row
			r.knobOf[entry.Name] = entry
			r.rowKnob[row] = entry.Name
			r.knobSeq = append(r.knobSeq, entry.Name)
		case CategoryMarker:
			r.catCount++
		}
		row++
	}
	return r, nil
}

// Table returns the table name the registry lays out.
func (r *Registry) Table() string { return r.table }

// Len returns the total number of entries (knobs plus category markers).
func (r *Registry) Len() int { return len(r.entries) }

// KnobCount returns the number of knob entries.
func (r *Registry) KnobCount() int { return len(r.knobSeq) }

// CategoryCount returns the number of category marker entries.
func (r *Registry) CategoryCount() int { return r.catCount }

// LastRow returns the row of the final entry.
func (r *Registry) LastRow() int { return FirstDataRow + len(r.entries) - 1 }

// Entries returns the declarations in order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Knobs returns the knob declarations in declaration order, category markers
// skipped.
func (r *Registry) Knobs() []Knob {
	out := make([]Knob, 0, len(r.knobSeq))
	for _, name := range r.knobSeq {
		out = append(out, r.knobOf[name])
	}
	return out
}

// Find returns the declaration for a knob name.
func (r *Registry) Find(name string) (Knob, bool) {
	k, ok := r.knobOf[name]
	return k, ok
}

// RowOf returns the row a knob's value lives on.
func (r *Registry) RowOf(name string) (int, error) {
	row, ok := r.rowOf[name]
	if !ok {
		return 0, &UnknownKnobError{Name: name}
	}
	return row, nil
}

// AddressOf returns the value-cell address for a knob. The result depends
// only on declaration order, never on values, so it is stable across runs
// and across registry rebuilds from the same declarations.
func (r *Registry) AddressOf(name string) (Address, error) {
	row, err := r.RowOf(name)
	if err != nil {
		return Address{}, err
	}
	return Address{Table: r.table, Column: ValueColumn, Row: row}, nil
}

// KnobAtRow returns the knob whose value occupies the given row, if any.
// Category rows and out-of-range rows return ok=false.
func (r *Registry) KnobAtRow(row int) (Knob, bool) {
	name, ok := r.rowKnob[row]
	if !ok {
		return Knob{}, false
	}
	return r.knobOf[name], true
}

// =============================================================================
// ROW RENDERING
// =============================================================================

// RowsFromDefaults renders one ParamRow per entry in declaration order,
// using each knob's documented default.
func (r *Registry) RowsFromDefaults() []ParamRow {
	rows := make([]ParamRow, 0, len(r.entries))
	for _, e := range r.entries {
		switch entry := e.(type) {
		case Knob:
			v := entry.Default
			rows = append(rows, ParamRow{
				Name:        entry.Name,
				Value:       &v,
				Unit:        entry.Unit,
				Source:      entry.Source,
				Description: entry.Description,
			})
		case CategoryMarker:
			rows = append(rows, ParamRow{Name: entry.Label, Category: true})
		}
	}
	return rows
}

// RowsFromValues renders rows with live values from the provider. A knob the
// provider cannot supply is rendered with its documented default and reported
// in the fallback list; it is never silently rendered as zero.
func (r *Registry) RowsFromValues(p ValueProvider) ([]ParamRow, []Fallback) {
	rows := make([]ParamRow, 0, len(r.entries))
	var fallbacks []Fallback
	for _, e := range r.entries {
		switch entry := e.(type) {
		case Knob:
			v, ok := p.KnobValue(entry.Name)
			if !ok {
				v = entry.Default
				fallbacks = append(fallbacks, Fallback{Knob: entry.Name, Default: entry.Default})
			}
			val := v
			rows = append(rows, ParamRow{
				Name:        entry.Name,
				Value:       &val,
				Unit:        entry.Unit,
				Source:      entry.Source,
				Description: entry.Description,
			})
		case CategoryMarker:
			rows = append(rows, ParamRow{Name: entry.Label, Category: true})
		}
	}
	return rows, fallbacks
}
