/*
grid.go - Shared row layout for per-slot tables

PURPOSE:
  The single authority for the month/slot row layout shared by every
  per-slot table. Cross-table formulas rely on "same row, same period":
  the synthesis table's row 17 reads the heating table's row 17 and the
  solar table's row 17, so all three MUST lay their keys out identically.
  Tables never compute their own row numbers; they iterate the grid.

KEY CONCEPTS:
  - GridKey: One (month, slot) period
  - Grid: The frozen ordered key list, with row lookup
  - VerifyOrder: Asserts externally-assembled rows match the grid

USAGE:
  grid, err := engine.NewGrid("bilan", keys)
  row, err := grid.RowOf(engine.GridKey{Mois: "Janvier", Plage: "8h-13h"})

  // When rows were assembled from a store, prove they line up:
  if err := grid.VerifyOrder("consommation_chauffage", gotKeys); err != nil {
      return err // GridMisalignmentError, fatal
  }

SEE ALSO:
  - registry.go: The equivalent authority for the parameter table
  - errors.go: GridMisalignmentError
*/
package engine

// GridKey identifies one period row: a month and a time slot.
type GridKey struct {
	Mois  string
	Plage string
}

func (k GridKey) String() string { return k.Mois + " " + k.Plage }

// Grid is a frozen, ordered list of period keys. Data rows start at
// FirstDataRow; key i lands on row FirstDataRow+i.
type Grid struct {
	name  string
	keys  []GridKey
	index map[GridKey]int
}

// NewGrid builds a grid from ordered keys. Duplicate keys fail construction.
func NewGrid(name string, keys []GridKey) (*Grid, error) {
	g := &Grid{
		name:  name,
		keys:  make([]GridKey, len(keys)),
		index: make(map[GridKey]int, len(keys)),
	}
	copy(g.keys, keys)
	for i, k := range g.keys {
		if prev, exists := g.index[k]; exists {
			return nil, &GridMisalignmentError{
				Grid:    name,
				Table:   name,
				Key:     k,
				WantRow: FirstDataRow + prev,
				GotRow:  FirstDataRow + i,
			}
		}
		g.index[k] = i
	}
	return g, nil
}

// Name returns the grid's name, used in misalignment reports.
func (g *Grid) Name() string { return g.name }

// Len returns the number of period rows.
func (g *Grid) Len() int { return len(g.keys) }

// Keys returns the period keys in row order.
func (g *Grid) Keys() []GridKey {
	out := make([]GridKey, len(g.keys))
	copy(out, g.keys)
	return out
}

// FirstRow returns the row of the first period.
func (g *Grid) FirstRow() int { return FirstDataRow }

// LastRow returns the row of the final period.
func (g *Grid) LastRow() int { return FirstDataRow + len(g.keys) - 1 }

// RowOf returns the data row assigned to a key. The answer depends only on
// the declared key order.
func (g *Grid) RowOf(key GridKey) (int, error) {
	i, ok := g.index[key]
	if !ok {
		return 0, &GridMisalignmentError{
			Grid:    g.name,
			Table:   g.name,
			Key:     key,
			WantRow: -1,
			GotRow:  -1,
		}
	}
	return FirstDataRow + i, nil
}

// VerifyOrder asserts that a table's assembled rows carry exactly the grid's
// keys in the grid's order. The first disagreement is reported with the
// table, the key, and both rows. Misaligned tables would make same-row
// cross-table references read the wrong period, so callers must treat any
// error here as fatal.
func (g *Grid) VerifyOrder(table string, got []GridKey) error {
	for i, want := range g.keys {
		if i >= len(got) {
			return &GridMisalignmentError{
				Grid:    g.name,
				Table:   table,
				Key:     want,
				WantRow: FirstDataRow + i,
				GotRow:  -1,
			}
		}
		if got[i] != want {
			gotRow := -1
			for j, k := range got {
				if k == want {
					gotRow = FirstDataRow + j
					break
				}
			}
			return &GridMisalignmentError{
				Grid:    g.name,
				Table:   table,
				Key:     want,
				WantRow: FirstDataRow + i,
				GotRow:  gotRow,
			}
		}
	}
	if len(got) > len(g.keys) {
		return &GridMisalignmentError{
			Grid:    g.name,
			Table:   table,
			Key:     got[len(g.keys)],
			WantRow: -1,
			GotRow:  FirstDataRow + len(g.keys),
		}
	}
	return nil
}
