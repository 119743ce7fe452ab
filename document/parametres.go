/*
parametres.go - The parameter table

PURPOSE:
  Renders the registry's 155 declaration rows with the scenario's live
  values. This is the table every cross-table formula points into, so the
  row order here IS the registry's declaration order; the builder never
  reorders, filters or inserts.

SEE ALSO:
  - scenario/declarations.go: The declarations being rendered
  - engine/registry.go: RowsFromValues and the fallback contract
*/
package document

import (
	"github.com/terrawatt/balance-engine/ods"
)

func buildParametres(snap *snapshot) (*ods.Table, []auditedCell, error) {
	t := ods.NewTable(TableParametres, "Paramètres du modèle",
		"Paramètre", "Valeur", "Unité", "Source", "Description")
	for _, row := range snap.paramRows {
		if row.Category {
			t.AddRow(
				ods.TextStyled(row.Name, ods.StyleCategory),
				ods.Empty(), ods.Empty(), ods.Empty(), ods.Empty(),
			)
			continue
		}
		t.AddRow(
			ods.Text(row.Name),
			ods.Number(*row.Value),
			ods.Text(row.Unit),
			ods.Text(row.Source),
			ods.Text(row.Description),
		)
	}
	return t, nil, nil
}
