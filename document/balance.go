/*
balance.go - The electrification balance table

PURPOSE:
  Renders the stored sector-by-sector electrification balance: today's
  final energy, the electrified target split into direct electricity,
  hydrogen, biofuels and residual fossil, and the electricity the hydrogen
  and e-fuel synthesis consumes upstream. A value-only table: these are
  annual accounting lines, not per-slot chains.

SEE ALSO:
  - sectors/balance.go: The computation behind the stored rows
  - pipeline.go: ComputeConsumption persists them
*/
package document

import (
	"github.com/terrawatt/balance-engine/ods"
	"github.com/terrawatt/balance-engine/sectors"
)

func buildBilan(snap *snapshot) (*ods.Table, []auditedCell, error) {
	t := ods.NewTable(TableBilan, "Bilan électrification — scénario recalibré",
		"Secteur", "Actuel (TWh)", "Élec direct (TWh)", "H2 (TWh)", "Bio/EnR (TWh)",
		"Fossile résiduel (TWh)", "Total cible (TWh)", "H2 prod élec (TWh)")
	for _, row := range snap.balance {
		if row.Secteur == sectors.SecteurTotal {
			t.AddRow(
				ods.TextStyled(row.Secteur, ods.StyleTotal),
				ods.NumberStyled(row.ActuelTwh, ods.StyleTotal),
				ods.NumberStyled(row.ElecTwh, ods.StyleTotal),
				ods.NumberStyled(row.H2Twh, ods.StyleTotal),
				ods.NumberStyled(row.BioEnrTwh, ods.StyleTotal),
				ods.NumberStyled(row.FossileTwh, ods.StyleTotal),
				ods.NumberStyled(row.TotalCibleTwh, ods.StyleTotal),
				ods.NumberStyled(row.H2ProdElecTwh, ods.StyleTotal),
			)
			continue
		}
		t.AddRow(
			ods.Text(row.Secteur),
			ods.Number(row.ActuelTwh),
			ods.Number(row.ElecTwh),
			ods.Number(row.H2Twh),
			ods.Number(row.BioEnrTwh),
			ods.Number(row.FossileTwh),
			ods.Number(row.TotalCibleTwh),
			ods.Number(row.H2ProdElecTwh),
		)
	}
	return t, nil, nil
}
