/*
sources.go - Source-data tables

PURPOSE:
  Renders the four tables of stored reference and computed data: observed
  nuclear and hydro output, solar capacity factors, the heating demand
  chain and the per-sector demand. These are value-only tables; the
  synthesis reads them by row, so their 60-row grid order was already
  verified against the canonical grid when the snapshot was loaded.

SEE ALSO:
  - synthesis.go: The cross-table formulas reading these rows
  - store/store.go: The row types
*/
package document

import (
	"github.com/terrawatt/balance-engine/ods"
)

func buildProduction(snap *snapshot) (*ods.Table, []auditedCell, error) {
	t := ods.NewTable(TableProduction, "Production nucléaire et hydraulique (RTE eco2mix)",
		"Mois", "Plage", "Nucléaire (MW)", "Hydraulique (MW)")
	for _, row := range snap.production {
		t.AddRow(
			ods.Text(row.Mois),
			ods.Text(row.Plage),
			ods.Number(row.NucleaireMW),
			ods.Number(row.HydrauliqueMW),
		)
	}
	return t, nil, nil
}

func buildSolaire(snap *snapshot) (*ods.Table, []auditedCell, error) {
	t := ods.NewTable(TableSolaire, "Facteurs solaires PVGIS (moyenne pondérée France)",
		"Mois", "Plage", "Facteur de capacité")
	for _, row := range snap.solar {
		t.AddRow(
			ods.Text(row.Mois),
			ods.Text(row.Plage),
			ods.Number(row.CapacityFactor),
		)
	}
	return t, nil, nil
}

func buildChauffage(snap *snapshot) (*ods.Table, []auditedCell, error) {
	t := ods.NewTable(TableChauffage, "Consommation chauffage (modèle Roland, COP variable)",
		"Mois", "Plage", "T_ext (°C)", "COP", "Besoin électrique (kW)")
	for _, row := range snap.heating {
		t.AddRow(
			ods.Text(row.Mois),
			ods.Text(row.Plage),
			ods.Number(row.TExtC),
			ods.Number(row.COP),
			ods.Number(row.BesoinKW),
		)
	}
	return t, nil, nil
}

func buildSecteurs(snap *snapshot) (*ods.Table, []auditedCell, error) {
	t := ods.NewTable(TableSecteurs, "Consommation par secteur",
		"Mois", "Plage", "Transport (kW)", "Industrie (kW)", "Tertiaire (kW)", "Agriculture (kW)")
	for _, row := range snap.sectors {
		t.AddRow(
			ods.Text(row.Mois),
			ods.Text(row.Plage),
			ods.Number(row.TransportKW),
			ods.Number(row.IndustrieKW),
			ods.Number(row.TertiaireKW),
			ods.Number(row.AgricultureKW),
		)
	}
	return t, nil, nil
}
