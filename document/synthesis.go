/*
synthesis.go - The synthesis table

PURPOSE:
  The deliverable's centerpiece: one row per month and slot, production on
  the left, consumption on the right, the gas backup closing the gap.
  Every derived cell references the parameter table and the source tables
  by row, so the whole balance recomputes live inside a spreadsheet
  application when a knob changes.

COLUMNS:
  A Période, B-D the three PV segments, E hydro, F wind (held at zero),
  G nuclear, H total production; I-M the five sector demands, N total
  consumption; O the deficit MAX(0; N-H), P the slot duration, Q the slot's
  gas energy O x P x jours / 1e9.

BELOW THE GRID:
  A blank spacer, a TOTAUX MENSUELS marker, twelve monthly SUM rows over
  each month's five Q cells, and the TOTAL ANNUEL row summing the twelve.

SEE ALSO:
  - pipeline.go: ComputeSynthesis writes the values rendered here
  - sources.go: The tables the row references point into
*/
package document

import (
	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/engine"
	"github.com/terrawatt/balance-engine/ods"
	"github.com/terrawatt/balance-engine/scenario"
)

var syntheseHeaders = []string{
	"Période",
	"PV maisons (kW)",
	"PV collectif (kW)",
	"PV centrales (kW)",
	"Hydraulique (kW)",
	"Éolien (kW)",
	"Nucléaire (kW)",
	"Total prod (kW)",
	"Chauffage (kW)",
	"Transport (kW)",
	"Industrie (kW)",
	"Tertiaire (kW)",
	"Agriculture (kW)",
	"Total conso (kW)",
	"Déficit gaz (kW)",
	"Durée (h)",
	"Énergie gaz (TWh)",
}

func xref(table string, col engine.Column, row int) engine.Expr {
	return engine.Cell(engine.Address{Table: table, Column: col, Row: row})
}

func buildSynthese(snap *snapshot) (*ods.Table, []auditedCell, error) {
	res := engine.NewResolver(snap.registry, TableSynthese)
	t := ods.NewTable(TableSynthese, "Moulinette simplifiée avec PAC — formules traçables",
		syntheseHeaders...)
	s := newSheet(t)

	for i, vals := range snap.synthesis {
		row := engine.FirstDataRow + i

		t.AddRow(
			ods.Text(vals.Mois+" "+vals.Plage),
			// B: rooftop PV, kWc per house x houses x 1000 x capacity factor
			s.formula("B", row, vals.PvMaisonsKW, engine.MulN(
				res.Knob("kwc_par_maison"),
				res.Knob("nombre_maisons"),
				engine.Int(1000),
				xref(TableSolaire, "C", row),
			)),
			// C: collective PV
			s.formula("C", row, vals.PvCollectifKW, engine.MulN(
				res.Knob("kwc_par_collectif"),
				res.Knob("nombre_collectifs"),
				engine.Int(1000),
				xref(TableSolaire, "C", row),
			)),
			// D: ground plants, GWc x 1e6 x capacity factor
			s.formula("D", row, vals.PvCentralesKW, engine.MulN(
				res.Knob("solar_gwc_centrales"),
				engine.Int(1_000_000),
				xref(TableSolaire, "C", row),
			)),
			// E: hydro MW -> kW
			s.formula("E", row, vals.HydrauliqueKW,
				engine.Mul(xref(TableProduction, "D", row), engine.Int(1000))),
			// F: wind, held at zero
			s.formula("F", row, vals.EolienKW, engine.Int(0)),
			// G: nuclear MW -> kW
			s.formula("G", row, vals.NucleaireKW,
				engine.Mul(xref(TableProduction, "C", row), engine.Int(1000))),
			// H: total production
			s.formula("H", row, vals.TotalProductionKW, engine.AddN(
				engine.Local("B", row), engine.Local("C", row), engine.Local("D", row),
				engine.Local("E", row), engine.Local("F", row), engine.Local("G", row),
			)),
			// I-M: the five sector demands
			s.formula("I", row, vals.ChauffageKW, xref(TableChauffage, "E", row)),
			s.formula("J", row, vals.TransportKW, xref(TableSecteurs, "C", row)),
			s.formula("K", row, vals.IndustrieKW, xref(TableSecteurs, "D", row)),
			s.formula("L", row, vals.TertiaireKW, xref(TableSecteurs, "E", row)),
			s.formula("M", row, vals.AgricultureKW, xref(TableSecteurs, "F", row)),
			// N: total consumption
			s.formula("N", row, vals.TotalConsoKW, engine.AddN(
				engine.Local("I", row), engine.Local("J", row), engine.Local("K", row),
				engine.Local("L", row), engine.Local("M", row),
			)),
			// O: deficit covered by gas
			s.formula("O", row, vals.DeficitGazKW,
				engine.Max0(engine.Sub(engine.Local("N", row), engine.Local("H", row)))),
			// P: slot duration, a plain number
			ods.Number(vals.DureeH),
			// Q: slot gas energy in TWh
			s.formula("Q", row, vals.EnergieGazTwh, engine.Div(
				engine.MulN(
					engine.Local("O", row),
					engine.Local("P", row),
					res.Knob("jours_par_mois"),
				),
				engine.Int(1_000_000_000),
			)),
		)
	}

	// Totals block: spacer, marker, one row per month, annual grand total.
	blank := make([]ods.Cell, len(syntheseHeaders))
	for i := range blank {
		blank[i] = ods.Empty()
	}
	t.AddRow(blank...)

	marker := make([]ods.Cell, 0, len(syntheseHeaders))
	marker = append(marker, ods.TextStyled("TOTAUX MENSUELS", ods.StyleTotal))
	for i := 1; i < len(syntheseHeaders); i++ {
		marker = append(marker, ods.Empty())
	}
	t.AddRow(marker...)

	nSlots := len(scenario.Slots)
	monthlyStart := engine.FirstDataRow + len(snap.synthesis) + 2
	for m, mois := range scenario.Months {
		first := engine.FirstDataRow + m*nSlots
		last := first + nSlots - 1

		monthlyGas := decimal.Zero
		for j := 0; j < nSlots; j++ {
			monthlyGas = monthlyGas.Add(snap.synthesis[m*nSlots+j].EnergieGazTwh)
		}

		cells := make([]ods.Cell, 0, len(syntheseHeaders))
		cells = append(cells, ods.TextStyled(mois, ods.StyleTotal))
		for i := 1; i < len(syntheseHeaders)-1; i++ {
			cells = append(cells, ods.Empty())
		}
		cells = append(cells, s.formulaStyled("Q", monthlyStart+m, monthlyGas,
			engine.Sum(engine.LocalRange("Q", first, last)), ods.StyleTotal))
		t.AddRow(cells...)
	}

	totalGas := decimal.Zero
	for _, vals := range snap.synthesis {
		totalGas = totalGas.Add(vals.EnergieGazTwh)
	}
	annual := make([]ods.Cell, 0, len(syntheseHeaders))
	annual = append(annual, ods.TextStyled("TOTAL ANNUEL", ods.StyleTotal))
	for i := 1; i < len(syntheseHeaders)-1; i++ {
		annual = append(annual, ods.Empty())
	}
	annual = append(annual, s.formulaStyled("Q", monthlyStart+len(scenario.Months), totalGas,
		engine.Sum(engine.LocalRange("Q", monthlyStart, monthlyStart+len(scenario.Months)-1)),
		ods.StyleTotal))
	t.AddRow(annual...)

	if err := res.Err(); err != nil {
		return nil, nil, err
	}
	return t, s.audits, nil
}
