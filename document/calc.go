/*
calc.go - Per-sector calculation tables

PURPOSE:
  Builds the five auditable calculation tables. Each cell the synthesis
  reads carries both the native pre-computed value and the full expression
  over parameter references, so a reader can change any knob in the
  parameter table and watch the sector demand follow.

ROW CONTRACT:
  The synthesis addresses these tables by fixed rows: calc_industrie.B3,
  calc_tertiaire.B3, calc_transport.B3..B7 (one per slot, intermediates
  below), calc_agriculture.B3..B14 (one per month), calc_chauffage rows
  3-62 (the grid). Rows never move.

SEE ALSO:
  - sectors/, transport/, heating/: The expression builders reused here
  - audit.go: Re-evaluates every cell emitted through sheet.formula
*/
package document

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/engine"
	"github.com/terrawatt/balance-engine/heating"
	"github.com/terrawatt/balance-engine/ods"
	"github.com/terrawatt/balance-engine/scenario"
	"github.com/terrawatt/balance-engine/sectors"
	"github.com/terrawatt/balance-engine/transport"
)

var (
	milliard    = decimal.NewFromInt(1_000_000_000)
	heuresAnnee = decimal.NewFromInt(8760)
)

// sheet pairs a table under construction with the audit trail of its
// formula cells. Builders emit every formula cell through formula, so no
// cell escapes the audit.
type sheet struct {
	table  *ods.Table
	audits []auditedCell
}

func newSheet(t *ods.Table) *sheet { return &sheet{table: t} }

func (s *sheet) formula(col engine.Column, row int, v decimal.Decimal, e engine.Expr) ods.Cell {
	s.audits = append(s.audits, auditedCell{
		at:    engine.Address{Table: s.table.Name, Column: col, Row: row},
		expr:  e,
		value: v,
	})
	return ods.Formula(v, engine.ODF.Formula(e, s.table.Name))
}

func (s *sheet) formulaStyled(col engine.Column, row int, v decimal.Decimal, e engine.Expr, style string) ods.Cell {
	c := s.formula(col, row, v, e)
	c.Style = style
	return c
}

// =============================================================================
// INDUSTRIE AND TERTIAIRE (flat bands)
// =============================================================================

func buildCalcIndustrie(snap *snapshot) (*ods.Table, []auditedCell, error) {
	res := engine.NewResolver(snap.registry, TableCalcIndustrie)
	t := ods.NewTable(TableCalcIndustrie, "Calcul industrie — demande électrique constante",
		"Résultat", "Valeur (kW)")
	s := newSheet(t)

	cfg := snap.bundle.Industrie
	t.AddRow(
		ods.Text("Industrie flat_kw"),
		s.formula("B", engine.FirstDataRow, sectors.IndustrieFlatKW(cfg), sectors.IndustrieFlatFormula(res)),
	)
	t.AddRow(
		ods.Text("Formule: (HT*elec*eff + MT*elec/COP + BT*elec/COP "+
			"+ force_motrice + electrochimie + autres) * (1-gain) * 1e9/8760"),
		ods.Empty(),
	)

	if err := res.Err(); err != nil {
		return nil, nil, err
	}
	return t, s.audits, nil
}

func buildCalcTertiaire(snap *snapshot) (*ods.Table, []auditedCell, error) {
	res := engine.NewResolver(snap.registry, TableCalcTertiaire)
	t := ods.NewTable(TableCalcTertiaire, "Calcul tertiaire — demande électrique constante",
		"Résultat", "Valeur (kW)")
	s := newSheet(t)

	cfg := snap.bundle.Tertiaire
	t.AddRow(
		ods.Text("Tertiaire flat_kw"),
		s.formula("B", engine.FirstDataRow, sectors.TertiaireFlatKW(cfg), sectors.TertiaireFlatFormula(res)),
	)
	t.AddRow(
		ods.Text("Formule: (chauffage*(1-renov)*(fossile/COP + 1-fossile) "+
			"+ clim*(1-gain) + eclairage*(1-LED) + elec_spec + eau_chaude + autres) * 1e9/8760"),
		ods.Empty(),
	)

	if err := res.Err(); err != nil {
		return nil, nil, err
	}
	return t, s.audits, nil
}

// =============================================================================
// TRANSPORT (per slot, intermediates below)
// =============================================================================

func buildCalcTransport(snap *snapshot) (*ods.Table, []auditedCell, error) {
	res := engine.NewResolver(snap.registry, TableCalcTransport)
	t := ods.NewTable(TableCalcTransport, "Calcul transport — demande électrique par plage",
		"Calcul", "Valeur (TWh ou kW)")
	s := newSheet(t)

	cfg := snap.bundle.Transport
	elec := transport.ConsommationElectrifiee(cfg)

	// Rows 3-7: the per-slot draw the synthesis references.
	for i, slot := range scenario.Slots {
		row := engine.FirstDataRow + i
		kw, err := transport.PuissanceSlotKW(cfg, slot.Name)
		if err != nil {
			return nil, nil, err
		}
		expr, err := transport.SlotFormula(res, slot.Name)
		if err != nil {
			return nil, nil, err
		}
		t.AddRow(
			ods.Text(fmt.Sprintf("Transport %s (kW)", slot.Name)),
			s.formula("B", row, kw, expr),
		)
	}

	// Rows 8-11: intermediates, kept for the reader auditing the slot rows.
	directRow := engine.FirstDataRow + len(scenario.Slots)
	railRow := directRow + 1
	safRow := railRow + 1
	flatRow := safRow + 1

	t.AddRow(
		ods.Text("direct_elec_twh (route+maritime+fluvial)"),
		s.formula("B", directRow, elec.DirectElec(), transport.DirectElecFormula(res)),
	)
	t.AddRow(
		ods.Text("rail_elec_twh"),
		s.formula("B", railRow, elec.RailElec, transport.RailElecFormula(res)),
	)
	t.AddRow(
		ods.Text("saf_elec_twh (aviation SAF)"),
		s.formula("B", safRow, elec.AviationSaf, transport.SafElecFormula(res)),
	)
	railSafKW := elec.RailElec.Add(elec.AviationSaf).Mul(milliard).Div(heuresAnnee)
	t.AddRow(
		ods.Text("rail_saf_flat_kw"),
		s.formula("B", flatRow, railSafKW,
			engine.Div(
				engine.Mul(
					engine.Add(engine.Local("B", railRow), engine.Local("B", safRow)),
					engine.Int(1_000_000_000),
				),
				engine.Int(8760),
			),
		),
	)

	if err := res.Err(); err != nil {
		return nil, nil, err
	}
	return t, s.audits, nil
}

// =============================================================================
// AGRICULTURE (per month)
// =============================================================================

func buildCalcAgriculture(snap *snapshot) (*ods.Table, []auditedCell, error) {
	res := engine.NewResolver(snap.registry, TableCalcAgriculture)
	t := ods.NewTable(TableCalcAgriculture, "Calcul agriculture — demande électrique par mois",
		"Calcul", "Valeur")
	s := newSheet(t)

	cfg := snap.bundle.Agriculture
	jours := snap.bundle.Temporal.JoursParMois
	for i, mois := range scenario.Months {
		row := engine.FirstDataRow + i
		kw, err := sectors.AgriculturePuissanceKW(cfg, mois, jours)
		if err != nil {
			return nil, nil, err
		}
		expr, err := sectors.AgricultureMensuelleFormula(res, mois)
		if err != nil {
			return nil, nil, err
		}
		t.AddRow(
			ods.Text(fmt.Sprintf("Agriculture %s (kW)", mois)),
			s.formula("B", row, kw, expr),
		)
	}

	if err := res.Err(); err != nil {
		return nil, nil, err
	}
	return t, s.audits, nil
}

// =============================================================================
// CHAUFFAGE (the full thermal chain, one row per grid period)
// =============================================================================

func buildCalcChauffage(snap *snapshot) (*ods.Table, []auditedCell, error) {
	res := engine.NewResolver(snap.registry, TableCalcChauffage)
	t := ods.NewTable(TableCalcChauffage, "Calcul chauffage — modèle Roland, COP variable",
		"Mois", "Plage", "T_ext (C)", "COP(T)", "Volume (m3)", "Coeff plage", "Delta T (C)", "Besoin électrique (kW)")
	s := newSheet(t)

	cfg := snap.bundle.Heating
	volume := cfg.VolumeMoyenM3()
	volumeExpr := engine.Mul(res.Knob("chauf_surface_moyenne_m2"), res.Knob("chauf_hauteur_plafond_m"))

	var curve engine.Curve
	if cfg.AvecPompeAChaleur {
		var err error
		curve, err = heating.CopCurve(cfg)
		if err != nil {
			return nil, nil, err
		}
	}

	for i, key := range snap.grid.Keys() {
		row := engine.FirstDataRow + i

		tExt, ok := cfg.TExt(key.Mois)
		if !ok {
			return nil, nil, fmt.Errorf("no outdoor temperature for %s", key.Mois)
		}
		coeff, ok := cfg.CoefficientsPlage[key.Plage]
		if !ok {
			return nil, nil, fmt.Errorf("no slot coefficient for %s", key.Plage)
		}

		copVal := decimal.NewFromInt(1)
		copExpr := engine.Int(1)
		if cfg.AvecPompeAChaleur {
			copVal = curve.Eval(tExt)
			var err error
			copExpr, err = heating.CopFormula(res, cfg, engine.Local("C", row))
			if err != nil {
				return nil, nil, err
			}
		}

		deltaT := cfg.TemperatureInterieure.Sub(tExt)
		if deltaT.IsNegative() {
			deltaT = decimal.Zero
		}

		besoin, err := heating.PuissanceSlotKW(cfg, key.Mois, key.Plage)
		if err != nil {
			return nil, nil, err
		}
		// Same operation order as the native chain, over this row's cells.
		besoinExpr := engine.Div(
			engine.Mul(
				engine.Mul(
					engine.Div(
						engine.Mul(
							engine.Mul(res.Knob("chauf_coefficient_g"), engine.Local("E", row)),
							engine.Local("G", row),
						),
						engine.Local("D", row),
					),
					res.Knob("nombre_maisons"),
				),
				engine.Local("F", row),
			),
			engine.Int(1000),
		)

		t.AddRow(
			ods.Text(key.Mois),
			ods.Text(key.Plage),
			s.formula("C", row, tExt, res.Knob(scenario.TempExtKnob(key.Mois))),
			s.formula("D", row, copVal, copExpr),
			s.formula("E", row, volume, volumeExpr),
			s.formula("F", row, coeff, res.Knob(scenario.CoeffPlageKnob(key.Plage))),
			s.formula("G", row, deltaT, engine.Max0(engine.Sub(res.Knob("chauf_temperature_int"), engine.Local("C", row)))),
			s.formula("H", row, besoin, besoinExpr),
		)
	}

	if err := res.Err(); err != nil {
		return nil, nil, err
	}
	return t, s.audits, nil
}
