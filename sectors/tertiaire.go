/*
tertiaire.go - Tertiary sector balance

PURPOSE:
  Electrifies tertiary buildings: renovation first shrinks the heating
  demand, the fossil share of what remains converts to heat pumps, the
  already-electric share stays. Cooling and lighting keep their demand
  minus the efficiency and LED gains; specific electricity, hot water and
  the remainder pass through unchanged.
*/
package sectors

import (
	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/engine"
	"github.com/terrawatt/balance-engine/scenario"
)

// =============================================================================
// NATIVE CHAIN
// =============================================================================

// TertiaireBilan is the sector balance, all TWh.
type TertiaireBilan struct {
	ActuelTotal       decimal.Decimal
	ChauffageElec     decimal.Decimal
	Climatisation     decimal.Decimal
	Eclairage         decimal.Decimal
	ElecSpecifique    decimal.Decimal
	EauChaude         decimal.Decimal
	Autres            decimal.Decimal
	TotalElec         decimal.Decimal
	GainRenovation    decimal.Decimal
	GainEclairage     decimal.Decimal
	GainClimatisation decimal.Decimal
}

// Tertiaire runs the conversion use by use.
func Tertiaire(cfg scenario.Tertiaire) TertiaireBilan {
	var b TertiaireBilan

	b.ActuelTotal = cfg.ChauffageTwh.
		Add(cfg.ClimatisationTwh).
		Add(cfg.EclairageTwh).
		Add(cfg.ElectriciteSpecifiqueTwh).
		Add(cfg.EauChaudeTwh).
		Add(cfg.AutresTwh)

	apresRenovation := cfg.ChauffageTwh.Mul(un.Sub(cfg.RenovationGainChauffage))
	fossilePac := apresRenovation.Mul(cfg.ChauffageFossileFraction).Div(cfg.ChauffagePacCop)
	elecExistant := apresRenovation.Mul(un.Sub(cfg.ChauffageFossileFraction))
	b.ChauffageElec = fossilePac.Add(elecExistant)
	b.GainRenovation = cfg.ChauffageTwh.Sub(apresRenovation)

	b.Climatisation = cfg.ClimatisationTwh.Mul(un.Sub(cfg.ClimatisationGain))
	b.GainClimatisation = cfg.ClimatisationTwh.Sub(b.Climatisation)

	b.Eclairage = cfg.EclairageTwh.Mul(un.Sub(cfg.EclairageGainLed))
	b.GainEclairage = cfg.EclairageTwh.Sub(b.Eclairage)

	b.ElecSpecifique = cfg.ElectriciteSpecifiqueTwh
	b.EauChaude = cfg.EauChaudeTwh
	b.Autres = cfg.AutresTwh

	b.TotalElec = b.ChauffageElec.
		Add(b.Climatisation).
		Add(b.Eclairage).
		Add(b.ElecSpecifique).
		Add(b.EauChaude).
		Add(b.Autres)
	return b
}

// TertiaireFlatKW spreads the electric total evenly over the year.
func TertiaireFlatKW(cfg scenario.Tertiaire) decimal.Decimal {
	return Tertiaire(cfg).TotalElec.Mul(milliard).Div(annuel)
}

// =============================================================================
// FORMULAS
// =============================================================================

// TertiaireElecFormula is the electric total in TWh as an expression. The
// heating term factors the renovated demand out:
// chauffage x (1 - renov) x (fossile / COP + (1 - fossile)).
func TertiaireElecFormula(res *engine.Resolver) engine.Expr {
	chauffage := engine.MulN(
		res.Knob("tert_chauffage_twh"),
		engine.Sub(engine.Int(1), res.Knob("tert_renovation_gain_chauffage")),
		engine.Add(
			engine.Div(res.Knob("tert_chauffage_fossile_fraction"),
				res.Knob("tert_chauffage_pac_cop")),
			engine.Sub(engine.Int(1), res.Knob("tert_chauffage_fossile_fraction")),
		),
	)
	return engine.AddN(
		chauffage,
		engine.Mul(res.Knob("tert_climatisation_twh"),
			engine.Sub(engine.Int(1), res.Knob("tert_climatisation_gain"))),
		engine.Mul(res.Knob("tert_eclairage_twh"),
			engine.Sub(engine.Int(1), res.Knob("tert_eclairage_gain_led"))),
		res.Knob("tert_electricite_specifique_twh"),
		res.Knob("tert_eau_chaude_twh"),
		res.Knob("tert_autres_twh"),
	)
}

// TertiaireFlatFormula is the year-round draw in kW.
func TertiaireFlatFormula(res *engine.Resolver) engine.Expr {
	return engine.Div(
		engine.Mul(TertiaireElecFormula(res), engine.Int(1_000_000_000)),
		engine.Int(8760),
	)
}

// =============================================================================
// CHECKER QUANTITIES
// =============================================================================

var tertiaireKnobs = []string{
	"tert_chauffage_twh", "tert_renovation_gain_chauffage",
	"tert_chauffage_fossile_fraction", "tert_chauffage_pac_cop",
	"tert_climatisation_twh", "tert_climatisation_gain",
	"tert_eclairage_twh", "tert_eclairage_gain_led",
	"tert_electricite_specifique_twh", "tert_eau_chaude_twh", "tert_autres_twh",
}

func nativeTertiaire(s engine.Sample) scenario.Tertiaire {
	return scenario.BundleFrom(s).Tertiaire
}

func tertiaireQuantities() []engine.Quantity {
	return []engine.Quantity{
		{
			Name:      "tertiaire_elec_twh",
			Table:     scenario.ParamTable,
			Unit:      "TWh",
			Tolerance: twhTolerance,
			Knobs:     tertiaireKnobs,
			Native: func(s engine.Sample) (decimal.Decimal, error) {
				return Tertiaire(nativeTertiaire(s)).TotalElec, nil
			},
			Build: func(res *engine.Resolver) (engine.Expr, error) {
				return TertiaireElecFormula(res), nil
			},
		},
		{
			Name:  "tertiaire_flat_kw",
			Table: scenario.ParamTable,
			Unit:  "kW",
			Knobs: tertiaireKnobs,
			Native: func(s engine.Sample) (decimal.Decimal, error) {
				return TertiaireFlatKW(nativeTertiaire(s)), nil
			},
			Build: func(res *engine.Resolver) (engine.Expr, error) {
				return TertiaireFlatFormula(res), nil
			},
		},
	}
}
