/*
industrie.go - Industrial sector balance

PURPOSE:
  Electrifies industrial heat by temperature band: high temperature
  converts with an efficiency factor, medium and low temperature go
  through heat pumps, motive power and electrochemistry are already
  electric. A global efficiency gain shaves the electric total; the
  non-electrifiable heat shares stay fossil.
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

// IndustrieBilan is the sector balance, all TWh.
type IndustrieBilan struct {
	ActuelTotal      decimal.Decimal
	ChaleurHtElec    decimal.Decimal
	ChaleurHtFossile decimal.Decimal
	ChaleurMtElec    decimal.Decimal
	ChaleurMtFossile decimal.Decimal
	ChaleurBtElec    decimal.Decimal
	ChaleurBtFossile decimal.Decimal
	TotalElec        decimal.Decimal
	FossileResiduel  decimal.Decimal
	GainEfficacite   decimal.Decimal
}

// Industrie runs the electrification band by band.
func Industrie(cfg scenario.Industrie) IndustrieBilan {
	var b IndustrieBilan

	b.ActuelTotal = cfg.ChaleurHauteTempTwh.
		Add(cfg.ChaleurMoyenneTempTwh).
		Add(cfg.ChaleurBasseTempTwh).
		Add(cfg.ForceMotriceTwh).
		Add(cfg.ElectrochimieTwh).
		Add(cfg.AutresTwh)

	b.ChaleurHtElec = cfg.ChaleurHauteTempTwh.
		Mul(cfg.HauteTempElectrifiable).
		Mul(cfg.HauteTempEfficacite)
	b.ChaleurHtFossile = cfg.ChaleurHauteTempTwh.Mul(un.Sub(cfg.HauteTempElectrifiable))

	b.ChaleurMtElec = cfg.ChaleurMoyenneTempTwh.
		Mul(cfg.MoyenneTempElectrifiable).
		Div(cfg.MoyenneTempCop)
	b.ChaleurMtFossile = cfg.ChaleurMoyenneTempTwh.Mul(un.Sub(cfg.MoyenneTempElectrifiable))

	b.ChaleurBtElec = cfg.ChaleurBasseTempTwh.
		Mul(cfg.BasseTempElectrifiable).
		Div(cfg.BasseTempCop)
	b.ChaleurBtFossile = cfg.ChaleurBasseTempTwh.Mul(un.Sub(cfg.BasseTempElectrifiable))

	brut := b.ChaleurHtElec.
		Add(b.ChaleurMtElec).
		Add(b.ChaleurBtElec).
		Add(cfg.ForceMotriceTwh).
		Add(cfg.ElectrochimieTwh).
		Add(cfg.AutresTwh)
	b.TotalElec = brut.Mul(un.Sub(cfg.GainEfficaciteFraction))
	b.GainEfficacite = brut.Sub(b.TotalElec)

	b.FossileResiduel = b.ChaleurHtFossile.Add(b.ChaleurMtFossile).Add(b.ChaleurBtFossile)
	return b
}

// IndustrieFlatKW spreads the electric total evenly over the year.
func IndustrieFlatKW(cfg scenario.Industrie) decimal.Decimal {
	return Industrie(cfg).TotalElec.Mul(milliard).Div(annuel)
}

// =============================================================================
// FORMULAS
// =============================================================================

// IndustrieElecFormula is the electric total in TWh as an expression:
// (HT x elec x eff + MT x elec / COP + BT x elec / COP + already-electric
// uses) x (1 - gain).
func IndustrieElecFormula(res *engine.Resolver) engine.Expr {
	base := engine.AddN(
		engine.MulN(
			res.Knob("ind_chaleur_haute_temp_twh"),
			res.Knob("ind_haute_temp_electrifiable"),
			res.Knob("ind_haute_temp_efficacite"),
		),
		engine.Div(
			engine.Mul(res.Knob("ind_chaleur_moyenne_temp_twh"),
				res.Knob("ind_moyenne_temp_electrifiable")),
			res.Knob("ind_moyenne_temp_cop"),
		),
		engine.Div(
			engine.Mul(res.Knob("ind_chaleur_basse_temp_twh"),
				res.Knob("ind_basse_temp_electrifiable")),
			res.Knob("ind_basse_temp_cop"),
		),
		res.Knob("ind_force_motrice_twh"),
		res.Knob("ind_electrochimie_twh"),
		res.Knob("ind_autres_twh"),
	)
	return engine.Mul(base, engine.Sub(engine.Int(1), res.Knob("ind_gain_efficacite_fraction")))
}

// IndustrieFossileFormula is the residual fossil heat in TWh.
func IndustrieFossileFormula(res *engine.Resolver) engine.Expr {
	return engine.AddN(
		engine.Mul(res.Knob("ind_chaleur_haute_temp_twh"),
			engine.Sub(engine.Int(1), res.Knob("ind_haute_temp_electrifiable"))),
		engine.Mul(res.Knob("ind_chaleur_moyenne_temp_twh"),
			engine.Sub(engine.Int(1), res.Knob("ind_moyenne_temp_electrifiable"))),
		engine.Mul(res.Knob("ind_chaleur_basse_temp_twh"),
			engine.Sub(engine.Int(1), res.Knob("ind_basse_temp_electrifiable"))),
	)
}

// IndustrieFlatFormula is the year-round draw in kW.
func IndustrieFlatFormula(res *engine.Resolver) engine.Expr {
	return engine.Div(
		engine.Mul(IndustrieElecFormula(res), engine.Int(1_000_000_000)),
		engine.Int(8760),
	)
}

// =============================================================================
// CHECKER QUANTITIES
// =============================================================================

var industrieKnobs = []string{
	"ind_chaleur_haute_temp_twh", "ind_haute_temp_electrifiable", "ind_haute_temp_efficacite",
	"ind_chaleur_moyenne_temp_twh", "ind_moyenne_temp_electrifiable", "ind_moyenne_temp_cop",
	"ind_chaleur_basse_temp_twh", "ind_basse_temp_electrifiable", "ind_basse_temp_cop",
	"ind_force_motrice_twh", "ind_electrochimie_twh", "ind_autres_twh",
	"ind_gain_efficacite_fraction",
}

func nativeIndustrie(s engine.Sample) scenario.Industrie {
	return scenario.BundleFrom(s).Industrie
}

func industrieQuantities() []engine.Quantity {
	return []engine.Quantity{
		{
			Name:      "industrie_elec_twh",
			Table:     scenario.ParamTable,
			Unit:      "TWh",
			Tolerance: twhTolerance,
			Knobs:     industrieKnobs,
			Native: func(s engine.Sample) (decimal.Decimal, error) {
				return Industrie(nativeIndustrie(s)).TotalElec, nil
			},
			Build: func(res *engine.Resolver) (engine.Expr, error) {
				return IndustrieElecFormula(res), nil
			},
		},
		{
			Name:      "industrie_fossile_twh",
			Table:     scenario.ParamTable,
			Unit:      "TWh",
			Tolerance: twhTolerance,
			Knobs: []string{
				"ind_chaleur_haute_temp_twh", "ind_haute_temp_electrifiable",
				"ind_chaleur_moyenne_temp_twh", "ind_moyenne_temp_electrifiable",
				"ind_chaleur_basse_temp_twh", "ind_basse_temp_electrifiable",
			},
			Native: func(s engine.Sample) (decimal.Decimal, error) {
				return Industrie(nativeIndustrie(s)).FossileResiduel, nil
			},
			Build: func(res *engine.Resolver) (engine.Expr, error) {
				return IndustrieFossileFormula(res), nil
			},
		},
		{
			Name:  "industrie_flat_kw",
			Table: scenario.ParamTable,
			Unit:  "kW",
			Knobs: industrieKnobs,
			Native: func(s engine.Sample) (decimal.Decimal, error) {
				return IndustrieFlatKW(nativeIndustrie(s)), nil
			},
			Build: func(res *engine.Resolver) (engine.Expr, error) {
				return IndustrieFlatFormula(res), nil
			},
		},
	}
}
