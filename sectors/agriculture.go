/*
agriculture.go - Agricultural sector balance

PURPOSE:
  Electrifies farm energy: machinery converts its electrifiable share
  with an efficiency factor, greenhouse heating moves to heat pumps,
  irrigation, livestock buildings and the remainder are already electric.
  The annual total is then spread over the months with the seasonal
  profile, peaking around the summer field work.

  The sector also produces: agrivoltaics at a 15 percent capacity factor
  over its installable potential, and methanisation biogas.
*/
package sectors

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/engine"
	"github.com/terrawatt/balance-engine/scenario"
)

var facteurAgrivoltaisme = decimal.NewFromFloat(0.15)

// =============================================================================
// NATIVE CHAIN
// =============================================================================

// AgricultureBilan is the sector balance, all TWh.
type AgricultureBilan struct {
	ActuelTotal     decimal.Decimal
	MachinismeElec  decimal.Decimal
	SerresElec      decimal.Decimal
	TotalElec       decimal.Decimal
	FossileResiduel decimal.Decimal
}

// Agriculture runs the electrification sub-sector by sub-sector.
func Agriculture(cfg scenario.Agriculture) AgricultureBilan {
	var b AgricultureBilan

	b.ActuelTotal = cfg.MachinismeTwh.
		Add(cfg.SerresTwh).
		Add(cfg.IrrigationTwh).
		Add(cfg.ElevageTwh).
		Add(cfg.AutresTwh)

	b.MachinismeElec = cfg.MachinismeTwh.
		Mul(cfg.MachinismeElecFraction).
		Mul(cfg.MachinismeEffElec)
	b.FossileResiduel = cfg.MachinismeTwh.Mul(un.Sub(cfg.MachinismeElecFraction))

	b.SerresElec = cfg.SerresTwh.Mul(cfg.SerresPacFraction).Div(cfg.SerresPacCop).
		Add(cfg.SerresTwh.Mul(un.Sub(cfg.SerresPacFraction)))

	b.TotalElec = b.MachinismeElec.
		Add(b.SerresElec).
		Add(cfg.IrrigationTwh).
		Add(cfg.ElevageTwh).
		Add(cfg.AutresTwh)
	return b
}

// AgricultureMensuelleTWh distributes the annual electric total over one
// month with the seasonal profile.
func AgricultureMensuelleTWh(cfg scenario.Agriculture, mois string) (decimal.Decimal, error) {
	coeff, ok := cfg.ProfilMensuel[mois]
	if !ok {
		return decimal.Zero, fmt.Errorf("agriculture: no seasonal weight for month %q", mois)
	}
	total := decimal.Zero
	for _, m := range scenario.Months {
		total = total.Add(cfg.ProfilMensuel[m])
	}
	return Agriculture(cfg).TotalElec.Mul(coeff).Div(total), nil
}

// AgriculturePuissanceKW is the month's average draw in kW, the monthly
// energy over 24 hours times the configured days per month.
func AgriculturePuissanceKW(cfg scenario.Agriculture, mois string, jours decimal.Decimal) (decimal.Decimal, error) {
	twh, err := AgricultureMensuelleTWh(cfg, mois)
	if err != nil {
		return decimal.Zero, err
	}
	return twh.Mul(milliard).Div(decimal.NewFromInt(24).Mul(jours)), nil
}

// AgricultureProduction is the sector's own energy supply, all TWh.
type AgricultureProduction struct {
	Agrivoltaisme          decimal.Decimal
	MethanisationActuel    decimal.Decimal
	MethanisationPotentiel decimal.Decimal
	Total                  decimal.Decimal
}

// ProductionAgricole sizes the production potentials.
func ProductionAgricole(cfg scenario.Agriculture) AgricultureProduction {
	p := AgricultureProduction{
		Agrivoltaisme: cfg.AgrivoltaismePotentielGwc.
			Mul(facteurAgrivoltaisme).
			Mul(annuel).
			Div(decimal.NewFromInt(1000)),
		MethanisationActuel:    cfg.MethanisationActuelTwh,
		MethanisationPotentiel: cfg.MethanisationPotentielTwh,
	}
	p.Total = p.Agrivoltaisme.Add(p.MethanisationPotentiel)
	return p
}

// =============================================================================
// FORMULAS
// =============================================================================

// AgricultureElecFormula is the electric total in TWh as an expression:
// machinisme x frac x eff + serres x pac / COP + serres x (1 - pac) +
// the already-electric uses.
func AgricultureElecFormula(res *engine.Resolver) engine.Expr {
	return engine.AddN(
		engine.MulN(
			res.Knob("agri_machinisme_twh"),
			res.Knob("agri_machinisme_elec_fraction"),
			res.Knob("agri_machinisme_eff_elec"),
		),
		engine.Div(
			engine.Mul(res.Knob("agri_serres_twh"), res.Knob("agri_serres_pac_fraction")),
			res.Knob("agri_serres_pac_cop"),
		),
		engine.Mul(res.Knob("agri_serres_twh"),
			engine.Sub(engine.Int(1), res.Knob("agri_serres_pac_fraction"))),
		res.Knob("agri_irrigation_twh"),
		res.Knob("agri_elevage_twh"),
		res.Knob("agri_autres_twh"),
	)
}

// AgricultureMensuelleFormula is the month's draw in kW as an expression:
// annual total x month weight / profile sum, over 24 hours times the
// days-per-month knob.
func AgricultureMensuelleFormula(res *engine.Resolver, mois string) (engine.Expr, error) {
	found := false
	for _, m := range scenario.Months {
		if m == mois {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("agriculture: unknown month %q", mois)
	}

	weights := make([]engine.Expr, 0, len(scenario.Months))
	for _, m := range scenario.Months {
		weights = append(weights, res.Knob(scenario.AgriProfilKnob(m)))
	}

	monthly := engine.Div(
		engine.Mul(AgricultureElecFormula(res), res.Knob(scenario.AgriProfilKnob(mois))),
		engine.AddN(weights...),
	)
	return engine.Div(
		engine.Mul(monthly, engine.Int(1_000_000_000)),
		engine.Mul(engine.Int(24), res.Knob("jours_par_mois")),
	), nil
}

// =============================================================================
// CHECKER QUANTITIES
// =============================================================================

var agricultureKnobs = []string{
	"agri_machinisme_twh", "agri_machinisme_elec_fraction", "agri_machinisme_eff_elec",
	"agri_serres_twh", "agri_serres_pac_fraction", "agri_serres_pac_cop",
	"agri_irrigation_twh", "agri_elevage_twh", "agri_autres_twh",
}

func nativeAgriculture(s engine.Sample) scenario.Agriculture {
	return scenario.BundleFrom(s).Agriculture
}

func agricultureQuantities() []engine.Quantity {
	monthly := func(mois string) engine.Quantity {
		knobs := append([]string{}, agricultureKnobs...)
		for _, m := range scenario.Months {
			knobs = append(knobs, scenario.AgriProfilKnob(m))
		}
		knobs = append(knobs, "jours_par_mois")
		return engine.Quantity{
			Name:  fmt.Sprintf("agriculture_%s_kw", mois),
			Table: scenario.ParamTable,
			Unit:  "kW",
			Knobs: knobs,
			Native: func(s engine.Sample) (decimal.Decimal, error) {
				jours, ok := s["jours_par_mois"]
				if !ok {
					jours = decimal.NewFromInt(30)
				}
				return AgriculturePuissanceKW(nativeAgriculture(s), mois, jours)
			},
			Build: func(res *engine.Resolver) (engine.Expr, error) {
				return AgricultureMensuelleFormula(res, mois)
			},
		}
	}

	return []engine.Quantity{
		{
			Name:      "agriculture_elec_twh",
			Table:     scenario.ParamTable,
			Unit:      "TWh",
			Tolerance: twhTolerance,
			Knobs:     agricultureKnobs,
			Native: func(s engine.Sample) (decimal.Decimal, error) {
				return Agriculture(nativeAgriculture(s)).TotalElec, nil
			},
			Build: func(res *engine.Resolver) (engine.Expr, error) {
				return AgricultureElecFormula(res), nil
			},
		},
		monthly("Janvier"),
		monthly("Juin"),
	}
}
