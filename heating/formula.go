/*
formula.go - Heating demand as spreadsheet expressions

PURPOSE:
  Rebuilds the native heating chain as formula trees over parameter
  references, so every exported cell can carry a live expression and the
  consistency checker can hold both renditions to the same result.

KNOB CLOSURE:
  Every reference resolves through the declaration table: outdoor
  temperatures, COP breakpoints, slot coefficients, building physics and
  the fleet size. The compiled COP piecewise uses the same breakpoint
  temperatures as the native curve, so both sides interpolate identical
  segments.

USAGE:
  res := engine.NewResolver(reg, scenario.ParamTable)
  expr, err := heating.BesoinFormula(res, cfg, "Janvier", "8h-13h")
  qs, err := heating.Quantities(cfg)

SEE ALSO:
  - model.go: The native arithmetic these expressions mirror
  - engine/piecewise.go: The COP chain compiler
*/
package heating

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/engine"
	"github.com/terrawatt/balance-engine/scenario"
)

// =============================================================================
// EXPRESSION BUILDERS
// =============================================================================

// CopStops pairs each config breakpoint with its parameter reference.
func CopStops(res *engine.Resolver, cfg scenario.Heating) []engine.PiecewiseStop {
	stops := make([]engine.PiecewiseStop, 0, len(cfg.CopParTemperature))
	for _, p := range cfg.CopParTemperature {
		stops = append(stops, engine.PiecewiseStop{
			At:  p.At,
			Ref: res.Knob(scenario.CopKnob(p.At)),
		})
	}
	return stops
}

// CopFormula compiles the COP interpolation over an arbitrary temperature
// expression.
func CopFormula(res *engine.Resolver, cfg scenario.Heating, t engine.Expr) (engine.Expr, error) {
	expr, err := engine.CompilePiecewise(t, CopStops(res, cfg))
	if err != nil {
		return nil, fmt.Errorf("heating: cop formula: %w", err)
	}
	return expr, nil
}

// BesoinFormula is the national per-slot demand in kW as an expression:
// G x volume x max(0, T_int - T_ext) / COP(T_ext) x houses x coeff / 1000.
func BesoinFormula(res *engine.Resolver, cfg scenario.Heating, mois, plage string) (engine.Expr, error) {
	t := res.Knob(scenario.TempExtKnob(mois))
	volume := engine.Mul(res.Knob("chauf_surface_moyenne_m2"), res.Knob("chauf_hauteur_plafond_m"))
	deltaT := engine.Max0(engine.Sub(res.Knob("chauf_temperature_int"), t))
	thermique := engine.Mul(engine.Mul(res.Knob("chauf_coefficient_g"), volume), deltaT)

	parMaison := thermique
	if cfg.AvecPompeAChaleur {
		cop, err := CopFormula(res, cfg, t)
		if err != nil {
			return nil, err
		}
		parMaison = engine.Div(thermique, cop)
	}

	return engine.Div(
		engine.Mul(
			engine.Mul(parMaison, res.Knob("nombre_maisons")),
			res.Knob(scenario.CoeffPlageKnob(plage)),
		),
		engine.Int(1000),
	), nil
}

// EnergieFormula is the month's energy in TWh as an expression:
// sum over slots of kW x hours, x days / 1e9.
func EnergieFormula(res *engine.Resolver, cfg scenario.Heating, mois string) (engine.Expr, error) {
	terms := make([]engine.Expr, 0, len(scenario.Slots))
	for _, slot := range scenario.Slots {
		kw, err := BesoinFormula(res, cfg, mois, slot.Name)
		if err != nil {
			return nil, err
		}
		terms = append(terms, engine.Mul(kw, engine.Int(int64(slot.Hours))))
	}
	return engine.Div(
		engine.Mul(engine.AddN(terms...), res.Knob("jours_par_mois")),
		engine.Int(1_000_000_000),
	), nil
}

// =============================================================================
// CHECKER QUANTITIES
// =============================================================================

func slotKnobs(cfg scenario.Heating, mois, plage string) []string {
	names := []string{
		"chauf_coefficient_g", "chauf_surface_moyenne_m2", "chauf_hauteur_plafond_m",
		"chauf_temperature_int", "nombre_maisons",
		scenario.TempExtKnob(mois), scenario.CoeffPlageKnob(plage),
	}
	for _, p := range cfg.CopParTemperature {
		names = append(names, scenario.CopKnob(p.At))
	}
	return names
}

// nativeHeating rebuilds a heating config from a checker sample, keeping
// the flags a sample cannot carry.
func nativeHeating(cfg scenario.Heating, s engine.Sample) scenario.Heating {
	h := scenario.BundleFrom(s).Heating
	h.AvecPompeAChaleur = cfg.AvecPompeAChaleur
	return h
}

// Quantities returns the checker coverage for this package: one per-slot
// demand per distinct regime (deep winter, summer shutoff, shoulder
// season, night modulation) and one monthly energy identity.
func Quantities(cfg scenario.Heating) []engine.Quantity {
	slotQuantity := func(mois, plage string) engine.Quantity {
		return engine.Quantity{
			Name:  fmt.Sprintf("chauffage_%s_%s_kw", mois, plage),
			Table: scenario.ParamTable,
			Unit:  "kW",
			Knobs: slotKnobs(cfg, mois, plage),
			Native: func(s engine.Sample) (decimal.Decimal, error) {
				return PuissanceSlotKW(nativeHeating(cfg, s), mois, plage)
			},
			Build: func(res *engine.Resolver) (engine.Expr, error) {
				return BesoinFormula(res, cfg, mois, plage)
			},
		}
	}

	energieQuantity := func(mois string) engine.Quantity {
		knobs := slotKnobs(cfg, mois, "8h-13h")
		for _, slot := range scenario.Slots[1:] {
			knobs = append(knobs, scenario.CoeffPlageKnob(slot.Name))
		}
		knobs = append(knobs, "jours_par_mois")
		return engine.Quantity{
			Name:  fmt.Sprintf("chauffage_energie_%s_twh", mois),
			Table: scenario.ParamTable,
			Unit:  "TWh",
			Knobs: knobs,
			Native: func(s engine.Sample) (decimal.Decimal, error) {
				h := nativeHeating(cfg, s)
				jours, ok := s["jours_par_mois"]
				if !ok {
					jours = decimal.NewFromInt(30)
				}
				return EnergieMensuelleTWh(h, mois, jours)
			},
			Build: func(res *engine.Resolver) (engine.Expr, error) {
				return EnergieFormula(res, cfg, mois)
			},
		}
	}

	return []engine.Quantity{
		slotQuantity("Janvier", "8h-13h"),
		slotQuantity("Juillet", "13h-18h"),
		slotQuantity("Octobre", "23h-8h"),
		slotQuantity("Février", "18h-20h"),
		energieQuantity("Janvier"),
	}
}
