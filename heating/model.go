/*
model.go - Residential heating demand model

PURPOSE:
  Computes the national electric heating demand from the building-physics
  description: per-dwelling thermal losses, heat-pump conversion through a
  temperature-dependent COP curve, fleet scaling and per-slot usage
  modulation.

THE CHAIN:
  thermal W per house   = G × volume × max(0, T_int − T_ext)
  electric W per house  = thermal / COP(T_ext)   (heat pumps on)
  national kW           = electric W × houses × slot coeff / 1000
  monthly TWh           = Σ over slots of kW × slot hours × days / 1e9

COP CURVE:
  CopCurve builds the engine curve from the config breakpoints. The same
  breakpoints feed the formula compiler, so the spreadsheet's nested IF
  chain and this package's native arithmetic always interpolate the same
  line segments.

USAGE:
  cop := heating.CopCurve(cfg)
  kw, err := heating.PuissanceSlotKW(cfg, "Janvier", "8h-13h")
  twh, err := heating.EnergieMensuelleTWh(cfg, "Janvier", jours)

SEE ALSO:
  - formula.go: The same chain as spreadsheet expressions
  - scenario/config.go: The Heating config this reads
*/
package heating

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/engine"
	"github.com/terrawatt/balance-engine/scenario"
)

var (
	mille    = decimal.NewFromInt(1000)
	milliard = decimal.NewFromInt(1_000_000_000)
)

// =============================================================================
// NATIVE CHAIN
// =============================================================================

// CopCurve builds the interpolation curve from the config breakpoints.
func CopCurve(cfg scenario.Heating) (engine.Curve, error) {
	return engine.NewCurve(cfg.CopParTemperature...)
}

// BesoinThermiqueMaisonW is the heat loss of one average house at an
// outdoor temperature, in watts. Zero once outdoors reaches the setpoint.
func BesoinThermiqueMaisonW(cfg scenario.Heating, tExt decimal.Decimal) decimal.Decimal {
	deltaT := cfg.TemperatureInterieure.Sub(tExt)
	if deltaT.IsNegative() {
		deltaT = decimal.Zero
	}
	return cfg.CoefficientG.Mul(cfg.VolumeMoyenM3()).Mul(deltaT)
}

// BesoinElectriqueMaisonW converts the thermal need to electric watts,
// through the COP curve when heat pumps are on.
func BesoinElectriqueMaisonW(cfg scenario.Heating, tExt decimal.Decimal) (decimal.Decimal, error) {
	thermique := BesoinThermiqueMaisonW(cfg, tExt)
	if !cfg.AvecPompeAChaleur {
		return thermique, nil
	}
	curve, err := CopCurve(cfg)
	if err != nil {
		return decimal.Zero, fmt.Errorf("heating: %w", err)
	}
	return thermique.Div(curve.Eval(tExt)), nil
}

// BesoinNationalKW scales one house to the fleet and applies the slot
// usage coefficient.
func BesoinNationalKW(cfg scenario.Heating, tExt, coeffPlage decimal.Decimal) (decimal.Decimal, error) {
	parMaison, err := BesoinElectriqueMaisonW(cfg, tExt)
	if err != nil {
		return decimal.Zero, err
	}
	return parMaison.Mul(cfg.NombreMaisons).Mul(coeffPlage).Div(mille), nil
}

// PuissanceSlotKW resolves the month's outdoor temperature and the slot
// coefficient from the config, then computes the national demand.
func PuissanceSlotKW(cfg scenario.Heating, mois, plage string) (decimal.Decimal, error) {
	tExt, ok := cfg.TExt(mois)
	if !ok {
		return decimal.Zero, fmt.Errorf("heating: no outdoor temperature for %s", mois)
	}
	coeff, ok := cfg.CoefficientsPlage[plage]
	if !ok {
		return decimal.Zero, fmt.Errorf("heating: no slot coefficient for %s", plage)
	}
	return BesoinNationalKW(cfg, tExt, coeff)
}

// EnergieMensuelleTWh sums the month's slot demands into energy.
func EnergieMensuelleTWh(cfg scenario.Heating, mois string, joursParMois decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, slot := range scenario.Slots {
		kw, err := PuissanceSlotKW(cfg, mois, slot.Name)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(kw.Mul(decimal.NewFromInt(int64(slot.Hours))))
	}
	return total.Mul(joursParMois).Div(milliard), nil
}

// EnergieAnnuelleTWh is the twelve-month total.
func EnergieAnnuelleTWh(cfg scenario.Heating, joursParMois decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, mois := range scenario.Months {
		twh, err := EnergieMensuelleTWh(cfg, mois, joursParMois)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(twh)
	}
	return total, nil
}

// ChaleurMensuelleTWh sums the month's delivered heat into energy, before
// any heat-pump conversion. This is the demand a fuel boiler covers today,
// modulated by the same slot coefficients as the electric chain.
func ChaleurMensuelleTWh(cfg scenario.Heating, mois string, joursParMois decimal.Decimal) (decimal.Decimal, error) {
	tExt, ok := cfg.TExt(mois)
	if !ok {
		return decimal.Zero, fmt.Errorf("heating: no outdoor temperature for %s", mois)
	}
	parMaison := BesoinThermiqueMaisonW(cfg, tExt)
	total := decimal.Zero
	for _, slot := range scenario.Slots {
		coeff, ok := cfg.CoefficientsPlage[slot.Name]
		if !ok {
			return decimal.Zero, fmt.Errorf("heating: no slot coefficient for %s", slot.Name)
		}
		kw := parMaison.Mul(cfg.NombreMaisons).Mul(coeff).Div(mille)
		total = total.Add(kw.Mul(decimal.NewFromInt(int64(slot.Hours))))
	}
	return total.Mul(joursParMois).Div(milliard), nil
}

// ChaleurAnnuelleTWh is the twelve-month delivered heat total.
func ChaleurAnnuelleTWh(cfg scenario.Heating, joursParMois decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, mois := range scenario.Months {
		twh, err := ChaleurMensuelleTWh(cfg, mois, joursParMois)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(twh)
	}
	return total, nil
}
