/*
model.go - Transport electrification model

PURPOSE:
  Computes the transport sector energy balance: today's fossil consumption
  per mode, the electrified consumption after sobriety, modal shift and
  efficiency factors, the residual fossil fuel, and the EV charging demand
  spread over the daily time slots.

THE CHAIN (per mode):
  voitures      sobriety, then modal shift, then the EV efficiency factor
  deux-roues    EV efficiency factor only
  bus et cars   EV efficiency factor only
  poids lourds  split battery / hydrogen / residual fossil
  VUL           electrifiable share times the EV factor
  rail          already-electric share, plus electrified diesel, plus the
                residual diesel kept inside the electric total
  aviation      domestic minus TGV shift, plus international, times the SAF
                share and the electricity-per-SAF factor
  maritime      electrifiable share times factor, likewise fluvial

GRID DEMAND:
  Direct grid electricity is road plus maritime plus fluvial. Rail is
  drawn flat over the year and SAF synthesis is an industrial process, so
  both are excluded from the charging profile and added as a constant
  8760-hour band instead.

USAGE:
  e := transport.ConsommationElectrifiee(cfg)
  twh, err := transport.DemandeRechargeTWh(cfg, "18h-20h")
  kw, err := transport.PuissanceSlotKW(cfg, "18h-20h")

SEE ALSO:
  - formula.go: The same chain as spreadsheet expressions
  - scenario/config.go: The Transport config this reads
*/
package transport

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/scenario"
)

var (
	un       = decimal.NewFromInt(1)
	milliard = decimal.NewFromInt(1_000_000_000)
	annuel   = decimal.NewFromInt(8760)
)

// =============================================================================
// CURRENT CONSUMPTION
// =============================================================================

// Actuel is today's transport energy per mode, all TWh of final energy.
type Actuel struct {
	Voitures              decimal.Decimal
	DeuxRoues             decimal.Decimal
	BusCars               decimal.Decimal
	RoutierPassagers      decimal.Decimal
	PoidsLourds           decimal.Decimal
	Vul                   decimal.Decimal
	RoutierFret           decimal.Decimal
	Rail                  decimal.Decimal
	AviationDomestique    decimal.Decimal
	AviationInternational decimal.Decimal
	Aviation              decimal.Decimal
	Maritime              decimal.Decimal
	Fluvial               decimal.Decimal
	MaritimeFluvial       decimal.Decimal
	Total                 decimal.Decimal
}

// ConsommationActuelle sums today's demand per mode and overall.
func ConsommationActuelle(cfg scenario.Transport) Actuel {
	a := Actuel{
		Voitures:              cfg.VoituresTwh,
		DeuxRoues:             cfg.DeuxRouesTwh,
		BusCars:               cfg.BusCarsTwh,
		PoidsLourds:           cfg.PoidsLourdsTwh,
		Vul:                   cfg.VulTwh,
		Rail:                  cfg.RailTotalTwh,
		AviationDomestique:    cfg.AviationDomestiqueTwh,
		AviationInternational: cfg.AviationInternationalTwh,
		Maritime:              cfg.MaritimeTwh,
		Fluvial:               cfg.FluvialTwh,
	}
	a.RoutierPassagers = a.Voitures.Add(a.DeuxRoues).Add(a.BusCars)
	a.RoutierFret = a.PoidsLourds.Add(a.Vul)
	a.Aviation = a.AviationDomestique.Add(a.AviationInternational)
	a.MaritimeFluvial = a.Maritime.Add(a.Fluvial)
	a.Total = a.RoutierPassagers.
		Add(a.RoutierFret).
		Add(a.Rail).
		Add(a.Aviation).
		Add(a.MaritimeFluvial)
	return a
}

// =============================================================================
// ELECTRIFIED CONSUMPTION
// =============================================================================

// Electrifie is the target-year demand split between grid electricity and
// residual fossil fuel, all TWh.
type Electrifie struct {
	VoituresElec         decimal.Decimal
	DeuxRouesElec        decimal.Decimal
	BusElec              decimal.Decimal
	RoutierPassagersElec decimal.Decimal

	PlBatterie  decimal.Decimal
	PlHydrogene decimal.Decimal
	PlFossile   decimal.Decimal
	VulElec     decimal.Decimal
	VulFossile  decimal.Decimal

	RoutierFretElec    decimal.Decimal
	RoutierFretFossile decimal.Decimal

	RailElec decimal.Decimal

	AviationSaf     decimal.Decimal
	AviationFossile decimal.Decimal

	MaritimeElec    decimal.Decimal
	MaritimeFossile decimal.Decimal
	FluvialElec     decimal.Decimal
	FluvialFossile  decimal.Decimal

	TotalElec    decimal.Decimal
	TotalFossile decimal.Decimal
}

// ConsommationElectrifiee applies the electrification path mode by mode.
// Sobriety and modal shift act on cars only. The residual rail diesel stays
// inside the rail total so the mode never loses energy to rounding.
func ConsommationElectrifiee(cfg scenario.Transport) Electrifie {
	var e Electrifie

	e.VoituresElec = cfg.VoituresTwh.
		Mul(un.Sub(cfg.GainSobrieteFraction)).
		Mul(un.Sub(cfg.ReportModalFraction)).
		Mul(cfg.VoituresFacteurElec)
	e.DeuxRouesElec = cfg.DeuxRouesTwh.Mul(cfg.DeuxRouesFacteurElec)
	e.BusElec = cfg.BusCarsTwh.Mul(cfg.BusFacteurElec)
	e.RoutierPassagersElec = e.VoituresElec.Add(e.DeuxRouesElec).Add(e.BusElec)

	e.PlBatterie = cfg.PoidsLourdsTwh.Mul(cfg.PlBatterieFraction).Mul(cfg.PlBatterieFacteur)
	e.PlHydrogene = cfg.PoidsLourdsTwh.Mul(cfg.PlHydrogeneFraction).Mul(cfg.PlHydrogeneFacteur)
	e.PlFossile = cfg.PoidsLourdsTwh.Mul(cfg.PlFossileResiduelFraction)
	e.VulElec = cfg.VulTwh.Mul(cfg.VulElectrifiableFraction).Mul(cfg.VulFacteurElec)
	e.VulFossile = cfg.VulTwh.Mul(un.Sub(cfg.VulElectrifiableFraction))
	e.RoutierFretElec = e.PlBatterie.Add(e.PlHydrogene).Add(e.VulElec)
	e.RoutierFretFossile = e.PlFossile.Add(e.VulFossile)

	railDiesel := cfg.RailTotalTwh.Mul(un.Sub(cfg.RailElectriqueFraction))
	e.RailElec = cfg.RailTotalTwh.Mul(cfg.RailElectriqueFraction).
		Add(railDiesel.Mul(cfg.RailDieselElecFraction).Mul(cfg.RailEfficaciteElec)).
		Add(railDiesel.Mul(un.Sub(cfg.RailDieselElecFraction)))

	kerosene := cfg.AviationDomestiqueTwh.
		Mul(un.Sub(cfg.AviationReportTgvFraction)).
		Add(cfg.AviationInternationalTwh)
	e.AviationSaf = kerosene.Mul(cfg.AviationSafFraction).Mul(cfg.AviationSafFacteurElec)
	e.AviationFossile = kerosene.Mul(un.Sub(cfg.AviationSafFraction))

	e.MaritimeElec = cfg.MaritimeTwh.Mul(cfg.MaritimeElecFraction).Mul(cfg.MaritimeElecFacteur)
	e.MaritimeFossile = cfg.MaritimeTwh.Mul(un.Sub(cfg.MaritimeElecFraction))
	e.FluvialElec = cfg.FluvialTwh.Mul(cfg.FluvialElecFraction).Mul(cfg.FluvialElecFacteur)
	e.FluvialFossile = cfg.FluvialTwh.Mul(un.Sub(cfg.FluvialElecFraction))

	e.TotalElec = e.RoutierPassagersElec.
		Add(e.RoutierFretElec).
		Add(e.RailElec).
		Add(e.AviationSaf).
		Add(e.MaritimeElec).
		Add(e.FluvialElec)
	e.TotalFossile = e.RoutierFretFossile.
		Add(e.AviationFossile).
		Add(e.MaritimeFossile).
		Add(e.FluvialFossile)
	return e
}

// DirectElec is the grid electricity drawn through chargers and shore
// power. Rail and SAF synthesis are excluded and handled as a flat band.
func (e Electrifie) DirectElec() decimal.Decimal {
	return e.RoutierPassagersElec.
		Add(e.RoutierFretElec).
		Add(e.MaritimeElec).
		Add(e.FluvialElec)
}

// =============================================================================
// CHARGING DEMAND
// =============================================================================

// DemandeRechargeTWh is the annual charging energy landing in one time
// slot, the direct grid demand weighted by the charging profile.
func DemandeRechargeTWh(cfg scenario.Transport, plage string) (decimal.Decimal, error) {
	coeff, ok := cfg.ProfilRecharge[plage]
	if !ok {
		return decimal.Zero, fmt.Errorf("transport: no charging share for slot %q", plage)
	}
	return ConsommationElectrifiee(cfg).DirectElec().Mul(coeff), nil
}

// PuissanceSlotKW is the average transport draw during one slot, in kW.
// The charging energy is spread over the slot's hours across 365 days,
// then the rail and SAF demand is added as a flat year-round band.
func PuissanceSlotKW(cfg scenario.Transport, plage string) (decimal.Decimal, error) {
	hours, ok := scenario.SlotHours(plage)
	if !ok {
		return decimal.Zero, fmt.Errorf("transport: unknown slot %q", plage)
	}
	rechargeTwh, err := DemandeRechargeTWh(cfg, plage)
	if err != nil {
		return decimal.Zero, err
	}
	e := ConsommationElectrifiee(cfg)
	recharge := rechargeTwh.Mul(milliard).Div(decimal.NewFromInt(int64(hours) * 365))
	flat := e.RailElec.Add(e.AviationSaf).Mul(milliard).Div(annuel)
	return recharge.Add(flat), nil
}

// =============================================================================
// EFFECTIVE FACTORS AND BALANCE
// =============================================================================

// Facteurs condenses the mode-by-mode path into the legacy global
// electrification ratios.
type Facteurs struct {
	Passagers decimal.Decimal
	Fret      decimal.Decimal
	Global    decimal.Decimal
}

// FacteursEffectifs divides electrified demand by today's demand per
// segment.
func FacteursEffectifs(cfg scenario.Transport) Facteurs {
	a := ConsommationActuelle(cfg)
	e := ConsommationElectrifiee(cfg)
	return Facteurs{
		Passagers: e.RoutierPassagersElec.Div(a.RoutierPassagers),
		Fret:      e.RoutierFretElec.Div(a.RoutierFret),
		Global:    e.TotalElec.Div(a.Total),
	}
}

// Bilan is the sector-level summary used by the electrification balance
// sheet.
type Bilan struct {
	ConsoActuelle    decimal.Decimal
	ConsoElectrifiee decimal.Decimal
	FossileResiduel  decimal.Decimal
	Reduction        decimal.Decimal
	FractionEvitee   decimal.Decimal
	Facteurs         Facteurs
}

// BilanTransport closes the sector balance: what disappears through
// efficiency is the gap between today's total and the two target columns.
func BilanTransport(cfg scenario.Transport) Bilan {
	a := ConsommationActuelle(cfg)
	e := ConsommationElectrifiee(cfg)
	return Bilan{
		ConsoActuelle:    a.Total,
		ConsoElectrifiee: e.TotalElec,
		FossileResiduel:  e.TotalFossile,
		Reduction:        a.Total.Sub(e.TotalElec).Sub(e.TotalFossile),
		FractionEvitee:   un.Sub(e.TotalFossile.Div(a.Total)),
		Facteurs:         FacteursEffectifs(cfg),
	}
}
