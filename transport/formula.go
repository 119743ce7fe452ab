/*
formula.go - Transport electrification as spreadsheet expressions

PURPOSE:
  Rebuilds the electrification chain as formula trees over parameter
  references. The direct, rail and SAF expressions are the three building
  blocks: the per-slot charging formulas and the balance-sheet rows all
  compose them, so a reader can audit one chain instead of sixty cells.

USAGE:
  res := engine.NewResolver(reg, scenario.ParamTable)
  direct, err := transport.DirectElecFormula(res)
  slot, err := transport.SlotFormula(res, "18h-20h")

SEE ALSO:
  - model.go: The native arithmetic these expressions mirror
  - scenario/declarations.go: The tr_* knobs referenced here
*/
package transport

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/engine"
	"github.com/terrawatt/balance-engine/scenario"
)

// =============================================================================
// EXPRESSION BUILDERS
// =============================================================================

func one() engine.Expr { return engine.Int(1) }

// keroseneFormula is the fuel volume subject to SAF substitution: domestic
// aviation after the TGV shift, plus international aviation.
func keroseneFormula(res *engine.Resolver) engine.Expr {
	return engine.Add(
		engine.Mul(
			res.Knob("tr_aviation_domestique_twh"),
			engine.Sub(one(), res.Knob("tr_aviation_report_tgv_fraction")),
		),
		res.Knob("tr_aviation_international_twh"),
	)
}

// DirectElecFormula is the grid electricity drawn through chargers and
// shore power: road passengers, road freight, maritime and fluvial.
func DirectElecFormula(res *engine.Resolver) engine.Expr {
	return engine.AddN(
		engine.MulN(
			res.Knob("tr_voitures_twh"),
			engine.Sub(one(), res.Knob("tr_gain_sobriete_fraction")),
			engine.Sub(one(), res.Knob("tr_report_modal_fraction")),
			res.Knob("tr_voitures_facteur_elec"),
		),
		engine.Mul(res.Knob("tr_deux_roues_twh"), res.Knob("tr_deux_roues_facteur_elec")),
		engine.Mul(res.Knob("tr_bus_cars_twh"), res.Knob("tr_bus_facteur_elec")),
		engine.MulN(
			res.Knob("tr_poids_lourds_twh"),
			res.Knob("tr_pl_batterie_fraction"),
			res.Knob("tr_pl_batterie_facteur"),
		),
		engine.MulN(
			res.Knob("tr_poids_lourds_twh"),
			res.Knob("tr_pl_hydrogene_fraction"),
			res.Knob("tr_pl_hydrogene_facteur"),
		),
		engine.MulN(
			res.Knob("tr_vul_twh"),
			res.Knob("tr_vul_electrifiable_fraction"),
			res.Knob("tr_vul_facteur_elec"),
		),
		engine.MulN(
			res.Knob("tr_maritime_twh"),
			res.Knob("tr_maritime_elec_fraction"),
			res.Knob("tr_maritime_elec_facteur"),
		),
		engine.MulN(
			res.Knob("tr_fluvial_twh"),
			res.Knob("tr_fluvial_elec_fraction"),
			res.Knob("tr_fluvial_elec_facteur"),
		),
	)
}

// RailElecFormula keeps the three rail terms visible: already electric,
// electrified diesel, and the residual diesel left inside the total.
func RailElecFormula(res *engine.Resolver) engine.Expr {
	rail := res.Knob("tr_rail_total_twh")
	dieselPart := engine.Sub(one(), res.Knob("tr_rail_electrique_fraction"))
	return engine.AddN(
		engine.Mul(rail, res.Knob("tr_rail_electrique_fraction")),
		engine.MulN(rail, dieselPart,
			res.Knob("tr_rail_diesel_elec_fraction"),
			res.Knob("tr_rail_efficacite_elec"),
		),
		engine.MulN(rail, dieselPart,
			engine.Sub(one(), res.Knob("tr_rail_diesel_elec_fraction")),
		),
	)
}

// SafElecFormula is the electricity consumed synthesizing aviation fuel.
func SafElecFormula(res *engine.Resolver) engine.Expr {
	return engine.MulN(
		keroseneFormula(res),
		res.Knob("tr_aviation_saf_fraction"),
		res.Knob("tr_aviation_saf_facteur_elec"),
	)
}

// TotalElecFormula is the whole sector's electric demand.
func TotalElecFormula(res *engine.Resolver) engine.Expr {
	return engine.AddN(DirectElecFormula(res), RailElecFormula(res), SafElecFormula(res))
}

// FossileFormula is the residual fossil fuel: untransformed trucks and
// vans, non-SAF kerosene, and the non-electrifiable maritime and fluvial
// shares.
func FossileFormula(res *engine.Resolver) engine.Expr {
	return engine.AddN(
		engine.Mul(res.Knob("tr_poids_lourds_twh"), res.Knob("tr_pl_fossile_residuel_fraction")),
		engine.Mul(res.Knob("tr_vul_twh"),
			engine.Sub(one(), res.Knob("tr_vul_electrifiable_fraction"))),
		engine.Mul(keroseneFormula(res),
			engine.Sub(one(), res.Knob("tr_aviation_saf_fraction"))),
		engine.Mul(res.Knob("tr_maritime_twh"),
			engine.Sub(one(), res.Knob("tr_maritime_elec_fraction"))),
		engine.Mul(res.Knob("tr_fluvial_twh"),
			engine.Sub(one(), res.Knob("tr_fluvial_elec_fraction"))),
	)
}

// SlotFormula is the average draw during one slot in kW: charging energy
// over the slot's hours across the year, plus the flat rail and SAF band.
func SlotFormula(res *engine.Resolver, plage string) (engine.Expr, error) {
	hours, ok := scenario.SlotHours(plage)
	if !ok {
		return nil, fmt.Errorf("transport: unknown slot %q", plage)
	}
	recharge := engine.Div(
		engine.Mul(
			engine.Mul(DirectElecFormula(res), res.Knob(scenario.TrProfilKnob(plage))),
			engine.Int(1_000_000_000),
		),
		engine.Int(int64(hours)*365),
	)
	flat := engine.Div(
		engine.Mul(
			engine.Add(RailElecFormula(res), SafElecFormula(res)),
			engine.Int(1_000_000_000),
		),
		engine.Int(8760),
	)
	return engine.Add(recharge, flat), nil
}

// =============================================================================
// CHECKER QUANTITIES
// =============================================================================

var directKnobs = []string{
	"tr_voitures_twh", "tr_gain_sobriete_fraction", "tr_report_modal_fraction",
	"tr_voitures_facteur_elec",
	"tr_deux_roues_twh", "tr_deux_roues_facteur_elec",
	"tr_bus_cars_twh", "tr_bus_facteur_elec",
	"tr_poids_lourds_twh", "tr_pl_batterie_fraction", "tr_pl_batterie_facteur",
	"tr_pl_hydrogene_fraction", "tr_pl_hydrogene_facteur",
	"tr_vul_twh", "tr_vul_electrifiable_fraction", "tr_vul_facteur_elec",
	"tr_maritime_twh", "tr_maritime_elec_fraction", "tr_maritime_elec_facteur",
	"tr_fluvial_twh", "tr_fluvial_elec_fraction", "tr_fluvial_elec_facteur",
}

var railKnobs = []string{
	"tr_rail_total_twh", "tr_rail_electrique_fraction",
	"tr_rail_diesel_elec_fraction", "tr_rail_efficacite_elec",
}

var safKnobs = []string{
	"tr_aviation_domestique_twh", "tr_aviation_report_tgv_fraction",
	"tr_aviation_international_twh", "tr_aviation_saf_fraction",
	"tr_aviation_saf_facteur_elec",
}

var fossileKnobs = []string{
	"tr_poids_lourds_twh", "tr_pl_fossile_residuel_fraction",
	"tr_vul_twh", "tr_vul_electrifiable_fraction",
	"tr_aviation_domestique_twh", "tr_aviation_report_tgv_fraction",
	"tr_aviation_international_twh", "tr_aviation_saf_fraction",
	"tr_maritime_twh", "tr_maritime_elec_fraction",
	"tr_fluvial_twh", "tr_fluvial_elec_fraction",
}

func joinKnobs(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func nativeTransport(s engine.Sample) scenario.Transport {
	return scenario.BundleFrom(s).Transport
}

// twhTolerance keeps energy identities tight. The chains are pure sums and
// products, so both renditions agree to the last digit.
var twhTolerance = decimal.New(1, -6)

// Quantities returns the checker coverage for this package: the three
// chain totals, the residual fossil column, and every charging slot.
func Quantities() []engine.Quantity {
	twhQuantity := func(name string, knobs []string,
		native func(Electrifie) decimal.Decimal,
		build func(*engine.Resolver) engine.Expr,
	) engine.Quantity {
		return engine.Quantity{
			Name:      name,
			Table:     scenario.ParamTable,
			Unit:      "TWh",
			Tolerance: twhTolerance,
			Knobs:     knobs,
			Native: func(s engine.Sample) (decimal.Decimal, error) {
				return native(ConsommationElectrifiee(nativeTransport(s))), nil
			},
			Build: func(res *engine.Resolver) (engine.Expr, error) {
				return build(res), nil
			},
		}
	}

	quantities := []engine.Quantity{
		twhQuantity("transport_direct_elec_twh", directKnobs,
			Electrifie.DirectElec, DirectElecFormula),
		twhQuantity("transport_rail_elec_twh", railKnobs,
			func(e Electrifie) decimal.Decimal { return e.RailElec }, RailElecFormula),
		twhQuantity("transport_saf_elec_twh", safKnobs,
			func(e Electrifie) decimal.Decimal { return e.AviationSaf }, SafElecFormula),
		twhQuantity("transport_fossile_residuel_twh", fossileKnobs,
			func(e Electrifie) decimal.Decimal { return e.TotalFossile }, FossileFormula),
	}

	for _, slot := range scenario.Slots {
		plage := slot.Name
		quantities = append(quantities, engine.Quantity{
			Name:  fmt.Sprintf("transport_%s_kw", plage),
			Table: scenario.ParamTable,
			Unit:  "kW",
			Knobs: joinKnobs(directKnobs, railKnobs, safKnobs,
				[]string{scenario.TrProfilKnob(plage)}),
			Native: func(s engine.Sample) (decimal.Decimal, error) {
				return PuissanceSlotKW(nativeTransport(s), plage)
			},
			Build: func(res *engine.Resolver) (engine.Expr, error) {
				return SlotFormula(res, plage)
			},
		})
	}
	return quantities
}
