/*
declarations.go - The explicit knob table

PURPOSE:
  Binds every config field to a named knob: declaration metadata for the
  parameter table plus getter/setter accessors on the Bundle. This table IS
  the registry content; there is no reflection anywhere. Adding a config
  field means adding a declaration here, and the completeness test fails
  until you do.

ORDERING CONTRACT:
  Declaration order fixes parameter rows forever. The first 13 entries are
  load-bearing: the synthesis table references their rows directly
  (solar_gwc_centrales on B5 through jours_par_mois on B11). New knobs go
  at the END of their section, new sections at the END of the table.

MAP EXPANSION:
  Map-valued fields expand to one knob per key in calendar/slot/breakpoint
  order, FieldRef "<field>:<key>". Display names follow the house scheme:
  accents stripped, slot dashes dropped, negative temperatures prefixed
  with "m" (cop_t_m15).

SEE ALSO:
  - config.go: The structs these accessors reach into
  - scenario.go: YAML overrides applied through SetKnob
*/
package scenario

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/engine"
)

// ParamTable is the name of the parameter table in every exported document.
const ParamTable = "parametres"

// spec couples one declaration with its Bundle accessors. A spec with a
// category label is a marker row and has no accessors.
type spec struct {
	category string
	knob     engine.Knob
	get      func(*Bundle) decimal.Decimal
	set      func(*Bundle, decimal.Decimal)
}

var specs = buildSpecs()

var specIndex = func() map[string]spec {
	idx := make(map[string]spec, len(specs))
	for _, s := range specs {
		if s.category == "" {
			idx[s.knob.Name] = s
		}
	}
	return idx
}()

// =============================================================================
// PUBLIC SURFACE
// =============================================================================

// Entries returns the full ordered declaration list.
func Entries() []engine.Entry {
	out := make([]engine.Entry, 0, len(specs))
	for _, s := range specs {
		if s.category != "" {
			out = append(out, engine.CategoryMarker{Label: s.category})
		} else {
			out = append(out, s.knob)
		}
	}
	return out
}

// NewRegistry builds the parameter registry from the declarations.
func NewRegistry() (*engine.Registry, error) {
	return engine.NewRegistry(ParamTable, Entries())
}

// KnobValue implements engine.ValueProvider over the bundle.
func (b *Bundle) KnobValue(name string) (decimal.Decimal, bool) {
	s, ok := specIndex[name]
	if !ok {
		return decimal.Zero, false
	}
	return s.get(b), true
}

var _ engine.ValueProvider = (*Bundle)(nil)

// SetKnob writes one knob value into the bundle. Unknown names fail; a
// silently dropped override would ship a document that lies about its
// scenario.
func (b *Bundle) SetKnob(name string, v decimal.Decimal) error {
	s, ok := specIndex[name]
	if !ok {
		return &engine.UnknownKnobError{Name: name, Where: "scenario override"}
	}
	s.set(b, v)
	return nil
}

// Sample captures the bundle's complete knob valuation.
func (b *Bundle) Sample() engine.Sample {
	out := make(engine.Sample, len(specIndex))
	for name, s := range specIndex {
		out[name] = s.get(b)
	}
	return out
}

// BundleFrom builds a bundle from a sample: defaults overlaid with every
// known knob in the sample. Checker perturbations reach native code this
// way.
func BundleFrom(sample engine.Sample) *Bundle {
	b := Default()
	for name, v := range sample {
		if s, ok := specIndex[name]; ok {
			s.set(b, v)
		}
	}
	return b
}

// =============================================================================
// NAME SLUGS
// =============================================================================

var accentReplacer = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "à", "a", "â", "a",
	"û", "u", "ù", "u", "î", "i", "ô", "o", "ç", "c",
)

// monthSlug lowercases a month and strips accents: Février -> fevrier.
func monthSlug(mois string) string {
	return accentReplacer.Replace(strings.ToLower(mois))
}

// slotSlug drops the dash from a slot name: 8h-13h -> 8h13h.
func slotSlug(plage string) string {
	return strings.ReplaceAll(plage, "-", "")
}

// tempSlug renders a breakpoint temperature: -15 -> m15, 5 -> 5.
func tempSlug(at decimal.Decimal) string {
	if at.IsNegative() {
		return "m" + at.Neg().String()
	}
	return at.String()
}

// TempExtKnob names the outdoor-temperature knob of a month.
func TempExtKnob(mois string) string { return "temp_ext_" + monthSlug(mois) }

// CopKnob names the COP knob at a breakpoint temperature.
func CopKnob(at decimal.Decimal) string { return "cop_t_" + tempSlug(at) }

// CoeffPlageKnob names the heating modulation knob of a slot.
func CoeffPlageKnob(plage string) string { return "coeff_plage_" + slotSlug(plage) }

// TrProfilKnob names the charging-share knob of a slot.
func TrProfilKnob(plage string) string { return "tr_profil_" + slotSlug(plage) }

// AgriProfilKnob names the seasonal-weight knob of a month.
func AgriProfilKnob(mois string) string { return "agri_profil_" + monthSlug(mois) }

// =============================================================================
// THE TABLE
// =============================================================================

func cat(label string) spec { return spec{category: label} }

func buildSpecs() []spec {
	var out []spec
	out = append(out, prefixSpecs()...)
	out = append(out, cat("PRODUCTION — références"))
	out = append(out, productionExtraSpecs()...)
	out = append(out, cat("CONSOMMATION — facteurs hérités"))
	out = append(out, consumptionSpecs()...)
	out = append(out, cat("STOCKAGE"))
	out = append(out, storageSpecs()...)
	out = append(out, cat("FINANCES"))
	out = append(out, financialSpecs()...)
	out = append(out, cat("CHAUFFAGE — modèle thermique"))
	out = append(out, heatingScalarSpecs()...)
	out = append(out, cat("CHAUFFAGE — températures extérieures"))
	out = append(out, heatingTemperatureSpecs()...)
	out = append(out, cat("CHAUFFAGE — COP pompe à chaleur"))
	out = append(out, heatingCopSpecs()...)
	out = append(out, cat("CHAUFFAGE — coefficients de plage"))
	out = append(out, heatingSlotSpecs()...)
	out = append(out, cat("TRANSPORT"))
	out = append(out, transportSpecs()...)
	out = append(out, cat("TRANSPORT — profil de recharge"))
	out = append(out, transportProfileSpecs()...)
	out = append(out, cat("INDUSTRIE"))
	out = append(out, industrieSpecs()...)
	out = append(out, cat("TERTIAIRE"))
	out = append(out, tertiaireSpecs()...)
	out = append(out, cat("AGRICULTURE"))
	out = append(out, agricultureSpecs()...)
	out = append(out, agricultureProfileSpecs()...)
	return out
}

// prefixSpecs declares the 13 frozen leading knobs. The synthesis table
// references their rows by number; reordering them breaks every exported
// document.
func prefixSpecs() []spec {
	return []spec{
		{
			knob: engine.Knob{Name: "solar_gwc_maisons", Default: dec(200), Unit: "GWc",
				Source: "scénario v0.8", Description: "PV sur maisons individuelles",
				ConfigClass: "Production", FieldRef: "solar_gwc_maisons"},
			get: func(b *Bundle) decimal.Decimal { return b.Production.SolarGwcMaisons },
			set: func(b *Bundle, v decimal.Decimal) { b.Production.SolarGwcMaisons = v },
		},
		{
			knob: engine.Knob{Name: "solar_gwc_collectif", Default: dec(50), Unit: "GWc",
				Source: "scénario v0.8", Description: "PV sur bâtiments collectifs",
				ConfigClass: "Production", FieldRef: "solar_gwc_collectif"},
			get: func(b *Bundle) decimal.Decimal { return b.Production.SolarGwcCollectif },
			set: func(b *Bundle, v decimal.Decimal) { b.Production.SolarGwcCollectif = v },
		},
		{
			knob: engine.Knob{Name: "solar_gwc_centrales", Default: dec(250), Unit: "GWc",
				Source: "scénario v0.8", Description: "PV en centrales au sol",
				ConfigClass: "Production", FieldRef: "solar_gwc_centrales"},
			get: func(b *Bundle) decimal.Decimal { return b.Production.SolarGwcCentrales },
			set: func(b *Bundle, v decimal.Decimal) { b.Production.SolarGwcCentrales = v },
		},
		{
			// Aliased by the heating model: one knob drives both fields so
			// the thermal natives and the synthesis formulas always agree.
			knob: engine.Knob{Name: "nombre_maisons", Default: dec(20_000_000), Unit: "logements",
				Source: "parc statistique", Description: "Maisons équipées (PV et chauffage)",
				ConfigClass: "Production", FieldRef: "nombre_maisons"},
			get: func(b *Bundle) decimal.Decimal { return b.Production.NombreMaisons },
			set: func(b *Bundle, v decimal.Decimal) {
				b.Production.NombreMaisons = v
				b.Heating.NombreMaisons = v
			},
		},
		{
			knob: engine.Knob{Name: "nombre_collectifs", Default: dec(10_000_000), Unit: "logements",
				Source: "parc statistique", Description: "Logements collectifs équipés",
				ConfigClass: "Production", FieldRef: "nombre_collectifs"},
			get: func(b *Bundle) decimal.Decimal { return b.Production.NombreCollectifs },
			set: func(b *Bundle, v decimal.Decimal) { b.Production.NombreCollectifs = v },
		},
		{
			knob: engine.Knob{Name: "kwc_par_maison", Default: dec(10), Unit: "kWc",
				Source: "scénario v0.8", Description: "Puissance crête par maison",
				ConfigClass: "Production", FieldRef: "kwc_par_maison"},
			get: func(b *Bundle) decimal.Decimal { return b.Production.KwcParMaison },
			set: func(b *Bundle, v decimal.Decimal) { b.Production.KwcParMaison = v },
		},
		{
			knob: engine.Knob{Name: "kwc_par_collectif", Default: dec(5), Unit: "kWc",
				Source: "scénario v0.8", Description: "Puissance crête par logement collectif",
				ConfigClass: "Production", FieldRef: "kwc_par_collectif"},
			get: func(b *Bundle) decimal.Decimal { return b.Production.KwcParCollectif },
			set: func(b *Bundle, v decimal.Decimal) { b.Production.KwcParCollectif = v },
		},
		{
			knob: engine.Knob{Name: "cop_pac", Default: dec(2.0), Unit: "ratio",
				Source: "hypothèse PAC", Description: "COP moyen des pompes à chaleur (agrégat)",
				ConfigClass: "Consumption", FieldRef: "heat_pump_cop"},
			get: func(b *Bundle) decimal.Decimal { return b.Consumption.HeatPumpCOP },
			set: func(b *Bundle, v decimal.Decimal) { b.Consumption.HeatPumpCOP = v },
		},
		{
			knob: engine.Knob{Name: "jours_par_mois", Default: dec(30), Unit: "jours",
				Source: "convention", Description: "Durée conventionnelle d'un mois",
				ConfigClass: "Temporal", FieldRef: "jours_par_mois"},
			get: func(b *Bundle) decimal.Decimal { return b.Temporal.JoursParMois },
			set: func(b *Bundle, v decimal.Decimal) { b.Temporal.JoursParMois = v },
		},
		{
			knob: engine.Knob{Name: "solar_capacity_gwc", Default: dec(500), Unit: "GWc",
				Source: "scénario v0.8", Description: "Parc solaire total cible",
				ConfigClass: "Production", FieldRef: "solar_capacity_gwc"},
			get: func(b *Bundle) decimal.Decimal { return b.Production.SolarCapacityGwc },
			set: func(b *Bundle, v decimal.Decimal) { b.Production.SolarCapacityGwc = v },
		},
		{
			knob: engine.Knob{Name: "nuclear_min_gw", Default: dec(30), Unit: "GW",
				Source: "RTE", Description: "Plancher de modulation nucléaire",
				ConfigClass: "Production", FieldRef: "nuclear_min_gw"},
			get: func(b *Bundle) decimal.Decimal { return b.Production.NuclearMinGw },
			set: func(b *Bundle, v decimal.Decimal) { b.Production.NuclearMinGw = v },
		},
		{
			knob: engine.Knob{Name: "nuclear_max_gw", Default: dec(50), Unit: "GW",
				Source: "RTE", Description: "Plafond de modulation nucléaire",
				ConfigClass: "Production", FieldRef: "nuclear_max_gw"},
			get: func(b *Bundle) decimal.Decimal { return b.Production.NuclearMaxGw },
			set: func(b *Bundle, v decimal.Decimal) { b.Production.NuclearMaxGw = v },
		},
		{
			knob: engine.Knob{Name: "hydro_avg_gw", Default: dec(7.5), Unit: "GW",
				Source: "RTE", Description: "Production hydraulique moyenne",
				ConfigClass: "Production", FieldRef: "hydro_avg_gw"},
			get: func(b *Bundle) decimal.Decimal { return b.Production.HydroAvgGw },
			set: func(b *Bundle, v decimal.Decimal) { b.Production.HydroAvgGw = v },
		},
	}
}

func productionExtraSpecs() []spec {
	return []spec{
		{
			knob: engine.Knob{Name: "solar_capacity_current_gwc", Default: dec(20), Unit: "GWc",
				Source: "RTE", Description: "Parc solaire installé aujourd'hui",
				ConfigClass: "Production", FieldRef: "solar_capacity_current_gwc"},
			get: func(b *Bundle) decimal.Decimal { return b.Production.SolarCapacityCurrentGwc },
			set: func(b *Bundle, v decimal.Decimal) { b.Production.SolarCapacityCurrentGwc = v },
		},
		{
			knob: engine.Knob{Name: "prod_base_max_gw", Default: dec(65), Unit: "GW",
				Source: "RTE", Description: "Production pilotable maximale",
				ConfigClass: "Production", FieldRef: "prod_base_max_gw"},
			get: func(b *Bundle) decimal.Decimal { return b.Production.ProdBaseMaxGw },
			set: func(b *Bundle, v decimal.Decimal) { b.Production.ProdBaseMaxGw = v },
		},
		{
			knob: engine.Knob{Name: "prod_solaire_max_gw", Default: dec(150), Unit: "GW",
				Source: "scénario v0.8", Description: "Pointe solaire maximale retenue",
				ConfigClass: "Production", FieldRef: "prod_solaire_max_gw"},
			get: func(b *Bundle) decimal.Decimal { return b.Production.ProdSolaireMaxGw },
			set: func(b *Bundle, v decimal.Decimal) { b.Production.ProdSolaireMaxGw = v },
		},
	}
}

func consumptionSpecs() []spec {
	return []spec{
		{
			knob: engine.Knob{Name: "residential_heating_fraction", Default: dec(0.67), Unit: "fraction",
				Source: "SDES", Description: "Part du chauffage dans le résidentiel",
				ConfigClass: "Consumption", FieldRef: "residential_heating_fraction"},
			get: func(b *Bundle) decimal.Decimal { return b.Consumption.ResidentialHeatingFraction },
			set: func(b *Bundle, v decimal.Decimal) { b.Consumption.ResidentialHeatingFraction = v },
		},
		{
			knob: engine.Knob{Name: "transport_freight_factor", Default: dec(0.4), Unit: "fraction",
				Source: "SDES", Description: "Facteur agrégé fret (hérité)",
				ConfigClass: "Consumption", FieldRef: "transport_freight_factor"},
			get: func(b *Bundle) decimal.Decimal { return b.Consumption.TransportFreightFactor },
			set: func(b *Bundle, v decimal.Decimal) { b.Consumption.TransportFreightFactor = v },
		},
		{
			knob: engine.Knob{Name: "transport_passenger_factor", Default: dec(0.2), Unit: "fraction",
				Source: "SDES", Description: "Facteur agrégé passagers (hérité)",
				ConfigClass: "Consumption", FieldRef: "transport_passenger_factor"},
			get: func(b *Bundle) decimal.Decimal { return b.Consumption.TransportPassengerFactor },
			set: func(b *Bundle, v decimal.Decimal) { b.Consumption.TransportPassengerFactor = v },
		},
	}
}

func storageSpecs() []spec {
	return []spec{
		{
			knob: engine.Knob{Name: "battery_efficiency", Default: dec(0.85), Unit: "ratio",
				Source: "hypothèse stockage", Description: "Rendement aller-retour batteries",
				ConfigClass: "Storage", FieldRef: "battery_efficiency"},
			get: func(b *Bundle) decimal.Decimal { return b.Storage.BatteryEfficiency },
			set: func(b *Bundle, v decimal.Decimal) { b.Storage.BatteryEfficiency = v },
		},
		{
			knob: engine.Knob{Name: "step_grandmaison_gwh", Default: dec(5), Unit: "GWh",
				Source: "EDF", Description: "Capacité STEP Grand'Maison",
				ConfigClass: "Storage", FieldRef: "step_grandmaison_gwh"},
			get: func(b *Bundle) decimal.Decimal { return b.Storage.StepGrandmaisonGwh },
			set: func(b *Bundle, v decimal.Decimal) { b.Storage.StepGrandmaisonGwh = v },
		},
		{
			knob: engine.Knob{Name: "moss_landing_gwh", Default: dec(3), Unit: "GWh",
				Source: "référence batteries", Description: "Capacité batterie type Moss Landing",
				ConfigClass: "Storage", FieldRef: "moss_landing_gwh"},
			get: func(b *Bundle) decimal.Decimal { return b.Storage.MossLandingGwh },
			set: func(b *Bundle, v decimal.Decimal) { b.Storage.MossLandingGwh = v },
		},
		{
			knob: engine.Knob{Name: "france_step_total_gwh", Default: dec(100), Unit: "GWh",
				Source: "EDF", Description: "Capacité STEP totale France",
				ConfigClass: "Storage", FieldRef: "france_step_total_gwh"},
			get: func(b *Bundle) decimal.Decimal { return b.Storage.FranceStepTotalGwh },
			set: func(b *Bundle, v decimal.Decimal) { b.Storage.FranceStepTotalGwh = v },
		},
	}
}

func financialSpecs() []spec {
	return []spec{
		{
			knob: engine.Knob{Name: "gas_cost_eur_per_mwh", Default: dec(90), Unit: "EUR/MWh",
				Source: "hypothèse coûts", Description: "Coût du gaz de bouclage",
				ConfigClass: "Financial", FieldRef: "gas_cost_eur_per_mwh"},
			get: func(b *Bundle) decimal.Decimal { return b.Financial.GasCostEurPerMwh },
			set: func(b *Bundle, v decimal.Decimal) { b.Financial.GasCostEurPerMwh = v },
		},
		{
			knob: engine.Knob{Name: "solar_capex_eur_per_kw", Default: dec(600), Unit: "EUR/kW",
				Source: "hypothèse coûts", Description: "CAPEX solaire par kW installé",
				ConfigClass: "Financial", FieldRef: "solar_capex_eur_per_kw"},
			get: func(b *Bundle) decimal.Decimal { return b.Financial.SolarCapexEurPerKw },
			set: func(b *Bundle, v decimal.Decimal) { b.Financial.SolarCapexEurPerKw = v },
		},
		{
			knob: engine.Knob{Name: "storage_capex_eur_per_kwh", Default: dec(200), Unit: "EUR/kWh",
				Source: "hypothèse coûts", Description: "CAPEX stockage par kWh",
				ConfigClass: "Financial", FieldRef: "storage_capex_eur_per_kwh"},
			get: func(b *Bundle) decimal.Decimal { return b.Financial.StorageCapexEurPerKwh },
			set: func(b *Bundle, v decimal.Decimal) { b.Financial.StorageCapexEurPerKwh = v },
		},
		{
			knob: engine.Knob{Name: "solar_lifetime_years", Default: dec(30), Unit: "années",
				Source: "hypothèse coûts", Description: "Durée de vie du solaire",
				ConfigClass: "Financial", FieldRef: "solar_lifetime_years"},
			get: func(b *Bundle) decimal.Decimal { return b.Financial.SolarLifetimeYears },
			set: func(b *Bundle, v decimal.Decimal) { b.Financial.SolarLifetimeYears = v },
		},
		{
			knob: engine.Knob{Name: "storage_lifetime_years", Default: dec(15), Unit: "années",
				Source: "hypothèse coûts", Description: "Durée de vie du stockage",
				ConfigClass: "Financial", FieldRef: "storage_lifetime_years"},
			get: func(b *Bundle) decimal.Decimal { return b.Financial.StorageLifetimeYears },
			set: func(b *Bundle, v decimal.Decimal) { b.Financial.StorageLifetimeYears = v },
		},
		{
			knob: engine.Knob{Name: "analysis_horizon_years", Default: dec(30), Unit: "années",
				Source: "hypothèse coûts", Description: "Horizon d'analyse économique",
				ConfigClass: "Financial", FieldRef: "analysis_horizon_years"},
			get: func(b *Bundle) decimal.Decimal { return b.Financial.AnalysisHorizonYears },
			set: func(b *Bundle, v decimal.Decimal) { b.Financial.AnalysisHorizonYears = v },
		},
	}
}

func heatingScalarSpecs() []spec {
	return []spec{
		{
			knob: engine.Knob{Name: "chauf_surface_moyenne_m2", Default: dec(120), Unit: "m²",
				Source: "parc statistique", Description: "Surface moyenne d'une maison",
				ConfigClass: "Heating", FieldRef: "surface_moyenne_m2"},
			get: func(b *Bundle) decimal.Decimal { return b.Heating.SurfaceMoyenneM2 },
			set: func(b *Bundle, v decimal.Decimal) { b.Heating.SurfaceMoyenneM2 = v },
		},
		{
			knob: engine.Knob{Name: "chauf_hauteur_plafond_m", Default: dec(2.5), Unit: "m",
				Source: "parc statistique", Description: "Hauteur sous plafond moyenne",
				ConfigClass: "Heating", FieldRef: "hauteur_plafond_m"},
			get: func(b *Bundle) decimal.Decimal { return b.Heating.HauteurPlafondM },
			set: func(b *Bundle, v decimal.Decimal) { b.Heating.HauteurPlafondM = v },
		},
		{
			knob: engine.Knob{Name: "chauf_coefficient_g", Default: dec(0.65), Unit: "W/(m³·K)",
				Source: "modèle thermique", Description: "Coefficient de déperdition G",
				ConfigClass: "Heating", FieldRef: "coefficient_g"},
			get: func(b *Bundle) decimal.Decimal { return b.Heating.CoefficientG },
			set: func(b *Bundle, v decimal.Decimal) { b.Heating.CoefficientG = v },
		},
		{
			knob: engine.Knob{Name: "chauf_temperature_int", Default: dec(19), Unit: "°C",
				Source: "convention", Description: "Température intérieure de consigne",
				ConfigClass: "Heating", FieldRef: "temperature_interieure"},
			get: func(b *Bundle) decimal.Decimal { return b.Heating.TemperatureInterieure },
			set: func(b *Bundle, v decimal.Decimal) { b.Heating.TemperatureInterieure = v },
		},
	}
}

func heatingTemperatureSpecs() []spec {
	out := make([]spec, 0, len(Months))
	for _, mois := range Months {
		m := mois
		out = append(out, spec{
			knob: engine.Knob{
				Name:        "temp_ext_" + monthSlug(m),
				Default:     DefaultHeating().TemperaturesExterieures[m],
				Unit:        "°C",
				Source:      "Météo France (normales)",
				Description: fmt.Sprintf("Température extérieure moyenne, %s", m),
				ConfigClass: "Heating",
				FieldRef:    "temperatures_exterieures:" + m,
			},
			get: func(b *Bundle) decimal.Decimal { return b.Heating.TemperaturesExterieures[m] },
			set: func(b *Bundle, v decimal.Decimal) { b.Heating.TemperaturesExterieures[m] = v },
		})
	}
	return out
}

func heatingCopSpecs() []spec {
	points := DefaultHeating().CopParTemperature
	out := make([]spec, 0, len(points))
	for _, p := range points {
		at := p.At
		out = append(out, spec{
			knob: engine.Knob{
				Name:        "cop_t_" + tempSlug(at),
				Default:     p.Value,
				Unit:        "ratio",
				Source:      "courbe constructeur",
				Description: fmt.Sprintf("COP pompe à chaleur à %s°C", at),
				ConfigClass: "Heating",
				FieldRef:    "cop_par_temperature:" + at.String(),
			},
			get: func(b *Bundle) decimal.Decimal {
				v, _ := b.Heating.CopValueAt(at)
				return v
			},
			set: func(b *Bundle, v decimal.Decimal) { b.Heating.SetCopValueAt(at, v) },
		})
	}
	return out
}

func heatingSlotSpecs() []spec {
	out := make([]spec, 0, len(Slots))
	for _, slot := range Slots {
		plage := slot.Name
		out = append(out, spec{
			knob: engine.Knob{
				Name:        "coeff_plage_" + slotSlug(plage),
				Default:     DefaultHeating().CoefficientsPlage[plage],
				Unit:        "ratio",
				Source:      "profil usage",
				Description: fmt.Sprintf("Modulation du chauffage, plage %s", plage),
				ConfigClass: "Heating",
				FieldRef:    "coefficients_plage:" + plage,
			},
			get: func(b *Bundle) decimal.Decimal { return b.Heating.CoefficientsPlage[plage] },
			set: func(b *Bundle, v decimal.Decimal) { b.Heating.CoefficientsPlage[plage] = v },
		})
	}
	return out
}

func transportSpecs() []spec {
	type field struct {
		name, ref, unit, desc string
		def                   float64
		get                   func(*Bundle) decimal.Decimal
		set                   func(*Bundle, decimal.Decimal)
	}
	fields := []field{
		{"tr_voitures_twh", "voitures_twh", "TWh/an", "Énergie actuelle des voitures", 200,
			func(b *Bundle) decimal.Decimal { return b.Transport.VoituresTwh },
			func(b *Bundle, v decimal.Decimal) { b.Transport.VoituresTwh = v }},
		{"tr_deux_roues_twh", "deux_roues_twh", "TWh/an", "Énergie actuelle des deux-roues", 10,
			func(b *Bundle) decimal.Decimal { return b.Transport.DeuxRouesTwh },
			func(b *Bundle, v decimal.Decimal) { b.Transport.DeuxRouesTwh = v }},
		{"tr_bus_cars_twh", "bus_cars_twh", "TWh/an", "Énergie actuelle des bus et cars", 15,
			func(b *Bundle) decimal.Decimal { return b.Transport.BusCarsTwh },
			func(b *Bundle, v decimal.Decimal) { b.Transport.BusCarsTwh = v }},
		{"tr_voitures_facteur_elec", "voitures_facteur_elec", "ratio", "Rendement électrique vs thermique, voitures", 0.33,
			func(b *Bundle) decimal.Decimal { return b.Transport.VoituresFacteurElec },
			func(b *Bundle, v decimal.Decimal) { b.Transport.VoituresFacteurElec = v }},
		{"tr_deux_roues_facteur_elec", "deux_roues_facteur_elec", "ratio", "Rendement électrique vs thermique, deux-roues", 0.33,
			func(b *Bundle) decimal.Decimal { return b.Transport.DeuxRouesFacteurElec },
			func(b *Bundle, v decimal.Decimal) { b.Transport.DeuxRouesFacteurElec = v }},
		{"tr_bus_facteur_elec", "bus_facteur_elec", "ratio", "Rendement électrique vs thermique, bus", 0.40,
			func(b *Bundle) decimal.Decimal { return b.Transport.BusFacteurElec },
			func(b *Bundle, v decimal.Decimal) { b.Transport.BusFacteurElec = v }},
		{"tr_report_modal_fraction", "report_modal_fraction", "fraction", "Report modal voiture vers train/vélo", 0.15,
			func(b *Bundle) decimal.Decimal { return b.Transport.ReportModalFraction },
			func(b *Bundle, v decimal.Decimal) { b.Transport.ReportModalFraction = v }},
		{"tr_poids_lourds_twh", "poids_lourds_twh", "TWh/an", "Énergie actuelle des poids lourds", 140,
			func(b *Bundle) decimal.Decimal { return b.Transport.PoidsLourdsTwh },
			func(b *Bundle, v decimal.Decimal) { b.Transport.PoidsLourdsTwh = v }},
		{"tr_vul_twh", "vul_twh", "TWh/an", "Énergie actuelle des utilitaires légers", 30,
			func(b *Bundle) decimal.Decimal { return b.Transport.VulTwh },
			func(b *Bundle, v decimal.Decimal) { b.Transport.VulTwh = v }},
		{"tr_pl_batterie_fraction", "pl_batterie_fraction", "fraction", "Poids lourds convertis batterie", 0.40,
			func(b *Bundle) decimal.Decimal { return b.Transport.PlBatterieFraction },
			func(b *Bundle, v decimal.Decimal) { b.Transport.PlBatterieFraction = v }},
		{"tr_pl_batterie_facteur", "pl_batterie_facteur", "ratio", "Rendement batterie poids lourds", 0.35,
			func(b *Bundle) decimal.Decimal { return b.Transport.PlBatterieFacteur },
			func(b *Bundle, v decimal.Decimal) { b.Transport.PlBatterieFacteur = v }},
		{"tr_pl_hydrogene_fraction", "pl_hydrogene_fraction", "fraction", "Poids lourds convertis hydrogène", 0.30,
			func(b *Bundle) decimal.Decimal { return b.Transport.PlHydrogeneFraction },
			func(b *Bundle, v decimal.Decimal) { b.Transport.PlHydrogeneFraction = v }},
		{"tr_pl_hydrogene_facteur", "pl_hydrogene_facteur", "ratio", "Électricité pour l'hydrogène poids lourds", 0.55,
			func(b *Bundle) decimal.Decimal { return b.Transport.PlHydrogeneFacteur },
			func(b *Bundle, v decimal.Decimal) { b.Transport.PlHydrogeneFacteur = v }},
		{"tr_pl_fossile_residuel_fraction", "pl_fossile_residuel_fraction", "fraction", "Poids lourds restant fossiles", 0.30,
			func(b *Bundle) decimal.Decimal { return b.Transport.PlFossileResiduelFraction },
			func(b *Bundle, v decimal.Decimal) { b.Transport.PlFossileResiduelFraction = v }},
		{"tr_vul_facteur_elec", "vul_facteur_elec", "ratio", "Rendement électrique utilitaires légers", 0.35,
			func(b *Bundle) decimal.Decimal { return b.Transport.VulFacteurElec },
			func(b *Bundle, v decimal.Decimal) { b.Transport.VulFacteurElec = v }},
		{"tr_vul_electrifiable_fraction", "vul_electrifiable_fraction", "fraction", "Utilitaires légers électrifiables", 0.90,
			func(b *Bundle) decimal.Decimal { return b.Transport.VulElectrifiableFraction },
			func(b *Bundle, v decimal.Decimal) { b.Transport.VulElectrifiableFraction = v }},
		{"tr_rail_total_twh", "rail_total_twh", "TWh/an", "Énergie totale du rail", 15,
			func(b *Bundle) decimal.Decimal { return b.Transport.RailTotalTwh },
			func(b *Bundle, v decimal.Decimal) { b.Transport.RailTotalTwh = v }},
		{"tr_rail_electrique_fraction", "rail_electrique_fraction", "fraction", "Part du rail déjà électrique", 0.80,
			func(b *Bundle) decimal.Decimal { return b.Transport.RailElectriqueFraction },
			func(b *Bundle, v decimal.Decimal) { b.Transport.RailElectriqueFraction = v }},
		{"tr_rail_diesel_elec_fraction", "rail_diesel_elec_fraction", "fraction", "Rail diesel électrifiable", 0.90,
			func(b *Bundle) decimal.Decimal { return b.Transport.RailDieselElecFraction },
			func(b *Bundle, v decimal.Decimal) { b.Transport.RailDieselElecFraction = v }},
		{"tr_rail_efficacite_elec", "rail_efficacite_elec", "ratio", "Rendement de l'électrification du rail diesel", 0.50,
			func(b *Bundle) decimal.Decimal { return b.Transport.RailEfficaciteElec },
			func(b *Bundle, v decimal.Decimal) { b.Transport.RailEfficaciteElec = v }},
		{"tr_aviation_domestique_twh", "aviation_domestique_twh", "TWh/an", "Kérosène aviation domestique", 8,
			func(b *Bundle) decimal.Decimal { return b.Transport.AviationDomestiqueTwh },
			func(b *Bundle, v decimal.Decimal) { b.Transport.AviationDomestiqueTwh = v }},
		{"tr_aviation_international_twh", "aviation_international_twh", "TWh/an", "Kérosène aviation internationale", 52,
			func(b *Bundle) decimal.Decimal { return b.Transport.AviationInternationalTwh },
			func(b *Bundle, v decimal.Decimal) { b.Transport.AviationInternationalTwh = v }},
		{"tr_aviation_report_tgv_fraction", "aviation_report_tgv_fraction", "fraction", "Vols domestiques reportés sur TGV", 0.40,
			func(b *Bundle) decimal.Decimal { return b.Transport.AviationReportTgvFraction },
			func(b *Bundle, v decimal.Decimal) { b.Transport.AviationReportTgvFraction = v }},
		{"tr_aviation_saf_fraction", "aviation_saf_fraction", "fraction", "Part de carburant de synthèse (SAF)", 0.30,
			func(b *Bundle) decimal.Decimal { return b.Transport.AviationSafFraction },
			func(b *Bundle, v decimal.Decimal) { b.Transport.AviationSafFraction = v }},
		{"tr_aviation_saf_facteur_elec", "aviation_saf_facteur_elec", "ratio", "Électricité par unité de SAF produite", 3.5,
			func(b *Bundle) decimal.Decimal { return b.Transport.AviationSafFacteurElec },
			func(b *Bundle, v decimal.Decimal) { b.Transport.AviationSafFacteurElec = v }},
		{"tr_maritime_twh", "maritime_twh", "TWh/an", "Énergie actuelle du maritime", 7,
			func(b *Bundle) decimal.Decimal { return b.Transport.MaritimeTwh },
			func(b *Bundle, v decimal.Decimal) { b.Transport.MaritimeTwh = v }},
		{"tr_maritime_elec_fraction", "maritime_elec_fraction", "fraction", "Maritime électrifiable", 0.30,
			func(b *Bundle) decimal.Decimal { return b.Transport.MaritimeElecFraction },
			func(b *Bundle, v decimal.Decimal) { b.Transport.MaritimeElecFraction = v }},
		{"tr_maritime_elec_facteur", "maritime_elec_facteur", "ratio", "Rendement électrique maritime", 0.40,
			func(b *Bundle) decimal.Decimal { return b.Transport.MaritimeElecFacteur },
			func(b *Bundle, v decimal.Decimal) { b.Transport.MaritimeElecFacteur = v }},
		{"tr_fluvial_twh", "fluvial_twh", "TWh/an", "Énergie actuelle du fluvial", 3,
			func(b *Bundle) decimal.Decimal { return b.Transport.FluvialTwh },
			func(b *Bundle, v decimal.Decimal) { b.Transport.FluvialTwh = v }},
		{"tr_fluvial_elec_fraction", "fluvial_elec_fraction", "fraction", "Fluvial électrifiable", 0.70,
			func(b *Bundle) decimal.Decimal { return b.Transport.FluvialElecFraction },
			func(b *Bundle, v decimal.Decimal) { b.Transport.FluvialElecFraction = v }},
		{"tr_fluvial_elec_facteur", "fluvial_elec_facteur", "ratio", "Rendement électrique fluvial", 0.40,
			func(b *Bundle) decimal.Decimal { return b.Transport.FluvialElecFacteur },
			func(b *Bundle, v decimal.Decimal) { b.Transport.FluvialElecFacteur = v }},
		{"tr_gain_sobriete_fraction", "gain_sobriete_fraction", "fraction", "Gain de sobriété sur la demande routière", 0.10,
			func(b *Bundle) decimal.Decimal { return b.Transport.GainSobrieteFraction },
			func(b *Bundle, v decimal.Decimal) { b.Transport.GainSobrieteFraction = v }},
	}

	out := make([]spec, 0, len(fields))
	for _, f := range fields {
		out = append(out, spec{
			knob: engine.Knob{Name: f.name, Default: dec(f.def), Unit: f.unit,
				Source: "SDES 2023 / hypothèse scénario", Description: f.desc,
				ConfigClass: "Transport", FieldRef: f.ref},
			get: f.get,
			set: f.set,
		})
	}
	return out
}

func transportProfileSpecs() []spec {
	out := make([]spec, 0, len(Slots))
	for _, slot := range Slots {
		plage := slot.Name
		out = append(out, spec{
			knob: engine.Knob{
				Name:        "tr_profil_" + slotSlug(plage),
				Default:     DefaultTransport().ProfilRecharge[plage],
				Unit:        "fraction",
				Source:      "hypothèse recharge",
				Description: fmt.Sprintf("Part de la recharge VE, plage %s", plage),
				ConfigClass: "Transport",
				FieldRef:    "profil_recharge:" + plage,
			},
			get: func(b *Bundle) decimal.Decimal { return b.Transport.ProfilRecharge[plage] },
			set: func(b *Bundle, v decimal.Decimal) { b.Transport.ProfilRecharge[plage] = v },
		})
	}
	return out
}

func industrieSpecs() []spec {
	type field struct {
		name, ref, unit, desc string
		def                   float64
		get                   func(*Bundle) decimal.Decimal
		set                   func(*Bundle, decimal.Decimal)
	}
	fields := []field{
		{"ind_chaleur_haute_temp_twh", "chaleur_haute_temp_twh", "TWh/an", "Chaleur haute température (>400°C)", 60,
			func(b *Bundle) decimal.Decimal { return b.Industrie.ChaleurHauteTempTwh },
			func(b *Bundle, v decimal.Decimal) { b.Industrie.ChaleurHauteTempTwh = v }},
		{"ind_chaleur_moyenne_temp_twh", "chaleur_moyenne_temp_twh", "TWh/an", "Chaleur moyenne température (100-400°C)", 40,
			func(b *Bundle) decimal.Decimal { return b.Industrie.ChaleurMoyenneTempTwh },
			func(b *Bundle, v decimal.Decimal) { b.Industrie.ChaleurMoyenneTempTwh = v }},
		{"ind_chaleur_basse_temp_twh", "chaleur_basse_temp_twh", "TWh/an", "Chaleur basse température (<100°C)", 25,
			func(b *Bundle) decimal.Decimal { return b.Industrie.ChaleurBasseTempTwh },
			func(b *Bundle, v decimal.Decimal) { b.Industrie.ChaleurBasseTempTwh = v }},
		{"ind_force_motrice_twh", "force_motrice_twh", "TWh/an", "Force motrice (déjà électrique)", 55,
			func(b *Bundle) decimal.Decimal { return b.Industrie.ForceMotriceTwh },
			func(b *Bundle, v decimal.Decimal) { b.Industrie.ForceMotriceTwh = v }},
		{"ind_electrochimie_twh", "electrochimie_twh", "TWh/an", "Électrochimie et électrolyse", 15,
			func(b *Bundle) decimal.Decimal { return b.Industrie.ElectrochimieTwh },
			func(b *Bundle, v decimal.Decimal) { b.Industrie.ElectrochimieTwh = v }},
		{"ind_autres_twh", "autres_twh", "TWh/an", "Autres usages industriels", 10,
			func(b *Bundle) decimal.Decimal { return b.Industrie.AutresTwh },
			func(b *Bundle, v decimal.Decimal) { b.Industrie.AutresTwh = v }},
		{"ind_haute_temp_electrifiable", "haute_temp_electrifiable", "fraction", "Haute température électrifiable", 0.30,
			func(b *Bundle) decimal.Decimal { return b.Industrie.HauteTempElectrifiable },
			func(b *Bundle, v decimal.Decimal) { b.Industrie.HauteTempElectrifiable = v }},
		{"ind_haute_temp_efficacite", "haute_temp_efficacite", "ratio", "Rendement électrification haute température", 0.85,
			func(b *Bundle) decimal.Decimal { return b.Industrie.HauteTempEfficacite },
			func(b *Bundle, v decimal.Decimal) { b.Industrie.HauteTempEfficacite = v }},
		{"ind_moyenne_temp_electrifiable", "moyenne_temp_electrifiable", "fraction", "Moyenne température électrifiable (PAC)", 0.70,
			func(b *Bundle) decimal.Decimal { return b.Industrie.MoyenneTempElectrifiable },
			func(b *Bundle, v decimal.Decimal) { b.Industrie.MoyenneTempElectrifiable = v }},
		{"ind_moyenne_temp_cop", "moyenne_temp_cop", "ratio", "COP des PAC industrielles moyenne température", 2.5,
			func(b *Bundle) decimal.Decimal { return b.Industrie.MoyenneTempCop },
			func(b *Bundle, v decimal.Decimal) { b.Industrie.MoyenneTempCop = v }},
		{"ind_basse_temp_electrifiable", "basse_temp_electrifiable", "fraction", "Basse température électrifiable (PAC)", 0.90,
			func(b *Bundle) decimal.Decimal { return b.Industrie.BasseTempElectrifiable },
			func(b *Bundle, v decimal.Decimal) { b.Industrie.BasseTempElectrifiable = v }},
		{"ind_basse_temp_cop", "basse_temp_cop", "ratio", "COP des PAC industrielles basse température", 3.5,
			func(b *Bundle) decimal.Decimal { return b.Industrie.BasseTempCop },
			func(b *Bundle, v decimal.Decimal) { b.Industrie.BasseTempCop = v }},
		{"ind_gain_efficacite_fraction", "gain_efficacite_fraction", "fraction", "Gain d'efficacité global industrie", 0.15,
			func(b *Bundle) decimal.Decimal { return b.Industrie.GainEfficaciteFraction },
			func(b *Bundle, v decimal.Decimal) { b.Industrie.GainEfficaciteFraction = v }},
	}

	out := make([]spec, 0, len(fields))
	for _, f := range fields {
		out = append(out, spec{
			knob: engine.Knob{Name: f.name, Default: dec(f.def), Unit: f.unit,
				Source: "SDES 2023 / hypothèse scénario", Description: f.desc,
				ConfigClass: "Industrie", FieldRef: f.ref},
			get: f.get,
			set: f.set,
		})
	}
	return out
}

func tertiaireSpecs() []spec {
	type field struct {
		name, ref, unit, desc string
		def                   float64
		get                   func(*Bundle) decimal.Decimal
		set                   func(*Bundle, decimal.Decimal)
	}
	fields := []field{
		{"tert_chauffage_twh", "chauffage_twh", "TWh/an", "Chauffage tertiaire", 85,
			func(b *Bundle) decimal.Decimal { return b.Tertiaire.ChauffageTwh },
			func(b *Bundle, v decimal.Decimal) { b.Tertiaire.ChauffageTwh = v }},
		{"tert_climatisation_twh", "climatisation_twh", "TWh/an", "Climatisation tertiaire", 15,
			func(b *Bundle) decimal.Decimal { return b.Tertiaire.ClimatisationTwh },
			func(b *Bundle, v decimal.Decimal) { b.Tertiaire.ClimatisationTwh = v }},
		{"tert_eclairage_twh", "eclairage_twh", "TWh/an", "Éclairage tertiaire", 30,
			func(b *Bundle) decimal.Decimal { return b.Tertiaire.EclairageTwh },
			func(b *Bundle, v decimal.Decimal) { b.Tertiaire.EclairageTwh = v }},
		{"tert_electricite_specifique_twh", "electricite_specifique_twh", "TWh/an", "Électricité spécifique (bureautique...)", 45,
			func(b *Bundle) decimal.Decimal { return b.Tertiaire.ElectriciteSpecifiqueTwh },
			func(b *Bundle, v decimal.Decimal) { b.Tertiaire.ElectriciteSpecifiqueTwh = v }},
		{"tert_eau_chaude_twh", "eau_chaude_twh", "TWh/an", "Eau chaude sanitaire", 15,
			func(b *Bundle) decimal.Decimal { return b.Tertiaire.EauChaudeTwh },
			func(b *Bundle, v decimal.Decimal) { b.Tertiaire.EauChaudeTwh = v }},
		{"tert_autres_twh", "autres_twh", "TWh/an", "Autres usages tertiaires", 10,
			func(b *Bundle) decimal.Decimal { return b.Tertiaire.AutresTwh },
			func(b *Bundle, v decimal.Decimal) { b.Tertiaire.AutresTwh = v }},
		{"tert_chauffage_fossile_fraction", "chauffage_fossile_fraction", "fraction", "Chauffage tertiaire encore fossile", 0.60,
			func(b *Bundle) decimal.Decimal { return b.Tertiaire.ChauffageFossileFraction },
			func(b *Bundle, v decimal.Decimal) { b.Tertiaire.ChauffageFossileFraction = v }},
		{"tert_chauffage_pac_cop", "chauffage_pac_cop", "ratio", "COP des PAC tertiaires", 3.0,
			func(b *Bundle) decimal.Decimal { return b.Tertiaire.ChauffagePacCop },
			func(b *Bundle, v decimal.Decimal) { b.Tertiaire.ChauffagePacCop = v }},
		{"tert_eclairage_gain_led", "eclairage_gain_led", "fraction", "Gain LED sur l'éclairage", 0.50,
			func(b *Bundle) decimal.Decimal { return b.Tertiaire.EclairageGainLed },
			func(b *Bundle, v decimal.Decimal) { b.Tertiaire.EclairageGainLed = v }},
		{"tert_renovation_gain_chauffage", "renovation_gain_chauffage", "fraction", "Gain rénovation sur le chauffage", 0.30,
			func(b *Bundle) decimal.Decimal { return b.Tertiaire.RenovationGainChauffage },
			func(b *Bundle, v decimal.Decimal) { b.Tertiaire.RenovationGainChauffage = v }},
		{"tert_climatisation_gain", "climatisation_gain", "fraction", "Gain d'efficacité climatisation", 0.20,
			func(b *Bundle) decimal.Decimal { return b.Tertiaire.ClimatisationGain },
			func(b *Bundle, v decimal.Decimal) { b.Tertiaire.ClimatisationGain = v }},
	}

	out := make([]spec, 0, len(fields))
	for _, f := range fields {
		out = append(out, spec{
			knob: engine.Knob{Name: f.name, Default: dec(f.def), Unit: f.unit,
				Source: "SDES 2023 / hypothèse scénario", Description: f.desc,
				ConfigClass: "Tertiaire", FieldRef: f.ref},
			get: f.get,
			set: f.set,
		})
	}
	return out
}

func agricultureSpecs() []spec {
	type field struct {
		name, ref, unit, desc string
		def                   float64
		get                   func(*Bundle) decimal.Decimal
		set                   func(*Bundle, decimal.Decimal)
	}
	fields := []field{
		{"agri_machinisme_twh", "machinisme_twh", "TWh/an", "Machinisme agricole (gazole non routier)", 30,
			func(b *Bundle) decimal.Decimal { return b.Agriculture.MachinismeTwh },
			func(b *Bundle, v decimal.Decimal) { b.Agriculture.MachinismeTwh = v }},
		{"agri_serres_twh", "serres_twh", "TWh/an", "Chauffage des serres", 10,
			func(b *Bundle) decimal.Decimal { return b.Agriculture.SerresTwh },
			func(b *Bundle, v decimal.Decimal) { b.Agriculture.SerresTwh = v }},
		{"agri_irrigation_twh", "irrigation_twh", "TWh/an", "Pompage et irrigation", 3,
			func(b *Bundle) decimal.Decimal { return b.Agriculture.IrrigationTwh },
			func(b *Bundle, v decimal.Decimal) { b.Agriculture.IrrigationTwh = v }},
		{"agri_elevage_twh", "elevage_twh", "TWh/an", "Bâtiments d'élevage", 5,
			func(b *Bundle) decimal.Decimal { return b.Agriculture.ElevageTwh },
			func(b *Bundle, v decimal.Decimal) { b.Agriculture.ElevageTwh = v }},
		{"agri_autres_twh", "autres_twh", "TWh/an", "Autres usages agricoles", 2,
			func(b *Bundle) decimal.Decimal { return b.Agriculture.AutresTwh },
			func(b *Bundle, v decimal.Decimal) { b.Agriculture.AutresTwh = v }},
		{"agri_machinisme_elec_fraction", "machinisme_elec_fraction", "fraction", "Machinisme électrifiable", 0.50,
			func(b *Bundle) decimal.Decimal { return b.Agriculture.MachinismeElecFraction },
			func(b *Bundle, v decimal.Decimal) { b.Agriculture.MachinismeElecFraction = v }},
		{"agri_machinisme_eff_elec", "machinisme_eff_elec", "ratio", "Rendement électrique du machinisme", 0.35,
			func(b *Bundle) decimal.Decimal { return b.Agriculture.MachinismeEffElec },
			func(b *Bundle, v decimal.Decimal) { b.Agriculture.MachinismeEffElec = v }},
		{"agri_serres_pac_fraction", "serres_pac_fraction", "fraction", "Serres converties en PAC", 0.80,
			func(b *Bundle) decimal.Decimal { return b.Agriculture.SerresPacFraction },
			func(b *Bundle, v decimal.Decimal) { b.Agriculture.SerresPacFraction = v }},
		{"agri_serres_pac_cop", "serres_pac_cop", "ratio", "COP des PAC de serres", 3.0,
			func(b *Bundle) decimal.Decimal { return b.Agriculture.SerresPacCop },
			func(b *Bundle, v decimal.Decimal) { b.Agriculture.SerresPacCop = v }},
		{"agri_agrivoltaisme_potentiel_gwc", "agrivoltaisme_potentiel_gwc", "GWc", "Potentiel agrivoltaïque", 50,
			func(b *Bundle) decimal.Decimal { return b.Agriculture.AgrivoltaismePotentielGwc },
			func(b *Bundle, v decimal.Decimal) { b.Agriculture.AgrivoltaismePotentielGwc = v }},
		{"agri_methanisation_actuel_twh", "methanisation_actuel_twh", "TWh/an", "Méthanisation actuelle", 5,
			func(b *Bundle) decimal.Decimal { return b.Agriculture.MethanisationActuelTwh },
			func(b *Bundle, v decimal.Decimal) { b.Agriculture.MethanisationActuelTwh = v }},
		{"agri_methanisation_potentiel_twh", "methanisation_potentiel_twh", "TWh/an", "Potentiel de méthanisation", 30,
			func(b *Bundle) decimal.Decimal { return b.Agriculture.MethanisationPotentielTwh },
			func(b *Bundle, v decimal.Decimal) { b.Agriculture.MethanisationPotentielTwh = v }},
	}

	out := make([]spec, 0, len(fields))
	for _, f := range fields {
		out = append(out, spec{
			knob: engine.Knob{Name: f.name, Default: dec(f.def), Unit: f.unit,
				Source: "Agreste / hypothèse scénario", Description: f.desc,
				ConfigClass: "Agriculture", FieldRef: f.ref},
			get: f.get,
			set: f.set,
		})
	}
	return out
}

func agricultureProfileSpecs() []spec {
	out := make([]spec, 0, len(Months))
	for _, mois := range Months {
		m := mois
		out = append(out, spec{
			knob: engine.Knob{
				Name:        "agri_profil_" + monthSlug(m),
				Default:     DefaultAgriculture().ProfilMensuel[m],
				Unit:        "coefficient",
				Source:      "Agreste",
				Description: fmt.Sprintf("Poids saisonnier de la demande agricole, %s", m),
				ConfigClass: "Agriculture",
				FieldRef:    "profil_mensuel:" + m,
			},
			get: func(b *Bundle) decimal.Decimal { return b.Agriculture.ProfilMensuel[m] },
			set: func(b *Bundle, v decimal.Decimal) { b.Agriculture.ProfilMensuel[m] = v },
		})
	}
	return out
}
