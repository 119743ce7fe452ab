/*
Package scenario holds the model configuration and the knob declarations.

PURPOSE:
  Every number the energy model depends on lives here, as a typed config
  struct with documented defaults, and is exposed to the rest of the system
  as a named knob through an explicit declaration table (declarations.go).
  The parameter table of the exported document, the YAML scenario files and
  the consistency checker all work in terms of those knob names.

KEY CONCEPTS IN THIS FILE (config.go):
  - Production/Consumption/Temporal/Storage/Financial: supply-side and
    legacy demand-side settings
  - Heating/Transport/Industrie/Tertiaire/Agriculture: sector models
  - Bundle: One value holding the complete configuration
  - Default*: The documented reference scenario

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal everywhere a knob can reach
  2. Explicitness: No reflection anywhere; knobs are declared one by one
  3. Validation: Each config checks its own ranges; Validate collects
     every problem, not just the first

USAGE:
  b := scenario.Default()
  if err := b.Validate(); err != nil { ... }
  cop := b.Consumption.HeatPumpCOP

SEE ALSO:
  - declarations.go: The knob table binding these fields to the registry
  - presets.go: Named scenarios built on top of the defaults
*/
package scenario

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/engine"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// =============================================================================
// PRODUCTION
// =============================================================================

// Production describes the supply side: the solar park split by segment,
// nuclear modulation bounds and average hydro.
type Production struct {
	SolarGwcMaisons   decimal.Decimal // rooftop PV on houses, GWc
	SolarGwcCollectif decimal.Decimal // collective/building PV, GWc
	SolarGwcCentrales decimal.Decimal // ground-mounted plants, GWc
	NombreMaisons     decimal.Decimal // equipped houses
	NombreCollectifs  decimal.Decimal // equipped collective buildings
	KwcParMaison      decimal.Decimal // kWc per equipped house
	KwcParCollectif   decimal.Decimal // kWc per collective building

	SolarCapacityGwc        decimal.Decimal // total target park, GWc
	SolarCapacityCurrentGwc decimal.Decimal // installed park today, GWc
	NuclearMinGw            decimal.Decimal
	NuclearMaxGw            decimal.Decimal
	HydroAvgGw              decimal.Decimal
	ProdBaseMaxGw           decimal.Decimal
	ProdSolaireMaxGw        decimal.Decimal
}

func DefaultProduction() Production {
	return Production{
		SolarGwcMaisons:         dec(200),
		SolarGwcCollectif:       dec(50),
		SolarGwcCentrales:       dec(250),
		NombreMaisons:           dec(20_000_000),
		NombreCollectifs:        dec(10_000_000),
		KwcParMaison:            dec(10),
		KwcParCollectif:         dec(5),
		SolarCapacityGwc:        dec(500),
		SolarCapacityCurrentGwc: dec(20),
		NuclearMinGw:            dec(30),
		NuclearMaxGw:            dec(50),
		HydroAvgGw:              dec(7.5),
		ProdBaseMaxGw:           dec(65),
		ProdSolaireMaxGw:        dec(150),
	}
}

func (p Production) Validate() error {
	var errs []error
	for _, c := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"solar_gwc_maisons", p.SolarGwcMaisons},
		{"solar_gwc_collectif", p.SolarGwcCollectif},
		{"solar_gwc_centrales", p.SolarGwcCentrales},
		{"solar_capacity_gwc", p.SolarCapacityGwc},
		{"nuclear_min_gw", p.NuclearMinGw},
		{"hydro_avg_gw", p.HydroAvgGw},
	} {
		if c.value.IsNegative() {
			errs = append(errs, fmt.Errorf("production: %s must not be negative, got %s", c.name, c.value))
		}
	}
	if p.NuclearMaxGw.LessThan(p.NuclearMinGw) {
		errs = append(errs, fmt.Errorf("production: nuclear_max_gw %s below nuclear_min_gw %s",
			p.NuclearMaxGw, p.NuclearMinGw))
	}
	breakdown := p.SolarGwcMaisons.Add(p.SolarGwcCollectif).Add(p.SolarGwcCentrales)
	if breakdown.Sub(p.SolarCapacityGwc).Abs().GreaterThan(dec(0.1)) {
		errs = append(errs, fmt.Errorf("production: PV breakdown %s GWc does not sum to solar_capacity_gwc %s",
			breakdown, p.SolarCapacityGwc))
	}
	return errors.Join(errs...)
}

// =============================================================================
// CONSUMPTION (legacy aggregate factors)
// =============================================================================

// Consumption carries the aggregate demand factors predating the sector
// models; HeatPumpCOP is still the synthesis table's flagship knob.
type Consumption struct {
	HeatPumpCOP                decimal.Decimal
	ResidentialHeatingFraction decimal.Decimal
	TransportFreightFactor     decimal.Decimal
	TransportPassengerFactor   decimal.Decimal
}

func DefaultConsumption() Consumption {
	return Consumption{
		HeatPumpCOP:                dec(2.0),
		ResidentialHeatingFraction: dec(0.67),
		TransportFreightFactor:     dec(0.4),
		TransportPassengerFactor:   dec(0.2),
	}
}

func (c Consumption) Validate() error {
	var errs []error
	if !c.HeatPumpCOP.IsPositive() {
		errs = append(errs, fmt.Errorf("consumption: cop_pac must be positive, got %s", c.HeatPumpCOP))
	}
	errs = append(errs,
		fractionRange("consumption", "residential_heating_fraction", c.ResidentialHeatingFraction),
		fractionRange("consumption", "transport_freight_factor", c.TransportFreightFactor),
		fractionRange("consumption", "transport_passenger_factor", c.TransportPassengerFactor),
	)
	return errors.Join(errs...)
}

// =============================================================================
// TEMPORAL
// =============================================================================

// Temporal holds the calendar convention applied uniformly to every month.
type Temporal struct {
	JoursParMois decimal.Decimal
}

func DefaultTemporal() Temporal {
	return Temporal{JoursParMois: dec(30)}
}

func (t Temporal) Validate() error {
	if t.JoursParMois.LessThan(dec(28)) || t.JoursParMois.GreaterThan(dec(31)) {
		return fmt.Errorf("temporal: jours_par_mois must be within 28..31, got %s", t.JoursParMois)
	}
	return nil
}

// =============================================================================
// STORAGE
// =============================================================================

type Storage struct {
	BatteryEfficiency   decimal.Decimal
	StepGrandmaisonGwh  decimal.Decimal
	MossLandingGwh      decimal.Decimal
	FranceStepTotalGwh  decimal.Decimal
}

func DefaultStorage() Storage {
	return Storage{
		BatteryEfficiency:  dec(0.85),
		StepGrandmaisonGwh: dec(5),
		MossLandingGwh:     dec(3),
		FranceStepTotalGwh: dec(100),
	}
}

func (s Storage) Validate() error {
	var errs []error
	if !s.BatteryEfficiency.IsPositive() || s.BatteryEfficiency.GreaterThan(dec(1)) {
		errs = append(errs, fmt.Errorf("storage: battery_efficiency must be within (0,1], got %s", s.BatteryEfficiency))
	}
	if s.FranceStepTotalGwh.IsNegative() {
		errs = append(errs, fmt.Errorf("storage: france_step_total_gwh must not be negative"))
	}
	return errors.Join(errs...)
}

// =============================================================================
// FINANCIAL
// =============================================================================

type Financial struct {
	GasCostEurPerMwh     decimal.Decimal
	SolarCapexEurPerKw   decimal.Decimal
	StorageCapexEurPerKwh decimal.Decimal
	SolarLifetimeYears   decimal.Decimal
	StorageLifetimeYears decimal.Decimal
	AnalysisHorizonYears decimal.Decimal
}

func DefaultFinancial() Financial {
	return Financial{
		GasCostEurPerMwh:      dec(90),
		SolarCapexEurPerKw:    dec(600),
		StorageCapexEurPerKwh: dec(200),
		SolarLifetimeYears:    dec(30),
		StorageLifetimeYears:  dec(15),
		AnalysisHorizonYears:  dec(30),
	}
}

func (f Financial) Validate() error {
	var errs []error
	if f.GasCostEurPerMwh.IsNegative() {
		errs = append(errs, fmt.Errorf("financial: gas_cost_eur_per_mwh must not be negative"))
	}
	for _, c := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"solar_lifetime_years", f.SolarLifetimeYears},
		{"storage_lifetime_years", f.StorageLifetimeYears},
		{"analysis_horizon_years", f.AnalysisHorizonYears},
	} {
		if !c.value.IsPositive() {
			errs = append(errs, fmt.Errorf("financial: %s must be positive, got %s", c.name, c.value))
		}
	}
	return errors.Join(errs...)
}

// =============================================================================
// HEATING
// =============================================================================

// Heating is the residential thermal model: a G-coefficient envelope loss
// over the heated volume, outdoor temperatures per month, a COP curve for
// heat pumps, and per-slot modulation coefficients.
type Heating struct {
	NombreMaisons         decimal.Decimal // aliased by the production knob of the same name
	SurfaceMoyenneM2      decimal.Decimal
	HauteurPlafondM       decimal.Decimal
	CoefficientG          decimal.Decimal // W/(m³·K)
	TemperatureInterieure decimal.Decimal
	AvecPompeAChaleur     bool

	TemperaturesExterieures map[string]decimal.Decimal // by month
	CopParTemperature       []engine.Breakpoint        // ascending outdoor temperature
	CoefficientsPlage       map[string]decimal.Decimal // by slot
}

func DefaultHeating() Heating {
	return Heating{
		NombreMaisons:         dec(20_000_000),
		SurfaceMoyenneM2:      dec(120),
		HauteurPlafondM:       dec(2.5),
		CoefficientG:          dec(0.65),
		TemperatureInterieure: dec(19),
		AvecPompeAChaleur:     true,
		TemperaturesExterieures: map[string]decimal.Decimal{
			"Janvier": dec(5.2), "Février": dec(6.7), "Mars": dec(9.1),
			"Avril": dec(11.4), "Mai": dec(15.3), "Juin": dec(19.8),
			"Juillet": dec(22.1), "Août": dec(21.6), "Septembre": dec(17.9),
			"Octobre": dec(13.8), "Novembre": dec(8.4), "Décembre": dec(5.8),
		},
		CopParTemperature: []engine.Breakpoint{
			{At: dec(-15), Value: dec(1.5)},
			{At: dec(-10), Value: dec(1.8)},
			{At: dec(-5), Value: dec(2.1)},
			{At: dec(0), Value: dec(2.5)},
			{At: dec(5), Value: dec(3.0)},
			{At: dec(10), Value: dec(3.5)},
			{At: dec(15), Value: dec(4.0)},
		},
		CoefficientsPlage: map[string]decimal.Decimal{
			"8h-13h": dec(1.0), "13h-18h": dec(0.8), "18h-20h": dec(1.0),
			"20h-23h": dec(1.0), "23h-8h": dec(0.7),
		},
	}
}

// VolumeMoyenM3 is the heated volume of an average house.
func (h Heating) VolumeMoyenM3() decimal.Decimal {
	return h.SurfaceMoyenneM2.Mul(h.HauteurPlafondM)
}

// TExt returns the outdoor temperature for a month.
func (h Heating) TExt(mois string) (decimal.Decimal, bool) {
	v, ok := h.TemperaturesExterieures[mois]
	return v, ok
}

// CopValueAt returns the COP declared at an exact breakpoint temperature.
func (h Heating) CopValueAt(at decimal.Decimal) (decimal.Decimal, bool) {
	for _, p := range h.CopParTemperature {
		if p.At.Equal(at) {
			return p.Value, true
		}
	}
	return decimal.Zero, false
}

// SetCopValueAt replaces the COP at an exact breakpoint temperature.
func (h *Heating) SetCopValueAt(at, v decimal.Decimal) bool {
	for i, p := range h.CopParTemperature {
		if p.At.Equal(at) {
			h.CopParTemperature[i].Value = v
			return true
		}
	}
	return false
}

func (h Heating) Validate() error {
	var errs []error
	for _, c := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"chauf_surface_moyenne_m2", h.SurfaceMoyenneM2},
		{"chauf_hauteur_plafond_m", h.HauteurPlafondM},
		{"chauf_coefficient_g", h.CoefficientG},
		{"nombre_maisons", h.NombreMaisons},
	} {
		if !c.value.IsPositive() {
			errs = append(errs, fmt.Errorf("heating: %s must be positive, got %s", c.name, c.value))
		}
	}
	for _, m := range Months {
		if _, ok := h.TemperaturesExterieures[m]; !ok {
			errs = append(errs, fmt.Errorf("heating: missing outdoor temperature for %s", m))
		}
	}
	if _, err := engine.NewCurve(h.CopParTemperature...); err != nil {
		errs = append(errs, fmt.Errorf("heating: cop curve: %w", err))
	}
	for _, s := range Slots {
		coeff, ok := h.CoefficientsPlage[s.Name]
		if !ok {
			errs = append(errs, fmt.Errorf("heating: missing slot coefficient for %s", s.Name))
			continue
		}
		if coeff.IsNegative() || coeff.GreaterThan(dec(1)) {
			errs = append(errs, fmt.Errorf("heating: coefficient for %s must be within [0,1], got %s", s.Name, coeff))
		}
	}
	return errors.Join(errs...)
}

// =============================================================================
// TRANSPORT
// =============================================================================

// Transport covers today's fossil transport demand and the electrification
// path per mode: road passengers, freight, rail, aviation fuel synthesis,
// maritime and inland shipping, plus the daily charging profile.
type Transport struct {
	VoituresTwh              decimal.Decimal
	DeuxRouesTwh             decimal.Decimal
	BusCarsTwh               decimal.Decimal
	VoituresFacteurElec      decimal.Decimal
	DeuxRouesFacteurElec     decimal.Decimal
	BusFacteurElec           decimal.Decimal
	ReportModalFraction      decimal.Decimal
	PoidsLourdsTwh           decimal.Decimal
	VulTwh                   decimal.Decimal
	PlBatterieFraction       decimal.Decimal
	PlBatterieFacteur        decimal.Decimal
	PlHydrogeneFraction      decimal.Decimal
	PlHydrogeneFacteur       decimal.Decimal
	PlFossileResiduelFraction decimal.Decimal
	VulFacteurElec           decimal.Decimal
	VulElectrifiableFraction decimal.Decimal
	RailTotalTwh             decimal.Decimal
	RailElectriqueFraction   decimal.Decimal
	RailDieselElecFraction   decimal.Decimal
	RailEfficaciteElec       decimal.Decimal
	AviationDomestiqueTwh    decimal.Decimal
	AviationInternationalTwh decimal.Decimal
	AviationReportTgvFraction decimal.Decimal
	AviationSafFraction      decimal.Decimal
	AviationSafFacteurElec   decimal.Decimal
	MaritimeTwh              decimal.Decimal
	MaritimeElecFraction     decimal.Decimal
	MaritimeElecFacteur      decimal.Decimal
	FluvialTwh               decimal.Decimal
	FluvialElecFraction      decimal.Decimal
	FluvialElecFacteur       decimal.Decimal
	GainSobrieteFraction     decimal.Decimal

	ProfilRecharge map[string]decimal.Decimal // by slot, sums to 1
}

func DefaultTransport() Transport {
	return Transport{
		VoituresTwh:              dec(200),
		DeuxRouesTwh:             dec(10),
		BusCarsTwh:               dec(15),
		VoituresFacteurElec:      dec(0.33),
		DeuxRouesFacteurElec:     dec(0.33),
		BusFacteurElec:           dec(0.40),
		ReportModalFraction:      dec(0.15),
		PoidsLourdsTwh:           dec(140),
		VulTwh:                   dec(30),
		PlBatterieFraction:       dec(0.40),
		PlBatterieFacteur:        dec(0.35),
		PlHydrogeneFraction:      dec(0.30),
		PlHydrogeneFacteur:       dec(0.55),
		PlFossileResiduelFraction: dec(0.30),
		VulFacteurElec:           dec(0.35),
		VulElectrifiableFraction: dec(0.90),
		RailTotalTwh:             dec(15),
		RailElectriqueFraction:   dec(0.80),
		RailDieselElecFraction:   dec(0.90),
		RailEfficaciteElec:       dec(0.50),
		AviationDomestiqueTwh:    dec(8),
		AviationInternationalTwh: dec(52),
		AviationReportTgvFraction: dec(0.40),
		AviationSafFraction:      dec(0.30),
		AviationSafFacteurElec:   dec(3.5),
		MaritimeTwh:              dec(7),
		MaritimeElecFraction:     dec(0.30),
		MaritimeElecFacteur:      dec(0.40),
		FluvialTwh:               dec(3),
		FluvialElecFraction:      dec(0.70),
		FluvialElecFacteur:       dec(0.40),
		GainSobrieteFraction:     dec(0.10),
		ProfilRecharge: map[string]decimal.Decimal{
			"8h-13h": dec(0.15), "13h-18h": dec(0.25), "18h-20h": dec(0.20),
			"20h-23h": dec(0.15), "23h-8h": dec(0.25),
		},
	}
}

func (t Transport) Validate() error {
	var errs []error
	for _, c := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"tr_report_modal_fraction", t.ReportModalFraction},
		{"tr_pl_batterie_fraction", t.PlBatterieFraction},
		{"tr_pl_hydrogene_fraction", t.PlHydrogeneFraction},
		{"tr_pl_fossile_residuel_fraction", t.PlFossileResiduelFraction},
		{"tr_vul_electrifiable_fraction", t.VulElectrifiableFraction},
		{"tr_rail_electrique_fraction", t.RailElectriqueFraction},
		{"tr_rail_diesel_elec_fraction", t.RailDieselElecFraction},
		{"tr_aviation_report_tgv_fraction", t.AviationReportTgvFraction},
		{"tr_aviation_saf_fraction", t.AviationSafFraction},
		{"tr_maritime_elec_fraction", t.MaritimeElecFraction},
		{"tr_fluvial_elec_fraction", t.FluvialElecFraction},
		{"tr_gain_sobriete_fraction", t.GainSobrieteFraction},
	} {
		errs = append(errs, fractionRange("transport", c.name, c.value))
	}
	total := decimal.Zero
	for _, s := range Slots {
		share, ok := t.ProfilRecharge[s.Name]
		if !ok {
			errs = append(errs, fmt.Errorf("transport: missing charging share for %s", s.Name))
			continue
		}
		total = total.Add(share)
	}
	if total.Sub(dec(1)).Abs().GreaterThan(dec(0.001)) {
		errs = append(errs, fmt.Errorf("transport: charging profile sums to %s, want 1", total))
	}
	return errors.Join(errs...)
}

// =============================================================================
// INDUSTRIE
// =============================================================================

type Industrie struct {
	ChaleurHauteTempTwh    decimal.Decimal
	ChaleurMoyenneTempTwh  decimal.Decimal
	ChaleurBasseTempTwh    decimal.Decimal
	ForceMotriceTwh        decimal.Decimal
	ElectrochimieTwh       decimal.Decimal
	AutresTwh              decimal.Decimal
	HauteTempElectrifiable decimal.Decimal
	HauteTempEfficacite    decimal.Decimal
	MoyenneTempElectrifiable decimal.Decimal
	MoyenneTempCop         decimal.Decimal
	BasseTempElectrifiable decimal.Decimal
	BasseTempCop           decimal.Decimal
	GainEfficaciteFraction decimal.Decimal
}

func DefaultIndustrie() Industrie {
	return Industrie{
		ChaleurHauteTempTwh:      dec(60),
		ChaleurMoyenneTempTwh:    dec(40),
		ChaleurBasseTempTwh:      dec(25),
		ForceMotriceTwh:          dec(55),
		ElectrochimieTwh:         dec(15),
		AutresTwh:                dec(10),
		HauteTempElectrifiable:   dec(0.30),
		HauteTempEfficacite:      dec(0.85),
		MoyenneTempElectrifiable: dec(0.70),
		MoyenneTempCop:           dec(2.5),
		BasseTempElectrifiable:   dec(0.90),
		BasseTempCop:             dec(3.5),
		GainEfficaciteFraction:   dec(0.15),
	}
}

func (i Industrie) Validate() error {
	var errs []error
	errs = append(errs,
		fractionRange("industrie", "ind_haute_temp_electrifiable", i.HauteTempElectrifiable),
		fractionRange("industrie", "ind_moyenne_temp_electrifiable", i.MoyenneTempElectrifiable),
		fractionRange("industrie", "ind_basse_temp_electrifiable", i.BasseTempElectrifiable),
		fractionRange("industrie", "ind_gain_efficacite_fraction", i.GainEfficaciteFraction),
	)
	if !i.MoyenneTempCop.IsPositive() || !i.BasseTempCop.IsPositive() {
		errs = append(errs, fmt.Errorf("industrie: heat pump COPs must be positive"))
	}
	return errors.Join(errs...)
}

// =============================================================================
// TERTIAIRE
// =============================================================================

type Tertiaire struct {
	ChauffageTwh             decimal.Decimal
	ClimatisationTwh         decimal.Decimal
	EclairageTwh             decimal.Decimal
	ElectriciteSpecifiqueTwh decimal.Decimal
	EauChaudeTwh             decimal.Decimal
	AutresTwh                decimal.Decimal
	ChauffageFossileFraction decimal.Decimal
	ChauffagePacCop          decimal.Decimal
	EclairageGainLed         decimal.Decimal
	RenovationGainChauffage  decimal.Decimal
	ClimatisationGain        decimal.Decimal
}

func DefaultTertiaire() Tertiaire {
	return Tertiaire{
		ChauffageTwh:             dec(85),
		ClimatisationTwh:         dec(15),
		EclairageTwh:             dec(30),
		ElectriciteSpecifiqueTwh: dec(45),
		EauChaudeTwh:             dec(15),
		AutresTwh:                dec(10),
		ChauffageFossileFraction: dec(0.60),
		ChauffagePacCop:          dec(3.0),
		EclairageGainLed:         dec(0.50),
		RenovationGainChauffage:  dec(0.30),
		ClimatisationGain:        dec(0.20),
	}
}

func (t Tertiaire) Validate() error {
	var errs []error
	errs = append(errs,
		fractionRange("tertiaire", "tert_chauffage_fossile_fraction", t.ChauffageFossileFraction),
		fractionRange("tertiaire", "tert_eclairage_gain_led", t.EclairageGainLed),
		fractionRange("tertiaire", "tert_renovation_gain_chauffage", t.RenovationGainChauffage),
		fractionRange("tertiaire", "tert_climatisation_gain", t.ClimatisationGain),
	)
	if !t.ChauffagePacCop.IsPositive() {
		errs = append(errs, fmt.Errorf("tertiaire: tert_chauffage_pac_cop must be positive"))
	}
	return errors.Join(errs...)
}

// =============================================================================
// AGRICULTURE
// =============================================================================

type Agriculture struct {
	MachinismeTwh             decimal.Decimal
	SerresTwh                 decimal.Decimal
	IrrigationTwh             decimal.Decimal
	ElevageTwh                decimal.Decimal
	AutresTwh                 decimal.Decimal
	MachinismeElecFraction    decimal.Decimal
	MachinismeEffElec         decimal.Decimal
	SerresPacFraction         decimal.Decimal
	SerresPacCop              decimal.Decimal
	AgrivoltaismePotentielGwc decimal.Decimal
	MethanisationActuelTwh    decimal.Decimal
	MethanisationPotentielTwh decimal.Decimal

	ProfilMensuel map[string]decimal.Decimal // seasonal demand weights by month
}

func DefaultAgriculture() Agriculture {
	return Agriculture{
		MachinismeTwh:             dec(30),
		SerresTwh:                 dec(10),
		IrrigationTwh:             dec(3),
		ElevageTwh:                dec(5),
		AutresTwh:                 dec(2),
		MachinismeElecFraction:    dec(0.50),
		MachinismeEffElec:         dec(0.35),
		SerresPacFraction:         dec(0.80),
		SerresPacCop:              dec(3.0),
		AgrivoltaismePotentielGwc: dec(50),
		MethanisationActuelTwh:    dec(5),
		MethanisationPotentielTwh: dec(30),
		ProfilMensuel: map[string]decimal.Decimal{
			"Janvier": dec(0.5), "Février": dec(0.6), "Mars": dec(0.8),
			"Avril": dec(1.0), "Mai": dec(1.3), "Juin": dec(1.5),
			"Juillet": dec(1.5), "Août": dec(1.3), "Septembre": dec(1.0),
			"Octobre": dec(0.8), "Novembre": dec(0.6), "Décembre": dec(0.5),
		},
	}
}

func (a Agriculture) Validate() error {
	var errs []error
	errs = append(errs,
		fractionRange("agriculture", "agri_machinisme_elec_fraction", a.MachinismeElecFraction),
		fractionRange("agriculture", "agri_serres_pac_fraction", a.SerresPacFraction),
	)
	if !a.SerresPacCop.IsPositive() {
		errs = append(errs, fmt.Errorf("agriculture: agri_serres_pac_cop must be positive"))
	}
	for _, m := range Months {
		w, ok := a.ProfilMensuel[m]
		if !ok {
			errs = append(errs, fmt.Errorf("agriculture: missing monthly weight for %s", m))
			continue
		}
		if !w.IsPositive() {
			errs = append(errs, fmt.Errorf("agriculture: monthly weight for %s must be positive, got %s", m, w))
		}
	}
	return errors.Join(errs...)
}

// =============================================================================
// BUNDLE
// =============================================================================

// Bundle is the complete model configuration.
type Bundle struct {
	Production  Production
	Consumption Consumption
	Temporal    Temporal
	Storage     Storage
	Financial   Financial
	Heating     Heating
	Transport   Transport
	Industrie   Industrie
	Tertiaire   Tertiaire
	Agriculture Agriculture
}

// Default returns the documented reference configuration. Maps and slices
// are fresh on every call; bundles never share mutable state.
func Default() *Bundle {
	return &Bundle{
		Production:  DefaultProduction(),
		Consumption: DefaultConsumption(),
		Temporal:    DefaultTemporal(),
		Storage:     DefaultStorage(),
		Financial:   DefaultFinancial(),
		Heating:     DefaultHeating(),
		Transport:   DefaultTransport(),
		Industrie:   DefaultIndustrie(),
		Tertiaire:   DefaultTertiaire(),
		Agriculture: DefaultAgriculture(),
	}
}

// Clone deep-copies the bundle, including maps and the COP curve.
func (b *Bundle) Clone() *Bundle {
	out := *b
	out.Heating.TemperaturesExterieures = cloneMap(b.Heating.TemperaturesExterieures)
	out.Heating.CoefficientsPlage = cloneMap(b.Heating.CoefficientsPlage)
	out.Heating.CopParTemperature = append([]engine.Breakpoint(nil), b.Heating.CopParTemperature...)
	out.Transport.ProfilRecharge = cloneMap(b.Transport.ProfilRecharge)
	out.Agriculture.ProfilMensuel = cloneMap(b.Agriculture.ProfilMensuel)
	return &out
}

// Validate runs every config's validation and collects all problems.
func (b *Bundle) Validate() error {
	return errors.Join(
		b.Production.Validate(),
		b.Consumption.Validate(),
		b.Temporal.Validate(),
		b.Storage.Validate(),
		b.Financial.Validate(),
		b.Heating.Validate(),
		b.Transport.Validate(),
		b.Industrie.Validate(),
		b.Tertiaire.Validate(),
		b.Agriculture.Validate(),
	)
}

func cloneMap(m map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// fractionRange reports a value outside [0,1]; nil when in range.
func fractionRange(section, name string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(dec(1)) {
		return fmt.Errorf("%s: %s must be within [0,1], got %s", section, name, v)
	}
	return nil
}
