/*
presets.go - Built-in scenarios

PURPOSE:
  Ships the reference scenario and two contrast scenarios without needing
  YAML files on disk. The reference scenario changes nothing: it exists so
  every document names the scenario it was built from.

AVAILABLE SCENARIOS:
  reference:       The declared defaults, untouched
  sobriete:        Stronger demand-side efforts, same production park
  tout-electrique: Maximum electrification of every sector

CUSTOMIZATION:
  Presets are starting points. Copy one to YAML, edit the knob list, and
  load it with scenario.Load.

SEE ALSO:
  - scenario.go: YAML loading and knob override application
*/
package scenario

// =============================================================================
// PRESETS
// =============================================================================

// ReferenceScenario returns the no-override scenario.
func ReferenceScenario() *Scenario {
	return &Scenario{
		Name:        "reference",
		Description: "Hypothèses de référence du scénario v0.8",
		Year:        2035,
	}
}

// SobrieteScenario strengthens the demand-side levers while keeping the
// production park unchanged.
func SobrieteScenario() *Scenario {
	return &Scenario{
		Name:        "sobriete",
		Description: "Sobriété renforcée: moins de demande, même parc de production",
		Year:        2035,
		Knobs: map[string]float64{
			"tr_gain_sobriete_fraction":      0.20,
			"tr_report_modal_fraction":       0.25,
			"tr_aviation_report_tgv_fraction": 0.60,
			"tert_renovation_gain_chauffage": 0.45,
			"tert_eclairage_gain_led":        0.70,
			"ind_gain_efficacite_fraction":   0.25,
			"chauf_temperature_int":          18,
		},
	}
}

// ToutElectriqueScenario pushes electrification of every sector to its
// declared potential.
func ToutElectriqueScenario() *Scenario {
	return &Scenario{
		Name:        "tout-electrique",
		Description: "Électrification maximale de tous les secteurs",
		Year:        2040,
		Knobs: map[string]float64{
			"tr_pl_batterie_fraction":        0.60,
			"tr_pl_hydrogene_fraction":       0.25,
			"tr_pl_fossile_residuel_fraction": 0.15,
			"tr_vul_electrifiable_fraction":  1.0,
			"tr_maritime_elec_fraction":      0.50,
			"tr_fluvial_elec_fraction":       0.90,
			"ind_haute_temp_electrifiable":   0.50,
			"ind_moyenne_temp_electrifiable": 0.90,
			"ind_basse_temp_electrifiable":   1.0,
			"tert_chauffage_fossile_fraction": 0.20,
			"agri_machinisme_elec_fraction":  0.80,
			"agri_serres_pac_fraction":       1.0,
		},
	}
}

// Presets lists the built-in scenarios in display order.
func Presets() []*Scenario {
	return []*Scenario{
		ReferenceScenario(),
		SobrieteScenario(),
		ToutElectriqueScenario(),
	}
}

// PresetByName finds a built-in scenario.
func PresetByName(name string) (*Scenario, bool) {
	for _, sc := range Presets() {
		if sc.Name == name {
			return sc, true
		}
	}
	return nil, false
}
