/*
scenarios.go - Preset listing and scenario resolution

PURPOSE:
  Lists the built-in scenario presets and turns run requests into concrete
  scenarios. Inline knob overrides layer on top of the chosen preset, so a
  client can start from "reference" and move one slider.

SEE ALSO:
  - scenario/presets.go: The preset definitions
  - handlers.go: CreateRun, which validates the resolved scenario
*/
package api

import (
	"fmt"
	"net/http"

	"github.com/terrawatt/balance-engine/scenario"
)

// ListScenarios returns the built-in presets.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	presets := scenario.Presets()
	dtos := make([]ScenarioDTO, 0, len(presets))
	for _, sc := range presets {
		dtos = append(dtos, ScenarioDTO{
			Name:          sc.Name,
			Description:   sc.Description,
			Year:          sc.Year,
			KnobOverrides: len(sc.Knobs),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// resolveScenario picks the preset named by the request, or the reference
// preset when none is named, and layers any inline knob overrides on top.
// Presets() hands out fresh copies, so mutating the knob map is safe.
func resolveScenario(req CreateRunRequest) (*scenario.Scenario, error) {
	sc := scenario.ReferenceScenario()
	if req.Scenario != "" {
		preset, ok := scenario.PresetByName(req.Scenario)
		if !ok {
			return nil, fmt.Errorf("no preset named %q", req.Scenario)
		}
		sc = preset
	}
	if len(req.Knobs) > 0 {
		if sc.Knobs == nil {
			sc.Knobs = make(map[string]float64, len(req.Knobs))
		}
		for name, value := range req.Knobs {
			sc.Knobs[name] = value
		}
		if req.Scenario == "" {
			sc.Name = "personnalise"
			sc.Description = "Scénario personnalisé via l'API"
		}
	}
	return sc, nil
}
