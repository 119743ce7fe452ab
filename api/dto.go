/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract: decimals cross
  the wire as strings so clients never round them, and engine types stay
  out of the JSON surface.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - scenarios.go: Preset listing
*/
package api

import (
	"time"

	"github.com/terrawatt/balance-engine/engine"
)

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes one built-in scenario preset.
type ScenarioDTO struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Year          int    `json:"year,omitempty"`
	KnobOverrides int    `json:"knob_overrides"`
}

// CreateRunRequest starts a pipeline run. Either a preset name or inline
// knob overrides on top of the defaults; both at once applies the
// overrides after the preset.
type CreateRunRequest struct {
	Scenario string             `json:"scenario,omitempty"`
	Knobs    map[string]float64 `json:"knobs,omitempty"`
}

// =============================================================================
// RUNS
// =============================================================================

// RunDTO summarizes a completed pipeline run.
type RunDTO struct {
	ID            string `json:"id"`
	Scenario      string `json:"scenario"`
	Year          int    `json:"year,omitempty"`
	CreatedAt     string `json:"created_at"`
	DurationMs    int64  `json:"duration_ms"`
	Rows          int    `json:"rows"`
	GasTotalTwh   string `json:"gas_total_twh"`
	AuditedCells  int    `json:"audited_cells"`
	Quantities    int    `json:"quantities"`
	Samples       int    `json:"samples"`
	Fallbacks     int    `json:"fallbacks"`
	MissingValues int    `json:"missing_values"`
	DocumentBytes int    `json:"document_bytes"`
}

// CheckReportDTO is the full consistency report of one run.
type CheckReportDTO struct {
	RunID      string            `json:"run_id"`
	Scenario   string            `json:"scenario"`
	Quantities int               `json:"quantities"`
	Samples    int               `json:"samples"`
	Results    []QuantityDTO     `json:"results"`
	Fallbacks  []FallbackDTO     `json:"fallbacks,omitempty"`
	Missing    []MissingValueDTO `json:"missing_values,omitempty"`
}

// QuantityDTO is the per-quantity checker outcome.
type QuantityDTO struct {
	Name     string `json:"name"`
	Samples  int    `json:"samples"`
	MaxDelta string `json:"max_delta"`
}

// FallbackDTO reports a knob that fell back to its declared default while
// rendering the parameter table.
type FallbackDTO struct {
	Knob    string `json:"knob"`
	Default string `json:"default"`
}

// MissingValueDTO reports a reference value that was substituted with its
// documented fallback during synthesis.
type MissingValueDTO struct {
	Table    string `json:"table"`
	Mois     string `json:"mois"`
	Plage    string `json:"plage"`
	Column   string `json:"column"`
	Fallback string `json:"fallback"`
}

// HealthDTO is the liveness response.
type HealthDTO struct {
	Status string `json:"status"`
	Runs   int    `json:"runs"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// MAPPING
// =============================================================================

func toRunDTO(run *Run) RunDTO {
	return RunDTO{
		ID:            run.ID,
		Scenario:      run.Scenario,
		Year:          run.Year,
		CreatedAt:     run.CreatedAt.Format(time.RFC3339),
		DurationMs:    run.Duration.Milliseconds(),
		Rows:          run.Rows,
		GasTotalTwh:   run.GasTotalTwh.String(),
		AuditedCells:  run.AuditedCells,
		Quantities:    run.Report.Quantities,
		Samples:       run.Report.Samples,
		Fallbacks:     len(run.Fallbacks),
		MissingValues: len(run.Missing),
		DocumentBytes: len(run.Document),
	}
}

func toCheckReportDTO(run *Run) CheckReportDTO {
	out := CheckReportDTO{
		RunID:      run.ID,
		Scenario:   run.Scenario,
		Quantities: run.Report.Quantities,
		Samples:    run.Report.Samples,
	}
	for _, r := range run.Report.Results {
		out.Results = append(out.Results, QuantityDTO{
			Name:     r.Name,
			Samples:  r.Samples,
			MaxDelta: r.MaxDelta.String(),
		})
	}
	for _, f := range run.Fallbacks {
		out.Fallbacks = append(out.Fallbacks, FallbackDTO{
			Knob:    f.Knob,
			Default: f.Default.String(),
		})
	}
	for _, m := range run.Missing {
		out.Missing = append(out.Missing, toMissingValueDTO(m))
	}
	return out
}

func toMissingValueDTO(m *engine.MissingValueError) MissingValueDTO {
	return MissingValueDTO{
		Table:    m.Table,
		Mois:     m.Key.Mois,
		Plage:    m.Key.Plage,
		Column:   string(m.Column),
		Fallback: m.Fallback.String(),
	}
}
