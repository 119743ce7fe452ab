/*
handlers.go - HTTP API handlers for the balance engine

PURPOSE:
  Exposes the scenario pipeline via REST. A run takes a scenario (preset
  name or inline knob overrides), executes the full chain against the
  stored reference series, and keeps the resulting workbook in memory for
  download.

ENDPOINTS:
  Scenarios:
    GET    /api/scenarios          List built-in presets

  Runs:
    GET    /api/runs               List completed runs
    POST   /api/runs               Execute the pipeline for a scenario
    GET    /api/runs/{id}          Run summary
    GET    /api/runs/{id}/document The ODS workbook bytes
    GET    /api/runs/{id}/check    Full consistency report

  Health:
    GET    /api/health             Liveness probe

RUN EXECUTION:
  Each run computes into a private in-memory store seeded with the
  downloaded production and solar series, so concurrent runs never see
  each other's consumption rows. The shared store is read-only here; only
  the CLI download stage writes it.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Unknown knob, invalid scenario values, bad request body
  - 404: Unknown preset or run ID
  - 409: Reference series not downloaded yet
  - 500: Pipeline or audit failures

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Preset listing and scenario resolution
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/document"
	"github.com/terrawatt/balance-engine/engine"
	"github.com/terrawatt/balance-engine/ods"
	"github.com/terrawatt/balance-engine/scenario"
	"github.com/terrawatt/balance-engine/store"
)

// ContentTypeODS is the media type of the workbook download.
const ContentTypeODS = "application/vnd.oasis.opendocument.spreadsheet"

// ErrNoReferenceSeries means the store holds no downloaded production or
// solar rows, so there is nothing to run a scenario against.
var ErrNoReferenceSeries = errors.New("no stored reference series, run the download stage first")

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers. The runs map is the
// only mutable state; the store is read-only from this package.
type Handler struct {
	Store   store.Store
	Workers int

	mu    sync.RWMutex
	runs  map[string]*Run
	order []string
}

// Run is one completed pipeline execution with its cached workbook.
type Run struct {
	ID           string
	Scenario     string
	Year         int
	CreatedAt    time.Time
	Duration     time.Duration
	Rows         int
	GasTotalTwh  decimal.Decimal
	Report       engine.Report
	Fallbacks    []engine.Fallback
	Missing      []*engine.MissingValueError
	AuditedCells int
	Document     []byte
}

// NewHandler creates a new handler reading reference series from the
// given store.
func NewHandler(st store.Store) *Handler {
	return &Handler{
		Store: st,
		runs:  make(map[string]*Run),
	}
}

func (h *Handler) lookup(id string) (*Run, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	run, ok := h.runs[id]
	return run, ok
}

func (h *Handler) insert(run *Run) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs[run.ID] = run
	h.order = append(h.order, run.ID)
}

// evictBefore removes runs created before the cutoff, freeing their
// cached workbooks. Returns the number of evicted runs.
func (h *Handler) evictBefore(cutoff time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	kept := h.order[:0]
	evicted := 0
	for _, id := range h.order {
		run, ok := h.runs[id]
		if !ok {
			continue
		}
		if run.CreatedAt.Before(cutoff) {
			delete(h.runs, id)
			evicted++
			continue
		}
		kept = append(kept, id)
	}
	h.order = kept
	return evicted
}

// =============================================================================
// HEALTH
// =============================================================================

// Health reports liveness and the number of retained runs.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	count := len(h.runs)
	h.mu.RUnlock()
	writeJSON(w, http.StatusOK, HealthDTO{Status: "ok", Runs: count})
}

// =============================================================================
// RUN HANDLERS
// =============================================================================

// ListRuns returns all retained runs in creation order.
// GET /api/runs
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	dtos := make([]RunDTO, 0, len(h.order))
	for _, id := range h.order {
		if run, ok := h.runs[id]; ok {
			dtos = append(dtos, toRunDTO(run))
		}
	}
	h.mu.RUnlock()
	writeJSON(w, http.StatusOK, dtos)
}

// CreateRun executes the pipeline for the requested scenario.
// POST /api/runs
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sc, err := resolveScenario(req)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown scenario", err)
		return
	}
	bundle, err := sc.Bundle()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scenario", err)
		return
	}

	run, err := h.execute(r.Context(), sc, bundle)
	if err != nil {
		if errors.Is(err, ErrNoReferenceSeries) {
			writeError(w, http.StatusConflict, "Reference series not downloaded", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Pipeline failed", err)
		return
	}

	h.insert(run)
	log.Printf("📄 Run %s (%s): gas backup %s TWh, %d audited cells, %s",
		run.ID, run.Scenario, run.GasTotalTwh.StringFixed(1), run.AuditedCells, run.Duration.Round(time.Millisecond))
	writeJSON(w, http.StatusCreated, toRunDTO(run))
}

// GetRun returns one run summary.
// GET /api/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookup(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Run not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(run))
}

// GetRunDocument streams the cached workbook.
// GET /api/runs/{id}/document
func (h *Handler) GetRunDocument(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookup(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Run not found", nil)
		return
	}
	w.Header().Set("Content-Type", ContentTypeODS)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "bilan_"+run.Scenario+".ods"))
	w.WriteHeader(http.StatusOK)
	w.Write(run.Document)
}

// GetRunCheck returns the full consistency report of one run.
// GET /api/runs/{id}/check
func (h *Handler) GetRunCheck(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookup(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Run not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toCheckReportDTO(run))
}

// =============================================================================
// PIPELINE EXECUTION
// =============================================================================

// execute runs compute, build, audit and serialization for one scenario.
// The work happens in a private in-memory store seeded with the shared
// reference series.
func (h *Handler) execute(ctx context.Context, sc *scenario.Scenario, bundle *scenario.Bundle) (*Run, error) {
	started := time.Now()

	production, err := h.Store.LoadProduction(ctx)
	if err != nil {
		return nil, fmt.Errorf("load production: %w", err)
	}
	solar, err := h.Store.LoadSolar(ctx)
	if err != nil {
		return nil, fmt.Errorf("load solar factors: %w", err)
	}
	if len(production) == 0 || len(solar) == 0 {
		return nil, ErrNoReferenceSeries
	}

	work := store.NewMemory()
	if err := work.SaveProduction(ctx, production); err != nil {
		return nil, err
	}
	if err := work.SaveSolar(ctx, solar); err != nil {
		return nil, err
	}

	if err := document.ComputeConsumption(ctx, bundle, work); err != nil {
		return nil, err
	}
	synthesis, err := document.ComputeSynthesis(ctx, bundle, work)
	if err != nil {
		return nil, err
	}

	doc, err := document.Build(ctx, document.Input{
		Bundle:  bundle,
		Store:   work,
		Workers: h.Workers,
	})
	if err != nil {
		return nil, err
	}
	if err := document.Audit(doc); err != nil {
		return nil, fmt.Errorf("document audit: %w", err)
	}

	var buf bytes.Buffer
	if err := ods.Write(&buf, doc.Tables); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return &Run{
		ID:           uuid.New().String(),
		Scenario:     sc.Name,
		Year:         sc.Year,
		CreatedAt:    started,
		Duration:     time.Since(started),
		Rows:         synthesis.Rows,
		GasTotalTwh:  synthesis.GasTotalTwh,
		Report:       doc.Report,
		Fallbacks:    doc.Fallbacks,
		Missing:      synthesis.Missing,
		AuditedCells: doc.AuditedCells(),
		Document:     buf.Bytes(),
	}, nil
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
