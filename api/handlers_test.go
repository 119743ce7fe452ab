/*
handlers_test.go - HTTP API tests

PURPOSE:
  Exercises the REST surface end to end through the chi router: running
  scenarios against a seeded in-memory store, downloading the workbook,
  reading the consistency report, and every error status the handlers
  promise.

FIXTURES:
  The store is seeded with a flat reference year: 40 GW nuclear and
  7.5 GW hydro in every slot, daytime solar capacity factors, zero at
  night. Each test builds its own handler so runs never leak across
  tests.
*/
package api_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrawatt/balance-engine/api"
	"github.com/terrawatt/balance-engine/scenario"
	"github.com/terrawatt/balance-engine/store"
)

// =============================================================================
// FIXTURES
// =============================================================================

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Fleet-weighted capacity factors per slot, same for every month.
var slotFactors = map[string]string{
	"8h-13h":  "0.18",
	"13h-18h": "0.22",
	"18h-20h": "0.05",
	"20h-23h": "0",
	"23h-8h":  "0",
}

func seededStore(t *testing.T) *store.Memory {
	t.Helper()
	m := store.NewMemory()
	production := make([]store.ProductionSlot, 0, 60)
	solar := make([]store.SolarSlot, 0, 60)
	for _, key := range scenario.GridKeys() {
		production = append(production, store.ProductionSlot{
			Mois:          key.Mois,
			Plage:         key.Plage,
			NucleaireMW:   d("40000"),
			HydrauliqueMW: d("7500"),
		})
		solar = append(solar, store.SolarSlot{
			Mois:           key.Mois,
			Plage:          key.Plage,
			CapacityFactor: d(slotFactors[key.Plage]),
		})
	}
	ctx := context.Background()
	require.NoError(t, m.SaveProduction(ctx, production))
	require.NoError(t, m.SaveSolar(ctx, solar))
	return m
}

func newRouter(t *testing.T) (*api.Handler, http.Handler) {
	t.Helper()
	h := api.NewHandler(seededStore(t))
	return h, api.NewRouter(h)
}

func getJSON(t *testing.T, router http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func postJSON(t *testing.T, router http.Handler, path, body string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// =============================================================================
// HEALTH
// =============================================================================

func TestHealth_ReportsRetainedRuns(t *testing.T) {
	// GIVEN a fresh server
	_, router := newRouter(t)

	// WHEN the health endpoint is queried
	var health api.HealthDTO
	rec := getJSON(t, router, "/api/health", &health)

	// THEN it is alive with no retained runs
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 0, health.Runs)
}

// =============================================================================
// RUN CREATION
// =============================================================================

func TestCreateRun_ExecutesTheReferencePipeline(t *testing.T) {
	// GIVEN a server with the reference series stored
	_, router := newRouter(t)

	// WHEN the reference preset is run
	var run api.RunDTO
	rec := postJSON(t, router, "/api/runs", `{"scenario":"reference"}`, &run)

	// THEN the full pipeline executed and the summary is complete
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	_, err := uuid.Parse(run.ID)
	assert.NoError(t, err, "run ID should be a UUID")
	assert.Equal(t, "reference", run.Scenario)
	assert.Equal(t, 2035, run.Year)
	assert.Equal(t, 60, run.Rows)
	// 5 heating + 9 transport + 8 sector quantities, 5 samples each
	assert.Equal(t, 22, run.Quantities)
	assert.Equal(t, 110, run.Samples)
	assert.Equal(t, 1296, run.AuditedCells)
	assert.Positive(t, run.DocumentBytes)
	assert.Zero(t, run.Fallbacks)
	assert.Zero(t, run.MissingValues)
	assert.False(t, d(run.GasTotalTwh).IsNegative(), "gas backup never goes negative")

	// AND the run is retrievable by ID and listed
	var fetched api.RunDTO
	rec = getJSON(t, router, "/api/runs/"+run.ID, &fetched)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, run.ID, fetched.ID)
	assert.Equal(t, run.GasTotalTwh, fetched.GasTotalTwh)

	var runs []api.RunDTO
	rec = getJSON(t, router, "/api/runs", &runs)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestCreateRun_EmptyBodyDefaultsToReference(t *testing.T) {
	// GIVEN a server with the reference series stored
	_, router := newRouter(t)

	// WHEN a run is created with no scenario at all
	var run api.RunDTO
	rec := postJSON(t, router, "/api/runs", `{}`, &run)

	// THEN it runs the reference preset
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "reference", run.Scenario)
}

func TestCreateRun_InlineKnobOverrides(t *testing.T) {
	// GIVEN a server with the reference series stored
	_, router := newRouter(t)

	// WHEN a run overrides a knob without naming a preset
	var custom api.RunDTO
	rec := postJSON(t, router, "/api/runs", `{"knobs":{"nombre_maisons":10000000}}`, &custom)

	// THEN it executes under a custom scenario label
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "personnalise", custom.Scenario)

	// WHEN overrides are layered on a named preset
	var layered api.RunDTO
	rec = postJSON(t, router, "/api/runs", `{"scenario":"sobriete","knobs":{"nombre_maisons":10000000}}`, &layered)

	// THEN the preset keeps its name
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "sobriete", layered.Scenario)
}

func TestCreateRun_UnknownPresetIs404(t *testing.T) {
	_, router := newRouter(t)

	rec := postJSON(t, router, "/api/runs", `{"scenario":"fusion-only"}`, nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := errorBody(t, rec)
	assert.Equal(t, "Unknown scenario", resp.Error)
	assert.Contains(t, resp.Details, "fusion-only")
}

func TestCreateRun_UnknownKnobIs400(t *testing.T) {
	_, router := newRouter(t)

	rec := postJSON(t, router, "/api/runs", `{"knobs":{"warp_drive":2}}`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := errorBody(t, rec)
	assert.Equal(t, "Invalid scenario", resp.Error)
	assert.Contains(t, resp.Details, "warp_drive")
}

func TestCreateRun_MalformedBodyIs400(t *testing.T) {
	_, router := newRouter(t)

	rec := postJSON(t, router, "/api/runs", `{"scenario":`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", errorBody(t, rec).Error)
}

func TestCreateRun_WithoutReferenceSeriesIs409(t *testing.T) {
	// GIVEN a server whose store was never populated by the download stage
	h := api.NewHandler(store.NewMemory())
	router := api.NewRouter(h)

	// WHEN a run is requested
	rec := postJSON(t, router, "/api/runs", `{"scenario":"reference"}`, nil)

	// THEN the conflict points at the missing stage
	require.Equal(t, http.StatusConflict, rec.Code)
	resp := errorBody(t, rec)
	assert.Equal(t, "Reference series not downloaded", resp.Error)
	assert.Contains(t, resp.Details, "download stage")
}

// =============================================================================
// RUN RETRIEVAL
// =============================================================================

func TestRunEndpoints_UnknownRunIs404(t *testing.T) {
	_, router := newRouter(t)

	for _, path := range []string{
		"/api/runs/does-not-exist",
		"/api/runs/does-not-exist/document",
		"/api/runs/does-not-exist/check",
	} {
		rec := getJSON(t, router, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "Run not found", errorBody(t, rec).Error, path)
	}
}

func TestGetRunDocument_StreamsTheWorkbook(t *testing.T) {
	// GIVEN a completed run
	_, router := newRouter(t)
	var run api.RunDTO
	rec := postJSON(t, router, "/api/runs", `{"scenario":"reference"}`, &run)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// WHEN its document is downloaded
	rec = getJSON(t, router, "/api/runs/"+run.ID+"/document", nil)

	// THEN the response is the cached ODS workbook
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, api.ContentTypeODS, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="bilan_reference.ods"`, rec.Header().Get("Content-Disposition"))

	body := rec.Body.Bytes()
	require.Equal(t, run.DocumentBytes, len(body))

	// AND it is a valid ODF package with the mimetype entry first
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	require.NotEmpty(t, zr.File)
	assert.Equal(t, "mimetype", zr.File[0].Name)
}

func TestGetRunCheck_ReportsEveryQuantity(t *testing.T) {
	// GIVEN a completed run
	_, router := newRouter(t)
	var run api.RunDTO
	rec := postJSON(t, router, "/api/runs", `{"scenario":"reference"}`, &run)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// WHEN the consistency report is fetched
	var report api.CheckReportDTO
	rec = getJSON(t, router, "/api/runs/"+run.ID+"/check", &report)

	// THEN every checked quantity appears with its sample count
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, run.ID, report.RunID)
	assert.Equal(t, "reference", report.Scenario)
	assert.Equal(t, 22, report.Quantities)
	assert.Equal(t, 110, report.Samples)
	require.Len(t, report.Results, 22)
	for _, q := range report.Results {
		assert.Equal(t, 5, q.Samples, q.Name)
		assert.NotEmpty(t, q.MaxDelta, q.Name)
	}
	assert.Empty(t, report.Missing)
	assert.Empty(t, report.Fallbacks)
}
