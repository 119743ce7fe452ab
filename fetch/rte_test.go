package fetch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrawatt/balance-engine/fetch"
)

type ecoFixture struct {
	DateHeure   string   `json:"date_heure"`
	Nucleaire   *float64 `json:"nucleaire"`
	Hydraulique *float64 `json:"hydraulique"`
}

func fp(v float64) *float64 { return &v }

// januaryFixtures returns three valid half-hour observations plus one
// with a null nuclear reading.
func januaryFixtures() []ecoFixture {
	return []ecoFixture{
		{DateHeure: "2023-01-15T08:30:00+01:00", Nucleaire: fp(40000), Hydraulique: fp(8000)},
		{DateHeure: "2023-01-15T10:00:00+01:00", Nucleaire: fp(42000), Hydraulique: fp(9000)},
		{DateHeure: "2023-01-15T19:30:00+01:00", Nucleaire: fp(45000), Hydraulique: fp(7000)},
		{DateHeure: "2023-01-16T09:00:00+01:00", Nucleaire: nil, Hydraulique: fp(9999)},
	}
}

// newEcoServer serves the January fixtures with real pagination and
// counts the requests it saw.
func newEcoServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	records := januaryFixtures()
	handler := func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		where := r.URL.Query().Get("where")
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		page := []ecoFixture{}
		total := 0
		if strings.Contains(where, "'2023-01-01'") {
			total = len(records)
			if offset < total {
				end := offset + limit
				if end > total {
					end = total
				}
				page = records[offset:end]
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total_count": total,
			"results":     page,
		})
	}
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return srv
}

func TestRTE_ProductionAveragesByMonthAndSlot(t *testing.T) {
	// GIVEN: a year where only January has observations
	var calls atomic.Int32
	srv := newEcoServer(t, &calls)
	rte := fetch.NewRTE(fetch.RTEConfig{
		BaseURL:  srv.URL,
		CacheDir: t.TempDir(),
		PageSize: 2,
		Pause:    time.Millisecond,
	})

	// WHEN: downloading the production grid
	rows, err := rte.Production(context.Background(), 2023)
	require.NoError(t, err)

	// THEN: 60 rows in grid order
	require.Len(t, rows, 60)
	assert.Equal(t, "Janvier", rows[0].Mois)
	assert.Equal(t, "8h-13h", rows[0].Plage)
	assert.Equal(t, "13h-18h", rows[1].Plage)

	// AND: the morning slot is the mean of its two valid records, the
	// null record is dropped
	assert.True(t, rows[0].NucleaireMW.Equal(decimal.NewFromInt(41000)),
		"got %s", rows[0].NucleaireMW)
	assert.True(t, rows[0].HydrauliqueMW.Equal(decimal.NewFromInt(8500)))

	// AND: the 19h record landed in the evening slot
	assert.Equal(t, "18h-20h", rows[2].Plage)
	assert.True(t, rows[2].NucleaireMW.Equal(decimal.NewFromInt(45000)))

	// AND: months without data stay at zero
	fevrier := rows[5]
	assert.Equal(t, "Février", fevrier.Mois)
	assert.True(t, fevrier.NucleaireMW.IsZero())
}

func TestRTE_ProductionPaginatesThroughEveryPage(t *testing.T) {
	// GIVEN: four January records behind a two-record page size
	var calls atomic.Int32
	srv := newEcoServer(t, &calls)
	rte := fetch.NewRTE(fetch.RTEConfig{
		BaseURL:  srv.URL,
		CacheDir: t.TempDir(),
		PageSize: 2,
		Pause:    time.Millisecond,
	})

	// WHEN: downloading
	_, err := rte.Production(context.Background(), 2023)
	require.NoError(t, err)

	// THEN: January took two pages, the other eleven months one each
	assert.Equal(t, int32(13), calls.Load())
}

func TestRTE_ProductionReusesTheCache(t *testing.T) {
	// GIVEN: a first download that warmed the cache
	var calls atomic.Int32
	srv := newEcoServer(t, &calls)
	cacheDir := t.TempDir()
	rte := fetch.NewRTE(fetch.RTEConfig{
		BaseURL:  srv.URL,
		CacheDir: cacheDir,
		PageSize: 2,
		Pause:    time.Millisecond,
	})
	first, err := rte.Production(context.Background(), 2023)
	require.NoError(t, err)
	seen := calls.Load()

	// WHEN: downloading the same year again
	second, err := rte.Production(context.Background(), 2023)
	require.NoError(t, err)

	// THEN: no further requests, identical grid
	assert.Equal(t, seen, calls.Load())
	require.Len(t, second, 60)
	assert.True(t, second[0].NucleaireMW.Equal(first[0].NucleaireMW))
}

func TestRTE_ProductionSurfacesHTTPFailures(t *testing.T) {
	// GIVEN: an API that only errors
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)
	rte := fetch.NewRTE(fetch.RTEConfig{BaseURL: srv.URL, CacheDir: t.TempDir()})

	// WHEN: downloading
	_, err := rte.Production(context.Background(), 2023)

	// THEN: the status and body reach the caller
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}
