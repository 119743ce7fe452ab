package fetch_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrawatt/balance-engine/fetch"
)

// newPVGISServer answers with canned hourly points whose power depends
// on the requested latitude, so two locations can be told apart.
func newPVGISServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	handler := func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		hourly := []map[string]any{}
		switch r.URL.Query().Get("lat") {
		case "10":
			// Two January morning points averaging to 500 W
			hourly = append(hourly,
				map[string]any{"time": "20050115:0910", "P": 250.0},
				map[string]any{"time": "20050116:1010", "P": 750.0},
			)
		case "20":
			hourly = append(hourly,
				map[string]any{"time": "20050115:0910", "P": 250.0},
			)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"outputs": map[string]any{"hourly": hourly},
		})
	}
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return srv
}

func TestPVGIS_CapacityFactorsWeightTheFleet(t *testing.T) {
	// GIVEN: two locations at 0.5 and 0.25 capacity factor, equal weights
	var calls atomic.Int32
	srv := newPVGISServer(t, &calls)
	pv := fetch.NewPVGIS(fetch.PVGISConfig{
		BaseURL:  srv.URL,
		CacheDir: t.TempDir(),
		Pause:    time.Millisecond,
		Locations: []fetch.Location{
			{Name: "Nord", Lat: 10, Lon: 1, Weight: 0.5},
			{Name: "Sud", Lat: 20, Lon: 2, Weight: 0.5},
		},
	})

	// WHEN: computing the grid
	rows, err := pv.CapacityFactors(context.Background())
	require.NoError(t, err)

	// THEN: 60 rows in grid order
	require.Len(t, rows, 60)
	assert.Equal(t, "Janvier", rows[0].Mois)
	assert.Equal(t, "8h-13h", rows[0].Plage)

	// AND: the January morning cell is 0.5*0.5 + 0.25*0.5 = 0.375
	assert.True(t, rows[0].CapacityFactor.Equal(decimal.NewFromFloat(0.375)),
		"got %s", rows[0].CapacityFactor)

	// AND: cells no location ever lit stay at zero
	assert.True(t, rows[4].CapacityFactor.IsZero(), "23h-8h should be dark")
	assert.True(t, rows[5].CapacityFactor.IsZero(), "Février has no points")
}

func TestPVGIS_CapacityFactorsReuseTheLocationCaches(t *testing.T) {
	// GIVEN: a first run that warmed both location caches
	var calls atomic.Int32
	srv := newPVGISServer(t, &calls)
	cacheDir := t.TempDir()
	cfg := fetch.PVGISConfig{
		BaseURL:  srv.URL,
		CacheDir: cacheDir,
		Pause:    time.Millisecond,
		Locations: []fetch.Location{
			{Name: "Nord", Lat: 10, Lon: 1, Weight: 0.6},
			{Name: "Sud", Lat: 20, Lon: 2, Weight: 0.4},
		},
	}
	first, err := fetch.NewPVGIS(cfg).CapacityFactors(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())

	// WHEN: a fresh client computes the grid from the same cache dir
	second, err := fetch.NewPVGIS(cfg).CapacityFactors(context.Background())
	require.NoError(t, err)

	// THEN: no further requests, identical factors
	assert.Equal(t, int32(2), calls.Load())
	assert.True(t, second[0].CapacityFactor.Equal(first[0].CapacityFactor))
}

func TestPVGIS_CapacityFactorsSurfaceHTTPFailures(t *testing.T) {
	// GIVEN: a simulator that rejects every request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	pv := fetch.NewPVGIS(fetch.PVGISConfig{
		BaseURL:   srv.URL,
		CacheDir:  t.TempDir(),
		Locations: []fetch.Location{{Name: "Nord", Lat: 10, Lon: 1, Weight: 1}},
	})

	// WHEN: computing the grid
	_, err := pv.CapacityFactors(context.Background())

	// THEN: the failing location is named in the error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "Nord")
}
