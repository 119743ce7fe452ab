/*
pvgis.go - PVGIS solar capacity factor downloader

PURPOSE:
  Downloads hourly output of a normalized 1 kWp system from the EU JRC
  PVGIS simulator for seven representative French cities, averages each
  city into per month and slot capacity factors, then combines them with
  population weights. The result becomes the facteurs_solaires sheet.

CAPACITY FACTOR:
  PVGIS returns P in watts for a 1 kWp installation, so P/1000 is
  already the instantaneous capacity factor. The factor for a grid cell
  is the mean over every simulated hour falling in that cell.

CACHING:
  One snapshot per location, pvgis_{name}.json. Warm caches make the
  whole download step offline.

USAGE:
  pv := fetch.NewPVGIS(fetch.PVGISConfig{CacheDir: "data/cache"})
  rows, err := pv.CapacityFactors(ctx)
  // rows: 60 store.SolarSlot in grid order

SEE ALSO:
  - fetch/rte.go: Nuclear and hydro production
*/
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/scenario"
	"github.com/terrawatt/balance-engine/store"
)

const pvgisURL = "https://re.jrc.ec.europa.eu/api/v5_2/seriescalc"

// Location is one PV fleet anchor point with its population weight.
type Location struct {
	Name   string
	Lat    float64
	Lon    float64
	Weight float64
}

// DefaultLocations spreads the national PV fleet over seven cities.
// Weights sum to 1.
var DefaultLocations = []Location{
	{Name: "Paris_IdF", Lat: 48.86, Lon: 2.35, Weight: 0.20},
	{Name: "Lyon", Lat: 45.76, Lon: 4.83, Weight: 0.15},
	{Name: "Marseille", Lat: 43.30, Lon: 5.37, Weight: 0.15},
	{Name: "Toulouse", Lat: 43.60, Lon: 1.44, Weight: 0.12},
	{Name: "Nantes", Lat: 47.22, Lon: -1.55, Weight: 0.13},
	{Name: "Strasbourg", Lat: 48.57, Lon: 7.75, Weight: 0.10},
	{Name: "Lille", Lat: 50.63, Lon: 3.06, Weight: 0.15},
}

// SolarRecord is one cached hourly observation of a 1 kWp system.
type SolarRecord struct {
	Month   int     `json:"month"`
	Hour    int     `json:"hour"`
	PowerKW float64 `json:"power_kw"`
}

// PVGISConfig configures the capacity factor client.
type PVGISConfig struct {
	BaseURL   string        // defaults to the JRC seriescalc endpoint
	CacheDir  string        // defaults to data/cache
	Client    *http.Client  // defaults to a 60 second timeout client
	Locations []Location    // defaults to DefaultLocations
	Pause     time.Duration // pause between downloads, default 1s
}

// PVGIS downloads fleet-weighted solar capacity factors.
type PVGIS struct {
	config PVGISConfig
	cache  Cache
}

// NewPVGIS creates a capacity factor client.
func NewPVGIS(cfg PVGISConfig) *PVGIS {
	if cfg.BaseURL == "" {
		cfg.BaseURL = pvgisURL
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = "data/cache"
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 60 * time.Second}
	}
	if cfg.Locations == nil {
		cfg.Locations = DefaultLocations
	}
	if cfg.Pause == 0 {
		cfg.Pause = time.Second
	}
	return &PVGIS{config: cfg, cache: Cache{Dir: cfg.CacheDir}}
}

type slotKey struct {
	month int
	plage string
}

// CapacityFactors returns the 60-row grid of fleet-weighted capacity
// factors, downloading each location once and caching it.
func (p *PVGIS) CapacityFactors(ctx context.Context) ([]store.SolarSlot, error) {
	perLocation := make([]map[slotKey]float64, 0, len(p.config.Locations))
	for _, loc := range p.config.Locations {
		records, downloaded, err := p.hourly(ctx, loc)
		if err != nil {
			return nil, err
		}
		perLocation = append(perLocation, capacityFactors(records))
		if downloaded {
			if err := pause(ctx, p.config.Pause); err != nil {
				return nil, err
			}
		}
	}

	rows := make([]store.SolarSlot, 0, len(scenario.Months)*len(scenario.Slots))
	for m, mois := range scenario.Months {
		for _, slot := range scenario.Slots {
			key := slotKey{month: m + 1, plage: slot.Name}
			weighted := 0.0
			for i, factors := range perLocation {
				weighted += factors[key] * p.config.Locations[i].Weight
			}
			rows = append(rows, store.SolarSlot{
				Mois:           mois,
				Plage:          slot.Name,
				CapacityFactor: decimal.NewFromFloat(weighted),
			})
		}
	}
	return rows, nil
}

// hourly returns the cached hourly records for a location, downloading
// them on first call. The second result reports whether the network was
// hit.
func (p *PVGIS) hourly(ctx context.Context, loc Location) ([]SolarRecord, bool, error) {
	cacheFile := locationCacheName(loc)

	var records []SolarRecord
	hit, err := p.cache.Load(cacheFile, &records)
	if err != nil {
		return nil, false, err
	}
	if hit {
		return records, false, nil
	}

	records, err = p.download(ctx, loc)
	if err != nil {
		return nil, false, err
	}
	if err := p.cache.Store(cacheFile, records); err != nil {
		return nil, false, err
	}
	log.Printf("☀️ PVGIS %s: %d hourly points", loc.Name, len(records))
	return records, true, nil
}

func locationCacheName(loc Location) string {
	name := loc.Name
	if name == "" {
		name = fmt.Sprintf("%v_%v", loc.Lat, loc.Lon)
	}
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	return "pvgis_" + name + ".json"
}

type pvgisResponse struct {
	Outputs struct {
		Hourly []struct {
			Time string  `json:"time"`
			P    float64 `json:"P"`
		} `json:"hourly"`
	} `json:"outputs"`
}

func (p *PVGIS) download(ctx context.Context, loc Location) ([]SolarRecord, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	q.Set("pvcalculation", "1")
	q.Set("peakpower", "1")
	q.Set("loss", "14")
	q.Set("outputformat", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build PVGIS request: %w", err)
	}

	resp, err := p.config.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("PVGIS request for %s failed: %w", loc.Name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read PVGIS response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PVGIS returned %d for %s: %s", resp.StatusCode, loc.Name, truncate(string(body), 200))
	}

	var parsed pvgisResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse PVGIS response: %w", err)
	}

	records := make([]SolarRecord, 0, len(parsed.Outputs.Hourly))
	for _, entry := range parsed.Outputs.Hourly {
		month, hour, ok := parsePVGISTime(entry.Time)
		if !ok {
			continue
		}
		records = append(records, SolarRecord{Month: month, Hour: hour, PowerKW: entry.P / 1000})
	}
	return records, nil
}

// parsePVGISTime reads the "20050101:0010" (YYYYMMDD:HHMM) stamps of the
// hourly series.
func parsePVGISTime(s string) (month, hour int, ok bool) {
	if len(s) < 11 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(s[4:6])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	hour, err = strconv.Atoi(s[9:11])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	return month, hour, true
}

// capacityFactors averages the hourly powers by month and slot.
func capacityFactors(records []SolarRecord) map[slotKey]float64 {
	type bucket struct {
		sum   float64
		count int
	}
	sums := make(map[slotKey]*bucket)

	for _, rec := range records {
		key := slotKey{month: rec.Month, plage: scenario.AssignSlot(rec.Hour)}
		b := sums[key]
		if b == nil {
			b = &bucket{}
			sums[key] = b
		}
		b.sum += rec.PowerKW
		b.count++
	}

	factors := make(map[slotKey]float64, len(sums))
	for key, b := range sums {
		if b.count > 0 {
			factors[key] = b.sum / float64(b.count)
		}
	}
	return factors
}
