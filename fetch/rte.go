/*
rte.go - eco2mix production downloader

PURPOSE:
  Downloads half-hourly French nuclear and hydro production from the
  OpenDataSoft eco2mix national consolidated dataset and averages it
  into the 12 month by 5 slot grid, in MW. These averages become the
  prod_nucleaire_hydraulique sheet.

PAGINATION:
  The API caps offsets at 10000 and a year holds about 17520 half-hour
  records, so the client pages month by month with a date_heure window.
  Records with a null nuclear or hydro field are dropped.

CACHING:
  The filtered raw records are cached as eco2mix_{year}.json. A cache
  hit skips the network entirely.

USAGE:
  rte := fetch.NewRTE(fetch.RTEConfig{CacheDir: "data/cache"})
  rows, err := rte.Production(ctx, 2023)
  // rows: 60 store.ProductionSlot in grid order

SEE ALSO:
  - fetch/pvgis.go: Solar capacity factors
  - scenario/calendar.go: Month and slot definitions
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
	"time"

	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/scenario"
	"github.com/terrawatt/balance-engine/store"
)

const rteURL = "https://odre.opendatasoft.com/api/explore/v2.1/catalog/datasets/eco2mix-national-cons-def/records"

// ProductionRecord is one cached half-hourly observation, in MW.
type ProductionRecord struct {
	DateHeure   string  `json:"date_heure"`
	Nucleaire   float64 `json:"nucleaire"`
	Hydraulique float64 `json:"hydraulique"`
}

// RTEConfig configures the eco2mix client.
type RTEConfig struct {
	BaseURL  string        // defaults to the OpenDataSoft endpoint
	CacheDir string        // defaults to data/cache
	Client   *http.Client  // defaults to a 30 second timeout client
	Pause    time.Duration // pause between pages, default 100ms
	PageSize int           // records per page, default 100
}

// RTE downloads nuclear and hydro production averages.
type RTE struct {
	config RTEConfig
	cache  Cache
}

// NewRTE creates an eco2mix client.
func NewRTE(cfg RTEConfig) *RTE {
	if cfg.BaseURL == "" {
		cfg.BaseURL = rteURL
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = "data/cache"
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Pause == 0 {
		cfg.Pause = 100 * time.Millisecond
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 100
	}
	return &RTE{config: cfg, cache: Cache{Dir: cfg.CacheDir}}
}

// Production returns the 60-row grid of mean nuclear and hydro MW for a
// year, downloading and caching the raw records on first call.
func (r *RTE) Production(ctx context.Context, year int) ([]store.ProductionSlot, error) {
	cacheFile := fmt.Sprintf("eco2mix_%d.json", year)

	var records []ProductionRecord
	hit, err := r.cache.Load(cacheFile, &records)
	if err != nil {
		return nil, err
	}
	if !hit {
		records, err = r.download(ctx, year)
		if err != nil {
			return nil, err
		}
		if err := r.cache.Store(cacheFile, records); err != nil {
			return nil, err
		}
	}

	return aggregateProduction(records), nil
}

type ecoResponse struct {
	TotalCount int `json:"total_count"`
	Results    []struct {
		DateHeure   string   `json:"date_heure"`
		Nucleaire   *float64 `json:"nucleaire"`
		Hydraulique *float64 `json:"hydraulique"`
	} `json:"results"`
}

// download pages through one year of half-hourly records, month by month.
func (r *RTE) download(ctx context.Context, year int) ([]ProductionRecord, error) {
	var all []ProductionRecord

	for month := 1; month <= 12; month++ {
		nextMonth, nextYear := month+1, year
		if month == 12 {
			nextMonth, nextYear = 1, year+1
		}
		where := fmt.Sprintf("date_heure >= '%d-%02d-01' AND date_heure < '%d-%02d-01'",
			year, month, nextYear, nextMonth)

		count := 0
		for offset := 0; ; offset += r.config.PageSize {
			page, total, err := r.fetchPage(ctx, where, offset)
			if err != nil {
				return nil, err
			}
			if len(page) == 0 {
				break
			}
			all = append(all, page...)
			count += len(page)
			if offset+r.config.PageSize >= total {
				break
			}
			if err := pause(ctx, r.config.Pause); err != nil {
				return nil, err
			}
		}
		log.Printf("📡 eco2mix %d-%02d: %d records", year, month, count)
	}

	return all, nil
}

func (r *RTE) fetchPage(ctx context.Context, where string, offset int) ([]ProductionRecord, int, error) {
	q := url.Values{}
	q.Set("select", "date_heure,nucleaire,hydraulique")
	q.Set("where", where)
	q.Set("limit", strconv.Itoa(r.config.PageSize))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("order_by", "date_heure")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.config.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build eco2mix request: %w", err)
	}

	resp, err := r.config.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("eco2mix request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read eco2mix response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("eco2mix returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed ecoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, 0, fmt.Errorf("failed to parse eco2mix response: %w", err)
	}

	records := make([]ProductionRecord, 0, len(parsed.Results))
	for _, res := range parsed.Results {
		if res.Nucleaire == nil || res.Hydraulique == nil {
			continue
		}
		records = append(records, ProductionRecord{
			DateHeure:   res.DateHeure,
			Nucleaire:   *res.Nucleaire,
			Hydraulique: *res.Hydraulique,
		})
	}
	return records, parsed.TotalCount, nil
}

// aggregateProduction averages the records by month and slot and returns
// the grid in canonical order. Cells with no observations stay at zero.
func aggregateProduction(records []ProductionRecord) []store.ProductionSlot {
	type bucket struct {
		nuc, hyd float64
		count    int
	}
	sums := make(map[string]*bucket)

	for _, rec := range records {
		mois, hour, ok := parseDateHeure(rec.DateHeure)
		if !ok {
			continue
		}
		key := mois + "|" + scenario.AssignSlot(hour)
		b := sums[key]
		if b == nil {
			b = &bucket{}
			sums[key] = b
		}
		b.nuc += rec.Nucleaire
		b.hyd += rec.Hydraulique
		b.count++
	}

	rows := make([]store.ProductionSlot, 0, len(scenario.Months)*len(scenario.Slots))
	for _, mois := range scenario.Months {
		for _, slot := range scenario.Slots {
			row := store.ProductionSlot{
				Mois:          mois,
				Plage:         slot.Name,
				NucleaireMW:   decimal.Zero,
				HydrauliqueMW: decimal.Zero,
			}
			if b := sums[mois+"|"+slot.Name]; b != nil && b.count > 0 {
				n := float64(b.count)
				row.NucleaireMW = decimal.NewFromFloat(b.nuc / n)
				row.HydrauliqueMW = decimal.NewFromFloat(b.hyd / n)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// parseDateHeure pulls month and hour out of an ISO timestamp like
// "2023-01-15T08:30:00+01:00".
func parseDateHeure(s string) (mois string, hour int, ok bool) {
	if len(s) < 13 {
		return "", 0, false
	}
	monthNum, err := strconv.Atoi(s[5:7])
	if err != nil || monthNum < 1 || monthNum > 12 {
		return "", 0, false
	}
	hour, err = strconv.Atoi(s[11:13])
	if err != nil || hour < 0 || hour > 23 {
		return "", 0, false
	}
	return scenario.Months[monthNum-1], hour, true
}

// pause waits between requests unless the context ends first.
func pause(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
