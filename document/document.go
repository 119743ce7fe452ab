/*
document.go - Document assembly

PURPOSE:
  Builds the complete workbook from a validated scenario and the stored
  pipeline data: the parameter table, the four source-data tables, the five
  per-sector calculation tables, the synthesis table and the
  electrification balance. Build is the only entry point; the table names
  and their order are part of the document contract.

THE TWO PHASES:
  1. Serial: validate the bundle, build the registry, verify every checker
     quantity's references and run the consistency checker. Nothing is
     rendered until the native and formula renditions agree on the live
     scenario.
  2. Parallel: populate the twelve tables from a frozen snapshot of the
     registry, the grid and the stored rows. Builders share nothing but
     the snapshot, so a bounded pool of goroutines fills them and the
     assembly step stitches the results back in declaration order.

AUDIT TRAIL:
  Every formula cell a builder emits is recorded with its expression tree
  and pre-computed value. Audit (audit.go) re-evaluates the trees against
  the finished document, so a workbook never ships with a formula that
  disagrees with the number next to it.

USAGE:
  doc, err := document.Build(ctx, document.Input{Bundle: b, Store: st})
  if err != nil { ... }
  if err := document.Audit(doc); err != nil { ... }
  err = ods.WriteFile("modele.ods", doc.Tables)

SEE ALSO:
  - pipeline.go: Computes and stores the rows this file assembles
  - audit.go: The whole-document formula re-evaluation
*/
package document

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/engine"
	"github.com/terrawatt/balance-engine/heating"
	"github.com/terrawatt/balance-engine/ods"
	"github.com/terrawatt/balance-engine/scenario"
	"github.com/terrawatt/balance-engine/sectors"
	"github.com/terrawatt/balance-engine/store"
	"github.com/terrawatt/balance-engine/transport"
)

// =============================================================================
// TABLE NAMES
// =============================================================================

// Table names are contract: cross-table formulas and downstream readers
// address tables by these exact strings.
const (
	TableParametres      = scenario.ParamTable
	TableProduction      = "prod_nucleaire_hydraulique"
	TableSolaire         = "facteurs_solaires"
	TableChauffage       = "consommation_chauffage"
	TableSecteurs        = "consommation_sectors"
	TableCalcIndustrie   = "calc_industrie"
	TableCalcTertiaire   = "calc_tertiaire"
	TableCalcTransport   = "calc_transport"
	TableCalcAgriculture = "calc_agriculture"
	TableCalcChauffage   = "calc_chauffage"
	TableSynthese        = "moulinette_simplifiee"
	TableBilan           = "bilan_electrification"
)

// =============================================================================
// INPUT AND RESULT
// =============================================================================

// Input carries everything Build needs. Workers bounds the populate pool;
// zero means defaultWorkers. Perturbations and Seed configure the checker
// run exactly as engine.Options does.
type Input struct {
	Bundle        *scenario.Bundle
	Store         store.Store
	Workers       int
	Perturbations int
	Seed          int64
}

// Document is the assembled workbook with its provenance: the checker
// report from phase 1, the knobs that fell back to defaults while rendering
// the parameter table, and the recorded formula cells Audit re-evaluates.
type Document struct {
	Tables    []ods.Table
	Report    engine.Report
	Fallbacks []engine.Fallback

	audits []auditedCell
}

// Table returns the named table, or nil.
func (d *Document) Table(name string) *ods.Table {
	for i := range d.Tables {
		if d.Tables[i].Name == name {
			return &d.Tables[i]
		}
	}
	return nil
}

// auditedCell is one formula cell held for re-evaluation: where it landed,
// the expression tree it was rendered from, and the value written next to
// it. The tree is kept because the rendered text is write-only; the audit
// interprets the tree, never re-parses the formula.
type auditedCell struct {
	at    engine.Address
	expr  engine.Expr
	value decimal.Decimal
}

const defaultWorkers = 4

func workerCount(n int) int {
	if n <= 0 {
		return defaultWorkers
	}
	return n
}

// =============================================================================
// BUILD
// =============================================================================

// Build runs the two phases and assembles the workbook. The checker gate
// comes first: a scenario whose formulas and native arithmetic disagree
// never reaches the table builders.
func Build(ctx context.Context, in Input) (*Document, error) {
	if in.Bundle == nil {
		return nil, errors.New("document: nil scenario bundle")
	}
	if in.Store == nil {
		return nil, errors.New("document: nil store")
	}
	if err := in.Bundle.Validate(); err != nil {
		return nil, fmt.Errorf("document: invalid scenario: %w", err)
	}

	reg, err := scenario.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}

	quantities := allQuantities(in.Bundle)
	checker := engine.NewChecker(reg)
	if err := checker.VerifyReferences(quantities); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	report, err := checker.Run(quantities, engine.Options{
		Perturbations: in.Perturbations,
		Seed:          in.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	// The run covers defaults and perturbations; the live scenario gets the
	// same treatment so an exotic knob setting cannot slip past the gate.
	live := in.Bundle.Sample()
	for _, q := range quantities {
		if err := checker.Check(q, live, "scenario"); err != nil {
			return nil, fmt.Errorf("document: %w", err)
		}
	}

	snap, err := loadSnapshot(ctx, reg, in)
	if err != nil {
		return nil, err
	}

	built, err := populate(ctx, snap, workerCount(in.Workers))
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Tables:    make([]ods.Table, 0, len(built)),
		Report:    report,
		Fallbacks: snap.fallbacks,
	}
	for _, b := range built {
		doc.Tables = append(doc.Tables, *b.table)
		doc.audits = append(doc.audits, b.audits...)
	}
	return doc, nil
}

// allQuantities gathers the checker coverage of every model package.
func allQuantities(b *scenario.Bundle) []engine.Quantity {
	var qs []engine.Quantity
	qs = append(qs, heating.Quantities(b.Heating)...)
	qs = append(qs, transport.Quantities()...)
	qs = append(qs, sectors.Quantities()...)
	return qs
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// snapshot is the frozen phase-1 state the parallel builders read. Nothing
// in it is mutated after loadSnapshot returns.
type snapshot struct {
	bundle   *scenario.Bundle
	registry *engine.Registry
	grid     *engine.Grid

	paramRows []engine.ParamRow
	fallbacks []engine.Fallback

	production []store.ProductionSlot
	solar      []store.SolarSlot
	heating    []store.HeatingSlot
	sectors    []store.SectorSlot
	synthesis  []store.SynthesisRow
	balance    []store.BalanceRow
}

// loadSnapshot reads every stored series and proves each grid-shaped one
// lines up with the canonical row order. Cross-table formulas rely on
// "same row, same period", so a misaligned series is fatal here, before
// any formula is rendered against the wrong row.
func loadSnapshot(ctx context.Context, reg *engine.Registry, in Input) (*snapshot, error) {
	grid, err := scenario.BalanceGrid()
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}

	snap := &snapshot{bundle: in.Bundle, registry: reg, grid: grid}
	snap.paramRows, snap.fallbacks = reg.RowsFromValues(in.Bundle)

	if snap.production, err = in.Store.LoadProduction(ctx); err != nil {
		return nil, fmt.Errorf("document: load production: %w", err)
	}
	if snap.solar, err = in.Store.LoadSolar(ctx); err != nil {
		return nil, fmt.Errorf("document: load solar factors: %w", err)
	}
	if snap.heating, err = in.Store.LoadHeating(ctx); err != nil {
		return nil, fmt.Errorf("document: load heating demand: %w", err)
	}
	if snap.sectors, err = in.Store.LoadSectors(ctx); err != nil {
		return nil, fmt.Errorf("document: load sector demand: %w", err)
	}
	if snap.synthesis, err = in.Store.LoadSynthesis(ctx); err != nil {
		return nil, fmt.Errorf("document: load synthesis: %w", err)
	}
	if snap.balance, err = in.Store.LoadBalance(ctx); err != nil {
		return nil, fmt.Errorf("document: load balance: %w", err)
	}

	for _, series := range []struct {
		table string
		keys  []engine.GridKey
	}{
		{TableProduction, productionKeys(snap.production)},
		{TableSolaire, solarKeys(snap.solar)},
		{TableChauffage, heatingKeys(snap.heating)},
		{TableSecteurs, sectorKeys(snap.sectors)},
		{TableSynthese, synthesisKeys(snap.synthesis)},
	} {
		if len(series.keys) == 0 {
			return nil, fmt.Errorf("document: no %s rows in store, run the download and compute stages first", series.table)
		}
		if err := grid.VerifyOrder(series.table, series.keys); err != nil {
			return nil, fmt.Errorf("document: %w", err)
		}
	}
	if len(snap.balance) == 0 {
		return nil, fmt.Errorf("document: no %s rows in store, run the compute stage first", TableBilan)
	}
	return snap, nil
}

func productionKeys(rows []store.ProductionSlot) []engine.GridKey {
	keys := make([]engine.GridKey, len(rows))
	for i, r := range rows {
		keys[i] = engine.GridKey{Mois: r.Mois, Plage: r.Plage}
	}
	return keys
}

func solarKeys(rows []store.SolarSlot) []engine.GridKey {
	keys := make([]engine.GridKey, len(rows))
	for i, r := range rows {
		keys[i] = engine.GridKey{Mois: r.Mois, Plage: r.Plage}
	}
	return keys
}

func heatingKeys(rows []store.HeatingSlot) []engine.GridKey {
	keys := make([]engine.GridKey, len(rows))
	for i, r := range rows {
		keys[i] = engine.GridKey{Mois: r.Mois, Plage: r.Plage}
	}
	return keys
}

func sectorKeys(rows []store.SectorSlot) []engine.GridKey {
	keys := make([]engine.GridKey, len(rows))
	for i, r := range rows {
		keys[i] = engine.GridKey{Mois: r.Mois, Plage: r.Plage}
	}
	return keys
}

func synthesisKeys(rows []store.SynthesisRow) []engine.GridKey {
	keys := make([]engine.GridKey, len(rows))
	for i, r := range rows {
		keys[i] = engine.GridKey{Mois: r.Mois, Plage: r.Plage}
	}
	return keys
}

// =============================================================================
// PARALLEL POPULATE
// =============================================================================

// builderFn fills one table from the snapshot and reports the formula
// cells it emitted.
type builderFn func(*snapshot) (*ods.Table, []auditedCell, error)

type builtTable struct {
	table  *ods.Table
	audits []auditedCell
}

// builders lists the twelve tables in workbook order. populate may finish
// them in any order; assembly follows this list.
var builders = []struct {
	name  string
	build builderFn
}{
	{TableParametres, buildParametres},
	{TableProduction, buildProduction},
	{TableSolaire, buildSolaire},
	{TableChauffage, buildChauffage},
	{TableSecteurs, buildSecteurs},
	{TableCalcIndustrie, buildCalcIndustrie},
	{TableCalcTertiaire, buildCalcTertiaire},
	{TableCalcTransport, buildCalcTransport},
	{TableCalcAgriculture, buildCalcAgriculture},
	{TableCalcChauffage, buildCalcChauffage},
	{TableSynthese, buildSynthese},
	{TableBilan, buildBilan},
}

// populate runs the builders over a bounded goroutine pool. The first
// failure wins; later builders still in flight finish but their results are
// discarded, and no new builder starts once an error is recorded.
func populate(ctx context.Context, snap *snapshot, workers int) ([]builtTable, error) {
	results := make([]builtTable, len(builders))
	sem := make(chan struct{}, workers)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	for i, b := range builders {
		if err := ctx.Err(); err != nil {
			fail(err)
		}
		if failed() {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, name string, build builderFn) {
			defer wg.Done()
			defer func() { <-sem }()
			table, audits, err := build(snap)
			if err != nil {
				fail(fmt.Errorf("document: table %s: %w", name, err))
				return
			}
			results[i] = builtTable{table: table, audits: audits}
		}(i, b.name, b.build)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
