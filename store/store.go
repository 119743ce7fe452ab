/*
store.go - Persistence interfaces for the balance pipeline

PURPOSE:
  Defines the storage contract between the pipeline stages: downloaded
  reference data (RTE production, PVGIS solar factors), computed slot
  demand per sector, the synthesis rows, the electrification balance,
  the parameter snapshot and run metadata.

  The database is the single source of truth between the download and
  generate commands: a generate run reads only what a download run (or a
  previous compute stage) persisted, never the network.

ROW TYPES:
  All numeric fields are decimals, stored as text to keep the exported
  values byte-identical with what the engine computed. A REAL column
  would round-trip through binary floats and break the audit equalities.

IMPLEMENTATIONS:
  - store.Memory: in-process, for tests and one-shot runs
  - store/sqlite.Store: durable, WAL journaling

SEE ALSO:
  - sqlite/sqlite.go: The durable implementation
  - document/: The consumer assembling tables from these rows
*/
package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound reports a missing metadata key.
var ErrNotFound = errors.New("store: not found")

// =============================================================================
// ROW TYPES
// =============================================================================

// ProductionSlot is the observed nuclear and hydro output averaged over
// one month and time slot, in MW.
type ProductionSlot struct {
	Mois          string
	Plage         string
	NucleaireMW   decimal.Decimal
	HydrauliqueMW decimal.Decimal
}

// SolarSlot is the fleet-weighted photovoltaic capacity factor for one
// month and time slot.
type SolarSlot struct {
	Mois           string
	Plage          string
	CapacityFactor decimal.Decimal
}

// HeatingSlot is the computed national heating demand for one month and
// time slot, with the inputs that fed it.
type HeatingSlot struct {
	Mois     string
	Plage    string
	TExtC    decimal.Decimal
	COP      decimal.Decimal
	BesoinKW decimal.Decimal
}

// SectorSlot is the per-slot demand of the four flat or profiled sectors,
// in kW.
type SectorSlot struct {
	Mois          string
	Plage         string
	TransportKW   decimal.Decimal
	IndustrieKW   decimal.Decimal
	TertiaireKW   decimal.Decimal
	AgricultureKW decimal.Decimal
}

// SynthesisRow is one line of the month x slot balance: production per
// source, demand per sector, and the gas backup closing the gap.
type SynthesisRow struct {
	Mois              string
	Plage             string
	PvMaisonsKW       decimal.Decimal
	PvCollectifKW     decimal.Decimal
	PvCentralesKW     decimal.Decimal
	HydrauliqueKW     decimal.Decimal
	EolienKW          decimal.Decimal
	NucleaireKW       decimal.Decimal
	TotalProductionKW decimal.Decimal
	ChauffageKW       decimal.Decimal
	TransportKW       decimal.Decimal
	IndustrieKW       decimal.Decimal
	TertiaireKW       decimal.Decimal
	AgricultureKW     decimal.Decimal
	TotalConsoKW      decimal.Decimal
	DeficitGazKW      decimal.Decimal
	DureeH            decimal.Decimal
	EnergieGazTwh     decimal.Decimal
}

// BalanceRow is one sector of the electrification balance, all TWh.
type BalanceRow struct {
	Secteur       string
	ActuelTwh     decimal.Decimal
	ElecTwh       decimal.Decimal
	H2Twh         decimal.Decimal
	BioEnrTwh     decimal.Decimal
	FossileTwh    decimal.Decimal
	TotalCibleTwh decimal.Decimal
	H2ProdElecTwh decimal.Decimal
}

// Parameter is one snapshot row of the scenario's declaration table.
type Parameter struct {
	Name        string
	Value       decimal.Decimal
	Unit        string
	Source      string
	Description string
}

// =============================================================================
// STORE CONTRACT
// =============================================================================

// Store persists the pipeline's intermediate and final data. Save methods
// replace the whole data set: a run always writes complete tables, and
// stale rows from a previous run must never leak into a new document.
type Store interface {
	SaveProduction(ctx context.Context, rows []ProductionSlot) error
	LoadProduction(ctx context.Context) ([]ProductionSlot, error)

	SaveSolar(ctx context.Context, rows []SolarSlot) error
	LoadSolar(ctx context.Context) ([]SolarSlot, error)

	SaveHeating(ctx context.Context, rows []HeatingSlot) error
	LoadHeating(ctx context.Context) ([]HeatingSlot, error)

	SaveSectors(ctx context.Context, rows []SectorSlot) error
	LoadSectors(ctx context.Context) ([]SectorSlot, error)

	SaveSynthesis(ctx context.Context, rows []SynthesisRow) error
	LoadSynthesis(ctx context.Context) ([]SynthesisRow, error)

	SaveBalance(ctx context.Context, rows []BalanceRow) error
	LoadBalance(ctx context.Context) ([]BalanceRow, error)

	SaveParameters(ctx context.Context, rows []Parameter) error
	LoadParameters(ctx context.Context) ([]Parameter, error)

	SetMetadata(ctx context.Context, key, value string) error
	Metadata(ctx context.Context, key string) (string, error)

	Close() error
}
