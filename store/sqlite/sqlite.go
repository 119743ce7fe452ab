/*
Package sqlite persists pipeline data in a SQLite database.

PURPOSE:
  Implements store.Store on SQLite. The database is the hand-off point
  between pipeline steps: the fetch step fills the production and solar
  tables, the compute step fills demand and synthesis, and the document
  step reads everything back.

KEY TABLES:
  metadata:                   Run bookkeeping (fetch dates, scenario name)
  parametres:                 Scenario knob values, one row per knob
  prod_nucleaire_hydraulique: Observed nuclear and hydro MW per month and slot
  facteurs_solaires_pvgis:    Fleet-weighted PV capacity factors
  consommation_chauffage:     Heating demand with its temperature and COP inputs
  consommation_sectors:       Transport, industry, services and farming kW
  synthese_moulinette:        The month by slot balance feeding the final sheet
  bilan_electrification:      Per-sector energy balance in TWh

DECIMALS:
  All numeric columns are TEXT holding the exact decimal text form. A
  REAL column would round-trip through binary floats and the reloaded
  values would no longer match the spreadsheet formulas digit for digit.

REPLACE-ALL SEMANTICS:
  Save methods replace the whole table inside one transaction. A run
  always produces complete tables, and a failed save must not leave a
  table half old and half new.

ORDERING:
  Every table carries a position column. Loads return rows in the order
  they were saved, which is the order the document writes them.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of WAL mode. Multiple
  readers don't block, and a single writer at a time is enough for a
  pipeline that writes tables whole.

USAGE:
  st, err := sqlite.New("./data/bilan.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - store/store.go: Interface and row types
  - store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	st := &Store{db: db}
	if err := st.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return st, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Run bookkeeping (fetch dates, scenario name, data year)
	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Scenario knob values as written into the parameter sheet
	CREATE TABLE IF NOT EXISTS parametres (
		position INTEGER NOT NULL,
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		unit TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT ''
	);

	-- Observed nuclear and hydro production averages (eco2mix)
	CREATE TABLE IF NOT EXISTS prod_nucleaire_hydraulique (
		position INTEGER NOT NULL,
		mois TEXT NOT NULL,
		plage TEXT NOT NULL,
		nucleaire_mw TEXT NOT NULL,
		hydraulique_mw TEXT NOT NULL,
		PRIMARY KEY (mois, plage)
	);

	-- Fleet-weighted photovoltaic capacity factors (PVGIS)
	CREATE TABLE IF NOT EXISTS facteurs_solaires_pvgis (
		position INTEGER NOT NULL,
		mois TEXT NOT NULL,
		plage TEXT NOT NULL,
		capacity_factor TEXT NOT NULL,
		PRIMARY KEY (mois, plage)
	);

	-- National heating demand with the inputs that produced it
	CREATE TABLE IF NOT EXISTS consommation_chauffage (
		position INTEGER NOT NULL,
		mois TEXT NOT NULL,
		plage TEXT NOT NULL,
		temperature_ext TEXT NOT NULL,
		cop TEXT NOT NULL,
		besoin_electrique_kw TEXT NOT NULL,
		PRIMARY KEY (mois, plage)
	);

	-- Per-slot demand of the four remaining sectors
	CREATE TABLE IF NOT EXISTS consommation_sectors (
		position INTEGER NOT NULL,
		mois TEXT NOT NULL,
		plage TEXT NOT NULL,
		transport_kw TEXT NOT NULL,
		industrie_kw TEXT NOT NULL,
		tertiaire_kw TEXT NOT NULL,
		agriculture_kw TEXT NOT NULL,
		PRIMARY KEY (mois, plage)
	);

	-- Month by slot balance: production per source, demand per sector,
	-- gas backup closing the gap
	CREATE TABLE IF NOT EXISTS synthese_moulinette (
		position INTEGER NOT NULL,
		mois TEXT NOT NULL,
		plage TEXT NOT NULL,
		pv_maisons_kw TEXT NOT NULL,
		pv_collectif_kw TEXT NOT NULL,
		pv_centrales_kw TEXT NOT NULL,
		hydraulique_kw TEXT NOT NULL,
		eolien_kw TEXT NOT NULL,
		nucleaire_kw TEXT NOT NULL,
		total_production_kw TEXT NOT NULL,
		chauffage_kw TEXT NOT NULL,
		transport_kw TEXT NOT NULL,
		industrie_kw TEXT NOT NULL,
		tertiaire_kw TEXT NOT NULL,
		agriculture_kw TEXT NOT NULL,
		total_conso_kw TEXT NOT NULL,
		deficit_gaz_kw TEXT NOT NULL,
		duree_h TEXT NOT NULL,
		energie_gaz_twh TEXT NOT NULL,
		PRIMARY KEY (mois, plage)
	);

	-- Per-sector electrification balance in TWh
	CREATE TABLE IF NOT EXISTS bilan_electrification (
		position INTEGER NOT NULL,
		sector TEXT PRIMARY KEY,
		current_twh TEXT NOT NULL,
		elec_twh TEXT NOT NULL,
		h2_twh TEXT NOT NULL,
		bio_enr_twh TEXT NOT NULL,
		fossil_residual_twh TEXT NOT NULL,
		total_target_twh TEXT NOT NULL,
		h2_production_elec_twh TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

// replaceAll clears a table and inserts the given rows inside one
// transaction.
func (s *Store) replaceAll(ctx context.Context, table, insert string, rows [][]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	for _, args := range rows {
		if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}

	return tx.Commit()
}

func parseDecimal(column, text string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse %s value %q: %w", column, text, err)
	}
	return d, nil
}

// =============================================================================
// PRODUCTION (nuclear and hydro averages)
// =============================================================================

// SaveProduction replaces the nuclear and hydro production table.
func (s *Store) SaveProduction(ctx context.Context, rows []store.ProductionSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	insert := `
		INSERT INTO prod_nucleaire_hydraulique (position, mois, plage, nucleaire_mw, hydraulique_mw)
		VALUES (?, ?, ?, ?, ?)
	`

	args := make([][]any, len(rows))
	for i, r := range rows {
		args[i] = []any{i, r.Mois, r.Plage, r.NucleaireMW.String(), r.HydrauliqueMW.String()}
	}
	return s.replaceAll(ctx, "prod_nucleaire_hydraulique", insert, args)
}

// LoadProduction returns the production rows in saved order.
func (s *Store) LoadProduction(ctx context.Context) ([]store.ProductionSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT mois, plage, nucleaire_mw, hydraulique_mw
		FROM prod_nucleaire_hydraulique
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query production: %w", err)
	}
	defer rows.Close()

	var out []store.ProductionSlot
	for rows.Next() {
		r, err := scanProduction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanProduction(rows *sql.Rows) (store.ProductionSlot, error) {
	var (
		r                store.ProductionSlot
		nucleaire, hydro string
	)
	if err := rows.Scan(&r.Mois, &r.Plage, &nucleaire, &hydro); err != nil {
		return r, fmt.Errorf("failed to scan production row: %w", err)
	}

	var err error
	if r.NucleaireMW, err = parseDecimal("nucleaire_mw", nucleaire); err != nil {
		return r, err
	}
	if r.HydrauliqueMW, err = parseDecimal("hydraulique_mw", hydro); err != nil {
		return r, err
	}
	return r, nil
}

// =============================================================================
// SOLAR CAPACITY FACTORS
// =============================================================================

// SaveSolar replaces the photovoltaic capacity factor table.
func (s *Store) SaveSolar(ctx context.Context, rows []store.SolarSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	insert := `
		INSERT INTO facteurs_solaires_pvgis (position, mois, plage, capacity_factor)
		VALUES (?, ?, ?, ?)
	`

	args := make([][]any, len(rows))
	for i, r := range rows {
		args[i] = []any{i, r.Mois, r.Plage, r.CapacityFactor.String()}
	}
	return s.replaceAll(ctx, "facteurs_solaires_pvgis", insert, args)
}

// LoadSolar returns the capacity factor rows in saved order.
func (s *Store) LoadSolar(ctx context.Context) ([]store.SolarSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT mois, plage, capacity_factor
		FROM facteurs_solaires_pvgis
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query solar factors: %w", err)
	}
	defer rows.Close()

	var out []store.SolarSlot
	for rows.Next() {
		var (
			r      store.SolarSlot
			factor string
		)
		if err := rows.Scan(&r.Mois, &r.Plage, &factor); err != nil {
			return nil, fmt.Errorf("failed to scan solar row: %w", err)
		}
		if r.CapacityFactor, err = parseDecimal("capacity_factor", factor); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// HEATING DEMAND
// =============================================================================

// SaveHeating replaces the heating demand table.
func (s *Store) SaveHeating(ctx context.Context, rows []store.HeatingSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	insert := `
		INSERT INTO consommation_chauffage (position, mois, plage, temperature_ext, cop, besoin_electrique_kw)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	args := make([][]any, len(rows))
	for i, r := range rows {
		args[i] = []any{i, r.Mois, r.Plage, r.TExtC.String(), r.COP.String(), r.BesoinKW.String()}
	}
	return s.replaceAll(ctx, "consommation_chauffage", insert, args)
}

// LoadHeating returns the heating rows in saved order.
func (s *Store) LoadHeating(ctx context.Context) ([]store.HeatingSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT mois, plage, temperature_ext, cop, besoin_electrique_kw
		FROM consommation_chauffage
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query heating: %w", err)
	}
	defer rows.Close()

	var out []store.HeatingSlot
	for rows.Next() {
		r, err := scanHeating(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanHeating(rows *sql.Rows) (store.HeatingSlot, error) {
	var (
		r                 store.HeatingSlot
		text, cop, besoin string
	)
	if err := rows.Scan(&r.Mois, &r.Plage, &text, &cop, &besoin); err != nil {
		return r, fmt.Errorf("failed to scan heating row: %w", err)
	}

	var err error
	if r.TExtC, err = parseDecimal("temperature_ext", text); err != nil {
		return r, err
	}
	if r.COP, err = parseDecimal("cop", cop); err != nil {
		return r, err
	}
	if r.BesoinKW, err = parseDecimal("besoin_electrique_kw", besoin); err != nil {
		return r, err
	}
	return r, nil
}

// =============================================================================
// SECTOR DEMAND
// =============================================================================

// SaveSectors replaces the per-slot sector demand table.
func (s *Store) SaveSectors(ctx context.Context, rows []store.SectorSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	insert := `
		INSERT INTO consommation_sectors (position, mois, plage, transport_kw, industrie_kw, tertiaire_kw, agriculture_kw)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	args := make([][]any, len(rows))
	for i, r := range rows {
		args[i] = []any{
			i, r.Mois, r.Plage,
			r.TransportKW.String(), r.IndustrieKW.String(),
			r.TertiaireKW.String(), r.AgricultureKW.String(),
		}
	}
	return s.replaceAll(ctx, "consommation_sectors", insert, args)
}

// LoadSectors returns the sector demand rows in saved order.
func (s *Store) LoadSectors(ctx context.Context) ([]store.SectorSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT mois, plage, transport_kw, industrie_kw, tertiaire_kw, agriculture_kw
		FROM consommation_sectors
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sector demand: %w", err)
	}
	defer rows.Close()

	var out []store.SectorSlot
	for rows.Next() {
		r, err := scanSectors(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanSectors(rows *sql.Rows) (store.SectorSlot, error) {
	var (
		r                                            store.SectorSlot
		transport, industrie, tertiaire, agriculture string
	)
	err := rows.Scan(&r.Mois, &r.Plage, &transport, &industrie, &tertiaire, &agriculture)
	if err != nil {
		return r, fmt.Errorf("failed to scan sector row: %w", err)
	}

	if r.TransportKW, err = parseDecimal("transport_kw", transport); err != nil {
		return r, err
	}
	if r.IndustrieKW, err = parseDecimal("industrie_kw", industrie); err != nil {
		return r, err
	}
	if r.TertiaireKW, err = parseDecimal("tertiaire_kw", tertiaire); err != nil {
		return r, err
	}
	if r.AgricultureKW, err = parseDecimal("agriculture_kw", agriculture); err != nil {
		return r, err
	}
	return r, nil
}

// =============================================================================
// SYNTHESIS
// =============================================================================

// synthesisColumns lists the value columns of synthese_moulinette in
// SELECT and INSERT order.
var synthesisColumns = []string{
	"pv_maisons_kw", "pv_collectif_kw", "pv_centrales_kw",
	"hydraulique_kw", "eolien_kw", "nucleaire_kw", "total_production_kw",
	"chauffage_kw", "transport_kw", "industrie_kw", "tertiaire_kw",
	"agriculture_kw", "total_conso_kw", "deficit_gaz_kw", "duree_h",
	"energie_gaz_twh",
}

// synthesisFields returns pointers to the value fields of a row, in the
// same order as synthesisColumns.
func synthesisFields(r *store.SynthesisRow) []*decimal.Decimal {
	return []*decimal.Decimal{
		&r.PvMaisonsKW, &r.PvCollectifKW, &r.PvCentralesKW,
		&r.HydrauliqueKW, &r.EolienKW, &r.NucleaireKW, &r.TotalProductionKW,
		&r.ChauffageKW, &r.TransportKW, &r.IndustrieKW, &r.TertiaireKW,
		&r.AgricultureKW, &r.TotalConsoKW, &r.DeficitGazKW, &r.DureeH,
		&r.EnergieGazTwh,
	}
}

// SaveSynthesis replaces the synthesis table.
func (s *Store) SaveSynthesis(ctx context.Context, rows []store.SynthesisRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	insert := `
		INSERT INTO synthese_moulinette (position, mois, plage,
			pv_maisons_kw, pv_collectif_kw, pv_centrales_kw,
			hydraulique_kw, eolien_kw, nucleaire_kw, total_production_kw,
			chauffage_kw, transport_kw, industrie_kw, tertiaire_kw,
			agriculture_kw, total_conso_kw, deficit_gaz_kw, duree_h,
			energie_gaz_twh)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	args := make([][]any, len(rows))
	for i := range rows {
		row := []any{i, rows[i].Mois, rows[i].Plage}
		for _, f := range synthesisFields(&rows[i]) {
			row = append(row, f.String())
		}
		args[i] = row
	}
	return s.replaceAll(ctx, "synthese_moulinette", insert, args)
}

// LoadSynthesis returns the synthesis rows in saved order.
func (s *Store) LoadSynthesis(ctx context.Context) ([]store.SynthesisRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT mois, plage,
			pv_maisons_kw, pv_collectif_kw, pv_centrales_kw,
			hydraulique_kw, eolien_kw, nucleaire_kw, total_production_kw,
			chauffage_kw, transport_kw, industrie_kw, tertiaire_kw,
			agriculture_kw, total_conso_kw, deficit_gaz_kw, duree_h,
			energie_gaz_twh
		FROM synthese_moulinette
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query synthesis: %w", err)
	}
	defer rows.Close()

	var out []store.SynthesisRow
	for rows.Next() {
		r, err := scanSynthesis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanSynthesis(rows *sql.Rows) (store.SynthesisRow, error) {
	var (
		r     store.SynthesisRow
		texts [16]string
	)
	dest := []any{&r.Mois, &r.Plage}
	for i := range texts {
		dest = append(dest, &texts[i])
	}
	if err := rows.Scan(dest...); err != nil {
		return r, fmt.Errorf("failed to scan synthesis row: %w", err)
	}

	for i, f := range synthesisFields(&r) {
		d, err := parseDecimal(synthesisColumns[i], texts[i])
		if err != nil {
			return r, err
		}
		*f = d
	}
	return r, nil
}

// =============================================================================
// ELECTRIFICATION BALANCE
// =============================================================================

// SaveBalance replaces the electrification balance table.
func (s *Store) SaveBalance(ctx context.Context, rows []store.BalanceRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	insert := `
		INSERT INTO bilan_electrification (position, sector, current_twh, elec_twh,
			h2_twh, bio_enr_twh, fossil_residual_twh, total_target_twh, h2_production_elec_twh)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	args := make([][]any, len(rows))
	for i, r := range rows {
		args[i] = []any{
			i, r.Secteur,
			r.ActuelTwh.String(), r.ElecTwh.String(), r.H2Twh.String(),
			r.BioEnrTwh.String(), r.FossileTwh.String(),
			r.TotalCibleTwh.String(), r.H2ProdElecTwh.String(),
		}
	}
	return s.replaceAll(ctx, "bilan_electrification", insert, args)
}

// LoadBalance returns the balance rows in saved order.
func (s *Store) LoadBalance(ctx context.Context) ([]store.BalanceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT sector, current_twh, elec_twh, h2_twh, bio_enr_twh,
			fossil_residual_twh, total_target_twh, h2_production_elec_twh
		FROM bilan_electrification
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query balance: %w", err)
	}
	defer rows.Close()

	var out []store.BalanceRow
	for rows.Next() {
		r, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanBalance(rows *sql.Rows) (store.BalanceRow, error) {
	var (
		r     store.BalanceRow
		texts [7]string
	)
	err := rows.Scan(&r.Secteur, &texts[0], &texts[1], &texts[2], &texts[3], &texts[4], &texts[5], &texts[6])
	if err != nil {
		return r, fmt.Errorf("failed to scan balance row: %w", err)
	}

	columns := []string{
		"current_twh", "elec_twh", "h2_twh", "bio_enr_twh",
		"fossil_residual_twh", "total_target_twh", "h2_production_elec_twh",
	}
	fields := []*decimal.Decimal{
		&r.ActuelTwh, &r.ElecTwh, &r.H2Twh, &r.BioEnrTwh,
		&r.FossileTwh, &r.TotalCibleTwh, &r.H2ProdElecTwh,
	}
	for i, f := range fields {
		d, err := parseDecimal(columns[i], texts[i])
		if err != nil {
			return r, err
		}
		*f = d
	}
	return r, nil
}

// =============================================================================
// PARAMETERS
// =============================================================================

// SaveParameters replaces the parameter table.
func (s *Store) SaveParameters(ctx context.Context, rows []store.Parameter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	insert := `
		INSERT INTO parametres (position, name, value, unit, source, description)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	args := make([][]any, len(rows))
	for i, r := range rows {
		args[i] = []any{i, r.Name, r.Value.String(), r.Unit, r.Source, r.Description}
	}
	return s.replaceAll(ctx, "parametres", insert, args)
}

// LoadParameters returns the parameters in saved order.
func (s *Store) LoadParameters(ctx context.Context) ([]store.Parameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT name, value, unit, source, description
		FROM parametres
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query parameters: %w", err)
	}
	defer rows.Close()

	var out []store.Parameter
	for rows.Next() {
		var (
			r     store.Parameter
			value string
		)
		if err := rows.Scan(&r.Name, &value, &r.Unit, &r.Source, &r.Description); err != nil {
			return nil, fmt.Errorf("failed to scan parameter row: %w", err)
		}
		if r.Value, err = parseDecimal("value", value); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// METADATA
// =============================================================================

// SetMetadata stores or updates one bookkeeping entry.
func (s *Store) SetMetadata(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO metadata (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, query, key, value, now); err != nil {
		return fmt.Errorf("failed to set metadata %s: %w", key, err)
	}
	return nil
}

// Metadata returns one bookkeeping entry, or store.ErrNotFound.
func (s *Store) Metadata(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query metadata %s: %w", key, err)
	}
	return value, nil
}

var _ store.Store = (*Store)(nil)
