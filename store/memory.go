/*
memory.go - In-process store

PURPOSE:
  Holds the pipeline data in slices and maps behind a RWMutex. Used by
  tests and by one-shot runs that generate a document without keeping a
  database around.

  Loads return copies, so a caller can never mutate the stored rows
  through a returned slice.
*/
package store

import (
	"context"
	"sync"
)

// Memory implements Store in process memory.
type Memory struct {
	mu         sync.RWMutex
	production []ProductionSlot
	solar      []SolarSlot
	heating    []HeatingSlot
	sectors    []SectorSlot
	synthesis  []SynthesisRow
	balance    []BalanceRow
	parameters []Parameter
	metadata   map[string]string
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{metadata: make(map[string]string)}
}

func copyRows[T any](rows []T) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	return out
}

func (m *Memory) SaveProduction(_ context.Context, rows []ProductionSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.production = copyRows(rows)
	return nil
}

func (m *Memory) LoadProduction(_ context.Context) ([]ProductionSlot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyRows(m.production), nil
}

func (m *Memory) SaveSolar(_ context.Context, rows []SolarSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solar = copyRows(rows)
	return nil
}

func (m *Memory) LoadSolar(_ context.Context) ([]SolarSlot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyRows(m.solar), nil
}

func (m *Memory) SaveHeating(_ context.Context, rows []HeatingSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.heating = copyRows(rows)
	return nil
}

func (m *Memory) LoadHeating(_ context.Context) ([]HeatingSlot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyRows(m.heating), nil
}

func (m *Memory) SaveSectors(_ context.Context, rows []SectorSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sectors = copyRows(rows)
	return nil
}

func (m *Memory) LoadSectors(_ context.Context) ([]SectorSlot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyRows(m.sectors), nil
}

func (m *Memory) SaveSynthesis(_ context.Context, rows []SynthesisRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.synthesis = copyRows(rows)
	return nil
}

func (m *Memory) LoadSynthesis(_ context.Context) ([]SynthesisRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyRows(m.synthesis), nil
}

func (m *Memory) SaveBalance(_ context.Context, rows []BalanceRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance = copyRows(rows)
	return nil
}

func (m *Memory) LoadBalance(_ context.Context) ([]BalanceRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyRows(m.balance), nil
}

func (m *Memory) SaveParameters(_ context.Context, rows []Parameter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parameters = copyRows(rows)
	return nil
}

func (m *Memory) LoadParameters(_ context.Context) ([]Parameter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyRows(m.parameters), nil
}

func (m *Memory) SetMetadata(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[key] = value
	return nil
}

func (m *Memory) Metadata(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.metadata[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)
