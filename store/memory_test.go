package store_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrawatt/balance-engine/store"
)

func productionFixture() []store.ProductionSlot {
	return []store.ProductionSlot{
		{Mois: "Janvier", Plage: "8h-13h", NucleaireMW: decimal.RequireFromString("45230.5"), HydrauliqueMW: decimal.RequireFromString("8120.25")},
		{Mois: "Janvier", Plage: "13h-18h", NucleaireMW: decimal.RequireFromString("44100"), HydrauliqueMW: decimal.RequireFromString("7900")},
	}
}

func TestMemory_SaveThenLoadKeepsOrderAndValues(t *testing.T) {
	// GIVEN: two production rows saved in a specific order
	m := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SaveProduction(ctx, productionFixture()))

	// WHEN: loading them back
	rows, err := m.LoadProduction(ctx)
	require.NoError(t, err)

	// THEN: same rows, same order, exact values
	require.Len(t, rows, 2)
	assert.Equal(t, "8h-13h", rows[0].Plage)
	assert.Equal(t, "13h-18h", rows[1].Plage)
	assert.True(t, rows[0].NucleaireMW.Equal(decimal.RequireFromString("45230.5")))
}

func TestMemory_SaveReplacesThePreviousRows(t *testing.T) {
	// GIVEN: a store already holding two rows
	m := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SaveProduction(ctx, productionFixture()))

	// WHEN: saving a one-row data set
	one := productionFixture()[:1]
	require.NoError(t, m.SaveProduction(ctx, one))

	// THEN: the old rows are gone
	rows, err := m.LoadProduction(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestMemory_LoadReturnsACopy(t *testing.T) {
	// GIVEN: a stored data set
	m := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SaveProduction(ctx, productionFixture()))

	// WHEN: mutating the slice a load returned
	rows, err := m.LoadProduction(ctx)
	require.NoError(t, err)
	rows[0].Mois = "Trashed"

	// THEN: the store is untouched
	again, err := m.LoadProduction(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Janvier", again[0].Mois)
}

func TestMemory_MetadataMissingKeyFails(t *testing.T) {
	m := store.NewMemory()

	_, err := m.Metadata(context.Background(), "absent")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemory_MetadataLastWriteWins(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SetMetadata(ctx, "fetch_year", "2023"))
	require.NoError(t, m.SetMetadata(ctx, "fetch_year", "2024"))

	v, err := m.Metadata(ctx, "fetch_year")
	require.NoError(t, err)
	assert.Equal(t, "2024", v)
}

func TestMemory_TablesAreIndependent(t *testing.T) {
	// GIVEN: production rows saved
	m := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SaveProduction(ctx, productionFixture()))

	// WHEN: loading a table that was never saved
	solar, err := m.LoadSolar(ctx)
	require.NoError(t, err)

	// THEN: it is empty, not polluted by the other table
	assert.Empty(t, solar)
}
