package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrawatt/balance-engine/engine"
)

func testKeys() []engine.GridKey {
	return []engine.GridKey{
		{Mois: "Janvier", Plage: "8h-13h"},
		{Mois: "Janvier", Plage: "13h-18h"},
		{Mois: "Février", Plage: "8h-13h"},
		{Mois: "Février", Plage: "13h-18h"},
	}
}

func TestGrid_RowOf_FollowsKeyOrder(t *testing.T) {
	grid, err := engine.NewGrid("bilan", testKeys())
	require.NoError(t, err)

	row, err := grid.RowOf(engine.GridKey{Mois: "Janvier", Plage: "8h-13h"})
	require.NoError(t, err)
	assert.Equal(t, 3, row)

	row, err = grid.RowOf(engine.GridKey{Mois: "Février", Plage: "13h-18h"})
	require.NoError(t, err)
	assert.Equal(t, 6, row)

	assert.Equal(t, 3, grid.FirstRow())
	assert.Equal(t, 6, grid.LastRow())
	assert.Equal(t, 4, grid.Len())
}

func TestGrid_DuplicateKey_FailsConstruction(t *testing.T) {
	keys := append(testKeys(), engine.GridKey{Mois: "Janvier", Plage: "8h-13h"})

	_, err := engine.NewGrid("bilan", keys)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrGridMisalignment)
}

func TestGrid_RowOf_UnknownKey(t *testing.T) {
	grid, err := engine.NewGrid("bilan", testKeys())
	require.NoError(t, err)

	_, err = grid.RowOf(engine.GridKey{Mois: "Mars", Plage: "8h-13h"})
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrGridMisalignment)
}

func TestGrid_VerifyOrder_AcceptsMatchingRows(t *testing.T) {
	grid, err := engine.NewGrid("bilan", testKeys())
	require.NoError(t, err)

	assert.NoError(t, grid.VerifyOrder("consommation_chauffage", testKeys()))
}

func TestGrid_VerifyOrder_ReportsSwappedRows(t *testing.T) {
	// GIVEN: A table whose middle two rows were swapped
	grid, err := engine.NewGrid("bilan", testKeys())
	require.NoError(t, err)

	swapped := testKeys()
	swapped[1], swapped[2] = swapped[2], swapped[1]

	// WHEN: Verifying the table against the grid
	err = grid.VerifyOrder("consommation_chauffage", swapped)

	// THEN: The misalignment names the table, the key and both rows
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrGridMisalignment)

	var mis *engine.GridMisalignmentError
	require.ErrorAs(t, err, &mis)
	assert.Equal(t, "consommation_chauffage", mis.Table)
	assert.Equal(t, engine.GridKey{Mois: "Janvier", Plage: "13h-18h"}, mis.Key)
	assert.Equal(t, 4, mis.WantRow)
	assert.Equal(t, 5, mis.GotRow)
}

func TestGrid_VerifyOrder_ReportsMissingAndExtraRows(t *testing.T) {
	grid, err := engine.NewGrid("bilan", testKeys())
	require.NoError(t, err)

	// Truncated sequence: the grid key has nowhere to be
	err = grid.VerifyOrder("t", testKeys()[:2])
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrGridMisalignment)

	// Extra trailing row beyond the grid
	extra := append(testKeys(), engine.GridKey{Mois: "Mars", Plage: "8h-13h"})
	err = grid.VerifyOrder("t", extra)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrGridMisalignment)
}
