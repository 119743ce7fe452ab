/*
calendar_test.go - Month and slot layout tests

PURPOSE:
  Pins the shared month-by-slot layout every monthly table depends on:
  twelve French month names, five daily slots covering 24 hours, and the
  month-major key order that fixes row numbers.
*/
package scenario_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrawatt/balance-engine/engine"
	"github.com/terrawatt/balance-engine/scenario"
)

func TestCalendar_MonthsKeepFrenchNamesAndOrder(t *testing.T) {
	// GIVEN the calendar
	// THEN the twelve months appear in civil order with their accents
	require.Len(t, scenario.Months, 12)
	assert.Equal(t, "Janvier", scenario.Months[0])
	assert.Equal(t, "Février", scenario.Months[1])
	assert.Equal(t, "Août", scenario.Months[7])
	assert.Equal(t, "Décembre", scenario.Months[11])
}

func TestCalendar_SlotsCoverTheWholeDay(t *testing.T) {
	// GIVEN the five daily slots
	require.Len(t, scenario.Slots, 5)

	// WHEN summing their durations
	total := 0
	for _, s := range scenario.Slots {
		total += s.Hours
	}

	// THEN they tile 24 hours
	assert.Equal(t, 24, total)

	// AND the known durations hold
	hours, ok := scenario.SlotHours("23h-8h")
	require.True(t, ok)
	assert.Equal(t, 9, hours)
	hours, ok = scenario.SlotHours("18h-20h")
	require.True(t, ok)
	assert.Equal(t, 2, hours)
}

func TestAssignSlot_MapsEveryHourOfTheDay(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{8, "8h-13h"}, {12, "8h-13h"},
		{13, "13h-18h"}, {17, "13h-18h"},
		{18, "18h-20h"}, {19, "18h-20h"},
		{20, "20h-23h"}, {22, "20h-23h"},
		{23, "23h-8h"}, {0, "23h-8h"}, {5, "23h-8h"}, {7, "23h-8h"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, scenario.AssignSlot(c.hour), "hour %d", c.hour)
	}
}

func TestGridKeys_AreMonthMajor(t *testing.T) {
	// GIVEN the shared key order
	keys := scenario.GridKeys()
	require.Len(t, keys, 60)

	// THEN all five slots of a month precede the next month
	assert.Equal(t, engine.GridKey{Mois: "Janvier", Plage: "8h-13h"}, keys[0])
	assert.Equal(t, engine.GridKey{Mois: "Janvier", Plage: "23h-8h"}, keys[4])
	assert.Equal(t, engine.GridKey{Mois: "Février", Plage: "8h-13h"}, keys[5])
	assert.Equal(t, engine.GridKey{Mois: "Décembre", Plage: "23h-8h"}, keys[59])
}

func TestBalanceGrid_AssignsSixtyRowsFromRowThree(t *testing.T) {
	// GIVEN the shared grid
	grid, err := scenario.BalanceGrid()
	require.NoError(t, err)

	// THEN rows run 3 through 62 in key order
	assert.Equal(t, 3, grid.FirstRow())
	assert.Equal(t, 62, grid.LastRow())

	row, err := grid.RowOf(engine.GridKey{Mois: "Janvier", Plage: "8h-13h"})
	require.NoError(t, err)
	assert.Equal(t, 3, row)

	row, err = grid.RowOf(engine.GridKey{Mois: "Février", Plage: "8h-13h"})
	require.NoError(t, err)
	assert.Equal(t, 8, row)

	row, err = grid.RowOf(engine.GridKey{Mois: "Décembre", Plage: "23h-8h"})
	require.NoError(t, err)
	assert.Equal(t, 62, row)
}
