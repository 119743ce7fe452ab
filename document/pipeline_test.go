/*
pipeline_test.go - Compute stage tests

PURPOSE:
  Covers the two compute stages against a seeded store: the scenario-only
  rows ComputeConsumption persists, the 60-row join ComputeSynthesis closes
  with the gas backup, and the documented fallback when reference rows are
  missing. The fixtures come from document_test.go.
*/
package document_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrawatt/balance-engine/document"
	"github.com/terrawatt/balance-engine/engine"
	"github.com/terrawatt/balance-engine/scenario"
	"github.com/terrawatt/balance-engine/sectors"
	"github.com/terrawatt/balance-engine/store"
)

// =============================================================================
// CONSUMPTION STAGE
// =============================================================================

func TestComputeConsumption_PersistsTheScenarioRows(t *testing.T) {
	// GIVEN an empty store and the default scenario
	m := store.NewMemory()
	ctx := context.Background()

	// WHEN running the consumption stage
	require.NoError(t, document.ComputeConsumption(ctx, scenario.Default(), m))

	// THEN the parameter snapshot holds every knob with its live value
	params, err := m.LoadParameters(ctx)
	require.NoError(t, err)
	require.Len(t, params, 142)
	var maisons *store.Parameter
	for i := range params {
		if params[i].Name == "nombre_maisons" {
			maisons = &params[i]
		}
	}
	require.NotNil(t, maisons)
	assert.True(t, maisons.Value.Equal(d("20000000")))

	// AND the heating demand covers the year in grid order
	heating, err := m.LoadHeating(ctx)
	require.NoError(t, err)
	require.Len(t, heating, 60)
	assert.Equal(t, "Janvier", heating[0].Mois)
	assert.Equal(t, "8h-13h", heating[0].Plage)
	assert.Equal(t, "Février", heating[5].Mois)
	assert.True(t, heating[0].TExtC.Equal(d("5.2")))
	assert.True(t, heating[0].COP.GreaterThan(d("1")), "heat pump regime")
	assert.True(t, heating[0].BesoinKW.IsPositive(), "deep winter draw")

	// AND the sector demand varies on the axes the models vary on
	sectorRows, err := m.LoadSectors(ctx)
	require.NoError(t, err)
	require.Len(t, sectorRows, 60)
	assert.True(t, sectorRows[0].IndustrieKW.IsPositive())
	assert.True(t, sectorRows[0].IndustrieKW.Equal(sectorRows[59].IndustrieKW),
		"industry is a flat band")
	assert.True(t, sectorRows[0].TertiaireKW.Equal(sectorRows[59].TertiaireKW),
		"tertiary is a flat band")
	assert.False(t, sectorRows[0].TransportKW.Equal(sectorRows[4].TransportKW),
		"charging differs between morning and night slots")
	juin := 5 * len(scenario.Slots)
	assert.False(t, sectorRows[0].AgricultureKW.Equal(sectorRows[juin].AgricultureKW),
		"agriculture differs between January and June")
}

func TestComputeConsumption_StoresTheElectrificationBalance(t *testing.T) {
	// GIVEN an empty store and the default scenario
	m := store.NewMemory()
	ctx := context.Background()

	// WHEN running the consumption stage
	require.NoError(t, document.ComputeConsumption(ctx, scenario.Default(), m))

	// THEN five sector rows close on the total row
	balance, err := m.LoadBalance(ctx)
	require.NoError(t, err)
	require.Len(t, balance, 6)
	total := balance[5]
	assert.Equal(t, sectors.SecteurTotal, total.Secteur)
	assert.True(t, total.TotalCibleTwh.IsPositive())

	// AND the total row is the exact sum of the sector rows
	elec := decimal.Zero
	for _, row := range balance[:5] {
		assert.NotEmpty(t, row.Secteur)
		elec = elec.Add(row.ElecTwh)
	}
	assert.True(t, total.ElecTwh.Equal(elec))
}

func TestComputeConsumption_RejectsAnInvalidScenario(t *testing.T) {
	// GIVEN a bundle with a negative plant capacity
	b := scenario.Default()
	b.Production.SolarGwcCentrales = d("-5")

	// WHEN running the consumption stage
	err := document.ComputeConsumption(context.Background(), b, store.NewMemory())

	// THEN nothing is computed from it
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario")
}

// =============================================================================
// SYNTHESIS STAGE
// =============================================================================

func TestComputeSynthesis_JoinsTheStoredSeries(t *testing.T) {
	// GIVEN a store holding reference data and the consumption rows
	m := store.NewMemory()
	ctx := context.Background()
	b := scenario.Default()
	seedReference(t, m, "40000", "7500")
	require.NoError(t, document.ComputeConsumption(ctx, b, m))

	// WHEN running the synthesis stage
	res, err := document.ComputeSynthesis(ctx, b, m)
	require.NoError(t, err)

	// THEN the full year is written without any fallback
	assert.Equal(t, 60, res.Rows)
	assert.Empty(t, res.Missing)

	rows, err := m.LoadSynthesis(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 60)

	first := rows[0]
	assert.Equal(t, "Janvier", first.Mois)
	assert.Equal(t, "8h-13h", first.Plage)
	assert.True(t, first.DureeH.Equal(d("5")))
	assert.True(t, first.EolienKW.IsZero())
	assert.True(t, first.NucleaireKW.Equal(d("40000000")), "40 GW in kW")
	assert.True(t, first.HydrauliqueKW.Equal(d("7500000")))
	assert.True(t, first.PvMaisonsKW.Equal(d("36000000000")))
	assert.True(t, first.PvCentralesKW.Equal(d("45000000")), "250 GWc x 1e6 x 0.18")

	// AND the totals are the exact sums of their parts
	prod := first.PvMaisonsKW.Add(first.PvCollectifKW).Add(first.PvCentralesKW).
		Add(first.HydrauliqueKW).Add(first.EolienKW).Add(first.NucleaireKW)
	assert.True(t, first.TotalProductionKW.Equal(prod))
	conso := first.ChauffageKW.Add(first.TransportKW).Add(first.IndustrieKW).
		Add(first.TertiaireKW).Add(first.AgricultureKW)
	assert.True(t, first.TotalConsoKW.Equal(conso))

	// AND each slot's gas energy closes its own deficit
	deficit := conso.Sub(prod)
	if deficit.IsNegative() {
		deficit = decimal.Zero
	}
	assert.True(t, first.DeficitGazKW.Equal(deficit))
	jours := b.Temporal.JoursParMois
	wantGaz := deficit.Mul(first.DureeH).Mul(jours).Div(d("1000000000"))
	assert.True(t, first.EnergieGazTwh.Equal(wantGaz))

	// AND the reported annual total is the exact sum over the rows
	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(row.EnergieGazTwh)
	}
	assert.True(t, res.GasTotalTwh.Equal(sum))
}

func TestComputeSynthesis_GasBackupClosesANightDeficit(t *testing.T) {
	// GIVEN weak dispatchable production and no solar after dark
	m := store.NewMemory()
	ctx := context.Background()
	b := scenario.Default()
	seedReference(t, m, "2000", "500")
	require.NoError(t, document.ComputeConsumption(ctx, b, m))

	// WHEN running the synthesis stage
	res, err := document.ComputeSynthesis(ctx, b, m)
	require.NoError(t, err)

	// THEN winter nights run a deficit and the gas total is positive
	assert.True(t, res.GasTotalTwh.IsPositive())

	rows, err := m.LoadSynthesis(ctx)
	require.NoError(t, err)
	deficits := 0
	for _, row := range rows {
		if row.DeficitGazKW.IsPositive() {
			deficits++
		}
	}
	assert.Positive(t, deficits)
}

func TestComputeSynthesis_MissingReferenceFallsBackToZeroAndReports(t *testing.T) {
	// GIVEN a solar series missing its first grid row
	m := store.NewMemory()
	ctx := context.Background()
	b := scenario.Default()
	keys := scenario.GridKeys()
	production := make([]store.ProductionSlot, 0, len(keys))
	solar := make([]store.SolarSlot, 0, len(keys)-1)
	for i, key := range keys {
		production = append(production, store.ProductionSlot{
			Mois: key.Mois, Plage: key.Plage,
			NucleaireMW: d("40000"), HydrauliqueMW: d("7500"),
		})
		if i == 0 {
			continue
		}
		solar = append(solar, store.SolarSlot{
			Mois: key.Mois, Plage: key.Plage,
			CapacityFactor: d(slotFactors[key.Plage]),
		})
	}
	require.NoError(t, m.SaveProduction(ctx, production))
	require.NoError(t, m.SaveSolar(ctx, solar))
	require.NoError(t, document.ComputeConsumption(ctx, b, m))

	// WHEN running the synthesis stage
	res, err := document.ComputeSynthesis(ctx, b, m)
	require.NoError(t, err)

	// THEN the year is still written, with the gap reported, not hidden
	assert.Equal(t, 60, res.Rows)
	require.Len(t, res.Missing, 1)
	gap := res.Missing[0]
	assert.Equal(t, document.TableSolaire, gap.Table)
	assert.Equal(t, engine.GridKey{Mois: "Janvier", Plage: "8h-13h"}, gap.Key)
	assert.Equal(t, engine.Column("C"), gap.Column)
	assert.True(t, gap.Fallback.IsZero())
	assert.True(t, engine.IsRecoverable(gap))

	// AND the affected row used the fallback while the rest survived
	rows, err := m.LoadSynthesis(ctx)
	require.NoError(t, err)
	assert.True(t, rows[0].PvMaisonsKW.IsZero())
	assert.True(t, rows[0].NucleaireKW.Equal(d("40000000")))
	assert.True(t, rows[1].PvMaisonsKW.IsPositive())
}

func TestComputeSynthesis_EmptyConsumptionReportsEveryGap(t *testing.T) {
	// GIVEN reference data but a consumption stage that never ran
	m := store.NewMemory()
	ctx := context.Background()
	b := scenario.Default()
	seedReference(t, m, "40000", "7500")

	// WHEN running the synthesis stage anyway
	res, err := document.ComputeSynthesis(ctx, b, m)
	require.NoError(t, err)

	// THEN every heating and sector read is reported:
	// 60 heating cells plus 60 rows x 4 sector columns
	assert.Equal(t, 60, res.Rows)
	assert.Len(t, res.Missing, 300)
}

func TestComputeSynthesis_RejectsAnInvalidScenario(t *testing.T) {
	b := scenario.Default()
	b.Temporal.JoursParMois = d("3")

	_, err := document.ComputeSynthesis(context.Background(), b, store.NewMemory())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario")
}
