package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrawatt/balance-engine/store"
	"github.com/terrawatt/balance-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func ds(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// =============================================================================
// ROUND TRIPS
// =============================================================================

func TestStore_SynthesisRowSurvivesWithEveryColumn(t *testing.T) {
	// GIVEN: a synthesis row with a distinct value in every column
	st := newTestStore(t)
	ctx := context.Background()
	row := store.SynthesisRow{
		Mois: "Février", Plage: "18h-20h",
		PvMaisonsKW:       ds("101.1"),
		PvCollectifKW:     ds("102.2"),
		PvCentralesKW:     ds("103.3"),
		HydrauliqueKW:     ds("104.4"),
		EolienKW:          ds("0"),
		NucleaireKW:       ds("106.6"),
		TotalProductionKW: ds("517.6"),
		ChauffageKW:       ds("201.1"),
		TransportKW:       ds("202.2"),
		IndustrieKW:       ds("203.3"),
		TertiaireKW:       ds("204.4"),
		AgricultureKW:     ds("205.5"),
		TotalConsoKW:      ds("1016.5"),
		DeficitGazKW:      ds("498.9"),
		DureeH:            ds("2"),
		EnergieGazTwh:     ds("0.0000299334"),
	}
	require.NoError(t, st.SaveSynthesis(ctx, []store.SynthesisRow{row}))

	// WHEN: loading it back
	rows, err := st.LoadSynthesis(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// THEN: month, slot and all sixteen values are intact
	got := rows[0]
	assert.Equal(t, "Février", got.Mois)
	assert.Equal(t, "18h-20h", got.Plage)
	assert.True(t, got.PvMaisonsKW.Equal(row.PvMaisonsKW))
	assert.True(t, got.EolienKW.Equal(row.EolienKW))
	assert.True(t, got.TotalProductionKW.Equal(row.TotalProductionKW))
	assert.True(t, got.AgricultureKW.Equal(row.AgricultureKW))
	assert.True(t, got.DeficitGazKW.Equal(row.DeficitGazKW))
	assert.True(t, got.EnergieGazTwh.Equal(row.EnergieGazTwh))
}

func TestStore_DecimalsKeepMoreDigitsThanAFloatCould(t *testing.T) {
	// GIVEN: a value with more significant digits than float64 carries
	st := newTestStore(t)
	ctx := context.Background()
	exact := ds("123456789.123456789123456789")
	require.NoError(t, st.SaveSolar(ctx, []store.SolarSlot{
		{Mois: "Juin", Plage: "13h-18h", CapacityFactor: exact},
	}))

	// WHEN: reloading it
	rows, err := st.LoadSolar(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// THEN: every digit survives
	assert.Equal(t, "123456789.123456789123456789", rows[0].CapacityFactor.String())
}

func TestStore_NegativeTemperaturesRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.SaveHeating(ctx, []store.HeatingSlot{
		{Mois: "Janvier", Plage: "23h-8h", TExtC: ds("-7.5"), COP: ds("1.95"), BesoinKW: ds("38450000")},
	}))

	rows, err := st.LoadHeating(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].TExtC.Equal(ds("-7.5")))
	assert.True(t, rows[0].COP.Equal(ds("1.95")))
}

// =============================================================================
// ORDERING AND REPLACEMENT
// =============================================================================

func TestStore_LoadsKeepTheSavedOrder(t *testing.T) {
	// GIVEN: parameters saved in sheet order, which is not alphabetical
	st := newTestStore(t)
	ctx := context.Background()
	params := []store.Parameter{
		{Name: "solar_gwc_maisons", Value: ds("30"), Unit: "GWc"},
		{Name: "nombre_maisons", Value: ds("15000000")},
		{Name: "cop_pac", Value: ds("3")},
		{Name: "agri_serres_twh", Value: ds("8"), Unit: "TWh"},
	}
	require.NoError(t, st.SaveParameters(ctx, params))

	// WHEN: loading them back
	rows, err := st.LoadParameters(ctx)
	require.NoError(t, err)

	// THEN: the order matches the save, so sheet addresses stay stable
	require.Len(t, rows, 4)
	assert.Equal(t, "solar_gwc_maisons", rows[0].Name)
	assert.Equal(t, "nombre_maisons", rows[1].Name)
	assert.Equal(t, "cop_pac", rows[2].Name)
	assert.Equal(t, "agri_serres_twh", rows[3].Name)
}

func TestStore_SaveReplacesThePreviousDataSet(t *testing.T) {
	// GIVEN: a first run saved three balance rows
	st := newTestStore(t)
	ctx := context.Background()
	first := []store.BalanceRow{
		{Secteur: "Transport", ActuelTwh: ds("480"), ElecTwh: ds("186.91"), FossileTwh: ds("90.56"), TotalCibleTwh: ds("277.47")},
		{Secteur: "Industrie", ActuelTwh: ds("205"), ElecTwh: ds("95.99"), FossileTwh: ds("56.5"), TotalCibleTwh: ds("152.49")},
		{Secteur: "Tertiaire", ActuelTwh: ds("200"), ElecTwh: ds("132.7"), TotalCibleTwh: ds("132.7")},
	}
	require.NoError(t, st.SaveBalance(ctx, first))

	// WHEN: a second run saves a smaller data set
	second := []store.BalanceRow{
		{Secteur: "Agriculture", ActuelTwh: ds("50"), ElecTwh: ds("19.92"), FossileTwh: ds("15"), TotalCibleTwh: ds("34.92")},
	}
	require.NoError(t, st.SaveBalance(ctx, second))

	// THEN: only the second data set remains
	rows, err := st.LoadBalance(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Agriculture", rows[0].Secteur)
}

func TestStore_SectorRowsKeepTheGridOrder(t *testing.T) {
	// GIVEN: two slots of the same month saved grid-major
	st := newTestStore(t)
	ctx := context.Background()
	rows := []store.SectorSlot{
		{Mois: "Janvier", Plage: "8h-13h", TransportKW: ds("39029205"), IndustrieKW: ds("10957681.02"), TertiaireKW: ds("15148401.83"), AgricultureKW: ds("1213247.24")},
		{Mois: "Janvier", Plage: "13h-18h", TransportKW: ds("38000000"), IndustrieKW: ds("10957681.02"), TertiaireKW: ds("15148401.83"), AgricultureKW: ds("1213247.24")},
	}
	require.NoError(t, st.SaveSectors(ctx, rows))

	got, err := st.LoadSectors(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "8h-13h", got[0].Plage)
	assert.Equal(t, "13h-18h", got[1].Plage)
	assert.True(t, got[1].TransportKW.Equal(ds("38000000")))
}

// =============================================================================
// METADATA
// =============================================================================

func TestStore_MetadataMissingKeyFails(t *testing.T) {
	st := newTestStore(t)

	_, err := st.Metadata(context.Background(), "absent")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_MetadataUpsertKeepsTheLastValue(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SetMetadata(ctx, "fetch_year", "2023"))
	require.NoError(t, st.SetMetadata(ctx, "fetch_year", "2024"))

	v, err := st.Metadata(ctx, "fetch_year")
	require.NoError(t, err)
	assert.Equal(t, "2024", v)
}
