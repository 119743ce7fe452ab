/*
model_test.go - Transport model tests

PURPOSE:
  Pins the electrification chain on hand-computed values from the default
  fleet, checks that sobriety and modal shift touch cars only, that the
  charging profile redistributes without losing energy, and that the
  slot power combines the profile with the flat rail and SAF band.
*/
package transport_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrawatt/balance-engine/scenario"
	"github.com/terrawatt/balance-engine/transport"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestConsommationActuelle_SumsThePerModeTotals(t *testing.T) {
	// GIVEN today's default fleet
	a := transport.ConsommationActuelle(scenario.DefaultTransport())

	// THEN each subtotal and the grand total add up
	assert.True(t, a.RoutierPassagers.Equal(d(225)), "got %s", a.RoutierPassagers)
	assert.True(t, a.RoutierFret.Equal(d(170)), "got %s", a.RoutierFret)
	assert.True(t, a.Aviation.Equal(d(60)), "got %s", a.Aviation)
	assert.True(t, a.MaritimeFluvial.Equal(d(10)), "got %s", a.MaritimeFluvial)
	assert.True(t, a.Total.Equal(d(480)), "got %s", a.Total)
}

func TestConsommationElectrifiee_HandComputedDefaults(t *testing.T) {
	e := transport.ConsommationElectrifiee(scenario.DefaultTransport())

	cases := []struct {
		name string
		got  decimal.Decimal
		want float64
	}{
		// 200 x 0.90 sobriety x 0.85 modal x 0.33
		{"voitures", e.VoituresElec, 50.49},
		{"deux_roues", e.DeuxRouesElec, 3.3},
		{"bus", e.BusElec, 6},
		{"routier_passagers", e.RoutierPassagersElec, 59.79},
		// 140 x 0.40 x 0.35 battery, 140 x 0.30 x 0.55 hydrogen
		{"pl_batterie", e.PlBatterie, 19.6},
		{"pl_hydrogene", e.PlHydrogene, 23.1},
		{"pl_fossile", e.PlFossile, 42},
		{"vul_elec", e.VulElec, 9.45},
		{"vul_fossile", e.VulFossile, 3},
		{"routier_fret", e.RoutierFretElec, 52.15},
		// 12 already electric + 1.35 electrified diesel + 0.3 residual diesel
		{"rail", e.RailElec, 13.65},
		// (8 x 0.60 + 52) x 0.30 x 3.5
		{"saf", e.AviationSaf, 59.64},
		{"aviation_fossile", e.AviationFossile, 39.76},
		{"maritime", e.MaritimeElec, 0.84},
		{"fluvial", e.FluvialElec, 0.84},
		{"total_elec", e.TotalElec, 186.91},
		{"total_fossile", e.TotalFossile, 90.56},
	}
	for _, c := range cases {
		assert.True(t, c.got.Equal(d(c.want)), "%s: want %v, got %s", c.name, c.want, c.got)
	}
}

func TestConsommationElectrifiee_SobrietyAndModalShiftTouchCarsOnly(t *testing.T) {
	// GIVEN a scenario doubling the sobriety effort
	cfg := scenario.DefaultTransport()
	cfg.GainSobrieteFraction = d(0.5)

	e := transport.ConsommationElectrifiee(cfg)

	// THEN cars shrink while the other passenger modes keep their demand
	assert.True(t, e.VoituresElec.Equal(d(28.05)), "got %s", e.VoituresElec)
	assert.True(t, e.DeuxRouesElec.Equal(d(3.3)), "got %s", e.DeuxRouesElec)
	assert.True(t, e.BusElec.Equal(d(6)), "got %s", e.BusElec)
}

func TestDirectElec_ExcludesRailAndSafSynthesis(t *testing.T) {
	e := transport.ConsommationElectrifiee(scenario.DefaultTransport())

	direct := e.DirectElec()

	assert.True(t, direct.Equal(d(113.62)), "got %s", direct)
	// the excluded part is exactly the rail plus SAF flat band
	gap := e.TotalElec.Sub(direct)
	assert.True(t, gap.Equal(e.RailElec.Add(e.AviationSaf)), "got %s", gap)
}

func TestDemandeRechargeTWh_FollowsTheChargingProfile(t *testing.T) {
	cfg := scenario.DefaultTransport()

	// 113.62 TWh direct x 0.20 evening share
	twh, err := transport.DemandeRechargeTWh(cfg, "18h-20h")
	require.NoError(t, err)
	assert.True(t, twh.Equal(d(22.724)), "got %s", twh)
}

func TestDemandeRechargeTWh_SlotsRedistributeWithoutLoss(t *testing.T) {
	cfg := scenario.DefaultTransport()
	direct := transport.ConsommationElectrifiee(cfg).DirectElec()

	total := decimal.Zero
	for _, slot := range scenario.Slots {
		twh, err := transport.DemandeRechargeTWh(cfg, slot.Name)
		require.NoError(t, err)
		total = total.Add(twh)
	}

	// the default profile sums to one, so nothing leaks between slots
	assert.True(t, total.Equal(direct), "direct %s, distributed %s", direct, total)
}

func TestDemandeRechargeTWh_UnknownSlotFails(t *testing.T) {
	_, err := transport.DemandeRechargeTWh(scenario.DefaultTransport(), "3h-4h")

	assert.Error(t, err)
}

func TestPuissanceSlotKW_EveningPeakHandComputed(t *testing.T) {
	// GIVEN the default chain
	cfg := scenario.DefaultTransport()

	// WHEN computing the short evening slot
	kw, err := transport.PuissanceSlotKW(cfg, "18h-20h")
	require.NoError(t, err)

	// THEN 22.724e9 / (2h x 365) charging + 73.29e9 / 8760 flat band
	assert.True(t, kw.Round(2).Equal(d(39495205.48)), "got %s", kw)
}

func TestPuissanceSlotKW_FlatBandIsSharedAcrossSlots(t *testing.T) {
	cfg := scenario.DefaultTransport()
	e := transport.ConsommationElectrifiee(cfg)
	flat := e.RailElec.Add(e.AviationSaf).Mul(d(1e9)).Div(d(8760))

	// WHEN stripping the charging part from two different slots
	for _, plage := range []string{"8h-13h", "23h-8h"} {
		kw, err := transport.PuissanceSlotKW(cfg, plage)
		require.NoError(t, err)

		twh, err := transport.DemandeRechargeTWh(cfg, plage)
		require.NoError(t, err)
		hours, ok := scenario.SlotHours(plage)
		require.True(t, ok)
		charging := twh.Mul(d(1e9)).Div(decimal.NewFromInt(int64(hours) * 365))

		// THEN the remainder is the same rail and SAF band
		rest := kw.Sub(charging)
		assert.True(t, rest.Equal(flat), "%s: want %s, got %s", plage, flat, rest)
	}
}

func TestPuissanceSlotKW_UnknownSlotFails(t *testing.T) {
	_, err := transport.PuissanceSlotKW(scenario.DefaultTransport(), "minuit")

	assert.Error(t, err)
}

func TestFacteursEffectifs_CondenseTheModeByModePath(t *testing.T) {
	f := transport.FacteursEffectifs(scenario.DefaultTransport())

	assert.True(t, f.Passagers.Equal(d(59.79).Div(d(225))), "got %s", f.Passagers)
	assert.True(t, f.Fret.Equal(d(52.15).Div(d(170))), "got %s", f.Fret)
	assert.True(t, f.Global.Equal(d(186.91).Div(d(480))), "got %s", f.Global)
}

func TestBilanTransport_ClosesTheSectorBalance(t *testing.T) {
	b := transport.BilanTransport(scenario.DefaultTransport())

	// 480 today, 186.91 electric plus 90.56 fossil leaves 202.53 avoided
	assert.True(t, b.ConsoActuelle.Equal(d(480)), "got %s", b.ConsoActuelle)
	assert.True(t, b.Reduction.Equal(d(202.53)), "got %s", b.Reduction)
	assert.True(t, b.FractionEvitee.Equal(d(1).Sub(d(90.56).Div(d(480)))),
		"got %s", b.FractionEvitee)
}
