/*
config_test.go - Config validation tests

PURPOSE:
  Exercises the per-section Validate rules and the bundle-level helpers:
  accepted defaults, the handful of cross-field constraints, and deep
  cloning of map-valued sections.
*/
package scenario_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrawatt/balance-engine/scenario"
)

func TestBundle_DefaultsValidate(t *testing.T) {
	require.NoError(t, scenario.Default().Validate())
}

func TestProduction_BreakdownMustSumToTotalPark(t *testing.T) {
	// GIVEN a park whose PV breakdown no longer matches the total
	p := scenario.DefaultProduction()
	p.SolarGwcCentrales = decimal.NewFromInt(400)

	// THEN validation names the inconsistency
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "solar_capacity_gwc")
}

func TestProduction_NuclearBoundsMustBeOrdered(t *testing.T) {
	p := scenario.DefaultProduction()
	p.NuclearMinGw = decimal.NewFromInt(60)

	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nuclear_max_gw")
}

func TestTemporal_RejectsImpossibleMonthLengths(t *testing.T) {
	tm := scenario.DefaultTemporal()
	tm.JoursParMois = decimal.NewFromInt(45)

	assert.Error(t, tm.Validate())
}

func TestStorage_EfficiencyStaysWithinUnity(t *testing.T) {
	s := scenario.DefaultStorage()
	s.BatteryEfficiency = decimal.NewFromFloat(1.2)

	assert.Error(t, s.Validate())
}

func TestHeating_VolumeComesFromSurfaceAndCeiling(t *testing.T) {
	h := scenario.DefaultHeating()

	// 120 m2 under 2.5 m of ceiling
	assert.True(t, h.VolumeMoyenM3().Equal(decimal.NewFromInt(300)))
}

func TestHeating_CopCurveMustBeStrictlyIncreasing(t *testing.T) {
	// GIVEN a curve with a duplicated breakpoint temperature
	h := scenario.DefaultHeating()
	h.CopParTemperature[1].At = h.CopParTemperature[0].At

	// THEN validation rejects the curve
	assert.Error(t, h.Validate())
}

func TestHeating_RequiresAllTwelveMonthlyTemperatures(t *testing.T) {
	h := scenario.DefaultHeating()
	delete(h.TemperaturesExterieures, "Juin")

	err := h.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Juin")
}

func TestTransport_ChargingProfileMustSumToOne(t *testing.T) {
	tr := scenario.DefaultTransport()
	tr.ProfilRecharge["23h-8h"] = decimal.NewFromFloat(0.50)

	err := tr.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "charging profile")
}

func TestTransport_FractionsStayWithinZeroAndOne(t *testing.T) {
	tr := scenario.DefaultTransport()
	tr.PlBatterieFraction = decimal.NewFromFloat(1.4)

	err := tr.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tr_pl_batterie_fraction")
}

func TestAgriculture_RequiresAllTwelveProfileMonths(t *testing.T) {
	a := scenario.DefaultAgriculture()
	delete(a.ProfilMensuel, "Mai")

	err := a.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mai")
}

func TestBundle_CloneIsIndependentOfTheOriginal(t *testing.T) {
	// GIVEN a bundle and its clone
	original := scenario.Default()
	clone := original.Clone()

	// WHEN mutating the clone's map-valued and slice-valued sections
	clone.Heating.TemperaturesExterieures["Janvier"] = decimal.NewFromInt(-30)
	clone.Heating.CopParTemperature[0].Value = decimal.NewFromInt(9)
	clone.Transport.ProfilRecharge["8h-13h"] = decimal.NewFromFloat(0.99)
	clone.Agriculture.ProfilMensuel["Juillet"] = decimal.NewFromInt(7)

	// THEN the original still carries its defaults
	assert.True(t, original.Heating.TemperaturesExterieures["Janvier"].Equal(decimal.NewFromFloat(5.2)))
	assert.True(t, original.Heating.CopParTemperature[0].Value.Equal(decimal.NewFromFloat(1.5)))
	assert.True(t, original.Transport.ProfilRecharge["8h-13h"].Equal(decimal.NewFromFloat(0.15)))
	assert.True(t, original.Agriculture.ProfilMensuel["Juillet"].Equal(decimal.NewFromFloat(1.5)))
}

func TestBundle_ValidateAggregatesSectionFailures(t *testing.T) {
	// GIVEN a bundle broken in two distinct sections
	b := scenario.Default()
	b.Storage.BatteryEfficiency = decimal.NewFromInt(2)
	b.Temporal.JoursParMois = decimal.NewFromInt(400)

	// THEN a single Validate reports both
	err := b.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "battery_efficiency")
	assert.Contains(t, err.Error(), "jours_par_mois")
}
