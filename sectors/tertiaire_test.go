/*
tertiaire_test.go - Tertiary balance tests

PURPOSE:
  Pins the renovation-then-conversion heating chain on hand-computed
  values, the efficiency gains on cooling and lighting, the flat draw,
  and the rendered formula shape.
*/
package sectors_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrawatt/balance-engine/engine"
	"github.com/terrawatt/balance-engine/scenario"
	"github.com/terrawatt/balance-engine/sectors"
)

func TestTertiaire_RenovatesThenConverts(t *testing.T) {
	// GIVEN the default tertiary demand
	b := sectors.Tertiaire(scenario.DefaultTertiaire())

	// THEN 85 x 0.70 renovated, 35.7 x 0.60 / 3.0 through heat pumps,
	// plus the 23.8 already electric
	assert.True(t, b.ChauffageElec.Equal(d(35.7)), "got %s", b.ChauffageElec)
	assert.True(t, b.GainRenovation.Equal(d(25.5)), "got %s", b.GainRenovation)
}

func TestTertiaire_EfficiencyGainsOnCoolingAndLighting(t *testing.T) {
	b := sectors.Tertiaire(scenario.DefaultTertiaire())

	assert.True(t, b.Climatisation.Equal(d(12)), "got %s", b.Climatisation)
	assert.True(t, b.Eclairage.Equal(d(15)), "got %s", b.Eclairage)
	assert.True(t, b.GainEclairage.Equal(d(15)), "got %s", b.GainEclairage)
}

func TestTertiaire_TotalsCloseTheBalance(t *testing.T) {
	b := sectors.Tertiaire(scenario.DefaultTertiaire())

	assert.True(t, b.ActuelTotal.Equal(d(200)), "got %s", b.ActuelTotal)
	// 35.7 + 12 + 15 + 45 + 15 + 10
	assert.True(t, b.TotalElec.Equal(d(132.7)), "got %s", b.TotalElec)
}

func TestTertiaireFlatKW_SpreadsOverTheYear(t *testing.T) {
	kw := sectors.TertiaireFlatKW(scenario.DefaultTertiaire())

	// 132.7 TWh x 1e9 / 8760
	assert.True(t, kw.Round(2).Equal(d(15148401.83)), "got %s", kw)
}

func TestTertiaireFormulas_RenderTheDocumentedShape(t *testing.T) {
	_, res := newResolver(t)

	text := engine.ODF.Formula(sectors.TertiaireFlatFormula(res), scenario.ParamTable)
	require.NoError(t, res.Err())

	assert.True(t, strings.HasPrefix(text, "of:="))
	// the heating term factors out the renovated demand: fossil share
	// through the COP plus the electric remainder
	assert.Contains(t, text, "]/[.")
	assert.Contains(t, text, "+(1-[.")
	assert.Contains(t, text, "/8760")
}
