/*
document_test.go - Workbook assembly contract tests

PURPOSE:
  Executable contract for Build: the twelve tables and their order, the
  parameter table mirroring the registry, the synthesis geometry with its
  totals block, and the value-plus-formula pairing on every derived cell.
  The fixtures here (seeded store, computed pipeline) are shared by the
  audit and pipeline tests.
*/
package document_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrawatt/balance-engine/document"
	"github.com/terrawatt/balance-engine/ods"
	"github.com/terrawatt/balance-engine/scenario"
	"github.com/terrawatt/balance-engine/sectors"
	"github.com/terrawatt/balance-engine/store"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// slotFactors stands in for the PVGIS download: a plausible daily profile,
// constant across months so expected values stay easy to read.
var slotFactors = map[string]string{
	"8h-13h":  "0.18",
	"13h-18h": "0.22",
	"18h-20h": "0.05",
	"20h-23h": "0",
	"23h-8h":  "0",
}

// seedReference fills the store with a full year of production and solar
// rows in canonical grid order.
func seedReference(t *testing.T, m *store.Memory, nucMW, hydroMW string) {
	t.Helper()
	ctx := context.Background()
	keys := scenario.GridKeys()
	production := make([]store.ProductionSlot, 0, len(keys))
	solar := make([]store.SolarSlot, 0, len(keys))
	for _, key := range keys {
		production = append(production, store.ProductionSlot{
			Mois:          key.Mois,
			Plage:         key.Plage,
			NucleaireMW:   d(nucMW),
			HydrauliqueMW: d(hydroMW),
		})
		solar = append(solar, store.SolarSlot{
			Mois:           key.Mois,
			Plage:          key.Plage,
			CapacityFactor: d(slotFactors[key.Plage]),
		})
	}
	require.NoError(t, m.SaveProduction(ctx, production))
	require.NoError(t, m.SaveSolar(ctx, solar))
}

// computedStore returns a store holding the whole pipeline output for the
// default scenario: seeded reference data plus both compute stages.
func computedStore(t *testing.T) *store.Memory {
	t.Helper()
	m := store.NewMemory()
	seedReference(t, m, "40000", "7500")
	ctx := context.Background()
	b := scenario.Default()
	require.NoError(t, document.ComputeConsumption(ctx, b, m))
	_, err := document.ComputeSynthesis(ctx, b, m)
	require.NoError(t, err)
	return m
}

func builtDocument(t *testing.T) *document.Document {
	t.Helper()
	doc, err := document.Build(context.Background(), document.Input{
		Bundle: scenario.Default(),
		Store:  computedStore(t),
	})
	require.NoError(t, err)
	return doc
}

// =============================================================================
// ASSEMBLY
// =============================================================================

func TestBuild_AssemblesTheTwelveTablesInContractOrder(t *testing.T) {
	// GIVEN a store holding the full pipeline output
	doc := builtDocument(t)

	// THEN the workbook carries the twelve tables in declaration order
	want := []string{
		document.TableParametres,
		document.TableProduction,
		document.TableSolaire,
		document.TableChauffage,
		document.TableSecteurs,
		document.TableCalcIndustrie,
		document.TableCalcTertiaire,
		document.TableCalcTransport,
		document.TableCalcAgriculture,
		document.TableCalcChauffage,
		document.TableSynthese,
		document.TableBilan,
	}
	require.Len(t, doc.Tables, len(want))
	for i, name := range want {
		assert.Equal(t, name, doc.Tables[i].Name, "position %d", i)
	}

	// AND Table finds each one by name
	for _, name := range want {
		assert.NotNil(t, doc.Table(name), name)
	}
	assert.Nil(t, doc.Table("absent"))
}

func TestBuild_ParameterTableMirrorsTheRegistry(t *testing.T) {
	// GIVEN the assembled workbook
	doc := builtDocument(t)
	params := doc.Table(document.TableParametres)
	require.NotNil(t, params)

	// THEN one sheet row per registry entry, knobs and category markers
	require.Len(t, params.Rows, 155)
	assert.Equal(t, 5, params.Width())

	knobs, categories := 0, 0
	for _, row := range params.Rows {
		if row[1].Value != nil {
			knobs++
		} else {
			categories++
			assert.Equal(t, ods.StyleCategory, row[0].Style, row[0].Text)
		}
	}
	assert.Equal(t, 142, knobs)
	assert.Equal(t, 13, categories)

	// AND the frozen prefix sits where the synthesis formulas point:
	// sheet row 8 (slice index 5) is kwc_par_maison
	assert.Equal(t, "kwc_par_maison", params.Rows[5][0].Text)
	require.NotNil(t, params.Rows[5][1].Value)
	assert.True(t, params.Rows[5][1].Value.Equal(d("10")))

	// AND the default bundle answers every knob, so nothing fell back
	assert.Empty(t, doc.Fallbacks)
}

func TestBuild_SourceTablesCarryTheStoredSeries(t *testing.T) {
	// GIVEN the assembled workbook
	doc := builtDocument(t)

	// THEN the four reference tables hold one row per grid slot, values only
	prod := doc.Table(document.TableProduction)
	require.NotNil(t, prod)
	require.Len(t, prod.Rows, 60)
	assert.Equal(t, "Janvier", prod.Rows[0][0].Text)
	assert.Equal(t, "8h-13h", prod.Rows[0][1].Text)
	require.NotNil(t, prod.Rows[0][2].Value)
	assert.True(t, prod.Rows[0][2].Value.Equal(d("40000")))
	assert.Empty(t, prod.Rows[0][2].Formula)

	solar := doc.Table(document.TableSolaire)
	require.NotNil(t, solar)
	require.Len(t, solar.Rows, 60)
	require.NotNil(t, solar.Rows[0][2].Value)
	assert.True(t, solar.Rows[0][2].Value.Equal(d("0.18")))

	heating := doc.Table(document.TableChauffage)
	require.NotNil(t, heating)
	require.Len(t, heating.Rows, 60)
	require.NotNil(t, heating.Rows[0][4].Value)
	assert.True(t, heating.Rows[0][4].Value.IsPositive(), "January morning heating draw")

	secteurs := doc.Table(document.TableSecteurs)
	require.NotNil(t, secteurs)
	require.Len(t, secteurs.Rows, 60)
	assert.Equal(t, 6, secteurs.Width())
}

func TestBuild_CalcSheetsShowTheSectorChains(t *testing.T) {
	// GIVEN the assembled workbook
	doc := builtDocument(t)

	// THEN industrie and tertiaire carry the flat draw plus its recipe
	industrie := doc.Table(document.TableCalcIndustrie)
	require.NotNil(t, industrie)
	require.Len(t, industrie.Rows, 2)
	assert.Equal(t, "Industrie flat_kw", industrie.Rows[0][0].Text)
	require.NotNil(t, industrie.Rows[0][1].Value)
	assert.True(t, industrie.Rows[0][1].Value.IsPositive())
	assert.True(t, strings.HasPrefix(industrie.Rows[0][1].Formula, "of:="))
	assert.Equal(t,
		"Formule: (HT*elec*eff + MT*elec/COP + BT*elec/COP "+
			"+ force_motrice + electrochimie + autres) * (1-gain) * 1e9/8760",
		industrie.Rows[1][0].Text)

	tertiaire := doc.Table(document.TableCalcTertiaire)
	require.NotNil(t, tertiaire)
	require.Len(t, tertiaire.Rows, 2)
	assert.Equal(t, "Tertiaire flat_kw", tertiaire.Rows[0][0].Text)

	// AND transport lists the five slots then the four intermediates
	transport := doc.Table(document.TableCalcTransport)
	require.NotNil(t, transport)
	require.Len(t, transport.Rows, 9)
	assert.Equal(t, "Transport 8h-13h (kW)", transport.Rows[0][0].Text)
	assert.Equal(t, "Transport 23h-8h (kW)", transport.Rows[4][0].Text)
	assert.Equal(t, "direct_elec_twh (route+maritime+fluvial)", transport.Rows[5][0].Text)
	assert.Equal(t, "rail_saf_flat_kw", transport.Rows[8][0].Text)

	// AND agriculture holds one row per month
	agri := doc.Table(document.TableCalcAgriculture)
	require.NotNil(t, agri)
	require.Len(t, agri.Rows, 12)
	assert.Equal(t, "Agriculture Janvier (kW)", agri.Rows[0][0].Text)
	assert.Equal(t, "Agriculture Décembre (kW)", agri.Rows[11][0].Text)

	// AND the heating chain spells out its six derived columns per slot
	chauffage := doc.Table(document.TableCalcChauffage)
	require.NotNil(t, chauffage)
	require.Len(t, chauffage.Rows, 60)
	assert.Equal(t, 8, chauffage.Width())
	assert.Equal(t, "Janvier", chauffage.Rows[0][0].Text)
	for col := 2; col < 8; col++ {
		assert.True(t, strings.HasPrefix(chauffage.Rows[0][col].Formula, "of:="),
			"column %d of the first heating row", col)
	}
}

// =============================================================================
// SYNTHESIS GEOMETRY
// =============================================================================

func TestBuild_SynthesisCarriesDataRowsThenTheTotalsBlock(t *testing.T) {
	// GIVEN the assembled workbook
	doc := builtDocument(t)
	syn := doc.Table(document.TableSynthese)
	require.NotNil(t, syn)

	// THEN 60 data rows, a separator, the marker, 12 monthly rows, the
	// annual row: sheet rows 3 through 77
	require.Len(t, syn.Rows, 75)
	assert.Equal(t, 17, syn.Width())
	assert.Equal(t, "Période", syn.Headers[0])
	assert.Equal(t, "Déficit gaz (kW)", syn.Headers[14])
	assert.Equal(t, "Énergie gaz (TWh)", syn.Headers[16])

	assert.Equal(t, "Janvier 8h-13h", syn.Rows[0][0].Text)
	assert.Equal(t, "Décembre 23h-8h", syn.Rows[59][0].Text)

	// separator row is fully empty
	for col, cell := range syn.Rows[60] {
		assert.Empty(t, cell.Text, "separator column %d", col)
		assert.Nil(t, cell.Value, "separator column %d", col)
	}

	assert.Equal(t, "TOTAUX MENSUELS", syn.Rows[61][0].Text)
	assert.Equal(t, ods.StyleTotal, syn.Rows[61][0].Style)

	assert.Equal(t, "Janvier", syn.Rows[62][0].Text)
	assert.Equal(t, "Décembre", syn.Rows[73][0].Text)
	assert.Equal(t, "TOTAL ANNUEL", syn.Rows[74][0].Text)
}

func TestBuild_SynthesisTotalsSumTheGasColumn(t *testing.T) {
	// GIVEN the assembled workbook
	doc := builtDocument(t)
	syn := doc.Table(document.TableSynthese)
	require.NotNil(t, syn)

	// THEN the January row sums its five slots, sheet rows 3 through 7
	january := syn.Rows[62][16]
	assert.Equal(t, "of:=SUM([.Q3:.Q7])", january.Formula)
	require.NotNil(t, january.Value)

	// AND the annual row sums the twelve monthly rows, sheet rows 65-76
	annual := syn.Rows[74][16]
	assert.Equal(t, "of:=SUM([.Q65:.Q76])", annual.Formula)
	require.NotNil(t, annual.Value)

	// AND the annual value equals the stored monthly values added up
	total := decimal.Zero
	for m := 0; m < 12; m++ {
		monthly := syn.Rows[62+m][16]
		require.NotNil(t, monthly.Value, scenario.Months[m])
		total = total.Add(*monthly.Value)
	}
	assert.True(t, annual.Value.Equal(total))
}

func TestBuild_DerivedCellsCarryBothValueAndFormula(t *testing.T) {
	// GIVEN the assembled workbook
	doc := builtDocument(t)
	syn := doc.Table(document.TableSynthese)
	require.NotNil(t, syn)

	// THEN the rooftop PV cell shows the number and the recipe: kWc per
	// house x houses x 1000 x the capacity factor on the same grid row
	pv := syn.Rows[0][1]
	require.NotNil(t, pv.Value)
	assert.True(t, pv.Value.Equal(d("36000000000")), "10 kWc x 2e7 houses x 1000 x 0.18")
	assert.Equal(t,
		"of:=((([parametres.B8]*[parametres.B6])*1000)*[facteurs_solaires.C3])",
		pv.Formula)

	// AND the wind column is pinned to zero in both renditions
	wind := syn.Rows[0][5]
	require.NotNil(t, wind.Value)
	assert.True(t, wind.Value.IsZero())
	assert.Equal(t, "of:=0", wind.Formula)

	// AND the duration column is a plain number, not a formula
	duration := syn.Rows[0][15]
	require.NotNil(t, duration.Value)
	assert.True(t, duration.Value.Equal(d("5")))
	assert.Empty(t, duration.Formula)

	// AND the transport flat band derives from the rows above it
	transport := doc.Table(document.TableCalcTransport)
	require.NotNil(t, transport)
	flat := transport.Rows[8][1]
	require.NotNil(t, flat.Value)
	assert.Equal(t, "of:=((([.B9]+[.B10])*1000000000)/8760)", flat.Formula)
}

func TestBuild_RecordsEveryFormulaCellForTheAudit(t *testing.T) {
	// GIVEN the assembled workbook
	doc := builtDocument(t)

	// THEN the audit trail covers every derived cell:
	// 1 industrie + 1 tertiaire + 9 transport + 12 agriculture
	// + 360 heating (6 columns x 60 rows)
	// + 913 synthesis (15 columns x 60 rows + 12 monthly + 1 annual)
	assert.Equal(t, 1296, doc.AuditedCells())
}

func TestBuild_BalanceTableClosesOnTheStyledTotal(t *testing.T) {
	// GIVEN the assembled workbook
	doc := builtDocument(t)
	bilan := doc.Table(document.TableBilan)
	require.NotNil(t, bilan)

	// THEN five sector rows then the total row
	require.Len(t, bilan.Rows, 6)
	assert.Equal(t, 8, bilan.Width())
	assert.Equal(t, "Secteur", bilan.Headers[0])

	last := bilan.Rows[5]
	assert.Equal(t, sectors.SecteurTotal, last[0].Text)
	assert.Equal(t, ods.StyleTotal, last[0].Style)
	require.NotNil(t, last[6].Value)
	assert.True(t, last[6].Value.IsPositive(), "total target energy")

	for i := 0; i < 5; i++ {
		assert.NotEmpty(t, bilan.Rows[i][0].Text, "sector row %d", i)
		assert.NotEqual(t, ods.StyleTotal, bilan.Rows[i][0].Style, "sector row %d", i)
	}
}

// =============================================================================
// THE CHECKER GATE
// =============================================================================

func TestBuild_RunsTheCheckerBeforeRendering(t *testing.T) {
	// GIVEN the assembled workbook
	doc := builtDocument(t)

	// THEN the report covers every declared quantity:
	// 5 heating + 9 transport + 8 sectors
	assert.Equal(t, 22, doc.Report.Quantities)

	// AND each quantity saw the defaults plus four perturbations
	assert.Equal(t, 110, doc.Report.Samples)
	for _, r := range doc.Report.Results {
		assert.Equal(t, 5, r.Samples, r.Name)
	}
}

// =============================================================================
// FAILURE PATHS
// =============================================================================

func TestBuild_NilInputsFail(t *testing.T) {
	ctx := context.Background()

	_, err := document.Build(ctx, document.Input{Store: store.NewMemory()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil scenario bundle")

	_, err = document.Build(ctx, document.Input{Bundle: scenario.Default()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil store")
}

func TestBuild_InvalidScenarioFails(t *testing.T) {
	// GIVEN a bundle with a negative plant capacity
	b := scenario.Default()
	b.Production.SolarGwcCentrales = d("-5")

	// WHEN building
	_, err := document.Build(context.Background(), document.Input{
		Bundle: b,
		Store:  store.NewMemory(),
	})

	// THEN the validation verdict comes back, not a half-built workbook
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario")
}

func TestBuild_EmptyStorePointsAtTheMissingStages(t *testing.T) {
	// GIVEN a store that never saw the download or compute stages
	_, err := document.Build(context.Background(), document.Input{
		Bundle: scenario.Default(),
		Store:  store.NewMemory(),
	})

	// THEN the error names the first missing table and the stages to run
	require.Error(t, err)
	assert.Contains(t, err.Error(), document.TableProduction)
	assert.Contains(t, err.Error(), "run the download and compute stages")
}

func TestBuild_CancelledContextStopsThePopulate(t *testing.T) {
	// GIVEN a full store but an already-cancelled context
	m := computedStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// WHEN building
	_, err := document.Build(ctx, document.Input{
		Bundle: scenario.Default(),
		Store:  m,
	})

	// THEN the cancellation surfaces instead of a workbook
	require.ErrorIs(t, err, context.Canceled)
}
