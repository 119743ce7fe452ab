/*
pipeline.go - The compute stage

PURPOSE:
  Fills the store with everything the document builders later assemble:
  the parameter snapshot, the heating demand chain, the per-sector slot
  demand, the synthesis rows and the electrification balance. Downloads
  are a separate stage (fetch/); this file only turns a scenario plus the
  stored reference data into stored results.

THE SPLIT:
  ComputeConsumption derives everything that depends on the scenario
  alone. ComputeSynthesis then joins those rows with the downloaded
  production and solar series into the 60-row balance, closing each slot
  with the gas backup. A reference value missing for a grid key falls back
  to zero and is reported in the result, never substituted silently.

SEE ALSO:
  - document.go: Build, which consumes the stored rows
  - fetch/: The download stage feeding production and solar
*/
package document

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/engine"
	"github.com/terrawatt/balance-engine/heating"
	"github.com/terrawatt/balance-engine/scenario"
	"github.com/terrawatt/balance-engine/sectors"
	"github.com/terrawatt/balance-engine/store"
	"github.com/terrawatt/balance-engine/transport"
)

var (
	mille   = decimal.NewFromInt(1000)
	million = decimal.NewFromInt(1_000_000)
)

// =============================================================================
// CONSUMPTION STAGE
// =============================================================================

// ComputeConsumption derives the scenario-only results and persists them:
// the parameter snapshot, 60 heating rows, 60 sector rows and the
// electrification balance.
func ComputeConsumption(ctx context.Context, b *scenario.Bundle, st store.Store) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("document: invalid scenario: %w", err)
	}
	reg, err := scenario.NewRegistry()
	if err != nil {
		return fmt.Errorf("document: %w", err)
	}

	params := make([]store.Parameter, 0, reg.KnobCount())
	for _, k := range reg.Knobs() {
		v, ok := b.KnobValue(k.Name)
		if !ok {
			v = k.Default
		}
		params = append(params, store.Parameter{
			Name:        k.Name,
			Value:       v,
			Unit:        k.Unit,
			Source:      k.Source,
			Description: k.Description,
		})
	}
	if err := st.SaveParameters(ctx, params); err != nil {
		return fmt.Errorf("document: save parameters: %w", err)
	}

	heatingRows, err := computeHeatingRows(b.Heating)
	if err != nil {
		return err
	}
	if err := st.SaveHeating(ctx, heatingRows); err != nil {
		return fmt.Errorf("document: save heating demand: %w", err)
	}

	sectorRows, err := computeSectorRows(b)
	if err != nil {
		return err
	}
	if err := st.SaveSectors(ctx, sectorRows); err != nil {
		return fmt.Errorf("document: save sector demand: %w", err)
	}

	lignes, err := sectors.BilanElectrification(b)
	if err != nil {
		return fmt.Errorf("document: %w", err)
	}
	lignes = append(lignes, sectors.TotalBilan(lignes))
	balance := make([]store.BalanceRow, 0, len(lignes))
	for _, l := range lignes {
		balance = append(balance, store.BalanceRow{
			Secteur:       l.Secteur,
			ActuelTwh:     l.Actuel,
			ElecTwh:       l.ElecDirect,
			H2Twh:         l.H2,
			BioEnrTwh:     l.BioEnr,
			FossileTwh:    l.FossileResiduel,
			TotalCibleTwh: l.TotalCible,
			H2ProdElecTwh: l.H2ProdElec,
		})
	}
	if err := st.SaveBalance(ctx, balance); err != nil {
		return fmt.Errorf("document: save balance: %w", err)
	}
	return nil
}

func computeHeatingRows(cfg scenario.Heating) ([]store.HeatingSlot, error) {
	var curve engine.Curve
	if cfg.AvecPompeAChaleur {
		var err error
		curve, err = heating.CopCurve(cfg)
		if err != nil {
			return nil, fmt.Errorf("document: %w", err)
		}
	}

	keys := scenario.GridKeys()
	rows := make([]store.HeatingSlot, 0, len(keys))
	for _, key := range keys {
		tExt, ok := cfg.TExt(key.Mois)
		if !ok {
			return nil, fmt.Errorf("document: no outdoor temperature for %s", key.Mois)
		}
		cop := decimal.NewFromInt(1)
		if cfg.AvecPompeAChaleur {
			cop = curve.Eval(tExt)
		}
		besoin, err := heating.PuissanceSlotKW(cfg, key.Mois, key.Plage)
		if err != nil {
			return nil, fmt.Errorf("document: %w", err)
		}
		rows = append(rows, store.HeatingSlot{
			Mois:     key.Mois,
			Plage:    key.Plage,
			TExtC:    tExt,
			COP:      cop,
			BesoinKW: besoin,
		})
	}
	return rows, nil
}

func computeSectorRows(b *scenario.Bundle) ([]store.SectorSlot, error) {
	jours := b.Temporal.JoursParMois
	industrieKW := sectors.IndustrieFlatKW(b.Industrie)
	tertiaireKW := sectors.TertiaireFlatKW(b.Tertiaire)

	// Transport varies by slot only, agriculture by month only.
	transportKW := make(map[string]decimal.Decimal, len(scenario.Slots))
	for _, slot := range scenario.Slots {
		kw, err := transport.PuissanceSlotKW(b.Transport, slot.Name)
		if err != nil {
			return nil, fmt.Errorf("document: %w", err)
		}
		transportKW[slot.Name] = kw
	}
	agricultureKW := make(map[string]decimal.Decimal, len(scenario.Months))
	for _, mois := range scenario.Months {
		kw, err := sectors.AgriculturePuissanceKW(b.Agriculture, mois, jours)
		if err != nil {
			return nil, fmt.Errorf("document: %w", err)
		}
		agricultureKW[mois] = kw
	}

	keys := scenario.GridKeys()
	rows := make([]store.SectorSlot, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, store.SectorSlot{
			Mois:          key.Mois,
			Plage:         key.Plage,
			TransportKW:   transportKW[key.Plage],
			IndustrieKW:   industrieKW,
			TertiaireKW:   tertiaireKW,
			AgricultureKW: agricultureKW[key.Mois],
		})
	}
	return rows, nil
}

// =============================================================================
// SYNTHESIS STAGE
// =============================================================================

// SynthesisResult summarizes a synthesis run: how many rows were written,
// the annual gas backup, and every reference value that had to fall back
// to zero.
type SynthesisResult struct {
	Rows        int
	GasTotalTwh decimal.Decimal
	Missing     []*engine.MissingValueError
}

// ComputeSynthesis joins the stored consumption rows with the downloaded
// production and solar series into the 60 synthesis rows and persists
// them. Missing reference values are substituted with zero and reported in
// the result; the caller decides whether that is acceptable.
func ComputeSynthesis(ctx context.Context, b *scenario.Bundle, st store.Store) (SynthesisResult, error) {
	var res SynthesisResult
	if err := b.Validate(); err != nil {
		return res, fmt.Errorf("document: invalid scenario: %w", err)
	}

	production, err := st.LoadProduction(ctx)
	if err != nil {
		return res, fmt.Errorf("document: load production: %w", err)
	}
	solar, err := st.LoadSolar(ctx)
	if err != nil {
		return res, fmt.Errorf("document: load solar factors: %w", err)
	}
	heatingRows, err := st.LoadHeating(ctx)
	if err != nil {
		return res, fmt.Errorf("document: load heating demand: %w", err)
	}
	sectorRows, err := st.LoadSectors(ctx)
	if err != nil {
		return res, fmt.Errorf("document: load sector demand: %w", err)
	}

	prodBy := make(map[engine.GridKey]store.ProductionSlot, len(production))
	for _, r := range production {
		prodBy[engine.GridKey{Mois: r.Mois, Plage: r.Plage}] = r
	}
	solarBy := make(map[engine.GridKey]store.SolarSlot, len(solar))
	for _, r := range solar {
		solarBy[engine.GridKey{Mois: r.Mois, Plage: r.Plage}] = r
	}
	heatBy := make(map[engine.GridKey]store.HeatingSlot, len(heatingRows))
	for _, r := range heatingRows {
		heatBy[engine.GridKey{Mois: r.Mois, Plage: r.Plage}] = r
	}
	sectorBy := make(map[engine.GridKey]store.SectorSlot, len(sectorRows))
	for _, r := range sectorRows {
		sectorBy[engine.GridKey{Mois: r.Mois, Plage: r.Plage}] = r
	}

	missing := func(table string, key engine.GridKey, col engine.Column) decimal.Decimal {
		res.Missing = append(res.Missing, &engine.MissingValueError{
			Table:    table,
			Key:      key,
			Column:   col,
			Fallback: decimal.Zero,
		})
		return decimal.Zero
	}

	prod := b.Production
	jours := b.Temporal.JoursParMois
	keys := scenario.GridKeys()
	rows := make([]store.SynthesisRow, 0, len(keys))
	for _, key := range keys {
		var cf decimal.Decimal
		if s, ok := solarBy[key]; ok {
			cf = s.CapacityFactor
		} else {
			cf = missing(TableSolaire, key, "C")
		}
		var nucMW, hydroMW decimal.Decimal
		if p, ok := prodBy[key]; ok {
			nucMW, hydroMW = p.NucleaireMW, p.HydrauliqueMW
		} else {
			nucMW = missing(TableProduction, key, "C")
			hydroMW = missing(TableProduction, key, "D")
		}
		var chauffageKW decimal.Decimal
		if h, ok := heatBy[key]; ok {
			chauffageKW = h.BesoinKW
		} else {
			chauffageKW = missing(TableChauffage, key, "E")
		}
		var transportKW, industrieKW, tertiaireKW, agricultureKW decimal.Decimal
		if s, ok := sectorBy[key]; ok {
			transportKW = s.TransportKW
			industrieKW = s.IndustrieKW
			tertiaireKW = s.TertiaireKW
			agricultureKW = s.AgricultureKW
		} else {
			transportKW = missing(TableSecteurs, key, "C")
			industrieKW = missing(TableSecteurs, key, "D")
			tertiaireKW = missing(TableSecteurs, key, "E")
			agricultureKW = missing(TableSecteurs, key, "F")
		}

		hours, ok := scenario.SlotHours(key.Plage)
		if !ok {
			return res, fmt.Errorf("document: unknown slot %q", key.Plage)
		}
		duree := decimal.NewFromInt(int64(hours))

		// Same operation order as the rendered formulas, so the stored
		// values and the interpreted expressions stay byte-identical.
		pvMaisons := prod.KwcParMaison.Mul(prod.NombreMaisons).Mul(mille).Mul(cf)
		pvCollectif := prod.KwcParCollectif.Mul(prod.NombreCollectifs).Mul(mille).Mul(cf)
		pvCentrales := prod.SolarGwcCentrales.Mul(million).Mul(cf)
		hydraulique := hydroMW.Mul(mille)
		eolien := decimal.Zero
		nucleaire := nucMW.Mul(mille)
		totalProd := pvMaisons.Add(pvCollectif).Add(pvCentrales).
			Add(hydraulique).Add(eolien).Add(nucleaire)

		totalConso := chauffageKW.Add(transportKW).Add(industrieKW).
			Add(tertiaireKW).Add(agricultureKW)

		deficit := totalConso.Sub(totalProd)
		if deficit.IsNegative() {
			deficit = decimal.Zero
		}
		energieGaz := deficit.Mul(duree).Mul(jours).Div(milliard)

		rows = append(rows, store.SynthesisRow{
			Mois:              key.Mois,
			Plage:             key.Plage,
			PvMaisonsKW:       pvMaisons,
			PvCollectifKW:     pvCollectif,
			PvCentralesKW:     pvCentrales,
			HydrauliqueKW:     hydraulique,
			EolienKW:          eolien,
			NucleaireKW:       nucleaire,
			TotalProductionKW: totalProd,
			ChauffageKW:       chauffageKW,
			TransportKW:       transportKW,
			IndustrieKW:       industrieKW,
			TertiaireKW:       tertiaireKW,
			AgricultureKW:     agricultureKW,
			TotalConsoKW:      totalConso,
			DeficitGazKW:      deficit,
			DureeH:            duree,
			EnergieGazTwh:     energieGaz,
		})
		res.GasTotalTwh = res.GasTotalTwh.Add(energieGaz)
	}

	if err := st.SaveSynthesis(ctx, rows); err != nil {
		return res, fmt.Errorf("document: save synthesis: %w", err)
	}
	res.Rows = len(rows)
	return res, nil
}
