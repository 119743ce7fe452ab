/*
balance.go - Cross-sector electrification balance

PURPOSE:
  Assembles the sector-by-sector conversion summary: today's final energy
  against the target split between direct electricity, hydrogen fuel,
  renewable fuels and residual fossil, plus the upstream electricity the
  hydrogen pathways draw from the grid.

COLUMNS:
  ElecDirect counts the grid draw of end uses: chargers, motors, heat
  pumps. H2 is the fuel energy delivered into tanks and H2ProdElec the
  electrolysis and synthesis electricity behind it. Renewable jet fuel is
  reported at its fuel energy under BioEnr, with its production
  electricity under H2ProdElec. Every line therefore satisfies

     grid draw = ElecDirect + H2ProdElec
     TotalCible = ElecDirect + H2 + BioEnr + FossileResiduel

SEE ALSO:
  - transport/model.go: The only sector with hydrogen and fuel synthesis
  - heating/model.go: Delivered-heat totals behind the chauffage row
  - document/: Renders these lines into the bilan_electrification sheet
*/
package sectors

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/heating"
	"github.com/terrawatt/balance-engine/scenario"
	"github.com/terrawatt/balance-engine/transport"
)

// rendementElectrolyse converts electrolysis electricity into hydrogen
// fuel energy when a line reports fuel delivered into tanks.
var rendementElectrolyse = decimal.NewFromFloat(0.65)

// SecteurTotal labels the closing row summing the five sectors.
const SecteurTotal = "TOTAL"

// LigneBilan is one row of the electrification balance, all TWh.
type LigneBilan struct {
	Secteur         string
	Actuel          decimal.Decimal
	ElecDirect      decimal.Decimal
	H2              decimal.Decimal
	BioEnr          decimal.Decimal
	FossileResiduel decimal.Decimal
	TotalCible      decimal.Decimal
	H2ProdElec      decimal.Decimal
}

// BilanElectrification walks the five demand sectors of the bundle, in
// the order the exported sheet lists them.
func BilanElectrification(b *scenario.Bundle) ([]LigneBilan, error) {
	chauffage, err := ligneChauffage(b.Heating, b.Temporal.JoursParMois)
	if err != nil {
		return nil, err
	}
	return []LigneBilan{
		chauffage,
		ligneTransport(b.Transport),
		ligneIndustrie(b.Industrie),
		ligneTertiaire(b.Tertiaire),
		ligneAgriculture(b.Agriculture),
	}, nil
}

// TotalBilan sums the lines into the closing TOTAL row.
func TotalBilan(lignes []LigneBilan) LigneBilan {
	total := LigneBilan{Secteur: SecteurTotal}
	for _, l := range lignes {
		total.Actuel = total.Actuel.Add(l.Actuel)
		total.ElecDirect = total.ElecDirect.Add(l.ElecDirect)
		total.H2 = total.H2.Add(l.H2)
		total.BioEnr = total.BioEnr.Add(l.BioEnr)
		total.FossileResiduel = total.FossileResiduel.Add(l.FossileResiduel)
		total.TotalCible = total.TotalCible.Add(l.TotalCible)
		total.H2ProdElec = total.H2ProdElec.Add(l.H2ProdElec)
	}
	return total
}

// ligneChauffage compares the heat a boiler delivers today with the
// electricity the heat-pump fleet draws for the same comfort.
func ligneChauffage(cfg scenario.Heating, jours decimal.Decimal) (LigneBilan, error) {
	chaleur, err := heating.ChaleurAnnuelleTWh(cfg, jours)
	if err != nil {
		return LigneBilan{}, fmt.Errorf("bilan chauffage: %w", err)
	}
	elec, err := heating.EnergieAnnuelleTWh(cfg, jours)
	if err != nil {
		return LigneBilan{}, fmt.Errorf("bilan chauffage: %w", err)
	}
	return LigneBilan{
		Secteur:    "Chauffage résidentiel",
		Actuel:     chaleur,
		ElecDirect: elec,
		TotalCible: elec,
	}, nil
}

func ligneTransport(cfg scenario.Transport) LigneBilan {
	a := transport.ConsommationActuelle(cfg)
	e := transport.ConsommationElectrifiee(cfg)

	// Renewable kerosene replaces fossil kerosene one for one; its fuel
	// energy is the displaced share of the remaining flights.
	saf := cfg.AviationDomestiqueTwh.
		Mul(un.Sub(cfg.AviationReportTgvFraction)).
		Add(cfg.AviationInternationalTwh).
		Mul(cfg.AviationSafFraction)

	prodElec := e.PlHydrogene.Add(e.AviationSaf)
	direct := e.TotalElec.Sub(prodElec)
	h2 := e.PlHydrogene.Mul(rendementElectrolyse)

	return LigneBilan{
		Secteur:         "Transport",
		Actuel:          a.Total,
		ElecDirect:      direct,
		H2:              h2,
		BioEnr:          saf,
		FossileResiduel: e.TotalFossile,
		TotalCible:      direct.Add(h2).Add(saf).Add(e.TotalFossile),
		H2ProdElec:      prodElec,
	}
}

func ligneIndustrie(cfg scenario.Industrie) LigneBilan {
	b := Industrie(cfg)
	return LigneBilan{
		Secteur:         "Industrie",
		Actuel:          b.ActuelTotal,
		ElecDirect:      b.TotalElec,
		FossileResiduel: b.FossileResiduel,
		TotalCible:      b.TotalElec.Add(b.FossileResiduel),
	}
}

func ligneTertiaire(cfg scenario.Tertiaire) LigneBilan {
	b := Tertiaire(cfg)
	return LigneBilan{
		Secteur:    "Tertiaire",
		Actuel:     b.ActuelTotal,
		ElecDirect: b.TotalElec,
		TotalCible: b.TotalElec,
	}
}

func ligneAgriculture(cfg scenario.Agriculture) LigneBilan {
	b := Agriculture(cfg)
	return LigneBilan{
		Secteur:         "Agriculture",
		Actuel:          b.ActuelTotal,
		ElecDirect:      b.TotalElec,
		FossileResiduel: b.FossileResiduel,
		TotalCible:      b.TotalElec.Add(b.FossileResiduel),
	}
}
