/*
sectors.go - Flat-demand sector balances

PURPOSE:
  Computes the industrie, tertiaire and agriculture balances: today's
  demand, the electrified demand after conversion and efficiency gains,
  and the residual fossil fuel. Industry and tertiary draw flat over the
  8760 hours of the year; agriculture follows a seasonal monthly profile.

  Each sector file carries both renditions side by side: the native
  decimal chain and the formula builders over parameter references, so
  the exported cells stay auditable and the consistency checker can hold
  the two to the same result.

USAGE:
  b := sectors.Industrie(scenario.DefaultIndustrie())
  kw := sectors.IndustrieFlatKW(cfg)
  qs := sectors.Quantities()

SEE ALSO:
  - industrie.go, tertiaire.go, agriculture.go: The per-sector chains
  - engine/checker.go: The consistency run Quantities feeds
*/
package sectors

import (
	"github.com/shopspring/decimal"

	"github.com/terrawatt/balance-engine/engine"
)

var (
	un       = decimal.NewFromInt(1)
	milliard = decimal.NewFromInt(1_000_000_000)
	annuel   = decimal.NewFromInt(8760)
)

// twhTolerance keeps energy identities tight. The chains are sums,
// products and the occasional division mirrored on both sides.
var twhTolerance = decimal.New(1, -6)

// Quantities returns the checker coverage for the three sectors: the
// electric totals, the flat draws, the fossil residuals and two contrasted
// months of the agriculture profile.
func Quantities() []engine.Quantity {
	var out []engine.Quantity
	out = append(out, industrieQuantities()...)
	out = append(out, tertiaireQuantities()...)
	out = append(out, agricultureQuantities()...)
	return out
}
