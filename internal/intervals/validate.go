package intervals

import (
	"fmt"
	"iter"
	"log"

	"github.com/shopspring/decimal"

	"github.com/quantalpha/quantalpha/internal/models"
)

// Adjustment reasons. Fixed strings; the report quotes them verbatim.
const (
	ReasonBoundsReversed = "bounds reversed"
	ReasonNegativeClamp  = "negative price clamped"
	ReasonOutOfRange     = "out of plausible range given observed volatility"
	WarnUnclassified     = "unclassified interval not validated"
)

// Params are the validator's heuristic knobs.
type Params struct {
	// PlausibilityMultiplier k bounds how far a price interval's midpoint
	// may sit from the current price, in units of the volatility proxy.
	PlausibilityMultiplier float64
	// StopLossClampRatio is where a stop-loss above the current price gets
	// pulled down to, as a fraction of the current price.
	StopLossClampRatio float64
}

// DefaultParams mirrors the configured defaults.
func DefaultParams() Params {
	return Params{
		PlausibilityMultiplier: 2.5,
		StopLossClampRatio:     0.98,
	}
}

// Validate reconciles extracted intervals against the market snapshot.
// Each interval is checked independently; the role is used only for log
// attribution. Deterministic and idempotent: validating the adjusted
// intervals again yields zero adjustments and zero warnings.
func Validate(seq iter.Seq[models.Interval], sc models.StockContext, role models.AgentRole, p Params) models.ValidationOutcome {
	outcome := models.ValidationOutcome{}

	for iv := range seq {
		adjusted, adjustments, warning := validateOne(iv, sc, p)
		outcome.AdjustedIntervals = append(outcome.AdjustedIntervals, adjusted)
		outcome.Adjustments = append(outcome.Adjustments, adjustments...)
		if warning != "" {
			outcome.Warnings = append(outcome.Warnings, warning)
		}
	}

	if len(outcome.Adjustments) > 0 || len(outcome.Warnings) > 0 {
		log.Printf("[IntervalValidator] role=%s adjustments=%d warnings=%d",
			role, len(outcome.Adjustments), len(outcome.Warnings))
	}
	return outcome
}

func validateOne(iv models.Interval, sc models.StockContext, p Params) (models.Interval, []models.IntervalAdjustment, string) {
	var adjustments []models.IntervalAdjustment

	record := func(original models.Interval, reason string) {
		adjustments = append(adjustments, models.IntervalAdjustment{
			Original: original,
			Adjusted: iv,
			Reason:   reason,
		})
	}

	// Normalization: ordered bounds, non-negative prices.
	if iv.Lower > iv.Upper {
		original := iv
		iv.Lower, iv.Upper = iv.Upper, iv.Lower
		record(original, ReasonBoundsReversed)
	}
	if iv.Lower < 0 || iv.Upper < 0 {
		original := iv
		if iv.Lower < 0 {
			iv.Lower = 0
		}
		if iv.Upper < 0 {
			iv.Upper = 0
		}
		record(original, ReasonNegativeClamp)
	}

	if iv.Kind == models.KindUnclassified {
		// No numeric adjustment is attempted for unclassified ranges.
		warning := fmt.Sprintf("%s: %q", WarnUnclassified, iv.SourceText)
		return iv, adjustments, warning
	}

	// Plausibility checks only make sense for absolute prices against a
	// positive current price; percent intervals are normalized and rounded.
	if iv.Unit == models.UnitAbsolute && sc.CurrentPrice > 0 {
		switch iv.Kind {
		case models.KindTargetPrice, models.KindSupport, models.KindResistance:
			if adj, ok := clampToPlausibleBand(&iv, sc, p); ok {
				adjustments = append(adjustments, adj)
			}
		case models.KindStopLoss:
			// Rounding runs after the clamp, so the check uses the rounded
			// bound; otherwise half-up rounding could lift an upper bound
			// onto the current price.
			if roundBound(iv.Upper, iv.Unit) >= sc.CurrentPrice {
				original := iv
				iv.Upper = roundDown2(sc.CurrentPrice * p.StopLossClampRatio)
				if iv.Lower > iv.Upper {
					iv.Lower = iv.Upper
				}
				record(original, fmt.Sprintf("stop-loss above current price %.2f", sc.CurrentPrice))
			}
		}
	}

	iv.Lower = roundBound(iv.Lower, iv.Unit)
	iv.Upper = roundBound(iv.Upper, iv.Unit)
	return iv, adjustments, ""
}

// clampToPlausibleBand pulls an interval whose midpoint falls outside
// currentPrice*(1 ± volatility/100*k) back inside the band. The whole
// interval is intersected with the band (collapsing to the nearer edge when
// disjoint) so that re-validation finds nothing left to do.
func clampToPlausibleBand(iv *models.Interval, sc models.StockContext, p Params) (models.IntervalAdjustment, bool) {
	halfWidth := sc.CurrentPrice * sc.Volatility20dPct / 100 * p.PlausibilityMultiplier
	bandLo := roundUp2(sc.CurrentPrice - halfWidth)
	if bandLo < 0 {
		bandLo = 0
	}
	bandHi := roundDown2(sc.CurrentPrice + halfWidth)

	mid := iv.Midpoint()
	if mid >= bandLo && mid <= bandHi {
		return models.IntervalAdjustment{}, false
	}

	original := *iv
	if iv.Lower < bandLo {
		iv.Lower = bandLo
	}
	if iv.Upper > bandHi {
		iv.Upper = bandHi
	}
	if iv.Lower > iv.Upper {
		// Interval lies entirely outside the band; collapse to the edge.
		if original.Lower > bandHi {
			iv.Lower, iv.Upper = bandHi, bandHi
		} else {
			iv.Lower, iv.Upper = bandLo, bandLo
		}
	}

	return models.IntervalAdjustment{
		Original: original,
		Adjusted: *iv,
		Reason:   ReasonOutOfRange,
	}, true
}

// roundBound applies the unit's rounding rule: two decimals for absolute
// prices, whole numbers for percentages.
func roundBound(v float64, unit models.IntervalUnit) float64 {
	d := decimal.NewFromFloat(v)
	if unit == models.UnitPercent {
		f, _ := d.Round(0).Float64()
		return f
	}
	f, _ := d.Round(2).Float64()
	return f
}

// roundDown2 / roundUp2 round band edges inward so a clamped bound never
// rounds back outside the band.
func roundDown2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).RoundFloor(2).Float64()
	return f
}

func roundUp2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).RoundCeil(2).Float64()
	return f
}
