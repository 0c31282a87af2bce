package rank

import (
	"math"
	"strings"

	"kalkulai-be/pkg/catalog"
)

// Reason tags emitted by the business layer.
const (
	ReasonAvailable    = "available"
	ReasonMarginBoost  = "margin boost"
	ReasonBrandBoost   = "brand boost"
	ReasonPricePenalty = "price penalty"
)

// BusinessWeights caps the individual business contributions.
type BusinessWeights struct {
	AvailabilityBonus float64
	MarginCap         float64
	MarginFactor      float64
	PriceCap          float64
	PriceFactor       float64
}

// DefaultBusinessWeights returns the tuned defaults.
func DefaultBusinessWeights() BusinessWeights {
	return BusinessWeights{
		AvailabilityBonus: 0.10,
		MarginCap:         0.15,
		MarginFactor:      0.2,
		PriceCap:          0.15,
		PriceFactor:       0.15,
	}
}

// priceRange is the min/max price among the current call's candidates.
// Price penalties are normalized against this per-call range, never a
// global one.
type priceRange struct {
	min, max float64
	valid    bool
}

func priceRangeOf(skus []string, cfg catalog.BusinessConfig) priceRange {
	r := priceRange{min: math.Inf(1), max: math.Inf(-1)}
	for _, sku := range skus {
		if p, ok := cfg.PriceOf(sku); ok {
			if p < r.min {
				r.min = p
			}
			if p > r.max {
				r.max = p
			}
			r.valid = true
		}
	}
	return r
}

// applyBusiness computes the strictly additive/subtractive business deltas
// for one candidate and returns the bounded business contribution plus the
// reason tags that fired.
func applyBusiness(sku, brand string, cfg catalog.BusinessConfig, prices priceRange, w BusinessWeights) (float64, []string) {
	delta := 0.0
	var reasons []string

	if cfg.Available(sku) {
		delta += w.AvailabilityBonus
		reasons = append(reasons, ReasonAvailable)
	}
	if margin, ok := cfg.MarginOf(sku); ok && margin > 0 {
		delta += math.Min(w.MarginCap, margin*w.MarginFactor)
		reasons = append(reasons, ReasonMarginBoost)
	}
	if boost, ok := cfg.BrandBoost[strings.ToLower(brand)]; ok && boost != 0 {
		delta += boost
		reasons = append(reasons, ReasonBrandBoost)
	}
	if price, ok := cfg.PriceOf(sku); ok && prices.valid && prices.max > prices.min {
		normalized := (price - prices.min) / (prices.max - prices.min)
		penalty := math.Min(w.PriceCap, normalized*w.PriceFactor)
		if penalty > 0 {
			delta -= penalty
			reasons = append(reasons, ReasonPricePenalty)
		}
	}

	// The business contribution is bounded on its own before it is added to
	// the base score; the final sum is clamped again by the caller.
	if delta > 1 {
		delta = 1
	}
	if delta < -1 {
		delta = -1
	}
	return delta, reasons
}
