package rank

import (
	"math"
	"testing"

	"kalkulai-be/pkg/catalog"
)

func TestPriceRangeOf(t *testing.T) {
	cfg := catalog.BusinessConfig{
		Price: map[string]float64{"A": 10, "B": 40, "C": 25},
	}

	r := priceRangeOf([]string{"A", "B", "C"}, cfg)
	if !r.valid || r.min != 10 || r.max != 40 {
		t.Errorf("range = %+v, want valid [10,40]", r)
	}

	r = priceRangeOf([]string{"X", "Y"}, cfg)
	if r.valid {
		t.Errorf("range = %+v, want invalid when no candidate has a price", r)
	}

	// The range is scoped to the candidates of the call, not the whole table.
	r = priceRangeOf([]string{"A", "C"}, cfg)
	if r.max != 25 {
		t.Errorf("range max = %v, want 25 (B excluded)", r.max)
	}
}

func TestApplyBusinessContributions(t *testing.T) {
	w := DefaultBusinessWeights()
	cfg := catalog.BusinessConfig{
		Availability: map[string]int{"A": 1, "B": 0},
		Margin:       map[string]float64{"A": 0.5, "B": 2.0},
		Price:        map[string]float64{"A": 10, "B": 50},
		BrandBoost:   map[string]float64{"caparol": 0.05},
	}
	prices := priceRangeOf([]string{"A", "B"}, cfg)

	deltaA, reasonsA := applyBusiness("A", "Caparol", cfg, prices, w)
	// availability 0.10 + margin min(0.15, 0.5*0.2)=0.10 + brand 0.05, no
	// price penalty at the cheap end.
	if want := 0.25; math.Abs(deltaA-want) > 1e-9 {
		t.Errorf("delta A = %v, want %v", deltaA, want)
	}
	for _, want := range []string{ReasonAvailable, ReasonMarginBoost, ReasonBrandBoost} {
		if !hasReason(reasonsA, want) {
			t.Errorf("reasons A = %v, missing %q", reasonsA, want)
		}
	}
	if hasReason(reasonsA, ReasonPricePenalty) {
		t.Errorf("reasons A = %v, cheapest must not be penalized", reasonsA)
	}

	deltaB, reasonsB := applyBusiness("B", "", cfg, prices, w)
	// margin capped at 0.15, full price penalty 0.15 at the expensive end,
	// not available.
	if want := 0.0; math.Abs(deltaB-want) > 1e-9 {
		t.Errorf("delta B = %v, want %v", deltaB, want)
	}
	if !hasReason(reasonsB, ReasonMarginBoost) || !hasReason(reasonsB, ReasonPricePenalty) {
		t.Errorf("reasons B = %v, want margin boost and price penalty", reasonsB)
	}
	if hasReason(reasonsB, ReasonAvailable) {
		t.Errorf("reasons B = %v, availability 0 must not count", reasonsB)
	}
}

func TestApplyBusinessEmptyConfig(t *testing.T) {
	w := DefaultBusinessWeights()
	prices := priceRangeOf(nil, catalog.BusinessConfig{})

	delta, reasons := applyBusiness("A", "Caparol", catalog.BusinessConfig{}, prices, w)
	if delta != 0 || len(reasons) != 0 {
		t.Errorf("empty config: delta = %v reasons = %v, want no contribution", delta, reasons)
	}
}

func TestApplyBusinessBrandLookupIsCaseInsensitive(t *testing.T) {
	w := DefaultBusinessWeights()
	cfg := catalog.BusinessConfig{BrandBoost: map[string]float64{"caparol": 0.05}}
	prices := priceRangeOf(nil, cfg)

	delta, reasons := applyBusiness("A", "CAPAROL", cfg, prices, w)
	if delta != 0.05 || !hasReason(reasons, ReasonBrandBoost) {
		t.Errorf("delta = %v reasons = %v, want brand boost via lowercased lookup", delta, reasons)
	}
}
