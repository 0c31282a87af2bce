package rank

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"kalkulai-be/pkg/catalog"
)

func strPtr(s string) *string { return &s }

type stubSource struct {
	docs []Document
	err  error
}

func (s *stubSource) FetchCandidates(ctx context.Context, query string, limit int) ([]Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.docs, nil
}

func snapshotOf(entries ...catalog.Entry) SnapshotFunc {
	return func(ctx context.Context) ([]catalog.Entry, error) {
		return entries, nil
	}
}

func TestRankSubtypeDisambiguation(t *testing.T) {
	// Query asserts the "tiefgrund" sub-type; the haftgrund entry is a
	// conflicting sub-type even though it shares tokens.
	snapshot := snapshotOf(
		catalog.Entry{SKU: "SKU-1", Name: "Haftgrund Innen 10 L"},
		catalog.Entry{SKU: "SKU-2", Name: "Tiefgrund LF 5 L"},
	)
	r := NewRanker(nil, snapshot, nil, DefaultParams())

	got := r.Rank(context.Background(), "Tiefgrund Innen", 5, catalog.BusinessConfig{})
	if len(got) == 0 {
		t.Fatal("Rank returned no candidates")
	}
	if got[0].SKU != "SKU-2" {
		t.Errorf("first = %s, want SKU-2 (tiefgrund anchor)", got[0].SKU)
	}
	if !hasReason(got[0].Reasons, ReasonSubtypeMatch) {
		t.Errorf("reasons = %v, want %q", got[0].Reasons, ReasonSubtypeMatch)
	}
	for _, c := range got {
		if c.SKU == "SKU-1" && !hasReason(c.Reasons, ReasonSubtypeConflict) {
			t.Errorf("SKU-1 reasons = %v, want %q", c.Reasons, ReasonSubtypeConflict)
		}
	}
}

func TestRankBusinessAvailabilityOrdering(t *testing.T) {
	// Two lexically tied candidates: the available one must rank strictly
	// above the unavailable one.
	snapshot := snapshotOf(
		catalog.Entry{SKU: "AVAIL", Name: "Tiefgrund Profi 10 L"},
		catalog.Entry{SKU: "NOAVAIL", Name: "Tiefgrund Profi 10 L"},
	)
	r := NewRanker(nil, snapshot, nil, DefaultParams())

	business := catalog.BusinessConfig{
		Availability: map[string]int{"AVAIL": 1, "NOAVAIL": 0},
	}
	got := r.Rank(context.Background(), "Tiefgrund 10 L", 5, business)
	if len(got) != 2 {
		t.Fatalf("Rank = %v, want 2 candidates", got)
	}
	if got[0].SKU != "AVAIL" {
		t.Errorf("first = %s, want AVAIL", got[0].SKU)
	}
	if got[0].ScoreFinal <= got[1].ScoreFinal {
		t.Errorf("available score %v must exceed unavailable %v", got[0].ScoreFinal, got[1].ScoreFinal)
	}
	if !hasReason(got[0].Reasons, ReasonAvailable) {
		t.Errorf("reasons = %v, want %q", got[0].Reasons, ReasonAvailable)
	}
}

func TestRankPricePenaltyUsesCallRange(t *testing.T) {
	snapshot := snapshotOf(
		catalog.Entry{SKU: "CHEAP", Name: "Tiefgrund Eco 10 L"},
		catalog.Entry{SKU: "DEAR", Name: "Tiefgrund Eco 10 L"},
	)
	r := NewRanker(nil, snapshot, nil, DefaultParams())

	business := catalog.BusinessConfig{
		Price: map[string]float64{"CHEAP": 10, "DEAR": 90},
	}
	got := r.Rank(context.Background(), "Tiefgrund Eco", 5, business)
	if len(got) != 2 {
		t.Fatalf("Rank = %v, want 2 candidates", got)
	}
	if got[0].SKU != "CHEAP" {
		t.Errorf("first = %s, want CHEAP", got[0].SKU)
	}
	if !hasReason(got[1].Reasons, ReasonPricePenalty) {
		t.Errorf("expensive candidate reasons = %v, want %q", got[1].Reasons, ReasonPricePenalty)
	}
	if hasReason(got[0].Reasons, ReasonPricePenalty) {
		t.Errorf("cheapest candidate must not be penalized: %v", got[0].Reasons)
	}
}

func TestRankBrandBoost(t *testing.T) {
	snapshot := snapshotOf(
		catalog.Entry{SKU: "PLAIN", Name: "Wandfarbe Innen 12 L", Brand: "NoName"},
		catalog.Entry{SKU: "BOOSTED", Name: "Wandfarbe Innen 12 L", Brand: "Caparol"},
	)
	r := NewRanker(nil, snapshot, nil, DefaultParams())

	business := catalog.BusinessConfig{
		BrandBoost: map[string]float64{"caparol": 0.05},
	}
	got := r.Rank(context.Background(), "Wandfarbe", 5, business)
	if len(got) != 2 || got[0].SKU != "BOOSTED" {
		t.Errorf("Rank = %v, want BOOSTED first", got)
	}
}

func TestRankSourceFailureFallsBack(t *testing.T) {
	snapshot := snapshotOf(
		catalog.Entry{SKU: "SKU-2", Name: "Tiefgrund LF 5 L"},
	)
	src := &stubSource{err: errors.New("index unreachable")}
	r := NewRanker(src, snapshot, nil, DefaultParams())

	got := r.Rank(context.Background(), "Tiefgrund", 5, catalog.BusinessConfig{})
	if len(got) != 1 || got[0].SKU != "SKU-2" {
		t.Errorf("fallback result = %v, want SKU-2 from snapshot", got)
	}
}

func TestRankSourceAndFallbackEmpty(t *testing.T) {
	src := &stubSource{err: errors.New("down")}
	r := NewRanker(src, snapshotOf(), nil, DefaultParams())

	got := r.Rank(context.Background(), "Tiefgrund", 5, catalog.BusinessConfig{})
	if len(got) != 0 {
		t.Errorf("Rank = %v, want empty (never an error)", got)
	}
}

func TestRankEmptyQueryAndTopK(t *testing.T) {
	r := NewRanker(nil, snapshotOf(catalog.Entry{SKU: "X", Name: "Tiefgrund"}), nil, DefaultParams())
	if got := r.Rank(context.Background(), "", 5, catalog.BusinessConfig{}); got != nil {
		t.Errorf("empty query = %v, want nil", got)
	}
	if got := r.Rank(context.Background(), "Tiefgrund", 0, catalog.BusinessConfig{}); got != nil {
		t.Errorf("topK=0 = %v, want nil", got)
	}
}

func TestRankDeduplicatesBySKU(t *testing.T) {
	src := &stubSource{docs: []Document{
		{SKU: "SKU-2", Name: "Tiefgrund LF 5 L"},
		{SKU: "SKU-2", Name: "Tiefgrund LF 5 L"},
	}}
	r := NewRanker(src, snapshotOf(), nil, DefaultParams())

	got := r.Rank(context.Background(), "Tiefgrund", 5, catalog.BusinessConfig{})
	if len(got) != 1 {
		t.Errorf("Rank = %v, want duplicates collapsed", got)
	}
}

func TestRankUnitFilter(t *testing.T) {
	params := DefaultParams()
	params.Match.UnitRules = catalog.UnitRules{"grundierung": {"L"}}

	src := &stubSource{docs: []Document{
		{SKU: "OK", Name: "Tiefgrund LF 5 L", Unit: strPtr("L"), Category: "grundierung"},
		{SKU: "BAD", Name: "Tiefgrund Pulver 25 kg", Unit: strPtr("kg"), Category: "grundierung"},
	}}
	r := NewRanker(src, snapshotOf(), nil, params)

	got := r.Rank(context.Background(), "Tiefgrund", 5, catalog.BusinessConfig{})
	if len(got) != 1 || got[0].SKU != "OK" {
		t.Errorf("Rank = %v, want the kg entry filtered out", got)
	}
}

func TestRankSemanticGateSkipsUnrelated(t *testing.T) {
	// The source may return loosely similar documents; a candidate sharing
	// no semantic token with the query must be skipped.
	src := &stubSource{docs: []Document{
		{SKU: "NOISE", Name: "Abdeckfolie 4x5 m"},
		{SKU: "HIT", Name: "Tiefgrund LF 5 L"},
	}}
	r := NewRanker(src, snapshotOf(), nil, DefaultParams())

	got := r.Rank(context.Background(), "Tiefgrund", 5, catalog.BusinessConfig{})
	if len(got) != 1 || got[0].SKU != "HIT" {
		t.Errorf("Rank = %v, want only HIT", got)
	}
}

func TestRankSemanticGateIgnoresSharedColor(t *testing.T) {
	// A candidate whose only overlap with the query is a color adjective
	// (including its stemmed form) carries no product identity and must be
	// skipped, not scored.
	src := &stubSource{docs: []Document{
		{SKU: "TINT", Name: "Abtoenfarbe weiss"},
	}}
	r := NewRanker(src, snapshotOf(), nil, DefaultParams())

	got := r.Rank(context.Background(), "Tiefgrund weiss", 5, catalog.BusinessConfig{})
	if len(got) != 0 {
		t.Errorf("Rank = %v, want color-only overlap skipped", got)
	}
}

func TestRankDeterminism(t *testing.T) {
	snapshot := snapshotOf(
		catalog.Entry{SKU: "SKU-1", Name: "Haftgrund Innen 10 L"},
		catalog.Entry{SKU: "SKU-2", Name: "Tiefgrund LF 5 L"},
		catalog.Entry{SKU: "SKU-3", Name: "Putzgrund Aussen 15 kg"},
	)
	business := catalog.BusinessConfig{
		Availability: map[string]int{"SKU-1": 1},
		Price:        map[string]float64{"SKU-1": 30, "SKU-2": 25, "SKU-3": 40},
		Margin:       map[string]float64{"SKU-2": 0.3},
	}
	r := NewRanker(nil, snapshot, nil, DefaultParams())

	first := r.Rank(context.Background(), "Grundierung innen", 10, business)
	for i := 0; i < 5; i++ {
		again := r.Rank(context.Background(), "Grundierung innen", 10, business)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%v\nvs\n%v", i, first, again)
		}
	}
}

func hasReason(reasons []string, want string) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}
