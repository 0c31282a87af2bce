package catalog

import "testing"

func strPtr(s string) *string { return &s }

func TestUnitRulesAllows(t *testing.T) {
	rules := UnitRules{"grundierung": {"L", "kg"}}

	tests := []struct {
		name     string
		category string
		unit     *string
		want     bool
	}{
		{"allowed unit", "grundierung", strPtr("L"), true},
		{"second allowed unit", "grundierung", strPtr("kg"), true},
		{"disallowed unit", "grundierung", strPtr("m"), false},
		{"unknown category passes", "farbe", strPtr("m"), true},
		{"nil unit passes", "grundierung", nil, true},
		{"empty unit passes", "grundierung", strPtr(""), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules.Allows(tt.category, tt.unit); got != tt.want {
				t.Errorf("Allows(%q, %v) = %v, want %v", tt.category, tt.unit, got, tt.want)
			}
		})
	}

	var empty UnitRules
	if !empty.Allows("grundierung", strPtr("m")) {
		t.Error("empty rule set must allow everything")
	}
}

func TestBusinessConfigHelpers(t *testing.T) {
	cfg := BusinessConfig{
		Availability: map[string]int{"A": 1, "B": 0},
		Price:        map[string]float64{"A": 19.9},
		Margin:       map[string]float64{"A": 0.35},
	}

	if !cfg.Available("A") || cfg.Available("B") || cfg.Available("X") {
		t.Error("Available must only report flag value 1")
	}
	if p, ok := cfg.PriceOf("A"); !ok || p != 19.9 {
		t.Errorf("PriceOf(A) = %v, %v", p, ok)
	}
	if _, ok := cfg.PriceOf("X"); ok {
		t.Error("PriceOf must report absence")
	}
	if m, ok := cfg.MarginOf("A"); !ok || m != 0.35 {
		t.Errorf("MarginOf(A) = %v, %v", m, ok)
	}

	var zero BusinessConfig
	if zero.Available("A") {
		t.Error("zero config must treat everything as unavailable")
	}
}
