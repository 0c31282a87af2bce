package textnorm

import (
	"testing"
)

func TestDecompound(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:     "greedy longest root wins",
			input:    "Grundierung",
			contains: []string{"grundierung", "grund"},
		},
		{
			name:     "multiple roots left to right",
			input:    "Wandfarbe",
			contains: []string{"wand", "farbe"},
		},
		{
			name:     "capitalization boundary splits segments",
			input:    "KlebeBand",
			contains: []string{"band"},
		},
		{
			name:     "unmatched remainder is kept",
			input:    "Xylol",
			contains: []string{"xylol"},
		},
		{
			name:     "fused subtype plus roots",
			input:    "Putzgrund",
			contains: []string{"putzgrund", "putz", "grund"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decompound(tt.input)
			for _, want := range tt.contains {
				if !containsString(got, want) {
					t.Errorf("Decompound(%q) = %v, missing %q", tt.input, got, want)
				}
			}
		})
	}
}

func TestDecompoundEmpty(t *testing.T) {
	if got := Decompound(""); len(got) != 0 {
		t.Errorf("Decompound(\"\") = %v, want empty", got)
	}
	if got := Decompound("!!!"); len(got) != 0 {
		t.Errorf("Decompound(\"!!!\") = %v, want empty", got)
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
