package rank

import (
	"testing"

	"kalkulai-be/pkg/textnorm"
)

func TestSemanticTokens(t *testing.T) {
	tokens := textnorm.Tokenize("Wandfarbe weiss matt 12,5 l innen")
	semantic := SemanticTokens(tokens)

	for _, kept := range []string{"wandfarbe", "wand", "farbe"} {
		if !semantic.Contains(kept) {
			t.Errorf("semantic set missing %q: %v", kept, semantic.Sorted())
		}
	}
	for _, dropped := range []string{"weiss", "matt", "innen", "12", "5", "l"} {
		if semantic.Contains(dropped) {
			t.Errorf("semantic set must drop %q: %v", dropped, semantic.Sorted())
		}
	}
}

func TestSemanticTokensDropStemmedStopwords(t *testing.T) {
	// Tokenize emits naive stems, so stopwords also arrive as "weis" or
	// "inn". Those forms must not survive as shared product identity.
	query := SemanticTokens(textnorm.Tokenize("Tiefgrund weiss"))
	name := SemanticTokens(textnorm.Tokenize("Abtoenfarbe weiss"))

	for _, dropped := range []string{"weis", "weiss", "inn", "innen"} {
		if query.Contains(dropped) || name.Contains(dropped) {
			t.Errorf("stemmed stopword %q survived: query=%v name=%v",
				dropped, query.Sorted(), name.Sorted())
		}
	}
	for tok := range query {
		if name.Contains(tok) {
			t.Errorf("query and name share %q despite disjoint products: query=%v name=%v",
				tok, query.Sorted(), name.Sorted())
		}
	}
}

func TestSemanticTokensEmpty(t *testing.T) {
	tokens := textnorm.Tokenize("12,5 l matt")
	if semantic := SemanticTokens(tokens); len(semantic) != 0 {
		t.Errorf("pure noise must leave an empty set, got %v", semantic.Sorted())
	}
}

func TestParseVolume(t *testing.T) {
	tests := []struct {
		text string
		want Volume
		ok   bool
	}{
		{"Tiefgrund LF 10 L", Volume{10, "l"}, true},
		{"Wandfarbe 12,5l", Volume{12.5, "l"}, true},
		{"Acryl 750 ml", Volume{0.75, "l"}, true},
		{"Spachtel 25 kg", Volume{25, "kg"}, true},
		{"Pigment 500 g", Volume{0.5, "kg"}, true},
		{"2.5 Liter Grundierung", Volume{2.5, "l"}, true},
		{"Abdeckvlies 1x50 m", Volume{}, false},
		{"Tiefgrund LF", Volume{}, false},
		{"", Volume{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseVolume(tt.text)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseVolume(%q) = %v, %v; want %v, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}
