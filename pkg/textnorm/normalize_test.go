package textnorm

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercase and umlauts",
			input: "Äußerst schöner Tiefgrund",
			want:  "aeusserst schoener tiefgrund",
		},
		{
			name:  "punctuation collapses to single space",
			input: "Haftgrund,   (innen) - 10L!",
			want:  "haftgrund innen 10l",
		},
		{
			name:  "sharp s",
			input: "weiß",
			want:  "weiss",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: "   \t\n ",
			want:  "",
		},
		{
			name:  "leading and trailing junk",
			input: "-- Putzgrund --",
			want:  "putzgrund",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Tiefgrund LF 5 L",
		"Äußerst schöne Wandfarbe, weiß (matt)!",
		"haftgrund innen 10l",
		"",
		"ßßß",
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"farben", "farb"},
		{"grundierungen", "grundierung"},
		{"rollen", "roll"},
		{"innen", "inn"},
		{"en", "en"},   // stem would fall under 3 chars
		{"rot", "rot"}, // no suffix
		{"dosen", "dos"},
	}
	for _, tt := range tests {
		if got := Stem(tt.token); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if got := Tokenize(""); len(got) != 0 {
		t.Errorf("Tokenize(\"\") = %v, want empty set", got.Sorted())
	}
	if got := Tokenize("  \t "); len(got) != 0 {
		t.Errorf("Tokenize(whitespace) = %v, want empty set", got.Sorted())
	}
}

func TestTokenizeContainsNoEmptyToken(t *testing.T) {
	tokens := Tokenize("Haftgrund--Innen!! 10 L, ÄÖÜ")
	if tokens.Contains("") {
		t.Error("token set contains empty string")
	}
}

func TestTokenizeCompoundComponents(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:     "simple compound yields roots",
			input:    "Tiefgrund",
			contains: []string{"tiefgrund", "tief", "grund"},
		},
		{
			name:     "derived root via expansion table",
			input:    "Grundierung",
			contains: []string{"grundierung", "grund"},
		},
		{
			name:     "adjacent components merged pairwise",
			input:    "Haftgrundierung",
			contains: []string{"haftgrund", "haft", "grund"},
		},
		{
			name:     "whitelist fuses split compound words",
			input:    "Haft Grund",
			contains: []string{"haft", "grund", "haftgrund"},
		},
		{
			name:     "stems are emitted",
			input:    "Wandfarben",
			contains: []string{"wand", "farbe", "wandfarben", "wandfarb"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			for _, want := range tt.contains {
				if !tokens.Contains(want) {
					t.Errorf("Tokenize(%q) missing %q, got %v", tt.input, want, tokens.Sorted())
				}
			}
		})
	}
}

func TestTokenizeNoPhantomFusions(t *testing.T) {
	// Expansion-derived roots carry no character position, so they must not
	// fuse with their neighbours into tokens that never occur in the word.
	tests := []struct {
		input    string
		phantoms []string
		contains []string
	}{
		{
			input:    "Tiefgrund",
			phantoms: []string{"tiefgrundtief", "grundtief"},
			contains: []string{"tiefgrund", "tief", "grund"},
		},
		{
			input:    "Abtoenfarbe",
			phantoms: []string{"abtoenton", "tonfarbe"},
			contains: []string{"abtoenfarbe", "abtoen", "ton", "farbe"},
		},
	}

	for _, tt := range tests {
		tokens := Tokenize(tt.input)
		for _, phantom := range tt.phantoms {
			if tokens.Contains(phantom) {
				t.Errorf("Tokenize(%q) contains phantom fusion %q: %v", tt.input, phantom, tokens.Sorted())
			}
		}
		for _, want := range tt.contains {
			if !tokens.Contains(want) {
				t.Errorf("Tokenize(%q) missing %q: %v", tt.input, want, tokens.Sorted())
			}
		}
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	a := Tokenize("Haftgrund Innen 10 L").Sorted()
	b := Tokenize("Haftgrund Innen 10 L").Sorted()
	if len(a) != len(b) {
		t.Fatalf("token counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("token %d differs: %q vs %q", i, a[i], b[i])
		}
	}
}
