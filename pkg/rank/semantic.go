package rank

import (
	"regexp"
	"strconv"
	"strings"

	"kalkulai-be/pkg/textnorm"
)

// Stopword classes stripped before the semantic disjointness gate.
// Unit and color words carry no product identity on their own.
var (
	unitStopwords = map[string]struct{}{
		"l": {}, "ml": {}, "liter": {}, "kg": {}, "g": {}, "gramm": {},
		"m": {}, "m2": {}, "qm": {}, "cm": {}, "mm": {}, "lfm": {},
		"stk": {}, "stueck": {}, "eimer": {}, "gebinde": {}, "sack": {},
		"dose": {}, "kanister": {}, "pack": {}, "karton": {},
	}

	colorFinishStopwords = map[string]struct{}{
		"weiss": {}, "schwarz": {}, "grau": {}, "blau": {}, "rot": {},
		"gruen": {}, "gelb": {}, "braun": {}, "beige": {}, "altweiss": {},
		"matt": {}, "glanz": {}, "glaenzend": {}, "seidenmatt": {},
		"seidenglanz": {}, "stumpfmatt": {}, "transparent": {}, "farblos": {},
	}

	noiseStopwords = map[string]struct{}{
		"innen": {}, "aussen": {}, "der": {}, "die": {}, "das": {},
		"und": {}, "oder": {}, "mit": {}, "fuer": {}, "von": {}, "auf": {},
		"ein": {}, "eine": {}, "einen": {}, "zum": {}, "zur": {}, "pro": {},
		"ca": {}, "ungefaehr": {}, "etwa": {}, "neu": {}, "gut": {},
	}

	// Tokenize also emits naive stems, so a stopword can reach the gate in
	// stemmed form ("weiss" as "weis", "innen" as "inn"). Precompute the
	// stems of every stopword so those forms are stripped too.
	stemmedStopwords = func() map[string]struct{} {
		out := make(map[string]struct{})
		for _, set := range []map[string]struct{}{unitStopwords, colorFinishStopwords, noiseStopwords} {
			for word := range set {
				if stem := textnorm.Stem(word); stem != word {
					out[stem] = struct{}{}
				}
			}
		}
		return out
	}()
)

// SemanticTokens strips numerics, unit stopwords, color/finish adjectives,
// sub-3-character tokens and noise words from a token set. What remains is
// the product identity used by the primary precision gate.
func SemanticTokens(tokens textnorm.TokenSet) textnorm.TokenSet {
	out := make(textnorm.TokenSet, len(tokens))
	for tok := range tokens {
		if len(tok) < 3 {
			continue
		}
		if isNumeric(tok) {
			continue
		}
		if _, ok := unitStopwords[tok]; ok {
			continue
		}
		if _, ok := colorFinishStopwords[tok]; ok {
			continue
		}
		if _, ok := noiseStopwords[tok]; ok {
			continue
		}
		if _, ok := stemmedStopwords[tok]; ok {
			continue
		}
		out.Add(tok)
	}
	return out
}

func isNumeric(tok string) bool {
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(tok) > 0
}

// Package volume parsing. Accepts "10 l", "10l", "2,5 liter", "750 ml",
// "25 kg" inside arbitrary text; ml and g are converted to the base unit.
var volumePattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(ml|l|liter|kg|g)\b`)

// Volume is a parsed package size in a base dimension (liters or kilograms).
type Volume struct {
	Amount    float64
	Dimension string // "l" or "kg"
}

// ParseVolume extracts the first declared package volume from text.
// Works on the raw text because full normalization would split decimal
// separators. Returns false when no volume is declared.
func ParseVolume(text string) (Volume, bool) {
	m := volumePattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return Volume{}, false
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil || amount <= 0 {
		return Volume{}, false
	}
	switch m[2] {
	case "ml":
		return Volume{Amount: amount / 1000, Dimension: "l"}, true
	case "l", "liter":
		return Volume{Amount: amount, Dimension: "l"}, true
	case "g":
		return Volume{Amount: amount / 1000, Dimension: "kg"}, true
	case "kg":
		return Volume{Amount: amount, Dimension: "kg"}, true
	}
	return Volume{}, false
}
