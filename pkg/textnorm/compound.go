package textnorm

import (
	"sort"
	"strings"
	"unicode"
)

// Curated domain root lexemes for greedy compound decomposition.
// Matched longest-first, so "grundierung" wins over "grund".
var rootLexemes = []string{
	"grundierung",
	"dispersion",
	"haftgrund",
	"tiefgrund",
	"putzgrund",
	"spachtel",
	"abtoen",
	"fassade",
	"silikat",
	"silikon",
	"schleif",
	"acryl",
	"farbe",
	"fugen",
	"grund",
	"kleber",
	"kreide",
	"decke",
	"latex",
	"masse",
	"metall",
	"papier",
	"pinsel",
	"rolle",
	"schutz",
	"sperr",
	"tapete",
	"vlies",
	"band",
	"haft",
	"holz",
	"lack",
	"leim",
	"putz",
	"rost",
	"tief",
	"wand",
}

// Derived roots: matching the key also contributes the listed roots.
var rootExpansions = map[string][]string{
	"grundierung": {"grund"},
	"haftgrund":   {"haft", "grund"},
	"tiefgrund":   {"tief", "grund"},
	"putzgrund":   {"putz", "grund"},
	"abtoen":      {"ton"},
}

// Two-word sequences fused into a single token by Tokenize.
var compoundWhitelist = map[[2]string]string{
	{"haft", "grund"}:   "haftgrund",
	{"tief", "grund"}:   "tiefgrund",
	{"putz", "grund"}:   "putzgrund",
	{"abtoen", "farbe"}: "abtoenfarbe",
	{"sperr", "grund"}:  "sperrgrund",
	{"voll", "ton"}:     "vollton",
}

func init() {
	// Keep the lexeme list length-descending regardless of edits above.
	sort.Slice(rootLexemes, func(i, j int) bool {
		if len(rootLexemes[i]) != len(rootLexemes[j]) {
			return len(rootLexemes[i]) > len(rootLexemes[j])
		}
		return rootLexemes[i] < rootLexemes[j]
	})
}

// component is one decomposition result. Positional components were matched
// at a character range of the word; the rest come from the expansion table
// and have no position, so they never take part in adjacency fusion.
type component struct {
	tok        string
	positional bool
}

// Decompound segments text on internal capitalization boundaries, normalizes
// each segment and greedily matches the curated root lexemes left to right.
// Unmatched remainders fall back to the normalized remainder itself, so no
// information is silently dropped. "Haftgrundierung" yields
// ["haft", "grund", "grundierung", ...] style component lists.
func Decompound(text string) []string {
	comps := decompose(text)
	var out []string
	for _, c := range comps {
		out = append(out, c.tok)
	}
	return out
}

func decompose(text string) []component {
	var out []component
	for _, segment := range splitCapBoundaries(text) {
		norm := Normalize(segment)
		if norm == "" {
			continue
		}
		for _, field := range strings.Fields(norm) {
			out = append(out, matchRoots(field)...)
		}
	}
	return out
}

// splitCapBoundaries splits "KlebeBand" into ["Klebe", "Band"].
func splitCapBoundaries(text string) []string {
	var segments []string
	runes := []rune(text)
	start := 0
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && unicode.IsLower(runes[i-1]) {
			segments = append(segments, string(runes[start:i]))
			start = i
		}
	}
	segments = append(segments, string(runes[start:]))
	return segments
}

func matchRoots(word string) []component {
	var parts []component
	rest := word
	for rest != "" {
		matched := ""
		for _, root := range rootLexemes {
			if strings.HasPrefix(rest, root) {
				matched = root
				break
			}
		}
		if matched == "" {
			// No root at this position: keep the remainder as-is.
			parts = append(parts, component{tok: rest, positional: true})
			break
		}
		parts = append(parts, component{tok: matched, positional: true})
		if derived, ok := rootExpansions[matched]; ok {
			for _, d := range derived {
				parts = append(parts, component{tok: d})
			}
		}
		rest = rest[len(matched):]
	}
	return parts
}
