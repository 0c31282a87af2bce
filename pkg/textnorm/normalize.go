package textnorm

import (
	"strings"
	"unicode"
)

// TokenSet is a set of normalized tokens. Never contains the empty string.
type TokenSet map[string]struct{}

// Contains reports whether tok is in the set.
func (s TokenSet) Contains(tok string) bool {
	_, ok := s[tok]
	return ok
}

// Add inserts a non-empty token.
func (s TokenSet) Add(tok string) {
	if tok != "" {
		s[tok] = struct{}{}
	}
}

// Sorted returns the tokens in lexicographic order (for deterministic output).
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for tok := range s {
		out = append(out, tok)
	}
	sortStrings(out)
	return out
}

// Naive stemming suffixes, checked in order. A stem is only kept if the
// remainder is at least minStemLen characters.
var stemSuffixes = []string{"en", "er", "es", "e", "s", "n"}

const minStemLen = 3

// Normalize canonicalizes raw text: lowercase, German umlauts and sharp s
// folded to ASCII digraphs, any non-alphanumeric run collapsed to a single
// space, surrounding whitespace trimmed. Idempotent and locale-independent.
// Empty or whitespace-only input yields "".
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	pendingSpace := false
	for _, r := range text {
		var folded string
		switch r {
		case 'ä', 'Ä':
			folded = "ae"
		case 'ö', 'Ö':
			folded = "oe"
		case 'ü', 'Ü':
			folded = "ue"
		case 'ß':
			folded = "ss"
		default:
			lr := unicode.ToLower(r)
			if (lr >= 'a' && lr <= 'z') || (lr >= '0' && lr <= '9') {
				if pendingSpace && b.Len() > 0 {
					b.WriteByte(' ')
				}
				pendingSpace = false
				b.WriteRune(lr)
				continue
			}
			// Non-alphanumeric run becomes a single separator.
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteString(folded)
	}
	return b.String()
}

// Stem strips the first matching suffix from a normalized token,
// keeping the stem only if it stays at least 3 characters long.
// Returns the token unchanged when no suffix applies.
func Stem(token string) string {
	for _, suffix := range stemSuffixes {
		if strings.HasSuffix(token, suffix) {
			stem := token[:len(token)-len(suffix)]
			if len(stem) >= minStemLen {
				return stem
			}
		}
	}
	return token
}

// Tokenize normalizes text and expands it into a token set: the normalized
// words themselves, their naive stems, compound components, pairwise fusions
// of adjacent components and whitelisted two-word fusions. Pure; this runs on
// every query and every catalog entry name.
func Tokenize(text string) TokenSet {
	tokens := make(TokenSet)
	if strings.TrimSpace(text) == "" {
		return tokens
	}

	// Keep the raw words so Decompound still sees capitalization boundaries.
	words := strings.Fields(text)
	normWords := make([]string, 0, len(words))

	for _, raw := range words {
		prevPositional := ""
		for _, comp := range decompose(raw) {
			tokens.Add(comp.tok)
			tokens.Add(Stem(comp.tok))
			// Only positional components occupy contiguous character ranges
			// of the word; fuse those pairwise to recover frequent compounds.
			// Expansion-derived roots have no position and must not fuse.
			if comp.positional {
				if prevPositional != "" {
					tokens.Add(prevPositional + comp.tok)
				}
				prevPositional = comp.tok
			}
		}
		for _, field := range strings.Fields(Normalize(raw)) {
			tokens.Add(field)
			tokens.Add(Stem(field))
			normWords = append(normWords, field)
		}
	}

	// Curated whitelist: fuse specific two-word sequences regardless of
	// whether adjacency detection caught them.
	for i := 0; i+1 < len(normWords); i++ {
		if fused, ok := compoundWhitelist[[2]string{normWords[i], normWords[i+1]}]; ok {
			tokens.Add(fused)
		}
	}

	return tokens
}

func sortStrings(s []string) {
	// insertion sort; token sets are small
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
