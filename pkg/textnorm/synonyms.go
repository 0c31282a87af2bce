package textnorm

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SynonymMap maps a canonical token to its variant tokens.
// All keys and values are pre-normalized at load time.
type SynonymMap map[string][]string

// LoadSynonyms parses a YAML-shaped mapping file (canonical: [variant, ...])
// into a normalized synonym table. Empty keys and variants are silently
// dropped. When the YAML parse fails, a minimal line parser for
// "key:" / "- value" pairs takes over so a malformed file still degrades to
// whatever it can yield instead of aborting matching. A read error returns an
// empty map alongside the error; callers log and continue.
func LoadSynonyms(path string) (SynonymMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SynonymMap{}, err
	}
	return ParseSynonyms(data), nil
}

// ParseSynonyms builds a SynonymMap from raw file contents.
func ParseSynonyms(data []byte) SynonymMap {
	raw := map[string][]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		raw = parseSynonymLines(string(data))
	}

	table := make(SynonymMap, len(raw))
	for key, variants := range raw {
		normKey := Normalize(key)
		if normKey == "" {
			continue
		}
		var normVariants []string
		for _, v := range variants {
			if nv := Normalize(v); nv != "" {
				normVariants = append(normVariants, nv)
			}
		}
		if len(normVariants) > 0 {
			table[normKey] = normVariants
		}
	}
	return table
}

// parseSynonymLines is the fallback parser: lines of "key:" followed by
// "- value" entries. Anything else is ignored.
func parseSynonymLines(content string) map[string][]string {
	out := map[string][]string{}
	var current string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "- ") {
			if current != "" {
				out[current] = append(out[current], strings.TrimSpace(line[2:]))
			}
			continue
		}
		if idx := strings.Index(line, ":"); idx >= 0 {
			current = strings.TrimSpace(line[:idx])
			// Inline form "key: a, b"
			if rest := strings.TrimSpace(line[idx+1:]); rest != "" {
				for _, v := range strings.Split(rest, ",") {
					out[current] = append(out[current], strings.TrimSpace(v))
				}
			}
		}
	}
	return out
}

// ApplySynonyms returns the input tokens plus every canonical key whose any
// variant is present in the input. One-directional (variant to canonical);
// transitive closures are intentionally not chased.
func ApplySynonyms(tokens TokenSet, table SynonymMap) TokenSet {
	out := make(TokenSet, len(tokens)+4)
	for tok := range tokens {
		out.Add(tok)
	}
	for canonical, variants := range table {
		for _, v := range variants {
			if tokens.Contains(v) {
				out.Add(canonical)
				break
			}
		}
	}
	return out
}
