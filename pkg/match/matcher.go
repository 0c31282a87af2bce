package match

import (
	"math"
	"sort"
	"strings"

	"kalkulai-be/pkg/catalog"
	"kalkulai-be/pkg/textnorm"
)

// Reason tags attached to candidates for explainability.
const (
	ReasonTokenOverlap  = "token overlap"
	ReasonPrefixMatch   = "prefix match"
	ReasonSubstring     = "substring match"
	ReasonSynonymBonus  = "synonym bonus"
	ReasonCompoundBonus = "compound bonus"
	ReasonCompactRescue = "compact rescue"
)

// Params holds the hand-tuned scoring constants of the thin matcher.
// They are empirically tuned, not derived; tests pin the defaults.
type Params struct {
	LexicalWeight  float64
	RuleWeight     float64
	PrefixBoost    float64
	SubstringBoost float64
	SynonymBonus   float64
	CompoundBonus  float64
	RescueFloor    float64
	RescueBonus    float64

	// CompoundPairs lists two-root compounds that earn the compound bonus
	// when both roots appear split across the query/entry token union.
	CompoundPairs [][2]string

	// UnitRules optionally hard-filters entries by category/unit compatibility.
	UnitRules catalog.UnitRules
}

// DefaultParams returns the tuned defaults.
func DefaultParams() Params {
	return Params{
		LexicalWeight:  0.8,
		RuleWeight:     0.2,
		PrefixBoost:    0.05,
		SubstringBoost: 0.03,
		SynonymBonus:   0.05,
		CompoundBonus:  0.10,
		RescueFloor:    0.55,
		RescueBonus:    0.05,
		CompoundPairs: [][2]string{
			{"haft", "grund"},
			{"tief", "grund"},
			{"putz", "grund"},
		},
	}
}

// Search is the fast, purely lexical ranker over a catalog snapshot.
// Pure given its inputs: same catalog and query produce the same ranked list,
// bit for bit. Empty queries and non-positive topK return nil, never an error.
func Search(query string, topK int, snapshot []catalog.Entry, syn textnorm.SynonymMap, params Params) []catalog.RankedCandidate {
	if topK <= 0 {
		return nil
	}

	queryTokens := textnorm.Tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	expanded := textnorm.ApplySynonyms(queryTokens, syn)
	// Synonym-only tokens: added by expansion, absent from the raw set.
	synOnly := make(textnorm.TokenSet)
	for tok := range expanded {
		if !queryTokens.Contains(tok) {
			synOnly.Add(tok)
		}
	}

	compactQuery := compact(textnorm.Normalize(query))

	var candidates []catalog.RankedCandidate
	for _, entry := range snapshot {
		if entry.Name == "" {
			// Data error: skip the entry, never abort the batch.
			continue
		}
		if !params.UnitRules.Allows(entry.Category, entry.Unit) {
			continue
		}

		entryRaw := textnorm.Tokenize(entry.Name)
		for _, s := range entry.Synonyms {
			for tok := range textnorm.Tokenize(s) {
				entryRaw.Add(tok)
			}
		}
		entryTokens := textnorm.ApplySynonyms(entryRaw, syn)
		entrySynOnly := make(textnorm.TokenSet)
		for tok := range entryTokens {
			if !entryRaw.Contains(tok) {
				entrySynOnly.Add(tok)
			}
		}

		// Hard token gate: no shared token, no candidate.
		if !intersects(expanded, entryTokens) {
			continue
		}

		cand := scoreEntry(entry, expanded, synOnly, entrySynOnly, entryTokens, params)
		candidates = append(candidates, cand)
	}

	// Rescue pass for glued-together spellings: only when nothing scored
	// convincingly on the primary formula.
	if compactQuery != "" && !anyAtLeast(candidates, params.RescueFloor) {
		for i := range candidates {
			if strings.Contains(compact(textnorm.Normalize(candidates[i].Name)), compactQuery) {
				candidates[i].ScoreFinal = round3(candidates[i].ScoreFinal + params.RescueBonus)
				candidates[i].Reasons = append(candidates[i].Reasons, ReasonCompactRescue)
			}
		}
	}

	sortCandidates(candidates)
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

// Lexical computes the overlap-plus-boost lexical score between an expanded
// query token set and an entry token set, clamped to [0,1]. The boost pair
// counts are returned for reason attribution. Pairs are counted first and
// multiplied once so map iteration order cannot perturb the sum.
func Lexical(query, entry textnorm.TokenSet, params Params) (score float64, prefixPairs, substrPairs int) {
	overlap := 0
	for tok := range query {
		if entry.Contains(tok) {
			overlap++
		}
	}
	score = float64(overlap) / float64(len(query))

	// Cross-pair prefix/substring boosts, never double-counted per pair type:
	// a prefix pair does not also earn the substring boost.
	for q := range query {
		if len(q) < minBoostLen {
			continue
		}
		for e := range entry {
			if e == q || len(e) < minBoostLen {
				continue
			}
			switch {
			case strings.HasPrefix(e, q) || strings.HasPrefix(q, e):
				prefixPairs++
			case strings.Contains(e, q) || strings.Contains(q, e):
				substrPairs++
			}
		}
	}
	score += float64(prefixPairs)*params.PrefixBoost + float64(substrPairs)*params.SubstringBoost
	if score > 1 {
		score = 1
	}
	return score, prefixPairs, substrPairs
}

func scoreEntry(entry catalog.Entry, query, querySynOnly, entrySynOnly, entryTokens textnorm.TokenSet, params Params) catalog.RankedCandidate {
	var reasons []string

	lexical, prefixPairs, substrPairs := Lexical(query, entryTokens, params)
	if lexical > 0 {
		reasons = append(reasons, ReasonTokenOverlap)
	}
	if prefixPairs > 0 {
		reasons = append(reasons, ReasonPrefixMatch)
	}
	if substrPairs > 0 {
		reasons = append(reasons, ReasonSubstring)
	}

	// Rule bonus: distinct synonym-only tokens in the intersection, counted
	// once whether the expansion happened on the query or the entry side.
	synMatched := make(textnorm.TokenSet)
	for tok := range querySynOnly {
		if entryTokens.Contains(tok) {
			synMatched.Add(tok)
		}
	}
	for tok := range entrySynOnly {
		if query.Contains(tok) {
			synMatched.Add(tok)
		}
	}
	synMatches := len(synMatched)
	ruleBonus := float64(synMatches) * params.SynonymBonus
	if synMatches > 0 {
		reasons = append(reasons, ReasonSynonymBonus)
	}
	if hasSplitCompound(query, entryTokens, params.CompoundPairs) {
		ruleBonus += params.CompoundBonus
		reasons = append(reasons, ReasonCompoundBonus)
	}
	if ruleBonus > 1 {
		ruleBonus = 1
	}

	score := round3(params.LexicalWeight*lexical + params.RuleWeight*ruleBonus)

	return catalog.RankedCandidate{
		SKU:          entry.SKU,
		Name:         entry.Name,
		Unit:         entry.Unit,
		Category:     entry.Category,
		Brand:        entry.Brand,
		ScoreLexical: round3(lexical),
		ScoreFinal:   score,
		Reasons:      reasons,
	}
}

const minBoostLen = 3

// hasSplitCompound reports whether any configured two-root compound appears
// split across the union of query and entry tokens.
func hasSplitCompound(query, entry textnorm.TokenSet, pairs [][2]string) bool {
	inUnion := func(tok string) bool {
		return query.Contains(tok) || entry.Contains(tok)
	}
	for _, pair := range pairs {
		if inUnion(pair[0]) && inUnion(pair[1]) {
			return true
		}
	}
	return false
}

func sortCandidates(candidates []catalog.RankedCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].ScoreFinal != candidates[j].ScoreFinal {
			return candidates[i].ScoreFinal > candidates[j].ScoreFinal
		}
		return strings.ToLower(candidates[i].Name) < strings.ToLower(candidates[j].Name)
	})
}

func intersects(a, b textnorm.TokenSet) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for tok := range a {
		if b.Contains(tok) {
			return true
		}
	}
	return false
}

func anyAtLeast(candidates []catalog.RankedCandidate, floor float64) bool {
	for _, c := range candidates {
		if c.ScoreFinal >= floor {
			return true
		}
	}
	return false
}

func compact(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
