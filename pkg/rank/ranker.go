package rank

import (
	"context"
	"math"
	"sort"
	"strings"

	"kalkulai-be/pkg/catalog"
	"kalkulai-be/pkg/match"
	"kalkulai-be/pkg/textnorm"
)

// Document is one candidate fetched from an external document source.
type Document struct {
	SKU      string
	Name     string
	Unit     *string
	Category string
	Brand    string
	Synonyms []string
}

// DocumentSource is the external capability the ranker is layered on: given a
// query it returns a bounded list of candidate documents. Vector index,
// per-company index or thin matcher; the ranker is agnostic to which.
type DocumentSource interface {
	FetchCandidates(ctx context.Context, query string, limit int) ([]Document, error)
}

// SnapshotFunc supplies the full catalog snapshot for the fallback path.
type SnapshotFunc func(ctx context.Context) ([]catalog.Entry, error)

// Params holds the tuned weights of the main ranking pipeline.
type Params struct {
	LexicalWeight float64
	RuleWeight    float64
	FetchLimit    int

	Rules    RuleWeights
	Business BusinessWeights
	Match    match.Params
}

// DefaultParams returns the tuned defaults.
func DefaultParams() Params {
	return Params{
		LexicalWeight: 0.7,
		RuleWeight:    0.2,
		FetchLimit:    25,
		Rules:         DefaultRuleWeights(),
		Business:      DefaultBusinessWeights(),
		Match:         match.DefaultParams(),
	}
}

// Ranker is the richer pipeline layered on a document source: semantic
// filtering, domain disambiguation rules and the business scoring layer.
// Degrades to the thin matcher over the snapshot when the source fails;
// "no results" is a normal outcome, never an error.
type Ranker struct {
	source   DocumentSource
	snapshot SnapshotFunc
	syn      textnorm.SynonymMap
	params   Params
}

// NewRanker creates a ranker. source may be nil; snapshot must be non-nil so
// the fallback path always has a catalog to search.
func NewRanker(source DocumentSource, snapshot SnapshotFunc, syn textnorm.SynonymMap, params Params) *Ranker {
	return &Ranker{
		source:   source,
		snapshot: snapshot,
		syn:      syn,
		params:   params,
	}
}

// Rank resolves a query to the canonical ranked candidate list.
func (r *Ranker) Rank(ctx context.Context, query string, topK int, business catalog.BusinessConfig) []catalog.RankedCandidate {
	if topK <= 0 {
		return nil
	}

	queryTokens := textnorm.Tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}
	expandedQuery := textnorm.ApplySynonyms(queryTokens, r.syn)
	semanticQuery := SemanticTokens(expandedQuery)

	docs := r.fetchDocuments(ctx, query)
	if len(docs) == 0 {
		// Total failure of the source AND the fallback: empty, never an error.
		return nil
	}

	seen := make(map[string]struct{}, len(docs))
	candidates := make([]catalog.RankedCandidate, 0, len(docs))

	for _, doc := range docs {
		if doc.Name == "" || doc.SKU == "" {
			continue
		}
		if _, dup := seen[doc.SKU]; dup {
			continue
		}
		seen[doc.SKU] = struct{}{}
		if !r.params.Match.UnitRules.Allows(doc.Category, doc.Unit) {
			continue
		}

		candTokens := textnorm.Tokenize(doc.Name)
		for _, s := range doc.Synonyms {
			for tok := range textnorm.Tokenize(s) {
				candTokens.Add(tok)
			}
		}
		candTokens = textnorm.ApplySynonyms(candTokens, r.syn)

		// Primary precision gate: semantic-filtered sets must intersect.
		if len(semanticQuery) > 0 && !intersects(semanticQuery, SemanticTokens(candTokens)) {
			continue
		}

		lexical, prefixPairs, substrPairs := match.Lexical(expandedQuery, candTokens, r.params.Match)
		var reasons []string
		if lexical > 0 {
			reasons = append(reasons, match.ReasonTokenOverlap)
		}
		if prefixPairs > 0 {
			reasons = append(reasons, match.ReasonPrefixMatch)
		}
		if substrPairs > 0 {
			reasons = append(reasons, match.ReasonSubstring)
		}

		ruleSignal, ruleReasons := applyDomainRules(query, expandedQuery, candTokens, doc.Name, r.params.Rules)
		reasons = append(reasons, ruleReasons...)

		base := clamp01(r.params.LexicalWeight*lexical + r.params.RuleWeight*ruleSignal)

		candidates = append(candidates, catalog.RankedCandidate{
			SKU:          doc.SKU,
			Name:         doc.Name,
			Unit:         doc.Unit,
			Category:     doc.Category,
			Brand:        doc.Brand,
			ScoreLexical: round3(lexical),
			ScoreFinal:   base, // business layer applied below
			Reasons:      reasons,
		})
	}

	// Business layer, strictly additive and normalized per call.
	skus := make([]string, len(candidates))
	for i, c := range candidates {
		skus[i] = c.SKU
	}
	prices := priceRangeOf(skus, business)

	for i := range candidates {
		delta, bizReasons := applyBusiness(candidates[i].SKU, candidates[i].Brand, business, prices, r.params.Business)
		candidates[i].ScoreBusiness = round3(delta)
		candidates[i].ScoreFinal = round3(clamp01(candidates[i].ScoreFinal + delta))
		candidates[i].Reasons = append(candidates[i].Reasons, bizReasons...)
	}

	sortRanked(candidates, business)
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

// fetchDocuments tries the external source first, then degrades to the thin
// matcher over the full snapshot. Source errors are swallowed here; the
// caller bounds the source call in time.
func (r *Ranker) fetchDocuments(ctx context.Context, query string) []Document {
	if r.source != nil {
		docs, err := r.source.FetchCandidates(ctx, query, r.params.FetchLimit)
		if err == nil && len(docs) > 0 {
			return docs
		}
	}

	if r.snapshot == nil {
		return nil
	}
	entries, err := r.snapshot(ctx)
	if err != nil {
		return nil
	}
	thin := match.Search(query, r.params.FetchLimit, entries, r.syn, r.params.Match)
	docs := make([]Document, 0, len(thin))
	bySku := make(map[string]catalog.Entry, len(entries))
	for _, e := range entries {
		bySku[e.SKU] = e
	}
	for _, c := range thin {
		doc := Document{
			SKU:      c.SKU,
			Name:     c.Name,
			Unit:     c.Unit,
			Category: c.Category,
			Brand:    c.Brand,
		}
		if e, ok := bySku[c.SKU]; ok {
			doc.Synonyms = e.Synonyms
		}
		docs = append(docs, doc)
	}
	return docs
}

// sortRanked applies the exact multi-key tie-break required for determinism:
// score desc, availability desc, price asc (missing last), margin desc
// (missing last), name, sku.
func sortRanked(candidates []catalog.RankedCandidate, business catalog.BusinessConfig) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.ScoreFinal != b.ScoreFinal {
			return a.ScoreFinal > b.ScoreFinal
		}
		availA, availB := business.Availability[a.SKU], business.Availability[b.SKU]
		if availA != availB {
			return availA > availB
		}
		priceA, priceB := priceOrInf(a.SKU, business), priceOrInf(b.SKU, business)
		if priceA != priceB {
			return priceA < priceB
		}
		marginA, marginB := marginOrWorst(a.SKU, business), marginOrWorst(b.SKU, business)
		if marginA != marginB {
			return marginA > marginB
		}
		nameA, nameB := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if nameA != nameB {
			return nameA < nameB
		}
		return a.SKU < b.SKU
	})
}

func priceOrInf(sku string, cfg catalog.BusinessConfig) float64 {
	if p, ok := cfg.PriceOf(sku); ok {
		return p
	}
	return math.Inf(1)
}

func marginOrWorst(sku string, cfg catalog.BusinessConfig) float64 {
	if m, ok := cfg.MarginOf(sku); ok {
		return m
	}
	return math.Inf(-1)
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

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
