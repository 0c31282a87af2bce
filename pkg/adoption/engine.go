package adoption

import (
	"context"
	"fmt"

	"kalkulai-be/pkg/catalog"
	"kalkulai-be/pkg/rank"
	"kalkulai-be/pkg/textnorm"
)

// Mode governs whether a matched catalog item is surfaced only, confirmed,
// or auto-selected.
type Mode string

const (
	ModeAssistive Mode = "assistive"
	ModeStrict    Mode = "strict"
	ModeMerge     Mode = "merge"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAssistive, ModeStrict, ModeMerge:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown adoption mode %q", s)
}

// Candidate status values.
const (
	StatusMatched = "matched"
	StatusOOV     = "oov"
)

// SelectionReasonRule tags auto-selections made by the threshold rule.
const SelectionReasonRule = "rule"

// Config is the validated adoption configuration.
type Config struct {
	Mode        Mode
	Threshold   float64 // adoption threshold for merge mode
	QueryBudget int     // max catalog lookups per turn
	TopK        int     // options surfaced per line
}

// MaxTopK bounds how many options one line may surface.
const MaxTopK = 25

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		Mode:        ModeAssistive,
		Threshold:   0.82,
		QueryBudget: 5,
		TopK:        5,
	}
}

// Validate checks the configuration at construction time.
func (c Config) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("adoption threshold %v out of [0,1]", c.Threshold)
	}
	if c.QueryBudget <= 0 {
		return fmt.Errorf("query budget must be positive, got %d", c.QueryBudget)
	}
	if c.TopK <= 0 || c.TopK > MaxTopK {
		return fmt.Errorf("top_k must be in [1,%d], got %d", MaxTopK, c.TopK)
	}
	return nil
}

// MaterialLine is one extracted material line from the conversation layer.
type MaterialLine struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity,omitempty"`
	Unit     string  `json:"unit,omitempty"`
}

// MaterialCandidate is the per-line resolution decision. Created once per
// conversation turn per line and never mutated after emission.
type MaterialCandidate struct {
	Query                 string                    `json:"query"`
	CanonicalName         string                    `json:"canonical_name,omitempty"`
	Unit                  string                    `json:"unit,omitempty"`
	MatchedSKU            string                    `json:"matched_sku,omitempty"`
	Confidence            float64                   `json:"confidence"`
	Status                string                    `json:"status"`
	Options               []catalog.RankedCandidate `json:"options,omitempty"`
	Adoptable             bool                      `json:"adoptable"`
	SelectedCatalogItemID *string                   `json:"selected_catalog_item_id,omitempty"`
	SelectionReason       string                    `json:"selection_reason,omitempty"`
}

// Matcher resolves one query to ranked options. Thin matcher or main ranker,
// depending on host configuration.
type Matcher interface {
	Match(ctx context.Context, query string, topK int) ([]catalog.RankedCandidate, error)
}

// Engine orchestrates per-line catalog resolution during a conversation turn.
type Engine struct {
	matcher Matcher
	cfg     Config
}

// NewEngine validates the configuration and builds an engine.
func NewEngine(matcher Matcher, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if matcher == nil {
		return nil, fmt.Errorf("matcher is required")
	}
	return &Engine{matcher: matcher, cfg: cfg}, nil
}

// Resolve runs catalog resolution for one turn's extracted material lines.
// Lines are de-duplicated by normalized name and capped at the per-turn query
// budget; lines beyond the cap are silently skipped.
func (e *Engine) Resolve(ctx context.Context, lines []MaterialLine) []MaterialCandidate {
	retained := dedupeLines(lines, e.cfg.QueryBudget)

	out := make([]MaterialCandidate, 0, len(retained))
	for _, line := range retained {
		out = append(out, e.resolveLine(ctx, line))
	}
	return out
}

func (e *Engine) resolveLine(ctx context.Context, line MaterialLine) MaterialCandidate {
	cand := MaterialCandidate{
		Query:  line.Name,
		Unit:   line.Unit,
		Status: StatusOOV,
	}

	options, err := e.matcher.Match(ctx, line.Name, e.cfg.TopK)
	if err != nil || len(options) == 0 {
		// No match (or lookup failed) is a normal outcome: the line stays oov.
		return cand
	}

	best := options[0]
	cand.Status = StatusMatched
	cand.Options = options
	cand.CanonicalName = best.Name
	cand.MatchedSKU = best.SKU
	cand.Confidence = best.ScoreFinal
	if cand.Unit == "" && best.Unit != nil {
		cand.Unit = *best.Unit
	}

	switch e.cfg.Mode {
	case ModeAssistive:
		// Surfaces options only; a human or the LLM confirms.

	case ModeStrict:
		cand.Adoptable = mutuallyRelevant(line.Name, best.Name)

	case ModeMerge:
		relevant := mutuallyRelevant(line.Name, best.Name)
		cand.Adoptable = relevant
		if relevant && best.ScoreFinal >= e.cfg.Threshold {
			sku := best.SKU
			cand.SelectedCatalogItemID = &sku
			cand.SelectionReason = SelectionReasonRule
		}
	}

	return cand
}

// mutuallyRelevant is the cheap mutual-relevance check: query and candidate
// name must share at least one semantic token.
func mutuallyRelevant(query, name string) bool {
	qs := rank.SemanticTokens(textnorm.Tokenize(query))
	ns := rank.SemanticTokens(textnorm.Tokenize(name))
	for tok := range qs {
		if ns.Contains(tok) {
			return true
		}
	}
	return false
}

// dedupeLines keeps the first occurrence per normalized name, in input order,
// up to the budget.
func dedupeLines(lines []MaterialLine, budget int) []MaterialLine {
	seen := make(map[string]struct{}, len(lines))
	var out []MaterialLine
	for _, line := range lines {
		key := textnorm.Normalize(line.Name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, line)
		if len(out) >= budget {
			break
		}
	}
	return out
}
