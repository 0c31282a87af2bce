package catalog

// Entry represents one product from the catalog store.
// The engine treats a list of entries as an immutable snapshot per call;
// refreshing the snapshot is the caller's job.
type Entry struct {
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Unit        *string  `json:"unit,omitempty"`
	Category    string   `json:"category,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Synonyms    []string `json:"synonyms,omitempty"`
	Description string   `json:"description,omitempty"`
}

// RankedCandidate is one scored match for a query. Rebuilt per query, never persisted.
type RankedCandidate struct {
	SKU           string   `json:"sku"`
	Name          string   `json:"name"`
	Unit          *string  `json:"unit,omitempty"`
	Category      string   `json:"category,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	ScoreLexical  float64  `json:"score_lexical"`
	ScoreBusiness float64  `json:"score_business"`
	ScoreFinal    float64  `json:"score_final"`
	Reasons       []string `json:"reasons,omitempty"`
}

// BusinessConfig carries the business priority signals, supplied per call.
// Availability and Margin are keyed by SKU, BrandBoost by lowercase brand name.
type BusinessConfig struct {
	Availability map[string]int     `json:"availability,omitempty"`
	Price        map[string]float64 `json:"price,omitempty"`
	Margin       map[string]float64 `json:"margin,omitempty"`
	BrandBoost   map[string]float64 `json:"brand_boost,omitempty"`
}

// Available reports whether a SKU is flagged available (1).
func (c BusinessConfig) Available(sku string) bool {
	return c.Availability[sku] == 1
}

// PriceOf returns the configured price for a SKU, and whether one exists.
func (c BusinessConfig) PriceOf(sku string) (float64, bool) {
	p, ok := c.Price[sku]
	return p, ok
}

// MarginOf returns the configured margin fraction for a SKU, and whether one exists.
func (c BusinessConfig) MarginOf(sku string) (float64, bool) {
	m, ok := c.Margin[sku]
	return m, ok
}

// UnitRules restricts which units of measure are valid per category.
// Absence of a rule for a category means no restriction.
type UnitRules map[string][]string

// Allows reports whether the given unit may appear under the given category.
// Entries without a stored unit always pass; the filter rejects wrong data,
// not missing data.
func (r UnitRules) Allows(category string, unit *string) bool {
	if len(r) == 0 {
		return true
	}
	allowed, ok := r[category]
	if !ok {
		return true
	}
	if unit == nil || *unit == "" {
		return true
	}
	for _, u := range allowed {
		if u == *unit {
			return true
		}
	}
	return false
}
