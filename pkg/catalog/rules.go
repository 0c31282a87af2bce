package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadUnitRules reads a category-to-units restriction table from a YAML file:
//
//	grundierung:
//	  - L
//	farbe:
//	  - L
//	spachtelmasse:
//	  - kg
//
// A missing file is an error; an empty file yields an empty (allow-all) table.
func LoadUnitRules(path string) (UnitRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return UnitRules{}, fmt.Errorf("read unit rules: %w", err)
	}

	var rules UnitRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return UnitRules{}, fmt.Errorf("parse unit rules: %w", err)
	}
	if rules == nil {
		rules = UnitRules{}
	}
	return rules, nil
}
