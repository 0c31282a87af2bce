package textnorm

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseSynonymsYAML(t *testing.T) {
	data := []byte(`
tiefgrund:
  - haftgrund
  - grundierung
wandfarbe:
  - innenfarbe
  - ""
"":
  - dropped
`)
	table := ParseSynonyms(data)

	if len(table["tiefgrund"]) != 2 {
		t.Errorf("tiefgrund variants = %v, want 2 entries", table["tiefgrund"])
	}
	if len(table["wandfarbe"]) != 1 {
		t.Errorf("wandfarbe variants = %v, want empty variant dropped", table["wandfarbe"])
	}
	if _, ok := table[""]; ok {
		t.Error("empty key should be dropped")
	}
}

func TestParseSynonymsNormalizesEntries(t *testing.T) {
	data := []byte("Tiefgrund:\n  - Haft-Grund\n")
	table := ParseSynonyms(data)
	variants, ok := table["tiefgrund"]
	if !ok {
		t.Fatalf("key not normalized: %v", table)
	}
	if len(variants) != 1 || variants[0] != "haft grund" {
		t.Errorf("variants = %v, want [\"haft grund\"]", variants)
	}
}

func TestParseSynonymsFallbackLineParser(t *testing.T) {
	// Broken YAML (tab indentation) must still yield entries via the
	// key: / - value fallback.
	data := []byte("tiefgrund:\n\t- haftgrund\nwandfarbe: innenfarbe, dispersionsfarbe\n")
	table := ParseSynonyms(data)

	if len(table["tiefgrund"]) != 1 || table["tiefgrund"][0] != "haftgrund" {
		t.Errorf("tiefgrund = %v, want [haftgrund]", table["tiefgrund"])
	}
	if len(table["wandfarbe"]) != 2 {
		t.Errorf("wandfarbe = %v, want inline comma list parsed", table["wandfarbe"])
	}
}

func TestLoadSynonymsMissingFile(t *testing.T) {
	table, err := LoadSynonyms(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing file")
	}
	if table == nil || len(table) != 0 {
		t.Errorf("table = %v, want empty non-nil map", table)
	}
}

func TestLoadSynonymsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	if err := os.WriteFile(path, []byte("tiefgrund:\n  - haftgrund\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := LoadSynonyms(path)
	if err != nil {
		t.Fatalf("LoadSynonyms: %v", err)
	}
	if len(table["tiefgrund"]) != 1 {
		t.Errorf("table = %v, want tiefgrund entry", table)
	}
}

func TestApplySynonyms(t *testing.T) {
	table := SynonymMap{
		"tiefgrund": {"haftgrund"},
		"wandfarbe": {"innenfarbe"},
	}

	tokens := Tokenize("Haftgrund")
	expanded := ApplySynonyms(tokens, table)

	if !expanded.Contains("tiefgrund") {
		t.Errorf("expanded = %v, want canonical tiefgrund added", expanded.Sorted())
	}
	if expanded.Contains("wandfarbe") {
		t.Error("canonical without matching variant must not be added")
	}
	// One-directional: the original set is not mutated.
	if tokens.Contains("tiefgrund") && !Tokenize("Haftgrund").Contains("tiefgrund") {
		t.Error("ApplySynonyms mutated its input set")
	}
}
