package adoption

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"kalkulai-be/pkg/catalog"
)

// The machine block is the append-only, line-oriented representation of a
// resolution batch inside conversation history: key=value fields per
// candidate between fixed markers, human-legible and regex-recoverable.
// The core structs above stay free of this text format; this file is the
// thin adapter.
const (
	BlockStart = "<<<MATERIAL_RESOLUTION v1>>>"
	BlockEnd   = "<<<END_MATERIAL_RESOLUTION>>>"

	candidateSeparator = "---"
)

var blockPattern = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(BlockStart) + `\n(.*?)` + regexp.QuoteMeta(BlockEnd))

// MarshalBlock serializes a resolution batch into a machine block.
func MarshalBlock(batch []MaterialCandidate) string {
	var b strings.Builder
	b.WriteString(BlockStart)
	b.WriteByte('\n')
	for i, cand := range batch {
		if i > 0 {
			b.WriteString(candidateSeparator)
			b.WriteByte('\n')
		}
		writeField(&b, "query", cand.Query)
		writeField(&b, "canonical_name", cand.CanonicalName)
		writeField(&b, "unit", cand.Unit)
		writeField(&b, "matched_sku", cand.MatchedSKU)
		writeField(&b, "confidence", formatScore(cand.Confidence))
		writeField(&b, "status", cand.Status)
		writeField(&b, "adoptable", strconv.FormatBool(cand.Adoptable))
		if cand.SelectedCatalogItemID != nil {
			writeField(&b, "selected_catalog_item_id", *cand.SelectedCatalogItemID)
			writeField(&b, "selection_reason", cand.SelectionReason)
		}
		if len(cand.Options) > 0 {
			writeField(&b, "options", formatOptions(cand.Options))
		}
	}
	b.WriteString(BlockEnd)
	return b.String()
}

// ExtractBlocks recovers every resolution batch embedded in free text, in
// order of appearance. Unparseable fields are skipped, not errored; history
// text is outside our control.
func ExtractBlocks(text string) [][]MaterialCandidate {
	var batches [][]MaterialCandidate
	for _, m := range blockPattern.FindAllStringSubmatch(text, -1) {
		batches = append(batches, parseBlockBody(m[1]))
	}
	return batches
}

// UnmarshalBlock parses one exact machine block (markers included).
func UnmarshalBlock(block string) ([]MaterialCandidate, error) {
	m := blockPattern.FindStringSubmatch(block)
	if m == nil {
		return nil, fmt.Errorf("no material resolution block found")
	}
	return parseBlockBody(m[1]), nil
}

func parseBlockBody(body string) []MaterialCandidate {
	var batch []MaterialCandidate
	current := MaterialCandidate{}
	dirty := false

	flush := func() {
		if dirty {
			batch = append(batch, current)
			current = MaterialCandidate{}
			dirty = false
		}
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == candidateSeparator {
			flush()
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		dirty = true
		switch key {
		case "query":
			current.Query = value
		case "canonical_name":
			current.CanonicalName = value
		case "unit":
			current.Unit = value
		case "matched_sku":
			current.MatchedSKU = value
		case "confidence":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				current.Confidence = f
			}
		case "status":
			current.Status = value
		case "adoptable":
			current.Adoptable = value == "true"
		case "selected_catalog_item_id":
			v := value
			current.SelectedCatalogItemID = &v
		case "selection_reason":
			current.SelectionReason = value
		case "options":
			current.Options = parseOptions(value)
		}
	}
	flush()
	return batch
}

func writeField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(sanitizeValue(value))
	b.WriteByte('\n')
}

// sanitizeValue keeps the block line-oriented: embedded newlines become
// spaces.
func sanitizeValue(v string) string {
	v = strings.ReplaceAll(v, "\r", " ")
	v = strings.ReplaceAll(v, "\n", " ")
	return strings.TrimSpace(v)
}

// formatOptions renders top options as "sku:score|sku:score". Only the SKU
// and final score survive the round trip; full candidates are rebuilt by
// re-querying when needed.
func formatOptions(options []catalog.RankedCandidate) string {
	parts := make([]string, len(options))
	for i, opt := range options {
		parts[i] = opt.SKU + ":" + formatScore(opt.ScoreFinal)
	}
	return strings.Join(parts, "|")
}

func parseOptions(value string) []catalog.RankedCandidate {
	var options []catalog.RankedCandidate
	for _, part := range strings.Split(value, "|") {
		sku, score, ok := strings.Cut(part, ":")
		if !ok || sku == "" {
			continue
		}
		opt := catalog.RankedCandidate{SKU: sku}
		if f, err := strconv.ParseFloat(score, 64); err == nil {
			opt.ScoreFinal = f
		}
		options = append(options, opt)
	}
	return options
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
