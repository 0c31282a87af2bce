package adoption

import (
	"strings"
	"testing"

	"kalkulai-be/pkg/catalog"
)

func sampleBatch() []MaterialCandidate {
	sku := "SKU-2"
	return []MaterialCandidate{
		{
			Query:         "Tiefgrund LF",
			CanonicalName: "Tiefgrund LF 5 L",
			Unit:          "L",
			MatchedSKU:    "SKU-2",
			Confidence:    0.93,
			Status:        StatusMatched,
			Options: []catalog.RankedCandidate{
				{SKU: "SKU-2", ScoreFinal: 0.93},
				{SKU: "SKU-1", ScoreFinal: 0.71},
			},
			Adoptable:             true,
			SelectedCatalogItemID: &sku,
			SelectionReason:       SelectionReasonRule,
		},
		{
			Query:  "Spezialharz XY",
			Status: StatusOOV,
		},
	}
}

func TestMarshalBlockRoundTrip(t *testing.T) {
	block := MarshalBlock(sampleBatch())
	if !strings.HasPrefix(block, BlockStart) || !strings.HasSuffix(block, BlockEnd) {
		t.Fatalf("block not delimited:\n%s", block)
	}

	got, err := UnmarshalBlock(block)
	if err != nil {
		t.Fatalf("UnmarshalBlock: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2:\n%s", len(got), block)
	}

	first := got[0]
	if first.Query != "Tiefgrund LF" || first.MatchedSKU != "SKU-2" || first.Status != StatusMatched {
		t.Errorf("first = %+v", first)
	}
	if first.Confidence != 0.93 {
		t.Errorf("confidence = %v, want 0.93", first.Confidence)
	}
	if !first.Adoptable {
		t.Error("adoptable flag lost in round trip")
	}
	if first.SelectedCatalogItemID == nil || *first.SelectedCatalogItemID != "SKU-2" {
		t.Errorf("selection = %v, want SKU-2", first.SelectedCatalogItemID)
	}
	if first.SelectionReason != SelectionReasonRule {
		t.Errorf("selection reason = %q", first.SelectionReason)
	}
	if len(first.Options) != 2 || first.Options[1].SKU != "SKU-1" || first.Options[1].ScoreFinal != 0.71 {
		t.Errorf("options = %+v", first.Options)
	}

	second := got[1]
	if second.Status != StatusOOV || second.MatchedSKU != "" || second.SelectedCatalogItemID != nil {
		t.Errorf("second = %+v, want plain oov", second)
	}
}

func TestMarshalBlockSanitizesNewlines(t *testing.T) {
	batch := []MaterialCandidate{{
		Query:  "Tiefgrund\nLF\r\n5 L",
		Status: StatusOOV,
	}}
	block := MarshalBlock(batch)

	got, err := UnmarshalBlock(block)
	if err != nil {
		t.Fatalf("UnmarshalBlock: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1:\n%s", len(got), block)
	}
	if strings.ContainsAny(got[0].Query, "\r\n") {
		t.Errorf("query = %q, newlines must be flattened", got[0].Query)
	}
}

func TestExtractBlocksFromSurroundingText(t *testing.T) {
	blockA := MarshalBlock(sampleBatch()[:1])
	blockB := MarshalBlock(sampleBatch()[1:])
	text := "Assistant: here is what I found.\n\n" + blockA +
		"\n\nSome follow-up chat in between.\n" + blockB + "\nBye."

	batches := ExtractBlocks(text)
	if len(batches) != 2 {
		t.Fatalf("found %d blocks, want 2", len(batches))
	}
	if len(batches[0]) != 1 || batches[0][0].Query != "Tiefgrund LF" {
		t.Errorf("first batch = %+v", batches[0])
	}
	if len(batches[1]) != 1 || batches[1][0].Status != StatusOOV {
		t.Errorf("second batch = %+v", batches[1])
	}
}

func TestExtractBlocksNone(t *testing.T) {
	if batches := ExtractBlocks("no markers anywhere"); len(batches) != 0 {
		t.Errorf("batches = %v, want none", batches)
	}
}

func TestUnmarshalBlockMissingMarkers(t *testing.T) {
	if _, err := UnmarshalBlock("query=Tiefgrund\nstatus=oov\n"); err == nil {
		t.Error("expected error without markers")
	}
}

func TestParseBlockBodyTolerance(t *testing.T) {
	body := strings.Join([]string{
		BlockStart,
		"query=Tiefgrund LF",
		"garbage line without separator",
		"confidence=not-a-number",
		"status=matched",
		BlockEnd,
	}, "\n")

	got, err := UnmarshalBlock(body)
	if err != nil {
		t.Fatalf("UnmarshalBlock: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].Query != "Tiefgrund LF" || got[0].Status != StatusMatched {
		t.Errorf("candidate = %+v", got[0])
	}
	if got[0].Confidence != 0 {
		t.Errorf("confidence = %v, unparseable value must be skipped", got[0].Confidence)
	}
}
