package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParsedResult_JSONFieldNames(t *testing.T) {
	idx := 2
	result := ParsedResult{
		Version:     ResultVersion,
		Kind:        "pdf",
		ResourceID:  "res-1",
		ExtractedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Pages: []ParsedPage{
			{
				Number: 1,
				Width:  612,
				Height: 792,
				Lines: []ParsedLine{
					{Text: "hello", BBox: NormalizedBBox{X: 0.1, Y: 0.2, W: 0.3, H: 0.05}},
				},
				Diagrams: []ParsedDiagram{
					{URL: "file://x", StoragePath: "a/b.png", NearestLine: &idx},
				},
			},
		},
		Questions: []Question{
			{Index: 0, Label: "1.", Page: 1, StartLine: 0, EndLine: 1, Text: "hello"},
		},
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)

	for _, field := range []string{
		`"version":1`,
		`"kind":"pdf"`,
		`"resourceId":"res-1"`,
		`"extractedAt"`,
		`"pageNumber":1`,
		`"bbox"`,
		`"nearestLineIndex":2`,
		`"storagePath":"a/b.png"`,
		`"startLine":0`,
		`"endLine":1`,
	} {
		if !strings.Contains(s, field) {
			t.Errorf("Expected JSON to contain %s, got %s", field, s)
		}
	}
}

func TestParsedDiagram_NilNearestLine(t *testing.T) {
	data, err := json.Marshal(ParsedDiagram{URL: "u", StoragePath: "p"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"nearestLineIndex":null`) {
		t.Errorf("Expected null nearestLineIndex, got %s", data)
	}
}
