package model

import "time"

// ResultVersion identifies the schema version of ParsedResult.
const ResultVersion = 1

// NormalizedBBox is a page-relative bounding box with a top-left origin.
// All four fields are in [0,1].
type NormalizedBBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// CenterY returns the vertical center of the box.
func (b NormalizedBBox) CenterY() float64 {
	return b.Y + b.H/2
}

// ParsedLine is one visually coherent line of text on a page. Text is
// trimmed with internal whitespace collapsed.
type ParsedLine struct {
	Text string         `json:"text"`
	BBox NormalizedBBox `json:"bbox"`
}

// ParsedDiagram is one raster region extracted from a page. NearestLine is
// the index into the page's Lines of the line whose vertical center is
// closest to the diagram's, or nil when the page has no lines.
type ParsedDiagram struct {
	URL         string         `json:"url"`
	StoragePath string         `json:"storagePath"`
	BBox        NormalizedBBox `json:"bbox"`
	NearestLine *int           `json:"nearestLineIndex"`
}

// ParsedPage holds everything extracted from a single page. Width and
// Height are in pixel units.
type ParsedPage struct {
	Number   int             `json:"pageNumber"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Lines    []ParsedLine    `json:"lines"`
	Diagrams []ParsedDiagram `json:"diagrams"`
}

// Question is one segmented question. Index is global across the whole
// document; StartLine and EndLine are indices into the owning page's Lines
// (EndLine exclusive).
type Question struct {
	Index     int    `json:"index"`
	Label     string `json:"label"`
	Page      int    `json:"pageNumber"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Text      string `json:"text"`
}

// ParsedResult is the top-level extraction output. It is immutable once
// produced; a later parse of the same resource yields an entirely new
// value.
type ParsedResult struct {
	Version     int          `json:"version"`
	Kind        string       `json:"kind"`
	ResourceID  string       `json:"resourceId"`
	ExtractedAt time.Time    `json:"extractedAt"`
	Pages       []ParsedPage `json:"pages"`
	Questions   []Question   `json:"questions"`
}
