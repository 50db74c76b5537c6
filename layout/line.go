package layout

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/examine-dev/examine/content"
	"github.com/examine-dev/examine/model"
)

// Config holds configuration for line reconstruction.
type Config struct {
	// TopTolerance is the vertical distance, as a fraction of page
	// height, within which two runs are considered part of the same
	// visual line (default: 0.012).
	TopTolerance float64
}

// DefaultConfig returns the default line reconstruction configuration.
func DefaultConfig() Config {
	return Config{
		TopTolerance: 0.012,
	}
}

// Reconstructor groups positioned text runs into visual lines with
// normalized bounding boxes.
type Reconstructor struct {
	config Config
}

// NewReconstructor creates a reconstructor with default configuration.
func NewReconstructor() *Reconstructor {
	return &Reconstructor{config: DefaultConfig()}
}

// NewReconstructorWithConfig creates a reconstructor with custom configuration.
func NewReconstructorWithConfig(config Config) *Reconstructor {
	return &Reconstructor{config: config}
}

// runBox is a text run positioned in page pixel space.
type runBox struct {
	text string
	rect model.Rect
}

// Reconstruct groups a page's text runs into lines, ordered top to bottom.
// Runs with empty text or non-finite coordinates are dropped. The returned
// line boxes are normalized to [0,1] against the page dimensions.
func (r *Reconstructor) Reconstruct(runs []content.TextRun, viewport model.Matrix, pageWidth, pageHeight float64) []model.ParsedLine {
	if pageWidth <= 0 || pageHeight <= 0 {
		return nil
	}

	boxes := make([]runBox, 0, len(runs))
	for _, run := range runs {
		text := CollapseWhitespace(run.Text)
		if text == "" {
			continue
		}

		rect, ok := runRect(run, viewport)
		if !ok {
			continue
		}

		boxes = append(boxes, runBox{text: text, rect: rect})
	}

	if len(boxes) == 0 {
		return nil
	}

	// Reading order: top to bottom, then left to right.
	sort.SliceStable(boxes, func(i, j int) bool {
		if boxes[i].rect.Y1 != boxes[j].rect.Y1 {
			return boxes[i].rect.Y1 < boxes[j].rect.Y1
		}
		return boxes[i].rect.X1 < boxes[j].rect.X1
	})

	buckets := r.bucketByTop(boxes, pageHeight)

	lines := make([]model.ParsedLine, 0, len(buckets))
	for _, bucket := range buckets {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].rect.X1 < bucket[j].rect.X1
		})

		parts := make([]string, 0, len(bucket))
		rect := bucket[0].rect
		for i, b := range bucket {
			parts = append(parts, b.text)
			if i > 0 {
				rect = rect.Union(b.rect)
			}
		}

		text := strings.TrimSpace(strings.Join(parts, " "))
		if text == "" {
			continue
		}

		lines = append(lines, model.ParsedLine{
			Text: text,
			BBox: rect.Normalize(pageWidth, pageHeight),
		})
	}

	return lines
}

// bucketByTop clusters sorted run boxes into line buckets. A run joins the
// current bucket when its top is within the tolerance of the bucket's
// representative top; otherwise it starts a new bucket with its own top as
// the new representative.
func (r *Reconstructor) bucketByTop(boxes []runBox, pageHeight float64) [][]runBox {
	tolerance := r.config.TopTolerance * pageHeight

	var buckets [][]runBox
	var current []runBox
	var currentTop float64

	for _, b := range boxes {
		if len(current) == 0 {
			current = []runBox{b}
			currentTop = b.rect.Y1
			continue
		}

		if math.Abs(b.rect.Y1-currentTop) <= tolerance {
			current = append(current, b)
		} else {
			buckets = append(buckets, current)
			current = []runBox{b}
			currentTop = b.rect.Y1
		}
	}

	if len(current) > 0 {
		buckets = append(buckets, current)
	}

	return buckets
}

// runRect computes a run's pixel bounding box. The run transform composed
// with the page viewport yields the baseline anchor; the box extends one
// text height above the baseline.
func runRect(run content.TextRun, viewport model.Matrix) (model.Rect, bool) {
	combined := run.Transform.Multiply(viewport)
	anchor := combined.Transform(model.Point{})

	height := run.Height
	if height <= 0 {
		height = math.Max(1, math.Hypot(combined[1], combined[2]))
	}

	rect := model.Rect{
		X1: anchor.X,
		Y1: anchor.Y - height,
		X2: anchor.X + math.Max(1, run.Width),
		Y2: anchor.Y,
	}

	return rect, rect.IsFinite()
}

// CollapseWhitespace trims s and collapses internal whitespace runs to
// single spaces. Text is NFKC-normalized first so that compatibility forms
// (ligatures, full-width digits) compare and match predictably downstream.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}
