package diagrams

import (
	"context"
	"fmt"
	"math"

	"github.com/examine-dev/examine/content"
	"github.com/examine-dev/examine/model"
	"github.com/examine-dev/examine/raster"
	"github.com/examine-dev/examine/storage"
)

// Request identifies the resource a page belongs to, for storage key
// derivation.
type Request struct {
	// ResourceID is the opaque identifier of the parsed resource.
	ResourceID string

	// Category is the category/grade label used as the leading storage
	// key component.
	Category string

	// PageNumber is the 1-based page number.
	PageNumber int
}

// Stats counts the non-fatal skips encountered while walking one page.
type Stats struct {
	// Unresolved is the number of paint operators whose image could not
	// be resolved to pixel data.
	Unresolved int

	// CapSkipped is the number of paint operators dropped because the
	// per-page diagram cap was already reached.
	CapSkipped int
}

// Extractor walks a page's drawing-operator stream, extracts painted
// raster images, stores them encoded as PNG, and associates each with the
// nearest reconstructed text line.
type Extractor struct {
	store      storage.Store
	encoder    raster.Encoder
	maxPerPage int
}

// New creates a diagram extractor. maxPerPage caps the number of diagrams
// recorded per page; paints beyond the cap are skipped silently.
func New(store storage.Store, encoder raster.Encoder, maxPerPage int) *Extractor {
	return &Extractor{
		store:      store,
		encoder:    encoder,
		maxPerPage: maxPerPage,
	}
}

// Extract walks the page's operator stream with an explicit transform
// stack and returns the extracted diagrams in encounter order. lines must
// be the page's already-reconstructed text lines. Encoding and storage
// failures are returned as errors; unresolvable images and cap overflow
// are counted in Stats and skipped.
func (e *Extractor) Extract(ctx context.Context, page content.Page, req Request, lines []model.ParsedLine) ([]model.ParsedDiagram, Stats, error) {
	var stats Stats

	ops, err := page.Operations()
	if err != nil {
		return nil, stats, fmt.Errorf("reading operator stream: %w", err)
	}

	pageWidth, pageHeight := page.Size()
	viewport := page.Viewport()

	var stack []model.Matrix
	current := model.Identity()

	var out []model.ParsedDiagram

	for _, op := range ops {
		switch op.Kind {
		case content.OpSave:
			stack = append(stack, current)

		case content.OpRestore:
			if len(stack) == 0 {
				current = model.Identity()
			} else {
				current = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			}

		case content.OpTransform:
			// The operand matrix becomes the new local-to-parent
			// transform: points pass through it before the
			// previous CTM.
			current = op.Matrix.Multiply(current)

		case content.OpPaintImageRef, content.OpPaintInlineImage:
			if len(out) >= e.maxPerPage {
				stats.CapSkipped++
				continue
			}

			img := op.Image
			if op.Kind == content.OpPaintImageRef {
				img, err = page.ResolveImage(ctx, op.Name)
				if err != nil {
					// Irresolvable named objects yield no
					// diagram but never fail the parse.
					img = nil
				}
			}
			if img == nil || img.Width <= 0 || img.Height <= 0 || len(img.Data) == 0 {
				stats.Unresolved++
				continue
			}

			diagram, err := e.record(ctx, img, current, viewport, pageWidth, pageHeight, req, len(out), lines)
			if err != nil {
				return nil, stats, err
			}
			out = append(out, diagram)
		}
	}

	return out, stats, nil
}

// record encodes, stores and describes one painted image. index is the
// diagram's sequential position on the page.
func (e *Extractor) record(ctx context.Context, img *content.RawImage, current, viewport model.Matrix, pageWidth, pageHeight float64, req Request, index int, lines []model.ParsedLine) (model.ParsedDiagram, error) {
	// An image paint maps the unit square through the combined
	// transform; its pixel box is the envelope of the four corners.
	combined := current.Multiply(viewport)
	rect := model.RectFromPoints(
		combined.Transform(model.Point{X: 0, Y: 0}),
		combined.Transform(model.Point{X: 1, Y: 0}),
		combined.Transform(model.Point{X: 0, Y: 1}),
		combined.Transform(model.Point{X: 1, Y: 1}),
	)

	encoded, err := e.encoder.EncodePNG(img)
	if err != nil {
		return model.ParsedDiagram{}, fmt.Errorf("encoding diagram %d on page %d: %w", index, req.PageNumber, err)
	}

	key := Key(req.Category, req.ResourceID, req.PageNumber, index)
	obj, err := e.store.Store(ctx, key, encoded, "image/png")
	if err != nil {
		return model.ParsedDiagram{}, fmt.Errorf("storing diagram %q: %w", key, err)
	}

	bbox := rect.Normalize(pageWidth, pageHeight)

	return model.ParsedDiagram{
		URL:         obj.URL,
		StoragePath: obj.Path,
		BBox:        bbox,
		NearestLine: nearestLine(lines, bbox),
	}, nil
}

// Key derives the deterministic storage key for a diagram.
func Key(category, resourceID string, pageNumber, index int) string {
	return fmt.Sprintf("%s/%s/page-%d/diagram-%d.png", category, resourceID, pageNumber, index)
}

// nearestLine returns the index of the line whose vertical center is
// closest to the diagram's. Ties resolve to the lowest index. Returns nil
// when the page has no lines.
func nearestLine(lines []model.ParsedLine, bbox model.NormalizedBBox) *int {
	if len(lines) == 0 {
		return nil
	}

	center := bbox.CenterY()
	best := 0
	bestDist := math.Abs(lines[0].BBox.CenterY() - center)

	for i := 1; i < len(lines); i++ {
		if d := math.Abs(lines[i].BBox.CenterY() - center); d < bestDist {
			best = i
			bestDist = d
		}
	}

	return &best
}
