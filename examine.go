// Package examine extracts structured content from exam-paper PDFs: text
// reconstructed into visual lines, embedded raster diagrams with
// nearest-line associations, and a heuristic segmentation of the text into
// questions.
//
// Basic usage:
//
//	parser := examine.New(storage.FromEnv())
//	result, warnings, err := parser.Parse(ctx, examine.Request{
//	    ResourceID: "01HZX...",
//	    Category:   "grade-7",
//	    Data:       pdfBytes,
//	})
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", examine.FormatWarnings(warnings))
//	}
//
// The result is a model.ParsedResult intended to be serialized as JSON and
// persisted by the caller.
package examine

import (
	"context"
	"fmt"
	"time"

	"github.com/examine-dev/examine/content"
	"github.com/examine-dev/examine/diagrams"
	"github.com/examine-dev/examine/layout"
	"github.com/examine-dev/examine/model"
	"github.com/examine-dev/examine/questions"
	"github.com/examine-dev/examine/reader"
	"github.com/examine-dev/examine/storage"
)

// Request identifies one parse invocation.
type Request struct {
	// ResourceID is an opaque identifier, used only as a storage key
	// component.
	ResourceID string

	// Category is the category/grade label, the leading storage key
	// component.
	Category string

	// Data is the raw PDF bytes. Used by Parse; ParseDocument ignores
	// it.
	Data []byte
}

// Parser runs the extraction pipeline. It is safe to reuse across parses.
type Parser struct {
	store   storage.Store
	options options
}

// New creates a Parser that persists diagrams through store.
func New(store storage.Store, opts ...Option) *Parser {
	p := &Parser{
		store:   store,
		options: defaultOptions(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse opens the default PDF reader over req.Data and extracts its
// content. A PDF that fails to load aborts the parse with an error.
func (p *Parser) Parse(ctx context.Context, req Request) (*model.ParsedResult, []Warning, error) {
	doc, err := reader.New(req.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("loading PDF: %w", err)
	}
	defer doc.Close()

	return p.ParseDocument(ctx, req, doc)
}

// ParseDocument extracts content from an already-open document. Pages are
// processed strictly in order; per page the lines are reconstructed first,
// then the diagrams (which need the lines for nearest-line association).
// After all pages, the full line set is segmented into questions.
func (p *Parser) ParseDocument(ctx context.Context, req Request, doc content.Document) (*model.ParsedResult, []Warning, error) {
	var warnings []Warning

	pageCount := doc.PageCount()
	limit := pageCount
	if limit > p.options.maxPages {
		limit = p.options.maxPages
		warnings = append(warnings, Warning{
			Code:    WarnPageCap,
			Message: fmt.Sprintf("document has %d pages, processing first %d", pageCount, limit),
		})
	}

	reconstructor := layout.NewReconstructor()
	extractor := diagrams.New(p.store, p.options.encoder, p.options.maxDiagramsPerPage)

	pages := make([]model.ParsedPage, 0, limit)

	for i := 0; i < limit; i++ {
		page, err := doc.Page(i)
		if err != nil {
			return nil, warnings, fmt.Errorf("reading page %d: %w", i+1, err)
		}

		width, height := page.Size()

		runs, err := page.TextRuns()
		if err != nil {
			return nil, warnings, fmt.Errorf("reading text of page %d: %w", i+1, err)
		}
		lines := reconstructor.Reconstruct(runs, page.Viewport(), width, height)

		diags, stats, err := extractor.Extract(ctx, page, diagrams.Request{
			ResourceID: req.ResourceID,
			Category:   req.Category,
			PageNumber: i + 1,
		}, lines)
		if err != nil {
			return nil, warnings, fmt.Errorf("extracting diagrams of page %d: %w", i+1, err)
		}

		if stats.Unresolved > 0 {
			warnings = append(warnings, Warning{
				Code:    WarnUnresolvedImage,
				Message: fmt.Sprintf("%d image paint(s) could not be resolved", stats.Unresolved),
				Page:    i + 1,
			})
		}
		if stats.CapSkipped > 0 {
			warnings = append(warnings, Warning{
				Code:    WarnDiagramCap,
				Message: fmt.Sprintf("%d diagram(s) beyond the per-page cap were dropped", stats.CapSkipped),
				Page:    i + 1,
			})
		}

		pages = append(pages, model.ParsedPage{
			Number:   i + 1,
			Width:    width,
			Height:   height,
			Lines:    lines,
			Diagrams: diags,
		})
	}

	result := &model.ParsedResult{
		Version:     model.ResultVersion,
		Kind:        "pdf",
		ResourceID:  req.ResourceID,
		ExtractedAt: time.Now().UTC(),
		Pages:       pages,
		Questions:   questions.Segment(pages),
	}

	return result, warnings, nil
}
