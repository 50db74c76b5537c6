package content

import (
	"context"

	"github.com/examine-dev/examine/model"
)

// Document is the page-level view of a PDF that the extraction pipeline
// consumes. Implementations are not required to be safe for concurrent use;
// the pipeline reads pages strictly one at a time.
type Document interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// Page returns the page with the given 0-based index.
	Page(n int) (Page, error)

	// Close releases resources held by the document.
	Close() error
}

// Page exposes a single page's dimensions, positioned text runs and
// drawing-operator stream.
type Page interface {
	// Size returns the page width and height in pixel units.
	Size() (w, h float64)

	// Viewport returns the transform from page user space to top-left
	// pixel space.
	Viewport() model.Matrix

	// TextRuns returns the positioned text runs of the page.
	TextRuns() ([]TextRun, error)

	// Operations returns the page's drawing-operator stream.
	Operations() ([]Op, error)

	// ResolveImage resolves a named image object referenced by a paint
	// operator. It returns nil with no error when the name does not
	// resolve to usable pixel data.
	ResolveImage(ctx context.Context, name string) (*RawImage, error)
}

// TextRun is one positioned run of decoded text.
type TextRun struct {
	// Text is the decoded string, as supplied by the reader.
	Text string

	// Transform maps run-local space to page user space. Composed with
	// the page viewport it yields the baseline anchor point in pixel
	// space.
	Transform model.Matrix

	// Width is the nominal run width in user space units.
	Width float64

	// Height is the reader's font-height hint, 0 when unknown.
	Height float64
}

// OpKind identifies a drawing operator.
type OpKind int

const (
	// OpSave pushes the current transform (q).
	OpSave OpKind = iota
	// OpRestore pops the transform stack (Q).
	OpRestore
	// OpTransform composes a matrix onto the current transform (cm).
	OpTransform
	// OpPaintImageRef paints a named image object (Do).
	OpPaintImageRef
	// OpPaintInlineImage paints an inline image (BI..EI).
	OpPaintInlineImage
)

// String returns the operator mnemonic.
func (k OpKind) String() string {
	switch k {
	case OpSave:
		return "save"
	case OpRestore:
		return "restore"
	case OpTransform:
		return "transform"
	case OpPaintImageRef:
		return "paintImageRef"
	case OpPaintInlineImage:
		return "paintInlineImage"
	default:
		return "unknown"
	}
}

// Op is one operator in a page's drawing stream.
type Op struct {
	Kind OpKind

	// Matrix is set for OpTransform.
	Matrix model.Matrix

	// Name is set for OpPaintImageRef.
	Name string

	// Image is set for OpPaintInlineImage.
	Image *RawImage
}

// RawImage is decoded raster pixel data as produced by a reader.
type RawImage struct {
	Width            int
	Height           int
	ColorSpace       string // DeviceGray, DeviceRGB, DeviceCMYK, ...
	BitsPerComponent int
	Data             []byte
}
