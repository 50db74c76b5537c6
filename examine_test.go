package examine

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/examine-dev/examine/content"
	"github.com/examine-dev/examine/model"
	"github.com/examine-dev/examine/storage"
)

// testPage is a scripted content.Page for pipeline tests.
type testPage struct {
	w, h   float64
	runs   []content.TextRun
	ops    []content.Op
	images map[string]*content.RawImage
}

func (p *testPage) Size() (float64, float64) { return p.w, p.h }

func (p *testPage) Viewport() model.Matrix {
	return model.Matrix{1, 0, 0, -1, 0, p.h}
}

func (p *testPage) TextRuns() ([]content.TextRun, error) { return p.runs, nil }

func (p *testPage) Operations() ([]content.Op, error) { return p.ops, nil }

func (p *testPage) ResolveImage(ctx context.Context, name string) (*content.RawImage, error) {
	return p.images[name], nil
}

// testDoc is a scripted content.Document.
type testDoc struct {
	pages []*testPage
}

func (d *testDoc) PageCount() int { return len(d.pages) }

func (d *testDoc) Page(n int) (content.Page, error) {
	if n < 0 || n >= len(d.pages) {
		return nil, fmt.Errorf("page %d out of range", n)
	}
	return d.pages[n], nil
}

func (d *testDoc) Close() error { return nil }

// testStore records stored keys in memory.
type testStore struct {
	keys []string
}

func (s *testStore) Store(ctx context.Context, key string, data []byte, contentType string) (storage.Object, error) {
	s.keys = append(s.keys, key)
	return storage.Object{URL: "mem://" + key, Path: key}, nil
}

// testEncoder avoids real PNG encoding in pipeline tests.
type testEncoder struct{}

func (testEncoder) EncodePNG(img *content.RawImage) ([]byte, error) {
	return []byte("png"), nil
}

// textAt builds a run anchored at (x, y) in user space on a flipped page.
func textAt(txt string, x, y float64) content.TextRun {
	return content.TextRun{
		Text:      txt,
		Transform: model.Translate(x, y),
		Width:     float64(len(txt)) * 6,
		Height:    12,
	}
}

// questionPage builds a 612x792 page with two lines and one image paint.
func questionPage() *testPage {
	return &testPage{
		w: 612,
		h: 792,
		runs: []content.TextRun{
			textAt("Question 1: What is 2+2?", 72, 720),
			textAt("Answer below", 72, 700),
		},
		ops: []content.Op{
			{Kind: content.OpSave},
			{Kind: content.OpTransform, Matrix: model.Matrix{200, 0, 0, 200, 200, 300}},
			{Kind: content.OpPaintImageRef, Name: "Im0"},
			{Kind: content.OpRestore},
		},
		images: map[string]*content.RawImage{
			"Im0": {Width: 2, Height: 2, ColorSpace: "DeviceGray", BitsPerComponent: 8, Data: make([]byte, 4)},
		},
	}
}

func TestParseDocument_FullPipeline(t *testing.T) {
	store := &testStore{}
	parser := New(store, WithEncoder(testEncoder{}))
	doc := &testDoc{pages: []*testPage{questionPage()}}

	result, warnings, err := parser.ParseDocument(context.Background(), Request{
		ResourceID: "res-1",
		Category:   "grade-7",
	}, doc)
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	if result.Version != model.ResultVersion {
		t.Errorf("Expected version %d, got %d", model.ResultVersion, result.Version)
	}
	if result.Kind != "pdf" {
		t.Errorf("Expected kind 'pdf', got '%s'", result.Kind)
	}
	if result.ResourceID != "res-1" {
		t.Errorf("Expected resource id 'res-1', got '%s'", result.ResourceID)
	}
	if result.ExtractedAt.IsZero() || result.ExtractedAt.Location() != time.UTC {
		t.Errorf("Expected a UTC extraction timestamp, got %v", result.ExtractedAt)
	}

	if len(result.Pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(result.Pages))
	}
	page := result.Pages[0]
	if page.Number != 1 || page.Width != 612 || page.Height != 792 {
		t.Errorf("Unexpected page metadata: %+v", page)
	}

	if len(page.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(page.Lines))
	}
	if page.Lines[0].Text != "Question 1: What is 2+2?" {
		t.Errorf("Unexpected first line: %q", page.Lines[0].Text)
	}
	if page.Lines[1].Text != "Answer below" {
		t.Errorf("Unexpected second line: %q", page.Lines[1].Text)
	}

	if len(page.Diagrams) != 1 {
		t.Fatalf("Expected 1 diagram, got %d", len(page.Diagrams))
	}
	d := page.Diagrams[0]
	if d.StoragePath != "grade-7/res-1/page-1/diagram-0.png" {
		t.Errorf("Unexpected storage path: %s", d.StoragePath)
	}
	if d.NearestLine == nil {
		t.Error("Expected a nearest line for the diagram")
	}
	if len(store.keys) != 1 {
		t.Errorf("Expected 1 stored object, got %d", len(store.keys))
	}

	if len(result.Questions) != 1 {
		t.Fatalf("Expected 1 question, got %d", len(result.Questions))
	}
	q := result.Questions[0]
	if q.Label != "Question 1:" {
		t.Errorf("Expected label 'Question 1:', got '%s'", q.Label)
	}
	if q.Text != "Question 1: What is 2+2?\nAnswer below" {
		t.Errorf("Unexpected question text: %q", q.Text)
	}
}

func TestParseDocument_PageCap(t *testing.T) {
	pages := make([]*testPage, 5)
	for i := range pages {
		pages[i] = questionPage()
	}

	parser := New(&testStore{}, WithEncoder(testEncoder{}), WithMaxPages(1))
	result, warnings, err := parser.ParseDocument(context.Background(), Request{ResourceID: "r"}, &testDoc{pages: pages})
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if len(result.Pages) != 1 {
		t.Errorf("Expected 1 page, got %d", len(result.Pages))
	}

	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Code != WarnPageCap {
		t.Errorf("Expected %s warning, got %s", WarnPageCap, warnings[0].Code)
	}
}

func TestParseDocument_UnresolvedImageWarning(t *testing.T) {
	page := questionPage()
	page.images = nil

	parser := New(&testStore{}, WithEncoder(testEncoder{}))
	result, warnings, err := parser.ParseDocument(context.Background(), Request{ResourceID: "r"}, &testDoc{pages: []*testPage{page}})
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if len(result.Pages[0].Diagrams) != 0 {
		t.Errorf("Expected no diagrams, got %d", len(result.Pages[0].Diagrams))
	}
	if len(warnings) != 1 || warnings[0].Code != WarnUnresolvedImage {
		t.Errorf("Expected an %s warning, got %v", WarnUnresolvedImage, warnings)
	}
	if warnings[0].Page != 1 {
		t.Errorf("Expected warning on page 1, got %d", warnings[0].Page)
	}
}

func TestParseDocument_DiagramCapWarning(t *testing.T) {
	page := questionPage()
	// Three paints, cap of two.
	page.ops = append(page.ops,
		content.Op{Kind: content.OpPaintImageRef, Name: "Im0"},
		content.Op{Kind: content.OpPaintImageRef, Name: "Im0"},
	)

	parser := New(&testStore{}, WithEncoder(testEncoder{}), WithMaxDiagramsPerPage(2))
	result, warnings, err := parser.ParseDocument(context.Background(), Request{ResourceID: "r"}, &testDoc{pages: []*testPage{page}})
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if len(result.Pages[0].Diagrams) != 2 {
		t.Errorf("Expected 2 diagrams, got %d", len(result.Pages[0].Diagrams))
	}
	if len(warnings) != 1 || warnings[0].Code != WarnDiagramCap {
		t.Errorf("Expected a %s warning, got %v", WarnDiagramCap, warnings)
	}
}

func TestParseDocument_Deterministic(t *testing.T) {
	parser := New(&testStore{}, WithEncoder(testEncoder{}))
	doc := &testDoc{pages: []*testPage{questionPage()}}

	first, _, err := parser.ParseDocument(context.Background(), Request{ResourceID: "r", Category: "c"}, doc)
	if err != nil {
		t.Fatalf("first parse failed: %v", err)
	}
	second, _, err := parser.ParseDocument(context.Background(), Request{ResourceID: "r", Category: "c"}, doc)
	if err != nil {
		t.Fatalf("second parse failed: %v", err)
	}

	first.ExtractedAt = time.Time{}
	second.ExtractedAt = time.Time{}
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected repeated parses to produce identical results")
	}
}

func TestParse_InvalidPDF(t *testing.T) {
	parser := New(&testStore{}, WithEncoder(testEncoder{}))

	_, _, err := parser.Parse(context.Background(), Request{ResourceID: "r", Data: []byte("not a pdf")})
	if err == nil {
		t.Fatal("Expected an error for undecodable input")
	}
}

func TestOptions_InvalidValuesIgnored(t *testing.T) {
	parser := New(&testStore{}, WithMaxPages(0), WithMaxDiagramsPerPage(-3), WithEncoder(nil))

	if parser.options.maxPages != DefaultMaxPages {
		t.Errorf("Expected default max pages %d, got %d", DefaultMaxPages, parser.options.maxPages)
	}
	if parser.options.maxDiagramsPerPage != DefaultMaxDiagramsPerPage {
		t.Errorf("Expected default diagram cap %d, got %d", DefaultMaxDiagramsPerPage, parser.options.maxDiagramsPerPage)
	}
	if parser.options.encoder == nil {
		t.Error("Expected the default encoder to survive a nil option")
	}
}

func TestFormatWarnings(t *testing.T) {
	warnings := []Warning{
		{Code: WarnPageCap, Message: "capped"},
		{Code: WarnDiagramCap, Message: "dropped", Page: 3},
	}

	got := FormatWarnings(warnings)
	want := "capped; page 3: dropped"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
