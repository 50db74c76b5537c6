package layout

import (
	"math"
	"testing"

	"github.com/examine-dev/examine/content"
	"github.com/examine-dev/examine/model"
)

// makeRun creates a test text run anchored at (x, y) in pixel space.
func makeRun(txt string, x, y, width, height float64) content.TextRun {
	return content.TextRun{
		Text:      txt,
		Transform: model.Translate(x, y),
		Width:     width,
		Height:    height,
	}
}

func TestReconstruct_EmptyRuns(t *testing.T) {
	r := NewReconstructor()

	lines := r.Reconstruct(nil, model.Identity(), 612, 792)
	if lines != nil {
		t.Errorf("Expected nil lines, got %d", len(lines))
	}
}

func TestReconstruct_InvalidPageDimensions(t *testing.T) {
	r := NewReconstructor()
	runs := []content.TextRun{makeRun("Hello", 100, 100, 50, 12)}

	if lines := r.Reconstruct(runs, model.Identity(), 0, 792); lines != nil {
		t.Errorf("Expected nil for zero width, got %d lines", len(lines))
	}
	if lines := r.Reconstruct(runs, model.Identity(), 612, -1); lines != nil {
		t.Errorf("Expected nil for negative height, got %d lines", len(lines))
	}
}

func TestReconstruct_SingleRun(t *testing.T) {
	r := NewReconstructor()
	runs := []content.TextRun{makeRun("Hello", 100, 100, 50, 10)}

	lines := r.Reconstruct(runs, model.Identity(), 612, 792)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}

	line := lines[0]
	if line.Text != "Hello" {
		t.Errorf("Expected 'Hello', got '%s'", line.Text)
	}

	// The box spans one text height above the baseline anchor.
	want := model.NormalizedBBox{X: 100.0 / 612, Y: 90.0 / 792, W: 50.0 / 612, H: 10.0 / 792}
	if !bboxClose(line.BBox, want) {
		t.Errorf("Expected bbox %+v, got %+v", want, line.BBox)
	}
}

func TestReconstruct_MergesRunsWithinTolerance(t *testing.T) {
	r := NewReconstructor()
	// Tolerance on a 792-point page is 0.012 * 792 = 9.5; a 5-point top
	// difference lands on the same line.
	runs := []content.TextRun{
		makeRun("World", 160, 105, 50, 12),
		makeRun("Hello", 100, 100, 50, 12),
	}

	lines := r.Reconstruct(runs, model.Identity(), 612, 792)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "Hello World" {
		t.Errorf("Expected 'Hello World', got '%s'", lines[0].Text)
	}
}

func TestReconstruct_SplitsRunsBeyondTolerance(t *testing.T) {
	r := NewReconstructor()
	runs := []content.TextRun{
		makeRun("Second", 100, 120, 50, 12),
		makeRun("First", 100, 100, 50, 12),
	}

	lines := r.Reconstruct(runs, model.Identity(), 612, 792)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0].Text != "First" || lines[1].Text != "Second" {
		t.Errorf("Expected top-to-bottom order [First Second], got [%s %s]", lines[0].Text, lines[1].Text)
	}
}

func TestReconstruct_OrdersRunsLeftToRight(t *testing.T) {
	r := NewReconstructor()
	runs := []content.TextRun{
		makeRun("right", 300, 100, 40, 12),
		makeRun("left", 50, 100, 40, 12),
		makeRun("middle", 150, 100, 40, 12),
	}

	lines := r.Reconstruct(runs, model.Identity(), 612, 792)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "left middle right" {
		t.Errorf("Expected 'left middle right', got '%s'", lines[0].Text)
	}
}

func TestReconstruct_LineBoxIsUnionOfRunBoxes(t *testing.T) {
	r := NewReconstructor()
	runs := []content.TextRun{
		makeRun("a", 100, 100, 50, 10),
		makeRun("b", 200, 100, 50, 10),
	}

	lines := r.Reconstruct(runs, model.Identity(), 500, 1000)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}

	want := model.NormalizedBBox{X: 0.2, Y: 0.09, W: 0.3, H: 0.01}
	if !bboxClose(lines[0].BBox, want) {
		t.Errorf("Expected bbox %+v, got %+v", want, lines[0].BBox)
	}
}

func TestReconstruct_DropsEmptyAndWhitespaceRuns(t *testing.T) {
	r := NewReconstructor()
	runs := []content.TextRun{
		makeRun("", 100, 100, 10, 12),
		makeRun("   \t ", 120, 100, 10, 12),
		makeRun("kept", 140, 100, 30, 12),
	}

	lines := r.Reconstruct(runs, model.Identity(), 612, 792)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "kept" {
		t.Errorf("Expected 'kept', got '%s'", lines[0].Text)
	}
}

func TestReconstruct_DropsNonFiniteRuns(t *testing.T) {
	r := NewReconstructor()
	runs := []content.TextRun{
		{Text: "bad", Transform: model.Translate(math.NaN(), 100), Width: 30, Height: 12},
		makeRun("good", 100, 100, 30, 12),
	}

	lines := r.Reconstruct(runs, model.Identity(), 612, 792)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "good" {
		t.Errorf("Expected 'good', got '%s'", lines[0].Text)
	}
}

func TestReconstruct_HeightFallback(t *testing.T) {
	r := NewReconstructor()
	// No height hint and no rotation or shear: the box degrades to the
	// minimum one-pixel height.
	runs := []content.TextRun{
		{Text: "x", Transform: model.Translate(100, 100), Width: 24},
	}

	lines := r.Reconstruct(runs, model.Identity(), 200, 200)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}

	want := model.NormalizedBBox{X: 0.5, Y: 99.0 / 200, W: 24.0 / 200, H: 1.0 / 200}
	if !bboxClose(lines[0].BBox, want) {
		t.Errorf("Expected bbox %+v, got %+v", want, lines[0].BBox)
	}
}

func TestReconstruct_HeightFallbackFromRotation(t *testing.T) {
	r := NewReconstructor()
	// Rotated text without a hint takes its height from the off-diagonal
	// transform components.
	runs := []content.TextRun{
		{Text: "x", Transform: model.Matrix{0, 12, -12, 0, 100, 100}, Width: 24},
	}

	lines := r.Reconstruct(runs, model.Identity(), 200, 200)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}

	wantHeight := math.Hypot(12, -12) / 200
	if math.Abs(lines[0].BBox.H-wantHeight) > 1e-9 {
		t.Errorf("Expected height %v, got %v", wantHeight, lines[0].BBox.H)
	}
}

func TestReconstruct_AppliesViewport(t *testing.T) {
	r := NewReconstructor()
	// A flipped viewport maps user-space y=692 to pixel y=100 on a
	// 792-point page.
	viewport := model.Matrix{1, 0, 0, -1, 0, 792}
	runs := []content.TextRun{makeRun("flipped", 100, 692, 50, 10)}

	lines := r.Reconstruct(runs, viewport, 612, 792)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}

	want := model.NormalizedBBox{X: 100.0 / 612, Y: 90.0 / 792, W: 50.0 / 612, H: 10.0 / 792}
	if !bboxClose(lines[0].BBox, want) {
		t.Errorf("Expected bbox %+v, got %+v", want, lines[0].BBox)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims", "  hello  ", "hello"},
		{"collapses internal runs", "a \t\n b   c", "a b c"},
		{"empty", "   ", ""},
		{"ligature normalized", "eﬃcient", "efficient"},
		{"fullwidth digits normalized", "１２", "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CollapseWhitespace(tt.in); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

// bboxClose compares normalized boxes with a small epsilon.
func bboxClose(a, b model.NormalizedBBox) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps &&
		math.Abs(a.W-b.W) < eps && math.Abs(a.H-b.H) < eps
}
