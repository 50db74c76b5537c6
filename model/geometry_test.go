package model

import (
	"math"
	"testing"
)

func TestMatrix_Identity(t *testing.T) {
	m := Identity()

	if !m.IsIdentity() {
		t.Error("Expected Identity() to be an identity matrix")
	}

	p := m.Transform(Point{X: 3, Y: 7})
	if p.X != 3 || p.Y != 7 {
		t.Errorf("Expected (3,7), got (%v,%v)", p.X, p.Y)
	}
}

func TestMatrix_Transform(t *testing.T) {
	tests := []struct {
		name   string
		matrix Matrix
		in     Point
		want   Point
	}{
		{"translate", Translate(10, 20), Point{X: 1, Y: 2}, Point{X: 11, Y: 22}},
		{"scale", Scale(2, 3), Point{X: 4, Y: 5}, Point{X: 8, Y: 15}},
		{"flip y", Matrix{1, 0, 0, -1, 0, 100}, Point{X: 5, Y: 30}, Point{X: 5, Y: 70}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.matrix.Transform(tt.in)
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestMatrix_Multiply_Order(t *testing.T) {
	// Scale then translate: the point is scaled first.
	m := Scale(2, 2).Multiply(Translate(10, 0))

	got := m.Transform(Point{X: 3, Y: 4})
	want := Point{X: 16, Y: 8}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	// The reverse composition translates first.
	rev := Translate(10, 0).Multiply(Scale(2, 2))
	got = rev.Transform(Point{X: 3, Y: 4})
	want = Point{X: 26, Y: 8}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestMatrix_Multiply_Identity(t *testing.T) {
	m := Matrix{2, 1, 0, 3, 5, 7}

	if got := m.Multiply(Identity()); got != m {
		t.Errorf("Expected %v, got %v", m, got)
	}
	if got := Identity().Multiply(m); got != m {
		t.Errorf("Expected %v, got %v", m, got)
	}
}

func TestRectFromPoints(t *testing.T) {
	r := RectFromPoints(
		Point{X: 150, Y: 50},
		Point{X: 50, Y: 150},
		Point{X: 100, Y: 100},
	)

	want := Rect{X1: 50, Y1: 50, X2: 150, Y2: 150}
	if r != want {
		t.Errorf("Expected %+v, got %+v", want, r)
	}
}

func TestRect_Union(t *testing.T) {
	a := Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}
	b := Rect{X1: 5, Y1: -5, X2: 20, Y2: 8}

	got := a.Union(b)
	want := Rect{X1: 0, Y1: -5, X2: 20, Y2: 10}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestRect_IsFinite(t *testing.T) {
	if !(Rect{X1: 0, Y1: 0, X2: 1, Y2: 1}).IsFinite() {
		t.Error("Expected finite rect to report finite")
	}
	if (Rect{X1: math.NaN(), Y1: 0, X2: 1, Y2: 1}).IsFinite() {
		t.Error("Expected NaN rect to report non-finite")
	}
	if (Rect{X1: 0, Y1: 0, X2: math.Inf(1), Y2: 1}).IsFinite() {
		t.Error("Expected infinite rect to report non-finite")
	}
}

func TestRect_Normalize(t *testing.T) {
	r := Rect{X1: 50, Y1: 50, X2: 150, Y2: 150}
	bbox := r.Normalize(200, 200)

	want := NormalizedBBox{X: 0.25, Y: 0.25, W: 0.5, H: 0.5}
	if bbox != want {
		t.Errorf("Expected %+v, got %+v", want, bbox)
	}
}

func TestRect_Normalize_ClampsBeforeSubtracting(t *testing.T) {
	// A rect hanging off the top-left edge loses the off-page extent.
	r := Rect{X1: -100, Y1: -100, X2: 100, Y2: 100}
	bbox := r.Normalize(200, 200)

	want := NormalizedBBox{X: 0, Y: 0, W: 0.5, H: 0.5}
	if bbox != want {
		t.Errorf("Expected %+v, got %+v", want, bbox)
	}
}

func TestRect_Normalize_FullyOffPage(t *testing.T) {
	r := Rect{X1: 300, Y1: 300, X2: 400, Y2: 400}
	bbox := r.Normalize(200, 200)

	if bbox.W != 0 || bbox.H != 0 {
		t.Errorf("Expected zero extent, got %+v", bbox)
	}
	if bbox.X != 1 || bbox.Y != 1 {
		t.Errorf("Expected clamped origin (1,1), got (%v,%v)", bbox.X, bbox.Y)
	}
}

func TestNormalizedBBox_CenterY(t *testing.T) {
	b := NormalizedBBox{X: 0.1, Y: 0.2, W: 0.3, H: 0.4}
	if got := b.CenterY(); got != 0.4 {
		t.Errorf("Expected 0.4, got %v", got)
	}
}
