package model

import "math"

// Point represents a 2D point.
type Point struct {
	X, Y float64
}

// Matrix represents a 2D affine transformation matrix in PDF order
// [a b c d e f].
type Matrix [6]float64

// Identity returns an identity matrix.
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Transform applies the matrix transformation to a point.
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Multiply multiplies two matrices. Applying the result to a point is
// equivalent to applying m first and then other.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Translate creates a translation matrix.
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale creates a scaling matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// IsIdentity returns true if the matrix is an identity matrix.
func (m Matrix) IsIdentity() bool {
	return m[0] == 1 && m[1] == 0 && m[2] == 0 && m[3] == 1 && m[4] == 0 && m[5] == 0
}

// Rect is an axis-aligned box in page pixel space with a top-left origin.
// X1,Y1 is the top-left corner and X2,Y2 the bottom-right corner.
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// RectFromPoints returns the smallest Rect covering all given points.
func RectFromPoints(pts ...Point) Rect {
	r := Rect{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		r.X1 = math.Min(r.X1, p.X)
		r.Y1 = math.Min(r.Y1, p.Y)
		r.X2 = math.Max(r.X2, p.X)
		r.Y2 = math.Max(r.Y2, p.Y)
	}
	return r
}

// Union returns the smallest Rect covering both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		X1: math.Min(r.X1, other.X1),
		Y1: math.Min(r.Y1, other.Y1),
		X2: math.Max(r.X2, other.X2),
		Y2: math.Max(r.Y2, other.Y2),
	}
}

// IsFinite reports whether all four coordinates are finite numbers.
func (r Rect) IsFinite() bool {
	for _, v := range [4]float64{r.X1, r.Y1, r.X2, r.Y2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Normalize converts the pixel-space rect into a page-relative bounding box
// with every coordinate in [0,1]. Each corner coordinate is clamped
// independently before the width and height are derived; a box partly
// outside the page therefore loses the off-page portion of its extent.
// Callers depend on this exact order.
func (r Rect) Normalize(pageWidth, pageHeight float64) NormalizedBBox {
	x1 := clamp01(r.X1 / pageWidth)
	y1 := clamp01(r.Y1 / pageHeight)
	x2 := clamp01(r.X2 / pageWidth)
	y2 := clamp01(r.Y2 / pageHeight)

	return NormalizedBBox{
		X: x1,
		Y: y1,
		W: x2 - x1,
		H: y2 - y1,
	}
}

// clamp01 clamps v to the [0,1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
