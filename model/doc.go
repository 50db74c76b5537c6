// Package model provides the data structures for extracted exam-paper
// content.
//
// The extraction pipeline produces a [ParsedResult]: per-page text lines
// and diagrams with normalized bounding boxes, plus the question records
// segmented from the full line set. These types are the primary API for
// consuming extraction output and are intended to be serialized as JSON.
//
// # Geometry
//
// Geometric primitives support the coordinate work done during extraction:
//
//   - [Point] - 2D point
//   - [Matrix] - 2D affine transformation matrix in PDF order
//   - [Rect] - pixel-space box with top-left origin
//   - [NormalizedBBox] - page-relative box with all fields in [0,1]
package model
