// Package layout reconstructs visually coherent text lines from the
// positioned text runs of a single page.
//
// Runs are placed in page pixel space by composing the page viewport with
// each run's transform, sorted into reading order, and clustered into line
// buckets by vertical proximity. Each bucket's members are joined left to
// right into one line whose bounding box is the union of the member boxes,
// normalized to [0,1] page-relative coordinates.
package layout
