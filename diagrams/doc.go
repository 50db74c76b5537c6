// Package diagrams extracts embedded raster images from a page's
// drawing-operator stream.
//
// The extractor replays save/restore/transform operators against an
// explicit transform stack, so each paint operator sees the current
// transformation matrix in effect at its point in the stream. Painted
// images are encoded to PNG, persisted under a deterministic storage key,
// and associated with the nearest reconstructed text line by vertical
// center distance.
package diagrams
