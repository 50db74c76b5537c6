// Package raster encodes decoded pixel buffers into standard image byte
// streams.
//
// The default [PNGEncoder] handles the color spaces and bit depths that
// appear in PDF image objects (1/4/8-bit grayscale, 8-bit RGB and CMYK)
// and bounds output dimensions by downscaling oversized images.
package raster
