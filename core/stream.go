package core

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// ErrUnsupportedFilter is returned when a stream uses a filter this reader
// cannot decode. Callers treat the stream's content as unavailable.
var ErrUnsupportedFilter = errors.New("unsupported stream filter")

// Decode applies the stream's filter chain and returns the decoded data.
// Only FlateDecode (with optional PNG predictors) is supported; other
// filters yield ErrUnsupportedFilter.
func (s *Stream) Decode() ([]byte, error) {
	filters, parms := s.filterChain()
	if len(filters) == 0 {
		return s.Raw, nil
	}

	data := s.Raw
	for i, filter := range filters {
		var p Dict
		if i < len(parms) {
			p = parms[i]
		}

		switch filter {
		case "FlateDecode", "Fl":
			decoded, err := flateDecode(data, p)
			if err != nil {
				return nil, fmt.Errorf("FlateDecode: %w", err)
			}
			data = decoded
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFilter, filter)
		}
	}

	return data, nil
}

// filterChain normalizes the Filter and DecodeParms entries into parallel
// slices.
func (s *Stream) filterChain() ([]string, []Dict) {
	var filters []string
	switch f := s.Dict.Get("Filter").(type) {
	case Name:
		filters = []string{string(f)}
	case Array:
		for _, obj := range f {
			if name, ok := obj.(Name); ok {
				filters = append(filters, string(name))
			}
		}
	}

	var parms []Dict
	switch p := s.Dict.Get("DecodeParms").(type) {
	case Dict:
		parms = []Dict{p}
	case Array:
		for _, obj := range p {
			d, _ := obj.(Dict)
			parms = append(parms, d)
		}
	}

	return filters, parms
}

// flateDecode inflates zlib- or raw-deflate-compressed data and reverses
// any PNG predictor.
func flateDecode(data []byte, parms Dict) ([]byte, error) {
	var out []byte

	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err == nil {
		out, err = io.ReadAll(zr)
		zr.Close()
		if err != nil && len(out) == 0 {
			return nil, err
		}
	} else {
		// Some writers omit the zlib header.
		fr := flate.NewReader(bytes.NewReader(data))
		out, err = io.ReadAll(fr)
		fr.Close()
		if err != nil && len(out) == 0 {
			return nil, err
		}
	}

	predictor := 1
	if parms != nil {
		if p, ok := parms.GetInt("Predictor"); ok {
			predictor = int(p)
		}
	}
	if predictor <= 1 {
		return out, nil
	}
	if predictor < 10 {
		return nil, fmt.Errorf("%w: predictor %d", ErrUnsupportedFilter, predictor)
	}

	columns, colors, bpc := 1, 1, 8
	if v, ok := parms.GetInt("Columns"); ok {
		columns = int(v)
	}
	if v, ok := parms.GetInt("Colors"); ok {
		colors = int(v)
	}
	if v, ok := parms.GetInt("BitsPerComponent"); ok {
		bpc = int(v)
	}

	return pngUnpredict(out, columns, colors, bpc)
}

// pngUnpredict reverses PNG row predictors (filter types 0-4).
func pngUnpredict(data []byte, columns, colors, bpc int) ([]byte, error) {
	bytesPerPixel := (colors*bpc + 7) / 8
	rowLength := (columns*colors*bpc + 7) / 8
	stride := rowLength + 1 // one filter-type byte per row

	if rowLength <= 0 || len(data)%stride != 0 {
		return nil, fmt.Errorf("predictor data length %d does not fit rows of %d", len(data), stride)
	}

	rows := len(data) / stride
	out := make([]byte, 0, rows*rowLength)
	prev := make([]byte, rowLength)

	for r := 0; r < rows; r++ {
		ft := data[r*stride]
		row := make([]byte, rowLength)
		copy(row, data[r*stride+1:(r+1)*stride])

		switch ft {
		case 0: // None
		case 1: // Sub
			for i := bytesPerPixel; i < rowLength; i++ {
				row[i] += row[i-bytesPerPixel]
			}
		case 2: // Up
			for i := 0; i < rowLength; i++ {
				row[i] += prev[i]
			}
		case 3: // Average
			for i := 0; i < rowLength; i++ {
				left := 0
				if i >= bytesPerPixel {
					left = int(row[i-bytesPerPixel])
				}
				row[i] += byte((left + int(prev[i])) / 2)
			}
		case 4: // Paeth
			for i := 0; i < rowLength; i++ {
				var left, upLeft byte
				if i >= bytesPerPixel {
					left = row[i-bytesPerPixel]
					upLeft = prev[i-bytesPerPixel]
				}
				row[i] += paeth(left, prev[i], upLeft)
			}
		default:
			return nil, fmt.Errorf("unknown PNG filter type %d", ft)
		}

		out = append(out, row...)
		copy(prev, row)
	}

	return out, nil
}

// paeth is the PNG Paeth predictor function.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
