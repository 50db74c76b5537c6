package reader

import (
	"github.com/examine-dev/examine/content"
	"github.com/examine-dev/examine/core"
)

// resolveImage resolves a named image XObject into raw pixel data. It
// returns nil for unknown names, non-image XObjects and streams whose
// filters cannot be decoded; the caller skips the paint in those cases.
func (d *Document) resolveImage(resources core.Dict, name string) *content.RawImage {
	if resources == nil {
		return nil
	}

	xobjects, err := d.resolveDict(resources.Get("XObject"))
	if err != nil {
		return nil
	}

	resolved, err := d.resolve(xobjects.Get(name))
	if err != nil {
		return nil
	}
	stream, ok := resolved.(*core.Stream)
	if !ok {
		return nil
	}

	if subtype, _ := stream.Dict.GetName("Subtype"); subtype != "Image" {
		return nil
	}

	width, okW := stream.Dict.GetInt("Width")
	height, okH := stream.Dict.GetInt("Height")
	if !okW || !okH || width <= 0 || height <= 0 {
		return nil
	}

	bpc := 8
	if v, ok := stream.Dict.GetInt("BitsPerComponent"); ok {
		bpc = int(v)
	}

	data, err := stream.Decode()
	if err != nil {
		// DCT, JPX, CCITT and friends land here.
		return nil
	}

	return &content.RawImage{
		Width:            int(width),
		Height:           int(height),
		ColorSpace:       d.colorSpaceName(stream.Dict.Get("ColorSpace")),
		BitsPerComponent: bpc,
		Data:             data,
	}
}

// colorSpaceName resolves a color space object to its family name.
func (d *Document) colorSpaceName(obj core.Object) string {
	resolved, err := d.resolve(obj)
	if err != nil {
		return "DeviceGray"
	}

	switch v := resolved.(type) {
	case core.Name:
		return string(v)
	case core.Array:
		if len(v) == 0 {
			break
		}
		name, ok := v[0].(core.Name)
		if !ok {
			break
		}
		// Indexed spaces report their base family.
		if name == "Indexed" && len(v) > 1 {
			return d.colorSpaceName(v[1])
		}
		return string(name)
	}

	return "DeviceGray"
}

// inlineImage converts a BI..EI parameter dictionary and raw data into
// pixel data. Filtered inline images are not decoded and yield nil.
func inlineImage(dict core.Dict, data []byte) *content.RawImage {
	if dict == nil || len(data) == 0 {
		return nil
	}

	// Inline images with filters (abbreviated or full names) are
	// skipped rather than decoded.
	if dict.Has("F") || dict.Has("Filter") {
		return nil
	}

	width, okW := inlineInt(dict, "W", "Width")
	height, okH := inlineInt(dict, "H", "Height")
	if !okW || !okH || width <= 0 || height <= 0 {
		return nil
	}

	bpc, ok := inlineInt(dict, "BPC", "BitsPerComponent")
	if !ok {
		bpc = 8
	}

	return &content.RawImage{
		Width:            width,
		Height:           height,
		ColorSpace:       inlineColorSpace(dict),
		BitsPerComponent: bpc,
		Data:             data,
	}
}

// inlineInt reads an integer entry under its abbreviated or full key.
func inlineInt(dict core.Dict, abbrev, full string) (int, bool) {
	if v, ok := dict.GetInt(abbrev); ok {
		return int(v), true
	}
	if v, ok := dict.GetInt(full); ok {
		return int(v), true
	}
	return 0, false
}

// inlineColorSpace maps inline color space abbreviations to family names.
func inlineColorSpace(dict core.Dict) string {
	name, ok := dict.GetName("CS")
	if !ok {
		name, ok = dict.GetName("ColorSpace")
	}
	if !ok {
		return "DeviceGray"
	}

	switch name {
	case "G":
		return "DeviceGray"
	case "RGB":
		return "DeviceRGB"
	case "CMYK":
		return "DeviceCMYK"
	default:
		return string(name)
	}
}
