package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/examine-dev/examine/content"
)

// Encoder turns raw pixel data into an encoded raster byte stream.
type Encoder interface {
	EncodePNG(img *content.RawImage) ([]byte, error)
}

// PNGEncoder encodes raw pixel buffers as PNG. Images whose largest
// dimension exceeds MaxDim are downscaled before encoding so stored
// diagrams stay bounded.
type PNGEncoder struct {
	// MaxDim is the largest allowed output dimension in pixels.
	// Zero disables downscaling.
	MaxDim int
}

// DefaultMaxDim is the default pixel bound for stored diagrams.
const DefaultMaxDim = 2048

// NewPNGEncoder creates a PNG encoder with the default dimension bound.
func NewPNGEncoder() *PNGEncoder {
	return &PNGEncoder{MaxDim: DefaultMaxDim}
}

// EncodePNG converts the raw pixel buffer to a PNG byte stream.
func (e *PNGEncoder) EncodePNG(img *content.RawImage) ([]byte, error) {
	goImg, err := toImage(img)
	if err != nil {
		return nil, err
	}

	if e.MaxDim > 0 {
		goImg = downscale(goImg, e.MaxDim)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, goImg); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// downscale shrinks img so that neither dimension exceeds maxDim,
// preserving aspect ratio. Images already within the bound pass through.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}

	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}

// toImage converts raw pixel data to a Go image based on color space and
// bit depth.
func toImage(img *content.RawImage) (image.Image, error) {
	switch img.ColorSpace {
	case "DeviceRGB", "CalRGB":
		return toRGBImage(img)
	case "DeviceCMYK":
		return toCMYKImage(img)
	default:
		// DeviceGray, CalGray and unknown spaces are treated as
		// grayscale.
		return toGrayImage(img)
	}
}

// toGrayImage converts grayscale pixel data to an image.Gray.
func toGrayImage(img *content.RawImage) (*image.Gray, error) {
	switch img.BitsPerComponent {
	case 1:
		return toBilevelGray(img)
	case 4:
		return to4BitGray(img)
	case 8:
		goImg := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
		expected := img.Width * img.Height
		if len(img.Data) < expected {
			return nil, fmt.Errorf("insufficient gray data: got %d, expected %d", len(img.Data), expected)
		}
		copy(goImg.Pix, img.Data[:expected])
		return goImg, nil
	default:
		return nil, fmt.Errorf("unsupported bits per component: %d", img.BitsPerComponent)
	}
}

// toBilevelGray converts 1-bit bi-level data to 8-bit grayscale.
func toBilevelGray(img *content.RawImage) (*image.Gray, error) {
	goImg := image.NewGray(image.Rect(0, 0, img.Width, img.Height))

	bytesPerRow := (img.Width + 7) / 8
	expected := bytesPerRow * img.Height
	if len(img.Data) < expected {
		return nil, fmt.Errorf("insufficient 1-bit data: got %d, expected %d", len(img.Data), expected)
	}

	for y := 0; y < img.Height; y++ {
		rowStart := y * bytesPerRow
		for x := 0; x < img.Width; x++ {
			bit := (img.Data[rowStart+x/8] >> (7 - x%8)) & 1
			if bit == 0 {
				goImg.Pix[y*img.Width+x] = 0
			} else {
				goImg.Pix[y*img.Width+x] = 255
			}
		}
	}

	return goImg, nil
}

// to4BitGray converts 4-bit grayscale data to 8-bit grayscale.
func to4BitGray(img *content.RawImage) (*image.Gray, error) {
	goImg := image.NewGray(image.Rect(0, 0, img.Width, img.Height))

	bytesPerRow := (img.Width + 1) / 2
	expected := bytesPerRow * img.Height
	if len(img.Data) < expected {
		return nil, fmt.Errorf("insufficient 4-bit data: got %d, expected %d", len(img.Data), expected)
	}

	for y := 0; y < img.Height; y++ {
		rowStart := y * bytesPerRow
		for x := 0; x < img.Width; x++ {
			var nibble byte
			if x%2 == 0 {
				nibble = (img.Data[rowStart+x/2] >> 4) & 0x0F
			} else {
				nibble = img.Data[rowStart+x/2] & 0x0F
			}
			goImg.Pix[y*img.Width+x] = nibble * 17 // scale 0-15 to 0-255
		}
	}

	return goImg, nil
}

// toRGBImage converts 8-bit RGB pixel data to an image.RGBA.
func toRGBImage(img *content.RawImage) (*image.RGBA, error) {
	if img.BitsPerComponent != 8 {
		return nil, fmt.Errorf("unsupported bits per component for RGB: %d", img.BitsPerComponent)
	}

	goImg := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))

	expected := img.Width * img.Height * 3
	if len(img.Data) < expected {
		return nil, fmt.Errorf("insufficient RGB data: got %d, expected %d", len(img.Data), expected)
	}

	for i := 0; i < img.Width*img.Height; i++ {
		goImg.Pix[i*4+0] = img.Data[i*3+0]
		goImg.Pix[i*4+1] = img.Data[i*3+1]
		goImg.Pix[i*4+2] = img.Data[i*3+2]
		goImg.Pix[i*4+3] = 255
	}

	return goImg, nil
}

// toCMYKImage converts 8-bit CMYK pixel data to an image.RGBA.
func toCMYKImage(img *content.RawImage) (*image.RGBA, error) {
	if img.BitsPerComponent != 8 {
		return nil, fmt.Errorf("unsupported bits per component for CMYK: %d", img.BitsPerComponent)
	}

	goImg := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))

	expected := img.Width * img.Height * 4
	if len(img.Data) < expected {
		return nil, fmt.Errorf("insufficient CMYK data: got %d, expected %d", len(img.Data), expected)
	}

	for i := 0; i < img.Width*img.Height; i++ {
		r, g, b := color.CMYKToRGB(img.Data[i*4+0], img.Data[i*4+1], img.Data[i*4+2], img.Data[i*4+3])
		goImg.Pix[i*4+0] = r
		goImg.Pix[i*4+1] = g
		goImg.Pix[i*4+2] = b
		goImg.Pix[i*4+3] = 255
	}

	return goImg, nil
}
