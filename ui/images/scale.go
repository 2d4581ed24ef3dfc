package images

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// EncodePNG encodes an image to PNG bytes for Tk photo images. A nil image
// encodes to nil.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := pngEncoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// FitSize returns the largest size with the aspect ratio of natural that fits
// within maxW x maxH. Images already inside the bounds keep their size.
func FitSize(natural image.Point, maxW, maxH int) image.Point {
	w, h := natural.X, natural.Y
	if w <= 0 || h <= 0 {
		return image.Point{}
	}
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}
	if w <= maxW && h <= maxH {
		return natural
	}
	ratio := float64(maxW) / float64(w)
	if r := float64(maxH) / float64(h); r < ratio {
		ratio = r
	}
	newW := int(float64(w)*ratio + 0.5)
	newH := int(float64(h)*ratio + 0.5)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return image.Pt(newW, newH)
}

// ScaleTo resizes src to exactly size. A matching size returns src itself.
func ScaleTo(src image.Image, size image.Point) image.Image {
	if src == nil || size.X <= 0 || size.Y <= 0 {
		return nil
	}
	if src.Bounds().Size() == size {
		return src
	}
	return imaging.Resize(src, size.X, size.Y, imaging.Linear)
}

// ScaleToFit scales src to fit within maxW x maxH preserving aspect ratio.
func ScaleToFit(src image.Image, maxW, maxH int) image.Image {
	if src == nil {
		return nil
	}
	return ScaleTo(src, FitSize(src.Bounds().Size(), maxW, maxH))
}
