package capture

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"
)

// Source produces an image to analyze.
type Source interface {
	Grab() (*image.RGBA, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (*image.RGBA, error)

func (f SourceFunc) Grab() (*image.RGBA, error) { return f() }

// Screen captures the primary monitor, or only Rect when it is non-empty.
type Screen struct {
	Rect image.Rectangle
}

// Grab returns a screen capture of the configured area.
func (s Screen) Grab() (*image.RGBA, error) {
	if s.Rect.Empty() {
		img, err := screenshot.CaptureScreen()
		if err != nil {
			return nil, fmt.Errorf("capture screen: %w", err)
		}
		return img, nil
	}
	bounds, err := screenshot.ScreenRect()
	if err != nil {
		return nil, fmt.Errorf("screen bounds: %w", err)
	}
	r := s.Rect.Intersect(bounds)
	if r.Empty() {
		return nil, fmt.Errorf("capture area %v outside screen %v", s.Rect, bounds)
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, fmt.Errorf("capture %v: %w", r, err)
	}
	return img, nil
}

// Normalize returns img translated so its bounds start at the origin, which
// is what the preview and the region generator expect.
func Normalize(img *image.RGBA) *image.RGBA {
	if img == nil || img.Rect.Min == (image.Point{}) {
		return img
	}
	out := *img
	out.Rect = image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy())
	return &out
}
