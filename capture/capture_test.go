package capture

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNormalize_ShiftsBoundsKeepsPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 20, 14, 23))
	img.Set(10, 20, color.RGBA{R: 9, A: 255})
	out := Normalize(img)
	if out.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds %v", out.Bounds())
	}
	if r, _, _, _ := out.At(0, 0).RGBA(); r>>8 != 9 {
		t.Fatalf("pixel moved: r=%d", r>>8)
	}
	if img.Bounds().Min != image.Pt(10, 20) {
		t.Fatalf("input mutated")
	}
}

func TestNormalize_OriginUntouched(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if Normalize(img) != img {
		t.Fatalf("origin image should be returned as is")
	}
	if Normalize(nil) != nil {
		t.Fatalf("nil in, nil out")
	}
}

func TestSourceFunc(t *testing.T) {
	want := errors.New("no display")
	var src Source = SourceFunc(func() (*image.RGBA, error) { return nil, want })
	if _, err := src.Grab(); !errors.Is(err, want) {
		t.Fatalf("err %v", err)
	}
}
