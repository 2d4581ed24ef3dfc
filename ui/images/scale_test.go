package images

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func TestFitSize(t *testing.T) {
	cases := []struct {
		natural    image.Point
		maxW, maxH int
		want       image.Point
	}{
		{image.Pt(400, 300), 800, 600, image.Pt(400, 300)},
		{image.Pt(1600, 1200), 800, 600, image.Pt(800, 600)},
		{image.Pt(1000, 250), 500, 500, image.Pt(500, 125)},
		{image.Pt(300, 900), 600, 300, image.Pt(100, 300)},
		{image.Pt(5000, 1), 100, 100, image.Pt(100, 1)},
		{image.Pt(0, 10), 100, 100, image.Point{}},
	}
	for _, tc := range cases {
		if got := FitSize(tc.natural, tc.maxW, tc.maxH); got != tc.want {
			t.Fatalf("FitSize(%v,%d,%d)=%v want %v", tc.natural, tc.maxW, tc.maxH, got, tc.want)
		}
	}
}

func TestScaleToFit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	out := ScaleToFit(src, 50, 50)
	if out.Bounds().Dx() != 50 || out.Bounds().Dy() != 25 {
		t.Fatalf("scaled to %v", out.Bounds())
	}
	if same := ScaleToFit(src, 500, 500); same != image.Image(src) {
		t.Fatalf("image inside bounds should be returned as is")
	}
	if ScaleToFit(nil, 10, 10) != nil {
		t.Fatalf("nil source")
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(image.NewRGBA(image.Rect(0, 0, 3, 2)))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("round trip size %v", img.Bounds())
	}
	if data, err := EncodePNG(nil); data != nil || err != nil {
		t.Fatalf("nil image should encode to nil, got %d bytes err=%v", len(data), err)
	}
}

func TestEncodePNG_ReportsFailure(t *testing.T) {
	data, err := EncodePNG(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if err == nil {
		t.Fatalf("empty image encoded to %d bytes without error", len(data))
	}
	if data != nil {
		t.Fatalf("failed encode returned data")
	}
}
