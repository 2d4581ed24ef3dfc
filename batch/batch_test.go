package batch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chai2010/webp"

	"github.com/soocke/cellcount-go/domain/classify"
	"github.com/soocke/cellcount-go/domain/upload"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{0xf0, 0xe0, 0xea, 0xff})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestRun_WritesOverlaysAndSkipsNonImages(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	a := filepath.Join(in, "a.png")
	b := filepath.Join(in, "b.png")
	notes := filepath.Join(in, "notes.txt")
	writePNG(t, a, 160, 120)
	writePNG(t, b, 90, 60)
	if err := os.WriteFile(notes, []byte("not an image at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	results, err := Run(context.Background(), []string{a, notes, b}, Options{
		Classifier: classify.NaiveBayes,
		OutDir:     out,
		Seed:       99,
	}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results %d", len(results))
	}
	if !errors.Is(results[1].Err, upload.ErrNotImage) {
		t.Fatalf("text file err %v", results[1].Err)
	}
	profile, _ := classify.ProfileFor(classify.NaiveBayes)
	for _, i := range []int{0, 2} {
		r := results[i]
		if r.Err != nil {
			t.Fatalf("%s: %v", r.File, r.Err)
		}
		for _, c := range classify.Categories {
			if n := r.Counts.Get(c); n < profile[c].Min || n > profile[c].Max {
				t.Fatalf("%s category %v = %d", r.File, c, n)
			}
		}
		if r.Regions != r.Counts.Total() {
			t.Fatalf("regions %d total %d", r.Regions, r.Counts.Total())
		}
		f, err := os.Open(r.Out)
		if err != nil {
			t.Fatalf("open output: %v", err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode output: %v", err)
		}
		src := map[int]image.Point{0: {160, 120}, 2: {90, 60}}[i]
		if cfg.Width != src.X || cfg.Height != src.Y {
			t.Fatalf("output %dx%d, want natural size %v", cfg.Width, cfg.Height, src)
		}
		if r.Bytes <= 0 {
			t.Fatalf("bytes %d", r.Bytes)
		}
	}
}

func TestRun_SeedIsReproducible(t *testing.T) {
	in := t.TempDir()
	a := filepath.Join(in, "a.png")
	writePNG(t, a, 200, 200)
	opts := Options{Classifier: classify.KNNCubic, OutDir: t.TempDir(), Seed: 7}
	first, err := Run(context.Background(), []string{a}, opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Run(context.Background(), []string{a}, opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Counts != second[0].Counts {
		t.Fatalf("seeded runs differ: %v vs %v", first[0].Counts, second[0].Counts)
	}
}

func TestRun_WebP(t *testing.T) {
	in := t.TempDir()
	a := filepath.Join(in, "a.png")
	writePNG(t, a, 64, 48)
	res, err := Run(context.Background(), []string{a}, Options{Classifier: classify.KNNCosine, OutDir: t.TempDir(), Format: FormatWebP, Seed: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(res[0].Out)
	if err != nil {
		t.Fatal(err)
	}
	img, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode webp: %v", err)
	}
	if img.Bounds().Size() != image.Pt(64, 48) {
		t.Fatalf("size %v", img.Bounds().Size())
	}
}

func TestRun_UnknownClassifier(t *testing.T) {
	if _, err := Run(context.Background(), nil, Options{Classifier: "svm"}, nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRun_CancelledContext(t *testing.T) {
	in := t.TempDir()
	a := filepath.Join(in, "a.png")
	writePNG(t, a, 10, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, []string{a}, Options{Classifier: classify.KNNCosine, OutDir: t.TempDir()}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err %v, want context.Canceled", err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, dir string
		f       Format
		want    string
	}{
		{filepath.Join("imgs", "cells.jpeg"), "", FormatPNG, filepath.Join("imgs", "cells_overlay.png")},
		{filepath.Join("imgs", "cells.png"), "out", FormatWebP, filepath.Join("out", "cells_overlay.webp")},
		{"noext", "o", FormatPNG, filepath.Join("o", "noext_overlay.png")},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.in, tt.dir, tt.f); got != tt.want {
			t.Errorf("OutputPath(%q,%q,%q) = %q want %q", tt.in, tt.dir, tt.f, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" WebP "); err != nil || f != FormatWebP {
		t.Fatalf("got %q %v", f, err)
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Fatalf("gif accepted")
	}
}

func TestSummary(t *testing.T) {
	s := Summary(Result{File: "a.png", Out: "a_overlay.png", Counts: classify.Counts{1, 2, 3, 4}, Bytes: 2048})
	if !strings.Contains(s, "total=10") || !strings.Contains(s, "2.0 kB") {
		t.Fatalf("summary %q", s)
	}
	if s := Summary(Result{File: "x", Err: upload.ErrNotImage}); !strings.Contains(s, "skipped") {
		t.Fatalf("summary %q", s)
	}
}
