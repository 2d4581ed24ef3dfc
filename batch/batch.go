// Package batch runs the analysis pipeline without a display: sniff, decode,
// classify, place regions, render the overlay at natural size and save the
// composite.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/soocke/cellcount-go/domain/classify"
	"github.com/soocke/cellcount-go/domain/overlay"
	"github.com/soocke/cellcount-go/domain/regions"
	"github.com/soocke/cellcount-go/domain/upload"
)

// Format names an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ParseFormat accepts "png" or "webp" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatWebP:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q (want png or webp)", s)
}

// Options configure a batch run.
type Options struct {
	Classifier classify.ClassifierID
	OutDir     string
	Format     Format
	// Workers bounds concurrent files; <= 0 means 4.
	Workers int
	// MinDelay/MaxDelay emulate classifier latency; zero disables it.
	MinDelay, MaxDelay time.Duration
	// Seed makes every file's result reproducible; zero picks random seeds.
	Seed uint64
}

// Result describes one processed file. Err is set for files that were
// skipped (not an image, undecodable).
type Result struct {
	File    string
	Out     string
	Counts  classify.Counts
	Regions int
	Bytes   int64
	Err     error
}

// Run processes files concurrently. Per-file failures are reported in the
// results; write failures and cancellation abort the run.
func Run(ctx context.Context, files []string, opts Options, logger *slog.Logger) ([]Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Format == "" {
		opts.Format = FormatPNG
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if _, ok := classify.ProfileFor(opts.Classifier); !ok {
		return nil, fmt.Errorf("unknown classifier %q", opts.Classifier)
	}
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, file := range files {
		g.Go(func() error {
			res, err := processFile(gctx, i, file, opts)
			results[i] = res
			if err != nil {
				return err
			}
			if res.Err != nil {
				logger.Warn("file skipped", "file", file, "error", res.Err)
				return nil
			}
			logger.Debug("file analyzed", "file", file, "out", res.Out, "total", res.Counts.Total())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func processFile(ctx context.Context, index int, path string, opts Options) (Result, error) {
	res := Result{File: path}
	f, err := upload.Open(path)
	if err != nil {
		res.Err = err
		return res, nil
	}
	img, err := f.Decode()
	if err != nil {
		res.Err = err
		return res, nil
	}

	clsOpts := []classify.MockOption{classify.WithDelay(opts.MinDelay, opts.MaxDelay)}
	var genSrc rand.Source
	if opts.Seed != 0 {
		seed := opts.Seed + uint64(index)
		clsOpts = append(clsOpts, classify.WithSource(rand.NewPCG(seed, 1)))
		genSrc = rand.NewPCG(seed, 2)
	}
	counts, err := classify.NewMockClassifier(clsOpts...).Classify(ctx, img, opts.Classifier)
	if err != nil {
		return res, fmt.Errorf("classify %s: %w", path, err)
	}
	res.Counts = counts

	size := img.Bounds().Size()
	rs := regions.NewRandomGenerator(genSrc).Generate(float64(size.X), float64(size.Y), counts)
	res.Regions = len(rs)
	composed := overlay.Composite(img, overlay.Render(rs, size, size))

	res.Out = OutputPath(path, opts.OutDir, opts.Format)
	n, err := save(res.Out, composed, opts.Format)
	if err != nil {
		return res, fmt.Errorf("write %s: %w", res.Out, err)
	}
	res.Bytes = n
	return res, nil
}

// Summary formats one line per result for the terminal.
func Summary(r Result) string {
	if r.Err != nil {
		return fmt.Sprintf("%s: skipped: %v", r.File, r.Err)
	}
	return fmt.Sprintf("%s: A=%d B=%d C=%d D=%d total=%d -> %s (%s)",
		r.File, r.Counts[classify.CategoryA], r.Counts[classify.CategoryB], r.Counts[classify.CategoryC], r.Counts[classify.CategoryD],
		r.Counts.Total(), r.Out, humanize.Bytes(uint64(r.Bytes)))
}

// OutputPath derives the overlay file name for input, placed in outDir or
// next to the input when outDir is empty.
func OutputPath(input, outDir string, format Format) string {
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+"_overlay."+string(format))
}

func save(path string, img image.Image, format Format) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	cw := &countingWriter{w: f}
	switch format {
	case FormatWebP:
		err = webp.Encode(cw, img, &webp.Options{Lossless: true})
	default:
		err = imaging.Encode(cw, img, imaging.PNG)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, errors.Join(err, os.Remove(path))
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
