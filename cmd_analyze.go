package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/soocke/cellcount-go/batch"
	"github.com/soocke/cellcount-go/domain/classify"
)

var (
	analyzeClassifier string
	analyzeOut        string
	analyzeFormat     string
	analyzeDelay      bool
	analyzeWorkers    int
)

// analyzeCmd runs the pipeline without opening a window.
var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE...",
	Short: "Classify images and write overlay composites",
	Long: `Runs every FILE through the mock classifier, places one shape per
counted cell and writes <name>_overlay.<format> next to the input or into
--out. Files that are not images are reported and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeClassifier, "classifier", "", "knn-cosine, knn-cubic or naive-bayes (default from config)")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "output directory (default: next to each input)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", string(batch.FormatPNG), "output format: png or webp")
	analyzeCmd.Flags().BoolVar(&analyzeDelay, "delay", false, "emulate classifier latency from config")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 4, "files processed concurrently")
}

var errSkipped = errors.New("some files were skipped")

func runAnalyze(cmd *cobra.Command, args []string) error {
	level := new(slog.LevelVar)
	logger := NewLogger(level)
	cfg := loadConfig(cmd, logger)
	if cfg.Debug {
		level.Set(slog.LevelDebug)
	}

	id := cfg.Classifier()
	if analyzeClassifier != "" {
		parsed, ok := classify.ParseClassifier(analyzeClassifier)
		if !ok {
			return fmt.Errorf("unknown classifier %q", analyzeClassifier)
		}
		id = parsed
	}
	format, err := batch.ParseFormat(analyzeFormat)
	if err != nil {
		return err
	}
	opts := batch.Options{
		Classifier: id,
		OutDir:     analyzeOut,
		Format:     format,
		Workers:    analyzeWorkers,
		Seed:       cfg.Seed,
	}
	if analyzeDelay {
		opts.MinDelay, opts.MaxDelay = cfg.MinDelay(), cfg.MaxDelay()
	}

	results, err := batch.Run(cmd.Context(), args, opts, logger)
	out := cmd.OutOrStdout()
	skipped := 0
	for _, r := range results {
		if r.File == "" {
			continue
		}
		if r.Err != nil {
			skipped++
		}
		fmt.Fprintln(out, batch.Summary(r))
	}
	if err != nil {
		return err
	}
	if skipped > 0 {
		return fmt.Errorf("%d of %d: %w", skipped, len(args), errSkipped)
	}
	return nil
}
