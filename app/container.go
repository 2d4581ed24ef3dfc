package app

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/soocke/cellcount-go/capture"
	"github.com/soocke/cellcount-go/config"
	"github.com/soocke/cellcount-go/domain/animate"
	"github.com/soocke/cellcount-go/domain/classify"
	"github.com/soocke/cellcount-go/domain/regions"
	"github.com/soocke/cellcount-go/ui/model"
	"github.com/soocke/cellcount-go/ui/presenter"
	"github.com/soocke/cellcount-go/ui/view"
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger
	Level      *slog.LevelVar

	Uploads    *model.UploadModel
	Analysis   *model.AnalysisModel
	Classifier *classify.MockClassifier
	Generator  *regions.RandomGenerator
	Animator   *animate.Animator
	Capture    capture.Source
	RootView   *view.RootView

	// Presenters
	UploadPresenter   *presenter.UploadPresenter
	AnalysisPresenter *presenter.AnalysisPresenter
	PreviewPresenter  *presenter.PreviewPresenter
	Loop              *presenter.Loop

	ctx    context.Context
	cancel context.CancelFunc
}

// BuildContainer constructs all non-UI components. Presenters are wired by
// WirePresenters once the view has been built.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger, level *slog.LevelVar) *AppContainer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &AppContainer{Config: cfg, ConfigPath: cfgPath, Logger: logger, Level: level}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.Uploads = model.NewUploadModel()
	c.Analysis = model.NewAnalysisModel(cfg.Classifier())
	clsOpts := []classify.MockOption{classify.WithDelay(cfg.MinDelay(), cfg.MaxDelay())}
	var genSrc rand.Source
	if cfg.Seed != 0 {
		clsOpts = append(clsOpts, classify.WithSource(rand.NewPCG(cfg.Seed, 1)))
		genSrc = rand.NewPCG(cfg.Seed, 2)
	}
	c.Classifier = classify.NewMockClassifier(clsOpts...)
	c.Generator = regions.NewRandomGenerator(genSrc)
	c.Animator = animate.NewAnimator(cfg.Animation())
	c.Capture = capture.Screen{}
	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	return c
}

// WirePresenters connects the presenters to the built view.
func (c *AppContainer) WirePresenters(schedule func()) {
	c.PreviewPresenter = presenter.NewPreviewPresenter(c.RootView, c.Config.PreviewMaxW, c.Config.PreviewMaxH, c.Config.ResizeDebounce(), c.Logger)
	c.AnalysisPresenter = presenter.NewAnalysisPresenter(presenter.AnalysisDeps{
		Model:      c.Analysis,
		Uploads:    c.Uploads,
		View:       c.RootView,
		Drawer:     c.PreviewPresenter,
		Classifier: c.Classifier,
		Generator:  c.Generator,
		Animator:   c.Animator,
		Logger:     c.Logger,
		Context:    c.ctx,
	})
	c.UploadPresenter = presenter.NewUploadPresenter(c.Uploads, c.RootView, c.Logger, c.PreviewPresenter, c.AnalysisPresenter)
	c.UploadPresenter.SetContext(c.ctx)
	c.Loop = presenter.NewLoop(c.UploadPresenter, c.AnalysisPresenter, c.PreviewPresenter, schedule)
}

// ApplyConfig pushes edited settings into the running components.
func (c *AppContainer) ApplyConfig(cfg *config.Config) {
	c.Classifier.SetDelay(cfg.MinDelay(), cfg.MaxDelay())
	c.Animator.SetDuration(cfg.Animation())
	if c.Level != nil {
		if cfg.Debug {
			c.Level.Set(slog.LevelDebug)
		} else {
			c.Level.Set(slog.LevelInfo)
		}
	}
	c.Logger.Info("settings applied", "min_delay", cfg.MinDelay(), "max_delay", cfg.MaxDelay(), "animation", cfg.Animation())
}

// Context is cancelled on Close.
func (c *AppContainer) Context() context.Context { return c.ctx }

// Close stops outstanding background work.
func (c *AppContainer) Close() { c.cancel() }
