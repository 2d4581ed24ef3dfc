package app

import (
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/cellcount-go/assets"
	"github.com/soocke/cellcount-go/capture"
	"github.com/soocke/cellcount-go/config"
	"github.com/soocke/cellcount-go/debug"
	"github.com/soocke/cellcount-go/ui/layout"
	"github.com/soocke/cellcount-go/ui/theme"
	"github.com/soocke/cellcount-go/ui/view"
)

type app struct {
	title   string
	c       *AppContainer
	paths   []string
	afterID string
}

// NewApp prepares the application. paths are opened as if dropped onto the
// window once the UI is up; only the first image is kept.
func NewApp(title string, cfg *config.Config, cfgPath string, logger *slog.Logger, level *slog.LevelVar, paths []string) *app {
	a := &app{title: title, paths: paths}
	a.c = BuildContainer(cfg, cfgPath, logger, level)
	return a
}

// Start builds the window and blocks until it is closed.
func (a *app) Start() {
	c := a.c
	cfg := c.Config

	theme.InitStyles()
	App.WmTitle(a.title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", cfg.WindowW, cfg.WindowH))

	c.RootView.Build(c.Analysis.Selected(), view.Handlers{
		UploadHandlers: view.UploadHandlers{
			OnChoose:  a.chooseFile,
			OnCapture: a.captureScreen,
			OnSample:  a.loadSample,
			OnRemove:  func() { c.UploadPresenter.Remove() },
		},
		OnAnalyze:       func() { c.AnalysisPresenter.Analyze() },
		OnClassifier:    func(name string) { c.AnalysisPresenter.SelectClassifier(name) },
		OnResize:        a.resize,
		OnConfigApplied: c.ApplyConfig,
		OnExit:          a.exitHandler,
	})
	c.WirePresenters(a.scheduleUpdate)

	if cfg.Debug {
		debug.StartRuntimeLogger(c.Context(), 5*time.Second, c.Logger)
	}
	if len(a.paths) > 0 && !c.UploadPresenter.Drop(a.paths) {
		c.RootView.SetStatus(fmt.Sprintf("%s is not an image", a.paths[0]))
	}
	c.Logger.Info("ui ready", "classifier", string(c.Analysis.Selected()), "seed", cfg.Seed)

	// Kick off update loop.
	a.scheduleUpdate()

	App.Wait()
}

func (a *app) chooseFile() {
	path := a.c.RootView.ChooseFile()
	if path == "" {
		return
	}
	a.c.UploadPresenter.SelectFile(path)
}

func (a *app) loadSample() {
	a.c.UploadPresenter.LoadBytes(assets.SampleName, assets.SampleCellsPNG)
}

func (a *app) captureScreen() {
	img, err := a.c.Capture.Grab()
	if err != nil {
		a.c.Logger.Error("screen capture failed", "error", err)
		a.c.RootView.SetStatus("Screen capture failed")
		return
	}
	a.c.UploadPresenter.UseImage(fmt.Sprintf("Screen capture %s", time.Now().Format("15:04:05")), capture.Normalize(img))
}

func (a *app) resize(windowW, windowH int) {
	if a.c.PreviewPresenter == nil {
		return
	}
	w, h := layout.PreviewBounds(windowW, windowH)
	a.c.PreviewPresenter.OnResize(w, h, time.Now())
}

func (a *app) update() { a.c.Loop.Tick() }

func (a *app) exitHandler() {
	// Cancel scheduled after event if any.
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.c.Close()
	Destroy(App)
}

func (a *app) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(a.c.Config.FrameInterval(), a.update)
}
