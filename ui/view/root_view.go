package view

import (
	"image"
	"log/slog"
	"strconv"

	"github.com/soocke/cellcount-go/config"
	"github.com/soocke/cellcount-go/domain/animate"
	"github.com/soocke/cellcount-go/domain/classify"
	"github.com/soocke/cellcount-go/ui/layout"
	"github.com/soocke/cellcount-go/ui/presenter"
	"github.com/soocke/cellcount-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level application layout and wires UI callbacks.
// It owns the subviews and implements every presenter view contract by
// delegating to them.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Upload  UploadPanel
	Preview PreviewPanel
	Results ResultsPanel
	Config  ConfigPanel

	// Widgets
	ClassifierSelect *TComboboxWidget
	analyzeBtn       *TButtonWidget
	statusLabel      *TLabelWidget
}

var (
	_ presenter.UploadView   = (*RootView)(nil)
	_ presenter.AnalysisView = (*RootView)(nil)
	_ presenter.PreviewView  = (*RootView)(nil)
)

// Handlers are invoked on user actions, always on the Tk thread.
type Handlers struct {
	UploadHandlers
	OnAnalyze       func()
	OnClassifier    func(name string)
	OnResize        func(windowW, windowH int)
	OnConfigApplied func(*config.Config)
	OnExit          func()
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout with selected preselected in the classifier
// dropdown.
func (rv *RootView) Build(selected classify.ClassifierID, h Handlers) {
	if rv == nil {
		return
	}
	GridColumnConfigure(App, 1, Weight(1))
	GridRowConfigure(App, 0, Weight(1))

	sidebar := Frame(Borderwidth(1), Relief("groove"))
	Grid(sidebar, Row(0), Column(0), Rowspan(2), Sticky("nsew"), Padx("1m"), Pady("1m"))

	var row int
	rv.Upload, row = NewUploadPanel(sidebar, 0, h.UploadHandlers)

	heading := sidebar.TLabel(Txt("Classifier"), Style(theme.StyleHeadingLabel))
	Grid(heading, In(sidebar), Row(row), Column(0), Columnspan(2), Sticky("w"))
	row++
	names := make([]string, len(classify.Classifiers))
	current := 0
	for i, id := range classify.Classifiers {
		names[i] = id.DisplayName()
		if id == selected {
			current = i
		}
	}
	rv.ClassifierSelect = sidebar.TCombobox(Values(names), Width(22), State("readonly"))
	Grid(rv.ClassifierSelect, In(sidebar), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.ClassifierSelect.Current(current)
	Bind(rv.ClassifierSelect, "<<ComboboxSelected>>", Command(func() {
		idxStr := rv.ClassifierSelect.Current(nil)
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 0 || idx >= len(names) {
			if rv.logger != nil {
				rv.logger.Error("classifier selection parse error", "error", err, "index", idxStr)
			}
			return
		}
		if h.OnClassifier != nil {
			h.OnClassifier(names[idx])
		}
	}))
	row++
	rv.analyzeBtn = sidebar.TButton(Txt("Analyze"), Style(theme.StylePrimaryButton), Command(h.OnAnalyze))
	Grid(rv.analyzeBtn, In(sidebar), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.2m"), Pady("0.6m"))
	row++

	rv.Config = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.OnConfigApplied)
	row = rv.Config.Build(sidebar, row)

	exitBtn := sidebar.TButton(Txt("Exit"), Command(h.OnExit))
	Grid(exitBtn, In(sidebar), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.2m"), Pady("0.6m"))

	rv.Preview = NewPreviewPanel(0, 1, rv.logger)
	rv.Results = NewResultsPanel(2, 2)

	rv.statusLabel = TLabel(Txt(""), Style(theme.StyleMutedLabel))
	Grid(rv.statusLabel, Row(3), Column(0), Columnspan(2), Sticky("we"), Padx("1m"))

	Bind(App, "<Configure>", Command(func() {
		if h.OnResize == nil {
			return
		}
		if g, ok := layout.ParseGeometry(WmGeometry(App)); ok {
			h.OnResize(g.Dx(), g.Dy())
		}
	}))
}

// ChooseFile opens the native file dialog and returns the chosen path, or
// "" when cancelled.
func (rv *RootView) ChooseFile() string {
	files := GetOpenFile(
		Title("Choose an image"),
		Filetypes([]FileType{
			{TypeName: "Images", Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".tif", ".tiff"}},
			{TypeName: "All files", Extensions: []string{"*"}},
		}),
	)
	for _, f := range files {
		if f != "" {
			return f
		}
	}
	return ""
}

// SetStatus updates the status line.
func (rv *RootView) SetStatus(text string) {
	if rv != nil && rv.statusLabel != nil {
		rv.statusLabel.Configure(Txt(text))
	}
}

// --- UploadPresenter view contract ---

func (rv *RootView) SetFileInfo(text string) {
	if rv != nil && rv.Upload != nil {
		rv.Upload.SetFileInfo(text)
	}
}

func (rv *RootView) SetRemoveEnabled(enabled bool) {
	if rv != nil && rv.Upload != nil {
		rv.Upload.SetRemoveEnabled(enabled)
	}
}

func (rv *RootView) SetUploadPrompt(visible bool) {
	if rv != nil && rv.Upload != nil {
		rv.Upload.SetUploadPrompt(visible)
	}
}

// --- PreviewPresenter view contract ---

func (rv *RootView) ShowPreview(img image.Image) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.ShowPreview(img)
	}
}

func (rv *RootView) ShowPlaceholder(text string) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.ShowPlaceholder(text)
	}
}

func (rv *RootView) ClearPreview() {
	if rv != nil && rv.Preview != nil {
		rv.Preview.ClearPreview()
	}
}

// --- AnalysisPresenter view contract ---

func (rv *RootView) SetAnalyzeEnabled(enabled bool) {
	if rv != nil && rv.analyzeBtn != nil {
		rv.analyzeBtn.Configure(State(stateOf(enabled)))
	}
}

// SetBusy swaps the analyze caption for the busy indicator and back. The
// settings form is locked while a run is in flight.
func (rv *RootView) SetBusy(busy bool) {
	if rv == nil || rv.analyzeBtn == nil {
		return
	}
	if rv.Config != nil {
		rv.Config.SetEditable(!busy)
	}
	if busy {
		rv.analyzeBtn.Configure(Txt(layout.BusyLabel(0)))
		rv.SetStatus("Analyzing…")
		return
	}
	rv.analyzeBtn.Configure(Txt("Analyze"))
	rv.SetStatus("")
}

func (rv *RootView) SetBusyFrame(frame int) {
	if rv != nil && rv.analyzeBtn != nil {
		rv.analyzeBtn.Configure(Txt(layout.BusyLabel(frame)))
	}
}

func (rv *RootView) SetResultsVisible(visible bool) {
	if rv != nil && rv.Results != nil {
		rv.Results.SetResultsVisible(visible)
	}
}

func (rv *RootView) SetClassifierUsed(name string) {
	if rv != nil && rv.Results != nil {
		rv.Results.SetClassifierUsed(name)
	}
}

func (rv *RootView) CounterSink(key string) animate.Sink {
	if rv == nil || rv.Results == nil {
		return animate.SinkFunc(func(string) {})
	}
	return rv.Results.CounterSink(key)
}

// ShowError reports a failure in a modal dialog.
func (rv *RootView) ShowError(msg string) {
	MessageBox(Icon("error"), Msg(msg), Title("Analysis failed"))
}
