package presenter

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/cellcount-go/domain/animate"
	"github.com/soocke/cellcount-go/domain/classify"
	"github.com/soocke/cellcount-go/domain/regions"
	"github.com/soocke/cellcount-go/ui/model"
)

// TotalKey names the counter that shows the sum of all categories.
const TotalKey = "total"

// GenericErrorMessage is the only failure text shown to the user.
const GenericErrorMessage = "An error occurred while analyzing the image. Please try again."

const busyFrameInterval = 120 * time.Millisecond

// AnalysisView renders the analysis controls and results panel.
type AnalysisView interface {
	SetAnalyzeEnabled(enabled bool)
	SetBusy(busy bool)
	SetBusyFrame(frame int)
	SetResultsVisible(visible bool)
	SetClassifierUsed(name string)
	CounterSink(key string) animate.Sink
	ShowError(msg string)
}

// RegionDrawer draws cached regions for an image slot.
type RegionDrawer interface {
	Draw(slot *model.ImageSlot, rs []regions.Region)
}

type analysisResult struct {
	token      uint64
	run        string
	slot       *model.ImageSlot
	classifier classify.ClassifierID
	counts     classify.Counts
	err        error
}

// AnalysisPresenter runs the classifier off the UI thread and applies its
// result on Tick. Results whose token is no longer current are dropped.
type AnalysisPresenter struct {
	model     *model.AnalysisModel
	uploads   *model.UploadModel
	view      AnalysisView
	drawer    RegionDrawer
	classify  classify.Classifier
	generator regions.Generator
	animator  *animate.Animator
	logger    *slog.Logger

	ctx       context.Context
	results   chan analysisResult
	busySince time.Time
	busyFrame int
}

// AnalysisDeps bundles the collaborators of AnalysisPresenter.
type AnalysisDeps struct {
	Model      *model.AnalysisModel
	Uploads    *model.UploadModel
	View       AnalysisView
	Drawer     RegionDrawer
	Classifier classify.Classifier
	Generator  regions.Generator
	Animator   *animate.Animator
	Logger     *slog.Logger
	// Context bounds every request; cancelling it stops outstanding work.
	Context context.Context
}

func NewAnalysisPresenter(d AnalysisDeps) *AnalysisPresenter {
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	if d.Context == nil {
		d.Context = context.Background()
	}
	if d.Model == nil {
		d.Model = model.NewAnalysisModel(classify.KNNCosine)
	}
	if d.Animator == nil {
		d.Animator = animate.NewAnimator(animate.DefaultDuration)
	}
	p := &AnalysisPresenter{
		model:     d.Model,
		uploads:   d.Uploads,
		view:      d.View,
		drawer:    d.Drawer,
		classify:  d.Classifier,
		generator: d.Generator,
		animator:  d.Animator,
		logger:    d.Logger,
		ctx:       d.Context,
		results:   make(chan analysisResult, 4),
	}
	if p.view != nil {
		p.view.SetResultsVisible(false)
		p.view.SetBusy(false)
	}
	p.refreshTrigger()
	return p
}

// Model exposes the analysis model.
func (p *AnalysisPresenter) Model() *model.AnalysisModel {
	if p == nil {
		return nil
	}
	return p.model
}

// SelectClassifier accepts an identifier or display name. Unknown names
// clear the selection, which disables the trigger.
func (p *AnalysisPresenter) SelectClassifier(name string) {
	if p == nil {
		return
	}
	id, ok := classify.ParseClassifier(name)
	if !ok {
		id = ""
	}
	p.model.Select(id)
	p.logger.Debug("classifier selected", "classifier", string(id))
	p.refreshTrigger()
}

// Analyze starts a request. It is a no-op without an image, without a
// classifier or while a request is outstanding.
func (p *AnalysisPresenter) Analyze() bool {
	if p == nil || p.model.Busy() {
		return false
	}
	slot := p.uploads.Slot()
	id := p.model.Selected()
	if slot == nil || id == "" {
		return false
	}
	token, ctx := p.model.Begin(p.ctx)
	run := uuid.NewString()
	p.animator.Stop()
	p.busySince = time.Time{}
	p.busyFrame = -1
	if p.view != nil {
		p.view.SetAnalyzeEnabled(false)
		p.view.SetBusy(true)
		p.view.SetResultsVisible(false)
	}
	p.logger.Info("analysis started", "run", run, "classifier", string(id), "file", slot.Name)
	go p.work(ctx, analysisResult{token: token, run: run, slot: slot, classifier: id})
	return true
}

// ResetResults drops results and invalidates any outstanding request.
func (p *AnalysisPresenter) ResetResults() {
	if p == nil {
		return
	}
	p.model.Reset()
	p.animator.Stop()
	if p.view != nil {
		p.view.SetBusy(false)
		p.view.SetResultsVisible(false)
		p.view.SetClassifierUsed("")
	}
	p.refreshTrigger()
}

// ImageChanged implements ImageListener. Any image change invalidates the
// previous analysis.
func (p *AnalysisPresenter) ImageChanged(*model.ImageSlot) { p.ResetResults() }

// Tick applies finished requests, advances the busy indicator and steps the
// counters.
func (p *AnalysisPresenter) Tick(now time.Time) {
	if p == nil {
		return
	}
	for drained := false; !drained; {
		select {
		case res := <-p.results:
			p.apply(res, now)
		default:
			drained = true
		}
	}
	if p.model.Busy() && p.view != nil {
		if p.busySince.IsZero() {
			p.busySince = now
		}
		frame := int(now.Sub(p.busySince) / busyFrameInterval)
		if frame != p.busyFrame {
			p.busyFrame = frame
			p.view.SetBusyFrame(frame)
		}
	}
	p.animator.Tick(now)
}

func (p *AnalysisPresenter) work(ctx context.Context, res analysisResult) {
	defer func() {
		if r := recover(); r != nil {
			res.err = fmt.Errorf("classifier panic: %v", r)
			p.logger.Error("analysis panicked", "run", res.run, "panic", r, "stack", string(debug.Stack()))
		}
		select {
		case p.results <- res:
		case <-p.ctx.Done():
		}
	}()
	select {
	case <-res.slot.Ready():
	case <-ctx.Done():
		res.err = ctx.Err()
		return
	}
	res.counts, res.err = p.classify.Classify(ctx, res.slot.Image(), res.classifier)
}

func (p *AnalysisPresenter) apply(res analysisResult, now time.Time) {
	if !p.model.Finish(res.token) {
		p.logger.Debug("discarding stale analysis", "run", res.run, "token", res.token)
		return
	}
	if p.view != nil {
		p.view.SetBusy(false)
	}
	p.refreshTrigger()
	if res.err != nil {
		p.logger.Error("analysis failed", "run", res.run, "classifier", string(res.classifier), "error", res.err)
		if p.view != nil {
			p.view.SetResultsVisible(false)
			p.view.ShowError(GenericErrorMessage)
		}
		return
	}

	size := res.slot.NaturalSize()
	rs := p.generator.Generate(float64(size.X), float64(size.Y), res.counts)
	p.model.SetResult(res.counts, rs, res.classifier)
	if p.drawer != nil {
		p.drawer.Draw(res.slot, rs)
	}
	p.logger.Info("analysis finished", "run", res.run, "classifier", string(res.classifier),
		"counts", res.counts[:], "total", res.counts.Total())
	if p.view == nil {
		return
	}
	p.view.SetClassifierUsed(res.classifier.DisplayName())
	for _, c := range classify.Categories {
		p.animator.Start(c.String(), res.counts.Get(c), p.view.CounterSink(c.String()), now)
	}
	p.animator.Start(TotalKey, res.counts.Total(), p.view.CounterSink(TotalKey), now)
	p.view.SetResultsVisible(true)
}

func (p *AnalysisPresenter) refreshTrigger() {
	if p.view == nil {
		return
	}
	enabled := !p.model.Busy() && p.uploads.Slot() != nil && p.model.Selected() != ""
	p.view.SetAnalyzeEnabled(enabled)
}
