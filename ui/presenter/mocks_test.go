package presenter

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math/rand/v2"
	"sync/atomic"
	"testing"
	"time"

	"github.com/soocke/cellcount-go/domain/animate"
	"github.com/soocke/cellcount-go/domain/classify"
	"github.com/soocke/cellcount-go/domain/regions"
	"github.com/soocke/cellcount-go/domain/upload"
	"github.com/soocke/cellcount-go/ui/images"
	"github.com/soocke/cellcount-go/ui/model"
)

type mockUploadView struct {
	info          string
	removeEnabled bool
	prompt        bool
}

func (v *mockUploadView) SetFileInfo(text string)       { v.info = text }
func (v *mockUploadView) SetRemoveEnabled(enabled bool) { v.removeEnabled = enabled }
func (v *mockUploadView) SetUploadPrompt(visible bool)  { v.prompt = visible }

type mockAnalysisView struct {
	enabled    bool
	busy       bool
	busyFrames int
	visible    bool
	used       string
	errors     []string
	counters   map[string]string
}

func newMockAnalysisView() *mockAnalysisView {
	return &mockAnalysisView{counters: make(map[string]string)}
}

func (v *mockAnalysisView) SetAnalyzeEnabled(enabled bool) { v.enabled = enabled }
func (v *mockAnalysisView) SetBusy(busy bool)              { v.busy = busy }
func (v *mockAnalysisView) SetBusyFrame(int)               { v.busyFrames++ }
func (v *mockAnalysisView) SetResultsVisible(visible bool) { v.visible = visible }
func (v *mockAnalysisView) SetClassifierUsed(name string)  { v.used = name }
func (v *mockAnalysisView) ShowError(msg string)           { v.errors = append(v.errors, msg) }
func (v *mockAnalysisView) CounterSink(key string) animate.Sink {
	return animate.SinkFunc(func(text string) { v.counters[key] = text })
}

type mockPreviewView struct {
	shows        int
	last         image.Image
	placeholders int
	clears       int
}

func (v *mockPreviewView) ShowPreview(img image.Image) { v.shows++; v.last = img }
func (v *mockPreviewView) ShowPlaceholder(string)      { v.placeholders++ }
func (v *mockPreviewView) ClearPreview()               { v.clears++; v.last = nil }

type classifierFunc func(ctx context.Context, img image.Image, id classify.ClassifierID) (classify.Counts, error)

func (f classifierFunc) Classify(ctx context.Context, img image.Image, id classify.ClassifierID) (classify.Counts, error) {
	return f(ctx, img, id)
}

// countingGenerator wraps the random generator to observe calls.
type countingGenerator struct {
	inner *regions.RandomGenerator
	calls atomic.Int32
}

func newCountingGenerator() *countingGenerator {
	return &countingGenerator{inner: regions.NewRandomGenerator(rand.NewPCG(7, 11))}
}

func (g *countingGenerator) Generate(w, h float64, counts classify.Counts) []regions.Region {
	g.calls.Add(1)
	return g.inner.Generate(w, h, counts)
}

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

// fakeOpener serves a 200x100 PNG for every path except *.txt.
func fakeOpener(path string) (*upload.File, error) {
	if len(path) > 4 && path[len(path)-4:] == ".txt" {
		return upload.FromBytes(path, []byte("plain text, not a picture"))
	}
	data, err := images.EncodePNG(whiteImage(200, 100))
	if err != nil {
		return nil, err
	}
	return upload.FromBytes(path, data)
}

type harness struct {
	t        *testing.T
	now      time.Time
	uploadV  *mockUploadView
	analysV  *mockAnalysisView
	previewV *mockPreviewView
	gen      *countingGenerator
	upload   *UploadPresenter
	analysis *AnalysisPresenter
	preview  *PreviewPresenter
	loop     *Loop
}

func newHarness(t *testing.T, cls classify.Classifier) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := &harness{
		t:        t,
		now:      time.Unix(1_700_000_000, 0),
		uploadV:  &mockUploadView{},
		analysV:  newMockAnalysisView(),
		previewV: &mockPreviewView{},
		gen:      newCountingGenerator(),
	}
	uploads := model.NewUploadModel()
	h.preview = NewPreviewPresenter(h.previewV, 640, 480, DefaultResizeDebounce, nil)
	h.analysis = NewAnalysisPresenter(AnalysisDeps{
		Model:      model.NewAnalysisModel(classify.KNNCosine),
		Uploads:    uploads,
		View:       h.analysV,
		Drawer:     h.preview,
		Classifier: cls,
		Generator:  h.gen,
		Animator:   animate.NewAnimator(animate.DefaultDuration),
		Context:    ctx,
	})
	h.upload = NewUploadPresenter(uploads, h.uploadV, nil, h.preview, h.analysis)
	h.upload.SetContext(ctx)
	h.upload.SetOpener(fakeOpener)
	h.loop = NewLoop(h.upload, h.analysis, h.preview, nil)
	h.loop.Now = func() time.Time { return h.now }
	return h
}

// step advances the fake clock by one frame and ticks the loop.
func (h *harness) step() {
	h.now = h.now.Add(16 * time.Millisecond)
	h.loop.Tick()
}

// advance ticks frames until d of fake time passed.
func (h *harness) advance(d time.Duration) {
	end := h.now.Add(d)
	for h.now.Before(end) {
		h.step()
	}
}

// waitUntil ticks until cond holds, failing after a real-time deadline.
func (h *harness) waitUntil(what string, cond func() bool) {
	h.t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			h.t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
		h.step()
	}
}

func (h *harness) loadImage(name string) *model.ImageSlot {
	h.t.Helper()
	if !h.upload.SelectFile(name) {
		h.t.Fatalf("select %s rejected", name)
	}
	slot := h.upload.Pending()
	h.waitUntil("decode", func() bool { return h.upload.Model().Slot() == slot })
	return slot
}
