package presenter

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/soocke/cellcount-go/domain/classify"
	"github.com/soocke/cellcount-go/domain/regions"
	"github.com/soocke/cellcount-go/ui/model"
)

func centreRegion() []regions.Region {
	return []regions.Region{{Category: classify.CategoryA, X: 100, Y: 50, Size: 40, Shape: regions.ShapeCircle, AspectRatio: 1}}
}

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestPreviewPresenter_DrawDeferredUntilReady(t *testing.T) {
	view := &mockPreviewView{}
	p := NewPreviewPresenter(view, 640, 480, DefaultResizeDebounce, nil)
	slot := model.NewImageSlot("cells.png", "image/png", 10)
	p.ImageChanged(slot)
	if view.placeholders != 1 {
		t.Fatalf("placeholder not shown")
	}
	now := time.Unix(0, 0)
	p.Draw(slot, centreRegion())
	p.Tick(now)
	if view.shows != 0 {
		t.Fatalf("drew before the image was ready")
	}
	slot.Resolve(whiteImage(200, 100))
	p.Tick(now.Add(16 * time.Millisecond))
	if view.shows != 1 {
		t.Fatalf("deferred draw shows=%d, want 1", view.shows)
	}
	if isWhite(view.last.At(100, 50)) {
		t.Fatalf("overlay missing at region centre")
	}
	p.Tick(now.Add(32 * time.Millisecond))
	if view.shows != 1 {
		t.Fatalf("deferred draw repeated: shows=%d", view.shows)
	}
}

func TestPreviewPresenter_DrawForOtherSlotIgnored(t *testing.T) {
	view := &mockPreviewView{}
	p := NewPreviewPresenter(view, 640, 480, DefaultResizeDebounce, nil)
	current := model.NewLoadedSlot("a.png", whiteImage(20, 20))
	p.ImageChanged(current)
	shows := view.shows
	p.Draw(model.NewLoadedSlot("b.png", whiteImage(20, 20)), centreRegion())
	if view.shows != shows {
		t.Fatalf("draw for a replaced slot rendered")
	}
}

func TestPreviewPresenter_ScalesOverlayToDisplay(t *testing.T) {
	view := &mockPreviewView{}
	p := NewPreviewPresenter(view, 100, 100, DefaultResizeDebounce, nil)
	slot := model.NewLoadedSlot("a.png", whiteImage(200, 100))
	p.ImageChanged(slot)
	p.Draw(slot, centreRegion())
	if p.DisplayedSize() != image.Pt(100, 50) {
		t.Fatalf("displayed %v", p.DisplayedSize())
	}
	if got := view.last.Bounds().Size(); got != image.Pt(100, 50) {
		t.Fatalf("preview size %v", got)
	}
	if isWhite(view.last.At(50, 25)) {
		t.Fatalf("scaled overlay missing at region centre")
	}
	if !isWhite(view.last.At(5, 5)) {
		t.Fatalf("overlay leaked into the corner")
	}
}

func TestPreviewPresenter_ResizeIsDebounced(t *testing.T) {
	view := &mockPreviewView{}
	p := NewPreviewPresenter(view, 640, 480, DefaultResizeDebounce, nil)
	slot := model.NewLoadedSlot("a.png", whiteImage(200, 100))
	p.ImageChanged(slot)
	p.Draw(slot, centreRegion())
	shows := view.shows

	t0 := time.Unix(100, 0)
	p.OnResize(100, 100, t0)
	p.Tick(t0.Add(100 * time.Millisecond))
	p.OnResize(120, 120, t0.Add(100*time.Millisecond))
	p.Tick(t0.Add(300 * time.Millisecond))
	if view.shows != shows {
		t.Fatalf("redrew during resize burst")
	}
	p.Tick(t0.Add(349 * time.Millisecond))
	if view.shows != shows {
		t.Fatalf("redrew before the quiet period elapsed")
	}
	p.Tick(t0.Add(350 * time.Millisecond))
	if view.shows != shows+1 {
		t.Fatalf("shows=%d, want one redraw", view.shows-shows)
	}
	if p.DisplayedSize() != image.Pt(120, 60) {
		t.Fatalf("displayed %v", p.DisplayedSize())
	}
	if isWhite(view.last.At(60, 30)) {
		t.Fatalf("cached regions not redrawn")
	}
	p.Tick(t0.Add(time.Second))
	if view.shows != shows+1 {
		t.Fatalf("debounced redraw repeated")
	}
}

func TestPreviewPresenter_ResizeReusesRegions(t *testing.T) {
	h := newHarness(t, instantMock())
	h.loadImage("cells.png")
	h.runAnalysis()
	before := h.analysis.Model().Regions()
	shows := h.previewV.shows

	h.preview.OnResize(100, 100, h.now)
	h.advance(DefaultResizeDebounce + 50*time.Millisecond)
	if h.previewV.shows != shows+1 {
		t.Fatalf("shows=%d, want one redraw", h.previewV.shows-shows)
	}
	if h.gen.calls.Load() != 1 {
		t.Fatalf("resize regenerated regions: calls=%d", h.gen.calls.Load())
	}
	after := h.analysis.Model().Regions()
	if len(after) != len(before) || (len(after) > 0 && &after[0] != &before[0]) {
		t.Fatalf("cached regions replaced")
	}
	if h.preview.DisplayedSize() != image.Pt(100, 50) {
		t.Fatalf("displayed %v", h.preview.DisplayedSize())
	}
}

func TestPreviewPresenter_SameBoundsNoRedraw(t *testing.T) {
	view := &mockPreviewView{}
	p := NewPreviewPresenter(view, 640, 480, DefaultResizeDebounce, nil)
	p.ImageChanged(model.NewLoadedSlot("a.png", whiteImage(20, 20)))
	shows := view.shows
	t0 := time.Unix(0, 0)
	p.OnResize(640, 480, t0)
	p.Tick(t0.Add(time.Second))
	if view.shows != shows {
		t.Fatalf("identical bounds triggered a redraw")
	}
}

func TestPreviewPresenter_NilSafe(t *testing.T) {
	var p *PreviewPresenter
	p.ImageChanged(nil)
	p.Draw(nil, nil)
	p.Clear()
	p.OnResize(1, 1, time.Now())
	p.Tick(time.Now())
	if p.DisplayedSize() != (image.Point{}) {
		t.Fatalf("nil presenter reports a size")
	}
}
