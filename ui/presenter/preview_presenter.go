package presenter

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/soocke/cellcount-go/domain/overlay"
	"github.com/soocke/cellcount-go/domain/regions"
	"github.com/soocke/cellcount-go/ui/images"
	"github.com/soocke/cellcount-go/ui/model"
)

// DefaultResizeDebounce is the quiet period before a resize triggers a redraw.
const DefaultResizeDebounce = 250 * time.Millisecond

// PreviewView displays the composed preview.
type PreviewView interface {
	ShowPreview(img image.Image)
	ShowPlaceholder(text string)
	ClearPreview()
}

type pendingDraw struct {
	slot    *model.ImageSlot
	regions []regions.Region
}

// PreviewPresenter scales the current image to the preview bounds and draws
// the cached regions on top. Redraws after a resize reuse the cached
// regions; nothing here ever samples new random data.
type PreviewPresenter struct {
	view     PreviewView
	renderer *overlay.Renderer
	logger   *slog.Logger
	debounce time.Duration

	maxW, maxH int
	slot       *model.ImageSlot
	regions    []regions.Region
	pending    *pendingDraw

	resizePending bool
	resizeAt      time.Time
	nextW, nextH  int

	scaled     image.Image
	scaledSize image.Point
	scaledSlot *model.ImageSlot
	displayed  image.Point
}

// NewPreviewPresenter constructs a preview presenter with initial bounds.
func NewPreviewPresenter(view PreviewView, maxW, maxH int, debounce time.Duration, logger *slog.Logger) *PreviewPresenter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if debounce < 0 {
		debounce = 0
	}
	return &PreviewPresenter{
		view:     view,
		renderer: overlay.NewRenderer(),
		logger:   logger,
		debounce: debounce,
		maxW:     maxW,
		maxH:     maxH,
	}
}

// ImageChanged switches to slot, dropping the overlay of the previous image.
func (p *PreviewPresenter) ImageChanged(slot *model.ImageSlot) {
	if p == nil {
		return
	}
	if slot == nil {
		p.Clear()
		return
	}
	p.slot = slot
	p.regions = nil
	p.pending = nil
	p.scaled, p.scaledSlot = nil, nil
	p.renderer.Clear()
	if !slot.Loaded() {
		p.pending = &pendingDraw{slot: slot}
		if p.view != nil {
			p.view.ShowPlaceholder(fmt.Sprintf("Loading %s…", slot.Name))
		}
		return
	}
	p.render()
}

// Draw caches rs as the overlay of slot and renders it. If slot is still
// decoding the draw is parked and performed once on the first tick after the
// slot becomes ready. A newer Draw replaces a parked one.
func (p *PreviewPresenter) Draw(slot *model.ImageSlot, rs []regions.Region) {
	if p == nil || slot == nil || slot != p.slot {
		return
	}
	if !slot.Loaded() {
		p.pending = &pendingDraw{slot: slot, regions: rs}
		return
	}
	p.pending = nil
	p.regions = rs
	p.render()
}

// Clear removes the image and overlay.
func (p *PreviewPresenter) Clear() {
	if p == nil {
		return
	}
	p.slot = nil
	p.regions = nil
	p.pending = nil
	p.scaled, p.scaledSlot = nil, nil
	p.displayed = image.Point{}
	p.renderer.Clear()
	p.clearView()
}

// OnResize records new preview bounds. The redraw happens on the first tick
// after the bounds stayed unchanged for the debounce period.
func (p *PreviewPresenter) OnResize(maxW, maxH int, now time.Time) {
	if p == nil || maxW <= 0 || maxH <= 0 {
		return
	}
	if !p.resizePending && maxW == p.maxW && maxH == p.maxH {
		return
	}
	p.nextW, p.nextH = maxW, maxH
	p.resizeAt = now
	p.resizePending = true
}

// Tick performs parked draws and debounced resizes.
func (p *PreviewPresenter) Tick(now time.Time) {
	if p == nil {
		return
	}
	if pd := p.pending; pd != nil {
		select {
		case <-pd.slot.Ready():
			p.pending = nil
			if pd.slot == p.slot {
				p.regions = pd.regions
				p.render()
			}
		default:
		}
	}
	if p.resizePending && now.Sub(p.resizeAt) >= p.debounce {
		p.resizePending = false
		if p.nextW == p.maxW && p.nextH == p.maxH {
			return
		}
		p.maxW, p.maxH = p.nextW, p.nextH
		if p.slot.Loaded() {
			p.logger.Debug("preview resized", "max_w", p.maxW, "max_h", p.maxH, "regions", len(p.regions))
			p.render()
		}
	}
}

// DisplayedSize returns the size of the last rendered preview.
func (p *PreviewPresenter) DisplayedSize() image.Point {
	if p == nil {
		return image.Point{}
	}
	return p.displayed
}

// Bounds returns the current preview bounds.
func (p *PreviewPresenter) Bounds() (int, int) {
	if p == nil {
		return 0, 0
	}
	return p.maxW, p.maxH
}

func (p *PreviewPresenter) render() {
	img := p.slot.Image()
	if img == nil {
		return
	}
	natural := img.Bounds().Size()
	disp := images.FitSize(natural, p.maxW, p.maxH)
	if p.scaledSlot != p.slot || p.scaledSize != disp || p.scaled == nil {
		p.scaled = images.ScaleTo(img, disp)
		p.scaledSize = disp
		p.scaledSlot = p.slot
	}
	p.displayed = disp
	surface := p.renderer.Render(p.regions, natural, disp)
	if p.view != nil {
		p.view.ShowPreview(overlay.Composite(p.scaled, surface))
	}
}

func (p *PreviewPresenter) clearView() {
	if p.view != nil {
		p.view.ClearPreview()
	}
}
