package presenter

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/soocke/cellcount-go/domain/upload"
	"github.com/soocke/cellcount-go/ui/model"
)

// UploadView renders the upload area.
type UploadView interface {
	SetFileInfo(text string)
	SetRemoveEnabled(enabled bool)
	SetUploadPrompt(visible bool)
}

// ImageListener observes the current image. ImageChanged receives a decoded
// slot, or nil when the image was removed. It runs on the UI thread.
type ImageListener interface {
	ImageChanged(slot *model.ImageSlot)
}

type decodeResult struct {
	slot *model.ImageSlot
	img  image.Image
	info string
	err  error
}

// UploadPresenter owns the Empty/Previewing state machine. Files are read and
// sniffed synchronously; decoding runs in a goroutine and is completed on
// Tick. The current image is only replaced once the new one decoded, so a
// file that fails to decode leaves the state unchanged.
type UploadPresenter struct {
	model     *model.UploadModel
	view      UploadView
	listeners []ImageListener
	logger    *slog.Logger

	open     func(path string) (*upload.File, error)
	ctx      context.Context
	decoded  chan decodeResult
	inflight sync.WaitGroup
	pending  *model.ImageSlot
	info     string
}

// NewUploadPresenter constructs the presenter and syncs the view.
func NewUploadPresenter(m *model.UploadModel, view UploadView, logger *slog.Logger, listeners ...ImageListener) *UploadPresenter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if m == nil {
		m = model.NewUploadModel()
	}
	p := &UploadPresenter{
		model:     m,
		view:      view,
		listeners: listeners,
		logger:    logger,
		open:      upload.Open,
		ctx:       context.Background(),
		decoded:   make(chan decodeResult, 4),
	}
	p.syncView()
	return p
}

// SetOpener overrides how paths are read (tests).
func (p *UploadPresenter) SetOpener(open func(path string) (*upload.File, error)) {
	if p == nil || open == nil {
		return
	}
	p.open = open
}

// SetContext bounds the decode goroutines: once ctx is done, finished
// decodes are discarded instead of waiting for a tick.
func (p *UploadPresenter) SetContext(ctx context.Context) {
	if p == nil || ctx == nil {
		return
	}
	p.ctx = ctx
}

// Pending returns the slot still being decoded, or nil.
func (p *UploadPresenter) Pending() *model.ImageSlot {
	if p == nil {
		return nil
	}
	return p.pending
}

// Model exposes the upload model.
func (p *UploadPresenter) Model() *model.UploadModel {
	if p == nil {
		return nil
	}
	return p.model
}

// SelectFile handles a file chosen in the picker. An empty path means the
// dialog was cancelled. Non-images are ignored without changing state.
func (p *UploadPresenter) SelectFile(path string) bool {
	if p == nil || path == "" {
		return false
	}
	f, err := p.open(path)
	if err != nil {
		if errors.Is(err, upload.ErrNotImage) {
			p.logger.Debug("ignoring non-image selection", "file", path)
		} else {
			p.logger.Warn("cannot read selection", "file", path, "error", err)
		}
		return false
	}
	p.accept(f)
	return true
}

// Drop handles paths dropped on (or passed to) the application. Only the
// first path is considered.
func (p *UploadPresenter) Drop(paths []string) bool {
	if p == nil || len(paths) == 0 {
		return false
	}
	return p.SelectFile(paths[0])
}

// LoadBytes accepts an in-memory payload such as the bundled sample.
func (p *UploadPresenter) LoadBytes(name string, data []byte) bool {
	if p == nil {
		return false
	}
	f, err := upload.FromBytes(name, data)
	if err != nil {
		p.logger.Debug("ignoring non-image payload", "file", name, "error", err)
		return false
	}
	p.accept(f)
	return true
}

// UseImage installs an already decoded image, e.g. a screen capture.
func (p *UploadPresenter) UseImage(name string, img image.Image) bool {
	if p == nil || img == nil {
		return false
	}
	p.pending = nil
	size := img.Bounds().Size()
	p.install(model.NewLoadedSlot(name, img), fmt.Sprintf("%s (%d×%d)", name, size.X, size.Y))
	return true
}

// Remove returns to Empty. A decode still in flight is abandoned.
func (p *UploadPresenter) Remove() {
	if p == nil {
		return
	}
	p.pending = nil
	if p.model.Slot() == nil {
		p.setInfo(p.info)
		return
	}
	p.logger.Debug("image removed", "file", p.model.Slot().Name)
	p.model.Clear()
	p.syncView()
	for _, l := range p.listeners {
		l.ImageChanged(nil)
	}
}

// Tick completes finished decodes. Results for a replaced slot are dropped.
func (p *UploadPresenter) Tick() {
	if p == nil {
		return
	}
	for {
		select {
		case res := <-p.decoded:
			p.complete(res)
		default:
			return
		}
	}
}

func (p *UploadPresenter) accept(f *upload.File) {
	slot := model.NewImageSlot(f.Name, f.MIME, f.Size())
	p.pending = slot
	if p.view != nil {
		p.view.SetFileInfo(fmt.Sprintf("Loading %s…", f.Name))
	}
	p.logger.Debug("image accepted", "file", f.Name, "mime", f.MIME, "bytes", f.Size())
	p.inflight.Add(1)
	go p.decode(p.ctx, slot, f)
}

func (p *UploadPresenter) install(slot *model.ImageSlot, info string) {
	p.model.Replace(slot)
	p.syncView()
	p.setInfo(info)
	for _, l := range p.listeners {
		l.ImageChanged(slot)
	}
}

func (p *UploadPresenter) decode(ctx context.Context, slot *model.ImageSlot, f *upload.File) {
	defer p.inflight.Done()
	res := decodeResult{slot: slot}
	defer func() {
		if r := recover(); r != nil {
			res.img = nil
			res.err = fmt.Errorf("decode panic: %v", r)
			p.logger.Error("decoder panicked", "file", f.Name, "panic", r, "stack", string(debug.Stack()))
		}
		select {
		case p.decoded <- res:
		case <-ctx.Done():
		}
	}()
	res.img, res.err = f.Decode()
	res.info = fmt.Sprintf("%s (%s, %s)", f.Name, humanize.Bytes(uint64(f.Size())), f.MIME)
}

func (p *UploadPresenter) complete(res decodeResult) {
	if res.slot != p.pending {
		return
	}
	p.pending = nil
	if res.err != nil {
		p.logger.Warn("image decode failed, keeping current image", "file", res.slot.Name, "error", res.err)
		p.setInfo(p.info)
		return
	}
	if !res.slot.Resolve(res.img) {
		return
	}
	p.logger.Debug("image decoded", "file", res.slot.Name, "size", res.slot.NaturalSize())
	p.install(res.slot, res.info)
}

func (p *UploadPresenter) setInfo(text string) {
	p.info = text
	if p.view != nil {
		p.view.SetFileInfo(text)
	}
}

func (p *UploadPresenter) syncView() {
	if p.view == nil {
		return
	}
	empty := p.model.State() == model.UploadEmpty
	p.view.SetUploadPrompt(empty)
	p.view.SetRemoveEnabled(!empty)
	if empty {
		p.info = ""
		p.view.SetFileInfo("")
	}
}
