package presenter

import (
	"context"
	"fmt"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/soocke/cellcount-go/ui/model"
)

func TestUploadPresenter_NonImageLeavesEmpty(t *testing.T) {
	h := newHarness(t, nil)
	if h.upload.SelectFile("notes.txt") {
		t.Fatalf("non-image accepted")
	}
	if h.upload.Model().State() != model.UploadEmpty {
		t.Fatalf("state changed to %v", h.upload.Model().State())
	}
	if !h.uploadV.prompt || h.uploadV.removeEnabled || h.analysV.enabled {
		t.Fatalf("view changed: %+v analyze=%v", h.uploadV, h.analysV.enabled)
	}
}

func TestUploadPresenter_NonImageKeepsPreviousImage(t *testing.T) {
	h := newHarness(t, nil)
	slot := h.loadImage("cells.png")
	shows := h.previewV.shows
	if h.upload.SelectFile("notes.txt") {
		t.Fatalf("non-image accepted")
	}
	if h.upload.Model().Slot() != slot {
		t.Fatalf("previous image replaced")
	}
	if h.previewV.clears != 0 || h.previewV.shows != shows {
		t.Fatalf("preview touched: clears=%d shows=%d", h.previewV.clears, h.previewV.shows)
	}
}

func TestUploadPresenter_SelectDecodesAndPreviews(t *testing.T) {
	h := newHarness(t, nil)
	slot := h.loadImage("cells.png")
	if slot.NaturalSize() != image.Pt(200, 100) {
		t.Fatalf("natural size %v", slot.NaturalSize())
	}
	if h.previewV.placeholders != 0 || h.previewV.shows != 1 {
		t.Fatalf("placeholder=%d shows=%d", h.previewV.placeholders, h.previewV.shows)
	}
	if !strings.Contains(h.uploadV.info, "cells.png") || !strings.Contains(h.uploadV.info, "image/png") {
		t.Fatalf("file info %q", h.uploadV.info)
	}
	if h.uploadV.prompt || !h.uploadV.removeEnabled {
		t.Fatalf("upload view not in previewing state: %+v", h.uploadV)
	}
	if !h.analysV.enabled {
		t.Fatalf("analyze should be enabled with an image and a classifier")
	}
}

func TestUploadPresenter_DropUsesFirstPath(t *testing.T) {
	h := newHarness(t, nil)
	if !h.upload.Drop([]string{"first.png", "second.png"}) {
		t.Fatalf("drop rejected")
	}
	if got := h.upload.Pending().Name; got != "first.png" {
		t.Fatalf("slot %q", got)
	}
	if h.upload.Drop(nil) {
		t.Fatalf("empty drop accepted")
	}
}

func TestUploadPresenter_StaleDecodeIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.upload.SelectFile("old.png")
	old := h.upload.Pending()
	next := h.loadImage("new.png")
	// let the first decode drain as well
	h.advance(100 * time.Millisecond)
	if old.Loaded() {
		t.Fatalf("replaced slot should never resolve")
	}
	if h.upload.Model().Slot() != next {
		t.Fatalf("current slot changed")
	}
}

func TestUploadPresenter_CorruptImageStaysEmpty(t *testing.T) {
	h := newHarness(t, nil)
	// valid PNG signature, garbage body
	data := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	if !h.upload.LoadBytes("broken.png", data) {
		t.Fatalf("payload with image signature rejected")
	}
	h.waitUntil("failed decode", func() bool { return h.upload.Pending() == nil })
	if h.upload.Model().State() != model.UploadEmpty {
		t.Fatalf("state %v", h.upload.Model().State())
	}
	if len(h.analysV.errors) != 0 {
		t.Fatalf("decode failure must stay silent")
	}
	if !h.uploadV.prompt || h.uploadV.info != "" || h.previewV.shows != 0 {
		t.Fatalf("view changed: %+v shows=%d", h.uploadV, h.previewV.shows)
	}
}

func TestUploadPresenter_CorruptImageKeepsPreviousImage(t *testing.T) {
	h := newHarness(t, nil)
	slot := h.loadImage("cells.png")
	info := h.uploadV.info
	shows := h.previewV.shows

	// extension-only match, all zero bytes
	if !h.upload.LoadBytes("photo.jpg", make([]byte, 200)) {
		t.Fatalf("payload with image extension rejected")
	}
	h.waitUntil("failed decode", func() bool { return h.upload.Pending() == nil })
	h.advance(100 * time.Millisecond)

	if h.upload.Model().Slot() != slot || h.upload.Model().State() != model.UploadPreviewing {
		t.Fatalf("previous image replaced: state=%v", h.upload.Model().State())
	}
	if h.previewV.clears != 0 || h.previewV.placeholders != 0 || h.previewV.shows != shows {
		t.Fatalf("preview touched: clears=%d placeholders=%d shows=%d", h.previewV.clears, h.previewV.placeholders, h.previewV.shows)
	}
	if h.uploadV.info != info || !h.uploadV.removeEnabled {
		t.Fatalf("upload view changed: %+v", h.uploadV)
	}
	if !h.analysV.enabled {
		t.Fatalf("analyze disabled after failed replacement")
	}
}

func TestUploadPresenter_RemoveAbandonsPendingDecode(t *testing.T) {
	h := newHarness(t, nil)
	h.loadImage("old.png")
	h.upload.SelectFile("new.png")
	h.upload.Remove()
	h.advance(100 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	h.advance(100 * time.Millisecond)
	if h.upload.Model().State() != model.UploadEmpty || h.upload.Pending() != nil {
		t.Fatalf("state %v pending=%v", h.upload.Model().State(), h.upload.Pending())
	}
}

func TestUploadPresenter_DecodeDoesNotBlockAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewUploadPresenter(nil, &mockUploadView{}, nil)
	p.SetContext(ctx)
	p.SetOpener(fakeOpener)
	// more decodes than the result buffer holds, and nobody ticks
	for i := 0; i < 8; i++ {
		p.SelectFile(fmt.Sprintf("img%d.png", i))
	}
	cancel()
	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("decode goroutines still blocked after cancel")
	}
}

func TestUploadPresenter_UseImage(t *testing.T) {
	h := newHarness(t, nil)
	if !h.upload.UseImage("Screen capture", whiteImage(50, 40)) {
		t.Fatalf("use image rejected")
	}
	if !h.upload.Model().Slot().Loaded() {
		t.Fatalf("in-memory image should be ready immediately")
	}
	if h.previewV.shows != 1 {
		t.Fatalf("shows=%d", h.previewV.shows)
	}
	if !strings.Contains(h.uploadV.info, "50×40") {
		t.Fatalf("file info %q", h.uploadV.info)
	}
}

func TestUploadPresenter_NilSafe(t *testing.T) {
	var p *UploadPresenter
	p.Tick()
	p.Remove()
	if p.SelectFile("a.png") || p.Drop([]string{"a.png"}) || p.UseImage("x", whiteImage(1, 1)) {
		t.Fatalf("nil presenter accepted input")
	}
}
