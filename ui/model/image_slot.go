package model

import (
	"image"
	"sync"
)

// ImageSlot holds one uploaded image. The slot is created as soon as a file
// is accepted and becomes ready once the image has been decoded. Readiness
// is a one-shot signal: Ready's channel is closed exactly once.
type ImageSlot struct {
	Name string
	MIME string
	Size int64

	once  sync.Once
	ready chan struct{}
	img   image.Image
}

// NewImageSlot returns a pending slot.
func NewImageSlot(name, mime string, size int64) *ImageSlot {
	return &ImageSlot{Name: name, MIME: mime, Size: size, ready: make(chan struct{})}
}

// NewLoadedSlot returns a slot that is already ready with img.
func NewLoadedSlot(name string, img image.Image) *ImageSlot {
	s := NewImageSlot(name, "image/png", 0)
	s.Resolve(img)
	return s
}

// Resolve stores the decoded image and signals readiness. Later calls are
// ignored.
func (s *ImageSlot) Resolve(img image.Image) bool {
	if s == nil || img == nil {
		return false
	}
	resolved := false
	s.once.Do(func() {
		s.img = img
		close(s.ready)
		resolved = true
	})
	return resolved
}

// Ready returns a channel closed once the image is decoded.
func (s *ImageSlot) Ready() <-chan struct{} {
	if s == nil {
		return nil
	}
	return s.ready
}

// Loaded reports whether the image has been decoded.
func (s *ImageSlot) Loaded() bool {
	if s == nil {
		return false
	}
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// Image returns the decoded image, or nil while pending.
func (s *ImageSlot) Image() image.Image {
	if !s.Loaded() {
		return nil
	}
	return s.img
}

// NaturalSize returns the intrinsic pixel size, or zero while pending.
func (s *ImageSlot) NaturalSize() image.Point {
	img := s.Image()
	if img == nil {
		return image.Point{}
	}
	return img.Bounds().Size()
}
