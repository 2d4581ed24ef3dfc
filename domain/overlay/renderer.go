package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"

	"github.com/soocke/cellcount-go/domain/classify"
	"github.com/soocke/cellcount-go/domain/regions"
)

// Palette holds the marker colour of each category.
var Palette = [classify.NumCategories]color.NRGBA{
	{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}, // blue
	{R: 0x10, G: 0xb9, B: 0x81, A: 0xff}, // green
	{R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff}, // orange
	{R: 0xef, G: 0x44, B: 0x44, A: 0xff}, // red
}

const (
	// FillAlpha is the fill opacity (0x50/0xff, about 31%).
	FillAlpha   = 0x50
	StrokeWidth = 3.0
)

// ColorFor returns the stroke colour of cat.
func ColorFor(cat classify.Category) color.NRGBA {
	if !cat.Valid() {
		return color.NRGBA{A: 0xff}
	}
	return Palette[cat]
}

// Hex formats c as #rrggbb.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Renderer draws regions onto a transparent surface sized to the displayed
// image. The surface is reused between calls; callers must not retain it
// across renders.
type Renderer struct {
	z       *vector.Rasterizer
	surface *image.RGBA
}

// NewRenderer returns an empty renderer.
func NewRenderer() *Renderer {
	return &Renderer{z: vector.NewRasterizer(0, 0), surface: image.NewRGBA(image.Rectangle{})}
}

// Render clears and resizes the surface to displayed, then draws rs scaled
// from natural to displayed coordinates.
func (r *Renderer) Render(rs []regions.Region, natural, displayed image.Point) *image.RGBA {
	r.resize(displayed)
	if natural.X <= 0 || natural.Y <= 0 || displayed.X <= 0 || displayed.Y <= 0 {
		return r.surface
	}
	scaleX := float64(displayed.X) / float64(natural.X)
	scaleY := float64(displayed.Y) / float64(natural.Y)
	for _, reg := range rs {
		r.drawRegion(reg, scaleX, scaleY)
	}
	return r.surface
}

// Clear wipes the surface without changing its size.
func (r *Renderer) Clear() {
	clear(r.surface.Pix)
}

// Surface returns the current drawing surface.
func (r *Renderer) Surface() *image.RGBA { return r.surface }

func (r *Renderer) resize(size image.Point) {
	if size.X < 0 {
		size.X = 0
	}
	if size.Y < 0 {
		size.Y = 0
	}
	if r.surface.Bounds().Size() != size {
		r.surface = image.NewRGBA(image.Rectangle{Max: size})
		return
	}
	r.Clear()
}

func (r *Renderer) drawRegion(reg regions.Region, scaleX, scaleY float64) {
	pts := outline(reg, scaleX, scaleY)
	if len(pts) < 3 {
		return
	}
	stroke := ColorFor(reg.Category)
	fill := stroke
	fill.A = FillAlpha

	size := r.surface.Bounds().Size()
	r.z.Reset(size.X, size.Y)
	addPath(r.z, pts)
	r.z.Draw(r.surface, r.surface.Bounds(), image.NewUniform(fill), image.Point{})

	r.z.Reset(size.X, size.Y)
	for _, q := range strokeQuads(pts, StrokeWidth) {
		addPath(r.z, q)
	}
	r.z.Draw(r.surface, r.surface.Bounds(), image.NewUniform(stroke), image.Point{})
}

// addPath appends a closed path with a fixed winding so overlapping pieces of
// one stroke add up instead of cancelling.
func addPath(z *vector.Rasterizer, pts []vec) {
	n := len(pts)
	at := func(i int) vec { return pts[i] }
	if signedArea(pts) < 0 {
		at = func(i int) vec { return pts[n-1-i] }
	}
	p := at(0)
	z.MoveTo(float32(p.X), float32(p.Y))
	for i := 1; i < n; i++ {
		p = at(i)
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
}

// Render is a one-shot helper that draws rs on a fresh surface.
func Render(rs []regions.Region, natural, displayed image.Point) *image.RGBA {
	return NewRenderer().Render(rs, natural, displayed)
}

// Composite draws overlay over base and returns a new RGBA image the size of
// base. A nil or differently sized overlay is aligned to the top-left corner.
func Composite(base image.Image, overlay *image.RGBA) *image.RGBA {
	if base == nil {
		return nil
	}
	b := base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), base, b.Min, draw.Src)
	if overlay != nil {
		draw.Draw(out, out.Bounds(), overlay, overlay.Bounds().Min, draw.Over)
	}
	return out
}
