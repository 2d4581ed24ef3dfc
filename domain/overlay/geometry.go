package overlay

import (
	"math"

	"github.com/soocke/cellcount-go/domain/regions"
)

type vec struct{ X, Y float64 }

// curveSegments is the vertex count used to approximate circles and ellipses.
const curveSegments = 72

const (
	starPoints     = 5
	starInnerRatio = 0.4
)

// outline returns the closed outline of r in display space, already scaled
// and rotated about the marker centre.
func outline(r regions.Region, scaleX, scaleY float64) []vec {
	cx, cy := r.X*scaleX, r.Y*scaleY
	size := r.Size * math.Min(scaleX, scaleY)
	half := size / 2

	var local []vec
	switch r.Shape {
	case regions.ShapeCircle:
		local = ellipsePoints(half, half)
	case regions.ShapeRectangle:
		local = []vec{{-half, -half}, {half, -half}, {half, half}, {-half, half}}
	case regions.ShapeEllipse:
		local = ellipsePoints(half, half*r.AspectRatio)
	case regions.ShapePolygon:
		sides := r.Sides
		if sides < 3 {
			sides = regions.MinSides
		}
		local = make([]vec, sides)
		for i := range local {
			a := 2 * math.Pi * float64(i) / float64(sides)
			local[i] = vec{math.Cos(a) * half, math.Sin(a) * half}
		}
	case regions.ShapeStar:
		local = make([]vec, starPoints*2)
		inner := half * starInnerRatio
		for i := range local {
			a := math.Pi * float64(i) / starPoints
			rad := half
			if i%2 == 1 {
				rad = inner
			}
			local[i] = vec{math.Cos(a) * rad, math.Sin(a) * rad}
		}
	default:
		return nil
	}

	sin, cos := math.Sincos(r.Rotation)
	out := make([]vec, len(local))
	for i, p := range local {
		out[i] = vec{
			X: cx + p.X*cos - p.Y*sin,
			Y: cy + p.X*sin + p.Y*cos,
		}
	}
	return out
}

func ellipsePoints(rx, ry float64) []vec {
	pts := make([]vec, curveSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / curveSegments
		pts[i] = vec{math.Cos(a) * rx, math.Sin(a) * ry}
	}
	return pts
}

// signedArea is the shoelace area; the sign encodes winding direction.
func signedArea(pts []vec) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return a / 2
}

// strokeQuads expands every edge of the closed outline into a quad of the
// given width, plus a small disc at each vertex to cover the joins.
func strokeQuads(pts []vec, width float64) [][]vec {
	if len(pts) < 2 || width <= 0 {
		return nil
	}
	hw := width / 2
	out := make([][]vec, 0, len(pts)*2)
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		out = append(out, []vec{
			{a.X + nx, a.Y + ny},
			{b.X + nx, b.Y + ny},
			{b.X - nx, b.Y - ny},
			{a.X - nx, a.Y - ny},
		})
	}
	for _, p := range pts {
		disc := make([]vec, 8)
		for i := range disc {
			a := 2 * math.Pi * float64(i) / 8
			disc[i] = vec{p.X + math.Cos(a)*hw, p.Y + math.Sin(a)*hw}
		}
		out = append(out, disc)
	}
	return out
}
