package regions

import "github.com/soocke/cellcount-go/domain/classify"

// Shape enumerates the marker outlines.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeRectangle
	ShapeEllipse
	ShapePolygon
	ShapeStar
)

// Shapes lists every marker shape.
var Shapes = []Shape{ShapeCircle, ShapeRectangle, ShapeEllipse, ShapePolygon, ShapeStar}

func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeRectangle:
		return "rect"
	case ShapeEllipse:
		return "ellipse"
	case ShapePolygon:
		return "polygon"
	case ShapeStar:
		return "star"
	default:
		return "unknown"
	}
}

// Region is one generated marker in natural image pixel space.
type Region struct {
	Category    classify.Category
	X, Y        float64
	Size        float64
	Shape       Shape
	Rotation    float64 // radians
	AspectRatio float64 // ellipse only
	Sides       int     // polygon only
}

// Generator turns category counts into markers for an image of the given
// natural size.
type Generator interface {
	Generate(width, height float64, counts classify.Counts) []Region
}

// CountByCategory tallies regions per category.
func CountByCategory(rs []Region) classify.Counts {
	var out classify.Counts
	for _, r := range rs {
		if r.Category.Valid() {
			out[r.Category]++
		}
	}
	return out
}
