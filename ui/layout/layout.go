// Package layout holds the Tk-free arithmetic behind the window layout so it
// can be tested without a display.
package layout

import (
	"image"
	"regexp"
	"strconv"
	"strings"
)

// Space reserved around the preview by the other panels, in pixels.
const (
	SidebarWidth  = 300
	ResultsHeight = 190
	minPreview    = 64
)

// geomRe matches window geometry strings in the format "WIDTHxHEIGHT+X+Y".
var geomRe = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

// ParseGeometry parses a Tk geometry string and returns the corresponding
// rectangle.
func ParseGeometry(g string) (image.Rectangle, bool) {
	g = strings.TrimSpace(g)
	m := geomRe.FindStringSubmatch(g)
	if len(m) != 5 {
		return image.Rectangle{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, _ := strconv.Atoi(m[3])
	y, _ := strconv.Atoi(m[4])
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}

// PreviewBounds returns the largest preview box that leaves room for the
// sidebar and the results panel in a window of the given size.
func PreviewBounds(windowW, windowH int) (int, int) {
	w := windowW - SidebarWidth
	h := windowH - ResultsHeight
	if w < minPreview {
		w = minPreview
	}
	if h < minPreview {
		h = minPreview
	}
	return w, h
}

var spinner = []string{"◐", "◓", "◑", "◒"}

// BusyLabel returns the analyze button caption for busy frame n.
func BusyLabel(frame int) string {
	if frame < 0 {
		frame = 0
	}
	return spinner[frame%len(spinner)] + " Analyzing" + strings.Repeat(".", frame%4)
}
