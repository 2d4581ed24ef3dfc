package animate

import (
	"math"
	"strconv"
	"time"
)

// DefaultDuration is the length of a count-up animation.
const DefaultDuration = 1500 * time.Millisecond

// Sink receives the text of each animation frame.
type Sink interface {
	SetText(text string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(string)

func (f SinkFunc) SetText(text string) { f(text) }

// EaseOutCubic maps normalized time t in [0,1] to progress.
func EaseOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	inv := 1 - t
	return 1 - inv*inv*inv
}

// Counter animates a displayed integer from 0 to a target.
type Counter struct {
	target   int
	start    time.Time
	duration time.Duration
	sink     Sink
	last     int
	done     bool
}

// NewCounter creates a counter starting at start. Non-positive durations
// complete on the first step.
func NewCounter(target int, start time.Time, duration time.Duration, sink Sink) *Counter {
	return &Counter{target: target, start: start, duration: duration, sink: sink, last: -1}
}

// Value returns the eased value at now without touching the sink.
func (c *Counter) Value(now time.Time) int {
	if c.duration <= 0 {
		return c.target
	}
	t := float64(now.Sub(c.start)) / float64(c.duration)
	return int(math.Floor(float64(c.target) * EaseOutCubic(t)))
}

// Step renders the frame for now and reports completion. The final frame
// always writes exactly the target.
func (c *Counter) Step(now time.Time) bool {
	if c.done {
		return true
	}
	if c.duration <= 0 || now.Sub(c.start) >= c.duration {
		c.emit(c.target)
		c.done = true
		return true
	}
	c.emit(c.Value(now))
	return false
}

// Done reports whether the final frame has been written.
func (c *Counter) Done() bool { return c.done }

// Target returns the value the counter settles on.
func (c *Counter) Target() int { return c.target }

func (c *Counter) emit(v int) {
	if c.sink == nil || v == c.last {
		return
	}
	c.last = v
	c.sink.SetText(strconv.Itoa(v))
}
