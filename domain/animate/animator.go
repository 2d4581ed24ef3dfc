package animate

import "time"

// Animator advances a set of keyed counters once per frame. Counters run
// independently; starting a key that is already animating replaces it.
// Not safe for concurrent use: drive it from the UI thread.
type Animator struct {
	duration time.Duration
	counters map[string]*Counter
}

// NewAnimator returns an animator using duration for new counters.
func NewAnimator(duration time.Duration) *Animator {
	return &Animator{duration: duration, counters: make(map[string]*Counter)}
}

// Start begins animating key towards target and renders the first frame.
func (a *Animator) Start(key string, target int, sink Sink, now time.Time) {
	if a == nil {
		return
	}
	c := NewCounter(target, now, a.duration, sink)
	a.counters[key] = c
	if c.Step(now) {
		delete(a.counters, key)
	}
}

// Tick steps every running counter and drops finished ones.
func (a *Animator) Tick(now time.Time) {
	if a == nil {
		return
	}
	for key, c := range a.counters {
		if c.Step(now) {
			delete(a.counters, key)
		}
	}
}

// SetDuration changes the duration of counters started afterwards.
func (a *Animator) SetDuration(d time.Duration) {
	if a == nil {
		return
	}
	a.duration = d
}

// Stop abandons all running counters without writing final frames.
func (a *Animator) Stop() {
	if a == nil {
		return
	}
	clear(a.counters)
}

// Active reports the number of running counters.
func (a *Animator) Active() int {
	if a == nil {
		return 0
	}
	return len(a.counters)
}
