package classify

import (
	"context"
	"image"
	"math/rand/v2"
	"sync"
	"time"
)

// Range is an inclusive integer interval.
type Range struct {
	Min, Max int
}

// Profile holds one count range per category.
type Profile [NumCategories]Range

var profiles = map[ClassifierID]Profile{
	// leans towards A and B
	KNNCosine: {{15, 39}, {10, 29}, {5, 19}, {2, 11}},
	// balanced
	KNNCubic: {{8, 27}, {8, 27}, {8, 27}, {5, 19}},
	// leans towards C and D
	NaiveBayes: {{5, 19}, {5, 19}, {15, 39}, {10, 29}},
}

// ProfileFor returns the count ranges of id.
func ProfileFor(id ClassifierID) (Profile, bool) {
	p, ok := profiles[id]
	return p, ok
}

const (
	DefaultMinDelay = 2 * time.Second
	DefaultMaxDelay = 3 * time.Second
)

// MockClassifier fabricates counts from per-classifier random ranges after an
// artificial processing delay. The image content is never inspected.
type MockClassifier struct {
	mu       sync.Mutex
	rng      *rand.Rand
	minDelay time.Duration
	maxDelay time.Duration
}

// MockOption configures a MockClassifier.
type MockOption func(*MockClassifier)

// WithDelay sets the artificial latency bounds. Zero disables the delay.
func WithDelay(min, max time.Duration) MockOption {
	return func(m *MockClassifier) {
		if min < 0 {
			min = 0
		}
		if max < min {
			max = min
		}
		m.minDelay, m.maxDelay = min, max
	}
}

// WithSource replaces the random source, mainly for deterministic tests.
func WithSource(src rand.Source) MockOption {
	return func(m *MockClassifier) { m.rng = rand.New(src) }
}

// NewMockClassifier returns a classifier with the default 2-3s latency and a
// randomly seeded source.
func NewMockClassifier(opts ...MockOption) *MockClassifier {
	m := &MockClassifier{
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		minDelay: DefaultMinDelay,
		maxDelay: DefaultMaxDelay,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// SetDelay changes the latency bounds for subsequent calls.
func (m *MockClassifier) SetDelay(min, max time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	WithDelay(min, max)(m)
}

// Classify waits for the configured delay then samples counts for id.
// Unknown identifiers yield all-zero counts without error.
func (m *MockClassifier) Classify(ctx context.Context, _ image.Image, id ClassifierID) (Counts, error) {
	if err := ctx.Err(); err != nil {
		return Counts{}, err
	}
	if d := m.delay(); d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Counts{}, ctx.Err()
		case <-t.C:
		}
	}
	return m.Sample(id), nil
}

// Sample draws counts for id immediately.
func (m *MockClassifier) Sample(id ClassifierID) Counts {
	var counts Counts
	p, ok := profiles[id]
	if !ok {
		return counts
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range p {
		counts[i] = r.Min + m.rng.IntN(r.Max-r.Min+1)
	}
	return counts
}

func (m *MockClassifier) delay() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxDelay <= 0 {
		return 0
	}
	span := m.maxDelay - m.minDelay
	if span <= 0 {
		return m.minDelay
	}
	return m.minDelay + time.Duration(m.rng.Int64N(int64(span)+1))
}
