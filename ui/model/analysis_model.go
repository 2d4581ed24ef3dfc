package model

import (
	"context"

	"github.com/soocke/cellcount-go/domain/classify"
	"github.com/soocke/cellcount-go/domain/regions"
)

// AnalysisModel tracks the analysis pipeline state. The generation token
// increases on every new request and on every reset, so any asynchronous
// result carrying an older token is stale. Mutated on the UI thread only.
type AnalysisModel struct {
	selected   classify.ClassifierID
	busy       bool
	generation uint64
	cancel     context.CancelFunc

	counts         classify.Counts
	hasResult      bool
	regions        []regions.Region
	classifierUsed classify.ClassifierID
	resultsVisible bool
}

func NewAnalysisModel(selected classify.ClassifierID) *AnalysisModel {
	return &AnalysisModel{selected: selected}
}

// Select sets the classifier used by the next request.
func (m *AnalysisModel) Select(id classify.ClassifierID) {
	if m == nil {
		return
	}
	m.selected = id
}

// Selected returns the chosen classifier (empty when none).
func (m *AnalysisModel) Selected() classify.ClassifierID {
	if m == nil {
		return ""
	}
	return m.selected
}

// Busy reports whether a request is outstanding.
func (m *AnalysisModel) Busy() bool { return m != nil && m.busy }

// Generation returns the current request token.
func (m *AnalysisModel) Generation() uint64 {
	if m == nil {
		return 0
	}
	return m.generation
}

// Begin starts a request: cancels any outstanding one, hides results, marks
// busy and returns the new token with a context cancelled on the next
// Begin or Reset.
func (m *AnalysisModel) Begin(parent context.Context) (uint64, context.Context) {
	m.abort()
	m.generation++
	ctx, cancel := context.WithCancel(parent)
	m.cancel = cancel
	m.busy = true
	m.resultsVisible = false
	return m.generation, ctx
}

// Finish clears busy if token is current. It reports whether the token was
// current.
func (m *AnalysisModel) Finish(token uint64) bool {
	if m == nil || token != m.generation {
		return false
	}
	m.busy = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	return true
}

// SetResult stores a completed analysis. Regions are kept for redraws.
func (m *AnalysisModel) SetResult(counts classify.Counts, rs []regions.Region, used classify.ClassifierID) {
	if m == nil {
		return
	}
	m.counts = counts
	m.regions = rs
	m.classifierUsed = used
	m.hasResult = true
	m.resultsVisible = true
}

// Reset drops results and invalidates any outstanding request.
func (m *AnalysisModel) Reset() {
	if m == nil {
		return
	}
	m.abort()
	m.generation++
	m.busy = false
	m.counts = classify.Counts{}
	m.regions = nil
	m.classifierUsed = ""
	m.hasResult = false
	m.resultsVisible = false
}

// Result returns the last counts and whether a result exists.
func (m *AnalysisModel) Result() (classify.Counts, bool) {
	if m == nil {
		return classify.Counts{}, false
	}
	return m.counts, m.hasResult
}

// Regions returns the cached regions of the last analysis.
func (m *AnalysisModel) Regions() []regions.Region {
	if m == nil {
		return nil
	}
	return m.regions
}

// ClassifierUsed returns the classifier of the last result.
func (m *AnalysisModel) ClassifierUsed() classify.ClassifierID {
	if m == nil {
		return ""
	}
	return m.classifierUsed
}

// ResultsVisible reports whether the results panel should be shown.
func (m *AnalysisModel) ResultsVisible() bool { return m != nil && m.resultsVisible }

func (m *AnalysisModel) abort() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}
