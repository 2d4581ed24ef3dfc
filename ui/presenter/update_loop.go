package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// Tick runs on the UI thread: it completes decodes, applies analysis
// results, advances animations and debounced redraws, then invokes the
// scheduler callback. The zero value is usable (methods are nil-safe).
type Loop struct {
	Upload   *UploadPresenter
	Analysis *AnalysisPresenter
	Preview  *PreviewPresenter
	Schedule func()
	Now      func() time.Time
}

func NewLoop(upload *UploadPresenter, analysis *AnalysisPresenter, preview *PreviewPresenter, schedule func()) *Loop {
	return &Loop{Upload: upload, Analysis: analysis, Preview: preview, Schedule: schedule, Now: time.Now}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	// Decodes first so a result arriving in the same tick sees a ready slot.
	l.Upload.Tick()
	l.Analysis.Tick(now)
	l.Preview.Tick(now)
	if l.Schedule != nil {
		l.Schedule()
	}
}
