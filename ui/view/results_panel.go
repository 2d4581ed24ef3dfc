package view

import (
	"fmt"

	"github.com/soocke/cellcount-go/domain/animate"
	"github.com/soocke/cellcount-go/domain/classify"
	"github.com/soocke/cellcount-go/ui/presenter"
	"github.com/soocke/cellcount-go/ui/theme"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// ResultsPanel shows the per-category counters, the total and the
// classifier that produced them. While hidden, counter writes are kept and
// shown on the next reveal.
type ResultsPanel interface {
	SetResultsVisible(visible bool)
	SetClassifierUsed(name string)
	CounterSink(key string) animate.Sink
}

type counterRow struct {
	name  *LabelWidget
	value *LabelWidget
	title string
	text  string
}

type resultsPanel struct {
	heading *TLabelWidget
	used    *TLabelWidget
	rows    map[string]*counterRow
	order   []string
	visible bool
	usedTxt string
}

// NewResultsPanel builds the results frame at row of the App grid, spanning
// span columns.
func NewResultsPanel(row, span int) ResultsPanel {
	frame := Frame(Borderwidth(1), Relief("groove"))
	Grid(frame, Row(row), Column(0), Columnspan(span), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	p := &resultsPanel{rows: make(map[string]*counterRow)}
	p.heading = frame.TLabel(Txt(""), Style(theme.StyleHeadingLabel))
	Grid(p.heading, In(frame), Row(0), Column(0), Columnspan(classify.NumCategories+1), Sticky("w"))

	col := 0
	add := func(key, title, fg string) {
		r := &counterRow{title: title}
		r.name = frame.Label(Txt(""), Foreground(fg))
		r.value = frame.Label(Txt(""), Foreground(fg), Font("TkHeadingFont"), Width(6))
		Grid(r.name, In(frame), Row(1), Column(col), Padx("2m"))
		Grid(r.value, In(frame), Row(2), Column(col), Padx("2m"))
		p.rows[key] = r
		p.order = append(p.order, key)
		col++
	}
	for _, c := range classify.Categories {
		add(c.String(), fmt.Sprintf("Category %s", c), theme.CategoryColor(c))
	}
	add(presenter.TotalKey, "Total", theme.ColorText)

	p.used = frame.TLabel(Txt(""), Style(theme.StyleMutedLabel))
	Grid(p.used, In(frame), Row(3), Column(0), Columnspan(col), Sticky("w"))
	p.render()
	return p
}

func (p *resultsPanel) SetResultsVisible(visible bool) {
	if p == nil {
		return
	}
	p.visible = visible
	p.render()
}

func (p *resultsPanel) SetClassifierUsed(name string) {
	if p == nil {
		return
	}
	p.usedTxt = name
	p.render()
}

func (p *resultsPanel) CounterSink(key string) animate.Sink {
	return animate.SinkFunc(func(text string) {
		if p == nil {
			return
		}
		r := p.rows[key]
		if r == nil {
			return
		}
		r.text = text
		if p.visible {
			r.value.Configure(Txt(text))
		}
	})
}

func (p *resultsPanel) render() {
	if p.visible {
		p.heading.Configure(Txt("Results"))
	} else {
		p.heading.Configure(Txt(""))
	}
	for _, key := range p.order {
		r := p.rows[key]
		if p.visible {
			r.name.Configure(Txt(r.title))
			r.value.Configure(Txt(r.text))
		} else {
			r.name.Configure(Txt(""))
			r.value.Configure(Txt(""))
		}
	}
	if p.visible && p.usedTxt != "" {
		p.used.Configure(Txt("Classifier used: " + p.usedTxt))
	} else {
		p.used.Configure(Txt(""))
	}
}
