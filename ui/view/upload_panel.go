package view

import (
	"github.com/soocke/cellcount-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const uploadPromptText = "Choose an image, load the sample or pass image paths on the command line."

// UploadPanel holds the image source buttons and the file info line.
type UploadPanel interface {
	SetFileInfo(text string)
	SetRemoveEnabled(enabled bool)
	SetUploadPrompt(visible bool)
}

type uploadPanel struct {
	prompt    *TLabelWidget
	info      *TLabelWidget
	removeBtn *TButtonWidget
}

// UploadHandlers are invoked on the upload buttons.
type UploadHandlers struct {
	OnChoose  func()
	OnCapture func()
	OnSample  func()
	OnRemove  func()
}

// NewUploadPanel builds the panel inside parent starting at row and returns
// the next free row.
func NewUploadPanel(parent *FrameWidget, row int, h UploadHandlers) (UploadPanel, int) {
	p := &uploadPanel{}
	heading := parent.TLabel(Txt("Image"), Style(theme.StyleHeadingLabel))
	Grid(heading, In(parent), Row(row), Column(0), Columnspan(2), Sticky("w"))
	row++
	p.prompt = parent.TLabel(Txt(uploadPromptText), Wraplength("260p"), Style(theme.StyleMutedLabel))
	Grid(p.prompt, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Pady("0.3m"))
	row++

	choose := parent.TButton(Txt("Choose Image…"), Style(theme.StylePrimaryButton), Command(h.OnChoose))
	Grid(choose, In(parent), Row(row), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	sample := parent.TButton(Txt("Load Sample"), Command(h.OnSample))
	Grid(sample, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	row++
	capture := parent.TButton(Txt("Capture Screen"), Command(h.OnCapture))
	Grid(capture, In(parent), Row(row), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	p.removeBtn = parent.TButton(Txt("Remove"), Style(theme.StyleDangerButton), Command(h.OnRemove))
	Grid(p.removeBtn, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	row++

	p.info = parent.TLabel(Txt(""), Wraplength("260p"))
	Grid(p.info, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Pady("0.3m"))
	row++
	return p, row
}

func (p *uploadPanel) SetFileInfo(text string) {
	if p == nil || p.info == nil {
		return
	}
	p.info.Configure(Txt(text))
}

func (p *uploadPanel) SetRemoveEnabled(enabled bool) {
	if p == nil || p.removeBtn == nil {
		return
	}
	p.removeBtn.Configure(State(stateOf(enabled)))
}

func (p *uploadPanel) SetUploadPrompt(visible bool) {
	if p == nil || p.prompt == nil {
		return
	}
	if visible {
		p.prompt.Configure(Txt(uploadPromptText))
	} else {
		p.prompt.Configure(Txt(""))
	}
}

func stateOf(enabled bool) string {
	if enabled {
		return "normal"
	}
	return "disabled"
}
