package view

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/soocke/cellcount-go/ui/images"
	"github.com/soocke/cellcount-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PreviewPanel shows the composed preview image with a caption line.
type PreviewPanel interface {
	ShowPreview(img image.Image)
	ShowPlaceholder(text string)
	ClearPreview()
}

type previewPanel struct {
	logger  *slog.Logger
	label   *LabelWidget
	caption *TLabelWidget
	photo   *Img // last Tk photo image instance
}

// Internal state tracks the current photo so it can be disposed before being
// replaced, preventing accumulation of off-screen image data.

const emptyPreviewText = "No image selected"

// NewPreviewPanel creates the preview label and caption at row of the App grid.
func NewPreviewPanel(row, col int, logger *slog.Logger) PreviewPanel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &previewPanel{logger: logger}
	p.photo = NewPhoto(Data(placeholderPNG()))
	p.label = Label(Image(p.photo), Borderwidth(1), Relief("sunken"), Background(theme.ColorSurface))
	Grid(p.label, Row(row), Column(col), Sticky("nsew"), Padx("0.4m"), Pady("0.4m"))
	p.caption = TLabel(Txt(emptyPreviewText), Style(theme.StyleMutedLabel))
	Grid(p.caption, Row(row+1), Column(col), Sticky("w"), Padx("0.4m"))
	return p
}

func placeholderPNG() []byte {
	placeholder := image.NewRGBA(image.Rect(0, 0, 320, 200))
	draw.Draw(placeholder, placeholder.Bounds(), &image.Uniform{C: color.RGBA{0xee, 0xf1, 0xf5, 0xff}}, image.Point{}, draw.Src)
	data, _ := images.EncodePNG(placeholder) // fixed non-empty RGBA, cannot fail
	return data
}

func (p *previewPanel) replace(png []byte) {
	if p.photo != nil {
		p.photo.Delete()
	}
	p.photo = NewPhoto(Data(png))
	p.label.Configure(Image(p.photo))
}

func (p *previewPanel) ShowPreview(img image.Image) {
	if p == nil || p.label == nil || img == nil {
		return
	}
	data, err := images.EncodePNG(img)
	if err != nil {
		p.logger.Error("preview encode failed, keeping previous image", "error", err)
		return
	}
	p.replace(data)
	size := img.Bounds().Size()
	p.caption.Configure(Txt(formatSize(size)))
}

func (p *previewPanel) ShowPlaceholder(text string) {
	if p == nil || p.label == nil {
		return
	}
	p.replace(placeholderPNG())
	p.caption.Configure(Txt(text))
}

func (p *previewPanel) ClearPreview() { p.ShowPlaceholder(emptyPreviewText) }

func formatSize(s image.Point) string { return fmt.Sprintf("Preview %d×%d", s.X, s.Y) }
