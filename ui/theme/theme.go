package theme

// Centralized theming and styling initialization for the cell count UI.
// Provides palette constants and InitStyles to activate a base theme and
// configure semantic widget styles.

import (
	"github.com/soocke/cellcount-go/domain/classify"
	"github.com/soocke/cellcount-go/domain/overlay"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Palette defines core semantic colors used across widgets.
const (
	ColorBg        = "#f7f9fb" // app background
	ColorSurface   = "#ffffff" // panels, cards
	ColorBorder    = "#d0d7de"
	ColorPrimary   = "#2563eb" // buttons, accents
	ColorDanger    = "#dc2626"
	ColorText      = "#1e293b"
	ColorTextMuted = "#64748b"
)

// CategoryColor returns the marker colour of cat as a Tk colour string, so
// counters match the overlay.
func CategoryColor(cat classify.Category) string {
	return overlay.Hex(overlay.ColorFor(cat))
}

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleMutedLabel    = "muted.TLabel"
	StyleHeadingLabel  = "heading.TLabel"
)

// InitStyles activates the base theme and configures the semantic styles.
func InitStyles() {
	_ = ActivateTheme("azure light") // baseline metrics
	App.Configure(Background(ColorBg))

	StyleConfigure(StylePrimaryButton,
		Background(ColorPrimary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(ColorDanger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleMutedLabel,
		Foreground(ColorTextMuted),
		Padding("2p 1p"),
	)
	StyleConfigure(StyleHeadingLabel,
		Foreground(ColorText),
		Font("TkHeadingFont"),
		Padding("2p 4p"),
	)
}
