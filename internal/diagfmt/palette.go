package diagfmt

import "github.com/fatih/color"

// Palette fixes the style roles used by explainer output. The roles are the
// contract; конкретные цвета — косметика и могут деградировать до
// обычного текста.
type Palette struct {
	Category *color.Color // category / error headline
	Hint     *color.Color // actionable hint
	Location *color.Color // file:line:col references
	Context  *color.Color // dimmed code context
	Gutter   *color.Color // dimmed line-number gutter
	Warning  *color.Color // warning headline
}

// NewPalette returns the fixed role palette. With enabled == false every
// style prints plain text regardless of the terminal.
func NewPalette(enabled bool) *Palette {
	p := &Palette{
		Category: color.New(color.FgRed, color.Bold),
		Hint:     color.New(color.FgYellow),
		Location: color.New(color.FgGreen),
		Context:  color.New(color.Faint),
		Gutter:   color.New(color.Faint),
		Warning:  color.New(color.FgYellow, color.Bold),
	}
	if !enabled {
		for _, c := range []*color.Color{p.Category, p.Hint, p.Location, p.Context, p.Gutter, p.Warning} {
			c.DisableColor()
		}
	} else {
		for _, c := range []*color.Color{p.Category, p.Hint, p.Location, p.Context, p.Gutter, p.Warning} {
			c.EnableColor()
		}
	}
	return p
}
