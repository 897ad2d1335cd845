// Package explain classifies raw compiler diagnostics and crash logs into a
// closed set of fault categories and prints located, human-friendly
// explanations. Классификация чисто текстовая: ни парсера, ни семантики —
// только эвристики над сообщением.
package explain

import (
	"io"

	"forge/internal/diagfmt"
)

// Context carries the per-pass rendering environment handed to every rule
// invocation. It is constructed once per diagnostic-processing pass and is
// read-only for rules.
type Context struct {
	Out     io.Writer
	Palette *diagfmt.Palette
	Frame   diagfmt.FrameOpts
}

// NewContext builds a Context writing to out with the default frame window.
func NewContext(out io.Writer, colorEnabled bool) *Context {
	return &Context{
		Out:     out,
		Palette: diagfmt.NewPalette(colorEnabled),
		Frame:   diagfmt.DefaultFrameOpts(),
	}
}
