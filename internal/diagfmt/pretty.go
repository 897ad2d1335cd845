package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"

	"forge/internal/diag"
	"forge/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждого diag печатает:
// <path>:<line>:<col>: <severity>: <Message>
// затем, если Context >= 0 и есть локация, рамку кода. Цвет включается опцией.
func Pretty(w io.Writer, diags []diag.Diagnostic, opts PrettyOpts) {
	pal := NewPalette(opts.Color)
	frameOpts := FrameOpts{Context: opts.Context, MaxWidth: opts.MaxWidth, TabWidth: 4}

	for _, d := range diags {
		headline := pal.Category
		if d.Severity == diag.SevWarning {
			headline = pal.Warning
		} else if d.Severity == diag.SevNote {
			headline = pal.Context
		}

		if d.HasLocation() {
			path := FormatPath(d.File, opts.PathMode, opts.BaseDir)
			pal.Location.Fprintf(w, "%s:%d:%d: ", path, d.Line, d.Col)
		}
		headline.Fprintf(w, "%s: ", d.Severity)
		fmt.Fprintln(w, d.Message)

		if opts.Context >= 0 {
			RenderFrame(w, pal, d, frameOpts)
		}
	}
}

// FormatPath renders path according to mode.
// baseDir используется только в режиме relative.
func FormatPath(path string, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := source.AbsolutePath(path); err == nil {
			return abs
		}
		return path

	case PathModeRelative:
		if rel, err := source.RelativePath(path, baseDir); err == nil {
			return rel
		}
		return path

	case PathModeBasename:
		return source.BaseName(path)

	default:
		// Auto: короткие и относительные пути как есть, иначе basename.
		if len(path) < 40 || !filepath.IsAbs(path) {
			return path
		}
		return source.BaseName(path)
	}
}
