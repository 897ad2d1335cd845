package diagfmt

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"forge/internal/diag"
	"forge/internal/source"
)

const ellipsis = "…"

// RenderFrame prints an aligned, caret-annotated excerpt of the source
// around the diagnostic's location:
//
//	--> src/main.cpp:3:7
//	code:
//	  2 | int main() {
//	  3 |     int x
//	    |       ^
//	  4 |     return x;
//
// Отсутствие локации, нечитаемый файл или строка за пределами файла —
// тихий no-op: рамка опциональна и её пропуск не является ошибкой.
func RenderFrame(w io.Writer, pal *Palette, d diag.Diagnostic, opts FrameOpts) {
	if !d.HasLocation() {
		return
	}
	file, err := source.Load(d.File)
	if err != nil {
		return
	}
	total := file.LineCount()
	if d.Line > total {
		return
	}

	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	if opts.Context < 0 {
		opts.Context = 0
	}

	from := d.Line - opts.Context
	if from < 1 {
		from = 1
	}
	to := d.Line + opts.Context
	if to > total {
		to = total
	}
	// Ширина gutter берётся от последней строки окна, чтобы колонка "|"
	// не плавала внутри одной рамки.
	gutter := digitCount(to)

	pal.Location.Fprintf(w, "--> %s:%d:%d\n", d.File, d.Line, d.Col)
	fmt.Fprintln(w, "code:")

	for n := from; n <= to; n++ {
		text := expandTabs(file.Line(n), opts.TabWidth)
		prefix := fmt.Sprintf("  %*d | ", gutter, n)

		if n != d.Line {
			if opts.MaxWidth > 0 && utf8.RuneCountInString(text) > opts.MaxWidth {
				text = runewidth.Truncate(text, opts.MaxWidth, ellipsis)
			}
			pal.Gutter.Fprint(w, prefix)
			pal.Context.Fprintln(w, text)
			continue
		}

		caret := caretColumn(file.Line(n), d.Col, opts.TabWidth)
		text, caretOff := cropAroundCaret(text, caret-1, opts.MaxWidth)
		pal.Gutter.Fprint(w, prefix)
		fmt.Fprintln(w, text)
		pal.Gutter.Fprintf(w, "  %*s | ", gutter, "")
		pal.Category.Fprintln(w, strings.Repeat(" ", caretOff)+"^")
	}
}

func digitCount(n int) int {
	count := 1
	for n >= 10 {
		n /= 10
		count++
	}
	return count
}

// expandTabs replaces every tab with spaces up to the next multiple of
// tabWidth, driven by a running display column. Любой другой символ
// копируется и сдвигает колонку на единицу.
func expandTabs(line string, tabWidth int) string {
	if !strings.ContainsRune(line, '\t') {
		return line
	}
	var b strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			for i := 0; i < n; i++ {
				b.WriteByte(' ')
			}
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// caretColumn maps a 1-based column of the raw line to the matching column
// of the tab-expanded line, applying the same expansion rule so the caret
// stays aligned under mixed tab/space indentation. The result is clamped to
// [1, expandedLen+1]: an insertion point just past the last character is a
// valid target.
func caretColumn(line string, col, tabWidth int) int {
	if col < 1 {
		col = 1
	}
	expanded := 0
	seen := 0
	for _, r := range line {
		if seen >= col-1 {
			break
		}
		if r == '\t' {
			expanded += tabWidth - expanded%tabWidth
		} else {
			expanded++
		}
		seen++
	}
	return expanded + 1
}

// cropAroundCaret applies a centered sliding-window crop to the error line
// when it exceeds maxWidth. caretOff is the 0-based caret offset in line;
// the returned offset is relative to the returned slice and clamped to
// [0, maxWidth-1]. Обрезанные края помечаются многоточием.
func cropAroundCaret(line string, caretOff, maxWidth int) (string, int) {
	runes := []rune(line)
	if caretOff > len(runes) {
		caretOff = len(runes)
	}
	if caretOff < 0 {
		caretOff = 0
	}
	if maxWidth <= 0 || len(runes) <= maxWidth {
		return line, caretOff
	}

	half := maxWidth / 2
	start := caretOff - half
	if start < 0 {
		start = 0
	}
	end := start + maxWidth
	if end > len(runes) {
		end = len(runes)
	}
	start = end - maxWidth
	if start < 0 {
		start = 0
	}

	slice := append([]rune(nil), runes[start:end]...)
	off := caretOff - start
	if off < 0 {
		off = 0
	}
	if off > maxWidth-1 {
		off = maxWidth - 1
	}
	if start > 0 {
		slice[0] = []rune(ellipsis)[0]
	}
	if end < len(runes) {
		slice[len(slice)-1] = []rune(ellipsis)[0]
	}
	return string(slice), off
}
