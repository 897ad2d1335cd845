package diagfmt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"forge/internal/diag"
)

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	return path
}

func render(d diag.Diagnostic, opts FrameOpts) string {
	var buf bytes.Buffer
	RenderFrame(&buf, NewPalette(false), d, opts)
	return buf.String()
}

func TestRenderFrameSilentOnMissingLocation(t *testing.T) {
	path := writeSource(t, "main.cpp", "int main() { return 0; }\n")

	cases := []struct {
		name string
		d    diag.Diagnostic
	}{
		{"empty file", diag.Diagnostic{Line: 1, Col: 1}},
		{"zero line", diag.Diagnostic{File: path, Line: 0, Col: 1}},
		{"negative line", diag.Diagnostic{File: path, Line: -3, Col: 1}},
		{"line past EOF", diag.Diagnostic{File: path, Line: 99, Col: 1}},
		{"unreadable file", diag.Diagnostic{File: filepath.Join(t.TempDir(), "gone.cpp"), Line: 1, Col: 1}},
	}
	for _, tc := range cases {
		if out := render(tc.d, DefaultFrameOpts()); out != "" {
			t.Fatalf("%s: expected no output, got %q", tc.name, out)
		}
	}
}

func TestRenderFrameCaretUnderTab(t *testing.T) {
	// Tab at column 1, error reported immediately after it. With a tab
	// width of 4 the caret must sit under display column 5.
	path := writeSource(t, "tab.cpp", "\tint x = 1\n")
	d := diag.Diagnostic{File: path, Line: 1, Col: 2}

	out := render(d, FrameOpts{Context: 2, TabWidth: 4})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 output lines, got %d:\n%s", len(lines), out)
	}
	if want := "  1 |     int x = 1"; lines[2] != want {
		t.Fatalf("code line = %q, want %q", lines[2], want)
	}
	if want := "    | " + strings.Repeat(" ", 4) + "^"; lines[3] != want {
		t.Fatalf("caret line = %q, want %q", lines[3], want)
	}
}

func TestRenderFrameTruncationIdempotentForShortLines(t *testing.T) {
	path := writeSource(t, "short.cpp", "int main() {\n    return 42;\n}\n")
	d := diag.Diagnostic{File: path, Line: 2, Col: 5}

	plain := render(d, FrameOpts{Context: 1, MaxWidth: 0, TabWidth: 4})
	capped := render(d, FrameOpts{Context: 1, MaxWidth: 80, TabWidth: 4})
	if plain != capped {
		t.Fatalf("truncation changed short-line output:\nplain:\n%s\ncapped:\n%s", plain, capped)
	}
}

func TestRenderFrameGutterAlignment(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 12; i++ {
		sb.WriteString("line\n")
	}
	path := writeSource(t, "long.cpp", sb.String())
	d := diag.Diagnostic{File: path, Line: 10, Col: 1}

	out := render(d, FrameOpts{Context: 2, TabWidth: 4})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// Window is 8..12: every gutter must be two digits wide.
	wantPrefixes := []string{"   8 | ", "   9 | ", "  10 | ", "    | ", "  11 | ", "  12 | "}
	if len(lines) != 2+len(wantPrefixes) {
		t.Fatalf("expected %d lines, got %d:\n%s", 2+len(wantPrefixes), len(lines), out)
	}
	for i, want := range wantPrefixes {
		if !strings.HasPrefix(lines[2+i], want) {
			t.Fatalf("line %d = %q, want prefix %q", 2+i, lines[2+i], want)
		}
	}
}

func TestCropAroundCaretKeepsOffsetInRange(t *testing.T) {
	line := strings.Repeat("x", 500)
	slice, off := cropAroundCaret(line, 249, 80)
	if got := len([]rune(slice)); got != 80 {
		t.Fatalf("slice length = %d, want 80", got)
	}
	if off < 0 || off > 79 {
		t.Fatalf("caret offset %d outside [0,79]", off)
	}
	if !strings.HasPrefix(slice, ellipsis) || !strings.HasSuffix(slice, ellipsis) {
		t.Fatalf("expected ellipsis markers on both cropped edges, got %q", slice)
	}
}

func TestCropAroundCaretEdges(t *testing.T) {
	line := strings.Repeat("y", 100)

	// Caret at the very start: window starts at 0, no left ellipsis.
	slice, off := cropAroundCaret(line, 0, 40)
	if off != 0 {
		t.Fatalf("offset = %d, want 0", off)
	}
	if strings.HasPrefix(slice, ellipsis) {
		t.Fatalf("unexpected left ellipsis for start caret: %q", slice)
	}

	// Caret at the very end: window ends at len, no right ellipsis.
	slice, off = cropAroundCaret(line, 99, 40)
	if strings.HasSuffix(slice, ellipsis) {
		t.Fatalf("unexpected right ellipsis for end caret: %q", slice)
	}
	if off < 0 || off > 39 {
		t.Fatalf("caret offset %d outside [0,39]", off)
	}
}

func TestCaretColumnClampsPastLineEnd(t *testing.T) {
	// Column far beyond the line clamps to an insertion point just past
	// the last expanded character.
	if got, want := caretColumn("ab", 99, 4), 3; got != want {
		t.Fatalf("caretColumn = %d, want %d", got, want)
	}
	if got, want := caretColumn("", 1, 4), 1; got != want {
		t.Fatalf("caretColumn on empty line = %d, want %d", got, want)
	}
}

func TestExpandTabsRunningColumn(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"\tx", "    x"},
		{"ab\tx", "ab  x"},
		{"abcd\tx", "abcd    x"},
		{"no tabs", "no tabs"},
	}
	for _, tc := range cases {
		if got := expandTabs(tc.in, 4); got != tc.want {
			t.Fatalf("expandTabs(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
