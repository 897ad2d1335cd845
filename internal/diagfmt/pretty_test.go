package diagfmt

import (
	"bytes"
	"testing"

	"forge/internal/diag"
)

func TestPrettyOneLinePerDiagnostic(t *testing.T) {
	diags := []diag.Diagnostic{
		{File: "src/main.cpp", Line: 3, Col: 7, Severity: diag.SevError, Message: "expected ';' before 'return'"},
		{Severity: diag.SevWarning, Message: "linker: library not stripped"},
	}

	var buf bytes.Buffer
	Pretty(&buf, diags, PrettyOpts{Color: false, Context: -1})

	want := "src/main.cpp:3:7: error: expected ';' before 'return'\n" +
		"warning: linker: library not stripped\n"
	if got := buf.String(); got != want {
		t.Fatalf("Pretty output:\n%q\nwant:\n%q", got, want)
	}
}

func TestFormatPathModes(t *testing.T) {
	if got := FormatPath("/very/long/absolute/path/that/keeps/going/main.cpp", PathModeBasename, ""); got != "main.cpp" {
		t.Fatalf("basename mode = %q", got)
	}
	if got := FormatPath("src/main.cpp", PathModeAuto, ""); got != "src/main.cpp" {
		t.Fatalf("auto mode should keep short relative paths, got %q", got)
	}
	if got := FormatPath("/very/long/absolute/path/that/keeps/going/on/main.cpp", PathModeAuto, ""); got != "main.cpp" {
		t.Fatalf("auto mode should shorten long absolute paths, got %q", got)
	}
}
