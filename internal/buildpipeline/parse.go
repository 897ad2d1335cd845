package buildpipeline

import (
	"regexp"
	"strconv"

	"forge/internal/diag"
)

// reDiagnostic matches gcc/clang style "file:line:col: severity: message"
// lines. Якорим по началу строки, чтобы не ловить упоминания путей внутри
// сообщений.
var reDiagnostic = regexp.MustCompile(`(?m)^([^\s:][^:\n]*):(\d+):(\d+):\s+(fatal error|error|warning|note|remark):\s+(.+)$`)

// ParseDiagnostics extracts structured diagnostics from raw compiler output.
// Unrecognized lines are skipped; the caller keeps the raw log for the
// passthrough fallback.
func ParseDiagnostics(raw string) []diag.Diagnostic {
	matches := reDiagnostic.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]diag.Diagnostic, 0, len(matches))
	for _, m := range matches {
		line, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		col, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		sev, ok := diag.ParseSeverity(m[4])
		if !ok {
			continue
		}
		out = append(out, diag.Diagnostic{
			File:     m[1],
			Line:     line,
			Col:      col,
			Severity: sev,
			Message:  m[5],
		})
	}
	return out
}
