// Package diag defines the structured record types shared by the diagnostic
// explainer: a located compiler message and its severity.
package diag

import "fmt"

// Diagnostic is a single located compiler message. Message holds the full
// raw diagnostic text and is the only field classification rules inspect.
//
// Line <= 0 or an empty File means the diagnostic carries no renderable
// location; rendering then degrades silently, это не ошибка.
type Diagnostic struct {
	File     string
	Line     int
	Col      int
	Severity Severity
	Message  string
}

// HasLocation reports whether the diagnostic points at a concrete position
// inside a named file.
func (d Diagnostic) HasLocation() bool {
	return d.File != "" && d.Line > 0
}

// String renders the canonical "path:line:col: severity: message" form.
func (d Diagnostic) String() string {
	if !d.HasLocation() {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Col, d.Severity, d.Message)
}
