package explain

import (
	"strings"

	"forge/internal/diag"
	"forge/internal/diagfmt"
	"forge/internal/source"
)

// Rule recognizes one fault category in a raw compiler message and explains
// it. Rules are stateless after construction and safe for concurrent use.
type Rule interface {
	// Matches reports whether the rule recognizes the diagnostic.
	// Only the message text is inspected, источник не перечитывается.
	Matches(d diag.Diagnostic) bool
	// Explain prints the friendly explanation. Returning false after a
	// match means "recognized but not confidently explainable"; the caller
	// then falls back to the raw diagnostic.
	Explain(d diag.Diagnostic, rc *Context) bool
}

// TryExplain dispatches d to the first matching rule in registration order
// and returns that rule's Explain result. A match stops the chain even when
// Explain declines. No match returns false.
func TryExplain(d diag.Diagnostic, rc *Context, rules []Rule) bool {
	for _, r := range rules {
		if r.Matches(d) {
			return r.Explain(d, rc)
		}
	}
	return false
}

// DefaultRules returns the rule catalogue in its fixed dispatch order.
// Порядок значим: более специфичные правила стоят раньше.
func DefaultRules() []Rule {
	return []Rule{
		missingSemicolonRule{},
		undeclaredStreamRule{},
		headerNotFoundRule{},
		uniquePtrCopyRule{},
		sharedPtrMisuseRule{},
		newDeleteMismatchRule{},
		danglingViewRule{},
		localReferenceReturnRule{},
		useAfterMoveRule{},
		containerPrintRule{},
	}
}

// emit prints the common four-part explanation shape: category headline,
// code frame, actionable hint, and "at:" footer.
func emit(rc *Context, d diag.Diagnostic, category, hint string) bool {
	rc.Palette.Category.Fprintf(rc.Out, "error: %s\n", category)
	diagfmt.RenderFrame(rc.Out, rc.Palette, d, rc.Frame)
	rc.Palette.Hint.Fprintf(rc.Out, "hint: %s\n", hint)
	if d.HasLocation() {
		rc.Palette.Location.Fprintf(rc.Out, "at: %s:%d:%d\n", source.BaseName(d.File), d.Line, d.Col)
	}
	return true
}

// containsAny reports whether msg contains at least one of subs, case
// sensitively. Используется для токенов типов и операторов.
func containsAny(msg string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// foldContainsAny is the case-insensitive variant for vendor wording that
// differs only in capitalization.
func foldContainsAny(msg string, subs ...string) bool {
	lower := strings.ToLower(msg)
	for _, s := range subs {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
