package explain

import (
	"fmt"
	"regexp"

	"forge/internal/diag"
)

// Syntax-level rules: missing terminators, unknown identifiers for the
// standard streams, and unresolved includes. Каждое правило требует минимум
// два независимых сигнала в сообщении, одиночные ключевые слова слишком
// часто встречаются в несвязанных диагностиках.

type missingSemicolonRule struct{}

func (missingSemicolonRule) Matches(d diag.Diagnostic) bool {
	if !foldContainsAny(d.Message, "expected") {
		return false
	}
	return containsAny(d.Message, "';'", "‘;’") || foldContainsAny(d.Message, "semicolon")
}

func (missingSemicolonRule) Explain(d diag.Diagnostic, rc *Context) bool {
	return emit(rc, d,
		"missing ';' at the end of a statement",
		"a semicolon is likely missing here — often at the end of the previous line")
}

type undeclaredStreamRule struct{}

func (undeclaredStreamRule) Matches(d diag.Diagnostic) bool {
	stream := containsAny(d.Message, "'cout'", "'cerr'", "'cin'", "‘cout’", "‘cerr’", "‘cin’")
	undeclared := foldContainsAny(d.Message,
		"was not declared",
		"undeclared identifier",
		"use of undeclared",
		"is not a member of")
	return stream && undeclared
}

func (undeclaredStreamRule) Explain(d diag.Diagnostic, rc *Context) bool {
	return emit(rc, d,
		"standard stream used without its header",
		"add '#include <iostream>' and qualify the name, e.g. 'std::cout'")
}

// reHeaderName matches a header-like file name inside the message.
var reHeaderName = regexp.MustCompile(`[\w./+-]+\.(?:h|hpp|hh|hxx)\b`)

type headerNotFoundRule struct{}

func (headerNotFoundRule) Matches(d diag.Diagnostic) bool {
	if !foldContainsAny(d.Message, "file not found", "no such file") {
		return false
	}
	return reHeaderName.MatchString(d.Message)
}

func (headerNotFoundRule) Explain(d diag.Diagnostic, rc *Context) bool {
	hint := "check the include search paths (-I) and the spelling of the header name"
	if name := reHeaderName.FindString(d.Message); name != "" {
		hint = fmt.Sprintf("the header '%s' was not found; check the include search paths (-I) and its spelling", name)
	}
	return emit(rc, d, "header file not found", hint)
}
