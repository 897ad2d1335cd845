package explain

import (
	"fmt"
	"regexp"
	"strings"

	"forge/internal/diag"
)

// Ownership and lifetime rules. Формулировки у вендоров разные, поэтому
// матчинг — широкая эвристика и по замыслу best-effort.

type uniquePtrCopyRule struct{}

func (uniquePtrCopyRule) Matches(d diag.Diagnostic) bool {
	if !containsAny(d.Message, "unique_ptr") {
		return false
	}
	return foldContainsAny(d.Message,
		"call to deleted",
		"use of deleted",
		"deleted function",
		"deleted constructor")
}

func (uniquePtrCopyRule) Explain(d diag.Diagnostic, rc *Context) bool {
	return emit(rc, d,
		"attempt to copy a std::unique_ptr",
		"unique_ptr owns its object exclusively: std::move it, or pass a reference instead of copying")
}

type sharedPtrMisuseRule struct{}

func (sharedPtrMisuseRule) Matches(d diag.Diagnostic) bool {
	if !containsAny(d.Message, "shared_ptr") {
		return false
	}
	return foldContainsAny(d.Message,
		"double free",
		"double-free",
		"constructed from raw pointer",
		"already owned")
}

func (sharedPtrMisuseRule) Explain(d diag.Diagnostic, rc *Context) bool {
	return emit(rc, d,
		"two independent std::shared_ptr owners of the same object",
		"never construct two shared_ptr from the same raw pointer; copy the existing shared_ptr or use make_shared")
}

type newDeleteMismatchRule struct{}

func (newDeleteMismatchRule) Matches(d diag.Diagnostic) bool {
	lower := strings.ToLower(d.Message)
	arrayNew := strings.Contains(lower, "new[]") || strings.Contains(lower, "new []")
	arrayDelete := strings.Contains(lower, "delete[]") || strings.Contains(lower, "delete []")
	scalarNew := !arrayNew && strings.Contains(lower, "new")
	scalarDelete := !arrayDelete && strings.Contains(lower, "delete")
	if strings.Contains(lower, "mismatched") && (arrayNew || arrayDelete || (scalarNew && scalarDelete)) {
		return true
	}
	return (arrayNew && scalarDelete) || (arrayDelete && scalarNew)
}

func (newDeleteMismatchRule) Explain(d diag.Diagnostic, rc *Context) bool {
	return emit(rc, d,
		"mismatched allocation and deallocation forms",
		"memory allocated with new[] must be released with delete[], and new with delete")
}

type danglingViewRule struct{}

func (danglingViewRule) Matches(d diag.Diagnostic) bool {
	if !foldContainsAny(d.Message, "dangling") {
		return false
	}
	return containsAny(d.Message, "string_view", "span") || foldContainsAny(d.Message, "reference")
}

func (danglingViewRule) Explain(d diag.Diagnostic, rc *Context) bool {
	return emit(rc, d,
		"dangling view or reference",
		"a view does not own its data; it must not outlive the object backing it")
}

type localReferenceReturnRule struct{}

func (localReferenceReturnRule) Matches(d diag.Diagnostic) bool {
	if !foldContainsAny(d.Message, "return", "returned") {
		return false
	}
	return foldContainsAny(d.Message,
		"address of local",
		"reference to local",
		"reference to stack",
		"stack memory",
		"local variable")
}

func (localReferenceReturnRule) Explain(d diag.Diagnostic, rc *Context) bool {
	return emit(rc, d,
		"returning a reference to a local object",
		"the local is destroyed when the function returns; return by value, or extend the object's lifetime")
}

// reMovedName captures the object name from the canonical wording
// "use of 'x' after it was moved" (straight or typographic quotes).
var reMovedName = regexp.MustCompile(`use of ['‘]([^'’]+)['’] after it was moved`)

type useAfterMoveRule struct{}

func (useAfterMoveRule) Matches(d diag.Diagnostic) bool {
	if reMovedName.MatchString(d.Message) {
		return true
	}
	return foldContainsAny(d.Message,
		"moved value",
		"moved-from",
		"after it was moved",
		"use-after-move")
}

func (useAfterMoveRule) Explain(d diag.Diagnostic, rc *Context) bool {
	name := "object"
	if m := reMovedName.FindStringSubmatch(d.Message); m != nil {
		name = m[1]
	}
	return emit(rc, d,
		"use of a moved-from object",
		fmt.Sprintf("'%s' is in a moved-from state; do not use it unless you assign it a new value first", name))
}
