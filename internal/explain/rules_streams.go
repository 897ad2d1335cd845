package explain

import "forge/internal/diag"

// containerPrintRule catches the classic "std::cout << vec" wall of template
// errors: no operator<< is defined for sequence containers.
type containerPrintRule struct{}

func (containerPrintRule) Matches(d diag.Diagnostic) bool {
	container := containsAny(d.Message, "vector", "deque", "std::list", "std::array")
	if !container {
		return false
	}
	if !foldContainsAny(d.Message, "no match", "no matching", "invalid operands") {
		return false
	}
	return containsAny(d.Message, "operator<<", "<<") ||
		foldContainsAny(d.Message, "ostream", "basic_ostream")
}

func (containerPrintRule) Explain(d diag.Diagnostic, rc *Context) bool {
	return emit(rc, d,
		"no operator<< for a standard container",
		"the standard library does not print containers; print the elements in a loop, or define operator<< yourself")
}
