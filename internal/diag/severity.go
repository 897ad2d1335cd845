package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevNote is for informational diagnostics and compiler notes.
	SevNote Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevNote:
		return "note"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity maps a compiler severity word to a Severity.
// gcc сообщает "fatal error" для невосстановимых ошибок (например,
// отсутствующий заголовок) — это тоже SevError.
func ParseSeverity(word string) (Severity, bool) {
	switch word {
	case "note", "remark":
		return SevNote, true
	case "warning":
		return SevWarning, true
	case "error", "fatal error":
		return SevError, true
	}
	return SevNote, false
}
