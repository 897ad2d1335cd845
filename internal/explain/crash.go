package explain

import (
	"fmt"
	"regexp"
	"strings"

	"forge/internal/diag"
	"forge/internal/diagfmt"
	"forge/internal/source"
)

// crashReport holds whatever metadata could be extracted from one crash log.
// Живёт только внутри одного вызова TryExplainCrash.
type crashReport struct {
	exceptionType string
	whatMessage   string
	guessedLine   int
}

// Termination idioms of the two common C++ runtime families plus the generic
// abort marker. Сканирование всегда без учёта регистра.
var terminationIdioms = []string{
	"terminate called after throwing an instance of", // libstdc++
	"uncaught exception of type",                     // libc++abi
	"terminate called",                               // generic terminate
}

var (
	// libstdc++: terminate called after throwing an instance of 'std::runtime_error'
	reThrowInstance = regexp.MustCompile(`throwing an instance of '([^']+)'`)
	// libc++abi: terminating with uncaught exception of type std::runtime_error: boom
	reUncaughtOfType = regexp.MustCompile(`uncaught exception of type ([^\n]+)`)
	//   what():  boom
	reWhatMessage = regexp.MustCompile(`what\(\):\s+(.*)`)
)

// TryExplainCrash recognizes an uncaught-exception abort inside the full
// captured output of an executed program and explains it. sourceFile may be
// empty; when given it is scanned heuristically to guess the throw site.
//
// Returns true as soon as a termination idiom is present in the log — the
// category is recognized however much of the metadata extraction succeeds.
func TryExplainCrash(rc *Context, rawLog, sourceFile string) bool {
	lower := strings.ToLower(rawLog)
	matched := false
	for _, idiom := range terminationIdioms {
		if strings.Contains(lower, idiom) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	rep := parseCrashLog(rawLog)

	rc.Palette.Category.Fprintln(rc.Out, "runtime error: the program terminated with an unhandled exception")
	if rep.exceptionType != "" {
		fmt.Fprintf(rc.Out, "exception type: %s\n", rep.exceptionType)
	}
	if rep.whatMessage != "" {
		fmt.Fprintf(rc.Out, "message: %s\n", rep.whatMessage)
	}
	rc.Palette.Hint.Fprintln(rc.Out, "hint: wrap the body of main in try/catch to report the error before exiting")
	rc.Palette.Hint.Fprintln(rc.Out, "hint: prefer scope-bound ownership (containers, smart pointers) over manual new/delete")

	if sourceFile == "" {
		return true
	}
	rep.guessedLine = guessCrashLine(sourceFile, rep.whatMessage)
	if rep.guessedLine <= 0 {
		// Нечего показать — текстового вывода достаточно.
		return true
	}

	path := sourceFile
	if abs, err := source.AbsolutePath(sourceFile); err == nil {
		path = abs
	}
	d := diag.Diagnostic{
		File:     path,
		Line:     rep.guessedLine,
		Col:      1,
		Severity: diag.SevError,
		Message:  rep.whatMessage,
	}
	opts := diagfmt.FrameOpts{Context: 2, MaxWidth: 120, TabWidth: rc.Frame.TabWidth}
	diagfmt.RenderFrame(rc.Out, rc.Palette, d, opts)
	return true
}

// parseCrashLog extracts the exception type and what() message. Failed
// captures просто оставляют поля пустыми.
func parseCrashLog(rawLog string) crashReport {
	var rep crashReport
	if m := reThrowInstance.FindStringSubmatch(rawLog); m != nil {
		rep.exceptionType = strings.TrimSpace(m[1])
	} else if m := reUncaughtOfType.FindStringSubmatch(rawLog); m != nil {
		// Тип идёт до ": " перед текстом what(); "::" внутри имени не разделитель.
		t := m[1]
		if i := strings.Index(t, ": "); i >= 0 {
			t = t[:i]
		}
		rep.exceptionType = strings.TrimSuffix(strings.TrimSpace(t), ":")
	}
	if m := reWhatMessage.FindStringSubmatch(rawLog); m != nil {
		rep.whatMessage = strings.TrimSpace(m[1])
	}
	return rep
}

// guessCrashLine scans the source for the first line containing the what()
// text (bare or quoted), falling back to the first throw statement. Returns
// a 1-based line number, or 0 when nothing plausible is found.
func guessCrashLine(path, what string) int {
	file, err := source.Load(path)
	if err != nil {
		return 0
	}
	if what != "" {
		for i, line := range file.Lines {
			if strings.Contains(line, what) {
				return i + 1
			}
		}
	}
	for i, line := range file.Lines {
		if strings.Contains(line, "throw ") {
			return i + 1
		}
	}
	return 0
}
