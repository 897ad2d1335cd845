package explain

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCrashSource(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.cpp")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	return path
}

func TestParseCrashLogLibstdcpp(t *testing.T) {
	log := "terminate called after throwing an instance of 'std::runtime_error'\n" +
		"  what():  boom\n"
	rep := parseCrashLog(log)
	if rep.exceptionType != "std::runtime_error" {
		t.Fatalf("exception type = %q, want std::runtime_error", rep.exceptionType)
	}
	if rep.whatMessage != "boom" {
		t.Fatalf("what message = %q, want boom", rep.whatMessage)
	}
}

func TestParseCrashLogLibcxxabi(t *testing.T) {
	log := "libc++abi: terminating with uncaught exception of type std::logic_error: bad state\n"
	rep := parseCrashLog(log)
	if rep.exceptionType != "std::logic_error" {
		t.Fatalf("exception type = %q, want std::logic_error", rep.exceptionType)
	}
}

func TestTryExplainCrashNoIdiom(t *testing.T) {
	rc, buf := newTestContext()
	log := "Segmentation fault (core dumped)\nexit status 139\n"
	if TryExplainCrash(rc, log, "") {
		t.Fatalf("expected handled=false for a log without termination idiom")
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be printed on a miss, got %q", buf.String())
	}
}

func TestTryExplainCrashHeaderAlwaysPrinted(t *testing.T) {
	// Generic terminate with zero extractable metadata still yields the header.
	rc, buf := newTestContext()
	if !TryExplainCrash(rc, "terminate called without an active exception\n", "") {
		t.Fatalf("expected handled=true")
	}
	out := buf.String()
	if !strings.Contains(out, "runtime error:") {
		t.Fatalf("missing runtime-error header:\n%s", out)
	}
	if strings.Contains(out, "exception type:") || strings.Contains(out, "message:") {
		t.Fatalf("no metadata was extractable, yet metadata lines appeared:\n%s", out)
	}
	if got := strings.Count(out, "hint:"); got != 2 {
		t.Fatalf("expected the two static hints, got %d:\n%s", got, out)
	}
}

func TestTryExplainCrashLocatesThrowLine(t *testing.T) {
	lines := []string{
		"#include <stdexcept>",               // 1
		"#include <string>",                  // 2
		"",                                   // 3
		"static int parse(const std::string& s) {", // 4
		"    return s.size();",               // 5
		"}",                                  // 6
		"",                                   // 7
		"int main() {",                       // 8
		"    int n = parse(\"\");",           // 9
		"    throw std::runtime_error(\"boom\");", // 10
		"    return n;",                      // 11
		"}",                                  // 12
	}
	path := writeCrashSource(t, lines)

	log := "terminate called after throwing an instance of 'std::runtime_error'\n" +
		"  what():  boom\n"

	rc, buf := newTestContext()
	if !TryExplainCrash(rc, log, path) {
		t.Fatalf("expected handled=true")
	}
	out := buf.String()

	if !strings.Contains(out, "exception type: std::runtime_error") {
		t.Fatalf("missing exception type:\n%s", out)
	}
	if !strings.Contains(out, "message: boom") {
		t.Fatalf("missing what() message:\n%s", out)
	}
	if !strings.Contains(out, ":10:1") {
		t.Fatalf("expected the guessed location line 10, col 1:\n%s", out)
	}
	// Frame window spans lines 8..12 with the caret under column 1 of line 10.
	for _, gutter := range []string{"   8 | ", "   9 | ", "  10 | ", "  11 | ", "  12 | "} {
		if !strings.Contains(out, gutter) {
			t.Fatalf("frame missing gutter %q:\n%s", gutter, out)
		}
	}
	if !strings.Contains(out, "\n     | ^\n") {
		t.Fatalf("caret must sit under column 1 of the throw line:\n%s", out)
	}
}

func TestTryExplainCrashThrowFallback(t *testing.T) {
	// No what() in the log: the weak fallback picks the first throw statement.
	lines := []string{
		"int main() {",
		"    throw 42;",
		"}",
	}
	path := writeCrashSource(t, lines)

	rc, buf := newTestContext()
	if !TryExplainCrash(rc, "terminate called without an active exception\n", path) {
		t.Fatalf("expected handled=true")
	}
	if !strings.Contains(buf.String(), ":2:1") {
		t.Fatalf("expected fallback location at the throw statement:\n%s", buf.String())
	}
}
