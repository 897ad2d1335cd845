// Package source provides read-only access to project source files for
// diagnostic rendering. Files are slurped whole and split into lines;
// загрузка никогда не пишет на диск.
package source

import (
	"bytes"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FileFlags encodes normalization metadata about a loaded file.
type FileFlags uint8

const (
	// FileHadBOM indicates a UTF-8 BOM was stripped on load.
	FileHadBOM FileFlags = 1 << iota
	// FileNormalizedCRLF indicates CRLF line endings were rewritten to LF.
	FileNormalizedCRLF
)

// File is a fully loaded source file split into lines.
type File struct {
	Path  string
	Lines []string
	Flags FileFlags
}

// Load reads a file from disk, strips the BOM, normalizes CRLF endings and
// the Unicode form (NFC), and splits the content into lines.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	content = norm.NFC.Bytes(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return &File{
		Path:  path,
		Lines: splitLines(content),
		Flags: flags,
	}, nil
}

// Line returns the 1-based line lineNum, or "" when out of range.
func (f *File) Line(lineNum int) string {
	if lineNum < 1 || lineNum > len(f.Lines) {
		return ""
	}
	return f.Lines[lineNum-1]
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.Lines)
}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	crlf := []byte{'\r', '\n'}
	if !bytes.Contains(content, crlf) {
		return content, false
	}
	return bytes.ReplaceAll(content, crlf, []byte{'\n'}), true
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// splitLines splits on \n; завершающий перевод строки не порождает
// лишней пустой строки.
func splitLines(content []byte) []string {
	lines := strings.Split(string(content), "\n")
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
