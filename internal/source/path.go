package source

import (
	"path/filepath"
	"strings"
)

// AbsolutePath returns the absolute, normalized form of path.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return NormalizePath(abs), nil
}

// RelativePath returns path relative to baseDir. Targets outside baseDir
// fall back to the absolute path instead of producing ".." chains.
func RelativePath(path, baseDir string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return NormalizePath(abs), nil
	}
	return NormalizePath(rel), nil
}

// BaseName returns the final path element.
func BaseName(path string) string {
	return filepath.Base(path)
}

// NormalizePath приводит путь к единому виду в кроссплатформенных дифах.
func NormalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
