package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	tmp := t.TempDir()
	writeManifest(t, tmp, `
[package]
name = "demo"
version = "0.2.0"

[build]
compiler = "clang++"
std = "c++20"
flags = ["-Wall"]
sources = ["src/main.cpp", "src/util.cpp"]

[dependencies]
mathkit = "1.0.0"
`)

	m, ok, err := LoadFrom(tmp)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if !ok {
		t.Fatalf("manifest not found")
	}
	if m.Config.Package.Name != "demo" {
		t.Fatalf("package name = %q", m.Config.Package.Name)
	}
	if m.Compiler() != "clang++" || m.Std() != "c++20" {
		t.Fatalf("unexpected build config: %s %s", m.Compiler(), m.Std())
	}
	if m.OutputName() != "demo" {
		t.Fatalf("output name = %q", m.OutputName())
	}
	if got, _ := m.SourceFiles(); len(got) != 2 {
		t.Fatalf("expected 2 explicit sources, got %v", got)
	}
	if v := m.Config.Deps["mathkit"]; v != "1.0.0" {
		t.Fatalf("dependency version = %q", v)
	}
}

func TestManifestDefaults(t *testing.T) {
	tmp := t.TempDir()
	writeManifest(t, tmp, "[package]\nname = \"bare\"\n")

	m, err := Load(filepath.Join(tmp, ManifestName))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if m.Compiler() != "c++" {
		t.Fatalf("default compiler = %q", m.Compiler())
	}
	if m.Std() != "c++17" {
		t.Fatalf("default std = %q", m.Std())
	}
}

func TestSourceFilesScansSrcDir(t *testing.T) {
	tmp := t.TempDir()
	writeManifest(t, tmp, "[package]\nname = \"scan\"\n")
	srcDir := filepath.Join(tmp, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatalf("failed to create src dir: %v", err)
	}
	for _, name := range []string{"main.cpp", "b.cc", "README.md"} {
		if err := os.WriteFile(filepath.Join(srcDir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	m, err := Load(filepath.Join(tmp, ManifestName))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	files, err := m.SourceFiles()
	if err != nil {
		t.Fatalf("SourceFiles returned error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected the two C++ sources, got %v", files)
	}
}

func TestFindProjectRootWalksUp(t *testing.T) {
	tmp := t.TempDir()
	writeManifest(t, tmp, "[package]\nname = \"walk\"\n")
	nested := filepath.Join(tmp, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	root, ok, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected to find the project root")
	}
	resolved, _ := filepath.EvalSymlinks(root)
	wantResolved, _ := filepath.EvalSymlinks(tmp)
	if resolved != wantResolved {
		t.Fatalf("root = %q, want %q", root, tmp)
	}
}
