// Package project loads and locates the forge.toml project manifest.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file that marks a project root.
const ManifestName = "forge.toml"

// Manifest is a loaded forge.toml together with its location.
type Manifest struct {
	Path   string // absolute path to forge.toml
	Root   string // directory containing it
	Config Config
}

// Config mirrors the forge.toml structure.
type Config struct {
	Package PackageConfig     `toml:"package"`
	Build   BuildConfig       `toml:"build"`
	Deps    map[string]string `toml:"dependencies"` // name -> version
}

// PackageConfig identifies the package.
type PackageConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// BuildConfig configures the external compiler invocation.
type BuildConfig struct {
	Compiler string   `toml:"compiler"` // g++, clang++, c++ (default)
	Std      string   `toml:"std"`      // c++17 (default)
	Flags    []string `toml:"flags"`    // extra compiler flags
	Sources  []string `toml:"sources"`  // relative to the project root
	Output   string   `toml:"output"`   // binary name, defaults to package name
}

// Load parses the manifest at path.
func Load(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	var cfg Config
	if _, err := toml.DecodeFile(abs, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ManifestName, err)
	}
	return &Manifest{
		Path:   abs,
		Root:   filepath.Dir(abs),
		Config: cfg,
	}, nil
}

// LoadFrom walks up from startDir, loads the nearest manifest and reports
// whether one was found at all.
func LoadFrom(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindForgeToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// Compiler returns the configured compiler, defaulting to the system c++.
func (m *Manifest) Compiler() string {
	if c := m.Config.Build.Compiler; c != "" {
		return c
	}
	return "c++"
}

// Std returns the configured language standard.
func (m *Manifest) Std() string {
	if s := m.Config.Build.Std; s != "" {
		return s
	}
	return "c++17"
}

// OutputName returns the binary name for builds.
func (m *Manifest) OutputName() string {
	if o := m.Config.Build.Output; o != "" {
		return o
	}
	if n := m.Config.Package.Name; n != "" {
		return n
	}
	return "a.out"
}

// SourceFiles resolves the configured source list against the project root.
// Без явного списка берутся все *.cpp/*.cc/*.cxx из src/, отсортированные
// для детерминированных команд.
func (m *Manifest) SourceFiles() ([]string, error) {
	if len(m.Config.Build.Sources) > 0 {
		out := make([]string, 0, len(m.Config.Build.Sources))
		for _, s := range m.Config.Build.Sources {
			out = append(out, filepath.Join(m.Root, s))
		}
		return out, nil
	}

	srcDir := filepath.Join(m.Root, "src")
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, fmt.Errorf("no sources configured and src/ is unreadable: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if isCppSource(e.Name()) {
			out = append(out, filepath.Join(srcDir, e.Name()))
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no C++ sources found under %s", srcDir)
	}
	sort.Strings(out)
	return out, nil
}

func isCppSource(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".cpp", ".cc", ".cxx":
		return true
	}
	return false
}
