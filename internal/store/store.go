// Package store manages the local package store: installed header-only
// C++ packages under a root directory with an msgpack index. Сам стор
// никогда не трогается ядром диагностики — им пользуются только команды.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Store manages locally installed packages under root.
type Store struct {
	root  string
	index indexFile
}

// Entry describes one installed package.
type Entry struct {
	Name    string
	Version string
	Dir     string // relative to the store root
	Digest  string // hex sha256 over the package tree
	AddedAt int64  // unix seconds
}

// Open loads (or initializes) the store at root.
func Open(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store root: %w", err)
	}
	s := &Store{root: root}
	if err := s.loadIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

// Root returns the store root directory.
func (s *Store) Root() string {
	return s.root
}

// Add installs the package tree at srcDir as name/version, replacing any
// previous version of the same name.
func (s *Store) Add(name, version, srcDir string) (Entry, error) {
	if name == "" || version == "" {
		return Entry{}, fmt.Errorf("package name and version are required")
	}
	rel := name + "-" + version
	dst := filepath.Join(s.root, rel)

	if err := os.RemoveAll(dst); err != nil {
		return Entry{}, fmt.Errorf("failed to clear %s: %w", dst, err)
	}
	if err := copyTree(srcDir, dst); err != nil {
		return Entry{}, err
	}
	digest, err := hashTree(dst)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Name:    name,
		Version: version,
		Dir:     rel,
		Digest:  digest,
		AddedAt: time.Now().Unix(),
	}
	s.index.put(entry)
	if err := s.saveIndex(); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// List returns all installed packages sorted by name.
func (s *Store) List() []Entry {
	out := append([]Entry(nil), s.index.Entries...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns the entry for name, if installed.
func (s *Store) Get(name string) (Entry, bool) {
	for _, e := range s.index.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// IncludePath returns the -I directory for an installed package.
func (s *Store) IncludePath(name string) (string, bool) {
	e, ok := s.Get(name)
	if !ok {
		return "", false
	}
	dir := filepath.Join(s.root, e.Dir)
	// Пакеты с include/ экспонируют только его.
	if fi, err := os.Stat(filepath.Join(dir, "include")); err == nil && fi.IsDir() {
		return filepath.Join(dir, "include"), true
	}
	return dir, true
}

// Remove uninstalls the named package and deletes its tree.
func (s *Store) Remove(name string) error {
	e, ok := s.Get(name)
	if !ok {
		return fmt.Errorf("package %q is not installed", name)
	}
	if err := os.RemoveAll(filepath.Join(s.root, e.Dir)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", e.Dir, err)
	}
	s.index.delete(name)
	return s.saveIndex()
}

// GC deletes store directories that no index entry references and returns
// their names.
func (s *Store) GC() ([]string, error) {
	referenced := make(map[string]bool, len(s.index.Entries))
	for _, e := range s.index.Entries {
		referenced[e.Dir] = true
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read store root: %w", err)
	}
	var removed []string
	for _, de := range entries {
		if !de.IsDir() || referenced[de.Name()] {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.root, de.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", de.Name(), err)
		}
		removed = append(removed, de.Name())
	}
	return removed, nil
}

// hashTree digests every regular file (relative path + content) under dir
// in sorted order.
func hashTree(dir string) (string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(files)

	h := sha256.New()
	for _, f := range files {
		rel, err := filepath.Rel(dir, f)
		if err != nil {
			return "", err
		}
		fmt.Fprintln(h, filepath.ToSlash(rel))
		// #nosec G304 -- files enumerated from the store tree itself
		src, err := os.Open(f)
		if err != nil {
			return "", err
		}
		_, err = io.Copy(h, src)
		src.Close()
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if strings.HasPrefix(rel, "..") {
			return fmt.Errorf("path %q escapes the package tree", path)
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path) // #nosec G304 -- enumerated above
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}
