package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func makePackage(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestStoreAddListRemove(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	pkg := makePackage(t, map[string]string{
		"include/mathkit/vec.hpp": "#pragma once\n",
	})
	entry, err := s.Add("mathkit", "1.0.0", pkg)
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if entry.Digest == "" {
		t.Fatalf("expected a digest for the installed tree")
	}

	list := s.List()
	if len(list) != 1 || list[0].Name != "mathkit" {
		t.Fatalf("unexpected listing: %v", list)
	}

	inc, ok := s.IncludePath("mathkit")
	if !ok {
		t.Fatalf("IncludePath not found")
	}
	if filepath.Base(inc) != "include" {
		t.Fatalf("expected the include/ subdir, got %q", inc)
	}

	// Reopen: the index must persist.
	s2, err := Open(root)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	if _, ok := s2.Get("mathkit"); !ok {
		t.Fatalf("entry lost after reopen")
	}

	if err := s2.Remove("mathkit"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if len(s2.List()) != 0 {
		t.Fatalf("expected empty store after Remove")
	}
	if err := s2.Remove("mathkit"); err == nil {
		t.Fatalf("expected error removing a missing package")
	}
}

func TestStoreAddReplacesOldVersion(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	pkg1 := makePackage(t, map[string]string{"a.hpp": "v1\n"})
	if _, err := s.Add("kit", "1.0.0", pkg1); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	pkg2 := makePackage(t, map[string]string{"a.hpp": "v2\n"})
	if _, err := s.Add("kit", "2.0.0", pkg2); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	list := s.List()
	if len(list) != 1 || list[0].Version != "2.0.0" {
		t.Fatalf("expected single 2.0.0 entry, got %v", list)
	}

	// The 1.0.0 tree is now unreferenced and must be collected.
	removed, err := s.GC()
	if err != nil {
		t.Fatalf("GC returned error: %v", err)
	}
	if len(removed) != 1 || removed[0] != "kit-1.0.0" {
		t.Fatalf("unexpected GC result: %v", removed)
	}
}

func TestStoreVerifyDetectsCorruption(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	pkgA := makePackage(t, map[string]string{"a.hpp": "aaa\n"})
	pkgB := makePackage(t, map[string]string{"b.hpp": "bbb\n"})
	if _, err := s.Add("alpha", "1.0.0", pkgA); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if _, err := s.Add("beta", "1.0.0", pkgB); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	corrupted, err := s.Verify(context.Background())
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if len(corrupted) != 0 {
		t.Fatalf("fresh store reported corruption: %v", corrupted)
	}

	// Tamper with one installed file.
	victim := filepath.Join(root, "beta-1.0.0", "b.hpp")
	if err := os.WriteFile(victim, []byte("tampered\n"), 0o644); err != nil {
		t.Fatalf("failed to tamper: %v", err)
	}

	corrupted, err = s.Verify(context.Background())
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if len(corrupted) != 1 || corrupted[0] != "beta" {
		t.Fatalf("expected beta to be corrupted, got %v", corrupted)
	}
}
