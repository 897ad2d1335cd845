package buildpipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSignatureCacheRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "main.cpp")
	if err := os.WriteFile(src, []byte("int main() { return 0; }\n"), 0o644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	output := filepath.Join(tmp, "app")
	if err := os.WriteFile(output, []byte("binary"), 0o755); err != nil {
		t.Fatalf("failed to write output: %v", err)
	}

	cache := NewSignatureCache(filepath.Join(tmp, ".sig"))
	args := []string{"-std=c++17", "-o", output}

	key, err := cache.Key("c++", args, []string{src})
	if err != nil {
		t.Fatalf("Key returned error: %v", err)
	}
	if cache.UpToDate(key, output) {
		t.Fatalf("cache hit before Store")
	}
	if err := cache.Store(key, output); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	if !cache.UpToDate(key, output) {
		t.Fatalf("expected cache hit after Store")
	}

	// Touching the source content must change the key.
	if err := os.WriteFile(src, []byte("int main() { return 1; }\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite source: %v", err)
	}
	key2, err := cache.Key("c++", args, []string{src})
	if err != nil {
		t.Fatalf("Key returned error: %v", err)
	}
	if key2 == key {
		t.Fatalf("key did not change with source content")
	}
	if cache.UpToDate(key2, output) {
		t.Fatalf("stale cache entry must not match the new key")
	}
}

func TestSignatureCacheMissWhenArtefactRemoved(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "main.cpp")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	output := filepath.Join(tmp, "app")
	if err := os.WriteFile(output, []byte("binary"), 0o755); err != nil {
		t.Fatalf("failed to write output: %v", err)
	}

	cache := NewSignatureCache(filepath.Join(tmp, ".sig"))
	key, err := cache.Key("c++", nil, []string{src})
	if err != nil {
		t.Fatalf("Key returned error: %v", err)
	}
	if err := cache.Store(key, output); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	if err := os.Remove(output); err != nil {
		t.Fatalf("failed to remove output: %v", err)
	}
	if cache.UpToDate(key, output) {
		t.Fatalf("cache must miss when the artefact is gone")
	}
}
