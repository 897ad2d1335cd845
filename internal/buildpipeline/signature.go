package buildpipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when signaturePayload format changes.
const signatureSchemaVersion uint16 = 1

// SignatureCache пропускает перекомпиляцию, когда компилятор, флаги и
// содержимое входных файлов не менялись со времени последней успешной сборки.
type SignatureCache struct {
	dir string
}

type signaturePayload struct {
	Schema     uint16
	Key        string
	OutputPath string
}

// NewSignatureCache returns a cache rooted at dir. The directory is created
// lazily on the first Store.
func NewSignatureCache(dir string) *SignatureCache {
	return &SignatureCache{dir: dir}
}

// Key hashes the compiler, its arguments and the content of every input
// file into a stable build signature.
func (c *SignatureCache) Key(compiler string, args, files []string) (string, error) {
	h := sha256.New()
	fmt.Fprintln(h, signatureSchemaVersion)
	fmt.Fprintln(h, compiler)
	for _, a := range args {
		fmt.Fprintln(h, a)
	}
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)
	for _, f := range sorted {
		// #nosec G304 -- files come from the project manifest
		content, err := os.ReadFile(f)
		if err != nil {
			return "", fmt.Errorf("failed to hash %s: %w", f, err)
		}
		sum := sha256.Sum256(content)
		fmt.Fprintf(h, "%s %x\n", f, sum)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// UpToDate reports whether a build with this key already produced
// outputPath and the artefact still exists.
func (c *SignatureCache) UpToDate(key, outputPath string) bool {
	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		return false
	}
	var p signaturePayload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return false
	}
	if p.Schema != signatureSchemaVersion || p.Key != key || p.OutputPath != outputPath {
		return false
	}
	_, err = os.Stat(outputPath)
	return err == nil
}

// Store records a successful build for key.
func (c *SignatureCache) Store(key, outputPath string) error {
	data, err := msgpack.Marshal(&signaturePayload{
		Schema:     signatureSchemaVersion,
		Key:        key,
		OutputPath: outputPath,
	})
	if err != nil {
		return fmt.Errorf("failed to encode signature: %w", err)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create signature dir: %w", err)
	}
	return os.WriteFile(c.entryPath(key), data, 0o644)
}

func (c *SignatureCache) entryPath(key string) string {
	// Ключ — 64 hex-символа; короткого префикса достаточно для имени файла.
	if len(key) > 16 {
		key = key[:16]
	}
	return filepath.Join(c.dir, key+".sig")
}
