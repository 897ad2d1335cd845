package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when indexFile format changes.
const indexSchemaVersion uint16 = 1

const indexName = "index.msgpack"

// indexFile is the persisted store catalogue.
type indexFile struct {
	Schema  uint16
	Count   uint32
	Entries []Entry
}

func (idx *indexFile) put(e Entry) {
	idx.delete(e.Name)
	idx.Entries = append(idx.Entries, e)
	idx.syncCount()
}

func (idx *indexFile) delete(name string) {
	out := idx.Entries[:0]
	for _, e := range idx.Entries {
		if e.Name != name {
			out = append(out, e)
		}
	}
	idx.Entries = out
	idx.syncCount()
}

func (idx *indexFile) syncCount() {
	n, err := safecast.Conv[uint32](len(idx.Entries))
	if err != nil {
		panic(fmt.Errorf("store index overflow: %w", err))
	}
	idx.Count = n
}

func (s *Store) indexPath() string {
	return filepath.Join(s.root, indexName)
}

func (s *Store) loadIndex() error {
	data, err := os.ReadFile(s.indexPath())
	if errors.Is(err, os.ErrNotExist) {
		s.index = indexFile{Schema: indexSchemaVersion}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read store index: %w", err)
	}
	var idx indexFile
	if err := msgpack.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("failed to decode store index: %w", err)
	}
	if idx.Schema != indexSchemaVersion {
		// Несовместимый индекс просто пересоздаётся: стор — кеш, не истина.
		s.index = indexFile{Schema: indexSchemaVersion}
		return nil
	}
	s.index = idx
	return nil
}

func (s *Store) saveIndex() error {
	s.index.Schema = indexSchemaVersion
	data, err := msgpack.Marshal(&s.index)
	if err != nil {
		return fmt.Errorf("failed to encode store index: %w", err)
	}
	return os.WriteFile(s.indexPath(), data, 0o644)
}
