package store

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Verify re-hashes every installed package in parallel and returns the names
// of entries whose tree no longer matches the recorded digest.
func (s *Store) Verify(ctx context.Context) ([]string, error) {
	entries := s.List()

	var mu sync.Mutex
	var corrupted []string

	g, ctx := errgroup.WithContext(ctx)
	for _, e := range entries {
		e := e
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			digest, err := hashTree(filepath.Join(s.root, e.Dir))
			if err != nil || digest != e.Digest {
				mu.Lock()
				corrupted = append(corrupted, e.Name)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(corrupted)
	return corrupted, nil
}
