// Package cas implements document snapshot storage.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/kern/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.DocumentStore using one JSON file per workspace, kept under the
// workspace's .kern directory.
type Store struct {
	rel   string
	mu    sync.RWMutex
	cache map[string]domain.DocumentRecord
}

// NewStore creates a new Store that keeps snapshots at rel, relative to each workspace root.
// An empty rel selects domain.DefaultStatePath.
func NewStore(rel string) *Store {
	if rel == "" {
		rel = domain.DefaultStatePath()
	}
	return &Store{
		rel:   filepath.Clean(rel),
		cache: make(map[string]domain.DocumentRecord),
	}
}

// Path returns the snapshot file of the workspace at root.
func (s *Store) Path(root string) string {
	return filepath.Join(root, s.rel)
}

// Get retrieves the snapshot of the workspace at root. It returns nil, nil when none has
// been stored.
func (s *Store) Get(root string) (*domain.DocumentRecord, error) {
	s.mu.RLock()
	rec, ok := s.cache[root]
	s.mu.RUnlock()
	if ok {
		return &rec, nil
	}

	path := s.Path(root)
	//nolint:gosec // Path is derived from the discovered workspace root
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSnapshotReadFailed.Error()), "path", path)
	}

	if len(data) == 0 {
		return nil, nil
	}

	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSnapshotReadFailed.Error()), "path", path)
	}
	if rec.Version > domain.DocumentRecordVersion {
		err := zerr.With(domain.ErrUnsupportedVersion, "version", rec.Version)
		return nil, zerr.With(err, "path", path)
	}

	s.mu.Lock()
	s.cache[root] = rec
	s.mu.Unlock()
	return &rec, nil
}

// Put stores the snapshot of the workspace at root. The file is replaced atomically.
func (s *Store) Put(root string, rec domain.DocumentRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrSnapshotWriteFailed.Error())
	}

	path := s.Path(root)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSnapshotWriteFailed.Error()), "path", path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSnapshotWriteFailed.Error()), "path", path)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrSnapshotWriteFailed.Error()), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSnapshotWriteFailed.Error()), "path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSnapshotWriteFailed.Error()), "path", path)
	}

	s.mu.Lock()
	s.cache[root] = rec
	s.mu.Unlock()
	return nil
}
