package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smileynet/abook/internal/book"
)

// FileStore persists the snapshot as a single file.
type FileStore struct {
	path  string
	codec Codec
}

// NewFileStore creates a FileStore that reads and writes path using codec.
func NewFileStore(path string, codec Codec) *FileStore {
	return &FileStore{path: path, codec: codec}
}

// Path returns the snapshot file path.
func (s *FileStore) Path() string { return s.path }

// Load reads the snapshot file.
func (s *FileStore) Load(_ context.Context) (book.Snapshot, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return book.Snapshot{}, false, nil
		}
		return book.Snapshot{}, false, fmt.Errorf("state: reading %s: %w", s.path, err)
	}

	var snap book.Snapshot
	if err := s.codec.Unmarshal(data, &snap); err != nil {
		return book.Snapshot{}, false, fmt.Errorf("state: parsing %s: %w", s.path, err)
	}
	return snap, true, nil
}

// Save writes the snapshot to a temp file in the same directory and renames
// it over the old one, so a failed write never leaves a truncated snapshot.
func (s *FileStore) Save(_ context.Context, snap book.Snapshot) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("state: creating directory: %w", err)
	}

	data, err := s.codec.Marshal(snap)
	if err != nil {
		return fmt.Errorf("state: marshaling: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("state: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	// CreateTemp uses 0600; keep the existing snapshot's mode instead.
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(s.path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("state: setting mode on %s: %w", tmpName, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("state: writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("state: closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("state: replacing %s: %w", s.path, err)
	}
	return nil
}

// Quarantine renames the snapshot file to <path>.corrupt and returns the
// new path.
func (s *FileStore) Quarantine(_ context.Context) (string, error) {
	dest := s.path + ".corrupt"
	if err := os.Rename(s.path, dest); err != nil {
		return "", fmt.Errorf("state: moving %s aside: %w", s.path, err)
	}
	return dest, nil
}

// Close is a no-op; files are opened per call.
func (s *FileStore) Close() error { return nil }
