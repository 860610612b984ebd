// Package file stores the Store Root as a JSON file on local disk and
// watches it for writes made by other processes.
package file

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"glicosmart/internal/domain"
)

// Slot is a single JSON file. Writes replace the file atomically.
type Slot struct {
	path string

	mu   sync.Mutex
	last [sha256.Size]byte
}

var _ domain.Slot = (*Slot)(nil)

// New returns a slot backed by path, creating its directory if needed.
func New(path string) (*Slot, error) {
	if path == "" {
		return nil, errors.New("file slot: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("file slot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o700); err != nil {
		return nil, fmt.Errorf("file slot: create dir: %w", err)
	}
	return &Slot{path: abs, last: sha256.Sum256(nil)}, nil
}

// Path returns the absolute file path.
func (s *Slot) Path() string { return s.path }

// Read returns the file contents, or nil when the file does not exist.
func (s *Slot) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Write replaces the file via a temp file and rename in the same directory.
func (s *Slot) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	cleanup := func() { _ = os.Remove(name) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(name, 0o600); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(name, s.path); err != nil {
		cleanup()
		return err
	}
	s.last = sha256.Sum256(data)
	return nil
}

// Clear removes the file. A missing file is not an error.
func (s *Slot) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	s.last = sha256.Sum256(nil)
	return nil
}

// isOwn reports whether the file currently holds what this slot last wrote.
func (s *Slot) isOwn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false
	}
	return sha256.Sum256(data) == s.last
}
