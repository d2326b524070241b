package manifest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/tmaklin/alignment-writer/codec"
	"github.com/tmaklin/alignment-writer/internal/fs"
)

// manifestFileName is the single JSON file a LocalStore keeps all entries
// in; it is rewritten atomically (write to a temp file, fsync, rename),
// grounded on the teacher's manifest.Store.Save.
const manifestFileName = "MANIFEST.json"

// LocalStore persists entries to a single JSON file under dir, rewritten
// atomically on every Record call.
type LocalStore struct {
	fs  fs.FileSystem
	dir string
	mu  sync.Mutex
}

// NewLocalStore creates a LocalStore rooted at dir.
func NewLocalStore(fsys fs.FileSystem, dir string) *LocalStore {
	return &LocalStore{fs: fsys, dir: dir}
}

func (s *LocalStore) path() string {
	return filepath.Join(s.dir, manifestFileName)
}

func (s *LocalStore) readLocked() ([]Entry, error) {
	f, err := s.fs.OpenFile(s.path(), os.O_RDONLY, 0)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := codec.Default.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("manifest: decode %s: %w", s.path(), err)
	}
	return entries, nil
}

// Record appends e to the manifest and rewrites the file atomically.
func (s *LocalStore) Record(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readLocked()
	if err != nil {
		return err
	}
	entries = append(entries, e)

	data, err := codec.Default.Marshal(entries)
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	tmpPath := s.path() + ".tmp"
	f, err := s.fs.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		s.fs.Remove(tmpPath)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		s.fs.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		s.fs.Remove(tmpPath)
		return err
	}

	if err := s.fs.Rename(tmpPath, s.path()); err != nil {
		s.fs.Remove(tmpPath)
		return err
	}
	return s.syncDir()
}

// List returns every recorded entry in insertion order.
func (s *LocalStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *LocalStore) syncDir() error {
	f, err := s.fs.OpenFile(s.dir, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
