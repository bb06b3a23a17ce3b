// internal/store/store.go
package store

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Store holds the host-side copy of transferred files.
type Store struct {
	fs billy.Filesystem
}

// New wraps an existing filesystem.
func New(fs billy.Filesystem) *Store {
	return &Store{fs: fs}
}

// Local returns a store rooted at dir on the host filesystem.
func Local(dir string) *Store {
	return New(osfs.New(dir))
}

// ForPath splits a host path into a store rooted at its directory
// and the name of the file inside it.
func ForPath(path string) (*Store, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("store: resolve %s: %w", path, err)
	}
	return Local(filepath.Dir(abs)), filepath.Base(abs), nil
}

// Load reads a whole file.
func (s *Store) Load(name string) ([]byte, error) {
	data, err := util.ReadFile(s.fs, name)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", name, err)
	}
	return data, nil
}

// Save writes data to name. The file is written to a temporary sibling
// and renamed into place, so a failed transfer never leaves a partial file.
func (s *Store) Save(name string, data []byte) error {
	dir := filepath.Dir(name)
	if dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: mkdir %s: %w", dir, err)
		}
	}

	tmp, err := util.TempFile(s.fs, dir, "."+filepath.Base(name)+"-")
	if err != nil {
		return fmt.Errorf("store: temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("store: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("store: write %s: %w", name, err)
	}

	if err := s.fs.Rename(tmpName, name); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("store: rename %s: %w", name, err)
	}
	return nil
}
