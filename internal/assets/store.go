package assets

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/fileutil"
)

// LocalStore is a FileStore over a directory on disk.
type LocalStore struct {
	dir    string
	prefix string
}

// NewLocalStore returns a store that copies into dir and records references
// as prefix + file name.
func NewLocalStore(dir, prefix string) *LocalStore {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &LocalStore{dir: dir, prefix: prefix}
}

func (s *LocalStore) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid asset file name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

// Exists reports whether a file named name is already stored.
func (s *LocalStore) Exists(name string) (bool, error) {
	path, err := s.path(name)
	if err != nil {
		return false, err
	}
	return fileutil.Exists(path)
}

// Copy stores source under name with a verified copy.
func (s *LocalStore) Copy(source, name string) error {
	_, err := s.CopySized(source, name)
	return err
}

// CopySized is Copy that also reports the number of bytes written.
func (s *LocalStore) CopySized(source, name string) (int64, error) {
	path, err := s.path(name)
	if err != nil {
		return 0, err
	}
	return fileutil.CopyFileVerified(source, path)
}

// Ref returns the public reference for a stored file.
func (s *LocalStore) Ref(name string) string {
	return s.prefix + name
}
