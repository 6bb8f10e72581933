package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"workdesk/internal/logger"
)

// LocalStore keeps attachment bytes on the local filesystem under a base
// directory. Paths handed to it are always relative to that base.
type LocalStore struct {
	base string
	log  *logger.Logger
}

func NewLocalStore(base string, log *logger.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{base: base, log: log.With("component", "LocalStore")}, nil
}

// abs resolves a stored path under base; the leading-slash Clean keeps a
// crafted path from escaping the base directory.
func (s *LocalStore) abs(path string) string {
	return filepath.Join(s.base, filepath.Clean("/"+path))
}

func (s *LocalStore) Save(path string, r io.Reader) error {
	full := s.abs(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return err
	}
	return f.Close()
}

func (s *LocalStore) Remove(path string) error {
	return os.Remove(s.abs(path))
}

func (s *LocalStore) Open(path string) (io.ReadCloser, error) {
	return os.Open(s.abs(path))
}
