package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalStore writes uploads to a directory on disk and serves them under
// the /uploads URL prefix.
type LocalStore struct {
	dir string
}

// NewLocalStore ensures the upload directory exists and returns the store.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the directory uploads are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(_ context.Context, filename string, r io.Reader) (Object, error) {
	unique := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFilename(filename))
	path := filepath.Join(s.dir, unique)

	f, err := os.Create(path)
	if err != nil {
		return Object{}, err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return Object{}, err
	}
	if err := f.Close(); err != nil {
		return Object{}, err
	}

	return Object{Path: "/uploads/" + unique, Filename: unique}, nil
}
