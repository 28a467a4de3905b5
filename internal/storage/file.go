package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File is a file-backed slot. Single file, human-readable, portable.
// No locking; fine for a local single-user CLI.
type File struct {
	path string
}

// NewFile returns a file backend writing to path. Parent directories are
// created on first save.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Load() ([]byte, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return b, nil
}

func (f *File) Save(data []byte) error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (f *File) Close() error { return nil }
