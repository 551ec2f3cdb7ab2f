package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// DiskStorage keeps blobs as plain files in a single directory. The directory
// is created lazily on construction if missing.
type DiskStorage struct {
	dir string
}

func NewDiskStorage(dir string) (*DiskStorage, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("%w: create %q: %v", ErrDirectory, dir, err)
	}
	return &DiskStorage{dir: dir}, nil
}

// path validates name against the flat namespace and resolves it. Anything
// with a separator or a traversal component is rejected.
func (s *DiskStorage) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name), nil
}

func (s *DiskStorage) Write(ctx context.Context, name string, content io.Reader) (int64, error) {
	path, err := s.path(name)
	if err != nil {
		return 0, err
	}

	// O_EXCL is the no-overwrite check; two concurrent writers race on it and
	// the later one loses.
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return 0, fmt.Errorf("%w: %q", ErrFileAlreadyExists, name)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: open %q: %v", ErrFileWrite, name, err)
	}

	written, err := io.Copy(out, content)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return 0, fmt.Errorf("%w: copy %q: %v", ErrFileWrite, name, err)
	}
	err = out.Close()
	if err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("%w: close %q: %v", ErrFileWrite, name, err)
	}

	slog.Info("blob written", "name", name, "bytes", written)
	return written, nil
}

func (s *DiskStorage) Read(ctx context.Context, name string) (*Blob, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrFileNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", ErrFileRead, name, err)
	}

	return &Blob{
		Path:     path,
		Filename: name,
		Content:  f,
	}, nil
}

func (s *DiskStorage) Delete(ctx context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("blob already absent, nothing to delete", "name", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: remove %q: %v", ErrFileDeletion, name, err)
	}

	slog.Info("blob deleted", "name", name)
	return nil
}
