package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/filedepot/filedepot/internal/storage"
)

// BlobService fronts the blob store. Known storage error kinds pass through
// unchanged so callers can react to each; anything else is wrapped into
// ErrFileStorage with the failing operation as context.
type BlobService struct {
	storage storage.Storage
}

func NewBlobService(store storage.Storage) *BlobService {
	return &BlobService{storage: store}
}

func (s *BlobService) Save(ctx context.Context, name string, content io.Reader) (int64, error) {
	written, err := s.storage.Write(ctx, name, content)
	if err != nil {
		return 0, s.translate("save", name, err)
	}
	return written, nil
}

// Update replaces the blob stored under oldName with content under newName.
// Delete-then-write is one step: if either part fails the whole update fails
// and the metadata must not be touched.
func (s *BlobService) Update(ctx context.Context, oldName, newName string, content io.Reader) (int64, error) {
	err := s.storage.Delete(ctx, oldName)
	if err != nil {
		return 0, s.translate("update", oldName, err)
	}

	written, err := s.storage.Write(ctx, newName, content)
	if err != nil {
		return 0, s.translate("update", newName, err)
	}
	return written, nil
}

func (s *BlobService) Get(ctx context.Context, name string) (*storage.Blob, error) {
	blob, err := s.storage.Read(ctx, name)
	if err != nil {
		return nil, s.translate("get", name, err)
	}
	return blob, nil
}

func (s *BlobService) Remove(ctx context.Context, name string) error {
	err := s.storage.Delete(ctx, name)
	if err != nil {
		return s.translate("remove", name, err)
	}
	return nil
}

func (s *BlobService) translate(op, name string, err error) error {
	if isKnownStorageError(err) {
		return err
	}
	wrapped := fmt.Errorf("%w: %s %q: %v", ErrFileStorage, op, name, err)
	slog.Error("file storage failure", "op", op, "name", name, "error", err)
	return wrapped
}

func isKnownStorageError(err error) bool {
	return errors.Is(err, storage.ErrFileAlreadyExists) ||
		errors.Is(err, storage.ErrFileNotFound) ||
		errors.Is(err, storage.ErrFileWrite) ||
		errors.Is(err, storage.ErrFileRead) ||
		errors.Is(err, storage.ErrFileDeletion) ||
		errors.Is(err, storage.ErrDirectory) ||
		errors.Is(err, storage.ErrInvalidName)
}
