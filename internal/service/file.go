package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/filedepot/filedepot/internal/model"
	"github.com/filedepot/filedepot/internal/repository"
	"github.com/filedepot/filedepot/internal/storage"
)

type metadataStore interface {
	Add(ctx context.Context, file model.File) (model.File, error)
	Update(ctx context.Context, id int64, patch model.FilePatch) (model.File, error)
	ByID(ctx context.Context, id int64) (*model.File, error)
	Find(ctx context.Context, params repository.Params, limit, offset int) ([]model.File, error)
	Remove(ctx context.Context, params repository.Params) (int, error)
}

type blobStore interface {
	Save(ctx context.Context, name string, content io.Reader) (int64, error)
	Update(ctx context.Context, oldName, newName string, content io.Reader) (int64, error)
	Get(ctx context.Context, name string) (*storage.Blob, error)
	Remove(ctx context.Context, name string) error
}

// FileService coordinates the metadata store and the blob store. The two have
// no shared transaction, so each write runs blob-first and compensates by
// deleting the fresh blob when the metadata write fails afterwards. The
// compensation is best-effort: its own failure is logged and never masks the
// error that triggered it.
type FileService struct {
	metadata metadataStore
	blobs    blobStore
}

func NewFileService(metadata *MetadataService, blobs *BlobService) *FileService {
	return &FileService{
		metadata: metadata,
		blobs:    blobs,
	}
}

// CreateOrUpdate persists content and its metadata under meta.ID. Existence is
// decided by probing the metadata store alone: a present row means update, an
// absent row means create, regardless of what the blob store holds. The record
// size is taken from the bytes actually written, never from the caller.
func (s *FileService) CreateOrUpdate(ctx context.Context, meta model.File, content io.Reader) (model.File, error) {
	existing, err := s.metadata.ByID(ctx, meta.ID)
	if err != nil {
		return model.File{}, err
	}

	if existing == nil {
		written, err := s.blobs.Save(ctx, meta.DerivedName(), content)
		if err != nil {
			return model.File{}, err
		}
		meta.Size = written

		saved, err := s.metadata.Add(ctx, meta)
		if err != nil {
			s.rollbackBlob(ctx, meta.DerivedName(), err)
			return model.File{}, err
		}
		return saved, nil
	}

	written, err := s.blobs.Update(ctx, existing.DerivedName(), meta.DerivedName(), content)
	if err != nil {
		return model.File{}, err
	}
	meta.Size = written

	saved, err := s.metadata.Update(ctx, meta.ID, model.PatchOf(meta))
	if err != nil {
		s.rollbackBlob(ctx, meta.DerivedName(), err)
		return model.File{}, err
	}
	return saved, nil
}

// rollbackBlob undoes a blob write after the paired metadata write failed.
func (s *FileService) rollbackBlob(ctx context.Context, name string, cause error) {
	err := s.blobs.Remove(ctx, name)
	if err != nil {
		slog.Error("failed to roll back blob after metadata failure",
			"name", name,
			"rollback_error", err,
			"cause", cause,
		)
	}
}

// Find returns the metadata records matching params.
func (s *FileService) Find(ctx context.Context, params repository.Params, limit, offset int) ([]model.File, error) {
	return s.metadata.Find(ctx, params, limit, offset)
}

// Remove deletes every file matching params, blobs first so that a partial
// metadata failure cannot orphan blobs, and returns the number of metadata
// rows removed. The filter is validated up front: an unsafe filter must not
// delete a single blob.
func (s *FileService) Remove(ctx context.Context, params repository.Params) (int, error) {
	err := checkRemovalParams(params)
	if err != nil {
		slog.Error("bulk file removal rejected", "params", fmt.Sprint(params), "error", err)
		return 0, err
	}

	matches, err := s.metadata.Find(ctx, params, 0, 0)
	if err != nil {
		return 0, err
	}

	for _, match := range matches {
		err = s.blobs.Remove(ctx, match.DerivedName())
		if err != nil {
			slog.Warn("failed to delete blob during bulk removal",
				"name", match.DerivedName(),
				"id", match.ID,
				"error", err,
			)
		}
	}

	return s.metadata.Remove(ctx, params)
}

// Download resolves id to its blob payload. A missing record is not an error:
// both results are nil and the caller renders its own not-found. The payload
// descriptor carries the record's MIME type and name for the response headers.
func (s *FileService) Download(ctx context.Context, id int64) (*storage.Blob, error) {
	meta, err := s.metadata.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, nil
	}

	blob, err := s.blobs.Get(ctx, meta.DerivedName())
	if err != nil {
		return nil, err
	}
	blob.MediaType = meta.MimeType
	blob.Filename = meta.Name
	return blob, nil
}
