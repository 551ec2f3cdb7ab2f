package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/filedepot/filedepot/internal/config"
)

var (
	// ErrFileAlreadyExists is returned by Write when a blob with the same
	// name is already present. There is no implicit overwrite; callers delete
	// first when they mean to replace.
	ErrFileAlreadyExists = errors.New("blob already exists")

	// ErrFileNotFound is returned by Read when the named blob is absent.
	ErrFileNotFound = errors.New("blob not found")

	ErrFileWrite    = errors.New("blob write failed")
	ErrFileRead     = errors.New("blob read failed")
	ErrFileDeletion = errors.New("blob deletion failed")

	// ErrDirectory means the backing location could not be provisioned.
	ErrDirectory = errors.New("storage location unavailable")

	// ErrInvalidName rejects names that would escape the flat namespace.
	ErrInvalidName = errors.New("invalid blob name")
)

// Blob describes a stored payload ready for download.
type Blob struct {
	Path      string
	MediaType string
	Filename  string
	Content   io.ReadCloser
}

// Storage is the blob-store contract: write-without-overwrite, read by name,
// idempotent delete. Names live in a single flat namespace.
type Storage interface {
	// Write stores content under name and returns the number of bytes
	// written. It fails with ErrFileAlreadyExists if name is taken.
	Write(ctx context.Context, name string, content io.Reader) (int64, error)

	// Read opens the named blob. The caller closes Blob.Content.
	Read(ctx context.Context, name string) (*Blob, error)

	// Delete removes the named blob. Deleting an absent blob is not an
	// error; the store logs a warning and returns nil.
	Delete(ctx context.Context, name string) error
}

// New selects the storage backend from config.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "s3":
		return NewS3Storage(S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
	case "disk", "":
		return NewDiskStorage(cfg.StoragePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
