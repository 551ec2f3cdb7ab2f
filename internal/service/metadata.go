package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/filedepot/filedepot/internal/model"
	"github.com/filedepot/filedepot/internal/repository"
)

// MetadataService scopes every repository call to its own session. Writes run
// inside a transaction committed on success; the deferred rollback is a no-op
// after commit and guarantees release on every other exit path. Reads run
// directly against the pool.
type MetadataService struct {
	db   *sqlx.DB
	repo repository.FileRepository
}

func NewMetadataService(db *sqlx.DB, repo repository.FileRepository) *MetadataService {
	return &MetadataService{
		db:   db,
		repo: repo,
	}
}

func (s *MetadataService) Add(ctx context.Context, file model.File) (model.File, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.File{}, s.unexpected("add", file.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	saved, err := s.repo.InsertOne(ctx, tx, file)
	if err != nil {
		return model.File{}, err
	}

	err = tx.Commit()
	if err != nil {
		return model.File{}, s.unexpected("add", file.ID, err)
	}
	return saved, nil
}

func (s *MetadataService) Update(ctx context.Context, id int64, patch model.FilePatch) (model.File, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.File{}, s.unexpected("update", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	saved, err := s.repo.UpdateOne(ctx, tx, id, patch)
	if err != nil {
		return model.File{}, err
	}

	err = tx.Commit()
	if err != nil {
		return model.File{}, s.unexpected("update", id, err)
	}
	return saved, nil
}

// ByID is the existence probe: a missing record is not an error, it returns
// (nil, nil) so the caller can branch between create and update.
func (s *MetadataService) ByID(ctx context.Context, id int64) (*model.File, error) {
	file, err := s.repo.ByID(ctx, s.db, id)
	if errors.Is(err, repository.ErrFileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (s *MetadataService) Find(ctx context.Context, params repository.Params, limit, offset int) ([]model.File, error) {
	return s.repo.SomeByParams(ctx, s.db, params, limit, offset)
}

// Remove deletes every record matching params and returns how many rows went
// away. On top of the repository's empty-map refusal it rejects a filter whose
// value lists are all empty: such a filter matches nothing, so the request is
// a caller mistake rather than a deletion of zero rows.
func (s *MetadataService) Remove(ctx context.Context, params repository.Params) (int, error) {
	err := checkRemovalParams(params)
	if err != nil {
		slog.Error("bulk removal rejected", "params", fmt.Sprint(params), "error", err)
		return 0, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, s.unexpected("remove", 0, err)
	}
	defer func() { _ = tx.Rollback() }()

	ids, err := s.repo.DeleteSomeByParams(ctx, tx, params)
	if err != nil {
		return 0, err
	}

	err = tx.Commit()
	if err != nil {
		return 0, s.unexpected("remove", 0, err)
	}
	return len(ids), nil
}

func (s *MetadataService) unexpected(op string, id int64, err error) error {
	wrapped := fmt.Errorf("%w: %s id=%d: %v", ErrDatabaseService, op, id, err)
	slog.Error("metadata service failure", "op", op, "id", id, "error", err)
	return wrapped
}
