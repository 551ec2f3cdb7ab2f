package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/jmoiron/sqlx"

	"github.com/filedepot/filedepot/internal/model"
)

// FileRepository is the metadata side of the system. Every method takes the
// session to run against explicitly: a *sqlx.DB for standalone reads or a
// *sqlx.Tx when the caller scopes the operation in a transaction. Repositories
// hold no session state of their own, so a single instance is safe for
// concurrent use.
type FileRepository interface {
	InsertOne(ctx context.Context, q sqlx.ExtContext, file model.File) (model.File, error)
	UpdateOne(ctx context.Context, q sqlx.ExtContext, id int64, patch model.FilePatch) (model.File, error)
	ByID(ctx context.Context, q sqlx.ExtContext, id int64) (model.File, error)
	SomeByParams(ctx context.Context, q sqlx.ExtContext, params Params, limit, offset int) ([]model.File, error)
	DeleteSomeByParams(ctx context.Context, q sqlx.ExtContext, params Params) ([]int64, error)
}

type fileRepository struct{}

func NewFileRepository() *fileRepository {
	return &fileRepository{}
}

// InsertOne writes a new row and returns it as re-read from the store, so the
// caller observes the server-generated modification time.
func (r *fileRepository) InsertOne(ctx context.Context, q sqlx.ExtContext, file model.File) (model.File, error) {
	row, err := fileToRow(file)
	if err != nil {
		slog.Error("insert rejected by mapper", "id", file.ID, "error", err)
		return model.File{}, err
	}

	query := `INSERT INTO files (id, name, tag, size, mime_type) VALUES ($1, $2, $3, $4, $5)`
	_, err = q.ExecContext(ctx, query, row.ID, row.Name, row.Tag, row.Size, row.MimeType)
	if err != nil {
		wrapped := fmt.Errorf("%w: insert file metadata id=%d: %v", ErrDatabase, file.ID, err)
		slog.Error("insert file metadata failed", "id", file.ID, "error", err)
		return model.File{}, wrapped
	}

	return r.ByID(ctx, q, row.ID)
}

// UpdateOne merges patch over the existing row and persists the result. Fields
// absent from the patch keep their prior values. The store refreshes the
// modification time on every update.
func (r *fileRepository) UpdateOne(ctx context.Context, q sqlx.ExtContext, id int64, patch model.FilePatch) (model.File, error) {
	old, err := r.ByID(ctx, q, id)
	if errors.Is(err, ErrFileNotFound) {
		wrapped := fmt.Errorf("%w: update file metadata id=%d: no such row", ErrDatabase, id)
		slog.Error("update target missing", "id", id)
		return model.File{}, wrapped
	}
	if err != nil {
		return model.File{}, err
	}

	row, err := fileToRow(patch.Apply(old))
	if err != nil {
		slog.Error("update rejected by mapper", "id", id, "error", err)
		return model.File{}, err
	}

	query := `UPDATE files
	          SET name = $1, tag = $2, size = $3, mime_type = $4, modification_time = CURRENT_TIMESTAMP
	          WHERE id = $5`
	_, err = q.ExecContext(ctx, query, row.Name, row.Tag, row.Size, row.MimeType, id)
	if err != nil {
		wrapped := fmt.Errorf("%w: update file metadata id=%d: %v", ErrDatabase, id, err)
		slog.Error("update file metadata failed", "id", id, "error", err)
		return model.File{}, wrapped
	}

	return r.ByID(ctx, q, id)
}

func (r *fileRepository) ByID(ctx context.Context, q sqlx.ExtContext, id int64) (model.File, error) {
	var row fileRow
	err := sqlx.GetContext(ctx, q, &row, `SELECT * FROM files WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.File{}, fmt.Errorf("%w: id=%d", ErrFileNotFound, id)
	}
	if err != nil {
		wrapped := fmt.Errorf("%w: select file metadata id=%d: %v", ErrDatabase, id, err)
		slog.Error("select file metadata failed", "id", id, "error", err)
		return model.File{}, wrapped
	}

	return rowToFile(row)
}

// SomeByParams returns the records matching params, ordered by id so that
// limit/offset pagination is stable. A limit or offset of zero or below means
// the bound is not applied; an empty params map matches every row.
func (r *fileRepository) SomeByParams(ctx context.Context, q sqlx.ExtContext, params Params, limit, offset int) ([]model.File, error) {
	where, args, err := buildFilter(params)
	if err != nil {
		return nil, err
	}

	query := `SELECT * FROM files`
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY id"
	if limit <= 0 && offset > 0 {
		// SQLite will not accept OFFSET without a LIMIT clause.
		limit = math.MaxInt64
	}
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", offset)
	}

	var rows []fileRow
	err = sqlx.SelectContext(ctx, q, &rows, q.Rebind(query), args...)
	if err != nil {
		wrapped := fmt.Errorf("%w: select file metadata by params: %v", ErrDatabase, err)
		slog.Error("select file metadata by params failed", "params", fmt.Sprint(params), "error", err)
		return nil, wrapped
	}

	files := make([]model.File, 0, len(rows))
	for _, row := range rows {
		file, err := rowToFile(row)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// DeleteSomeByParams removes every matching row and returns the removed ids.
// An empty params map is a caller error: it would wipe the table.
func (r *fileRepository) DeleteSomeByParams(ctx context.Context, q sqlx.ExtContext, params Params) ([]int64, error) {
	if len(params) == 0 {
		err := fmt.Errorf("%w: at least one condition is required to avoid deleting all files", ErrNoConditions)
		slog.Error("bulk delete rejected", "error", err)
		return nil, err
	}

	where, args, err := buildFilter(params)
	if err != nil {
		return nil, err
	}

	query := q.Rebind("DELETE FROM files WHERE " + where + " RETURNING id")
	var ids []int64
	err = sqlx.SelectContext(ctx, q, &ids, query, args...)
	if err != nil {
		wrapped := fmt.Errorf("%w: delete file metadata by params: %v", ErrDatabase, err)
		slog.Error("delete file metadata by params failed", "params", fmt.Sprint(params), "error", err)
		return nil, wrapped
	}
	return ids, nil
}
