package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/filedepot/filedepot/internal/model"
)

// fileRow is the store representation of a metadata record. Translation to and
// from model.File happens only here; no other package touches rows.
type fileRow struct {
	ID               int64          `db:"id"`
	Name             string         `db:"name"`
	Tag              sql.NullString `db:"tag"`
	Size             int64          `db:"size"`
	MimeType         string         `db:"mime_type"`
	ModificationTime time.Time      `db:"modification_time"`
}

func fileToRow(f model.File) (fileRow, error) {
	if f.ID <= 0 {
		return fileRow{}, fmt.Errorf("%w: id %d is not a positive integer", ErrMapping, f.ID)
	}
	if f.Name == "" {
		return fileRow{}, fmt.Errorf("%w: name is empty", ErrMapping)
	}
	if f.Size < 0 {
		return fileRow{}, fmt.Errorf("%w: size %d is negative", ErrMapping, f.Size)
	}
	if f.MimeType == "" {
		return fileRow{}, fmt.Errorf("%w: mime type is empty", ErrMapping)
	}

	row := fileRow{
		ID:       f.ID,
		Name:     f.Name,
		Size:     f.Size,
		MimeType: f.MimeType,
	}
	if f.Tag != nil {
		row.Tag = sql.NullString{String: *f.Tag, Valid: true}
	}
	return row, nil
}

func rowToFile(row fileRow) (model.File, error) {
	if row.ID <= 0 {
		return model.File{}, fmt.Errorf("%w: row id %d is not a positive integer", ErrMapping, row.ID)
	}
	if row.Name == "" {
		return model.File{}, fmt.Errorf("%w: row name is empty", ErrMapping)
	}

	f := model.File{
		ID:               row.ID,
		Name:             row.Name,
		Size:             row.Size,
		MimeType:         row.MimeType,
		ModificationTime: row.ModificationTime.UTC(),
	}
	if row.Tag.Valid {
		tag := row.Tag.String
		f.Tag = &tag
	}
	return f, nil
}
