package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filedepot/filedepot/internal/db"
	"github.com/filedepot/filedepot/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}

func strPtr(s string) *string {
	return &s
}

// seedFiles inserts four records with tags [nil, important, important,
// presentations] under ids 1..4.
func seedFiles(t *testing.T, database *sqlx.DB, repo FileRepository) {
	t.Helper()

	files := []model.File{
		{ID: 1, Name: "a.txt", Tag: nil, Size: 1024, MimeType: "text/plain"},
		{ID: 2, Name: "b.txt", Tag: strPtr("important"), Size: 2048, MimeType: "text/plain"},
		{ID: 3, Name: "c.txt", Tag: strPtr("important"), Size: 512, MimeType: "text/plain"},
		{ID: 4, Name: "d.pdf", Tag: strPtr("presentations"), Size: 4096, MimeType: "application/pdf"},
	}
	for _, f := range files {
		_, err := repo.InsertOne(context.Background(), database, f)
		require.NoError(t, err)
	}
}

func ids(files []model.File) []int64 {
	out := make([]int64, 0, len(files))
	for _, f := range files {
		out = append(out, f.ID)
	}
	return out
}

func TestFileRepositoryInsertOne(t *testing.T) {
	t.Run("ReturnsRowWithServerGeneratedModificationTime", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()

		saved, err := repo.InsertOne(context.Background(), database, model.File{
			ID: 1, Name: "a.txt", Size: 1024, MimeType: "text/plain",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), saved.ID)
		assert.Equal(t, "a.txt", saved.Name)
		assert.Nil(t, saved.Tag)
		assert.Equal(t, int64(1024), saved.Size)
		assert.Equal(t, "text/plain", saved.MimeType)
		assert.False(t, saved.ModificationTime.IsZero())

		got, err := repo.ByID(context.Background(), database, 1)
		require.NoError(t, err)
		assert.Equal(t, saved, got)
	})

	t.Run("DuplicateIDFailsWithDatabaseError", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()
		seedFiles(t, database, repo)

		_, err := repo.InsertOne(context.Background(), database, model.File{
			ID: 1, Name: "other.txt", Size: 1, MimeType: "text/plain",
		})
		require.ErrorIs(t, err, ErrDatabase)
	})

	t.Run("DuplicateNameAndMimeTypeFailsWithDatabaseError", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()
		seedFiles(t, database, repo)

		_, err := repo.InsertOne(context.Background(), database, model.File{
			ID: 99, Name: "a.txt", Size: 1, MimeType: "text/plain",
		})
		require.ErrorIs(t, err, ErrDatabase)
	})

	t.Run("InvalidRecordFailsWithMappingError", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()

		_, err := repo.InsertOne(context.Background(), database, model.File{
			ID: 0, Name: "a.txt", Size: 1, MimeType: "text/plain",
		})
		require.ErrorIs(t, err, ErrMapping)

		_, err = repo.InsertOne(context.Background(), database, model.File{
			ID: 1, Name: "", Size: 1, MimeType: "text/plain",
		})
		require.ErrorIs(t, err, ErrMapping)

		_, err = repo.InsertOne(context.Background(), database, model.File{
			ID: 1, Name: "a.txt", Size: -1, MimeType: "text/plain",
		})
		require.ErrorIs(t, err, ErrMapping)
	})
}

func TestFileRepositoryUpdateOne(t *testing.T) {
	t.Run("MergesPatchOverExistingRow", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()
		seedFiles(t, database, repo)

		newSize := int64(99)
		updated, err := repo.UpdateOne(context.Background(), database, 2, model.FilePatch{
			Size: &newSize,
		})
		require.NoError(t, err)

		// Patched field changed, everything else retained.
		assert.Equal(t, int64(99), updated.Size)
		assert.Equal(t, "b.txt", updated.Name)
		require.NotNil(t, updated.Tag)
		assert.Equal(t, "important", *updated.Tag)
		assert.Equal(t, "text/plain", updated.MimeType)
	})

	t.Run("MissingIDFailsWithDatabaseError", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()

		name := "ghost.txt"
		_, err := repo.UpdateOne(context.Background(), database, 42, model.FilePatch{Name: &name})
		require.ErrorIs(t, err, ErrDatabase)
	})

	t.Run("ConstraintViolationFailsWithDatabaseError", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()
		seedFiles(t, database, repo)

		// Renaming record 3 onto record 2's (name, mime_type) pair.
		name := "b.txt"
		_, err := repo.UpdateOne(context.Background(), database, 3, model.FilePatch{Name: &name})
		require.ErrorIs(t, err, ErrDatabase)
	})
}

func TestFileRepositoryByID(t *testing.T) {
	t.Run("MissingRowFailsWithNotFound", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()

		_, err := repo.ByID(context.Background(), database, 7)
		require.ErrorIs(t, err, ErrFileNotFound)
	})
}

func TestFileRepositorySomeByParams(t *testing.T) {
	t.Run("TagFilterReturnsMatchingIDs", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()
		seedFiles(t, database, repo)

		files, err := repo.SomeByParams(context.Background(), database, Params{
			"tag": {"important"},
		}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 3}, ids(files))
	})

	t.Run("PaginationAppliedAfterFilterWithStableOrder", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()
		seedFiles(t, database, repo)

		files, err := repo.SomeByParams(context.Background(), database, Params{
			"id":  {int64(1), int64(2), int64(3), int64(4)},
			"tag": {"important", "presentations"},
		}, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 4}, ids(files))
	})

	t.Run("OffsetWithoutLimit", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()
		seedFiles(t, database, repo)

		files, err := repo.SomeByParams(context.Background(), database, Params{}, 0, 2)
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 4}, ids(files))
	})

	t.Run("FieldOrderDoesNotAffectResult", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()
		seedFiles(t, database, repo)

		first, err := repo.SomeByParams(context.Background(), database, Params{
			"id":  {int64(2), int64(3), int64(4)},
			"tag": {"important"},
		}, 0, 0)
		require.NoError(t, err)

		second, err := repo.SomeByParams(context.Background(), database, Params{
			"tag": {"important"},
			"id":  {int64(2), int64(3), int64(4)},
		}, 0, 0)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("EmptyValueListMatchesNothing", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()
		seedFiles(t, database, repo)

		files, err := repo.SomeByParams(context.Background(), database, Params{
			"name": {},
			"tag":  {"important"},
		}, 0, 0)
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("EmptyParamsReturnEverything", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()
		seedFiles(t, database, repo)

		files, err := repo.SomeByParams(context.Background(), database, Params{}, 0, 0)
		require.NoError(t, err)
		assert.Len(t, files, 4)
	})

	t.Run("UnknownFieldFailsBeforeQuerying", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()

		_, err := repo.SomeByParams(context.Background(), database, Params{
			"bogus": {int64(1)},
		}, 0, 0)
		require.ErrorIs(t, err, ErrInvalidAttribute)
	})
}

func TestFileRepositoryDeleteSomeByParams(t *testing.T) {
	t.Run("ReturnsDeletedIDs", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()
		seedFiles(t, database, repo)

		deleted, err := repo.DeleteSomeByParams(context.Background(), database, Params{
			"id": {int64(1), int64(4)},
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{1, 4}, deleted)

		_, err = repo.ByID(context.Background(), database, 1)
		require.ErrorIs(t, err, ErrFileNotFound)
		_, err = repo.ByID(context.Background(), database, 4)
		require.ErrorIs(t, err, ErrFileNotFound)

		remaining, err := repo.SomeByParams(context.Background(), database, Params{}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 3}, ids(remaining))
	})

	t.Run("EmptyParamsFailWithNoConditions", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()
		seedFiles(t, database, repo)

		_, err := repo.DeleteSomeByParams(context.Background(), database, Params{})
		require.ErrorIs(t, err, ErrNoConditions)

		files, err := repo.SomeByParams(context.Background(), database, Params{}, 0, 0)
		require.NoError(t, err)
		assert.Len(t, files, 4)
	})

	t.Run("UnknownFieldFailsWithInvalidAttribute", func(t *testing.T) {
		database := newTestDB(t)
		repo := NewFileRepository()

		_, err := repo.DeleteSomeByParams(context.Background(), database, Params{
			"bogus": {int64(1)},
		})
		require.ErrorIs(t, err, ErrInvalidAttribute)
	})
}
