package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiskStorage(t *testing.T) (*DiskStorage, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := NewDiskStorage(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewDiskStorage(t *testing.T) {
	t.Run("CreatesMissingDirectory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "blobs")

		_, err := NewDiskStorage(dir)
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("ExistingDirectoryIsFine", func(t *testing.T) {
		dir := t.TempDir()

		_, err := NewDiskStorage(dir)
		require.NoError(t, err)
		_, err = NewDiskStorage(dir)
		require.NoError(t, err)
	})
}

func TestDiskStorageWrite(t *testing.T) {
	t.Run("ReturnsBytesWritten", func(t *testing.T) {
		store, dir := newDiskStorage(t)

		written, err := store.Write(context.Background(), "a.txt", strings.NewReader("hello world"))
		require.NoError(t, err)
		assert.Equal(t, int64(11), written)

		content, err := os.ReadFile(filepath.Join(dir, "a.txt"))
		require.NoError(t, err)
		assert.Equal(t, "hello world", string(content))
	})

	t.Run("RefusesOverwrite", func(t *testing.T) {
		store, dir := newDiskStorage(t)

		_, err := store.Write(context.Background(), "a.txt", strings.NewReader("first"))
		require.NoError(t, err)

		_, err = store.Write(context.Background(), "a.txt", strings.NewReader("second"))
		require.ErrorIs(t, err, ErrFileAlreadyExists)

		content, err := os.ReadFile(filepath.Join(dir, "a.txt"))
		require.NoError(t, err)
		assert.Equal(t, "first", string(content))
	})

	t.Run("RejectsTraversalNames", func(t *testing.T) {
		store, _ := newDiskStorage(t)

		for _, name := range []string{"", ".", "..", "../escape", "sub/dir.txt"} {
			_, err := store.Write(context.Background(), name, strings.NewReader("x"))
			assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
		}
	})
}

func TestDiskStorageRead(t *testing.T) {
	t.Run("ReturnsPayloadDescriptor", func(t *testing.T) {
		store, dir := newDiskStorage(t)

		_, err := store.Write(context.Background(), "a.txt", strings.NewReader("payload"))
		require.NoError(t, err)

		blob, err := store.Read(context.Background(), "a.txt")
		require.NoError(t, err)
		defer func() { _ = blob.Content.Close() }()

		assert.Equal(t, filepath.Join(dir, "a.txt"), blob.Path)
		assert.Equal(t, "a.txt", blob.Filename)

		content, err := io.ReadAll(blob.Content)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(content))
	})

	t.Run("MissingBlobFailsWithNotFound", func(t *testing.T) {
		store, _ := newDiskStorage(t)

		_, err := store.Read(context.Background(), "missing.txt")
		require.ErrorIs(t, err, ErrFileNotFound)
	})
}

func TestDiskStorageDelete(t *testing.T) {
	t.Run("RemovesBlob", func(t *testing.T) {
		store, dir := newDiskStorage(t)

		_, err := store.Write(context.Background(), "a.txt", strings.NewReader("x"))
		require.NoError(t, err)

		require.NoError(t, store.Delete(context.Background(), "a.txt"))

		_, err = os.Stat(filepath.Join(dir, "a.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("DeletingAbsentBlobIsNotAnError", func(t *testing.T) {
		store, _ := newDiskStorage(t)

		require.NoError(t, store.Delete(context.Background(), "never-existed.txt"))
		require.NoError(t, store.Delete(context.Background(), "never-existed.txt"))
	})
}
