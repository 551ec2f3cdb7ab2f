package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilePatchApply(t *testing.T) {
	tag := "docs"
	old := File{
		ID:               1,
		Name:             "a.txt",
		Tag:              &tag,
		Size:             100,
		MimeType:         "text/plain",
		ModificationTime: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("NilFieldsRetainPriorValues", func(t *testing.T) {
		merged := FilePatch{}.Apply(old)
		assert.Equal(t, old, merged)
	})

	t.Run("NonNilFieldsOverride", func(t *testing.T) {
		name := "b.txt"
		size := int64(200)
		merged := FilePatch{Name: &name, Size: &size}.Apply(old)

		assert.Equal(t, "b.txt", merged.Name)
		assert.Equal(t, int64(200), merged.Size)
		assert.Equal(t, old.Tag, merged.Tag)
		assert.Equal(t, old.MimeType, merged.MimeType)
	})
}

func TestPatchOf(t *testing.T) {
	tag := "docs"
	incoming := File{ID: 1, Name: "new.txt", Tag: &tag, Size: 5, MimeType: "text/plain"}

	merged := PatchOf(incoming).Apply(File{ID: 1, Name: "old.txt", Size: 9, MimeType: "application/pdf"})
	assert.Equal(t, "new.txt", merged.Name)
	assert.Equal(t, int64(5), merged.Size)
	assert.Equal(t, "text/plain", merged.MimeType)
	assert.Equal(t, &tag, merged.Tag)
}
