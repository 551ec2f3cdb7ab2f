package model

import (
	"time"
)

// File is the metadata record for a stored blob. The blob itself lives in
// storage under the derived name (see DerivedName), which doubles as the join
// key between the metadata row and the blob.
type File struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Tag              *string   `json:"tag" db:"tag"`
	Size             int64     `json:"size" db:"size"`
	MimeType         string    `json:"mimeType" db:"mime_type"`
	ModificationTime time.Time `json:"modificationTime" db:"modification_time"`
}

// DerivedName returns the blob-store key for this record. The namespace is
// flat: just the metadata name, no subdirectories.
func (f File) DerivedName() string {
	return f.Name
}

// FilePatch carries a merge-patch for an existing record. A nil field retains
// the prior value; a non-nil field overrides it. ModificationTime is absent on
// purpose: the store refreshes it on every update.
type FilePatch struct {
	Name     *string
	Tag      *string
	Size     *int64
	MimeType *string
}

// PatchOf builds a patch that overrides every patchable field with the values
// of f. Used by the upload path, where size and MIME type are always derived
// from the payload.
func PatchOf(f File) FilePatch {
	return FilePatch{
		Name:     &f.Name,
		Tag:      f.Tag,
		Size:     &f.Size,
		MimeType: &f.MimeType,
	}
}

// Apply returns a copy of old with the patch's non-nil fields overriding.
func (p FilePatch) Apply(old File) File {
	merged := old
	if p.Name != nil {
		merged.Name = *p.Name
	}
	if p.Tag != nil {
		merged.Tag = p.Tag
	}
	if p.Size != nil {
		merged.Size = *p.Size
	}
	if p.MimeType != nil {
		merged.MimeType = *p.MimeType
	}
	return merged
}
