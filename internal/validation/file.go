package validation

import (
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
)

// ValidateUpload checks the declared upload size against the configured cap.
// Content validation beyond size happens downstream: the stored size and MIME
// type are derived from the payload itself, never trusted from the header.
func ValidateUpload(header *multipart.FileHeader, maxSize int64) error {
	if header.Size > maxSize {
		return fmt.Errorf("file too large: maximum size is %d MB", maxSize/(1<<20))
	}
	return nil
}

// DetectMimeType resolves the MIME type to store for an uploaded payload. A
// concrete client-declared content type is honored as a hint; otherwise the
// type is sniffed from the content's magic numbers.
func DetectMimeType(declared string, content []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		mediaType, _, err := mime.ParseMediaType(declared)
		if err == nil {
			return mediaType
		}
	}
	return http.DetectContentType(content)
}
