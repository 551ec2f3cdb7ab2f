package handler

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/filedepot/filedepot/internal/model"
	"github.com/filedepot/filedepot/internal/repository"
	"github.com/filedepot/filedepot/internal/service"
	"github.com/filedepot/filedepot/internal/validation"
)

type FileHandler struct {
	files         *service.FileService
	uploadMaxSize int64
}

func NewFileHandler(files *service.FileService, uploadMaxSize int64) *FileHandler {
	return &FileHandler{
		files:         files,
		uploadMaxSize: uploadMaxSize,
	}
}

// Upload handles POST /v1/api/upload: multipart form with a "file" part and
// file_id / name / tag values. Size and MIME type are derived from the
// payload; name defaults to the id when not supplied.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxSize)

	err := r.ParseMultipartForm(32 << 20)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	id, err := strconv.ParseInt(r.FormValue("file_id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "file_id must be a positive integer")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close uploaded file", "error", closeErr)
		}
	}()

	err = validation.ValidateUpload(header, h.uploadMaxSize)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		slog.Error("failed to read uploaded file", "id", id, "error", err)
		writeMessage(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = strconv.FormatInt(id, 10)
	}
	var tag *string
	if v := r.FormValue("tag"); v != "" {
		tag = &v
	}

	meta := model.File{
		ID:       id,
		Name:     name,
		Tag:      tag,
		MimeType: validation.DetectMimeType(header.Header.Get("Content-Type"), content),
	}

	saved, err := h.files.CreateOrUpdate(r.Context(), meta, bytes.NewReader(content))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

// List handles GET /v1/api/get: repeated file_id / name / tag query params
// plus optional limit and offset.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := filterParams(r.URL.Query())
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, err := intQuery(r.URL.Query(), "limit")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := intQuery(r.URL.Query(), "offset")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	files, err := h.files.Find(r.Context(), params, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

// Delete handles DELETE /v1/api/delete: removes every file matching the
// filter and reports how many went away.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	params, err := filterParams(r.URL.Query())
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(params) == 0 {
		writeMessage(w, http.StatusBadRequest, "there are no parameters for deletion")
		return
	}

	deleted, err := h.files.Remove(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, fmt.Sprintf("%d files deleted", deleted))
}

// Download handles GET /v1/api/download?file_id=N, streaming the blob with
// the metadata's MIME type and filename.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("file_id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "file_id must be a positive integer")
		return
	}

	blob, err := h.files.Download(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if blob == nil {
		writeMessage(w, http.StatusNotFound, "the file does not exist")
		return
	}
	defer func() {
		closeErr := blob.Content.Close()
		if closeErr != nil {
			slog.Error("failed to close blob", "name", blob.Filename, "error", closeErr)
		}
	}()

	w.Header().Set("Content-Type", blob.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", blob.Filename))
	_, err = io.Copy(w, blob.Content)
	if err != nil {
		slog.Error("failed to stream blob", "name", blob.Filename, "error", err)
	}
}

// filterParams translates query values to a repository filter. file_id values
// must parse as integers; name and tag pass through as-is. A key present with
// no usable values still appears in the result so the lower layers see it.
func filterParams(q url.Values) (repository.Params, error) {
	params := repository.Params{}

	if values, ok := q["file_id"]; ok {
		ids := make([]any, 0, len(values))
		for _, v := range values {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("file_id %q is not an integer", v)
			}
			ids = append(ids, id)
		}
		params["id"] = ids
	}
	if values, ok := q["name"]; ok {
		params["name"] = toAnySlice(values)
	}
	if values, ok := q["tag"]; ok {
		params["tag"] = toAnySlice(values)
	}

	return params, nil
}

func toAnySlice(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func intQuery(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}
