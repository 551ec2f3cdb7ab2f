package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/filedepot/filedepot/internal/repository"
	"github.com/filedepot/filedepot/internal/service"
	"github.com/filedepot/filedepot/internal/storage"
)

// Message is the envelope for plain-text API responses.
type Message struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Message{Message: msg})
}

// statusFor maps each error kind to its response status. Known kinds survive
// every layer unchanged, so a single errors.Is switch at the boundary works.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrInvalidAttribute),
		errors.Is(err, repository.ErrNoConditions),
		errors.Is(err, repository.ErrMapping),
		errors.Is(err, service.ErrDataLoss),
		errors.Is(err, storage.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrFileAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, repository.ErrFileNotFound),
		errors.Is(err, storage.ErrFileNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		// Internal details stay in the log.
		writeMessage(w, status, "internal server error")
		return
	}
	writeMessage(w, status, err.Error())
}
