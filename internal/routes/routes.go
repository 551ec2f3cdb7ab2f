package routes

import (
	"net/http"

	"github.com/filedepot/filedepot/internal/app"
	"github.com/filedepot/filedepot/internal/handler"
	"github.com/filedepot/filedepot/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	files := handler.NewFileHandler(app.FileService, app.Cfg.UploadMaxSize)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/api/upload", files.Upload)
	mux.HandleFunc("GET /v1/api/get", files.List)
	mux.HandleFunc("DELETE /v1/api/delete", files.Delete)
	mux.HandleFunc("GET /v1/api/download", files.Download)

	mux.HandleFunc("GET /health", health.Check)

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.RequestLogging,
	)
}
