package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/filedepot/filedepot/internal/config"
	"github.com/filedepot/filedepot/internal/db"
	"github.com/filedepot/filedepot/internal/repository"
	"github.com/filedepot/filedepot/internal/service"
	"github.com/filedepot/filedepot/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Storage         storage.Storage
	MetadataService *service.MetadataService
	BlobService     *service.BlobService
	FileService     *service.FileService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	fileRepository := repository.NewFileRepository()

	// Storage
	blobStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	metadataService := service.NewMetadataService(database, fileRepository)
	blobService := service.NewBlobService(blobStorage)
	fileService := service.NewFileService(metadataService, blobService)

	return &App{
		Cfg:             cfg,
		DB:              database,
		Storage:         blobStorage,
		MetadataService: metadataService,
		BlobService:     blobService,
		FileService:     fileService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
