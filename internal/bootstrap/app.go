package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"docsearch-backend/internal/documents"
	"docsearch-backend/internal/events"
	"docsearch-backend/internal/extraction"
	"docsearch-backend/internal/ocr"
	"docsearch-backend/internal/search"
	"docsearch-backend/internal/search/elastic"
	"docsearch-backend/internal/shared/config"
	"docsearch-backend/internal/shared/server"
	"docsearch-backend/internal/shared/storage/db"
	"docsearch-backend/internal/shared/storage/object"
	localstore "docsearch-backend/internal/shared/storage/object/local"
	s3store "docsearch-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Index  search.Index
	Events events.Client

	DocumentsRepo    documents.DocumentsRepo
	DocumentsService *documents.Service
	DocumentsHandler *documents.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ocrClient, err := buildOCR(ctx, cfg)
	if err != nil {
		return nil, err
	}

	index, err := buildIndex(cfg)
	if err != nil {
		return nil, err
	}

	eventsClient, err := buildEvents(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var docRepo documents.DocumentsRepo
	if sqlDB != nil {
		docRepo = &documents.PGRepo{DB: sqlDB}
	} else {
		docRepo = documents.NewMemoryRepo()
	}

	orchestrator := extraction.New(ocrClient, extraction.Policy{
		PollBase:   cfg.PollBase,
		PollFactor: cfg.PollFactor,
		PollCap:    cfg.PollCap,
		Timeout:    cfg.ExtractionTimeout,
	})

	docSvc := &documents.Service{
		Repo:              docRepo,
		Store:             store,
		Extractor:         orchestrator,
		Index:             index,
		Events:            eventsClient,
		TextLayerFastPath: cfg.TextLayerFastPath,
	}

	app := &App{
		Config:           cfg,
		DB:               sqlDB,
		Store:            store,
		Index:            index,
		Events:           eventsClient,
		DocumentsRepo:    docRepo,
		DocumentsService: docSvc,
		DocumentsHandler: documents.NewHandler(docSvc),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DocumentHandler: app.DocumentsHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repository")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repository: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildOCR picks the OCR client. Textract reads the payload from S3, so the
// provider requires the s3 object store; any other store pairing falls back
// to the placeholder, which rejects every submission.
func buildOCR(ctx context.Context, cfg config.Config) (ocr.Client, error) {
	if cfg.OCRProvider != "textract" {
		return ocr.PlaceholderClient{}, nil
	}
	if cfg.ObjectStoreType != "s3" {
		log.Printf("bootstrap: OCR_PROVIDER=textract requires OBJECT_STORE=s3; OCR disabled")
		return ocr.PlaceholderClient{}, nil
	}
	return ocr.NewTextractClient(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
}

func buildIndex(cfg config.Config) (search.Index, error) {
	if cfg.SearchBackend != "elasticsearch" {
		return nil, nil
	}
	return elastic.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex)
}

func buildEvents(ctx context.Context, cfg config.Config) (events.Client, error) {
	if strings.TrimSpace(cfg.EventsQueueURL) == "" {
		return nil, nil
	}
	return events.NewSQSClient(ctx, cfg.AWSRegion, cfg.EventsQueueURL)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
