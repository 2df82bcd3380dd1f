package main

import (
	"context"
	"log"

	"docsearch-backend/internal/bootstrap"
	"docsearch-backend/internal/shared/config"
	"docsearch-backend/internal/shared/server"
	"docsearch-backend/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	if err := db.RunMigrations(context.Background(), app.DB); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
