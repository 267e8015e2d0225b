package main

import (
	"context"
	"log"
	"os"

	"github.com/vrdaw-dev/vrdaw/internal/config"
	"github.com/vrdaw-dev/vrdaw/internal/logging"
	"github.com/vrdaw-dev/vrdaw/internal/server"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	app, err := server.NewApp(ctx, cfg, logger)

	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
