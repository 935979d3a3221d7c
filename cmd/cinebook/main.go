package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	_ "github.com/cinebook/cinebook/docs"
	"github.com/cinebook/cinebook/internal/app"
	"github.com/cinebook/cinebook/internal/config"
	"github.com/cinebook/cinebook/internal/logger"
)

// @title CineBook API
// @version 1.0
// @description Cinema session scheduling and ticket booking service.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Dir, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	application, err := app.New(cfg, zl)
	if err != nil {
		zl.Fatal("failed to create application", zap.Error(err))
	}

	if err := application.Run(context.Background()); err != nil {
		zl.Error("application finished with error", zap.Error(err))
	}
}
