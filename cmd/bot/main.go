package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/PouyaEvan/topic-limiter/internal/app"
	"github.com/PouyaEvan/topic-limiter/internal/config"
	"github.com/PouyaEvan/topic-limiter/pkg/logger"
	"github.com/PouyaEvan/topic-limiter/pkg/telemetry"
)

func main() {

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFile)

	if cfg.EnableTelemetry {
		shutdown, err := telemetry.InitTracer("topic-limiter", os.Stderr)
		if err != nil {
			log.Error("Failed to init telemetry", "error", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Error("Failed to shutdown telemetry", "error", err)
				}
			}()
		}
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Error("Failed to initialize app", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		log.Error("Application error", "error", err)
		os.Exit(1)
	}
}
