package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MertalpTasdelen/yeninesilevim/internal/api"
	"github.com/MertalpTasdelen/yeninesilevim/internal/application/report"
	"github.com/MertalpTasdelen/yeninesilevim/internal/infrastructure/config"
	"github.com/MertalpTasdelen/yeninesilevim/internal/infrastructure/logging"
	"github.com/MertalpTasdelen/yeninesilevim/internal/infrastructure/storage"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Configuration file path")
	flag.Parse()

	// Credentials commonly live in .env during development
	_ = godotenv.Load()

	cfg := config.LoadOrEnvWithPath(*configFile)

	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "api")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	reportService := report.NewService(cfg, store, logger)

	serverCfg := api.Config{
		Port:           cfg.API.Port,
		AllowedOrigins: cfg.API.AllowedOrigins,
	}
	if len(serverCfg.AllowedOrigins) == 0 {
		serverCfg.AllowedOrigins = api.DefaultConfig().AllowedOrigins
	}

	server := api.NewServer(serverCfg, store, reportService, logger)

	// Graceful shutdown on SIGINT/SIGTERM
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
}
