package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/david/scholarship-finder/internal/api"
	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/config"
	"github.com/david/scholarship-finder/internal/logging"
	"github.com/david/scholarship-finder/internal/transport"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if cfg.API.BaseURL == "" {
		logger.Fatal("SCHOLARSHIP_API_BASE_URL is required")
	}

	client := transport.NewClient(cfg.API.BaseURL, transport.WithLogger(logger))
	srv := api.NewServer(catalog.NewService(client, logger), cfg, logger)

	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("backend", cfg.API.BaseURL),
		)
		if err := srv.Start(cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
