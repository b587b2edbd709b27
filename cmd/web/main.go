package main

import (
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"time"

	"prompt-library/internal/auth"
	"prompt-library/internal/config"
	"prompt-library/internal/http"
	"prompt-library/internal/service"
	"prompt-library/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	credentials, err := auth.LoadCredentials(cfg.CredentialsFile)
	if err != nil {
		log.Fatalf("Failed to load credentials: %v", err)
	}
	slog.Info("Credentials loaded", "users", len(credentials), "file", cfg.CredentialsFile)

	store := storage.NewCSVStore(cfg.DataPath)
	attachments := storage.NewAttachmentStore(cfg.AttachmentsDir)
	library := service.NewLibraryService(store, attachments)
	slog.Info("Prompt library ready", "data_path", store.Path(), "attachments_dir", attachments.Dir())

	deps := &http.Deps{
		Library:        library,
		Store:          store,
		Attachments:    attachments,
		Credentials:    credentials,
		Sessions:       auth.NewSessions(cfg.SessionSecret),
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.HTTPPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Starting web server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("Web server failed to start: %v", err)
	}
}
