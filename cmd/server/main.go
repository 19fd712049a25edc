package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hassanzn2023/autoblog-sub000/internal/api"
	"github.com/hassanzn2023/autoblog-sub000/internal/config"
	"github.com/hassanzn2023/autoblog-sub000/internal/credit"
	"github.com/hassanzn2023/autoblog-sub000/internal/extract"
	"github.com/hassanzn2023/autoblog-sub000/internal/llm"
	"github.com/hassanzn2023/autoblog-sub000/internal/seo"
	"github.com/hassanzn2023/autoblog-sub000/internal/storage/sql"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create data directory if needed (for SQLite)
	if cfg.Database.Driver == "sqlite3" {
		if dir := filepath.Dir(cfg.Database.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				log.Fatalf("Failed to create data directory: %v", err)
			}
		}
	}

	// Initialize storage
	store, err := sql.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Construct services once and pass them by reference
	completer := llm.NewOpenAICompleter(cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
	ledger := credit.NewLedger(store, logger)
	extractor := extract.New(cfg.Extract, logger)
	keywords := seo.NewKeywordService(store, ledger, completer, cfg.OpenAI.APIKey, logger)
	analyzer := seo.NewAnalyzer(store, ledger, completer, cfg.OpenAI.APIKey, logger)

	// Create router
	router := api.NewRouter(store, &api.Services{
		Extractor: extractor,
		Keywords:  keywords,
		Analyzer:  analyzer,
		Ledger:    ledger,
	}, cfg.Auth.BootstrapAPIKey)

	// Create HTTP server. Write timeout leaves headroom for the extraction
	// fetch, which is the slowest request we serve.
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Extract.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting SEO content service on http://%s", cfg.Server.Addr())
	log.Printf("Press Ctrl+C to stop")

	// Start server in goroutine
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
