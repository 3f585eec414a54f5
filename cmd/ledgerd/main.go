package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/joseph-ayodele/receipt-ledger/internal/common"
	"github.com/joseph-ayodele/receipt-ledger/internal/export"
	"github.com/joseph-ayodele/receipt-ledger/internal/ingest"
	"github.com/joseph-ayodele/receipt-ledger/internal/llm/gemini"
	"github.com/joseph-ayodele/receipt-ledger/internal/repository"
	"github.com/joseph-ayodele/receipt-ledger/internal/server"
	"github.com/joseph-ayodele/receipt-ledger/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	logger := newLogger(cfg.Server.LogFormat)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Database
	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("creating DB pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.HealthCheck(ctx, pool, cfg.Database.HealthTimeout, logger); err != nil {
		logger.Error("DB health failed", "error", err)
		os.Exit(1)
	}
	logger.Info("DB health OK")

	// Blob store
	blobs, err := storage.NewStorage(ctx, &storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	}, logger)
	if err != nil {
		logger.Error("connecting to blob store", "error", err)
		os.Exit(1)
	}

	// Analysis service
	analyzer, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		logger.Error("creating analysis client", "error", err)
		os.Exit(1)
	}

	// Repositories
	jobs := repository.NewJobRepository(pool, logger)
	wallets := repository.NewWalletRepository(pool, logger)
	ledger := repository.NewTransactionRepository(pool, logger)
	usage := repository.NewUsageRepository(pool, logger)

	// Pipeline
	materializer := ingest.NewMaterializer(ledger, logger)
	worker := ingest.NewWorker(jobs, blobs, analyzer, materializer, usage, cfg.Storage.SignedURLTTL, logger)
	gateway := ingest.NewGateway(blobs, jobs, wallets, worker, logger)
	status := ingest.NewStatusQuery(jobs, logger)
	exporter := export.NewService(ledger, logger)

	// HTTP server
	receipts := server.NewReceiptHandler(gateway, status, logger)
	transactions := server.NewTransactionHandler(ledger, exporter, logger)
	router := server.NewRouter(receipts, transactions, logger)

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP serving", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}

func newLogger(format string) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.RFC3339,
	}))
}
