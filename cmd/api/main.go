package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/arbitra/internal/audit"
	auditStore "github.com/MrJamesThe3rd/arbitra/internal/audit/store"
	"github.com/MrJamesThe3rd/arbitra/internal/auth"
	"github.com/MrJamesThe3rd/arbitra/internal/config"
	"github.com/MrJamesThe3rd/arbitra/internal/database"
	"github.com/MrJamesThe3rd/arbitra/internal/export"
	"github.com/MrJamesThe3rd/arbitra/internal/holder"
	holderStore "github.com/MrJamesThe3rd/arbitra/internal/holder/store"
	arbitraHttp "github.com/MrJamesThe3rd/arbitra/internal/http"
	exportHandler "github.com/MrJamesThe3rd/arbitra/internal/http/export"
	holderHandler "github.com/MrJamesThe3rd/arbitra/internal/http/holder"
	importHandler "github.com/MrJamesThe3rd/arbitra/internal/http/importcsv"
	previewHandler "github.com/MrJamesThe3rd/arbitra/internal/http/preview"
	ratesHandler "github.com/MrJamesThe3rd/arbitra/internal/http/rates"
	reportHandler "github.com/MrJamesThe3rd/arbitra/internal/http/report"
	txHandler "github.com/MrJamesThe3rd/arbitra/internal/http/transaction"
	"github.com/MrJamesThe3rd/arbitra/internal/importer"
	"github.com/MrJamesThe3rd/arbitra/internal/rates"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
	txStore "github.com/MrJamesThe3rd/arbitra/internal/transaction/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	defaults, err := rates.ParseDefaults(cfg.Rates.Defaults)
	if err != nil {
		return fmt.Errorf("parsing default rates: %w", err)
	}

	var (
		holderService      = holder.NewService(holderStore.New(db))
		auditService       = audit.NewService(auditStore.New(db))
		transactionService = transaction.NewService(txStore.New(db), holderService, auditService)
		rateService        = rates.NewService(provider(cfg.Rates.PrimaryURL, cfg), provider(cfg.Rates.FallbackURL, cfg), defaults)
		importService      = importer.NewService(transactionService)
		exportService      = export.NewService(transactionService)
	)

	rateService.Prefetch(ctx, string(transaction.CurrencyEUR), string(transaction.CurrencyGBP), string(transaction.CurrencyUSDT))

	router := arbitraHttp.New(arbitraHttp.Handlers{
		Transactions: txHandler.NewHandler(transactionService, auditService),
		Calculator:   txHandler.NewCalculator(transactionService, rateService),
		Holders:      holderHandler.NewHandler(holderService),
		Reports:      reportHandler.NewHandler(transactionService),
		Export:       exportHandler.NewHandler(exportService),
		Import:       importHandler.NewHandler(importService),
		Rates:        ratesHandler.NewHandler(rateService),
		Preview:      previewHandler.NewHandler(transactionService, cfg.App.Name, cfg.App.PublicURL),
	}, issuer(cfg), cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "addr", srv.Addr, "auth", cfg.Auth.JWTSecret != "")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}

// provider returns nil for an unset URL so the rate service skips that source.
func provider(url string, cfg *config.Config) rates.Provider {
	if url == "" {
		return nil
	}

	return rates.NewHTTPProvider(url, cfg.Rates.Timeout)
}

func issuer(cfg *config.Config) *auth.Issuer {
	if cfg.Auth.JWTSecret == "" {
		slog.Warn("JWT_SECRET is empty, the API is unauthenticated")
		return nil
	}

	return auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}
