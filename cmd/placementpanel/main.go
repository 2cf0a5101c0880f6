package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/placementpanel/internal/adapter/driven/spreadsheet"
	"github.com/ericfisherdev/placementpanel/internal/adapter/driven/stores"
	httphandler "github.com/ericfisherdev/placementpanel/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/placementpanel/internal/adapter/driving/web"
	"github.com/ericfisherdev/placementpanel/internal/application"
	"github.com/ericfisherdev/placementpanel/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid values).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"store", cfg.Store,
		"session_ttl", cfg.SessionTTL,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open stores and run migrations.
	st, err := stores.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	// 4. Load the theme catalog.
	catalog, err := application.LoadThemeCatalog()
	if err != nil {
		return err
	}

	// 5. Wire application services.
	sheets := spreadsheet.New()
	recordSvc := application.NewRecordService(st.Visits, sheets, sheets, logger)
	overviewSvc := application.NewOverviewService(st.Visits)
	themeSvc := application.NewThemeService(catalog, st.Settings)

	// 6. Start the session registry and its sweeper.
	sessions := application.NewSessionRegistry(cfg.SessionTTL, logger)
	go sessions.Start(ctx, sweepInterval(cfg.SessionTTL))

	// 7. Register API and GUI routes on one mux.
	mux := http.NewServeMux()
	apiHandler := httphandler.NewHandler(sessions, recordSvc, overviewSvc, themeSvc, logger)
	apiHandler.Register(mux)

	webHandler := webhandler.NewHandler(sessions, recordSvc, overviewSvc, themeSvc, logger)
	webhandler.RegisterRoutes(mux, webHandler)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.ApplyMiddleware(mux, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second, // spreadsheet uploads
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	// 8. Log startup complete.
	slog.Info("placementpanel started", "listen_addr", cfg.ListenAddr, "store", st.Backend)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	// 11. Log shutdown complete.
	slog.Info("shutdown complete", "open_sessions", sessions.Len())
	return nil
}

// sweepInterval checks for idle sessions a few times per TTL, at most once a
// minute.
func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return max(ttl/4, time.Minute)
}
