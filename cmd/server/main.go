package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sokocargo/sokocargo/internal/catalog"
	catalogsqlite "github.com/sokocargo/sokocargo/internal/catalog/sqlite"
	"github.com/sokocargo/sokocargo/internal/config"
	"github.com/sokocargo/sokocargo/internal/httpx"
	"github.com/sokocargo/sokocargo/internal/orders"
	auditsqlite "github.com/sokocargo/sokocargo/internal/orders/auditlog/sqlite"
	orderssqlite "github.com/sokocargo/sokocargo/internal/orders/sqlite"
	"github.com/sokocargo/sokocargo/internal/pkg/cache"
	"github.com/sokocargo/sokocargo/internal/pkg/telemetry"
	"github.com/sokocargo/sokocargo/internal/pricing"
)

func main() {
	telemetry.InitLogger(slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.SetupTracer(ctx, cfg.ServiceName)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	engine, err := pricing.NewEngine(cfg.Fees)
	if err != nil {
		slog.Error("failed to build pricing engine", "error", err)
		os.Exit(1)
	}

	for _, dir := range []string{filepath.Dir(cfg.DBPath), filepath.Dir(cfg.AuditDBPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Error("failed to create data directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}

	catalogRepo, err := catalogsqlite.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open catalog store", "error", err)
		os.Exit(1)
	}
	defer catalogRepo.Close()

	orderRepo, err := orderssqlite.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open order store", "error", err)
		os.Exit(1)
	}
	defer orderRepo.Close()

	auditRepo, err := auditsqlite.Open(cfg.AuditDBPath)
	if err != nil {
		slog.Error("failed to open audit store", "error", err)
		os.Exit(1)
	}
	defer auditRepo.Close()

	quoteCache := cache.NewRedisCache(cfg.RedisAddr, cfg.ServiceName)

	catalogSvc := catalog.NewService(catalogRepo, engine)
	orderSvc := orders.NewService(orderRepo, auditRepo, engine, cfg.Sequence,
		orders.Policy{StrictProgression: cfg.StrictProgression})

	handler := httpx.NewHandler(engine, catalogSvc, orderSvc, quoteCache)
	router := httpx.NewRouter(handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("sokocargo API running", "addr", srv.Addr, "stages", cfg.Sequence.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
