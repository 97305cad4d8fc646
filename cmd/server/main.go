package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gyaneshwarpardhi/lodgeroll/internal/api"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/config"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/engine"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/report"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/store"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/store/file"
	"github.com/gyaneshwarpardhi/lodgeroll/internal/store/postgres"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cfgPath := flag.String("config", "configs/lodgeroll.yaml", "Path to lodgeroll YAML config")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}

	// ── Compile profiles ──────────────────────────────────────────────────────
	reg := report.DefaultRegistry()
	ps, err := engine.CompileProfiles(cfg, reg)
	if err != nil {
		slog.Error("failed to compile profiles", "err", err)
		os.Exit(1)
	}
	slog.Info("profiles compiled", "profiles", ps.Len(), "default", ps.Default(), "sections", reg.Names())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Snapshot store ───────────────────────────────────────────────────────
	src, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "err", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("store ready", "driver", cfg.Store.Driver)

	// ── Engine ────────────────────────────────────────────────────────────────
	eng := engine.New(ctx, ps, reg, src, cfg.Engine)

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	// Engine and store settings need a restart; only profiles are swapped.
	loader.OnChange(func(newCfg *config.Config) {
		ps, err := eng.Reconfigure(newCfg)
		if err != nil {
			slog.Warn("hot-reload skipped: config invalid", "err", err)
			return
		}
		slog.Info("profiles hot-reloaded", "profiles", ps.Len(), "default", ps.Default())
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         *addr,
		Handler:      api.New(eng, loader),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Duration(cfg.Engine.ReportTimeoutMs)*time.Millisecond + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	cancel() // stop worker pool
	eng.Shutdown()
	slog.Info("goodbye")
}

func openStore(ctx context.Context, sc config.StoreConf) (store.Source, func(), error) {
	switch sc.Driver {
	case config.DriverFile:
		return file.New(sc.Path), func() {}, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, sc.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("store: ping: %w", err)
		}
		return postgres.New(pool), pool.Close, nil
	case config.DriverNone:
		return store.None{}, func() {}, nil
	}
	return nil, nil, fmt.Errorf("store: unknown driver %q", sc.Driver)
}
