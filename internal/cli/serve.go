package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/api"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/cache"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/history"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/offline"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/storage"
)

// Execute implements the go-flags Commander interface for ServeCommand.
// It wires the full pipeline and blocks serving the local HTTP API.
func (c *ServeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	levelName := cfg.Logging.Level
	if c.LogLevel != "" {
		levelName = c.LogLevel
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(levelName),
	}))

	store, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	thumbDir, err := cfg.ThumbnailPath()
	if err != nil {
		return err
	}
	cacheStore := cache.New(store, &cache.HTTPFetcher{}, cache.Config{
		ThumbDir:       thumbDir,
		ThumbnailSize:  cfg.Thumbnails.SizePx,
		FetchTimeout:   time.Duration(cfg.Thumbnails.FetchTimeoutSeconds) * time.Second,
		MaxRestaurants: cfg.Limits.MaxCachedRestaurants,
		MaxSizeMB:      cfg.Limits.MaxCacheSizeMB,
		MaxAgeDays:     cfg.Retention.CacheDays,
	}, logger)

	monitor := offline.NewProbeMonitor(cfg.Server.ProbeURL,
		time.Duration(cfg.Server.ProbeIntervalSeconds)*time.Second)
	defer monitor.Close()

	orch := offline.New(cacheStore, monitor, offline.Settings{
		ThumbnailsEnabled:  cfg.Thumbnails.Enabled,
		WifiOnlyThumbnails: cfg.Thumbnails.WifiOnly,
	}, logger)
	defer orch.Close()
	orch.RefreshStats(context.Background())

	repeats := history.NewWithCooldown(store,
		time.Duration(cfg.Repeats.CooldownHours)*time.Hour)

	srv := api.NewServer(orch, store, repeats, logger)
	handler := api.NewRouter(srv, cfg.Server.AllowedOrigins)

	if cfg.Retention.CleanupIntervalHours > 0 {
		interval := time.Duration(cfg.Retention.CleanupIntervalHours) * time.Hour
		stop := make(chan struct{})
		defer close(stop)
		go maintenanceLoop(interval, stop, func() {
			runMaintenance(context.Background(), store, orch, repeats, logger)
		})
	}

	port := cfg.Server.Port
	if c.Port != 0 {
		port = c.Port
	}
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, port)

	logger.Info("cheapeats daemon listening", "addr", addr, "version", c.version)
	return http.ListenAndServe(addr, handler)
}

// maintenanceLoop invokes run every interval until stop is closed.
func maintenanceLoop(interval time.Duration, stop <-chan struct{}, run func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			run()
		case <-stop:
			return
		}
	}
}

// runMaintenance is one daemon cleanup pass: aged cache rows and the size
// ceiling via the orchestrator, then expired deals and stale view history.
// Failures are logged, never fatal; the next tick retries.
func runMaintenance(ctx context.Context, store storage.Store, orch *offline.Orchestrator, repeats *history.Filter, logger *slog.Logger) {
	if err := orch.CleanupOldData(ctx); err != nil {
		logger.Warn("cache cleanup failed", "error", err)
	}
	if n, err := store.PruneExpiredDeals(ctx, time.Now()); err != nil {
		logger.Warn("deal prune failed", "error", err)
	} else if n > 0 {
		logger.Info("pruned expired deals", "count", n)
	}
	if n, err := repeats.Cleanup(ctx); err != nil {
		logger.Warn("view history prune failed", "error", err)
	} else if n > 0 {
		logger.Info("pruned view history", "count", n)
	}
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
