package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/config"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string `json:"version"`
	DatabasePath      string `json:"database_path"`
	DatabaseSizeBytes int64  `json:"database_size_bytes"`
	Restaurants       int64  `json:"restaurants"`
	Deals             int64  `json:"deals"`
	Views             int64  `json:"views"`
	OldestWrite       string `json:"oldest_write,omitempty"`
	NewestWrite       string `json:"newest_write,omitempty"`
	CacheDays         int    `json:"cache_days"`
	MaxRestaurants    int    `json:"max_restaurants"`
	MaxCacheSizeMB    int    `json:"max_cache_size_mb"`
	DaemonRunning     bool   `json:"daemon_running"`
	ThumbnailsEnabled bool   `json:"thumbnails_enabled"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	store, db, cfg, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, cfg)
}

// executeWithStore runs status against a provided store (for testing).
func (c *StatusCommand) executeWithStore(store storage.Store, cfg *config.Config) error {
	ctx := context.Background()

	stats, err := store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return err
	}

	daemonRunning := checkDaemon(cfg)

	if c.globals != nil && c.globals.JSON {
		return c.printStatusJSON(stats, cfg, dbPath, daemonRunning)
	}
	return c.printStatusHuman(stats, cfg, dbPath, daemonRunning)
}

func (c *StatusCommand) printStatusHuman(stats *storage.Stats, cfg *config.Config, dbPath string, daemonRunning bool) error {
	fmt.Println("CheapEats Status")
	fmt.Println("================")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Database:      %s (%s)\n", dbPath, formatBytes(stats.DatabaseSizeBytes))
	fmt.Printf("Restaurants:   %d\n", stats.RestaurantCount)
	fmt.Printf("Deals:         %d\n", stats.DealCount)
	fmt.Printf("Views:         %d\n", stats.ViewCount)

	if stats.RestaurantCount > 0 {
		fmt.Printf("Oldest:        %s\n", stats.OldestWrite.Local().Format("2006-01-02"))
		fmt.Printf("Newest:        %s\n", stats.NewestWrite.Local().Format("2006-01-02"))
	}

	fmt.Printf("Retention:     %d days\n", cfg.Retention.CacheDays)
	fmt.Printf("Cache limits:  %d restaurants / %d MB\n",
		cfg.Limits.MaxCachedRestaurants, cfg.Limits.MaxCacheSizeMB)

	fmt.Println()
	if daemonRunning {
		fmt.Println("Daemon:        running")
	} else {
		fmt.Println("Daemon:        not running")
	}
	if cfg.Thumbnails.Enabled {
		if cfg.Thumbnails.WifiOnly {
			fmt.Println("Thumbnails:    enabled (wifi-only)")
		} else {
			fmt.Println("Thumbnails:    enabled")
		}
	} else {
		fmt.Println("Thumbnails:    disabled")
	}

	return nil
}

func (c *StatusCommand) printStatusJSON(stats *storage.Stats, cfg *config.Config, dbPath string, daemonRunning bool) error {
	out := statusJSON{
		Version:           c.version,
		DatabasePath:      dbPath,
		DatabaseSizeBytes: stats.DatabaseSizeBytes,
		Restaurants:       stats.RestaurantCount,
		Deals:             stats.DealCount,
		Views:             stats.ViewCount,
		CacheDays:         cfg.Retention.CacheDays,
		MaxRestaurants:    cfg.Limits.MaxCachedRestaurants,
		MaxCacheSizeMB:    cfg.Limits.MaxCacheSizeMB,
		DaemonRunning:     daemonRunning,
		ThumbnailsEnabled: cfg.Thumbnails.Enabled,
	}

	if stats.RestaurantCount > 0 {
		out.OldestWrite = stats.OldestWrite.UTC().Format(time.RFC3339)
		out.NewestWrite = stats.NewestWrite.UTC().Format(time.RFC3339)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// checkDaemon attempts an HTTP GET to the configured daemon health endpoint.
// Returns true if the daemon responds within 1 second.
func checkDaemon(cfg *config.Config) bool {
	client := &http.Client{Timeout: 1 * time.Second}
	url := fmt.Sprintf("http://%s:%d/health", cfg.Server.Host, cfg.Server.Port)
	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
