package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/cache"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/config"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/storage"
)

// Execute implements the go-flags Commander interface for CleanupCommand.
func (c *CleanupCommand) Execute(args []string) error {
	store, db, cfg, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, cfg, time.Now())
}

func (c *CleanupCommand) executeWithStore(store storage.Store, cfg *config.Config, now time.Time) error {
	ctx := context.Background()

	cacheAge := time.Duration(cfg.Retention.CacheDays) * 24 * time.Hour
	if c.OlderThan != "" {
		var err error
		cacheAge, err = parseDuration(c.OlderThan)
		if err != nil {
			return err
		}
	}

	removedRestaurants, err := store.PruneRestaurants(ctx, now.Add(-cacheAge))
	if err != nil {
		return fmt.Errorf("prune restaurants: %w", err)
	}

	removedDeals, err := store.PruneExpiredDeals(ctx, now)
	if err != nil {
		return fmt.Errorf("prune deals: %w", err)
	}

	viewAge := time.Duration(cfg.Retention.ViewHistoryDays) * 24 * time.Hour
	removedViews, err := store.PruneViews(ctx, now.Add(-viewAge))
	if err != nil {
		return fmt.Errorf("prune views: %w", err)
	}

	// Size ceiling and thumbnail orphan sweep run through the cache layer.
	thumbDir, err := cfg.ThumbnailPath()
	if err != nil {
		return err
	}
	cacheStore := cache.New(store, nil, cache.Config{
		ThumbDir:       thumbDir,
		MaxRestaurants: cfg.Limits.MaxCachedRestaurants,
		MaxSizeMB:      cfg.Limits.MaxCacheSizeMB,
		MaxAgeDays:     cfg.Retention.CacheDays,
	}, nil)
	if err := cacheStore.CleanupOldData(ctx); err != nil {
		return err
	}
	if err := cacheStore.Close(); err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"removed_restaurants": removedRestaurants,
			"removed_deals":       removedDeals,
			"removed_views":       removedViews,
		}
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(out)
	}

	fmt.Printf("Removed %d restaurant(s), %d expired deal(s), %d view(s).\n",
		removedRestaurants, removedDeals, removedViews)
	return nil
}
