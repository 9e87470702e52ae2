package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/geo"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/restaurant"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/storage"
)

// Policy ceilings and defaults for the local restaurant cache.
const (
	MaxCacheAgeDays      = 7
	MaxCachedRestaurants = 200
	MaxCacheSizeMB       = 50
	ThumbnailSize        = 200

	// nearbyDegrees is the half-edge of the bounding box used for
	// location-scoped reads, roughly 5 km.
	nearbyDegrees = 0.05

	defaultFetchTimeout = 5 * time.Second
)

// Config tunes a Store. Zero values fall back to the package defaults.
type Config struct {
	ThumbDir       string
	ThumbnailSize  int
	FetchTimeout   time.Duration
	MaxRestaurants int
	MaxSizeMB      int
	MaxAgeDays     int
}

func (c *Config) applyDefaults() {
	if c.ThumbnailSize <= 0 {
		c.ThumbnailSize = ThumbnailSize
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = defaultFetchTimeout
	}
	if c.MaxRestaurants <= 0 {
		c.MaxRestaurants = MaxCachedRestaurants
	}
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = MaxCacheSizeMB
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = MaxCacheAgeDays
	}
}

// Stats is a recomputed snapshot of the cache footprint.
type Stats struct {
	RestaurantCount int64
	ThumbnailBytes  int64
	SizeText        string
}

// Store is the durable local cache of restaurant snapshots. All mutations go
// through it; thumbnail fetches and the orphan sweep run as best-effort
// background tasks that never fail the triggering call.
type Store struct {
	db      storage.Store
	fetcher Fetcher
	cfg     Config
	logger  *slog.Logger

	// background tracks thumbnail fetches and orphan sweeps so Close can
	// drain them.
	background sync.WaitGroup

	now func() time.Time
}

// New creates a cache Store. fetcher may be nil, which disables thumbnails.
func New(db storage.Store, fetcher Fetcher, cfg Config, logger *slog.Logger) *Store {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:      db,
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// CacheResults write-through caches a live result set, stamping write and
// access instants to now and recording the user's location context. Records
// arriving without the transit flag get it derived from the station table.
// When fetchThumbnails is set, remote images are fetched, downscaled, and
// persisted in the background; failures there are logged and swallowed.
func (s *Store) CacheResults(ctx context.Context, restaurants []restaurant.Restaurant, userLoc *geo.Coordinate, fetchThumbnails bool) error {
	if len(restaurants) == 0 {
		return nil
	}

	now := s.now()
	rows := make([]storage.RestaurantRow, len(restaurants))
	for i, r := range restaurants {
		if !r.NearTransit {
			r.NearTransit = geo.IsWithinRadius(r.Coord, geo.TTCStations, geo.TransitRadiusMeters)
		}
		rows[i] = storage.RestaurantRow{
			Restaurant: r,
			CachedAt:   now,
			LastAccess: now,
			UserCoord:  userLoc,
		}
	}

	if err := s.db.UpsertRestaurants(ctx, rows); err != nil {
		return fmt.Errorf("cache results: %w", err)
	}

	// Keep the hot path bounded: evict LRU beyond the count ceiling right
	// after every write-through.
	if _, err := s.db.EvictLRU(ctx, s.cfg.MaxRestaurants); err != nil {
		return fmt.Errorf("enforce count ceiling: %w", err)
	}

	if fetchThumbnails && s.fetcher != nil && s.cfg.ThumbDir != "" {
		targets := thumbnailTargets(restaurants)
		if len(targets) > 0 {
			s.background.Add(1)
			go func() {
				defer s.background.Done()
				s.fetchThumbnails(targets)
			}()
		}
	}

	return nil
}

// GetCached reads cached snapshots: geo-scoped around userLoc when given,
// otherwise by most recent access. Freshness comes back as cached and the
// live distance is reset; filter is then applied in input order.
func (s *Store) GetCached(ctx context.Context, userLoc *geo.Coordinate, filter restaurant.Filter) ([]restaurant.Restaurant, error) {
	var rows []storage.RestaurantRow
	var err error
	if userLoc != nil {
		rows, err = s.db.RestaurantsNear(ctx, *userLoc, nearbyDegrees)
	} else {
		rows, err = s.db.RestaurantsByRecency(ctx, s.cfg.MaxRestaurants)
	}
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}

	result := make([]restaurant.Restaurant, 0, len(rows))
	for _, row := range rows {
		r := row.Restaurant
		r.Freshness = restaurant.FreshnessCached
		r.DistanceMeters = 0 // depends on a live position the cache doesn't have
		result = append(result, r)
	}

	return restaurant.Apply(result, filter), nil
}

// RecordAccess bumps a row's last-access instant for future recency-ordered
// reads.
func (s *Store) RecordAccess(ctx context.Context, id string) error {
	return s.db.TouchRestaurant(ctx, id, s.now())
}

// CleanupOldData deletes rows past the age ceiling, evicts LRU rows until
// the cache footprint fits the size ceiling, then sweeps orphaned thumbnail
// files in the background.
func (s *Store) CleanupOldData(ctx context.Context) error {
	cutoff := s.now().Add(-time.Duration(s.cfg.MaxAgeDays) * 24 * time.Hour)
	if _, err := s.db.PruneRestaurants(ctx, cutoff); err != nil {
		return fmt.Errorf("prune old rows: %w", err)
	}

	if err := s.enforceSizeCeiling(ctx); err != nil {
		return err
	}

	// Snapshot valid ids once, after all row deletion, so ids removed in
	// this pass count as orphaned.
	ids, err := s.db.RestaurantIDs(ctx)
	if err != nil {
		return fmt.Errorf("snapshot ids: %w", err)
	}

	if s.cfg.ThumbDir != "" {
		s.background.Add(1)
		go func() {
			defer s.background.Done()
			s.sweepOrphans(ids)
		}()
	}

	return nil
}

// enforceSizeCeiling evicts least-recently-accessed rows until the combined
// thumbnail footprint is under the byte ceiling.
func (s *Store) enforceSizeCeiling(ctx context.Context) error {
	limit := int64(s.cfg.MaxSizeMB) * 1024 * 1024

	for {
		bytes, err := s.thumbnailBytes()
		if err != nil {
			return fmt.Errorf("measure cache size: %w", err)
		}
		if bytes <= limit {
			return nil
		}

		count, err := s.db.CountRestaurants(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			return nil
		}

		// Drop the coldest tenth (at least one row) and re-measure after
		// the matching thumbnails are swept.
		keep := int(count) - max(1, int(count)/10)
		if _, err := s.db.EvictLRU(ctx, keep); err != nil {
			return fmt.Errorf("enforce size ceiling: %w", err)
		}

		ids, err := s.db.RestaurantIDs(ctx)
		if err != nil {
			return err
		}
		s.sweepOrphans(ids)
	}
}

// ClearCache deletes all rows and all thumbnail files unconditionally.
func (s *Store) ClearCache(ctx context.Context) error {
	if err := s.db.DeleteAllRestaurants(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	if s.cfg.ThumbDir == "" {
		return nil
	}
	entries, err := os.ReadDir(s.cfg.ThumbDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read thumb dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.cfg.ThumbDir, e.Name())); err != nil {
			s.logger.Warn("remove thumbnail", "file", e.Name(), "error", err)
		}
	}
	return nil
}

// Stats recomputes the cache footprint from scratch; nothing is tracked
// incrementally, so the numbers cannot drift.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	count, err := s.db.CountRestaurants(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}

	bytes, err := s.thumbnailBytes()
	if err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}

	return Stats{
		RestaurantCount: count,
		ThumbnailBytes:  bytes,
		SizeText:        formatSize(bytes),
	}, nil
}

// Close drains outstanding background tasks.
func (s *Store) Close() error {
	s.background.Wait()
	return nil
}

func (s *Store) thumbnailBytes() (int64, error) {
	if s.cfg.ThumbDir == "" {
		return 0, nil
	}
	entries, err := os.ReadDir(s.cfg.ThumbDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	var total int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

// formatSize renders a byte count with thresholds at 1024 B and 1024 KB.
func formatSize(b int64) string {
	switch {
	case b < 1024:
		return fmt.Sprintf("%d B", b)
	case b < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(b)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(b)/(1024*1024))
	}
}
