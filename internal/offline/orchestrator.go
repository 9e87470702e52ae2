package offline

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/cache"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/geo"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/restaurant"
)

// Event is a connectivity-change signal from the platform.
type Event int

const (
	EventAvailable Event = iota
	EventLost
)

// Monitor is the connectivity collaborator: capability queries plus change
// notifications, which may arrive on any goroutine.
type Monitor interface {
	// HasInternet reports whether any transport currently has internet
	// capability.
	HasInternet() bool
	// IsUnmetered reports whether the active transport is Wi-Fi-class.
	IsUnmetered() bool
	// Subscribe registers fn for connectivity changes and returns an
	// unsubscribe function.
	Subscribe(fn func(Event)) (cancel func())
}

// Settings are the injected user-facing policy knobs. They are parameters of
// the orchestrator, not state it owns.
type Settings struct {
	ThumbnailsEnabled  bool
	WifiOnlyThumbnails bool
}

// Orchestrator decides between live and cached serving, drives cache
// maintenance, and exposes the offline flag and cache statistics as
// observable values.
type Orchestrator struct {
	cache    *cache.Store
	monitor  Monitor
	settings Settings
	logger   *slog.Logger

	// offline is re-derived from HasInternet on every signal; a single
	// atomic value so notification goroutines never observe a torn update.
	offline atomic.Bool

	mu           sync.Mutex
	stats        cache.Stats
	offlineSubs  []func(bool)
	statsSubs    []func(cache.Stats)
	unsubscribe  func()
	closeOnce    sync.Once
}

// New creates an Orchestrator and subscribes it to connectivity changes.
func New(cacheStore *cache.Store, monitor Monitor, settings Settings, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		cache:    cacheStore,
		monitor:  monitor,
		settings: settings,
		logger:   logger,
	}
	o.offline.Store(!monitor.HasInternet())
	o.unsubscribe = monitor.Subscribe(o.onConnectivityChange)
	return o
}

// onConnectivityChange re-derives the offline flag from the capability
// query rather than flipping it: a lost cellular link must not report
// offline while Wi-Fi is still up.
func (o *Orchestrator) onConnectivityChange(Event) {
	offline := !o.monitor.HasInternet()
	if o.offline.Swap(offline) == offline {
		return
	}

	o.logger.Info("connectivity changed", "offline", offline)

	o.mu.Lock()
	subs := append([]func(bool){}, o.offlineSubs...)
	o.mu.Unlock()
	for _, fn := range subs {
		fn(offline)
	}
}

// Offline reports the current derived offline state.
func (o *Orchestrator) Offline() bool {
	return o.offline.Load()
}

// SubscribeOffline registers fn for offline-state changes.
func (o *Orchestrator) SubscribeOffline(fn func(bool)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.offlineSubs = append(o.offlineSubs, fn)
}

// SubscribeStats registers fn for cache-statistics refreshes.
func (o *Orchestrator) SubscribeStats(fn func(cache.Stats)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statsSubs = append(o.statsSubs, fn)
}

// Stats returns the last refreshed statistics snapshot.
func (o *Orchestrator) Stats() cache.Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}

// CacheResults write-through caches a live result set. Thumbnail fetching is
// gated on the injected settings and the current transport: Wi-Fi-only mode
// requires an unmetered link.
func (o *Orchestrator) CacheResults(ctx context.Context, restaurants []restaurant.Restaurant, userLoc *geo.Coordinate) error {
	fetchThumbs := o.settings.ThumbnailsEnabled &&
		o.monitor.HasInternet() &&
		(!o.settings.WifiOnlyThumbnails || o.monitor.IsUnmetered())

	if err := o.cache.CacheResults(ctx, restaurants, userLoc, fetchThumbs); err != nil {
		return err
	}
	o.RefreshStats(ctx)
	return nil
}

// GetCachedResults serves from the local cache with the caller's filters
// AND-combined. It never touches the network.
func (o *Orchestrator) GetCachedResults(ctx context.Context, userLoc *geo.Coordinate, filters ...restaurant.Filter) ([]restaurant.Restaurant, error) {
	return o.cache.GetCached(ctx, userLoc, restaurant.And(filters...))
}

// RecordAccess bumps a cached row's last-access instant.
func (o *Orchestrator) RecordAccess(ctx context.Context, id string) error {
	return o.cache.RecordAccess(ctx, id)
}

// CleanupOldData runs the cache's periodic maintenance.
func (o *Orchestrator) CleanupOldData(ctx context.Context) error {
	if err := o.cache.CleanupOldData(ctx); err != nil {
		return err
	}
	o.RefreshStats(ctx)
	return nil
}

// ClearCache wipes the cache entirely.
func (o *Orchestrator) ClearCache(ctx context.Context) error {
	if err := o.cache.ClearCache(ctx); err != nil {
		return err
	}
	o.RefreshStats(ctx)
	return nil
}

// RefreshStats recomputes cache statistics and notifies subscribers.
func (o *Orchestrator) RefreshStats(ctx context.Context) {
	stats, err := o.cache.Stats(ctx)
	if err != nil {
		o.logger.Warn("refresh cache stats", "error", err)
		return
	}

	o.mu.Lock()
	o.stats = stats
	subs := append([]func(cache.Stats){}, o.statsSubs...)
	o.mu.Unlock()

	for _, fn := range subs {
		fn(stats)
	}
}

// Close releases the connectivity subscription exactly once and drains
// cache background work. Safe to call repeatedly.
func (o *Orchestrator) Close() error {
	o.closeOnce.Do(func() {
		if o.unsubscribe != nil {
			o.unsubscribe()
		}
		if err := o.cache.Close(); err != nil {
			o.logger.Warn("close cache", "error", err)
		}
	})
	return nil
}
