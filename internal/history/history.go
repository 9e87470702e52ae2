package history

import (
	"context"
	"fmt"
	"time"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/restaurant"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/storage"
)

const (
	// CooldownHours is how long a recommended restaurant stays suppressed.
	CooldownHours = 24

	// RetentionDays bounds how long view history is kept at all.
	RetentionDays = 7

	// MaxRepeatsPerDay is a declared policy ceiling for count-based
	// capping; filtering is cooldown-only and does not consult it.
	MaxRepeatsPerDay = 3
)

// Filter suppresses restaurants the user was already shown recently in
// recommendation contexts, so results stay varied. Restaurants reached via
// explicit search are recorded under a non-suppressible source and never
// filtered here.
type Filter struct {
	db       storage.Store
	cooldown time.Duration
	now      func() time.Time
}

// New creates a repeat-protection filter with the default cooldown window.
func New(db storage.Store) *Filter {
	return NewWithCooldown(db, CooldownHours*time.Hour)
}

// NewWithCooldown creates a filter with a configured suppression window.
// A non-positive cooldown disables suppression entirely.
func NewWithCooldown(db storage.Store, cooldown time.Duration) *Filter {
	return &Filter{db: db, cooldown: cooldown, now: time.Now}
}

// FilterRecentlyShown returns the input minus restaurants recorded with
// source "recommendation" inside the cooldown window, preserving order.
func (f *Filter) FilterRecentlyShown(ctx context.Context, restaurants []restaurant.Restaurant) ([]restaurant.Restaurant, error) {
	if f.cooldown <= 0 {
		return restaurants, nil
	}
	since := f.now().Add(-f.cooldown)
	ids, err := f.db.ViewedIDsSince(ctx, storage.ViewSourceRecommendation, since)
	if err != nil {
		return nil, fmt.Errorf("load recent views: %w", err)
	}
	if len(ids) == 0 {
		return restaurants, nil
	}

	suppressed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		suppressed[id] = struct{}{}
	}

	kept := make([]restaurant.Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		if _, ok := suppressed[r.ID]; ok {
			continue
		}
		kept = append(kept, r)
	}
	return kept, nil
}

// RecordView appends a history entry. Duplicate views are not deduped; the
// cooldown window only cares about the latest entries.
func (f *Filter) RecordView(ctx context.Context, restaurantID string, source storage.ViewSource) error {
	entry := &storage.ViewEntry{
		RestaurantID: restaurantID,
		ViewedAt:     f.now(),
		Source:       source,
	}
	if err := f.db.AddView(ctx, entry); err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

// Cleanup deletes entries older than the retention window. Meant to run
// periodically, not on every read.
func (f *Filter) Cleanup(ctx context.Context) (int64, error) {
	cutoff := f.now().Add(-RetentionDays * 24 * time.Hour)
	return f.db.PruneViews(ctx, cutoff)
}
