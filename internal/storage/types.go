package storage

import (
	"time"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/geo"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/restaurant"
)

// RestaurantRow is a cached restaurant snapshot plus its cache metadata.
type RestaurantRow struct {
	restaurant.Restaurant

	// CachedAt is the write instant; LastAccess is bumped on reads and is
	// never earlier than CachedAt.
	CachedAt   time.Time
	LastAccess time.Time

	// UserCoord is where the user was when the row was written, used to
	// scope nearby reads. Nil when the write had no location context.
	UserCoord *geo.Coordinate
}

// ViewSource tags how a restaurant ended up in front of the user.
type ViewSource string

const (
	ViewSourceSearch         ViewSource = "search"
	ViewSourceRecommendation ViewSource = "recommendation"
	ViewSourceMapTap         ViewSource = "map-tap"
	ViewSourceCollection     ViewSource = "collection"
	ViewSourceDeal           ViewSource = "deal"
)

// ViewEntry is one append-only view-history record.
type ViewEntry struct {
	ID           int64
	RestaurantID string
	ViewedAt     time.Time
	Source       ViewSource
}

// Stats holds aggregate statistics about the local database.
type Stats struct {
	RestaurantCount   int64
	DealCount         int64
	ViewCount         int64
	OldestWrite       time.Time
	NewestWrite       time.Time
	DatabaseSizeBytes int64
}
