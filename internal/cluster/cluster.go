package cluster

import (
	"fmt"
	"math"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/geo"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/restaurant"
)

const (
	// GridSize is the bucketing cell edge in degrees, roughly 300m at
	// Toronto's latitude. Square-grid flooring keeps clustering O(n) and
	// stable across view changes; it is not true radial clustering.
	GridSize = 0.003

	// MinClusterSize is the smallest bucket that becomes a hint.
	MinClusterSize = 3

	// ClusterRadiusMeters is the fixed display radius of every hint.
	ClusterRadiusMeters = 300.0

	// defaultAvgPrice is used when no bucket member has a known price.
	defaultAvgPrice = 12.0
)

// Bounds is a geographic view rectangle.
type Bounds struct {
	MinLat float64
	MinLng float64
	MaxLat float64
	MaxLng float64
}

// Contains reports whether c lies inside the bounds, edges included.
func (b Bounds) Contains(c geo.Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lng >= b.MinLng && c.Lng <= b.MaxLng
}

// Hint is a derived "cheap area" marker. Recomputed on every call; no
// identity, nothing persisted.
type Hint struct {
	Center       geo.Coordinate
	RadiusMeters float64
	Count        int
	AvgPrice     float64
	Label        string
}

type cell struct {
	row int
	col int
}

// CheapAreas groups the in-bounds restaurants passing isCheap into grid
// buckets and emits a hint per bucket of MinClusterSize or more members.
// Hints are unordered relative to each other.
func CheapAreas(restaurants []restaurant.Restaurant, bounds Bounds, isCheap restaurant.Filter) []Hint {
	var qualifying []restaurant.Restaurant
	for _, r := range restaurants {
		if !bounds.Contains(r.Coord) {
			continue
		}
		if isCheap != nil && !isCheap(&r) {
			continue
		}
		qualifying = append(qualifying, r)
	}

	if len(qualifying) < MinClusterSize {
		return nil
	}

	// Flooring puts boundary coordinates in the lower bucket.
	buckets := make(map[cell][]restaurant.Restaurant)
	for _, r := range qualifying {
		key := cell{
			row: int(math.Floor(r.Coord.Lat / GridSize)),
			col: int(math.Floor(r.Coord.Lng / GridSize)),
		}
		buckets[key] = append(buckets[key], r)
	}

	var hints []Hint
	for _, members := range buckets {
		if len(members) < MinClusterSize {
			continue
		}
		hints = append(hints, buildHint(members))
	}
	return hints
}

func buildHint(members []restaurant.Restaurant) Hint {
	var latSum, lngSum float64
	var priceSum float64
	priced := 0

	for _, r := range members {
		latSum += r.Coord.Lat
		lngSum += r.Coord.Lng
		if r.AvgPrice != nil {
			priceSum += *r.AvgPrice
			priced++
		}
	}

	avgPrice := defaultAvgPrice
	if priced > 0 {
		avgPrice = priceSum / float64(priced)
	}

	count := len(members)
	return Hint{
		Center: geo.Coordinate{
			Lat: latSum / float64(count),
			Lng: lngSum / float64(count),
		},
		RadiusMeters: ClusterRadiusMeters,
		Count:        count,
		AvgPrice:     avgPrice,
		Label:        fmt.Sprintf("%d spots ~$%.0f", count, avgPrice),
	}
}
