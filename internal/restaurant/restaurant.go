package restaurant

import (
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/geo"
)

// Freshness marks whether a record came straight from a live fetch or out of
// local storage.
type Freshness string

const (
	FreshnessLive   Freshness = "live"
	FreshnessCached Freshness = "cached"
)

// PriceSource records how a restaurant's average price was obtained.
type PriceSource string

const (
	PriceSourceUnknown   PriceSource = "unknown"
	PriceSourceEstimated PriceSource = "estimated"
	PriceSourceVerified  PriceSource = "verified"
	PriceSourceCached    PriceSource = "cached"
)

// ParsePriceSource decodes a persisted price-source string. Unrecognized
// values fall back to PriceSourceUnknown rather than failing.
func ParsePriceSource(s string) PriceSource {
	switch PriceSource(s) {
	case PriceSourceEstimated, PriceSourceVerified, PriceSourceCached:
		return PriceSource(s)
	default:
		return PriceSourceUnknown
	}
}

// Restaurant is the public restaurant shape flowing through the pipeline.
type Restaurant struct {
	ID      string
	Name    string
	Cuisine string
	Address string
	Coord   geo.Coordinate

	PriceTier       int
	Rating          float64
	NearTransit     bool
	StudentDiscount bool

	// AvgPrice is nil when no price is known; PriceSource then stays unknown.
	AvgPrice    *float64
	PriceSource PriceSource

	OpenNow *bool

	ImageURL  string
	ThumbPath string

	// DistanceMeters is relative to a live position and is reset to zero
	// for records served out of the cache.
	DistanceMeters float64
	Freshness      Freshness
}

// Filter is a predicate over restaurants. Filters combine with And.
type Filter func(*Restaurant) bool

// And returns a filter that passes only when every given filter passes.
// With no filters it passes everything.
func And(filters ...Filter) Filter {
	return func(r *Restaurant) bool {
		for _, f := range filters {
			if f != nil && !f(r) {
				return false
			}
		}
		return true
	}
}

// Apply returns the restaurants passing f, preserving input order.
func Apply(in []Restaurant, f Filter) []Restaurant {
	if f == nil {
		return in
	}
	out := make([]Restaurant, 0, len(in))
	for _, r := range in {
		if f(&r) {
			out = append(out, r)
		}
	}
	return out
}

// MaxAvgPrice passes restaurants whose known average price is at most limit.
// Restaurants without a known price do not pass.
func MaxAvgPrice(limit float64) Filter {
	return func(r *Restaurant) bool {
		return r.AvgPrice != nil && *r.AvgPrice <= limit
	}
}

// FlexiblyCheap is the loose budget test used for cheap-area hints: a known
// average price up to 25% over budget still counts, and restaurants with no
// known price count when their price tier is low.
func FlexiblyCheap(budget float64) Filter {
	return func(r *Restaurant) bool {
		if r.AvgPrice != nil {
			return *r.AvgPrice <= budget*1.25
		}
		return r.PriceTier <= 2
	}
}

// NearTransitOnly passes restaurants flagged as close to a transit station.
func NearTransitOnly() Filter {
	return func(r *Restaurant) bool { return r.NearTransit }
}

// StudentDiscountOnly passes restaurants offering a student discount.
func StudentDiscountOnly() Filter {
	return func(r *Restaurant) bool { return r.StudentDiscount }
}

// OpenNowOnly passes restaurants known to be open. Unknown open state does
// not pass.
func OpenNowOnly() Filter {
	return func(r *Restaurant) bool { return r.OpenNow != nil && *r.OpenNow }
}

// MinRating passes restaurants rated at least min.
func MinRating(min float64) Filter {
	return func(r *Restaurant) bool { return r.Rating >= min }
}
