package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/cache"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/geo"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/restaurant"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/storage"
)

// cachedJSON is the JSON output structure for one cached restaurant.
type cachedJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Cuisine     string   `json:"cuisine,omitempty"`
	AvgPrice    *float64 `json:"avg_price,omitempty"`
	Rating      float64  `json:"rating"`
	NearTransit bool     `json:"near_transit"`
	Freshness   string   `json:"freshness"`
}

// Execute implements the go-flags Commander interface for CachedCommand.
func (c *CachedCommand) Execute(args []string) error {
	store, db, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store)
}

func (c *CachedCommand) executeWithStore(store storage.Store) error {
	ctx := context.Background()

	var userLoc *geo.Coordinate
	if c.Lat != "" || c.Lng != "" {
		if c.Lat == "" || c.Lng == "" {
			return fmt.Errorf("--lat and --lng must be given together")
		}
		lat, errLat := strconv.ParseFloat(c.Lat, 64)
		lng, errLng := strconv.ParseFloat(c.Lng, 64)
		if errLat != nil || errLng != nil {
			return fmt.Errorf("--lat and --lng must be numbers")
		}
		userLoc = &geo.Coordinate{Lat: lat, Lng: lng}
	}

	var filters []restaurant.Filter
	if c.MaxPrice != "" {
		limit, err := strconv.ParseFloat(c.MaxPrice, 64)
		if err != nil {
			return fmt.Errorf("--max-price must be a number")
		}
		filters = append(filters, restaurant.MaxAvgPrice(limit))
	}
	if c.MinRating != "" {
		min, err := strconv.ParseFloat(c.MinRating, 64)
		if err != nil {
			return fmt.Errorf("--min-rating must be a number")
		}
		filters = append(filters, restaurant.MinRating(min))
	}
	if c.OpenNow {
		filters = append(filters, restaurant.OpenNowOnly())
	}
	if c.NearTransit {
		filters = append(filters, restaurant.NearTransitOnly())
	}
	if c.StudentDiscount {
		filters = append(filters, restaurant.StudentDiscountOnly())
	}

	cacheStore := cache.New(store, nil, cache.Config{}, nil)
	results, err := cacheStore.GetCached(ctx, userLoc, restaurant.And(filters...))
	if err != nil {
		return err
	}
	if c.Limit > 0 && len(results) > c.Limit {
		results = results[:c.Limit]
	}

	if c.globals != nil && c.globals.JSON {
		out := make([]cachedJSON, 0, len(results))
		for _, r := range results {
			out = append(out, cachedJSON{
				ID:          r.ID,
				Name:        r.Name,
				Cuisine:     r.Cuisine,
				AvgPrice:    r.AvgPrice,
				Rating:      r.Rating,
				NearTransit: r.NearTransit,
				Freshness:   string(r.Freshness),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(results) == 0 {
		fmt.Println("No cached restaurants.")
		return nil
	}

	for _, r := range results {
		price := "-"
		if r.AvgPrice != nil {
			price = fmt.Sprintf("$%.2f", *r.AvgPrice)
		}
		fmt.Printf("%-16s %-28s %8s  %.1f\n", r.ID, r.Name, price, r.Rating)
	}
	fmt.Printf("\n%d cached restaurant(s)\n", len(results))
	return nil
}
