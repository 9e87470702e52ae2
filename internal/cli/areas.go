package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/cache"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/cluster"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/restaurant"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/storage"
)

// hintOutJSON is the JSON output structure for one cheap-area hint.
type hintOutJSON struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	RadiusMeters float64 `json:"radius_meters"`
	Count        int     `json:"count"`
	AvgPrice     float64 `json:"avg_price"`
	Label        string  `json:"label"`
}

// Execute implements the go-flags Commander interface for AreasCommand.
func (c *AreasCommand) Execute(args []string) error {
	store, db, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store)
}

func (c *AreasCommand) executeWithStore(store storage.Store) error {
	ctx := context.Background()

	cacheStore := cache.New(store, nil, cache.Config{}, nil)
	cached, err := cacheStore.GetCached(ctx, nil, nil)
	if err != nil {
		return err
	}

	bounds := cluster.Bounds{
		MinLat: c.MinLat,
		MinLng: c.MinLng,
		MaxLat: c.MaxLat,
		MaxLng: c.MaxLng,
	}
	hints := cluster.CheapAreas(cached, bounds, restaurant.FlexiblyCheap(c.Budget))

	if c.globals != nil && c.globals.JSON {
		out := make([]hintOutJSON, 0, len(hints))
		for _, h := range hints {
			out = append(out, hintOutJSON{
				Lat:          h.Center.Lat,
				Lng:          h.Center.Lng,
				RadiusMeters: h.RadiusMeters,
				Count:        h.Count,
				AvgPrice:     h.AvgPrice,
				Label:        h.Label,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(hints) == 0 {
		fmt.Println("No cheap areas found.")
		return nil
	}

	for _, h := range hints {
		fmt.Printf("%-20s  (%.4f, %.4f)  r=%.0fm\n", h.Label, h.Center.Lat, h.Center.Lng, h.RadiusMeters)
	}
	return nil
}
