package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/deal"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/storage"
)

// dealListJSON is the JSON output structure for one listed deal.
type dealListJSON struct {
	ID            string   `json:"id"`
	RestaurantID  string   `json:"restaurant_id"`
	Title         string   `json:"title"`
	DealPrice     float64  `json:"deal_price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Type          string   `json:"type"`
	Source        string   `json:"source"`
	ValidDays     string   `json:"valid_days"`
	Active        bool     `json:"active"`
	TimeRemaining string   `json:"time_remaining,omitempty"`
	NetVotes      int      `json:"net_votes"`
}

// Execute implements the go-flags Commander interface for DealsCommand.
func (c *DealsCommand) Execute(args []string) error {
	store, db, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, time.Now())
}

func (c *DealsCommand) executeWithStore(store storage.Store, now time.Time) error {
	ctx := context.Background()

	var deals []deal.Deal
	var err error
	if c.Restaurant != "" {
		deals, err = store.DealsForRestaurant(ctx, c.Restaurant)
	} else {
		deals, err = store.ListDeals(ctx)
	}
	if err != nil {
		return err
	}

	if c.Active {
		kept := deals[:0]
		for _, d := range deals {
			if deal.IsActiveNow(&d, now) {
				kept = append(kept, d)
			}
		}
		deals = kept
	}

	if c.globals != nil && c.globals.JSON {
		out := make([]dealListJSON, 0, len(deals))
		for _, d := range deals {
			remaining, _ := deal.TimeRemainingText(&d, now)
			out = append(out, dealListJSON{
				ID:            d.ID,
				RestaurantID:  d.RestaurantID,
				Title:         d.Title,
				DealPrice:     d.DealPrice,
				OriginalPrice: d.OriginalPrice,
				Type:          string(d.Type),
				Source:        string(d.Source),
				ValidDays:     deal.ValidDaysText(d.ValidDays),
				Active:        deal.IsActiveNow(&d, now),
				TimeRemaining: remaining,
				NetVotes:      d.NetVotes(),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(deals) == 0 {
		fmt.Println("No deals.")
		return nil
	}

	for _, d := range deals {
		marker := " "
		if deal.IsActiveNow(&d, now) {
			marker = "*"
		}
		line := fmt.Sprintf("%s %-13s $%-7.2f %-28s %s",
			marker, d.ID, d.DealPrice, d.Title, deal.ValidDaysText(d.ValidDays))
		if remaining, ok := deal.TimeRemainingText(&d, now); ok {
			line += "  [" + remaining + "]"
		}
		fmt.Println(line)
	}
	fmt.Printf("\n%d deal(s), * = active now\n", len(deals))
	return nil
}
