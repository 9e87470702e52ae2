package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/deal"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/storage"
)

// Execute implements the go-flags Commander interface for SubmitCommand.
func (c *SubmitCommand) Execute(args []string) error {
	if c.Restaurant == "" {
		return fmt.Errorf("--restaurant is required")
	}
	if c.Title == "" {
		return fmt.Errorf("--title is required")
	}

	store, db, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store)
}

func (c *SubmitCommand) executeWithStore(store storage.Store) error {
	mask, err := parseDaysMask(c.Days)
	if err != nil {
		return err
	}

	d := &deal.Deal{
		RestaurantID: c.Restaurant,
		Title:        c.Title,
		Description:  c.Description,
		DealPrice:    c.Price,
		Type:         deal.Type(c.Type),
		Source:       deal.SourceUserSubmitted,
		ValidDays:    mask,
		StartTime:    c.Start,
		EndTime:      c.End,
	}
	if c.OriginalPrice > 0 {
		original := c.OriginalPrice
		d.OriginalPrice = &original
	}

	if err := deal.Validate(d); err != nil {
		return err
	}

	ctx := context.Background()
	if err := store.AddDeal(ctx, d); err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"id":         d.ID,
			"restaurant": d.RestaurantID,
			"title":      d.Title,
			"deal_price": d.DealPrice,
		}
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(out)
	}

	fmt.Printf("Submitted %s: %s at %s for $%.2f\n", d.ID, d.Title, d.RestaurantID, d.DealPrice)
	return nil
}

var dayBits = map[string]uint8{
	"mon": deal.Monday,
	"tue": deal.Tuesday,
	"wed": deal.Wednesday,
	"thu": deal.Thursday,
	"fri": deal.Friday,
	"sat": deal.Saturday,
	"sun": deal.Sunday,
}

// parseDaysMask turns a --days value into a day-of-week bitmask. Empty means
// no day restriction.
func parseDaysMask(s string) (uint8, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "everyday", "all":
		return 0, nil
	case "weekdays":
		return deal.Weekdays, nil
	case "weekends":
		return deal.Weekends, nil
	}

	var mask uint8
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if len(name) > 3 {
			name = name[:3]
		}
		bit, ok := dayBits[name]
		if !ok {
			return 0, fmt.Errorf("invalid day %q (use Mon..Sun, weekdays, or weekends)", part)
		}
		mask |= bit
	}
	return mask, nil
}
