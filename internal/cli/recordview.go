package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/history"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/storage"
)

var viewSources = map[string]storage.ViewSource{
	"search":         storage.ViewSourceSearch,
	"recommendation": storage.ViewSourceRecommendation,
	"map-tap":        storage.ViewSourceMapTap,
	"collection":     storage.ViewSourceCollection,
	"deal":           storage.ViewSourceDeal,
}

// Execute implements the go-flags Commander interface for RecordViewCommand.
func (c *RecordViewCommand) Execute(args []string) error {
	if c.Restaurant == "" {
		return fmt.Errorf("--restaurant is required")
	}
	source, ok := viewSources[c.Source]
	if !ok {
		return fmt.Errorf("invalid source %q", c.Source)
	}

	store, db, _, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, source)
}

func (c *RecordViewCommand) executeWithStore(store storage.Store, source storage.ViewSource) error {
	ctx := context.Background()

	if err := history.New(store).RecordView(ctx, c.Restaurant, source); err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"recorded":   true,
			"restaurant": c.Restaurant,
			"source":     string(source),
		}
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(out)
	}

	fmt.Printf("Recorded %s view of %s\n", source, c.Restaurant)
	return nil
}
