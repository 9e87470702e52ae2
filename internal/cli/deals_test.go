package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/deal"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/storage"
)

func seedDeal(t *testing.T, store storage.Store, d *deal.Deal) {
	t.Helper()
	require.NoError(t, store.AddDeal(context.Background(), d))
}

func TestDealsListAll(t *testing.T) {
	store, _ := openTestStore(t)
	seedDeal(t, store, &deal.Deal{
		RestaurantID: "r1", Title: "Lunch special", DealPrice: 8,
		Type: deal.TypeDaily, Source: deal.SourceOfficial,
	})
	seedDeal(t, store, &deal.Deal{
		RestaurantID: "r2", Title: "Taco Tuesday", DealPrice: 4,
		Type: deal.TypeWeekly, Source: deal.SourceVerified, ValidDays: deal.Tuesday,
	})

	cmd := &DealsCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, time.Now()))
	})

	assert.Contains(t, output, "Lunch special")
	assert.Contains(t, output, "Taco Tuesday")
	assert.Contains(t, output, "2 deal(s)")
}

func TestDealsRestaurantScope(t *testing.T) {
	store, _ := openTestStore(t)
	seedDeal(t, store, &deal.Deal{
		RestaurantID: "r1", Title: "Lunch special", DealPrice: 8,
		Type: deal.TypeDaily, Source: deal.SourceOfficial,
	})
	seedDeal(t, store, &deal.Deal{
		RestaurantID: "r2", Title: "Other deal", DealPrice: 5,
		Type: deal.TypeDaily, Source: deal.SourceOfficial,
	})

	cmd := &DealsCommand{globals: &GlobalFlags{JSON: true}, Restaurant: "r1"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, time.Now()))
	})

	var got []dealListJSON
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Lunch special", got[0].Title)
}

func TestDealsActiveOnly(t *testing.T) {
	store, _ := openTestStore(t)

	// Wednesday noon local time.
	wednesdayNoon := time.Date(2025, 6, 4, 12, 0, 0, 0, time.Local)

	seedDeal(t, store, &deal.Deal{
		RestaurantID: "r1", Title: "Wednesday combo", DealPrice: 7,
		Type: deal.TypeWeekly, Source: deal.SourceOfficial, ValidDays: deal.Wednesday,
	})
	seedDeal(t, store, &deal.Deal{
		RestaurantID: "r1", Title: "Weekend brunch", DealPrice: 10,
		Type: deal.TypeWeekly, Source: deal.SourceOfficial, ValidDays: deal.Weekends,
	})

	cmd := &DealsCommand{globals: &GlobalFlags{JSON: true}, Active: true}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, wednesdayNoon))
	})

	var got []dealListJSON
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Wednesday combo", got[0].Title)
	assert.True(t, got[0].Active)
}

func TestDealsEmpty(t *testing.T) {
	store, _ := openTestStore(t)

	cmd := &DealsCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, time.Now()))
	})

	assert.Contains(t, output, "No deals.")
}
