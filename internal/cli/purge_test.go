package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/deal"
)

func testConfigPath(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("storage:\n  path: " + dir + "\n")
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestPurgeRequiresAllFlag(t *testing.T) {
	cmd := &PurgeCommand{globals: &GlobalFlags{}}
	err := cmd.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--all")
}

func TestPurgeDeletesEverything(t *testing.T) {
	store, db := openTestStore(t)
	ctx := context.Background()

	seedRestaurant(t, store, "r1")
	require.NoError(t, store.AddDeal(ctx, &deal.Deal{
		RestaurantID: "r1", Title: "Lunch special", DealPrice: 8,
		Type: deal.TypeDaily, Source: deal.SourceOfficial,
	}))

	cmd := &PurgeCommand{
		globals: &GlobalFlags{JSON: true, Config: testConfigPath(t)},
		All:     true,
		Force:   true,
	}
	cmd.setDB(db)

	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})
	assert.Contains(t, output, `"purged":true`)

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.RestaurantCount)
	assert.EqualValues(t, 0, stats.DealCount)
	assert.EqualValues(t, 0, stats.ViewCount)
}

func TestPurgeRemovesThumbnails(t *testing.T) {
	_, db := openTestStore(t)

	cfgPath := testConfigPath(t)
	thumbDir := filepath.Join(filepath.Dir(cfgPath), "thumbnails")
	require.NoError(t, os.MkdirAll(thumbDir, 0755))
	thumb := filepath.Join(thumbDir, "r1.jpg")
	require.NoError(t, os.WriteFile(thumb, []byte("jpeg"), 0644))

	cmd := &PurgeCommand{
		globals: &GlobalFlags{Config: cfgPath},
		All:     true,
		Force:   true,
	}
	cmd.setDB(db)

	captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})

	_, err := os.Stat(thumb)
	assert.True(t, os.IsNotExist(err))
}
