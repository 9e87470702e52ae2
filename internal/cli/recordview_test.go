package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/storage"
)

func TestRecordViewAppendsEntry(t *testing.T) {
	store, _ := openTestStore(t)

	cmd := &RecordViewCommand{globals: &GlobalFlags{}, Restaurant: "r1"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, storage.ViewSourceRecommendation))
	})

	assert.Contains(t, output, "Recorded recommendation view of r1")

	since := time.Now().Add(-time.Hour)
	ids, err := store.ViewedIDsSince(context.Background(), storage.ViewSourceRecommendation, since)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, ids)
}

func TestRecordViewRequiresRestaurant(t *testing.T) {
	err := RunWithArgs("test", []string{"record-view"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--restaurant is required")
}

func TestRecordViewRejectsUnknownSource(t *testing.T) {
	err := RunWithArgs("test", []string{"record-view", "--restaurant", "r1", "--source", "billboard"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid source")
}
