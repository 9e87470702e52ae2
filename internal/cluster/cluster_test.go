package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/geo"
	"github.com/parthipanchandrasekeran/cheapeats-sub001/internal/restaurant"
)

var downtown = Bounds{MinLat: 43.64, MinLng: -79.40, MaxLat: 43.67, MaxLng: -79.36}

func floatPtr(f float64) *float64 { return &f }

func spot(id string, lat, lng float64, price *float64) restaurant.Restaurant {
	return restaurant.Restaurant{
		ID:       id,
		Coord:    geo.Coordinate{Lat: lat, Lng: lng},
		AvgPrice: price,
	}
}

func cheapAll(*restaurant.Restaurant) bool { return true }

func TestCheapAreas_TooFewQualifying(t *testing.T) {
	in := []restaurant.Restaurant{
		spot("a", 43.6501, -79.3801, floatPtr(8)),
		spot("b", 43.6502, -79.3802, floatPtr(9)),
	}

	assert.Nil(t, CheapAreas(in, downtown, cheapAll))
}

func TestCheapAreas_SingleCellCluster(t *testing.T) {
	// All three share the floor(lat/0.003), floor(lng/0.003) cell.
	in := []restaurant.Restaurant{
		spot("a", 43.6501, -79.3801, floatPtr(8)),
		spot("b", 43.6502, -79.3802, floatPtr(10)),
		spot("c", 43.6503, -79.3803, floatPtr(12)),
	}

	hints := CheapAreas(in, downtown, cheapAll)
	require.Len(t, hints, 1)

	h := hints[0]
	assert.Equal(t, 3, h.Count)
	assert.InDelta(t, 43.6502, h.Center.Lat, 1e-6)
	assert.InDelta(t, -79.3802, h.Center.Lng, 1e-6)
	assert.InDelta(t, 10.0, h.AvgPrice, 1e-9)
	assert.Equal(t, ClusterRadiusMeters, h.RadiusMeters)
	assert.Equal(t, "3 spots ~$10", h.Label)
}

func TestCheapAreas_SmallBucketsDiscarded(t *testing.T) {
	// Four qualifying restaurants, but split 2/2 across distant cells:
	// no bucket reaches three members.
	in := []restaurant.Restaurant{
		spot("a", 43.6501, -79.3801, floatPtr(8)),
		spot("b", 43.6502, -79.3802, floatPtr(8)),
		spot("c", 43.6651, -79.3651, floatPtr(8)),
		spot("d", 43.6652, -79.3652, floatPtr(8)),
	}

	assert.Empty(t, CheapAreas(in, downtown, cheapAll))
}

func TestCheapAreas_OutOfBoundsExcluded(t *testing.T) {
	in := []restaurant.Restaurant{
		spot("a", 43.6501, -79.3801, floatPtr(8)),
		spot("b", 43.6502, -79.3802, floatPtr(8)),
		spot("far", 44.0, -80.0, floatPtr(8)),
	}

	assert.Nil(t, CheapAreas(in, downtown, cheapAll))
}

func TestCheapAreas_CheapPredicateApplied(t *testing.T) {
	in := []restaurant.Restaurant{
		spot("a", 43.6501, -79.3801, floatPtr(8)),
		spot("b", 43.6502, -79.3802, floatPtr(9)),
		spot("c", 43.6503, -79.3803, floatPtr(40)),
	}

	hints := CheapAreas(in, downtown, restaurant.MaxAvgPrice(10))
	assert.Nil(t, hints, "only two cheap spots remain, below the minimum")
}

func TestCheapAreas_FallbackPriceWhenNoneKnown(t *testing.T) {
	in := []restaurant.Restaurant{
		spot("a", 43.6501, -79.3801, nil),
		spot("b", 43.6502, -79.3802, nil),
		spot("c", 43.6503, -79.3803, nil),
	}

	hints := CheapAreas(in, downtown, cheapAll)
	require.Len(t, hints, 1)
	assert.InDelta(t, 12.0, hints[0].AvgPrice, 1e-9)
	assert.Equal(t, "3 spots ~$12", hints[0].Label)
}

func TestBounds_Contains_EdgesIncluded(t *testing.T) {
	b := Bounds{MinLat: 1, MinLng: 2, MaxLat: 3, MaxLng: 4}

	assert.True(t, b.Contains(geo.Coordinate{Lat: 1, Lng: 2}))
	assert.True(t, b.Contains(geo.Coordinate{Lat: 3, Lng: 4}))
	assert.True(t, b.Contains(geo.Coordinate{Lat: 2, Lng: 3}))
	assert.False(t, b.Contains(geo.Coordinate{Lat: 0.999, Lng: 3}))
	assert.False(t, b.Contains(geo.Coordinate{Lat: 2, Lng: 4.001}))
}

func TestCheapAreas_GridBoundaryFloorsToLowerBucket(t *testing.T) {
	// lat 43.650 is not on a multiple of 0.003; use an exact boundary:
	// 43.650 / 0.003 = 14550 exactly, so 43.650 floors into cell 14550
	// while 43.649999 floors into 14549.
	boundary := 14550 * GridSize
	in := []restaurant.Restaurant{
		spot("a", boundary, -79.3801, floatPtr(8)),
		spot("b", boundary+0.0001, -79.3801, floatPtr(8)),
		spot("c", boundary+0.0002, -79.3801, floatPtr(8)),
		spot("below", boundary-0.0001, -79.3801, floatPtr(8)),
	}

	hints := CheapAreas(in, downtown, cheapAll)
	require.Len(t, hints, 1)
	assert.Equal(t, 3, hints[0].Count, "boundary point joins the upper-of-floor cell, the one below stays out")
}
