package geo

import (
	"math"
	"sort"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Station is a transit station with a fixed location.
type Station struct {
	Name  string
	Coord Coordinate
}

// StationDistance pairs a station with its distance from a query point.
type StationDistance struct {
	Station        Station
	DistanceMeters float64
}

const earthRadiusMeters = 6371000.0

// TransitRadiusMeters is the walking distance within which a restaurant
// counts as near transit.
const TransitRadiusMeters = 500.0

// DistanceMeters returns the great-circle surface distance between two
// coordinates using the haversine formula. Non-negative and symmetric.
func DistanceMeters(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// NearestStation returns the closest station to point by DistanceMeters.
// The boolean is false when stations is empty. Ties keep the
// first-encountered station.
func NearestStation(point Coordinate, stations []Station) (Station, float64, bool) {
	if len(stations) == 0 {
		return Station{}, 0, false
	}

	best := stations[0]
	bestDist := DistanceMeters(point, stations[0].Coord)
	for _, s := range stations[1:] {
		if d := DistanceMeters(point, s.Coord); d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best, bestDist, true
}

// IsWithinRadius reports whether any station is within radiusMeters of point.
func IsWithinRadius(point Coordinate, stations []Station, radiusMeters float64) bool {
	for _, s := range stations {
		if DistanceMeters(point, s.Coord) <= radiusMeters {
			return true
		}
	}
	return false
}

// StationsWithinRadius returns all stations within radiusMeters of point,
// sorted ascending by distance. Equal distances keep input relative order.
func StationsWithinRadius(point Coordinate, stations []Station, radiusMeters float64) []StationDistance {
	var result []StationDistance
	for _, s := range stations {
		if d := DistanceMeters(point, s.Coord); d <= radiusMeters {
			result = append(result, StationDistance{Station: s, DistanceMeters: d})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DistanceMeters < result[j].DistanceMeters
	})

	return result
}
