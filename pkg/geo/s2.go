package geo

import (
	"github.com/golang/geo/s2"
)

const earthRadiusM = 6371000.0

// ChordDistanceMeters returns the great-circle distance between two
// lat/lon points in meters, using s2's LatLng angular distance.
func ChordDistanceMeters(latOne, lonOne, latTwo, lonTwo float64) float64 {
	a := s2.LatLngFromDegrees(latOne, lonOne)
	b := s2.LatLngFromDegrees(latTwo, lonTwo)
	return float64(a.Distance(b)) * earthRadiusM
}

// HaversineHeuristic returns an admissible lower-bound cost estimate from
// (lat,lon) to (destLat,destLon), assuming cost is travel time and
// maxSpeedMPS is an upper bound on speed over any link in the graph.
// Used by the A* path-finder back-end.
func HaversineHeuristic(lat, lon, destLat, destLon, maxSpeedMPS float64) float64 {
	if maxSpeedMPS <= 0 {
		return 0
	}
	return ChordDistanceMeters(lat, lon, destLat, destLon) / maxSpeedMPS
}
