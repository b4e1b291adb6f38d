// Package geo provides great-circle distance math for the radius post-filter.
package geo

import "math"

// EarthRadiusKm is the mean radius of Earth used for Haversine distance.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// points specified by latitude and longitude in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// BoundingBox returns the lat/long envelope containing the circle of the
// given radius (km) around a center point. Longitude spread widens toward the
// poles; at extreme latitudes it degenerates to the full range.
func BoundingBox(lat, lon, radiusKm float64) (latMin, latMax, lonMin, lonMax float64) {
	latDelta := radiusKm / EarthRadiusKm * 180 / math.Pi

	cosLat := math.Cos(lat * math.Pi / 180)
	var lonDelta float64
	if cosLat > 1e-6 {
		lonDelta = latDelta / cosLat
	} else {
		lonDelta = 180
	}

	latMin = math.Max(lat-latDelta, -90)
	latMax = math.Min(lat+latDelta, 90)
	lonMin = math.Max(lon-lonDelta, -180)
	lonMax = math.Min(lon+lonDelta, 180)
	return latMin, latMax, lonMin, lonMax
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
