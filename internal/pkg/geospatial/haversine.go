package geospatial

import "math"

const (
	earthRadiusMiles = 3958.8
	metersPerMile    = 1609.344
)

// DistanceMiles calculates the great-circle distance in statute miles
// between two points. The value is exact; round with RoundMiles for display
// so that threshold comparisons stay strict.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

// RoundMiles rounds a distance to one decimal place.
func RoundMiles(miles float64) float64 {
	return math.Round(miles*10) / 10
}

// MilesToMeters converts statute miles to meters.
func MilesToMeters(miles float64) float64 {
	return miles * metersPerMile
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
func BoundingBox(lat, lng, radiusMeters float64) (minLat, minLng, maxLat, maxLng float64) {
	latDelta := radiusMeters / 111320.0
	lngDelta := radiusMeters / (111320.0 * math.Cos(toRad(lat)))

	return lat - latDelta, lng - lngDelta, lat + latDelta, lng + lngDelta
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
