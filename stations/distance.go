package stations

import (
	"math"

	geo "github.com/kellydunn/golang-geo"
)

// DistanceMeters returns the great-circle distance between a and b.
func DistanceMeters(a, b Coordinate) float64 {
	p1 := geo.NewPoint(a.Latitude, a.Longitude)
	p2 := geo.NewPoint(b.Latitude, b.Longitude)
	return p1.GreatCircleDistance(p2) * 1000
}

// BoundingBoxAround returns the box reaching radius meters north, east,
// south and west of center. Near the antimeridian the box wraps around.
func BoundingBoxAround(center Coordinate, radius float64) BoundingBox {
	p := geo.NewPoint(center.Latitude, center.Longitude)
	km := radius / 1000
	north := p.PointAtDistanceAndBearing(km, 0)
	east := p.PointAtDistanceAndBearing(km, 90)
	south := p.PointAtDistanceAndBearing(km, 180)
	west := p.PointAtDistanceAndBearing(km, 270)
	return BoundingBox{
		NorthEast: Coordinate{Latitude: math.Min(north.Lat(), 90), Longitude: normalizeLongitude(east.Lng())},
		SouthWest: Coordinate{Latitude: math.Max(south.Lat(), -90), Longitude: normalizeLongitude(west.Lng())},
	}
}

func normalizeLongitude(lng float64) float64 {
	if lng >= -180 && lng <= 180 {
		return lng
	}
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	return lng - 180
}
