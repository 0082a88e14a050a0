package stations

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// AreaKm2 returns the surface enclosed by the box on a spherical earth.
func (b BoundingBox) AreaKm2() float64 {
	width := b.NorthEast.Longitude - b.SouthWest.Longitude
	if width < 0 {
		width += 360
	}
	lat1 := b.SouthWest.Latitude * math.Pi / 180
	lat2 := b.NorthEast.Latitude * math.Pi / 180
	return earthRadiusKm * earthRadiusKm * math.Abs(math.Sin(lat2)-math.Sin(lat1)) * width * math.Pi / 180
}

// MaxAreaKm2 is the largest area that is listed at once for a minimum
// charge point power. Fast chargers are sparse, so a stricter power filter
// allows a wider view.
func MaxAreaKm2(minPower float64) float64 {
	switch {
	case minPower >= 100:
		return 500_000
	case minPower >= 50:
		return 120_000
	case minPower >= 22:
		return 30_000
	}
	return 8_000
}

// CheckArea returns ErrAreaTooLarge when bounds is too big to list stations
// of at least minPower kW.
func CheckArea(bounds BoundingBox, minPower float64) error {
	area, limit := bounds.AreaKm2(), MaxAreaKm2(minPower)
	if area > limit {
		return fmt.Errorf("%w: %.0f km² exceeds %.0f km² at %g kW, zoom in or raise the minimum power",
			ErrAreaTooLarge, area, limit, minPower)
	}
	return nil
}
