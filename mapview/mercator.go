// Package mapview implements the spherical Mercator tile pyramid used by
// geographic viewports, and a thread-safe in-memory map position model.
package mapview

import (
	"math"

	"github.com/golang/geo/s2"
)

const (
	// TileSize is the edge of one tile in pixels.
	TileSize = 256

	// MaxZoomLevel is the deepest level of the pyramid.
	MaxZoomLevel = 127

	// MaxLatitude is the latitude where the projection is cut so the world
	// becomes a square.
	MaxLatitude = 85.05112877980659
)

// MapSize returns the edge of the whole world in pixels at zoom level z.
func MapSize(z uint8) float64 {
	if z > MaxZoomLevel {
		z = MaxZoomLevel
	}
	return math.Ldexp(TileSize, int(z))
}

// LongitudeToPixelX projects a longitude in degrees.
func LongitudeToPixelX(lon float64, z uint8) float64 {
	return (lon + 180) / 360 * MapSize(z)
}

// LatitudeToPixelY projects a latitude in degrees. Latitudes beyond the
// projection limit are clamped to the map edge.
func LatitudeToPixelY(lat float64, z uint8) float64 {
	size := MapSize(z)
	sinLat := math.Sin(clamp(lat, -MaxLatitude, MaxLatitude) * math.Pi / 180)
	y := (0.5 - math.Log((1+sinLat)/(1-sinLat))/(4*math.Pi)) * size
	return clamp(y, 0, size)
}

// PixelXToLongitude unprojects a horizontal pixel coordinate. Pixels outside
// the map are clamped to its edge.
func PixelXToLongitude(px float64, z uint8) float64 {
	size := MapSize(z)
	return 360 * (clamp(px, 0, size)/size - 0.5)
}

// PixelYToLatitude unprojects a vertical pixel coordinate. Pixels outside the
// map are clamped to its edge.
func PixelYToLatitude(py float64, z uint8) float64 {
	size := MapSize(z)
	y := 0.5 - clamp(py, 0, size)/size
	return 90 - 360*math.Atan(math.Exp(-y*2*math.Pi))/math.Pi
}

// Project returns the pixel coordinates of ll at zoom level z.
func Project(ll s2.LatLng, z uint8) (x, y float64) {
	return LongitudeToPixelX(ll.Lng.Degrees(), z), LatitudeToPixelY(ll.Lat.Degrees(), z)
}

// Unproject returns the coordinates at pixel (x, y) for zoom level z.
func Unproject(x, y float64, z uint8) s2.LatLng {
	return s2.LatLngFromDegrees(PixelYToLatitude(y, z), PixelXToLongitude(x, z))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
