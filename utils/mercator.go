package utils

import (
	"fmt"
	"math"
)

const TileSize = 256

// TileBounds returns the EPSG:4326 bounding box [minLon, minLat, maxLon,
// maxLat] of a slippy map tile.
func TileBounds(z, x, y int) [4]float64 {
	n := math.Exp2(float64(z))
	minLon := float64(x)/n*360.0 - 180.0
	maxLon := float64(x+1)/n*360.0 - 180.0
	maxLat := math.Atan(math.Sinh(math.Pi*(1-2*float64(y)/n))) * 180.0 / math.Pi
	minLat := math.Atan(math.Sinh(math.Pi*(1-2*float64(y+1)/n))) * 180.0 / math.Pi
	return [4]float64{minLon, minLat, maxLon, maxLat}
}

// CheckTileCoords rejects coordinates outside the valid range for the
// zoom level.
func CheckTileCoords(z, x, y int) error {
	if z < 0 || z > 24 {
		return fmt.Errorf("zoom level %d out of range [0, 24]", z)
	}
	n := 1 << uint(z)
	if x < 0 || x >= n || y < 0 || y >= n {
		return fmt.Errorf("tile coordinates (%d, %d) out of range for zoom %d", x, y, z)
	}
	return nil
}
