package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-shade/pkg/math"
)

// SunDirection converts longitude/latitude angles in degrees to a unit vector
// pointing towards the sun. Longitude rotates around Y, latitude is the
// elevation above the horizon.
func SunDirection(longitude, latitude float32) math.Vec3 {
	sinLat, cosLat := math32.Sincos(math.Radians(latitude))
	sinLon, cosLon := math32.Sincos(math.Radians(longitude))

	return math.Vec3{
		X: cosLat * sinLon,
		Y: sinLat,
		Z: cosLat * cosLon,
	}
}

// Sun returns a directional light shining from the given sun angles.
func Sun(longitude, latitude float32, color math.Vec3, intensity float32) Light {
	return Light{
		Name:      "sun",
		Direction: SunDirection(longitude, latitude).Negate(),
		Color:     color,
		Intensity: intensity,
		Kind:      Directional,
	}
}
