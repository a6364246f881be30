package lights

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// DirectionalLight is a light at infinity shining along one direction, e.g.
// the sun
type DirectionalLight struct {
	Direction  mgl64.Vec3 // Unit direction the light travels in
	LightColor core.Color
	Intensity  float64
}

// NewDirectionalLight creates a directional light. The direction is normalized.
func NewDirectionalLight(direction mgl64.Vec3, color core.Color, intensity float64) *DirectionalLight {
	return &DirectionalLight{
		Direction:  core.Normalize(direction),
		LightColor: color,
		Intensity:  intensity,
	}
}

// DirectionFrom points against the light's travel direction
func (l *DirectionalLight) DirectionFrom(point mgl64.Vec3) mgl64.Vec3 {
	return l.Direction.Mul(-1)
}

// Color returns the light color
func (l *DirectionalLight) Color() core.Color {
	return l.LightColor
}

// IntensityAt is constant everywhere
func (l *DirectionalLight) IntensityAt(point mgl64.Vec3) float64 {
	return l.Intensity
}

// DistanceAt is always infinite
func (l *DirectionalLight) DistanceAt(point mgl64.Vec3) float64 {
	return math.Inf(1)
}

func (*DirectionalLight) light() {}
