package lights

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// PointLight emits light uniformly in every direction from a position
type PointLight struct {
	Position   mgl64.Vec3
	LightColor core.Color
	Intensity  float64
}

// NewPointLight creates a new point light
func NewPointLight(position mgl64.Vec3, color core.Color, intensity float64) *PointLight {
	return &PointLight{
		Position:   position,
		LightColor: color,
		Intensity:  intensity,
	}
}

// DirectionFrom returns the unit vector from point toward the light
func (l *PointLight) DirectionFrom(point mgl64.Vec3) mgl64.Vec3 {
	return core.Normalize(l.Position.Sub(point))
}

// Color returns the light color
func (l *PointLight) Color() core.Color {
	return l.LightColor
}

// IntensityAt falls off with the inverse square of the distance, spread
// over the surface of a sphere
func (l *PointLight) IntensityAt(point mgl64.Vec3) float64 {
	r2 := l.Position.Sub(point).LenSqr()
	if r2 == 0 {
		return 0
	}
	return l.Intensity / (4 * math.Pi * r2)
}

// DistanceAt returns the distance from point to the light
func (l *PointLight) DistanceAt(point mgl64.Vec3) float64 {
	return l.Position.Sub(point).Len()
}

func (*PointLight) light() {}
