package lights

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// Light illuminates surface points. The set of variants is closed:
// *DirectionalLight and *PointLight.
type Light interface {
	// DirectionFrom returns the unit vector from point toward the light
	DirectionFrom(point mgl64.Vec3) mgl64.Vec3
	// Color returns the color of the emitted light
	Color() core.Color
	// IntensityAt returns the light intensity arriving at point
	IntensityAt(point mgl64.Vec3) float64
	// DistanceAt returns the distance from point to the light, +Inf for
	// lights at infinity
	DistanceAt(point mgl64.Vec3) float64
	light()
}
