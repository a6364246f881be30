package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// Primitive is a surface that can be intersected by rays. The set of
// variants is closed: *Sphere, *Plane and *Mesh.
type Primitive interface {
	// Intersect returns the nearest hit in front of the ray origin
	Intersect(ray core.Ray) (Hit, bool)
	primitive()
}

// Hit describes a successful ray intersection
type Hit struct {
	Point     mgl64.Vec3
	Distance  float64    // Distance along the ray, always finite and > 0
	Normal    mgl64.Vec3 // Unit normal facing the side the ray came from
	Material  *material.Material
	TexCoords core.Vec2
}

// Closer reports whether h is nearer to the ray origin than other
func (h Hit) Closer(other Hit) bool {
	return h.Distance < other.Distance
}

// validDistance rejects distances that would break hit ordering
func validDistance(t float64) bool {
	return t > 0 && !math.IsInf(t, 0) && !math.IsNaN(t)
}
