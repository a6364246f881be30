package core

import "github.com/go-gl/mathgl/mgl64"

// SurfaceBias offsets secondary ray origins along the surface normal so they
// do not re-intersect the surface they start on.
const SurfaceBias = 1e-5

// Ray represents a ray with an origin and a unit direction
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRay creates a new ray. The direction is normalized.
func NewRay(origin, direction mgl64.Vec3) Ray {
	return Ray{Origin: origin, Direction: Normalize(direction)}
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// NewSecondaryRay creates a ray leaving a surface point in the given
// direction, with the origin pushed off the surface along normal.
func NewSecondaryRay(point, normal, direction mgl64.Vec3) Ray {
	return NewRay(point.Add(normal.Mul(SurfaceBias)), direction)
}

// Reflect mirrors an incident direction about a unit normal
func Reflect(incident, normal mgl64.Vec3) mgl64.Vec3 {
	return incident.Sub(normal.Mul(2 * incident.Dot(normal)))
}

// NewReflectionRay creates the specular bounce of an incident direction at a
// surface point
func NewReflectionRay(point, normal, incident mgl64.Vec3) Ray {
	return NewSecondaryRay(point, normal, Reflect(incident, normal))
}

// Normalize returns v scaled to unit length, or the zero vector when v has
// no length. mgl64.Vec3.Normalize divides by zero in that case.
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	length := v.Len()
	if length == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / length)
}
