package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// Plane represents an infinite single-sided plane defined by a point and a
// normal. Only rays travelling against the normal hit it.
type Plane struct {
	Point    mgl64.Vec3         // A point on the plane
	Normal   mgl64.Vec3         // Unit normal
	Material *material.Material // Material of the plane
}

// NewPlane creates a new plane
func NewPlane(point, normal mgl64.Vec3, material *material.Material) *Plane {
	return &Plane{
		Point:    point,
		Normal:   core.Normalize(normal), // Ensure normal is normalized
		Material: material,
	}
}

// Intersect tests if a ray intersects with the front side of the plane
func (p *Plane) Intersect(ray core.Ray) (Hit, bool) {
	// The normal has to be inverted for this calculation
	normal := p.Normal.Mul(-1)

	// Parallel rays and rays hitting the back side are culled
	denominator := normal.Dot(ray.Direction)
	if denominator <= 0 {
		return Hit{}, false
	}

	distance := p.Point.Sub(ray.Origin).Dot(normal) / denominator
	if !validDistance(distance) {
		return Hit{}, false
	}

	point := ray.At(distance)
	return Hit{
		Point:     point,
		Distance:  distance,
		Normal:    p.Normal,
		Material:  p.Material,
		TexCoords: p.texCoords(point),
	}, true
}

func (*Plane) primitive() {}

// texCoords projects the hit point onto two axes spanning the plane
func (p *Plane) texCoords(point mgl64.Vec3) core.Vec2 {
	xAxis := p.Normal.Cross(mgl64.Vec3{0, 0, 1})
	if xAxis.LenSqr() == 0 {
		xAxis = p.Normal.Cross(mgl64.Vec3{0, 1, 0})
	}
	xAxis = core.Normalize(xAxis)
	yAxis := p.Normal.Cross(xAxis)

	fromOrigin := point.Sub(p.Point)
	return core.NewVec2(fromOrigin.Dot(xAxis), fromOrigin.Dot(yAxis))
}
