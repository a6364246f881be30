package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   mgl64.Vec3
	Radius   float64
	Material *material.Material
}

// NewSphere creates a new sphere
func NewSphere(center mgl64.Vec3, radius float64, material *material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Intersect tests the ray against the sphere by projecting the center onto
// the ray direction.
func (s *Sphere) Intersect(ray core.Ray) (Hit, bool) {
	toCenter := s.Center.Sub(ray.Origin)

	// Length of the center's projection onto the ray
	adjacent := toCenter.Dot(ray.Direction)

	// Center lies behind the ray origin
	if adjacent < 0 {
		return Hit{}, false
	}

	// Squared distance between the ray and the sphere center
	distanceSquared := toCenter.LenSqr() - adjacent*adjacent
	radiusSquared := s.Radius * s.Radius
	if distanceSquared > radiusSquared {
		return Hit{}, false
	}

	thicknessHalf := math.Sqrt(radiusSquared - distanceSquared)
	t0 := adjacent - thicknessHalf
	t1 := adjacent + thicknessHalf

	if t0 < 0 && t1 < 0 {
		return Hit{}, false
	}

	// An origin inside the sphere sees only the far surface
	distance := t0
	if t0 < 0 {
		distance = t1
	}
	if !validDistance(distance) {
		return Hit{}, false
	}

	point := ray.At(distance)
	outward := core.Normalize(point.Sub(s.Center))
	normal := outward
	if normal.Dot(ray.Direction) > 0 {
		normal = normal.Mul(-1)
	}

	return Hit{
		Point:     point,
		Distance:  distance,
		Normal:    normal,
		Material:  s.Material,
		TexCoords: sphereTexCoords(outward),
	}, true
}

func (*Sphere) primitive() {}

// sphereTexCoords maps an outward unit normal to spherical UV coordinates
func sphereTexCoords(n mgl64.Vec3) core.Vec2 {
	u := (1 + math.Atan2(n.Z(), n.X())/math.Pi) * 0.5
	v := math.Acos(math.Max(-1, math.Min(1, n.Y()))) / math.Pi
	return core.NewVec2(u, v)
}
