package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// Triangle is a single mesh face
type Triangle struct {
	V0, V1, V2    mgl64.Vec3
	UV0, UV1, UV2 core.Vec2  // Per-vertex texture coordinates
	normal        mgl64.Vec3 // Cached face normal
}

// NewTriangle creates a triangle and caches its face normal
func NewTriangle(v0, v1, v2 mgl64.Vec3) Triangle {
	return Triangle{
		V0:     v0,
		V1:     v1,
		V2:     v2,
		UV0:    core.NewVec2(0, 0),
		UV1:    core.NewVec2(1, 0),
		UV2:    core.NewVec2(0, 1),
		normal: core.Normalize(v1.Sub(v0).Cross(v2.Sub(v0))),
	}
}

// intersect uses the Möller-Trumbore algorithm and returns the distance
// and barycentric coordinates of the hit
func (t *Triangle) intersect(ray core.Ray) (dist, u, v float64, ok bool) {
	const epsilon = 1e-12

	edge1 := t.V1.Sub(t.V0)
	edge2 := t.V2.Sub(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the plane of the triangle
	if a > -epsilon && a < epsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Sub(t.V0)
	u = f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	dist = f * edge2.Dot(q)
	if !validDistance(dist) {
		return 0, 0, 0, false
	}
	return dist, u, v, true
}

// texCoords interpolates the vertex texture coordinates
func (t *Triangle) texCoords(u, v float64) core.Vec2 {
	w := 1 - u - v
	return core.NewVec2(
		w*t.UV0.X+u*t.UV1.X+v*t.UV2.X,
		w*t.UV0.Y+u*t.UV1.Y+v*t.UV2.Y,
	)
}

// Mesh is a triangle soup sharing one material. Triangles are scanned
// linearly.
type Mesh struct {
	Path      string // Asset the mesh was loaded from, kept for re-encoding
	Triangles []Triangle
	Material  *material.Material
}

// NewMesh creates a mesh from indexed vertex data. faces holds three vertex
// indices per triangle; texCoords is either empty or one entry per vertex.
func NewMesh(path string, vertices []mgl64.Vec3, faces []int, texCoords []core.Vec2, material *material.Material) (*Mesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("mesh %q: face index count %d is not a multiple of 3", path, len(faces))
	}
	if len(texCoords) != 0 && len(texCoords) != len(vertices) {
		return nil, fmt.Errorf("mesh %q: %d texture coordinates for %d vertices", path, len(texCoords), len(vertices))
	}

	triangles := make([]Triangle, 0, len(faces)/3)
	for i := 0; i < len(faces); i += 3 {
		i0, i1, i2 := faces[i], faces[i+1], faces[i+2]
		for _, idx := range []int{i0, i1, i2} {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("mesh %q: vertex index %d out of range", path, idx)
			}
		}

		tri := NewTriangle(vertices[i0], vertices[i1], vertices[i2])
		// Skip degenerate faces
		if tri.normal.LenSqr() == 0 {
			continue
		}
		if len(texCoords) != 0 {
			tri.UV0, tri.UV1, tri.UV2 = texCoords[i0], texCoords[i1], texCoords[i2]
		}
		triangles = append(triangles, tri)
	}

	return &Mesh{
		Path:      path,
		Triangles: triangles,
		Material:  material,
	}, nil
}

// Intersect returns the nearest triangle hit
func (m *Mesh) Intersect(ray core.Ray) (Hit, bool) {
	var (
		closest            *Triangle
		closestDist        float64
		closestU, closestV float64
	)
	for i := range m.Triangles {
		tri := &m.Triangles[i]
		dist, u, v, ok := tri.intersect(ray)
		if ok && (closest == nil || dist < closestDist) {
			closest, closestDist, closestU, closestV = tri, dist, u, v
		}
	}
	if closest == nil {
		return Hit{}, false
	}

	normal := closest.normal
	if normal.Dot(ray.Direction) > 0 {
		normal = normal.Mul(-1)
	}

	return Hit{
		Point:     ray.At(closestDist),
		Distance:  closestDist,
		Normal:    normal,
		Material:  m.Material,
		TexCoords: closest.texCoords(closestU, closestV),
	}, true
}

func (*Mesh) primitive() {}
