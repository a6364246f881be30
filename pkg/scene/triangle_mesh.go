package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/lights"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// NewTriangleMeshScene shows a box, a pyramid and an icosahedron built as
// triangle meshes, each rotated about the Y axis to show several faces
func NewTriangleMeshScene(width, height int) *Scene {
	cameraConfig := DefaultCameraConfig(width, height, 45)
	cameraConfig.Position = mgl64.Vec3{0, 3, 7}
	cameraConfig.LookAt = mgl64.Vec3{0, 0.8, 0}

	redMirror := material.NewReflectiveMaterial(material.NewFlatColor(core.NewColor(0.8, 0.2, 0.2)), 0.8, 0.4)
	blue := material.NewMaterial(core.NewColor(0.2, 0.3, 0.8), 0.9)
	gold := material.NewReflectiveMaterial(material.NewFlatColor(core.NewColor(0.8, 0.6, 0.2)), 0.8, 0.6)

	primitives := []geometry.Primitive{
		geometry.NewPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0},
			material.NewMaterial(core.NewColor(0.7, 0.7, 0.7), 0.8)),
		createBoxMesh(mgl64.Vec3{-2, 0.5, 0}, mgl64.Vec3{1, 1, 1}, math.Pi/6, redMirror),
		createPyramidMesh(mgl64.Vec3{0, 1, 0}, 1.5, 2.0, math.Pi/4, blue),
		createIcosahedronMesh(mgl64.Vec3{2, 0.8, 0}, 0.8, math.Pi/3, gold),
	}

	lightList := []lights.Light{
		lights.NewPointLight(mgl64.Vec3{2, 6, 3}, core.NewColor(1.0, 0.92, 0.83), 1500), // Warm key
		lights.NewPointLight(mgl64.Vec3{-3, 4, 2}, core.NewColor(0.75, 0.87, 1.0), 500), // Cool fill
	}

	s, err := New(cameraConfig, primitives, lightList,
		core.NewColor(0.5, 0.7, 1.0),
		core.NewColor(0.04, 0.04, 0.04),
		4)
	if err != nil {
		panic(err)
	}
	return s
}

// newRotatedMesh rotates vertices about center around the Y axis and builds
// a mesh from them. The vertex data is generated, so errors are programming
// mistakes.
func newRotatedMesh(center mgl64.Vec3, rotationY float64, vertices []mgl64.Vec3, faces []int, m *material.Material) *geometry.Mesh {
	rotation := mgl64.Rotate3DY(rotationY)
	for i, v := range vertices {
		vertices[i] = center.Add(rotation.Mul3x1(v))
	}

	mesh, err := geometry.NewMesh("", vertices, faces, nil, m)
	if err != nil {
		panic(err)
	}
	return mesh
}

// createBoxMesh creates a triangle mesh representing a box
func createBoxMesh(center, size mgl64.Vec3, rotationY float64, m *material.Material) *geometry.Mesh {
	h := size.Mul(0.5)
	vertices := []mgl64.Vec3{
		{-h[0], -h[1], -h[2]}, // 0: left-bottom-back
		{+h[0], -h[1], -h[2]}, // 1: right-bottom-back
		{+h[0], +h[1], -h[2]}, // 2: right-top-back
		{-h[0], +h[1], -h[2]}, // 3: left-top-back
		{-h[0], -h[1], +h[2]}, // 4: left-bottom-front
		{+h[0], -h[1], +h[2]}, // 5: right-bottom-front
		{+h[0], +h[1], +h[2]}, // 6: right-top-front
		{-h[0], +h[1], +h[2]}, // 7: left-top-front
	}

	// 2 triangles per face
	faces := []int{
		0, 1, 2, 0, 2, 3, // Back (Z-)
		4, 6, 5, 4, 7, 6, // Front (Z+)
		0, 3, 7, 0, 7, 4, // Left (X-)
		1, 5, 6, 1, 6, 2, // Right (X+)
		0, 4, 5, 0, 5, 1, // Bottom (Y-)
		3, 2, 6, 3, 6, 7, // Top (Y+)
	}

	return newRotatedMesh(center, rotationY, vertices, faces, m)
}

// createPyramidMesh creates a square pyramid centered on center
func createPyramidMesh(center mgl64.Vec3, baseSize, height float64, rotationY float64, m *material.Material) *geometry.Mesh {
	halfBase := baseSize * 0.5
	halfHeight := height * 0.5

	vertices := []mgl64.Vec3{
		{-halfBase, -halfHeight, -halfBase}, // 0: left-back
		{+halfBase, -halfHeight, -halfBase}, // 1: right-back
		{+halfBase, -halfHeight, +halfBase}, // 2: right-front
		{-halfBase, -halfHeight, +halfBase}, // 3: left-front
		{0, +halfHeight, 0},                 // 4: apex
	}

	faces := []int{
		0, 2, 1, 0, 3, 2, // Base
		0, 1, 4, // Back
		1, 2, 4, // Right
		2, 3, 4, // Front
		3, 0, 4, // Left
	}

	return newRotatedMesh(center, rotationY, vertices, faces, m)
}

// createIcosahedronMesh creates a regular icosahedron with the given
// circumradius
func createIcosahedronMesh(center mgl64.Vec3, radius float64, rotationY float64, m *material.Material) *geometry.Mesh {
	phi := math.Phi
	// Vertices (0, ±1, ±phi) lie at distance sqrt(1 + phi²) from the origin
	scale := radius / math.Sqrt(1+phi*phi)

	vertices := []mgl64.Vec3{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	for i := range vertices {
		vertices[i] = vertices[i].Mul(scale)
	}

	faces := []int{
		// 5 faces around vertex 0
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		// 5 adjacent faces
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		// 5 faces around vertex 3
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		// 5 adjacent faces
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	return newRotatedMesh(center, rotationY, vertices, faces, m)
}
