package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/lights"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// NewTextureTestScene shows texture mapping on each primitive type using
// generated textures
func NewTextureTestScene(width, height int) *Scene {
	cameraConfig := DefaultCameraConfig(width, height, 50)
	cameraConfig.Position = mgl64.Vec3{0, 2, 8}
	cameraConfig.LookAt = mgl64.Vec3{0, 1, 0}

	checkerboard := material.NewCheckerboardTexture(256, 256, 32,
		core.NewColor(0.9, 0.9, 0.9), // White
		core.NewColor(0.2, 0.2, 0.8), // Blue
	)
	redGreenGradient := material.NewGradientTexture(256, 256,
		core.NewColor(1.0, 0.2, 0.2), // Red (top)
		core.NewColor(0.2, 1.0, 0.2), // Green (bottom)
	)
	uvDebug := material.NewUVDebugTexture(256, 256)
	brick := material.NewCheckerboardTexture(64, 64, 16,
		core.NewColor(0.7, 0.3, 0.1),  // Orange
		core.NewColor(0.5, 0.2, 0.05), // Dark brown
	)

	// Single upright quad, UV spanning the unit square
	quad, err := geometry.NewMesh("",
		[]mgl64.Vec3{{1.5, 0, 0}, {3.5, 0, 0}, {3.5, 2, 0}, {1.5, 2, 0}},
		[]int{0, 1, 2, 0, 2, 3},
		[]core.Vec2{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}},
		material.NewMaterial(core.White(), 0.9))
	if err != nil {
		panic(err)
	}
	quad.Material.Coloration = uvDebug

	primitives := []geometry.Primitive{
		geometry.NewSphere(mgl64.Vec3{-2.5, 1, 0}, 1,
			material.NewReflectiveMaterial(checkerboard, 0.9, 0)),
		geometry.NewSphere(mgl64.Vec3{0, 1, 0}, 1,
			material.NewReflectiveMaterial(redGreenGradient, 0.9, 0.2)),
		quad,
		// Each ground unit covers one brick texture repeat
		geometry.NewPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0},
			material.NewReflectiveMaterial(brick, 0.8, 0)),
	}

	lightList := []lights.Light{
		lights.NewPointLight(mgl64.Vec3{0, 6, 5}, core.White(), 800),
		lights.NewDirectionalLight(mgl64.Vec3{0.2, -1, -0.5}, core.NewColor(0.3, 0.4, 0.6), 2),
	}

	s, err := New(cameraConfig, primitives, lightList,
		core.NewColor(0.3, 0.4, 0.6),
		core.NewColor(0.05, 0.05, 0.05),
		3)
	if err != nil {
		panic(err)
	}
	return s
}
