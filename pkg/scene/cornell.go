package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/lights"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// cornellBoxSize is the edge length of the standard Cornell box
const cornellBoxSize = 555.0

// NewCornellScene creates a Cornell box: five inward-facing walls, a mirror
// sphere and a glossy sphere, lit from just below the ceiling
func NewCornellScene(width, height int) *Scene {
	cameraConfig := DefaultCameraConfig(width, height, 40)
	cameraConfig.Position = mgl64.Vec3{278, 278, -800} // Outside the open front
	cameraConfig.LookAt = mgl64.Vec3{278, 278, 0}

	white := material.NewMaterial(core.NewColor(0.73, 0.73, 0.73), 0.9)
	red := material.NewMaterial(core.NewColor(0.65, 0.05, 0.05), 0.9)
	green := material.NewMaterial(core.NewColor(0.12, 0.45, 0.15), 0.9)

	mirror := material.NewReflectiveMaterial(material.NewFlatColor(core.NewColor(0.8, 0.8, 0.9)), 0.3, 0.9)
	// Transmission is carried as data only; the sphere renders as glossy
	glass := material.NewReflectiveMaterial(material.NewFlatColor(core.White()), 0.6, 0.3)
	glass.Transparency = 0.9
	glass.RefractiveIndex = 1.5

	s := cornellBoxSize
	primitives := []geometry.Primitive{
		geometry.NewPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}, white),  // Floor
		geometry.NewPlane(mgl64.Vec3{0, s, 0}, mgl64.Vec3{0, -1, 0}, white), // Ceiling
		geometry.NewPlane(mgl64.Vec3{0, 0, s}, mgl64.Vec3{0, 0, -1}, white), // Back wall
		geometry.NewPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, red),    // Left wall
		geometry.NewPlane(mgl64.Vec3{s, 0, 0}, mgl64.Vec3{-1, 0, 0}, green), // Right wall

		geometry.NewSphere(mgl64.Vec3{185, 82.5, 169}, 82.5, mirror),
		geometry.NewSphere(mgl64.Vec3{370, 90, 351}, 90, glass),
	}

	lightList := []lights.Light{
		// About 4 units of intensity at the floor
		lights.NewPointLight(mgl64.Vec3{s / 2, s - 10, s / 2}, core.NewColor(1.0, 0.95, 0.85), 1.5e7),
	}

	scene, err := New(cameraConfig, primitives, lightList,
		core.Black(),
		core.NewColor(0.02, 0.02, 0.02),
		5)
	if err != nil {
		panic(err)
	}
	return scene
}
