package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/lights"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// NewDefaultScene creates a scene with three spheres over a ground plane,
// lit by a sun and a point light
func NewDefaultScene(width, height int) *Scene {
	cameraConfig := DefaultCameraConfig(width, height, 45)
	cameraConfig.Position = mgl64.Vec3{0, 0.75, 2}
	cameraConfig.LookAt = mgl64.Vec3{0, 0.5, -3}

	red := material.NewMaterial(core.NewColor(0.65, 0.25, 0.2), 0.9)
	blue := material.NewMaterial(core.NewColor(0.1, 0.2, 0.5), 0.9)
	mirror := material.NewReflectiveMaterial(material.NewFlatColor(core.NewColor(0.8, 0.8, 0.8)), 0.5, 0.8)
	ground := material.NewReflectiveMaterial(material.NewFlatColor(core.NewColor(0.6, 0.6, 0.3)), 0.7, 0.1)

	primitives := []geometry.Primitive{
		geometry.NewSphere(mgl64.Vec3{0, 0.5, -3}, 0.5, red),
		geometry.NewSphere(mgl64.Vec3{-1.1, 0.5, -3.2}, 0.5, mirror),
		geometry.NewSphere(mgl64.Vec3{1.1, 0.5, -3.2}, 0.5, blue),
		geometry.NewPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}, ground),
	}

	lightList := []lights.Light{
		lights.NewDirectionalLight(mgl64.Vec3{-0.3, -1, -0.4}, core.NewColor(1.0, 0.95, 0.9), 6),
		lights.NewPointLight(mgl64.Vec3{1.5, 2.5, -1}, core.NewColor(0.9, 0.9, 1.0), 300),
	}

	s, err := New(cameraConfig, primitives, lightList,
		core.NewColor(0.5, 0.7, 1.0), // Sky blue
		core.NewColor(0.03, 0.03, 0.03),
		4)
	if err != nil {
		// Built from constants, can only fail for a bad image size
		panic(err)
	}
	return s
}
