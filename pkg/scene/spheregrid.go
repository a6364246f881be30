package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/lights"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewColor(r, g, blue).Clamp()
}

// NewSphereGridScene creates a scene with a gridSize x gridSize grid of
// colored spheres on a gray floor. Every other sphere is a mirror.
func NewSphereGridScene(width, height, gridSize int) *Scene {
	cameraConfig := DefaultCameraConfig(width, height, 40)
	cameraConfig.Position = mgl64.Vec3{4.5, 6, 18}
	cameraConfig.LookAt = mgl64.Vec3{4.5, 0.8, 4.5}

	primitives := []geometry.Primitive{
		geometry.NewPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0},
			material.NewMaterial(core.NewColor(0.5, 0.5, 0.5), 0.8)),
	}

	// Fit the grid into a 9x9 area
	targetArea := 9.0
	spacing := targetArea
	if gridSize > 1 {
		spacing = targetArea / float64(gridSize-1)
	}
	sphereRadius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	baseLightness := 0.65
	minChroma, maxChroma := 0.05, 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5

			// Hue varies along X, chroma along Z
			hue := float64(i) / math.Max(1, float64(gridSize-1)) * 360.0
			chroma := minChroma + float64(j)/math.Max(1, float64(gridSize-1))*(maxChroma-minChroma)

			reflectivity := 0.0
			if (i+j)%2 == 1 {
				reflectivity = 0.6
			}
			mat := material.NewReflectiveMaterial(
				material.NewFlatColor(oklchToRGB(baseLightness, chroma, hue)), 0.9, reflectivity)
			primitives = append(primitives, geometry.NewSphere(mgl64.Vec3{x, sphereRadius, z}, sphereRadius, mat))
		}
	}

	lightList := []lights.Light{
		lights.NewDirectionalLight(mgl64.Vec3{-1, -1.25, -1}, core.NewColor(1.0, 0.96, 0.9), 5),
	}

	s, err := New(cameraConfig, primitives, lightList,
		core.NewColor(0.5, 0.7, 1.0),
		core.NewColor(0.05, 0.05, 0.05),
		3)
	if err != nil {
		panic(err)
	}
	return s
}
