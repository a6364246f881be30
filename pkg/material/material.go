package material

import "github.com/df07/go-tile-raytracer/pkg/core"

// Material describes how a surface is colored and how much of the incoming
// light it reflects specularly.
type Material struct {
	Coloration   Coloration
	Albedo       float64 // Diffuse reflectance, expected in [0, 1]
	Reflectivity float64 // Fraction of specular vs diffuse contribution, expected in [0, 1]

	// Transmission is not rendered; these are kept so scene files carrying
	// them load and save without loss.
	Transparency    float64
	RefractiveIndex float64
}

// NewMaterial creates a diffuse material with a flat color
func NewMaterial(color core.Color, albedo float64) *Material {
	return &Material{
		Coloration: NewFlatColor(color),
		Albedo:     albedo,
	}
}

// NewReflectiveMaterial creates a material blending diffuse and mirror reflection
func NewReflectiveMaterial(coloration Coloration, albedo, reflectivity float64) *Material {
	return &Material{
		Coloration:   coloration,
		Albedo:       albedo,
		Reflectivity: reflectivity,
	}
}

// ColorAt returns the surface color at the given texture coordinates.
// A material without a coloration is black.
func (m *Material) ColorAt(uv core.Vec2) core.Color {
	if m.Coloration == nil {
		return core.Black()
	}
	return m.Coloration.ColorAt(uv)
}
