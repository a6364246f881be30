package renderer

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/lights"
	"github.com/df07/go-tile-raytracer/pkg/material"
	"github.com/df07/go-tile-raytracer/pkg/scene"
)

// newTestScene builds a scene or fails the test
func newTestScene(t *testing.T, config scene.CameraConfig, prims []geometry.Primitive, lightList []lights.Light,
	clear, ambient core.Color, depth int) *scene.Scene {
	t.Helper()
	s, err := scene.New(config, prims, lightList, clear, ambient, depth)
	if err != nil {
		t.Fatalf("scene.New failed: %v", err)
	}
	return s
}

// unitDiffuse reflects exactly what arrives: albedo/π == 1
func unitDiffuse() *material.Material {
	return material.NewMaterial(core.White(), math.Pi)
}

func colorNear(a, b core.Color) bool {
	const tolerance = 1e-9
	return math.Abs(a.R-b.R) <= tolerance &&
		math.Abs(a.G-b.G) <= tolerance &&
		math.Abs(a.B-b.B) <= tolerance
}

var downRay = core.NewRay(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, -1, 0})

func groundPlane(m *material.Material) geometry.Primitive {
	return geometry.NewPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}, m)
}

func TestCastRay_MissReturnsClearColor(t *testing.T) {
	clear := core.NewColor(0.1, 0.2, 0.3)
	s := newTestScene(t, scene.DefaultCameraConfig(2, 2, 60), nil, nil, clear, core.White(), 2)

	if got := CastRay(s, downRay, 0); got != clear {
		t.Errorf("Expected clear color %v, got %v", clear, got)
	}
}

func TestCastRay_DepthLimit(t *testing.T) {
	s := newTestScene(t, scene.DefaultCameraConfig(2, 2, 60), nil, nil, core.White(), core.White(), 2)

	if got := CastRay(s, downRay, 2); got != core.White() {
		t.Errorf("Expected depth equal to the maximum to still trace, got %v", got)
	}
	if got := CastRay(s, downRay, 3); got != core.Black() {
		t.Errorf("Expected black beyond the maximum depth, got %v", got)
	}
}

func TestCastRay_Diffuse(t *testing.T) {
	tests := []struct {
		name     string
		light    lights.Light
		expected core.Color
	}{
		{
			name:     "directional overhead",
			light:    lights.NewDirectionalLight(mgl64.Vec3{0, -1, 0}, core.White(), 0.5),
			expected: core.NewColor(0.5, 0.5, 0.5),
		},
		{
			// cos 60 degrees halves the contribution
			name:     "directional oblique",
			light:    lights.NewDirectionalLight(mgl64.Vec3{math.Sqrt(3), -1, 0}, core.White(), 0.5),
			expected: core.NewColor(0.25, 0.25, 0.25),
		},
		{
			// I / (4πr²) with r = 4
			name:     "point light",
			light:    lights.NewPointLight(mgl64.Vec3{0, 4, 0}, core.White(), 32*math.Pi),
			expected: core.NewColor(0.5, 0.5, 0.5),
		},
		{
			name:     "colored light",
			light:    lights.NewDirectionalLight(mgl64.Vec3{0, -1, 0}, core.NewColor(1, 0, 0.5), 0.5),
			expected: core.NewColor(0.5, 0, 0.25),
		},
		{
			name:     "light below the surface",
			light:    lights.NewDirectionalLight(mgl64.Vec3{0, 1, 0}, core.White(), 5),
			expected: core.Black(),
		},
		{
			name:     "overexposed",
			light:    lights.NewDirectionalLight(mgl64.Vec3{0, -1, 0}, core.White(), 100),
			expected: core.White(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene(t, scene.DefaultCameraConfig(2, 2, 60),
				[]geometry.Primitive{groundPlane(unitDiffuse())},
				[]lights.Light{tt.light}, core.Black(), core.Black(), 0)

			if got := CastRay(s, downRay, 0); !colorNear(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCastRay_Shadows(t *testing.T) {
	light := lights.NewPointLight(mgl64.Vec3{0, 4, 0}, core.White(), 32*math.Pi)
	occluder := material.NewMaterial(core.White(), 1)

	tests := []struct {
		name     string
		occluder geometry.Primitive
		expected core.Color
	}{
		{"between surface and light", geometry.NewSphere(mgl64.Vec3{0, 2.5, 0}, 0.5, occluder), core.Black()},
		{"beyond the light", geometry.NewSphere(mgl64.Vec3{0, 6, 0}, 0.5, occluder), core.NewColor(0.5, 0.5, 0.5)},
		{"off to the side", geometry.NewSphere(mgl64.Vec3{3, 2, 0}, 0.5, occluder), core.NewColor(0.5, 0.5, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene(t, scene.DefaultCameraConfig(2, 2, 60),
				[]geometry.Primitive{groundPlane(unitDiffuse()), tt.occluder},
				[]lights.Light{light}, core.Black(), core.Black(), 0)

			if got := CastRay(s, downRay, 0); !colorNear(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCastRay_Ambient(t *testing.T) {
	ambient := core.NewColor(0.1, 0.1, 0.2)
	s := newTestScene(t, scene.DefaultCameraConfig(2, 2, 60),
		[]geometry.Primitive{groundPlane(unitDiffuse())},
		nil, core.White(), ambient, 0)

	if got := CastRay(s, downRay, 0); got != ambient {
		t.Errorf("Expected ambient-only color %v, got %v", ambient, got)
	}
}

func TestCastRay_Reflection(t *testing.T) {
	clear := core.NewColor(0.2, 0.4, 0.6)
	mirror := material.NewReflectiveMaterial(material.NewFlatColor(core.White()), 1, 1)
	oblique := core.NewRay(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, -1, 0})

	tests := []struct {
		name     string
		maxDepth int
		expected core.Color
	}{
		// The bounce would be depth 1, past the limit
		{"depth zero", 0, core.Black()},
		{"one bounce to the sky", 1, clear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene(t, scene.DefaultCameraConfig(2, 2, 60),
				[]geometry.Primitive{groundPlane(mirror)},
				nil, clear, core.Black(), tt.maxDepth)

			if got := CastRay(s, oblique, 0); !colorNear(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCastRay_ReflectionBlend(t *testing.T) {
	// Half diffuse under a unit light, half mirror of a white sky
	halfMirror := material.NewReflectiveMaterial(material.NewFlatColor(core.White()), math.Pi, 0.5)
	light := lights.NewDirectionalLight(mgl64.Vec3{0, -1, 0}, core.White(), 0.4)

	s := newTestScene(t, scene.DefaultCameraConfig(2, 2, 60),
		[]geometry.Primitive{groundPlane(halfMirror)},
		[]lights.Light{light}, core.White(), core.Black(), 1)

	expected := core.NewColor(0.7, 0.7, 0.7) // 0.4*0.5 + 1*0.5
	if got := CastRay(s, downRay, 0); !colorNear(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestCastRay_MirrorCorridor(t *testing.T) {
	// Two facing mirrors bounce the ray until the depth limit, which ends in black
	mirror := material.NewReflectiveMaterial(material.NewFlatColor(core.White()), 1, 1)
	s := newTestScene(t, scene.DefaultCameraConfig(2, 2, 60), []geometry.Primitive{
		geometry.NewPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}, mirror),
		geometry.NewPlane(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, -1, 0}, mirror),
	}, nil, core.White(), core.Black(), 5)

	if got := CastRay(s, downRay, 0); got != core.Black() {
		t.Errorf("Expected black after exhausting the recursion depth, got %v", got)
	}
}

func TestRender_EmptySceneIsClearColor(t *testing.T) {
	clear := core.NewColor(0.2, 0.4, 0.6)
	s := newTestScene(t, scene.DefaultCameraConfig(2, 2, 90), nil, nil, clear, core.White(), 3)

	img := Render(s)
	if img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("Expected 2x2 image, got %v", img.Bounds())
	}
	want := clear.ToRGBA()
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := img.RGBAAt(x, y); got != want {
				t.Errorf("Pixel (%d, %d): expected %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestRender_AmbientOnlyCenter(t *testing.T) {
	ambient := core.NewColor(0.5, 0.5, 0.5)
	s := newTestScene(t, scene.DefaultCameraConfig(3, 3, 30), []geometry.Primitive{
		geometry.NewSphere(mgl64.Vec3{0, 0, -5}, 1, unitDiffuse()),
	}, nil, core.Black(), ambient, 0)

	img := Render(s)
	if got := img.RGBAAt(1, 1); got != ambient.ToRGBA() {
		t.Errorf("Expected center pixel lit by ambient only (%v), got %v", ambient.ToRGBA(), got)
	}
	// Corners miss the sphere
	if got := img.RGBAAt(0, 0); got != core.Black().ToRGBA() {
		t.Errorf("Expected corner pixel to be the clear color, got %v", got)
	}
}

func TestRender_TwoByTwoSphereUnderDownwardLight(t *testing.T) {
	clear := core.NewColor(0.25, 0.5, 0.75)
	ambient := core.NewColor(0.1, 0.1, 0.1)
	s := newTestScene(t, scene.DefaultCameraConfig(2, 2, 90), []geometry.Primitive{
		geometry.NewSphere(mgl64.Vec3{0, 0, -5}, 1, unitDiffuse()),
	}, []lights.Light{
		lights.NewDirectionalLight(mgl64.Vec3{0, -1, 0}, core.White(), 1),
	}, clear, ambient, 3)

	// At 2x2 every pixel center ray passes outside the sphere
	img := Render(s)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := img.RGBAAt(x, y); got != clear.ToRGBA() {
				t.Errorf("Pixel (%d, %d): expected clear color %v, got %v", x, y, clear.ToRGBA(), got)
			}
		}
	}

	// The ray through the image center meets the sphere where the light grazes it
	center := core.NewRay(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, -1})
	if got := CastRay(s, center, 0); !colorNear(got, ambient) {
		t.Errorf("Expected the center hit to receive ambient only (%v), got %v", ambient, got)
	}

	// Higher on the sphere the light reaches the surface
	upper := core.NewRay(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0.15, -1})
	if got := CastRay(s, upper, 0); got.R <= ambient.R || got.R > 1 {
		t.Errorf("Expected a lit color above ambient, got %v", got)
	}
}

func TestRender_Deterministic(t *testing.T) {
	s := scene.NewDefaultScene(40, 30)
	first := Render(s)
	second := Render(s)
	if string(first.Pix) != string(second.Pix) {
		t.Error("Expected identical images from repeated renders")
	}
}

func TestRenderArea(t *testing.T) {
	s := scene.NewDefaultScene(40, 30)
	full := Render(s)

	area := image.Rect(10, 5, 25, 20)
	part, err := RenderArea(s, area)
	if err != nil {
		t.Fatalf("RenderArea failed: %v", err)
	}
	if part.Bounds() != image.Rect(0, 0, 15, 15) {
		t.Fatalf("Expected image at origin sized like the area, got %v", part.Bounds())
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			if full.RGBAAt(x, y) != part.RGBAAt(x-area.Min.X, y-area.Min.Y) {
				t.Fatalf("Pixel (%d, %d) differs from the full render", x, y)
			}
		}
	}
}

func TestRenderArea_Errors(t *testing.T) {
	s := scene.NewDefaultScene(40, 30)

	tests := []struct {
		name string
		area image.Rectangle
	}{
		{"empty", image.Rect(5, 5, 5, 10)},
		{"past right edge", image.Rect(30, 0, 41, 10)},
		{"negative origin", image.Rect(-1, 0, 10, 10)},
		{"entirely outside", image.Rect(50, 50, 60, 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RenderArea(s, tt.area); !errors.Is(err, ErrAreaOutOfBounds) {
				t.Errorf("Expected ErrAreaOutOfBounds, got %v", err)
			}
		})
	}
}
