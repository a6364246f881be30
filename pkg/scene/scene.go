package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/lights"
)

// Scene contains all the elements needed for rendering. It is built once
// and never modified afterwards, so workers share it by pointer.
type Scene struct {
	Primitives        []geometry.Primitive // Objects in the scene, in load order
	Lights            []lights.Light       // Lights in the scene
	ClearColor        core.Color           // Color of rays that hit nothing
	AmbientLightColor core.Color           // Added to every shaded hit
	MaxRecursionDepth int                  // Maximum reflection depth
	CameraConfig      CameraConfig
	Camera            *Camera
}

// New creates a validated scene
func New(config CameraConfig, primitives []geometry.Primitive, lightList []lights.Light,
	clearColor, ambient core.Color, maxRecursionDepth int) (*Scene, error) {
	s := &Scene{
		Primitives:        primitives,
		Lights:            lightList,
		ClearColor:        clearColor,
		AmbientLightColor: ambient,
		MaxRecursionDepth: maxRecursionDepth,
		CameraConfig:      config,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.Camera = NewCamera(config)
	return s, nil
}

// Validate checks the invariants the renderer relies on
func (s *Scene) Validate() error {
	var errs []error
	if s.CameraConfig.Width <= 0 || s.CameraConfig.Height <= 0 {
		errs = append(errs, fmt.Errorf("image size must be positive, got %dx%d",
			s.CameraConfig.Width, s.CameraConfig.Height))
	}
	if s.CameraConfig.FOV <= 0 || s.CameraConfig.FOV >= 180 {
		errs = append(errs, fmt.Errorf("field of view must be in (0, 180) degrees, got %g", s.CameraConfig.FOV))
	}
	if s.CameraConfig.LookAt.Sub(s.CameraConfig.Position).LenSqr() == 0 {
		errs = append(errs, errors.New("camera look_at must differ from position"))
	} else if s.CameraConfig.LookAt.Sub(s.CameraConfig.Position).Cross(s.CameraConfig.Up).LenSqr() == 0 {
		errs = append(errs, errors.New("camera up must not be parallel to the view direction"))
	}
	if s.MaxRecursionDepth < 0 {
		errs = append(errs, fmt.Errorf("max recursion depth must not be negative, got %d", s.MaxRecursionDepth))
	}
	for i, light := range s.Lights {
		if intensity := lightIntensity(light); intensity < 0 {
			errs = append(errs, fmt.Errorf("light %d: intensity must not be negative, got %g", i, intensity))
		}
	}
	return errors.Join(errs...)
}

func lightIntensity(light lights.Light) float64 {
	switch l := light.(type) {
	case *lights.DirectionalLight:
		return l.Intensity
	case *lights.PointLight:
		return l.Intensity
	default:
		return 0
	}
}

// Width returns the image width in pixels
func (s *Scene) Width() int {
	return s.CameraConfig.Width
}

// Height returns the image height in pixels
func (s *Scene) Height() int {
	return s.CameraConfig.Height
}

// Trace checks the ray against every primitive and returns the closest hit
func (s *Scene) Trace(ray core.Ray) (geometry.Hit, bool) {
	var closest geometry.Hit
	found := false
	for _, primitive := range s.Primitives {
		if hit, ok := primitive.Intersect(ray); ok && (!found || hit.Closer(closest)) {
			closest = hit
			found = true
		}
	}
	return closest, found
}

// GetPrimitiveCount returns the number of intersectable primitives,
// counting each mesh triangle separately
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, primitive := range s.Primitives {
		switch p := primitive.(type) {
		case *geometry.Mesh:
			count += len(p.Triangles)
		default:
			count++
		}
	}
	return count
}
