package renderer

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/scene"
)

// ErrAreaOutOfBounds is returned when a render area is empty or not inside
// the image
var ErrAreaOutOfBounds = errors.New("render area out of image bounds")

// CastRay returns the color seen along ray. depth counts the reflections
// already followed; once it exceeds the scene's maximum the ray is black.
func CastRay(s *scene.Scene, ray core.Ray, depth int) core.Color {
	if depth > s.MaxRecursionDepth {
		return core.Black()
	}

	hit, ok := s.Trace(ray)
	if !ok {
		return s.ClearColor
	}
	return getColor(s, ray, hit, depth)
}

// getColor blends the diffuse and reflected contributions at a hit and adds
// the ambient light
func getColor(s *scene.Scene, ray core.Ray, hit geometry.Hit, depth int) core.Color {
	diffuse := shadeDiffuse(s, hit)

	reflectivity := hit.Material.Reflectivity
	reflected := core.Black()
	if reflectivity > 0 {
		reflectionRay := core.NewReflectionRay(hit.Point, hit.Normal, ray.Direction)
		reflected = CastRay(s, reflectionRay, depth+1)
	}

	return diffuse.Multiply(1 - reflectivity).
		Add(reflected.Multiply(reflectivity)).
		Add(s.AmbientLightColor).
		Clamp()
}

// shadeDiffuse sums the Lambertian contribution of every light that is not
// occluded from the hit point
func shadeDiffuse(s *scene.Scene, hit geometry.Hit) core.Color {
	color := core.Black()
	reflectionFactor := hit.Material.Albedo / math.Pi

	for _, light := range s.Lights {
		toLight := light.DirectionFrom(hit.Point)

		// Lambert's cosine law; surfaces facing away receive nothing
		cosine := hit.Normal.Dot(toLight)
		if cosine <= 0 {
			continue
		}

		// Anything closer than the light casts a shadow
		shadowRay := core.NewSecondaryRay(hit.Point, hit.Normal, toLight)
		if shadowHit, occluded := s.Trace(shadowRay); occluded && shadowHit.Distance <= light.DistanceAt(hit.Point) {
			continue
		}

		lightPower := cosine * light.IntensityAt(hit.Point)
		materialColor := hit.Material.ColorAt(hit.TexCoords)
		color = color.Add(materialColor.MultiplyColor(light.Color()).Multiply(lightPower * reflectionFactor))
	}

	return color.Clamp()
}

// Render renders the whole image
func Render(s *scene.Scene) *image.RGBA {
	img, err := RenderArea(s, image.Rect(0, 0, s.Width(), s.Height()))
	if err != nil {
		// The full image is always a valid area of a validated scene
		panic(err)
	}
	return img
}

// RenderArea renders the sub-rectangle area of the image. The returned
// image has its origin at (0, 0) and the size of area.
func RenderArea(s *scene.Scene, area image.Rectangle) (*image.RGBA, error) {
	bounds := image.Rect(0, 0, s.Width(), s.Height())
	if area.Empty() || !area.In(bounds) {
		return nil, fmt.Errorf("%w: %v not within %v", ErrAreaOutOfBounds, area, bounds)
	}

	img := image.NewRGBA(image.Rect(0, 0, area.Dx(), area.Dy()))
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			ray := s.Camera.GetRay(x, y)
			color := CastRay(s, ray, 0)
			img.SetRGBA(x-area.Min.X, y-area.Min.Y, color.ToRGBA())
		}
	}
	return img, nil
}
