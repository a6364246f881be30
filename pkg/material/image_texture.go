package material

import (
	"fmt"
	"math"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// Texture provides color from a decoded image. It remembers the path it was
// loaded from so a scene can be written back out.
type Texture struct {
	Path   string
	Width  int
	Height int
	Pixels []core.Color // Row-major: Pixels[y*Width + x]
}

// NewTexture creates a texture from decoded pixel data
func NewTexture(path string, width, height int, pixels []core.Color) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("texture %q has invalid size %dx%d", path, width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("texture %q: expected %d pixels, got %d", path, width*height, len(pixels))
	}
	return &Texture{
		Path:   path,
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}

// ColorAt samples the nearest pixel. U and V are scaled into pixel space and
// wrapped, so the texture tiles in both directions.
func (t *Texture) ColorAt(uv core.Vec2) core.Color {
	x := wrap(uv.X*float64(t.Width), t.Width)
	y := wrap(uv.Y*float64(t.Height), t.Height)
	return t.Pixels[y*t.Width+x]
}

func (*Texture) coloration() {}

// wrap maps a pixel-space coordinate into [0, bound)
func wrap(coord float64, bound int) int {
	if math.IsNaN(coord) || math.IsInf(coord, 0) {
		return 0
	}
	i := int(math.Mod(math.Floor(coord), float64(bound)))
	if i < 0 {
		i += bound
	}
	return i
}
