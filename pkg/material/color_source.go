package material

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
)

// Coloration is the color source of a surface. The set of variants is
// closed: FlatColor and *Texture.
type Coloration interface {
	// ColorAt returns the surface color at the given texture coordinates
	ColorAt(uv core.Vec2) core.Color
	coloration()
}

// FlatColor provides a uniform color
type FlatColor struct {
	Color core.Color
}

// NewFlatColor creates a new flat color source
func NewFlatColor(color core.Color) FlatColor {
	return FlatColor{Color: color}
}

// ColorAt returns the flat color regardless of UV
func (f FlatColor) ColorAt(uv core.Vec2) core.Color {
	return f.Color
}

func (FlatColor) coloration() {}
