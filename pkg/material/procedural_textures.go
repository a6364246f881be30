package material

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
)

// Generated textures have no source file, so their Path is empty and scenes
// using them cannot be written back to JSON.

// NewCheckerboardTexture creates a checkerboard of checkSize pixel squares
func NewCheckerboardTexture(width, height, checkSize int, color1, color2 core.Color) *Texture {
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Alternate colors based on check position
			color := color2
			if (x/checkSize+y/checkSize)%2 == 0 {
				color = color1
			}
			pixels[y*width+x] = color
		}
	}

	return &Texture{Width: width, Height: height, Pixels: pixels}
}

// NewUVDebugTexture maps U to the red channel and V to the green channel
func NewUVDebugTexture(width, height int) *Texture {
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			u := float64(x) / float64(max(width-1, 1))
			v := float64(y) / float64(max(height-1, 1))
			pixels[y*width+x] = core.NewColor(u, v, 0)
		}
	}

	return &Texture{Width: width, Height: height, Pixels: pixels}
}

// NewGradientTexture blends vertically from color1 (top row) to color2 (bottom row)
func NewGradientTexture(width, height int, color1, color2 core.Color) *Texture {
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		t := float64(y) / float64(max(height-1, 1))
		color := color1.Multiply(1 - t).Add(color2.Multiply(t))

		for x := 0; x < width; x++ {
			pixels[y*width+x] = color
		}
	}

	return &Texture{Width: width, Height: height, Pixels: pixels}
}
