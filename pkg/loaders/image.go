package loaders

import (
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// ImageData contains loaded image data as a row-major color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Color
}

// ImageResolver turns a texture path from a scene file into a texture
type ImageResolver interface {
	ResolveTexture(path string) (*material.Texture, error)
}

// FileImageResolver decodes textures from the local filesystem
type FileImageResolver struct{}

// ResolveTexture loads and decodes the image at path
func (FileImageResolver) ResolveTexture(path string) (*material.Texture, error) {
	data, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return material.NewTexture(path, data.Width, data.Height, data.Pixels)
}

// LoadImage loads a PNG, JPEG, GIF, BMP, TIFF or WebP image
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Format is detected from the file header
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}

	return NewImageData(img), nil
}

// NewImageData converts a decoded image to colors in [0, 1]
func NewImageData(img image.Image) *ImageData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = core.ColorFromRGBA(img.At(x+bounds.Min.X, y+bounds.Min.Y))
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}
