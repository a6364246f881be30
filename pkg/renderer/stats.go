package renderer

import (
	"image"
	"time"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// RenderStats contains statistics about a tiled render pass
type RenderStats struct {
	TotalPixels    int           // Total number of pixels in the image
	TotalTiles     int           // Number of tiles the image was split into
	CompletedTiles int           // Tiles merged into the image so far
	NumWorkers     int           // Size of the worker pool
	Elapsed        time.Duration // Time since the pass started, final once complete
}

// Progress returns the fraction of tiles merged, in [0, 1]
func (s RenderStats) Progress() float64 {
	if s.TotalTiles == 0 {
		return 1
	}
	return float64(s.CompletedTiles) / float64(s.TotalTiles)
}

// Done reports whether every tile has been merged
func (s RenderStats) Done() bool {
	return s.CompletedTiles == s.TotalTiles
}

// CalculateAverageLuminance returns the mean luminance of every pixel in img
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			total += core.ColorFromRGBA(img.At(x, y)).Luminance()
		}
	}
	return total / float64(bounds.Dx()*bounds.Dy())
}
