package renderer

import "image"

// DefaultTileSize is the edge length of the square tiles an image is split into
const DefaultTileSize = 100

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Position in row-major order
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTileGrid splits a width x height image into square tiles in row-major
// order. Tiles on the right and bottom edges are clipped to the image, so
// every pixel belongs to exactly one tile.
func NewTileGrid(width, height, tileSize int) []Tile {
	if width <= 0 || height <= 0 {
		return nil
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	tiles := make([]Tile, 0, tilesX*tilesY)
	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, Tile{
				ID:     len(tiles),
				Bounds: image.Rect(x0, y0, x1, y1),
			})
		}
	}

	return tiles
}
