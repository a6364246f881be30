package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// CameraConfig describes the image and the pinhole camera producing it
type CameraConfig struct {
	Width    int        // Image width in pixels
	Height   int        // Image height in pixels
	FOV      float64    // Vertical field of view in degrees
	Position mgl64.Vec3 // Eye position
	LookAt   mgl64.Vec3 // Point the camera looks at
	Up       mgl64.Vec3 // Up hint
}

// DefaultCameraConfig looks down -z from the origin with +y up
func DefaultCameraConfig(width, height int, fov float64) CameraConfig {
	return CameraConfig{
		Width:    width,
		Height:   height,
		FOV:      fov,
		Position: mgl64.Vec3{0, 0, 0},
		LookAt:   mgl64.Vec3{0, 0, -1},
		Up:       mgl64.Vec3{0, 1, 0},
	}
}

// Camera generates one primary ray per pixel
type Camera struct {
	config    CameraConfig
	fovFactor float64
	aspect    float64
	right     mgl64.Vec3
	up        mgl64.Vec3
	forward   mgl64.Vec3
}

// NewCamera creates a camera from its configuration
func NewCamera(config CameraConfig) *Camera {
	forward := core.Normalize(config.LookAt.Sub(config.Position))
	right := core.Normalize(forward.Cross(config.Up))
	up := right.Cross(forward)

	return &Camera{
		config:    config,
		fovFactor: math.Tan(config.FOV * math.Pi / 180 / 2),
		aspect:    float64(config.Width) / float64(config.Height),
		right:     right,
		up:        up,
		forward:   forward,
	}
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// GetRay returns the ray through the center of pixel (x, y). y grows downward.
func (c *Camera) GetRay(x, y int) core.Ray {
	// Screen coordinates in [0, 1]
	x01 := (float64(x) + 0.5) / float64(c.config.Width)
	y01 := (float64(y) + 0.5) / float64(c.config.Height)

	// Translate to [-1, 1], flipping y so +1 is the top row
	xRelative := x01*2 - 1
	yRelative := -(y01*2 - 1)

	rayX := xRelative * c.aspect * c.fovFactor
	rayY := yRelative * c.fovFactor

	direction := c.right.Mul(rayX).Add(c.up.Mul(rayY)).Add(c.forward)
	return core.NewRay(c.config.Position, direction)
}
