package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/labstack/echo/v4"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/material"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
	"github.com/df07/go-tile-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	TexCoords    [2]float64             `json:"texCoords"`
	Color        string                 `json:"color"` // Shaded pixel color as #rrggbb
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult contains the closest hit along a pixel's primary ray
type InspectResult struct {
	Hit       bool
	Record    geometry.Hit
	Primitive geometry.Primitive // The primitive that was hit
	Ray       core.Ray
}

// inspectPixel casts the primary ray through a pixel and reports what it hits
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	ray := sceneObj.Camera.GetRay(pixelX, pixelY)

	// Scene.Trace doesn't say which primitive was hit, so track it here
	result := InspectResult{Ray: ray}
	for _, primitive := range sceneObj.Primitives {
		if hit, ok := primitive.Intersect(ray); ok && (!result.Hit || hit.Closer(result.Record)) {
			result = InspectResult{Hit: true, Record: hit, Primitive: primitive, Ray: ray}
		}
	}
	return result
}

// extractMaterialInfo describes a material
func extractMaterialInfo(mat *material.Material) map[string]interface{} {
	properties := make(map[string]interface{})
	if mat == nil {
		return properties
	}

	properties["albedo"] = mat.Albedo
	properties["reflectivity"] = mat.Reflectivity
	switch c := mat.Coloration.(type) {
	case material.FlatColor:
		properties["coloration"] = "color"
		properties["color"] = hexColor(c.Color)
	case *material.Texture:
		properties["coloration"] = "texture"
		properties["texture"] = c.Path
		properties["textureSize"] = [2]int{c.Width, c.Height}
	}
	return properties
}

// extractGeometryInfo describes a primitive
func extractGeometryInfo(primitive geometry.Primitive) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := primitive.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["point"] = vecArray(geom.Point)
		properties["normal"] = vecArray(geom.Normal)
		return "plane", properties

	case *geometry.Mesh:
		properties["triangleCount"] = len(geom.Triangles)
		properties["path"] = geom.Path
		return "mesh", properties

	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(c echo.Context) error {
	req, err := parseSceneRequest(c.QueryParams())
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
	}

	pixelX, err := strconv.Atoi(c.QueryParam("x"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
	}
	pixelY, err := strconv.Atoi(c.QueryParam("y"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if pixelX < 0 || pixelX >= sceneObj.Width() || pixelY < 0 || pixelY >= sceneObj.Height() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	shaded := renderer.CastRay(sceneObj, result.Ray, 0)
	if !result.Hit {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false, Color: hexColor(shaded)})
	}

	geometryType, geometryProps := extractGeometryInfo(result.Primitive)
	hit := result.Record
	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		Point:        vecArray(hit.Point),
		Normal:       vecArray(hit.Normal),
		Distance:     hit.Distance,
		TexCoords:    [2]float64{hit.TexCoords.X, hit.TexCoords.Y},
		Color:        hexColor(shaded),
		Properties: map[string]interface{}{
			"geometry": geometryProps,
			"material": extractMaterialInfo(hit.Material),
		},
	})
}

func vecArray(v mgl64.Vec3) [3]float64 {
	return [3]float64{v[0], v[1], v[2]}
}

func hexColor(c core.Color) string {
	rgba := c.ToRGBA()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}
