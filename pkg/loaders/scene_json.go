package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/geometry"
	"github.com/df07/go-tile-raytracer/pkg/lights"
	"github.com/df07/go-tile-raytracer/pkg/material"
	"github.com/df07/go-tile-raytracer/pkg/scene"
)

// SceneDocument is the JSON form of a scene
type SceneDocument struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`

	Width             int                 `json:"width"`
	Height            int                 `json:"height"`
	FOV               float64             `json:"fov"`
	Camera            *CameraDocument     `json:"camera,omitempty"`
	ClearColor        [3]float64          `json:"clear_color"`
	AmbientLightColor [3]float64          `json:"ambient_light_color"`
	MaxRecursionDepth int                 `json:"max_recursion_depth"`
	Primitives        []PrimitiveDocument `json:"primitives"`
	Lights            []LightDocument     `json:"lights"`
}

// CameraDocument places the camera. Missing fields take the defaults of
// scene.DefaultCameraConfig.
type CameraDocument struct {
	Position *[3]float64 `json:"position,omitempty"`
	LookAt   *[3]float64 `json:"look_at,omitempty"`
	Up       *[3]float64 `json:"up,omitempty"`
}

// PrimitiveDocument is a sphere, plane or mesh, selected by Type
type PrimitiveDocument struct {
	Type     string           `json:"type"`
	Center   *[3]float64      `json:"center,omitempty"`
	Radius   float64          `json:"radius,omitempty"`
	Point    *[3]float64      `json:"point,omitempty"`
	Normal   *[3]float64      `json:"normal,omitempty"`
	Path     string           `json:"path,omitempty"`
	Material MaterialDocument `json:"material"`
}

// MaterialDocument is the JSON form of material.Material
type MaterialDocument struct {
	Coloration      ColorationDocument `json:"coloration"`
	Albedo          float64            `json:"albedo"`
	Reflectivity    float64            `json:"reflectivity,omitempty"`
	Transparency    float64            `json:"transparency,omitempty"`
	RefractiveIndex float64            `json:"refractive_index,omitempty"`
}

// ColorationDocument holds exactly one of a flat color or a texture path
type ColorationDocument struct {
	Color   *[3]float64 `json:"color,omitempty"`
	Texture string      `json:"texture,omitempty"`
}

// LightDocument is a directional or point light, selected by Type
type LightDocument struct {
	Type      string      `json:"type"`
	Direction *[3]float64 `json:"direction,omitempty"`
	Position  *[3]float64 `json:"position,omitempty"`
	Color     [3]float64  `json:"color"`
	Intensity float64     `json:"intensity"`
}

// LoadScene reads a scene file. Relative asset paths are resolved against
// the directory containing the file and kept as absolute paths. A nil resolver reads textures from disk.
func LoadScene(path string, resolver ImageResolver) (*scene.Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := DecodeScene(file, filepath.Dir(path), resolver)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene %s: %w", path, err)
	}
	return s, nil
}

// DecodeScene reads a JSON scene document and builds the scene, loading
// every referenced asset
func DecodeScene(r io.Reader, baseDir string, resolver ImageResolver) (*scene.Scene, error) {
	var doc SceneDocument
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid scene document: %w", err)
	}
	return BuildScene(doc, baseDir, resolver)
}

// BuildScene converts a decoded document into a validated scene
func BuildScene(doc SceneDocument, baseDir string, resolver ImageResolver) (*scene.Scene, error) {
	if resolver == nil {
		resolver = FileImageResolver{}
	}
	b := &sceneBuilder{baseDir: baseDir, resolver: resolver}

	primitives := make([]geometry.Primitive, 0, len(doc.Primitives))
	for i, p := range doc.Primitives {
		primitive, err := b.primitive(p)
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", i, err)
		}
		primitives = append(primitives, primitive)
	}

	lightList := make([]lights.Light, 0, len(doc.Lights))
	for i, l := range doc.Lights {
		light, err := buildLight(l)
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		lightList = append(lightList, light)
	}

	config := scene.DefaultCameraConfig(doc.Width, doc.Height, doc.FOV)
	if doc.Camera != nil {
		if doc.Camera.Position != nil {
			config.Position = vec3(*doc.Camera.Position)
		}
		if doc.Camera.LookAt != nil {
			config.LookAt = vec3(*doc.Camera.LookAt)
		}
		if doc.Camera.Up != nil {
			config.Up = vec3(*doc.Camera.Up)
		}
	}

	return scene.New(config, primitives, lightList,
		toColor(doc.ClearColor), toColor(doc.AmbientLightColor), doc.MaxRecursionDepth)
}

type sceneBuilder struct {
	baseDir  string
	resolver ImageResolver
}

// resolvePath returns the absolute path of an asset. Paths are stored this
// way so an encoded scene loads from any directory.
func (b *sceneBuilder) resolvePath(path string) (string, error) {
	if !filepath.IsAbs(path) && b.baseDir != "" {
		path = filepath.Join(b.baseDir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return abs, nil
}

func (b *sceneBuilder) primitive(doc PrimitiveDocument) (geometry.Primitive, error) {
	mat, err := b.material(doc.Material)
	if err != nil {
		return nil, fmt.Errorf("material: %w", err)
	}

	switch doc.Type {
	case "sphere":
		if doc.Center == nil {
			return nil, errors.New("sphere requires a center")
		}
		if doc.Radius <= 0 {
			return nil, fmt.Errorf("sphere radius must be positive, got %g", doc.Radius)
		}
		return geometry.NewSphere(vec3(*doc.Center), doc.Radius, mat), nil
	case "plane":
		if doc.Point == nil || doc.Normal == nil {
			return nil, errors.New("plane requires a point and a normal")
		}
		normal := vec3(*doc.Normal)
		if normal.LenSqr() == 0 {
			return nil, errors.New("plane normal must not be zero")
		}
		return geometry.NewPlane(vec3(*doc.Point), normal, mat), nil
	case "mesh":
		if doc.Path == "" {
			return nil, errors.New("mesh requires a path")
		}
		path, err := b.resolvePath(doc.Path)
		if err != nil {
			return nil, err
		}
		data, err := LoadPLY(path)
		if err != nil {
			return nil, err
		}
		return geometry.NewMesh(path, data.Vertices, data.Faces, data.TexCoords, mat)
	default:
		return nil, fmt.Errorf("unknown primitive type %q", doc.Type)
	}
}

func (b *sceneBuilder) material(doc MaterialDocument) (*material.Material, error) {
	var coloration material.Coloration
	switch {
	case doc.Coloration.Color != nil && doc.Coloration.Texture != "":
		return nil, errors.New("coloration must be either a color or a texture, not both")
	case doc.Coloration.Color != nil:
		coloration = material.NewFlatColor(toColor(*doc.Coloration.Color))
	case doc.Coloration.Texture != "":
		path, err := b.resolvePath(doc.Coloration.Texture)
		if err != nil {
			return nil, fmt.Errorf("texture: %w", err)
		}
		texture, err := b.resolver.ResolveTexture(path)
		if err != nil {
			return nil, fmt.Errorf("texture: %w", err)
		}
		coloration = texture
	default:
		return nil, errors.New("coloration requires a color or a texture")
	}

	return &material.Material{
		Coloration:      coloration,
		Albedo:          doc.Albedo,
		Reflectivity:    doc.Reflectivity,
		Transparency:    doc.Transparency,
		RefractiveIndex: doc.RefractiveIndex,
	}, nil
}

func buildLight(doc LightDocument) (lights.Light, error) {
	if doc.Intensity < 0 {
		return nil, fmt.Errorf("intensity must not be negative, got %g", doc.Intensity)
	}

	switch doc.Type {
	case "directional":
		if doc.Direction == nil {
			return nil, errors.New("directional light requires a direction")
		}
		direction := vec3(*doc.Direction)
		if direction.LenSqr() == 0 {
			return nil, errors.New("light direction must not be zero")
		}
		return lights.NewDirectionalLight(direction, toColor(doc.Color), doc.Intensity), nil
	case "point":
		if doc.Position == nil {
			return nil, errors.New("point light requires a position")
		}
		return lights.NewPointLight(vec3(*doc.Position), toColor(doc.Color), doc.Intensity), nil
	default:
		return nil, fmt.Errorf("unknown light type %q", doc.Type)
	}
}

// EncodeScene writes s as an indented JSON document. Textures and meshes are
// written as their paths.
func EncodeScene(w io.Writer, s *scene.Scene) error {
	doc, err := NewSceneDocument(s)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// NewSceneDocument converts a scene back into its JSON form
func NewSceneDocument(s *scene.Scene) (SceneDocument, error) {
	config := s.CameraConfig
	doc := SceneDocument{
		Width:             config.Width,
		Height:            config.Height,
		FOV:               config.FOV,
		ClearColor:        array(s.ClearColor),
		AmbientLightColor: array(s.AmbientLightColor),
		MaxRecursionDepth: s.MaxRecursionDepth,
		Camera: &CameraDocument{
			Position: vecArray(config.Position),
			LookAt:   vecArray(config.LookAt),
			Up:       vecArray(config.Up),
		},
		Primitives: make([]PrimitiveDocument, 0, len(s.Primitives)),
		Lights:     make([]LightDocument, 0, len(s.Lights)),
	}

	for i, primitive := range s.Primitives {
		var p PrimitiveDocument
		var mat *material.Material
		switch prim := primitive.(type) {
		case *geometry.Sphere:
			p = PrimitiveDocument{Type: "sphere", Center: vecArray(prim.Center), Radius: prim.Radius}
			mat = prim.Material
		case *geometry.Plane:
			p = PrimitiveDocument{Type: "plane", Point: vecArray(prim.Point), Normal: vecArray(prim.Normal)}
			mat = prim.Material
		case *geometry.Mesh:
			if prim.Path == "" {
				return SceneDocument{}, fmt.Errorf("primitive %d: mesh has no source path", i)
			}
			p = PrimitiveDocument{Type: "mesh", Path: prim.Path}
			mat = prim.Material
		default:
			return SceneDocument{}, fmt.Errorf("primitive %d: unsupported type %T", i, primitive)
		}

		md, err := materialDocument(mat)
		if err != nil {
			return SceneDocument{}, fmt.Errorf("primitive %d: %w", i, err)
		}
		p.Material = md
		doc.Primitives = append(doc.Primitives, p)
	}

	for i, light := range s.Lights {
		switch l := light.(type) {
		case *lights.DirectionalLight:
			doc.Lights = append(doc.Lights, LightDocument{Type: "directional",
				Direction: vecArray(l.Direction), Color: array(l.LightColor), Intensity: l.Intensity})
		case *lights.PointLight:
			doc.Lights = append(doc.Lights, LightDocument{Type: "point",
				Position: vecArray(l.Position), Color: array(l.LightColor), Intensity: l.Intensity})
		default:
			return SceneDocument{}, fmt.Errorf("light %d: unsupported type %T", i, light)
		}
	}

	return doc, nil
}

func materialDocument(mat *material.Material) (MaterialDocument, error) {
	if mat == nil {
		return MaterialDocument{}, errors.New("missing material")
	}
	doc := MaterialDocument{
		Albedo:          mat.Albedo,
		Reflectivity:    mat.Reflectivity,
		Transparency:    mat.Transparency,
		RefractiveIndex: mat.RefractiveIndex,
	}
	switch c := mat.Coloration.(type) {
	case material.FlatColor:
		rgb := array(c.Color)
		doc.Coloration.Color = &rgb
	case *material.Texture:
		if c.Path == "" {
			return MaterialDocument{}, errors.New("generated texture has no source path")
		}
		doc.Coloration.Texture = c.Path
	default:
		return MaterialDocument{}, fmt.Errorf("unsupported coloration %T", mat.Coloration)
	}
	return doc, nil
}

func vec3(a [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{a[0], a[1], a[2]}
}

func vecArray(v mgl64.Vec3) *[3]float64 {
	a := [3]float64{v[0], v[1], v[2]}
	return &a
}

func toColor(a [3]float64) core.Color {
	return core.NewColor(a[0], a[1], a[2])
}

func array(c core.Color) [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}
