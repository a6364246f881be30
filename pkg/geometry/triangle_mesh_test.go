package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// unitSquare lies in the z=0 plane, wound to face +z
var unitSquare = []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}

func TestNewMesh(t *testing.T) {
	mesh, err := NewMesh("square.ply", unitSquare, []int{0, 1, 2, 0, 2, 3}, nil, testMaterial)
	if err != nil {
		t.Fatalf("NewMesh failed: %v", err)
	}
	if len(mesh.Triangles) != 2 {
		t.Errorf("Expected 2 triangles, got %d", len(mesh.Triangles))
	}
}

func TestNewMesh_Errors(t *testing.T) {
	tests := []struct {
		name      string
		faces     []int
		texCoords []core.Vec2
	}{
		{"incomplete face", []int{0, 1}, nil},
		{"index out of range", []int{0, 1, 4}, nil},
		{"negative index", []int{0, -1, 2}, nil},
		{"texcoord count mismatch", []int{0, 1, 2}, []core.Vec2{{X: 0, Y: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMesh("bad.ply", unitSquare, tt.faces, tt.texCoords, testMaterial); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestNewMesh_SkipsDegenerateFaces(t *testing.T) {
	// Second face repeats a vertex
	mesh, err := NewMesh("", unitSquare, []int{0, 1, 2, 0, 0, 3}, nil, testMaterial)
	if err != nil {
		t.Fatalf("NewMesh failed: %v", err)
	}
	if len(mesh.Triangles) != 1 {
		t.Errorf("Expected degenerate face to be skipped, got %d triangles", len(mesh.Triangles))
	}
}

func TestMesh_Intersect(t *testing.T) {
	texCoords := []core.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	mesh, err := NewMesh("", unitSquare, []int{0, 1, 2, 0, 2, 3}, texCoords, testMaterial)
	if err != nil {
		t.Fatalf("NewMesh failed: %v", err)
	}

	tests := []struct {
		name           string
		origin         mgl64.Vec3
		direction      mgl64.Vec3
		expectHit      bool
		expectedNormal mgl64.Vec3
	}{
		{"front", mgl64.Vec3{0.25, 0.5, 2}, mgl64.Vec3{0, 0, -1}, true, mgl64.Vec3{0, 0, 1}},
		// Both sides are hit, with the normal facing the ray origin
		{"back", mgl64.Vec3{0.75, 0.5, -2}, mgl64.Vec3{0, 0, 1}, true, mgl64.Vec3{0, 0, -1}},
		{"outside", mgl64.Vec3{1.5, 0.5, 2}, mgl64.Vec3{0, 0, -1}, false, mgl64.Vec3{}},
		{"parallel", mgl64.Vec3{0.5, 0.5, 0}, mgl64.Vec3{1, 0, 0}, false, mgl64.Vec3{}},
		{"behind", mgl64.Vec3{0.5, 0.5, 2}, mgl64.Vec3{0, 0, 1}, false, mgl64.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := mesh.Intersect(core.NewRay(tt.origin, tt.direction))
			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t", tt.expectHit, isHit)
			}
			if !tt.expectHit {
				return
			}
			if math.Abs(hit.Distance-2) > 1e-9 {
				t.Errorf("Expected distance 2, got %f", hit.Distance)
			}
			if !vecNear(hit.Normal, tt.expectedNormal, 1e-12) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			// Texture coordinates follow the vertex layout of the square
			if math.Abs(hit.TexCoords.X-tt.origin.X()) > 1e-9 || math.Abs(hit.TexCoords.Y-tt.origin.Y()) > 1e-9 {
				t.Errorf("Expected uv (%f, %f), got %v", tt.origin.X(), tt.origin.Y(), hit.TexCoords)
			}
		})
	}
}

func TestMesh_NearestTriangle(t *testing.T) {
	// Two parallel triangles, the nearer one listed second
	vertices := []mgl64.Vec3{
		{-1, -1, -5}, {1, -1, -5}, {0, 1, -5},
		{-1, -1, -2}, {1, -1, -2}, {0, 1, -2},
	}
	mesh, err := NewMesh("", vertices, []int{0, 1, 2, 3, 4, 5}, nil, testMaterial)
	if err != nil {
		t.Fatalf("NewMesh failed: %v", err)
	}

	hit, ok := mesh.Intersect(core.NewRay(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, -1}))
	if !ok {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.Distance-2) > 1e-9 {
		t.Errorf("Expected nearest triangle at distance 2, got %f", hit.Distance)
	}
}
