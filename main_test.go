package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sphereSceneJSON = `{
  "width": 4, "height": 3, "fov": 90,
  "clear_color": [0, 0, 1],
  "ambient_light_color": [0, 0, 0],
  "max_recursion_depth": 2,
  "primitives": [{"type": "sphere", "center": [0, 0, -5], "radius": 1,
                  "material": {"coloration": {"color": [1, 0, 0]}, "albedo": 0.18}}],
  "lights": [{"type": "directional", "direction": [0, -1, 0], "color": [1, 1, 1], "intensity": 20}]
}`

func writeScene(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sphere.json")
	if err := os.WriteFile(path, []byte(sphereSceneJSON), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}
	return path
}

func TestCreateScene(t *testing.T) {
	scenePath := writeScene(t)

	tests := []struct {
		name        string
		sceneName   string
		expectError bool
		width       int
	}{
		{"scene file", scenePath, false, 4},
		{"default built-in", "default", false, 40},
		{"sphere-grid built-in", "sphere-grid", false, 40},
		{"unknown scene", "nonexistent", true, 0},
		{"missing file", filepath.Join(t.TempDir(), "missing.json"), true, 0},
		{"empty scene name", "", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := createScene(tt.sceneName, 40, 30)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene '%s', but got none", tt.sceneName)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for scene '%s': %v", tt.sceneName, err)
			}
			if s.Width() != tt.width {
				t.Errorf("Expected width %d, got %d", tt.width, s.Width())
			}
		})
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectError bool
	}{
		{"positional only", []string{"scene.json", "out.png"}, false},
		{"with flags", []string{"-workers", "2", "-tile", "16", "scene.json", "out.png"}, false},
		{"missing output", []string{"scene.json"}, true},
		{"too many", []string{"a", "b", "c"}, true},
		{"negative workers", []string{"-workers", "-1", "a", "b"}, true},
		{"zero tile", []string{"-tile", "0", "a", "b"}, true},
		{"unknown flag", []string{"-bogus", "a", "b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseArgs(tt.args, &bytes.Buffer{})
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %v", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if opts.scenePath != "scene.json" || opts.outputPath != "out.png" {
				t.Errorf("Unexpected paths %q, %q", opts.scenePath, opts.outputPath)
			}
		})
	}
}

func TestRun(t *testing.T) {
	scenePath := writeScene(t)
	outDir := t.TempDir()

	tests := []struct {
		name       string
		args       []string
		exitCode   int
		wantOutput string // Substring expected on stderr
		wantFile   string
	}{
		{"png output", []string{"-workers", "2", "-tile", "2", scenePath, filepath.Join(outDir, "out.png")}, exitOK, "Render saved", "out.png"},
		{"bmp output", []string{scenePath, filepath.Join(outDir, "out.bmp")}, exitOK, "Render saved", "out.bmp"},
		{"invalid extension", []string{scenePath, filepath.Join(outDir, "out.xyz")}, exitInvalidExtension, "Error: invalid file extension", ""},
		{"missing scene", []string{filepath.Join(outDir, "missing.json"), filepath.Join(outDir, "x.png")}, exitFailure, "Error:", ""},
		{"unwritable output", []string{scenePath, filepath.Join(outDir, "no-dir", "out.png")}, exitFailure, "Error:", ""},
		{"usage", []string{scenePath}, exitFailure, "Usage:", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			code := run(tt.args, &stderr)
			if code != tt.exitCode {
				t.Errorf("Expected exit code %d, got %d (stderr: %s)", tt.exitCode, code, stderr.String())
			}
			if !strings.Contains(stderr.String(), tt.wantOutput) {
				t.Errorf("Expected stderr to contain %q, got: %s", tt.wantOutput, stderr.String())
			}
			if tt.wantFile != "" {
				if _, err := os.Stat(filepath.Join(outDir, tt.wantFile)); err != nil {
					t.Errorf("Expected %s to be written: %v", tt.wantFile, err)
				}
			}
		})
	}
}

func TestRun_ImageContent(t *testing.T) {
	scenePath := writeScene(t)
	outPath := filepath.Join(t.TempDir(), "out.png")

	if code := run([]string{scenePath, outPath}, &bytes.Buffer{}); code != exitOK {
		t.Fatalf("Expected exit code 0, got %d", code)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Failed to decode output: %v", err)
	}

	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Fatalf("Expected 4x3 image, got %v", img.Bounds())
	}
	// Corners miss the sphere and show the clear color
	r, g, b, _ := img.At(0, 0).RGBA()
	if r != 0 || g != 0 || b != 0xffff {
		t.Errorf("Expected blue clear color at the corner, got (%d, %d, %d)", r, g, b)
	}
}
