package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to the scene file (json type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const builtInGroup = "Built-in Scenes"

// BuiltInScenes lists the scenes constructed in code
func BuiltInScenes() []SceneInfo {
	return []SceneInfo{
		{
			ID:          "default",
			DisplayName: "Default Scene",
			Description: "Three spheres over a reflective ground plane",
			Group:       builtInGroup,
			Type:        "builtin",
		},
		{
			ID:          "sphere-grid",
			DisplayName: "Sphere Grid",
			Description: "10x10 grid of colored and mirrored spheres",
			Group:       builtInGroup,
			Type:        "builtin",
		},
		{
			ID:          "cornell",
			DisplayName: "Cornell Box",
			Description: "Colored walls with a mirror and a glossy sphere",
			Group:       builtInGroup,
			Type:        "builtin",
		},
		{
			ID:          "meshes",
			DisplayName: "Triangle Meshes",
			Description: "Box, pyramid and icosahedron built from triangles",
			Group:       builtInGroup,
			Type:        "builtin",
		},
		{
			ID:          "textures",
			DisplayName: "Texture Test",
			Description: "Generated textures on spheres, a mesh and the ground",
			Group:       builtInGroup,
			Type:        "builtin",
		},
	}
}

// NewBuiltInScene returns the built-in scene with the given ID
func NewBuiltInScene(id string, width, height int) (*Scene, bool) {
	switch id {
	case "default":
		return NewDefaultScene(width, height), true
	case "sphere-grid":
		return NewSphereGridScene(width, height, 10), true
	case "cornell":
		return NewCornellScene(width, height), true
	case "meshes":
		return NewTriangleMeshScene(width, height), true
	case "textures":
		return NewTextureTestScene(width, height), true
	default:
		return nil, false
	}
}

// sceneMetadata holds the descriptive fields of a JSON scene file
type sceneMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Group       string `json:"group"`
}

// ListJSONScenes scans dir for *.json scene files
func ListJSONScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		// No scenes directory, nothing to list
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		scenes = append(scenes, parseSceneMetadata(filePath))
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// parseSceneMetadata reads the optional name/description/group fields of a
// scene file, falling back to values derived from the file name
func parseSceneMetadata(filePath string) SceneInfo {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	info := SceneInfo{
		ID:          nameWithoutExt,
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scene Files",
		Type:        "json",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info
	}
	var meta sceneMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return info
	}
	if meta.Name != "" {
		info.DisplayName = meta.Name
	}
	if meta.Group != "" {
		info.Group = meta.Group
	}
	info.Description = meta.Description
	return info
}

// ListAllScenes returns built-in scenes and the scene files in dir, grouped
// by category with the built-in group first
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	fileScenes, err := ListJSONScenes(dir)
	if err != nil {
		return response, err
	}

	allScenes := append(BuiltInScenes(), fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, info := range allScenes {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtInGroup,
		Scenes: groupMap[builtInGroup],
	})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "mirror-room" -> "Mirror Room"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
