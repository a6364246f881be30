package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/loaders"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
	"github.com/df07/go-tile-raytracer/pkg/scene"
)

//go:embed static
var staticFiles embed.FS

// DefaultTileSize is the tile size used for streamed renders
const DefaultTileSize = 32

// Image size limits for built-in scenes
const (
	minImageSize = 16
	maxImageSize = 2000
)

// Server handles web requests for the tile raytracer
type Server struct {
	port      int
	scenesDir string
	echo      *echo.Echo
	logger    core.Logger
}

// NewServer creates a new web server. Scene files are looked up in scenesDir.
func NewServer(port int, scenesDir string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		port:      port,
		scenesDir: scenesDir,
		echo:      e,
		logger:    renderer.NewDefaultLogger(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(corsMiddleware)

	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/api/scenes", s.handleScenes)
	s.echo.GET("/api/scene-config", s.handleSceneConfig)
	s.echo.GET("/api/render", s.handleRender)
	s.echo.GET("/api/inspect", s.handleInspect)

	s.echo.StaticFS("/", echo.MustSubFS(staticFiles, "static"))
}

// corsMiddleware allows the viewer to be served from another origin
func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}
		return next(c)
	}
}

// Handler exposes the routes for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Printf("Starting web server on http://localhost%s\n", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for open requests up to ctx's deadline
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and the scene files in the scenes directory
func (s *Server) handleScenes(c echo.Context) error {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, response)
}

// handleSceneConfig describes a scene and the request limits
func (s *Server) handleSceneConfig(c echo.Context) error {
	req, err := parseSceneRequest(c.QueryParams())
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	config := sceneObj.CameraConfig
	return c.JSON(http.StatusOK, map[string]interface{}{
		"scene": req.Scene,
		"defaults": map[string]interface{}{
			"width":             config.Width,
			"height":            config.Height,
			"fov":               config.FOV,
			"maxRecursionDepth": sceneObj.MaxRecursionDepth,
			"tileSize":          DefaultTileSize,
			"primitiveCount":    sceneObj.GetPrimitiveCount(),
			"lightCount":        len(sceneObj.Lights),
		},
		"limits": map[string]interface{}{
			"width":    map[string]int{"min": minImageSize, "max": maxImageSize},
			"height":   map[string]int{"min": minImageSize, "max": maxImageSize},
			"tileSize": map[string]int{"min": 8, "max": 512},
		},
	})
}

// SceneRequest selects a scene and, for built-in scenes, its image size
type SceneRequest struct {
	Scene  string `json:"scene"`  // Built-in scene ID or scene file name without extension
	Width  int    `json:"width"`  // Image width, built-in scenes only
	Height int    `json:"height"` // Image height, built-in scenes only
}

// parseSceneRequest parses the scene selection parameters
func parseSceneRequest(values url.Values) (*SceneRequest, error) {
	req := &SceneRequest{Scene: "default"}
	if name := values.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 300, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds a built-in scene or loads a scene file by name
func (s *Server) createScene(req *SceneRequest) (*scene.Scene, error) {
	if sceneObj, ok := scene.NewBuiltInScene(req.Scene, req.Width, req.Height); ok {
		return sceneObj, nil
	}

	if strings.ContainsAny(req.Scene, `/\`) || strings.Contains(req.Scene, "..") {
		return nil, fmt.Errorf("invalid scene name: %s", req.Scene)
	}
	path := filepath.Join(s.scenesDir, req.Scene+".json")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("unknown scene: %s", req.Scene)
	}
	return loaders.LoadScene(path, loaders.FileImageResolver{})
}
