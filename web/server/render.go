package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	SceneRequest
	TileSize   int `json:"tileSize"`   // Edge length of streamed tiles
	NumWorkers int `json:"numWorkers"` // Worker count, 0 = CPU count
}

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX      int    `json:"tileX"`
	TileY      int    `json:"tileY"`
	X          int    `json:"x"` // Pixel position of the tile's top-left corner
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this tile
	TileNumber int    `json:"tileNumber"` // Merge order of this tile (1-based)
	TotalTiles int    `json:"totalTiles"` // Total number of tiles in the image
}

// CompleteUpdate is sent once every tile has been merged
type CompleteUpdate struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	TotalTiles     int     `json:"totalTiles"`
	NumWorkers     int     `json:"numWorkers"`
	PrimitiveCount int     `json:"primitiveCount"`
	ElapsedMs      int64   `json:"elapsedMs"`
	Luminance      float64 `json:"luminance"` // Average luminance of the final image
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "error", "complete"
	Data string `json:"data"` // JSON-encoded data or a plain message
}

// handleRender renders a scene and streams each merged tile via SSE
func (s *Server) handleRender(c echo.Context) error {
	w := c.Response()
	setSSEHeaders(w.Header())
	w.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()

	// Single SSE writer goroutine; every other goroutine sends through the channel
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := parseRenderRequest(c.QueryParams())
	if err != nil {
		sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return nil
	}

	sceneObj, err := s.createScene(&req.SceneRequest)
	if err != nil {
		sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: err.Error()})
		return nil
	}

	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	config := renderer.SchedulerConfig{TileSize: req.TileSize, NumWorkers: req.NumWorkers}
	scheduler := renderer.NewScheduler(sceneObj, config, webLogger)
	img, stats, renderErr := scheduler.Wait(ctx, func(result renderer.TileCompletionResult) {
		handleTileUpdate(ctx, sseEventChan, result)
	})

	// The scheduler logs only from this goroutine, so the console can close now
	close(consoleChan)
	<-consoleDone

	if renderErr != nil {
		if ctx.Err() == nil {
			sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", renderErr)})
		}
		return nil
	}

	data, err := json.Marshal(CompleteUpdate{
		Width:          sceneObj.Width(),
		Height:         sceneObj.Height(),
		TotalTiles:     stats.TotalTiles,
		NumWorkers:     stats.NumWorkers,
		PrimitiveCount: sceneObj.GetPrimitiveCount(),
		ElapsedMs:      stats.Elapsed.Milliseconds(),
		Luminance:      renderer.CalculateAverageLuminance(img),
	})
	if err != nil {
		s.logger.Printf("Error marshaling completion: %v\n", err)
		return nil
	}
	sendEvent(ctx, sseEventChan, SSEEvent{Type: "complete", Data: string(data)})
	return nil
}

// parseRenderRequest parses request parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	sceneReq, err := parseSceneRequest(values)
	if err != nil {
		return nil, err
	}

	req := &RenderRequest{SceneRequest: *sceneReq}
	if req.TileSize, err = parseIntParam(values, "tileSize", DefaultTileSize, 8, 512); err != nil {
		return nil, err
	}
	if req.NumWorkers, err = parseIntParam(values, "workers", 0, 0, 256); err != nil {
		return nil, err
	}
	return req, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(h http.Header) {
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
}

// writeSSEEvents writes every SSE event from a single goroutine until the
// channel closes or the client disconnects
func writeSSEEvents(ctx context.Context, w *echo.Response, sseEventChan <-chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			w.Flush()

		case <-ctx.Done():
			return
		}
	}
}

// sendEvent queues an event unless the client has gone
func sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, event SSEEvent) {
	select {
	case sseEventChan <- event:
	case <-ctx.Done():
	}
}

// handleTileUpdate encodes a merged tile and queues it
func handleTileUpdate(ctx context.Context, sseEventChan chan<- SSEEvent, result renderer.TileCompletionResult) {
	tileData, err := imageToBase64PNG(result.TileImage)
	if err != nil {
		sendEvent(ctx, sseEventChan, SSEEvent{Type: "error",
			Data: fmt.Sprintf("Error encoding tile (%d, %d): %v", result.TileX, result.TileY, err)})
		return
	}

	bounds := result.Tile.Bounds
	data, err := json.Marshal(TileUpdate{
		TileX:      result.TileX,
		TileY:      result.TileY,
		X:          bounds.Min.X,
		Y:          bounds.Min.Y,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		ImageData:  tileData,
		TileNumber: result.TileNumber,
		TotalTiles: result.TotalTiles,
	})
	if err != nil {
		return
	}
	sendEvent(ctx, sseEventChan, SSEEvent{Type: "tile", Data: string(data)})
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
