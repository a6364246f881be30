package renderer

import (
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/df07/go-tile-raytracer/pkg/scene"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestWorkerPool(t *testing.T) {
	s := scene.NewDefaultScene(16, 16)
	wp := NewWorkerPool(s, 2)
	if wp.GetNumWorkers() != 2 {
		t.Fatalf("Expected 2 workers, got %d", wp.GetNumWorkers())
	}
	wp.Start()

	tiles := NewTileGrid(16, 16, 8)
	for i := 0; i < 2; i++ {
		if err := wp.Submit(i, TileTask{Tile: tiles[i]}); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	seenWorkers := make(map[int]bool)
	for i := 0; i < 2; i++ {
		result := <-wp.Results()
		if result.Error != nil {
			t.Fatalf("Tile %d failed: %v", result.Tile.ID, result.Error)
		}
		if result.Pixels.Bounds() != image.Rect(0, 0, 8, 8) {
			t.Errorf("Expected 8x8 tile image, got %v", result.Pixels.Bounds())
		}
		// Each worker renders the tile it was given
		if result.Tile.ID != result.WorkerID {
			t.Errorf("Worker %d returned tile %d", result.WorkerID, result.Tile.ID)
		}
		seenWorkers[result.WorkerID] = true
	}
	if len(seenWorkers) != 2 {
		t.Errorf("Expected results from both workers, got %v", seenWorkers)
	}

	wp.Stop()
	wp.Stop() // Safe to repeat

	if _, ok := <-wp.Results(); ok {
		t.Error("Expected results channel to be closed")
	}
	if err := wp.Submit(0, TileTask{Tile: tiles[2]}); !errors.Is(err, ErrWorkerPoolClosed) {
		t.Errorf("Expected ErrWorkerPoolClosed after Stop, got %v", err)
	}
}

func TestWorkerPool_ReportsRenderErrors(t *testing.T) {
	s := scene.NewDefaultScene(8, 8)
	wp := NewWorkerPool(s, 1)
	wp.Start()
	defer wp.Stop()

	if err := wp.Submit(0, TileTask{Tile: Tile{ID: 0, Bounds: image.Rect(0, 0, 16, 16)}}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	result := <-wp.Results()
	if !errors.Is(result.Error, ErrAreaOutOfBounds) {
		t.Errorf("Expected ErrAreaOutOfBounds, got %v", result.Error)
	}
}

func TestNewWorkerPool_DefaultSize(t *testing.T) {
	wp := NewWorkerPool(scene.NewDefaultScene(8, 8), 0)
	if wp.GetNumWorkers() != DefaultNumWorkers() || wp.GetNumWorkers() < 1 {
		t.Errorf("Expected %d workers, got %d", DefaultNumWorkers(), wp.GetNumWorkers())
	}
	wp.Stop()
}
