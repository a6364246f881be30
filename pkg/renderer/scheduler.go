package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/scene"
)

// ErrWorkerPoolClosed is returned when the results channel closes before
// every tile has been merged. The pass cannot complete.
var ErrWorkerPoolClosed = errors.New("worker pool closed unexpectedly")

// SchedulerConfig contains configuration for tiled rendering
type SchedulerConfig struct {
	TileSize   int // Edge length of the square tiles
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultSchedulerConfig returns sensible default values
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		TileSize:   DefaultTileSize,
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// TileCompletionResult describes a tile that has been merged into the image
type TileCompletionResult struct {
	Tile      Tile
	TileX     int         // Tile coordinates (not pixel coordinates)
	TileY     int         // Tile coordinates (not pixel coordinates)
	TileImage *image.RGBA // Image data for just this tile

	// Progress information
	TileNumber int // Merge order of this tile (1-based)
	TotalTiles int // Total number of tiles in the image
}

// Scheduler splits the image into tiles, feeds them to a worker pool one
// tile per worker at a time, and merges finished tiles into the output
// image. All methods except Stop must be called from a single goroutine,
// which is the only writer of the output image.
type Scheduler struct {
	scene      *scene.Scene
	config     SchedulerConfig
	tiles      []Tile
	nextTile   int // Index of the next tile to dispatch
	merged     int // Tiles merged so far
	img        *image.RGBA
	workerPool *WorkerPool
	logger     core.Logger
	startTime  time.Time
	elapsed    time.Duration
	started    bool
	done       bool
}

// NewScheduler creates a scheduler for one render pass of s
func NewScheduler(s *scene.Scene, config SchedulerConfig, logger core.Logger) *Scheduler {
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	return &Scheduler{
		scene:      s,
		config:     config,
		tiles:      NewTileGrid(s.Width(), s.Height(), config.TileSize),
		img:        image.NewRGBA(image.Rect(0, 0, s.Width(), s.Height())),
		workerPool: NewWorkerPool(s, config.NumWorkers),
		logger:     logger,
	}
}

// Start launches the workers and seeds each with one tile
func (sc *Scheduler) Start() {
	if sc.started {
		return
	}
	sc.started = true
	sc.startTime = time.Now()

	sc.logger.Printf("Rendering %dx%d in %d tiles using %d workers...\n",
		sc.scene.Width(), sc.scene.Height(), len(sc.tiles), sc.workerPool.GetNumWorkers())

	sc.workerPool.Start()
	for workerID := 0; workerID < sc.workerPool.GetNumWorkers(); workerID++ {
		if !sc.dispatch(workerID) {
			break
		}
	}

	if len(sc.tiles) == 0 {
		sc.finish()
	}
}

// dispatch sends the next pending tile to a worker. It returns false when
// no tiles remain or the pool has been stopped.
func (sc *Scheduler) dispatch(workerID int) bool {
	if sc.nextTile >= len(sc.tiles) {
		return false
	}
	if err := sc.workerPool.Submit(workerID, TileTask{Tile: sc.tiles[sc.nextTile]}); err != nil {
		return false
	}
	sc.nextTile++
	return true
}

// Poll merges every tile that has finished since the last call without
// blocking and returns them in merge order. It is meant to be called at
// the presentation layer's own cadence, e.g. once per display refresh.
func (sc *Scheduler) Poll() ([]TileCompletionResult, error) {
	if !sc.started {
		return nil, errors.New("scheduler not started")
	}

	var completed []TileCompletionResult
	for !sc.done {
		select {
		case result, ok := <-sc.workerPool.Results():
			if !ok {
				return completed, ErrWorkerPoolClosed
			}
			tileResult, err := sc.handleResult(result)
			if err != nil {
				return completed, err
			}
			completed = append(completed, tileResult)
		default:
			return completed, nil
		}
	}
	return completed, nil
}

// Wait blocks until every tile has been merged, calling tileCallback after
// each merge. Cancelling ctx stops the pass.
func (sc *Scheduler) Wait(ctx context.Context, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	sc.Start()

	for !sc.done {
		select {
		case <-ctx.Done():
			sc.logger.Printf("Rendering cancelled after %d of %d tiles\n", sc.merged, len(sc.tiles))
			sc.Stop()
			return nil, sc.Stats(), ctx.Err()
		case result, ok := <-sc.workerPool.Results():
			if !ok {
				return nil, sc.Stats(), ErrWorkerPoolClosed
			}
			tileResult, err := sc.handleResult(result)
			if err != nil {
				return nil, sc.Stats(), err
			}
			if tileCallback != nil {
				tileCallback(tileResult)
			}
		}
	}

	return sc.img, sc.Stats(), nil
}

// handleResult merges a finished tile and keeps its worker busy
func (sc *Scheduler) handleResult(result RenderResult) (TileCompletionResult, error) {
	if result.Error != nil {
		sc.Stop()
		return TileCompletionResult{}, fmt.Errorf("tile %d: %w", result.Tile.ID, result.Error)
	}

	bounds := result.Tile.Bounds
	xdraw.Draw(sc.img, bounds, result.Pixels, image.Point{}, xdraw.Src)
	sc.merged++

	sc.dispatch(result.WorkerID)

	tileResult := TileCompletionResult{
		Tile:       result.Tile,
		TileX:      bounds.Min.X / sc.config.TileSize,
		TileY:      bounds.Min.Y / sc.config.TileSize,
		TileImage:  result.Pixels,
		TileNumber: sc.merged,
		TotalTiles: len(sc.tiles),
	}

	if sc.merged == len(sc.tiles) {
		sc.finish()
	}
	return tileResult, nil
}

// finish records the elapsed time and releases the workers
func (sc *Scheduler) finish() {
	sc.done = true
	sc.elapsed = time.Since(sc.startTime)
	sc.workerPool.Stop()
	sc.logger.Printf("Render completed in %v\n", sc.elapsed)
}

// Stop releases the workers. Tiles still in flight are discarded.
func (sc *Scheduler) Stop() {
	sc.workerPool.Stop()
}

// Done reports whether every tile has been merged
func (sc *Scheduler) Done() bool {
	return sc.done
}

// Image returns the output image. Tiles not yet merged are transparent black.
func (sc *Scheduler) Image() *image.RGBA {
	return sc.img
}

// Stats returns the progress of the pass
func (sc *Scheduler) Stats() RenderStats {
	elapsed := sc.elapsed
	if !sc.done && sc.started {
		elapsed = time.Since(sc.startTime)
	}
	return RenderStats{
		TotalPixels:    sc.scene.Width() * sc.scene.Height(),
		TotalTiles:     len(sc.tiles),
		CompletedTiles: sc.merged,
		NumWorkers:     sc.workerPool.GetNumWorkers(),
		Elapsed:        elapsed,
	}
}

// RenderTiled renders s with a fresh scheduler and blocks until done
func RenderTiled(ctx context.Context, s *scene.Scene, config SchedulerConfig, logger core.Logger) (*image.RGBA, RenderStats, error) {
	return NewScheduler(s, config, logger).Wait(ctx, nil)
}
