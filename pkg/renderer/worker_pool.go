package renderer

import (
	"image"
	"sync"

	"github.com/df07/go-tile-raytracer/pkg/scene"
)

// TileTask asks a worker to render one tile
type TileTask struct {
	Tile Tile
}

// RenderResult is a rendered tile, tagged with the area it covers and the
// worker that produced it
type RenderResult struct {
	Tile     Tile
	WorkerID int
	Pixels   *image.RGBA // Origin at (0, 0), size of Tile.Bounds
	Error    error
}

// WorkerPool runs a fixed set of workers. Each worker has its own inbox
// holding at most one task; all workers report to one shared results
// channel.
type WorkerPool struct {
	workers  []*Worker
	results  chan RenderResult
	wg       sync.WaitGroup
	stopOnce sync.Once

	mu      sync.Mutex // Guards stopped and the inboxes against concurrent close
	stopped bool
}

// Worker renders the tiles sent to its inbox
type Worker struct {
	ID      int
	scene   *scene.Scene
	inbox   chan TileTask
	results chan<- RenderResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// numWorkers <= 0 sizes the pool to the machine.
func NewWorkerPool(s *scene.Scene, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultNumWorkers()
	}

	// Every worker has at most one tile in flight, so sends on results
	// never block once the buffer holds one slot per worker.
	wp := &WorkerPool{
		results: make(chan RenderResult, numWorkers),
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:      i,
			scene:   s,
			inbox:   make(chan TileTask, 1),
			results: wp.results,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop closes every inbox, waits for the workers to finish their current
// tile and closes the results channel. It is safe to call more than once.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		wp.mu.Lock()
		wp.stopped = true
		for _, worker := range wp.workers {
			close(worker.inbox)
		}
		wp.mu.Unlock()

		wp.wg.Wait()
		close(wp.results)
	})
}

// Submit hands a task to a specific worker. The worker must not already
// hold a pending task. Tasks submitted after Stop are rejected with
// ErrWorkerPoolClosed.
func (wp *WorkerPool) Submit(workerID int, task TileTask) error {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.stopped {
		return ErrWorkerPoolClosed
	}
	wp.workers[workerID].inbox <- task
	return nil
}

// Results returns the channel completed tiles are reported on
func (wp *WorkerPool) Results() <-chan RenderResult {
	return wp.results
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return len(wp.workers)
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.inbox {
		pixels, err := RenderArea(w.scene, task.Tile.Bounds)
		w.results <- RenderResult{
			Tile:     task.Tile,
			WorkerID: w.ID,
			Pixels:   pixels,
			Error:    err,
		}
	}
}
