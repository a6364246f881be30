// Package preview shows a render in progress in a window, presenting the
// frame buffer as tiles are merged.
package preview

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// Options configures the preview window
type Options struct {
	Title  string
	Scale  int // Window pixels per image pixel
	Logger core.Logger
}

// DefaultOptions returns sensible default values
func DefaultOptions() Options {
	return Options{
		Title: "Raytracer",
		Scale: 1,
	}
}

// Window is an ebiten game that drives a scheduler from its update loop.
// The scheduler is only touched from ebiten's update goroutine.
type Window struct {
	scheduler *renderer.Scheduler
	logger    core.Logger
	frame     *ebiten.Image
	width     int
	height    int
	dirty     bool
	reported  bool
	err       error
}

// NewWindow creates a window presenting the output of sc
func NewWindow(sc *renderer.Scheduler, logger core.Logger) *Window {
	if logger == nil {
		logger = core.NopLogger{}
	}
	bounds := sc.Image().Bounds()
	return &Window{
		scheduler: sc,
		logger:    logger,
		width:     bounds.Dx(),
		height:    bounds.Dy(),
	}
}

// Update polls the scheduler once per tick. Escape closes the window.
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return w.step()
}

// step merges finished tiles and marks the frame for upload
func (w *Window) step() error {
	if w.scheduler.Done() {
		if !w.reported {
			w.reported = true
			stats := w.scheduler.Stats()
			w.logger.Printf("Rendered scene in %.3f ms\n", float64(stats.Elapsed.Microseconds())*1e-3)
		}
		return nil
	}

	tiles, err := w.scheduler.Poll()
	if len(tiles) > 0 {
		w.dirty = true
	}
	if err != nil {
		w.err = fmt.Errorf("render failed: %w", err)
		return w.err
	}
	return nil
}

// Draw uploads the frame buffer when it has changed and presents it
func (w *Window) Draw(screen *ebiten.Image) {
	if w.frame == nil {
		w.frame = ebiten.NewImage(w.width, w.height)
		w.dirty = true
	}
	if w.dirty {
		w.frame.WritePixels(w.scheduler.Image().Pix)
		w.dirty = false
	}
	screen.DrawImage(w.frame, nil)
}

// Layout keeps the logical screen at the image size
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.width, w.height
}

// Err returns the error that ended the render, if any
func (w *Window) Err() error {
	return w.err
}

// Run opens a window, starts the scheduler and blocks until the window is
// closed. The returned image holds every tile merged so far; the scheduler
// reports whether the pass completed.
func Run(sc *renderer.Scheduler, opts Options) (*image.RGBA, error) {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	window := NewWindow(sc, opts.Logger)

	ebiten.SetWindowSize(window.width*opts.Scale, window.height*opts.Scale)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	sc.Start()
	defer sc.Stop()

	if err := ebiten.RunGame(window); err != nil {
		return sc.Image(), err
	}
	return sc.Image(), window.Err()
}
