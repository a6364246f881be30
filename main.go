package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/loaders"
	"github.com/df07/go-tile-raytracer/pkg/preview"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
	"github.com/df07/go-tile-raytracer/pkg/scene"
)

// Process exit codes
const (
	exitOK               = 0
	exitFailure          = 1
	exitInvalidExtension = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// options holds the parsed command line
type options struct {
	scenePath  string
	outputPath string
	workers    int
	tileSize   int
	width      int
	height     int
	preview    bool
	saveOnExit bool
	verbose    bool
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&opts.workers, "workers", 0, "Number of render workers (0 = CPU count)")
	fs.IntVar(&opts.tileSize, "tile", renderer.DefaultTileSize, "Tile edge length in pixels")
	fs.IntVar(&opts.width, "width", 800, "Image width for built-in scenes")
	fs.IntVar(&opts.height, "height", 600, "Image height for built-in scenes")
	fs.BoolVar(&opts.preview, "preview", false, "Show the render in a window while it runs")
	fs.BoolVar(&opts.saveOnExit, "save-on-exit", false, "With -preview, save the image even if the window is closed early")
	fs.BoolVar(&opts.verbose, "v", false, "Log tile progress")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Tile Raytracer")
		fmt.Fprintln(stderr, "Usage: raytracer [options] <scene.json|built-in scene> <output.png|jpg|gif|bmp|tif>")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Built-in scenes:")
		for _, info := range scene.BuiltInScenes() {
			fmt.Fprintf(stderr, "  %s - %s\n", info.ID, info.Description)
		}
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return nil, fmt.Errorf("expected a scene and an output path, got %d arguments", fs.NArg())
	}
	if opts.workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", opts.workers)
	}
	if opts.tileSize <= 0 {
		return nil, fmt.Errorf("tile size must be positive, got %d", opts.tileSize)
	}

	opts.scenePath = fs.Arg(0)
	opts.outputPath = fs.Arg(1)
	return opts, nil
}

// createScene loads a scene file, or builds a built-in scene when no file
// of that name exists
func createScene(name string, width, height int) (*scene.Scene, error) {
	if _, err := os.Stat(name); err != nil {
		if s, ok := scene.NewBuiltInScene(name, width, height); ok {
			return s, nil
		}
	}
	return loaders.LoadScene(name, loaders.FileImageResolver{})
}

func run(args []string, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	logger := renderer.NewLogger(slog.New(slog.NewTextHandler(stderr, nil)))

	s, err := createScene(opts.scenePath, opts.width, opts.height)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	logger.Printf("Loaded %s: %dx%d, %d primitives, %d lights\n",
		opts.scenePath, s.Width(), s.Height(), s.GetPrimitiveCount(), len(s.Lights))

	config := renderer.SchedulerConfig{TileSize: opts.tileSize, NumWorkers: opts.workers}
	if config.NumWorkers == 0 {
		config.NumWorkers = renderer.DefaultNumWorkers()
	}
	sc := renderer.NewScheduler(s, config, logger)

	var img *image.RGBA
	if opts.preview {
		img, err = preview.Run(sc, preview.Options{Title: "Raytracer - " + opts.scenePath, Scale: 1, Logger: logger})
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
		if !sc.Done() {
			if !opts.saveOnExit {
				logger.Printf("Window closed before the render finished, image not saved\n")
				return exitOK
			}
			logger.Printf("Saving partial render (%d of %d tiles)\n", sc.Stats().CompletedTiles, sc.Stats().TotalTiles)
		}
	} else {
		img, err = renderHeadless(sc, logger, opts.verbose)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
	}

	if err := loaders.SaveImage(opts.outputPath, img); err != nil {
		if errors.Is(err, loaders.ErrUnsupportedFormat) {
			fmt.Fprintln(stderr, "Error: invalid file extension")
			return exitInvalidExtension
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	logger.Printf("Render saved as %s\n", opts.outputPath)
	return exitOK
}

// renderHeadless blocks until the render is done or interrupted
func renderHeadless(sc *renderer.Scheduler, logger core.Logger, verbose bool) (*image.RGBA, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	img, stats, err := sc.Wait(ctx, func(result renderer.TileCompletionResult) {
		if verbose {
			logger.Printf("Tile %d/%d done\n", result.TileNumber, result.TotalTiles)
		}
	})
	if err != nil {
		return nil, err
	}

	logger.Printf("Rendered scene in %.3f ms\n", float64(stats.Elapsed.Microseconds())*1e-3)
	return img, nil
}
