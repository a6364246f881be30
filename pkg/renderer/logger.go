package renderer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// DefaultLogger implements core.Logger on top of a structured logger
type DefaultLogger struct {
	logger *slog.Logger
}

// Printf logs the formatted message at info level
func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	dl.logger.Info(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// NewDefaultLogger creates a logger writing through slog.Default
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{logger: slog.Default()}
}

// NewLogger wraps l as a core.Logger. A nil l falls back to slog.Default.
func NewLogger(l *slog.Logger) core.Logger {
	if l == nil {
		l = slog.Default()
	}
	return &DefaultLogger{logger: l}
}
