// Package log configures the diagnostic logger of ktconf commands and carries
// it through a [context.Context].
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.opentelemetry.io/otel/trace"

	charmlog "github.com/charmbracelet/log"
)

type contextKey struct{}

// ErrInvalidOption is returned by [New] for an unknown level or format.
var ErrInvalidOption = errors.New("invalid log option")

var (
	// AllLevels lists the values accepted by [Options.Level].
	AllLevels = []string{"error", "warn", "info", "debug"}
	// AllFormats lists the values accepted by [Options.Format].
	AllFormats = []string{"json", "logfmt", "text"}
)

// Options select the level and format of a command logger.
type Options struct {
	Level  string
	Format string
}

// New returns a logger writing to w. The text format is meant for terminals;
// json and logfmt are meant for machines reading a watch session.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	lvl, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(opts.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})), nil
	case "logfmt":
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
	case "text":
		return slog.New(newTerminalHandler(w, lvl)), nil
	}

	return nil, fmt.Errorf("%w: format %q", ErrInvalidOption, opts.Format)
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	}

	return 0, fmt.Errorf("%w: level %q", ErrInvalidOption, level)
}

func newTerminalHandler(w io.Writer, level slog.Level) slog.Handler {
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(int32(level)), //nolint:gosec // G115: one of four known levels.
		ReportTimestamp: true,
		TimeFormat:      time.StampMilli,
	})
	logger.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())

	return logger
}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
// While a span is recording, its shortened trace ID is attached.
func FromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(contextKey{}).(*slog.Logger)
	if !ok {
		logger = slog.Default()
	}

	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger
	}

	traceID := sc.TraceID().String()

	return logger.With(slog.String("trace_id", traceID[:8]))
}
