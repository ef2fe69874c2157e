package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/ktconf/pkg/override"
)

var tracer = otel.Tracer("engine")

// Resetter discards any cached state derived from the file at path.
// Resetting the same path twice must be harmless.
type Resetter interface {
	ResetCachedStateForFile(path string) error
}

// ResetterFunc adapts a function to a [Resetter].
type ResetterFunc func(path string) error

func (f ResetterFunc) ResetCachedStateForFile(path string) error {
	return f(path)
}

// Engine is the part of a rule engine this module talks to.
type Engine interface {
	Resetter

	// ApplyOverrides replaces the override set used for subsequent runs.
	// A nil or empty set means no overrides.
	ApplyOverrides(set *override.Set)
}

// InvalidateIfChanged resets the cached state of every changed file.
//
// Nothing happens, and nothing is logged, when changed is empty. Otherwise
// one info record is logged and each distinct path is reset once. The first
// reset failure aborts the operation and is returned; files reset before it
// stay reset.
func InvalidateIfChanged(ctx context.Context, changed []string, r Resetter, logger *slog.Logger) error {
	if len(changed) == 0 {
		return nil
	}

	if logger == nil {
		logger = slog.Default()
	}

	paths := slices.Clone(changed)
	slices.Sort(paths)
	paths = slices.Compact(paths)

	ctx, span := tracer.Start(ctx, "invalidate", trace.WithAttributes(
		attribute.Int("count", len(paths)),
	))
	defer span.End()

	logger.InfoContext(ctx, "editorconfig changed, resetting caches",
		slog.Int("count", len(paths)),
	)

	for _, path := range paths {
		err := r.ResetCachedStateForFile(path)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "reset failed")

			return fmt.Errorf("reset cached state for %s: %w", path, err)
		}
	}

	return nil
}
