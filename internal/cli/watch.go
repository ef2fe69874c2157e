package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/ktconf/pkg/config"
	"github.com/macropower/ktconf/pkg/engine"
	"github.com/macropower/ktconf/pkg/log"
	"github.com/macropower/ktconf/pkg/override"
	"github.com/macropower/ktconf/pkg/watch"
)

const watchLong = `Watch the editorconfig chain of a path and invalidate cached state on change.

The project configuration in use is reloaded when it changes. Without one, a
project configuration created later in the watched directory itself is picked
up; one created in a parent directory needs a restart.`

const watchExamples = `  # Watch the editorconfig files that apply to the current directory:
  ktconf watch

  # Use a shorter debounce window:
  ktconf watch ./app --debounce 50ms`

type WatchArgs struct {
	*RootArgs

	Debounce time.Duration
}

func NewWatchArgs(rootArgs *RootArgs) *WatchArgs {
	return &WatchArgs{
		RootArgs: rootArgs,
	}
}

func (wa *WatchArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&wa.Debounce, "debounce", watch.DefaultDebounce,
		"How long to wait for further changes before invalidating")
}

func NewWatchCmd(wa *WatchArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "watch [path]",
		Short:             "Watch the editorconfig chain of a path and invalidate cached state on change",
		Long:              watchLong,
		Example:           watchExamples,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cobra.FixedCompletions(nil, cobra.ShellCompDirectiveFilterDirs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dir, err := startDir(pathArg(args))
			if err != nil {
				return err
			}

			cfg, configPath, err := loadProjectConfig(ctx, wa.RootArgs, dir)
			if err != nil {
				return err
			}

			debounce := cfg.Watch.GetDebounce()
			if cmd.Flags().Changed("debounce") {
				debounce = wa.Debounce
			}

			s, err := newWatchSession(cmd.OutOrStdout(), dir, configPath, debounce)
			if err != nil {
				return err
			}
			defer func() {
				err := s.Close()
				if err != nil {
					log.FromContext(ctx).ErrorContext(ctx, "close watcher", slog.Any("err", err))
				}
			}()

			s.applyConfig(ctx, cfg)

			err = s.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}

			return err
		},
	}
	wa.AddFlags(cmd)

	return cmd
}

// watchSession keeps the cached state for one directory's editorconfig
// chain in sync with the file system.
type watchSession struct {
	out        io.Writer
	cache      *engine.Cache
	watcher    *watch.Watcher
	tracer     trace.Tracer
	dir        string
	configPath string
	report     string
}

func newWatchSession(out io.Writer, dir, configPath string, debounce time.Duration) (*watchSession, error) {
	if configPath != "" {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("get absolute path: %w", err)
		}

		configPath = absPath
	}

	w, err := watch.New(watch.WithDebounce(debounce))
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &watchSession{
		out:        out,
		cache:      engine.NewCache(),
		watcher:    w,
		tracer:     otel.Tracer("watch"),
		dir:        dir,
		configPath: configPath,
	}, nil
}

// Run prints the initial chain and then reacts to changes until ctx is done.
func (s *watchSession) Run(ctx context.Context) error {
	err := s.refresh(ctx)
	if err != nil {
		return err
	}

	log.FromContext(ctx).InfoContext(ctx, "watching for changes",
		slog.String("dir", s.dir),
		slog.Int("files", len(s.watcher.Files())),
	)

	return s.watcher.Run(ctx, s.onChange) //nolint:wrapcheck // Context and close errors are returned as is.
}

func (s *watchSession) Close() error {
	return s.watcher.Close() //nolint:wrapcheck // Already wrapped.
}

func (s *watchSession) onChange(ctx context.Context, changed []string) error {
	ctx, span := s.tracer.Start(ctx, "change", trace.WithAttributes(
		attribute.StringSlice("files", changed),
	))
	defer span.End()

	if s.configPath == "" {
		s.configPath = s.createdConfig(changed)
	}

	editorConfigs := slices.DeleteFunc(slices.Clone(changed), s.isConfigCandidate)

	if s.configPath != "" && slices.Contains(changed, s.configPath) {
		cfg, err := config.LoadFile(s.configPath)
		if err != nil {
			// Keep the previous overrides.
			log.FromContext(ctx).ErrorContext(ctx, "reload project config", slog.Any("err", err))
		} else {
			s.applyConfig(ctx, cfg)
		}
	}

	err := engine.InvalidateIfChanged(ctx, editorConfigs, s.cache, log.FromContext(ctx))
	if err != nil {
		span.RecordError(err)

		return fmt.Errorf("invalidate: %w", err)
	}

	return s.refresh(ctx)
}

// configCandidates returns the project configuration files watched while
// none is in use.
func (s *watchSession) configCandidates() []string {
	paths := make([]string, 0, len(config.ProjectConfigFileNames))
	for _, name := range config.ProjectConfigFileNames {
		paths = append(paths, filepath.Join(s.dir, name))
	}

	return paths
}

func (s *watchSession) isConfigCandidate(path string) bool {
	if path == s.configPath {
		return true
	}

	return s.configPath == "" && slices.Contains(s.configCandidates(), path)
}

// createdConfig returns the first candidate in changed that now exists as a
// regular file, or "".
func (s *watchSession) createdConfig(changed []string) string {
	for _, path := range s.configCandidates() {
		if !slices.Contains(changed, path) {
			continue
		}

		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path
		}
	}

	return ""
}

// applyConfig hands the overrides derived from cfg to the engine, reporting
// them when they differ from the current ones.
func (s *watchSession) applyConfig(ctx context.Context, cfg *config.ProjectConfig) {
	set := override.FromParams(cfg.Params())
	if set.Equal(s.cache.Overrides()) {
		return
	}

	s.cache.ApplyOverrides(set)

	log.FromContext(ctx).InfoContext(ctx, "applied overrides",
		slog.Int("count", set.Len()),
		slog.String("overrides", set.String()),
	)
}

// refresh re-resolves the chain, re-targets the watcher at it, and prints
// what changed.
func (s *watchSession) refresh(ctx context.Context) error {
	entries, err := resolveChain(s.cache, s.dir)
	if err != nil {
		return err
	}

	files := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		files = append(files, e.Path)
	}
	if s.configPath != "" {
		files = append(files, s.configPath)
	} else {
		files = append(files, s.configCandidates()...)
	}

	err = s.watcher.SetFiles(ctx, files)
	if err != nil {
		return fmt.Errorf("watch files: %w", err)
	}

	report := formatChain(entries, true, time.Time{})
	if report != s.report {
		out := report
		if s.report != "" {
			out = udiff.Unified("before", "after", s.report, report)
		}

		_, err = io.WriteString(s.out, out)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		s.report = report
	}

	return nil
}
