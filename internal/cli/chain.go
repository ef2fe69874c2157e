package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/macropower/ktconf/pkg/editorconfig"
	"github.com/macropower/ktconf/pkg/engine"
	"github.com/macropower/ktconf/pkg/log"
)

const chainExamples = `  # List the editorconfig files that apply to the current directory:
  ktconf chain

  # Include whether each file exists, is a root, and when it changed:
  ktconf chain ./app/src --long`

type ChainArgs struct {
	*RootArgs

	Long bool
}

func NewChainArgs(rootArgs *RootArgs) *ChainArgs {
	return &ChainArgs{
		RootArgs: rootArgs,
	}
}

func (ca *ChainArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&ca.Long, "long", "l", false, "Show status and modification time of each file")
}

func NewChainCmd(ca *ChainArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "chain [path]",
		Short:             "List the editorconfig files that apply to a path, nearest first",
		Example:           chainExamples,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cobra.FixedCompletions(nil, cobra.ShellCompDirectiveFilterDirs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dir, err := startDir(pathArg(args))
			if err != nil {
				return err
			}

			cache := engine.NewCache()

			entries, err := resolveChain(cache, dir)
			if err != nil {
				return err
			}

			stats := cache.Stats()
			log.FromContext(ctx).DebugContext(ctx, "resolved editorconfig chain",
				slog.String("dir", dir),
				slog.Int("files", len(entries)),
				slog.Int("cache_hits", stats.Hits),
				slog.Int("cache_misses", stats.Misses),
			)

			var now time.Time
			if ca.Long {
				now = time.Now()
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), formatChain(entries, ca.Long, now))
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			return nil
		},
	}
	ca.AddFlags(cmd)

	return cmd
}

// chainEntry is one element of a resolved editorconfig chain.
type chainEntry struct {
	ModTime time.Time
	Path    string
	Exists  bool
	Root    bool
}

// startDir returns the absolute directory a chain starts from. Paths that
// name a file start from the file's directory.
func startDir(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("get absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}

	if !info.IsDir() {
		return filepath.Dir(absPath), nil
	}

	return absPath, nil
}

// resolveChain walks the chain for dir, checking root markers through cache.
func resolveChain(cache *engine.Cache, dir string) ([]chainEntry, error) {
	var entries []chainEntry

	for path, err := range editorconfig.Locate(dir, editorconfig.WithRootChecker(cache)).All() {
		if err != nil {
			return nil, fmt.Errorf("locate editorconfig files: %w", err)
		}

		entry := chainEntry{Path: path}

		info, err := os.Stat(path)
		switch {
		case err == nil:
			entry.Exists = info.Mode().IsRegular()
			entry.ModTime = info.ModTime()

		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		// Already cached by the walk.
		entry.Root, err = cache.IsRoot(path)
		if err != nil {
			return nil, fmt.Errorf("check root marker: %w", err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// formatChain renders entries one per line. In long form each path is
// preceded by its status and, unless now is zero, its age relative to now.
func formatChain(entries []chainEntry, long bool, now time.Time) string {
	var sb strings.Builder

	for _, e := range entries {
		if !long {
			sb.WriteString(e.Path)
			sb.WriteByte('\n')

			continue
		}

		status := "missing"
		switch {
		case e.Exists && e.Root:
			status = "root"
		case e.Exists:
			status = "present"
		}

		if now.IsZero() {
			fmt.Fprintf(&sb, "%-7s  %s\n", status, e.Path)

			continue
		}

		age := "-"
		if e.Exists {
			age = humanize.RelTime(e.ModTime, now, "ago", "from now")
		}

		fmt.Fprintf(&sb, "%-7s  %-16s  %s\n", status, age, e.Path)
	}

	return sb.String()
}
