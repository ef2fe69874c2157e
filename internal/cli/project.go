package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/macropower/ktconf/pkg/config"
	"github.com/macropower/ktconf/pkg/log"
)

// loadProjectConfig returns the project configuration for path and the file
// it came from. An explicit --config path must exist. Otherwise the nearest
// project configuration file is used, and defaults apply when there is none.
func loadProjectConfig(ctx context.Context, ra *RootArgs, path string) (*config.ProjectConfig, string, error) {
	logger := log.FromContext(ctx)

	configPath := ra.ConfigPath
	if configPath == "" {
		var err error

		configPath, err = config.FindProjectConfig(path)
		if err != nil {
			return nil, "", fmt.Errorf("find project config: %w", err)
		}
	}

	if configPath == "" {
		logger.DebugContext(ctx, "no project config found, using defaults", slog.String("path", path))

		cfg := config.NewProjectConfig()
		cfg.EnsureDefaults()

		return cfg, "", nil
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("load project config: %w", err)
	}

	logger.DebugContext(ctx, "loaded project config", slog.String("path", configPath))

	return cfg, configPath, nil
}
