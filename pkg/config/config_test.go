package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/ktconf/pkg/config"
	"github.com/macropower/ktconf/pkg/override"
	"github.com/macropower/ktconf/pkg/watch"
)

func TestFindProjectConfig(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		setup   func(t *testing.T) string
		want    string
		wantErr bool
	}{
		"finds config in current directory": {
			setup: func(t *testing.T) string {
				t.Helper()

				dir := t.TempDir()
				err := os.WriteFile(filepath.Join(dir, ".ktconf.yaml"), []byte("kind: ProjectConfiguration\n"), 0o600)
				require.NoError(t, err)

				return dir
			},
			want: ".ktconf.yaml",
		},
		"finds config in parent directory": {
			setup: func(t *testing.T) string {
				t.Helper()

				dir := t.TempDir()
				err := os.WriteFile(filepath.Join(dir, "ktconf.yaml"), []byte("kind: ProjectConfiguration\n"), 0o600)
				require.NoError(t, err)

				subDir := filepath.Join(dir, "subdir")
				err = os.MkdirAll(subDir, 0o700)
				require.NoError(t, err)

				return subDir
			},
			want: "ktconf.yaml",
		},
		"returns empty when not found": {
			setup: func(t *testing.T) string {
				t.Helper()

				return t.TempDir()
			},
			want: "",
		},
		"handles file path input": {
			setup: func(t *testing.T) string {
				t.Helper()

				dir := t.TempDir()
				err := os.WriteFile(filepath.Join(dir, ".ktconf.yaml"), []byte("kind: ProjectConfiguration\n"), 0o600)
				require.NoError(t, err)

				filePath := filepath.Join(dir, "Main.kt")
				err = os.WriteFile(filePath, []byte("fun main() {}\n"), 0o600)
				require.NoError(t, err)

				return filePath
			},
			want: ".ktconf.yaml",
		},
		"ignores directories with config names": {
			setup: func(t *testing.T) string {
				t.Helper()

				dir := t.TempDir()
				err := os.MkdirAll(filepath.Join(dir, ".ktconf.yaml"), 0o700)
				require.NoError(t, err)

				return dir
			},
			want: "",
		},
		"errors on missing path": {
			setup: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), "missing")
			},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := config.FindProjectConfig(tc.setup(t))
			if tc.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			if tc.want == "" {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tc.want, filepath.Base(got))
			}
		})
	}
}

func TestProjectConfig_Params(t *testing.T) {
	t.Parallel()

	c := config.NewProjectConfig()
	c.DisabledRules = []string{" indent ", "custom:foo", "indent", ""}
	c.ExperimentalRules = true

	assert.Equal(t, override.Params{
		DisabledRules:     []string{"indent", "custom:foo"},
		ExperimentalRules: true,
	}, c.Params())
}

func TestWatchConfig_GetDebounce(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		cfg  *config.WatchConfig
		want time.Duration
	}{
		"nil":      {cfg: nil, want: watch.DefaultDebounce},
		"empty":    {cfg: &config.WatchConfig{}, want: watch.DefaultDebounce},
		"valid":    {cfg: &config.WatchConfig{Debounce: "1s"}, want: time.Second},
		"invalid":  {cfg: &config.WatchConfig{Debounce: "soon"}, want: watch.DefaultDebounce},
		"negative": {cfg: &config.WatchConfig{Debounce: "-1s"}, want: watch.DefaultDebounce},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.cfg.GetDebounce())
		})
	}
}

func TestProjectConfig_MarshalYAML(t *testing.T) {
	t.Parallel()

	c := config.NewProjectConfig()
	c.DisabledRules = []string{"indent"}

	b, err := c.MarshalYAML()
	require.NoError(t, err)
	assert.Contains(t, string(b), "disabledRules:\n  - indent\n")

	l := config.NewLoaderFromBytes(b)
	require.NoError(t, l.Validate())

	got, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, c.DisabledRules, got.DisabledRules)
}

func TestSchema(t *testing.T) {
	t.Parallel()

	data, err := config.Schema()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"disabledRules"`)
	assert.Contains(t, string(data), config.APIVersion)
}
