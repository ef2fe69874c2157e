package editorconfig_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/ktconf/pkg/editorconfig"
)

// countingChecker records every root check it performs.
type countingChecker struct {
	roots   map[string]bool
	errs    map[string]error
	checked []string
}

func (c *countingChecker) IsRoot(path string) (bool, error) {
	c.checked = append(c.checked, path)
	if err, ok := c.errs[path]; ok {
		return false, err
	}

	return c.roots[path], nil
}

// ancestors returns fileName joined with dir and each of its parents.
func ancestors(dir, fileName string) []string {
	var out []string
	for {
		out = append(out, filepath.Join(dir, fileName))

		parent := filepath.Dir(dir)
		if parent == dir {
			return out
		}

		dir = parent
	}
}

func TestLocate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		setup func(t *testing.T, root string) string
		want  func(root string) []string
	}{
		"stops at root marker": {
			setup: func(t *testing.T, root string) string {
				t.Helper()

				writeFile(t, filepath.Join(root, "p", ".editorconfig"), "root = true\n[*]\nindent_size = 4\n")
				writeFile(t, filepath.Join(root, "p", "sub", ".editorconfig"), "[*.kt]\nmax_line_length = 120\n")

				return filepath.Join(root, "p", "sub")
			},
			want: func(root string) []string {
				return []string{
					filepath.Join(root, "p", "sub", ".editorconfig"),
					filepath.Join(root, "p", ".editorconfig"),
				}
			},
		},
		"root marker after long line": {
			setup: func(t *testing.T, root string) string {
				t.Helper()

				writeFile(t, filepath.Join(root, "p", ".editorconfig"), "# "+strings.Repeat("x", 70*1024)+"\nroot = true\n")

				return filepath.Join(root, "p", "sub")
			},
			want: func(root string) []string {
				return []string{
					filepath.Join(root, "p", "sub", ".editorconfig"),
					filepath.Join(root, "p", ".editorconfig"),
				}
			},
		},
		"start directory is root": {
			setup: func(t *testing.T, root string) string {
				t.Helper()

				writeFile(t, filepath.Join(root, ".editorconfig"), "root=true\n")

				return root
			},
			want: func(root string) []string {
				return []string{filepath.Join(root, ".editorconfig")}
			},
		},
		"missing files in between are still yielded": {
			setup: func(t *testing.T, root string) string {
				t.Helper()

				writeFile(t, filepath.Join(root, ".editorconfig"), "root = true\n")
				require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o700))

				return filepath.Join(root, "a", "b")
			},
			want: func(root string) []string {
				return []string{
					filepath.Join(root, "a", "b", ".editorconfig"),
					filepath.Join(root, "a", ".editorconfig"),
					filepath.Join(root, ".editorconfig"),
				}
			},
		},
		"wrong case marker does not stop the walk": {
			setup: func(t *testing.T, root string) string {
				t.Helper()

				writeFile(t, filepath.Join(root, ".editorconfig"), "root = true\n")
				writeFile(t, filepath.Join(root, "sub", ".editorconfig"), "ROOT=true\n")

				return filepath.Join(root, "sub")
			},
			want: func(root string) []string {
				return []string{
					filepath.Join(root, "sub", ".editorconfig"),
					filepath.Join(root, ".editorconfig"),
				}
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			start := tc.setup(t, root)

			got, err := editorconfig.Collect(start)
			require.NoError(t, err)
			assert.Equal(t, tc.want(root), got)
		})
	}
}

func TestLocate_NoRootMarkerReachesFilesystemRoot(t *testing.T) {
	t.Parallel()

	// A file name that cannot exist in any ancestor of the temp directory.
	fileName := fmt.Sprintf(".editorconfig-%d", time.Now().UnixNano())
	start := t.TempDir()

	got, err := editorconfig.Collect(start, editorconfig.WithFileName(fileName))
	require.NoError(t, err)

	want := ancestors(start, fileName)
	assert.Equal(t, want, got)
	assert.Equal(t, filepath.Join(filepath.VolumeName(start)+string(filepath.Separator), fileName), got[len(got)-1])
}

func TestLocate_RelativeStart(t *testing.T) {
	t.Parallel()

	checker := &countingChecker{}

	c := editorconfig.Locate(".", editorconfig.WithRootChecker(checker))
	require.True(t, c.Next())

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, editorconfig.FileName), c.Path())
}

func TestChain_Lazy(t *testing.T) {
	t.Parallel()

	start := filepath.Join(t.TempDir(), "a", "b")
	checker := &countingChecker{}

	c := editorconfig.Locate(start, editorconfig.WithRootChecker(checker))
	assert.Empty(t, checker.checked, "Locate performs no I/O")

	require.True(t, c.Next())
	assert.Equal(t, filepath.Join(start, ".editorconfig"), c.Path())
	assert.Empty(t, checker.checked, "the seed is yielded without a root check")

	require.True(t, c.Next())
	assert.Equal(t, filepath.Join(filepath.Dir(start), ".editorconfig"), c.Path())
	assert.Equal(t, []string{filepath.Join(start, ".editorconfig")}, checker.checked)
}

func TestChain_ErrorStopsWalk(t *testing.T) {
	t.Parallel()

	start := filepath.Join(t.TempDir(), "a")
	errDenied := errors.New("permission denied")
	checker := &countingChecker{
		errs: map[string]error{
			filepath.Join(filepath.Dir(start), ".editorconfig"): errDenied,
		},
	}

	got, err := editorconfig.Collect(start, editorconfig.WithRootChecker(checker))
	require.ErrorIs(t, err, errDenied)
	assert.Equal(t, []string{
		filepath.Join(start, ".editorconfig"),
		filepath.Join(filepath.Dir(start), ".editorconfig"),
	}, got)

	c := editorconfig.Locate(start, editorconfig.WithRootChecker(checker))
	for c.Next() { //nolint:revive // Drain the chain.
	}
	require.ErrorIs(t, c.Err(), errDenied)
	assert.False(t, c.Next(), "a failed chain stays exhausted")
	assert.Empty(t, c.Path())
}

func TestChain_All(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".editorconfig"), "root = true\n")
	start := filepath.Join(root, "x", "y")

	var got []string
	for path, err := range editorconfig.Locate(start).All() {
		require.NoError(t, err)

		got = append(got, path)
	}

	assert.Equal(t, []string{
		filepath.Join(start, ".editorconfig"),
		filepath.Join(root, "x", ".editorconfig"),
		filepath.Join(root, ".editorconfig"),
	}, got)

	t.Run("early break", func(t *testing.T) {
		t.Parallel()

		checker := &countingChecker{}
		for range editorconfig.Locate(start, editorconfig.WithRootChecker(checker)).All() {
			break
		}

		assert.Empty(t, checker.checked)
	})

	t.Run("error is yielded", func(t *testing.T) {
		t.Parallel()

		errBoom := errors.New("boom")
		checker := &countingChecker{
			errs: map[string]error{filepath.Join(start, ".editorconfig"): errBoom},
		}

		var errs []error
		for _, err := range editorconfig.Locate(start, editorconfig.WithRootChecker(checker)).All() {
			if err != nil {
				errs = append(errs, err)
			}
		}

		require.Len(t, errs, 1)
		require.ErrorIs(t, errs[0], errBoom)
	})
}
