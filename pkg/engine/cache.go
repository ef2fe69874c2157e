package engine

import (
	"path/filepath"
	"sync"

	"github.com/macropower/ktconf/pkg/editorconfig"
	"github.com/macropower/ktconf/pkg/override"
)

// Stats are counters describing [Cache] usage.
type Stats struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
	Resets int `json:"resets"`
}

// Cache is an [Engine] that memoizes EditorConfig root-marker checks by
// file path. It is safe for concurrent use.
type Cache struct {
	check     editorconfig.RootChecker
	overrides *override.Set
	roots     map[string]bool

	// Bumped by every reset of a path. A check result is only cached when
	// its path was not reset while the check ran.
	generations map[string]uint64

	stats Stats
	mu    sync.Mutex
}

// CacheOpt configures a [Cache].
type CacheOpt func(*Cache)

// WithRootChecker sets the checker used on cache misses.
// Defaults to [editorconfig.IsRoot].
func WithRootChecker(rc editorconfig.RootChecker) CacheOpt {
	return func(c *Cache) {
		c.check = rc
	}
}

// NewCache creates a new [Cache].
func NewCache(opts ...CacheOpt) *Cache {
	c := &Cache{
		check:       editorconfig.RootCheckerFunc(editorconfig.IsRoot),
		overrides:   override.Empty(),
		roots:       make(map[string]bool),
		generations: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// IsRoot implements [editorconfig.RootChecker]. Errors are not cached, and
// neither is a result whose path was reset while it was being checked.
func (c *Cache) IsRoot(path string) (bool, error) {
	key := filepath.Clean(path)

	c.mu.Lock()
	root, ok := c.roots[key]
	if ok {
		c.stats.Hits++
		c.mu.Unlock()

		return root, nil
	}

	c.stats.Misses++
	gen := c.generations[key]
	c.mu.Unlock()

	root, err := c.check.IsRoot(key)
	if err != nil {
		return false, err //nolint:wrapcheck // Checkers wrap their own errors.
	}

	c.mu.Lock()
	if c.generations[key] == gen {
		c.roots[key] = root
	}
	c.mu.Unlock()

	return root, nil
}

// ResetCachedStateForFile implements [Resetter].
func (c *Cache) ResetCachedStateForFile(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := filepath.Clean(path)

	delete(c.roots, key)
	c.generations[key]++
	c.stats.Resets++

	return nil
}

// ApplyOverrides implements [Engine].
func (c *Cache) ApplyOverrides(set *override.Set) {
	if set.IsEmpty() {
		set = override.Empty()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.overrides = set
}

// Overrides returns the override set last applied.
func (c *Cache) Overrides() *override.Set {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.overrides
}

// Len returns the number of cached paths.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.roots)
}

// Stats returns a snapshot of the usage counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}
