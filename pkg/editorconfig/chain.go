package editorconfig

import (
	"fmt"
	"iter"
	"path/filepath"
)

// Chain is a lazy, innermost-first sequence of EditorConfig file paths.
//
// Use it like a [bufio.Scanner]:
//
//	c := editorconfig.Locate(dir)
//	for c.Next() {
//		fmt.Println(c.Path())
//	}
//	if err := c.Err(); err != nil {
//		// ...
//	}
//
// The first element is always the file inside the start directory, whether
// or not it exists. Each following element is the file in the next parent
// directory. The chain ends after a root file, or after the file in the
// filesystem root, so its last element may not exist.
//
// A Chain is not safe for concurrent use; call [Locate] once per consumer.
type Chain struct {
	checker RootChecker
	err     error
	next    string
	current string
	done    bool
}

// LocatorOpt configures [Locate].
type LocatorOpt func(*locatorOptions)

type locatorOptions struct {
	checker  RootChecker
	fileName string
}

// WithRootChecker replaces the default [IsRoot] check, e.g. with a cache.
func WithRootChecker(rc RootChecker) LocatorOpt {
	return func(o *locatorOptions) {
		o.checker = rc
	}
}

// WithFileName looks for fileName instead of [FileName].
func WithFileName(fileName string) LocatorOpt {
	return func(o *locatorOptions) {
		o.fileName = fileName
	}
}

// Locate returns the [Chain] of EditorConfig files for startDir.
// No I/O happens until the chain is advanced.
func Locate(startDir string, opts ...LocatorOpt) *Chain {
	o := &locatorOptions{
		checker:  RootCheckerFunc(IsRoot),
		fileName: FileName,
	}
	for _, opt := range opts {
		opt(o)
	}

	c := &Chain{checker: o.checker}

	absDir, err := filepath.Abs(startDir)
	if err != nil {
		c.err = fmt.Errorf("get absolute path: %w", err)
		c.done = true

		return c
	}

	c.next = filepath.Join(absDir, o.fileName)

	return c
}

// Next advances the chain to the next path. It returns false when the chain
// is exhausted or an error occurred; see [Chain.Err].
func (c *Chain) Next() bool {
	if c.done {
		return false
	}

	if c.current != "" {
		next, err := c.step(c.current)
		if err != nil {
			c.err = err
			c.done = true
			c.current = ""

			return false
		}
		if next == "" {
			c.done = true
			c.current = ""

			return false
		}

		c.next = next
	}

	c.current = c.next

	return true
}

// step returns the path following current, or "" if current ends the chain.
func (c *Chain) step(current string) (string, error) {
	root, err := c.checker.IsRoot(current)
	if err != nil {
		return "", err //nolint:wrapcheck // Checkers wrap their own errors.
	}
	if root {
		return "", nil
	}

	dir := filepath.Dir(current)

	parent := filepath.Dir(dir)
	if parent == dir {
		return "", nil
	}

	return filepath.Join(parent, filepath.Base(current)), nil
}

// Path returns the current element. It is only valid after [Chain.Next]
// returned true.
func (c *Chain) Path() string {
	return c.current
}

// Err returns the error that stopped the chain, if any.
func (c *Chain) Err() error {
	return c.err
}

// All adapts the remaining chain to an iterator. A failing step is yielded
// once as ("", err) before the iterator stops.
func (c *Chain) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for c.Next() {
			if !yield(c.Path(), nil) {
				return
			}
		}

		if c.err != nil {
			yield("", c.err)
		}
	}
}

// Collect drains a fresh chain for startDir.
func Collect(startDir string, opts ...LocatorOpt) ([]string, error) {
	var paths []string

	c := Locate(startDir, opts...)
	for c.Next() {
		paths = append(paths, c.Path())
	}

	return paths, c.Err()
}
