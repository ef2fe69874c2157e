package editorconfig

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"regexp"
)

// FileName is the name of an EditorConfig file.
const FileName = ".editorconfig"

// rootMarker matches a line declaring the file as the topmost one.
// It is case-sensitive and is matched against the whole, untrimmed line.
var rootMarker = regexp.MustCompile(`^root\s?=\s?true$`)

// RootChecker reports whether the file at path is a root EditorConfig file.
type RootChecker interface {
	IsRoot(path string) (bool, error)
}

// RootCheckerFunc adapts a function to a [RootChecker].
type RootCheckerFunc func(path string) (bool, error)

func (f RootCheckerFunc) IsRoot(path string) (bool, error) {
	return f(path)
}

// IsRoot reports whether path is a regular file containing a root marker line.
//
// A path that does not exist, or is not a regular file, is not root. Errors
// opening or reading an existing file are returned.
func IsRoot(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}

	f, err := os.Open(path) //nolint:gosec // G304: Path is built from a directory walk.
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	// Lines have no length limit; the buffer grows as needed.
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), math.MaxInt)

	for scanner.Scan() {
		if rootMarker.Match(scanner.Bytes()) {
			return true, nil
		}
	}

	err = scanner.Err()
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	return false, nil
}
