// Package watch reports changes to a fixed set of files.
//
// fsnotify cannot watch files that do not exist yet, and editors often
// replace files instead of writing them in place. [Watcher] therefore watches
// the parent directory of every file and filters events down to the files it
// was asked about. Bursts of events are debounced into a single change set.
package watch
