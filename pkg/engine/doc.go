// Package engine defines the boundary to the rule engine that consumes
// override sets and caches parsed EditorConfig state, and the trigger that
// invalidates that cache when files in the EditorConfig chain change.
//
// [Cache] is an in-memory implementation that caches root-marker checks for
// [github.com/macropower/ktconf/pkg/editorconfig.Locate].
package engine
