// Package yaml wraps the [github.com/goccy/go-yaml] decoder used to read
// ktconf configuration, a JSON schema [Validator], and an [Error] type that
// points back at the offending line of the source document.
package yaml
