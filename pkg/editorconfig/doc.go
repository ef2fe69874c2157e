// Package editorconfig locates the chain of `.editorconfig` files that
// applies to a directory.
//
// EditorConfig files are looked up in the target directory and then in every
// parent directory, until a file declares `root = true` or the filesystem
// root is reached. [Locate] returns that chain as a lazy [Chain], innermost
// file first. Only the root marker is inspected; no other properties are
// parsed here.
package editorconfig
