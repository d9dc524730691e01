// Package storage defines the vault file-system abstraction.
package storage

// Provider is the interface for vault file operations.
type Provider interface {
	// Root returns the absolute vault directory.
	Root() string
	// Path resolves rel against the vault root, rejecting paths that escape it.
	Path(rel string) (string, error)
	// Write atomically replaces the file at path (relative to vault root).
	Write(path string, content []byte) error
}
