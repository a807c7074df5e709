package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
// This provides compatibility with the fs.FS ecosystem while maintaining
// a stable local type for our abstraction layer.
type FileInfo = fs.FileInfo

// File represents an individual file with its metadata and content accessor
type File interface {
	// Path returns the absolute path to the file
	Path() string

	// RelativePath returns the path relative to the walked root
	RelativePath() string

	// Info returns file metadata
	Info() FileInfo

	// ReadContent returns the file's content
	ReadContent() ([]byte, error)
}

// Directory represents a directory that can be traversed to discover files
type Directory interface {
	// Path returns the absolute path to the directory
	Path() string

	// Walk traverses the directory tree, calling the provided function for each file and directory.
	// Symlinked directories are followed once; a link back into an ancestor is not re-entered.
	// Returning fs.SkipDir for a directory skips its contents. Any other error stops the walk.
	Walk(fn func(File, error) error) error
}

// FileSystemProvider is the read side of the filesystem abstraction.
type FileSystemProvider interface {
	// Open opens a directory at the specified path
	Open(path string) (Directory, error)

	// ReadFile reads a specific file at the given path
	ReadFile(path string) ([]byte, error)

	// ReadDir returns the direct entries of a directory, sorted by name.
	ReadDir(path string) ([]FileInfo, error)

	// Stat returns file information for the given path.
	// Missing paths return an error wrapping fs.ErrNotExist.
	Stat(path string) (FileInfo, error)
}

// FileSystem adds the mutations the generator performs on a module.
type FileSystem interface {
	FileSystemProvider

	// WriteFile creates or truncates the file at path. The parent directory must exist.
	WriteFile(path string, data []byte) error

	// Remove deletes a file or an empty directory.
	Remove(path string) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string) error
}

// Exists reports whether path exists. Errors other than fs.ErrNotExist count as existing
// so callers surface them on the following read or write.
func Exists(fsys FileSystemProvider, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil || !isNotExist(err)
}

// IsRegularFile reports whether path exists and is not a directory.
func IsRegularFile(fsys FileSystemProvider, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && !info.IsDir()
}
