package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// osFile implements File interface for OS filesystem
type osFile struct {
	absPath string
	relPath string
	info    fs.FileInfo
}

func (f *osFile) Path() string         { return f.absPath }
func (f *osFile) RelativePath() string { return f.relPath }
func (f *osFile) Info() FileInfo       { return f.info }

func (f *osFile) ReadContent() ([]byte, error) {
	return os.ReadFile(f.absPath)
}

// osDirectory implements Directory interface for OS filesystem
type osDirectory struct {
	absPath string
}

func (d *osDirectory) Path() string { return d.absPath }

func (d *osDirectory) Walk(fn func(File, error) error) error {
	info, err := os.Stat(d.absPath)
	if err != nil {
		return fn(nil, err)
	}

	w := &osWalker{root: d.absPath, fn: fn, active: make(map[string]bool)}
	err = w.visit(d.absPath, info)
	if errors.Is(err, fs.SkipDir) {
		return nil
	}
	return err
}

// osWalker descends like filepath.Walk but resolves symlinked directories.
// active holds the real paths of the directories currently on the descent stack.
type osWalker struct {
	root   string
	fn     func(File, error) error
	active map[string]bool
}

func (w *osWalker) call(path string, info fs.FileInfo) (callbackErr error) {
	defer func() {
		if r := recover(); r != nil {
			callbackErr = fmt.Errorf("walk callback panicked at %s: %v", path, r)
		}
	}()

	relPath, err := filepath.Rel(w.root, path)
	if err != nil {
		return w.fn(nil, fmt.Errorf("failed to get relative path: %w", err))
	}
	return w.fn(&osFile{absPath: path, relPath: relPath, info: info}, nil)
}

func (w *osWalker) visit(path string, info fs.FileInfo) error {
	if err := w.call(path, info); err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return w.fn(nil, fmt.Errorf("failed to resolve %s: %w", path, err))
	}
	if w.active[real] {
		return nil
	}
	w.active[real] = true
	defer delete(w.active, real)

	entries, err := os.ReadDir(path)
	if err != nil {
		return w.fn(nil, fmt.Errorf("failed to read directory %s: %w", path, err))
	}

	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())

		// os.Stat follows the link so a symlinked directory reports IsDir
		childInfo, err := os.Stat(child)
		if err != nil {
			if cbErr := w.fn(nil, fmt.Errorf("failed to stat %s: %w", child, err)); cbErr != nil {
				return cbErr
			}
			continue
		}

		if err := w.visit(child, childInfo); err != nil {
			if errors.Is(err, fs.SkipDir) && childInfo.IsDir() {
				continue
			}
			return err
		}
	}
	return nil
}

// OSFileSystem implements FileSystem for the OS filesystem
type OSFileSystem struct{}

// NewOSFileSystem creates a new OS filesystem provider
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (p *OSFileSystem) Open(path string) (Directory, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	return &osDirectory{absPath: absPath}, nil
}

func (p *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (p *OSFileSystem) ReadDir(path string) ([]FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to get file info for %s: %w", entry.Name(), err)
		}
		result = append(result, info)
	}

	return result, nil
}

func (p *OSFileSystem) Stat(path string) (FileInfo, error) {
	return os.Stat(path)
}

func (p *OSFileSystem) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

func (p *OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

func (p *OSFileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

var _ FileSystem = (*OSFileSystem)(nil)
