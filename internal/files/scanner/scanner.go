package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/vvka-141/arkroute/internal/files/filesystem"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

// Scanner discovers ArkTS sources in one or more directory trees.
// Scanner is safe for concurrent use by multiple goroutines as long as
// the provided fsProvider is also thread-safe.
type Scanner struct {
	fsProvider filesystem.FileSystemProvider
	extension  string
}

// NewScanner creates a new source collector over the OS filesystem.
func NewScanner() *Scanner {
	return NewScannerWithFS(filesystem.NewOSFileSystem())
}

// NewScannerWithFS creates a new source collector with a custom filesystem provider.
// This is primarily useful for testing with in-memory filesystems.
// Panics if fsProvider is nil.
func NewScannerWithFS(fsProvider filesystem.FileSystemProvider) *Scanner {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{
		fsProvider: fsProvider,
		extension:  arkroute.SourceExtension,
	}
}

// Collect walks every root and returns the paths of files ending in .ets.
// Paths appear in walk order, root by root; a file reachable from two roots is listed once.
// A root that does not exist or is not a directory fails the whole call.
func (s *Scanner) Collect(roots ...string) ([]string, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("no scan roots given: %w", arkroute.ErrInvalidConfig)
	}

	var files []string
	seen := make(map[string]bool)

	for _, root := range roots {
		if err := s.checkRoot(root); err != nil {
			return nil, err
		}

		dir, err := s.fsProvider.Open(root)
		if err != nil {
			return nil, fmt.Errorf("failed to open directory: %w", err)
		}

		err = dir.Walk(func(file filesystem.File, err error) error {
			if err != nil {
				return fmt.Errorf("error walking path: %w", err)
			}
			if file.Info().IsDir() || !strings.HasSuffix(file.Info().Name(), s.extension) {
				return nil
			}
			if seen[file.Path()] {
				return nil
			}
			seen[file.Path()] = true
			files = append(files, file.Path())
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
	}

	return files, nil
}

func (s *Scanner) checkRoot(root string) error {
	info, err := s.fsProvider.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", root, arkroute.ErrScanRootNotFound)
		}
		return fmt.Errorf("failed to access scan root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory: %w", root, arkroute.ErrScanRootNotFound)
	}
	return nil
}

// RelativeTo renders path relative to base with forward slashes, for display.
func RelativeTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Verify Scanner implements the interface at compile time
var _ arkroute.FileCollector = (*Scanner)(nil)
