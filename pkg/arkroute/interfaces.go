package arkroute

// FileCollector enumerates scanned sources.
// Implementations must be safe for concurrent use by multiple goroutines.
type FileCollector interface {
	// Collect returns the absolute paths of every source file under the roots.
	// A missing root is an error wrapping ErrScanRootNotFound.
	Collect(roots ...string) ([]string, error)
}

// SourceScanner extracts page matches from one source file.
type SourceScanner interface {
	ScanFile(path string) ([]PageMatch, error)
}
