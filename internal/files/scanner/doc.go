// Package scanner collects the ArkTS sources of a module.
//
// The collector walks one or more roots through a filesystem.FileSystemProvider,
// descends into every subdirectory (symlinked ones included on the OS filesystem)
// and returns the absolute paths of files ending in .ets. A missing root is
// reported as arkroute.ErrScanRootNotFound because it always means the module
// layout was misconfigured.
package scanner
