// Package files provides file-related functionality organized into sub-packages.
//
//   - filesystem: Filesystem abstraction interfaces and implementations (OS and in-memory)
//   - scanner: Recursive discovery of .ets sources under one or more roots
//
// # Usage
//
//	import (
//	    "github.com/vvka-141/arkroute/internal/files/filesystem"
//	    "github.com/vvka-141/arkroute/internal/files/scanner"
//	)
//
//	collector := scanner.NewScanner()
//	paths, err := collector.Collect("/work/entry/src/main/ets")
package files
