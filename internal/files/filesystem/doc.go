// Package filesystem abstracts the file operations of a generation run so the
// whole pipeline can run against an in-memory module tree in tests.
//
// FileSystemProvider covers what the scanner and publisher need: walking a
// directory, reading and stat-ing files. FileSystem adds the writes the
// artifact writer and manifest patcher perform: WriteFile, Remove and
// MkdirAll.
//
// OSFileSystem is backed by the os package and follows symlinked directories
// while walking. MemoryFileSystem keeps files in a map and walks them sorted
// by path, which keeps test output deterministic.
package filesystem
