// Package logging provides concrete implementations of the arkroute.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted messages to stderr (or any io.Writer) with thread-safe output
//   - PrefixedLogger: Stamps every message of another logger with a fixed tag such as a run id
//   - Recorder: Keeps messages in memory for assertions in tests
//   - NullLogger: Discards all messages
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
