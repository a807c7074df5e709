package logging

import "github.com/vvka-141/arkroute/pkg/arkroute"

// PrefixedLogger prepends a fixed tag to every message of another logger.
// Pipeline runs use it to stamp messages with their run id.
type PrefixedLogger struct {
	prefix string
	next   arkroute.Logger
}

// WithPrefix wraps next so every message starts with prefix and a space.
func WithPrefix(next arkroute.Logger, prefix string) *PrefixedLogger {
	return &PrefixedLogger{prefix: prefix + " ", next: next}
}

func (l *PrefixedLogger) Verbose(format string, args ...interface{}) {
	l.next.Verbose(l.prefix+format, args...)
}

func (l *PrefixedLogger) Info(format string, args ...interface{}) {
	l.next.Info(l.prefix+format, args...)
}

func (l *PrefixedLogger) Error(format string, args ...interface{}) {
	l.next.Error(l.prefix+format, args...)
}

var _ arkroute.Logger = (*PrefixedLogger)(nil)
