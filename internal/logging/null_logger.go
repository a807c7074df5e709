package logging

import "github.com/vvka-141/arkroute/pkg/arkroute"

// NullLogger discards everything. Components fall back to it when no logger
// is configured.
type NullLogger struct{}

func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Verbose(string, ...interface{}) {}
func (l *NullLogger) Info(string, ...interface{})    {}
func (l *NullLogger) Error(string, ...interface{})   {}

var (
	_ arkroute.Logger = (*NullLogger)(nil)
	_ arkroute.Logger = (*ConsoleLogger)(nil)
	_ arkroute.Logger = (*PrefixedLogger)(nil)
	_ arkroute.Logger = (*Recorder)(nil)
)
