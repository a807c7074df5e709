package logging

import (
	"fmt"
	"strings"
	"sync"
)

// Level identifies which Logger method produced a recorded entry.
type Level string

const (
	LevelVerbose Level = "verbose"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Entry is one recorded log line.
type Entry struct {
	Level   Level
	Message string
}

// Recorder keeps every message in memory. Verbose messages are always kept.
// Safe for concurrent use by multiple goroutines.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Verbose(format string, args ...interface{}) {
	r.add(LevelVerbose, format, args)
}

func (r *Recorder) Info(format string, args ...interface{}) {
	r.add(LevelInfo, format, args)
}

func (r *Recorder) Error(format string, args ...interface{}) {
	r.add(LevelError, format, args)
}

func (r *Recorder) add(level Level, format string, args []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Errors returns the messages logged through Error.
func (r *Recorder) Errors() []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Level == LevelError {
			out = append(out, e.Message)
		}
	}
	return out
}

// Contains reports whether any message at any level contains substr.
func (r *Recorder) Contains(substr string) bool {
	for _, e := range r.Entries() {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
