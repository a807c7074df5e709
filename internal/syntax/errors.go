package syntax

import (
	"fmt"

	"github.com/vvka-141/arkroute/pkg/arkroute"
)

// ParseError reports a source that could not be tokenized, with its location
// and an actionable hint. It matches arkroute.ErrParse under errors.Is.
type ParseError struct {
	FilePath string // Path to the file with the error, may be empty
	Line     int    // Line number (0 if unknown)
	Column   int    // Column number (0 if unknown)
	Message  string // Primary error message
	Hint     string // Actionable suggestion for fixing
}

// Error implements the error interface with rich formatting.
func (e *ParseError) Error() string {
	location := e.FilePath
	if location == "" {
		location = "<source>"
	}
	if e.Line > 0 {
		if e.Column > 0 {
			location = fmt.Sprintf("%s (line %d, col %d)", location, e.Line, e.Column)
		} else {
			location = fmt.Sprintf("%s (line %d)", location, e.Line)
		}
	}

	msg := fmt.Sprintf("parse error in %s: %s", location, e.Message)
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	return msg
}

// Unwrap lets errors.Is match arkroute.ErrParse.
func (e *ParseError) Unwrap() error {
	return arkroute.ErrParse
}
