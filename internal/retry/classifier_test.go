package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

type statusError struct{ code int }

func (e statusError) Error() string       { return fmt.Sprintf("status %d", e.code) }
func (e statusError) HTTPStatusCode() int { return e.code }

type apiError struct{ code string }

func (e apiError) Error() string     { return e.code }
func (e apiError) ErrorCode() string { return e.code }

func TestUploadErrorClassifier(t *testing.T) {
	c := NewUploadErrorClassifier()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("access denied"), false},
		{"cancelled", context.Canceled, false},
		{"503", statusError{503}, true},
		{"500 wrapped", fmt.Errorf("put: %w", statusError{500}), true},
		{"429", statusError{429}, true},
		{"403", statusError{403}, false},
		{"slow down", apiError{"SlowDown"}, true},
		{"no such bucket", apiError{"NoSuchBucket"}, false},
		{"connection refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, true},
		{"connection reset", fmt.Errorf("x: %w", &net.OpError{Op: "read", Err: syscall.ECONNRESET}), true},
		{"temporary dns", &net.DNSError{Err: "try again", IsTemporary: true}, true},
		{"unknown host", &net.DNSError{Err: "no such host", IsNotFound: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsTransient(tt.err))
		})
	}
}
