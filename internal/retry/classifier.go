package retry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"syscall"
)

// ErrorClassifier separates retryable failures from permanent ones.
type ErrorClassifier interface {
	IsTransient(err error) bool
}

// UploadErrorClassifier treats network failures, throttling and server-side
// errors of object storage requests as transient.
type UploadErrorClassifier struct{}

func NewUploadErrorClassifier() *UploadErrorClassifier {
	return &UploadErrorClassifier{}
}

// service error codes S3 returns for throttling and internal failures
var transientCodes = map[string]bool{
	"SlowDown":             true,
	"RequestTimeout":       true,
	"InternalError":        true,
	"ServiceUnavailable":   true,
	"Throttling":           true,
	"ThrottlingException":  true,
	"RequestLimitExceeded": true,
}

func (c *UploadErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var status interface{ HTTPStatusCode() int }
	if errors.As(err, &status) {
		code := status.HTTPStatusCode()
		if code == http.StatusTooManyRequests || code >= http.StatusInternalServerError {
			return true
		}
	}

	var api interface{ ErrorCode() string }
	if errors.As(err, &api) && transientCodes[api.ErrorCode()] {
		return true
	}

	return isNetworkError(err)
}

func isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return true
		}
		for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ENETUNREACH, syscall.EHOSTUNREACH} {
			if errors.Is(opErr.Err, errno) {
				return true
			}
		}
	}
	return false
}
