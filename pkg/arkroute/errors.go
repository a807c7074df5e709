package arkroute

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := pipeline.Run(ctx, cfg)
//	if errors.Is(err, arkroute.ErrScanRootNotFound) {
//	    // Point the user at --scan-dir
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrScanRootNotFound indicates a scan root directory does not exist.
	ErrScanRootNotFound = errors.New("scan root not found")

	// ErrTemplate indicates the registration template could not be loaded or rendered.
	ErrTemplate = errors.New("template error")

	// ErrManifestInvalid indicates module.json5 could not be parsed or lacks a module object.
	ErrManifestInvalid = errors.New("invalid manifest")

	// ErrParse indicates an .ets source could not be tokenized.
	ErrParse = errors.New("parse error")

	// ErrPublish indicates uploading artifacts failed.
	ErrPublish = errors.New("publish failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrScanRootNotFound):
		return ExitScanRootMissing
	case errors.Is(err, ErrTemplate):
		return ExitTemplateError
	case errors.Is(err, ErrManifestInvalid):
		return ExitManifestError
	case errors.Is(err, ErrPublish):
		return ExitPublishFailed
	}

	// cobra reports usage problems as plain errors
	errStr := err.Error()
	for _, prefix := range usageErrorPrefixes {
		if strings.HasPrefix(errStr, prefix) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}

var usageErrorPrefixes = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
}
