package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUsage         = errors.New("usage error")
	ErrInvalidPath   = errors.New("invalid path")
	ErrMissingAsset  = errors.New("missing asset")
	ErrExternalTool  = errors.New("external tool error")
	ErrAudioNotFound = errors.New("audio not found")
	ErrCleanup       = errors.New("cleanup error")
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrFilesystem    = errors.New("filesystem error")
	ErrLocked        = errors.New("run in progress")
)

const (
	// ExitFailure is returned for usage, path, asset, configuration, and
	// filesystem failures.
	ExitFailure = 1
	// ExitEncodeFailure is returned when an external encode invocation fails.
	ExitEncodeFailure = 2
)

var markers = []error{
	ErrUsage,
	ErrInvalidPath,
	ErrMissingAsset,
	ErrExternalTool,
	ErrAudioNotFound,
	ErrCleanup,
	ErrConfiguration,
	ErrValidation,
	ErrFilesystem,
	ErrLocked,
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrConfiguration
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ErrorDetails summarizes a wrapped error for user-facing reporting.
type ErrorDetails struct {
	Marker  error
	Kind    string
	Message string
}

// Details extracts the marker and a human message from err. Errors without a
// known marker report an empty Kind.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	details := ErrorDetails{Message: strings.TrimSpace(err.Error())}
	for _, marker := range markers {
		if errors.Is(err, marker) {
			details.Marker = marker
			details.Kind = marker.Error()
			details.Message = strings.TrimSpace(strings.TrimPrefix(details.Message, marker.Error()+":"))
			break
		}
	}
	return details
}

// IsFatal reports whether err should abort a pipeline run. Missing audio and
// cleanup failures are reported but never abort.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrAudioNotFound) && !errors.Is(err, ErrCleanup)
}

// ExitCode maps a run error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrExternalTool):
		return ExitEncodeFailure
	default:
		return ExitFailure
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
