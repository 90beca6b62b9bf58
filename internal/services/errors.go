// Package services defines the shared error taxonomy. Sentinel markers let
// callers classify a failure as fatal (precondition, configuration,
// repository) or per-track recoverable without string matching.
package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks invalid user input: unknown filter fields,
	// unsupported format tags, contradictory flag combinations.
	ErrConfiguration = errors.New("configuration error")

	// ErrPrecondition marks an environment check failure that aborts the run
	// before any track is touched.
	ErrPrecondition = errors.New("precondition failed")

	// ErrRepository marks a library database failure (locked, unreadable,
	// write rejected).
	ErrRepository = errors.New("repository error")

	// ErrExternalTool marks a transcoder or probe invocation failure.
	ErrExternalTool = errors.New("external tool error")

	// ErrUnknownFormat marks an unrecognized format tag or file extension.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrValidation marks a per-track rejection that the batch records and
	// survives.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether the error must terminate the process rather than
// be recorded as a per-track outcome.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrPrecondition) ||
		errors.Is(err, ErrRepository) ||
		errors.Is(err, ErrUnknownFormat)
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
