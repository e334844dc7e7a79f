// Package ziputils provides safe ZIP archive extraction.
// This file contains domain-specific error types for extraction failures.
package ziputils

import (
	"errors"
	"fmt"
)

// Sentinel errors for the extraction failure modes.
// They can be checked with errors.Is() regardless of how many layers of
// context have been added on top.
var (
	// ErrSizeLimitExceeded indicates that the archive's declared uncompressed
	// size, or the actual number of bytes produced during extraction,
	// exceeds the configured ceiling.
	ErrSizeLimitExceeded = errors.New("archive data is too big")

	// ErrPathTraversal indicates that an entry's resolved target path would
	// escape the destination root directory.
	ErrPathTraversal = errors.New("path escapes destination directory")

	// ErrNameTooLong indicates that an entry's resolved filename exceeds the
	// configured maximum length even after hash substitution.
	ErrNameTooLong = errors.New("target file name is too long")
)

// ExtractionError provides context about an extraction failure.
// It records the operation and the archive entry being processed when the
// failure occurred, and wraps the underlying error so that errors.Is() and
// errors.As() keep working through it.
type ExtractionError struct {
	// Op describes the operation that failed (e.g., "open", "validate", "extract").
	Op string

	// Entry is the full archive path of the entry being processed, or
	// "archive" for failures that concern the archive as a whole.
	Entry string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Entry, e.Err.Error())
}

// Unwrap returns the underlying error to support error wrapping.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError with the specified context.
func NewExtractionError(op, entry string, err error) *ExtractionError {
	return &ExtractionError{
		Op:    op,
		Entry: entry,
		Err:   err,
	}
}

// IsSizeLimit reports whether the error chain contains ErrSizeLimitExceeded.
func (e *ExtractionError) IsSizeLimit() bool {
	return errors.Is(e.Err, ErrSizeLimitExceeded)
}

// IsPathTraversal reports whether the error chain contains ErrPathTraversal.
func (e *ExtractionError) IsPathTraversal() bool {
	return errors.Is(e.Err, ErrPathTraversal)
}

// IsNameTooLong reports whether the error chain contains ErrNameTooLong.
func (e *ExtractionError) IsNameTooLong() bool {
	return errors.Is(e.Err, ErrNameTooLong)
}
