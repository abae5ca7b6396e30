package domain

import (
	"errors"
	"fmt"
)

// DomainError represents errors in the domain layer
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error {
	return e.Cause
}

// Domain error codes
const (
	ErrCodeConfig            = "CONFIG_ERROR"
	ErrCodeDocumentNotFound  = "DOCUMENT_NOT_FOUND"
	ErrCodeInvalidThreshold  = "INVALID_THRESHOLD"
	ErrCodeSignatureMismatch = "SIGNATURE_MISMATCH"
	ErrCodeComparisonFailed  = "COMPARISON_FAILED"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
)

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error. Configuration errors are
// fatal: they surface at construction time, never during queries.
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfig, message, cause)
}

// NewDocumentNotFoundError creates an error for queries against unknown document ids
func NewDocumentNotFoundError(docID int) error {
	return NewDomainError(ErrCodeDocumentNotFound, fmt.Sprintf("document %d not found", docID), nil)
}

// NewInvalidThresholdError creates an error for similarity thresholds outside [0, 1]
func NewInvalidThresholdError(threshold float64) error {
	return NewDomainError(ErrCodeInvalidThreshold,
		fmt.Sprintf("similarity threshold %.3f must be between 0.0 and 1.0", threshold), nil)
}

// NewSignatureMismatchError creates an error for comparing signatures that came
// from different index configurations. This signals a bug in the calling code
// and is not recoverable within one run.
func NewSignatureMismatchError(len1, len2 int) error {
	return NewDomainError(ErrCodeSignatureMismatch,
		fmt.Sprintf("signature lengths differ: %d vs %d", len1, len2), nil)
}

// NewComparisonFailedError creates an error scoped to a single candidate pair.
// It never propagates to the batch; the pair surfaces as a partial result.
func NewComparisonFailedError(name1, name2 string, cause error) error {
	return NewDomainError(ErrCodeComparisonFailed,
		fmt.Sprintf("exact comparison failed: %s <-> %s", name1, name2), cause)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}

// NewValidationError creates a validation error
func NewValidationError(message string) error {
	return NewDomainError(ErrCodeInvalidInput, message, nil)
}

// IsErrorCode reports whether err is (or wraps) a DomainError with the given code
func IsErrorCode(err error, code string) bool {
	var de DomainError
	return errors.As(err, &de) && de.Code == code
}
