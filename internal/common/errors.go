package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")

	// ErrDuplicateJobNumber rejects createJob for a job number that already
	// exists; no mutation happens.
	ErrDuplicateJobNumber = errors.New("duplicate job number")

	// ErrItemNotFound is returned when an update references a checklist item
	// id absent from the job. This is an invariant violation and is never
	// silently ignored.
	ErrItemNotFound = errors.New("checklist item not found")

	// ErrStoreUnavailable covers record-store CRUD failures.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrAttachmentStore covers upload/delete/url-resolution failures against
	// the binary store.
	ErrAttachmentStore = errors.New("attachment store failure")

	// ErrAnnotationDisabled is returned by the no-op annotation provider.
	ErrAnnotationDisabled = errors.New("annotation provider disabled")

	// ErrAnnotationFailed covers annotation-provider failures, including
	// empty responses. Never fatal to job state.
	ErrAnnotationFailed = errors.New("annotation failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
