// Package errors defines the structured error model shared across the
// application engine. Callers branch on error codes, never on message text,
// to distinguish retry, skip-and-continue, and abort-run conditions.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNavigation indicates a posting was unreachable or redirected
	// away after bounded retries.
	ErrCodeNavigation ErrorCode = "navigation"
	// ErrCodeExtraction indicates the description or recruiter link could
	// not be read from the posting page.
	ErrCodeExtraction ErrorCode = "extraction"
	// ErrCodeLanguageDetection indicates neither supported language was
	// detected in a description; the upload step fails closed.
	ErrCodeLanguageDetection ErrorCode = "language_detection"
	// ErrCodeUpload indicates a generated document violated size or format
	// constraints. Fatal for the attempt, never retried.
	ErrCodeUpload ErrorCode = "upload"
	// ErrCodeRateLimited indicates a collaborator signalled throttling.
	// Retried with the provided or default backoff, capped.
	ErrCodeRateLimited ErrorCode = "rate_limited"
	// ErrCodeStorageCorruption indicates a persisted file failed to parse.
	// Recovered internally; never propagated to store callers.
	ErrCodeStorageCorruption ErrorCode = "storage_corruption"
	// ErrCodeSubmitNotFound indicates no submit control was located.
	// Treated as a discard, not a failure.
	ErrCodeSubmitNotFound ErrorCode = "submit_not_found"
	// ErrCodeCanceled indicates the operation was canceled by the operator
	// or a context.
	ErrCodeCanceled ErrorCode = "canceled"
	// ErrCodeInternal indicates an unclassified engine error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message,
// and optional cause. It supports error wrapping and unwrapping for use with
// errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// RetryAfter carries a collaborator-provided backoff hint for
	// rate-limited errors (optional)
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Navigation creates a new Navigation error.
func Navigation(message string) *AppError {
	return &AppError{Code: ErrCodeNavigation, Message: message}
}

// Navigationf creates a new Navigation error with formatted message.
func Navigationf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeNavigation, Message: fmt.Sprintf(format, args...)}
}

// Extraction creates a new Extraction error.
func Extraction(message string) *AppError {
	return &AppError{Code: ErrCodeExtraction, Message: message}
}

// Extractionf creates a new Extraction error with formatted message.
func Extractionf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeExtraction, Message: fmt.Sprintf(format, args...)}
}

// LanguageDetection creates a new LanguageDetection error.
func LanguageDetection(message string) *AppError {
	return &AppError{Code: ErrCodeLanguageDetection, Message: message}
}

// Upload creates a new Upload error.
func Upload(message string) *AppError {
	return &AppError{Code: ErrCodeUpload, Message: message}
}

// Uploadf creates a new Upload error with formatted message.
func Uploadf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeUpload, Message: fmt.Sprintf(format, args...)}
}

// RateLimited creates a new RateLimited error carrying an optional backoff
// hint. A zero retryAfter means the caller should apply its default backoff.
func RateLimited(message string, retryAfter time.Duration) *AppError {
	return &AppError{Code: ErrCodeRateLimited, Message: message, RetryAfter: retryAfter}
}

// StorageCorruption creates a new StorageCorruption error.
func StorageCorruption(message string) *AppError {
	return &AppError{Code: ErrCodeStorageCorruption, Message: message}
}

// SubmitNotFound creates a new SubmitNotFound error.
func SubmitNotFound(message string) *AppError {
	return &AppError{Code: ErrCodeSubmitNotFound, Message: message}
}

// Canceled creates a new Canceled error.
func Canceled(message string) *AppError {
	return &AppError{Code: ErrCodeCanceled, Message: message}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNavigation checks if an error is a Navigation error.
func IsNavigation(err error) bool {
	return isCode(err, ErrCodeNavigation)
}

// IsExtraction checks if an error is an Extraction error.
func IsExtraction(err error) bool {
	return isCode(err, ErrCodeExtraction)
}

// IsLanguageDetection checks if an error is a LanguageDetection error.
func IsLanguageDetection(err error) bool {
	return isCode(err, ErrCodeLanguageDetection)
}

// IsUpload checks if an error is an Upload error.
func IsUpload(err error) bool {
	return isCode(err, ErrCodeUpload)
}

// IsRateLimited checks if an error is a RateLimited error.
func IsRateLimited(err error) bool {
	return isCode(err, ErrCodeRateLimited)
}

// IsStorageCorruption checks if an error is a StorageCorruption error.
func IsStorageCorruption(err error) bool {
	return isCode(err, ErrCodeStorageCorruption)
}

// IsSubmitNotFound checks if an error is a SubmitNotFound error.
func IsSubmitNotFound(err error) bool {
	return isCode(err, ErrCodeSubmitNotFound)
}

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool {
	return isCode(err, ErrCodeCanceled)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// BackoffHint returns the RetryAfter from a rate-limited error, or zero.
func BackoffHint(err error) time.Duration {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code == ErrCodeRateLimited {
		return appErr.RetryAfter
	}
	return 0
}
