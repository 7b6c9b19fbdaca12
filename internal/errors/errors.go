// Package errors provides unified error handling for the quarry catalogue.
//
// Every failure that can reach a user is represented as an AppError with a
// standardized code, a user-facing message kept separate from the diagnostic
// details, and a suggested remediation. The remote client and the local
// enumerator raise classified errors; the catalogue orchestrator is the
// single point that decides recoverability and surfaces the remediation.
//
// Create errors with the constructor functions (AuthError, RateLimitError,
// ...), add context with Wrap, and recover the classified form from a plain
// error chain with GetAppError.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes.
type ErrorCode string

const (
	// Remote fetch errors
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeAuthFailed        ErrorCode = "AUTH_FAILED"
	ErrCodeRateLimited       ErrorCode = "RATE_LIMITED"
	ErrCodeNetworkFailure    ErrorCode = "NETWORK_FAILURE"
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	ErrCodeTreeTooDeep       ErrorCode = "TREE_TOO_DEEP"

	// Configuration and local-mode errors
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeLocalPath     ErrorCode = "LOCAL_PATH_ERROR"

	// Persistence errors
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"

	// Fallback
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// ErrorCategory represents the category of an error.
type ErrorCategory string

const (
	CategoryRemote        ErrorCategory = "remote"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryLocal         ErrorCategory = "local"
	CategoryStorage       ErrorCategory = "storage"
	CategorySystem        ErrorCategory = "system"
)

// AppError represents a classified application error.
type AppError struct {
	Code        ErrorCode     `json:"code"`
	Message     string        `json:"message"`           // User-facing
	Details     string        `json:"details,omitempty"` // Diagnostic
	Remediation string        `json:"remediation,omitempty"`
	Category    ErrorCategory `json:"category"`
	Cause       error         `json:"-"`
	Retryable   bool          `json:"retryable"`

	// ResetAt is set on rate-limit errors when the API reported when the
	// quota resets.
	ResetAt *time.Time `json:"reset_at,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether a user-triggered retry is likely to help.
func (e *AppError) IsRetryable() bool {
	return e.Retryable
}

// WithDetails attaches diagnostic details to the error.
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// New creates a new application error with the given code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		Category:    categorize(code),
		Remediation: remediation(code),
		Retryable:   isRetryable(code),
	}
}

// Wrap wraps an existing error with classified context.
func Wrap(err error, code ErrorCode, message string) *AppError {
	e := New(code, message)
	e.Cause = err
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

func categorize(code ErrorCode) ErrorCategory {
	switch code {
	case ErrCodeNotFound, ErrCodeAuthFailed, ErrCodeRateLimited,
		ErrCodeNetworkFailure, ErrCodeMalformedResponse, ErrCodeTreeTooDeep:
		return CategoryRemote
	case ErrCodeConfiguration:
		return CategoryConfiguration
	case ErrCodeLocalPath:
		return CategoryLocal
	case ErrCodeStorageFailure:
		return CategoryStorage
	default:
		return CategorySystem
	}
}

func remediation(code ErrorCode) string {
	switch code {
	case ErrCodeNotFound:
		return "check the repository owner, name, path and branch"
	case ErrCodeAuthFailed:
		return "re-authenticate"
	case ErrCodeRateLimited:
		return "wait for the rate limit to reset or configure a token"
	case ErrCodeNetworkFailure:
		return "check your connection and refresh again"
	case ErrCodeMalformedResponse:
		return "refresh again; report if it persists"
	case ErrCodeTreeTooDeep:
		return "point the configuration at a shallower subdirectory"
	case ErrCodeConfiguration:
		return "reconfigure"
	case ErrCodeLocalPath:
		return "check that the local template directory exists and is readable"
	default:
		return ""
	}
}

func isRetryable(code ErrorCode) bool {
	switch code {
	case ErrCodeNetworkFailure, ErrCodeRateLimited, ErrCodeStorageFailure:
		return true
	default:
		return false
	}
}

// Constructors for the domain's failure classes.

func NotFoundError(what string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", what))
}

func AuthError(message string, cause error) *AppError {
	return Wrap(cause, ErrCodeAuthFailed, message)
}

// RateLimitError records quota exhaustion. resetAt may be nil when the API
// did not report a reset time.
func RateLimitError(resetAt *time.Time, cause error) *AppError {
	msg := "API rate limit exhausted"
	if resetAt != nil {
		msg = fmt.Sprintf("API rate limit exhausted until %s", resetAt.Format(time.RFC1123))
	}
	e := Wrap(cause, ErrCodeRateLimited, msg)
	e.ResetAt = resetAt
	return e
}

func NetworkError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeNetworkFailure, fmt.Sprintf("network failure during %s", operation))
}

func MalformedResponseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeMalformedResponse, fmt.Sprintf("unexpected response while %s", operation))
}

func TooDeepError(path string, limit int) *AppError {
	e := New(ErrCodeTreeTooDeep, fmt.Sprintf("directory tree deeper than %d levels", limit))
	e.Details = fmt.Sprintf("traversal stopped at %q", path)
	return e
}

func ConfigurationError(message string) *AppError {
	return New(ErrCodeConfiguration, message)
}

func LocalPathError(path string, err error) *AppError {
	return Wrap(err, ErrCodeLocalPath, fmt.Sprintf("cannot read local template directory %s", path))
}

func StorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageFailure, fmt.Sprintf("storage operation failed: %s", operation))
}

// IsAppError checks if an error chain contains an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error chain, or classifies the
// error as internal.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrCodeInternal, "internal error occurred")
}
