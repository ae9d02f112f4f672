package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the human-readable message, followed by the cause when present.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code, so that
// errors.Is(err, errors.IndexOutOfRange(0)) matches any out-of-range failure.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !stderrors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// IndexOutOfRange reports a position that falls outside the items that exist.
// The index is reported as the caller wrote it, negative values included.
func IndexOutOfRange(index int) *AppError {
	return &AppError{
		Code:    ErrCodeIndexOutOfRange,
		Message: fmt.Sprintf("Index %d is out of range.", index),
		Details: map[string]any{"index": index},
	}
}

// InvalidArgument reports an operator argument that cannot be used.
func InvalidArgument(name, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidArgument,
		Message: fmt.Sprintf("Invalid argument %s: %s", name, reason),
		Details: map[string]any{"argument": name},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingField,
		Message: fmt.Sprintf("Missing required field: %s", field),
		Details: map[string]any{"field": field},
	}
}

// UnknownStage reports a plan operation name with no registered implementation.
func UnknownStage(kind, name string) *AppError {
	return &AppError{
		Code:    ErrCodeUnknownStage,
		Message: fmt.Sprintf("Unknown %s %q", kind, name),
		Details: map[string]any{"kind": kind, "name": name},
	}
}

// NotFound reports a named resource that does not exist.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s %q not found", resource, id),
		Details: map[string]any{"resource": resource, "id": id},
	}
}

// Internal wraps an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "An unexpected error occurred.",
		Cause:   cause,
	}
}

// HasCode reports whether err is, or wraps, an *AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
