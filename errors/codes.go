package errors

import "net/http"

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Sequence engine errors
const (
	// ErrCodeIndexOutOfRange indicates a position that cannot be placed inside the items that exist.
	ErrCodeIndexOutOfRange ErrorCode = "INDEX_OUT_OF_RANGE"
	// ErrCodeInvalidArgument indicates an operator was constructed with an unusable argument.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// Input/Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeUnknownStage indicates a plan names a stage or terminal that does not exist.
	ErrCodeUnknownStage ErrorCode = "UNKNOWN_STAGE"
)

// Request errors
const (
	// ErrCodeNotFound indicates a named resource such as a stored plan does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeRequestTooLarge indicates the request body exceeded the configured limit.
	ErrCodeRequestTooLarge ErrorCode = "REQUEST_TOO_LARGE"
	// ErrCodeRateLimited indicates the caller sent too many requests.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeOverloaded indicates no evaluation slot became free in time.
	ErrCodeOverloaded ErrorCode = "OVERLOADED"
)

// System errors
const (
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var statusByCode = map[ErrorCode]int{
	ErrCodeIndexOutOfRange: http.StatusUnprocessableEntity,
	ErrCodeInvalidArgument: http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeMissingField:    http.StatusBadRequest,
	ErrCodeUnknownStage:    http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeOverloaded:      http.StatusServiceUnavailable,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status recommended for the code.
// Unknown codes map to 500.
func HTTPStatus(code ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
