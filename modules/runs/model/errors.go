package model

import "errors"

var (
	// ErrRunNotFound is returned when a run_id does not resolve.
	ErrRunNotFound = errors.New("run not found")
)

// ErrorCode is a machine-readable error code for the runs HTTP surface.
type ErrorCode string

const (
	CodeRunNotFound   ErrorCode = "RUN_NOT_FOUND"
	CodeValidationErr ErrorCode = "VALIDATION_ERROR"
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes.
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrRunNotFound):
		return CodeRunNotFound
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message.
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrRunNotFound):
		return "Run not found"
	default:
		return "Internal server error"
	}
}
