package model

import "errors"

var (
	// ErrJobNotFound is returned when a job_id has no corresponding scored
	// job on record.
	ErrJobNotFound = errors.New("scored job not found")

	// ErrDuplicateJob maps to DUPLICATE_JOB. JobRepository.Upsert does not
	// return it: a repeated job_id overwrites the prior row, and url is not
	// checked for uniqueness.
	ErrDuplicateJob = errors.New("job_id or url already exists")
)

// ErrorCode is a machine-readable error code for the scoring HTTP surface.
type ErrorCode string

const (
	CodeJobNotFound    ErrorCode = "JOB_NOT_FOUND"
	CodeDuplicateJob   ErrorCode = "DUPLICATE_JOB"
	CodeValidationErr  ErrorCode = "VALIDATION_ERROR"
	CodeInternalError  ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes.
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrJobNotFound):
		return CodeJobNotFound
	case errors.Is(err, ErrDuplicateJob):
		return CodeDuplicateJob
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message.
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrJobNotFound):
		return "Scored job not found"
	case errors.Is(err, ErrDuplicateJob):
		return "A job with this id or url already exists"
	default:
		return "Internal server error"
	}
}
