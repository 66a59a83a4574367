package model

import "errors"

var (
	// ErrUnknownUser is returned when enqueue targets a user_id that does
	// not exist.
	ErrUnknownUser = errors.New("unknown user")

	// ErrUnknownJob is returned when enqueue targets a job_id with no
	// corresponding scored job.
	ErrUnknownJob = errors.New("unknown job")

	// ErrInvalidTransition is returned when a transition request names a
	// to_status the FSM does not allow from the task's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrReasonRequired is returned when a transition into failed omits
	// the required reason.
	ErrReasonRequired = errors.New("reason is required for this transition")

	// ErrTaskNotFound is returned when a task id does not resolve.
	ErrTaskNotFound = errors.New("task not found")

	// ErrDuplicateActiveTask names the case of a (user_id, job_id) pair
	// that already has a non-terminal task. Enqueue skips such jobs and
	// does not return it; GetErrorCode and the handler still map it.
	ErrDuplicateActiveTask = errors.New("an active task already exists for this user and job")
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodeUnknownUser         ErrorCode = "UNKNOWN_USER"
	CodeUnknownJob          ErrorCode = "UNKNOWN_JOB"
	CodeInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	CodeReasonRequired      ErrorCode = "REASON_REQUIRED"
	CodeTaskNotFound        ErrorCode = "TASK_NOT_FOUND"
	CodeDuplicateActiveTask ErrorCode = "DUPLICATE_ACTIVE_TASK"
	CodeInternalError       ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes.
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrUnknownUser):
		return CodeUnknownUser
	case errors.Is(err, ErrUnknownJob):
		return CodeUnknownJob
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrReasonRequired):
		return CodeReasonRequired
	case errors.Is(err, ErrTaskNotFound):
		return CodeTaskNotFound
	case errors.Is(err, ErrDuplicateActiveTask):
		return CodeDuplicateActiveTask
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message.
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnknownUser):
		return "Unknown user"
	case errors.Is(err, ErrUnknownJob):
		return "Unknown job"
	case errors.Is(err, ErrInvalidTransition):
		return "This status transition is not allowed"
	case errors.Is(err, ErrReasonRequired):
		return "A reason is required for this transition"
	case errors.Is(err, ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, ErrDuplicateActiveTask):
		return "An active task already exists for this user and job"
	default:
		return "Internal server error"
	}
}
