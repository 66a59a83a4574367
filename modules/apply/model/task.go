package model

import "time"

// Status is a Task's place in the apply finite state machine.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusInProgress Status = "in_progress"
	StatusNeedsUser  Status = "needs_user"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
	StatusCanceled   Status = "canceled"
)

// legalTransitions is the FSM's full transition table. Terminal states map
// to an empty (nil) set of allowed destinations.
var legalTransitions = map[Status][]Status{
	StatusQueued:     {StatusInProgress, StatusCanceled},
	StatusInProgress: {StatusNeedsUser, StatusFailed, StatusCanceled},
	StatusNeedsUser:  {StatusSuccess, StatusFailed, StatusInProgress},
	StatusFailed:     {StatusQueued},
	StatusSuccess:    nil,
	StatusCanceled:   nil,
}

// CanTransition reports whether to is a legal destination from from.
func CanTransition(from, to Status) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// LegalTransitionsFrom returns the allowed destinations from a status, for
// error messages that must name the legal set.
func LegalTransitionsFrom(from Status) []Status {
	return legalTransitions[from]
}

// Task is identified by (id, user_id, job_id) and tracks one user's attempt
// to apply to one scored job.
type Task struct {
	ID           string
	UserID       string
	JobID        string
	Status       Status
	Priority     int
	AttemptCount int
	LastError    *string
	TaskMetadata map[string]interface{}
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TaskDTO is the reader-facing shape of a Task.
type TaskDTO struct {
	ID           string                 `json:"id"`
	UserID       string                 `json:"user_id"`
	JobID        string                 `json:"job_id"`
	Status       Status                 `json:"status"`
	Priority     int                    `json:"priority"`
	AttemptCount int                    `json:"attempt_count"`
	LastError    *string                `json:"last_error,omitempty"`
	TaskMetadata map[string]interface{} `json:"task_metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// ToDTO converts a Task to its reader-facing shape.
func (t *Task) ToDTO() *TaskDTO {
	return &TaskDTO{
		ID:           t.ID,
		UserID:       t.UserID,
		JobID:        t.JobID,
		Status:       t.Status,
		Priority:     t.Priority,
		AttemptCount: t.AttemptCount,
		LastError:    t.LastError,
		TaskMetadata: t.TaskMetadata,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// ActiveStatuses are the non-terminal statuses that count against the
// at-most-one-task-per-(user,job) invariant unless duplicates are allowed.
var ActiveStatuses = []Status{StatusQueued, StatusInProgress, StatusNeedsUser}
