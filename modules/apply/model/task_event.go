package model

import "time"

// TaskEvent is an append-only record of one status transition a Task went
// through. The full sequence of events for a task is its audit trail.
type TaskEvent struct {
	ID         string
	TaskID     string
	FromStatus Status
	ToStatus   Status
	Reason     *string
	Details    map[string]interface{}
	CreatedAt  time.Time
}

// TaskEventDTO is the reader-facing shape of a TaskEvent.
type TaskEventDTO struct {
	ID         string                 `json:"id"`
	TaskID     string                 `json:"task_id"`
	FromStatus Status                 `json:"from_status"`
	ToStatus   Status                 `json:"to_status"`
	Reason     *string                `json:"reason,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// ToDTO converts a TaskEvent to its reader-facing shape.
func (e *TaskEvent) ToDTO() *TaskEventDTO {
	return &TaskEventDTO{
		ID:         e.ID,
		TaskID:     e.TaskID,
		FromStatus: e.FromStatus,
		ToStatus:   e.ToStatus,
		Reason:     e.Reason,
		Details:    e.Details,
		CreatedAt:  e.CreatedAt,
	}
}

// ReasonRequiredFor reports whether a transition into to requires a
// non-empty reason. Only failed does: the reason doubles as the task's
// last_error.
func ReasonRequiredFor(to Status) bool {
	return to == StatusFailed
}
