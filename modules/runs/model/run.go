// Package model holds the Run & Session Store's value types:
// ApplyRun, ObservabilityEvent, and ActiveApplySession.
package model

import "time"

// RunStatus is an ApplyRun's lifecycle state.
type RunStatus string

const (
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusSuccess    RunStatus = "success"
	RunStatusFailed     RunStatus = "failed"
	RunStatusAbandoned  RunStatus = "abandoned"
)

// terminalRunStatuses stamps ended_at when update_run transitions into one
// of these.
var terminalRunStatuses = map[RunStatus]bool{
	RunStatusSuccess:   true,
	RunStatusFailed:    true,
	RunStatusAbandoned: true,
}

// IsTerminal reports whether a run status is terminal.
func IsTerminal(status RunStatus) bool {
	return terminalRunStatuses[status]
}

// ApplyRun is one end-to-end application attempt for a specific task.
type ApplyRun struct {
	ID             string
	UserID         string
	JobID          *string
	TaskID         *string
	InitialURL     string
	CurrentURL     string
	ATSKind        *string
	Intent         *string
	Stage          *string
	Status         RunStatus
	FillRate       *float64
	FieldsAttempted int
	FieldsFilled    int
	FieldsSkipped   int
	FailureReason  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	EndedAt        *time.Time
}

// RunDTO is the reader-facing shape of an ApplyRun.
type RunDTO struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	JobID           *string    `json:"job_id,omitempty"`
	TaskID          *string    `json:"task_id,omitempty"`
	InitialURL      string     `json:"initial_url"`
	CurrentURL      string     `json:"current_url"`
	ATSKind         *string    `json:"ats_kind,omitempty"`
	Intent          *string    `json:"intent,omitempty"`
	Stage           *string    `json:"stage,omitempty"`
	Status          RunStatus  `json:"status"`
	FillRate        *float64   `json:"fill_rate,omitempty"`
	FieldsAttempted int        `json:"fields_attempted"`
	FieldsFilled    int        `json:"fields_filled"`
	FieldsSkipped   int        `json:"fields_skipped"`
	FailureReason   *string    `json:"failure_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
}

// ToDTO converts an ApplyRun to its reader-facing shape.
func (r *ApplyRun) ToDTO() *RunDTO {
	return &RunDTO{
		ID:              r.ID,
		UserID:          r.UserID,
		JobID:           r.JobID,
		TaskID:          r.TaskID,
		InitialURL:      r.InitialURL,
		CurrentURL:      r.CurrentURL,
		ATSKind:         r.ATSKind,
		Intent:          r.Intent,
		Stage:           r.Stage,
		Status:          r.Status,
		FillRate:        r.FillRate,
		FieldsAttempted: r.FieldsAttempted,
		FieldsFilled:    r.FieldsFilled,
		FieldsSkipped:   r.FieldsSkipped,
		FailureReason:   r.FailureReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		EndedAt:         r.EndedAt,
	}
}

// RunPatch carries the optional fields update_run may mutate.
type RunPatch struct {
	CurrentURL      *string
	ATSKind         *string
	Intent          *string
	Stage           *string
	Status          *RunStatus
	FillRate        *float64
	FieldsAttempted *int
	FieldsFilled    *int
	FieldsSkipped   *int
	FailureReason   *string
}
