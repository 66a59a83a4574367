package model

// EnqueueRequest is the payload to create a new apply task for a user
// against a scored job.
type EnqueueRequest struct {
	JobID        string                 `json:"job_id" binding:"required"`
	Priority     *int                   `json:"priority,omitempty"`
	TaskMetadata map[string]interface{} `json:"task_metadata,omitempty"`
}

// TransitionRequest moves a task from its current status to ToStatus.
type TransitionRequest struct {
	ToStatus Status                 `json:"to_status" binding:"required"`
	Reason   *string                `json:"reason,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// ListQuery filters a user's task list.
type ListQuery struct {
	Status *Status
	Limit  int
	Offset int
}
