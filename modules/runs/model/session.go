package model

import "time"

// ActiveApplySession is the per-user pointer to the currently in-flight
// run, with a TTL, used to bind a detached worker to the correct run. One
// row per user; setting it replaces any prior row atomically.
type ActiveApplySession struct {
	UserID    string
	TaskID    string
	RunID     string
	JobURL    string
	ATSType   *string
	CreatedAt time.Time
	ExpiresAt time.Time
	UpdatedAt time.Time
}

// ActiveApplySessionDTO is the reader-facing shape of an ActiveApplySession.
type ActiveApplySessionDTO struct {
	UserID    string    `json:"user_id"`
	TaskID    string    `json:"task_id"`
	RunID     string    `json:"run_id"`
	JobURL    string    `json:"job_url"`
	ATSType   *string   `json:"ats_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToDTO converts an ActiveApplySession to its reader-facing shape.
func (s *ActiveApplySession) ToDTO() *ActiveApplySessionDTO {
	return &ActiveApplySessionDTO{
		UserID:    s.UserID,
		TaskID:    s.TaskID,
		RunID:     s.RunID,
		JobURL:    s.JobURL,
		ATSType:   s.ATSType,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// Expired reports whether the session is considered absent: expires_at <=
// now.
func (s *ActiveApplySession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
