package ports

import (
	"context"

	"github.com/andreypavlenko/postingguard/modules/runs/model"
)

// RunRepository persists ApplyRuns and their ObservabilityEvents. Runs and
// events are never mutated except for the explicit patch update_run applies
// to a run's own aggregate fields.
type RunRepository interface {
	StartRun(ctx context.Context, run *model.ApplyRun) error
	GetRun(ctx context.Context, runID string) (*model.ApplyRun, error)
	UpdateRun(ctx context.Context, runID string, patch model.RunPatch) (*model.ApplyRun, error)

	AppendEvent(ctx context.Context, event *model.ObservabilityEvent) error
	ListEvents(ctx context.Context, runID string) ([]*model.ObservabilityEvent, error)
}

// SessionStore persists the per-user ActiveApplySession with TTL semantics.
// Backed by Redis in production, which fits a TTL-expiring pointer naturally;
// GetActiveSession returns absent once the TTL has elapsed even if the
// underlying store has not yet evicted the key.
type SessionStore interface {
	SetActiveSession(ctx context.Context, session *model.ActiveApplySession) error
	GetActiveSession(ctx context.Context, userID string) (*model.ActiveApplySession, error)
	ClearActiveSession(ctx context.Context, userID string) error
}
