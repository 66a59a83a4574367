// Package service implements the Run & Session Store's application-level
// operations: start_run, update_run, append_event, list_events,
// and the active-session pointer.
package service

import (
	"context"
	"fmt"

	"github.com/andreypavlenko/postingguard/internal/platform/clock"
	"github.com/andreypavlenko/postingguard/modules/runs/model"
	"github.com/andreypavlenko/postingguard/modules/runs/ports"
	"github.com/google/uuid"
)

// RunService composes the Postgres-backed run/event store with the
// TTL-backed active-session store.
type RunService struct {
	runs     ports.RunRepository
	sessions ports.SessionStore
	clock    clock.Clock
}

// NewRunService composes a RunService from its collaborators.
func NewRunService(runs ports.RunRepository, sessions ports.SessionStore, c clock.Clock) *RunService {
	return &RunService{runs: runs, sessions: sessions, clock: c}
}

// StartRun creates a new in_progress ApplyRun and, when taskID is set,
// points the user's active session at it so a detached worker can resume
// against the right run.
func (s *RunService) StartRun(ctx context.Context, userID string, taskID, jobID *string, initialURL string, atsType *string) (*model.ApplyRun, error) {
	now := s.clock.Now()
	run := &model.ApplyRun{
		ID:         uuid.New().String(),
		UserID:     userID,
		JobID:      jobID,
		TaskID:     taskID,
		InitialURL: initialURL,
		CurrentURL: initialURL,
		ATSKind:    atsType,
		Status:     model.RunStatusInProgress,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.runs.StartRun(ctx, run); err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}

	if taskID != nil {
		session := &model.ActiveApplySession{
			UserID:  userID,
			TaskID:  *taskID,
			RunID:   run.ID,
			JobURL:  initialURL,
			ATSType: atsType,
		}
		if err := s.sessions.SetActiveSession(ctx, session); err != nil {
			return nil, fmt.Errorf("set active session: %w", err)
		}
	}

	return run, nil
}

// GetRun returns a run by id.
func (s *RunService) GetRun(ctx context.Context, runID string) (*model.ApplyRun, error) {
	return s.runs.GetRun(ctx, runID)
}

// UpdateRun applies patch to a run's mutable fields. When the patch moves
// the run into a terminal status, the user's active session (if it still
// points at this run) is cleared so a stale pointer cannot bind a later
// worker to a finished run.
func (s *RunService) UpdateRun(ctx context.Context, runID string, patch model.RunPatch) (*model.ApplyRun, error) {
	updated, err := s.runs.UpdateRun(ctx, runID, patch)
	if err != nil {
		return nil, fmt.Errorf("update run: %w", err)
	}

	if patch.Status != nil && model.IsTerminal(*patch.Status) {
		active, err := s.sessions.GetActiveSession(ctx, updated.UserID)
		if err != nil {
			return nil, fmt.Errorf("load active session: %w", err)
		}
		if active != nil && active.RunID == runID {
			if err := s.sessions.ClearActiveSession(ctx, updated.UserID); err != nil {
				return nil, fmt.Errorf("clear active session: %w", err)
			}
		}
	}

	return updated, nil
}

// AppendEvent records one ObservabilityEvent against a run.
func (s *RunService) AppendEvent(ctx context.Context, runID, userID string, source model.Source, severity model.Severity, eventName, eventVersion string, url *string, payload map[string]interface{}, dedupKey, requestID, detectionID, pageID *string) (*model.ObservabilityEvent, error) {
	event := &model.ObservabilityEvent{
		ID:           uuid.New().String(),
		RunID:        runID,
		UserID:       userID,
		Source:       source,
		Severity:     severity,
		EventName:    eventName,
		EventVersion: eventVersion,
		TS:           s.clock.Now(),
		URL:          url,
		Payload:      payload,
		DedupKey:     dedupKey,
		RequestID:    requestID,
		DetectionID:  detectionID,
		PageID:       pageID,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.runs.AppendEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}
	return event, nil
}

// ListEvents returns a run's events ordered by ts ascending.
func (s *RunService) ListEvents(ctx context.Context, runID string) ([]*model.ObservabilityEvent, error) {
	return s.runs.ListEvents(ctx, runID)
}

// SetActiveSession points the user's active session at a run, replacing any
// prior session and restarting its TTL.
func (s *RunService) SetActiveSession(ctx context.Context, userID, taskID, runID, jobURL string, atsType *string) (*model.ActiveApplySession, error) {
	session := &model.ActiveApplySession{
		UserID:  userID,
		TaskID:  taskID,
		RunID:   runID,
		JobURL:  jobURL,
		ATSType: atsType,
	}
	if err := s.sessions.SetActiveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("set active session: %w", err)
	}
	return session, nil
}

// GetActiveSession returns the user's active session, or nil if absent or
// expired.
func (s *RunService) GetActiveSession(ctx context.Context, userID string) (*model.ActiveApplySession, error) {
	return s.sessions.GetActiveSession(ctx, userID)
}

// ClearActiveSession removes the user's active session, if any.
func (s *RunService) ClearActiveSession(ctx context.Context, userID string) error {
	return s.sessions.ClearActiveSession(ctx, userID)
}
