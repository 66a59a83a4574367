// Package repository implements the Run & Session Store: ApplyRuns and
// ObservabilityEvents atop Postgres, and the ActiveApplySession atop Redis
// for one end-to-end application attempt.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andreypavlenko/postingguard/internal/platform/clock"
	"github.com/andreypavlenko/postingguard/modules/runs/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunRepository implements ports.RunRepository.
type RunRepository struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

// NewRunRepository creates a new run repository.
func NewRunRepository(pool *pgxpool.Pool, clk clock.Clock) *RunRepository {
	return &RunRepository{pool: pool, clock: clk}
}

// StartRun inserts a new ApplyRun.
func (r *RunRepository) StartRun(ctx context.Context, run *model.ApplyRun) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO apply_runs (
			id, user_id, job_id, task_id, initial_url, current_url, ats_kind,
			intent, stage, status, fill_rate, fields_attempted, fields_filled,
			fields_skipped, failure_reason, created_at, updated_at, ended_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`,
		run.ID, run.UserID, run.JobID, run.TaskID, run.InitialURL, run.CurrentURL,
		run.ATSKind, run.Intent, run.Stage, string(run.Status), run.FillRate,
		run.FieldsAttempted, run.FieldsFilled, run.FieldsSkipped, run.FailureReason,
		run.CreatedAt, run.UpdatedAt, run.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("insert apply_run: %w", err)
	}
	return nil
}

const runSelectColumns = `
	id, user_id, job_id, task_id, initial_url, current_url, ats_kind, intent,
	stage, status, fill_rate, fields_attempted, fields_filled, fields_skipped,
	failure_reason, created_at, updated_at, ended_at
`

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*model.ApplyRun, error) {
	var run model.ApplyRun
	var status string
	err := row.Scan(
		&run.ID, &run.UserID, &run.JobID, &run.TaskID, &run.InitialURL, &run.CurrentURL,
		&run.ATSKind, &run.Intent, &run.Stage, &status, &run.FillRate,
		&run.FieldsAttempted, &run.FieldsFilled, &run.FieldsSkipped,
		&run.FailureReason, &run.CreatedAt, &run.UpdatedAt, &run.EndedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)
	return &run, nil
}

// GetRun fetches a run by id.
func (r *RunRepository) GetRun(ctx context.Context, runID string) (*model.ApplyRun, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM apply_runs WHERE id = $1`, runSelectColumns), runID)
	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan apply_run: %w", err)
	}
	return run, nil
}

// UpdateRun applies patch to the run's mutable fields, stamping ended_at the
// moment status enters a terminal state.
func (r *RunRepository) UpdateRun(ctx context.Context, runID string, patch model.RunPatch) (*model.ApplyRun, error) {
	current, err := r.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	if patch.CurrentURL != nil {
		current.CurrentURL = *patch.CurrentURL
	}
	if patch.ATSKind != nil {
		current.ATSKind = patch.ATSKind
	}
	if patch.Intent != nil {
		current.Intent = patch.Intent
	}
	if patch.Stage != nil {
		current.Stage = patch.Stage
	}
	if patch.FillRate != nil {
		current.FillRate = patch.FillRate
	}
	if patch.FieldsAttempted != nil {
		current.FieldsAttempted = *patch.FieldsAttempted
	}
	if patch.FieldsFilled != nil {
		current.FieldsFilled = *patch.FieldsFilled
	}
	if patch.FieldsSkipped != nil {
		current.FieldsSkipped = *patch.FieldsSkipped
	}
	if patch.FailureReason != nil {
		current.FailureReason = patch.FailureReason
	}
	if patch.Status != nil {
		current.Status = *patch.Status
		if model.IsTerminal(current.Status) && current.EndedAt == nil {
			now := r.clock.Now()
			current.EndedAt = &now
		}
	}
	current.UpdatedAt = r.clock.Now()

	_, err = r.pool.Exec(ctx, `
		UPDATE apply_runs SET
			current_url = $1, ats_kind = $2, intent = $3, stage = $4, status = $5,
			fill_rate = $6, fields_attempted = $7, fields_filled = $8,
			fields_skipped = $9, failure_reason = $10, updated_at = $11, ended_at = $12
		WHERE id = $13
	`,
		current.CurrentURL, current.ATSKind, current.Intent, current.Stage,
		string(current.Status), current.FillRate, current.FieldsAttempted,
		current.FieldsFilled, current.FieldsSkipped, current.FailureReason,
		current.UpdatedAt, current.EndedAt, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("update apply_run: %w", err)
	}
	return current, nil
}

// AppendEvent inserts an append-only ObservabilityEvent.
func (r *RunRepository) AppendEvent(ctx context.Context, event *model.ObservabilityEvent) error {
	payloadJSON, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO observability_events (
			id, run_id, user_id, source, severity, event_name, event_version, ts,
			url, payload, dedup_key, request_id, detection_id, page_id, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		event.ID, event.RunID, event.UserID, string(event.Source), string(event.Severity),
		event.EventName, event.EventVersion, event.TS, event.URL, payloadJSON,
		event.DedupKey, event.RequestID, event.DetectionID, event.PageID, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert observability_event: %w", err)
	}
	return nil
}

// ListEvents returns a run's events ordered by ts ascending.
func (r *RunRepository) ListEvents(ctx context.Context, runID string) ([]*model.ObservabilityEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, run_id, user_id, source, severity, event_name, event_version,
		       ts, url, payload, dedup_key, request_id, detection_id, page_id, created_at
		FROM observability_events
		WHERE run_id = $1
		ORDER BY ts ASC, created_at ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query observability_events: %w", err)
	}
	defer rows.Close()

	var events []*model.ObservabilityEvent
	for rows.Next() {
		var e model.ObservabilityEvent
		var source, severity string
		var payloadJSON []byte
		if err := rows.Scan(
			&e.ID, &e.RunID, &e.UserID, &source, &severity, &e.EventName, &e.EventVersion,
			&e.TS, &e.URL, &payloadJSON, &e.DedupKey, &e.RequestID, &e.DetectionID, &e.PageID, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan observability_event: %w", err)
		}
		e.Source = model.Source(source)
		e.Severity = model.Severity(severity)
		if len(payloadJSON) > 0 {
			if err := json.Unmarshal(payloadJSON, &e.Payload); err != nil {
				return nil, fmt.Errorf("unmarshal payload: %w", err)
			}
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
