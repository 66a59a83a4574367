// Package repository implements the Task Store atop Postgres, wrapping a
// pgxpool.Pool the same way the other repositories in this codebase do —
// plus the transactional compare-and-swap transition needs.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andreypavlenko/postingguard/internal/platform/clock"
	"github.com/andreypavlenko/postingguard/modules/apply/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskRepository implements ports.TaskRepository.
type TaskRepository struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(pool *pgxpool.Pool, clk clock.Clock) *TaskRepository {
	return &TaskRepository{pool: pool, clock: clk}
}

// Create inserts a new task and its initial "none -> queued" event in a
// single transaction: either both persist or neither.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	metadataJSON, err := marshalMetadata(task.TaskMetadata)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO tasks (id, user_id, job_id, status, priority, attempt_count, last_error, task_metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, task.ID, task.UserID, task.JobID, string(task.Status), task.Priority, task.AttemptCount, task.LastError, metadataJSON, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO task_events (id, task_id, from_status, to_status, reason, details, created_at)
		VALUES ($1, $2, 'none', $3, NULL, NULL, $4)
	`, uuid.New().String(), task.ID, string(task.Status), task.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert initial event: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByID returns a task or nil if absent.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	return scanTask(r.pool.QueryRow(ctx, taskSelectColumns+` FROM tasks WHERE id = $1`, id))
}

// GetActiveByUserAndJob returns a non-terminal task for (userID, jobID), or
// nil if none exists.
func (r *TaskRepository) GetActiveByUserAndJob(ctx context.Context, userID, jobID string) (*model.Task, error) {
	return scanTask(r.pool.QueryRow(ctx, taskSelectColumns+`
		FROM tasks
		WHERE user_id = $1 AND job_id = $2 AND status = ANY($3)
		LIMIT 1
	`, userID, jobID, activeStatusStrings()))
}

// ListByUser returns one page of a user's tasks ordered (priority DESC,
// created_at ASC). The total for the same user+status filter comes from
// CountByUser.
func (r *TaskRepository) ListByUser(ctx context.Context, userID string, query model.ListQuery) ([]*model.Task, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error
	if query.Status != nil {
		rows, err = r.pool.Query(ctx, taskSelectColumns+`
			FROM tasks
			WHERE user_id = $1 AND status = $2
			ORDER BY priority DESC, created_at ASC
			LIMIT $3 OFFSET $4
		`, userID, string(*query.Status), limit, query.Offset)
	} else {
		rows, err = r.pool.Query(ctx, taskSelectColumns+`
			FROM tasks
			WHERE user_id = $1
			ORDER BY priority DESC, created_at ASC
			LIMIT $2 OFFSET $3
		`, userID, limit, query.Offset)
	}
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*model.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// CountByUser returns the total task count for a user+status filter,
// independent of limit/offset.
func (r *TaskRepository) CountByUser(ctx context.Context, userID string, status *model.Status) (int, error) {
	var total int
	var err error
	if status != nil {
		err = r.pool.QueryRow(ctx, `SELECT count(*) FROM tasks WHERE user_id = $1 AND status = $2`, userID, string(*status)).Scan(&total)
	} else {
		err = r.pool.QueryRow(ctx, `SELECT count(*) FROM tasks WHERE user_id = $1`, userID).Scan(&total)
	}
	return total, err
}

// Transition applies a status change and appends the corresponding
// TaskEvent atomically. The task row is read with SELECT ... FOR UPDATE, so
// a second caller racing on the same task waits for the first to commit and
// then fails with ErrInvalidTransition computed against the row's
// now-current status. The UPDATE's WHERE clause also repeats the observed
// status; if it affects no row, a bare ErrInvalidTransition is returned.
func (r *TaskRepository) Transition(ctx context.Context, taskID string, to model.Status, reason *string, details map[string]interface{}) (*model.Task, error) {
	detailsJSON, err := marshalMetadata(details)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanTask(tx.QueryRow(ctx, taskSelectColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, taskID))
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, model.ErrTaskNotFound
	}
	if !model.CanTransition(current.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s not in %v", model.ErrInvalidTransition, current.Status, to, model.LegalTransitionsFrom(current.Status))
	}

	attemptCount := current.AttemptCount
	lastError := current.LastError
	if to == model.StatusInProgress {
		attemptCount++
	}
	if to == model.StatusFailed {
		lastError = reason
	}

	now := r.clock.Now()

	tag, err := tx.Exec(ctx, `
		UPDATE tasks
		SET status = $1, attempt_count = $2, last_error = $3, updated_at = $4
		WHERE id = $5 AND status = $6
	`, string(to), attemptCount, lastError, now, taskID, string(current.Status))
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, model.ErrInvalidTransition
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO task_events (id, task_id, from_status, to_status, reason, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.New().String(), taskID, string(current.Status), string(to), reason, detailsJSON, now)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return r.GetByID(ctx, taskID)
}

// ListEvents returns a task's events in transition order.
func (r *TaskRepository) ListEvents(ctx context.Context, taskID string) ([]*model.TaskEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, task_id, from_status, to_status, reason, details, created_at
		FROM task_events
		WHERE task_id = $1
		ORDER BY created_at ASC
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]*model.TaskEvent, 0)
	for rows.Next() {
		var e model.TaskEvent
		var fromStatus, toStatus string
		var detailsJSON []byte
		if err := rows.Scan(&e.ID, &e.TaskID, &fromStatus, &toStatus, &e.Reason, &detailsJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.FromStatus = model.Status(fromStatus)
		e.ToStatus = model.Status(toStatus)
		if len(detailsJSON) > 0 {
			if err := json.Unmarshal(detailsJSON, &e.Details); err != nil {
				return nil, fmt.Errorf("unmarshal details: %w", err)
			}
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

const taskSelectColumns = `SELECT id, user_id, job_id, status, priority, attempt_count, last_error, task_metadata, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*model.Task, error) {
	var task model.Task
	var status string
	var metadataJSON []byte
	err := row.Scan(&task.ID, &task.UserID, &task.JobID, &status, &task.Priority, &task.AttemptCount, &task.LastError, &metadataJSON, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	task.Status = model.Status(status)
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &task.TaskMetadata); err != nil {
			return nil, fmt.Errorf("unmarshal task metadata: %w", err)
		}
	}
	return &task, nil
}

func marshalMetadata(m map[string]interface{}) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return b, nil
}

func activeStatusStrings() []string {
	out := make([]string, len(model.ActiveStatuses))
	for i, s := range model.ActiveStatuses {
		out[i] = string(s)
	}
	return out
}
