// Package service implements the Task Store + FSM's application-level
// operations: enqueue, list, get, and transition.
package service

import (
	"context"
	"fmt"

	"github.com/andreypavlenko/postingguard/internal/platform/clock"
	"github.com/andreypavlenko/postingguard/modules/apply/model"
	"github.com/andreypavlenko/postingguard/modules/apply/ports"
	"github.com/andreypavlenko/postingguard/modules/apply/priority"
	"github.com/google/uuid"
)

// TaskService composes the Task Store, the existence checkers it must
// consult before enqueueing, and the Priority Calculator.
type TaskService struct {
	tasks         ports.TaskRepository
	users         ports.UserExistenceChecker
	jobs          ports.JobExistenceChecker
	priorityInput ports.PriorityInputProvider
	clock         clock.Clock
}

// NewTaskService composes a TaskService from its collaborators.
func NewTaskService(
	tasks ports.TaskRepository,
	users ports.UserExistenceChecker,
	jobs ports.JobExistenceChecker,
	priorityInput ports.PriorityInputProvider,
	c clock.Clock,
) *TaskService {
	return &TaskService{tasks: tasks, users: users, jobs: jobs, priorityInput: priorityInput, clock: c}
}

// Enqueue verifies the user and jobs exist, filters out job_ids that
// already have an active task unless allowDuplicates is set, computes a
// priority per remaining job, and inserts one queued task (plus its initial
// event) per job. Fails fast with unknown_user/unknown_jobs; never
// partially fails once past the duplicate-filtering boundary.
func (s *TaskService) Enqueue(ctx context.Context, userID string, jobIDs []string, strategy priority.Strategy, allowDuplicates bool, taskMetadata map[string]interface{}) ([]*model.Task, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if !exists {
		return nil, model.ErrUnknownUser
	}

	for _, jobID := range jobIDs {
		ok, err := s.jobs.Exists(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("check job existence: %w", err)
		}
		if !ok {
			return nil, model.ErrUnknownJob
		}
	}

	created := make([]*model.Task, 0, len(jobIDs))
	now := s.clock.Now()

	for _, jobID := range jobIDs {
		if !allowDuplicates {
			active, err := s.tasks.GetActiveByUserAndJob(ctx, userID, jobID)
			if err != nil {
				return nil, fmt.Errorf("check active task: %w", err)
			}
			if active != nil {
				continue
			}
		}

		in, err := s.priorityInput.PriorityInput(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("compute priority input: %w", err)
		}
		prio := priority.Compute(strategy, in)

		task := &model.Task{
			ID:           uuid.New().String(),
			UserID:       userID,
			JobID:        jobID,
			Status:       model.StatusQueued,
			Priority:     prio,
			AttemptCount: 0,
			TaskMetadata: taskMetadata,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.tasks.Create(ctx, task); err != nil {
			return nil, fmt.Errorf("create task: %w", err)
		}
		created = append(created, task)
	}

	return created, nil
}

// List returns a user's tasks ordered (priority DESC, created_at ASC) along
// with the unfiltered total for the same user+status filter.
func (s *TaskService) List(ctx context.Context, userID string, query model.ListQuery) ([]*model.Task, int, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID, query)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.tasks.CountByUser(ctx, userID, query.Status)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Get returns a task by id, or nil if absent.
func (s *TaskService) Get(ctx context.Context, taskID string) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Transition validates the requested status change against the FSM and the
// reason-required rule before delegating the atomic update to the store.
// Those checks happen here so the repository only needs to re-validate the
// race (two callers transitioning the same task concurrently) against the
// row it actually holds.
func (s *TaskService) Transition(ctx context.Context, taskID string, to model.Status, reason *string, details map[string]interface{}) (*model.Task, *model.TaskEvent, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, fmt.Errorf("load task: %w", err)
	}
	if task == nil {
		return nil, nil, model.ErrTaskNotFound
	}

	if !model.CanTransition(task.Status, to) {
		return nil, nil, fmt.Errorf("%w: %s -> %s not in %v", model.ErrInvalidTransition, task.Status, to, model.LegalTransitionsFrom(task.Status))
	}

	if model.ReasonRequiredFor(to) && (reason == nil || *reason == "") {
		return nil, nil, model.ErrReasonRequired
	}

	updated, err := s.tasks.Transition(ctx, taskID, to, reason, details)
	if err != nil {
		return nil, nil, err
	}

	events, err := s.tasks.ListEvents(ctx, taskID)
	if err != nil {
		return nil, nil, fmt.Errorf("list events: %w", err)
	}
	var latest *model.TaskEvent
	if len(events) > 0 {
		latest = events[len(events)-1]
	}

	return updated, latest, nil
}

// ListEvents returns a task's full event trail in transition order.
func (s *TaskService) ListEvents(ctx context.Context, taskID string) ([]*model.TaskEvent, error) {
	return s.tasks.ListEvents(ctx, taskID)
}
