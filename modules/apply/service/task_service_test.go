package service

import (
	"context"
	"testing"
	"time"

	"github.com/andreypavlenko/postingguard/internal/platform/clock"
	"github.com/andreypavlenko/postingguard/modules/apply/model"
	"github.com/andreypavlenko/postingguard/modules/apply/priority"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserExistenceChecker struct {
	ExistsFunc func(ctx context.Context, userID string) (bool, error)
}

func (m *mockUserExistenceChecker) Exists(ctx context.Context, userID string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, userID)
	}
	return true, nil
}

type mockJobExistenceChecker struct {
	ExistsFunc func(ctx context.Context, jobID string) (bool, error)
}

func (m *mockJobExistenceChecker) Exists(ctx context.Context, jobID string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, jobID)
	}
	return true, nil
}

type mockPriorityInputProvider struct {
	PriorityInputFunc func(ctx context.Context, jobID string) (priority.Input, error)
}

func (m *mockPriorityInputProvider) PriorityInput(ctx context.Context, jobID string) (priority.Input, error) {
	if m.PriorityInputFunc != nil {
		return m.PriorityInputFunc(ctx, jobID)
	}
	return priority.Input{Decision: "recommend"}, nil
}

type mockTaskRepository struct {
	CreateFunc                func(ctx context.Context, task *model.Task) error
	GetByIDFunc                func(ctx context.Context, id string) (*model.Task, error)
	GetActiveByUserAndJobFunc  func(ctx context.Context, userID, jobID string) (*model.Task, error)
	ListByUserFunc             func(ctx context.Context, userID string, query model.ListQuery) ([]*model.Task, error)
	CountByUserFunc            func(ctx context.Context, userID string, status *model.Status) (int, error)
	TransitionFunc             func(ctx context.Context, taskID string, to model.Status, reason *string, details map[string]interface{}) (*model.Task, error)
	ListEventsFunc             func(ctx context.Context, taskID string) ([]*model.TaskEvent, error)
	created                    []*model.Task
}

func (m *mockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	m.created = append(m.created, task)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTaskRepository) GetActiveByUserAndJob(ctx context.Context, userID, jobID string) (*model.Task, error) {
	if m.GetActiveByUserAndJobFunc != nil {
		return m.GetActiveByUserAndJobFunc(ctx, userID, jobID)
	}
	return nil, nil
}

func (m *mockTaskRepository) ListByUser(ctx context.Context, userID string, query model.ListQuery) ([]*model.Task, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, query)
	}
	return nil, nil
}

func (m *mockTaskRepository) CountByUser(ctx context.Context, userID string, status *model.Status) (int, error) {
	if m.CountByUserFunc != nil {
		return m.CountByUserFunc(ctx, userID, status)
	}
	return 0, nil
}

func (m *mockTaskRepository) Transition(ctx context.Context, taskID string, to model.Status, reason *string, details map[string]interface{}) (*model.Task, error) {
	if m.TransitionFunc != nil {
		return m.TransitionFunc(ctx, taskID, to, reason, details)
	}
	return nil, nil
}

func (m *mockTaskRepository) ListEvents(ctx context.Context, taskID string) ([]*model.TaskEvent, error) {
	if m.ListEventsFunc != nil {
		return m.ListEventsFunc(ctx, taskID)
	}
	return nil, nil
}

func TestTaskService_Enqueue_UnknownUserFailsFast(t *testing.T) {
	tasks := &mockTaskRepository{}
	users := &mockUserExistenceChecker{ExistsFunc: func(ctx context.Context, userID string) (bool, error) { return false, nil }}
	svc := NewTaskService(tasks, users, &mockJobExistenceChecker{}, &mockPriorityInputProvider{}, clock.System{})

	_, err := svc.Enqueue(context.Background(), "ghost-user", []string{"job-1"}, priority.StrategyDecisionThenNewest, false, nil)
	require.ErrorIs(t, err, model.ErrUnknownUser)
	assert.Empty(t, tasks.created)
}

func TestTaskService_Enqueue_UnknownJobFailsFast(t *testing.T) {
	tasks := &mockTaskRepository{}
	jobs := &mockJobExistenceChecker{ExistsFunc: func(ctx context.Context, jobID string) (bool, error) { return false, nil }}
	svc := NewTaskService(tasks, &mockUserExistenceChecker{}, jobs, &mockPriorityInputProvider{}, clock.System{})

	_, err := svc.Enqueue(context.Background(), "user-1", []string{"ghost-job"}, priority.StrategyDecisionThenNewest, false, nil)
	require.ErrorIs(t, err, model.ErrUnknownJob)
	assert.Empty(t, tasks.created)
}

func TestTaskService_Enqueue_SkipsJobsWithAnActiveTaskUnlessDuplicatesAllowed(t *testing.T) {
	existing := &model.Task{ID: "existing", Status: model.StatusInProgress}
	tasks := &mockTaskRepository{
		GetActiveByUserAndJobFunc: func(ctx context.Context, userID, jobID string) (*model.Task, error) {
			if jobID == "job-with-active-task" {
				return existing, nil
			}
			return nil, nil
		},
	}
	svc := NewTaskService(tasks, &mockUserExistenceChecker{}, &mockJobExistenceChecker{}, &mockPriorityInputProvider{}, clock.System{})

	created, err := svc.Enqueue(context.Background(), "user-1", []string{"job-with-active-task", "job-fresh"}, priority.StrategyDecisionThenNewest, false, nil)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "job-fresh", created[0].JobID)
}

func TestTaskService_Enqueue_AllowDuplicatesSkipsTheActiveTaskCheck(t *testing.T) {
	called := false
	tasks := &mockTaskRepository{
		GetActiveByUserAndJobFunc: func(ctx context.Context, userID, jobID string) (*model.Task, error) {
			called = true
			return &model.Task{ID: "existing", Status: model.StatusInProgress}, nil
		},
	}
	svc := NewTaskService(tasks, &mockUserExistenceChecker{}, &mockJobExistenceChecker{}, &mockPriorityInputProvider{}, clock.System{})

	created, err := svc.Enqueue(context.Background(), "user-1", []string{"job-1"}, priority.StrategyDecisionThenNewest, true, nil)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.False(t, called)
}

func TestTaskService_Enqueue_ComputesPriorityPerJob(t *testing.T) {
	tasks := &mockTaskRepository{}
	priorityInput := &mockPriorityInputProvider{
		PriorityInputFunc: func(ctx context.Context, jobID string) (priority.Input, error) {
			return priority.Input{Decision: "recommend", DaysSincePosted: intPtr(0)}, nil
		},
	}
	svc := NewTaskService(tasks, &mockUserExistenceChecker{}, &mockJobExistenceChecker{}, priorityInput, clock.System{})

	created, err := svc.Enqueue(context.Background(), "user-1", []string{"job-1"}, priority.StrategyDecisionThenNewest, false, nil)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, 1099, created[0].Priority)
	assert.Equal(t, model.StatusQueued, created[0].Status)
}

func TestTaskService_Transition_RejectsIllegalTransition(t *testing.T) {
	tasks := &mockTaskRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*model.Task, error) {
			return &model.Task{ID: id, Status: model.StatusSuccess}, nil
		},
	}
	svc := NewTaskService(tasks, &mockUserExistenceChecker{}, &mockJobExistenceChecker{}, &mockPriorityInputProvider{}, clock.System{})

	_, _, err := svc.Transition(context.Background(), "task-1", model.StatusQueued, nil, nil)
	require.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestTaskService_Transition_RequiresReasonForFailed(t *testing.T) {
	tasks := &mockTaskRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*model.Task, error) {
			return &model.Task{ID: id, Status: model.StatusInProgress}, nil
		},
	}
	svc := NewTaskService(tasks, &mockUserExistenceChecker{}, &mockJobExistenceChecker{}, &mockPriorityInputProvider{}, clock.System{})

	_, _, err := svc.Transition(context.Background(), "task-1", model.StatusFailed, nil, nil)
	require.ErrorIs(t, err, model.ErrReasonRequired)
}

func TestTaskService_Transition_UnknownTaskFails(t *testing.T) {
	tasks := &mockTaskRepository{}
	svc := NewTaskService(tasks, &mockUserExistenceChecker{}, &mockJobExistenceChecker{}, &mockPriorityInputProvider{}, clock.System{})

	_, _, err := svc.Transition(context.Background(), "ghost", model.StatusInProgress, nil, nil)
	require.ErrorIs(t, err, model.ErrTaskNotFound)
}

func TestTaskService_Transition_HappyPathReturnsUpdatedTaskAndLatestEvent(t *testing.T) {
	reason := "fields filled successfully"
	updatedAt := time.Now()
	tasks := &mockTaskRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*model.Task, error) {
			return &model.Task{ID: id, Status: model.StatusNeedsUser}, nil
		},
		TransitionFunc: func(ctx context.Context, taskID string, to model.Status, reason *string, details map[string]interface{}) (*model.Task, error) {
			return &model.Task{ID: taskID, Status: to, UpdatedAt: updatedAt}, nil
		},
		ListEventsFunc: func(ctx context.Context, taskID string) ([]*model.TaskEvent, error) {
			return []*model.TaskEvent{
				{ID: "e1", TaskID: taskID, FromStatus: model.StatusInProgress, ToStatus: model.StatusNeedsUser},
				{ID: "e2", TaskID: taskID, FromStatus: model.StatusNeedsUser, ToStatus: model.StatusSuccess, Reason: &reason},
			}, nil
		},
	}
	svc := NewTaskService(tasks, &mockUserExistenceChecker{}, &mockJobExistenceChecker{}, &mockPriorityInputProvider{}, clock.System{})

	updated, latest, err := svc.Transition(context.Background(), "task-1", model.StatusSuccess, &reason, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, updated.Status)
	require.NotNil(t, latest)
	assert.Equal(t, "e2", latest.ID)
}

func intPtr(v int) *int { return &v }
