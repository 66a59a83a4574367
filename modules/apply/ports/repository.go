package ports

import (
	"context"

	"github.com/andreypavlenko/postingguard/modules/apply/model"
	"github.com/andreypavlenko/postingguard/modules/apply/priority"
)

// TaskRepository defines data access for apply tasks and their event trail.
type TaskRepository interface {
	// Create inserts a new task and its initial "queued" event atomically.
	Create(ctx context.Context, task *model.Task) error

	GetByID(ctx context.Context, id string) (*model.Task, error)

	// GetActiveByUserAndJob returns a non-terminal task for (userID, jobID)
	// if one exists, or nil if none does.
	GetActiveByUserAndJob(ctx context.Context, userID, jobID string) (*model.Task, error)

	ListByUser(ctx context.Context, userID string, query model.ListQuery) ([]*model.Task, error)

	// CountByUser returns the unfiltered total for the same user+status
	// filter list uses, independent of limit/offset.
	CountByUser(ctx context.Context, userID string, status *model.Status) (int, error)

	// Transition applies a status change and appends the corresponding
	// TaskEvent in a single transaction.
	Transition(ctx context.Context, taskID string, to model.Status, reason *string, details map[string]interface{}) (*model.Task, error)

	ListEvents(ctx context.Context, taskID string) ([]*model.TaskEvent, error)
}

// UserExistenceChecker is the narrow dependency apply needs from the users
// module: whether a user_id is known.
type UserExistenceChecker interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// JobExistenceChecker is the narrow dependency apply needs from scoring:
// whether a job_id has a scored job on record.
type JobExistenceChecker interface {
	Exists(ctx context.Context, jobID string) (bool, error)
}

// PriorityInputProvider resolves the priority calculator's Input for a
// job_id: the decision computed by the Decision Explainer and the
// days-since-posted and score read off the scored job and its record.
type PriorityInputProvider interface {
	PriorityInput(ctx context.Context, jobID string) (priority.Input, error)
}
