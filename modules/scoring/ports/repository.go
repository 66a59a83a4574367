package ports

import (
	"context"

	"github.com/andreypavlenko/postingguard/modules/scoring/model"
)

// JobRepository persists JobRecords together with the most recent ScoredJob
// computed for them. A ScoredJob is produced once per evaluation; persisted
// copies are overwritten by later evaluations.
type JobRepository interface {
	// Upsert stores the record and its freshly computed score, keyed by
	// job_id. A second call for the same job_id overwrites the prior
	// scored copy; it never creates a duplicate row.
	Upsert(ctx context.Context, record *model.JobRecord, scored *model.ScoredJob) error

	// GetScoredJob returns the most recently persisted ScoredJob for a
	// job_id, or ErrJobNotFound if none exists.
	GetScoredJob(ctx context.Context, jobID string) (*model.ScoredJob, error)

	// GetRecord returns the most recently persisted raw JobRecord for a
	// job_id, or ErrJobNotFound if none exists.
	GetRecord(ctx context.Context, jobID string) (*model.JobRecord, error)

	// Exists reports whether a job_id has a scored job on record. Backs
	// the apply module's unknown_jobs check on enqueue.
	Exists(ctx context.Context, jobID string) (bool, error)
}
