// Package repository persists JobRecords and their ScoredJob results in
// Postgres, wrapping a pgxpool.Pool the same way the other repositories
// in this codebase do.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andreypavlenko/postingguard/modules/scoring/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// JobRepository implements ports.JobRepository.
type JobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new job repository.
func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

// Upsert stores record and scored, overwriting any prior scored copy for
// the same job_id.
func (r *JobRepository) Upsert(ctx context.Context, record *model.JobRecord, scored *model.ScoredJob) error {
	rawJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal job record: %w", err)
	}
	scoredJSON, err := json.Marshal(scored)
	if err != nil {
		return fmt.Errorf("marshal scored job: %w", err)
	}

	query := `
		INSERT INTO jobs (job_id, url, platform, raw_record, scored_job, authenticity_score, level, confidence, computed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (job_id) DO UPDATE SET
			url = EXCLUDED.url,
			platform = EXCLUDED.platform,
			raw_record = EXCLUDED.raw_record,
			scored_job = EXCLUDED.scored_job,
			authenticity_score = EXCLUDED.authenticity_score,
			level = EXCLUDED.level,
			confidence = EXCLUDED.confidence,
			computed_at = EXCLUDED.computed_at,
			updated_at = now()
	`
	_, err = r.pool.Exec(ctx, query,
		record.JobID,
		record.URL,
		record.Platform,
		rawJSON,
		scoredJSON,
		scored.AuthenticityScore,
		string(scored.Level),
		string(scored.Confidence),
		scored.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert job: %w", err)
	}
	return nil
}

// GetScoredJob returns the most recently persisted ScoredJob for jobID.
func (r *JobRepository) GetScoredJob(ctx context.Context, jobID string) (*model.ScoredJob, error) {
	var scoredJSON []byte
	err := r.pool.QueryRow(ctx, `SELECT scored_job FROM jobs WHERE job_id = $1`, jobID).Scan(&scoredJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrJobNotFound
		}
		return nil, err
	}

	var scored model.ScoredJob
	if err := json.Unmarshal(scoredJSON, &scored); err != nil {
		return nil, fmt.Errorf("unmarshal scored job: %w", err)
	}
	return &scored, nil
}

// GetRecord returns the most recently persisted raw JobRecord for jobID.
func (r *JobRepository) GetRecord(ctx context.Context, jobID string) (*model.JobRecord, error) {
	var rawJSON []byte
	err := r.pool.QueryRow(ctx, `SELECT raw_record FROM jobs WHERE job_id = $1`, jobID).Scan(&rawJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrJobNotFound
		}
		return nil, err
	}

	var record model.JobRecord
	if err := json.Unmarshal(rawJSON, &record); err != nil {
		return nil, fmt.Errorf("unmarshal job record: %w", err)
	}
	return &record, nil
}

// Exists reports whether job_id has a scored job on record.
func (r *JobRepository) Exists(ctx context.Context, jobID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM jobs WHERE job_id = $1)`, jobID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
