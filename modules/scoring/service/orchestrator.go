package service

import (
	"context"

	"github.com/andreypavlenko/postingguard/internal/platform/archive"
	"github.com/andreypavlenko/postingguard/modules/scoring/enrich"
	"github.com/andreypavlenko/postingguard/modules/scoring/model"
	"github.com/andreypavlenko/postingguard/modules/scoring/ports"
)

// JobScoringService wires the data flow: raw record -> Job
// Enricher -> enriched record -> Scorer Façade -> persisted ScoredJob. It is
// the one place enrichment, scoring, archiving, and persistence meet; the
// Scorer itself stays a pure score(record) -> ScoredJob operation.
type JobScoringService struct {
	scorer   *Scorer
	repo     ports.JobRepository
	archiver *archive.RawRecordArchiver
}

// NewJobScoringService composes a Scorer with the job repository and raw
// record archiver.
func NewJobScoringService(scorer *Scorer, repo ports.JobRepository, archiver *archive.RawRecordArchiver) *JobScoringService {
	return &JobScoringService{scorer: scorer, repo: repo, archiver: archiver}
}

// ScoreAndPersist archives the raw payload, enriches and scores the record,
// persists record + score, and returns the ScoredJob. Archiving failures are
// discarded and never block scoring: the archive is a replay aid, not a
// correctness dependency.
func (s *JobScoringService) ScoreAndPersist(ctx context.Context, record *model.JobRecord) (*model.ScoredJob, error) {
	_ = s.archiver.Archive(ctx, record.JobID, record)

	enrich.Enrich(record)
	scored := s.scorer.Score(record)
	scored.JobID = record.JobID

	if err := s.repo.Upsert(ctx, record, &scored); err != nil {
		return nil, err
	}
	return &scored, nil
}

// GetScoredJob returns the persisted ScoredJob for a job_id.
func (s *JobScoringService) GetScoredJob(ctx context.Context, jobID string) (*model.ScoredJob, error) {
	return s.repo.GetScoredJob(ctx, jobID)
}
