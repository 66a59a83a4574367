// Package service composes the Rule Engine, Score Fusion, and Explanation
// Engine into the single Scorer Façade operation: score(record) -> ScoredJob.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/andreypavlenko/postingguard/internal/platform/clock"
	"github.com/andreypavlenko/postingguard/modules/rules/engine"
	"github.com/andreypavlenko/postingguard/modules/scoring/explain"
	"github.com/andreypavlenko/postingguard/modules/scoring/fusion"
	"github.com/andreypavlenko/postingguard/modules/scoring/model"
	"golang.org/x/sync/errgroup"
)

// Scorer composes the scoring pipeline. It holds no per-call state beyond
// the immutable rule engine and clock, so ScoreMany can fan calls out in
// parallel.
type Scorer struct {
	engine *engine.Engine
	clock  clock.Clock
}

// New builds a Scorer over an already-loaded rule engine.
func New(ruleEngine *engine.Engine, c clock.Clock) *Scorer {
	return &Scorer{engine: ruleEngine, clock: c}
}

// Score composes the Rule Engine, Score Fusion, and Explanation Engine into
// one ScoredJob. It never fails: missing jd_text or any internal panic both
// degrade to a documented fallback result instead of propagating an error.
func (s *Scorer) Score(record *model.JobRecord) (result model.ScoredJob) {
	defer func() {
		if r := recover(); r != nil {
			result = s.errorResult(record, fmt.Sprintf("%v", r))
		}
	}()

	if record == nil || strings.TrimSpace(record.JDText) == "" {
		return s.insufficientDataResult(record)
	}

	activated := s.engine.Evaluate(record)
	fused := fusion.Fuse(activated, record)
	explanation := explain.Explain(fused.AuthenticityScore, fused.Level, activated)

	jobID := ""
	if record != nil {
		jobID = record.JobID
	}

	return model.ScoredJob{
		JobID:             jobID,
		AuthenticityScore: fused.AuthenticityScore,
		Level:             fused.Level,
		Confidence:        fused.Confidence,
		Summary:           explanation.Summary,
		RedFlags:          explanation.RedFlags,
		PositiveSignals:   explanation.PositiveSignals,
		ActivatedRules:    activated,
		ComputedAt:        s.clock.Now(),
	}
}

// ScoreMany scores a batch of records in parallel, one goroutine per
// record. Scoring is CPU-bound, stateless, and fully re-entrant, so an
// arbitrary number of calls may run concurrently; errgroup only waits for
// the goroutines (no concurrency limit is set), since Score itself never
// returns an error.
func (s *Scorer) ScoreMany(ctx context.Context, records []*model.JobRecord) ([]model.ScoredJob, error) {
	results := make([]model.ScoredJob, len(records))

	g, _ := errgroup.WithContext(ctx)
	for i, record := range records {
		i, record := i, record
		g.Go(func() error {
			results[i] = s.Score(record)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Scorer) insufficientDataResult(record *model.JobRecord) model.ScoredJob {
	jobID := ""
	if record != nil {
		jobID = record.JobID
	}
	return model.ScoredJob{
		JobID:             jobID,
		AuthenticityScore: 50.0,
		Level:             model.LevelUncertain,
		Confidence:        model.ConfidenceLevelLow,
		Summary:           "Authenticity score: 50",
		RedFlags:          []string{"Missing job description text"},
		PositiveSignals:   []string{},
		ActivatedRules:    []model.ActivatedRule{},
		ComputedAt:        s.clock.Now(),
	}
}

func (s *Scorer) errorResult(record *model.JobRecord, message string) model.ScoredJob {
	jobID := ""
	if record != nil {
		jobID = record.JobID
	}
	return model.ScoredJob{
		JobID:             jobID,
		AuthenticityScore: 50.0,
		Level:             model.LevelUncertain,
		Confidence:        model.ConfidenceLevelLow,
		Summary:           "Authenticity score: 50",
		RedFlags:          []string{fmt.Sprintf("Scoring error: %s", message)},
		PositiveSignals:   []string{},
		ActivatedRules:    []model.ActivatedRule{},
		ComputedAt:        s.clock.Now(),
	}
}
