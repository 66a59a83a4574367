// Package adapter wires the scoring and decision modules into the narrow
// interfaces the apply module depends on, keeping apply itself free of a
// direct dependency on the Decision Explainer's implementation.
package adapter

import (
	"context"

	"github.com/andreypavlenko/postingguard/modules/apply/priority"
	decisionService "github.com/andreypavlenko/postingguard/modules/decision/service"
	scoringPorts "github.com/andreypavlenko/postingguard/modules/scoring/ports"
)

// PriorityInputAdapter implements ports.PriorityInputProvider over the
// scoring module's JobRepository and the Decision Explainer.
type PriorityInputAdapter struct {
	jobs scoringPorts.JobRepository
}

// NewPriorityInputAdapter wraps the scoring job repository.
func NewPriorityInputAdapter(jobs scoringPorts.JobRepository) *PriorityInputAdapter {
	return &PriorityInputAdapter{jobs: jobs}
}

// PriorityInput resolves the decision, days-since-posted, and score for
// jobID by loading its scored job and record and running the Decision
// Explainer.
func (a *PriorityInputAdapter) PriorityInput(ctx context.Context, jobID string) (priority.Input, error) {
	scored, err := a.jobs.GetScoredJob(ctx, jobID)
	if err != nil {
		return priority.Input{}, err
	}

	record, err := a.jobs.GetRecord(ctx, jobID)
	if err != nil {
		return priority.Input{}, err
	}

	explanation := decisionService.Explain(scored, record.DerivedSignals)
	score := scored.AuthenticityScore

	return priority.Input{
		Decision:          string(explanation.Decision),
		DaysSincePosted:   record.PlatformMetadata.PostedDaysAgo,
		AuthenticityScore: &score,
	}, nil
}
