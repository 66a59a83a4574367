package service

import (
	"context"
	"testing"
	"time"

	"github.com/andreypavlenko/postingguard/internal/platform/clock"
	"github.com/andreypavlenko/postingguard/modules/rules/engine"
	"github.com/andreypavlenko/postingguard/modules/rules/model"
	scoringmodel "github.com/andreypavlenko/postingguard/modules/scoring/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() clock.Fixed {
	return clock.Fixed{At: time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)}
}

func emptyEngine() *engine.Engine {
	return engine.New(&model.RuleTable{})
}

func TestScorer_Score_MissingJDTextDegradesToInsufficientData(t *testing.T) {
	scorer := New(emptyEngine(), fixedClock())

	result := scorer.Score(&scoringmodel.JobRecord{JobID: "job-1"})

	assert.Equal(t, "job-1", result.JobID)
	assert.Equal(t, 50.0, result.AuthenticityScore)
	assert.Equal(t, scoringmodel.LevelUncertain, result.Level)
	assert.Equal(t, scoringmodel.ConfidenceLevelLow, result.Confidence)
	assert.Equal(t, []string{"Missing job description text"}, result.RedFlags)
	assert.Equal(t, fixedClock().At, result.ComputedAt)
}

func TestScorer_Score_NilRecordDegradesGracefully(t *testing.T) {
	scorer := New(emptyEngine(), fixedClock())
	result := scorer.Score(nil)
	assert.Equal(t, "", result.JobID)
	assert.Equal(t, 50.0, result.AuthenticityScore)
}

func TestScorer_Score_CleanRecordProducesHighScore(t *testing.T) {
	table := &model.RuleTable{Rules: []model.Rule{
		{
			ID: "P1", Weight: 0.16, Signal: model.SignalPositive, Confidence: model.ConfidenceHigh,
			Description: "Salary range disclosed", DataSource: "platform_metadata.salary_min",
			PatternType: model.PatternFieldExists,
		},
	}}
	scorer := New(engine.New(table), fixedClock())

	record := &scoringmodel.JobRecord{
		JobID:  "job-2",
		JDText: "A detailed, legitimate job description with real responsibilities.",
		PlatformMetadata: scoringmodel.PlatformMetadata{
			SalaryMin: func() *float64 { v := 120000.0; return &v }(),
		},
	}

	result := scorer.Score(record)
	assert.Equal(t, "job-2", result.JobID)
	assert.Equal(t, scoringmodel.LevelLikelyReal, result.Level)
	require.Len(t, result.ActivatedRules, 1)
	assert.Equal(t, "P1", result.ActivatedRules[0].ID)
	assert.Empty(t, result.RedFlags)
	assert.NotEmpty(t, result.PositiveSignals)
}

func TestScorer_Score_ScamRecordProducesLowScoreWithRedFlags(t *testing.T) {
	table := &model.RuleTable{Rules: []model.Rule{
		{
			ID: "R7", Weight: 0.28, Signal: model.SignalNegative, Confidence: model.ConfidenceHigh,
			Description: "Solicits sensitive personal information", DataSource: "jd_text",
			PatternType: model.PatternStringContainsAny, PatternValue: []interface{}{"social security number"},
		},
		{
			ID: "R6", Weight: 0.25, Signal: model.SignalNegative, Confidence: model.ConfidenceHigh,
			Description: "Requests payment or equipment purchase", DataSource: "jd_text",
			PatternType: model.PatternRegex, PatternValue: []interface{}{"wire transfer"},
		},
	}}
	scorer := New(engine.New(table), fixedClock())

	record := &scoringmodel.JobRecord{
		JobID:  "job-3",
		JDText: "Send your social security number and complete a wire transfer to begin.",
	}

	result := scorer.Score(record)
	assert.Equal(t, scoringmodel.LevelLikelyFake, result.Level)
	assert.Len(t, result.RedFlags, 2)
}

func TestScorer_ScoreMany_ScoresEveryRecordInBatch(t *testing.T) {
	scorer := New(emptyEngine(), fixedClock())

	records := []*scoringmodel.JobRecord{
		{JobID: "a", JDText: "text a"},
		{JobID: "b", JDText: "text b"},
		{JobID: "c"},
	}

	results, err := scorer.ScoreMany(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].JobID)
	assert.Equal(t, "b", results[1].JobID)
	assert.Equal(t, "c", results[2].JobID)
	assert.Equal(t, 50.0, results[2].AuthenticityScore)
}
