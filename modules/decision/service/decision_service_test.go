package service

import (
	"testing"

	"github.com/andreypavlenko/postingguard/modules/decision/model"
	scoringmodel "github.com/andreypavlenko/postingguard/modules/scoring/model"
	"github.com/stretchr/testify/assert"
)

func TestExplain_NilScoreYieldsCautionWithUnavailableRisk(t *testing.T) {
	explanation := Explain(nil, scoringmodel.DerivedSignals{})
	assert.Equal(t, model.DecisionCaution, explanation.Decision)
	assert.Contains(t, explanation.Risks, "Authenticity score unavailable")
	assert.Contains(t, explanation.SignalsUsed, "score")
}

func TestExplain_HighScoreHighConfidenceRecommends(t *testing.T) {
	scored := &scoringmodel.ScoredJob{
		AuthenticityScore: 92,
		Confidence:        scoringmodel.ConfidenceLevelHigh,
	}
	signals := scoringmodel.DerivedSignals{
		JobLevel: "senior",
		WorkMode: "remote",
		Salary:   scoringmodel.SalaryRange{Min: ptrFloat(150000)},
	}

	explanation := Explain(scored, signals)
	assert.Equal(t, model.DecisionRecommend, explanation.Decision)
	assert.Contains(t, explanation.Reasons, "High confidence in the authenticity assessment")
	assert.Contains(t, explanation.SignalsUsed, "job_level")
	assert.Contains(t, explanation.SignalsUsed, "work_mode")
	assert.Contains(t, explanation.SignalsUsed, "salary")
}

func TestExplain_LowScoreAvoids(t *testing.T) {
	scored := &scoringmodel.ScoredJob{AuthenticityScore: 20, Confidence: scoringmodel.ConfidenceLevelLow}
	explanation := Explain(scored, scoringmodel.DerivedSignals{})
	assert.Equal(t, model.DecisionAvoid, explanation.Decision)
	assert.Contains(t, explanation.Risks, "Low confidence in the authenticity assessment")
}

func TestExplain_ManyRedFlagsDowngradesARecommendation(t *testing.T) {
	scored := &scoringmodel.ScoredJob{
		AuthenticityScore: 85,
		Confidence:        scoringmodel.ConfidenceLevelHigh,
		RedFlags:          []string{"a", "b", "c", "d"},
	}
	explanation := Explain(scored, scoringmodel.DerivedSignals{})
	assert.Equal(t, model.DecisionCaution, explanation.Decision)
	assert.Contains(t, explanation.SignalsUsed, "red_flags")
}

func TestExplain_ManyPositiveSignalsUpgradesACaution(t *testing.T) {
	scored := &scoringmodel.ScoredJob{
		AuthenticityScore:  70,
		Confidence:         scoringmodel.ConfidenceLevelMedium,
		PositiveSignals:    []string{"a", "b", "c", "d", "e", "f"},
	}
	explanation := Explain(scored, scoringmodel.DerivedSignals{})
	assert.Equal(t, model.DecisionRecommend, explanation.Decision)
	assert.Contains(t, explanation.SignalsUsed, "positive_signals")
}

func TestExplain_NoSalaryInfoIsARisk(t *testing.T) {
	scored := &scoringmodel.ScoredJob{AuthenticityScore: 85, Confidence: scoringmodel.ConfidenceLevelHigh}
	explanation := Explain(scored, scoringmodel.DerivedSignals{})
	assert.Contains(t, explanation.Risks, "No salary information disclosed")
}

func TestExplain_SignalsUsedAreDeduplicated(t *testing.T) {
	scored := &scoringmodel.ScoredJob{AuthenticityScore: 85, Confidence: scoringmodel.ConfidenceLevelHigh}
	explanation := Explain(scored, scoringmodel.DerivedSignals{})
	seen := make(map[string]bool)
	for _, s := range explanation.SignalsUsed {
		assert.False(t, seen[s], "duplicate signal %q", s)
		seen[s] = true
	}
}

func ptrFloat(v float64) *float64 { return &v }
