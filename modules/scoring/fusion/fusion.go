// Package fusion combines activated rules into a single authenticity score,
// level, and confidence.
package fusion

import (
	"math"

	"github.com/andreypavlenko/postingguard/modules/scoring/model"
	rulesModel "github.com/andreypavlenko/postingguard/modules/rules/model"
)

// PenaltyFactor scales the negative weight sum inside the exponential
// decay; larger values punish accumulated red flags more steeply.
const PenaltyFactor = 1.8

// MaxGain bounds the multiplicative effect of positive signals so they can
// never fully offset strong negatives.
const MaxGain = 1.15

// strongWeightThreshold is the effective weight at or above which an
// activated rule counts as "strong" for confidence purposes.
const strongWeightThreshold = 0.18

// Result is the (score, level, confidence) triple Score Fusion produces.
type Result struct {
	AuthenticityScore float64
	Level             model.Level
	Confidence        model.ConfidenceLevel
	NegativeWeightSum float64
	PositiveWeightSum float64
}

// requiredFields is the fixed list of presence checks used for coverage.
var requiredFields = []string{"jd_text", "poster_info", "platform_metadata.posted_days_ago", "company_name"}

// Fuse combines activated rules (already carrying their platform-adjusted
// effective weight) and the record into a final score, level and
// confidence.
func Fuse(activated []model.ActivatedRule, record *model.JobRecord) Result {
	var negativeSum, positiveSum float64
	for _, r := range activated {
		switch r.Signal {
		case string(rulesModel.SignalNegative):
			negativeSum += r.EffectiveWeight
		case string(rulesModel.SignalPositive):
			positiveSum += r.EffectiveWeight
		}
	}

	baseScore := 100 * math.Exp(-negativeSum*PenaltyFactor)
	gain := math.Min(MaxGain, math.Pow(1+positiveSum, 0.25))

	finalScore := clamp(baseScore*gain, 0, 100)
	finalScore = round1(finalScore)

	level := determineLevel(finalScore)
	confidence := determineConfidence(activated, record)

	return Result{
		AuthenticityScore: finalScore,
		Level:             level,
		Confidence:        confidence,
		NegativeWeightSum: round2(negativeSum),
		PositiveWeightSum: round2(positiveSum),
	}
}

func determineLevel(score float64) model.Level {
	switch {
	case score >= 80:
		return model.LevelLikelyReal
	case score >= 55:
		return model.LevelUncertain
	default:
		return model.LevelLikelyFake
	}
}

func determineConfidence(activated []model.ActivatedRule, record *model.JobRecord) model.ConfidenceLevel {
	strong := 0
	maxWeight := 0.0
	for _, r := range activated {
		if r.EffectiveWeight >= strongWeightThreshold {
			strong++
		}
		if r.EffectiveWeight > maxWeight {
			maxWeight = r.EffectiveWeight
		}
	}

	present := 0
	if record != nil {
		if record.JDText != "" {
			present++
		}
		if hasPosterInfo(record) {
			present++
		}
		if record.PlatformMetadata.PostedDaysAgo != nil {
			present++
		}
		if record.CompanyName != "" {
			present++
		}
	}
	coverage := float64(present) / float64(len(requiredFields))

	c := 0.5*math.Min(1, float64(strong)/3) + 0.5*coverage

	level := levelFromScore(c)

	if strong == 0 && coverage >= 0.75 {
		if !(maxWeight >= 0.2 && len(activated) < 5) {
			level = model.ConfidenceLevelHigh
		}
	}

	return level
}

func levelFromScore(c float64) model.ConfidenceLevel {
	switch {
	case c >= 0.66:
		return model.ConfidenceLevelHigh
	case c >= 0.33:
		return model.ConfidenceLevelMedium
	default:
		return model.ConfidenceLevelLow
	}
}

func hasPosterInfo(record *model.JobRecord) bool {
	p := record.PosterInfo
	return p.Name != "" || p.Title != "" || p.Company != "" || p.Location != "" ||
		p.AccountAgeMonths != nil || p.RecentJobCount7d != nil
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
