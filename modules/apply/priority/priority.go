// Package priority computes the integer queue priority for a scored job
// under a chosen strategy. Deterministic and pure.
package priority

import (
	"math"
)

// Strategy selects which priority formula to apply.
type Strategy string

const (
	StrategyDecisionThenNewest Strategy = "decision_then_newest"
	StrategyNewest             Strategy = "newest"
	StrategyHighestScore       Strategy = "highest_score"
)

var decisionBase = map[string]int{
	"recommend": 1000,
	"caution":   500,
	"avoid":     100,
}

// Input bundles what a priority computation needs from a scored job: its
// decision (if one was computed) and how many days ago it was posted.
type Input struct {
	Decision       string
	DaysSincePosted *int
	AuthenticityScore *float64
}

// Compute returns an integer priority in [0, 1099] for the given strategy.
func Compute(strategy Strategy, in Input) int {
	switch strategy {
	case StrategyNewest:
		return newest(in.DaysSincePosted)
	case StrategyHighestScore:
		return highestScore(in.AuthenticityScore)
	default:
		return decisionThenNewest(in.Decision, in.DaysSincePosted)
	}
}

func decisionThenNewest(decision string, daysSincePosted *int) int {
	base, ok := decisionBase[decision]
	if !ok {
		base = decisionBase["caution"]
	}
	days := 0
	if daysSincePosted != nil {
		days = *daysSincePosted
	}
	bonus := 99 - minInt(days, 99)
	if bonus < 0 {
		bonus = 0
	}
	return base + bonus
}

func newest(daysSincePosted *int) int {
	if daysSincePosted == nil {
		return 500
	}
	return 1000 - minInt(*daysSincePosted, 999)
}

func highestScore(score *float64) int {
	if score == nil {
		return 0
	}
	return int(math.Round(*score * 10))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
