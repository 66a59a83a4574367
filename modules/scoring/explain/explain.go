// Package explain turns a score, level, and activated rules into a
// reader-facing summary, red flags, and positive signals.
package explain

import (
	"fmt"
	"sort"

	"github.com/andreypavlenko/postingguard/modules/scoring/model"
	rulesModel "github.com/andreypavlenko/postingguard/modules/rules/model"
)

const maxRedFlags = 5

// Explanation is the reader-facing output of the Explanation Engine.
type Explanation struct {
	Summary         string
	RedFlags        []string
	PositiveSignals []string
}

// Explain derives a summary, top red flags, and positive signals from the
// score, level, and the rules that activated for this record.
func Explain(score float64, level model.Level, activated []model.ActivatedRule) Explanation {
	return Explanation{
		Summary:         summarize(score, level),
		RedFlags:        redFlags(activated),
		PositiveSignals: positiveSignals(activated),
	}
}

func summarize(score float64, level model.Level) string {
	switch level {
	case model.LevelLikelyReal:
		return fmt.Sprintf("High authenticity (%.0f). No major red flags detected.", score)
	case model.LevelUncertain:
		return fmt.Sprintf("Uncertain authenticity (%.0f). Some signals warrant caution.", score)
	case model.LevelLikelyFake:
		return fmt.Sprintf("Low authenticity (%.0f). Multiple red flags detected.", score)
	default:
		return fmt.Sprintf("Authenticity score: %.0f", score)
	}
}

// redFlags takes the negative activated rules, sorted by effective weight
// descending, and emits the top 5 descriptions only — never rule IDs or
// weights.
func redFlags(activated []model.ActivatedRule) []string {
	negative := make([]model.ActivatedRule, 0, len(activated))
	for _, r := range activated {
		if r.Signal == string(rulesModel.SignalNegative) {
			negative = append(negative, r)
		}
	}

	sort.SliceStable(negative, func(i, j int) bool {
		return negative[i].EffectiveWeight > negative[j].EffectiveWeight
	})

	if len(negative) > maxRedFlags {
		negative = negative[:maxRedFlags]
	}

	out := make([]string, 0, len(negative))
	for _, r := range negative {
		out = append(out, r.Description)
	}
	return out
}

// positiveSignals emits every activated positive rule's description, in the
// table order the engine evaluated them in.
func positiveSignals(activated []model.ActivatedRule) []string {
	out := make([]string, 0)
	for _, r := range activated {
		if r.Signal == string(rulesModel.SignalPositive) {
			out = append(out, r.Description)
		}
	}
	return out
}
