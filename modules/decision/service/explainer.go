// Package service implements the Decision Explainer: a pure
// function mapping a scored job to {decision, reasons, risks, signals_used,
// confidence_level}.
package service

import (
	"fmt"

	"github.com/andreypavlenko/postingguard/modules/decision/model"
	scoringmodel "github.com/andreypavlenko/postingguard/modules/scoring/model"
)

// Explain classifies scored into a recommend/caution/avoid decision with
// supporting reasons and risks. scored may be nil, representing "score
// unavailable"; signals is the JobRecord's DerivedSignals for the same job,
// since job_level/work_mode/visa_signal/salary live there rather than on the
// ScoredJob itself.
func Explain(scored *scoringmodel.ScoredJob, signals scoringmodel.DerivedSignals) model.Explanation {
	var reasons, risks, signalsUsed []string
	var decision model.Decision
	confidenceLevel := ""

	if scored == nil {
		decision = model.DecisionCaution
		risks = append(risks, "Authenticity score unavailable")
		signalsUsed = append(signalsUsed, "score")
	} else {
		confidenceLevel = string(scored.Confidence)
		score := scored.AuthenticityScore

		switch {
		case score >= 80:
			decision = model.DecisionRecommend
		case score >= 60:
			decision = model.DecisionCaution
			reasons = append(reasons, "Authenticity score is moderate")
		case score >= 40:
			decision = model.DecisionCaution
			risks = append(risks, "Authenticity score is below average")
		default:
			decision = model.DecisionAvoid
		}
		signalsUsed = append(signalsUsed, "score")

		switch scored.Confidence {
		case scoringmodel.ConfidenceLevelHigh:
			if score >= 70 {
				reasons = append(reasons, "High confidence in the authenticity assessment")
				signalsUsed = append(signalsUsed, "confidence")
			}
		case scoringmodel.ConfidenceLevelLow:
			risks = append(risks, "Low confidence in the authenticity assessment")
			signalsUsed = append(signalsUsed, "confidence")
		}

		switch signals.JobLevel {
		case "intern", "new_grad", "junior":
			reasons = append(reasons, "Entry-level role, lower competition for newer applicants")
			signalsUsed = append(signalsUsed, "job_level")
		case "senior", "staff":
			reasons = append(reasons, "Senior-level role, matches experienced candidates")
			signalsUsed = append(signalsUsed, "job_level")
		}

		switch signals.WorkMode {
		case "remote":
			reasons = append(reasons, "Remote position widens scheduling flexibility")
			signalsUsed = append(signalsUsed, "work_mode")
		case "hybrid":
			reasons = append(reasons, "Hybrid position offers some schedule flexibility")
			signalsUsed = append(signalsUsed, "work_mode")
		}

		switch signals.VisaSignal {
		case "explicit_yes":
			reasons = append(reasons, "Visa sponsorship is explicitly offered")
			signalsUsed = append(signalsUsed, "visa_signal")
		case "explicit_no", "unclear":
			risks = append(risks, "Visa sponsorship is not confirmed")
			signalsUsed = append(signalsUsed, "visa_signal")
		}

		if signals.Salary.Min != nil || signals.Salary.Max != nil {
			reasons = append(reasons, "Salary information is disclosed")
			signalsUsed = append(signalsUsed, "salary")
		} else {
			risks = append(risks, "No salary information disclosed")
			signalsUsed = append(signalsUsed, "salary")
		}

		if len(scored.RedFlags) > 3 {
			if decision == model.DecisionRecommend {
				decision = model.DecisionCaution
			}
			risks = append(risks, fmt.Sprintf("%d red flags were detected", len(scored.RedFlags)))
			signalsUsed = append(signalsUsed, "red_flags")
		}

		if len(scored.PositiveSignals) > 5 {
			if decision == model.DecisionCaution && score >= 65 {
				decision = model.DecisionRecommend
			}
			reasons = append(reasons, fmt.Sprintf("%d positive signals were detected", len(scored.PositiveSignals)))
			signalsUsed = append(signalsUsed, "positive_signals")
		}
	}

	if len(risks) > len(reasons) && decision == model.DecisionRecommend {
		decision = model.DecisionCaution
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Basic job information available")
	}

	return model.Explanation{
		Decision:        decision,
		Reasons:         reasons,
		Risks:           risks,
		SignalsUsed:     dedupe(signalsUsed),
		ConfidenceLevel: confidenceLevel,
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
