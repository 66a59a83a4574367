// Package model holds the Decision Explainer's output shape.
package model

// Decision is the Decision Explainer's categorical recommendation.
type Decision string

const (
	DecisionRecommend Decision = "recommend"
	DecisionCaution   Decision = "caution"
	DecisionAvoid     Decision = "avoid"
)

// Explanation is the reader-facing output of explain(scored_job).
// confidence_level is forwarded from the scorer's ConfidenceLevel as an
// opaque string; callers should not interpret its casing.
type Explanation struct {
	Decision        Decision `json:"decision"`
	Reasons         []string `json:"reasons"`
	Risks           []string `json:"risks"`
	SignalsUsed     []string `json:"signals_used"`
	ConfidenceLevel string   `json:"confidence_level"`
}
