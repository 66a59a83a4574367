// Package loader parses and validates the declarative rule table described
// in the rule table format documented alongside this module.
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/andreypavlenko/postingguard/modules/rules/model"
)

type document struct {
	Rules []json.RawMessage `json:"rules"`
}

// wireRule mirrors the wire shape just enough to validate presence;
// PatternValue is left as interface{} since its shape depends on PatternType.
type wireRule struct {
	ID           *string          `json:"id"`
	Weight       *float64         `json:"weight"`
	Confidence   *model.Confidence `json:"confidence"`
	Signal       *model.Signal    `json:"signal"`
	Description  *string          `json:"description"`
	DataSource   *string          `json:"data_source"`
	PatternType  *model.PatternType `json:"pattern_type"`
	PatternValue interface{}      `json:"pattern_value"`
}

// LoadFile reads and validates a rule table from path. A missing file is a
// fatal startup error; a malformed document fails with the offending rule's
// index. Unknown pattern types are accepted here (forward-compat) and
// rejected only at evaluate time.
func LoadFile(path string) (*model.RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule table %q: %w", path, err)
	}
	return Load(data)
}

// Load validates and parses a rule table document already in memory.
func Load(data []byte) (*model.RuleTable, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidRuleTable, err)
	}

	seen := make(map[string]bool, len(doc.Rules))
	rules := make([]model.Rule, 0, len(doc.Rules))

	for i, raw := range doc.Rules {
		var wr wireRule
		if err := json.Unmarshal(raw, &wr); err != nil {
			return nil, &model.RuleIndexError{Index: i, Err: fmt.Errorf("%w: %v", model.ErrInvalidRuleTable, err)}
		}

		missing := requiredField(wr.ID == nil, "id")
		if missing == "" {
			missing = requiredField(wr.Weight == nil, "weight")
		}
		if missing == "" {
			missing = requiredField(wr.Confidence == nil, "confidence")
		}
		if missing == "" {
			missing = requiredField(wr.Signal == nil, "signal")
		}
		if missing == "" {
			missing = requiredField(wr.Description == nil, "description")
		}
		if missing == "" {
			missing = requiredField(wr.DataSource == nil, "data_source")
		}
		if missing == "" {
			missing = requiredField(wr.PatternType == nil, "pattern_type")
		}
		if missing != "" {
			return nil, &model.RuleIndexError{
				Index: i,
				Err:   fmt.Errorf("%w: missing field %q", model.ErrInvalidRuleTable, missing),
			}
		}

		if seen[*wr.ID] {
			return nil, &model.RuleIndexError{
				Index: i,
				Err:   fmt.Errorf("%w: %q", model.ErrDuplicateRuleID, *wr.ID),
			}
		}
		seen[*wr.ID] = true

		rules = append(rules, model.Rule{
			ID:           *wr.ID,
			Weight:       *wr.Weight,
			Confidence:   *wr.Confidence,
			Signal:       *wr.Signal,
			Description:  *wr.Description,
			DataSource:   *wr.DataSource,
			PatternType:  *wr.PatternType,
			PatternValue: wr.PatternValue,
		})
	}

	return &model.RuleTable{Rules: rules}, nil
}

func requiredField(missing bool, name string) string {
	if missing {
		return name
	}
	return ""
}
