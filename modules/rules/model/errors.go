package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRuleTable is returned when the top-level document is
	// malformed or a rule is missing a required field.
	ErrInvalidRuleTable = errors.New("invalid rule table")

	// ErrDuplicateRuleID is returned when two rules share an id.
	ErrDuplicateRuleID = errors.New("duplicate rule id")
)

// ErrorCode represents error codes surfaced by the rule table loader.
type ErrorCode string

const (
	CodeInvalidRuleTable ErrorCode = "INVALID_RULE_TABLE"
	CodeDuplicateRuleID  ErrorCode = "DUPLICATE_RULE_ID"
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes.
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrDuplicateRuleID):
		return CodeDuplicateRuleID
	case errors.Is(err, ErrInvalidRuleTable):
		return CodeInvalidRuleTable
	default:
		return CodeInternalError
	}
}

// RuleIndexError wraps a load failure with the offending rule's position in
// the source document, so a fatal startup error names the culprit.
type RuleIndexError struct {
	Index int
	Err   error
}

func (e *RuleIndexError) Error() string {
	return fmt.Sprintf("rule %d: %v", e.Index, e.Err)
}

func (e *RuleIndexError) Unwrap() error {
	return e.Err
}
