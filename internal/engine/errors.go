package engine

import (
	"errors"
	"fmt"
)

// RuleErrorCode categorizes rule table validation failures.
type RuleErrorCode string

const (
	// ErrCodeEmptyConditions indicates a rule with no required symptoms.
	// Such a rule would match every query, including the empty one.
	ErrCodeEmptyConditions RuleErrorCode = "EMPTY_CONDITIONS"

	// ErrCodeEmptySymptom indicates a blank symptom token in a condition set.
	ErrCodeEmptySymptom RuleErrorCode = "EMPTY_SYMPTOM"

	// ErrCodeEmptyDiagnosis indicates a rule or fallback without a diagnosis label.
	ErrCodeEmptyDiagnosis RuleErrorCode = "EMPTY_DIAGNOSIS"

	// ErrCodeDuplicateID indicates two rules sharing an ID.
	ErrCodeDuplicateID RuleErrorCode = "DUPLICATE_ID"

	// ErrCodeEmptyTable indicates a table without rules.
	ErrCodeEmptyTable RuleErrorCode = "EMPTY_TABLE"
)

// RuleError reports why a rule table was rejected at construction time.
type RuleError struct {
	Code    RuleErrorCode
	RuleID  string // empty for table-level errors
	Index   int    // position in the table, -1 for table-level errors
	Message string
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.RuleID != "" {
		return fmt.Sprintf("%s: rule %q (#%d): %s", e.Code, e.RuleID, e.Index, e.Message)
	}
	return fmt.Sprintf("%s: rule #%d: %s", e.Code, e.Index, e.Message)
}

// IsRuleError reports whether err is a *RuleError with the given code.
func IsRuleError(err error, code RuleErrorCode) bool {
	var re *RuleError
	return errors.As(err, &re) && re.Code == code
}
