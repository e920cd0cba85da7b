package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/hwdiag/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrRuleEmptyConditions = "E101" // rule requires at least one symptom
	ErrRuleEmptySymptom    = "E102" // blank symptom token
	ErrRuleEmptyDiagnosis  = "E103" // diagnosis is required
	ErrRuleDuplicateID     = "E104" // duplicate rule ID
	ErrRuleTableEmpty      = "E105" // no rules declared
	ErrRuleDuplicateSymp   = "E106" // symptom repeated within one rule
)

// ValidationError represents a rule table validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a rule table and returns every error found
// (does not fail-fast).
func Validate(rules []ir.Rule) []ValidationError {
	var errs []ValidationError

	if len(rules) == 0 {
		return []ValidationError{{
			Field:   "rule",
			Message: "at least one rule is required",
			Code:    ErrRuleTableEmpty,
		}}
	}

	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		field := ruleField(r, i)

		if len(r.Symptoms) == 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".symptoms",
				Message: "rule requires at least one symptom",
				Code:    ErrRuleEmptyConditions,
			})
		}

		inRule := make(map[ir.Symptom]bool, len(r.Symptoms))
		for j, s := range r.Symptoms {
			if strings.TrimSpace(string(s)) == "" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.symptoms[%d]", field, j),
					Message: "symptom must be non-empty",
					Code:    ErrRuleEmptySymptom,
				})
				continue
			}
			if inRule[s] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.symptoms[%d]", field, j),
					Message: fmt.Sprintf("symptom %q listed more than once", s),
					Code:    ErrRuleDuplicateSymp,
				})
			}
			inRule[s] = true
		}

		if strings.TrimSpace(r.Diagnosis) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".diagnosis",
				Message: "diagnosis is required and must be non-empty",
				Code:    ErrRuleEmptyDiagnosis,
			})
		}

		if r.ID != "" {
			if seen[r.ID] {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("duplicate rule ID %q", r.ID),
					Code:    ErrRuleDuplicateID,
				})
			}
			seen[r.ID] = true
		}
	}

	return errs
}

// ValidateFallback checks a fallback override.
func ValidateFallback(fb ir.DiagnosisResult) []ValidationError {
	if strings.TrimSpace(fb.Diagnosis) == "" {
		return []ValidationError{{
			Field:   "fallback.diagnosis",
			Message: "diagnosis is required and must be non-empty",
			Code:    ErrRuleEmptyDiagnosis,
		}}
	}
	return nil
}

func ruleField(r ir.Rule, i int) string {
	if r.ID != "" {
		return "rule." + r.ID
	}
	return fmt.Sprintf("rule[%d]", i)
}
