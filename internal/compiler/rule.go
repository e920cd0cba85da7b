package compiler

import (
	"fmt"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/hwdiag/internal/ir"
)

// CompileRule parses a CUE value into a Rule.
// Uses the CUE SDK's Go API directly (not a CLI subprocess).
//
// The value should be the rule struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`rule: "no-power": { ... }`)
//	rule, err := CompileRule(v.LookupPath(cue.ParsePath(`rule."no-power"`)))
func CompileRule(v cue.Value) (*ir.Rule, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	rule := &ir.Rule{ID: labelOf(v)}

	symptoms, err := parseSymptoms(v)
	if err != nil {
		return nil, err
	}
	rule.Symptoms = symptoms

	if rule.Diagnosis, err = requiredString(v, "diagnosis"); err != nil {
		return nil, err
	}
	if rule.Cause, err = optionalString(v, "cause"); err != nil {
		return nil, err
	}
	if rule.Recommendation, err = optionalString(v, "recommendation"); err != nil {
		return nil, err
	}

	return rule, nil
}

// CompileFallback parses a CUE value into the fallback result.
func CompileFallback(v cue.Value) (*ir.DiagnosisResult, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	var (
		fb  ir.DiagnosisResult
		err error
	)
	if fb.Diagnosis, err = requiredString(v, "diagnosis"); err != nil {
		return nil, err
	}
	if fb.Cause, err = optionalString(v, "cause"); err != nil {
		return nil, err
	}
	if fb.Recommendation, err = optionalString(v, "recommendation"); err != nil {
		return nil, err
	}
	return &fb, nil
}

// parseSymptoms extracts the required symptom list.
// An empty list compiles; Validate reports it.
func parseSymptoms(v cue.Value) ([]ir.Symptom, error) {
	symVal := v.LookupPath(cue.ParsePath("symptoms"))
	if !symVal.Exists() {
		return nil, &CompileError{
			Field:   "symptoms",
			Message: "symptoms is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := symVal.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "symptoms",
			Message: "symptoms must be a list of strings",
			Pos:     symVal.Pos(),
		}
	}

	symptoms := []ir.Symptom{}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   "symptoms",
				Message: fmt.Sprintf("symptom %s must be a string", iter.Selector()),
				Pos:     iter.Value().Pos(),
			}
		}
		symptoms = append(symptoms, ir.Symptom(s))
	}
	return symptoms, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", nil
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// labelOf returns the unquoted last path label of v, or "" for a root value.
func labelOf(v cue.Value) string {
	sels := v.Path().Selectors()
	if len(sels) == 0 {
		return ""
	}
	label := sels[len(sels)-1].String()
	if unquoted, err := strconv.Unquote(label); err == nil {
		return unquoted
	}
	return label
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
