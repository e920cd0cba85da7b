package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hwdiag/internal/engine"
	"github.com/roach88/hwdiag/internal/ir"
)

func TestValidate_DefaultRulesClean(t *testing.T) {
	assert.Empty(t, Validate(engine.DefaultRules()))
	assert.Empty(t, ValidateFallback(engine.DefaultFallback()))
}

func TestValidate_EmptyTable(t *testing.T) {
	errs := Validate(nil)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrRuleTableEmpty, errs[0].Code)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	rules := []ir.Rule{
		{ID: "a", Diagnosis: "A"},
		{ID: "b", Symptoms: []ir.Symptom{"x", ""}, Diagnosis: ""},
		{ID: "a", Symptoms: []ir.Symptom{"y", "y"}, Diagnosis: "A2"},
	}

	errs := Validate(rules)

	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	assert.Equal(t, []string{
		ErrRuleEmptyConditions,
		ErrRuleEmptySymptom,
		ErrRuleEmptyDiagnosis,
		ErrRuleDuplicateSymp,
		ErrRuleDuplicateID,
	}, codes)
	assert.Equal(t, "rule.b.symptoms[1]", errs[1].Field)
}

func TestValidate_UnnamedRuleField(t *testing.T) {
	errs := Validate([]ir.Rule{{Diagnosis: "A"}})
	require.Len(t, errs, 1)
	assert.Equal(t, "rule[0].symptoms", errs[0].Field)
}

func TestValidateFallback_Empty(t *testing.T) {
	errs := ValidateFallback(ir.DiagnosisResult{Cause: "c"})
	require.Len(t, errs, 1)
	assert.Equal(t, "fallback.diagnosis", errs[0].Field)
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Field: "rule.a.symptoms", Message: "rule requires at least one symptom", Code: ErrRuleEmptyConditions}
	assert.Equal(t, "[E101] rule.a.symptoms: rule requires at least one symptom", err.Error())

	err.Line = 4
	assert.Equal(t, "[E101] line 4: rule.a.symptoms: rule requires at least one symptom", err.Error())
}
