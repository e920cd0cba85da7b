package harness

import "github.com/roach88/hwdiag/internal/ir"

// TraceEvent records one consultation as the engine answered it.
type TraceEvent struct {
	Seq       int64                `json:"seq"`
	RecordID  string               `json:"record_id"`
	Symptoms  []string             `json:"symptoms"`
	Matched   []string             `json:"matched_rules"`
	Fallback  bool                 `json:"fallback"`
	Diagnoses []ir.DiagnosisResult `json:"diagnoses"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expect clause and assertion holds.
	Pass bool `json:"pass"`

	// Trace contains the consultations in execution order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// RulesHash identifies the rule table the scenario ran against.
	RulesHash string `json:"rules_hash"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Pass = false
	r.Errors = append(r.Errors, msg)
}
