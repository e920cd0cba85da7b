package harness

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/hwdiag/internal/ir"
	"github.com/roach88/hwdiag/internal/store"
)

// AssertionContext carries what assertions need beyond the trace.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %v -> %v\n", event.Seq, event.Symptoms, event.Matched)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(result.Trace, a, actx); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(trace, a)
	case AssertTraceCount:
		return assertTraceCount(trace, a)
	case AssertFallbackCount:
		return assertFallbackCount(trace, a)
	case AssertRecordCount:
		return assertRecordCount(actx, a)
	case AssertFinalState:
		return assertFinalState(actx, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

// assertTraceContains checks that the rule fired in some consultation.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	if countRule(trace, a.Rule) > 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("rule %s to fire", a.Rule),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that rules first fired in the given order.
// Other rules may fire in between.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	pos := 0
	for _, event := range trace {
		for _, id := range event.Matched {
			pos++
			if _, seen := positions[id]; !seen {
				positions[id] = pos
			}
		}
	}

	for _, id := range a.Rules {
		if _, ok := positions[id]; !ok {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("rules in order %v", a.Rules),
				Actual:   fmt.Sprintf("rule %s never fired", id),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Rules); i++ {
		prev, cur := a.Rules[i-1], a.Rules[i]
		if positions[prev] >= positions[cur] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("rules in order %v", a.Rules),
				Actual:   fmt.Sprintf("%s fired before %s", cur, prev),
				Trace:    trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks that the rule fired in exactly Count consultations.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	got := countRule(trace, a.Rule)
	if got == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("rule %s to fire %d time(s)", a.Rule, a.Count),
		Actual:   fmt.Sprintf("fired %d time(s)", got),
		Trace:    trace,
	}
}

// assertFallbackCount checks how many consultations fell back.
func assertFallbackCount(trace []TraceEvent, a Assertion) error {
	got := 0
	for _, event := range trace {
		if event.Fallback {
			got++
		}
	}
	if got == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertFallbackCount,
		Expected: fmt.Sprintf("%d fallback consultation(s)", a.Count),
		Actual:   fmt.Sprintf("%d", got),
		Trace:    trace,
	}
}

// assertRecordCount checks how many records reached the log.
func assertRecordCount(actx *AssertionContext, a Assertion) error {
	got, err := actx.Store.CountRecords(actx.Ctx)
	if err != nil {
		return fmt.Errorf("record_count: %w", err)
	}
	if got == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertRecordCount,
		Expected: fmt.Sprintf("%d stored record(s)", a.Count),
		Actual:   fmt.Sprintf("%d", got),
	}
}

// assertFinalState reads a stored record and compares the expected fields.
//
// Supported fields: extra_description, symptoms, diagnoses (titles),
// hostname, cpu_count, rules_hash.
func assertFinalState(actx *AssertionContext, a Assertion) error {
	rec, err := actx.Store.ReadRecord(actx.Ctx, a.Record)
	if errors.Is(err, store.ErrNotFound) {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("record %s", a.Record),
			Actual:   "not found",
		}
	}
	if err != nil {
		return fmt.Errorf("final_state: %w", err)
	}

	actual := recordFields(rec)
	for field, want := range a.Expect {
		got, ok := actual[field]
		if !ok {
			return fmt.Errorf("final_state: unsupported field %q", field)
		}
		if !matchValue(want, got) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("record %s %s = %v", a.Record, field, want),
				Actual:   fmt.Sprintf("%v", got),
			}
		}
	}
	return nil
}

func recordFields(rec ir.LogRecord) map[string]interface{} {
	titles := make([]interface{}, len(rec.Diagnoses))
	for i, d := range rec.Diagnoses {
		titles[i] = d.Diagnosis
	}
	symptoms := make([]interface{}, len(rec.Symptoms))
	for i, s := range rec.Symptoms {
		symptoms[i] = string(s)
	}
	return map[string]interface{}{
		"extra_description": rec.ExtraDescription,
		"symptoms":          symptoms,
		"diagnoses":         titles,
		"hostname":          rec.HardwareSummary.Hostname,
		"cpu_count":         rec.HardwareSummary.CPUCount,
		"rules_hash":        rec.RulesHash,
	}
}

// matchValue compares a YAML-decoded expectation with an actual value.
// YAML may decode integers as int; both sides are compared after that
// normalization.
func matchValue(want, got interface{}) bool {
	if w, ok := want.(int); ok {
		if g, ok := got.(int); ok {
			return w == g
		}
		return false
	}
	return reflect.DeepEqual(want, got)
}

func countRule(trace []TraceEvent, rule string) int {
	n := 0
	for _, event := range trace {
		for _, id := range event.Matched {
			if id == rule {
				n++
				break
			}
		}
	}
	return n
}
