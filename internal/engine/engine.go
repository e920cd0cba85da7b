package engine

import (
	"fmt"
	"strings"

	"github.com/roach88/hwdiag/internal/ir"
)

// Engine evaluates symptom sets against an immutable rule table.
//
// Thread-safety: all methods are safe for concurrent use. Nothing is
// mutated after New returns.
type Engine struct {
	rules    []ir.Rule // declaration order, never reordered
	fallback ir.DiagnosisResult
	hash     string
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithFallback replaces the result returned when no rule matches.
func WithFallback(fallback ir.DiagnosisResult) Option {
	return func(e *Engine) {
		e.fallback = fallback
	}
}

// New creates an Engine over rules.
//
// The table is validated and deep-copied, so later mutation of the caller's
// slice cannot change evaluation order or conditions. Returns a *RuleError
// for the first violation found.
func New(rules []ir.Rule, opts ...Option) (*Engine, error) {
	e := &Engine{fallback: DefaultFallback()}
	for _, opt := range opts {
		opt(e)
	}

	if err := validateTable(rules, e.fallback); err != nil {
		return nil, err
	}

	e.rules = make([]ir.Rule, len(rules))
	for i, r := range rules {
		r.Symptoms = append([]ir.Symptom(nil), r.Symptoms...)
		e.rules[i] = r
	}

	hash, err := ir.RulesHash(e.rules, e.fallback)
	if err != nil {
		return nil, fmt.Errorf("hash rule table: %w", err)
	}
	e.hash = hash

	return e, nil
}

// MustNew is like New but panics on error.
// Use only for tables known at compile time.
func MustNew(rules []ir.Rule, opts ...Option) *Engine {
	e, err := New(rules, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Default returns an engine over the built-in rule table.
func Default() *Engine {
	return MustNew(DefaultRules())
}

// Diagnose returns the results of every rule whose required symptoms are
// all present in symptoms, in rule declaration order. If no rule matches
// (including for an empty input) it returns exactly one element: the
// fallback result.
//
// The returned slice is always non-empty and owned by the caller.
func (e *Engine) Diagnose(symptoms []ir.Symptom) []ir.DiagnosisResult {
	set := newSymptomSet(symptoms)

	var results []ir.DiagnosisResult
	for _, rule := range e.rules {
		if matchRule(rule, set) {
			results = append(results, rule.Result())
		}
	}

	if len(results) == 0 {
		return []ir.DiagnosisResult{e.fallback}
	}
	return results
}

// Matches returns the IDs of the rules that match symptoms, in declaration
// order. Unlike Diagnose it returns an empty slice when nothing matches.
func (e *Engine) Matches(symptoms []ir.Symptom) []string {
	set := newSymptomSet(symptoms)

	ids := []string{}
	for _, rule := range e.rules {
		if matchRule(rule, set) {
			ids = append(ids, rule.ID)
		}
	}
	return ids
}

// Rules returns a copy of the rule table in declaration order.
func (e *Engine) Rules() []ir.Rule {
	out := make([]ir.Rule, len(e.rules))
	for i, r := range e.rules {
		r.Symptoms = append([]ir.Symptom(nil), r.Symptoms...)
		out[i] = r
	}
	return out
}

// Fallback returns the result used when no rule matches.
func (e *Engine) Fallback() ir.DiagnosisResult {
	return e.fallback
}

// RulesHash returns the content hash of the rule table and fallback.
func (e *Engine) RulesHash() string {
	return e.hash
}

// validateTable checks the construction-time invariants.
func validateTable(rules []ir.Rule, fallback ir.DiagnosisResult) error {
	if len(rules) == 0 {
		return &RuleError{Code: ErrCodeEmptyTable, Index: -1, Message: "rule table has no rules"}
	}
	if strings.TrimSpace(fallback.Diagnosis) == "" {
		return &RuleError{Code: ErrCodeEmptyDiagnosis, Index: -1, Message: "fallback diagnosis is empty"}
	}

	seen := make(map[string]int, len(rules))
	for i, r := range rules {
		if len(r.Symptoms) == 0 {
			return &RuleError{Code: ErrCodeEmptyConditions, RuleID: r.ID, Index: i, Message: "rule requires at least one symptom"}
		}
		for _, s := range r.Symptoms {
			if strings.TrimSpace(string(s)) == "" {
				return &RuleError{Code: ErrCodeEmptySymptom, RuleID: r.ID, Index: i, Message: "symptom token is blank"}
			}
		}
		if strings.TrimSpace(r.Diagnosis) == "" {
			return &RuleError{Code: ErrCodeEmptyDiagnosis, RuleID: r.ID, Index: i, Message: "diagnosis is empty"}
		}
		if r.ID == "" {
			continue
		}
		if prev, dup := seen[r.ID]; dup {
			return &RuleError{
				Code:    ErrCodeDuplicateID,
				RuleID:  r.ID,
				Index:   i,
				Message: fmt.Sprintf("ID already used by rule #%d", prev),
			}
		}
		seen[r.ID] = i
	}
	return nil
}
