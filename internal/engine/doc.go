// Package engine implements the hwdiag diagnostic rule engine.
//
// The engine maps a set of observed symptoms to descriptive diagnoses by
// subset-matching against a static, ordered rule table.
//
// EVALUATION:
//
// For each rule in declaration order, the rule matches when every one of its
// required symptoms is present in the input. Matching is independent across
// rules: a query may produce several diagnoses, and rules that share a
// symptom (e.g. "lento") are additive rather than exclusive. When no rule
// matches, Diagnose returns the fallback result alone.
//
// Input order and duplicates are irrelevant: the input is reduced to a set
// before evaluation.
//
// INVARIANTS:
//   - The rule table is copied at construction and never mutated
//   - Output order equals rule declaration order
//   - No rule has an empty condition set (enforced by New)
//   - The fallback never appears alongside real matches
//
// CONCURRENCY:
//
// An Engine holds no mutable state after New returns. Diagnose may be called
// from any number of goroutines without synchronization. It performs no I/O
// and never blocks, so it takes no context.
package engine
