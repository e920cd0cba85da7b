package engine

import "github.com/roach88/hwdiag/internal/ir"

// symptomSet is the set form of a query. Order and duplicates are dropped.
type symptomSet map[ir.Symptom]struct{}

func newSymptomSet(symptoms []ir.Symptom) symptomSet {
	set := make(symptomSet, len(symptoms))
	for _, s := range symptoms {
		set[s] = struct{}{}
	}
	return set
}

// contains reports whether s is present in the set.
func (set symptomSet) contains(s ir.Symptom) bool {
	_, ok := set[s]
	return ok
}

// matchRule reports whether every required symptom of rule is in set.
// A rule with an empty condition set is rejected by New, so this is never
// vacuously true for a constructed engine.
func matchRule(rule ir.Rule, set symptomSet) bool {
	for _, required := range rule.Symptoms {
		if !set.contains(required) {
			return false
		}
	}
	return true
}
