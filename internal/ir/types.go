package ir

import "time"

// Symptom is an opaque identifier for one observable hardware or system
// problem (e.g. "nao_liga"). The vocabulary is owned by the symptom catalog;
// the engine never validates membership.
type Symptom string

// Rule associates a required set of symptoms with a diagnosis.
type Rule struct {
	ID             string    `json:"id"`
	Symptoms       []Symptom `json:"symptoms"` // all must be present for the rule to match
	Diagnosis      string    `json:"diagnosis"`
	Cause          string    `json:"cause"`
	Recommendation string    `json:"recommendation"`
}

// Result returns the diagnosis produced when the rule matches.
func (r Rule) Result() DiagnosisResult {
	return DiagnosisResult{
		Diagnosis:      r.Diagnosis,
		Cause:          r.Cause,
		Recommendation: r.Recommendation,
	}
}

// DiagnosisResult is one entry of a diagnosis: a matched rule or the fallback.
type DiagnosisResult struct {
	Diagnosis      string `json:"diagnosis"`
	Cause          string `json:"cause"`
	Recommendation string `json:"recommendation"`
}

// HardwareSummary is the subset of host facts attached to a LogRecord.
type HardwareSummary struct {
	Hostname           string  `json:"hostname"`
	Platform           string  `json:"platform"`
	PlatformRelease    string  `json:"platform_release"`
	CPUCount           int     `json:"cpu_count"`
	MemoryUsagePercent float64 `json:"memory_usage_percent"`
}

// LogRecord is the persisted trace of one consultation.
type LogRecord struct {
	ID               string            `json:"id"`
	Timestamp        time.Time         `json:"timestamp"`
	Symptoms         []Symptom         `json:"symptoms"`
	ExtraDescription string            `json:"extra_description"`
	Diagnoses        []DiagnosisResult `json:"diagnoses"`
	HardwareSummary  HardwareSummary   `json:"hardware_summary"`
	RulesHash        string            `json:"rules_hash,omitempty"`
}

// SymptomStrings converts symptoms to plain strings.
func SymptomStrings(symptoms []Symptom) []string {
	out := make([]string, len(symptoms))
	for i, s := range symptoms {
		out[i] = string(s)
	}
	return out
}

// ParseSymptoms converts plain strings to symptoms, preserving order.
func ParseSymptoms(raw []string) []Symptom {
	out := make([]Symptom, len(raw))
	for i, s := range raw {
		out[i] = Symptom(s)
	}
	return out
}
