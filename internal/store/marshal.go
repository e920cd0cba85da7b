package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/hwdiag/internal/ir"
)

// timestampLayout is the TEXT encoding of timestamp_utc. Fixed-width so
// lexical order equals chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp: %w", err)
	}
	return t, nil
}

// marshalJSON converts v to compact JSON TEXT with HTML escaping disabled,
// so labels like "cliques/chiados" and "<" stay readable in the database.
func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

func marshalSymptoms(symptoms []ir.Symptom) (string, error) {
	if symptoms == nil {
		symptoms = []ir.Symptom{}
	}
	data, err := marshalJSON(symptoms)
	if err != nil {
		return "", fmt.Errorf("marshal symptoms: %w", err)
	}
	return data, nil
}

func marshalDiagnoses(diagnoses []ir.DiagnosisResult) (string, error) {
	if diagnoses == nil {
		diagnoses = []ir.DiagnosisResult{}
	}
	data, err := marshalJSON(diagnoses)
	if err != nil {
		return "", fmt.Errorf("marshal diagnoses: %w", err)
	}
	return data, nil
}

func marshalSummary(summary ir.HardwareSummary) (string, error) {
	data, err := marshalJSON(summary)
	if err != nil {
		return "", fmt.Errorf("marshal hardware summary: %w", err)
	}
	return data, nil
}

func unmarshalSymptoms(data string) ([]ir.Symptom, error) {
	symptoms := []ir.Symptom{}
	if err := json.Unmarshal([]byte(data), &symptoms); err != nil {
		return nil, fmt.Errorf("unmarshal symptoms: %w", err)
	}
	return symptoms, nil
}

func unmarshalDiagnoses(data string) ([]ir.DiagnosisResult, error) {
	diagnoses := []ir.DiagnosisResult{}
	if err := json.Unmarshal([]byte(data), &diagnoses); err != nil {
		return nil, fmt.Errorf("unmarshal diagnoses: %w", err)
	}
	return diagnoses, nil
}

func unmarshalSummary(data string) (ir.HardwareSummary, error) {
	var summary ir.HardwareSummary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return ir.HardwareSummary{}, fmt.Errorf("unmarshal hardware summary: %w", err)
	}
	return summary, nil
}
