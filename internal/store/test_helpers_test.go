package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/hwdiag/internal/ir"
)

// createTestStore creates a new temporary store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a record with minimal required fields.
func createTestRecord(id string, ts time.Time) ir.LogRecord {
	return ir.LogRecord{
		ID:        id,
		Timestamp: ts,
		Symptoms:  []ir.Symptom{"nao_liga"},
		Diagnoses: []ir.DiagnosisResult{{
			Diagnosis:      "Falha na fonte de alimentação",
			Cause:          "Fonte queimada ou cabo de energia com defeito.",
			Recommendation: "Verifique o cabo e teste com outra fonte.",
		}},
		HardwareSummary: ir.HardwareSummary{
			Hostname:           "bench-01",
			Platform:           "linux",
			PlatformRelease:    "6.1.0",
			CPUCount:           8,
			MemoryUsagePercent: 42.5,
		},
		RulesHash: testRulesHash,
	}
}

var baseTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// testRulesHash is a well-formed rules hash for createTestRecord.
const testRulesHash = "5e1d0c0ffee0ddba11ad5eedfacade0123456789abcdef0123456789abcdef01"
