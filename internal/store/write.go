package store

import (
	"context"
	"fmt"

	"github.com/roach88/hwdiag/internal/ir"
)

// WriteRecord inserts a consultation record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are
// silently ignored. Other constraint violations still return errors.
func (s *Store) WriteRecord(ctx context.Context, rec ir.LogRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("write record: id is required")
	}

	symptoms, err := marshalSymptoms(rec.Symptoms)
	if err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	diagnoses, err := marshalDiagnoses(rec.Diagnoses)
	if err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	summary, err := marshalSummary(rec.HardwareSummary)
	if err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO consultations
		(id, timestamp_utc, symptoms, extra_description, diagnoses, hardware_summary, rules_hash, record_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		formatTimestamp(rec.Timestamp),
		symptoms,
		rec.ExtraDescription,
		diagnoses,
		summary,
		rec.RulesHash,
		ir.RecordVersion,
	)
	if err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	return nil
}
