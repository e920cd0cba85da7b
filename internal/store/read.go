package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/hwdiag/internal/ir"
)

// ErrNotFound is returned when a record ID does not exist.
var ErrNotFound = errors.New("record not found")

const selectColumns = `
	SELECT id, timestamp_utc, symptoms, extra_description, diagnoses, hardware_summary, rules_hash
	FROM consultations`

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (ir.LogRecord, error) {
	var (
		rec                         ir.LogRecord
		ts, symptoms, diagnoses, hw string
	)
	if err := row.Scan(&rec.ID, &ts, &symptoms, &rec.ExtraDescription, &diagnoses, &hw, &rec.RulesHash); err != nil {
		return ir.LogRecord{}, err
	}

	var err error
	if rec.Timestamp, err = parseTimestamp(ts); err != nil {
		return ir.LogRecord{}, err
	}
	if rec.Symptoms, err = unmarshalSymptoms(symptoms); err != nil {
		return ir.LogRecord{}, err
	}
	if rec.Diagnoses, err = unmarshalDiagnoses(diagnoses); err != nil {
		return ir.LogRecord{}, err
	}
	if rec.HardwareSummary, err = unmarshalSummary(hw); err != nil {
		return ir.LogRecord{}, err
	}
	return rec, nil
}

// ReadRecord returns the record with the given ID, or ErrNotFound.
func (s *Store) ReadRecord(ctx context.Context, id string) (ir.LogRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.LogRecord{}, fmt.Errorf("read record %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return ir.LogRecord{}, fmt.Errorf("read record %s: %w", id, err)
	}
	return rec, nil
}

// ListRecords returns up to limit records, newest first.
// A limit <= 0 returns every record.
func (s *Store) ListRecords(ctx context.Context, limit int) ([]ir.LogRecord, error) {
	query := selectColumns + ` ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryRecords(ctx, "list records", query, args...)
}

// ListRecordsByRulesHash returns up to limit records produced by the rule
// table whose hash starts with prefix, newest first. prefix is a lowercase
// hex hash or a leading part of one, such as the 12-character form shown by
// the CLI. A limit <= 0 returns every match.
func (s *Store) ListRecordsByRulesHash(ctx context.Context, prefix string, limit int) ([]ir.LogRecord, error) {
	if !isHexPrefix(prefix) {
		return nil, fmt.Errorf("list records by rules hash: invalid hash prefix %q", prefix)
	}
	// GLOB is case-sensitive and can use idx_consultations_rules_hash.
	query := selectColumns + ` WHERE rules_hash GLOB ? ORDER BY seq DESC`
	args := []any{prefix + "*"}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryRecords(ctx, "list records by rules hash", query, args...)
}

func isHexPrefix(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

// CountRecords returns the number of stored records.
func (s *Store) CountRecords(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM consultations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

func (s *Store) queryRecords(ctx context.Context, op, query string, args ...any) ([]ir.LogRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	records := []ir.LogRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return records, nil
}
