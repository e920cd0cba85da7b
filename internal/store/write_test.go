package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hwdiag/internal/ir"
)

func TestWriteRecord_Basic(t *testing.T) {
	s := createTestStore(t)
	rec := createTestRecord("rec-123", baseTime)
	rec.ExtraDescription = "desliga depois de 10 minutos"

	require.NoError(t, s.WriteRecord(context.Background(), rec))

	var id, ts, symptoms, desc, diagnoses, hw, rulesHash, version string
	err := s.db.QueryRow(`
		SELECT id, timestamp_utc, symptoms, extra_description, diagnoses, hardware_summary, rules_hash, record_version
		FROM consultations
		WHERE id = ?
	`, rec.ID).Scan(&id, &ts, &symptoms, &desc, &diagnoses, &hw, &rulesHash, &version)
	require.NoError(t, err)

	assert.Equal(t, "rec-123", id)
	assert.Equal(t, "2026-03-14T09:26:53.000000000Z", ts)
	assert.Equal(t, `["nao_liga"]`, symptoms)
	assert.Equal(t, "desliga depois de 10 minutos", desc)
	assert.Contains(t, diagnoses, `"diagnosis":"Falha na fonte de alimentação"`)
	assert.Contains(t, hw, `"hostname":"bench-01"`)
	assert.Equal(t, testRulesHash, rulesHash)
	assert.Equal(t, ir.RecordVersion, version)
}

func TestWriteRecord_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	rec := createTestRecord("rec-dup", baseTime)

	require.NoError(t, s.WriteRecord(ctx, rec))

	rec.ExtraDescription = "changed"
	require.NoError(t, s.WriteRecord(ctx, rec), "duplicate id must be a no-op")

	n, err := s.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.ReadRecord(ctx, "rec-dup")
	require.NoError(t, err)
	assert.Empty(t, got.ExtraDescription, "first write wins")
}

func TestWriteRecord_RequiresID(t *testing.T) {
	s := createTestStore(t)
	err := s.WriteRecord(context.Background(), createTestRecord("", baseTime))
	assert.ErrorContains(t, err, "id is required")
}

func TestWriteRecord_NilSlicesStoredAsEmptyArrays(t *testing.T) {
	s := createTestStore(t)
	rec := ir.LogRecord{ID: "rec-empty", Timestamp: baseTime}

	require.NoError(t, s.WriteRecord(context.Background(), rec))

	var symptoms, diagnoses string
	err := s.db.QueryRow(`SELECT symptoms, diagnoses FROM consultations WHERE id = ?`, rec.ID).
		Scan(&symptoms, &diagnoses)
	require.NoError(t, err)
	assert.Equal(t, "[]", symptoms)
	assert.Equal(t, "[]", diagnoses)
}

func TestWriteRecord_NoHTMLEscaping(t *testing.T) {
	s := createTestStore(t)
	rec := createTestRecord("rec-html", baseTime)
	rec.Diagnoses[0].Cause = "temperatura > 90°C & ruídos"

	require.NoError(t, s.WriteRecord(context.Background(), rec))

	var diagnoses string
	require.NoError(t, s.db.QueryRow(`SELECT diagnoses FROM consultations WHERE id = ?`, rec.ID).Scan(&diagnoses))
	assert.Contains(t, diagnoses, "temperatura > 90°C & ruídos")
}

func TestWriteRecord_CanceledContext(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.WriteRecord(ctx, createTestRecord("rec-cancel", baseTime))
	assert.Error(t, err)
}
