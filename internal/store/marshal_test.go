package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_FixedWidthSortsChronologically(t *testing.T) {
	a := formatTimestamp(baseTime)
	b := formatTimestamp(baseTime.Add(time.Nanosecond))
	c := formatTimestamp(baseTime.Add(time.Second))

	assert.Len(t, a, len(c))
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestParseTimestamp_Invalid(t *testing.T) {
	_, err := parseTimestamp("yesterday")
	assert.ErrorContains(t, err, "parse timestamp")
}

func TestUnmarshal_InvalidJSON(t *testing.T) {
	_, err := unmarshalSymptoms("{")
	assert.Error(t, err)
	_, err = unmarshalDiagnoses("not json")
	assert.Error(t, err)
	_, err = unmarshalSummary("[")
	assert.Error(t, err)
}

func TestMarshalSummary(t *testing.T) {
	rec := createTestRecord("x", baseTime)
	data, err := marshalSummary(rec.HardwareSummary)
	require.NoError(t, err)

	got, err := unmarshalSummary(data)
	require.NoError(t, err)
	assert.Equal(t, rec.HardwareSummary, got)
}
