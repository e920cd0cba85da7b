package ir

// Version constants for the record schema and engine.
const (
	// RecordVersion is the LogRecord schema version.
	RecordVersion = "1"

	// EngineVersion is the hwdiag engine version.
	EngineVersion = "0.1.0"
)
