// Package sink persists consultation log records.
//
// A Sink writes one ir.LogRecord somewhere durable: the local SQLite store
// (StoreSink), an S3 bucket (S3Sink), or several of them at once (Multi).
//
// Logging is best-effort. Save wraps a Sink and turns every outcome,
// including "no sink configured", into a Status for display. A failed write
// never prevents diagnoses from reaching the user.
package sink
