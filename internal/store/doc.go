// Package store provides SQLite-backed durable storage for hwdiag
// consultation logs.
//
// The store is an append-only log of consultations. Each row holds the
// symptoms, the diagnoses produced, the hardware summary and the hash of the
// rule table that produced them, so a record can be traced back to the exact
// table in force at the time.
//
// # Ordering
//
//   - Rows are ordered by seq INTEGER (insertion order), never by timestamp
//   - Listing queries ORDER BY seq; seq is unique, so no tie-breaker is needed
//
// # Idempotency
//
//   - Writes use ON CONFLICT(id) DO NOTHING; rewriting a record is a no-op
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
