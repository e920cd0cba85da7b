// Package ir provides the shared record types for hwdiag.
//
// This package contains type definitions and the canonical serialization
// used for content hashes. All other internal packages import ir; ir
// imports nothing internal.
//
// Key design constraints:
//   - Rules are plain values; an engine owns its own copy of the table
//   - All JSON tags use snake_case
//   - Content hashes use RFC 8785 canonical JSON, never encoding/json output
package ir
