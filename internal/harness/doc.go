// Package harness provides conformance testing for hwdiag rule tables.
//
// The harness runs scripted consultations against a rule table and checks
// the diagnoses the engine actually produces. Every consultation goes through
// the real engine, consultation service and an in-memory SQLite log, so the
// stored records can be asserted on as well.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	rules: ../rules            # optional CUE rules dir; built-in table if empty
//	hardware:                  # optional fixed hardware summary
//	  hostname: bench-01
//	  cpu_count: 4
//	consultations:
//	  - symptoms: [lento, pouca_memoria]
//	    description: "demora para abrir programas"
//	    expect:
//	      rules: [low-memory]
//	      diagnoses: ["Desempenho lento por falta de memória RAM"]
//	      fallback: false
//	assertions:
//	  - type: trace_contains
//	    rule: low-memory
//	  - type: final_state
//	    record: rec-1
//	    expect: { extra_description: "demora para abrir programas" }
//
// # Assertion Types
//
//   - trace_contains: Verifies a rule fired in at least one consultation
//   - trace_order: Verifies rules first fired in the specified order
//   - trace_count: Verifies a rule fired in exactly N consultations
//   - fallback_count: Verifies exactly N consultations fell back
//   - record_count: Verifies N records were written to the log
//   - final_state: Reads a stored record and verifies field values
//
// # Deterministic Testing
//
// Record IDs come from the scenario's record_prefix ("rec-1", "rec-2", ...),
// timestamps from testutil.DeterministicClock, and host metrics from the
// scenario's hardware block. Identical scenarios therefore produce
// byte-identical traces for golden comparison.
package harness
