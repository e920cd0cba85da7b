// Package compiler compiles CUE rule files into ir.Rule tables.
//
// A rule file declares rules under the top-level "rule" struct, keyed by
// rule ID, and may override the fallback result:
//
//	rule: {
//		"no-power": {
//			symptoms:       ["nao_liga"]
//			diagnosis:      "Computador não liga"
//			cause:          "..."
//			recommendation: "..."
//		}
//	}
//	fallback: {
//		diagnosis:      "..."
//		cause:          "..."
//		recommendation: "..."
//	}
//
// Rules keep their CUE declaration order, which is the order the engine
// reports matches in. Validate applies the same invariants the engine
// enforces at construction, but collects every violation instead of
// stopping at the first.
package compiler
