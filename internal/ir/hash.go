package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes.
// Version suffix enables future algorithm migration.
const (
	DomainRuleTable = "hwdiag/rules/v1"
	DomainRecord    = "hwdiag/record/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RulesHash computes the content hash of a rule table and its fallback.
// Declaration order is part of the identity: reordering rules changes the
// output order of a diagnosis, so it changes the hash.
func RulesHash(rules []Rule, fallback DiagnosisResult) (string, error) {
	list := make([]any, len(rules))
	for i, r := range rules {
		list[i] = r
	}
	canonical, err := MarshalCanonical(map[string]any{
		"rules":    list,
		"fallback": fallback,
	})
	if err != nil {
		return "", fmt.Errorf("RulesHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRuleTable, canonical), nil
}

// DiagnosesHash computes the content hash of a diagnosis output. Two
// consultations with equal hashes produced identical results.
func DiagnosesHash(results []DiagnosisResult) (string, error) {
	list := make([]any, len(results))
	for i, d := range results {
		list[i] = d
	}
	canonical, err := MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("DiagnosesHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRecord, canonical), nil
}
