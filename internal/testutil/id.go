package testutil

// FixedIDGenerator generates the same record ID every time.
//
// This enables deterministic test execution and golden snapshot comparison.
// The same scenario with the same FixedIDGenerator produces byte-identical
// log records.
//
// Unlike consult.FixedGenerator which returns IDs in sequence, this generator
// never runs out.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a new fixed ID generator.
//
// If id is empty, Generate() returns "test-record-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-record-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed ID.
//
// Implements consult.IDGenerator.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
