package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rules is a directory of CUE rule files. Empty uses the built-in table.
	// Relative paths are resolved against the scenario file's directory.
	Rules string `yaml:"rules,omitempty"`

	// RecordPrefix names the generated record IDs ("<prefix>-1", ...).
	// Defaults to "rec".
	RecordPrefix string `yaml:"record_prefix,omitempty"`

	// Hardware is the fixed host summary attached to every record.
	Hardware *HardwareStep `yaml:"hardware,omitempty"`

	// Consultations run in order against the same engine and log.
	Consultations []ConsultStep `yaml:"consultations"`

	// Assertions validate the final trace and stored records.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// HardwareStep is a scripted host summary.
type HardwareStep struct {
	Hostname           string  `yaml:"hostname"`
	Platform           string  `yaml:"platform"`
	PlatformRelease    string  `yaml:"platform_release"`
	CPUCount           int     `yaml:"cpu_count"`
	MemoryUsagePercent float64 `yaml:"memory_usage_percent"`
}

// ConsultStep is one consultation in the flow.
type ConsultStep struct {
	// Symptoms are the identifiers sent to the engine.
	Symptoms []string `yaml:"symptoms"`

	// Description is the optional free-text description.
	Description string `yaml:"description,omitempty"`

	// Expect specifies the expected outcome. If nil, nothing is checked.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of one consultation.
// Omitted fields are not checked.
type ExpectClause struct {
	// Rules lists the matched rule IDs in declaration order.
	Rules []string `yaml:"rules,omitempty"`

	// Diagnoses lists the diagnosis titles in order.
	Diagnoses []string `yaml:"diagnoses,omitempty"`

	// Fallback requires the consultation to fall back (or not).
	Fallback *bool `yaml:"fallback,omitempty"`
}

// Assertion validates the trace or the stored log.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Rule is the rule ID (trace_contains, trace_count).
	Rule string `yaml:"rule,omitempty"`

	// Rules is the expected first-firing order (trace_order).
	Rules []string `yaml:"rules,omitempty"`

	// Count is the expected number (trace_count, fallback_count, record_count).
	Count int `yaml:"count,omitempty"`

	// Record is the stored record ID (final_state).
	Record string `yaml:"record,omitempty"`

	// Expect contains expected record field values (final_state).
	// Subset match - only specified fields are validated.
	Expect map[string]interface{} `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFallbackCount = "fallback_count"
	AssertRecordCount   = "record_count"
	AssertFinalState    = "final_state"
)

var validAssertionTypes = map[string]bool{
	AssertTraceContains: true,
	AssertTraceOrder:    true,
	AssertTraceCount:    true,
	AssertFallbackCount: true,
	AssertRecordCount:   true,
	AssertFinalState:    true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative rules path is resolved against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Rules != "" && !filepath.IsAbs(scenario.Rules) {
		scenario.Rules = filepath.Join(filepath.Dir(path), scenario.Rules)
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML from memory.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Consultations) == 0 {
		return fmt.Errorf("consultations list is required and must be non-empty")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertion %d: %w", i, err)
		}
	}

	return nil
}

// validateAssertion checks that an assertion carries the fields its type needs.
func validateAssertion(a Assertion) error {
	if !validAssertionTypes[a.Type] {
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}

	switch a.Type {
	case AssertTraceContains, AssertTraceCount:
		if a.Rule == "" {
			return fmt.Errorf("%s requires 'rule' field", a.Type)
		}
	case AssertTraceOrder:
		if len(a.Rules) < 2 {
			return fmt.Errorf("trace_order requires at least two 'rules'")
		}
	case AssertFinalState:
		if a.Record == "" {
			return fmt.Errorf("final_state requires 'record' field")
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("final_state requires 'expect' field")
		}
	}

	if a.Count < 0 {
		return fmt.Errorf("count must be non-negative, got %d", a.Count)
	}

	return nil
}
