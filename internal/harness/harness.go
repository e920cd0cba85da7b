package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/roach88/hwdiag/internal/compiler"
	"github.com/roach88/hwdiag/internal/consult"
	"github.com/roach88/hwdiag/internal/engine"
	"github.com/roach88/hwdiag/internal/ir"
	"github.com/roach88/hwdiag/internal/sink"
	"github.com/roach88/hwdiag/internal/store"
	"github.com/roach88/hwdiag/internal/sysinfo"
	"github.com/roach88/hwdiag/internal/testutil"
)

// DefaultRecordPrefix names record IDs when the scenario sets none.
const DefaultRecordPrefix = "rec"

// Harness is the test execution engine.
// It runs scenarios with a deterministic clock and record IDs.
type Harness struct {
	svc    *consult.Service
	logger *slog.Logger
}

// scriptedCollector returns the scenario's hardware block as host metrics.
type scriptedCollector struct {
	info sysinfo.Info
}

func (c scriptedCollector) Collect(context.Context) sysinfo.Info {
	return c.info
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Build the engine from the built-in table or the scenario's CUE rules
// 3. Run each consultation and check its expect clause
// 4. Evaluate assertions against the trace and the stored records
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	eng, err := LoadEngine(scenario.Rules)
	if err != nil {
		return nil, err
	}

	prefix := scenario.RecordPrefix
	if prefix == "" {
		prefix = DefaultRecordPrefix
	}
	ids := make([]string, len(scenario.Consultations))
	for i := range ids {
		ids[i] = fmt.Sprintf("%s-%d", prefix, i+1)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	clock := testutil.NewDeterministicClock(time.Time{}, time.Second)

	h := &Harness{
		logger: logger,
		svc: consult.New(eng,
			consult.WithCollector(scriptedCollector{info: hardwareInfo(scenario.Hardware)}),
			consult.WithSink(sink.NewStoreSink(st, ":memory:")),
			consult.WithIDGenerator(consult.NewFixedGenerator(ids...)),
			consult.WithClock(clock.Now),
			consult.WithLogger(logger),
		),
	}

	ctx := context.Background()
	result := NewResult()
	result.RulesHash = eng.RulesHash()

	if err := h.executeConsultations(ctx, scenario.Consultations, result); err != nil {
		return nil, fmt.Errorf("failed to execute consultations: %w", err)
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// LoadEngine builds an engine from a CUE rules directory, or returns the
// built-in engine when dir is empty.
func LoadEngine(dir string) (*engine.Engine, error) {
	if dir == "" {
		return engine.Default(), nil
	}

	rs, err := compiler.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	var opts []engine.Option
	if rs.Fallback != nil {
		opts = append(opts, engine.WithFallback(*rs.Fallback))
	}
	eng, err := engine.New(rs.Rules, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid rule table: %w", err)
	}
	return eng, nil
}

func hardwareInfo(hw *HardwareStep) sysinfo.Info {
	if hw == nil {
		return sysinfo.Info{}
	}
	return sysinfo.Info{
		Hostname:           hw.Hostname,
		Platform:           hw.Platform,
		PlatformRelease:    hw.PlatformRelease,
		CPUCount:           hw.CPUCount,
		MemoryUsagePercent: hw.MemoryUsagePercent,
	}
}

// executeConsultations runs every step and validates expect clauses.
// A record that cannot be written is an execution error, not a failed
// expectation: the in-memory store must never reject writes.
func (h *Harness) executeConsultations(ctx context.Context, steps []ConsultStep, result *Result) error {
	for i, step := range steps {
		out := h.svc.Consult(ctx, consult.Request{
			Symptoms:    ir.ParseSymptoms(step.Symptoms),
			Description: step.Description,
		})
		if !out.LogStatus.OK() {
			return fmt.Errorf("consultation %d: %s", i, out.LogStatus)
		}

		event := TraceEvent{
			Seq:       int64(i + 1),
			RecordID:  out.Record.ID,
			Symptoms:  ir.SymptomStrings(out.Record.Symptoms),
			Matched:   out.Matched,
			Fallback:  out.Fallback,
			Diagnoses: out.Diagnoses,
		}
		result.Trace = append(result.Trace, event)

		if step.Expect != nil {
			for _, msg := range checkExpect(step.Expect, event) {
				result.AddError(fmt.Sprintf("consultation %d: %s", i, msg))
			}
		}

		h.logger.Info("consultation step completed",
			"step", i,
			"record_id", event.RecordID,
			"matched", strings.Join(event.Matched, ","),
			"fallback", event.Fallback,
		)
	}
	return nil
}

// checkExpect compares one trace event with its expect clause.
func checkExpect(expect *ExpectClause, event TraceEvent) []string {
	var errs []string

	if expect.Rules != nil && !slices.Equal(expect.Rules, event.Matched) {
		errs = append(errs, fmt.Sprintf("expected rules %v, got %v", expect.Rules, event.Matched))
	}

	if expect.Diagnoses != nil {
		titles := make([]string, len(event.Diagnoses))
		for i, d := range event.Diagnoses {
			titles[i] = d.Diagnosis
		}
		if !slices.Equal(expect.Diagnoses, titles) {
			errs = append(errs, fmt.Sprintf("expected diagnoses %q, got %q", expect.Diagnoses, titles))
		}
	}

	if expect.Fallback != nil && *expect.Fallback != event.Fallback {
		errs = append(errs, fmt.Sprintf("expected fallback=%t, got %t", *expect.Fallback, event.Fallback))
	}

	return errs
}
