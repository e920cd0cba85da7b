package consult

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/roach88/hwdiag/internal/catalog"
	"github.com/roach88/hwdiag/internal/engine"
	"github.com/roach88/hwdiag/internal/ir"
	"github.com/roach88/hwdiag/internal/sink"
	"github.com/roach88/hwdiag/internal/sysinfo"
)

// MetricsCollector samples the host. *sysinfo.Collector implements it.
type MetricsCollector interface {
	Collect(ctx context.Context) sysinfo.Info
}

// Request is one consultation as entered by the user.
type Request struct {
	Symptoms    []ir.Symptom
	Description string
}

// Outcome is everything a consultation produced.
type Outcome struct {
	Diagnoses []ir.DiagnosisResult `json:"diagnoses"`
	Matched   []string             `json:"matched_rules"`
	Fallback  bool                 `json:"fallback"`
	Unknown   []ir.Symptom         `json:"unknown_symptoms,omitempty"`
	// ResultHash is equal for consultations that produced identical diagnoses.
	ResultHash string       `json:"result_hash"`
	Record     ir.LogRecord `json:"record"`
	System     sysinfo.Info `json:"system"`
	LogStatus  sink.Status  `json:"log_status"`
}

// Service runs consultations against a fixed engine.
// Safe for concurrent use when its collaborators are.
type Service struct {
	eng       *engine.Engine
	collector MetricsCollector
	sink      sink.Sink
	ids       IDGenerator
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCollector sets the metrics collector. A nil collector skips metric
// collection and leaves the hardware summary zero.
func WithCollector(c MetricsCollector) Option {
	return func(s *Service) { s.collector = c }
}

// WithSink sets where log records go. Without one, records are not saved.
func WithSink(sk sink.Sink) Option {
	return func(s *Service) { s.sink = sk }
}

// WithIDGenerator overrides the UUIDv7 record ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) { s.ids = g }
}

// WithClock overrides time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New returns a Service diagnosing with eng. By default it samples the local
// host, saves nothing and stamps records with UUIDv7 IDs and time.Now.
func New(eng *engine.Engine, opts ...Option) *Service {
	s := &Service{
		eng:       eng,
		collector: sysinfo.NewCollector(nil),
		ids:       UUIDv7Generator{},
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Consult diagnoses req, collects host metrics and persists a log record.
// It never fails: Outcome.Diagnoses is always non-empty.
func (s *Service) Consult(ctx context.Context, req Request) Outcome {
	diagnoses := s.eng.Diagnose(req.Symptoms)
	out := Outcome{
		Diagnoses: diagnoses,
		Matched:   s.eng.Matches(req.Symptoms),
		Unknown:   catalog.Unknown(req.Symptoms),
	}
	// A rule may carry the same text as the fallback; only an empty match
	// list means the fallback was returned.
	out.Fallback = len(out.Matched) == 0
	if h, err := ir.DiagnosesHash(diagnoses); err != nil {
		s.logger.Warn("result hash unavailable", "error", err)
	} else {
		out.ResultHash = h
	}
	if len(out.Unknown) > 0 {
		s.logger.Debug("unknown symptoms", "symptoms", ir.SymptomStrings(out.Unknown))
	}

	if s.collector != nil {
		out.System = s.collector.Collect(ctx)
		for _, w := range out.System.Warnings {
			s.logger.Debug("metrics reading failed", "warning", w)
		}
	}

	symptoms := make([]ir.Symptom, len(req.Symptoms))
	copy(symptoms, req.Symptoms)

	out.Record = ir.LogRecord{
		ID:               s.ids.Generate(),
		Timestamp:        s.now().UTC(),
		Symptoms:         symptoms,
		ExtraDescription: strings.TrimSpace(req.Description),
		Diagnoses:        diagnoses,
		HardwareSummary:  out.System.Summary(),
		RulesHash:        s.eng.RulesHash(),
	}

	out.LogStatus = sink.Save(ctx, s.sink, out.Record)
	switch out.LogStatus.Code {
	case sink.StatusFailed:
		s.logger.Warn("log record not saved",
			"id", out.Record.ID,
			"sink", out.LogStatus.Sink,
			"error", out.LogStatus.Err)
	case sink.StatusSaved:
		s.logger.Debug("log record saved", "id", out.Record.ID, "sink", out.LogStatus.Sink)
	}

	s.logger.Info("consultation complete",
		"id", out.Record.ID,
		"symptoms", len(req.Symptoms),
		"diagnoses", len(diagnoses),
		"fallback", out.Fallback)

	return out
}
