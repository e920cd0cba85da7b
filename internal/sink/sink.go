package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/hwdiag/internal/ir"
)

// Sink persists log records.
type Sink interface {
	// Name identifies the sink in status messages and logs.
	Name() string

	// Persist writes rec. Implementations must be safe for concurrent use.
	Persist(ctx context.Context, rec ir.LogRecord) error
}

// StatusCode classifies the outcome of a Save.
type StatusCode int

const (
	// StatusNotConfigured means no sink was set up; nothing was written.
	StatusNotConfigured StatusCode = iota
	// StatusSaved means the record was written.
	StatusSaved
	// StatusFailed means the write was attempted and failed.
	StatusFailed
)

func (c StatusCode) String() string {
	switch c {
	case StatusNotConfigured:
		return "not_configured"
	case StatusSaved:
		return "saved"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("StatusCode(%d)", int(c))
	}
}

// Status reports the outcome of a best-effort Save.
type Status struct {
	Code StatusCode
	Sink string
	Err  error
}

// OK reports whether the record was written.
func (s Status) OK() bool {
	return s.Code == StatusSaved
}

// String returns the human-readable status line.
func (s Status) String() string {
	switch s.Code {
	case StatusNotConfigured:
		return "Log not saved: no log destination configured."
	case StatusSaved:
		return fmt.Sprintf("Log saved to %s.", s.Sink)
	default:
		return fmt.Sprintf("Could not save log to %s: %v", s.Sink, s.Err)
	}
}

// MarshalJSON renders the code name, sink and message.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Code    string `json:"code"`
		Sink    string `json:"sink,omitempty"`
		Message string `json:"message"`
	}{s.Code.String(), s.Sink, s.String()})
}

// Save persists rec to s and reports the outcome. It never returns an error.
// A nil sink yields StatusNotConfigured.
func Save(ctx context.Context, s Sink, rec ir.LogRecord) Status {
	if s == nil {
		return Status{Code: StatusNotConfigured}
	}
	if err := s.Persist(ctx, rec); err != nil {
		return Status{Code: StatusFailed, Sink: s.Name(), Err: err}
	}
	return Status{Code: StatusSaved, Sink: s.Name()}
}
