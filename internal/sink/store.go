package sink

import (
	"context"

	"github.com/roach88/hwdiag/internal/ir"
)

// RecordWriter is the subset of *store.Store used by StoreSink.
type RecordWriter interface {
	WriteRecord(ctx context.Context, rec ir.LogRecord) error
}

// StoreSink writes records to the local SQLite log.
type StoreSink struct {
	w    RecordWriter
	path string
}

// NewStoreSink wraps w. path is only used for the sink name.
func NewStoreSink(w RecordWriter, path string) *StoreSink {
	return &StoreSink{w: w, path: path}
}

// Name returns "sqlite:<path>".
func (s *StoreSink) Name() string {
	return "sqlite:" + s.path
}

// Persist writes rec. Rewriting the same record ID is a no-op.
func (s *StoreSink) Persist(ctx context.Context, rec ir.LogRecord) error {
	return s.w.WriteRecord(ctx, rec)
}
