package sink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/hwdiag/internal/ir"
)

// Multi fans a record out to several sinks concurrently.
// Every sink is attempted even when another fails.
type Multi struct {
	sinks []Sink
}

// NewMulti returns a fan-out sink. Nil entries are dropped. With zero sinks
// left it returns nil so Save reports "not configured"; with one it returns
// that sink unchanged.
func NewMulti(sinks ...Sink) Sink {
	kept := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return &Multi{sinks: kept}
}

// Name joins the member names with "+".
func (m *Multi) Name() string {
	names := make([]string, len(m.sinks))
	for i, s := range m.sinks {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

// Persist writes rec to every sink and waits for all of them.
// The returned error joins every member failure.
func (m *Multi) Persist(ctx context.Context, rec ir.LogRecord) error {
	errs := make([]error, len(m.sinks))

	// Plain Group, not WithContext: one failure must not cancel the others.
	var g errgroup.Group
	for i, s := range m.sinks {
		g.Go(func() error {
			if err := s.Persist(ctx, rec); err != nil {
				errs[i] = fmt.Errorf("%s: %w", s.Name(), err)
				return errs[i]
			}
			return nil
		})
	}
	// Wait only reports the first failure; errs holds all of them.
	if err := g.Wait(); err == nil {
		return nil
	}
	return errors.Join(errs...)
}
