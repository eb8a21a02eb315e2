package metrics

import (
	"context"
	"errors"
)

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRoute forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRoute(rec RouteRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordRoute(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordStrategy forwards strategy records.
func (m *MultiSink) RecordStrategy(rec StrategyRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(StrategyRecorder); ok {
			if err := r.RecordStrategy(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFallback forwards fallback records.
func (m *MultiSink) RecordFallback(rec FallbackRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(FallbackRecorder); ok {
			if err := r.RecordFallback(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFailure forwards failure records.
func (m *MultiSink) RecordFailure(rec FailureRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(FailureRecorder); ok {
			if err := r.RecordFailure(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes every sink and joins their errors.
func (m *MultiSink) Flush(ctx context.Context) error {
	var errs []error
	for _, s := range m.Sinks {
		if f, ok := s.(Flusher); ok {
			if err := f.Flush(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
