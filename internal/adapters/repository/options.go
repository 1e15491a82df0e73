// Package repository defines the metrics store interface and errors.
package repository

import (
	"time"

	"github.com/snappulse/snappulse/internal/domain/trending"
)

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithScorer sets the trending scorer used at ingest time.
func WithScorer(s *trending.Scorer) Option {
	return func(m *MemStore) {
		if s != nil {
			m.scorer = s
		}
	}
}

// WithClock sets the time source used to stamp last_updated.
// Tests pin this to a fixed instant.
func WithClock(now func() time.Time) Option {
	return func(m *MemStore) {
		if now != nil {
			m.now = now
		}
	}
}
