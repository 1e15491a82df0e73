package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/snappulse/snappulse/internal/adapters/ingest"
	"github.com/snappulse/snappulse/pkg/logger"
)

// Runner posts generated demo records to a running api instance.
type Runner struct {
	client *ingest.Client
	snaps  []string
	logger logger.Logger
}

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithSnaps overrides the demo snap list.
func WithSnaps(snaps []string) Option {
	return func(r *Runner) {
		if len(snaps) > 0 {
			r.snaps = snaps
		}
	}
}

// NewRunner creates a seeding runner targeting the api at baseURL.
func NewRunner(baseURL string, timeout time.Duration, opts ...Option) *Runner {
	r := &Runner{
		client: ingest.NewClient(baseURL, ingest.WithTimeout(timeout)),
		snaps:  DefaultSnaps,
		logger: logger.Named("seed"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run generates and posts records for every configured snap. The first
// forward failure aborts the run; partial seeding is fine to retry.
func (r *Runner) Run(ctx context.Context) error {
	posted := 0
	for _, snap := range r.snaps {
		for _, rec := range Generate(snap) {
			if err := r.client.Forward(ctx, rec); err != nil {
				return fmt.Errorf("seed %s/%s: %w", rec.SnapName, rec.Channel, err)
			}
			posted++
		}
		r.logger.Info(ctx, "seeded snap", logger.String("snap", snap))
	}
	r.logger.Info(ctx, "seeding complete",
		logger.Int("snaps", len(r.snaps)),
		logger.Int("records", posted),
	)
	return nil
}
