// Package repository defines the metrics store interface and errors.
package repository

import (
	"context"

	"github.com/snappulse/snappulse/internal/domain/model"
)

// Store holds the latest known record per (snap name, channel) key.
type Store interface {
	// Put validates the input, derives trending_score, stamps
	// last_updated, and fully replaces any prior record under the same
	// key. The stored record is returned.
	Put(ctx context.Context, rec model.SnapMetricRecord) (model.SnapMetricRecord, error)

	// Get returns the record for the exact key.
	// Returns ErrNotFound if nothing has been ingested for it; absence is
	// distinct from a record with zero downloads.
	Get(ctx context.Context, snap string, channel model.Channel) (model.SnapMetricRecord, error)

	// AllChannels returns the records present for a snap, keyed by channel.
	// Channels with no ingested record are simply absent from the map.
	AllChannels(ctx context.Context, snap string) (map[model.Channel]model.SnapMetricRecord, error)

	// TopN returns up to n records ordered by trending_score desc,
	// ties broken by snap name asc then channel.
	TopN(ctx context.Context, n int) ([]model.SnapMetricRecord, error)

	// Count returns the number of keys tracked.
	Count(ctx context.Context) int
}
