// Package repository defines the metrics store interface and errors.
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/snappulse/snappulse/internal/domain/model"
	"github.com/snappulse/snappulse/internal/domain/trending"
	"github.com/snappulse/snappulse/pkg/metrics"
)

// MemStore implements Store with a mutex-guarded map.
//
// Writes replace whole values under the lock, so a read racing a write
// observes either the prior or the new record, never a torn one. The key
// space is small (snaps x 4 channels), so TopN sorts a snapshot instead
// of maintaining an ordered structure.
type MemStore struct {
	mu      sync.RWMutex
	records map[string]model.SnapMetricRecord

	scorer *trending.Scorer
	now    func() time.Time
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(opts ...Option) *MemStore {
	m := &MemStore{
		records: make(map[string]model.SnapMetricRecord),
		scorer:  trending.NewScorer(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Put validates, derives, stamps, and replaces. Last write wins; there is
// no merge with the prior record.
func (m *MemStore) Put(ctx context.Context, rec model.SnapMetricRecord) (model.SnapMetricRecord, error) {
	start := time.Now()
	if err := rec.Validate(); err != nil {
		return model.SnapMetricRecord{}, err
	}

	rec.TrendingScore = m.scorer.Score(rec.Rating, rec.DownloadLast30Days)
	rec.LastUpdated = m.now().UTC()

	m.mu.Lock()
	m.records[rec.Key()] = rec
	total := len(m.records)
	m.mu.Unlock()

	metrics.UpdateStoreRecords(total)
	metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	return rec, nil
}

// Get returns the record for the exact key, or ErrNotFound.
func (m *MemStore) Get(ctx context.Context, snap string, channel model.Channel) (model.SnapMetricRecord, error) {
	m.mu.RLock()
	rec, ok := m.records[snap+"/"+string(channel)]
	m.mu.RUnlock()

	if !ok {
		return model.SnapMetricRecord{}, ErrNotFound
	}
	return rec, nil
}

// AllChannels returns present records for a snap, keyed by channel.
func (m *MemStore) AllChannels(ctx context.Context, snap string) (map[model.Channel]model.SnapMetricRecord, error) {
	out := make(map[model.Channel]model.SnapMetricRecord)

	m.mu.RLock()
	for _, ch := range model.Channels() {
		if rec, ok := m.records[snap+"/"+string(ch)]; ok {
			out[ch] = rec
		}
	}
	m.mu.RUnlock()

	return out, nil
}

// TopN returns up to n records by trending_score desc, snap name asc,
// then channel order for full determinism.
func (m *MemStore) TopN(ctx context.Context, n int) ([]model.SnapMetricRecord, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	m.mu.RLock()
	snapshot := make([]model.SnapMetricRecord, 0, len(m.records))
	for _, rec := range m.records {
		snapshot = append(snapshot, rec)
	}
	m.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool {
		a, b := snapshot[i], snapshot[j]
		if a.TrendingScore != b.TrendingScore {
			return a.TrendingScore > b.TrendingScore
		}
		if a.SnapName != b.SnapName {
			return a.SnapName < b.SnapName
		}
		return channelOrder(a.Channel) < channelOrder(b.Channel)
	})

	if len(snapshot) > n {
		snapshot = snapshot[:n]
	}
	return snapshot, nil
}

// Count returns the number of keys tracked.
func (m *MemStore) Count(ctx context.Context) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func channelOrder(c model.Channel) int {
	for i, ch := range model.Channels() {
		if c == ch {
			return i
		}
	}
	return len(model.Channels())
}
