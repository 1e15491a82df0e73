// Package dedupe tracks webhook delivery ids for idempotent relaying.
package dedupe

import (
	"context"
	"sync"
)

// Default bound on remembered delivery ids.
const defaultMaxSize = 10_000

// Deduper records seen delivery ids so repeated webhook deliveries are
// acknowledged without being relayed twice.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id, allowing the delivery to be retried after a
	// relay failure.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of ids currently tracked.
	Size() int
}

// inMemoryDeduper implements Deduper with a map plus a FIFO ring for
// eviction once maxSize is reached.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	head    int
	maxSize int
}

// Option applies a configuration option to the deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize bounds the number of remembered ids; oldest entries are
// evicted first.
func WithMaxSize(n int) Option {
	return func(d *inMemoryDeduper) {
		if n > 0 {
			d.maxSize = n
		}
	}
}

// NewInMemoryDeduper creates a bounded in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.maxSize)
	d.order = make([]string, 0, d.maxSize)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	if len(d.seen) >= d.maxSize {
		// Evict the oldest live entry. Unrecorded ids leave holes in the
		// queue, so skip entries no longer in the map.
		for d.head < len(d.order) {
			oldest := d.order[d.head]
			d.head++
			if _, live := d.seen[oldest]; live {
				delete(d.seen, oldest)
				break
			}
		}
		// Compact the consumed prefix so the queue stays bounded.
		if d.head > d.maxSize {
			d.order = append([]string(nil), d.order[d.head:]...)
			d.head = 0
		}
	}

	d.seen[id] = struct{}{}
	d.order = append(d.order, id)
	return false
}

func (d *inMemoryDeduper) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	delete(d.seen, id)
	d.mu.Unlock()
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
