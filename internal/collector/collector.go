package collector

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/snappulse/snappulse/pkg/logger"
)

// Backoff bounds. A snap that keeps failing is polled less and less
// often, up to maxBackoffFactor times the configured interval.
const (
	maxBackoffFactor   = 8
	defaultWorkerCount = 2
)

// backoffState tracks consecutive failures for one snap.
type backoffState struct {
	fails        int
	nextEligible time.Time
}

// Collector schedules periodic fetch cycles for the configured snaps.
// The scheduler only enqueues work; the worker pool does the fetching,
// so one slow snap cannot delay the others.
type Collector struct {
	snaps     []string
	interval  time.Duration
	fetcher   Fetcher
	forwarder Forwarder

	queue       *Queue
	workerCount int
	pool        *workerPool

	mu      sync.Mutex
	backoff map[string]*backoffState

	now    func() time.Time
	logger logger.Logger
}

// Option applies a configuration option to the Collector.
type Option func(*Collector)

// WithWorkerCount sets the number of fetch workers.
func WithWorkerCount(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.workerCount = n
		}
	}
}

// WithQueueSize bounds the fetch-job queue.
func WithQueueSize(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.queue = NewQueue(n)
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Collector) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithClock sets the time source; tests pin it to drive backoff.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		if now != nil {
			c.now = now
		}
	}
}

// New constructs a Collector polling the given snaps every interval.
func New(snaps []string, interval time.Duration, fetcher Fetcher, forwarder Forwarder, opts ...Option) *Collector {
	c := &Collector{
		snaps:       snaps,
		interval:    interval,
		fetcher:     fetcher,
		forwarder:   forwarder,
		workerCount: defaultWorkerCount,
		backoff:     make(map[string]*backoffState),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.queue == nil {
		c.queue = NewQueue(defaultQueueCapacity)
	}
	if c.logger == nil {
		c.logger = logger.Get()
	}
	return c
}

// Run executes the poll loop until ctx is canceled. The first cycle
// fires immediately; later cycles follow the fixed interval, with
// per-snap eligibility gating failed snaps onto a backoff schedule.
func (c *Collector) Run(ctx context.Context) error {
	c.logger.Info(ctx, "starting collector",
		logger.Int("snaps", len(c.snaps)),
		logger.Any("interval", c.interval),
		logger.Int("workers", c.workerCount),
	)

	c.pool = newWorkerPool(c.workerCount, c.queue, c.fetcher, c.forwarder, c, c.logger)
	c.pool.start(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info(ctx, "collector loop stopped")
			_ = c.queue.Close()
			c.pool.wait()
			return nil
		case <-ticker.C:
			c.Tick(ctx)
		}
	}
}

// Tick performs one scheduling pass, enqueuing a fetch job for every
// eligible snap. Exported for testing purposes.
func (c *Collector) Tick(ctx context.Context) {
	now := c.now()
	for _, snap := range c.snaps {
		if !c.eligible(snap, now) {
			c.logger.Debug(ctx, "snap backing off, skipping",
				logger.String("snap", snap),
			)
			continue
		}
		job := FetchJob{CycleID: uuid.NewString(), Snap: snap}
		if !c.queue.Enqueue(ctx, job) {
			c.logger.Warn(ctx, "fetch queue full, dropping job",
				logger.String("snap", snap),
			)
		}
	}
}

func (c *Collector) eligible(snap string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.backoff[snap]
	if !ok {
		return true
	}
	return !now.Before(state.nextEligible)
}

// reportResult implements resultSink. Successes clear backoff;
// consecutive failures double the wait, capped at 8x the interval.
func (c *Collector) reportResult(snap string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil {
		delete(c.backoff, snap)
		return
	}

	state, ok := c.backoff[snap]
	if !ok {
		state = &backoffState{}
		c.backoff[snap] = state
	}
	state.fails++

	// A first failure retries on the next scheduled tick; only repeated
	// failures push the snap onto the doubling schedule.
	if state.fails == 1 {
		state.nextEligible = c.now()
		return
	}

	factor := 2
	for i := 2; i < state.fails && factor < maxBackoffFactor; i++ {
		factor *= 2
	}
	state.nextEligible = c.now().Add(time.Duration(factor) * c.interval)
}

// NextEligible reports when a snap may be scheduled again; the zero
// time means it is not backing off. Exported for testing purposes.
func (c *Collector) NextEligible(snap string) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state, ok := c.backoff[snap]; ok {
		return state.nextEligible
	}
	return time.Time{}
}
