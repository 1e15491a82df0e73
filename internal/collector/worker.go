package collector

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/snappulse/snappulse/internal/adapters/snapstore"
	"github.com/snappulse/snappulse/internal/domain/model"
	"github.com/snappulse/snappulse/pkg/logger"
	"github.com/snappulse/snappulse/pkg/metrics"
)

// Fetcher retrieves catalog metadata for one snap.
type Fetcher interface {
	Fetch(ctx context.Context, snap string) (*snapstore.SnapInfo, error)
}

// Forwarder pushes one normalized record downstream.
type Forwarder interface {
	Forward(ctx context.Context, rec model.SnapMetricRecord) error
}

// resultSink receives the outcome of each completed cycle; the
// scheduler uses it to drive per-snap backoff.
type resultSink interface {
	reportResult(snap string, err error)
}

// workerPool runs fetch cycles off the queue.
type workerPool struct {
	queue     *Queue
	fetcher   Fetcher
	forwarder Forwarder
	sink      resultSink
	count     int
	logger    logger.Logger

	wg sync.WaitGroup
}

func newWorkerPool(count int, queue *Queue, fetcher Fetcher, forwarder Forwarder, sink resultSink, log logger.Logger) *workerPool {
	if count < 1 {
		count = 1
	}
	return &workerPool{
		queue:     queue,
		fetcher:   fetcher,
		forwarder: forwarder,
		sink:      sink,
		count:     count,
		logger:    log,
	}
}

// start launches the worker goroutines. They exit when the queue closes
// or the context is canceled.
func (p *workerPool) start(ctx context.Context) {
	metrics.UpdateWorkerCount(p.count)
	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go func(name string) {
			defer p.wg.Done()
			p.run(ctx, name)
		}("worker-" + strconv.Itoa(i))
	}
}

func (p *workerPool) run(ctx context.Context, name string) {
	jobs := p.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			metrics.UpdateQueueDepth(p.queue.Len(ctx))
			p.process(ctx, name, job)
		}
	}
}

// process performs one fetch -> normalize -> forward cycle. Every
// failure is recovered here, at the cycle boundary; the loop never dies.
func (p *workerPool) process(ctx context.Context, name string, job FetchJob) {
	start := time.Now()

	info, err := p.fetcher.Fetch(ctx, job.Snap)
	metrics.RecordFetchDuration(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordFetch("failure")
		metrics.RecordErrorByComponent("collector", "fetch_failed")
		p.logger.Error(ctx, "fetch failed",
			logger.String("worker", name),
			logger.String("cycle", job.CycleID),
			logger.String("snap", job.Snap),
			logger.Error(err),
		)
		p.sink.reportResult(job.Snap, err)
		return
	}
	metrics.RecordFetch("success")

	records := snapstore.Normalize(job.Snap, info)
	if len(records) == 0 {
		p.logger.Warn(ctx, "catalog returned no channels",
			logger.String("cycle", job.CycleID),
			logger.String("snap", job.Snap),
		)
	}

	for _, rec := range records {
		fwdStart := time.Now()
		err := p.forwarder.Forward(ctx, rec)
		metrics.RecordForwardDuration(float64(time.Since(fwdStart).Milliseconds()))
		if err != nil {
			metrics.RecordForward("failure")
			metrics.RecordErrorByComponent("collector", "forward_failed")
			p.logger.Error(ctx, "forward failed, abandoning cycle",
				logger.String("worker", name),
				logger.String("cycle", job.CycleID),
				logger.String("key", rec.Key()),
				logger.Error(err),
			)
			p.sink.reportResult(job.Snap, err)
			return
		}
		metrics.RecordForward("success")
	}

	p.logger.Info(ctx, "collection cycle complete",
		logger.String("cycle", job.CycleID),
		logger.String("snap", job.Snap),
		logger.Int("records", len(records)),
		logger.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	p.sink.reportResult(job.Snap, nil)
}

// wait blocks until all workers have exited.
func (p *workerPool) wait() {
	p.wg.Wait()
}
