package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/snappulse/snappulse/internal/adapters/ingest"
	"github.com/snappulse/snappulse/internal/adapters/snapstore"
	"github.com/snappulse/snappulse/internal/collector"
	"github.com/snappulse/snappulse/internal/config"
	"github.com/snappulse/snappulse/pkg/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := cfg.ValidateCollector(); err != nil {
		os.Stderr.WriteString("invalid config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	fetcher := snapstore.NewClient(cfg.SnapStoreURL,
		snapstore.WithTimeout(time.Duration(cfg.FetchTimeoutSeconds)*time.Second),
	)
	forwarder := ingest.NewClient(cfg.IngestURL,
		ingest.WithTimeout(time.Duration(cfg.ForwardTimeoutSeconds)*time.Second),
	)

	c := collector.New(
		cfg.Snaps,
		time.Duration(cfg.PollIntervalSeconds)*time.Second,
		fetcher,
		forwarder,
		collector.WithWorkerCount(cfg.WorkerCount),
		collector.WithQueueSize(cfg.QueueSize),
		collector.WithLogger(log.Named("collector")),
	)

	if err := c.Run(ctx); err != nil {
		log.Error(ctx, "collector stopped with error", logger.Error(err))
		os.Exit(1)
	}

	log.Info(ctx, "collector stopped")
}
