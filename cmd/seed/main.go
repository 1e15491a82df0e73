package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/snappulse/snappulse/internal/seed"
	"github.com/snappulse/snappulse/pkg/logger"
)

const defaultTimeout = 30 * time.Second

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8000", "Base URL of the api service")
		snaps   = flag.String("snaps", "", "Comma-separated snap list (default: built-in demo set)")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts []seed.Option
	if *snaps != "" {
		var list []string
		for _, s := range strings.Split(*snaps, ",") {
			if s = strings.TrimSpace(s); s != "" {
				list = append(list, s)
			}
		}
		opts = append(opts, seed.WithSnaps(list))
	}

	runner := seed.NewRunner(*baseURL, *timeout, opts...)
	if err := runner.Run(ctx); err != nil {
		os.Stderr.WriteString("seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
