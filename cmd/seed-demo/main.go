package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/velamar/crewops/internal/seed"
	"github.com/velamar/crewops/pkg/logger"
)

// Default configuration constants.
const (
	defaultVessels = 3
	defaultCrew    = 24
	defaultDays    = 21
	defaultTimeout = 10 * time.Second
	runTimeout     = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		vessels = flag.Int("vessels", defaultVessels, "Number of vessels to create")
		crew    = flag.Int("crew", defaultCrew, "Number of crew members to create")
		days    = flag.Int("days", defaultDays, "Days of work/rest history per crew member")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if _, err := seed.Run(ctx, &seed.Config{
		BaseURL: *baseURL,
		Vessels: *vessels,
		Crew:    *crew,
		Days:    *days,
		Timeout: *timeout,
	}); err != nil {
		logger.Get().Error(ctx, "seeding failed", logger.Error(err))
		os.Exit(1)
	}
}
