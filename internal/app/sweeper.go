package app

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically expires events that are past their joinable
// lifetime, releasing the capacity of their remaining confirmed games.
type Sweeper struct {
	events   *EventService
	interval time.Duration
	logger   *log.Logger
}

func NewSweeper(events *EventService, interval time.Duration, logger *log.Logger) *Sweeper {
	if logger == nil {
		logger = log.Default()
	}
	return &Sweeper{
		events:   events,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps on the configured interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.events.ExpireEvents(ctx)
			if err != nil {
				s.logger.Printf("WARN: expiry sweep: %v", err)
				continue
			}
			if n > 0 {
				s.logger.Printf("expiry sweep: expired %d games", n)
			}
		}
	}
}
