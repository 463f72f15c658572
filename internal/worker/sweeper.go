// Package worker hosts the long-lived background goroutines of the
// server process.
package worker

import (
	"context"
	"log"
	"time"
)

// expiredReleaser is the single repository call the sweeper needs.
type expiredReleaser interface {
	ReleaseExpired(ctx context.Context) (int64, error)
}

// Sweeper periodically returns tickets with lapsed reservation holds to
// AVAILABLE.  Each cycle is one batch conditional update; the status
// guard inside it keeps the sweep safe against purchases and
// cancellations committing on the same rows at the same moment.
type Sweeper struct {
	tickets  expiredReleaser
	interval time.Duration
}

// NewSweeper wires a Sweeper that wakes every interval.
func NewSweeper(tickets expiredReleaser, interval time.Duration) *Sweeper {
	return &Sweeper{tickets: tickets, interval: interval}
}

// Run blocks until ctx is cancelled, sweeping once per interval.  A
// failed cycle is logged and the loop continues; the next tick retries
// naturally.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	log.Printf("sweeper: started, interval %s", s.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("sweeper: stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.tickets.ReleaseExpired(ctx)
	if err != nil {
		log.Printf("sweeper: release expired failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("sweeper: released %d expired reservations", n)
	}
}
