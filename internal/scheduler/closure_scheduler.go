package scheduler

import (
	"sync"
	"time"

	"auction-platform/internal/clock"
	"auction-platform/internal/repository"
	"auction-platform/utils"
)

// Settler drives one auction through settlement.
type Settler interface {
	Settle(auctionID string) error
}

// ClosureScheduler periodically discovers auctions whose end time has passed
// without settlement and settles each exactly once. A failure on one auction
// never blocks the rest of the sweep; the failed auction stays unsettled and
// is picked up again on the next interval.
type ClosureScheduler struct {
	repo     repository.AuctionDB
	settler  Settler
	clk      clock.Clock
	interval time.Duration

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewClosureScheduler creates a new ClosureScheduler instance
func NewClosureScheduler(repo repository.AuctionDB, settler Settler, clk clock.Clock, interval time.Duration) *ClosureScheduler {
	return &ClosureScheduler{
		repo:     repo,
		settler:  settler,
		clk:      clk,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine.
func (s *ClosureScheduler) Start() {
	utils.Info("scheduler: closure sweep started", map[string]any{"interval": s.interval.String()})
	go s.run()
}

// Stop terminates the sweep loop and waits for the current sweep to finish.
func (s *ClosureScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
	utils.Info("scheduler: closure sweep stopped", nil)
}

func (s *ClosureScheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep settles every expired, unsettled auction found at this instant.
// Exported so tests and operational tooling can drive it deterministically.
func (s *ClosureScheduler) Sweep() {
	now := s.clk.Now()
	due, err := s.repo.ListExpiredUnsettled(now)
	if err != nil {
		utils.Error("scheduler: failed to list ended auctions", map[string]any{"error": err.Error()})
		return
	}
	if len(due) == 0 {
		return
	}

	utils.Info("scheduler: processing ended auctions", map[string]any{"count": len(due)})
	for _, a := range due {
		// per-item isolation: one broken auction must not starve the rest
		if err := s.settler.Settle(a.AuctionID); err != nil {
			utils.Error("scheduler: failed to settle auction", map[string]any{
				"auction_id": a.AuctionID,
				"title":      a.Title,
				"error":      err.Error(),
			})
		}
	}
}
