// Package scheduler runs the background jobs of the symptoms API: expiring
// idle chat sessions from stores that do not expire them on their own, and
// keeping the session gauge current.
package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/giygas/symptoms-api/interfaces"
	"github.com/giygas/symptoms-api/logging"
	"github.com/giygas/symptoms-api/metrics"
	"github.com/go-co-op/gocron"
)

// ErrInvalidInterval is returned by Start when the sweep interval is not positive
var ErrInvalidInterval = errors.New("sweep interval must be positive")

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler periodically sweeps expired sessions using dependency injection
type Scheduler struct {
	sweeper   interfaces.SessionSweeper
	interval  time.Duration
	scheduler *gocron.Scheduler
	now       func() time.Time
}

// NewScheduler creates a scheduler for sweeper. A nil sweeper means the
// session store expires entries itself and no job is scheduled.
func NewScheduler(sweeper interfaces.SessionSweeper, interval time.Duration) *Scheduler {
	return &Scheduler{
		sweeper:   sweeper,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.Local),
		now:       time.Now,
	}
}

// Start schedules the sweep job. The first sweep runs immediately.
func (s *Scheduler) Start() error {
	if s.sweeper == nil {
		logging.Info("Session store expires sessions itself, sweeper not started")
		return nil
	}
	if s.interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, s.interval)
	}

	_, err := s.scheduler.Every(s.interval).Do(s.sweep)
	if err != nil {
		logging.Error("Failed to schedule session sweeper", "error", err)
		return fmt.Errorf("failed to schedule session sweeper: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Session sweeper started", "interval", s.interval.String())

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) sweep() {
	start := s.now()
	removed := s.sweeper.Sweep(start)
	remaining := s.sweeper.Len()

	metrics.SessionsActive.Set(float64(remaining))

	if removed > 0 {
		logging.Info("Expired sessions removed",
			"removed", removed,
			"remaining", remaining,
			"duration", time.Since(start).String())
	}
}
