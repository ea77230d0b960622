package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dlavarnway/wicket/internal/metrics"
)

// TimeoutFunc returns the current idle timeout. It is consulted on every
// sweep so configuration changes take effect without a restart. An error
// means the timeout is unavailable and the sweep is skipped.
type TimeoutFunc func() (time.Duration, error)

// Sweeper periodically evicts idle sessions from a Store so that abandoned
// sessions are freed without waiting for traffic to trigger the check.
//
// Start and Stop are both idempotent: a running sweeper ignores further
// Start calls (there is never a second timer), and Stop on a stopped
// sweeper is a no-op.
type Sweeper struct {
	store    *Store
	timeout  TimeoutFunc
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewSweeper creates a sweeper over store. The sweeper does not run until
// Start is called.
func NewSweeper(store *Store, timeout TimeoutFunc, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		timeout:  timeout,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the recurring sweep. Calling Start on a running sweeper
// has no effect.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh != nil {
		return
	}

	s.stopCh = make(chan struct{})
	s.wg.Add(1)
	go s.run(s.stopCh)

	s.logger.Info("Session sweeper started", "interval", s.interval)
}

// Stop cancels the recurring sweep and waits for the current pass, if any,
// to finish. Safe to call multiple times.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if s.stopCh == nil {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	s.stopCh = nil
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("Session sweeper stopped")
}

func (s *Sweeper) run(stopCh chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep runs one eviction pass: it reads the current timeout and deletes
// every session idle strictly longer than that. It never fails; if the
// timeout is unavailable the pass is skipped. Exposed so tests and
// operators can trigger a deterministic sweep.
func (s *Sweeper) Sweep() int {
	timeout, err := s.timeout()
	if err != nil {
		s.logger.Warn("Skipping session sweep, timeout unavailable", "error", err)
		return 0
	}

	removed := s.store.DeleteExpired(timeout)
	if removed > 0 {
		metrics.SessionsSwept.Add(float64(removed))
		s.logger.Info("Swept expired sessions", "removed", removed, "timeout", timeout)
	}
	return removed
}
