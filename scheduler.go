package webspec

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// Scheduler drives periodic batch runs. It fires the registered callback
// once on start, then again every interval until stopped. In run-once mode
// the callback fires exactly once and the scheduler never spawns a goroutine.
type Scheduler struct {
	interval time.Duration
	runOnce  bool
	logger   log.Logger
	callback func() error

	running atomic.Bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler. Register a callback before starting.
func NewScheduler(interval time.Duration, runOnce bool, logger log.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		runOnce:  runOnce,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// RegisterCallback registers the function to call on every tick.
func (s *Scheduler) RegisterCallback(callback func() error) {
	s.callback = callback
}

// Start runs the callback immediately, then keeps re-running it at the
// configured interval. The first run's error is returned synchronously;
// errors from periodic runs are logged and swallowed so one bad cycle does
// not kill the service.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.callback == nil {
		return errors.New("callback must be registered before starting scheduler")
	}

	s.done = make(chan struct{})
	s.running.Store(true)

	if s.runOnce {
		s.logger.Info("Starting scheduler in run-once mode")
		return s.callback()
	}

	s.logger.Info("Starting scheduler in continuous mode", "interval", s.interval)

	if err := s.callback(); err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-time.After(s.interval):
				if !s.running.Load() {
					return
				}
				s.logger.Info("Running periodic batch")
				if err := s.callback(); err != nil {
					s.logger.Error("Error running periodic batch", "error", err)
				}

			case <-s.done:
				s.logger.Debug("Done signal received, stopping periodic runner")
				return

			case <-ctx.Done():
				s.logger.Debug("Context canceled, stopping periodic runner")
				s.running.Store(false)
				return
			}
		}
	}()

	return nil
}

// Stop signals the periodic goroutine to exit. Safe to call twice.
func (s *Scheduler) Stop() error {
	if !s.running.Load() {
		return nil
	}
	s.running.Store(false)
	close(s.done)
	return nil
}

// Stopped returns true once the scheduler is no longer running.
func (s *Scheduler) Stopped() bool {
	return !s.running.Load()
}

// WaitForShutdown blocks until the periodic goroutine has terminated or the
// context expires.
func (s *Scheduler) WaitForShutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.logger.Warn("Timed out waiting for scheduler to terminate", "error", ctx.Err())
		return ctx.Err()
	}
}
