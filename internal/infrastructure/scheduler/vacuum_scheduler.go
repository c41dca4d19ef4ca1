// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	tradeapp "github.com/erp/ecocare/internal/application/trade"
	"go.uber.org/zap"
)

// VacuumRunner removes stale sale order requests.
type VacuumRunner interface {
	Run(ctx context.Context) (tradeapp.VacuumResult, error)
}

// VacuumSchedulerConfig holds configuration for the vacuum scheduler
type VacuumSchedulerConfig struct {
	Enabled  bool
	Interval time.Duration
	// Timeout bounds a single run.
	Timeout time.Duration
}

// DefaultVacuumSchedulerConfig returns default configuration
func DefaultVacuumSchedulerConfig() VacuumSchedulerConfig {
	return VacuumSchedulerConfig{
		Enabled:  true,
		Interval: 10 * time.Minute,
		Timeout:  5 * time.Minute,
	}
}

// VacuumScheduler runs the request vacuum on a fixed interval.
type VacuumScheduler struct {
	runner  VacuumRunner
	logger  *zap.Logger
	config  VacuumSchedulerConfig
	running atomic.Bool

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

func NewVacuumScheduler(runner VacuumRunner, logger *zap.Logger, config VacuumSchedulerConfig) *VacuumScheduler {
	return &VacuumScheduler{
		runner: runner,
		logger: logger,
		config: config,
	}
}

// Start launches the ticker loop. A disabled scheduler does nothing.
func (s *VacuumScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	if !s.config.Enabled {
		s.logger.Info("Vacuum scheduler is disabled")
		return nil
	}
	if s.config.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Vacuum scheduler started", zap.Duration("interval", s.config.Interval))
	return nil
}

// Stop cancels the loop and waits for the current run, bounded by ctx.
func (s *VacuumScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.logger.Info("Vacuum scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Vacuum scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active.
func (s *VacuumScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *VacuumScheduler) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunNow(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("Vacuum run failed", zap.Error(err))
			}
		}
	}
}

// RunNow performs one vacuum run. Overlapping runs are refused.
func (s *VacuumScheduler) RunNow(ctx context.Context) (tradeapp.VacuumResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return tradeapp.VacuumResult{}, ErrRunInProgress
	}
	defer s.running.Store(false)

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}
	start := time.Now()
	result, err := s.runner.Run(ctx)
	if err != nil {
		return result, err
	}
	s.logger.Debug("Vacuum run completed",
		zap.Int("scanned", result.Scanned),
		zap.Int64("deleted", result.Deleted),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}
