package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	tradeapp "github.com/erp/ecocare/internal/application/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
	block chan struct{}
}

func (r *countingRunner) Run(ctx context.Context) (tradeapp.VacuumResult, error) {
	r.calls.Add(1)
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return tradeapp.VacuumResult{}, ctx.Err()
		}
	}
	return tradeapp.VacuumResult{Scanned: 2, Deleted: 2}, r.err
}

func TestVacuumScheduler_RunsOnInterval(t *testing.T) {
	runner := &countingRunner{}
	s := NewVacuumScheduler(runner, zap.NewNop(), VacuumSchedulerConfig{Enabled: true, Interval: 10 * time.Millisecond})

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.Eventually(t, func() bool { return runner.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())
}

func TestVacuumScheduler_Disabled(t *testing.T) {
	runner := &countingRunner{}
	s := NewVacuumScheduler(runner, zap.NewNop(), VacuumSchedulerConfig{Enabled: false, Interval: time.Millisecond})
	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
	require.NoError(t, s.Stop(context.Background()))
}

func TestVacuumScheduler_InvalidInterval(t *testing.T) {
	s := NewVacuumScheduler(&countingRunner{}, zap.NewNop(), VacuumSchedulerConfig{Enabled: true})
	assert.ErrorIs(t, s.Start(context.Background()), ErrInvalidConfig)
}

func TestVacuumScheduler_RunNow(t *testing.T) {
	t.Run("returns the result", func(t *testing.T) {
		s := NewVacuumScheduler(&countingRunner{}, zap.NewNop(), DefaultVacuumSchedulerConfig())
		result, err := s.RunNow(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Deleted)
	})

	t.Run("propagates errors", func(t *testing.T) {
		s := NewVacuumScheduler(&countingRunner{err: errors.New("db down")}, zap.NewNop(), DefaultVacuumSchedulerConfig())
		_, err := s.RunNow(context.Background())
		assert.ErrorContains(t, err, "db down")
	})

	t.Run("refuses overlapping runs", func(t *testing.T) {
		runner := &countingRunner{block: make(chan struct{})}
		s := NewVacuumScheduler(runner, zap.NewNop(), DefaultVacuumSchedulerConfig())
		done := make(chan struct{})
		go func() {
			_, _ = s.RunNow(context.Background())
			close(done)
		}()
		require.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, time.Millisecond)

		_, err := s.RunNow(context.Background())
		assert.ErrorIs(t, err, ErrRunInProgress)

		close(runner.block)
		<-done
	})
}
