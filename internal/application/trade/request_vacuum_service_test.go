package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/ecocare/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequestVacuumService_Run(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)

	t.Run("archives done requests and deletes all stale ones", func(t *testing.T) {
		repo := new(MockSaleOrderRequestRepository)
		archiver := new(MockArchiver)
		draft := trade.NewSaleOrderRequest(uuid.New(), nil)
		done := trade.NewSaleOrderRequest(uuid.New(), nil)
		done.State = trade.RequestStateDone

		repo.On("FindStale", ctx, before, 10).Return([]trade.SaleOrderRequest{*draft, *done}, nil)
		archiver.On("Archive", ctx, mock.MatchedBy(func(r *trade.SaleOrderRequest) bool { return r.ID == done.ID })).Return(nil)
		repo.On("DeleteByIDs", ctx, []uuid.UUID{draft.ID, done.ID}).Return(int64(2), nil)

		svc := NewRequestVacuumService(repo, archiver, time.Hour, 10, zap.NewNop())
		svc.now = func() time.Time { return now }
		result, err := svc.Run(ctx)

		require.NoError(t, err)
		assert.Equal(t, VacuumResult{Scanned: 2, Archived: 1, Deleted: 2}, result)
		archiver.AssertNumberOfCalls(t, "Archive", 1)
	})

	t.Run("keeps requests whose archive failed", func(t *testing.T) {
		repo := new(MockSaleOrderRequestRepository)
		archiver := new(MockArchiver)
		done := trade.NewSaleOrderRequest(uuid.New(), nil)
		done.State = trade.RequestStateDone

		repo.On("FindStale", ctx, before, 10).Return([]trade.SaleOrderRequest{*done}, nil)
		archiver.On("Archive", ctx, mock.Anything).Return(errors.New("bucket unavailable"))

		svc := NewRequestVacuumService(repo, archiver, time.Hour, 10, zap.NewNop())
		svc.now = func() time.Time { return now }
		result, err := svc.Run(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(0), result.Deleted)
		repo.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything)
	})

	t.Run("continues with full batches", func(t *testing.T) {
		repo := new(MockSaleOrderRequestRepository)
		a := trade.NewSaleOrderRequest(uuid.New(), nil)
		b := trade.NewSaleOrderRequest(uuid.New(), nil)

		repo.On("FindStale", ctx, before, 1).Return([]trade.SaleOrderRequest{*a}, nil).Once()
		repo.On("FindStale", ctx, before, 1).Return([]trade.SaleOrderRequest{*b}, nil).Once()
		repo.On("FindStale", ctx, before, 1).Return([]trade.SaleOrderRequest{}, nil).Once()
		repo.On("DeleteByIDs", ctx, mock.Anything).Return(int64(1), nil)

		svc := NewRequestVacuumService(repo, nil, time.Hour, 1, zap.NewNop())
		svc.now = func() time.Time { return now }
		result, err := svc.Run(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Deleted)
		repo.AssertNumberOfCalls(t, "FindStale", 3)
	})
}
