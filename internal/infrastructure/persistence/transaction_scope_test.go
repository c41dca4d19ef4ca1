package persistence

import (
	"context"
	"errors"
	"testing"

	apptrade "github.com/erp/ecocare/internal/application/trade"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/erp/ecocare/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTradeTransactionScope(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTradeTransactionScope(db)
	ctx := context.Background()
	tenantID := uuid.New()

	newOrder := func(number string) *trade.SalesOrder {
		o, err := trade.NewSalesOrder(tenantID, number, uuid.New())
		require.NoError(t, err)
		_, err = o.AddLine(uuid.New(), uuid.New(), decimal.NewFromInt(1))
		require.NoError(t, err)
		return o
	}

	t.Run("commits every write", func(t *testing.T) {
		order := newOrder("SO-OK")
		req := trade.NewSaleOrderRequest(tenantID, nil)
		err := scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
			if err := repos.SalesOrderRepo().Save(ctx, order); err != nil {
				return err
			}
			return repos.RequestRepo().Save(ctx, req)
		})
		require.NoError(t, err)

		_, err = NewGormSalesOrderRepository(db).FindByIDForTenant(ctx, tenantID, order.ID)
		assert.NoError(t, err)
		_, err = NewGormSaleOrderRequestRepository(db).FindByIDForTenant(ctx, tenantID, req.ID)
		assert.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		order := newOrder("SO-FAIL")
		boom := errors.New("boom")
		err := scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
			if err := repos.SalesOrderRepo().Save(ctx, order); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = NewGormSalesOrderRepository(db).FindByIDForTenant(ctx, tenantID, order.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
