package trade

import (
	"context"

	"github.com/erp/ecocare/internal/domain/trade"
)

// TransactionScope provides transactional access to trade repositories.
// When a function is executed within a transaction scope, all repository operations
// are committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the trade repositories bound to one transaction.
type TransactionalRepositories interface {
	SalesOrderRepo() trade.SalesOrderRepository
	RequestRepo() trade.SaleOrderRequestRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	orderRepo   trade.SalesOrderRepository
	requestRepo trade.SaleOrderRequestRepository
}

func NewNoOpTransactionScope(orderRepo trade.SalesOrderRepository, requestRepo trade.SaleOrderRequestRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orderRepo: orderRepo, requestRepo: requestRepo}
}

func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) SalesOrderRepo() trade.SalesOrderRepository { return s.orderRepo }

func (s *NoOpTransactionScope) RequestRepo() trade.SaleOrderRequestRepository { return s.requestRepo }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
