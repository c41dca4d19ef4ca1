package catalog

import (
	"context"

	"github.com/erp/ecocare/internal/domain/catalog"
)

// TransactionScope provides transactional access to catalog repositories.
// All repository operations run by fn are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to repositories bound to the current transaction.
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// It is used in tests and where no transaction support is available.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope.
func NewNoOpTransactionScope(productRepo catalog.ProductRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{productRepo: productRepo}
}

func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
