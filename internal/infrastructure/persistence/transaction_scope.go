package persistence

import (
	"context"

	appcatalog "github.com/erp/ecocare/internal/application/catalog"
	apptrade "github.com/erp/ecocare/internal/application/trade"
	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/trade"
	"gorm.io/gorm"
)

// GormCatalogTransactionScope implements the catalog TransactionScope using GORM transactions.
type GormCatalogTransactionScope struct {
	db *gorm.DB
}

// NewGormCatalogTransactionScope creates a new GormCatalogTransactionScope.
func NewGormCatalogTransactionScope(db *gorm.DB) *GormCatalogTransactionScope {
	return &GormCatalogTransactionScope{db: db}
}

// Execute runs fn within a database transaction. If fn returns an error the
// transaction is rolled back, otherwise it is committed.
func (s *GormCatalogTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormTradeTransactionScope implements the trade TransactionScope using GORM transactions.
type GormTradeTransactionScope struct {
	db *gorm.DB
}

// NewGormTradeTransactionScope creates a new GormTradeTransactionScope.
func NewGormTradeTransactionScope(db *gorm.DB) *GormTradeTransactionScope {
	return &GormTradeTransactionScope{db: db}
}

func (s *GormTradeTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) SalesOrderRepo() trade.SalesOrderRepository {
	return NewGormSalesOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) RequestRepo() trade.SaleOrderRequestRepository {
	return NewGormSaleOrderRequestRepository(r.tx)
}

var (
	_ appcatalog.TransactionScope          = (*GormCatalogTransactionScope)(nil)
	_ apptrade.TransactionScope            = (*GormTradeTransactionScope)(nil)
	_ appcatalog.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ apptrade.TransactionalRepositories   = (*gormTransactionalRepositories)(nil)
)
