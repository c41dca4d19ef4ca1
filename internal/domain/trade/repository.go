package trade

import (
	"context"
	"time"

	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
)

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SalesOrder, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SalesOrder, int64, error)
	// SoldProductIDs returns the distinct products on the customer's lines of
	// orders in sale state, excluding down payment and expense lines.
	SoldProductIDs(ctx context.Context, tenantID, customerID uuid.UUID) ([]uuid.UUID, error)
	// NextOrderNumber returns a new, unused order number.
	NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
	Save(ctx context.Context, order *SalesOrder) error
}

// SaleOrderRequestRepository persists sale order requests with their lines.
type SaleOrderRequestRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SaleOrderRequest, error)
	// Save upserts the request and replaces its lines.
	Save(ctx context.Context, request *SaleOrderRequest) error
	// FindStale returns requests of every tenant not updated since before.
	FindStale(ctx context.Context, before time.Time, limit int) ([]SaleOrderRequest, error)
	// DeleteByIDs removes requests and, by cascade, their lines.
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}
